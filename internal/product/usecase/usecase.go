package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/fekuna/omnipos-mrp-service/internal/apperror"
	"github.com/fekuna/omnipos-mrp-service/internal/database"
	"github.com/fekuna/omnipos-mrp-service/internal/inventory"
	invdto "github.com/fekuna/omnipos-mrp-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-mrp-service/internal/model"
	"github.com/fekuna/omnipos-mrp-service/internal/product"
	"github.com/fekuna/omnipos-mrp-service/internal/product/dto"
	"github.com/fekuna/omnipos-mrp-service/internal/validation"
	"github.com/fekuna/omnipos-mrp-service/pkg/logger"
)

const searchLimit = 100

type productUseCase struct {
	repo     product.Repository
	ledger   inventory.Ledger
	tx       database.Transactor
	index    product.SearchIndex
	validate *validation.Validator
	logger   logger.ZapLogger
}

// NewProductUseCase builds the catalog use case. index may be nil, in which
// case search falls back to the repository.
func NewProductUseCase(repo product.Repository, ledger inventory.Ledger, tx database.Transactor, index product.SearchIndex, log logger.ZapLogger) product.UseCase {
	return &productUseCase{
		repo:     repo,
		ledger:   ledger,
		tx:       tx,
		index:    index,
		validate: validation.New(),
		logger:   log,
	}
}

func (uc *productUseCase) CreateProduct(ctx context.Context, input *dto.CreateProductInput) (*model.Product, error) {
	if err := uc.validate.Struct(input); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	p := &model.Product{
		ProductCode:   input.ProductCode,
		Name:          input.Name,
		Description:   input.Description,
		Weight:        input.Weight,
		Price:         input.Price,
		Category:      input.Category,
		IsRawMaterial: input.IsRawMaterial,
		CreatedAt:     now,
		LastUpdated:   now,
	}

	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		existing, err := uc.repo.FindByCode(ctx, input.ProductCode)
		if err != nil {
			return apperror.Internal("failed to check product code", err)
		}
		if existing != nil {
			return apperror.Conflict("product with code %s already exists", input.ProductCode)
		}

		if err := uc.repo.Create(ctx, p); err != nil {
			if apperror.KindOf(err) == apperror.KindConflict {
				return err
			}
			return apperror.Internal("failed to create product", err)
		}

		if input.Quantity.IsZero() {
			return nil
		}
		// Opening stock goes through the ledger so it is journalled.
		credited, err := uc.ledger.ApplyDeltaClamped(ctx, p.ProductCode, input.Quantity, invdto.MovementRef{
			Type:  model.MovementInitial,
			Notes: "Opening stock",
		})
		if err != nil {
			return err
		}
		p = credited
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.syncToIndex(ctx, p)
	return p, nil
}

func (uc *productUseCase) GetProduct(ctx context.Context, code string) (*model.Product, error) {
	p, err := uc.repo.FindByCode(ctx, code)
	if err != nil {
		return nil, apperror.Internal("failed to get product", err)
	}
	if p == nil {
		return nil, apperror.NotFound("product %s not found", code)
	}
	return p, nil
}

func (uc *productUseCase) ListProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error) {
	if filters.SearchQuery != "" && uc.index != nil {
		codes, err := uc.index.SearchCodes(ctx, filters.SearchQuery, searchLimit)
		if err != nil {
			uc.logger.Warn("product search failed, falling back to database", zap.String("query", filters.SearchQuery), zap.Error(err))
		} else {
			narrowed := *filters
			narrowed.SearchQuery = ""
			narrowed.Codes = codes
			filters = &narrowed
		}
	}

	products, total, err := uc.repo.FindAll(ctx, filters)
	if err != nil {
		return nil, 0, apperror.Internal("failed to list products", err)
	}
	return products, total, nil
}

func (uc *productUseCase) UpdateProduct(ctx context.Context, input *dto.UpdateProductInput) (*model.Product, error) {
	if err := uc.validate.Struct(input); err != nil {
		return nil, err
	}
	return uc.ledger.SetAbsolute(ctx, input.ProductCode, input.Patch())
}

func (uc *productUseCase) DeleteProduct(ctx context.Context, code string) error {
	deleted, err := uc.repo.Delete(ctx, code)
	if err != nil {
		return apperror.Internal("failed to delete product", err)
	}
	if !deleted {
		return apperror.NotFound("product %s not found", code)
	}

	if uc.index != nil {
		if err := uc.index.DeleteProduct(ctx, code); err != nil {
			uc.logger.Warn("failed to remove product from search index", zap.String("product_code", code), zap.Error(err))
		}
	}
	return nil
}

func (uc *productUseCase) syncToIndex(ctx context.Context, p *model.Product) {
	if uc.index == nil {
		return
	}
	if err := uc.index.IndexProduct(ctx, p); err != nil {
		uc.logger.Warn("failed to index product", zap.String("product_code", p.ProductCode), zap.Error(err))
	}
}
