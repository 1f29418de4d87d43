package usecase

import (
	"context"

	"go.uber.org/zap"

	"github.com/fekuna/omnipos-mrp-service/internal/apperror"
	"github.com/fekuna/omnipos-mrp-service/internal/events"
	"github.com/fekuna/omnipos-mrp-service/internal/inventory"
	"github.com/fekuna/omnipos-mrp-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-mrp-service/internal/lock"
	"github.com/fekuna/omnipos-mrp-service/internal/model"
	"github.com/fekuna/omnipos-mrp-service/internal/validation"
	"github.com/fekuna/omnipos-mrp-service/pkg/logger"
)

type inventoryUseCase struct {
	ledger    inventory.Ledger
	repo      inventory.Repository
	locker    lock.Locker
	publisher events.Publisher
	validate  *validation.Validator
	logger    logger.ZapLogger
}

func NewInventoryUseCase(ledger inventory.Ledger, repo inventory.Repository, locker lock.Locker, publisher events.Publisher, log logger.ZapLogger) inventory.UseCase {
	return &inventoryUseCase{
		ledger:    ledger,
		repo:      repo,
		locker:    locker,
		publisher: publisher,
		validate:  validation.New(),
		logger:    log,
	}
}

func (uc *inventoryUseCase) AdjustStock(ctx context.Context, input *dto.AdjustStockInput) (*model.Product, error) {
	if err := uc.validate.Struct(input); err != nil {
		return nil, err
	}

	release, err := uc.locker.Acquire(ctx, lock.ProductKey(input.ProductCode))
	if err != nil {
		return nil, apperror.Internal("system busy, please try again later", err)
	}
	defer release()

	referenceType := input.ReferenceType
	if referenceType == "" {
		referenceType = "manual_adjustment"
	}

	p, err := uc.ledger.ApplyDelta(ctx, input.ProductCode, input.Quantity, input.Details(), dto.MovementRef{
		Type:          model.MovementAdjustment,
		ReferenceType: referenceType,
		ReferenceID:   input.ReferenceID,
		Notes:         input.Reason,
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("stock adjusted",
		zap.String("product_code", p.ProductCode),
		zap.String("change", input.Quantity.String()),
		zap.String("quantity", p.Quantity.String()),
	)
	events.Emit(ctx, uc.publisher, uc.logger, events.New(events.StockAdjusted, p.ProductCode, map[string]any{
		"product_code": p.ProductCode,
		"change":       input.Quantity,
		"quantity":     p.Quantity,
		"reason":       input.Reason,
	}))

	return p, nil
}

func (uc *inventoryUseCase) ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.StockMovement, int, error) {
	movements, total, err := uc.repo.ListMovements(ctx, filters)
	if err != nil {
		return nil, 0, apperror.Internal("failed to list stock movements", err)
	}
	return movements, total, nil
}
