package product

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fekuna/omnipos-mrp-service/internal/model"
	"github.com/fekuna/omnipos-mrp-service/internal/product/dto"
)

type Repository interface {
	Create(ctx context.Context, product *model.Product) error
	// FindByCode returns (nil, nil) when the code is unknown. Inside a
	// transaction the row stays locked until commit.
	FindByCode(ctx context.Context, code string) (*model.Product, error)
	FindAll(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error)
	Update(ctx context.Context, product *model.Product) error
	UpdateQuantity(ctx context.Context, code string, quantity decimal.Decimal, at time.Time) error
	// DecrementIfAvailable subtracts amount only when the stored quantity
	// covers it and reports whether the row changed.
	DecrementIfAvailable(ctx context.Context, code string, amount decimal.Decimal, at time.Time) (bool, error)
	Delete(ctx context.Context, code string) (bool, error)
}

// SearchIndex is the full-text product index. Hits are product codes; the
// caller re-reads rows from the Repository.
type SearchIndex interface {
	IndexProduct(ctx context.Context, p *model.Product) error
	DeleteProduct(ctx context.Context, code string) error
	SearchCodes(ctx context.Context, query string, limit int) ([]string, error)
}
