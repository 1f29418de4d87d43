package inventory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/fekuna/omnipos-mrp-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-mrp-service/internal/model"
)

// Ledger is the only writer of Product.Quantity. Every call joins the
// caller's transaction when there is one and journals a StockMovement.
type Ledger interface {
	Apply(ctx context.Context, delta dto.Delta) (*model.Product, error)
	// ApplyDelta adds delta, creating the product from fallback (or
	// placeholders) when the code is unknown.
	ApplyDelta(ctx context.Context, code string, delta decimal.Decimal, fallback *model.ProductDetails, ref dto.MovementRef) (*model.Product, error)
	// ApplyDeltaClamped adds delta with a floor of zero. Unknown codes are NotFound.
	ApplyDeltaClamped(ctx context.Context, code string, delta decimal.Decimal, ref dto.MovementRef) (*model.Product, error)
	RequireAvailable(ctx context.Context, code string, amount decimal.Decimal) (*model.Product, error)
	// Consume is the strict deduction: NotFound or InsufficientStock, never negative.
	Consume(ctx context.Context, code string, amount decimal.Decimal, ref dto.MovementRef) (*model.Product, error)
	SetAbsolute(ctx context.Context, code string, patch model.ProductPatch) (*model.Product, error)
}

type UseCase interface {
	AdjustStock(ctx context.Context, input *dto.AdjustStockInput) (*model.Product, error)
	ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.StockMovement, int, error)
}
