package inventory

import (
	"context"

	"github.com/fekuna/omnipos-mrp-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-mrp-service/internal/model"
)

// Repository stores the stock movement journal.
type Repository interface {
	LogMovement(ctx context.Context, movement *model.StockMovement) error
	ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.StockMovement, int, error)
}
