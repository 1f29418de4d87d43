package order

import (
	"context"

	"github.com/fekuna/omnipos-mrp-service/internal/model"
	"github.com/fekuna/omnipos-mrp-service/internal/order/dto"
)

type Repository interface {
	Create(ctx context.Context, order *model.Order) error
	FindByID(ctx context.Context, orderID string) (*model.Order, error)
	FindAll(ctx context.Context, filters *dto.OrderFilters) ([]model.Order, int, error)
	// Update persists status and line items.
	Update(ctx context.Context, order *model.Order) error
	Delete(ctx context.Context, orderID string) (bool, error)
	DeleteByStatus(ctx context.Context, status model.OrderStatus) (int, error)
}
