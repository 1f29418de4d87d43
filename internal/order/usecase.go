package order

import (
	"context"

	"github.com/fekuna/omnipos-mrp-service/internal/model"
	"github.com/fekuna/omnipos-mrp-service/internal/order/dto"
)

type UseCase interface {
	CreateOrder(ctx context.Context, input *dto.CreateOrderInput) (*model.Order, error)
	GetOrder(ctx context.Context, orderID string) (*dto.OrderView, error)
	ListOrders(ctx context.Context, filters *dto.OrderFilters) ([]dto.OrderView, int, error)
	TransitionOrder(ctx context.Context, input *dto.TransitionInput) (*dto.TransitionResult, error)
	DeleteOrder(ctx context.Context, orderID string) (*model.Order, error)
	DeleteAllQuotations(ctx context.Context) (int, error)
}
