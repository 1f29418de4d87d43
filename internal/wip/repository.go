package wip

import (
	"context"

	"github.com/fekuna/omnipos-mrp-service/internal/model"
	"github.com/fekuna/omnipos-mrp-service/internal/wip/dto"
)

type Repository interface {
	Create(ctx context.Context, batch *model.WipBatch) error
	FindByBatchNumber(ctx context.Context, batchNumber string) (*model.WipBatch, error)
	FindAll(ctx context.Context, filters *dto.BatchFilters) ([]model.WipBatch, int, error)
	Update(ctx context.Context, batch *model.WipBatch) error
}
