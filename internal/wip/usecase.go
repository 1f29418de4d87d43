package wip

import (
	"context"

	"github.com/fekuna/omnipos-mrp-service/internal/model"
	"github.com/fekuna/omnipos-mrp-service/internal/wip/dto"
)

type UseCase interface {
	// CreateBatch deducts every raw material and records the batch in one
	// transaction; any failure leaves stock untouched.
	CreateBatch(ctx context.Context, input *dto.CreateBatchInput) (*dto.BatchSummary, error)
	// CompleteBatch records the final status and, for "completed", credits
	// every output line.
	CompleteBatch(ctx context.Context, input *dto.CompleteBatchInput) (*dto.BatchSummary, error)
	GetBatch(ctx context.Context, batchNumber string) (*model.WipBatch, error)
	ListBatches(ctx context.Context, filters *dto.BatchFilters) ([]model.WipBatch, int, error)
}
