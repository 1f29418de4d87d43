package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/fekuna/omnipos-mrp-service/internal/apperror"
	"github.com/fekuna/omnipos-mrp-service/internal/database"
	"github.com/fekuna/omnipos-mrp-service/internal/events"
	"github.com/fekuna/omnipos-mrp-service/internal/inventory"
	invdto "github.com/fekuna/omnipos-mrp-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-mrp-service/internal/lock"
	"github.com/fekuna/omnipos-mrp-service/internal/model"
	"github.com/fekuna/omnipos-mrp-service/internal/validation"
	"github.com/fekuna/omnipos-mrp-service/internal/wip"
	"github.com/fekuna/omnipos-mrp-service/internal/wip/dto"
	"github.com/fekuna/omnipos-mrp-service/pkg/logger"
)

const outputDescription = "Auto-generated from WIP completion"

var dateLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"}

type wipUseCase struct {
	repo      wip.Repository
	ledger    inventory.Ledger
	tx        database.Transactor
	locker    lock.Locker
	publisher events.Publisher
	validate  *validation.Validator
	logger    logger.ZapLogger
}

func NewWipUseCase(repo wip.Repository, ledger inventory.Ledger, tx database.Transactor, locker lock.Locker, publisher events.Publisher, log logger.ZapLogger) wip.UseCase {
	return &wipUseCase{
		repo:      repo,
		ledger:    ledger,
		tx:        tx,
		locker:    locker,
		publisher: publisher,
		validate:  validation.New(),
		logger:    log,
	}
}

func (uc *wipUseCase) CreateBatch(ctx context.Context, input *dto.CreateBatchInput) (*dto.BatchSummary, error) {
	// 1. Validate before touching any stock
	if err := uc.validate.Struct(input); err != nil {
		return nil, err
	}
	status := model.WipStatus(input.Status)
	if status == model.WipCompleted || status == model.WipCancelled {
		return nil, apperror.Validation("status %q is not allowed for a new batch", status)
	}
	startDate, err := parseDate(input.StartDate)
	if err != nil {
		return nil, apperror.Validation("start_date %q is not a valid date", input.StartDate)
	}

	now := time.Now().UTC()
	batch := &model.WipBatch{
		BatchNumber:  input.BatchNumber,
		RawMaterials: dto.ToMaterialLines(input.RawMaterials),
		Output:       dto.ToMaterialLines(input.Output),
		Status:       status,
		StartDate:    startDate,
		BaseModel:    model.BaseModel{CreatedAt: now, UpdatedAt: now},
	}

	// 2. Lock the batch number and every material
	keys := append(lock.ProductKeys(batch.RawMaterials.Codes()), lock.BatchKey(batch.BatchNumber))
	release, err := uc.locker.Acquire(ctx, keys...)
	if err != nil {
		return nil, apperror.Internal("system busy, please try again later", err)
	}
	defer release()

	// 3. Deduct materials and record the batch atomically
	err = uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		existing, err := uc.repo.FindByBatchNumber(ctx, batch.BatchNumber)
		if err != nil {
			return apperror.Internal("failed to check batch number", err)
		}
		if existing != nil {
			return apperror.Conflict("batch %s already exists", batch.BatchNumber)
		}

		ref := invdto.MovementRef{
			Type:          model.MovementWIPConsume,
			ReferenceType: "wip_batch",
			ReferenceID:   batch.BatchNumber,
		}
		for _, m := range aggregate(batch.RawMaterials) {
			if _, err := uc.ledger.Consume(ctx, m.ProductCode, m.Quantity, ref); err != nil {
				if apperror.KindOf(err) == apperror.KindNotFound {
					return apperror.Validation("raw material %s not found", m.ProductCode)
				}
				return err
			}
		}

		if err := uc.repo.Create(ctx, batch); err != nil {
			if apperror.KindOf(err) == apperror.KindConflict {
				return err
			}
			return apperror.Internal("failed to create batch", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("wip batch created",
		zap.String("batch_number", batch.BatchNumber),
		zap.Int("raw_materials", len(batch.RawMaterials)),
	)
	events.Emit(ctx, uc.publisher, uc.logger, events.New(events.WipBatchCreated, batch.BatchNumber, batch))

	return dto.NewBatchSummary("WIP batch created successfully", batch), nil
}

func (uc *wipUseCase) CompleteBatch(ctx context.Context, input *dto.CompleteBatchInput) (*dto.BatchSummary, error) {
	if err := uc.validate.Struct(input); err != nil {
		return nil, err
	}

	status := model.WipStatus(input.Status)
	if status == "" {
		status = model.WipCompleted
	}
	if status == model.WipCancelled {
		return nil, apperror.Validation("status %q is not allowed", status)
	}
	if status == model.WipCompleted && len(input.Output) == 0 {
		return nil, apperror.Validation("output is required to complete a batch")
	}

	endDate := time.Now().UTC()
	if input.EndDate != "" {
		parsed, err := parseDate(input.EndDate)
		if err != nil {
			return nil, apperror.Validation("end_date %q is not a valid date", input.EndDate)
		}
		endDate = parsed
	}

	output := dto.ToMaterialLines(input.Output)
	keys := append(lock.ProductKeys(output.Codes()), lock.BatchKey(input.BatchNumber))
	release, err := uc.locker.Acquire(ctx, keys...)
	if err != nil {
		return nil, apperror.Internal("system busy, please try again later", err)
	}
	defer release()

	var batch *model.WipBatch
	err = uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		b, err := uc.repo.FindByBatchNumber(ctx, input.BatchNumber)
		if err != nil {
			return apperror.Internal("failed to load batch", err)
		}
		if b == nil {
			return apperror.NotFound("batch %s not found", input.BatchNumber)
		}
		if b.Status == model.WipCompleted {
			return apperror.InvalidTransition("batch %s is already completed", b.BatchNumber)
		}

		b.Status = status
		b.EndDate = &endDate
		if len(output) > 0 {
			b.Output = output
		}
		b.UpdatedAt = time.Now().UTC()
		if err := uc.repo.Update(ctx, b); err != nil {
			return apperror.Internal("failed to update batch", err)
		}

		if status == model.WipCompleted {
			ref := invdto.MovementRef{
				Type:          model.MovementWIPOutput,
				ReferenceType: "wip_batch",
				ReferenceID:   b.BatchNumber,
			}
			for _, o := range b.Output {
				fallback := &model.ProductDetails{
					Name:        o.ProductCode,
					Description: outputDescription,
					Weight:      decimal.Zero,
					Price:       decimal.Zero,
				}
				if _, err := uc.ledger.ApplyDelta(ctx, o.ProductCode, o.Quantity, fallback, ref); err != nil {
					return err
				}
			}
		}
		batch = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	message := "WIP batch updated successfully"
	if status == model.WipCompleted {
		message = "WIP batch completed successfully"
		events.Emit(ctx, uc.publisher, uc.logger, events.New(events.WipBatchCompleted, batch.BatchNumber, batch))
	}
	uc.logger.Info("wip batch updated",
		zap.String("batch_number", batch.BatchNumber),
		zap.String("status", string(batch.Status)),
	)

	return dto.NewBatchSummary(message, batch), nil
}

func (uc *wipUseCase) GetBatch(ctx context.Context, batchNumber string) (*model.WipBatch, error) {
	b, err := uc.repo.FindByBatchNumber(ctx, batchNumber)
	if err != nil {
		return nil, apperror.Internal("failed to get batch", err)
	}
	if b == nil {
		return nil, apperror.NotFound("batch %s not found", batchNumber)
	}
	return b, nil
}

func (uc *wipUseCase) ListBatches(ctx context.Context, filters *dto.BatchFilters) ([]model.WipBatch, int, error) {
	batches, total, err := uc.repo.FindAll(ctx, filters)
	if err != nil {
		return nil, 0, apperror.Internal("failed to list batches", err)
	}
	return batches, total, nil
}

// aggregate sums repeated codes so a material listed twice is checked
// against its combined requirement.
func aggregate(lines model.MaterialLines) model.MaterialLines {
	index := make(map[string]int, len(lines))
	out := make(model.MaterialLines, 0, len(lines))
	for _, l := range lines {
		if i, ok := index[l.ProductCode]; ok {
			out[i].Quantity = out[i].Quantity.Add(l.Quantity)
			continue
		}
		index[l.ProductCode] = len(out)
		out = append(out, l)
	}
	return out
}

func parseDate(s string) (time.Time, error) {
	var err error
	for _, layout := range dateLayouts {
		var t time.Time
		if t, err = time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, err
}
