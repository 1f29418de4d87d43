package repository

import (
	"context"
	"sort"

	"github.com/fekuna/omnipos-mrp-service/internal/apperror"
	"github.com/fekuna/omnipos-mrp-service/internal/database"
	"github.com/fekuna/omnipos-mrp-service/internal/model"
	"github.com/fekuna/omnipos-mrp-service/internal/wip/dto"
)

type MemoryRepository struct {
	db   *database.MemoryDB
	rows *database.MemTable[model.WipBatch]
}

func NewMemoryRepository(db *database.MemoryDB) *MemoryRepository {
	return &MemoryRepository{
		db:   db,
		rows: database.NewMemTable(db, model.WipBatch.Clone),
	}
}

func (r *MemoryRepository) Create(ctx context.Context, b *model.WipBatch) error {
	release := r.db.Guard(ctx)
	defer release()

	if _, ok := r.rows.Get(b.BatchNumber); ok {
		return apperror.Conflict("batch %s already exists", b.BatchNumber)
	}
	r.rows.Put(b.BatchNumber, *b)
	return nil
}

func (r *MemoryRepository) FindByBatchNumber(ctx context.Context, batchNumber string) (*model.WipBatch, error) {
	release := r.db.Guard(ctx)
	defer release()

	b, ok := r.rows.Get(batchNumber)
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (r *MemoryRepository) FindAll(ctx context.Context, f *dto.BatchFilters) ([]model.WipBatch, int, error) {
	release := r.db.Guard(ctx)
	defer release()

	matched := []model.WipBatch{}
	for _, b := range r.rows.All() {
		if f.Status != "" && string(b.Status) != f.Status {
			continue
		}
		matched = append(matched, b)
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].StartDate.After(matched[j].StartDate)
	})
	return database.Paginate(matched, f.Page, f.PageSize), len(matched), nil
}

func (r *MemoryRepository) Update(ctx context.Context, b *model.WipBatch) error {
	release := r.db.Guard(ctx)
	defer release()

	if _, ok := r.rows.Get(b.BatchNumber); ok {
		r.rows.Put(b.BatchNumber, *b)
	}
	return nil
}
