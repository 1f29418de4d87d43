package repository

import (
	"context"
	"fmt"

	"github.com/fekuna/omnipos-mrp-service/internal/database"
	"github.com/fekuna/omnipos-mrp-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-mrp-service/internal/model"
)

type MemoryRepository struct {
	db   *database.MemoryDB
	rows *database.MemTable[model.StockMovement]
	seq  int
}

func NewMemoryRepository(db *database.MemoryDB) *MemoryRepository {
	return &MemoryRepository{
		db:   db,
		rows: database.NewMemTable(db, model.StockMovement.Clone),
	}
}

func (r *MemoryRepository) LogMovement(ctx context.Context, m *model.StockMovement) error {
	release := r.db.Guard(ctx)
	defer release()

	// Keys carry an insertion sequence so All() returns journal order.
	r.seq++
	r.rows.Put(fmt.Sprintf("%012d-%s", r.seq, m.ID), *m)
	return nil
}

func (r *MemoryRepository) ListMovements(ctx context.Context, f *dto.MovementFilters) ([]model.StockMovement, int, error) {
	release := r.db.Guard(ctx)
	defer release()

	all := r.rows.All()
	matched := []model.StockMovement{}
	for i := len(all) - 1; i >= 0; i-- {
		m := all[i]
		if f.ProductCode != "" && m.ProductCode != f.ProductCode {
			continue
		}
		if f.MovementType != "" && string(m.MovementType) != f.MovementType {
			continue
		}
		matched = append(matched, m)
	}
	return database.Paginate(matched, f.Page, f.PageSize), len(matched), nil
}
