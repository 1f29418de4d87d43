package repository

import (
	"context"
	"slices"
	"sort"

	"github.com/fekuna/omnipos-mrp-service/internal/apperror"
	"github.com/fekuna/omnipos-mrp-service/internal/database"
	"github.com/fekuna/omnipos-mrp-service/internal/model"
	"github.com/fekuna/omnipos-mrp-service/internal/order/dto"
)

type MemoryRepository struct {
	db   *database.MemoryDB
	rows *database.MemTable[model.Order]
}

func NewMemoryRepository(db *database.MemoryDB) *MemoryRepository {
	return &MemoryRepository{
		db:   db,
		rows: database.NewMemTable(db, model.Order.Clone),
	}
}

func (r *MemoryRepository) Create(ctx context.Context, o *model.Order) error {
	release := r.db.Guard(ctx)
	defer release()

	if _, ok := r.rows.Get(o.OrderID); ok {
		return apperror.Conflict("order %s already exists", o.OrderID)
	}
	r.rows.Put(o.OrderID, *o)
	return nil
}

func (r *MemoryRepository) FindByID(ctx context.Context, orderID string) (*model.Order, error) {
	release := r.db.Guard(ctx)
	defer release()

	o, ok := r.rows.Get(orderID)
	if !ok {
		return nil, nil
	}
	return &o, nil
}

func (r *MemoryRepository) FindAll(ctx context.Context, f *dto.OrderFilters) ([]model.Order, int, error) {
	release := r.db.Guard(ctx)
	defer release()

	matched := []model.Order{}
	for _, o := range r.rows.All() {
		if f.Type != "" && string(o.Type) != f.Type {
			continue
		}
		if len(f.Statuses) > 0 && !slices.Contains(f.Statuses, o.Status) {
			continue
		}
		matched = append(matched, o)
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Date.After(matched[j].Date)
	})
	return database.Paginate(matched, f.Page, f.PageSize), len(matched), nil
}

func (r *MemoryRepository) Update(ctx context.Context, o *model.Order) error {
	release := r.db.Guard(ctx)
	defer release()

	existing, ok := r.rows.Get(o.OrderID)
	if !ok {
		return nil
	}
	existing.Products = o.Products
	existing.Status = o.Status
	existing.UpdatedAt = o.UpdatedAt
	r.rows.Put(o.OrderID, existing)
	return nil
}

func (r *MemoryRepository) Delete(ctx context.Context, orderID string) (bool, error) {
	release := r.db.Guard(ctx)
	defer release()

	return r.rows.Delete(orderID), nil
}

func (r *MemoryRepository) DeleteByStatus(ctx context.Context, status model.OrderStatus) (int, error) {
	release := r.db.Guard(ctx)
	defer release()

	count := 0
	for _, o := range r.rows.All() {
		if o.Status == status && r.rows.Delete(o.OrderID) {
			count++
		}
	}
	return count, nil
}
