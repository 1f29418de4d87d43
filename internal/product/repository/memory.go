package repository

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fekuna/omnipos-mrp-service/internal/apperror"
	"github.com/fekuna/omnipos-mrp-service/internal/database"
	"github.com/fekuna/omnipos-mrp-service/internal/model"
	"github.com/fekuna/omnipos-mrp-service/internal/product/dto"
)

type MemoryRepository struct {
	db   *database.MemoryDB
	rows *database.MemTable[model.Product]
}

func NewMemoryRepository(db *database.MemoryDB) *MemoryRepository {
	return &MemoryRepository{
		db:   db,
		rows: database.NewMemTable(db, model.Product.Clone),
	}
}

func (r *MemoryRepository) Create(ctx context.Context, p *model.Product) error {
	release := r.db.Guard(ctx)
	defer release()

	if _, ok := r.rows.Get(p.ProductCode); ok {
		return apperror.Conflict("product with code %s already exists", p.ProductCode)
	}
	r.rows.Put(p.ProductCode, *p)
	return nil
}

func (r *MemoryRepository) FindByCode(ctx context.Context, code string) (*model.Product, error) {
	release := r.db.Guard(ctx)
	defer release()

	p, ok := r.rows.Get(code)
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *MemoryRepository) FindAll(ctx context.Context, f *dto.ProductFilters) ([]model.Product, int, error) {
	release := r.db.Guard(ctx)
	defer release()

	var codes map[string]struct{}
	if f.Codes != nil {
		codes = make(map[string]struct{}, len(f.Codes))
		for _, c := range f.Codes {
			codes[c] = struct{}{}
		}
	}
	search := strings.ToLower(f.SearchQuery)

	matched := []model.Product{}
	for _, p := range r.rows.All() {
		if f.Category != "" && (p.Category == nil || *p.Category != f.Category) {
			continue
		}
		if f.IsRawMaterial != nil && p.IsRawMaterial != *f.IsRawMaterial {
			continue
		}
		if codes != nil {
			if _, ok := codes[p.ProductCode]; !ok {
				continue
			}
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.ProductCode), search) &&
			!strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.Description), search) {
			continue
		}
		matched = append(matched, p)
	}

	return database.Paginate(matched, f.Page, f.PageSize), len(matched), nil
}

func (r *MemoryRepository) Update(ctx context.Context, p *model.Product) error {
	release := r.db.Guard(ctx)
	defer release()

	existing, ok := r.rows.Get(p.ProductCode)
	if !ok {
		return nil
	}
	updated := *p
	updated.Quantity = existing.Quantity
	updated.CreatedAt = existing.CreatedAt
	r.rows.Put(p.ProductCode, updated)
	return nil
}

func (r *MemoryRepository) UpdateQuantity(ctx context.Context, code string, quantity decimal.Decimal, at time.Time) error {
	release := r.db.Guard(ctx)
	defer release()

	p, ok := r.rows.Get(code)
	if !ok {
		return nil
	}
	p.Quantity = quantity
	p.LastUpdated = at
	r.rows.Put(code, p)
	return nil
}

func (r *MemoryRepository) DecrementIfAvailable(ctx context.Context, code string, amount decimal.Decimal, at time.Time) (bool, error) {
	release := r.db.Guard(ctx)
	defer release()

	p, ok := r.rows.Get(code)
	if !ok || p.Quantity.LessThan(amount) {
		return false, nil
	}
	p.Quantity = p.Quantity.Sub(amount)
	p.LastUpdated = at
	r.rows.Put(code, p)
	return true, nil
}

func (r *MemoryRepository) Delete(ctx context.Context, code string) (bool, error) {
	release := r.db.Guard(ctx)
	defer release()

	return r.rows.Delete(code), nil
}
