package repository

import (
	"context"
	"sort"

	"github.com/fekuna/omnipos-mrp-service/internal/apperror"
	"github.com/fekuna/omnipos-mrp-service/internal/database"
	"github.com/fekuna/omnipos-mrp-service/internal/model"
	"github.com/fekuna/omnipos-mrp-service/internal/party/dto"
)

type MemoryRepository struct {
	db   *database.MemoryDB
	rows *database.MemTable[model.Party]
}

func NewMemoryRepository(db *database.MemoryDB) *MemoryRepository {
	return &MemoryRepository{
		db:   db,
		rows: database.NewMemTable(db, model.Party.Clone),
	}
}

func key(kind model.PartyKind, id string) string {
	return string(kind) + "/" + id
}

func (r *MemoryRepository) Create(ctx context.Context, p *model.Party) error {
	release := r.db.Guard(ctx)
	defer release()

	k := key(p.Kind, p.ID)
	if _, ok := r.rows.Get(k); ok {
		return apperror.Conflict("%s %s already exists", p.Kind, p.ID)
	}
	r.rows.Put(k, *p)
	return nil
}

func (r *MemoryRepository) FindByID(ctx context.Context, kind model.PartyKind, id string) (*model.Party, error) {
	release := r.db.Guard(ctx)
	defer release()

	p, ok := r.rows.Get(key(kind, id))
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *MemoryRepository) FindAll(ctx context.Context, f *dto.PartyFilters) ([]model.Party, int, error) {
	release := r.db.Guard(ctx)
	defer release()

	matched := []model.Party{}
	for _, p := range r.rows.All() {
		if p.Kind == f.Kind {
			matched = append(matched, p)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID < matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return database.Paginate(matched, f.Page, f.PageSize), len(matched), nil
}

func (r *MemoryRepository) Delete(ctx context.Context, kind model.PartyKind, id string) (bool, error) {
	release := r.db.Guard(ctx)
	defer release()

	return r.rows.Delete(key(kind, id)), nil
}
