package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/fekuna/omnipos-mrp-service/internal/apperror"
	"github.com/fekuna/omnipos-mrp-service/internal/database"
	"github.com/fekuna/omnipos-mrp-service/internal/model"
	"github.com/fekuna/omnipos-mrp-service/internal/party/dto"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, p *model.Party) error {
	query := `
        INSERT INTO parties (id, kind, name, email, phone, address, created_at, updated_at)
        VALUES (:id, :kind, :name, :email, :phone, :address, :created_at, :updated_at)
    `
	_, err := database.Conn(ctx, r.DB).NamedExecContext(ctx, query, p)
	if database.IsUniqueViolation(err) {
		return apperror.Conflict("%s %s already exists", p.Kind, p.ID)
	}
	return err
}

func (r *PGRepository) FindByID(ctx context.Context, kind model.PartyKind, id string) (*model.Party, error) {
	var party model.Party
	query := `SELECT * FROM parties WHERE kind = $1 AND id = $2 LIMIT 1`
	err := database.Conn(ctx, r.DB).GetContext(ctx, &party, query, kind, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &party, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.PartyFilters) ([]model.Party, int, error) {
	conn := database.Conn(ctx, r.DB)

	var count int
	if err := conn.GetContext(ctx, &count, `SELECT count(*) FROM parties WHERE kind = $1`, f.Kind); err != nil {
		return nil, 0, err
	}

	query := `SELECT * FROM parties WHERE kind = $1 ORDER BY created_at DESC, id`
	if f.PageSize > 0 {
		offset := (max(f.Page, 1) - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	parties := []model.Party{}
	if err := conn.SelectContext(ctx, &parties, query, f.Kind); err != nil {
		return nil, 0, err
	}
	return parties, count, nil
}

func (r *PGRepository) Delete(ctx context.Context, kind model.PartyKind, id string) (bool, error) {
	res, err := database.Conn(ctx, r.DB).ExecContext(ctx, "DELETE FROM parties WHERE kind = $1 AND id = $2", kind, id)
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}
