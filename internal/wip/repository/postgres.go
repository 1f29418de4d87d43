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
	"github.com/fekuna/omnipos-mrp-service/internal/wip/dto"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, b *model.WipBatch) error {
	query := `
        INSERT INTO wip_batches (
            batch_number, raw_materials, output, status, start_date, end_date, created_at, updated_at
        ) VALUES (
            :batch_number, :raw_materials, :output, :status, :start_date, :end_date, :created_at, :updated_at
        )
    `
	_, err := database.Conn(ctx, r.DB).NamedExecContext(ctx, query, b)
	if database.IsUniqueViolation(err) {
		return apperror.Conflict("batch %s already exists", b.BatchNumber)
	}
	return err
}

func (r *PGRepository) FindByBatchNumber(ctx context.Context, batchNumber string) (*model.WipBatch, error) {
	var batch model.WipBatch
	query := `SELECT * FROM wip_batches WHERE batch_number = $1` + database.LockClause(ctx)
	err := database.Conn(ctx, r.DB).GetContext(ctx, &batch, query, batchNumber)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &batch, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.BatchFilters) ([]model.WipBatch, int, error) {
	conn := database.Conn(ctx, r.DB)

	whereClause := ""
	args := []interface{}{}
	if f.Status != "" {
		whereClause = " WHERE status = $1"
		args = append(args, f.Status)
	}

	var count int
	if err := conn.GetContext(ctx, &count, "SELECT count(*) FROM wip_batches"+whereClause, args...); err != nil {
		return nil, 0, err
	}

	query := "SELECT * FROM wip_batches" + whereClause + " ORDER BY start_date DESC, batch_number"
	if f.PageSize > 0 {
		offset := (max(f.Page, 1) - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	batches := []model.WipBatch{}
	if err := conn.SelectContext(ctx, &batches, query, args...); err != nil {
		return nil, 0, err
	}
	return batches, count, nil
}

func (r *PGRepository) Update(ctx context.Context, b *model.WipBatch) error {
	query := `
        UPDATE wip_batches
        SET output = :output,
            status = :status,
            end_date = :end_date,
            updated_at = :updated_at
        WHERE batch_number = :batch_number
    `
	_, err := database.Conn(ctx, r.DB).NamedExecContext(ctx, query, b)
	return err
}
