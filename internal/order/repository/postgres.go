package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/fekuna/omnipos-mrp-service/internal/apperror"
	"github.com/fekuna/omnipos-mrp-service/internal/database"
	"github.com/fekuna/omnipos-mrp-service/internal/model"
	"github.com/fekuna/omnipos-mrp-service/internal/order/dto"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, o *model.Order) error {
	query := `
        INSERT INTO orders (
            order_id, type, party_id, products, status, date, notes, bom, created_at, updated_at
        ) VALUES (
            :order_id, :type, :party_id, :products, :status, :date, :notes, :bom, :created_at, :updated_at
        )
    `
	_, err := database.Conn(ctx, r.DB).NamedExecContext(ctx, query, o)
	if database.IsUniqueViolation(err) {
		return apperror.Conflict("order %s already exists", o.OrderID)
	}
	return err
}

func (r *PGRepository) FindByID(ctx context.Context, orderID string) (*model.Order, error) {
	var order model.Order
	query := `SELECT * FROM orders WHERE order_id = $1` + database.LockClause(ctx)
	err := database.Conn(ctx, r.DB).GetContext(ctx, &order, query, orderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.OrderFilters) ([]model.Order, int, error) {
	conn := database.Conn(ctx, r.DB)

	conditions := []string{}
	args := map[string]interface{}{}

	if f.Type != "" {
		conditions = append(conditions, "type = :type")
		args["type"] = f.Type
	}
	if len(f.Statuses) > 0 {
		statuses := make([]string, 0, len(f.Statuses))
		for _, s := range f.Statuses {
			statuses = append(statuses, string(s))
		}
		conditions = append(conditions, "status = ANY(:statuses)")
		args["statuses"] = statuses
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	var count int
	countQuery, countArgs, err := sqlx.Named("SELECT count(*) FROM orders"+whereClause, args)
	if err != nil {
		return nil, 0, err
	}
	if err := conn.GetContext(ctx, &count, conn.Rebind(countQuery), countArgs...); err != nil {
		return nil, 0, err
	}

	query := "SELECT * FROM orders" + whereClause + " ORDER BY date DESC, order_id"
	if f.PageSize > 0 {
		offset := (max(f.Page, 1) - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	listQuery, listArgs, err := sqlx.Named(query, args)
	if err != nil {
		return nil, 0, err
	}
	orders := []model.Order{}
	if err := conn.SelectContext(ctx, &orders, conn.Rebind(listQuery), listArgs...); err != nil {
		return nil, 0, err
	}
	return orders, count, nil
}

func (r *PGRepository) Update(ctx context.Context, o *model.Order) error {
	query := `
        UPDATE orders
        SET products = :products,
            status = :status,
            updated_at = :updated_at
        WHERE order_id = :order_id
    `
	_, err := database.Conn(ctx, r.DB).NamedExecContext(ctx, query, o)
	return err
}

func (r *PGRepository) Delete(ctx context.Context, orderID string) (bool, error) {
	res, err := database.Conn(ctx, r.DB).ExecContext(ctx, "DELETE FROM orders WHERE order_id = $1", orderID)
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

func (r *PGRepository) DeleteByStatus(ctx context.Context, status model.OrderStatus) (int, error) {
	res, err := database.Conn(ctx, r.DB).ExecContext(ctx, "DELETE FROM orders WHERE status = $1", status)
	if err != nil {
		return 0, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(rows), nil
}
