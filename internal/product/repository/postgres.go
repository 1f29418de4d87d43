package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/fekuna/omnipos-mrp-service/internal/apperror"
	"github.com/fekuna/omnipos-mrp-service/internal/database"
	"github.com/fekuna/omnipos-mrp-service/internal/model"
	"github.com/fekuna/omnipos-mrp-service/internal/product/dto"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, p *model.Product) error {
	query := `
        INSERT INTO products (
            product_code, name, description, weight, price, quantity,
            category, is_raw_material, created_at, last_updated
        )
        VALUES (
            :product_code, :name, :description, :weight, :price, :quantity,
            :category, :is_raw_material, :created_at, :last_updated
        )
    `
	_, err := database.Conn(ctx, r.DB).NamedExecContext(ctx, query, p)
	if database.IsUniqueViolation(err) {
		return apperror.Conflict("product with code %s already exists", p.ProductCode)
	}
	return err
}

func (r *PGRepository) FindByCode(ctx context.Context, code string) (*model.Product, error) {
	var product model.Product
	query := `SELECT * FROM products WHERE product_code = $1` + database.LockClause(ctx)
	err := database.Conn(ctx, r.DB).GetContext(ctx, &product, query, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.ProductFilters) ([]model.Product, int, error) {
	conn := database.Conn(ctx, r.DB)

	conditions := []string{}
	args := map[string]interface{}{}

	if f.Category != "" {
		conditions = append(conditions, "category = :category")
		args["category"] = f.Category
	}
	if f.IsRawMaterial != nil {
		conditions = append(conditions, "is_raw_material = :is_raw_material")
		args["is_raw_material"] = *f.IsRawMaterial
	}
	if f.SearchQuery != "" {
		conditions = append(conditions, "(product_code ILIKE :search OR name ILIKE :search OR description ILIKE :search)")
		args["search"] = "%" + f.SearchQuery + "%"
	}
	if f.Codes != nil {
		conditions = append(conditions, "product_code = ANY(:codes)")
		args["codes"] = f.Codes
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	var count int
	countQuery, countArgs, err := sqlx.Named("SELECT count(*) FROM products"+whereClause, args)
	if err != nil {
		return nil, 0, err
	}
	if err := conn.GetContext(ctx, &count, conn.Rebind(countQuery), countArgs...); err != nil {
		return nil, 0, err
	}

	query := "SELECT * FROM products" + whereClause + " ORDER BY product_code"
	if f.PageSize > 0 {
		offset := (max(f.Page, 1) - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	listQuery, listArgs, err := sqlx.Named(query, args)
	if err != nil {
		return nil, 0, err
	}
	products := []model.Product{}
	if err := conn.SelectContext(ctx, &products, conn.Rebind(listQuery), listArgs...); err != nil {
		return nil, 0, err
	}

	return products, count, nil
}

func (r *PGRepository) Update(ctx context.Context, p *model.Product) error {
	query := `
        UPDATE products
        SET name = :name,
            description = :description,
            weight = :weight,
            price = :price,
            category = :category,
            is_raw_material = :is_raw_material,
            last_updated = :last_updated
        WHERE product_code = :product_code
    `
	_, err := database.Conn(ctx, r.DB).NamedExecContext(ctx, query, p)
	return err
}

func (r *PGRepository) UpdateQuantity(ctx context.Context, code string, quantity decimal.Decimal, at time.Time) error {
	_, err := database.Conn(ctx, r.DB).ExecContext(ctx,
		`UPDATE products SET quantity = $1, last_updated = $2 WHERE product_code = $3`,
		quantity, at, code)
	return err
}

func (r *PGRepository) DecrementIfAvailable(ctx context.Context, code string, amount decimal.Decimal, at time.Time) (bool, error) {
	query := `
		UPDATE products
		SET quantity = quantity - $1, last_updated = $2
		WHERE product_code = $3 AND quantity >= $1
	`
	res, err := database.Conn(ctx, r.DB).ExecContext(ctx, query, amount, at, code)
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows == 1, nil
}

func (r *PGRepository) Delete(ctx context.Context, code string) (bool, error) {
	res, err := database.Conn(ctx, r.DB).ExecContext(ctx, "DELETE FROM products WHERE product_code = $1", code)
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}
