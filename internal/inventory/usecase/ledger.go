package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/fekuna/omnipos-mrp-service/internal/apperror"
	"github.com/fekuna/omnipos-mrp-service/internal/auth"
	"github.com/fekuna/omnipos-mrp-service/internal/database"
	"github.com/fekuna/omnipos-mrp-service/internal/inventory"
	"github.com/fekuna/omnipos-mrp-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-mrp-service/internal/model"
	"github.com/fekuna/omnipos-mrp-service/internal/product"
	"github.com/fekuna/omnipos-mrp-service/pkg/logger"
)

const placeholderDescription = "Auto-created from stock adjustment"

type ledger struct {
	products  product.Repository
	movements inventory.Repository
	tx        database.Transactor
	index     product.SearchIndex
	logger    logger.ZapLogger
}

// NewLedger builds the ledger. index may be nil.
func NewLedger(products product.Repository, movements inventory.Repository, tx database.Transactor, index product.SearchIndex, log logger.ZapLogger) inventory.Ledger {
	return &ledger{
		products:  products,
		movements: movements,
		tx:        tx,
		index:     index,
		logger:    log,
	}
}

func (l *ledger) ApplyDelta(ctx context.Context, code string, delta decimal.Decimal, fallback *model.ProductDetails, ref dto.MovementRef) (*model.Product, error) {
	return l.Apply(ctx, dto.Delta{
		ProductCode: code,
		Change:      delta,
		AutoCreate:  true,
		Fallback:    fallback,
		Ref:         ref,
	})
}

func (l *ledger) ApplyDeltaClamped(ctx context.Context, code string, delta decimal.Decimal, ref dto.MovementRef) (*model.Product, error) {
	return l.Apply(ctx, dto.Delta{
		ProductCode: code,
		Change:      delta,
		Clamp:       true,
		Ref:         ref,
	})
}

func (l *ledger) Apply(ctx context.Context, d dto.Delta) (*model.Product, error) {
	var (
		result  *model.Product
		created bool
	)

	err := l.tx.WithinTx(ctx, func(ctx context.Context) error {
		p, err := l.products.FindByCode(ctx, d.ProductCode)
		if err != nil {
			return apperror.Internal("failed to load product", err)
		}

		now := time.Now().UTC()
		before := decimal.Zero

		if p == nil {
			if !d.AutoCreate {
				return apperror.NotFound("product %s not found", d.ProductCode)
			}
			p = newProduct(d.ProductCode, d.Fallback, now)
			p.Quantity = applyChange(decimal.Zero, d.Change, d.Clamp)
			if err := l.products.Create(ctx, p); err != nil {
				if apperror.KindOf(err) == apperror.KindConflict {
					return err
				}
				return apperror.Internal("failed to create product", err)
			}
			created = true
		} else {
			before = p.Quantity
			p.Quantity = applyChange(before, d.Change, d.Clamp)
			p.LastUpdated = now
			if err := l.products.UpdateQuantity(ctx, p.ProductCode, p.Quantity, now); err != nil {
				return apperror.Internal("failed to update stock", err)
			}
		}

		if err := l.journal(ctx, p.ProductCode, before, p.Quantity, d.Ref, now); err != nil {
			return err
		}
		result = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	if created {
		l.syncIndex(ctx, result)
	}
	return result, nil
}

func (l *ledger) RequireAvailable(ctx context.Context, code string, amount decimal.Decimal) (*model.Product, error) {
	p, err := l.products.FindByCode(ctx, code)
	if err != nil {
		return nil, apperror.Internal("failed to load product", err)
	}
	if p == nil {
		return nil, apperror.NotFound("product %s not found", code)
	}
	if p.Quantity.LessThan(amount) {
		return nil, apperror.InsufficientStock("insufficient stock for %s: available %s, required %s",
			code, p.Quantity.String(), amount.String())
	}
	return p, nil
}

func (l *ledger) Consume(ctx context.Context, code string, amount decimal.Decimal, ref dto.MovementRef) (*model.Product, error) {
	var result *model.Product

	err := l.tx.WithinTx(ctx, func(ctx context.Context) error {
		p, err := l.RequireAvailable(ctx, code, amount)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		ok, err := l.products.DecrementIfAvailable(ctx, code, amount, now)
		if err != nil {
			return apperror.Internal("failed to deduct stock", err)
		}
		if !ok {
			// Another writer got there between the read and the update.
			return apperror.InsufficientStock("insufficient stock for %s: required %s", code, amount.String())
		}

		before := p.Quantity
		p.Quantity = before.Sub(amount)
		p.LastUpdated = now
		if err := l.journal(ctx, code, before, p.Quantity, ref, now); err != nil {
			return err
		}
		result = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (l *ledger) SetAbsolute(ctx context.Context, code string, patch model.ProductPatch) (*model.Product, error) {
	var result *model.Product

	err := l.tx.WithinTx(ctx, func(ctx context.Context) error {
		p, err := l.products.FindByCode(ctx, code)
		if err != nil {
			return apperror.Internal("failed to load product", err)
		}
		if p == nil {
			return apperror.NotFound("product %s not found", code)
		}

		p.Apply(patch)
		p.LastUpdated = time.Now().UTC()
		if err := l.products.Update(ctx, p); err != nil {
			return apperror.Internal("failed to update product", err)
		}
		result = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	l.syncIndex(ctx, result)
	return result, nil
}

func (l *ledger) journal(ctx context.Context, code string, before, after decimal.Decimal, ref dto.MovementRef, at time.Time) error {
	m := &model.StockMovement{
		ID:             uuid.New().String(),
		ProductCode:    code,
		MovementType:   ref.Type,
		QuantityChange: after.Sub(before),
		QuantityBefore: before,
		QuantityAfter:  after,
		ReferenceType:  optional(ref.ReferenceType),
		ReferenceID:    optional(ref.ReferenceID),
		Notes:          ref.Notes,
		CreatedBy:      optional(auth.GetUserID(ctx)),
		CreatedAt:      at,
	}
	if m.MovementType == "" {
		m.MovementType = model.MovementAdjustment
	}
	if err := l.movements.LogMovement(ctx, m); err != nil {
		return apperror.Internal("failed to record stock movement", err)
	}
	return nil
}

func (l *ledger) syncIndex(ctx context.Context, p *model.Product) {
	if l.index == nil || p == nil {
		return
	}
	if err := l.index.IndexProduct(ctx, p); err != nil {
		l.logger.Warn("failed to index product", zap.String("product_code", p.ProductCode), zap.Error(err))
	}
}

func newProduct(code string, details *model.ProductDetails, now time.Time) *model.Product {
	p := &model.Product{
		ProductCode: code,
		Name:        code,
		Description: placeholderDescription,
		Weight:      decimal.Zero,
		Price:       decimal.Zero,
		CreatedAt:   now,
		LastUpdated: now,
	}
	if details != nil {
		if details.Name != "" {
			p.Name = details.Name
		}
		if details.Description != "" {
			p.Description = details.Description
		}
		p.Weight = details.Weight
		p.Price = details.Price
	}
	return p
}

func applyChange(current, change decimal.Decimal, clamp bool) decimal.Decimal {
	next := current.Add(change)
	if clamp && next.IsNegative() {
		return decimal.Zero
	}
	return next
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
