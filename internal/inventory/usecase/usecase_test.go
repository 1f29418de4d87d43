package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/zap/zaptest"

	"github.com/fekuna/omnipos-mrp-service/internal/app"
	"github.com/fekuna/omnipos-mrp-service/internal/apperror"
	"github.com/fekuna/omnipos-mrp-service/internal/auth"
	"github.com/fekuna/omnipos-mrp-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-mrp-service/internal/model"
	productDTO "github.com/fekuna/omnipos-mrp-service/internal/product/dto"
	"github.com/fekuna/omnipos-mrp-service/pkg/logger"
)

func newTestApp(t *testing.T) (*app.Repositories, *app.UseCases) {
	t.Helper()
	repos := app.NewMemoryRepositories()
	uc := app.NewUseCases(repos, app.Options{Logger: logger.NewFromZap(zaptest.NewLogger(t))})
	return repos, uc
}

func seedProduct(t *testing.T, uc *app.UseCases, code string, qty int64) {
	t.Helper()
	_, err := uc.Products.CreateProduct(context.Background(), &productDTO.CreateProductInput{
		ProductCode: code,
		Name:        code,
		Quantity:    decimal.NewFromInt(qty),
	})
	if err != nil {
		t.Fatalf("seed %s: %v", code, err)
	}
}

func stockOf(t *testing.T, uc *app.UseCases, code string) decimal.Decimal {
	t.Helper()
	p, err := uc.Products.GetProduct(context.Background(), code)
	if err != nil {
		t.Fatalf("get %s: %v", code, err)
	}
	return p.Quantity
}

func TestAdjustStockAutoCreatesUnknownProduct(t *testing.T) {
	_, uc := newTestApp(t)
	ctx := auth.WithUser(context.Background(), auth.UserContext{UserID: "u-1"})

	p, err := uc.Inventory.AdjustStock(ctx, &dto.AdjustStockInput{
		ProductCode: "RM900",
		Quantity:    decimal.NewFromInt(7),
		Reason:      "stock take",
	})
	if err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if !p.Quantity.Equal(decimal.NewFromInt(7)) {
		t.Fatalf("expected quantity 7, got %s", p.Quantity)
	}
	if p.Name != "RM900" || p.Description != "Auto-created from stock adjustment" {
		t.Fatalf("unexpected placeholder fields %q / %q", p.Name, p.Description)
	}

	movements, total, err := uc.Inventory.ListMovements(ctx, &dto.MovementFilters{ProductCode: "RM900"})
	if err != nil {
		t.Fatalf("list movements: %v", err)
	}
	if total != 1 {
		t.Fatalf("expected one movement, got %d", total)
	}
	m := movements[0]
	if !m.QuantityBefore.IsZero() || !m.QuantityAfter.Equal(decimal.NewFromInt(7)) {
		t.Fatalf("unexpected before/after %s/%s", m.QuantityBefore, m.QuantityAfter)
	}
	if m.ReferenceType == nil || *m.ReferenceType != "manual_adjustment" {
		t.Fatalf("expected default reference type, got %v", m.ReferenceType)
	}
	if m.CreatedBy == nil || *m.CreatedBy != "u-1" {
		t.Fatalf("expected created_by u-1, got %v", m.CreatedBy)
	}
	if m.Notes != "stock take" {
		t.Fatalf("unexpected notes %q", m.Notes)
	}
}

func TestAdjustStockRejectsZeroQuantity(t *testing.T) {
	_, uc := newTestApp(t)

	_, err := uc.Inventory.AdjustStock(context.Background(), &dto.AdjustStockInput{ProductCode: "RM1"})
	if !errors.Is(err, apperror.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAdjustStockAllowsNegativeOnNonStrictPath(t *testing.T) {
	_, uc := newTestApp(t)
	seedProduct(t, uc, "RM1", 2)

	p, err := uc.Inventory.AdjustStock(context.Background(), &dto.AdjustStockInput{
		ProductCode: "RM1",
		Quantity:    decimal.NewFromInt(-5),
	})
	if err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if !p.Quantity.Equal(decimal.NewFromInt(-3)) {
		t.Fatalf("expected -3, got %s", p.Quantity)
	}
}

func TestApplyDeltaClamped(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		start   int64
		delta   int64
		want    int64
		missing bool
	}{
		{name: "credit", start: 5, delta: 3, want: 8},
		{name: "debit within stock", start: 5, delta: -3, want: 2},
		{name: "debit floors at zero", start: 2, delta: -10, want: 0},
		{name: "unknown product", delta: -1, missing: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, uc := newTestApp(t)
			if !tt.missing {
				seedProduct(t, uc, "FG1", tt.start)
			}

			p, err := uc.Ledger.ApplyDeltaClamped(ctx, "FG1", decimal.NewFromInt(tt.delta), dto.MovementRef{Type: model.MovementSalesDispatch})
			if tt.missing {
				if !errors.Is(err, apperror.ErrNotFound) {
					t.Fatalf("expected not found, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("apply: %v", err)
			}
			if !p.Quantity.Equal(decimal.NewFromInt(tt.want)) {
				t.Fatalf("expected %d, got %s", tt.want, p.Quantity)
			}
		})
	}
}

func TestConsumeIsStrict(t *testing.T) {
	ctx := context.Background()
	_, uc := newTestApp(t)
	seedProduct(t, uc, "RM1", 3)

	_, err := uc.Ledger.Consume(ctx, "RM1", decimal.NewFromInt(5), dto.MovementRef{Type: model.MovementWIPConsume})
	if !errors.Is(err, apperror.ErrInsufficientStock) {
		t.Fatalf("expected insufficient stock, got %v", err)
	}
	if got := stockOf(t, uc, "RM1"); !got.Equal(decimal.NewFromInt(3)) {
		t.Fatalf("stock should be untouched, got %s", got)
	}

	_, err = uc.Ledger.Consume(ctx, "NOPE", decimal.NewFromInt(1), dto.MovementRef{})
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	p, err := uc.Ledger.Consume(ctx, "RM1", decimal.NewFromInt(3), dto.MovementRef{Type: model.MovementWIPConsume})
	if err != nil {
		t.Fatalf("consume: %v", err)
	}
	if !p.Quantity.IsZero() {
		t.Fatalf("expected zero, got %s", p.Quantity)
	}
}

func TestLedgerJoinsCallerTransaction(t *testing.T) {
	ctx := context.Background()
	repos, uc := newTestApp(t)
	seedProduct(t, uc, "RM1", 10)

	boom := errors.New("boom")
	err := repos.Tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := uc.Ledger.Consume(ctx, "RM1", decimal.NewFromInt(4), dto.MovementRef{}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if got := stockOf(t, uc, "RM1"); !got.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("expected rollback to 10, got %s", got)
	}

	_, total, err := uc.Inventory.ListMovements(ctx, &dto.MovementFilters{ProductCode: "RM1", MovementType: string(model.MovementWIPConsume)})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 0 {
		t.Fatalf("rolled back movement should not be journalled, got %d", total)
	}
}

func TestSetAbsoluteKeepsQuantity(t *testing.T) {
	ctx := context.Background()
	_, uc := newTestApp(t)
	seedProduct(t, uc, "FG1", 4)

	name := "Finished widget"
	price := decimal.NewFromFloat(12.5)
	p, err := uc.Ledger.SetAbsolute(ctx, "FG1", model.ProductPatch{Name: &name, Price: &price})
	if err != nil {
		t.Fatalf("set: %v", err)
	}
	if p.Name != name || !p.Price.Equal(price) {
		t.Fatalf("patch not applied: %+v", p)
	}
	if got := stockOf(t, uc, "FG1"); !got.Equal(decimal.NewFromInt(4)) {
		t.Fatalf("quantity changed to %s", got)
	}

	if _, err := uc.Ledger.SetAbsolute(ctx, "NOPE", model.ProductPatch{Name: &name}); !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
