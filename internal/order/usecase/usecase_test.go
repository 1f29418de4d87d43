package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/zap/zaptest"

	"github.com/fekuna/omnipos-mrp-service/internal/app"
	"github.com/fekuna/omnipos-mrp-service/internal/apperror"
	"github.com/fekuna/omnipos-mrp-service/internal/model"
	"github.com/fekuna/omnipos-mrp-service/internal/order/dto"
	partyDTO "github.com/fekuna/omnipos-mrp-service/internal/party/dto"
	productDTO "github.com/fekuna/omnipos-mrp-service/internal/product/dto"
	"github.com/fekuna/omnipos-mrp-service/pkg/logger"
)

func newTestApp(t *testing.T) *app.UseCases {
	t.Helper()
	return app.NewUseCases(app.NewMemoryRepositories(), app.Options{Logger: logger.NewFromZap(zaptest.NewLogger(t))})
}

func seed(t *testing.T, uc *app.UseCases, code string, qty int64) {
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

func stock(t *testing.T, uc *app.UseCases, code string) decimal.Decimal {
	t.Helper()
	p, err := uc.Products.GetProduct(context.Background(), code)
	if err != nil {
		t.Fatalf("get %s: %v", code, err)
	}
	return p.Quantity
}

func qty(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

func createSales(t *testing.T, uc *app.UseCases, id string, lines ...dto.LineItemInput) *model.Order {
	t.Helper()
	o, err := uc.Orders.CreateOrder(context.Background(), &dto.CreateOrderInput{
		OrderID:  id,
		PartyID:  "P1",
		Type:     "sales",
		Products: lines,
	})
	if err != nil {
		t.Fatalf("create sales order %s: %v", id, err)
	}
	return o
}

func createPurchase(t *testing.T, uc *app.UseCases, id string, lines ...dto.LineItemInput) *model.Order {
	t.Helper()
	o, err := uc.Orders.CreateOrder(context.Background(), &dto.CreateOrderInput{
		OrderID:  id,
		PartyID:  "S1",
		Type:     "purchase",
		Products: lines,
	})
	if err != nil {
		t.Fatalf("create purchase order %s: %v", id, err)
	}
	return o
}

func transition(uc *app.UseCases, id, status string, updates ...dto.ReceiptUpdate) (*dto.TransitionResult, error) {
	return uc.Orders.TransitionOrder(context.Background(), &dto.TransitionInput{
		OrderID:         id,
		Status:          status,
		UpdatedProducts: updates,
	})
}

func TestSalesOrderLifecycle(t *testing.T) {
	uc := newTestApp(t)
	seed(t, uc, "FG001", 10)

	o := createSales(t, uc, "SO-1", dto.LineItemInput{ProductCode: "FG001", Quantity: qty(3), Price: qty(10)})
	if o.Status != model.OrderQuotation {
		t.Fatalf("new order should be a quotation, got %s", o.Status)
	}

	res, err := transition(uc, "SO-1", "packing")
	if err != nil {
		t.Fatalf("to packing: %v", err)
	}
	if res.Status != model.OrderPacking {
		t.Fatalf("expected packing, got %s", res.Status)
	}
	if got := stock(t, uc, "FG001"); !got.Equal(qty(10)) {
		t.Fatalf("packing must not move stock, got %s", got)
	}

	res, err = transition(uc, "SO-1", "dispatched")
	if err != nil {
		t.Fatalf("to dispatched: %v", err)
	}
	if res.Status != model.OrderDispatched || res.Message != "Order dispatched and inventory updated" {
		t.Fatalf("unexpected result %+v", res)
	}
	if got := stock(t, uc, "FG001"); !got.Equal(qty(7)) {
		t.Fatalf("expected 7 after dispatch, got %s", got)
	}

	if _, err := transition(uc, "SO-1", "dispatched"); !errors.Is(err, apperror.ErrInvalidTransition) {
		t.Fatalf("second dispatch should be rejected, got %v", err)
	}
	if got := stock(t, uc, "FG001"); !got.Equal(qty(7)) {
		t.Fatalf("stock deducted twice: %s", got)
	}
}

func TestSalesDispatchFloorsAtZero(t *testing.T) {
	uc := newTestApp(t)
	seed(t, uc, "FG1", 2)

	createSales(t, uc, "SO-2", dto.LineItemInput{ProductCode: "FG1", Quantity: qty(5)})
	if _, err := transition(uc, "SO-2", "packing"); err != nil {
		t.Fatalf("to packing: %v", err)
	}
	if _, err := transition(uc, "SO-2", "dispatched"); err != nil {
		t.Fatalf("to dispatched: %v", err)
	}
	if got := stock(t, uc, "FG1"); !got.IsZero() {
		t.Fatalf("expected stock floored at 0, got %s", got)
	}
}

func TestSalesDispatchUnknownProductRollsBack(t *testing.T) {
	ctx := context.Background()
	uc := newTestApp(t)
	seed(t, uc, "FG1", 5)

	createSales(t, uc, "SO-3",
		dto.LineItemInput{ProductCode: "FG1", Quantity: qty(2)},
		dto.LineItemInput{ProductCode: "GHOST", Quantity: qty(1)},
	)
	if _, err := transition(uc, "SO-3", "packing"); err != nil {
		t.Fatalf("to packing: %v", err)
	}
	if _, err := transition(uc, "SO-3", "dispatched"); !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	if got := stock(t, uc, "FG1"); !got.Equal(qty(5)) {
		t.Fatalf("partial dispatch leaked: FG1=%s", got)
	}
	view, err := uc.Orders.GetOrder(ctx, "SO-3")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if view.Status != model.OrderPacking {
		t.Fatalf("status should stay packing, got %s", view.Status)
	}
}

func TestSalesInvalidTransitions(t *testing.T) {
	uc := newTestApp(t)
	seed(t, uc, "FG1", 5)
	createSales(t, uc, "SO-4", dto.LineItemInput{ProductCode: "FG1", Quantity: qty(1)})

	for _, target := range []string{"dispatched", "completed", "", "quotation"} {
		if _, err := transition(uc, "SO-4", target); !errors.Is(err, apperror.ErrInvalidTransition) {
			t.Fatalf("quotation -> %q: expected invalid transition, got %v", target, err)
		}
	}

	if _, err := transition(uc, "NOPE", "packing"); !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestPurchasePartialReceiptClampsAndCreditsOnce(t *testing.T) {
	uc := newTestApp(t)
	seed(t, uc, "RM1", 0)

	createPurchase(t, uc, "PO-1",
		dto.LineItemInput{ProductCode: "RM1", QuantityOrdered: qty(10)},
		dto.LineItemInput{ProductCode: "RM2", QuantityOrdered: qty(4), Name: "Resin", Price: qty(3)},
	)

	res, err := transition(uc, "PO-1", "", dto.ReceiptUpdate{ProductCode: "RM1", QuantityReceived: qty(8)})
	if err != nil {
		t.Fatalf("first receipt: %v", err)
	}
	if res.Completed || res.Status != model.OrderQuotation {
		t.Fatalf("partial receipt should not complete: %+v", res)
	}
	if got := stock(t, uc, "RM1"); !got.IsZero() {
		t.Fatalf("partial receipt must not credit stock, got %s", got)
	}

	res, err = transition(uc, "PO-1", "",
		dto.ReceiptUpdate{ProductCode: "RM1", QuantityReceived: qty(5)},
		dto.ReceiptUpdate{ProductCode: "UNKNOWN", QuantityReceived: qty(5)},
	)
	if err != nil {
		t.Fatalf("second receipt: %v", err)
	}
	if !res.Order.Products[0].QuantityReceived.Equal(qty(10)) {
		t.Fatalf("expected received clamped to 10, got %s", res.Order.Products[0].QuantityReceived)
	}
	if res.Completed {
		t.Fatalf("RM2 still outstanding, order should not complete")
	}

	res, err = transition(uc, "PO-1", "", dto.ReceiptUpdate{ProductCode: "RM2", QuantityReceived: qty(4)})
	if err != nil {
		t.Fatalf("final receipt: %v", err)
	}
	if !res.Completed || res.Status != model.OrderCompleted {
		t.Fatalf("expected completion, got %+v", res)
	}
	if got := stock(t, uc, "RM1"); !got.Equal(qty(10)) {
		t.Fatalf("expected RM1=10, got %s", got)
	}

	rm2, err := uc.Products.GetProduct(context.Background(), "RM2")
	if err != nil {
		t.Fatalf("RM2 should be auto-created: %v", err)
	}
	if rm2.Name != "Resin" || !rm2.Quantity.Equal(qty(4)) || !rm2.Price.Equal(qty(3)) {
		t.Fatalf("unexpected RM2 %+v", rm2)
	}

	if _, err := transition(uc, "PO-1", "completed"); !errors.Is(err, apperror.ErrAlreadyCompleted) {
		t.Fatalf("expected already completed, got %v", err)
	}
	if got := stock(t, uc, "RM1"); !got.Equal(qty(10)) {
		t.Fatalf("completed order credited again: %s", got)
	}
}

func TestPurchaseForceComplete(t *testing.T) {
	uc := newTestApp(t)

	createPurchase(t, uc, "PO-2", dto.LineItemInput{ProductCode: "RM002", QuantityOrdered: qty(50)})

	res, err := transition(uc, "PO-2", "completed")
	if err != nil {
		t.Fatalf("force complete: %v", err)
	}
	if !res.Completed || !res.Order.Products[0].QuantityReceived.Equal(qty(50)) {
		t.Fatalf("unexpected result %+v", res)
	}
	if got := stock(t, uc, "RM002"); !got.Equal(qty(50)) {
		t.Fatalf("expected RM002=50, got %s", got)
	}
}

func TestPurchaseWithoutUpdatesOrCompletionIsRejected(t *testing.T) {
	uc := newTestApp(t)
	createPurchase(t, uc, "PO-3", dto.LineItemInput{ProductCode: "RM1", Quantity: qty(2)})

	if _, err := transition(uc, "PO-3", "packing"); !errors.Is(err, apperror.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateOrderValidation(t *testing.T) {
	ctx := context.Background()
	uc := newTestApp(t)

	tests := []struct {
		name  string
		input dto.CreateOrderInput
		want  error
	}{
		{"bad type", dto.CreateOrderInput{OrderID: "X1", PartyID: "P", Type: "rental", Products: []dto.LineItemInput{{ProductCode: "A", Quantity: qty(1)}}}, apperror.ErrValidation},
		{"no products", dto.CreateOrderInput{OrderID: "X2", PartyID: "P", Type: "sales"}, apperror.ErrValidation},
		{"zero sales quantity", dto.CreateOrderInput{OrderID: "X3", PartyID: "P", Type: "sales", Products: []dto.LineItemInput{{ProductCode: "A"}}}, apperror.ErrValidation},
		{"zero purchase quantity", dto.CreateOrderInput{OrderID: "X4", PartyID: "S", Type: "purchase", Products: []dto.LineItemInput{{ProductCode: "A"}}}, apperror.ErrValidation},
		{"missing order id", dto.CreateOrderInput{PartyID: "P", Type: "sales", Products: []dto.LineItemInput{{ProductCode: "A", Quantity: qty(1)}}}, apperror.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := tt.input
			if _, err := uc.Orders.CreateOrder(ctx, &in); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}

	createSales(t, uc, "DUP", dto.LineItemInput{ProductCode: "A", Quantity: qty(1)})
	_, err := uc.Orders.CreateOrder(ctx, &dto.CreateOrderInput{OrderID: "DUP", PartyID: "P1", Type: "sales", Products: []dto.LineItemInput{{ProductCode: "A", Quantity: qty(1)}}})
	if !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestCreateOrderNormalizesQuantities(t *testing.T) {
	uc := newTestApp(t)

	po := createPurchase(t, uc, "PO-Q", dto.LineItemInput{ProductCode: "RM1", Quantity: qty(6)})
	if !po.Products[0].QuantityOrdered.Equal(qty(6)) || !po.Products[0].QuantityReceived.IsZero() {
		t.Fatalf("unexpected purchase line %+v", po.Products[0])
	}

	so := createSales(t, uc, "SO-Q", dto.LineItemInput{ProductCode: "FG1", QuantityOrdered: qty(4)})
	if !so.Products[0].Quantity.Equal(qty(4)) {
		t.Fatalf("unexpected sales line %+v", so.Products[0])
	}
}

func TestOrderEnrichmentAndViews(t *testing.T) {
	ctx := context.Background()
	uc := newTestApp(t)
	seed(t, uc, "FG1", 10)

	phone := "+62 811"
	if _, err := uc.Parties.CreateParty(ctx, &partyDTO.CreatePartyInput{
		Kind:  model.PartyCustomer,
		ID:    "ACME",
		Name:  "Acme Corp",
		Phone: &phone,
	}); err != nil {
		t.Fatalf("create customer: %v", err)
	}

	_, err := uc.Orders.CreateOrder(ctx, &dto.CreateOrderInput{
		OrderID:  "SO-E",
		PartyID:  "ACME",
		Type:     "sales",
		Products: []dto.LineItemInput{{ProductCode: "FG1", Quantity: qty(1)}},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	createSales(t, uc, "SO-F", dto.LineItemInput{ProductCode: "FG1", Quantity: qty(1)})
	if _, err := transition(uc, "SO-F", "packing"); err != nil {
		t.Fatalf("to packing: %v", err)
	}

	view, err := uc.Orders.GetOrder(ctx, "SO-E")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if view.PartyName != "Acme Corp" || view.PartyPhone != phone || view.PartyAddress != "" {
		t.Fatalf("unexpected enrichment %+v", view)
	}

	quotes, total, err := uc.Orders.ListOrders(ctx, &dto.OrderFilters{View: "quotations"})
	if err != nil {
		t.Fatalf("list quotations: %v", err)
	}
	if total != 1 || quotes[0].OrderID != "SO-E" {
		t.Fatalf("unexpected quotations %+v", quotes)
	}

	active, total, err := uc.Orders.ListOrders(ctx, &dto.OrderFilters{View: "active", Type: "sales"})
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if total != 1 || active[0].OrderID != "SO-F" || active[0].PartyName != "P1" {
		t.Fatalf("unexpected active orders %+v", active)
	}

	if _, _, err := uc.Orders.ListOrders(ctx, &dto.OrderFilters{View: "archive"}); !errors.Is(err, apperror.ErrValidation) {
		t.Fatalf("expected validation error for unknown view, got %v", err)
	}
}

func TestCreateOrderAutoCreatesParty(t *testing.T) {
	ctx := context.Background()
	uc := newTestApp(t)

	createPurchase(t, uc, "PO-P", dto.LineItemInput{ProductCode: "RM1", QuantityOrdered: qty(1)})

	s, err := uc.Parties.GetParty(ctx, model.PartySupplier, "S1")
	if err != nil {
		t.Fatalf("supplier should be auto-created: %v", err)
	}
	if s.Name != "S1" {
		t.Fatalf("expected placeholder name S1, got %q", s.Name)
	}
	if _, err := uc.Parties.GetParty(ctx, model.PartyCustomer, "S1"); !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("purchase order must not create a customer, got %v", err)
	}
}

func TestDeleteOrders(t *testing.T) {
	ctx := context.Background()
	uc := newTestApp(t)
	seed(t, uc, "FG1", 10)

	createSales(t, uc, "Q1", dto.LineItemInput{ProductCode: "FG1", Quantity: qty(1)})
	createSales(t, uc, "Q2", dto.LineItemInput{ProductCode: "FG1", Quantity: qty(1)})
	createSales(t, uc, "A1", dto.LineItemInput{ProductCode: "FG1", Quantity: qty(1)})
	if _, err := transition(uc, "A1", "packing"); err != nil {
		t.Fatalf("to packing: %v", err)
	}

	deleted, err := uc.Orders.DeleteOrder(ctx, "Q1")
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if deleted.OrderID != "Q1" {
		t.Fatalf("unexpected deleted order %+v", deleted)
	}
	if _, err := uc.Orders.DeleteOrder(ctx, "Q1"); !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	count, err := uc.Orders.DeleteAllQuotations(ctx)
	if err != nil {
		t.Fatalf("delete quotations: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 quotation deleted, got %d", count)
	}
	if _, err := uc.Orders.GetOrder(ctx, "A1"); err != nil {
		t.Fatalf("packing order should survive: %v", err)
	}
}
