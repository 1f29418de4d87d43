package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/fekuna/omnipos-mrp-service/internal/apperror"
	"github.com/fekuna/omnipos-mrp-service/internal/database"
	"github.com/fekuna/omnipos-mrp-service/internal/events"
	"github.com/fekuna/omnipos-mrp-service/internal/inventory"
	"github.com/fekuna/omnipos-mrp-service/internal/lock"
	"github.com/fekuna/omnipos-mrp-service/internal/model"
	"github.com/fekuna/omnipos-mrp-service/internal/order"
	"github.com/fekuna/omnipos-mrp-service/internal/order/dto"
	"github.com/fekuna/omnipos-mrp-service/internal/party"
	"github.com/fekuna/omnipos-mrp-service/internal/validation"
	"github.com/fekuna/omnipos-mrp-service/pkg/logger"
)

type orderUseCase struct {
	repo      order.Repository
	ledger    inventory.Ledger
	parties   party.UseCase
	tx        database.Transactor
	locker    lock.Locker
	publisher events.Publisher
	validate  *validation.Validator
	logger    logger.ZapLogger
}

func NewOrderUseCase(
	repo order.Repository,
	ledger inventory.Ledger,
	parties party.UseCase,
	tx database.Transactor,
	locker lock.Locker,
	publisher events.Publisher,
	log logger.ZapLogger,
) order.UseCase {
	return &orderUseCase{
		repo:      repo,
		ledger:    ledger,
		parties:   parties,
		tx:        tx,
		locker:    locker,
		publisher: publisher,
		validate:  validation.New(),
		logger:    log,
	}
}

func (uc *orderUseCase) CreateOrder(ctx context.Context, input *dto.CreateOrderInput) (*model.Order, error) {
	if err := uc.validate.Struct(input); err != nil {
		return nil, err
	}

	orderType := model.OrderType(input.Type)
	lines, err := buildLines(orderType, input.Products)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	o := &model.Order{
		OrderID:   input.OrderID,
		Type:      orderType,
		PartyID:   input.PartyID,
		Products:  lines,
		Status:    model.OrderQuotation,
		Date:      now,
		Notes:     input.Notes,
		Bom:       input.Bom,
		BaseModel: model.BaseModel{CreatedAt: now, UpdatedAt: now},
	}

	err = uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		existing, err := uc.repo.FindByID(ctx, o.OrderID)
		if err != nil {
			return apperror.Internal("failed to check order id", err)
		}
		if existing != nil {
			return apperror.Conflict("order %s already exists", o.OrderID)
		}

		if _, err := uc.parties.EnsureParty(ctx, orderType.PartyKind(), o.PartyID); err != nil {
			return err
		}

		if err := uc.repo.Create(ctx, o); err != nil {
			if apperror.KindOf(err) == apperror.KindConflict {
				return err
			}
			return apperror.Internal("failed to create order", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("order created", zap.String("order_id", o.OrderID), zap.String("type", string(o.Type)))
	events.Emit(ctx, uc.publisher, uc.logger, events.New(events.OrderCreated, o.OrderID, o))

	return o, nil
}

// buildLines normalizes line quantities for the order type and rejects
// lines that would never move stock.
func buildLines(orderType model.OrderType, in []dto.LineItemInput) (model.LineItems, error) {
	lines := make(model.LineItems, 0, len(in))
	for i, item := range in {
		line := model.LineItem{
			ProductCode:     item.ProductCode,
			Name:            item.Name,
			Description:     item.Description,
			Weight:          item.Weight,
			Quantity:        item.Quantity,
			QuantityOrdered: item.QuantityOrdered,
			Price:           item.Price,
		}

		switch orderType {
		case model.OrderTypePurchase:
			if line.QuantityOrdered.IsZero() {
				line.QuantityOrdered = line.Quantity
			}
			line.QuantityReceived = decimal.Zero
			if !line.QuantityOrdered.IsPositive() {
				return nil, apperror.Validation("products[%d].quantity_ordered must be greater than 0", i)
			}
		default:
			if line.Quantity.IsZero() {
				line.Quantity = line.QuantityOrdered
			}
			if !line.Quantity.IsPositive() {
				return nil, apperror.Validation("products[%d].quantity must be greater than 0", i)
			}
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func (uc *orderUseCase) GetOrder(ctx context.Context, orderID string) (*dto.OrderView, error) {
	o, err := uc.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, apperror.Internal("failed to get order", err)
	}
	if o == nil {
		return nil, apperror.NotFound("order %s not found", orderID)
	}

	view := newEnricher(uc).enrich(ctx, o)
	return &view, nil
}

func (uc *orderUseCase) ListOrders(ctx context.Context, filters *dto.OrderFilters) ([]dto.OrderView, int, error) {
	if filters.Type != "" && filters.Type != string(model.OrderTypeSales) && filters.Type != string(model.OrderTypePurchase) {
		return nil, 0, apperror.Validation("type must be one of [sales purchase]")
	}

	narrowed := *filters
	switch filters.View {
	case "":
	case "quotations":
		narrowed.Statuses = []model.OrderStatus{model.OrderQuotation}
	case "active":
		narrowed.Statuses = []model.OrderStatus{model.OrderPacking}
	case "history":
		narrowed.Statuses = []model.OrderStatus{model.OrderDispatched, model.OrderCompleted}
	default:
		return nil, 0, apperror.Validation("view must be one of [quotations active history]")
	}

	orders, total, err := uc.repo.FindAll(ctx, &narrowed)
	if err != nil {
		return nil, 0, apperror.Internal("failed to list orders", err)
	}

	e := newEnricher(uc)
	views := make([]dto.OrderView, 0, len(orders))
	for i := range orders {
		views = append(views, e.enrich(ctx, &orders[i]))
	}
	return views, total, nil
}

func (uc *orderUseCase) DeleteOrder(ctx context.Context, orderID string) (*model.Order, error) {
	o, err := uc.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, apperror.Internal("failed to get order", err)
	}
	if o == nil {
		return nil, apperror.NotFound("order %s not found", orderID)
	}

	deleted, err := uc.repo.Delete(ctx, orderID)
	if err != nil {
		return nil, apperror.Internal("failed to delete order", err)
	}
	if !deleted {
		return nil, apperror.NotFound("order %s not found", orderID)
	}

	events.Emit(ctx, uc.publisher, uc.logger, events.New(events.OrderDeleted, orderID, o))
	return o, nil
}

func (uc *orderUseCase) DeleteAllQuotations(ctx context.Context) (int, error) {
	count, err := uc.repo.DeleteByStatus(ctx, model.OrderQuotation)
	if err != nil {
		return 0, apperror.Internal("failed to delete quotations", err)
	}
	uc.logger.Info("quotations deleted", zap.Int("count", count))
	return count, nil
}

// enricher resolves party details once per party within a single read.
type enricher struct {
	uc    *orderUseCase
	cache map[string]*model.Party
}

func newEnricher(uc *orderUseCase) *enricher {
	return &enricher{uc: uc, cache: make(map[string]*model.Party)}
}

func (e *enricher) enrich(ctx context.Context, o *model.Order) dto.OrderView {
	view := dto.OrderView{Order: *o, PartyName: "Unknown"}

	kind := o.Type.PartyKind()
	key := string(kind) + "/" + o.PartyID
	p, seen := e.cache[key]
	if !seen {
		var err error
		p, err = e.uc.parties.GetParty(ctx, kind, o.PartyID)
		if err != nil && apperror.KindOf(err) != apperror.KindNotFound {
			e.uc.logger.Warn("failed to enrich order with party", zap.String("order_id", o.OrderID), zap.Error(err))
		}
		e.cache[key] = p
	}

	if p != nil {
		view.PartyName = p.Name
		if p.Phone != nil {
			view.PartyPhone = *p.Phone
		}
		if p.Address != nil {
			view.PartyAddress = *p.Address
		}
	}
	return view
}
