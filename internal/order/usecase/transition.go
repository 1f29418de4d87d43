package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/fekuna/omnipos-mrp-service/internal/apperror"
	"github.com/fekuna/omnipos-mrp-service/internal/events"
	invdto "github.com/fekuna/omnipos-mrp-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-mrp-service/internal/lock"
	"github.com/fekuna/omnipos-mrp-service/internal/model"
	"github.com/fekuna/omnipos-mrp-service/internal/order/dto"
)

const purchaseDescription = "Auto-created from purchase order"

func (uc *orderUseCase) TransitionOrder(ctx context.Context, input *dto.TransitionInput) (*dto.TransitionResult, error) {
	if err := uc.validate.Struct(input); err != nil {
		return nil, err
	}

	// The line items never change after creation, so the codes read here
	// are the ones the transition will touch.
	current, err := uc.repo.FindByID(ctx, input.OrderID)
	if err != nil {
		return nil, apperror.Internal("failed to get order", err)
	}
	if current == nil {
		return nil, apperror.NotFound("order %s not found", input.OrderID)
	}

	keys := append(lock.ProductKeys(current.Products.Codes()), lock.OrderKey(input.OrderID))
	release, err := uc.locker.Acquire(ctx, keys...)
	if err != nil {
		return nil, apperror.Internal("system busy, please try again later", err)
	}
	defer release()

	var (
		result     *dto.TransitionResult
		fromStatus model.OrderStatus
	)
	err = uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		o, err := uc.repo.FindByID(ctx, input.OrderID)
		if err != nil {
			return apperror.Internal("failed to get order", err)
		}
		if o == nil {
			return apperror.NotFound("order %s not found", input.OrderID)
		}
		fromStatus = o.Status

		switch o.Type {
		case model.OrderTypePurchase:
			result, err = uc.transitionPurchase(ctx, o, input)
		case model.OrderTypeSales:
			result, err = uc.transitionSales(ctx, o, input)
		default:
			err = apperror.Validation("unrecognized order type %q", o.Type)
		}
		if err != nil {
			return err
		}

		o.UpdatedAt = time.Now().UTC()
		if err := uc.repo.Update(ctx, o); err != nil {
			return apperror.Internal("failed to update order", err)
		}
		result.Order = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("order transitioned",
		zap.String("order_id", input.OrderID),
		zap.String("from", string(fromStatus)),
		zap.String("to", string(result.Status)),
	)
	events.Emit(ctx, uc.publisher, uc.logger, events.New(events.OrderStatusChanged, input.OrderID, map[string]any{
		"order_id":    input.OrderID,
		"type":        result.Order.Type,
		"from_status": fromStatus,
		"status":      result.Status,
		"completed":   result.Completed,
	}))

	return result, nil
}

func (uc *orderUseCase) transitionPurchase(ctx context.Context, o *model.Order, input *dto.TransitionInput) (*dto.TransitionResult, error) {
	if o.Status == model.OrderCompleted {
		return nil, apperror.AlreadyCompleted("purchase order %s is already completed", o.OrderID)
	}

	switch {
	case len(input.UpdatedProducts) > 0:
		for i := range o.Products {
			line := &o.Products[i]
			update, ok := findUpdate(input.UpdatedProducts, line.ProductCode)
			if !ok {
				continue
			}
			line.QuantityReceived = decimal.Min(line.QuantityReceived.Add(update.QuantityReceived), line.QuantityOrdered)
		}

		if !fullyReceived(o.Products) {
			return &dto.TransitionResult{
				Message: "Purchase order partially received",
				OrderID: o.OrderID,
				Status:  o.Status,
			}, nil
		}

	case model.OrderStatus(input.Status) == model.OrderCompleted:
		for i := range o.Products {
			o.Products[i].QuantityReceived = o.Products[i].QuantityOrdered
		}

	default:
		return nil, apperror.Validation("invalid request for purchase order %s: provide updated_products or status completed", o.OrderID)
	}

	// Every line is fully received: credit stock exactly once.
	if err := uc.receivePurchase(ctx, o); err != nil {
		return nil, err
	}
	o.Status = model.OrderCompleted

	return &dto.TransitionResult{
		Message:   "Purchase order completed and inventory updated",
		OrderID:   o.OrderID,
		Status:    o.Status,
		Completed: true,
	}, nil
}

func (uc *orderUseCase) receivePurchase(ctx context.Context, o *model.Order) error {
	ref := invdto.MovementRef{
		Type:          model.MovementPurchaseReceipt,
		ReferenceType: "purchase_order",
		ReferenceID:   o.OrderID,
	}
	for _, line := range o.Products {
		if !line.QuantityReceived.IsPositive() {
			continue
		}
		_, err := uc.ledger.Apply(ctx, invdto.Delta{
			ProductCode: line.ProductCode,
			Change:      line.QuantityReceived,
			Clamp:       true,
			AutoCreate:  true,
			Fallback:    purchaseDetails(line),
			Ref:         ref,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (uc *orderUseCase) transitionSales(ctx context.Context, o *model.Order, input *dto.TransitionInput) (*dto.TransitionResult, error) {
	target := model.OrderStatus(input.Status)

	switch {
	case o.Status == model.OrderQuotation && target == model.OrderPacking:
		o.Status = model.OrderPacking
		return &dto.TransitionResult{
			Message: "Order moved to packing",
			OrderID: o.OrderID,
			Status:  o.Status,
		}, nil

	case o.Status == model.OrderPacking && target == model.OrderDispatched:
		ref := invdto.MovementRef{
			Type:          model.MovementSalesDispatch,
			ReferenceType: "sales_order",
			ReferenceID:   o.OrderID,
		}
		for _, line := range o.Products {
			if _, err := uc.ledger.ApplyDeltaClamped(ctx, line.ProductCode, line.Quantity.Neg(), ref); err != nil {
				return nil, err
			}
		}
		o.Status = model.OrderDispatched
		return &dto.TransitionResult{
			Message:   "Order dispatched and inventory updated",
			OrderID:   o.OrderID,
			Status:    o.Status,
			Completed: true,
		}, nil

	default:
		return nil, apperror.InvalidTransition("cannot move sales order %s from %s to %q", o.OrderID, o.Status, input.Status)
	}
}

func findUpdate(updates []dto.ReceiptUpdate, code string) (dto.ReceiptUpdate, bool) {
	for _, u := range updates {
		if u.ProductCode == code {
			return u, true
		}
	}
	return dto.ReceiptUpdate{}, false
}

func fullyReceived(lines model.LineItems) bool {
	for _, l := range lines {
		if l.QuantityReceived.LessThan(l.QuantityOrdered) {
			return false
		}
	}
	return true
}

func purchaseDetails(line model.LineItem) *model.ProductDetails {
	d := &model.ProductDetails{
		Name:        line.Name,
		Description: line.Description,
		Weight:      decimal.Zero,
		Price:       line.Price,
	}
	if d.Name == "" {
		d.Name = line.ProductCode
	}
	if d.Description == "" {
		d.Description = purchaseDescription
	}
	if line.Weight != nil {
		d.Weight = *line.Weight
	}
	return d
}
