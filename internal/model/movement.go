package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type MovementType string

const (
	MovementInitial         MovementType = "initial"
	MovementAdjustment      MovementType = "adjustment"
	MovementWIPConsume      MovementType = "wip_consume"
	MovementWIPOutput       MovementType = "wip_output"
	MovementPurchaseReceipt MovementType = "purchase_receipt"
	MovementSalesDispatch   MovementType = "sales_dispatch"
)

// StockMovement is one journal row written by the ledger for every quantity change.
type StockMovement struct {
	ID             string          `db:"id" json:"id"`
	ProductCode    string          `db:"product_code" json:"product_code"`
	MovementType   MovementType    `db:"movement_type" json:"movement_type"`
	QuantityChange decimal.Decimal `db:"quantity_change" json:"quantity_change"`
	QuantityBefore decimal.Decimal `db:"quantity_before" json:"quantity_before"`
	QuantityAfter  decimal.Decimal `db:"quantity_after" json:"quantity_after"`
	ReferenceType  *string         `db:"reference_type" json:"reference_type,omitempty"`
	ReferenceID    *string         `db:"reference_id" json:"reference_id,omitempty"`
	Notes          string          `db:"notes" json:"notes"`
	CreatedBy      *string         `db:"created_by" json:"created_by,omitempty"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
}

func (m StockMovement) Clone() StockMovement {
	m.ReferenceType = cloneString(m.ReferenceType)
	m.ReferenceID = cloneString(m.ReferenceID)
	m.CreatedBy = cloneString(m.CreatedBy)
	return m
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
