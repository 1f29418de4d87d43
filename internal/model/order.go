package model

import (
	"database/sql/driver"
	"time"

	"github.com/shopspring/decimal"
)

type OrderType string

const (
	OrderTypeSales    OrderType = "sales"
	OrderTypePurchase OrderType = "purchase"
)

type OrderStatus string

const (
	OrderQuotation  OrderStatus = "quotation"
	OrderPacking    OrderStatus = "packing"
	OrderDispatched OrderStatus = "dispatched"
	OrderCompleted  OrderStatus = "completed"
)

// LineItem is one product line of an order. Sales lines use Quantity,
// purchase lines track QuantityOrdered against QuantityReceived.
type LineItem struct {
	ProductCode      string           `json:"product_code"`
	Name             string           `json:"name,omitempty"`
	Description      string           `json:"description,omitempty"`
	Weight           *decimal.Decimal `json:"weight,omitempty"`
	Quantity         decimal.Decimal  `json:"quantity"`
	QuantityOrdered  decimal.Decimal  `json:"quantity_ordered"`
	QuantityReceived decimal.Decimal  `json:"quantity_received"`
	Price            decimal.Decimal  `json:"price"`
}

type LineItems []LineItem

func (l LineItems) Value() (driver.Value, error) {
	if l == nil {
		return jsonValue([]LineItem{})
	}
	return jsonValue([]LineItem(l))
}

func (l *LineItems) Scan(src any) error {
	return jsonScan(src, (*[]LineItem)(l))
}

func (l LineItems) Codes() []string {
	codes := make([]string, 0, len(l))
	for _, item := range l {
		codes = append(codes, item.ProductCode)
	}
	return codes
}

type Order struct {
	OrderID  string       `db:"order_id" json:"order_id"`
	Type     OrderType    `db:"type" json:"type"`
	PartyID  string       `db:"party_id" json:"party_id"`
	Products LineItems    `db:"products" json:"products"`
	Status   OrderStatus  `db:"status" json:"status"`
	Date     time.Time    `db:"date" json:"date"`
	Notes    *string      `db:"notes" json:"notes,omitempty"`
	Bom      JSONDocument `db:"bom" json:"bom,omitempty"`
	BaseModel
}

func (o Order) Clone() Order {
	lines := make(LineItems, len(o.Products))
	for i, item := range o.Products {
		if item.Weight != nil {
			w := *item.Weight
			item.Weight = &w
		}
		lines[i] = item
	}
	o.Products = lines
	o.Notes = cloneString(o.Notes)
	o.Bom = o.Bom.Clone()
	return o
}

// PartyKind maps the order type to the directory it references.
func (t OrderType) PartyKind() PartyKind {
	if t == OrderTypePurchase {
		return PartySupplier
	}
	return PartyCustomer
}
