package dto

import (
	"github.com/shopspring/decimal"

	"github.com/fekuna/omnipos-mrp-service/internal/model"
)

type LineItemInput struct {
	ProductCode     string           `json:"product_code" validate:"required"`
	Name            string           `json:"name"`
	Description     string           `json:"description"`
	Weight          *decimal.Decimal `json:"weight"`
	Quantity        decimal.Decimal  `json:"quantity" validate:"gte=0"`
	QuantityOrdered decimal.Decimal  `json:"quantity_ordered" validate:"gte=0"`
	Price           decimal.Decimal  `json:"price" validate:"gte=0"`
}

type CreateOrderInput struct {
	OrderID  string             `json:"order_id" validate:"required,max=64"`
	PartyID  string             `json:"party_id" validate:"required,max=128"`
	Type     string             `json:"type" validate:"required,oneof=sales purchase"`
	Products []LineItemInput    `json:"products" validate:"min=1,dive"`
	Notes    *string            `json:"notes"`
	Bom      model.JSONDocument `json:"bom"`
}

type ReceiptUpdate struct {
	ProductCode      string          `json:"product_code" validate:"required"`
	QuantityReceived decimal.Decimal `json:"quantity_received" validate:"gte=0"`
}

type TransitionInput struct {
	OrderID         string          `json:"-" validate:"required"`
	Status          string          `json:"status"`
	UpdatedProducts []ReceiptUpdate `json:"updated_products" validate:"dive"`
}
