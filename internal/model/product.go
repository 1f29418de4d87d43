package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a stock-keeping unit identified by its product code.
// Quantity is only ever changed through the inventory ledger.
type Product struct {
	ProductCode   string          `db:"product_code" json:"product_code"`
	Name          string          `db:"name" json:"name"`
	Description   string          `db:"description" json:"description"`
	Weight        decimal.Decimal `db:"weight" json:"weight"`
	Price         decimal.Decimal `db:"price" json:"price"`
	Quantity      decimal.Decimal `db:"quantity" json:"quantity"`
	Category      *string         `db:"category" json:"category,omitempty"`
	IsRawMaterial bool            `db:"is_raw_material" json:"isRawMaterial"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
	LastUpdated   time.Time       `db:"last_updated" json:"last_updated"`
}

func (p Product) Clone() Product {
	if p.Category != nil {
		c := *p.Category
		p.Category = &c
	}
	return p
}

// ProductDetails are the descriptive fields used when a product has to be
// created on the fly by the ledger.
type ProductDetails struct {
	Name        string
	Description string
	Weight      decimal.Decimal
	Price       decimal.Decimal
}

// ProductPatch carries the descriptive fields a caller wants to change.
// Quantity is absent; it only moves through the ledger.
type ProductPatch struct {
	Name          *string
	Description   *string
	Weight        *decimal.Decimal
	Price         *decimal.Decimal
	Category      *string
	IsRawMaterial *bool
}

func (p *Product) Apply(patch ProductPatch) {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Weight != nil {
		p.Weight = *patch.Weight
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.Category != nil {
		c := *patch.Category
		p.Category = &c
	}
	if patch.IsRawMaterial != nil {
		p.IsRawMaterial = *patch.IsRawMaterial
	}
}
