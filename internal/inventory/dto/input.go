package dto

import (
	"github.com/shopspring/decimal"

	"github.com/fekuna/omnipos-mrp-service/internal/model"
)

// AdjustStockInput moves stock by Quantity (positive or negative). The
// descriptive fields are only used when the product does not exist yet.
type AdjustStockInput struct {
	ProductCode   string           `json:"product_code" validate:"required"`
	Quantity      decimal.Decimal  `json:"quantity" validate:"ne=0"`
	Name          string           `json:"name"`
	Description   string           `json:"description"`
	Weight        *decimal.Decimal `json:"weight"`
	Price         *decimal.Decimal `json:"price"`
	Reason        string           `json:"reason"`
	ReferenceType string           `json:"reference_type"`
	ReferenceID   string           `json:"reference_id"`
}

func (in *AdjustStockInput) Details() *model.ProductDetails {
	d := &model.ProductDetails{
		Name:        in.Name,
		Description: in.Description,
	}
	if in.Weight != nil {
		d.Weight = *in.Weight
	}
	if in.Price != nil {
		d.Price = *in.Price
	}
	return d
}
