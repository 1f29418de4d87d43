package dto

import (
	"github.com/shopspring/decimal"

	"github.com/fekuna/omnipos-mrp-service/internal/model"
)

type CreateProductInput struct {
	ProductCode   string          `json:"product_code" validate:"required,max=64"`
	Name          string          `json:"name" validate:"required,max=255"`
	Description   string          `json:"description"`
	Weight        decimal.Decimal `json:"weight" validate:"gte=0"`
	Price         decimal.Decimal `json:"price" validate:"gte=0"`
	Quantity      decimal.Decimal `json:"quantity" validate:"gte=0"`
	Category      *string         `json:"category"`
	IsRawMaterial bool            `json:"isRawMaterial"`
}

type UpdateProductInput struct {
	ProductCode   string           `json:"-" validate:"required"`
	Name          *string          `json:"name" validate:"omitempty,min=1,max=255"`
	Description   *string          `json:"description"`
	Weight        *decimal.Decimal `json:"weight"`
	Price         *decimal.Decimal `json:"price"`
	Category      *string          `json:"category"`
	IsRawMaterial *bool            `json:"isRawMaterial"`
}

func (in *UpdateProductInput) Patch() model.ProductPatch {
	return model.ProductPatch{
		Name:          in.Name,
		Description:   in.Description,
		Weight:        in.Weight,
		Price:         in.Price,
		Category:      in.Category,
		IsRawMaterial: in.IsRawMaterial,
	}
}
