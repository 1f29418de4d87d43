package dto

import (
	"github.com/shopspring/decimal"

	"github.com/fekuna/omnipos-mrp-service/internal/model"
)

type MaterialInput struct {
	ProductCode string          `json:"product_code" validate:"required"`
	Quantity    decimal.Decimal `json:"quantity" validate:"gt=0"`
}

type CreateBatchInput struct {
	BatchNumber  string          `json:"batch_number" validate:"required,max=64"`
	RawMaterials []MaterialInput `json:"raw_materials" validate:"min=1,dive"`
	Output       []MaterialInput `json:"output" validate:"dive"`
	Status       string          `json:"status" validate:"required"`
	StartDate    string          `json:"start_date" validate:"required"`
}

type CompleteBatchInput struct {
	BatchNumber string          `json:"-" validate:"required"`
	Status      string          `json:"status"`
	EndDate     string          `json:"end_date"`
	Output      []MaterialInput `json:"output" validate:"dive"`
}

func ToMaterialLines(in []MaterialInput) model.MaterialLines {
	lines := make(model.MaterialLines, 0, len(in))
	for _, m := range in {
		lines = append(lines, model.MaterialLine{ProductCode: m.ProductCode, Quantity: m.Quantity})
	}
	return lines
}
