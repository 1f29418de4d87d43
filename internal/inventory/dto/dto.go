package dto

import (
	"github.com/shopspring/decimal"

	"github.com/fekuna/omnipos-mrp-service/internal/model"
)

type MovementFilters struct {
	ProductCode  string
	MovementType string
	Page         int
	PageSize     int
}

// MovementRef describes why the ledger moved stock.
type MovementRef struct {
	Type          model.MovementType
	ReferenceType string
	ReferenceID   string
	Notes         string
}

type Delta struct {
	ProductCode string
	Change      decimal.Decimal
	// Clamp floors the resulting quantity at zero.
	Clamp bool
	// AutoCreate creates an unknown product instead of failing with NotFound.
	AutoCreate bool
	Fallback   *model.ProductDetails
	Ref        MovementRef
}
