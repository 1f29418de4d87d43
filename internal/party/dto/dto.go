package dto

import "github.com/fekuna/omnipos-mrp-service/internal/model"

type PartyFilters struct {
	Kind     model.PartyKind
	Page     int
	PageSize int
}
