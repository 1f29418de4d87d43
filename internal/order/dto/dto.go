package dto

import "github.com/fekuna/omnipos-mrp-service/internal/model"

type OrderFilters struct {
	Type     string
	View     string // quotations, active or history
	Statuses []model.OrderStatus
	Page     int
	PageSize int
}

// OrderView is an order enriched with its party's contact details.
type OrderView struct {
	model.Order
	PartyName    string `json:"party_name"`
	PartyPhone   string `json:"party_phone"`
	PartyAddress string `json:"party_address"`
}

type TransitionResult struct {
	Message   string            `json:"message"`
	OrderID   string            `json:"order_id"`
	Status    model.OrderStatus `json:"status"`
	Completed bool              `json:"completed"`
	Order     *model.Order      `json:"order"`
}
