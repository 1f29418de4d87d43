package dto

import "github.com/fekuna/omnipos-mrp-service/internal/model"

type CreatePartyInput struct {
	Kind    model.PartyKind `json:"-" validate:"oneof=customer supplier"`
	ID      string          `json:"id" validate:"max=128"`
	Name    string          `json:"name" validate:"required,max=255"`
	Email   *string         `json:"email" validate:"omitempty,email"`
	Phone   *string         `json:"phone" validate:"omitempty,max=64"`
	Address *string         `json:"address"`
}
