package model

import "time"

type PartyKind string

const (
	PartyCustomer PartyKind = "customer"
	PartySupplier PartyKind = "supplier"
)

// Party is a customer or supplier. Ids are unique per kind.
type Party struct {
	ID        string    `db:"id" json:"id"`
	Kind      PartyKind `db:"kind" json:"kind"`
	Name      string    `db:"name" json:"name"`
	Email     *string   `db:"email" json:"email,omitempty"`
	Phone     *string   `db:"phone" json:"phone,omitempty"`
	Address   *string   `db:"address" json:"address,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

func (p Party) Clone() Party {
	p.Email = cloneString(p.Email)
	p.Phone = cloneString(p.Phone)
	p.Address = cloneString(p.Address)
	return p
}
