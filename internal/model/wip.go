package model

import (
	"database/sql/driver"
	"time"

	"github.com/shopspring/decimal"
)

// WipStatus is free text; only completed and cancelled carry meaning.
type WipStatus string

const (
	WipPlanned    WipStatus = "planned"
	WipInProgress WipStatus = "in_progress"
	WipCompleted  WipStatus = "completed"
	// WipCancelled is reserved; nothing transitions into it.
	WipCancelled WipStatus = "cancelled"
)

type MaterialLine struct {
	ProductCode string          `json:"product_code"`
	Quantity    decimal.Decimal `json:"quantity"`
}

type MaterialLines []MaterialLine

func (m MaterialLines) Value() (driver.Value, error) {
	if m == nil {
		return jsonValue([]MaterialLine{})
	}
	return jsonValue([]MaterialLine(m))
}

func (m *MaterialLines) Scan(src any) error {
	return jsonScan(src, (*[]MaterialLine)(m))
}

func (m MaterialLines) Codes() []string {
	codes := make([]string, 0, len(m))
	for _, l := range m {
		codes = append(codes, l.ProductCode)
	}
	return codes
}

// WipBatch is a production run consuming raw materials into outputs.
type WipBatch struct {
	BatchNumber  string        `db:"batch_number" json:"batch_number"`
	RawMaterials MaterialLines `db:"raw_materials" json:"raw_materials"`
	Output       MaterialLines `db:"output" json:"output"`
	Status       WipStatus     `db:"status" json:"status"`
	StartDate    time.Time     `db:"start_date" json:"start_date"`
	EndDate      *time.Time    `db:"end_date" json:"end_date,omitempty"`
	BaseModel
}

func (b WipBatch) Clone() WipBatch {
	b.RawMaterials = append(MaterialLines(nil), b.RawMaterials...)
	b.Output = append(MaterialLines(nil), b.Output...)
	if b.EndDate != nil {
		t := *b.EndDate
		b.EndDate = &t
	}
	return b
}
