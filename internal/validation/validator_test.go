package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/fekuna/omnipos-mrp-service/internal/apperror"
)

type line struct {
	ProductCode string          `json:"product_code" validate:"required"`
	Quantity    decimal.Decimal `json:"quantity" validate:"gt=0"`
}

type batch struct {
	BatchNumber string `json:"batch_number" validate:"required"`
	Lines       []line `json:"raw_materials" validate:"min=1,dive"`
}

func TestStructReportsDecimalAndNestedFields(t *testing.T) {
	v := New()

	cases := []struct {
		name    string
		in      batch
		wantErr string
	}{
		{"ok", batch{BatchNumber: "B1", Lines: []line{{"RM001", decimal.NewFromInt(2)}}}, ""},
		{"missing batch", batch{Lines: []line{{"RM001", decimal.NewFromInt(2)}}}, "batch_number is required"},
		{"empty lines", batch{BatchNumber: "B1"}, "raw_materials must contain at least 1 item(s)"},
		{"zero quantity", batch{BatchNumber: "B1", Lines: []line{{"RM001", decimal.Zero}}}, "raw_materials[0].quantity must be greater than 0"},
		{"negative fraction", batch{BatchNumber: "B1", Lines: []line{{"RM001", decimal.RequireFromString("-0.5")}}}, "quantity must be greater than 0"},
		{"empty code", batch{BatchNumber: "B1", Lines: []line{{"", decimal.NewFromInt(1)}}}, "raw_materials[0].product_code is required"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := v.Struct(tc.in)
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, apperror.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected %q in %q", tc.wantErr, err.Error())
			}
		})
	}
}
