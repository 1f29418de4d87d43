package dto

type ProductFilters struct {
	Category      string
	IsRawMaterial *bool
	SearchQuery   string   // name, description or code
	Codes         []string // restrict to these codes, e.g. search hits
	Page          int
	PageSize      int
}
