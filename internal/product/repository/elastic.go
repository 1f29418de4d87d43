package repository

import (
	"context"

	"github.com/fekuna/omnipos-mrp-service/internal/model"
	"github.com/fekuna/omnipos-mrp-service/pkg/search"
)

const productIndex = "products"

const productMapping = `{
  "mappings": {
    "properties": {
      "product_code":    {"type": "keyword"},
      "name":            {"type": "text"},
      "description":     {"type": "text"},
      "category":        {"type": "keyword"},
      "is_raw_material": {"type": "boolean"}
    }
  }
}`

type productDocument struct {
	ProductCode   string  `json:"product_code"`
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	Category      *string `json:"category,omitempty"`
	IsRawMaterial bool    `json:"is_raw_material"`
}

// ElasticIndex keeps descriptive product fields searchable. Quantities are
// not indexed; they are always read back from the store.
type ElasticIndex struct {
	client *search.Client
}

func NewElasticIndex(ctx context.Context, client *search.Client) (*ElasticIndex, error) {
	if err := client.EnsureIndex(ctx, productIndex, productMapping); err != nil {
		return nil, err
	}
	return &ElasticIndex{client: client}, nil
}

func (e *ElasticIndex) IndexProduct(ctx context.Context, p *model.Product) error {
	return e.client.Index(ctx, productIndex, p.ProductCode, productDocument{
		ProductCode:   p.ProductCode,
		Name:          p.Name,
		Description:   p.Description,
		Category:      p.Category,
		IsRawMaterial: p.IsRawMaterial,
	})
}

func (e *ElasticIndex) DeleteProduct(ctx context.Context, code string) error {
	return e.client.Delete(ctx, productIndex, code)
}

func (e *ElasticIndex) SearchCodes(ctx context.Context, query string, limit int) ([]string, error) {
	res, err := e.client.Search(ctx, productIndex, map[string]any{
		"size": limit,
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"product_code^3", "name^2", "description"},
				"fuzziness": "AUTO",
			},
		},
	})
	if err != nil {
		return nil, err
	}

	codes := make([]string, 0, len(res.Hits.Hits))
	for _, hit := range res.Hits.Hits {
		codes = append(codes, hit.ID)
	}
	return codes, nil
}
