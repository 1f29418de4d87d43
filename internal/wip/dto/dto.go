package dto

import "github.com/fekuna/omnipos-mrp-service/internal/model"

type BatchFilters struct {
	Status   string
	Page     int
	PageSize int
}

type BatchSummary struct {
	Message           string          `json:"message"`
	BatchNumber       string          `json:"batch_number"`
	Status            model.WipStatus `json:"status"`
	RawMaterialsCount int             `json:"raw_materials_count"`
	OutputCount       int             `json:"output_count"`
	Batch             *model.WipBatch `json:"batch"`
}

func NewBatchSummary(message string, b *model.WipBatch) *BatchSummary {
	return &BatchSummary{
		Message:           message,
		BatchNumber:       b.BatchNumber,
		Status:            b.Status,
		RawMaterialsCount: len(b.RawMaterials),
		OutputCount:       len(b.Output),
		Batch:             b,
	}
}
