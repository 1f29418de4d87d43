package party

import (
	"context"

	"github.com/fekuna/omnipos-mrp-service/internal/model"
	"github.com/fekuna/omnipos-mrp-service/internal/party/dto"
)

type Repository interface {
	Create(ctx context.Context, party *model.Party) error
	FindByID(ctx context.Context, kind model.PartyKind, id string) (*model.Party, error)
	FindAll(ctx context.Context, filters *dto.PartyFilters) ([]model.Party, int, error)
	Delete(ctx context.Context, kind model.PartyKind, id string) (bool, error)
}
