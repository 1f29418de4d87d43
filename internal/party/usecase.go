package party

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-mrp-service/internal/model"
	"github.com/fekuna/omnipos-mrp-service/internal/party/dto"
)

type UseCase interface {
	CreateParty(ctx context.Context, input *dto.CreatePartyInput) (*model.Party, error)
	GetParty(ctx context.Context, kind model.PartyKind, id string) (*model.Party, error)
	ListParties(ctx context.Context, filters *dto.PartyFilters) ([]model.Party, int, error)
	DeleteParty(ctx context.Context, kind model.PartyKind, id string) (*model.Party, error)
	// EnsureParty returns the party, creating a bare record named after id
	// when it does not exist yet.
	EnsureParty(ctx context.Context, kind model.PartyKind, id string) (*model.Party, error)
}

// Cache is the read-through cache in front of GetParty. *cache.RedisClient
// satisfies it.
type Cache interface {
	GetJSON(ctx context.Context, key string, dest any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}
