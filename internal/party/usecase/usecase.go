package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fekuna/omnipos-mrp-service/internal/apperror"
	"github.com/fekuna/omnipos-mrp-service/internal/model"
	"github.com/fekuna/omnipos-mrp-service/internal/party"
	"github.com/fekuna/omnipos-mrp-service/internal/party/dto"
	"github.com/fekuna/omnipos-mrp-service/internal/validation"
	"github.com/fekuna/omnipos-mrp-service/pkg/logger"
)

const cacheTTL = 10 * time.Minute

type partyUseCase struct {
	repo     party.Repository
	cache    party.Cache
	validate *validation.Validator
	logger   logger.ZapLogger
}

// NewPartyUseCase builds the directory use case. cache may be nil.
func NewPartyUseCase(repo party.Repository, cache party.Cache, log logger.ZapLogger) party.UseCase {
	return &partyUseCase{
		repo:     repo,
		cache:    cache,
		validate: validation.New(),
		logger:   log,
	}
}

func cacheKey(kind model.PartyKind, id string) string {
	return fmt.Sprintf("party:%s:%s", kind, id)
}

func (uc *partyUseCase) CreateParty(ctx context.Context, input *dto.CreatePartyInput) (*model.Party, error) {
	if err := uc.validate.Struct(input); err != nil {
		return nil, err
	}

	id := input.ID
	if id == "" {
		id = uuid.New().String()
	}
	now := time.Now().UTC()

	p := &model.Party{
		ID:        id,
		Kind:      input.Kind,
		Name:      input.Name,
		Email:     input.Email,
		Phone:     input.Phone,
		Address:   input.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, p); err != nil {
		if apperror.KindOf(err) == apperror.KindConflict {
			return nil, err
		}
		return nil, apperror.Internal(fmt.Sprintf("failed to create %s", input.Kind), err)
	}
	return p, nil
}

func (uc *partyUseCase) GetParty(ctx context.Context, kind model.PartyKind, id string) (*model.Party, error) {
	if uc.cache != nil {
		var cached model.Party
		hit, err := uc.cache.GetJSON(ctx, cacheKey(kind, id), &cached)
		if err != nil {
			uc.logger.Warn("party cache read failed", zap.String("id", id), zap.Error(err))
		} else if hit {
			return &cached, nil
		}
	}

	p, err := uc.repo.FindByID(ctx, kind, id)
	if err != nil {
		return nil, apperror.Internal(fmt.Sprintf("failed to get %s", kind), err)
	}
	if p == nil {
		return nil, apperror.NotFound("%s %s not found", kind, id)
	}

	if uc.cache != nil {
		if err := uc.cache.SetJSON(ctx, cacheKey(kind, id), p, cacheTTL); err != nil {
			uc.logger.Warn("party cache write failed", zap.String("id", id), zap.Error(err))
		}
	}
	return p, nil
}

func (uc *partyUseCase) ListParties(ctx context.Context, filters *dto.PartyFilters) ([]model.Party, int, error) {
	parties, total, err := uc.repo.FindAll(ctx, filters)
	if err != nil {
		return nil, 0, apperror.Internal(fmt.Sprintf("failed to list %ss", filters.Kind), err)
	}
	return parties, total, nil
}

func (uc *partyUseCase) DeleteParty(ctx context.Context, kind model.PartyKind, id string) (*model.Party, error) {
	p, err := uc.repo.FindByID(ctx, kind, id)
	if err != nil {
		return nil, apperror.Internal(fmt.Sprintf("failed to get %s", kind), err)
	}
	if p == nil {
		return nil, apperror.NotFound("%s %s not found", kind, id)
	}

	deleted, err := uc.repo.Delete(ctx, kind, id)
	if err != nil {
		return nil, apperror.Internal(fmt.Sprintf("failed to delete %s", kind), err)
	}
	if !deleted {
		return nil, apperror.NotFound("%s %s not found", kind, id)
	}

	if uc.cache != nil {
		if err := uc.cache.Delete(ctx, cacheKey(kind, id)); err != nil {
			uc.logger.Warn("party cache invalidation failed", zap.String("id", id), zap.Error(err))
		}
	}
	return p, nil
}

func (uc *partyUseCase) EnsureParty(ctx context.Context, kind model.PartyKind, id string) (*model.Party, error) {
	p, err := uc.repo.FindByID(ctx, kind, id)
	if err != nil {
		return nil, apperror.Internal(fmt.Sprintf("failed to get %s", kind), err)
	}
	if p != nil {
		return p, nil
	}

	now := time.Now().UTC()
	p = &model.Party{
		ID:        id,
		Kind:      kind,
		Name:      id,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, p); err != nil {
		if apperror.KindOf(err) == apperror.KindConflict {
			// Created concurrently by another order.
			return uc.repo.FindByID(ctx, kind, id)
		}
		return nil, apperror.Internal(fmt.Sprintf("failed to create %s", kind), err)
	}
	uc.logger.Info("auto-created party", zap.String("kind", string(kind)), zap.String("id", id))
	return p, nil
}
