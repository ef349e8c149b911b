package repositories

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
	"dairy-ledger.backend/internal/domain/entities"
	domainRepos "dairy-ledger.backend/internal/domain/repositories"
	"dairy-ledger.backend/pkg/logger"
	"dairy-ledger.backend/pkg/redis"
)

const (
	settingsCacheKey = "wallet:settings"
	settingsCacheTTL = time.Hour
)

// CachedWalletSettingsRepository is a read-through Redis cache over the
// settings repository. The settings row sits on the hot path of every ledger
// operation; the cache is invalidated explicitly on admin update, never
// left to expire as the only consistency mechanism.
type CachedWalletSettingsRepository struct {
	inner domainRepos.WalletSettingsRepository
}

// NewCachedWalletSettingsRepository wraps a settings repository with caching
func NewCachedWalletSettingsRepository(inner domainRepos.WalletSettingsRepository) *CachedWalletSettingsRepository {
	return &CachedWalletSettingsRepository{inner: inner}
}

// Get returns settings from cache, falling back to storage on a miss
func (r *CachedWalletSettingsRepository) Get(ctx context.Context) (*entities.WalletSettings, error) {
	if redis.GetClient() != nil {
		if raw, err := redis.Get(ctx, settingsCacheKey); err == nil {
			var s entities.WalletSettings
			if err := json.Unmarshal([]byte(raw), &s); err == nil {
				return &s, nil
			}
		}
	}

	s, err := r.inner.Get(ctx)
	if err != nil {
		return nil, err
	}

	r.fill(ctx, s)
	return s, nil
}

// Update applies the update through the inner repository and invalidates the
// cache before returning, so subsequent reads observe the new values.
func (r *CachedWalletSettingsRepository) Update(ctx context.Context, input *entities.UpdateWalletSettingsInput) (*entities.WalletSettings, error) {
	s, err := r.inner.Update(ctx, input)
	if err != nil {
		return nil, err
	}

	if redis.GetClient() != nil {
		if err := redis.Del(ctx, settingsCacheKey); err != nil {
			logger.Warn(ctx, "failed to invalidate settings cache", zap.Error(err))
		}
	}
	return s, nil
}

func (r *CachedWalletSettingsRepository) fill(ctx context.Context, s *entities.WalletSettings) {
	if redis.GetClient() == nil {
		return
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return
	}
	if err := redis.Set(ctx, settingsCacheKey, string(raw), settingsCacheTTL); err != nil {
		logger.Warn(ctx, "failed to fill settings cache", zap.Error(err))
	}
}
