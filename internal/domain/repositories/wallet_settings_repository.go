package repositories

import (
	"context"

	"dairy-ledger.backend/internal/domain/entities"
)

// WalletSettingsRepository manages the global ledger configuration singleton.
type WalletSettingsRepository interface {
	// Get returns the current settings, bootstrapping the singleton row with
	// defaults when it does not exist yet.
	Get(ctx context.Context) (*entities.WalletSettings, error)

	// Update applies a partial admin update and returns the new settings.
	// Implementations with a cache must invalidate it before returning.
	Update(ctx context.Context, input *entities.UpdateWalletSettingsInput) (*entities.WalletSettings, error)
}
