package usecases

import (
	"context"

	"go.uber.org/zap"
	"github.com/google/uuid"
	"dairy-ledger.backend/internal/domain/entities"
	domainerrors "dairy-ledger.backend/internal/domain/errors"
	"dairy-ledger.backend/internal/domain/repositories"
	"dairy-ledger.backend/pkg/logger"
)

// SettingsUsecase handles the global wallet configuration
type SettingsUsecase struct {
	settingsRepo repositories.WalletSettingsRepository
}

// NewSettingsUsecase creates a new settings usecase
func NewSettingsUsecase(settingsRepo repositories.WalletSettingsRepository) *SettingsUsecase {
	return &SettingsUsecase{settingsRepo: settingsRepo}
}

// GetSettings returns the current global settings
func (u *SettingsUsecase) GetSettings(ctx context.Context) (*entities.WalletSettings, error) {
	return u.settingsRepo.Get(ctx)
}

// UpdateSettings applies an admin settings update. Thresholds and limits must
// be non-negative; the repository invalidates the settings cache on success.
func (u *SettingsUsecase) UpdateSettings(ctx context.Context, input *entities.UpdateWalletSettingsInput, processedBy uuid.UUID) (*entities.WalletSettings, error) {
	if processedBy == uuid.Nil {
		return nil, domainerrors.ErrInvalidInput
	}
	if input.DefaultClearanceThreshold != nil && input.DefaultClearanceThreshold.Sign() < 0 {
		return nil, domainerrors.ErrInvalidInput
	}
	if input.MaxNegativeLimit != nil && input.MaxNegativeLimit.Sign() < 0 {
		return nil, domainerrors.ErrInvalidInput
	}
	if input.LowBalanceThreshold != nil && input.LowBalanceThreshold.Sign() < 0 {
		return nil, domainerrors.ErrInvalidInput
	}

	settings, err := u.settingsRepo.Update(ctx, input)
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "wallet settings updated",
		zap.String("processed_by", processedBy.String()),
		zap.Bool("allow_negative_balance", settings.AllowNegativeBalance),
		zap.Bool("auto_clearance_enabled", settings.AutoClearanceEnabled),
		zap.String("default_clearance_threshold", settings.DefaultClearanceThreshold.String()))
	return settings, nil
}
