package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"dairy-ledger.backend/internal/domain/entities"
	"dairy-ledger.backend/internal/infrastructure/models"
)

// WalletSettingsRepository manages the singleton settings row
type WalletSettingsRepository struct {
	db       *gorm.DB
	defaults entities.WalletSettings
}

// NewWalletSettingsRepository creates a settings repository. The defaults are
// used to bootstrap the singleton row on first read.
func NewWalletSettingsRepository(db *gorm.DB, defaults entities.WalletSettings) *WalletSettingsRepository {
	return &WalletSettingsRepository{db: db, defaults: defaults}
}

// Get returns the current settings, bootstrapping the row when absent
func (r *WalletSettingsRepository) Get(ctx context.Context) (*entities.WalletSettings, error) {
	db := GetDB(ctx, r.db)

	m := &models.WalletSettings{
		ID:                        models.SettingsRowID,
		DefaultClearanceThreshold: r.defaults.DefaultClearanceThreshold,
		AllowNegativeBalance:      r.defaults.AllowNegativeBalance,
		AutoClearanceEnabled:      r.defaults.AutoClearanceEnabled,
		MaxNegativeLimit:          r.defaults.MaxNegativeLimit,
		NotificationEnabled:       r.defaults.NotificationEnabled,
		LowBalanceThreshold:       r.defaults.LowBalanceThreshold,
	}
	if err := db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(m).Error; err != nil {
		return nil, err
	}

	var row models.WalletSettings
	if err := db.WithContext(ctx).Where("id = ?", models.SettingsRowID).First(&row).Error; err != nil {
		return nil, err
	}
	return r.toEntity(&row), nil
}

// Update applies a partial admin update and returns the new settings
func (r *WalletSettingsRepository) Update(ctx context.Context, input *entities.UpdateWalletSettingsInput) (*entities.WalletSettings, error) {
	if _, err := r.Get(ctx); err != nil { // make sure the row exists
		return nil, err
	}

	updates := map[string]interface{}{"updated_at": time.Now()}
	if input.DefaultClearanceThreshold != nil {
		updates["default_clearance_threshold"] = *input.DefaultClearanceThreshold
	}
	if input.AllowNegativeBalance != nil {
		updates["allow_negative_balance"] = *input.AllowNegativeBalance
	}
	if input.AutoClearanceEnabled != nil {
		updates["auto_clearance_enabled"] = *input.AutoClearanceEnabled
	}
	if input.ClearMaxNegativeLimit {
		updates["max_negative_limit"] = gorm.Expr("NULL")
	} else if input.MaxNegativeLimit != nil {
		updates["max_negative_limit"] = *input.MaxNegativeLimit
	}
	if input.NotificationEnabled != nil {
		updates["notification_enabled"] = *input.NotificationEnabled
	}
	if input.LowBalanceThreshold != nil {
		updates["low_balance_threshold"] = *input.LowBalanceThreshold
	}

	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Model(&models.WalletSettings{}).
		Where("id = ?", models.SettingsRowID).
		Updates(updates).Error; err != nil {
		return nil, err
	}

	var row models.WalletSettings
	if err := db.WithContext(ctx).Where("id = ?", models.SettingsRowID).First(&row).Error; err != nil {
		return nil, err
	}
	return r.toEntity(&row), nil
}

func (r *WalletSettingsRepository) toEntity(m *models.WalletSettings) *entities.WalletSettings {
	return &entities.WalletSettings{
		DefaultClearanceThreshold: m.DefaultClearanceThreshold,
		AllowNegativeBalance:      m.AllowNegativeBalance,
		AutoClearanceEnabled:      m.AutoClearanceEnabled,
		MaxNegativeLimit:          m.MaxNegativeLimit,
		NotificationEnabled:       m.NotificationEnabled,
		LowBalanceThreshold:       m.LowBalanceThreshold,
		UpdatedAt:                 m.UpdatedAt,
	}
}
