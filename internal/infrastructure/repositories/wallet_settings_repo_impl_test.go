package repositories

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"dairy-ledger.backend/internal/domain/entities"
)

func settingsDefaults() entities.WalletSettings {
	return entities.WalletSettings{
		DefaultClearanceThreshold: decimal.NewFromInt(500),
		AllowNegativeBalance:      true,
		AutoClearanceEnabled:      true,
		NotificationEnabled:       true,
		LowBalanceThreshold:       decimal.NewFromInt(100),
	}
}

func TestWalletSettingsRepository_Get_BootstrapsDefaults(t *testing.T) {
	db := newTestDB(t)
	createWalletSettingsTable(t, db)
	repo := NewWalletSettingsRepository(db, settingsDefaults())
	ctx := context.Background()

	settings, err := repo.Get(ctx)
	require.NoError(t, err)
	require.True(t, settings.DefaultClearanceThreshold.Equal(decimal.NewFromInt(500)))
	require.True(t, settings.AllowNegativeBalance)
	require.True(t, settings.AutoClearanceEnabled)
	require.Nil(t, settings.MaxNegativeLimit)

	// a second Get must not create a second row
	_, err = repo.Get(ctx)
	require.NoError(t, err)
	var count int64
	require.NoError(t, db.Table("wallet_settings").Count(&count).Error)
	require.Equal(t, int64(1), count)
}

func TestWalletSettingsRepository_Update_Partial(t *testing.T) {
	db := newTestDB(t)
	createWalletSettingsTable(t, db)
	repo := NewWalletSettingsRepository(db, settingsDefaults())
	ctx := context.Background()

	threshold := decimal.NewFromInt(300)
	disabled := false
	updated, err := repo.Update(ctx, &entities.UpdateWalletSettingsInput{
		DefaultClearanceThreshold: &threshold,
		AutoClearanceEnabled:      &disabled,
	})
	require.NoError(t, err)
	require.True(t, updated.DefaultClearanceThreshold.Equal(threshold))
	require.False(t, updated.AutoClearanceEnabled)
	// untouched fields survive
	require.True(t, updated.AllowNegativeBalance)
	require.True(t, updated.LowBalanceThreshold.Equal(decimal.NewFromInt(100)))
}

func TestWalletSettingsRepository_Update_MaxNegativeLimit(t *testing.T) {
	db := newTestDB(t)
	createWalletSettingsTable(t, db)
	repo := NewWalletSettingsRepository(db, settingsDefaults())
	ctx := context.Background()

	limit := decimal.NewFromInt(1000)
	updated, err := repo.Update(ctx, &entities.UpdateWalletSettingsInput{MaxNegativeLimit: &limit})
	require.NoError(t, err)
	require.NotNil(t, updated.MaxNegativeLimit)
	require.True(t, updated.MaxNegativeLimit.Equal(limit))

	// explicit clear back to unbounded
	updated, err = repo.Update(ctx, &entities.UpdateWalletSettingsInput{ClearMaxNegativeLimit: true})
	require.NoError(t, err)
	require.Nil(t, updated.MaxNegativeLimit)
}
