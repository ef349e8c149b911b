package usecases

import (
	"github.com/shopspring/decimal"
	"dairy-ledger.backend/internal/domain/entities"
)

// EffectiveThreshold returns the wallet's own clearance threshold override
// when set, otherwise the global default.
func EffectiveThreshold(wallet *entities.Wallet, settings *entities.WalletSettings) decimal.Decimal {
	if wallet.ClearanceThreshold != nil {
		return *wallet.ClearanceThreshold
	}
	return settings.DefaultClearanceThreshold
}

// ShouldClear decides whether a wallet balance is due for auto-clearance.
// Clearance is one-directional: it fires only on a positive balance reaching
// the effective threshold. A negative balance (customer debt) is never
// auto-cleared.
func ShouldClear(wallet *entities.Wallet, settings *entities.WalletSettings) bool {
	if !settings.AutoClearanceEnabled {
		return false
	}
	if !wallet.IsActive {
		return false
	}
	if wallet.Balance.Sign() <= 0 {
		return false
	}
	return wallet.Balance.GreaterThanOrEqual(EffectiveThreshold(wallet, settings))
}
