package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// WalletSettings is the single global ledger configuration row, updated by
// admins only. allowNegativeBalance defaults to true: the dairy subscription
// model lets customers run a debt and settle later.
type WalletSettings struct {
	DefaultClearanceThreshold decimal.Decimal  `json:"defaultClearanceThreshold"`
	AllowNegativeBalance      bool             `json:"allowNegativeBalance"`
	AutoClearanceEnabled      bool             `json:"autoClearanceEnabled"`
	MaxNegativeLimit          *decimal.Decimal `json:"maxNegativeLimit,omitempty"` // nil = unbounded
	NotificationEnabled       bool             `json:"notificationEnabled"`
	LowBalanceThreshold       decimal.Decimal  `json:"lowBalanceThreshold"`
	UpdatedAt                 time.Time        `json:"updatedAt"`
}

// UpdateWalletSettingsInput carries an admin settings update. Pointer fields
// left nil are not changed.
type UpdateWalletSettingsInput struct {
	DefaultClearanceThreshold *decimal.Decimal `json:"defaultClearanceThreshold"`
	AllowNegativeBalance      *bool            `json:"allowNegativeBalance"`
	AutoClearanceEnabled      *bool            `json:"autoClearanceEnabled"`
	MaxNegativeLimit          *decimal.Decimal `json:"maxNegativeLimit"`
	ClearMaxNegativeLimit     bool             `json:"clearMaxNegativeLimit"`
	NotificationEnabled       *bool            `json:"notificationEnabled"`
	LowBalanceThreshold       *decimal.Decimal `json:"lowBalanceThreshold"`
}
