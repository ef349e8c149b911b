package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SettingsRowID is the fixed primary key of the singleton settings row.
const SettingsRowID = 1

type WalletSettings struct {
	ID                        int              `gorm:"primaryKey"`
	DefaultClearanceThreshold decimal.Decimal  `gorm:"type:numeric(14,2);not null;default:0"`
	AllowNegativeBalance      bool             `gorm:"not null;default:true"`
	AutoClearanceEnabled      bool             `gorm:"not null;default:true"`
	MaxNegativeLimit          *decimal.Decimal `gorm:"type:numeric(14,2)"` // NULL = unbounded
	NotificationEnabled       bool             `gorm:"not null;default:true"`
	LowBalanceThreshold       decimal.Decimal  `gorm:"type:numeric(14,2);not null;default:0"`
	UpdatedAt                 time.Time
}

func (WalletSettings) TableName() string {
	return "wallet_settings"
}
