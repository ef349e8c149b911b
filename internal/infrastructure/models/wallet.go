package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Wallet struct {
	ID                 uuid.UUID        `gorm:"type:uuid;primaryKey"`
	UserID             uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex"`
	Balance            decimal.Decimal  `gorm:"type:numeric(14,2);not null;default:0"`
	ClearanceThreshold *decimal.Decimal `gorm:"type:numeric(14,2)"` // NULL = global default
	IsActive           bool             `gorm:"not null;default:true"`
	Version            int64            `gorm:"not null;default:0"` // optimistic concurrency guard
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (Wallet) TableName() string {
	return "wallets"
}
