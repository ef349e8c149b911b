package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WalletTransaction rows are append-only; there is no UpdatedAt or DeletedAt
// on purpose. The audit trail never changes once written.
type WalletTransaction struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	WalletID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	UserID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	Type            string          `gorm:"type:varchar(20);not null;index"`
	Direction       string          `gorm:"type:varchar(10)"` // adjustments only
	Amount          decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	PreviousBalance decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	NewBalance      decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Description     string          `gorm:"type:text"`
	Reference       *string         `gorm:"type:varchar(255);index"`
	ReferenceType   string          `gorm:"type:varchar(50)"`
	ProcessedBy     *uuid.UUID      `gorm:"type:uuid"` // NULL for system-triggered entries
	CreatedAt       time.Time       `gorm:"index"`
}

func (WalletTransaction) TableName() string {
	return "wallet_transactions"
}
