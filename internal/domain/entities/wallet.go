package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Wallet represents a customer's store wallet. Exactly one wallet exists per
// user; it is created lazily on the first financial event and never deleted.
// The balance is a cached projection of the transaction log and may go
// negative (customers accrue debt and settle later).
type Wallet struct {
	ID                 uuid.UUID        `json:"id"`
	UserID             uuid.UUID        `json:"userId"`
	Balance            decimal.Decimal  `json:"balance"`
	ClearanceThreshold *decimal.Decimal `json:"clearanceThreshold,omitempty"` // nil = use the global default
	IsActive           bool             `json:"isActive"`
	Version            int64            `json:"-"`
	CreatedAt          time.Time        `json:"createdAt"`
	UpdatedAt          time.Time        `json:"updatedAt"`
}

// WalletListFilter holds filters for admin wallet listing
type WalletListFilter struct {
	Page       int
	Limit      int
	MinBalance *decimal.Decimal
	MaxBalance *decimal.Decimal
	ActiveOnly bool
}
