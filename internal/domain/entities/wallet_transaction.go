package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
)

// TransactionType classifies a ledger entry. Amounts are stored as unsigned
// magnitudes; the sign of the balance change is derived from the type.
type TransactionType string

const (
	TransactionTypeCredit     TransactionType = "credit"
	TransactionTypeDebit      TransactionType = "debit"
	TransactionTypeClearance  TransactionType = "clearance"
	TransactionTypeAdjustment TransactionType = "adjustment"
)

// AdjustmentDirection is the explicit direction of a manual adjustment.
type AdjustmentDirection string

const (
	AdjustmentDirectionCredit AdjustmentDirection = "credit"
	AdjustmentDirectionDebit  AdjustmentDirection = "debit"
)

// Reference types linking a ledger entry back to the business event that caused it.
const (
	ReferenceTypeOrderPayment     = "order_payment"
	ReferenceTypePosSale          = "pos_sale"
	ReferenceTypeManualAdjustment = "manual_adjustment"
	ReferenceTypeClearance        = "clearance"
)

// WalletTransaction is one immutable, append-only ledger entry. Rows are
// written exactly once per financial event and never mutated or deleted.
type WalletTransaction struct {
	ID              uuid.UUID       `json:"id"`
	WalletID        uuid.UUID       `json:"walletId"`
	UserID          uuid.UUID       `json:"userId"`
	Type            TransactionType `json:"type"`
	Direction       AdjustmentDirection `json:"direction,omitempty"` // set for adjustments only
	Amount          decimal.Decimal `json:"amount"`
	PreviousBalance decimal.Decimal `json:"previousBalance"`
	NewBalance      decimal.Decimal `json:"newBalance"`
	Description     string          `json:"description"`
	Reference       null.String     `json:"reference,omitempty"`
	ReferenceType   string          `json:"referenceType,omitempty"`
	ProcessedBy     *uuid.UUID      `json:"processedBy,omitempty"` // nil for system-triggered events
	CreatedAt       time.Time       `json:"createdAt"`
}

// SignedDelta returns the balance change this entry applied: positive for
// credits, negative for debits and clearances, per direction for adjustments.
func (t *WalletTransaction) SignedDelta() decimal.Decimal {
	switch t.Type {
	case TransactionTypeCredit:
		return t.Amount
	case TransactionTypeDebit:
		return t.Amount.Neg()
	case TransactionTypeClearance:
		// Clearance zeroes a positive balance, so the delta is the negated amount.
		return t.Amount.Neg()
	case TransactionTypeAdjustment:
		if t.Direction == AdjustmentDirectionDebit {
			return t.Amount.Neg()
		}
		return t.Amount
	}
	return decimal.Zero
}
