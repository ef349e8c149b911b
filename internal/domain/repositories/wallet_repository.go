package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"dairy-ledger.backend/internal/domain/entities"
)

// WalletRepository is the sole read/write path to wallet state.
type WalletRepository interface {
	// GetByID gets a wallet by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Wallet, error)

	// GetByUserID gets the wallet owned by a user
	GetByUserID(ctx context.Context, userID uuid.UUID) (*entities.Wallet, error)

	// EnsureExists returns the user's wallet, creating it with a zero balance
	// if absent. Idempotent under concurrent first access: creation relies on
	// the unique constraint on user_id, never check-then-insert.
	EnsureExists(ctx context.Context, userID uuid.UUID) (*entities.Wallet, error)

	// UpdateBalance writes a new balance if the stored version still matches.
	// Returns false (and no error) on a version conflict so callers can retry.
	UpdateBalance(ctx context.Context, walletID uuid.UUID, version int64, newBalance decimal.Decimal) (bool, error)

	// SetThreshold sets or clears (nil) a wallet's clearance threshold override
	SetThreshold(ctx context.Context, userID uuid.UUID, threshold *decimal.Decimal) error

	// SetThresholdBulk applies a threshold override to the given users,
	// or to every wallet when userIDs is empty. Returns affected rows.
	SetThresholdBulk(ctx context.Context, threshold decimal.Decimal, userIDs []uuid.UUID) (int64, error)

	// SetActive toggles the suspension flag on a user's wallet
	SetActive(ctx context.Context, userID uuid.UUID, active bool) error

	// List returns wallets matching the filter plus the total count
	List(ctx context.Context, filter entities.WalletListFilter) ([]*entities.Wallet, int64, error)

	// ListClearanceCandidates returns active wallets whose balance is at or
	// above their effective threshold (override, else defaultThreshold).
	ListClearanceCandidates(ctx context.Context, defaultThreshold decimal.Decimal, limit int) ([]*entities.Wallet, error)
}
