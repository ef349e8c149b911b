package repositories

import (
	"context"

	"github.com/google/uuid"
	"dairy-ledger.backend/internal/domain/entities"
)

// WalletTransactionRepository persists the append-only ledger. Entries are
// written exactly once and never updated or deleted.
type WalletTransactionRepository interface {
	// Create writes one immutable ledger entry
	Create(ctx context.Context, entry *entities.WalletTransaction) error

	// GetLatestForWallet returns the most recent entry for a wallet, or
	// domain ErrNotFound when the ledger is empty.
	GetLatestForWallet(ctx context.Context, walletID uuid.UUID) (*entities.WalletTransaction, error)

	// ListByUserID returns entries for a user, newest first, with total count
	ListByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entities.WalletTransaction, int64, error)

	// ListForWallet returns every entry for a wallet in creation order,
	// oldest first. Used for replay/reconciliation.
	ListForWallet(ctx context.Context, walletID uuid.UUID) ([]*entities.WalletTransaction, error)
}
