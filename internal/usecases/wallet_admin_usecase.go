package usecases

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	domainerrors "dairy-ledger.backend/internal/domain/errors"
	"dairy-ledger.backend/internal/domain/repositories"
	"dairy-ledger.backend/pkg/logger"
)

// WalletAdminUsecase covers admin wallet management that does not touch
// balances: threshold overrides and suspension. Balance mutations stay with
// the transaction engine.
type WalletAdminUsecase struct {
	walletRepo repositories.WalletRepository
}

// NewWalletAdminUsecase creates a new wallet admin usecase
func NewWalletAdminUsecase(walletRepo repositories.WalletRepository) *WalletAdminUsecase {
	return &WalletAdminUsecase{walletRepo: walletRepo}
}

// SetThreshold sets a wallet's clearance threshold override, or clears it
// (nil) so the wallet falls back to the global default
func (u *WalletAdminUsecase) SetThreshold(ctx context.Context, userID uuid.UUID, threshold *decimal.Decimal, processedBy uuid.UUID) error {
	if processedBy == uuid.Nil {
		return domainerrors.ErrInvalidInput
	}
	if threshold != nil && threshold.Sign() < 0 {
		return domainerrors.ErrInvalidInput
	}

	if err := u.walletRepo.SetThreshold(ctx, userID, threshold); err != nil {
		return err
	}

	logger.Info(ctx, "wallet threshold updated",
		zap.String("user_id", userID.String()),
		zap.String("processed_by", processedBy.String()))
	return nil
}

// BulkSetThreshold applies a threshold override to the given users, or to
// every wallet when userIDs is empty. Returns the number of wallets updated.
func (u *WalletAdminUsecase) BulkSetThreshold(ctx context.Context, threshold decimal.Decimal, userIDs []uuid.UUID, processedBy uuid.UUID) (int64, error) {
	if processedBy == uuid.Nil {
		return 0, domainerrors.ErrInvalidInput
	}
	if threshold.Sign() < 0 {
		return 0, domainerrors.ErrInvalidInput
	}

	updated, err := u.walletRepo.SetThresholdBulk(ctx, threshold, userIDs)
	if err != nil {
		return 0, err
	}

	logger.Info(ctx, "bulk wallet threshold update",
		zap.Int64("wallets_updated", updated),
		zap.String("processed_by", processedBy.String()))
	return updated, nil
}

// SetActive suspends or resumes a wallet. Suspended wallets reject further
// transactions at the engine's entry point; reads still work.
func (u *WalletAdminUsecase) SetActive(ctx context.Context, userID uuid.UUID, active bool, processedBy uuid.UUID) error {
	if processedBy == uuid.Nil {
		return domainerrors.ErrInvalidInput
	}

	if err := u.walletRepo.SetActive(ctx, userID, active); err != nil {
		return err
	}

	logger.Info(ctx, "wallet active flag updated",
		zap.String("user_id", userID.String()),
		zap.Bool("is_active", active),
		zap.String("processed_by", processedBy.String()))
	return nil
}
