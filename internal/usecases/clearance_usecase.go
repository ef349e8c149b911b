package usecases

import (
	"context"

	"github.com/google/uuid"
	"dairy-ledger.backend/internal/domain/entities"
	domainerrors "dairy-ledger.backend/internal/domain/errors"
	"dairy-ledger.backend/internal/domain/repositories"
	"dairy-ledger.backend/pkg/metrics"
)

// ClearanceUsecase orchestrates threshold-driven clearance outside the
// engine's own post-credit check: the admin "evaluate now" endpoint and the
// periodic sweep job both go through here.
type ClearanceUsecase struct {
	ledger       *LedgerUsecase
	walletRepo   repositories.WalletRepository
	settingsRepo repositories.WalletSettingsRepository
}

// NewClearanceUsecase creates a new clearance usecase
func NewClearanceUsecase(
	ledger *LedgerUsecase,
	walletRepo repositories.WalletRepository,
	settingsRepo repositories.WalletSettingsRepository,
) *ClearanceUsecase {
	return &ClearanceUsecase{
		ledger:       ledger,
		walletRepo:   walletRepo,
		settingsRepo: settingsRepo,
	}
}

// CheckAndClearWallet evaluates the threshold policy for one wallet and
// clears it when due. Returns true iff a clearance entry was written.
// A missing wallet is not an error here: there is simply nothing to clear.
func (u *ClearanceUsecase) CheckAndClearWallet(ctx context.Context, userID uuid.UUID, triggeredBy string) (bool, error) {
	wallet, err := u.walletRepo.GetByUserID(ctx, userID)
	if err != nil {
		if err == domainerrors.ErrWalletNotFound {
			return false, nil
		}
		return false, err
	}

	settings, err := u.settingsRepo.Get(ctx)
	if err != nil {
		return false, err
	}

	if !ShouldClear(wallet, settings) {
		return false, nil
	}

	cleared, err := u.ledger.Clear(ctx, userID, triggeredBy, nil)
	if err != nil {
		return false, err
	}
	if cleared {
		metrics.RecordClearance(triggeredBy)
	}
	return cleared, nil
}

// ForceClear zeroes a positive balance regardless of threshold. Admin-only;
// the acting principal is recorded on the clearance entry.
func (u *ClearanceUsecase) ForceClear(ctx context.Context, userID uuid.UUID, processedBy uuid.UUID) (bool, error) {
	if processedBy == uuid.Nil {
		return false, domainerrors.ErrInvalidInput
	}
	cleared, err := u.ledger.Clear(ctx, userID, processedBy.String(), &processedBy)
	if err != nil {
		return false, err
	}
	if cleared {
		metrics.RecordClearance("manual")
	}
	return cleared, nil
}

// ListCandidates returns wallets currently eligible for clearance
func (u *ClearanceUsecase) ListCandidates(ctx context.Context, limit int) ([]*entities.Wallet, error) {
	settings, err := u.settingsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if !settings.AutoClearanceEnabled {
		return nil, nil
	}
	return u.walletRepo.ListClearanceCandidates(ctx, settings.DefaultClearanceThreshold, limit)
}
