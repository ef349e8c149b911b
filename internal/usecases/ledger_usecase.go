package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"
	"dairy-ledger.backend/internal/domain/entities"
	domainerrors "dairy-ledger.backend/internal/domain/errors"
	"dairy-ledger.backend/internal/domain/repositories"
	"dairy-ledger.backend/pkg/logger"
	"dairy-ledger.backend/pkg/metrics"
)

// maxBalanceRetries bounds the optimistic-concurrency retry loop. Conflicts
// only occur when two transactions race on the same wallet row.
const maxBalanceRetries = 5

// LedgerUsecase is the transaction engine: the only component permitted to
// change a wallet balance. Every balance change commits together with exactly
// one immutable ledger entry inside a single unit of work.
type LedgerUsecase struct {
	uow          repositories.UnitOfWork
	walletRepo   repositories.WalletRepository
	ledgerRepo   repositories.WalletTransactionRepository
	settingsRepo repositories.WalletSettingsRepository
}

// NewLedgerUsecase creates a new ledger usecase
func NewLedgerUsecase(
	uow repositories.UnitOfWork,
	walletRepo repositories.WalletRepository,
	ledgerRepo repositories.WalletTransactionRepository,
	settingsRepo repositories.WalletSettingsRepository,
) *LedgerUsecase {
	return &LedgerUsecase{
		uow:          uow,
		walletRepo:   walletRepo,
		ledgerRepo:   ledgerRepo,
		settingsRepo: settingsRepo,
	}
}

// Credit adds amount to the user's wallet, creating the wallet if this is the
// user's first financial event. After the credit commits, the engine checks
// the clearance threshold itself, so callers never need a second call.
// The returned wallet reflects the state right after the credit; a triggered
// auto-clearance lands as its own subsequent ledger entry.
func (u *LedgerUsecase) Credit(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, description string, reference null.String, referenceType string, processedBy *uuid.UUID) (*entities.Wallet, error) {
	wallet, err := u.apply(ctx, operation{
		userID:        userID,
		txType:        entities.TransactionTypeCredit,
		amount:        amount,
		description:   description,
		reference:     reference,
		referenceType: referenceType,
		processedBy:   processedBy,
	})
	if err != nil {
		metrics.RecordTransaction(string(entities.TransactionTypeCredit), "failure")
		return nil, err
	}
	metrics.RecordTransaction(string(entities.TransactionTypeCredit), "success")

	// Auto-clearance is best-effort relative to the committed credit: a
	// failure here is logged and surfaced by the sweep job later, never
	// unwound into the credit itself.
	if _, err := u.autoClear(ctx, userID); err != nil {
		logger.Error(ctx, "auto-clearance after credit failed",
			zap.String("user_id", userID.String()), zap.Error(err))
	}

	return wallet, nil
}

// Debit subtracts amount from the user's wallet. Debiting past zero is
// allowed while the global settings permit negative balances (the dairy
// subscription model: customers accrue debt and settle later).
func (u *LedgerUsecase) Debit(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, description string, reference null.String, referenceType string, processedBy *uuid.UUID) (*entities.Wallet, error) {
	wallet, err := u.apply(ctx, operation{
		userID:        userID,
		txType:        entities.TransactionTypeDebit,
		amount:        amount,
		description:   description,
		reference:     reference,
		referenceType: referenceType,
		processedBy:   processedBy,
	})
	if err != nil {
		metrics.RecordTransaction(string(entities.TransactionTypeDebit), "failure")
		return nil, err
	}
	metrics.RecordTransaction(string(entities.TransactionTypeDebit), "success")
	return wallet, nil
}

// Adjust applies a manual admin correction in the given direction. There are
// no anonymous adjustments: processedBy is mandatory.
func (u *LedgerUsecase) Adjust(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, direction entities.AdjustmentDirection, description string, processedBy uuid.UUID) (*entities.Wallet, error) {
	if processedBy == uuid.Nil {
		return nil, domainerrors.ErrInvalidInput
	}
	if direction != entities.AdjustmentDirectionCredit && direction != entities.AdjustmentDirectionDebit {
		return nil, domainerrors.ErrInvalidInput
	}

	wallet, err := u.apply(ctx, operation{
		userID:        userID,
		txType:        entities.TransactionTypeAdjustment,
		direction:     direction,
		amount:        amount,
		description:   description,
		referenceType: entities.ReferenceTypeManualAdjustment,
		processedBy:   &processedBy,
	})
	if err != nil {
		metrics.RecordTransaction(string(entities.TransactionTypeAdjustment), "failure")
		return nil, err
	}
	metrics.RecordTransaction(string(entities.TransactionTypeAdjustment), "success")
	return wallet, nil
}

// Clear zeroes a positive wallet balance, recording the settlement as a
// clearance ledger entry. Returns false without error when there is nothing
// to clear (zero or negative balance). triggeredBy names the initiator and
// becomes the entry's reference ("system", "sweep", or an admin id).
func (u *LedgerUsecase) Clear(ctx context.Context, userID uuid.UUID, triggeredBy string, processedBy *uuid.UUID) (bool, error) {
	cleared := false
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		wallet, err := u.walletRepo.GetByUserID(txCtx, userID)
		if err != nil {
			return err
		}
		if !wallet.IsActive {
			return domainerrors.ErrWalletSuspended
		}
		if wallet.Balance.Sign() <= 0 {
			return nil
		}

		if err := u.checkSnapshotChain(txCtx, wallet); err != nil {
			return err
		}

		ok, err := u.walletRepo.UpdateBalance(txCtx, wallet.ID, wallet.Version, decimal.Zero)
		if err != nil {
			return err
		}
		if !ok {
			// Another writer moved the balance; the caller re-evaluates.
			return nil
		}

		entry := &entities.WalletTransaction{
			WalletID:        wallet.ID,
			UserID:          userID,
			Type:            entities.TransactionTypeClearance,
			Amount:          wallet.Balance,
			PreviousBalance: wallet.Balance,
			NewBalance:      decimal.Zero,
			Description:     fmt.Sprintf("Balance clearance of %s", wallet.Balance.StringFixed(2)),
			Reference:       null.StringFrom(triggeredBy),
			ReferenceType:   entities.ReferenceTypeClearance,
			ProcessedBy:     processedBy,
		}
		if err := u.ledgerRepo.Create(txCtx, entry); err != nil {
			return err
		}

		cleared = true
		return nil
	})
	if err != nil {
		return false, err
	}

	if cleared {
		logger.Info(ctx, "wallet cleared",
			zap.String("user_id", userID.String()),
			zap.String("triggered_by", triggeredBy))
	}
	return cleared, nil
}

// operation carries the parameters of one balance change
type operation struct {
	userID        uuid.UUID
	txType        entities.TransactionType
	direction     entities.AdjustmentDirection
	amount        decimal.Decimal
	description   string
	reference     null.String
	referenceType string
	processedBy   *uuid.UUID
}

// apply runs the read-compute-write sequence for one operation inside a
// single transaction, retrying on optimistic version conflicts.
func (u *LedgerUsecase) apply(ctx context.Context, op operation) (*entities.Wallet, error) {
	if op.amount.Sign() <= 0 {
		return nil, domainerrors.ErrInvalidAmount
	}

	start := time.Now()
	defer func() {
		metrics.OperationDuration.WithLabelValues(string(op.txType)).Observe(time.Since(start).Seconds())
	}()

	settings, err := u.settingsRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load wallet settings: %w", err)
	}

	delta := op.amount
	if op.txType == entities.TransactionTypeDebit ||
		(op.txType == entities.TransactionTypeAdjustment && op.direction == entities.AdjustmentDirectionDebit) {
		delta = op.amount.Neg()
	}

	var result *entities.Wallet
	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		wallet, err := u.walletRepo.EnsureExists(txCtx, op.userID)
		if err != nil {
			return err
		}

		for attempt := 0; ; attempt++ {
			if !wallet.IsActive {
				return domainerrors.ErrWalletSuspended
			}

			newBalance := wallet.Balance.Add(delta)
			if newBalance.Sign() < 0 && delta.Sign() < 0 {
				if !settings.AllowNegativeBalance {
					return domainerrors.ErrInsufficientBalance
				}
				if settings.MaxNegativeLimit != nil && newBalance.Abs().GreaterThan(*settings.MaxNegativeLimit) {
					return domainerrors.ErrNegativeLimitExceeded
				}
			}

			if err := u.checkSnapshotChain(txCtx, wallet); err != nil {
				return err
			}

			ok, err := u.walletRepo.UpdateBalance(txCtx, wallet.ID, wallet.Version, newBalance)
			if err != nil {
				return err
			}
			if ok {
				entry := &entities.WalletTransaction{
					WalletID:        wallet.ID,
					UserID:          op.userID,
					Type:            op.txType,
					Direction:       op.direction,
					Amount:          op.amount,
					PreviousBalance: wallet.Balance,
					NewBalance:      newBalance,
					Description:     op.description,
					Reference:       op.reference,
					ReferenceType:   op.referenceType,
					ProcessedBy:     op.processedBy,
				}
				if err := u.ledgerRepo.Create(txCtx, entry); err != nil {
					return err
				}

				updated := *wallet
				updated.Balance = newBalance
				updated.Version = wallet.Version + 1
				result = &updated
				return nil
			}

			if attempt >= maxBalanceRetries {
				return fmt.Errorf("wallet %s: balance update contention not resolved after %d attempts", wallet.ID, attempt+1)
			}

			wallet, err = u.walletRepo.GetByUserID(txCtx, op.userID)
			if err != nil {
				return err
			}
		}
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// checkSnapshotChain verifies that the most recent ledger entry's newBalance
// matches the balance about to be superseded. A mismatch means the cached
// balance diverged from the log: abort and demand manual reconciliation,
// never silently repair.
func (u *LedgerUsecase) checkSnapshotChain(ctx context.Context, wallet *entities.Wallet) error {
	latest, err := u.ledgerRepo.GetLatestForWallet(ctx, wallet.ID)
	if err != nil {
		if err == domainerrors.ErrNotFound {
			return nil // empty ledger, nothing to check against
		}
		return err
	}
	if !latest.NewBalance.Equal(wallet.Balance) {
		logger.Error(ctx, "wallet balance diverged from ledger",
			zap.String("wallet_id", wallet.ID.String()),
			zap.String("stored_balance", wallet.Balance.String()),
			zap.String("ledger_balance", latest.NewBalance.String()))
		return domainerrors.ErrInconsistentState
	}
	return nil
}

// autoClear evaluates the threshold policy and clears the wallet when due
func (u *LedgerUsecase) autoClear(ctx context.Context, userID uuid.UUID) (bool, error) {
	wallet, err := u.walletRepo.GetByUserID(ctx, userID)
	if err != nil {
		return false, err
	}
	settings, err := u.settingsRepo.Get(ctx)
	if err != nil {
		return false, err
	}
	if !ShouldClear(wallet, settings) {
		return false, nil
	}

	cleared, err := u.Clear(ctx, userID, "system", nil)
	if err != nil {
		return false, err
	}
	if cleared {
		metrics.RecordClearance("auto")
	}
	return cleared, nil
}
