package usecases

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"dairy-ledger.backend/internal/domain/entities"
	"dairy-ledger.backend/internal/domain/repositories"
	"dairy-ledger.backend/pkg/utils"
)

// ReportingUsecase provides read-only projections of ledger state for admin
// and customer consumption. Stale reads are acceptable; nothing here mutates.
type ReportingUsecase struct {
	walletRepo repositories.WalletRepository
	ledgerRepo repositories.WalletTransactionRepository
}

// NewReportingUsecase creates a new reporting usecase
func NewReportingUsecase(
	walletRepo repositories.WalletRepository,
	ledgerRepo repositories.WalletTransactionRepository,
) *ReportingUsecase {
	return &ReportingUsecase{walletRepo: walletRepo, ledgerRepo: ledgerRepo}
}

// WalletListResult is a page of wallets with pagination metadata
type WalletListResult struct {
	Wallets    []*entities.Wallet   `json:"wallets"`
	Pagination utils.PaginationMeta `json:"pagination"`
}

// TransactionListResult is a page of ledger entries with pagination metadata
type TransactionListResult struct {
	Transactions []*entities.WalletTransaction `json:"transactions"`
	Pagination   utils.PaginationMeta          `json:"pagination"`
}

// ListWallets returns wallets matching the filter, paginated
func (u *ReportingUsecase) ListWallets(ctx context.Context, filter entities.WalletListFilter) (*WalletListResult, error) {
	params := utils.GetPaginationParams(filter.Page, filter.Limit)
	filter.Page = params.Page
	filter.Limit = params.Limit

	wallets, total, err := u.walletRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if wallets == nil {
		wallets = []*entities.Wallet{}
	}

	return &WalletListResult{
		Wallets:    wallets,
		Pagination: utils.CalculateMeta(total, params.Page, params.Limit),
	}, nil
}

// GetWallet returns a single user's wallet
func (u *ReportingUsecase) GetWallet(ctx context.Context, userID uuid.UUID) (*entities.Wallet, error) {
	return u.walletRepo.GetByUserID(ctx, userID)
}

// GetTransactions returns a user's ledger history, newest first
func (u *ReportingUsecase) GetTransactions(ctx context.Context, userID uuid.UUID, page, limit int) (*TransactionListResult, error) {
	params := utils.GetPaginationParams(page, limit)

	entries, total, err := u.ledgerRepo.ListByUserID(ctx, userID, params.Limit, params.CalculateOffset())
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []*entities.WalletTransaction{}
	}

	return &TransactionListResult{
		Transactions: entries,
		Pagination:   utils.CalculateMeta(total, params.Page, params.Limit),
	}, nil
}

// ExportTransactionsCSV writes a user's full ledger history as CSV, oldest
// first, flattened for spreadsheet consumption.
func (u *ReportingUsecase) ExportTransactionsCSV(ctx context.Context, userID uuid.UUID, w io.Writer) error {
	wallet, err := u.walletRepo.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}

	entries, err := u.ledgerRepo.ListForWallet(ctx, wallet.ID)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{
		"id", "created_at", "type", "amount", "previous_balance", "new_balance",
		"description", "reference", "reference_type", "processed_by",
	}); err != nil {
		return err
	}

	for _, e := range entries {
		processedBy := ""
		if e.ProcessedBy != nil {
			processedBy = e.ProcessedBy.String()
		}
		record := []string{
			e.ID.String(),
			e.CreatedAt.Format(time.RFC3339),
			string(e.Type),
			e.Amount.StringFixed(2),
			e.PreviousBalance.StringFixed(2),
			e.NewBalance.StringFixed(2),
			e.Description,
			e.Reference.String,
			e.ReferenceType,
			processedBy,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	return nil
}
