// Command reconcile replays every wallet's transaction log and compares the
// summed deltas with the stored balance. The stored balance is a cached
// projection of the log; any divergence is an InconsistentState condition
// that the engine refuses to repair automatically. This tool is the manual
// reconciliation path.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"dairy-ledger.backend/internal/config"
	"dairy-ledger.backend/internal/domain/entities"
	"dairy-ledger.backend/internal/infrastructure/repositories"
)

func main() {
	verbose := flag.Bool("v", false, "print every wallet, not only mismatches")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
	cfg := config.Load()

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.Database.URL(),
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	mismatches, err := run(context.Background(), db, *verbose, os.Stdout)
	if err != nil {
		log.Fatalf("reconciliation failed: %v", err)
	}
	if mismatches > 0 {
		fmt.Printf("FAIL: %d wallet(s) diverged from their ledger\n", mismatches)
		os.Exit(1)
	}
	fmt.Println("OK: all wallet balances match their ledgers")
}

func run(ctx context.Context, db *gorm.DB, verbose bool, out io.Writer) (int, error) {
	walletRepo := repositories.NewWalletRepository(db)
	ledgerRepo := repositories.NewWalletTransactionRepository(db)

	mismatches := 0
	page := 1
	const pageSize = 200

	for {
		wallets, _, err := walletRepo.List(ctx, entities.WalletListFilter{Page: page, Limit: pageSize})
		if err != nil {
			return mismatches, fmt.Errorf("failed to list wallets: %w", err)
		}
		if len(wallets) == 0 {
			break
		}

		for _, wallet := range wallets {
			replayed, err := replayBalance(ctx, ledgerRepo, wallet)
			if err != nil {
				return mismatches, err
			}

			if !replayed.Equal(wallet.Balance) {
				mismatches++
				fmt.Fprintf(out, "MISMATCH wallet=%s user=%s stored=%s replayed=%s\n",
					wallet.ID, wallet.UserID, wallet.Balance.StringFixed(2), replayed.StringFixed(2))
			} else if verbose {
				fmt.Fprintf(out, "ok wallet=%s user=%s balance=%s\n",
					wallet.ID, wallet.UserID, wallet.Balance.StringFixed(2))
			}
		}

		if len(wallets) < pageSize {
			break
		}
		page++
	}

	return mismatches, nil
}

func replayBalance(ctx context.Context, ledgerRepo *repositories.WalletTransactionRepository, wallet *entities.Wallet) (decimal.Decimal, error) {
	entries, err := ledgerRepo.ListForWallet(ctx, wallet.ID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to load ledger for wallet %s: %w", wallet.ID, err)
	}

	balance := decimal.Zero
	for _, e := range entries {
		balance = balance.Add(e.SignedDelta())
	}
	return balance, nil
}
