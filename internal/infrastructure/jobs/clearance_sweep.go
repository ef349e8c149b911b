package jobs

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"dairy-ledger.backend/internal/domain/entities"
	"dairy-ledger.backend/internal/usecases"
	"dairy-ledger.backend/pkg/logger"
)

type clearanceService interface {
	ListCandidates(ctx context.Context, limit int) ([]*entities.Wallet, error)
	CheckAndClearWallet(ctx context.Context, userID uuid.UUID, triggeredBy string) (bool, error)
}

// ClearanceSweepJob periodically clears wallets whose balance already sits at
// or above their threshold. The engine clears on the credit path itself; the
// sweep catches wallets that became eligible without a new credit, e.g. after
// an admin lowered a threshold.
type ClearanceSweepJob struct {
	clearance clearanceService
	interval  time.Duration
	batchSize int
	stop      chan struct{}
}

// NewClearanceSweepJob creates a new clearance sweep job
func NewClearanceSweepJob(clearance *usecases.ClearanceUsecase, interval time.Duration, batchSize int) *ClearanceSweepJob {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	if batchSize <= 0 {
		batchSize = 100
	}
	return &ClearanceSweepJob{
		clearance: clearance,
		interval:  interval,
		batchSize: batchSize,
		stop:      make(chan struct{}),
	}
}

// Start runs the sweep loop until the context is cancelled or Stop is called
func (j *ClearanceSweepJob) Start(ctx context.Context) {
	logger.Info(ctx, "starting clearance sweep job", zap.Duration("interval", j.interval))

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "clearance sweep job stopped (context cancelled)")
			return
		case <-j.stop:
			logger.Info(ctx, "clearance sweep job stopped")
			return
		case <-ticker.C:
			j.sweep(ctx)
		}
	}
}

// Stop signals the job to exit
func (j *ClearanceSweepJob) Stop() {
	close(j.stop)
}

func (j *ClearanceSweepJob) sweep(ctx context.Context) {
	candidates, err := j.clearance.ListCandidates(ctx, j.batchSize)
	if err != nil {
		logger.Error(ctx, "failed to list clearance candidates", zap.Error(err))
		return
	}
	if len(candidates) == 0 {
		return
	}

	cleared := 0
	for _, wallet := range candidates {
		ok, err := j.clearance.CheckAndClearWallet(ctx, wallet.UserID, "sweep")
		if err != nil {
			logger.Error(ctx, "sweep clearance failed",
				zap.String("user_id", wallet.UserID.String()), zap.Error(err))
			continue
		}
		if ok {
			cleared++
		}
	}

	logger.Info(ctx, "clearance sweep finished",
		zap.Int("candidates", len(candidates)), zap.Int("cleared", cleared))
}
