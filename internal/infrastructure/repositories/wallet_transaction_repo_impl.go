package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"dairy-ledger.backend/internal/domain/entities"
	domainerrors "dairy-ledger.backend/internal/domain/errors"
	"dairy-ledger.backend/internal/infrastructure/models"
)

// WalletTransactionRepository implements ledger entry persistence. There is
// intentionally no Update or Delete: the ledger is append-only.
type WalletTransactionRepository struct {
	db *gorm.DB
}

// NewWalletTransactionRepository creates a new wallet transaction repository
func NewWalletTransactionRepository(db *gorm.DB) *WalletTransactionRepository {
	return &WalletTransactionRepository{db: db}
}

// Create writes one immutable ledger entry
func (r *WalletTransactionRepository) Create(ctx context.Context, entry *entities.WalletTransaction) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	m := &models.WalletTransaction{
		ID:              entry.ID,
		WalletID:        entry.WalletID,
		UserID:          entry.UserID,
		Type:            string(entry.Type),
		Direction:       string(entry.Direction),
		Amount:          entry.Amount,
		PreviousBalance: entry.PreviousBalance,
		NewBalance:      entry.NewBalance,
		Description:     entry.Description,
		ReferenceType:   entry.ReferenceType,
		ProcessedBy:     entry.ProcessedBy,
		CreatedAt:       entry.CreatedAt,
	}
	if entry.Reference.Valid {
		ref := entry.Reference.String
		m.Reference = &ref
	}

	db := GetDB(ctx, r.db)
	return db.WithContext(ctx).Create(m).Error
}

// GetLatestForWallet returns the most recent entry for a wallet
func (r *WalletTransactionRepository) GetLatestForWallet(ctx context.Context, walletID uuid.UUID) (*entities.WalletTransaction, error) {
	var m models.WalletTransaction
	db := GetDB(ctx, r.db)
	err := db.WithContext(ctx).
		Where("wallet_id = ?", walletID).
		Order("created_at DESC, id DESC").
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// ListByUserID returns entries for a user, newest first, with total count
func (r *WalletTransactionRepository) ListByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entities.WalletTransaction, int64, error) {
	db := GetDB(ctx, r.db)

	var total int64
	if err := db.WithContext(ctx).Model(&models.WalletTransaction{}).
		Where("user_id = ?", userID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit <= 0 {
		limit = 20
	}

	var ms []models.WalletTransaction
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&ms).Error
	if err != nil {
		return nil, 0, err
	}

	entries := make([]*entities.WalletTransaction, 0, len(ms))
	for i := range ms {
		entries = append(entries, r.toEntity(&ms[i]))
	}
	return entries, total, nil
}

// ListForWallet returns every entry for a wallet in creation order
func (r *WalletTransactionRepository) ListForWallet(ctx context.Context, walletID uuid.UUID) ([]*entities.WalletTransaction, error) {
	db := GetDB(ctx, r.db)
	var ms []models.WalletTransaction
	err := db.WithContext(ctx).
		Where("wallet_id = ?", walletID).
		Order("created_at ASC, id ASC").
		Find(&ms).Error
	if err != nil {
		return nil, err
	}

	entries := make([]*entities.WalletTransaction, 0, len(ms))
	for i := range ms {
		entries = append(entries, r.toEntity(&ms[i]))
	}
	return entries, nil
}

func (r *WalletTransactionRepository) toEntity(m *models.WalletTransaction) *entities.WalletTransaction {
	e := &entities.WalletTransaction{
		ID:              m.ID,
		WalletID:        m.WalletID,
		UserID:          m.UserID,
		Type:            entities.TransactionType(m.Type),
		Direction:       entities.AdjustmentDirection(m.Direction),
		Amount:          m.Amount,
		PreviousBalance: m.PreviousBalance,
		NewBalance:      m.NewBalance,
		Description:     m.Description,
		ReferenceType:   m.ReferenceType,
		ProcessedBy:     m.ProcessedBy,
		CreatedAt:       m.CreatedAt,
	}
	if m.Reference != nil {
		e.Reference = null.StringFrom(*m.Reference)
	}
	return e
}
