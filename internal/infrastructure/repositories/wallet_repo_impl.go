package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"dairy-ledger.backend/internal/domain/entities"
	domainerrors "dairy-ledger.backend/internal/domain/errors"
	"dairy-ledger.backend/internal/infrastructure/models"
)

// WalletRepository implements wallet data operations on GORM
type WalletRepository struct {
	db *gorm.DB
}

// NewWalletRepository creates a new wallet repository
func NewWalletRepository(db *gorm.DB) *WalletRepository {
	return &WalletRepository{db: db}
}

// GetByID gets a wallet by ID
func (r *WalletRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Wallet, error) {
	var m models.Wallet
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrWalletNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// GetByUserID gets the wallet owned by a user
func (r *WalletRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*entities.Wallet, error) {
	var m models.Wallet
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Where("user_id = ?", userID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrWalletNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// EnsureExists returns the user's wallet, creating it with a zero balance if
// absent. The insert is guarded by the unique index on user_id: two
// concurrent first calls race on the insert and one of them no-ops, so both
// observe the same single row.
func (r *WalletRepository) EnsureExists(ctx context.Context, userID uuid.UUID) (*entities.Wallet, error) {
	db := GetDB(ctx, r.db)

	m := &models.Wallet{
		ID:       uuid.New(),
		UserID:   userID,
		Balance:  decimal.Zero,
		IsActive: true,
	}
	if err := db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(m).Error; err != nil {
		return nil, err
	}

	// Re-read: on conflict the generated ID above never hit the table.
	return r.GetByUserID(ctx, userID)
}

// UpdateBalance writes a new balance guarded by the stored version. A false
// return with nil error means another writer got there first; the caller
// re-reads and retries.
func (r *WalletRepository) UpdateBalance(ctx context.Context, walletID uuid.UUID, version int64, newBalance decimal.Decimal) (bool, error) {
	db := GetDB(ctx, r.db)
	res := db.WithContext(ctx).Model(&models.Wallet{}).
		Where("id = ? AND version = ?", walletID, version).
		Updates(map[string]interface{}{
			"balance":    newBalance,
			"version":    version + 1,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// SetThreshold sets or clears a wallet's clearance threshold override
func (r *WalletRepository) SetThreshold(ctx context.Context, userID uuid.UUID, threshold *decimal.Decimal) error {
	db := GetDB(ctx, r.db)
	res := db.WithContext(ctx).Model(&models.Wallet{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"clearance_threshold": threshold,
			"updated_at":          time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domainerrors.ErrWalletNotFound
	}
	return nil
}

// SetThresholdBulk applies a threshold override to the given users, or to
// every wallet when userIDs is empty
func (r *WalletRepository) SetThresholdBulk(ctx context.Context, threshold decimal.Decimal, userIDs []uuid.UUID) (int64, error) {
	db := GetDB(ctx, r.db)
	q := db.WithContext(ctx).Model(&models.Wallet{})
	if len(userIDs) > 0 {
		q = q.Where("user_id IN ?", userIDs)
	}
	res := q.Updates(map[string]interface{}{
		"clearance_threshold": threshold,
		"updated_at":          time.Now(),
	})
	return res.RowsAffected, res.Error
}

// SetActive toggles the suspension flag on a user's wallet
func (r *WalletRepository) SetActive(ctx context.Context, userID uuid.UUID, active bool) error {
	db := GetDB(ctx, r.db)
	res := db.WithContext(ctx).Model(&models.Wallet{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"is_active":  active,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domainerrors.ErrWalletNotFound
	}
	return nil
}

// List returns wallets matching the filter with the total count
func (r *WalletRepository) List(ctx context.Context, filter entities.WalletListFilter) ([]*entities.Wallet, int64, error) {
	db := GetDB(ctx, r.db)
	q := db.WithContext(ctx).Model(&models.Wallet{})

	if filter.MinBalance != nil {
		q = q.Where("balance >= ?", *filter.MinBalance)
	}
	if filter.MaxBalance != nil {
		q = q.Where("balance <= ?", *filter.MaxBalance)
	}
	if filter.ActiveOnly {
		q = q.Where("is_active = ?", true)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := 0
	if filter.Page > 1 {
		offset = (filter.Page - 1) * limit
	}

	var ms []models.Wallet
	if err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&ms).Error; err != nil {
		return nil, 0, err
	}

	wallets := make([]*entities.Wallet, 0, len(ms))
	for i := range ms {
		wallets = append(wallets, r.toEntity(&ms[i]))
	}
	return wallets, total, nil
}

// ListClearanceCandidates returns active wallets whose positive balance sits
// at or above their effective threshold
func (r *WalletRepository) ListClearanceCandidates(ctx context.Context, defaultThreshold decimal.Decimal, limit int) ([]*entities.Wallet, error) {
	db := GetDB(ctx, r.db)
	var ms []models.Wallet
	err := db.WithContext(ctx).
		Where("is_active = ?", true).
		Where("balance > 0").
		Where("balance >= COALESCE(clearance_threshold, ?)", defaultThreshold).
		Order("balance DESC").
		Limit(limit).
		Find(&ms).Error
	if err != nil {
		return nil, err
	}

	wallets := make([]*entities.Wallet, 0, len(ms))
	for i := range ms {
		wallets = append(wallets, r.toEntity(&ms[i]))
	}
	return wallets, nil
}

func (r *WalletRepository) toEntity(m *models.Wallet) *entities.Wallet {
	return &entities.Wallet{
		ID:                 m.ID,
		UserID:             m.UserID,
		Balance:            m.Balance,
		ClearanceThreshold: m.ClearanceThreshold,
		IsActive:           m.IsActive,
		Version:            m.Version,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}
