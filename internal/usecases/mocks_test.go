package usecases_test

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"dairy-ledger.backend/internal/domain/entities"
)

// Mock UnitOfWork
type MockUnitOfWork struct {
	mock.Mock
}

func (m *MockUnitOfWork) Do(ctx context.Context, fn func(context.Context) error) error {
	m.Called(ctx, fn)
	return fn(ctx)
}

// Mock WalletRepository
type MockWalletRepository struct {
	mock.Mock
}

func (m *MockWalletRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Wallet, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Wallet), args.Error(1)
}

func (m *MockWalletRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*entities.Wallet, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Wallet), args.Error(1)
}

func (m *MockWalletRepository) EnsureExists(ctx context.Context, userID uuid.UUID) (*entities.Wallet, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Wallet), args.Error(1)
}

func (m *MockWalletRepository) UpdateBalance(ctx context.Context, walletID uuid.UUID, version int64, newBalance decimal.Decimal) (bool, error) {
	args := m.Called(ctx, walletID, version, newBalance)
	return args.Bool(0), args.Error(1)
}

func (m *MockWalletRepository) SetThreshold(ctx context.Context, userID uuid.UUID, threshold *decimal.Decimal) error {
	args := m.Called(ctx, userID, threshold)
	return args.Error(0)
}

func (m *MockWalletRepository) SetThresholdBulk(ctx context.Context, threshold decimal.Decimal, userIDs []uuid.UUID) (int64, error) {
	args := m.Called(ctx, threshold, userIDs)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockWalletRepository) SetActive(ctx context.Context, userID uuid.UUID, active bool) error {
	args := m.Called(ctx, userID, active)
	return args.Error(0)
}

func (m *MockWalletRepository) List(ctx context.Context, filter entities.WalletListFilter) ([]*entities.Wallet, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*entities.Wallet), args.Get(1).(int64), args.Error(2)
}

func (m *MockWalletRepository) ListClearanceCandidates(ctx context.Context, defaultThreshold decimal.Decimal, limit int) ([]*entities.Wallet, error) {
	args := m.Called(ctx, defaultThreshold, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Wallet), args.Error(1)
}

// Mock WalletTransactionRepository
type MockWalletTransactionRepository struct {
	mock.Mock
}

func (m *MockWalletTransactionRepository) Create(ctx context.Context, entry *entities.WalletTransaction) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockWalletTransactionRepository) GetLatestForWallet(ctx context.Context, walletID uuid.UUID) (*entities.WalletTransaction, error) {
	args := m.Called(ctx, walletID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.WalletTransaction), args.Error(1)
}

func (m *MockWalletTransactionRepository) ListByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entities.WalletTransaction, int64, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*entities.WalletTransaction), args.Get(1).(int64), args.Error(2)
}

func (m *MockWalletTransactionRepository) ListForWallet(ctx context.Context, walletID uuid.UUID) ([]*entities.WalletTransaction, error) {
	args := m.Called(ctx, walletID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.WalletTransaction), args.Error(1)
}

// Mock WalletSettingsRepository
type MockWalletSettingsRepository struct {
	mock.Mock
}

func (m *MockWalletSettingsRepository) Get(ctx context.Context) (*entities.WalletSettings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.WalletSettings), args.Error(1)
}

func (m *MockWalletSettingsRepository) Update(ctx context.Context, input *entities.UpdateWalletSettingsInput) (*entities.WalletSettings, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.WalletSettings), args.Error(1)
}
