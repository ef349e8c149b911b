package usecases_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"
	"dairy-ledger.backend/internal/domain/entities"
	domainerrors "dairy-ledger.backend/internal/domain/errors"
	"dairy-ledger.backend/internal/usecases"
)

type ledgerMocks struct {
	uow      *MockUnitOfWork
	wallets  *MockWalletRepository
	ledger   *MockWalletTransactionRepository
	settings *MockWalletSettingsRepository
}

func newLedgerUsecase() (*usecases.LedgerUsecase, *ledgerMocks) {
	m := &ledgerMocks{
		uow:      new(MockUnitOfWork),
		wallets:  new(MockWalletRepository),
		ledger:   new(MockWalletTransactionRepository),
		settings: new(MockWalletSettingsRepository),
	}
	return usecases.NewLedgerUsecase(m.uow, m.wallets, m.ledger, m.settings), m
}

func defaultSettings() *entities.WalletSettings {
	return &entities.WalletSettings{
		DefaultClearanceThreshold: decimal.NewFromInt(500),
		AllowNegativeBalance:      true,
		AutoClearanceEnabled:      true,
		LowBalanceThreshold:       decimal.NewFromInt(100),
	}
}

func testWallet(userID uuid.UUID, balance int64) *entities.Wallet {
	return &entities.Wallet{
		ID:       uuid.New(),
		UserID:   userID,
		Balance:  decimal.NewFromInt(balance),
		IsActive: true,
		Version:  1,
	}
}

func TestLedgerUsecase_Credit_Success(t *testing.T) {
	uc, m := newLedgerUsecase()
	userID := uuid.New()
	wallet := testWallet(userID, 0)

	m.settings.On("Get", mock.Anything).Return(defaultSettings(), nil)
	m.uow.On("Do", mock.Anything, mock.Anything).Return(nil)
	m.wallets.On("EnsureExists", mock.Anything, userID).Return(wallet, nil)
	m.ledger.On("GetLatestForWallet", mock.Anything, wallet.ID).Return(nil, domainerrors.ErrNotFound)
	m.wallets.On("UpdateBalance", mock.Anything, wallet.ID, int64(1), decimal.NewFromInt(100)).Return(true, nil)

	var entry *entities.WalletTransaction
	m.ledger.On("Create", mock.Anything, mock.AnythingOfType("*entities.WalletTransaction")).
		Run(func(args mock.Arguments) {
			entry = args.Get(1).(*entities.WalletTransaction)
		}).Return(nil)

	// fresh read after commit: balance below the threshold, no clearance
	updated := testWallet(userID, 100)
	updated.ID = wallet.ID
	m.wallets.On("GetByUserID", mock.Anything, userID).Return(updated, nil)

	result, err := uc.Credit(context.Background(), userID, decimal.NewFromInt(100), "Order refund", null.StringFrom("ord-1"), entities.ReferenceTypeOrderPayment, nil)

	require.NoError(t, err)
	assert.True(t, result.Balance.Equal(decimal.NewFromInt(100)))

	require.NotNil(t, entry)
	assert.Equal(t, entities.TransactionTypeCredit, entry.Type)
	assert.True(t, entry.Amount.Equal(decimal.NewFromInt(100)))
	assert.True(t, entry.PreviousBalance.Equal(decimal.Zero))
	assert.True(t, entry.NewBalance.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, "ord-1", entry.Reference.String)
	m.wallets.AssertExpectations(t)
	m.ledger.AssertExpectations(t)
}

func TestLedgerUsecase_Credit_AutoClearsAtThreshold(t *testing.T) {
	uc, m := newLedgerUsecase()
	userID := uuid.New()
	wallet := testWallet(userID, 400)

	m.settings.On("Get", mock.Anything).Return(defaultSettings(), nil)
	m.uow.On("Do", mock.Anything, mock.Anything).Return(nil)
	m.wallets.On("EnsureExists", mock.Anything, userID).Return(wallet, nil)

	// the ledger tail moves as the credit commits
	m.ledger.On("GetLatestForWallet", mock.Anything, wallet.ID).
		Return(&entities.WalletTransaction{NewBalance: decimal.NewFromInt(400)}, nil).Once()
	m.ledger.On("GetLatestForWallet", mock.Anything, wallet.ID).
		Return(&entities.WalletTransaction{NewBalance: decimal.NewFromInt(500)}, nil).Once()

	m.wallets.On("UpdateBalance", mock.Anything, wallet.ID, int64(1), decimal.NewFromInt(500)).Return(true, nil)

	afterCredit := testWallet(userID, 500)
	afterCredit.ID = wallet.ID
	afterCredit.Version = 2
	m.wallets.On("GetByUserID", mock.Anything, userID).Return(afterCredit, nil)
	m.wallets.On("UpdateBalance", mock.Anything, wallet.ID, int64(2), decimal.Zero).Return(true, nil)

	var entries []*entities.WalletTransaction
	m.ledger.On("Create", mock.Anything, mock.AnythingOfType("*entities.WalletTransaction")).
		Run(func(args mock.Arguments) {
			entries = append(entries, args.Get(1).(*entities.WalletTransaction))
		}).Return(nil)

	result, err := uc.Credit(context.Background(), userID, decimal.NewFromInt(100), "Top-up", null.String{}, entities.ReferenceTypeOrderPayment, nil)

	require.NoError(t, err)
	assert.True(t, result.Balance.Equal(decimal.NewFromInt(500)))

	require.Len(t, entries, 2)
	assert.Equal(t, entities.TransactionTypeCredit, entries[0].Type)
	clearance := entries[1]
	assert.Equal(t, entities.TransactionTypeClearance, clearance.Type)
	assert.True(t, clearance.Amount.Equal(decimal.NewFromInt(500)))
	assert.True(t, clearance.NewBalance.Equal(decimal.Zero))
	assert.Equal(t, "system", clearance.Reference.String)
	assert.Nil(t, clearance.ProcessedBy)
}

func TestLedgerUsecase_Credit_BelowThresholdNotCleared(t *testing.T) {
	uc, m := newLedgerUsecase()
	userID := uuid.New()
	wallet := testWallet(userID, 0)

	m.settings.On("Get", mock.Anything).Return(defaultSettings(), nil)
	m.uow.On("Do", mock.Anything, mock.Anything).Return(nil)
	m.wallets.On("EnsureExists", mock.Anything, userID).Return(wallet, nil)
	m.ledger.On("GetLatestForWallet", mock.Anything, wallet.ID).Return(nil, domainerrors.ErrNotFound)
	m.wallets.On("UpdateBalance", mock.Anything, wallet.ID, int64(1), decimal.NewFromInt(499)).Return(true, nil)
	m.ledger.On("Create", mock.Anything, mock.Anything).Return(nil).Once()

	afterCredit := testWallet(userID, 499)
	afterCredit.ID = wallet.ID
	m.wallets.On("GetByUserID", mock.Anything, userID).Return(afterCredit, nil)

	_, err := uc.Credit(context.Background(), userID, decimal.NewFromInt(499), "Top-up", null.String{}, entities.ReferenceTypePosSale, nil)

	require.NoError(t, err)
	m.ledger.AssertNumberOfCalls(t, "Create", 1)
}

func TestLedgerUsecase_Credit_InvalidAmount(t *testing.T) {
	uc, m := newLedgerUsecase()

	for _, amount := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-10)} {
		_, err := uc.Credit(context.Background(), uuid.New(), amount, "bad", null.String{}, "", nil)
		assert.ErrorIs(t, err, domainerrors.ErrInvalidAmount)
	}
	m.wallets.AssertNotCalled(t, "EnsureExists", mock.Anything, mock.Anything)
}

func TestLedgerUsecase_Debit_NegativeAllowed(t *testing.T) {
	uc, m := newLedgerUsecase()
	userID := uuid.New()
	wallet := testWallet(userID, 0)

	m.settings.On("Get", mock.Anything).Return(defaultSettings(), nil)
	m.uow.On("Do", mock.Anything, mock.Anything).Return(nil)
	m.wallets.On("EnsureExists", mock.Anything, userID).Return(wallet, nil)
	m.ledger.On("GetLatestForWallet", mock.Anything, wallet.ID).Return(nil, domainerrors.ErrNotFound)
	m.wallets.On("UpdateBalance", mock.Anything, wallet.ID, int64(1), decimal.NewFromInt(-250)).Return(true, nil)
	m.ledger.On("Create", mock.Anything, mock.Anything).Return(nil)

	result, err := uc.Debit(context.Background(), userID, decimal.NewFromInt(250), "Order #42", null.StringFrom("ord-42"), entities.ReferenceTypeOrderPayment, nil)

	require.NoError(t, err)
	assert.True(t, result.Balance.Equal(decimal.NewFromInt(-250)))
}

func TestLedgerUsecase_Debit_InsufficientBalance(t *testing.T) {
	uc, m := newLedgerUsecase()
	userID := uuid.New()
	wallet := testWallet(userID, 10)

	settings := defaultSettings()
	settings.AllowNegativeBalance = false

	m.settings.On("Get", mock.Anything).Return(settings, nil)
	m.uow.On("Do", mock.Anything, mock.Anything).Return(nil)
	m.wallets.On("EnsureExists", mock.Anything, userID).Return(wallet, nil)

	_, err := uc.Debit(context.Background(), userID, decimal.NewFromInt(50), "Order", null.String{}, entities.ReferenceTypeOrderPayment, nil)

	assert.ErrorIs(t, err, domainerrors.ErrInsufficientBalance)
	m.wallets.AssertNotCalled(t, "UpdateBalance", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	m.ledger.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestLedgerUsecase_Debit_NegativeLimitExceeded(t *testing.T) {
	uc, m := newLedgerUsecase()
	userID := uuid.New()
	wallet := testWallet(userID, 0)

	limit := decimal.NewFromInt(100)
	settings := defaultSettings()
	settings.MaxNegativeLimit = &limit

	m.settings.On("Get", mock.Anything).Return(settings, nil)
	m.uow.On("Do", mock.Anything, mock.Anything).Return(nil)
	m.wallets.On("EnsureExists", mock.Anything, userID).Return(wallet, nil)

	_, err := uc.Debit(context.Background(), userID, decimal.NewFromInt(150), "Order", null.String{}, entities.ReferenceTypeOrderPayment, nil)

	assert.ErrorIs(t, err, domainerrors.ErrNegativeLimitExceeded)
}

func TestLedgerUsecase_Debit_ExactNegativeLimitAllowed(t *testing.T) {
	uc, m := newLedgerUsecase()
	userID := uuid.New()
	wallet := testWallet(userID, 0)

	limit := decimal.NewFromInt(100)
	settings := defaultSettings()
	settings.MaxNegativeLimit = &limit

	m.settings.On("Get", mock.Anything).Return(settings, nil)
	m.uow.On("Do", mock.Anything, mock.Anything).Return(nil)
	m.wallets.On("EnsureExists", mock.Anything, userID).Return(wallet, nil)
	m.ledger.On("GetLatestForWallet", mock.Anything, wallet.ID).Return(nil, domainerrors.ErrNotFound)
	m.wallets.On("UpdateBalance", mock.Anything, wallet.ID, int64(1), decimal.NewFromInt(-100)).Return(true, nil)
	m.ledger.On("Create", mock.Anything, mock.Anything).Return(nil)

	result, err := uc.Debit(context.Background(), userID, decimal.NewFromInt(100), "Order", null.String{}, entities.ReferenceTypeOrderPayment, nil)

	require.NoError(t, err)
	assert.True(t, result.Balance.Equal(decimal.NewFromInt(-100)))
}

func TestLedgerUsecase_Debit_SuspendedWallet(t *testing.T) {
	uc, m := newLedgerUsecase()
	userID := uuid.New()
	wallet := testWallet(userID, 100)
	wallet.IsActive = false

	m.settings.On("Get", mock.Anything).Return(defaultSettings(), nil)
	m.uow.On("Do", mock.Anything, mock.Anything).Return(nil)
	m.wallets.On("EnsureExists", mock.Anything, userID).Return(wallet, nil)

	_, err := uc.Debit(context.Background(), userID, decimal.NewFromInt(10), "Order", null.String{}, entities.ReferenceTypeOrderPayment, nil)

	assert.ErrorIs(t, err, domainerrors.ErrWalletSuspended)
}

func TestLedgerUsecase_Adjust_RequiresProcessor(t *testing.T) {
	uc, _ := newLedgerUsecase()

	_, err := uc.Adjust(context.Background(), uuid.New(), decimal.NewFromInt(10), entities.AdjustmentDirectionCredit, "fix", uuid.Nil)

	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)
}

func TestLedgerUsecase_Adjust_InvalidDirection(t *testing.T) {
	uc, _ := newLedgerUsecase()

	_, err := uc.Adjust(context.Background(), uuid.New(), decimal.NewFromInt(10), entities.AdjustmentDirection("sideways"), "fix", uuid.New())

	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)
}

func TestLedgerUsecase_Adjust_DebitDirection(t *testing.T) {
	uc, m := newLedgerUsecase()
	userID := uuid.New()
	admin := uuid.New()
	wallet := testWallet(userID, 300)

	m.settings.On("Get", mock.Anything).Return(defaultSettings(), nil)
	m.uow.On("Do", mock.Anything, mock.Anything).Return(nil)
	m.wallets.On("EnsureExists", mock.Anything, userID).Return(wallet, nil)
	m.ledger.On("GetLatestForWallet", mock.Anything, wallet.ID).
		Return(&entities.WalletTransaction{NewBalance: decimal.NewFromInt(300)}, nil)
	m.wallets.On("UpdateBalance", mock.Anything, wallet.ID, int64(1), decimal.NewFromInt(220)).Return(true, nil)

	var entry *entities.WalletTransaction
	m.ledger.On("Create", mock.Anything, mock.AnythingOfType("*entities.WalletTransaction")).
		Run(func(args mock.Arguments) {
			entry = args.Get(1).(*entities.WalletTransaction)
		}).Return(nil)

	result, err := uc.Adjust(context.Background(), userID, decimal.NewFromInt(80), entities.AdjustmentDirectionDebit, "Double-credited refund", admin)

	require.NoError(t, err)
	assert.True(t, result.Balance.Equal(decimal.NewFromInt(220)))
	require.NotNil(t, entry)
	assert.Equal(t, entities.TransactionTypeAdjustment, entry.Type)
	assert.Equal(t, entities.AdjustmentDirectionDebit, entry.Direction)
	assert.True(t, entry.Amount.Equal(decimal.NewFromInt(80)))
	assert.Equal(t, entities.ReferenceTypeManualAdjustment, entry.ReferenceType)
	require.NotNil(t, entry.ProcessedBy)
	assert.Equal(t, admin, *entry.ProcessedBy)
}

func TestLedgerUsecase_SnapshotChainMismatch(t *testing.T) {
	uc, m := newLedgerUsecase()
	userID := uuid.New()
	wallet := testWallet(userID, 100)

	m.settings.On("Get", mock.Anything).Return(defaultSettings(), nil)
	m.uow.On("Do", mock.Anything, mock.Anything).Return(nil)
	m.wallets.On("EnsureExists", mock.Anything, userID).Return(wallet, nil)
	m.ledger.On("GetLatestForWallet", mock.Anything, wallet.ID).
		Return(&entities.WalletTransaction{NewBalance: decimal.NewFromInt(90)}, nil)

	_, err := uc.Credit(context.Background(), userID, decimal.NewFromInt(10), "Top-up", null.String{}, entities.ReferenceTypePosSale, nil)

	assert.ErrorIs(t, err, domainerrors.ErrInconsistentState)
	m.wallets.AssertNotCalled(t, "UpdateBalance", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestLedgerUsecase_RetriesOnVersionConflict(t *testing.T) {
	uc, m := newLedgerUsecase()
	userID := uuid.New()
	wallet := testWallet(userID, 100)

	m.settings.On("Get", mock.Anything).Return(defaultSettings(), nil)
	m.uow.On("Do", mock.Anything, mock.Anything).Return(nil)
	m.wallets.On("EnsureExists", mock.Anything, userID).Return(wallet, nil)

	m.ledger.On("GetLatestForWallet", mock.Anything, wallet.ID).
		Return(&entities.WalletTransaction{NewBalance: decimal.NewFromInt(100)}, nil).Once()
	m.wallets.On("UpdateBalance", mock.Anything, wallet.ID, int64(1), decimal.NewFromInt(110)).Return(false, nil).Once()

	// another writer bumped the balance and version before the retry
	reloaded := testWallet(userID, 150)
	reloaded.ID = wallet.ID
	reloaded.Version = 2
	m.wallets.On("GetByUserID", mock.Anything, userID).Return(reloaded, nil)
	m.ledger.On("GetLatestForWallet", mock.Anything, wallet.ID).
		Return(&entities.WalletTransaction{NewBalance: decimal.NewFromInt(150)}, nil)
	m.wallets.On("UpdateBalance", mock.Anything, wallet.ID, int64(2), decimal.NewFromInt(160)).Return(true, nil).Once()
	m.ledger.On("Create", mock.Anything, mock.Anything).Return(nil)

	result, err := uc.Credit(context.Background(), userID, decimal.NewFromInt(10), "Top-up", null.String{}, entities.ReferenceTypePosSale, nil)

	require.NoError(t, err)
	assert.True(t, result.Balance.Equal(decimal.NewFromInt(160)))
}

func TestLedgerUsecase_Clear_NothingToClear(t *testing.T) {
	uc, m := newLedgerUsecase()
	userID := uuid.New()
	wallet := testWallet(userID, -50)

	m.uow.On("Do", mock.Anything, mock.Anything).Return(nil)
	m.wallets.On("GetByUserID", mock.Anything, userID).Return(wallet, nil)

	cleared, err := uc.Clear(context.Background(), userID, "sweep", nil)

	require.NoError(t, err)
	assert.False(t, cleared)
	m.ledger.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestLedgerUsecase_Clear_Suspended(t *testing.T) {
	uc, m := newLedgerUsecase()
	userID := uuid.New()
	wallet := testWallet(userID, 600)
	wallet.IsActive = false

	m.uow.On("Do", mock.Anything, mock.Anything).Return(nil)
	m.wallets.On("GetByUserID", mock.Anything, userID).Return(wallet, nil)

	_, err := uc.Clear(context.Background(), userID, "sweep", nil)

	assert.ErrorIs(t, err, domainerrors.ErrWalletSuspended)
}
