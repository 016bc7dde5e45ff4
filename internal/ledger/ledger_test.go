package ledger

import (
	"errors"
	"testing"

	"github.com/tobenna/vendora/internal/mocks"
	"github.com/tobenna/vendora/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestTopUp_AccumulatesBalance(t *testing.T) {
	mockWalletRepo := new(mocks.MockWalletRepo)

	initial := &models.Wallet{ID: "wallet-1", UserID: "user-1", Balance: decimal.NewFromInt(100)}
	afterFirst := &models.Wallet{ID: "wallet-1", UserID: "user-1", Balance: decimal.NewFromInt(150)}
	afterSecond := &models.Wallet{ID: "wallet-1", UserID: "user-1", Balance: decimal.NewFromInt(220)}

	firstAmount := decimal.NewFromInt(50)
	secondAmount := decimal.NewFromInt(70)

	mockWalletRepo.On("GetOrCreateByUserID", "user-1").Return(initial, nil).Once()
	mockWalletRepo.On("Credit", "wallet-1", firstAmount).Return(afterFirst, nil).Once()

	mockWalletRepo.On("GetOrCreateByUserID", "user-1").Return(afterFirst, nil).Once()
	mockWalletRepo.On("Credit", "wallet-1", secondAmount).Return(afterSecond, nil).Once()

	walletLedger := New(mockWalletRepo)

	wallet, err := walletLedger.TopUp("user-1", firstAmount)
	require.NoError(t, err)
	require.True(t, wallet.Balance.Equal(decimal.NewFromInt(150)))

	wallet, err = walletLedger.TopUp("user-1", secondAmount)
	require.NoError(t, err)
	require.True(t, wallet.Balance.Equal(decimal.NewFromInt(220)))

	mockWalletRepo.AssertExpectations(t)
}

func TestTopUp_RejectsNonPositiveAmount(t *testing.T) {
	// no expectations are registered: the validation failure must happen
	// before any repository call
	mockWalletRepo := new(mocks.MockWalletRepo)

	walletLedger := New(mockWalletRepo)

	_, err := walletLedger.TopUp("user-1", decimal.Zero)
	require.ErrorIs(t, err, ErrInvalidAmount)

	_, err = walletLedger.TopUp("user-1", decimal.NewFromInt(-25))
	require.ErrorIs(t, err, ErrInvalidAmount)

	mockWalletRepo.AssertNotCalled(t, "Credit")
	mockWalletRepo.AssertNotCalled(t, "GetOrCreateByUserID")
}

func TestTopUp_SurfacesPersistenceFailure(t *testing.T) {
	mockWalletRepo := new(mocks.MockWalletRepo)

	wallet := &models.Wallet{ID: "wallet-1", UserID: "user-1", Balance: decimal.NewFromInt(100)}
	amount := decimal.NewFromInt(40)

	mockWalletRepo.On("GetOrCreateByUserID", "user-1").Return(wallet, nil)
	mockWalletRepo.On("Credit", "wallet-1", amount).Return((*models.Wallet)(nil), errors.New("connection reset"))

	walletLedger := New(mockWalletRepo)

	_, err := walletLedger.TopUp("user-1", amount)
	require.Error(t, err)
}

func TestBalance_CreatesWalletOnFirstAccess(t *testing.T) {
	mockWalletRepo := new(mocks.MockWalletRepo)

	fresh := &models.Wallet{ID: "wallet-9", UserID: "user-9", Balance: decimal.Zero, Currency: "NGN"}

	mockWalletRepo.On("GetOrCreateByUserID", "user-9").Return(fresh, nil)

	walletLedger := New(mockWalletRepo)

	wallet, err := walletLedger.Balance("user-9")
	require.NoError(t, err)
	require.True(t, wallet.Balance.IsZero())
	require.False(t, wallet.Balance.IsNegative())

	mockWalletRepo.AssertExpectations(t)
}
