package mocks

import (
	"github.com/tobenna/vendora/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type MockWalletRepo struct {
	mock.Mock
}

func (m *MockWalletRepo) GetOrCreateByUserID(userID string) (*models.Wallet, error) {
	args := m.Called(userID)
	return args.Get(0).(*models.Wallet), args.Error(1)
}

func (m *MockWalletRepo) GetOne(id string) (*models.Wallet, bool, error) {
	args := m.Called(id)
	return args.Get(0).(*models.Wallet), args.Bool(1), args.Error(2)
}

func (m *MockWalletRepo) Credit(walletID string, amount decimal.Decimal) (*models.Wallet, error) {
	args := m.Called(walletID, amount)
	return args.Get(0).(*models.Wallet), args.Error(1)
}

func (m *MockWalletRepo) DebitTx(tx *sqlx.Tx, walletID string, amount decimal.Decimal) (bool, error) {
	args := m.Called(tx, walletID, amount)
	return args.Bool(0), args.Error(1)
}
