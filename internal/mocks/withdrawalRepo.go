package mocks

import (
	"github.com/tobenna/vendora/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/mock"
)

type MockWithdrawalRepo struct {
	mock.Mock
}

func (m *MockWithdrawalRepo) Insert(withdrawal *models.WithdrawalRequest, tx *sqlx.Tx) (*models.WithdrawalRequest, error) {
	args := m.Called(withdrawal, tx)
	return args.Get(0).(*models.WithdrawalRequest), args.Error(1)
}

func (m *MockWithdrawalRepo) FindByReference(reference string) (*models.WithdrawalRequest, bool, error) {
	args := m.Called(reference)

	withdrawal, _ := args.Get(0).(*models.WithdrawalRequest)
	return withdrawal, args.Bool(1), args.Error(2)
}

func (m *MockWithdrawalRepo) SettleIfPending(reference, status, transferID, remarks string) (bool, error) {
	args := m.Called(reference, status, transferID, remarks)
	return args.Bool(0), args.Error(1)
}

func (m *MockWithdrawalRepo) GetAllByUserID(userID string, limit, offset int) ([]models.WithdrawalRequest, error) {
	args := m.Called(userID, limit, offset)

	withdrawals, _ := args.Get(0).([]models.WithdrawalRequest)
	return withdrawals, args.Error(1)
}
