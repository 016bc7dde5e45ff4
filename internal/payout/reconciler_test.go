package payout

import (
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/tobenna/vendora/internal/mocks"
	"github.com/tobenna/vendora/internal/models"
	"github.com/tobenna/vendora/internal/repository"
	"github.com/tobenna/vendora/internal/stream"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestReconcile_ApprovesPendingRequestOnSuccessfulTransfer(t *testing.T) {
	mockWithdrawalRepo := new(mocks.MockWithdrawalRepo)
	mockProducer := new(mocks.MockProducer)

	settledRecord := &models.WithdrawalRequest{
		ID:                    "wd-1",
		UserID:                "user-1",
		Amount:                decimal.NewFromInt(5000),
		Reference:             "WD-100",
		Status:                repository.WithdrawalStatusApproved,
		FlutterwaveTransferID: sql.NullString{String: "FLW-9", Valid: true},
		Remarks:               sql.NullString{String: "Transfer completed", Valid: true},
	}

	mockWithdrawalRepo.On("SettleIfPending", "WD-100", repository.WithdrawalStatusApproved, "FLW-9", "Transfer completed").
		Return(true, nil)
	mockWithdrawalRepo.On("FindByReference", "WD-100").Return(settledRecord, true, nil)
	mockProducer.On("ProduceMessage", stream.PayoutSettledTopic, mock.Anything).Return(nil)

	reconciler := New(mockWithdrawalRepo, mockProducer, nil, newTestLogger())

	err := reconciler.Reconcile(&TransferEventData{
		Reference:       "WD-100",
		Status:          TransferStatusSuccessful,
		ID:              "FLW-9",
		CompleteMessage: "Transfer completed",
	})

	require.NoError(t, err)
	mockWithdrawalRepo.AssertExpectations(t)
	mockProducer.AssertExpectations(t)
}

func TestReconcile_RejectsRequestOnFailedTransfer(t *testing.T) {
	mockWithdrawalRepo := new(mocks.MockWithdrawalRepo)
	mockProducer := new(mocks.MockProducer)

	settledRecord := &models.WithdrawalRequest{
		ID:        "wd-2",
		UserID:    "user-2",
		Amount:    decimal.NewFromInt(1200),
		Reference: "WD-200",
		Status:    repository.WithdrawalStatusRejected,
		Remarks:   sql.NullString{String: "insufficient funds in disburse wallet", Valid: true},
	}

	// no complete_message on failures, the generic message is used instead
	mockWithdrawalRepo.On("SettleIfPending", "WD-200", repository.WithdrawalStatusRejected, "FLW-10", "insufficient funds in disburse wallet").
		Return(true, nil)
	mockWithdrawalRepo.On("FindByReference", "WD-200").Return(settledRecord, true, nil)
	mockProducer.On("ProduceMessage", stream.PayoutSettledTopic, mock.Anything).Return(nil)

	reconciler := New(mockWithdrawalRepo, mockProducer, nil, newTestLogger())

	err := reconciler.Reconcile(&TransferEventData{
		Reference: "WD-200",
		Status:    "FAILED",
		ID:        "FLW-10",
		Message:   "insufficient funds in disburse wallet",
	})

	require.NoError(t, err)
	mockWithdrawalRepo.AssertExpectations(t)
	mockProducer.AssertExpectations(t)
}

func TestReconcile_ReplayLeavesSettledRecordUntouched(t *testing.T) {
	mockWithdrawalRepo := new(mocks.MockWithdrawalRepo)
	mockProducer := new(mocks.MockProducer)

	terminalRecord := &models.WithdrawalRequest{
		ID:                    "wd-1",
		Reference:             "WD-100",
		Status:                repository.WithdrawalStatusApproved,
		FlutterwaveTransferID: sql.NullString{String: "FLW-9", Valid: true},
	}

	mockWithdrawalRepo.On("SettleIfPending", "WD-100", repository.WithdrawalStatusApproved, "FLW-9", "Transfer completed").
		Return(false, nil)
	mockWithdrawalRepo.On("FindByReference", "WD-100").Return(terminalRecord, true, nil)

	reconciler := New(mockWithdrawalRepo, mockProducer, nil, newTestLogger())

	err := reconciler.Reconcile(&TransferEventData{
		Reference:       "WD-100",
		Status:          TransferStatusSuccessful,
		ID:              "FLW-9",
		CompleteMessage: "Transfer completed",
	})

	require.NoError(t, err)
	mockProducer.AssertNotCalled(t, "ProduceMessage", mock.Anything, mock.Anything)
	mockWithdrawalRepo.AssertExpectations(t)
}

func TestReconcile_UnknownReferenceIsAcknowledged(t *testing.T) {
	mockWithdrawalRepo := new(mocks.MockWithdrawalRepo)
	mockProducer := new(mocks.MockProducer)

	mockWithdrawalRepo.On("SettleIfPending", "WD-404", repository.WithdrawalStatusApproved, "FLW-11", "").
		Return(false, nil)
	mockWithdrawalRepo.On("FindByReference", "WD-404").Return(nil, false, nil)

	reconciler := New(mockWithdrawalRepo, mockProducer, nil, newTestLogger())

	err := reconciler.Reconcile(&TransferEventData{
		Reference: "WD-404",
		Status:    TransferStatusSuccessful,
		ID:        "FLW-11",
	})

	require.NoError(t, err)
	mockProducer.AssertNotCalled(t, "ProduceMessage", mock.Anything, mock.Anything)
	mockWithdrawalRepo.AssertExpectations(t)
}

func TestReconcile_RejectionSettlesBeforePublish(t *testing.T) {
	mockWithdrawalRepo := new(mocks.MockWithdrawalRepo)
	mockProducer := new(mocks.MockProducer)

	settledRecord := &models.WithdrawalRequest{
		ID:        "wd-2",
		UserID:    "user-2",
		Amount:    decimal.NewFromInt(1200),
		Reference: "WD-200",
		Status:    repository.WithdrawalStatusRejected,
	}

	// the status flip and the refund credit commit together inside
	// SettleIfPending, so a dead broker afterwards must not fail the webhook
	mockWithdrawalRepo.On("SettleIfPending", "WD-200", repository.WithdrawalStatusRejected, "FLW-10", "no funds").
		Return(true, nil).Once()
	mockWithdrawalRepo.On("FindByReference", "WD-200").Return(settledRecord, true, nil)
	mockProducer.On("ProduceMessage", stream.PayoutSettledTopic, mock.Anything).
		Return(errors.New("broker down"))

	reconciler := New(mockWithdrawalRepo, mockProducer, nil, newTestLogger())

	err := reconciler.Reconcile(&TransferEventData{
		Reference: "WD-200",
		Status:    "FAILED",
		ID:        "FLW-10",
		Message:   "no funds",
	})

	require.NoError(t, err)
	mockWithdrawalRepo.AssertExpectations(t)
	mockProducer.AssertExpectations(t)
}

func TestReconcile_RemarksPreferStructuredMessage(t *testing.T) {
	mockWithdrawalRepo := new(mocks.MockWithdrawalRepo)
	mockProducer := new(mocks.MockProducer)

	settledRecord := &models.WithdrawalRequest{
		ID:        "wd-3",
		Reference: "WD-300",
		Status:    repository.WithdrawalStatusApproved,
	}

	mockWithdrawalRepo.On("SettleIfPending", "WD-300", repository.WithdrawalStatusApproved, "FLW-12", "structured note").
		Return(true, nil)
	mockWithdrawalRepo.On("FindByReference", "WD-300").Return(settledRecord, true, nil)
	mockProducer.On("ProduceMessage", stream.PayoutSettledTopic, mock.Anything).Return(nil)

	reconciler := New(mockWithdrawalRepo, mockProducer, nil, newTestLogger())

	err := reconciler.Reconcile(&TransferEventData{
		Reference:       "WD-300",
		Status:          TransferStatusSuccessful,
		ID:              "FLW-12",
		CompleteMessage: "structured note",
		Message:         "generic note",
	})

	require.NoError(t, err)
	mockWithdrawalRepo.AssertExpectations(t)
}
