package handler

import (
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/tobenna/vendora/internal/errHandler"
	"github.com/tobenna/vendora/internal/helper"
	"github.com/tobenna/vendora/internal/mocks"
	"github.com/tobenna/vendora/internal/models"
	"github.com/tobenna/vendora/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newWithdrawalTestHandler(walletRepo *mocks.MockWalletRepo, withdrawalRepo *mocks.MockWithdrawalRepo) *WithdrawalHandler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := mocks.NewMockConfig()
	errorHandler := errHandler.New(cfg.Notifications.Email, cfg.BaseURL, nil, logger)

	var wg sync.WaitGroup

	return NewWithdrawalHandler(&WithdrawalHandler{
		WalletRepo:     walletRepo,
		WithdrawalRepo: withdrawalRepo,
		ActivityRepo:   new(mocks.MockActivityRepo),
		ErrHandler:     errorHandler,
		Helper:         helper.New(&cfg.BaseURL, &wg, errorHandler),
	})
}

func TestHandleRequestWithdrawal_RejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		message string
	}{
		{
			name:    "non-positive amount",
			body:    `{"amount": 0, "bank_code": "058", "account_number": "0123456789"}`,
			message: "Amount must be greater than zero",
		},
		{
			name:    "missing bank code",
			body:    `{"amount": 500, "account_number": "0123456789"}`,
			message: "Bank code is required",
		},
		{
			name:    "missing account number",
			body:    `{"amount": 500, "bank_code": "058"}`,
			message: "Account number is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockWalletRepo := new(mocks.MockWalletRepo)
			mockWithdrawalRepo := new(mocks.MockWithdrawalRepo)
			handler := newWithdrawalTestHandler(mockWalletRepo, mockWithdrawalRepo)

			rec := httptest.NewRecorder()
			req := authenticatedRequest(http.MethodPost, "/withdrawals", strings.NewReader(tt.body))
			handler.HandleRequestWithdrawal(rec, req)

			require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

			var body envelope
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			require.Equal(t, "error", body.Status)
			require.Contains(t, body.Message, tt.message)
			mockWalletRepo.AssertNotCalled(t, "GetOrCreateByUserID", mock.Anything)
			mockWithdrawalRepo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
		})
	}
}

func TestHandleRequestWithdrawal_RefusesWalletOnHold(t *testing.T) {
	mockWalletRepo := new(mocks.MockWalletRepo)
	mockWithdrawalRepo := new(mocks.MockWithdrawalRepo)
	handler := newWithdrawalTestHandler(mockWalletRepo, mockWithdrawalRepo)

	mockWalletRepo.On("GetOrCreateByUserID", "user-1").Return(&models.Wallet{
		ID:       "wallet-1",
		UserID:   "user-1",
		Balance:  decimal.NewFromInt(1000),
		Currency: "NGN",
		Status:   repository.WalletOnHoldStatus,
	}, nil)

	rec := httptest.NewRecorder()
	body := `{"amount": 500, "bank_code": "058", "account_number": "0123456789"}`
	req := authenticatedRequest(http.MethodPost, "/withdrawals", strings.NewReader(body))
	handler.HandleRequestWithdrawal(rec, req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	mockWithdrawalRepo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	mockWalletRepo.AssertExpectations(t)
}

func TestHandleUserWithdrawals_ListsRequestsWithRemarks(t *testing.T) {
	mockWalletRepo := new(mocks.MockWalletRepo)
	mockWithdrawalRepo := new(mocks.MockWithdrawalRepo)
	handler := newWithdrawalTestHandler(mockWalletRepo, mockWithdrawalRepo)

	withdrawals := []models.WithdrawalRequest{
		{
			ID:            "wd-1",
			UserID:        "user-1",
			Amount:        decimal.NewFromInt(500),
			BankCode:      "058",
			AccountNumber: "0123456789",
			Reference:     "WD-100",
			Status:        repository.WithdrawalStatusApproved,
			Remarks:       sql.NullString{String: "Transfer completed", Valid: true},
		},
		{
			ID:            "wd-2",
			UserID:        "user-1",
			Amount:        decimal.NewFromInt(900),
			BankCode:      "044",
			AccountNumber: "9876543210",
			Reference:     "WD-101",
			Status:        repository.WithdrawalStatusPending,
		},
	}

	mockWithdrawalRepo.On("GetAllByUserID", "user-1", 10, 0).Return(withdrawals, nil)

	rec := httptest.NewRecorder()
	req := authenticatedRequest(http.MethodGet, "/withdrawals", nil)
	handler.HandleUserWithdrawals(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Status string           `json:"status"`
		Data   []map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "success", body.Status)
	require.Len(t, body.Data, 2)
	require.Equal(t, "WD-100", body.Data[0]["reference"])
	require.Equal(t, "Transfer completed", body.Data[0]["remarks"])
	require.Equal(t, repository.WithdrawalStatusPending, body.Data[1]["status"])
	mockWithdrawalRepo.AssertExpectations(t)
}

func TestGenerateWithdrawalReference_IsPrefixedAndUnique(t *testing.T) {
	first := generateWithdrawalReference()
	second := generateWithdrawalReference()

	require.True(t, strings.HasPrefix(first, "WD-"))
	require.True(t, strings.HasPrefix(second, "WD-"))
	require.NotEqual(t, first, second)
}
