package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/tobenna/vendora/internal/context"
	"github.com/tobenna/vendora/internal/errHandler"
	"github.com/tobenna/vendora/internal/helper"
	"github.com/tobenna/vendora/internal/ledger"
	"github.com/tobenna/vendora/internal/repository"
	"github.com/tobenna/vendora/internal/request"
	"github.com/tobenna/vendora/internal/response"
	"github.com/tobenna/vendora/internal/stream"
	"github.com/tobenna/vendora/internal/validator"

	"github.com/shopspring/decimal"
)

type WalletResponseData struct {
	ID        string          `json:"id"`
	Balance   decimal.Decimal `json:"balance"`
	Currency  string          `json:"currency"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
}

// TopUpAlert is the wallet.topup event payload consumed by the alert worker.
type TopUpAlert struct {
	UserID     string          `json:"user_id"`
	WalletID   string          `json:"wallet_id"`
	Amount     decimal.Decimal `json:"amount"`
	NewBalance decimal.Decimal `json:"new_balance"`
	CreatedAt  string          `json:"created_at"`
}

type WalletHandler struct {
	Ledger       *ledger.Ledger
	ActivityRepo repository.ActivityRepository
	Kafka        stream.Producer
	ErrHandler   *errHandler.ErrorHandler
	Helper       *helper.HelperRepository
}

func NewWalletHandler(handler *WalletHandler) *WalletHandler {
	return &WalletHandler{
		Ledger:       handler.Ledger,
		ActivityRepo: handler.ActivityRepo,
		Kafka:        handler.Kafka,
		ErrHandler:   handler.ErrHandler,
		Helper:       handler.Helper,
	}
}

func (h *WalletHandler) HandleWalletBalance(w http.ResponseWriter, r *http.Request) {
	user := context.ContextGetAuthenticatedUser(r)

	wallet, err := h.Ledger.Balance(user.ID)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	message := "Balance fetched successfully"

	data := map[string]any{
		"balance":  wallet.Balance,
		"currency": wallet.Currency,
	}
	err = response.JSONOkResponse(w, data, message, nil)

	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}

func (h *WalletHandler) HandleWalletTopUp(w http.ResponseWriter, r *http.Request) {
	type TopUpInput struct {
		Amount    decimal.Decimal     `json:"amount"`
		Validator validator.Validator `json:"-"`
	}

	var input TopUpInput

	err := request.DecodeJSON(w, r, &input)
	if err != nil {
		h.ErrHandler.BadRequest(w, r, err)
		return
	}

	input.Validator.Check(input.Amount.IsPositive(), "Amount must be greater than zero")
	if input.Validator.HasErrors() {
		h.ErrHandler.FailedValidation(w, r, input.Validator.Errors)
		return
	}

	user := context.ContextGetAuthenticatedUser(r)

	wallet, err := h.Ledger.TopUp(user.ID, input.Amount)
	if err != nil {
		if errors.Is(err, ledger.ErrInvalidAmount) {
			response.JSONErrorResponse(w, err.Error(), http.StatusUnprocessableEntity, nil)
			return
		}
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	// Notifications and audit must not hold up the caller; the credit is
	// already committed at this point.
	alert := &TopUpAlert{
		UserID:     user.ID,
		WalletID:   wallet.ID,
		Amount:     input.Amount,
		NewBalance: wallet.Balance,
		CreatedAt:  time.Now().Format(time.RFC3339),
	}

	jsonMessage, err := json.Marshal(alert)
	if err != nil {
		h.ErrHandler.ReportServerError(r, err)
	} else {
		h.Helper.BackgroundTask(r, func() error {
			return h.Kafka.ProduceMessage(stream.WalletTopupTopic, string(jsonMessage))
		})
	}

	h.Helper.BackgroundTask(r, func() error {
		_, err := h.ActivityRepo.Insert(&repository.ActivityLog{
			UserID:      user.ID,
			Entity:      repository.ActivityLogWalletEntity,
			EntityId:    wallet.ID,
			Description: repository.ActivityLogWalletTopupDescription,
		})

		if err != nil {
			log.Printf("Error logging top-up action: %v", err)
			return err
		}
		return nil
	})

	message := "Wallet topped up successfully"

	data := &WalletResponseData{
		ID:        wallet.ID,
		Balance:   wallet.Balance,
		Currency:  wallet.Currency,
		Status:    wallet.Status,
		CreatedAt: wallet.CreatedAt,
	}

	err = response.JSONOkResponse(w, data, message, nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}
