package handler

import (
	dctx "context"
	"log"
	"net/http"
	"time"

	"github.com/tobenna/vendora/internal/context"
	"github.com/tobenna/vendora/internal/errHandler"
	"github.com/tobenna/vendora/internal/helper"
	"github.com/tobenna/vendora/internal/ledger"
	"github.com/tobenna/vendora/internal/models"
	"github.com/tobenna/vendora/internal/repository"
	"github.com/tobenna/vendora/internal/request"
	"github.com/tobenna/vendora/internal/response"
	"github.com/tobenna/vendora/internal/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type WithdrawalResponseData struct {
	ID            string          `json:"id"`
	Reference     string          `json:"reference"`
	Amount        decimal.Decimal `json:"amount"`
	BankCode      string          `json:"bank_code"`
	AccountNumber string          `json:"account_number"`
	Status        string          `json:"status"`
	Remarks       string          `json:"remarks,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

type WithdrawalHandler struct {
	DB             repository.Database
	WalletRepo     repository.WalletRepository
	WithdrawalRepo repository.WithdrawalRepository
	ActivityRepo   repository.ActivityRepository
	ErrHandler     *errHandler.ErrorHandler
	Helper         *helper.HelperRepository
}

func NewWithdrawalHandler(handler *WithdrawalHandler) *WithdrawalHandler {
	return &WithdrawalHandler{
		DB:             handler.DB,
		WalletRepo:     handler.WalletRepo,
		WithdrawalRepo: handler.WithdrawalRepo,
		ActivityRepo:   handler.ActivityRepo,
		ErrHandler:     handler.ErrHandler,
		Helper:         handler.Helper,
	}
}

// HandleRequestWithdrawal files a payout request. The requested amount is
// reserved immediately: the debit and the pending withdrawal row commit in
// one transaction, so the wallet can never be spent twice while Flutterwave
// works through the transfer. The reconciler later flips the status when the
// provider reports the outcome; a rejection refunds the reservation.
func (h *WithdrawalHandler) HandleRequestWithdrawal(w http.ResponseWriter, r *http.Request) {
	type WithdrawalInput struct {
		Amount        decimal.Decimal     `json:"amount"`
		BankCode      string              `json:"bank_code"`
		AccountNumber string              `json:"account_number"`
		Validator     validator.Validator `json:"-"`
	}

	var input WithdrawalInput

	err := request.DecodeJSON(w, r, &input)
	if err != nil {
		h.ErrHandler.BadRequest(w, r, err)
		return
	}

	input.Validator.Check(input.Amount.IsPositive(), "Amount must be greater than zero")
	input.Validator.Check(validator.NotBlank(input.BankCode), "Bank code is required")
	input.Validator.Check(validator.NotBlank(input.AccountNumber), "Account number is required")

	if input.Validator.HasErrors() {
		h.ErrHandler.FailedValidation(w, r, input.Validator.Errors)
		return
	}

	user := context.ContextGetAuthenticatedUser(r)

	wallet, err := h.WalletRepo.GetOrCreateByUserID(user.ID)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	if wallet.Status != repository.WalletActiveStatus {
		response.JSONErrorResponse(w, "Your account cannot process withdrawals at this time", http.StatusUnprocessableEntity, nil)
		return
	}

	ctx, cancel := dctx.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	tx, err := h.DB.BeginTx(ctx, nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}
	defer tx.Rollback()

	ok, err := h.WalletRepo.DebitTx(tx, wallet.ID, input.Amount)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	if !ok {
		response.JSONErrorResponse(w, ledger.ErrInsufficientBalance.Error(), http.StatusUnprocessableEntity, nil)
		return
	}

	newWithdrawal := &models.WithdrawalRequest{
		UserID:        user.ID,
		Amount:        input.Amount,
		BankCode:      input.BankCode,
		AccountNumber: input.AccountNumber,
		Reference:     generateWithdrawalReference(),
	}

	withdrawal, err := h.WithdrawalRepo.Insert(newWithdrawal, tx)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	if err := tx.Commit(); err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	h.Helper.BackgroundTask(r, func() error {
		_, err := h.ActivityRepo.Insert(&repository.ActivityLog{
			UserID:      user.ID,
			Entity:      repository.ActivityLogWithdrawalEntity,
			EntityId:    withdrawal.ID,
			Description: repository.ActivityLogWithdrawalRequestedDescription,
		})

		if err != nil {
			log.Printf("Error logging withdrawal request action: %v", err)
			return err
		}
		return nil
	})

	message := "Withdrawal request filed successfully"

	data := &WithdrawalResponseData{
		ID:            withdrawal.ID,
		Reference:     withdrawal.Reference,
		Amount:        withdrawal.Amount,
		BankCode:      withdrawal.BankCode,
		AccountNumber: withdrawal.AccountNumber,
		Status:        withdrawal.Status,
		CreatedAt:     withdrawal.CreatedAt,
	}

	err = response.JSONCreatedResponse(w, data, message)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}

func (h *WithdrawalHandler) HandleUserWithdrawals(w http.ResponseWriter, r *http.Request) {
	user := context.ContextGetAuthenticatedUser(r)

	queryValues := retrieveUrlQueryValues(r)

	withdrawals, err := h.WithdrawalRepo.GetAllByUserID(user.ID, queryValues.Limit, queryValues.Offset)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	message := "Withdrawal requests retrieved successfully"

	data := make([]*WithdrawalResponseData, len(withdrawals))
	for i, withdrawal := range withdrawals {
		data[i] = &WithdrawalResponseData{
			ID:            withdrawal.ID,
			Reference:     withdrawal.Reference,
			Amount:        withdrawal.Amount,
			BankCode:      withdrawal.BankCode,
			AccountNumber: withdrawal.AccountNumber,
			Status:        withdrawal.Status,
			Remarks:       withdrawal.Remarks.String,
			CreatedAt:     withdrawal.CreatedAt,
		}
	}

	err = response.JSONOkResponse(w, data, message, nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}

// generateWithdrawalReference returns the provider-facing idempotency key
// for a new withdrawal. The uniqueness constraint on the column backs it up.
func generateWithdrawalReference() string {
	return "WD-" + uuid.New().String()
}
