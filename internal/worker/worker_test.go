package worker

import (
	"context"
	"sync"
	"testing"

	"github.com/tobenna/vendora/internal/helper"
	"github.com/tobenna/vendora/internal/mocks"
	"github.com/tobenna/vendora/internal/models"
	"github.com/tobenna/vendora/internal/repository"

	"github.com/stretchr/testify/mock"
)

func newTestWorker(userRepo *mocks.MockUserRepo, activityRepo *mocks.MockActivityRepo, mailer *mocks.MockMailer) *Worker {
	baseURL := "http://localhost"
	var wg sync.WaitGroup

	return New(&Worker{
		UserRepo:     userRepo,
		ActivityRepo: activityRepo,
		Mailer:       mailer,
		Helper:       helper.New(&baseURL, &wg, nil),
		Ctx:          context.Background(),
	})
}

func TestHandleSettledPayout_SkipsMalformedMessage(t *testing.T) {
	mockUserRepo := new(mocks.MockUserRepo)
	mockActivityRepo := new(mocks.MockActivityRepo)
	mockMailer := new(mocks.MockMailer)
	wk := newTestWorker(mockUserRepo, mockActivityRepo, mockMailer)

	wk.handleSettledPayout([]byte(`{"withdrawal_id":`))
	wk.Helper.WG.Wait()

	mockUserRepo.AssertNotCalled(t, "GetOne", mock.Anything)
	mockActivityRepo.AssertNotCalled(t, "Insert", mock.Anything)
	mockMailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleSettledPayout_RejectionAuditsRefundAndAlerts(t *testing.T) {
	mockUserRepo := new(mocks.MockUserRepo)
	mockActivityRepo := new(mocks.MockActivityRepo)
	mockMailer := new(mocks.MockMailer)
	wk := newTestWorker(mockUserRepo, mockActivityRepo, mockMailer)

	mockUserRepo.On("GetOne", "user-2").Return(&models.User{
		ID:        "user-2",
		FirstName: "Dara",
		LastName:  "Adeyemi",
		Email:     "dara@example.com",
	}, true, nil)

	rejectedLog := &repository.ActivityLog{
		UserID:      "user-2",
		Entity:      repository.ActivityLogWithdrawalEntity,
		EntityId:    "wd-2",
		Description: repository.ActivityLogWithdrawalRejectedDescription,
	}
	refundedLog := &repository.ActivityLog{
		UserID:      "user-2",
		Entity:      repository.ActivityLogWithdrawalEntity,
		EntityId:    "wd-2",
		Description: repository.ActivityLogWithdrawalRefundedDescription,
	}

	mockActivityRepo.On("Insert", rejectedLog).Return(rejectedLog, nil).Once()
	mockActivityRepo.On("Insert", refundedLog).Return(refundedLog, nil).Once()
	mockMailer.On("Send", "dara@example.com", mock.Anything, []string{"payout-rejected.tmpl"}).Return(nil).Once()

	message := `{
		"withdrawal_id": "wd-2",
		"reference": "WD-200",
		"user_id": "user-2",
		"amount": "1200",
		"status": "rejected",
		"remarks": "no funds"
	}`

	wk.handleSettledPayout([]byte(message))
	wk.Helper.WG.Wait()

	mockActivityRepo.AssertExpectations(t)
	mockMailer.AssertExpectations(t)
}

func TestHandleSettledPayout_ApprovalAuditsAndAlerts(t *testing.T) {
	mockUserRepo := new(mocks.MockUserRepo)
	mockActivityRepo := new(mocks.MockActivityRepo)
	mockMailer := new(mocks.MockMailer)
	wk := newTestWorker(mockUserRepo, mockActivityRepo, mockMailer)

	mockUserRepo.On("GetOne", "user-1").Return(&models.User{
		ID:    "user-1",
		Email: "seun@example.com",
	}, true, nil)

	approvedLog := &repository.ActivityLog{
		UserID:      "user-1",
		Entity:      repository.ActivityLogWithdrawalEntity,
		EntityId:    "wd-1",
		Description: repository.ActivityLogWithdrawalApprovedDescription,
	}

	mockActivityRepo.On("Insert", approvedLog).Return(approvedLog, nil).Once()
	mockMailer.On("Send", "seun@example.com", mock.Anything, []string{"payout-approved.tmpl"}).Return(nil).Once()

	message := `{
		"withdrawal_id": "wd-1",
		"reference": "WD-100",
		"user_id": "user-1",
		"amount": "5000",
		"status": "approved",
		"transfer_id": "FLW-9"
	}`

	wk.handleSettledPayout([]byte(message))
	wk.Helper.WG.Wait()

	mockActivityRepo.AssertExpectations(t)
	mockMailer.AssertExpectations(t)
}

func TestHandleTopupAlert_SkipsMalformedMessage(t *testing.T) {
	mockUserRepo := new(mocks.MockUserRepo)
	mockActivityRepo := new(mocks.MockActivityRepo)
	mockMailer := new(mocks.MockMailer)
	wk := newTestWorker(mockUserRepo, mockActivityRepo, mockMailer)

	wk.handleTopupAlert([]byte(`not json`))
	wk.Helper.WG.Wait()

	mockUserRepo.AssertNotCalled(t, "GetOne", mock.Anything)
	mockMailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleTopupAlert_SendsReceipt(t *testing.T) {
	mockUserRepo := new(mocks.MockUserRepo)
	mockActivityRepo := new(mocks.MockActivityRepo)
	mockMailer := new(mocks.MockMailer)
	wk := newTestWorker(mockUserRepo, mockActivityRepo, mockMailer)

	mockUserRepo.On("GetOne", "user-1").Return(&models.User{
		ID:    "user-1",
		Email: "seun@example.com",
	}, true, nil)
	mockMailer.On("Send", "seun@example.com", mock.Anything, []string{"topup-receipt.tmpl"}).Return(nil).Once()

	message := `{
		"user_id": "user-1",
		"wallet_id": "wallet-1",
		"amount": "150",
		"new_balance": "250",
		"created_at": "2026-09-01T10:00:00Z"
	}`

	wk.handleTopupAlert([]byte(message))
	wk.Helper.WG.Wait()

	mockUserRepo.AssertExpectations(t)
	mockMailer.AssertExpectations(t)
}
