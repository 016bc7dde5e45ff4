// Package payout matches Flutterwave's asynchronous transfer outcomes to
// pending withdrawal requests and finalizes their status. Flutterwave
// delivers webhooks at least once, so everything here has to tolerate
// duplicates: the conditional update in the withdrawal repository lets
// exactly one delivery win, every other delivery observes the terminal
// record and no-ops.
package payout

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/tobenna/vendora/internal/cache"
	"github.com/tobenna/vendora/internal/repository"
	"github.com/tobenna/vendora/internal/stream"

	"github.com/shopspring/decimal"
)

const (
	// EventTransferCompleted is the only Flutterwave event type that triggers
	// reconciliation; everything else is acknowledged without state change.
	EventTransferCompleted = "transfer.completed"

	// TransferStatusSuccessful is Flutterwave's success sentinel inside
	// data.status. The comparison is case-sensitive and exact.
	TransferStatusSuccessful = "SUCCESSFUL"
)

// settledCacheTTL bounds the redis replay fast path. The conditional update
// stays the real idempotency guard; the cache only spares the database
// during webhook replay storms.
const settledCacheTTL = 24 * time.Hour

// TransferEvent is the webhook body Flutterwave posts for transfer outcomes.
type TransferEvent struct {
	Event string            `json:"event"`
	Data  TransferEventData `json:"data"`
}

type TransferEventData struct {
	Reference       string `json:"reference"`
	Status          string `json:"status"`
	ID              string `json:"id"`
	CompleteMessage string `json:"complete_message"`
	Message         string `json:"message"`
}

// SettledPayout is published on the payout.settled topic after a withdrawal
// request reaches a terminal status. The status flip, and for a rejection the
// refund of the reserved amount, have already committed by then; consumers
// only produce audit entries and outcome emails from this event.
type SettledPayout struct {
	WithdrawalID string          `json:"withdrawal_id"`
	Reference    string          `json:"reference"`
	UserID       string          `json:"user_id"`
	Amount       decimal.Decimal `json:"amount"`
	Status       string          `json:"status"`
	TransferID   string          `json:"transfer_id"`
	Remarks      string          `json:"remarks"`
}

type Reconciler struct {
	withdrawalRepo repository.WithdrawalRepository
	stream         stream.Producer
	cache          *cache.Cache
	logger         *slog.Logger
}

func New(withdrawalRepo repository.WithdrawalRepository, producer stream.Producer, cache *cache.Cache, logger *slog.Logger) *Reconciler {
	return &Reconciler{
		withdrawalRepo: withdrawalRepo,
		stream:         producer,
		cache:          cache,
		logger:         logger,
	}
}

// Reconcile applies a transfer outcome to the matching withdrawal request.
// A pending request becomes approved when the transfer status is the success
// sentinel and rejected otherwise. Replays and unknown references return nil;
// the webhook sender must not be told to retry conditions that retrying
// cannot fix.
func (rc *Reconciler) Reconcile(data *TransferEventData) error {
	target := repository.WithdrawalStatusRejected
	if data.Status == TransferStatusSuccessful {
		target = repository.WithdrawalStatusApproved
	}

	// prefer the structured completion message, fall back to the generic one
	remarks := data.CompleteMessage
	if remarks == "" {
		remarks = data.Message
	}

	if rc.cache != nil {
		seen, err := rc.cache.Exists(settledCacheKey(data.Reference))
		if err == nil && seen {
			rc.logger.Info("transfer webhook replay short-circuited", "reference", data.Reference)
			return nil
		}
	}

	settled, err := rc.withdrawalRepo.SettleIfPending(data.Reference, target, data.ID, remarks)
	if err != nil {
		return err
	}

	if !settled {
		withdrawal, found, err := rc.withdrawalRepo.FindByReference(data.Reference)
		if err != nil {
			return err
		}

		if !found {
			rc.logger.Warn("no withdrawal request matches transfer reference",
				"reference", data.Reference, "transfer_id", data.ID)
			return nil
		}

		rc.logger.Info("withdrawal request already settled, ignoring replay",
			"reference", data.Reference, "status", withdrawal.Status)
		rc.markSettled(data.Reference)
		return nil
	}

	withdrawal, found, err := rc.withdrawalRepo.FindByReference(data.Reference)
	if err != nil || !found {
		// The settle committed; losing the event payload is not worth a 5xx
		// that would make Flutterwave retry a done transition.
		rc.logger.Error("could not load settled withdrawal for event publish",
			"reference", data.Reference, "error", err)
		rc.markSettled(data.Reference)
		return nil
	}

	rc.logger.Info("withdrawal request settled",
		"reference", withdrawal.Reference, "status", withdrawal.Status, "transfer_id", data.ID)

	settledEvent := &SettledPayout{
		WithdrawalID: withdrawal.ID,
		Reference:    withdrawal.Reference,
		UserID:       withdrawal.UserID,
		Amount:       withdrawal.Amount,
		Status:       withdrawal.Status,
		TransferID:   withdrawal.FlutterwaveTransferID.String,
		Remarks:      withdrawal.Remarks.String,
	}

	jsonMessage, err := json.Marshal(settledEvent)
	if err != nil {
		rc.logger.Error("could not encode settled payout event", "reference", withdrawal.Reference, "error", err)
	} else if err := rc.stream.ProduceMessage(stream.PayoutSettledTopic, string(jsonMessage)); err != nil {
		rc.logger.Error("could not publish settled payout event", "reference", withdrawal.Reference, "error", err)
	}

	rc.markSettled(data.Reference)
	return nil
}

func (rc *Reconciler) markSettled(reference string) {
	if rc.cache == nil {
		return
	}

	if err := rc.cache.Set(settledCacheKey(reference), "1", settledCacheTTL); err != nil {
		rc.logger.Error("could not cache settled reference", "reference", reference, "error", err)
	}
}

func settledCacheKey(reference string) string {
	return "payout:settled:" + reference
}
