// Settled payouts are the ones that already reached a terminal status in the
// withdrawal_requests table: the reconciler committed the transition, and for
// a rejection the refund credit, before publishing the event. Everything here
// is after-care: audit trail entries and outcome emails. Redelivered events
// at worst duplicate a log line or an email, never a balance change.
package worker

import (
	"encoding/json"
	"log"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/tobenna/vendora/internal/payout"
	"github.com/tobenna/vendora/internal/repository"
	"github.com/tobenna/vendora/internal/stream"
)

func (wk *Worker) PayoutSettledWorker() {
	consumer, err := wk.KafkaStream.CreateConsumer(&stream.StreamConsumer{
		GroupId: payoutSettledGroupID,
		Topic:   stream.PayoutSettledTopic,
	})

	if err != nil {
		log.Fatalf("Error creating consumer: %v", err)
	}
	defer consumer.Close()

	for {
		select {
		case <-wk.Ctx.Done():
			log.Println("PayoutSettledWorker received cancellation signal, shutting down...")
			return
		default:
			event := consumer.Poll(100) // Poll every 100ms
			switch e := event.(type) {
			case *kafka.Message:
				log.Printf("Settled payout message received on %s: %s\n", e.TopicPartition, string(e.Value))
				wk.handleSettledPayout(e.Value)
			case kafka.Error:
				log.Printf("Error: %v\n", e)
			default:
				// Handle other events if needed
			}
		}
	}
}

func (wk *Worker) handleSettledPayout(message []byte) {
	var settled payout.SettledPayout

	if err := json.Unmarshal(message, &settled); err != nil {
		log.Printf("Skipping malformed settled payout message: %v", err)
		return
	}

	wk.recordPayoutActivity(&settled)
	wk.sendPayoutAlert(&settled)
}

// recordPayoutActivity writes the audit entries for a settled payout. A
// rejection gets a second entry for the refunded reservation; the credit
// itself already committed alongside the status flip.
func (wk *Worker) recordPayoutActivity(settled *payout.SettledPayout) {
	descriptions := []string{repository.ActivityLogWithdrawalApprovedDescription}

	if settled.Status == repository.WithdrawalStatusRejected {
		descriptions = []string{
			repository.ActivityLogWithdrawalRejectedDescription,
			repository.ActivityLogWithdrawalRefundedDescription,
		}
	}

	wk.Helper.BackgroundTask(nil, func() error {
		for _, description := range descriptions {
			_, err := wk.ActivityRepo.Insert(&repository.ActivityLog{
				UserID:      settled.UserID,
				Entity:      repository.ActivityLogWithdrawalEntity,
				EntityId:    settled.WithdrawalID,
				Description: description,
			})

			if err != nil {
				log.Printf("Error logging settled payout action: %v", err)
				return err
			}
		}
		return nil
	})
}

func (wk *Worker) sendPayoutAlert(settled *payout.SettledPayout) bool {
	user, found, err := wk.UserRepo.GetOne(settled.UserID)
	if err != nil || !found {
		log.Printf("Error finding user account for payout alert: %v", err)
		return false
	}

	template := "payout-approved.tmpl"
	if settled.Status == repository.WithdrawalStatusRejected {
		template = "payout-rejected.tmpl"
	}

	wk.Helper.BackgroundTask(nil, func() error {
		emailData := wk.Helper.NewEmailData()
		emailData["Name"] = user.FirstName + " " + user.LastName
		emailData["Amount"] = settled.Amount
		emailData["Reference"] = settled.Reference
		emailData["Remarks"] = settled.Remarks

		err = wk.Mailer.Send(user.Email, emailData, template)
		if err != nil {
			log.Printf("Error sending payout email alert: %v", err)
			return err
		}

		return nil
	})

	return true
}
