package worker

import (
	"encoding/json"
	"log"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/tobenna/vendora/internal/handler"
	"github.com/tobenna/vendora/internal/stream"
)

func (wk *Worker) TopupAlertWorker() {
	consumer, err := wk.KafkaStream.CreateConsumer(&stream.StreamConsumer{
		GroupId: walletTopupGroupID,
		Topic:   stream.WalletTopupTopic,
	})

	if err != nil {
		log.Fatalf("Error creating consumer: %v", err)
	}
	defer consumer.Close()

	for {
		select {
		case <-wk.Ctx.Done():
			log.Println("TopupAlertWorker received cancellation signal, shutting down...")
			return
		default:
			event := consumer.Poll(100) // Poll every 100ms
			switch e := event.(type) {
			case *kafka.Message:
				log.Printf("Top-up message received on %s: %s\n", e.TopicPartition, string(e.Value))
				wk.handleTopupAlert(e.Value)
			case kafka.Error:
				log.Printf("Error: %v\n", e)
			default:
				// Handle other events if needed
			}
		}
	}
}

func (wk *Worker) handleTopupAlert(message []byte) {
	var alert handler.TopUpAlert

	if err := json.Unmarshal(message, &alert); err != nil {
		log.Printf("Skipping malformed top-up alert message: %v", err)
		return
	}

	wk.sendTopupReceipt(&alert)
}

func (wk *Worker) sendTopupReceipt(alert *handler.TopUpAlert) bool {
	user, found, err := wk.UserRepo.GetOne(alert.UserID)
	if err != nil || !found {
		log.Printf("Error finding user account for top-up receipt: %v", err)
		return false
	}

	wk.Helper.BackgroundTask(nil, func() error {
		emailData := wk.Helper.NewEmailData()
		emailData["Name"] = user.FirstName + " " + user.LastName
		emailData["Amount"] = alert.Amount
		emailData["NewBalance"] = alert.NewBalance

		err = wk.Mailer.Send(user.Email, emailData, "topup-receipt.tmpl")
		if err != nil {
			log.Printf("Error sending top-up receipt: %v", err)
			return err
		}

		return nil
	})

	return true
}
