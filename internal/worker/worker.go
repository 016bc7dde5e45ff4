package worker

import (
	"context"

	"github.com/tobenna/vendora/internal/helper"
	"github.com/tobenna/vendora/internal/repository"
	"github.com/tobenna/vendora/internal/smtp"
	"github.com/tobenna/vendora/internal/stream"
)

type Worker struct {
	KafkaStream    *stream.KafkaStream
	WithdrawalRepo repository.WithdrawalRepository
	UserRepo       repository.UserRepository
	ActivityRepo   repository.ActivityRepository
	Mailer         smtp.MailerInterface
	Helper         *helper.HelperRepository
	Ctx            context.Context
}

const (
	// payoutSettledGroupID is used for workers that need to take action when a
	// withdrawal request has reached a terminal status
	payoutSettledGroupID = "payout-settled-group"

	// walletTopupGroupID is used for workers that need to take action whenever
	// a wallet was credited through a top-up
	walletTopupGroupID = "wallet-topup-group"
)

// Our workers typically need access to the database and the kafka event stream
// worker-specific dependencies can be passed as argument to the worker
func New(wk *Worker) *Worker {
	return &Worker{
		KafkaStream:    wk.KafkaStream,
		WithdrawalRepo: wk.WithdrawalRepo,
		UserRepo:       wk.UserRepo,
		ActivityRepo:   wk.ActivityRepo,
		Mailer:         wk.Mailer,
		Helper:         wk.Helper,
		Ctx:            wk.Ctx,
	}
}
