package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"

	"github.com/tobenna/vendora/internal/app"
	"github.com/tobenna/vendora/internal/version"
	"github.com/tobenna/vendora/internal/worker"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	err := run(logger)
	if err != nil {
		trace := string(debug.Stack())
		logger.Error(err.Error(), "trace", trace)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	showVersion := flag.Bool("version", false, "display version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("version: %s\n", version.Get())
		return nil
	}

	application, err := app.NewApplication(logger)
	if err != nil {
		return err
	}
	defer application.DB.Close()
	defer application.Cache.Close()

	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()

	wk := worker.New(&worker.Worker{
		KafkaStream:    application.Kafka,
		WithdrawalRepo: application.DB.Withdrawal(),
		UserRepo:       application.DB.User(),
		ActivityRepo:   application.DB.Activity(),
		Mailer:         application.Mailer,
		Helper:         application.Helper,
		Ctx:            workerCtx,
	})

	go wk.PayoutSettledWorker()
	go wk.TopupAlertWorker()

	return application.ServeHTTP()
}
