package app

import (
	"net/http"

	"github.com/tobenna/vendora/internal/handler"
	"github.com/tobenna/vendora/internal/ledger"
	"github.com/tobenna/vendora/internal/middleware"
	"github.com/tobenna/vendora/internal/payout"
)

func (app *Application) routes() http.Handler {
	mux := http.NewServeMux()

	middlewareRepo := middleware.New(app.ErrorHandler, app.Logger, app.DB.User(), &app.Config)

	healthHandler := handler.NewHealthCheckHandler(app.ErrorHandler)

	walletLedger := ledger.New(app.DB.Wallet())
	walletHandler := handler.NewWalletHandler(&handler.WalletHandler{
		Ledger:       walletLedger,
		ActivityRepo: app.DB.Activity(),
		Kafka:        app.Kafka,
		ErrHandler:   app.ErrorHandler,
		Helper:       app.Helper,
	})

	withdrawalHandler := handler.NewWithdrawalHandler(&handler.WithdrawalHandler{
		DB:             app.DB,
		WalletRepo:     app.DB.Wallet(),
		WithdrawalRepo: app.DB.Withdrawal(),
		ActivityRepo:   app.DB.Activity(),
		ErrHandler:     app.ErrorHandler,
		Helper:         app.Helper,
	})

	reconciler := payout.New(app.DB.Withdrawal(), app.Kafka, app.Cache, app.Logger)
	webhookHandler := handler.NewWebhookHandler(&handler.WebhookHandler{
		Reconciler: reconciler,
		Config:     &app.Config,
		ErrHandler: app.ErrorHandler,
		Logger:     app.Logger,
	})

	mux.HandleFunc("GET /status", healthHandler.HandleHealthCheck)

	mux.Handle("GET /wallet", middlewareRepo.RequireAuthenticatedUser(http.HandlerFunc(walletHandler.HandleWalletBalance)))
	mux.Handle("POST /wallet/top-up", middlewareRepo.RequireAuthenticatedUser(http.HandlerFunc(walletHandler.HandleWalletTopUp)))

	mux.Handle("POST /withdrawals", middlewareRepo.RequireAuthenticatedUser(http.HandlerFunc(withdrawalHandler.HandleRequestWithdrawal)))
	mux.Handle("GET /withdrawals", middlewareRepo.RequireAuthenticatedUser(http.HandlerFunc(withdrawalHandler.HandleUserWithdrawals)))

	// Flutterwave authenticates itself with the verif-hash header, handled
	// inside the webhook handler, so this route skips the JWT requirement.
	mux.HandleFunc("POST /webhooks/flutterwave", webhookHandler.HandleFlutterwaveTransferWebhook)

	return middlewareRepo.LogAccess(middlewareRepo.RecoverPanic(middlewareRepo.Authenticate(mux)))
}
