package handler

import (
	"log/slog"
	"net/http"

	"github.com/tobenna/vendora/internal/config"
	"github.com/tobenna/vendora/internal/errHandler"
	"github.com/tobenna/vendora/internal/payout"
	"github.com/tobenna/vendora/internal/request"
)

// flutterwaveSignatureHeader carries the pre-shared secret hash on every
// webhook Flutterwave delivers.
const flutterwaveSignatureHeader = "verif-hash"

type WebhookHandler struct {
	Reconciler *payout.Reconciler
	Config     *config.Config
	ErrHandler *errHandler.ErrorHandler
	Logger     *slog.Logger
}

func NewWebhookHandler(handler *WebhookHandler) *WebhookHandler {
	return &WebhookHandler{
		Reconciler: handler.Reconciler,
		Config:     handler.Config,
		ErrHandler: handler.ErrHandler,
		Logger:     handler.Logger,
	}
}

// HandleFlutterwaveTransferWebhook receives transfer outcome callbacks.
// Flutterwave retries on non-2xx responses, so only two failure responses
// exist: 401 for a bad signature (retrying cannot help an imposter) and 500
// for a genuine persistence fault (retrying will help). An unknown reference
// is acknowledged with 200; the matching record will never appear, and
// endless retries would only fill the logs.
func (h *WebhookHandler) HandleFlutterwaveTransferWebhook(w http.ResponseWriter, r *http.Request) {
	signature := r.Header.Get(flutterwaveSignatureHeader)

	if signature == "" || signature != h.Config.Flutterwave.SecretHash {
		h.Logger.Warn("flutterwave webhook signature mismatch",
			"received", signature, "expected", h.Config.Flutterwave.SecretHash)
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte("Invalid signature"))
		return
	}

	var event payout.TransferEvent

	err := request.DecodeJSON(w, r, &event)
	if err != nil {
		h.ErrHandler.BadRequest(w, r, err)
		return
	}

	if event.Event != payout.EventTransferCompleted {
		h.Logger.Info("ignoring flutterwave event", "event", event.Event)
		w.Write([]byte("OK"))
		return
	}

	if err := h.Reconciler.Reconcile(&event.Data); err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	w.Write([]byte("OK"))
}
