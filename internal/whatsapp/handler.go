package whatsapp

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/heralf/legal-leads/pkg/logging"
)

// Handler serves the Meta webhook endpoints: GET for subscription
// verification and POST for inbound message delivery. Inbound messages are
// acknowledged and logged only; routing them into consultations is a
// followup once the firm enables the channel.
type Handler struct {
	verifyToken string
	logger      *logging.Logger
}

func NewHandler(verifyToken string, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{verifyToken: verifyToken, logger: logger}
}

// Verify answers the hub.challenge handshake Meta performs when the webhook
// is registered.
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	mode := q.Get("hub.mode")
	token := q.Get("hub.verify_token")
	challenge := q.Get("hub.challenge")

	if mode != "subscribe" || h.verifyToken == "" || token != h.verifyToken {
		h.logger.Warn("webhook verification rejected", "mode", mode)
		http.Error(w, "verification failed", http.StatusForbidden)
		return
	}

	h.logger.Info("webhook verified")
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, challenge)
}

// Receive acknowledges inbound webhook events. Meta retries deliveries that
// do not get a 200, so malformed payloads are still acknowledged.
func (h *Handler) Receive(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		h.logger.Error("failed to read webhook body", "error", err)
	}

	var event map[string]any
	if err := json.Unmarshal(body, &event); err != nil {
		h.logger.Warn("ignoring malformed webhook payload", "error", err)
	} else {
		h.logger.Info("webhook event received", "object", event["object"])
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "received"})
}
