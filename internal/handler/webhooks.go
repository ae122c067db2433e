package handler

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dinetab/api/internal/integration"
)

// webhookBodyLimit caps inbound payloads. Platform orders are small; anything
// bigger is noise.
const webhookBodyLimit = 1 << 20

// Ingester processes one webhook delivery.
type Ingester interface {
	AdapterFor(source string) (integration.Adapter, bool)
	Ingest(ctx context.Context, source string, rawBody []byte, signature string) (*integration.IngestResult, error)
}

type WebhookHandler struct {
	svc Ingester
}

func NewWebhookHandler(svc Ingester) *WebhookHandler {
	return &WebhookHandler{svc: svc}
}

// RegisterRoutes mounts the unauthenticated webhook endpoint. Auth is the
// HMAC signature, not a JWT.
func (h *WebhookHandler) RegisterRoutes(r chi.Router) {
	r.Post("/{platform}", h.Receive)
}

// Receive handles POST /webhooks/{platform}. Rejections are acknowledged
// with 200 and success: false; a 4xx would put the platform into a retry
// loop for a delivery that will never become valid.
func (h *WebhookHandler) Receive(w http.ResponseWriter, r *http.Request) {
	source := strings.ToUpper(chi.URLParam(r, "platform"))
	adapter, ok := h.svc.AdapterFor(source)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown platform")
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, webhookBodyLimit))
	if err != nil {
		writeError(w, http.StatusBadRequest, "unreadable body")
		return
	}

	signature := integration.SignatureFromHeader(r.Header, adapter)

	result, err := h.svc.Ingest(r.Context(), source, body, signature)
	if err != nil {
		respondServiceError(w, "ingest webhook", err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
