package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dinetab/api/internal/service"
	"github.com/dinetab/api/internal/ws"
)

// PaymentServicer is the payment reconciliation entry point.
type PaymentServicer interface {
	UpdatePayment(ctx context.Context, req service.UpdatePaymentRequest) (*service.OrderAggregate, error)
}

type PaymentHandler struct {
	svc PaymentServicer
	hub Broadcaster
}

func NewPaymentHandler(svc PaymentServicer, hub Broadcaster) *PaymentHandler {
	return &PaymentHandler{svc: svc, hub: hub}
}

// RegisterRoutes mounts inside the restaurant-scoped orders subrouter.
func (h *PaymentHandler) RegisterRoutes(r chi.Router) {
	r.Patch("/{id}/payment", h.UpdatePayment)
}

type updatePaymentRequest struct {
	PaymentMethod    string     `json:"payment_method"`
	PaymentStatus    string     `json:"payment_status"`
	DiscountAmount   string     `json:"discount_amount"`
	PaymentProvider  string     `json:"payment_provider"`
	PaymentReference string     `json:"payment_reference"`
	PaidAt           *time.Time `json:"paid_at"`
}

// UpdatePayment handles PATCH /restaurants/{rid}/orders/{id}/payment.
func (h *PaymentHandler) UpdatePayment(w http.ResponseWriter, r *http.Request) {
	restaurantID, err := uuid.Parse(chi.URLParam(r, "rid"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid restaurant ID")
		return
	}
	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order ID")
		return
	}

	var req updatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.PaymentMethod == "" {
		writeError(w, http.StatusBadRequest, "payment_method is required")
		return
	}
	if req.PaymentStatus == "" {
		writeError(w, http.StatusBadRequest, "payment_status is required")
		return
	}

	agg, err := h.svc.UpdatePayment(r.Context(), service.UpdatePaymentRequest{
		RestaurantID: restaurantID,
		OrderID:      orderID,
		Method:       req.PaymentMethod,
		Status:       req.PaymentStatus,
		Discount:     req.DiscountAmount,
		Provider:     req.PaymentProvider,
		Reference:    req.PaymentReference,
		PaidAt:       req.PaidAt,
	})
	if err != nil {
		respondServiceError(w, "update order payment", err)
		return
	}

	if h.hub != nil {
		h.hub.Broadcast(restaurantID, ws.EventOrderUpdated, toAggregateResponse(agg))
	}
	writeJSON(w, http.StatusOK, toAggregateResponse(agg))
}
