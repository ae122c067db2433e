// Package handler exposes the HTTP surface. Handlers decode and validate the
// wire shapes, delegate to services or store queries, and map errors to
// statuses. No business rules live here.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/dinetab/api/internal/apperr"
	"github.com/dinetab/api/internal/database"
	"github.com/dinetab/api/internal/service"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// respondServiceError maps service errors to HTTP responses. Coded errors
// surface their message; anything else is logged and hidden behind a 500.
func respondServiceError(w http.ResponseWriter, op string, err error) {
	if appErr := apperr.From(err); appErr != nil {
		writeJSON(w, apperr.HTTPStatus(appErr.Code), appErr)
		return
	}
	if errors.Is(err, pgx.ErrNoRows) {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	logrus.Errorf("%s: %v", op, err)
	writeError(w, http.StatusInternalServerError, "internal server error")
}

// --- Shared response shapes ---

type orderResponse struct {
	ID               uuid.UUID           `json:"id"`
	RestaurantID     uuid.UUID           `json:"restaurant_id"`
	OrderNumber      string              `json:"order_number"`
	TableID          *string             `json:"table_id"`
	CustomerID       *string             `json:"customer_id"`
	OrderType        string              `json:"order_type"`
	Status           string              `json:"status"`
	Notes            *string             `json:"notes"`
	DiscountAmount   string              `json:"discount_amount"`
	TotalAmount      string              `json:"total_amount"`
	PaymentMethod    string              `json:"payment_method"`
	PaymentStatus    string              `json:"payment_status"`
	PaymentProvider  *string             `json:"payment_provider"`
	PaymentReference *string             `json:"payment_reference"`
	PaidAt           *time.Time          `json:"paid_at"`
	Source           string              `json:"source"`
	ExternalOrderID  *string             `json:"external_order_id"`
	CancelReason     *string             `json:"cancel_reason"`
	PlacedAt         time.Time           `json:"placed_at"`
	CompletedAt      *time.Time          `json:"completed_at"`
	CancelledAt      *time.Time          `json:"cancelled_at"`
	Items            []orderItemResponse `json:"items,omitempty"`
}

type orderItemResponse struct {
	ID        uuid.UUID `json:"id"`
	ProductID *string   `json:"product_id"`
	Name      string    `json:"name"`
	UnitPrice string    `json:"unit_price"`
	Quantity  int32     `json:"quantity"`
	Notes     *string   `json:"notes"`
	Status    string    `json:"status"`
}

type customerResponse struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Phone         string    `json:"phone"`
	CreditBalance string    `json:"credit_balance"`
	TotalOrders   int32     `json:"total_orders"`
	TotalSpent    string    `json:"total_spent"`
	CreatedAt     time.Time `json:"created_at"`
}

type tableResponse struct {
	ID          uuid.UUID `json:"id"`
	HallID      *string   `json:"hall_id"`
	TableNumber string    `json:"table_number"`
	TableStatus string    `json:"table_status"`
}

func toOrderResponse(o database.Order) orderResponse {
	resp := orderResponse{
		ID:             o.ID,
		RestaurantID:   o.RestaurantID,
		OrderNumber:    o.OrderNumber,
		OrderType:      o.OrderType,
		Status:         o.Status,
		DiscountAmount: numericToString(o.DiscountAmount),
		TotalAmount:    numericToString(o.TotalAmount),
		PaymentMethod:  o.PaymentMethod,
		PaymentStatus:  o.PaymentStatus,
		Source:         o.Source,
		PlacedAt:       o.PlacedAt,
	}
	resp.TableID = uuidPtr(o.TableID)
	resp.CustomerID = uuidPtr(o.CustomerID)
	resp.Notes = textPtr(o.Notes)
	resp.PaymentProvider = textPtr(o.PaymentProvider)
	resp.PaymentReference = textPtr(o.PaymentReference)
	resp.ExternalOrderID = textPtr(o.ExternalOrderID)
	resp.CancelReason = textPtr(o.CancelReason)
	resp.PaidAt = timePtr(o.PaidAt)
	resp.CompletedAt = timePtr(o.CompletedAt)
	resp.CancelledAt = timePtr(o.CancelledAt)
	return resp
}

func toOrderItemResponse(it database.OrderItem) orderItemResponse {
	return orderItemResponse{
		ID:        it.ID,
		ProductID: uuidPtr(it.ProductID),
		Name:      it.NameSnapshot,
		UnitPrice: numericToString(it.PriceSnapshot),
		Quantity:  it.Quantity,
		Notes:     textPtr(it.Notes),
		Status:    it.Status,
	}
}

func toAggregateResponse(agg *service.OrderAggregate) orderResponse {
	resp := toOrderResponse(agg.Order)
	resp.Items = make([]orderItemResponse, len(agg.Items))
	for i, it := range agg.Items {
		resp.Items[i] = toOrderItemResponse(it)
	}
	return resp
}

func toCustomerResponse(c database.Customer) customerResponse {
	return customerResponse{
		ID:            c.ID,
		Name:          c.Name,
		Phone:         c.Phone,
		CreditBalance: numericToString(c.CreditBalance),
		TotalOrders:   c.TotalOrders,
		TotalSpent:    numericToString(c.TotalSpent),
		CreatedAt:     c.CreatedAt,
	}
}

func toTableResponse(t database.RestaurantTable) tableResponse {
	return tableResponse{
		ID:          t.ID,
		HallID:      uuidPtr(t.HallID),
		TableNumber: t.TableNumber,
		TableStatus: t.TableStatus,
	}
}

// --- pgtype helpers ---

func numericToString(n pgtype.Numeric) string {
	if !n.Valid {
		return "0.00"
	}
	val, err := n.Value()
	if err != nil || val == nil {
		return "0.00"
	}
	d, err := decimal.NewFromString(val.(string))
	if err != nil {
		return "0.00"
	}
	return d.StringFixed(2)
}

func uuidPtr(u pgtype.UUID) *string {
	if !u.Valid {
		return nil
	}
	s := uuid.UUID(u.Bytes).String()
	return &s
}

func textPtr(t pgtype.Text) *string {
	if !t.Valid {
		return nil
	}
	return &t.String
}

func timePtr(t pgtype.Timestamptz) *time.Time {
	if !t.Valid {
		return nil
	}
	return &t.Time
}
