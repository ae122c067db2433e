package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/sirupsen/logrus"

	"github.com/dinetab/api/internal/database"
	"github.com/dinetab/api/internal/middleware"
	"github.com/dinetab/api/internal/service"
)

// CustomerStore defines the database methods needed by customer handlers.
type CustomerStore interface {
	GetCustomer(ctx context.Context, arg database.GetCustomerParams) (database.Customer, error)
	FindCustomerByPhone(ctx context.Context, arg database.FindCustomerByPhoneParams) (database.Customer, error)
	ListCustomers(ctx context.Context, arg database.ListCustomersParams) ([]database.Customer, error)
	SumPendingCreditByCustomer(ctx context.Context, customerID uuid.UUID) (pgtype.Numeric, error)
}

// SettlementServicer clears outstanding credit.
type SettlementServicer interface {
	SettleCredit(ctx context.Context, req service.SettleCreditRequest) (database.Customer, error)
}

type CustomerHandler struct {
	svc   SettlementServicer
	store CustomerStore
}

func NewCustomerHandler(svc SettlementServicer, store CustomerStore) *CustomerHandler {
	return &CustomerHandler{svc: svc, store: store}
}

// RegisterRoutes mounts inside /restaurants/{rid}/customers.
func (h *CustomerHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
	r.Post("/{id}/settlements", h.SettleCredit)
}

type customerListResponse struct {
	Customers []customerResponse `json:"customers"`
	Limit     int                `json:"limit"`
	Offset    int                `json:"offset"`
}

type customerDetailResponse struct {
	customerResponse
	PendingCreditTotal string `json:"pending_credit_total"`
}

type settleCreditRequest struct {
	Amount string `json:"amount"`
}

// List handles GET /restaurants/{rid}/customers. A phone query param turns
// the listing into an exact lookup.
func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	restaurantID, err := uuid.Parse(chi.URLParam(r, "rid"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid restaurant ID")
		return
	}

	if phone := r.URL.Query().Get("phone"); phone != "" {
		customer, err := h.store.FindCustomerByPhone(r.Context(), database.FindCustomerByPhoneParams{
			RestaurantID: restaurantID,
			Phone:        phone,
		})
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				writeError(w, http.StatusNotFound, "customer not found")
				return
			}
			logrus.Errorf("find customer by phone: %v", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		writeJSON(w, http.StatusOK, customerListResponse{
			Customers: []customerResponse{toCustomerResponse(customer)},
			Limit:     1,
		})
		return
	}

	limit := 20
	if s := r.URL.Query().Get("limit"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			limit = v
		}
	}
	if limit > 100 {
		limit = 100
	}
	offset := 0
	if s := r.URL.Query().Get("offset"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v >= 0 {
			offset = v
		}
	}

	customers, err := h.store.ListCustomers(r.Context(), database.ListCustomersParams{
		RestaurantID: restaurantID,
		Limit:        int32(limit),
		Offset:       int32(offset),
	})
	if err != nil {
		logrus.Errorf("list customers: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := make([]customerResponse, len(customers))
	for i, c := range customers {
		resp[i] = toCustomerResponse(c)
	}
	writeJSON(w, http.StatusOK, customerListResponse{Customers: resp, Limit: limit, Offset: offset})
}

// Get handles GET /restaurants/{rid}/customers/{id}. The detail view adds
// the pending-credit aggregate so the counter stays cross-checkable against
// the running balance.
func (h *CustomerHandler) Get(w http.ResponseWriter, r *http.Request) {
	restaurantID, err := uuid.Parse(chi.URLParam(r, "rid"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid restaurant ID")
		return
	}
	customerID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid customer ID")
		return
	}

	customer, err := h.store.GetCustomer(r.Context(), database.GetCustomerParams{
		ID:           customerID,
		RestaurantID: restaurantID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "customer not found")
			return
		}
		logrus.Errorf("get customer: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	pending, err := h.store.SumPendingCreditByCustomer(r.Context(), customerID)
	if err != nil {
		logrus.Errorf("sum pending credit: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, customerDetailResponse{
		customerResponse:   toCustomerResponse(customer),
		PendingCreditTotal: numericToString(pending),
	})
}

// SettleCredit handles POST /restaurants/{rid}/customers/{id}/settlements.
func (h *CustomerHandler) SettleCredit(w http.ResponseWriter, r *http.Request) {
	restaurantID, err := uuid.Parse(chi.URLParam(r, "rid"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid restaurant ID")
		return
	}
	customerID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid customer ID")
		return
	}

	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req settleCreditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Amount == "" {
		writeError(w, http.StatusBadRequest, "amount is required")
		return
	}

	customer, err := h.svc.SettleCredit(r.Context(), service.SettleCreditRequest{
		TenantID:     claims.TenantID,
		RestaurantID: restaurantID,
		CustomerID:   customerID,
		Amount:       req.Amount,
		SettledBy:    claims.UserID,
	})
	if err != nil {
		respondServiceError(w, "settle credit", err)
		return
	}

	writeJSON(w, http.StatusOK, toCustomerResponse(customer))
}
