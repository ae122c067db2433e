package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"encoding/json"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/sirupsen/logrus"

	"github.com/dinetab/api/internal/database"
	"github.com/dinetab/api/internal/enum"
	"github.com/dinetab/api/internal/middleware"
	"github.com/dinetab/api/internal/service"
	"github.com/dinetab/api/internal/ws"
)

// OrderServicer defines the service methods needed by order handlers.
// Satisfied by *service.OrderService; narrow interface for testability.
type OrderServicer interface {
	CreateOrder(ctx context.Context, req service.CreateOrderRequest) (*service.OrderAggregate, error)
	GetOrder(ctx context.Context, restaurantID, orderID uuid.UUID) (*service.OrderAggregate, error)
	AddItems(ctx context.Context, req service.AddItemsRequest) (*service.OrderAggregate, error)
	UpdateItem(ctx context.Context, req service.UpdateItemRequest) (*service.OrderAggregate, error)
	RemoveItem(ctx context.Context, req service.RemoveItemRequest) (*service.OrderAggregate, error)
	UpdateStatus(ctx context.Context, req service.UpdateStatusRequest) (*service.OrderAggregate, error)
	DeleteOrder(ctx context.Context, req service.DeleteOrderRequest) error
}

// OrderStore defines the database methods needed by order list handlers.
type OrderStore interface {
	ListOrders(ctx context.Context, arg database.ListOrdersParams) ([]database.Order, error)
}

// Broadcaster pushes order events to connected dashboards. Satisfied by
// *ws.Hub; nil disables broadcasting.
type Broadcaster interface {
	Broadcast(restaurantID uuid.UUID, eventType string, payload any)
}

type OrderHandler struct {
	svc   OrderServicer
	store OrderStore
	hub   Broadcaster
}

func NewOrderHandler(svc OrderServicer, store OrderStore, hub Broadcaster) *OrderHandler {
	return &OrderHandler{svc: svc, store: store, hub: hub}
}

// RegisterRoutes mounts order endpoints inside a restaurant-scoped
// subrouter: /restaurants/{rid}/orders
func (h *OrderHandler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
	r.Patch("/{id}/status", h.UpdateStatus)
	r.Delete("/{id}", h.Delete)
	r.Post("/{id}/items", h.AddItems)
	r.Patch("/{id}/items/{itemID}", h.UpdateItem)
	r.Delete("/{id}/items/{itemID}", h.RemoveItem)
}

func (h *OrderHandler) broadcast(restaurantID uuid.UUID, eventType string, agg *service.OrderAggregate) {
	if h.hub == nil {
		return
	}
	h.hub.Broadcast(restaurantID, eventType, toAggregateResponse(agg))
}

// --- Request types ---

type createOrderRequest struct {
	OrderType     string             `json:"order_type"`
	Source        string             `json:"source"`
	TableID       string             `json:"table_id"`
	TableNumber   string             `json:"table_number"`
	CustomerID    string             `json:"customer_id"`
	CustomerPhone string             `json:"customer_phone"`
	CustomerName  string             `json:"customer_name"`
	Notes         string             `json:"notes"`
	PaymentMethod string             `json:"payment_method"`
	Items         []orderItemRequest `json:"items"`
}

type orderItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int32  `json:"quantity"`
	Notes     string `json:"notes"`
}

type updateStatusRequest struct {
	Status       string `json:"status"`
	CancelReason string `json:"cancel_reason"`
}

type updateItemRequest struct {
	Quantity int32  `json:"quantity"`
	Notes    string `json:"notes"`
	Status   string `json:"status"`
}

type orderListResponse struct {
	Orders []orderResponse `json:"orders"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
}

// --- Handlers ---

// Create handles POST /restaurants/{rid}/orders.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	restaurantID, err := uuid.Parse(chi.URLParam(r, "rid"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid restaurant ID")
		return
	}

	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.OrderType == "" {
		writeError(w, http.StatusBadRequest, "order_type is required")
		return
	}
	if len(req.Items) == 0 {
		writeError(w, http.StatusBadRequest, "items are required")
		return
	}
	if req.Source == "" {
		req.Source = enum.OrderSourceManual
	}

	agg, err := h.svc.CreateOrder(r.Context(), service.CreateOrderRequest{
		TenantID:      claims.TenantID,
		RestaurantID:  restaurantID,
		StaffID:       claims.UserID,
		OrderType:     req.OrderType,
		Source:        req.Source,
		TableID:       req.TableID,
		TableNumber:   req.TableNumber,
		CustomerID:    req.CustomerID,
		CustomerPhone: req.CustomerPhone,
		CustomerName:  req.CustomerName,
		Notes:         req.Notes,
		PaymentMethod: req.PaymentMethod,
		Items:         toItemInputs(req.Items),
	})
	if err != nil {
		respondServiceError(w, "create order", err)
		return
	}

	h.broadcast(restaurantID, ws.EventOrderCreated, agg)
	writeJSON(w, http.StatusCreated, toAggregateResponse(agg))
}

// List handles GET /restaurants/{rid}/orders.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	restaurantID, err := uuid.Parse(chi.URLParam(r, "rid"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid restaurant ID")
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

	params := database.ListOrdersParams{
		RestaurantID: restaurantID,
		Limit:        int32(limit),
		Offset:       int32(offset),
	}
	if s := r.URL.Query().Get("status"); s != "" {
		params.Status = pgtype.Text{String: s, Valid: true}
	}
	if s := r.URL.Query().Get("source"); s != "" {
		params.Source = pgtype.Text{String: s, Valid: true}
	}
	if s := r.URL.Query().Get("start_date"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid start_date format, use YYYY-MM-DD")
			return
		}
		params.StartDate = pgtype.Timestamptz{Time: t, Valid: true}
	}
	if s := r.URL.Query().Get("end_date"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid end_date format, use YYYY-MM-DD")
			return
		}
		params.EndDate = pgtype.Timestamptz{Time: t, Valid: true}
	}

	orders, err := h.store.ListOrders(r.Context(), params)
	if err != nil {
		logrus.Errorf("list orders: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := make([]orderResponse, len(orders))
	for i, o := range orders {
		resp[i] = toOrderResponse(o)
	}

	writeJSON(w, http.StatusOK, orderListResponse{Orders: resp, Limit: limit, Offset: offset})
}

// Get handles GET /restaurants/{rid}/orders/{id}.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	restaurantID, orderID, ok := orderPathIDs(w, r)
	if !ok {
		return
	}

	agg, err := h.svc.GetOrder(r.Context(), restaurantID, orderID)
	if err != nil {
		respondServiceError(w, "get order", err)
		return
	}

	writeJSON(w, http.StatusOK, toAggregateResponse(agg))
}

// UpdateStatus handles PATCH /restaurants/{rid}/orders/{id}/status.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	restaurantID, orderID, ok := orderPathIDs(w, r)
	if !ok {
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Status == "" {
		writeError(w, http.StatusBadRequest, "status is required")
		return
	}

	agg, err := h.svc.UpdateStatus(r.Context(), service.UpdateStatusRequest{
		RestaurantID: restaurantID,
		OrderID:      orderID,
		Status:       req.Status,
		CancelReason: req.CancelReason,
	})
	if err != nil {
		respondServiceError(w, "update order status", err)
		return
	}

	h.broadcast(restaurantID, ws.EventOrderStatus, agg)
	writeJSON(w, http.StatusOK, toAggregateResponse(agg))
}

// Delete handles DELETE /restaurants/{rid}/orders/{id}.
func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	restaurantID, orderID, ok := orderPathIDs(w, r)
	if !ok {
		return
	}

	if err := h.svc.DeleteOrder(r.Context(), service.DeleteOrderRequest{
		RestaurantID: restaurantID,
		OrderID:      orderID,
	}); err != nil {
		respondServiceError(w, "delete order", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AddItems handles POST /restaurants/{rid}/orders/{id}/items.
func (h *OrderHandler) AddItems(w http.ResponseWriter, r *http.Request) {
	restaurantID, orderID, ok := orderPathIDs(w, r)
	if !ok {
		return
	}

	var req struct {
		Items []orderItemRequest `json:"items"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	agg, err := h.svc.AddItems(r.Context(), service.AddItemsRequest{
		RestaurantID: restaurantID,
		OrderID:      orderID,
		Items:        toItemInputs(req.Items),
	})
	if err != nil {
		respondServiceError(w, "add order items", err)
		return
	}

	h.broadcast(restaurantID, ws.EventOrderUpdated, agg)
	writeJSON(w, http.StatusOK, toAggregateResponse(agg))
}

// UpdateItem handles PATCH /restaurants/{rid}/orders/{id}/items/{itemID}.
func (h *OrderHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	restaurantID, orderID, ok := orderPathIDs(w, r)
	if !ok {
		return
	}
	itemID, err := uuid.Parse(chi.URLParam(r, "itemID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid item ID")
		return
	}

	var req updateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	agg, err := h.svc.UpdateItem(r.Context(), service.UpdateItemRequest{
		RestaurantID: restaurantID,
		OrderID:      orderID,
		ItemID:       itemID,
		Quantity:     req.Quantity,
		Notes:        req.Notes,
		Status:       req.Status,
	})
	if err != nil {
		respondServiceError(w, "update order item", err)
		return
	}

	h.broadcast(restaurantID, ws.EventOrderUpdated, agg)
	writeJSON(w, http.StatusOK, toAggregateResponse(agg))
}

// RemoveItem handles DELETE /restaurants/{rid}/orders/{id}/items/{itemID}.
func (h *OrderHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	restaurantID, orderID, ok := orderPathIDs(w, r)
	if !ok {
		return
	}
	itemID, err := uuid.Parse(chi.URLParam(r, "itemID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid item ID")
		return
	}

	agg, err := h.svc.RemoveItem(r.Context(), service.RemoveItemRequest{
		RestaurantID: restaurantID,
		OrderID:      orderID,
		ItemID:       itemID,
	})
	if err != nil {
		respondServiceError(w, "remove order item", err)
		return
	}

	h.broadcast(restaurantID, ws.EventOrderUpdated, agg)
	writeJSON(w, http.StatusOK, toAggregateResponse(agg))
}

// --- Helpers ---

func orderPathIDs(w http.ResponseWriter, r *http.Request) (restaurantID, orderID uuid.UUID, ok bool) {
	restaurantID, err := uuid.Parse(chi.URLParam(r, "rid"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid restaurant ID")
		return uuid.Nil, uuid.Nil, false
	}
	orderID, err = uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order ID")
		return uuid.Nil, uuid.Nil, false
	}
	return restaurantID, orderID, true
}

func toItemInputs(items []orderItemRequest) []service.OrderItemInput {
	inputs := make([]service.OrderItemInput, len(items))
	for i, it := range items {
		inputs[i] = service.OrderItemInput{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Notes:     it.Notes,
		}
	}
	return inputs
}
