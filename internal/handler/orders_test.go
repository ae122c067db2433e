package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dinetab/api/internal/apperr"
	"github.com/dinetab/api/internal/auth"
	"github.com/dinetab/api/internal/database"
	"github.com/dinetab/api/internal/enum"
	"github.com/dinetab/api/internal/middleware"
	"github.com/dinetab/api/internal/service"
)

const testJWTSecret = "handler-test-secret"

type mockOrderServicer struct {
	createOrderFn  func(ctx context.Context, req service.CreateOrderRequest) (*service.OrderAggregate, error)
	getOrderFn     func(ctx context.Context, restaurantID, orderID uuid.UUID) (*service.OrderAggregate, error)
	addItemsFn     func(ctx context.Context, req service.AddItemsRequest) (*service.OrderAggregate, error)
	updateItemFn   func(ctx context.Context, req service.UpdateItemRequest) (*service.OrderAggregate, error)
	removeItemFn   func(ctx context.Context, req service.RemoveItemRequest) (*service.OrderAggregate, error)
	updateStatusFn func(ctx context.Context, req service.UpdateStatusRequest) (*service.OrderAggregate, error)
	deleteOrderFn  func(ctx context.Context, req service.DeleteOrderRequest) error
}

func (m *mockOrderServicer) CreateOrder(ctx context.Context, req service.CreateOrderRequest) (*service.OrderAggregate, error) {
	return m.createOrderFn(ctx, req)
}
func (m *mockOrderServicer) GetOrder(ctx context.Context, restaurantID, orderID uuid.UUID) (*service.OrderAggregate, error) {
	return m.getOrderFn(ctx, restaurantID, orderID)
}
func (m *mockOrderServicer) AddItems(ctx context.Context, req service.AddItemsRequest) (*service.OrderAggregate, error) {
	return m.addItemsFn(ctx, req)
}
func (m *mockOrderServicer) UpdateItem(ctx context.Context, req service.UpdateItemRequest) (*service.OrderAggregate, error) {
	return m.updateItemFn(ctx, req)
}
func (m *mockOrderServicer) RemoveItem(ctx context.Context, req service.RemoveItemRequest) (*service.OrderAggregate, error) {
	return m.removeItemFn(ctx, req)
}
func (m *mockOrderServicer) UpdateStatus(ctx context.Context, req service.UpdateStatusRequest) (*service.OrderAggregate, error) {
	return m.updateStatusFn(ctx, req)
}
func (m *mockOrderServicer) DeleteOrder(ctx context.Context, req service.DeleteOrderRequest) error {
	return m.deleteOrderFn(ctx, req)
}

type mockOrderStore struct {
	listOrdersFn func(ctx context.Context, arg database.ListOrdersParams) ([]database.Order, error)
}

func (m *mockOrderStore) ListOrders(ctx context.Context, arg database.ListOrdersParams) ([]database.Order, error) {
	return m.listOrdersFn(ctx, arg)
}

type mockBroadcaster struct {
	events []string
}

func (m *mockBroadcaster) Broadcast(restaurantID uuid.UUID, eventType string, payload any) {
	m.events = append(m.events, eventType)
}

// newOrderRouter mounts the handler behind JWT auth the way the real router
// does. Returns the router and a valid staff token.
func newOrderRouter(t *testing.T, svc OrderServicer, store OrderStore, hub Broadcaster, restaurantID uuid.UUID) (chi.Router, string) {
	t.Helper()
	h := NewOrderHandler(svc, store, hub)
	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(testJWTSecret))
		r.Route("/restaurants/{rid}/orders", h.RegisterRoutes)
	})

	token, err := auth.GenerateToken(testJWTSecret, uuid.New(), restaurantID, uuid.New(), enum.UserRoleStaff)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return r, token
}

func doJSON(t *testing.T, r http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func sampleAggregate(restaurantID uuid.UUID) *service.OrderAggregate {
	return &service.OrderAggregate{
		Order: database.Order{
			ID:           uuid.New(),
			RestaurantID: restaurantID,
			OrderNumber:  "ORD-ABC234",
			OrderType:    enum.OrderTypeTakeaway,
			Status:       enum.OrderStatusActive,
			Source:       enum.OrderSourceManual,
		},
	}
}

func TestOrderCreate(t *testing.T) {
	restaurantID := uuid.New()
	productID := uuid.New()

	var captured service.CreateOrderRequest
	svc := &mockOrderServicer{
		createOrderFn: func(ctx context.Context, req service.CreateOrderRequest) (*service.OrderAggregate, error) {
			captured = req
			return sampleAggregate(restaurantID), nil
		},
	}
	hub := &mockBroadcaster{}
	r, token := newOrderRouter(t, svc, &mockOrderStore{}, hub, restaurantID)

	body := `{"order_type": "TAKEAWAY", "items": [{"product_id": "` + productID.String() + `", "quantity": 2}]}`
	rec := doJSON(t, r, http.MethodPost, "/restaurants/"+restaurantID.String()+"/orders", token, body)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if captured.RestaurantID != restaurantID {
		t.Error("restaurant id not taken from path")
	}
	if captured.StaffID == uuid.Nil || captured.TenantID == uuid.Nil {
		t.Error("staff/tenant not taken from token claims")
	}
	if len(hub.events) != 1 || hub.events[0] != "order.created" {
		t.Errorf("broadcast events = %v", hub.events)
	}

	var resp struct {
		OrderNumber string `json:"order_number"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if resp.OrderNumber != "ORD-ABC234" {
		t.Errorf("order_number = %q", resp.OrderNumber)
	}
}

func TestOrderCreate_SourceDefaultsToManual(t *testing.T) {
	restaurantID := uuid.New()
	productID := uuid.New()

	var captured service.CreateOrderRequest
	svc := &mockOrderServicer{
		createOrderFn: func(ctx context.Context, req service.CreateOrderRequest) (*service.OrderAggregate, error) {
			captured = req
			return sampleAggregate(restaurantID), nil
		},
	}
	r, token := newOrderRouter(t, svc, &mockOrderStore{}, &mockBroadcaster{}, restaurantID)

	itemsJSON := `[{"product_id": "` + productID.String() + `", "quantity": 1}]`

	rec := doJSON(t, r, http.MethodPost, "/restaurants/"+restaurantID.String()+"/orders", token,
		`{"order_type": "TAKEAWAY", "items": `+itemsJSON+`}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if captured.Source != enum.OrderSourceManual {
		t.Errorf("omitted source = %q, want MANUAL", captured.Source)
	}

	rec = doJSON(t, r, http.MethodPost, "/restaurants/"+restaurantID.String()+"/orders", token,
		`{"order_type": "TAKEAWAY", "source": "QR", "items": `+itemsJSON+`}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if captured.Source != enum.OrderSourceQR {
		t.Errorf("explicit source = %q, want QR", captured.Source)
	}
}

func TestOrderCreate_MissingFields(t *testing.T) {
	restaurantID := uuid.New()
	r, token := newOrderRouter(t, &mockOrderServicer{}, &mockOrderStore{}, nil, restaurantID)

	cases := []struct {
		name string
		body string
	}{
		{"no order type", `{"items": [{"product_id": "x", "quantity": 1}]}`},
		{"no items", `{"order_type": "TAKEAWAY"}`},
		{"bad json", `{`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doJSON(t, r, http.MethodPost, "/restaurants/"+restaurantID.String()+"/orders", token, tc.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d", rec.Code)
			}
		})
	}
}

func TestOrderCreate_Unauthenticated(t *testing.T) {
	restaurantID := uuid.New()
	r, _ := newOrderRouter(t, &mockOrderServicer{}, &mockOrderStore{}, nil, restaurantID)

	rec := doJSON(t, r, http.MethodPost, "/restaurants/"+restaurantID.String()+"/orders", "", `{}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestOrderCreate_ServiceErrorMapped(t *testing.T) {
	restaurantID := uuid.New()
	svc := &mockOrderServicer{
		createOrderFn: func(ctx context.Context, req service.CreateOrderRequest) (*service.OrderAggregate, error) {
			return nil, apperr.Validation("dine-in orders require a table")
		},
	}
	hub := &mockBroadcaster{}
	r, token := newOrderRouter(t, svc, &mockOrderStore{}, hub, restaurantID)

	body := `{"order_type": "DINE_IN", "items": [{"product_id": "x", "quantity": 1}]}`
	rec := doJSON(t, r, http.MethodPost, "/restaurants/"+restaurantID.String()+"/orders", token, body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	if len(hub.events) != 0 {
		t.Error("broadcast fired for a failed creation")
	}
	var resp struct {
		Code string `json:"code"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Code != apperr.CodeValidation {
		t.Errorf("error code = %q", resp.Code)
	}
}

func TestOrderGet_NotFound(t *testing.T) {
	restaurantID := uuid.New()
	svc := &mockOrderServicer{
		getOrderFn: func(ctx context.Context, rid, oid uuid.UUID) (*service.OrderAggregate, error) {
			return nil, apperr.NotFound("order not found")
		},
	}
	r, token := newOrderRouter(t, svc, &mockOrderStore{}, nil, restaurantID)

	rec := doJSON(t, r, http.MethodGet, "/restaurants/"+restaurantID.String()+"/orders/"+uuid.New().String(), token, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestOrderUpdateStatus(t *testing.T) {
	restaurantID := uuid.New()
	var captured service.UpdateStatusRequest
	svc := &mockOrderServicer{
		updateStatusFn: func(ctx context.Context, req service.UpdateStatusRequest) (*service.OrderAggregate, error) {
			captured = req
			agg := sampleAggregate(restaurantID)
			agg.Order.Status = enum.OrderStatusCancelled
			return agg, nil
		},
	}
	hub := &mockBroadcaster{}
	r, token := newOrderRouter(t, svc, &mockOrderStore{}, hub, restaurantID)

	orderID := uuid.New()
	body := `{"status": "CANCELLED", "cancel_reason": "customer left"}`
	rec := doJSON(t, r, http.MethodPatch, "/restaurants/"+restaurantID.String()+"/orders/"+orderID.String()+"/status", token, body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if captured.OrderID != orderID || captured.CancelReason != "customer left" {
		t.Errorf("captured = %+v", captured)
	}
	if len(hub.events) != 1 || hub.events[0] != "order.status" {
		t.Errorf("broadcast events = %v", hub.events)
	}
}

func TestOrderDelete(t *testing.T) {
	restaurantID := uuid.New()
	deleted := false
	svc := &mockOrderServicer{
		deleteOrderFn: func(ctx context.Context, req service.DeleteOrderRequest) error {
			deleted = true
			return nil
		},
	}
	r, token := newOrderRouter(t, svc, &mockOrderStore{}, nil, restaurantID)

	rec := doJSON(t, r, http.MethodDelete, "/restaurants/"+restaurantID.String()+"/orders/"+uuid.New().String(), token, "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d", rec.Code)
	}
	if !deleted {
		t.Error("delete not invoked")
	}
}

func TestOrderList_Filters(t *testing.T) {
	restaurantID := uuid.New()
	var captured database.ListOrdersParams
	store := &mockOrderStore{
		listOrdersFn: func(ctx context.Context, arg database.ListOrdersParams) ([]database.Order, error) {
			captured = arg
			return []database.Order{{ID: uuid.New(), OrderNumber: "ORD-XYZ789"}}, nil
		},
	}
	r, token := newOrderRouter(t, &mockOrderServicer{}, store, nil, restaurantID)

	path := "/restaurants/" + restaurantID.String() + "/orders?status=ACTIVE&source=ZOMATO&limit=500&offset=40&start_date=2026-08-01"
	rec := doJSON(t, r, http.MethodGet, path, token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if !captured.Status.Valid || captured.Status.String != "ACTIVE" {
		t.Error("status filter not passed")
	}
	if !captured.Source.Valid || captured.Source.String != "ZOMATO" {
		t.Error("source filter not passed")
	}
	if captured.Limit != 100 {
		t.Errorf("limit = %d, want capped 100", captured.Limit)
	}
	if captured.Offset != 40 {
		t.Errorf("offset = %d", captured.Offset)
	}
	if !captured.StartDate.Valid {
		t.Error("start_date filter not passed")
	}
}

func TestOrderList_BadDate(t *testing.T) {
	restaurantID := uuid.New()
	r, token := newOrderRouter(t, &mockOrderServicer{}, &mockOrderStore{}, nil, restaurantID)

	rec := doJSON(t, r, http.MethodGet, "/restaurants/"+restaurantID.String()+"/orders?start_date=31-08-2026", token, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestOrderItemRoutes(t *testing.T) {
	restaurantID := uuid.New()
	orderID := uuid.New()
	itemID := uuid.New()

	var updated service.UpdateItemRequest
	svc := &mockOrderServicer{
		updateItemFn: func(ctx context.Context, req service.UpdateItemRequest) (*service.OrderAggregate, error) {
			updated = req
			return sampleAggregate(restaurantID), nil
		},
		removeItemFn: func(ctx context.Context, req service.RemoveItemRequest) (*service.OrderAggregate, error) {
			return sampleAggregate(restaurantID), nil
		},
	}
	hub := &mockBroadcaster{}
	r, token := newOrderRouter(t, svc, &mockOrderStore{}, hub, restaurantID)

	base := "/restaurants/" + restaurantID.String() + "/orders/" + orderID.String() + "/items/" + itemID.String()

	rec := doJSON(t, r, http.MethodPatch, base, token, `{"quantity": 3, "status": "SERVED"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d, body %s", rec.Code, rec.Body.String())
	}
	if updated.ItemID != itemID || updated.Quantity != 3 || updated.Status != enum.OrderItemStatusServed {
		t.Errorf("captured = %+v", updated)
	}

	rec = doJSON(t, r, http.MethodDelete, base, token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("remove status = %d", rec.Code)
	}

	for _, ev := range hub.events {
		if ev != "order.updated" {
			t.Errorf("unexpected event %q", ev)
		}
	}
	if len(hub.events) != 2 {
		t.Errorf("broadcasts = %d, want 2", len(hub.events))
	}
}
