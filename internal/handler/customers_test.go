package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/dinetab/api/internal/apperr"
	"github.com/dinetab/api/internal/auth"
	"github.com/dinetab/api/internal/database"
	"github.com/dinetab/api/internal/enum"
	"github.com/dinetab/api/internal/middleware"
	"github.com/dinetab/api/internal/service"
)

type mockCustomerStore struct {
	getCustomerFn func(ctx context.Context, arg database.GetCustomerParams) (database.Customer, error)
	findByPhoneFn func(ctx context.Context, arg database.FindCustomerByPhoneParams) (database.Customer, error)
	listFn        func(ctx context.Context, arg database.ListCustomersParams) ([]database.Customer, error)
	sumPendingFn  func(ctx context.Context, customerID uuid.UUID) (pgtype.Numeric, error)
}

func (m *mockCustomerStore) GetCustomer(ctx context.Context, arg database.GetCustomerParams) (database.Customer, error) {
	return m.getCustomerFn(ctx, arg)
}
func (m *mockCustomerStore) FindCustomerByPhone(ctx context.Context, arg database.FindCustomerByPhoneParams) (database.Customer, error) {
	return m.findByPhoneFn(ctx, arg)
}
func (m *mockCustomerStore) ListCustomers(ctx context.Context, arg database.ListCustomersParams) ([]database.Customer, error) {
	return m.listFn(ctx, arg)
}
func (m *mockCustomerStore) SumPendingCreditByCustomer(ctx context.Context, customerID uuid.UUID) (pgtype.Numeric, error) {
	return m.sumPendingFn(ctx, customerID)
}

type mockSettlementServicer struct {
	settleFn func(ctx context.Context, req service.SettleCreditRequest) (database.Customer, error)
}

func (m *mockSettlementServicer) SettleCredit(ctx context.Context, req service.SettleCreditRequest) (database.Customer, error) {
	return m.settleFn(ctx, req)
}

func newCustomerRouter(t *testing.T, svc SettlementServicer, store CustomerStore, restaurantID uuid.UUID) (chi.Router, string) {
	t.Helper()
	h := NewCustomerHandler(svc, store)
	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(testJWTSecret))
		r.Route("/restaurants/{rid}/customers", h.RegisterRoutes)
	})
	token, err := auth.GenerateToken(testJWTSecret, uuid.New(), restaurantID, uuid.New(), enum.UserRoleManager)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return r, token
}

func numeric(t *testing.T, val string) pgtype.Numeric {
	t.Helper()
	var n pgtype.Numeric
	if err := n.Scan(val); err != nil {
		t.Fatalf("scan numeric: %v", err)
	}
	return n
}

func TestCustomerGet_IncludesPendingCredit(t *testing.T) {
	restaurantID := uuid.New()
	customer := database.Customer{
		ID:            uuid.New(),
		RestaurantID:  restaurantID,
		Name:          "Ravi",
		Phone:         "9876543210",
		CreditBalance: numeric(t, "325.00"),
	}
	store := &mockCustomerStore{
		getCustomerFn: func(ctx context.Context, arg database.GetCustomerParams) (database.Customer, error) {
			if arg.ID == customer.ID {
				return customer, nil
			}
			return database.Customer{}, pgx.ErrNoRows
		},
		sumPendingFn: func(ctx context.Context, customerID uuid.UUID) (pgtype.Numeric, error) {
			return numeric(t, "325.00"), nil
		},
	}
	r, token := newCustomerRouter(t, &mockSettlementServicer{}, store, restaurantID)

	rec := doJSON(t, r, http.MethodGet, "/restaurants/"+restaurantID.String()+"/customers/"+customer.ID.String(), token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Name               string `json:"name"`
		CreditBalance      string `json:"credit_balance"`
		PendingCreditTotal string `json:"pending_credit_total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if resp.Name != "Ravi" {
		t.Errorf("name = %q", resp.Name)
	}
	if resp.PendingCreditTotal != "325.00" {
		t.Errorf("pending_credit_total = %q", resp.PendingCreditTotal)
	}
}

func TestCustomerList_PhoneLookup(t *testing.T) {
	restaurantID := uuid.New()
	store := &mockCustomerStore{
		findByPhoneFn: func(ctx context.Context, arg database.FindCustomerByPhoneParams) (database.Customer, error) {
			if arg.Phone == "9876543210" {
				return database.Customer{ID: uuid.New(), Phone: arg.Phone, Name: "Ravi"}, nil
			}
			return database.Customer{}, pgx.ErrNoRows
		},
	}
	r, token := newCustomerRouter(t, &mockSettlementServicer{}, store, restaurantID)

	rec := doJSON(t, r, http.MethodGet, "/restaurants/"+restaurantID.String()+"/customers?phone=9876543210", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	rec = doJSON(t, r, http.MethodGet, "/restaurants/"+restaurantID.String()+"/customers?phone=0000000000", token, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d for unknown phone", rec.Code)
	}
}

func TestCustomerSettleCredit(t *testing.T) {
	restaurantID := uuid.New()
	customerID := uuid.New()

	var captured service.SettleCreditRequest
	svc := &mockSettlementServicer{
		settleFn: func(ctx context.Context, req service.SettleCreditRequest) (database.Customer, error) {
			captured = req
			return database.Customer{ID: customerID, CreditBalance: numeric(t, "100.00")}, nil
		},
	}
	r, token := newCustomerRouter(t, svc, &mockCustomerStore{}, restaurantID)

	path := "/restaurants/" + restaurantID.String() + "/customers/" + customerID.String() + "/settlements"
	rec := doJSON(t, r, http.MethodPost, path, token, `{"amount": "225.00"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if captured.CustomerID != customerID || captured.Amount != "225.00" {
		t.Errorf("captured = %+v", captured)
	}
	if captured.SettledBy == uuid.Nil {
		t.Error("settling staff not taken from token claims")
	}
}

func TestCustomerSettleCredit_Errors(t *testing.T) {
	restaurantID := uuid.New()
	svc := &mockSettlementServicer{
		settleFn: func(ctx context.Context, req service.SettleCreditRequest) (database.Customer, error) {
			return database.Customer{}, apperr.Validation("customer has no outstanding credit")
		},
	}
	r, token := newCustomerRouter(t, svc, &mockCustomerStore{}, restaurantID)

	path := "/restaurants/" + restaurantID.String() + "/customers/" + uuid.New().String() + "/settlements"

	rec := doJSON(t, r, http.MethodPost, path, token, `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d for missing amount", rec.Code)
	}

	rec = doJSON(t, r, http.MethodPost, path, token, `{"amount": "50"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d for service rejection", rec.Code)
	}
}
