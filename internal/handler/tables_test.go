package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dinetab/api/internal/auth"
	"github.com/dinetab/api/internal/database"
	"github.com/dinetab/api/internal/enum"
	"github.com/dinetab/api/internal/middleware"
)

type mockTableStore struct {
	getTableFn     func(ctx context.Context, arg database.GetTableParams) (database.RestaurantTable, error)
	listTablesFn   func(ctx context.Context, restaurantID uuid.UUID) ([]database.RestaurantTable, error)
	updateStatusFn func(ctx context.Context, arg database.UpdateTableStatusParams) (database.RestaurantTable, error)
}

func (m *mockTableStore) GetTable(ctx context.Context, arg database.GetTableParams) (database.RestaurantTable, error) {
	return m.getTableFn(ctx, arg)
}
func (m *mockTableStore) ListTables(ctx context.Context, restaurantID uuid.UUID) ([]database.RestaurantTable, error) {
	return m.listTablesFn(ctx, restaurantID)
}
func (m *mockTableStore) UpdateTableStatus(ctx context.Context, arg database.UpdateTableStatusParams) (database.RestaurantTable, error) {
	return m.updateStatusFn(ctx, arg)
}

type mockTableSyncer struct {
	syncFn func(ctx context.Context, tableID uuid.UUID) error
	calls  int
}

func (m *mockTableSyncer) SyncTable(ctx context.Context, tableID uuid.UUID) error {
	m.calls++
	if m.syncFn != nil {
		return m.syncFn(ctx, tableID)
	}
	return nil
}

func newTableRouter(t *testing.T, store TableStore, sync TableSyncer, restaurantID uuid.UUID) (chi.Router, string) {
	t.Helper()
	h := NewTableHandler(store, sync)
	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(testJWTSecret))
		r.Route("/restaurants/{rid}/tables", h.RegisterRoutes)
	})
	token, err := auth.GenerateToken(testJWTSecret, uuid.New(), restaurantID, uuid.New(), enum.UserRoleStaff)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return r, token
}

func TestTableList(t *testing.T) {
	restaurantID := uuid.New()
	store := &mockTableStore{
		listTablesFn: func(ctx context.Context, rid uuid.UUID) ([]database.RestaurantTable, error) {
			return []database.RestaurantTable{
				{ID: uuid.New(), TableNumber: "T1", TableStatus: enum.TableStatusAvailable},
				{ID: uuid.New(), TableNumber: "T2", TableStatus: enum.TableStatusOccupied},
			}, nil
		},
	}
	r, token := newTableRouter(t, store, &mockTableSyncer{}, restaurantID)

	rec := doJSON(t, r, http.MethodGet, "/restaurants/"+restaurantID.String()+"/tables", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp struct {
		Tables []struct {
			TableNumber string `json:"table_number"`
		} `json:"tables"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if len(resp.Tables) != 2 {
		t.Fatalf("tables = %d, want 2", len(resp.Tables))
	}
}

func TestTableUpdateStatus_ReserveThenSync(t *testing.T) {
	restaurantID := uuid.New()
	tableID := uuid.New()
	table := database.RestaurantTable{ID: tableID, RestaurantID: restaurantID, TableNumber: "T3", TableStatus: enum.TableStatusAvailable}

	var written database.UpdateTableStatusParams
	store := &mockTableStore{
		getTableFn: func(ctx context.Context, arg database.GetTableParams) (database.RestaurantTable, error) {
			if arg.ID == tableID {
				current := table
				if written.TableStatus != "" {
					current.TableStatus = written.TableStatus
				}
				return current, nil
			}
			return database.RestaurantTable{}, pgx.ErrNoRows
		},
		updateStatusFn: func(ctx context.Context, arg database.UpdateTableStatusParams) (database.RestaurantTable, error) {
			written = arg
			return database.RestaurantTable{ID: arg.ID, TableStatus: arg.TableStatus}, nil
		},
	}
	sync := &mockTableSyncer{}
	r, token := newTableRouter(t, store, sync, restaurantID)

	path := "/restaurants/" + restaurantID.String() + "/tables/" + tableID.String() + "/status"
	rec := doJSON(t, r, http.MethodPatch, path, token, `{"table_status": "RESERVED"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if written.TableStatus != enum.TableStatusReserved {
		t.Errorf("written status = %q", written.TableStatus)
	}
	if sync.calls != 1 {
		t.Errorf("sync calls = %d, want 1", sync.calls)
	}
}

func TestTableUpdateStatus_OccupiedRejected(t *testing.T) {
	restaurantID := uuid.New()
	r, token := newTableRouter(t, &mockTableStore{}, &mockTableSyncer{}, restaurantID)

	path := "/restaurants/" + restaurantID.String() + "/tables/" + uuid.New().String() + "/status"
	rec := doJSON(t, r, http.MethodPatch, path, token, `{"table_status": "OCCUPIED"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, OCCUPIED is derived and must not be writable", rec.Code)
	}
}

func TestTableUpdateStatus_NotFound(t *testing.T) {
	restaurantID := uuid.New()
	store := &mockTableStore{
		getTableFn: func(ctx context.Context, arg database.GetTableParams) (database.RestaurantTable, error) {
			return database.RestaurantTable{}, pgx.ErrNoRows
		},
	}
	r, token := newTableRouter(t, store, &mockTableSyncer{}, restaurantID)

	path := "/restaurants/" + restaurantID.String() + "/tables/" + uuid.New().String() + "/status"
	rec := doJSON(t, r, http.MethodPatch, path, token, `{"table_status": "AVAILABLE"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
}
