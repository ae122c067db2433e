package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"

	"github.com/dinetab/api/internal/database"
	"github.com/dinetab/api/internal/enum"
)

// TableStore defines the database methods needed by table handlers.
type TableStore interface {
	GetTable(ctx context.Context, arg database.GetTableParams) (database.RestaurantTable, error)
	ListTables(ctx context.Context, restaurantID uuid.UUID) ([]database.RestaurantTable, error)
	UpdateTableStatus(ctx context.Context, arg database.UpdateTableStatusParams) (database.RestaurantTable, error)
}

// TableSyncer re-derives a table's status from its active orders.
type TableSyncer interface {
	SyncTable(ctx context.Context, tableID uuid.UUID) error
}

type TableHandler struct {
	store TableStore
	sync  TableSyncer
}

func NewTableHandler(store TableStore, sync TableSyncer) *TableHandler {
	return &TableHandler{store: store, sync: sync}
}

// RegisterRoutes mounts inside /restaurants/{rid}/tables.
func (h *TableHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Patch("/{id}/status", h.UpdateStatus)
}

type updateTableStatusRequest struct {
	TableStatus string `json:"table_status"`
}

// List handles GET /restaurants/{rid}/tables.
func (h *TableHandler) List(w http.ResponseWriter, r *http.Request) {
	restaurantID, err := uuid.Parse(chi.URLParam(r, "rid"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid restaurant ID")
		return
	}

	tables, err := h.store.ListTables(r.Context(), restaurantID)
	if err != nil {
		logrus.Errorf("list tables: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := make([]tableResponse, len(tables))
	for i, t := range tables {
		resp[i] = toTableResponse(t)
	}
	writeJSON(w, http.StatusOK, map[string]any{"tables": resp})
}

// UpdateStatus handles PATCH /restaurants/{rid}/tables/{id}/status. Staff may
// only toggle between AVAILABLE and RESERVED; OCCUPIED is derived from active
// orders, so a manual write is followed by a sync that wins any conflict.
func (h *TableHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	restaurantID, err := uuid.Parse(chi.URLParam(r, "rid"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid restaurant ID")
		return
	}
	tableID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid table ID")
		return
	}

	var req updateTableStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	switch req.TableStatus {
	case enum.TableStatusAvailable, enum.TableStatusReserved:
	default:
		writeError(w, http.StatusBadRequest, "table_status must be AVAILABLE or RESERVED")
		return
	}

	if _, err := h.store.GetTable(r.Context(), database.GetTableParams{
		ID:           tableID,
		RestaurantID: restaurantID,
	}); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "table not found")
			return
		}
		logrus.Errorf("get table: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if _, err := h.store.UpdateTableStatus(r.Context(), database.UpdateTableStatusParams{
		ID:          tableID,
		TableStatus: req.TableStatus,
	}); err != nil {
		logrus.Errorf("update table status: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if err := h.sync.SyncTable(r.Context(), tableID); err != nil {
		respondServiceError(w, "sync table", err)
		return
	}

	table, err := h.store.GetTable(r.Context(), database.GetTableParams{
		ID:           tableID,
		RestaurantID: restaurantID,
	})
	if err != nil {
		logrus.Errorf("get table after sync: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, toTableResponse(table))
}
