package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/dinetab/api/internal/apperr"
	"github.com/dinetab/api/internal/database"
	"github.com/dinetab/api/internal/enum"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// syncTable re-derives a table's status from its current set of active
// dine-in orders. Any active order forces OCCUPIED. With none, a manual
// RESERVED hold is left alone; everything else becomes AVAILABLE. Invoked by
// every order mutation that touches a table, never lazily at read time.
func syncTable(ctx context.Context, store Store, tableID uuid.UUID) error {
	table, err := store.GetTableForUpdate(ctx, tableID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperr.NotFound("table not found")
		}
		return fmt.Errorf("get table: %w", err)
	}

	active, err := store.CountActiveDineInOrdersByTable(ctx, tableID)
	if err != nil {
		return fmt.Errorf("count active orders: %w", err)
	}

	var next string
	switch {
	case active > 0:
		next = enum.TableStatusOccupied
	case table.TableStatus == enum.TableStatusReserved:
		return nil
	default:
		next = enum.TableStatusAvailable
	}

	if table.TableStatus == next {
		return nil
	}
	if _, err := store.UpdateTableStatus(ctx, database.UpdateTableStatusParams{
		ID:          tableID,
		TableStatus: next,
	}); err != nil {
		return fmt.Errorf("update table status: %w", err)
	}
	return nil
}

// SyncTable runs one occupancy sync in its own transaction, for callers
// outside an order mutation (e.g. after a manual table-status edit).
func (s *OrderService) SyncTable(ctx context.Context, tableID uuid.UUID) error {
	return s.withTx(ctx, func(ctx context.Context, store Store) error {
		return syncTable(ctx, store, tableID)
	})
}
