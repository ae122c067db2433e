package database

import (
	"context"

	"github.com/google/uuid"
)

type RestaurantBelongsToTenantParams struct {
	RestaurantID uuid.UUID
	TenantID     uuid.UUID
}

// RestaurantBelongsToTenant backs the owner cross-restaurant access check.
func (q *Queries) RestaurantBelongsToTenant(ctx context.Context, arg RestaurantBelongsToTenantParams) (bool, error) {
	const sql = `SELECT EXISTS (SELECT 1 FROM restaurants WHERE id = $1 AND tenant_id = $2)`
	var exists bool
	err := q.db.QueryRow(ctx, sql, arg.RestaurantID, arg.TenantID).Scan(&exists)
	return exists, err
}
