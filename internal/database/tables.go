package database

import (
	"context"

	"github.com/google/uuid"
)

const tableColumns = `id, restaurant_id, hall_id, table_number, table_status, created_at, updated_at`

func scanTable(row rowScanner) (RestaurantTable, error) {
	var t RestaurantTable
	err := row.Scan(&t.ID, &t.RestaurantID, &t.HallID, &t.TableNumber, &t.TableStatus, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

type GetTableParams struct {
	ID           uuid.UUID
	RestaurantID uuid.UUID
}

func (q *Queries) GetTable(ctx context.Context, arg GetTableParams) (RestaurantTable, error) {
	const sql = `SELECT ` + tableColumns + ` FROM restaurant_tables WHERE id = $1 AND restaurant_id = $2`
	return scanTable(q.db.QueryRow(ctx, sql, arg.ID, arg.RestaurantID))
}

// GetTableForUpdate locks the table row for the occupancy sync read-derive-write.
func (q *Queries) GetTableForUpdate(ctx context.Context, id uuid.UUID) (RestaurantTable, error) {
	const sql = `SELECT ` + tableColumns + ` FROM restaurant_tables WHERE id = $1 FOR NO KEY UPDATE`
	return scanTable(q.db.QueryRow(ctx, sql, id))
}

type GetTableByNumberParams struct {
	RestaurantID uuid.UUID
	TableNumber  string
}

func (q *Queries) GetTableByNumber(ctx context.Context, arg GetTableByNumberParams) (RestaurantTable, error) {
	const sql = `SELECT ` + tableColumns + ` FROM restaurant_tables
		WHERE restaurant_id = $1 AND table_number = $2`
	return scanTable(q.db.QueryRow(ctx, sql, arg.RestaurantID, arg.TableNumber))
}

type UpdateTableStatusParams struct {
	ID          uuid.UUID
	TableStatus string
}

func (q *Queries) UpdateTableStatus(ctx context.Context, arg UpdateTableStatusParams) (RestaurantTable, error) {
	const sql = `UPDATE restaurant_tables
		SET table_status = $2, updated_at = now()
		WHERE id = $1
		RETURNING ` + tableColumns
	return scanTable(q.db.QueryRow(ctx, sql, arg.ID, arg.TableStatus))
}

func (q *Queries) ListTables(ctx context.Context, restaurantID uuid.UUID) ([]RestaurantTable, error) {
	const sql = `SELECT ` + tableColumns + ` FROM restaurant_tables
		WHERE restaurant_id = $1 ORDER BY table_number ASC`
	rows, err := q.db.Query(ctx, sql, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []RestaurantTable
	for rows.Next() {
		t, err := scanTable(rows)
		if err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	return tables, rows.Err()
}
