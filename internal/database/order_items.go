package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const orderItemColumns = `id, order_id, product_id, name_snapshot, price_snapshot, cost_snapshot,
	quantity, notes, status, created_at, updated_at`

func scanOrderItem(row rowScanner) (OrderItem, error) {
	var it OrderItem
	err := row.Scan(
		&it.ID, &it.OrderID, &it.ProductID, &it.NameSnapshot, &it.PriceSnapshot, &it.CostSnapshot,
		&it.Quantity, &it.Notes, &it.Status, &it.CreatedAt, &it.UpdatedAt,
	)
	return it, err
}

type CreateOrderItemParams struct {
	OrderID       uuid.UUID
	ProductID     pgtype.UUID
	NameSnapshot  string
	PriceSnapshot pgtype.Numeric
	CostSnapshot  pgtype.Numeric
	Quantity      int32
	Notes         pgtype.Text
	Status        string
}

func (q *Queries) CreateOrderItem(ctx context.Context, arg CreateOrderItemParams) (OrderItem, error) {
	const sql = `
		INSERT INTO order_items (
			order_id, product_id, name_snapshot, price_snapshot, cost_snapshot,
			quantity, notes, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + orderItemColumns
	row := q.db.QueryRow(ctx, sql,
		arg.OrderID, arg.ProductID, arg.NameSnapshot, arg.PriceSnapshot, arg.CostSnapshot,
		arg.Quantity, arg.Notes, arg.Status,
	)
	return scanOrderItem(row)
}

func (q *Queries) ListOrderItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]OrderItem, error) {
	const sql = `SELECT ` + orderItemColumns + ` FROM order_items
		WHERE order_id = $1 ORDER BY created_at ASC`
	rows, err := q.db.Query(ctx, sql, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []OrderItem
	for rows.Next() {
		it, err := scanOrderItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

type GetOrderItemParams struct {
	ID      uuid.UUID
	OrderID uuid.UUID
}

func (q *Queries) GetOrderItem(ctx context.Context, arg GetOrderItemParams) (OrderItem, error) {
	const sql = `SELECT ` + orderItemColumns + ` FROM order_items WHERE id = $1 AND order_id = $2`
	return scanOrderItem(q.db.QueryRow(ctx, sql, arg.ID, arg.OrderID))
}

type UpdateOrderItemParams struct {
	ID       uuid.UUID
	OrderID  uuid.UUID
	Quantity int32
	Notes    pgtype.Text
	Status   string
}

func (q *Queries) UpdateOrderItem(ctx context.Context, arg UpdateOrderItemParams) (OrderItem, error) {
	const sql = `UPDATE order_items
		SET quantity = $3, notes = $4, status = $5, updated_at = now()
		WHERE id = $1 AND order_id = $2
		RETURNING ` + orderItemColumns
	return scanOrderItem(q.db.QueryRow(ctx, sql, arg.ID, arg.OrderID, arg.Quantity, arg.Notes, arg.Status))
}

type DeleteOrderItemParams struct {
	ID      uuid.UUID
	OrderID uuid.UUID
}

func (q *Queries) DeleteOrderItem(ctx context.Context, arg DeleteOrderItemParams) error {
	const sql = `DELETE FROM order_items WHERE id = $1 AND order_id = $2`
	tag, err := q.db.Exec(ctx, sql, arg.ID, arg.OrderID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
