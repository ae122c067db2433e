package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const orderColumns = `id, tenant_id, restaurant_id, order_number, table_id, hall_id, staff_id,
	customer_id, order_type, status, notes, discount_amount, total_amount,
	payment_method, payment_status, payment_provider, payment_reference, paid_at,
	source, external_order_id, external_metadata, cancel_reason,
	placed_at, completed_at, cancelled_at, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (Order, error) {
	var o Order
	err := row.Scan(
		&o.ID, &o.TenantID, &o.RestaurantID, &o.OrderNumber, &o.TableID, &o.HallID, &o.StaffID,
		&o.CustomerID, &o.OrderType, &o.Status, &o.Notes, &o.DiscountAmount, &o.TotalAmount,
		&o.PaymentMethod, &o.PaymentStatus, &o.PaymentProvider, &o.PaymentReference, &o.PaidAt,
		&o.Source, &o.ExternalOrderID, &o.ExternalMetadata, &o.CancelReason,
		&o.PlacedAt, &o.CompletedAt, &o.CancelledAt, &o.CreatedAt, &o.UpdatedAt,
	)
	return o, err
}

type CreateOrderParams struct {
	TenantID         uuid.UUID
	RestaurantID     uuid.UUID
	OrderNumber      string
	TableID          pgtype.UUID
	HallID           pgtype.UUID
	StaffID          pgtype.UUID
	CustomerID       pgtype.UUID
	OrderType        string
	Notes            pgtype.Text
	DiscountAmount   pgtype.Numeric
	TotalAmount      pgtype.Numeric
	PaymentMethod    string
	PaymentStatus    string
	Source           string
	ExternalOrderID  pgtype.Text
	ExternalMetadata []byte
}

func (q *Queries) CreateOrder(ctx context.Context, arg CreateOrderParams) (Order, error) {
	const sql = `
		INSERT INTO orders (
			tenant_id, restaurant_id, order_number, table_id, hall_id, staff_id,
			customer_id, order_type, notes, discount_amount, total_amount,
			payment_method, payment_status, source, external_order_id, external_metadata
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING ` + orderColumns
	row := q.db.QueryRow(ctx, sql,
		arg.TenantID, arg.RestaurantID, arg.OrderNumber, arg.TableID, arg.HallID, arg.StaffID,
		arg.CustomerID, arg.OrderType, arg.Notes, arg.DiscountAmount, arg.TotalAmount,
		arg.PaymentMethod, arg.PaymentStatus, arg.Source, arg.ExternalOrderID, arg.ExternalMetadata,
	)
	return scanOrder(row)
}

type GetOrderParams struct {
	ID           uuid.UUID
	RestaurantID uuid.UUID
}

func (q *Queries) GetOrder(ctx context.Context, arg GetOrderParams) (Order, error) {
	const sql = `SELECT ` + orderColumns + ` FROM orders WHERE id = $1 AND restaurant_id = $2`
	return scanOrder(q.db.QueryRow(ctx, sql, arg.ID, arg.RestaurantID))
}

type GetOrderForUpdateParams struct {
	ID           uuid.UUID
	RestaurantID uuid.UUID
}

// GetOrderForUpdate locks the order row so concurrent item, payment and
// status mutations on the same order are serialized.
func (q *Queries) GetOrderForUpdate(ctx context.Context, arg GetOrderForUpdateParams) (Order, error) {
	const sql = `SELECT ` + orderColumns + ` FROM orders
		WHERE id = $1 AND restaurant_id = $2 FOR NO KEY UPDATE`
	return scanOrder(q.db.QueryRow(ctx, sql, arg.ID, arg.RestaurantID))
}

type GetOrderByExternalIDParams struct {
	RestaurantID    uuid.UUID
	Source          string
	ExternalOrderID string
}

func (q *Queries) GetOrderByExternalID(ctx context.Context, arg GetOrderByExternalIDParams) (Order, error) {
	const sql = `SELECT ` + orderColumns + ` FROM orders
		WHERE restaurant_id = $1 AND source = $2 AND external_order_id = $3`
	return scanOrder(q.db.QueryRow(ctx, sql, arg.RestaurantID, arg.Source, arg.ExternalOrderID))
}

type ListOrdersParams struct {
	RestaurantID uuid.UUID
	Status       pgtype.Text
	Source       pgtype.Text
	StartDate    pgtype.Timestamptz
	EndDate      pgtype.Timestamptz
	Limit        int32
	Offset       int32
}

func (q *Queries) ListOrders(ctx context.Context, arg ListOrdersParams) ([]Order, error) {
	const sql = `SELECT ` + orderColumns + ` FROM orders
		WHERE restaurant_id = $1
		  AND ($2::text IS NULL OR status = $2)
		  AND ($3::text IS NULL OR source = $3)
		  AND ($4::timestamptz IS NULL OR placed_at >= $4)
		  AND ($5::timestamptz IS NULL OR placed_at < $5)
		ORDER BY placed_at DESC
		LIMIT $6 OFFSET $7`
	rows, err := q.db.Query(ctx, sql,
		arg.RestaurantID, arg.Status, arg.Source, arg.StartDate, arg.EndDate, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

type UpdateOrderAmountsParams struct {
	ID             uuid.UUID
	DiscountAmount pgtype.Numeric
	TotalAmount    pgtype.Numeric
}

func (q *Queries) UpdateOrderAmounts(ctx context.Context, arg UpdateOrderAmountsParams) (Order, error) {
	const sql = `UPDATE orders
		SET discount_amount = $2, total_amount = $3, updated_at = now()
		WHERE id = $1
		RETURNING ` + orderColumns
	return scanOrder(q.db.QueryRow(ctx, sql, arg.ID, arg.DiscountAmount, arg.TotalAmount))
}

// CompleteOrder transitions an ACTIVE order to COMPLETED. Returns
// pgx.ErrNoRows when the order is already terminal.
func (q *Queries) CompleteOrder(ctx context.Context, id uuid.UUID) (Order, error) {
	const sql = `UPDATE orders
		SET status = 'COMPLETED', completed_at = now(), updated_at = now()
		WHERE id = $1 AND status = 'ACTIVE'
		RETURNING ` + orderColumns
	return scanOrder(q.db.QueryRow(ctx, sql, id))
}

type CancelOrderParams struct {
	ID           uuid.UUID
	CancelReason string
}

func (q *Queries) CancelOrder(ctx context.Context, arg CancelOrderParams) (Order, error) {
	const sql = `UPDATE orders
		SET status = 'CANCELLED', cancel_reason = $2, cancelled_at = now(), updated_at = now()
		WHERE id = $1 AND status = 'ACTIVE'
		RETURNING ` + orderColumns
	return scanOrder(q.db.QueryRow(ctx, sql, arg.ID, arg.CancelReason))
}

type UpdateOrderPaymentParams struct {
	ID               uuid.UUID
	PaymentMethod    string
	PaymentStatus    string
	PaymentProvider  pgtype.Text
	PaymentReference pgtype.Text
	PaidAt           pgtype.Timestamptz
}

func (q *Queries) UpdateOrderPayment(ctx context.Context, arg UpdateOrderPaymentParams) (Order, error) {
	const sql = `UPDATE orders
		SET payment_method = $2, payment_status = $3, payment_provider = $4,
		    payment_reference = $5, paid_at = $6, updated_at = now()
		WHERE id = $1
		RETURNING ` + orderColumns
	return scanOrder(q.db.QueryRow(ctx, sql,
		arg.ID, arg.PaymentMethod, arg.PaymentStatus, arg.PaymentProvider, arg.PaymentReference, arg.PaidAt))
}

// MarkOrderPaid flips a pending order to PAID. Used by credit settlement.
func (q *Queries) MarkOrderPaid(ctx context.Context, id uuid.UUID) (Order, error) {
	const sql = `UPDATE orders
		SET payment_status = 'PAID', paid_at = now(), updated_at = now()
		WHERE id = $1 AND payment_status = 'PENDING'
		RETURNING ` + orderColumns
	return scanOrder(q.db.QueryRow(ctx, sql, id))
}

type DeleteOrderParams struct {
	ID           uuid.UUID
	RestaurantID uuid.UUID
}

func (q *Queries) DeleteOrder(ctx context.Context, arg DeleteOrderParams) error {
	const sql = `DELETE FROM orders WHERE id = $1 AND restaurant_id = $2`
	tag, err := q.db.Exec(ctx, sql, arg.ID, arg.RestaurantID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// CountActiveDineInOrdersByTable backs table occupancy sync.
func (q *Queries) CountActiveDineInOrdersByTable(ctx context.Context, tableID uuid.UUID) (int64, error) {
	const sql = `SELECT count(*) FROM orders
		WHERE table_id = $1 AND order_type = 'DINE_IN' AND status = 'ACTIVE'`
	var n int64
	err := q.db.QueryRow(ctx, sql, tableID).Scan(&n)
	return n, err
}

// ListPendingCreditOrdersByCustomer returns the customer's outstanding credit
// orders oldest-first, the allocation order used by settlement.
func (q *Queries) ListPendingCreditOrdersByCustomer(ctx context.Context, customerID uuid.UUID) ([]Order, error) {
	const sql = `SELECT ` + orderColumns + ` FROM orders
		WHERE customer_id = $1 AND status = 'COMPLETED'
		  AND payment_method = 'CREDIT' AND payment_status = 'PENDING'
		ORDER BY completed_at ASC`
	rows, err := q.db.Query(ctx, sql, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// SumPendingCreditByCustomer derives the balance a customer should carry from
// source rows. Kept for a future reconciliation sweep.
func (q *Queries) SumPendingCreditByCustomer(ctx context.Context, customerID uuid.UUID) (pgtype.Numeric, error) {
	const sql = `SELECT COALESCE(sum(total_amount), 0) FROM orders
		WHERE customer_id = $1 AND status = 'COMPLETED'
		  AND payment_method = 'CREDIT' AND payment_status = 'PENDING'`
	var n pgtype.Numeric
	err := q.db.QueryRow(ctx, sql, customerID).Scan(&n)
	return n, err
}
