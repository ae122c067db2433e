package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const customerColumns = `id, tenant_id, restaurant_id, name, phone, credit_balance,
	total_orders, total_spent, created_at, updated_at`

func scanCustomer(row rowScanner) (Customer, error) {
	var c Customer
	err := row.Scan(
		&c.ID, &c.TenantID, &c.RestaurantID, &c.Name, &c.Phone, &c.CreditBalance,
		&c.TotalOrders, &c.TotalSpent, &c.CreatedAt, &c.UpdatedAt,
	)
	return c, err
}

type GetCustomerParams struct {
	ID           uuid.UUID
	RestaurantID uuid.UUID
}

func (q *Queries) GetCustomer(ctx context.Context, arg GetCustomerParams) (Customer, error) {
	const sql = `SELECT ` + customerColumns + ` FROM customers WHERE id = $1 AND restaurant_id = $2`
	return scanCustomer(q.db.QueryRow(ctx, sql, arg.ID, arg.RestaurantID))
}

type GetCustomerForUpdateParams struct {
	ID           uuid.UUID
	RestaurantID uuid.UUID
}

// GetCustomerForUpdate locks the customer row so settlement and payment
// reconciliation cannot race on credit_balance.
func (q *Queries) GetCustomerForUpdate(ctx context.Context, arg GetCustomerForUpdateParams) (Customer, error) {
	const sql = `SELECT ` + customerColumns + ` FROM customers
		WHERE id = $1 AND restaurant_id = $2 FOR NO KEY UPDATE`
	return scanCustomer(q.db.QueryRow(ctx, sql, arg.ID, arg.RestaurantID))
}

type FindCustomerByPhoneParams struct {
	RestaurantID uuid.UUID
	Phone        string
}

func (q *Queries) FindCustomerByPhone(ctx context.Context, arg FindCustomerByPhoneParams) (Customer, error) {
	const sql = `SELECT ` + customerColumns + ` FROM customers WHERE restaurant_id = $1 AND phone = $2`
	return scanCustomer(q.db.QueryRow(ctx, sql, arg.RestaurantID, arg.Phone))
}

type CreateCustomerParams struct {
	TenantID     uuid.UUID
	RestaurantID uuid.UUID
	Name         string
	Phone        string
}

func (q *Queries) CreateCustomer(ctx context.Context, arg CreateCustomerParams) (Customer, error) {
	const sql = `
		INSERT INTO customers (tenant_id, restaurant_id, name, phone)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + customerColumns
	return scanCustomer(q.db.QueryRow(ctx, sql, arg.TenantID, arg.RestaurantID, arg.Name, arg.Phone))
}

type AdjustCustomerCreditParams struct {
	ID    uuid.UUID
	Delta pgtype.Numeric
}

// AdjustCustomerCredit applies a signed delta to the running credit balance.
func (q *Queries) AdjustCustomerCredit(ctx context.Context, arg AdjustCustomerCreditParams) (Customer, error) {
	const sql = `UPDATE customers
		SET credit_balance = credit_balance + $2, updated_at = now()
		WHERE id = $1
		RETURNING ` + customerColumns
	return scanCustomer(q.db.QueryRow(ctx, sql, arg.ID, arg.Delta))
}

type BumpCustomerStatsParams struct {
	ID     uuid.UUID
	Amount pgtype.Numeric
}

// BumpCustomerStats records one completed order against the customer.
func (q *Queries) BumpCustomerStats(ctx context.Context, arg BumpCustomerStatsParams) error {
	const sql = `UPDATE customers
		SET total_orders = total_orders + 1, total_spent = total_spent + $2, updated_at = now()
		WHERE id = $1`
	_, err := q.db.Exec(ctx, sql, arg.ID, arg.Amount)
	return err
}

type ListCustomersParams struct {
	RestaurantID uuid.UUID
	Limit        int32
	Offset       int32
}

func (q *Queries) ListCustomers(ctx context.Context, arg ListCustomersParams) ([]Customer, error) {
	const sql = `SELECT ` + customerColumns + ` FROM customers
		WHERE restaurant_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := q.db.Query(ctx, sql, arg.RestaurantID, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var customers []Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}
