package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const settlementColumns = `id, tenant_id, restaurant_id, customer_id, amount,
	orders_covered, settled_by, created_at`

type CreateCreditSettlementParams struct {
	TenantID      uuid.UUID
	RestaurantID  uuid.UUID
	CustomerID    uuid.UUID
	Amount        pgtype.Numeric
	OrdersCovered int32
	SettledBy     pgtype.UUID
}

func (q *Queries) CreateCreditSettlement(ctx context.Context, arg CreateCreditSettlementParams) (CreditSettlement, error) {
	const sql = `
		INSERT INTO credit_settlements (
			tenant_id, restaurant_id, customer_id, amount, orders_covered, settled_by
		) VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + settlementColumns
	row := q.db.QueryRow(ctx, sql,
		arg.TenantID, arg.RestaurantID, arg.CustomerID, arg.Amount, arg.OrdersCovered, arg.SettledBy,
	)
	var s CreditSettlement
	err := row.Scan(
		&s.ID, &s.TenantID, &s.RestaurantID, &s.CustomerID, &s.Amount,
		&s.OrdersCovered, &s.SettledBy, &s.CreatedAt,
	)
	return s, err
}
