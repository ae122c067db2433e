package database

import (
	"context"

	"github.com/google/uuid"
)

const productColumns = `id, restaurant_id, name, price, discount_percent, cost,
	is_active, deleted_at, created_at, updated_at`

func scanProduct(row rowScanner) (Product, error) {
	var p Product
	err := row.Scan(
		&p.ID, &p.RestaurantID, &p.Name, &p.Price, &p.DiscountPercent, &p.Cost,
		&p.IsActive, &p.DeletedAt, &p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

type ListProductsForOrderParams struct {
	RestaurantID uuid.UUID
	IDs          []uuid.UUID
}

// ListProductsForOrder returns the current, active, non-deleted products for
// the requested ids. Pricing compares the result size against the request to
// spot missing or unavailable products.
func (q *Queries) ListProductsForOrder(ctx context.Context, arg ListProductsForOrderParams) ([]Product, error) {
	const sql = `SELECT ` + productColumns + ` FROM products
		WHERE restaurant_id = $1 AND id = ANY($2)
		  AND is_active = true AND deleted_at IS NULL`
	rows, err := q.db.Query(ctx, sql, arg.RestaurantID, arg.IDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}
