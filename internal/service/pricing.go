package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/dinetab/api/internal/apperr"
	"github.com/dinetab/api/internal/database"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderItemInput is a single requested line: product reference and quantity.
// Prices are never accepted from callers.
type OrderItemInput struct {
	ProductID string
	Quantity  int32
	Notes     string
}

// pricedItem carries the catalog values frozen onto a line at order time.
type pricedItem struct {
	productID uuid.UUID
	name      string
	unitPrice decimal.Decimal
	cost      decimal.Decimal
	quantity  int32
	notes     string
}

// priceItems resolves current product price/discount/cost for every input and
// returns the priced lines plus their subtotal. It re-runs on every creation
// and item addition; nothing here is cached. Missing or unavailable products
// fail with a VALIDATION_ERROR naming the offending ids.
func priceItems(ctx context.Context, store Store, restaurantID uuid.UUID, inputs []OrderItemInput) ([]pricedItem, decimal.Decimal, error) {
	ids := make([]uuid.UUID, 0, len(inputs))
	seen := make(map[uuid.UUID]bool, len(inputs))
	for i, in := range inputs {
		if in.Quantity <= 0 {
			return nil, decimal.Zero, apperr.Validation("items[%d]: quantity must be > 0", i)
		}
		pid, err := uuid.Parse(in.ProductID)
		if err != nil {
			return nil, decimal.Zero, apperr.Validation("items[%d]: invalid product_id", i)
		}
		if !seen[pid] {
			seen[pid] = true
			ids = append(ids, pid)
		}
	}

	products, err := store.ListProductsForOrder(ctx, database.ListProductsForOrderParams{
		RestaurantID: restaurantID,
		IDs:          ids,
	})
	if err != nil {
		return nil, decimal.Zero, fmt.Errorf("list products: %w", err)
	}

	byID := make(map[uuid.UUID]database.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	if len(byID) < len(ids) {
		var missing []string
		for _, id := range ids {
			if _, ok := byID[id]; !ok {
				missing = append(missing, id.String())
			}
		}
		sort.Strings(missing)
		return nil, decimal.Zero, apperr.Validation("products not available: %s", strings.Join(missing, ", "))
	}

	hundred := decimal.NewFromInt(100)
	subtotal := decimal.Zero
	priced := make([]pricedItem, 0, len(inputs))
	for _, in := range inputs {
		pid, _ := uuid.Parse(in.ProductID)
		p := byID[pid]

		// discounted_unit_price = price * (1 - discount_percent/100)
		price := numericToDecimal(p.Price)
		discountPct := numericToDecimal(p.DiscountPercent)
		unitPrice := price.Mul(hundred.Sub(discountPct)).Div(hundred)

		subtotal = subtotal.Add(unitPrice.Mul(decimal.NewFromInt32(in.Quantity)))
		priced = append(priced, pricedItem{
			productID: pid,
			name:      p.Name,
			unitPrice: unitPrice,
			cost:      numericToDecimal(p.Cost),
			quantity:  in.Quantity,
			notes:     in.Notes,
		})
	}

	return priced, subtotal, nil
}
