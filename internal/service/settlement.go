package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/dinetab/api/internal/apperr"
	"github.com/dinetab/api/internal/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// SettleCreditRequest applies a cash payment against a customer's
// outstanding credit.
type SettleCreditRequest struct {
	TenantID     uuid.UUID
	RestaurantID uuid.UUID
	CustomerID   uuid.UUID
	Amount       string
	SettledBy    uuid.UUID
}

// SettleCredit allocates a payment across the customer's pending credit
// orders oldest-first. Only orders the remaining amount fully covers are
// marked PAID; allocation stops at the first order it cannot cover. Greedy
// FIFO on purpose: oldest debt clears first regardless of amount fit. The
// balance decrement, payment flips, and audit row commit atomically.
func (s *OrderService) SettleCredit(ctx context.Context, req SettleCreditRequest) (database.Customer, error) {
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || !amount.IsPositive() {
		return database.Customer{}, apperr.Validation("settlement amount must be positive")
	}

	var customer database.Customer
	txErr := s.withTx(ctx, func(ctx context.Context, store Store) error {
		c, err := store.GetCustomerForUpdate(ctx, database.GetCustomerForUpdateParams{
			ID:           req.CustomerID,
			RestaurantID: req.RestaurantID,
		})
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperr.NotFound("customer not found")
			}
			return fmt.Errorf("get customer: %w", err)
		}

		balance := numericToDecimal(c.CreditBalance)
		if !balance.IsPositive() {
			return apperr.Validation("customer has no outstanding credit")
		}

		// Cannot over-settle: clamp to what is actually owed.
		remaining := amount
		if remaining.GreaterThan(balance) {
			remaining = balance
		}

		orders, err := store.ListPendingCreditOrdersByCustomer(ctx, c.ID)
		if err != nil {
			return fmt.Errorf("list pending credit orders: %w", err)
		}

		applied := decimal.Zero
		var covered int32
		for _, o := range orders {
			total := numericToDecimal(o.TotalAmount)
			if remaining.LessThan(total) {
				break
			}
			if _, err := store.MarkOrderPaid(ctx, o.ID); err != nil {
				return fmt.Errorf("mark order %s paid: %w", o.ID, err)
			}
			remaining = remaining.Sub(total)
			applied = applied.Add(total)
			covered++
		}

		if covered == 0 {
			// Nothing the amount can fully cover; leave everything untouched.
			customer = c
			return nil
		}

		customer, err = store.AdjustCustomerCredit(ctx, database.AdjustCustomerCreditParams{
			ID:    c.ID,
			Delta: decimalToNumeric(applied.Neg()),
		})
		if err != nil {
			return fmt.Errorf("adjust customer credit: %w", err)
		}

		settledBy := pgtype.UUID{}
		if req.SettledBy != uuid.Nil {
			settledBy = pgUUID(req.SettledBy)
		}
		if _, err := store.CreateCreditSettlement(ctx, database.CreateCreditSettlementParams{
			TenantID:      req.TenantID,
			RestaurantID:  req.RestaurantID,
			CustomerID:    c.ID,
			Amount:        decimalToNumeric(applied),
			OrdersCovered: covered,
			SettledBy:     settledBy,
		}); err != nil {
			return fmt.Errorf("create credit settlement: %w", err)
		}
		return nil
	})
	if txErr != nil {
		return database.Customer{}, txErr
	}
	return customer, nil
}
