package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dinetab/api/internal/apperr"
	"github.com/dinetab/api/internal/database"
	"github.com/dinetab/api/internal/enum"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"
)

// allowedTransitions defines the order status machine. ACTIVE is the only
// non-terminal state; nothing transitions out of COMPLETED or CANCELLED.
var allowedTransitions = map[string][]string{
	enum.OrderStatusActive: {enum.OrderStatusCompleted, enum.OrderStatusCancelled},
}

// ValidateStatusTransition reports whether current may move to next.
func ValidateStatusTransition(current, next string) error {
	allowed, ok := allowedTransitions[current]
	if !ok {
		return apperr.Validation("cannot modify a %s order", strings.ToLower(current))
	}
	for _, s := range allowed {
		if s == next {
			return nil
		}
	}
	return apperr.Validation("cannot transition from %s to %s", current, next)
}

// UpdateStatusRequest transitions an order to a terminal state.
type UpdateStatusRequest struct {
	RestaurantID uuid.UUID
	OrderID      uuid.UUID
	Status       string
	CancelReason string
}

// UpdateStatus applies a status transition. Cancellation requires a reason;
// completion stamps completed_at and triggers a best-effort customer stats
// update that never rolls back the transition. A table-bound order re-syncs
// its table inside the same transaction.
func (s *OrderService) UpdateStatus(ctx context.Context, req UpdateStatusRequest) (*OrderAggregate, error) {
	switch req.Status {
	case enum.OrderStatusCompleted, enum.OrderStatusCancelled:
	default:
		return nil, apperr.Validation("invalid status %q", req.Status)
	}
	if req.Status == enum.OrderStatusCancelled && strings.TrimSpace(req.CancelReason) == "" {
		return nil, apperr.Validation("cancellation reason is required")
	}

	var result *OrderAggregate
	err := s.withTx(ctx, func(ctx context.Context, store Store) error {
		order, err := store.GetOrderForUpdate(ctx, database.GetOrderForUpdateParams{
			ID:           req.OrderID,
			RestaurantID: req.RestaurantID,
		})
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperr.NotFound("order not found")
			}
			return fmt.Errorf("get order: %w", err)
		}

		if err := ValidateStatusTransition(order.Status, req.Status); err != nil {
			return err
		}

		var updated database.Order
		if req.Status == enum.OrderStatusCompleted {
			updated, err = store.CompleteOrder(ctx, order.ID)
		} else {
			updated, err = store.CancelOrder(ctx, database.CancelOrderParams{
				ID:           order.ID,
				CancelReason: strings.TrimSpace(req.CancelReason),
			})
		}
		if err != nil {
			return fmt.Errorf("update order status: %w", err)
		}

		if updated.TableID.Valid {
			if err := syncTable(ctx, store, uuid.UUID(updated.TableID.Bytes)); err != nil {
				return err
			}
		}

		items, err := store.ListOrderItemsByOrder(ctx, updated.ID)
		if err != nil {
			return fmt.Errorf("list order items: %w", err)
		}
		result = &OrderAggregate{Order: updated, Items: items}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if req.Status == enum.OrderStatusCompleted {
		s.bumpCustomerStats(ctx, result.Order)
	}
	return result, nil
}

// bumpCustomerStats records the completed order against its customer.
// Best-effort: attempted synchronously, logged and swallowed on failure so
// the committed status change stands.
func (s *OrderService) bumpCustomerStats(ctx context.Context, order database.Order) {
	if !order.CustomerID.Valid {
		return
	}
	err := s.store.BumpCustomerStats(ctx, database.BumpCustomerStatsParams{
		ID:     uuid.UUID(order.CustomerID.Bytes),
		Amount: order.TotalAmount,
	})
	if err != nil {
		logrus.Errorf("bump customer stats for order %s: %v", order.ID, err)
	}
}
