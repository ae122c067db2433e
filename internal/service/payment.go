package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dinetab/api/internal/apperr"
	"github.com/dinetab/api/internal/database"
	"github.com/dinetab/api/internal/enum"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// UpdatePaymentRequest changes an order's payment method/status and,
// optionally, applies an order-level discount. Discount and amounts are
// strings at this boundary and parsed into decimals, never floats.
type UpdatePaymentRequest struct {
	RestaurantID uuid.UUID
	OrderID      uuid.UUID
	Method       string
	Status       string
	Discount     string // optional, absolute amount
	Provider     string
	Reference    string
	PaidAt       *time.Time
}

// UpdatePayment reconciles an order's payment state.
//
// When a discount is supplied the subtotal is recomputed from current items
// and the discount must not exceed it. The order auto-completes when the
// resulting payment is PAID, or when the method is CREDIT regardless of the
// paid flag (a credit sale is fulfilled with money outstanding). The customer
// credit-balance delta is attempted synchronously after commit but is
// best-effort: failures log and the payment change stands.
func (s *OrderService) UpdatePayment(ctx context.Context, req UpdatePaymentRequest) (*OrderAggregate, error) {
	if !isValidPaymentMethod(req.Method) {
		return nil, apperr.Validation("invalid payment_method %q", req.Method)
	}
	switch req.Status {
	case enum.PaymentStatusPending, enum.PaymentStatusPaid:
	default:
		return nil, apperr.Validation("invalid payment_status %q", req.Status)
	}

	var discount decimal.Decimal
	hasDiscount := req.Discount != ""
	if hasDiscount {
		var err error
		discount, err = decimal.NewFromString(req.Discount)
		if err != nil || discount.IsNegative() {
			return nil, apperr.Validation("invalid discount_amount")
		}
	}

	var result *OrderAggregate
	var creditDelta decimal.Decimal
	var customerID pgtype.UUID
	var autoCompleted bool

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

		// Cancelled orders take no payments. Completed orders do: collecting
		// an outstanding credit sale happens after completion.
		if order.Status == enum.OrderStatusCancelled {
			return apperr.Validation("cannot modify a cancelled order")
		}

		items, err := store.ListOrderItemsByOrder(ctx, order.ID)
		if err != nil {
			return fmt.Errorf("list order items: %w", err)
		}

		if hasDiscount {
			subtotal := decimal.Zero
			for _, it := range items {
				subtotal = subtotal.Add(numericToDecimal(it.PriceSnapshot).Mul(decimal.NewFromInt32(it.Quantity)))
			}
			if discount.GreaterThan(subtotal) {
				return apperr.Validation("discount exceeds order subtotal")
			}
			order, err = store.UpdateOrderAmounts(ctx, database.UpdateOrderAmountsParams{
				ID:             order.ID,
				DiscountAmount: decimalToNumeric(discount),
				TotalAmount:    decimalToNumeric(subtotal.Sub(discount)),
			})
			if err != nil {
				return fmt.Errorf("update order amounts: %w", err)
			}
		}

		prevMethod, prevStatus := order.PaymentMethod, order.PaymentStatus

		paidAt := order.PaidAt
		if req.Status == enum.PaymentStatusPaid {
			at := time.Now()
			if req.PaidAt != nil {
				at = *req.PaidAt
			}
			paidAt = pgtype.Timestamptz{Time: at, Valid: true}
		}

		updated, err := store.UpdateOrderPayment(ctx, database.UpdateOrderPaymentParams{
			ID:               order.ID,
			PaymentMethod:    req.Method,
			PaymentStatus:    req.Status,
			PaymentProvider:  textOrNull(req.Provider),
			PaymentReference: textOrNull(req.Reference),
			PaidAt:           paidAt,
		})
		if err != nil {
			return fmt.Errorf("update order payment: %w", err)
		}

		if updated.Status == enum.OrderStatusActive &&
			(req.Status == enum.PaymentStatusPaid || req.Method == enum.PaymentMethodCredit) {
			updated, err = store.CompleteOrder(ctx, updated.ID)
			if err != nil {
				return fmt.Errorf("complete order: %w", err)
			}
			autoCompleted = true
		}

		if updated.TableID.Valid {
			if err := syncTable(ctx, store, uuid.UUID(updated.TableID.Bytes)); err != nil {
				return err
			}
		}

		creditDelta = creditBalanceDelta(prevMethod, prevStatus, req.Method, req.Status, numericToDecimal(updated.TotalAmount))
		customerID = updated.CustomerID

		result = &OrderAggregate{Order: updated, Items: items}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.applyCreditDelta(ctx, customerID, creditDelta, req.OrderID)
	if autoCompleted {
		s.bumpCustomerStats(ctx, result.Order)
	}
	return result, nil
}

// creditBalanceDelta maps a (method, status) payment transition to the signed
// change it causes on the customer's credit balance.
//
//	not CREDIT            -> CREDIT + PENDING : +total
//	CREDIT + PENDING      -> any + PAID       : -total
//	CREDIT + PENDING      -> non-CREDIT unpaid: -total
//	otherwise                                  : 0
func creditBalanceDelta(prevMethod, prevStatus, newMethod, newStatus string, total decimal.Decimal) decimal.Decimal {
	wasPendingCredit := prevMethod == enum.PaymentMethodCredit && prevStatus == enum.PaymentStatusPending
	isPendingCredit := newMethod == enum.PaymentMethodCredit && newStatus == enum.PaymentStatusPending

	switch {
	case !wasPendingCredit && isPendingCredit:
		return total
	case wasPendingCredit && newStatus == enum.PaymentStatusPaid:
		return total.Neg()
	case wasPendingCredit && newMethod != enum.PaymentMethodCredit:
		return total.Neg()
	}
	return decimal.Zero
}

// applyCreditDelta is the narrow independently-transacted side effect of
// payment reconciliation: logged on failure, never propagated.
func (s *OrderService) applyCreditDelta(ctx context.Context, customerID pgtype.UUID, delta decimal.Decimal, orderID uuid.UUID) {
	if delta.IsZero() || !customerID.Valid {
		return
	}
	_, err := s.store.AdjustCustomerCredit(ctx, database.AdjustCustomerCreditParams{
		ID:    uuid.UUID(customerID.Bytes),
		Delta: decimalToNumeric(delta),
	})
	if err != nil {
		logrus.Errorf("adjust credit balance by %s for order %s: %v", delta.StringFixed(2), orderID, err)
	}
}
