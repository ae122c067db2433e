package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/dinetab/api/internal/apperr"
	"github.com/dinetab/api/internal/database"
	"github.com/dinetab/api/internal/enum"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// maxOrderNumberRetries bounds the optimistic re-roll on order number
// collisions. Tunable; 5 attempts over a 36^6 space is already paranoid.
const maxOrderNumberRetries = 5

const (
	txLockTimeout = "3s"
	txExecTimeout = 12 * time.Second
)

// TxBeginner starts a new database transaction.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Store defines the DB methods the order, payment, occupancy and settlement
// services need. Satisfied by *database.Queries (pool- or tx-bound).
type Store interface {
	ListProductsForOrder(ctx context.Context, arg database.ListProductsForOrderParams) ([]database.Product, error)

	CreateOrder(ctx context.Context, arg database.CreateOrderParams) (database.Order, error)
	GetOrder(ctx context.Context, arg database.GetOrderParams) (database.Order, error)
	GetOrderForUpdate(ctx context.Context, arg database.GetOrderForUpdateParams) (database.Order, error)
	GetOrderByExternalID(ctx context.Context, arg database.GetOrderByExternalIDParams) (database.Order, error)
	UpdateOrderAmounts(ctx context.Context, arg database.UpdateOrderAmountsParams) (database.Order, error)
	CompleteOrder(ctx context.Context, id uuid.UUID) (database.Order, error)
	CancelOrder(ctx context.Context, arg database.CancelOrderParams) (database.Order, error)
	UpdateOrderPayment(ctx context.Context, arg database.UpdateOrderPaymentParams) (database.Order, error)
	MarkOrderPaid(ctx context.Context, id uuid.UUID) (database.Order, error)
	DeleteOrder(ctx context.Context, arg database.DeleteOrderParams) error
	CountActiveDineInOrdersByTable(ctx context.Context, tableID uuid.UUID) (int64, error)
	ListPendingCreditOrdersByCustomer(ctx context.Context, customerID uuid.UUID) ([]database.Order, error)

	CreateOrderItem(ctx context.Context, arg database.CreateOrderItemParams) (database.OrderItem, error)
	ListOrderItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]database.OrderItem, error)
	GetOrderItem(ctx context.Context, arg database.GetOrderItemParams) (database.OrderItem, error)
	UpdateOrderItem(ctx context.Context, arg database.UpdateOrderItemParams) (database.OrderItem, error)
	DeleteOrderItem(ctx context.Context, arg database.DeleteOrderItemParams) error

	GetTable(ctx context.Context, arg database.GetTableParams) (database.RestaurantTable, error)
	GetTableForUpdate(ctx context.Context, id uuid.UUID) (database.RestaurantTable, error)
	GetTableByNumber(ctx context.Context, arg database.GetTableByNumberParams) (database.RestaurantTable, error)
	UpdateTableStatus(ctx context.Context, arg database.UpdateTableStatusParams) (database.RestaurantTable, error)

	GetCustomer(ctx context.Context, arg database.GetCustomerParams) (database.Customer, error)
	GetCustomerForUpdate(ctx context.Context, arg database.GetCustomerForUpdateParams) (database.Customer, error)
	FindCustomerByPhone(ctx context.Context, arg database.FindCustomerByPhoneParams) (database.Customer, error)
	CreateCustomer(ctx context.Context, arg database.CreateCustomerParams) (database.Customer, error)
	AdjustCustomerCredit(ctx context.Context, arg database.AdjustCustomerCreditParams) (database.Customer, error)
	BumpCustomerStats(ctx context.Context, arg database.BumpCustomerStatsParams) error

	CreateCreditSettlement(ctx context.Context, arg database.CreateCreditSettlementParams) (database.CreditSettlement, error)
}

// NewStore creates a Store from a DBTX (pool or tx).
type NewStore func(db database.DBTX) Store

// OrderService owns the order and payment lifecycle. All mutation happens in
// short-lived transactions with a bounded lock wait and execution ceiling.
type OrderService struct {
	pool     TxBeginner
	store    Store // pool-bound, for post-commit best-effort work
	newStore NewStore
}

func NewOrderService(pool TxBeginner, store Store, newStore NewStore) *OrderService {
	return &OrderService{pool: pool, store: store, newStore: newStore}
}

// withTx runs fn inside a transaction with the standard timeouts. A stalled
// transaction fails fast instead of holding locks.
func (s *OrderService) withTx(ctx context.Context, fn func(ctx context.Context, store Store) error) error {
	ctx, cancel := context.WithTimeout(ctx, txExecTimeout)
	defer cancel()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, "SET LOCAL lock_timeout = '"+txLockTimeout+"'"); err != nil {
		return fmt.Errorf("set lock timeout: %w", err)
	}

	if err := fn(ctx, s.newStore(tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// CreateOrderRequest is the validated input for creating an order. Table may
// be referenced by id or by number (the QR path only knows the number).
type CreateOrderRequest struct {
	TenantID         uuid.UUID
	RestaurantID     uuid.UUID
	StaffID          uuid.UUID // zero for unattended (QR / platform) orders
	OrderType        string
	Source           string
	TableID          string
	TableNumber      string
	CustomerID       string
	CustomerPhone    string
	CustomerName     string
	Notes            string
	PaymentMethod    string // defaults to CASH
	ExternalOrderID  string
	ExternalMetadata []byte
	Items            []OrderItemInput
}

// OrderAggregate is an order with its current item set.
type OrderAggregate struct {
	Order database.Order
	Items []database.OrderItem
}

// CreateOrder validates, snapshots prices, and creates the order atomically.
// Dine-in orders bound to a table flip it to OCCUPIED in the same transaction.
// Retries the whole transaction on order_number collisions.
func (s *OrderService) CreateOrder(ctx context.Context, req CreateOrderRequest) (*OrderAggregate, error) {
	if err := validateOrderType(req.OrderType); err != nil {
		return nil, err
	}
	if err := validateSource(req.Source); err != nil {
		return nil, err
	}
	if len(req.Items) == 0 {
		return nil, apperr.Validation("items are required")
	}
	if req.PaymentMethod == "" {
		req.PaymentMethod = enum.PaymentMethodCash
	}
	if !isValidPaymentMethod(req.PaymentMethod) {
		return nil, apperr.Validation("invalid payment_method %q", req.PaymentMethod)
	}

	var lastErr error
	for attempt := 0; attempt < maxOrderNumberRetries; attempt++ {
		result, err := s.createOrderTx(ctx, req)
		if err == nil {
			return result, nil
		}
		if isOrderNumberConflict(err) {
			lastErr = err
			continue
		}
		return nil, err
	}
	logrus.Errorf("order number generation exhausted %d attempts: %v", maxOrderNumberRetries, lastErr)
	return nil, apperr.Internal("could not allocate an order number")
}

func (s *OrderService) createOrderTx(ctx context.Context, req CreateOrderRequest) (*OrderAggregate, error) {
	var result *OrderAggregate
	err := s.withTx(ctx, func(ctx context.Context, store Store) error {
		// Resolve the table reference first so validation fails before any write.
		tableID, hallID, err := resolveTable(ctx, store, req)
		if err != nil {
			return err
		}
		if req.OrderType == enum.OrderTypeDineIn && req.TableID == "" && req.TableNumber == "" {
			return apperr.Validation("dine-in orders require a table")
		}

		customerID, err := resolveCustomer(ctx, store, req)
		if err != nil {
			return err
		}

		priced, total, err := priceItems(ctx, store, req.RestaurantID, req.Items)
		if err != nil {
			return err
		}

		staffID := pgtype.UUID{}
		if req.StaffID != uuid.Nil {
			staffID = pgUUID(req.StaffID)
		}

		externalOrderID := pgtype.Text{}
		if req.ExternalOrderID != "" {
			externalOrderID = pgtype.Text{String: req.ExternalOrderID, Valid: true}
		}

		order, err := store.CreateOrder(ctx, database.CreateOrderParams{
			TenantID:         req.TenantID,
			RestaurantID:     req.RestaurantID,
			OrderNumber:      generateOrderNumber(),
			TableID:          tableID,
			HallID:           hallID,
			StaffID:          staffID,
			CustomerID:       customerID,
			OrderType:        req.OrderType,
			Notes:            textOrNull(req.Notes),
			DiscountAmount:   decimalToNumeric(decimal.Zero),
			TotalAmount:      decimalToNumeric(total),
			PaymentMethod:    req.PaymentMethod,
			PaymentStatus:    enum.PaymentStatusPending,
			Source:           req.Source,
			ExternalOrderID:  externalOrderID,
			ExternalMetadata: req.ExternalMetadata,
		})
		if err != nil {
			return fmt.Errorf("create order: %w", err)
		}

		items := make([]database.OrderItem, 0, len(priced))
		for _, pi := range priced {
			item, err := store.CreateOrderItem(ctx, database.CreateOrderItemParams{
				OrderID:       order.ID,
				ProductID:     pgUUID(pi.productID),
				NameSnapshot:  pi.name,
				PriceSnapshot: decimalToNumeric(pi.unitPrice),
				CostSnapshot:  decimalToNumeric(pi.cost),
				Quantity:      pi.quantity,
				Notes:         textOrNull(pi.notes),
				Status:        enum.OrderItemStatusPending,
			})
			if err != nil {
				return fmt.Errorf("create order item: %w", err)
			}
			items = append(items, item)
		}

		if req.OrderType == enum.OrderTypeDineIn && tableID.Valid {
			if err := syncTable(ctx, store, uuid.UUID(tableID.Bytes)); err != nil {
				return err
			}
		}

		result = &OrderAggregate{Order: order, Items: items}
		return nil
	})
	return result, err
}

// AddItemsRequest appends items to an existing order.
type AddItemsRequest struct {
	RestaurantID uuid.UUID
	OrderID      uuid.UUID
	Items        []OrderItemInput
}

// AddItems appends freshly priced items to a non-terminal order. Appended
// items carry the REORDERED status so the kitchen can tell them apart from
// the original round. The order total is recomputed from the full item set.
func (s *OrderService) AddItems(ctx context.Context, req AddItemsRequest) (*OrderAggregate, error) {
	if len(req.Items) == 0 {
		return nil, apperr.Validation("items are required")
	}

	var result *OrderAggregate
	err := s.withTx(ctx, func(ctx context.Context, store Store) error {
		order, err := lockActiveOrder(ctx, store, req.OrderID, req.RestaurantID)
		if err != nil {
			return err
		}

		priced, _, err := priceItems(ctx, store, req.RestaurantID, req.Items)
		if err != nil {
			return err
		}

		for _, pi := range priced {
			if _, err := store.CreateOrderItem(ctx, database.CreateOrderItemParams{
				OrderID:       order.ID,
				ProductID:     pgUUID(pi.productID),
				NameSnapshot:  pi.name,
				PriceSnapshot: decimalToNumeric(pi.unitPrice),
				CostSnapshot:  decimalToNumeric(pi.cost),
				Quantity:      pi.quantity,
				Notes:         textOrNull(pi.notes),
				Status:        enum.OrderItemStatusReordered,
			}); err != nil {
				return fmt.Errorf("create order item: %w", err)
			}
		}

		updated, items, err := recomputeOrderTotal(ctx, store, order)
		if err != nil {
			return err
		}
		result = &OrderAggregate{Order: updated, Items: items}
		return nil
	})
	return result, err
}

// UpdateItemRequest mutates one line of an order. Status is optional; an
// empty string keeps the current one.
type UpdateItemRequest struct {
	RestaurantID uuid.UUID
	OrderID      uuid.UUID
	ItemID       uuid.UUID
	Quantity     int32
	Notes        string
	Status       string
}

// UpdateItem changes quantity/notes/status of an item on a non-terminal
// order. A SERVED item can never be moved back to a non-served status.
func (s *OrderService) UpdateItem(ctx context.Context, req UpdateItemRequest) (*OrderAggregate, error) {
	if req.Quantity <= 0 {
		return nil, apperr.Validation("quantity must be > 0")
	}
	if req.Status != "" && !isValidItemStatus(req.Status) {
		return nil, apperr.Validation("invalid item status %q", req.Status)
	}

	var result *OrderAggregate
	err := s.withTx(ctx, func(ctx context.Context, store Store) error {
		order, err := lockActiveOrder(ctx, store, req.OrderID, req.RestaurantID)
		if err != nil {
			return err
		}

		item, err := store.GetOrderItem(ctx, database.GetOrderItemParams{ID: req.ItemID, OrderID: order.ID})
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperr.NotFound("order item not found")
			}
			return fmt.Errorf("get order item: %w", err)
		}

		newStatus := item.Status
		if req.Status != "" {
			if item.Status == enum.OrderItemStatusServed && req.Status != enum.OrderItemStatusServed {
				return apperr.Validation("a served item cannot be reverted")
			}
			newStatus = req.Status
		}

		if _, err := store.UpdateOrderItem(ctx, database.UpdateOrderItemParams{
			ID:       item.ID,
			OrderID:  order.ID,
			Quantity: req.Quantity,
			Notes:    textOrNull(req.Notes),
			Status:   newStatus,
		}); err != nil {
			return fmt.Errorf("update order item: %w", err)
		}

		updated, items, err := recomputeOrderTotal(ctx, store, order)
		if err != nil {
			return err
		}
		result = &OrderAggregate{Order: updated, Items: items}
		return nil
	})
	return result, err
}

// RemoveItemRequest deletes one line from an order.
type RemoveItemRequest struct {
	RestaurantID uuid.UUID
	OrderID      uuid.UUID
	ItemID       uuid.UUID
}

func (s *OrderService) RemoveItem(ctx context.Context, req RemoveItemRequest) (*OrderAggregate, error) {
	var result *OrderAggregate
	err := s.withTx(ctx, func(ctx context.Context, store Store) error {
		order, err := lockActiveOrder(ctx, store, req.OrderID, req.RestaurantID)
		if err != nil {
			return err
		}

		if err := store.DeleteOrderItem(ctx, database.DeleteOrderItemParams{ID: req.ItemID, OrderID: order.ID}); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperr.NotFound("order item not found")
			}
			return fmt.Errorf("delete order item: %w", err)
		}

		updated, items, err := recomputeOrderTotal(ctx, store, order)
		if err != nil {
			return err
		}
		result = &OrderAggregate{Order: updated, Items: items}
		return nil
	})
	return result, err
}

// DeleteOrderRequest removes an order entirely.
type DeleteOrderRequest struct {
	RestaurantID uuid.UUID
	OrderID      uuid.UUID
}

// DeleteOrder hard-deletes an order. If the order had created uncollected
// credit (completed, CREDIT, still pending) the customer's balance is
// reversed in the same transaction, and a bound table is re-synced.
func (s *OrderService) DeleteOrder(ctx context.Context, req DeleteOrderRequest) error {
	return s.withTx(ctx, func(ctx context.Context, store Store) error {
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

		if isUncollectedCredit(order) && order.CustomerID.Valid {
			total := numericToDecimal(order.TotalAmount)
			if _, err := store.AdjustCustomerCredit(ctx, database.AdjustCustomerCreditParams{
				ID:    uuid.UUID(order.CustomerID.Bytes),
				Delta: decimalToNumeric(total.Neg()),
			}); err != nil {
				return fmt.Errorf("reverse customer credit: %w", err)
			}
		}

		if err := store.DeleteOrder(ctx, database.DeleteOrderParams{ID: order.ID, RestaurantID: req.RestaurantID}); err != nil {
			return fmt.Errorf("delete order: %w", err)
		}

		if order.TableID.Valid {
			return syncTable(ctx, store, uuid.UUID(order.TableID.Bytes))
		}
		return nil
	})
}

// GetOrder loads the order aggregate for the read endpoints.
func (s *OrderService) GetOrder(ctx context.Context, restaurantID, orderID uuid.UUID) (*OrderAggregate, error) {
	order, err := s.store.GetOrder(ctx, database.GetOrderParams{ID: orderID, RestaurantID: restaurantID})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("order not found")
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	items, err := s.store.ListOrderItemsByOrder(ctx, order.ID)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	return &OrderAggregate{Order: order, Items: items}, nil
}

// --- Internals ---

// lockActiveOrder locks the order row and rejects terminal orders, the guard
// every item mutation shares.
func lockActiveOrder(ctx context.Context, store Store, orderID, restaurantID uuid.UUID) (database.Order, error) {
	order, err := store.GetOrderForUpdate(ctx, database.GetOrderForUpdateParams{
		ID:           orderID,
		RestaurantID: restaurantID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return database.Order{}, apperr.NotFound("order not found")
		}
		return database.Order{}, fmt.Errorf("get order: %w", err)
	}
	if order.Status != enum.OrderStatusActive {
		return database.Order{}, apperr.Validation("cannot modify a %s order", lowerStatus(order.Status))
	}
	return order, nil
}

// recomputeOrderTotal re-derives total_amount from the full current item set,
// never incrementally, so concurrent edits cannot drift the total.
func recomputeOrderTotal(ctx context.Context, store Store, order database.Order) (database.Order, []database.OrderItem, error) {
	items, err := store.ListOrderItemsByOrder(ctx, order.ID)
	if err != nil {
		return database.Order{}, nil, fmt.Errorf("list order items: %w", err)
	}

	subtotal := decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(numericToDecimal(it.PriceSnapshot).Mul(decimal.NewFromInt32(it.Quantity)))
	}

	discount := numericToDecimal(order.DiscountAmount)
	total := subtotal.Sub(discount)
	if total.IsNegative() {
		total = decimal.Zero
	}

	updated, err := store.UpdateOrderAmounts(ctx, database.UpdateOrderAmountsParams{
		ID:             order.ID,
		DiscountAmount: decimalToNumeric(discount),
		TotalAmount:    decimalToNumeric(total),
	})
	if err != nil {
		return database.Order{}, nil, fmt.Errorf("update order amounts: %w", err)
	}
	return updated, items, nil
}

func resolveTable(ctx context.Context, store Store, req CreateOrderRequest) (pgtype.UUID, pgtype.UUID, error) {
	var table database.RestaurantTable
	var err error
	switch {
	case req.TableID != "":
		tid, parseErr := uuid.Parse(req.TableID)
		if parseErr != nil {
			return pgtype.UUID{}, pgtype.UUID{}, apperr.Validation("invalid table_id")
		}
		table, err = store.GetTable(ctx, database.GetTableParams{ID: tid, RestaurantID: req.RestaurantID})
	case req.TableNumber != "":
		table, err = store.GetTableByNumber(ctx, database.GetTableByNumberParams{
			RestaurantID: req.RestaurantID,
			TableNumber:  req.TableNumber,
		})
	default:
		return pgtype.UUID{}, pgtype.UUID{}, nil
	}
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return pgtype.UUID{}, pgtype.UUID{}, apperr.NotFound("table not found")
		}
		return pgtype.UUID{}, pgtype.UUID{}, fmt.Errorf("get table: %w", err)
	}
	return pgUUID(table.ID), table.HallID, nil
}

// resolveCustomer binds the order to a customer by id or by phone. An unknown
// phone creates the customer row on first sight (QR and platform paths).
func resolveCustomer(ctx context.Context, store Store, req CreateOrderRequest) (pgtype.UUID, error) {
	if req.CustomerID != "" {
		cid, err := uuid.Parse(req.CustomerID)
		if err != nil {
			return pgtype.UUID{}, apperr.Validation("invalid customer_id")
		}
		customer, err := store.GetCustomer(ctx, database.GetCustomerParams{ID: cid, RestaurantID: req.RestaurantID})
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return pgtype.UUID{}, apperr.NotFound("customer not found")
			}
			return pgtype.UUID{}, fmt.Errorf("get customer: %w", err)
		}
		return pgUUID(customer.ID), nil
	}

	if req.CustomerPhone == "" {
		return pgtype.UUID{}, nil
	}

	customer, err := store.FindCustomerByPhone(ctx, database.FindCustomerByPhoneParams{
		RestaurantID: req.RestaurantID,
		Phone:        req.CustomerPhone,
	})
	if err == nil {
		return pgUUID(customer.ID), nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return pgtype.UUID{}, fmt.Errorf("find customer: %w", err)
	}

	name := req.CustomerName
	if name == "" {
		name = "Guest"
	}
	created, err := store.CreateCustomer(ctx, database.CreateCustomerParams{
		TenantID:     req.TenantID,
		RestaurantID: req.RestaurantID,
		Name:         name,
		Phone:        req.CustomerPhone,
	})
	if err != nil {
		return pgtype.UUID{}, fmt.Errorf("create customer: %w", err)
	}
	return pgUUID(created.ID), nil
}

func isUncollectedCredit(order database.Order) bool {
	return order.Status == enum.OrderStatusCompleted &&
		order.PaymentMethod == enum.PaymentMethodCredit &&
		order.PaymentStatus == enum.PaymentStatusPending
}

const orderNumberAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// generateOrderNumber produces a short human-friendly code. Uniqueness is
// enforced by the DB index; collisions re-roll via the create retry loop.
func generateOrderNumber() string {
	b := make([]byte, 6)
	for i := range b {
		b[i] = orderNumberAlphabet[rand.IntN(len(orderNumberAlphabet))]
	}
	return "ORD-" + string(b)
}

// isOrderNumberConflict checks for a unique constraint violation on the
// order number (pgconn error code 23505).
func isOrderNumberConflict(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && pgErr.ConstraintName == "orders_restaurant_id_order_number_key"
	}
	return false
}

// --- Validation helpers ---

func validateOrderType(s string) error {
	switch s {
	case enum.OrderTypeDineIn, enum.OrderTypeTakeaway, enum.OrderTypeDelivery:
		return nil
	}
	return apperr.Validation("invalid order_type %q", s)
}

func validateSource(s string) error {
	switch s {
	case enum.OrderSourceManual, enum.OrderSourceQR, enum.OrderSourceWeb,
		enum.OrderSourceZomato, enum.OrderSourceSwiggy:
		return nil
	}
	return apperr.Validation("invalid source %q", s)
}

func isValidPaymentMethod(s string) bool {
	switch s {
	case enum.PaymentMethodCash, enum.PaymentMethodCard,
		enum.PaymentMethodUPI, enum.PaymentMethodCredit:
		return true
	}
	return false
}

func isValidItemStatus(s string) bool {
	switch s {
	case enum.OrderItemStatusPending, enum.OrderItemStatusReordered, enum.OrderItemStatusServed:
		return true
	}
	return false
}

func lowerStatus(s string) string {
	switch s {
	case enum.OrderStatusCompleted:
		return "completed"
	case enum.OrderStatusCancelled:
		return "cancelled"
	}
	return s
}

// --- Conversion helpers ---

func pgUUID(id uuid.UUID) pgtype.UUID {
	return pgtype.UUID{Bytes: id, Valid: true}
}

func textOrNull(s string) pgtype.Text {
	if s == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: s, Valid: true}
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}
	val, err := n.Value()
	if err != nil || val == nil {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(val.(string))
	if err != nil {
		return decimal.Zero
	}
	return d
}

func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric
	_ = n.Scan(d.StringFixed(2))
	return n
}
