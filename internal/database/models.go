package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// Order is one customer transaction. TotalAmount is always derived from the
// current item set minus DiscountAmount; it is never written from caller input.
type Order struct {
	ID               uuid.UUID
	TenantID         uuid.UUID
	RestaurantID     uuid.UUID
	OrderNumber      string
	TableID          pgtype.UUID
	HallID           pgtype.UUID
	StaffID          pgtype.UUID
	CustomerID       pgtype.UUID
	OrderType        string
	Status           string
	Notes            pgtype.Text
	DiscountAmount   pgtype.Numeric
	TotalAmount      pgtype.Numeric
	PaymentMethod    string
	PaymentStatus    string
	PaymentProvider  pgtype.Text
	PaymentReference pgtype.Text
	PaidAt           pgtype.Timestamptz
	Source           string
	ExternalOrderID  pgtype.Text
	ExternalMetadata []byte
	CancelReason     pgtype.Text
	PlacedAt         time.Time
	CompletedAt      pgtype.Timestamptz
	CancelledAt      pgtype.Timestamptz
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// OrderItem is one line of an order with catalog values frozen at order time.
type OrderItem struct {
	ID            uuid.UUID
	OrderID       uuid.UUID
	ProductID     pgtype.UUID
	NameSnapshot  string
	PriceSnapshot pgtype.Numeric
	CostSnapshot  pgtype.Numeric
	Quantity      int32
	Notes         pgtype.Text
	Status        string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Customer is a per-restaurant identity keyed by phone number.
type Customer struct {
	ID            uuid.UUID
	TenantID      uuid.UUID
	RestaurantID  uuid.UUID
	Name          string
	Phone         string
	CreditBalance pgtype.Numeric
	TotalOrders   int32
	TotalSpent    pgtype.Numeric
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type RestaurantTable struct {
	ID           uuid.UUID
	RestaurantID uuid.UUID
	HallID       pgtype.UUID
	TableNumber  string
	TableStatus  string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Product struct {
	ID              uuid.UUID
	RestaurantID    uuid.UUID
	Name            string
	Price           pgtype.Numeric
	DiscountPercent pgtype.Numeric
	Cost            pgtype.Numeric
	IsActive        bool
	DeletedAt       pgtype.Timestamptz
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Integration is a delivery-platform webhook configuration. WebhookSecret is
// stored in plaintext; encryption at rest is out of scope.
type Integration struct {
	ID                   uuid.UUID
	TenantID             uuid.UUID
	RestaurantID         uuid.UUID
	Platform             string
	ExternalRestaurantID string
	WebhookSecret        string
	IsEnabled            bool
	CreatedAt            time.Time
}

// IntegrationWebhookLog records every inbound delivery, valid or not,
// for idempotency auditing and replay.
type IntegrationWebhookLog struct {
	ID              uuid.UUID
	IntegrationID   pgtype.UUID
	Platform        string
	ExternalOrderID pgtype.Text
	Payload         []byte
	SignatureValid  bool
	Status          string
	Error           pgtype.Text
	OrderID         pgtype.UUID
	CreatedAt       time.Time
}

// CreditSettlement is the audit row written by each settle call.
type CreditSettlement struct {
	ID            uuid.UUID
	TenantID      uuid.UUID
	RestaurantID  uuid.UUID
	CustomerID    uuid.UUID
	Amount        pgtype.Numeric
	OrdersCovered int32
	SettledBy     pgtype.UUID
	CreatedAt     time.Time
}

type User struct {
	ID           uuid.UUID
	TenantID     uuid.UUID
	RestaurantID uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	Role         string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
