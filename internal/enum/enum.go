package enum

// ── Group A: State machines (CHECK constrained in DB) ──

const (
	OrderStatusActive    = "ACTIVE"
	OrderStatusCompleted = "COMPLETED"
	OrderStatusCancelled = "CANCELLED"
)

const (
	OrderItemStatusPending   = "PENDING"
	OrderItemStatusReordered = "REORDERED"
	OrderItemStatusServed    = "SERVED"
)

const (
	PaymentStatusPending = "PENDING"
	PaymentStatusPaid    = "PAID"
)

const (
	TableStatusAvailable = "AVAILABLE"
	TableStatusOccupied  = "OCCUPIED"
	TableStatusReserved  = "RESERVED"
)

const (
	WebhookStatusProcessed = "PROCESSED"
	WebhookStatusDuplicate = "DUPLICATE"
	WebhookStatusFailed    = "FAILED"
)

// ── Group C: Borderline (CHECK constrained in DB) ──

const (
	UserRoleOwner   = "OWNER"
	UserRoleManager = "MANAGER"
	UserRoleStaff   = "STAFF"
)

const (
	OrderTypeDineIn   = "DINE_IN"
	OrderTypeTakeaway = "TAKEAWAY"
	OrderTypeDelivery = "DELIVERY"
)

const (
	OrderSourceManual = "MANUAL"
	OrderSourceQR     = "QR"
	OrderSourceWeb    = "WEB"
	OrderSourceZomato = "ZOMATO"
	OrderSourceSwiggy = "SWIGGY"
)

// ── Group B: Configurable labels (no DB constraint) ──

const (
	PaymentMethodCash   = "CASH"
	PaymentMethodCard   = "CARD"
	PaymentMethodUPI    = "UPI"
	PaymentMethodCredit = "CREDIT"
)
