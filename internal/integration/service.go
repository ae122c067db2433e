package integration

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/sirupsen/logrus"

	"github.com/dinetab/api/internal/apperr"
	"github.com/dinetab/api/internal/database"
	"github.com/dinetab/api/internal/enum"
	"github.com/dinetab/api/internal/service"
)

// Store is the subset of queries webhook ingestion needs.
type Store interface {
	GetIntegrationByExternalRestaurantID(ctx context.Context, arg database.GetIntegrationByExternalRestaurantIDParams) (database.Integration, error)
	GetOrderByExternalID(ctx context.Context, arg database.GetOrderByExternalIDParams) (database.Order, error)
	CreateWebhookLog(ctx context.Context, arg database.CreateWebhookLogParams) (database.IntegrationWebhookLog, error)
}

// OrderCreator is the order-creation entry point ingested orders go through.
// External orders take the exact same path as staff-entered ones.
type OrderCreator interface {
	CreateOrder(ctx context.Context, req service.CreateOrderRequest) (*service.OrderAggregate, error)
}

// Service verifies and ingests platform webhook deliveries.
type Service struct {
	store    Store
	orders   OrderCreator
	adapters map[string]Adapter
}

func NewService(store Store, orders OrderCreator) *Service {
	s := &Service{
		store:    store,
		orders:   orders,
		adapters: make(map[string]Adapter),
	}
	s.register(ZomatoAdapter{})
	s.register(SwiggyAdapter{})
	return s
}

func (s *Service) register(a Adapter) {
	s.adapters[a.Source()] = a
}

// AdapterFor returns the adapter for an order source, if one is registered.
func (s *Service) AdapterFor(source string) (Adapter, bool) {
	a, ok := s.adapters[source]
	return a, ok
}

// IngestResult is the webhook processing outcome. Processed is false for
// rejected deliveries; the HTTP layer still acknowledges those with 200 so
// platforms do not retry tampered requests forever.
type IngestResult struct {
	Processed   bool       `json:"success"`
	OrderID     *uuid.UUID `json:"order_id,omitempty"`
	IsDuplicate bool       `json:"is_duplicate,omitempty"`
}

// Ingest handles one webhook delivery end to end: resolve the integration
// config, verify the HMAC signature over the raw body, deduplicate by
// external order id, then create the order. Every delivery gets a log row,
// whatever the outcome.
func (s *Service) Ingest(ctx context.Context, source string, rawBody []byte, signature string) (*IngestResult, error) {
	adapter, ok := s.adapters[source]
	if !ok {
		return nil, apperr.NotFound("unknown platform %q", source)
	}

	log := logEntry{platform: source, payload: rawBody}
	if extOrderID, err := adapter.ExternalOrderID(rawBody); err == nil {
		log.externalOrderID = extOrderID
	}

	extRestID, err := adapter.ExternalRestaurantID(rawBody)
	if err != nil {
		s.writeLog(ctx, log.failed(fmt.Sprintf("unreadable payload: %v", err)))
		return &IngestResult{}, nil
	}

	in, err := s.store.GetIntegrationByExternalRestaurantID(ctx, database.GetIntegrationByExternalRestaurantIDParams{
		Platform:             source,
		ExternalRestaurantID: extRestID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.writeLog(ctx, log.failed(fmt.Sprintf("no integration for restaurant %q", extRestID)))
			return &IngestResult{}, nil
		}
		return nil, fmt.Errorf("lookup integration: %w", err)
	}
	log.integrationID = in.ID

	if !verifySignature(in.WebhookSecret, rawBody, signature) {
		s.writeLog(ctx, log.failed("invalid signature"))
		return &IngestResult{}, nil
	}
	log.signatureValid = true

	if !in.IsEnabled {
		s.writeLog(ctx, log.failed("integration disabled"))
		return &IngestResult{}, nil
	}
	if !adapter.IsValidPayload(rawBody) {
		s.writeLog(ctx, log.failed("payload failed validation"))
		return &IngestResult{}, nil
	}
	if log.externalOrderID == "" {
		s.writeLog(ctx, log.failed("payload has no order id"))
		return &IngestResult{}, nil
	}

	existing, err := s.store.GetOrderByExternalID(ctx, database.GetOrderByExternalIDParams{
		RestaurantID:    in.RestaurantID,
		Source:          source,
		ExternalOrderID: log.externalOrderID,
	})
	if err == nil {
		s.writeLog(ctx, log.duplicate(existing.ID))
		return &IngestResult{Processed: true, OrderID: &existing.ID, IsDuplicate: true}, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("check duplicate delivery: %w", err)
	}

	normalized, err := adapter.Normalize(rawBody)
	if err != nil {
		s.writeLog(ctx, log.failed(fmt.Sprintf("normalize payload: %v", err)))
		return &IngestResult{}, nil
	}

	agg, err := s.orders.CreateOrder(ctx, createRequest(in, normalized, rawBody))
	if err != nil {
		s.writeLog(ctx, log.failed(fmt.Sprintf("create order: %v", err)))
		var ae *apperr.Error
		if errors.As(err, &ae) {
			// Bad catalog references and the like are the platform's
			// problem; acknowledge so it stops retrying.
			return &IngestResult{}, nil
		}
		return nil, err
	}

	s.writeLog(ctx, log.processed(agg.Order.ID))
	return &IngestResult{Processed: true, OrderID: &agg.Order.ID}, nil
}

func createRequest(in database.Integration, n *NormalizedOrder, rawBody []byte) service.CreateOrderRequest {
	req := service.CreateOrderRequest{
		TenantID:         in.TenantID,
		RestaurantID:     in.RestaurantID,
		OrderType:        enum.OrderTypeDelivery,
		Source:           in.Platform,
		CustomerPhone:    n.CustomerPhone,
		CustomerName:     n.CustomerName,
		Notes:            n.Notes,
		PaymentMethod:    enum.PaymentMethodCash,
		ExternalOrderID:  n.ExternalOrderID,
		ExternalMetadata: rawBody,
	}
	for _, it := range n.Items {
		req.Items = append(req.Items, service.OrderItemInput{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Notes:     it.Notes,
		})
	}
	return req
}

// logEntry accumulates webhook log fields as processing progresses.
type logEntry struct {
	integrationID   uuid.UUID
	platform        string
	externalOrderID string
	payload         []byte
	signatureValid  bool
	status          string
	errMsg          string
	orderID         uuid.UUID
}

func (l logEntry) failed(msg string) logEntry {
	l.status = enum.WebhookStatusFailed
	l.errMsg = msg
	return l
}

func (l logEntry) duplicate(orderID uuid.UUID) logEntry {
	l.status = enum.WebhookStatusDuplicate
	l.orderID = orderID
	return l
}

func (l logEntry) processed(orderID uuid.UUID) logEntry {
	l.status = enum.WebhookStatusProcessed
	l.orderID = orderID
	return l
}

// writeLog is best effort. A delivery must not fail because auditing did.
func (s *Service) writeLog(ctx context.Context, l logEntry) {
	_, err := s.store.CreateWebhookLog(ctx, database.CreateWebhookLogParams{
		IntegrationID:   uuidOrNull(l.integrationID),
		Platform:        l.platform,
		ExternalOrderID: textOrNull(l.externalOrderID),
		Payload:         l.payload,
		SignatureValid:  l.signatureValid,
		Status:          l.status,
		Error:           textOrNull(l.errMsg),
		OrderID:         uuidOrNull(l.orderID),
	})
	if err != nil {
		logrus.Errorf("write webhook log for %s delivery %s: %v", l.platform, l.externalOrderID, err)
	}
}

func uuidOrNull(id uuid.UUID) pgtype.UUID {
	if id == uuid.Nil {
		return pgtype.UUID{}
	}
	return pgtype.UUID{Bytes: id, Valid: true}
}

func textOrNull(s string) pgtype.Text {
	if s == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: s, Valid: true}
}
