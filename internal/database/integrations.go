package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const integrationColumns = `id, tenant_id, restaurant_id, platform, external_restaurant_id,
	webhook_secret, is_enabled, created_at`

func scanIntegration(row rowScanner) (Integration, error) {
	var in Integration
	err := row.Scan(
		&in.ID, &in.TenantID, &in.RestaurantID, &in.Platform, &in.ExternalRestaurantID,
		&in.WebhookSecret, &in.IsEnabled, &in.CreatedAt,
	)
	return in, err
}

type GetIntegrationByExternalRestaurantIDParams struct {
	Platform             string
	ExternalRestaurantID string
}

func (q *Queries) GetIntegrationByExternalRestaurantID(ctx context.Context, arg GetIntegrationByExternalRestaurantIDParams) (Integration, error) {
	const sql = `SELECT ` + integrationColumns + ` FROM integrations
		WHERE platform = $1 AND external_restaurant_id = $2`
	return scanIntegration(q.db.QueryRow(ctx, sql, arg.Platform, arg.ExternalRestaurantID))
}

const webhookLogColumns = `id, integration_id, platform, external_order_id, payload,
	signature_valid, status, error, order_id, created_at`

func scanWebhookLog(row rowScanner) (IntegrationWebhookLog, error) {
	var l IntegrationWebhookLog
	err := row.Scan(
		&l.ID, &l.IntegrationID, &l.Platform, &l.ExternalOrderID, &l.Payload,
		&l.SignatureValid, &l.Status, &l.Error, &l.OrderID, &l.CreatedAt,
	)
	return l, err
}

type CreateWebhookLogParams struct {
	IntegrationID   pgtype.UUID
	Platform        string
	ExternalOrderID pgtype.Text
	Payload         []byte
	SignatureValid  bool
	Status          string
	Error           pgtype.Text
	OrderID         pgtype.UUID
}

// CreateWebhookLog records one inbound delivery. Written for every request,
// including tampered ones, before any processing decision.
func (q *Queries) CreateWebhookLog(ctx context.Context, arg CreateWebhookLogParams) (IntegrationWebhookLog, error) {
	const sql = `
		INSERT INTO integration_webhook_logs (
			integration_id, platform, external_order_id, payload,
			signature_valid, status, error, order_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + webhookLogColumns
	row := q.db.QueryRow(ctx, sql,
		arg.IntegrationID, arg.Platform, arg.ExternalOrderID, arg.Payload,
		arg.SignatureValid, arg.Status, arg.Error, arg.OrderID,
	)
	return scanWebhookLog(row)
}
