// Package integration ingests externally-sourced orders pushed by delivery
// platforms. Each platform has an Adapter that knows how to read its payload;
// the ingest service verifies signatures, logs every delivery, deduplicates
// by external order id, and feeds normalized orders into the same creation
// path internal orders use.
package integration

// NormalizedItem is one line of an external order, mapped to a catalog
// product id. Platform prices are ignored; pricing re-runs server-side.
type NormalizedItem struct {
	ProductID string
	Quantity  int32
	Notes     string
}

// NormalizedOrder is the platform-independent shape handed to order creation.
type NormalizedOrder struct {
	ExternalOrderID string
	CustomerName    string
	CustomerPhone   string
	Notes           string
	Items           []NormalizedItem
}

// Adapter reads one delivery platform's payload format. Adding a platform
// means adding a variant here, not new conditional branches in the service.
type Adapter interface {
	// Source is the order source this adapter feeds (enum.OrderSource*).
	Source() string
	// SignatureHeader is the platform's canonical signature header name.
	SignatureHeader() string
	// ExternalRestaurantID extracts the platform-side restaurant reference
	// used to resolve the integration config.
	ExternalRestaurantID(payload []byte) (string, error)
	// ExternalOrderID extracts the platform-side order id used for
	// idempotency.
	ExternalOrderID(payload []byte) (string, error)
	// IsValidPayload reports whether the payload has the fields Normalize
	// needs.
	IsValidPayload(payload []byte) bool
	// Normalize converts the payload into the internal order shape.
	Normalize(payload []byte) (*NormalizedOrder, error)
}
