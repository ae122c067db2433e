package integration

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
)

// fallbackSignatureHeaders are tried when the platform's canonical header is
// absent. Some platform sandboxes send a generic header name.
var fallbackSignatureHeaders = []string{"X-Webhook-Signature", "X-Signature"}

// verifySignature checks a hex-encoded HMAC-SHA256 of the raw body against
// the shared webhook secret using a constant-time compare.
func verifySignature(secret string, body []byte, signature string) bool {
	if secret == "" || signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// SignatureFromHeader extracts the signature for an adapter from request
// headers, preferring the platform's canonical header.
func SignatureFromHeader(h http.Header, adapter Adapter) string {
	if v := h.Get(adapter.SignatureHeader()); v != "" {
		return v
	}
	for _, name := range fallbackSignatureHeaders {
		if v := h.Get(name); v != "" {
			return v
		}
	}
	return ""
}

// Sign computes the hex HMAC-SHA256 signature for a payload. Used by tests
// and the seeder to produce valid deliveries.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}
