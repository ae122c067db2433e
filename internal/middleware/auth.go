package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dinetab/api/internal/auth"
	"github.com/dinetab/api/internal/database"
	"github.com/google/uuid"
)

type contextKey string

const claimsKey contextKey = "claims"

func Authenticate(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing authorization header"})
				return
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid authorization format"})
				return
			}

			claims, err := auth.ValidateToken(jwtSecret, parts[1])
			if err != nil {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid token"})
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// TenantChecker verifies that a restaurant row belongs to a tenant.
type TenantChecker interface {
	RestaurantBelongsToTenant(ctx context.Context, arg database.RestaurantBelongsToTenantParams) (bool, error)
}

// RequireRestaurant enforces that the token's restaurant matches the {rid}
// path parameter. OWNER tokens may cross restaurants, but only within their
// own tenant.
func RequireRestaurant(store TenantChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := ClaimsFromContext(r.Context())
			if claims == nil {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
				return
			}

			ridStr := r.PathValue("rid")
			if ridStr == "" {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing restaurant ID"})
				return
			}

			rid, err := uuid.Parse(ridStr)
			if err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid restaurant ID"})
				return
			}

			if claims.RestaurantID == rid {
				next.ServeHTTP(w, r)
				return
			}

			if claims.Role == "OWNER" {
				ok, err := store.RestaurantBelongsToTenant(r.Context(), database.RestaurantBelongsToTenantParams{
					RestaurantID: rid,
					TenantID:     claims.TenantID,
				})
				if err != nil {
					writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
					return
				}
				if ok {
					next.ServeHTTP(w, r)
					return
				}
			}

			writeJSON(w, http.StatusForbidden, map[string]string{"error": "access denied for this restaurant"})
		})
	}
}

func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := ClaimsFromContext(r.Context())
			if claims == nil {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
				return
			}

			for _, role := range roles {
				if claims.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			writeJSON(w, http.StatusForbidden, map[string]string{"error": "insufficient permissions"})
		})
	}
}

func ClaimsFromContext(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(claimsKey).(*auth.Claims)
	return claims
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
