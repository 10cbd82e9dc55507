// Package middleware contains HTTP middleware for the API server.
package middleware

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/meridiangrc/roi/internal/roi"
)

// APIKeyAuth authenticates requests with a bearer token and binds the
// matching organization to the request context. Every request below
// this middleware carries an organization scope; handlers never see an
// unauthenticated request.
func APIKeyAuth(keys map[string]uuid.UUID) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				unauthorized(w)
				return
			}

			orgID, ok := lookupToken(keys, token)
			if !ok {
				unauthorized(w)
				return
			}

			ctx := roi.ContextWithOrgID(r.Context(), orgID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(auth) <= len(prefix) || !strings.EqualFold(auth[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(auth[len(prefix):])
}

// lookupToken compares the presented token against every configured
// key in constant time.
func lookupToken(keys map[string]uuid.UUID, token string) (uuid.UUID, bool) {
	var (
		matched uuid.UUID
		found   bool
	)
	for k, orgID := range keys {
		if len(k) == len(token) && subtle.ConstantTimeCompare([]byte(k), []byte(token)) == 1 {
			matched = orgID
			found = true
		}
	}
	return matched, found
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="api"`)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{
			"code":    roi.CodeUnauthorized,
			"message": "Missing or invalid API key",
		},
	})
}
