// Package middleware holds the HTTP middleware chain: bearer
// authentication, role gating, rate limiting, and request metrics.
package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/fitstack/coachd/internal/apperr"
	"github.com/fitstack/coachd/internal/auth"
)

type contextKey string

const identityKey contextKey = "identity"

// IdentityFrom extracts the authenticated identity placed on the request
// context by Authenticator. The second return is false on unauthenticated
// requests.
func IdentityFrom(ctx context.Context) (auth.Identity, bool) {
	ident, ok := ctx.Value(identityKey).(auth.Identity)
	return ident, ok
}

// Authenticator verifies the Authorization bearer token and stores the
// resulting identity on the request context. Paths in skip are passed
// through without a token.
func Authenticator(issuer *auth.Issuer, skip ...string) mux.MiddlewareFunc {
	skipPaths := make(map[string]bool, len(skip))
	for _, p := range skip {
		skipPaths[p] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if skipPaths[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			header := r.Header.Get("Authorization")
			if header == "" {
				respondError(w, apperr.Unauthorized("missing authorization header"))
				return
			}
			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
				respondError(w, apperr.Unauthorized("authorization header must be Bearer <token>"))
				return
			}

			ident, err := issuer.Verify(parts[1], time.Now())
			if err != nil {
				if errors.Is(err, auth.ErrExpired) {
					respondError(w, apperr.TokenExpired())
				} else {
					respondError(w, apperr.InvalidToken(err))
				}
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, ident)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireTrainer rejects requests whose identity does not carry the
// trainer role. It must run after Authenticator.
func RequireTrainer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ident, ok := IdentityFrom(r.Context())
		if !ok {
			respondError(w, apperr.Unauthorized("authentication required"))
			return
		}
		if !ident.IsTrainer() {
			respondError(w, apperr.Forbidden("trainer role required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func respondError(w http.ResponseWriter, err *apperr.Error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.HTTPStatus)
	json.NewEncoder(w).Encode(map[string]map[string]string{
		"error": {"code": string(err.Code), "message": err.Message},
	})
}
