package auth

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

type contextKey string

const emailKey contextKey = "verified_email"

// EmailFromContext returns the verified caller email stored by RequireAuth.
func EmailFromContext(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(emailKey).(string)
	return email, ok && email != ""
}

// AccountSource is the slice of the account store the admin gate needs.
type AccountSource interface {
	RoleByEmail(ctx context.Context, email string) (string, error)
}

// RequireAuth is the identity gate: it extracts the bearer credential,
// verifies it, and stores the verified email in the request context.
// It never consults the account store.
func RequireAuth(verifier TokenVerifier, logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				writeMessage(w, http.StatusUnauthorized, "Unauthorized Access.")
				return
			}
			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				writeMessage(w, http.StatusUnauthorized, "Unauthorized Access.")
				return
			}
			email, err := verifier.Verify(r.Context(), strings.TrimSpace(parts[1]))
			if err != nil {
				logger.Debugw("token verification failed", "err", err)
				writeMessage(w, http.StatusUnauthorized, "Unauthorized Access.")
				return
			}
			ctx := context.WithValue(r.Context(), emailKey, email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin is the admin gate: it loads the account for the verified
// email and asserts administrator role. It must run after RequireAuth.
func RequireAdmin(accounts AccountSource, logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			email, ok := EmailFromContext(r.Context())
			if !ok {
				writeMessage(w, http.StatusUnauthorized, "Unauthorized Access.")
				return
			}
			role, err := accounts.RoleByEmail(r.Context(), email)
			if err != nil {
				if !errors.Is(err, sql.ErrNoRows) {
					logger.Warnw("admin check failed", "email", email, "err", err)
				}
				writeMessage(w, http.StatusForbidden, "Forbidden Access")
				return
			}
			if role != "admin" {
				writeMessage(w, http.StatusForbidden, "Forbidden Access")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": msg})
}
