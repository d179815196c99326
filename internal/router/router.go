package router

import (
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/chefonex/service-api-core/internal/account"
	accountrepo "github.com/chefonex/service-api-core/internal/account/repo"
	"github.com/chefonex/service-api-core/internal/auth"
	"github.com/chefonex/service-api-core/internal/favorite"
	"github.com/chefonex/service-api-core/internal/meal"
	"github.com/chefonex/service-api-core/internal/review"
	"github.com/chefonex/service-api-core/internal/rolerequest"
	"github.com/chefonex/service-api-core/internal/stats"
)

// loggingResponseWriter wraps http.ResponseWriter to capture status and size.
type loggingResponseWriter struct {
	http.ResponseWriter
	status int
	size   int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.status = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Write(b []byte) (int, error) {
	if lrw.status == 0 {
		lrw.status = http.StatusOK
	}
	n, err := lrw.ResponseWriter.Write(b)
	lrw.size += n
	return n, err
}

// LoggingMiddleware returns a middleware that logs requests at debug level using the provided sugared logger.
func LoggingMiddleware(logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			lrw := &loggingResponseWriter{ResponseWriter: w}
			next.ServeHTTP(lrw, r)
			dur := time.Since(start)
			status := lrw.status
			if status == 0 {
				status = http.StatusOK
			}
			logger.Debugw("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"remote", r.RemoteAddr,
				"status", status,
				"duration_ms", float64(dur.Microseconds())/1000.0,
				"size", lrw.size,
			)
		})
	}
}

// SecurityHeadersMiddleware returns a middleware that sets common HTTP security headers.
// It is intentionally simple and conservative so it works with most setups.
func SecurityHeadersMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("Referrer-Policy", "no-referrer-when-downgrade")
			w.Header().Set("Permissions-Policy", "camera=(), microphone=(), geolocation=()")
			if w.Header().Get("Content-Security-Policy") == "" {
				w.Header().Set("Content-Security-Policy", "default-src 'self'; object-src 'none'; base-uri 'self';")
			}
			if r.TLS != nil {
				w.Header().Set("Strict-Transport-Security", "max-age=2592000; includeSubDomains")
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RegisterRoutes mounts HTTP handlers using the standard library's http.ServeMux.
// Privileged routes are wrapped with the identity gate; adjudication and
// stats routes additionally pass the admin gate.
func RegisterRoutes(logger *zap.SugaredLogger, db *sqlx.DB, verifier auth.TokenVerifier, payments stats.PaymentSource) http.Handler {
	mux := http.NewServeMux()

	identity := auth.RequireAuth(verifier, logger)
	admin := auth.RequireAdmin(accountrepo.NewAccountRepo(db), logger)
	adminOnly := func(h http.HandlerFunc) http.Handler {
		return identity(admin(h))
	}
	authed := func(h http.HandlerFunc) http.Handler {
		return identity(h)
	}

	// health
	mux.HandleFunc("GET /chefonex-api/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// account routes
	accountHandler := account.NewHandler(db, logger)
	mux.HandleFunc("POST /chefonex-api/users", accountHandler.Register)
	mux.Handle("GET /chefonex-api/users", authed(accountHandler.List))
	mux.Handle("PATCH /chefonex-api/users/{id}/fraud", authed(accountHandler.MarkFraud))

	// role request routes
	requestHandler := rolerequest.NewHandler(db, logger)
	mux.Handle("POST /chefonex-api/role-requests", authed(requestHandler.Submit))
	mux.Handle("GET /chefonex-api/role-requests", adminOnly(requestHandler.List))
	mux.Handle("PATCH /chefonex-api/role-requests/{id}/approve", adminOnly(requestHandler.Approve))
	mux.Handle("PATCH /chefonex-api/role-requests/{id}/reject", adminOnly(requestHandler.Reject))

	// meal catalog routes
	mealHandler := meal.NewHandler(db, logger)
	mux.Handle("POST /chefonex-api/meals", authed(mealHandler.Create))
	mux.HandleFunc("GET /chefonex-api/meals", mealHandler.List)
	mux.HandleFunc("GET /chefonex-api/meals/{id}", mealHandler.Get)
	mux.Handle("DELETE /chefonex-api/meals/{id}", authed(mealHandler.Delete))

	// favorite routes
	favoriteHandler := favorite.NewHandler(db, logger)
	mux.Handle("POST /chefonex-api/favorites", authed(favoriteHandler.Add))
	mux.Handle("GET /chefonex-api/favorites", authed(favoriteHandler.List))
	mux.Handle("DELETE /chefonex-api/favorites/{id}", authed(favoriteHandler.Remove))

	// review routes
	reviewHandler := review.NewHandler(db, logger)
	mux.Handle("POST /chefonex-api/reviews", authed(reviewHandler.Add))
	mux.HandleFunc("GET /chefonex-api/meals/{id}/reviews", reviewHandler.ListByMeal)
	mux.Handle("DELETE /chefonex-api/reviews/{id}", authed(reviewHandler.Remove))

	// admin stats
	statsHandler := stats.NewHandler(db, payments, logger)
	mux.Handle("GET /chefonex-api/admin/stats", adminOnly(statsHandler.Snapshot))

	// wrap with security headers middleware then logging middleware
	handler := LoggingMiddleware(logger)(SecurityHeadersMiddleware()(mux))
	return handler
}
