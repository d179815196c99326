package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"

	accountrepo "github.com/chefonex/service-api-core/internal/account/repo"
	"github.com/chefonex/service-api-core/internal/auth"
	favoriterepo "github.com/chefonex/service-api-core/internal/favorite/repo"
	mealrepo "github.com/chefonex/service-api-core/internal/meal/repo"
	reviewrepo "github.com/chefonex/service-api-core/internal/review/repo"
	requestrepo "github.com/chefonex/service-api-core/internal/rolerequest/repo"
	"github.com/chefonex/service-api-core/internal/router"
	"github.com/chefonex/service-api-core/pkg/database"
	"github.com/chefonex/service-api-core/pkg/utilities"
)

func main() {
	// load .env file if present so os.Getenv picks values from it
	// this is best-effort: if no .env exists, continue (use defaults or real env)
	_ = godotenv.Load()

	// init logger
	lg, err := utilities.Init(utilities.ConfigFromEnv())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer lg.Sync()

	sugar := lg.Sugar()
	sugar.Info("starting chefonex api")

	// init db
	cfg := database.ConfigFromEnv()
	sqlDB, err := database.Connect(cfg)
	if err != nil {
		sugar.Fatalf("db connect: %v", err)
	}
	defer sqlDB.Close()

	// wrap with sqlx for convenience in repos/services
	sqlxDB := sqlx.NewDb(sqlDB, "postgres")
	defer sqlxDB.Close()

	// ensure schema (idempotent; prefer migrations in production)
	schemaCtx, cancelSchema := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelSchema()
	ensurers := []interface {
		EnsureSchema(ctx context.Context) error
	}{
		accountrepo.NewAccountRepo(sqlxDB),
		requestrepo.NewRequestRepo(sqlxDB),
		mealrepo.NewMealRepo(sqlxDB),
		favoriterepo.NewFavoriteRepo(sqlxDB),
		reviewrepo.NewReviewRepo(sqlxDB),
	}
	for _, e := range ensurers {
		if err := e.EnsureSchema(schemaCtx); err != nil {
			sugar.Fatalf("ensure schema: %v", err)
		}
	}

	// identity provider verification key
	verifier, err := auth.NewJWTVerifier(auth.ConfigFromEnv())
	if err != nil {
		sugar.Fatalf("auth verifier: %v", err)
	}

	// graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sugar.Info("service is running; press Ctrl+C to stop")

	// mount http server
	handler := router.RegisterRoutes(sugar, sqlxDB, verifier, nil)
	addr := os.Getenv("API_ADDR")
	if addr == "" {
		addr = "0.0.0.0:3000"
	}
	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	// run server in background
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			sugar.Fatalf("http server failed: %v", err)
		}
	}()

	<-ctx.Done()

	sugar.Info("shutting down")

	// give a short grace period for cleanup
	doneCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// ping db once more
	if err := sqlDB.PingContext(doneCtx); err != nil {
		sugar.Warnf("db ping on shutdown failed: %v", err)
	}

	// shutdown http server
	if err := srv.Shutdown(doneCtx); err != nil {
		sugar.Warnf("http server shutdown failed: %v", err)
	}

	sugar.Info("goodbye")
}
