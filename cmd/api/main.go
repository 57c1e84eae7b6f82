package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/josh-kwaku/ledger-engine/internal/config"
	"github.com/josh-kwaku/ledger-engine/internal/events"
	"github.com/josh-kwaku/ledger-engine/internal/events/kafka"
	"github.com/josh-kwaku/ledger-engine/internal/handler"
	"github.com/josh-kwaku/ledger-engine/internal/logging"
	"github.com/josh-kwaku/ledger-engine/internal/middleware"
	"github.com/josh-kwaku/ledger-engine/internal/repository"
	"github.com/josh-kwaku/ledger-engine/internal/service"
	"github.com/josh-kwaku/ledger-engine/internal/service/ledger"
)

const cacheSweepInterval = time.Hour

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := logging.Init("ledger-api", cfg.LogLevel, cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := repository.NewPostgresDB(ctx, cfg.DatabaseURL, repository.PoolConfig{
		MaxOpenConns:     cfg.DBMaxOpenConns,
		MaxIdleConns:     cfg.DBMaxIdleConns,
		ConnMaxLifetimeS: cfg.DBConnMaxLifetimeS,
		ConnMaxIdleTimeS: cfg.DBConnMaxIdleTimeS,
	})
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := repository.Migrate(ctx, db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	ids, err := ledger.NewIDGenerator(cfg.IDStrategy)
	if err != nil {
		slog.Error("invalid id strategy", "error", err)
		os.Exit(1)
	}

	var publisher events.Publisher = events.NoopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		kp := kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer kp.Close()
		publisher = kp
		slog.Info("publishing transaction events", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	}

	accountRepo := repository.NewAccountRepository(db)
	ledgerRepo := repository.NewLedgerRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	engine := ledger.NewEngine(db, accountRepo, ledgerRepo, ledger.NewGuard(ledgerRepo), ids, publisher, cfg.TxTimeout)
	accountSvc := service.NewAccountService(accountRepo)

	accountHandler := handler.NewAccountHandler(accountSvc, engine)
	transactionHandler := handler.NewTransactionHandler(engine)
	healthHandler := handler.NewHealthHandler(map[string]handler.HealthCheck{
		"database": db.PingContext,
	})

	authed := func(h http.HandlerFunc) http.Handler {
		return middleware.Auth(cfg.JWTSecret)(middleware.Logging(middleware.Idempotency(idempotencyRepo)(h)))
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", healthHandler.Liveness)
	mux.HandleFunc("GET /health/ready", healthHandler.Readiness)
	mux.HandleFunc("GET /docs", handler.ServeDocs())
	mux.HandleFunc("GET /docs/openapi.yaml", handler.ServeSpec())

	mux.Handle("POST /api/v1/accounts", authed(accountHandler.Open))
	mux.Handle("GET /api/v1/account/balance", authed(accountHandler.Balance))
	mux.Handle("POST /api/v1/account/deposit", authed(accountHandler.Deposit))
	mux.Handle("POST /api/v1/transactions", authed(transactionHandler.Create))
	mux.Handle("GET /api/v1/transactions", authed(transactionHandler.List))
	mux.Handle("GET /api/v1/transactions/{id}", authed(transactionHandler.Get))

	root := otelhttp.NewHandler(middleware.Recovery(middleware.Tracing(mux)), "ledger-api")

	janitor := service.NewCacheJanitor(idempotencyRepo, logger, cacheSweepInterval)
	go janitor.Start(ctx)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           root,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("server started", "addr", addr, "id_strategy", cfg.IDStrategy, "tx_timeout", cfg.TxTimeout)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
