package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpAdapter "github.com/trunohq/truno-ledger/internal/adapter/http"
	"github.com/trunohq/truno-ledger/internal/adapter/http/handler"
	postgresRepo "github.com/trunohq/truno-ledger/internal/adapter/repository/postgres"
	redisRepo "github.com/trunohq/truno-ledger/internal/adapter/repository/redis"
	"github.com/trunohq/truno-ledger/internal/infrastructure/config"
	"github.com/trunohq/truno-ledger/internal/infrastructure/logger"
	"github.com/trunohq/truno-ledger/internal/infrastructure/metrics"
	"github.com/trunohq/truno-ledger/internal/infrastructure/postgres"
	"github.com/trunohq/truno-ledger/internal/infrastructure/redis"
	"github.com/trunohq/truno-ledger/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx := context.Background()

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Run migrations
	if err := postgres.RunMigrations(log, cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	m := metrics.New()

	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()

		for range ticker.C {
			m.DBConnections.Set(float64(pool.Stat().TotalConns()))
		}
	}()

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	accountRepo := postgresRepo.NewAccountRepository(pool)
	txnRepo := postgresRepo.NewTransactionRepository(pool)
	recordRepo := postgresRepo.NewRecordRepository(pool)
	installmentRepo := postgresRepo.NewInstallmentRepository(pool)
	paymentRepo := postgresRepo.NewPaymentRepository(pool)
	auditRepo := postgresRepo.NewAuditRepository(pool).WithMetrics(m)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	idGen := postgresRepo.NewULIDGenerator()
	retrier := postgresRepo.NewRetrier(log)

	// Initialize use cases
	accountUC := usecase.NewAccountUseCase(txManager, accountRepo, txnRepo, idGen).
		WithRetrier(retrier).
		WithAudit(auditRepo).
		WithMetrics(m)
	transactionUC := usecase.NewTransactionUseCase(txManager, accountRepo, txnRepo, recordRepo, paymentRepo, idGen).
		WithRetrier(retrier).
		WithAudit(auditRepo).
		WithMetrics(m)
	transferUC := usecase.NewTransferUseCase(txManager, accountRepo, txnRepo, idGen).
		WithRetrier(retrier).
		WithAudit(auditRepo).
		WithMetrics(m)
	recordUC := usecase.NewRecordUseCase(txManager, recordRepo, txnRepo, installmentRepo, idGen).
		WithRetrier(retrier)
	scheduleUC := usecase.NewScheduleUseCase(txManager, recordRepo, installmentRepo, idGen).
		WithRetrier(retrier).
		WithAudit(auditRepo).
		WithMetrics(m)
	paymentUC := usecase.NewPaymentUseCase(txManager, accountRepo, txnRepo, recordRepo, installmentRepo, paymentRepo, idGen).
		WithRetrier(retrier).
		WithAudit(auditRepo).
		WithMetrics(m)
	reconciliationUC := usecase.NewReconciliationUseCase(accountRepo, txnRepo, recordRepo).
		WithMetrics(m)

	// Initialize handlers
	accountHandler := handler.NewAccountHandler(accountUC)
	transactionHandler := handler.NewTransactionHandler(transactionUC)
	transferHandler := handler.NewTransferHandler(transferUC)
	recordHandler := handler.NewRecordHandler(recordUC)
	scheduleHandler := handler.NewScheduleHandler(scheduleUC)
	paymentHandler := handler.NewPaymentHandler(paymentUC)
	reconciliationHandler := handler.NewReconciliationHandler(reconciliationUC)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AccountHandler:        accountHandler,
		TransactionHandler:    transactionHandler,
		TransferHandler:       transferHandler,
		RecordHandler:         recordHandler,
		ScheduleHandler:       scheduleHandler,
		PaymentHandler:        paymentHandler,
		ReconciliationHandler: reconciliationHandler,
		HealthHandler:         healthHandler,
		IdempotencyStore:      idempotencyStore,
		IdempotencyTTL:        cfg.IdempotencyTTL,
		Metrics:               m,
		Logger:                log,
	})

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
