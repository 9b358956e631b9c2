package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpAdapter "github.com/iho/homeledger/internal/adapter/http"
	"github.com/iho/homeledger/internal/adapter/http/handler"
	"github.com/iho/homeledger/internal/adapter/http/middleware"
	"github.com/iho/homeledger/internal/adapter/repository/memory"
	postgresRepo "github.com/iho/homeledger/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/homeledger/internal/adapter/repository/redis"
	"github.com/iho/homeledger/internal/infrastructure/config"
	"github.com/iho/homeledger/internal/infrastructure/eventpublisher"
	"github.com/iho/homeledger/internal/infrastructure/logger"
	"github.com/iho/homeledger/internal/infrastructure/metrics"
	"github.com/iho/homeledger/internal/infrastructure/postgres"
	"github.com/iho/homeledger/internal/infrastructure/redis"
	"github.com/iho/homeledger/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup logger
	log.Logger = logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	zerolog.DefaultContextLogger = &log.Logger

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log.Logger); err != nil {
		log.Error().Err(err).Msg("server exited with error")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}

// store bundles the repositories of the selected driver.
type store struct {
	txManager    usecase.TransactionManager
	accounts     usecase.AccountRepository
	transactions usecase.TransactionRepository
	rows         usecase.RowRepository
	outbox       usecase.OutboxRepository
	ledger       usecase.LedgerRepository
	retrier      usecase.Retrier
	pinger       handler.Pinger
	close        func()
}

func openStore(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*store, error) {
	switch cfg.StoreDriver {
	case config.StoreDriverMemory:
		s := memory.NewStore()
		logger.Warn().Msg("using in-memory store; data is lost on exit")

		return &store{
			txManager:    s.TxManager(),
			accounts:     s.Accounts(),
			transactions: s.Transactions(),
			rows:         s.Rows(),
			outbox:       s.Outbox(),
			ledger:       s.Ledger(),
			pinger:       s,
			close:        func() {},
		}, nil

	case config.StoreDriverPostgres:
		if cfg.RunMigrations {
			if err := postgres.RunMigrations(logger, cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
				return nil, err
			}
		}

		pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
			DatabaseURL:    cfg.DatabaseURL,
			MaxConns:       cfg.DatabaseMaxConns,
			MinConns:       cfg.DatabaseMinConns,
			ConnectTimeout: cfg.DatabaseTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("connect to postgres: %w", err)
		}
		logger.Info().Msg("connected to postgres")

		return &store{
			txManager:    postgresRepo.NewTxManager(pool),
			accounts:     postgresRepo.NewAccountRepository(pool),
			transactions: postgresRepo.NewTransactionRepository(pool),
			rows:         postgresRepo.NewRowRepository(pool),
			outbox:       postgresRepo.NewOutboxRepository(pool),
			ledger:       postgresRepo.NewLedgerRepository(pool),
			retrier:      postgresRepo.NewRetrier(logger),
			pinger:       pool,
			close:        pool.Close,
		}, nil
	}

	return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}

// newPublisher returns the Kafka publisher when brokers are configured,
// otherwise a publisher that logs events.
func newPublisher(cfg *config.Config, logger zerolog.Logger) (eventpublisher.Publisher, func() error) {
	if cfg.KafkaEnabled() {
		kp := eventpublisher.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		return kp, kp.Close
	}

	return eventpublisher.NewLogPublisher(logger), func() error { return nil }
}

func run(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	st, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer st.close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	routerCfg := httpAdapter.RouterConfig{
		Logger:         logger,
		Metrics:        m,
		MetricsHandler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		IdempotencyTTL: cfg.IdempotencyTTL,
	}

	var redisPinger handler.Pinger
	if cfg.RedisURL != "" {
		redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("connect to redis: %w", err)
		}
		defer redisClient.Close()
		logger.Info().Msg("connected to redis")

		routerCfg.IdempotencyStore = redisRepo.NewIdempotencyStore(redisClient)
		redisPinger = handler.PingFunc(func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}

	if cfg.RateLimitRPS > 0 {
		rl := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, m)
		go rl.RunCleanup(ctx, time.Hour)
		routerCfg.RateLimiter = rl
	}

	// Initialize use cases
	idGen := postgresRepo.NewULIDGenerator()
	accountUC := usecase.NewAccountUseCase(st.txManager, st.accounts, st.outbox, idGen)
	balanceUC := usecase.NewBalanceUseCase(st.accounts, st.rows, cfg.BalanceWindow, m)
	transactionUC := usecase.NewTransactionUseCase(usecase.TransactionUseCaseDeps{
		TxManager:       st.txManager,
		AccountRepo:     st.accounts,
		TransactionRepo: st.transactions,
		RowRepo:         st.rows,
		OutboxRepo:      st.outbox,
		IDGen:           idGen,
		Retrier:         st.retrier,
		Observer:        m,
	})
	ledgerUC := usecase.NewLedgerUseCase(st.ledger)

	// Initialize handlers
	routerCfg.AccountHandler = handler.NewAccountHandler(accountUC, balanceUC, cfg.DisplayCurrency)
	routerCfg.TransactionHandler = handler.NewTransactionHandler(transactionUC)
	routerCfg.LedgerHandler = handler.NewLedgerHandler(ledgerUC)
	routerCfg.HealthHandler = handler.NewHealthHandler(st.pinger, redisPinger)

	// Outbox relay
	publisher, closePublisher := newPublisher(cfg, logger)
	defer func() {
		if err := closePublisher(); err != nil {
			logger.Warn().Err(err).Msg("failed to close event publisher")
		}
	}()

	relay := eventpublisher.NewEventPublisher(eventpublisher.Config{
		OutboxRepo: st.outbox,
		Publisher:  publisher,
		Metrics:    m,
		Logger:     logger,
		BatchSize:  cfg.OutboxBatchSize,
		Interval:   cfg.OutboxInterval,
	})

	relayDone := make(chan struct{})
	go func() {
		defer close(relayDone)
		if err := relay.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error().Err(err).Msg("outbox relay stopped")
		}
	}()

	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      httpAdapter.NewRouter(routerCfg),
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info().Str("port", cfg.HTTPPort).Str("store", cfg.StoreDriver).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	<-relayDone

	return nil
}
