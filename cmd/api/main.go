package main

import (
	"context"
	"crypto/tls"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/leadline-ai/leadline/cmd/mainconfig"
	"github.com/leadline-ai/leadline/internal/api/router"
	"github.com/leadline-ai/leadline/internal/booking"
	appconfig "github.com/leadline-ai/leadline/internal/config"
	"github.com/leadline-ai/leadline/internal/conversation"
	"github.com/leadline-ai/leadline/internal/http/handlers"
	"github.com/leadline-ai/leadline/internal/leads"
	"github.com/leadline-ai/leadline/internal/merchant"
	"github.com/leadline-ai/leadline/internal/notify"
	"github.com/leadline-ai/leadline/internal/observability/metrics"
	"github.com/leadline-ai/leadline/internal/retrieval"
	"github.com/leadline-ai/leadline/internal/schedule"
	"github.com/leadline-ai/leadline/internal/session"
	"github.com/leadline-ai/leadline/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting leadline API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	redisOpts := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		redisOpts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	redisClient := redis.NewClient(redisOpts)

	store := session.NewRedisStore(redisClient, cfg.SessionTTL, nil)
	merchantStore := merchant.NewRedisStore(redisClient)

	var leadRepo leads.Repository = leads.NewInMemoryRepository()
	var leadStats leads.StatsSource
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to connect to postgres", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		leadRepo = leads.NewPostgresRepository(pool)

		statsDB, err := sql.Open("pgx", cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to open stats database handle", "error", err)
			os.Exit(1)
		}
		defer statsDB.Close()
		leadStats = leads.NewStatsRepository(statsDB)
	} else {
		logger.Warn("DATABASE_URL not set, leads are stored in memory")
	}

	var retriever retrieval.Retriever
	if cfg.RetrievalBaseURL != "" {
		retriever = retrieval.NewHTTPClient(cfg.RetrievalBaseURL, cfg.RetrievalThreshold, cfg.RetrievalTimeout, logger)
	}

	var emailSender notify.EmailSender
	if sender := notify.NewSendGridSender(notify.SendGridConfig{
		APIKey:    cfg.SendGridAPIKey,
		FromEmail: cfg.SendGridFromEmail,
		FromName:  cfg.SendGridFromName,
	}, logger); sender != nil {
		emailSender = sender
	}

	var notifier booking.Notifier
	if emailSender != nil && len(cfg.LeadNotifyEmails) > 0 {
		notifier = notify.NewLeadNotifier(emailSender, cfg.LeadNotifyEmails, logger)
	}

	var booker booking.Adapter
	if cfg.BookingBaseURL != "" {
		booker = booking.NewHTTPAdapter(cfg.BookingBaseURL, cfg.BookingTimeout, logger)
		// The merchant email carries the lead summary even when an external
		// system books the slot.
		if notifier != nil {
			booker = booking.NewNotifyingAdapter(booker, notifier, logger)
		}
	} else {
		booker = booking.NewManualHandoffAdapter(notifier, logger)
	}

	convMetrics := metrics.NewConversationMetrics(prometheus.DefaultRegisterer)

	engine := conversation.NewEngine(
		store,
		merchantStore,
		schedule.New(cfg.CooldownTurns, cfg.MaxFieldAsks),
		retriever,
		booker,
		leadRepo,
		logger,
		conversation.WithMetrics(convMetrics),
		conversation.WithSummaryMaxChars(cfg.SummaryMaxChars),
		conversation.WithRetrievalTopK(cfg.RetrievalTopK),
	)

	var service conversation.Service = engine
	var dispatcher conversation.Dispatcher
	if cfg.UseMemoryQueue {
		dispatcher = conversation.NewQueueDispatcher(engine, conversation.NewMemoryQueue(256), logger,
			conversation.WithWorkerCount(cfg.WorkerCount))
		service = dispatcher
	} else if cfg.TurnQueueURL != "" {
		awsCfg, err := mainconfig.LoadAWSConfig(context.Background(), cfg)
		if err != nil {
			logger.Error("failed to load AWS config", "error", err)
			os.Exit(1)
		}
		queue := conversation.NewSQSQueue(sqs.NewFromConfig(awsCfg), cfg.TurnQueueURL)
		dispatcher = conversation.NewQueueDispatcher(engine, queue, logger,
			conversation.WithWorkerCount(cfg.WorkerCount))
		service = dispatcher
	}

	leadsHandler := leads.NewHandler(leadRepo, logger)
	if leadStats != nil {
		leadsHandler = leadsHandler.WithStats(leadStats)
	}

	routerCfg := &router.Config{
		Logger:             logger,
		TurnHandler:        handlers.NewTurnHandler(service, logger),
		LeadsHandler:       leadsHandler,
		MerchantConfig:     handlers.NewMerchantConfigHandler(merchantStore, logger),
		MetricsHandler:     promhttp.Handler(),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		AdminToken:         cfg.AdminToken,
		RateLimitPerSecond: cfg.RateLimitPerSecond,
		RateLimitBurst:     cfg.RateLimitBurst,
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router.New(routerCfg),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}
	if dispatcher != nil {
		if err := dispatcher.Shutdown(ctx); err != nil {
			logger.Error("dispatcher forced to shutdown", "error", err)
		}
	}

	logger.Info("server stopped")
}
