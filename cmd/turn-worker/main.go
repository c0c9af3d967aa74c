// The turn worker drains the SQS turn queue and runs the dialogue engine for
// each job. Deploy it alongside the API server when USE_MEMORY_QUEUE is off so
// turns survive API restarts and bursts spread across replicas.
package main

import (
	"context"
	"crypto/tls"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/leadline-ai/leadline/cmd/mainconfig"
	"github.com/leadline-ai/leadline/internal/booking"
	appconfig "github.com/leadline-ai/leadline/internal/config"
	"github.com/leadline-ai/leadline/internal/conversation"
	"github.com/leadline-ai/leadline/internal/leads"
	"github.com/leadline-ai/leadline/internal/merchant"
	"github.com/leadline-ai/leadline/internal/notify"
	"github.com/leadline-ai/leadline/internal/retrieval"
	"github.com/leadline-ai/leadline/internal/schedule"
	"github.com/leadline-ai/leadline/internal/session"
	"github.com/leadline-ai/leadline/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting leadline turn worker",
		"env", cfg.Env,
		"queue_url", cfg.TurnQueueURL,
		"workers", cfg.WorkerCount,
	)

	if cfg.TurnQueueURL == "" {
		logger.Error("TURN_QUEUE_URL is required for the turn worker")
		os.Exit(1)
	}

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
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to connect to postgres", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		leadRepo = leads.NewPostgresRepository(pool)
	}

	var retriever retrieval.Retriever
	if cfg.RetrievalBaseURL != "" {
		retriever = retrieval.NewHTTPClient(cfg.RetrievalBaseURL, cfg.RetrievalThreshold, cfg.RetrievalTimeout, logger)
	}

	var notifier booking.Notifier
	if sender := notify.NewSendGridSender(notify.SendGridConfig{
		APIKey:    cfg.SendGridAPIKey,
		FromEmail: cfg.SendGridFromEmail,
		FromName:  cfg.SendGridFromName,
	}, logger); sender != nil && len(cfg.LeadNotifyEmails) > 0 {
		notifier = notify.NewLeadNotifier(sender, cfg.LeadNotifyEmails, logger)
	}

	var booker booking.Adapter
	if cfg.BookingBaseURL != "" {
		booker = booking.NewHTTPAdapter(cfg.BookingBaseURL, cfg.BookingTimeout, logger)
		if notifier != nil {
			booker = booking.NewNotifyingAdapter(booker, notifier, logger)
		}
	} else {
		booker = booking.NewManualHandoffAdapter(notifier, logger)
	}

	engine := conversation.NewEngine(
		store,
		merchantStore,
		schedule.New(cfg.CooldownTurns, cfg.MaxFieldAsks),
		retriever,
		booker,
		leadRepo,
		logger,
		conversation.WithSummaryMaxChars(cfg.SummaryMaxChars),
		conversation.WithRetrievalTopK(cfg.RetrievalTopK),
	)

	awsCfg, err := mainconfig.LoadAWSConfig(context.Background(), cfg)
	if err != nil {
		logger.Error("failed to load AWS config", "error", err)
		os.Exit(1)
	}
	queue := conversation.NewSQSQueue(sqs.NewFromConfig(awsCfg), cfg.TurnQueueURL)

	dispatcher := conversation.NewQueueDispatcher(engine, queue, logger,
		conversation.WithWorkerCount(cfg.WorkerCount),
		conversation.WithReceiveWaitSeconds(10),
	)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down turn worker...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := dispatcher.Shutdown(ctx); err != nil {
		logger.Error("worker forced to shutdown", "error", err)
	}

	logger.Info("turn worker stopped")
}
