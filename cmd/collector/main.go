package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"trendwatch/internal/api"
	"trendwatch/internal/config"
	"trendwatch/internal/insight"
	"trendwatch/internal/publisher"
	"trendwatch/internal/scheduler"
	"trendwatch/internal/service"
	"trendwatch/internal/source/googlenews"
	"trendwatch/internal/source/nate"
	"trendwatch/internal/source/reddit"
	"trendwatch/internal/source/yahoojp"
	"trendwatch/internal/source/youtube"
	"trendwatch/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	logger := setupLogger("info")

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger = setupLogger(cfg.LogLevel)

	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := postgres.RunMigrations(db); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	logger.Info("connected to database")

	// Publishing is optional; an empty URL leaves reports local-only.
	var reportPublisher service.Publisher
	if cfg.RabbitMQ.URL != "" {
		rabbitMQ, err := publisher.NewRabbitMQ(publisher.Config{
			URL:        cfg.RabbitMQ.URL,
			Exchange:   cfg.RabbitMQ.Exchange,
			RoutingKey: cfg.RabbitMQ.RoutingKey,
			QueueName:  cfg.RabbitMQ.QueueName,
		}, logger)
		if err != nil {
			logger.Error("failed to connect to rabbitmq", "error", err)
			os.Exit(1)
		}
		defer rabbitMQ.Close()
		reportPublisher = rabbitMQ
	} else {
		logger.Info("rabbitmq disabled, reports will not be published")
	}

	bucketStore := postgres.NewBucketStore(db)
	videoStore := postgres.NewVideoStore(db)
	articleStore := postgres.NewArticleStore(db)
	txManager := postgres.NewTransactionManager(db)

	nateSource := nate.New(nate.Config{Timeout: cfg.Collect.AdapterTimeout}, logger)
	redditSource := reddit.New(reddit.Config{Timeout: cfg.Collect.AdapterTimeout}, logger)
	yahooSource := yahoojp.New(yahoojp.Config{Timeout: cfg.Collect.AdapterTimeout}, logger)

	youtubeSource := youtube.New(youtube.Config{
		APIKey:  cfg.YouTube.APIKey,
		BaseURL: cfg.YouTube.BaseURL,
		Timeout: cfg.YouTube.Timeout,
	}, logger)
	newsSource := googlenews.New(googlenews.Config{Timeout: cfg.Collect.AdapterTimeout}, logger)

	keywordFetcher := service.NewKeywordFetcher(
		[]service.TrendSource{nateSource, redditSource, yahooSource},
		cfg.Collect,
		logger,
	)

	insightClient := insight.NewClient(cfg.OpenAI, logger)

	collectService := service.NewCollectService(
		keywordFetcher,
		youtubeSource,
		newsSource,
		insightClient,
		bucketStore,
		videoStore,
		articleStore,
		txManager,
		reportPublisher,
		logger,
		cfg.Collect,
	)

	handler := api.NewHandler(collectService, logger)
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: api.NewServer(handler),
	}

	sched := scheduler.NewScheduler(collectService, cfg.Schedule.Interval, cfg.Schedule.Countries, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	go func() {
		if err := sched.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("scheduler error", "error", err)
		}
	}()

	go func() {
		logger.Info("starting http server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	handler := slog.NewJSONHandler(os.Stdout, opts)
	return slog.New(handler)
}
