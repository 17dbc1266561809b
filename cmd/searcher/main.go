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

	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/internal/auth/ratelimit"
	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/internal/indexer"
	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/internal/indexer/consumer"
	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/internal/indexer/corpus"
	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/internal/indexer/stopwords"
	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/internal/indexer/store"
	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/internal/searcher/cache"
	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/internal/searcher/executor"
	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/internal/searcher/handler"
	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/pkg/health"
	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/pkg/kafka"
	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/pkg/middleware"
	pkgredis "github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/pkg/redis"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("starting search service", "port", cfg.Server.Port, "store", cfg.Store.Backend)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
		shutdownMetrics := metrics.StartServer(cfg.Metrics.Port)
		defer shutdownMetrics(context.Background())
	}

	stopSet, err := stopwords.Load(cfg.Corpus.StopwordsFile)
	if err != nil {
		slog.Error("failed to load stopwords", "error", err)
		os.Exit(1)
	}
	st, err := store.Open(ctx, cfg)
	if err != nil {
		slog.Error("failed to open index store", "error", err)
		os.Exit(1)
	}
	engine := indexer.NewEngine(corpus.NewSource(cfg.Corpus.Dir, cfg.Corpus.Pattern), stopSet, st, m)
	defer engine.Close()

	if _, built, err := engine.Open(ctx, false, nil); err != nil {
		slog.Error("failed to make index available", "error", err)
		os.Exit(1)
	} else {
		slog.Info("index ready", "built", built, "stats", engine.Snapshot().Stats())
	}

	var queryCache *cache.QueryCache
	var redisClient *pkgredis.Client
	if cfg.Redis.Enabled {
		redisClient, err = pkgredis.NewClient(cfg.Redis)
		if err != nil {
			slog.Warn("redis unavailable, query caching disabled", "error", err)
		} else {
			defer redisClient.Close()
			queryCache = cache.New(redisClient, cfg.Redis.CacheTTL, m)
			slog.Info("query cache enabled",
				"addr", cfg.Redis.Addr,
				"ttl", cfg.Redis.CacheTTL,
			)
		}
	}

	if cfg.Kafka.Enabled {
		hostname, _ := os.Hostname()
		group := fmt.Sprintf("%s-searcher-%s", cfg.Kafka.ConsumerGroup, hostname)
		var inv consumer.Invalidator
		if queryCache != nil {
			inv = queryCache
		}
		reloads := kafka.NewConsumer(cfg.Kafka, cfg.Kafka.Topics.IndexComplete, group,
			consumer.HandleIndexComplete(engine, inv))
		go func() {
			if err := reloads.Start(ctx); err != nil {
				slog.Error("index-complete consumer error", "error", err)
			}
		}()
		slog.Info("listening for index updates", "topic", cfg.Kafka.Topics.IndexComplete, "group", group)
	}

	checker := health.NewChecker()
	checker.Register("index", func(ctx context.Context) health.ComponentHealth {
		snap := engine.Snapshot()
		if snap == nil {
			return health.ComponentHealth{Status: health.StatusDown, Message: "no index loaded"}
		}
		stats := snap.Stats()
		return health.ComponentHealth{
			Status:  health.StatusUp,
			Message: fmt.Sprintf("generation %d, %d terms, %d documents", stats.Generation, stats.Terms, stats.Documents),
		}
	})
	if redisClient != nil {
		checker.Register("redis", health.Func(redisClient.Ping))
	}

	exec := executor.New(engine, m)
	h := handler.New(exec, engine, queryCache)

	mux := http.NewServeMux()
	h.Register(mux)
	mux.HandleFunc("GET /health/live", checker.LiveHandler())
	mux.HandleFunc("GET /health/ready", checker.ReadyHandler())

	limiter := ratelimit.New(cfg.Search.RateLimit, cfg.Search.RateBurst, 10*time.Minute)
	defer limiter.Stop()

	chain := middleware.Chain(mux,
		middleware.RequestID,
		middleware.Metrics(m),
		middleware.RateLimit(limiter, m),
		middleware.Timeout(cfg.Search.QueryTimeout),
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      chain,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		<-ctx.Done()
		slog.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
	}()

	slog.Info("search service listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	slog.Info("search service stopped")
}
