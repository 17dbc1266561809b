package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/internal/indexer"
	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/internal/indexer/consumer"
	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/internal/indexer/corpus"
	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/internal/indexer/stopwords"
	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/internal/indexer/store"
	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/pkg/kafka"
	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/pkg/metrics"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	force := flag.Bool("force", false, "rebuild even if a saved index exists")
	watch := flag.Bool("watch", false, "after the initial build, rebuild on reindex requests from kafka")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("starting indexer", "corpus", cfg.Corpus.Dir, "store", cfg.Store.Backend, "watch", *watch)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var m *metrics.Metrics
	if cfg.Metrics.Enabled && *watch {
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

	start := time.Now()
	snap, built, err := engine.Open(ctx, *force, nil)
	if err != nil {
		slog.Error("indexing failed", "error", err)
		os.Exit(1)
	}
	slog.Info("index ready", "built", built, "stats", snap.Stats(), "duration", time.Since(start))

	if !*watch {
		return
	}
	if !cfg.Kafka.Enabled {
		slog.Error("-watch needs kafka; set kafka.enabled or IR_KAFKA_BROKERS")
		os.Exit(1)
	}

	producer := kafka.NewProducer(cfg.Kafka, cfg.Kafka.Topics.IndexComplete)
	defer producer.Close()
	requests := kafka.NewConsumer(cfg.Kafka, cfg.Kafka.Topics.ReindexRequest, "",
		consumer.HandleReindex(engine, producer))

	slog.Info("indexer ready, consuming reindex requests",
		"topic", cfg.Kafka.Topics.ReindexRequest,
		"group", cfg.Kafka.ConsumerGroup,
	)
	if err := requests.Start(ctx); err != nil {
		slog.Error("consumer error", "error", err)
	}
	slog.Info("indexer stopped")
}
