package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	httpadapter "github.com/couchcryptid/oceanwatch-assistant/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/oceanwatch-assistant/internal/adapter/kafka"
	"github.com/couchcryptid/oceanwatch-assistant/internal/assistant"
	"github.com/couchcryptid/oceanwatch-assistant/internal/chat"
	"github.com/couchcryptid/oceanwatch-assistant/internal/config"
	"github.com/couchcryptid/oceanwatch-assistant/internal/domain"
	"github.com/couchcryptid/oceanwatch-assistant/internal/feed"
	"github.com/couchcryptid/oceanwatch-assistant/internal/gateway"
	"github.com/couchcryptid/oceanwatch-assistant/internal/lexicon"
	"github.com/couchcryptid/oceanwatch-assistant/internal/observability"
	"github.com/couchcryptid/oceanwatch-assistant/internal/pipeline"
	"github.com/couchcryptid/oceanwatch-assistant/internal/registry"
	"github.com/couchcryptid/oceanwatch-assistant/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	if err := run(cfg, logger); err != nil {
		logger.Error("service stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	metrics := observability.NewMetrics()
	reg := registry.Default()

	gw, err := gateway.Build(cfg.GatewayMode, cfg.GatewayBaseURL, cfg.GatewayTimeout, logger, metrics)
	if err != nil {
		return err
	}
	logger.Info("external data gateway configured", "mode", cfg.GatewayMode, "timeout", cfg.GatewayTimeout, "enrich", cfg.GatewayEnrich)

	engine := assistant.New(reg, gw, assistant.Config{
		AcceptanceThreshold: cfg.AcceptanceThreshold,
		HistoryLimit:        cfg.HistoryLimit,
		GatewayTimeout:      cfg.GatewayTimeout,
		Enrich:              cfg.GatewayEnrich,
	}, logger, metrics)

	store, closeStore, err := openStore(cfg, reg, metrics)
	if err != nil {
		return err
	}
	defer closeStore()
	logger.Info("session store configured", "backend", cfg.SessionStore)

	svc := chat.NewService(engine, store, logger, metrics)
	ready := httpadapter.Readiness{svc}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	g, gctx := errgroup.WithContext(ctx)

	var analytics httpadapter.Analytics
	if cfg.FeedMode != config.FeedOff {
		tracker := lexicon.NewTracker(cfg.AnalyticsWindow)
		analytics = tracker

		p, closeFeed := startFeed(gctx, g, cfg, engine, tracker, logger, metrics)
		defer closeFeed()
		ready = append(ready, p)
		logger.Info("social feed enabled", "mode", cfg.FeedMode, "interval", cfg.FeedInterval)
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, svc, analytics, ready, logger)

	g.Go(func() error {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	err = g.Wait()
	logger.Info("shutdown complete")
	return err
}

func openStore(cfg *config.Config, reg *registry.Registry, metrics *observability.Metrics) (session.Store, func(), error) {
	codec := session.Codec{KnownTopic: reg.Has, HistoryLimit: cfg.HistoryLimit}

	if cfg.SessionStore != config.SessionStoreRedis {
		return session.NewMemoryStore(cfg.SessionCacheSize, codec, metrics), func() {}, nil
	}

	client, err := session.OpenRedis(cfg.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	store := session.NewRedisStore(client, cfg.SessionTTL, codec, metrics)
	return store, func() {
		if err := store.Close(); err != nil {
			slog.Error("redis close error", "error", err)
		}
	}, nil
}

// startFeed launches the post generator and the labelling pipeline on g.
// Publish failures are logged and the post is dropped.
func startFeed(ctx context.Context, g *errgroup.Group, cfg *config.Config, engine *assistant.Engine,
	tracker *lexicon.Tracker, logger *slog.Logger, metrics *observability.Metrics,
) (*pipeline.Pipeline, func()) {
	gen := feed.NewGenerator(domain.Clock(), uint64(time.Now().UnixNano()))
	labeller := pipeline.NewLabeller(engine)

	var (
		extractor pipeline.BatchExtractor
		loader    pipeline.BatchLoader
		publish   func(context.Context, feed.Post) error
		closers   []func() error
	)

	switch cfg.FeedMode {
	case config.FeedKafka:
		reader := kafkaadapter.NewReader(cfg, logger)
		writer := kafkaadapter.NewWriter(cfg, logger)
		posts := kafkaadapter.NewPostWriter(cfg, logger)
		extractor, loader, publish = reader, writer, posts.PublishPost
		closers = append(closers, reader.Close, writer.Close, posts.Close)
	default:
		src := pipeline.NewChannelSource(cfg.BatchSize*2, cfg.BatchFlushInterval)
		extractor, loader, publish = src, pipeline.Discard, src.Publish
	}

	p := pipeline.New(extractor, labeller, pipeline.Tracking(loader, tracker), logger, metrics, cfg.BatchSize)

	g.Go(func() error {
		return gen.Run(ctx, cfg.FeedInterval, func(ctx context.Context, post feed.Post) error {
			if err := publish(ctx, post); err != nil && ctx.Err() == nil {
				logger.Warn("publish post failed", "post_id", post.ID, "error", err)
			}
			return nil
		})
	})
	g.Go(func() error { return p.Run(ctx) })

	return p, func() {
		for _, c := range closers {
			if err := c(); err != nil {
				logger.Error("kafka close error", "error", err)
			}
		}
	}
}
