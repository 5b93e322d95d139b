package app

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/time/rate"

	"github.com/kreddys/ghostwriter-sub000/internal/acquire"
	"github.com/kreddys/ghostwriter-sub000/internal/compose"
	"github.com/kreddys/ghostwriter-sub000/internal/config"
	"github.com/kreddys/ghostwriter-sub000/internal/enrich"
	"github.com/kreddys/ghostwriter-sub000/internal/infrastructure/engine"
	"github.com/kreddys/ghostwriter-sub000/internal/infrastructure/ghost"
	"github.com/kreddys/ghostwriter-sub000/internal/infrastructure/llm"
	"github.com/kreddys/ghostwriter-sub000/internal/infrastructure/scrape"
	"github.com/kreddys/ghostwriter-sub000/internal/infrastructure/slack"
	"github.com/kreddys/ghostwriter-sub000/internal/infrastructure/storage"
	"github.com/kreddys/ghostwriter-sub000/internal/logging"
	"github.com/kreddys/ghostwriter-sub000/internal/ports"
	"github.com/kreddys/ghostwriter-sub000/internal/retry"
	"github.com/kreddys/ghostwriter-sub000/internal/search"
	"github.com/kreddys/ghostwriter-sub000/internal/usecase"
	"github.com/kreddys/ghostwriter-sub000/internal/verify"
)

// articleTags are the CMS tag names offered to the article writer.
var articleTags = []string{"news", "infrastructure", "politics", "business", "general"}

// Application wires configuration to the pipeline and owns shared resources.
type Application struct {
	cfg      config.Config
	pipeline *usecase.Pipeline
	pool     interface{ Close() }
	logger   *slog.Logger
}

// New builds a runnable application. Missing credentials disable the feature
// that needs them (an unconfigured engine, publisher, or notifier) without
// touching the rest of the pipeline; an unreachable database is fatal because
// the uniqueness checks depend on it.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	policy := retry.Policy{MaxAttempts: cfg.Retry.MaxAttempts, Delay: cfg.Retry.Delay}
	chat := llm.NewClient(cfg.LLM, policy)
	embedder := llm.NewEmbedder(cfg.Embedding, policy)

	registry := search.NewRegistry()
	if cfg.Search.TavilyAPIKey != "" {
		registry.Register(engine.NewTavily(cfg.Search.TavilyEndpoint, cfg.Search.TavilyAPIKey, nil))
	}
	if cfg.Search.GoogleAPIKey != "" && cfg.Search.GoogleCx != "" {
		registry.Register(engine.NewGoogleCSE("", cfg.Search.GoogleAPIKey, cfg.Search.GoogleCx, nil))
	}
	if cfg.Search.GoogleAPIKey != "" {
		registry.Register(engine.NewYouTube("", cfg.Search.GoogleAPIKey, nil))
	}
	if len(registry.Names()) == 0 {
		baseLogger.Warn("no search engine credentials configured, only direct url runs will work")
	}

	var generic []acquire.Scraper
	for _, name := range cfg.Scrape.Engines {
		switch name {
		case "firecrawl":
			if cfg.Scrape.FirecrawlAPIKey != "" {
				generic = append(generic, scrape.NewFirecrawl(cfg.Scrape.FirecrawlEndpoint, cfg.Scrape.FirecrawlAPIKey, nil))
			}
		case "readable":
			generic = append(generic, scrape.NewReadable(nil))
		default:
			baseLogger.Warn("unknown scrape engine", "engine", name)
		}
	}
	acquirer := acquire.NewAcquirer(generic, scrape.NewYouTubeTranscript("", nil),
		baseLogger.With("component", "acquire"))

	aggregator := search.NewAggregator(registry, search.AggregatorOptions{
		Engines:     cfg.Search.Engines,
		MaxResults:  cfg.Search.MaxResults,
		RecencyDays: cfg.Search.RecencyDays,
		Limiter:     rate.NewLimiter(rate.Limit(cfg.Search.RatePerSecond), 1),
		Updater:     acquirer,
	}, baseLogger.With("component", "search"))

	pool, err := storage.NewPool(ctx, cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	store := storage.NewSourceStore(pool)
	index := storage.NewCorpusIndex(pool)

	verifyCfg := verify.Config{
		Topic:               cfg.Pipeline.Topic,
		SimilarityThreshold: cfg.Pipeline.SimilarityThreshold,
		ChunkSize:           cfg.Pipeline.ChunkSize,
		ChunkOverlap:        cfg.Pipeline.ChunkOverlap,
	}
	verifier := verify.NewEngine(embedder, index, chat, verifyCfg,
		baseLogger.With("component", "verify"))

	var sync func(ctx context.Context) error
	if cfg.Ghost.AppURL != "" && cfg.Ghost.ContentAPIKey != "" {
		lister := ghost.NewLister(cfg.Ghost)
		syncLogger := baseLogger.With("component", "corpus-sync")
		sync = func(ctx context.Context) error {
			return verify.SyncCorpus(ctx, lister, embedder, index, verifyCfg, syncLogger)
		}
	}

	var publisher ports.Publisher
	if cfg.Ghost.AppURL != "" && cfg.Ghost.AdminAPIKey != "" {
		publisher = ghost.NewPublisher(cfg.Ghost)
	}
	var notifier ports.Notifier
	if cfg.Slack.BotToken != "" && cfg.Slack.ChannelID != "" {
		notifier = slack.NewNotifier(cfg.Slack)
	}

	pipeline := usecase.NewPipeline(cfg.Pipeline, usecase.Deps{
		Chat:     chat,
		Searcher: aggregator,
		Fetcher:  acquirer,
		Verifier: verifier,
		Enricher: enrich.NewEnricher(chat, embedder, aggregator,
			cfg.Pipeline.RelevanceSimilarityThreshold, baseLogger.With("component", "enrich")),
		Drafter:   compose.NewWriter(chat, articleTags, baseLogger.With("component", "compose")),
		Store:     store,
		Publisher: publisher,
		Notifier:  notifier,
		Sync:      sync,
	}, baseLogger.With("component", "pipeline"))

	return &Application{cfg: cfg, pipeline: pipeline, pool: pool, logger: baseLogger}, nil
}

// Run executes one pipeline pass for the given input, defaulting to the
// configured topic.
func (a *Application) Run(ctx context.Context, input string) error {
	if input == "" {
		input = a.cfg.Pipeline.Topic
	}

	report, err := a.pipeline.Run(ctx, input)
	a.logger.Info("run finished",
		"status", report.Status,
		"processed", report.Processed,
		"unique", report.Unique,
		"relevant", report.Relevant,
		"published", report.Published)
	return err
}

// Close releases shared resources.
func (a *Application) Close() {
	if a.pool != nil {
		a.pool.Close()
	}
}
