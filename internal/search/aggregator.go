package search

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/kreddys/ghostwriter-sub000/internal/domain"
)

// ContentUpdater backfills full text onto freshly found results (§ content
// acquisition). A failed scrape keeps the snippet and flags the result.
type ContentUpdater interface {
	UpdateResults(ctx context.Context, results []domain.SearchResult) []domain.SearchResult
}

// Aggregator fans queries out to the enabled engines, merges everything and
// deduplicates by exact URL, first seen wins.
type Aggregator struct {
	registry    *Registry
	engines     []string
	maxResults  int
	recencyDays int
	limiter     *rate.Limiter
	updater     ContentUpdater
	logger      *slog.Logger
}

// AggregatorOptions configures a fan-out run.
type AggregatorOptions struct {
	// Engines restricts which registered engines run; empty means all.
	Engines     []string
	MaxResults  int
	RecencyDays int
	// Limiter throttles outbound engine calls when set.
	Limiter *rate.Limiter
	// Updater performs the optional full-text acquisition pass.
	Updater ContentUpdater
}

// NewAggregator wires the engine registry with fan-out options.
func NewAggregator(registry *Registry, opts AggregatorOptions, logger *slog.Logger) *Aggregator {
	engines := opts.Engines
	if len(engines) == 0 {
		engines = registry.Names()
	}
	return &Aggregator{
		registry:    registry,
		engines:     engines,
		maxResults:  opts.MaxResults,
		recencyDays: opts.RecencyDays,
		limiter:     opts.Limiter,
		updater:     opts.Updater,
		logger:      logger,
	}
}

// Run executes every query against every enabled engine. A per-(query,engine)
// failure contributes zero results and never aborts the other calls. An empty
// set is returned as-is; the caller decides whether that halts the pipeline.
func (a *Aggregator) Run(ctx context.Context, queries []string) (domain.QueryResultSet, error) {
	// Slots are indexed by (query, engine) so parallel fan-out still merges
	// in a deterministic order.
	slots := make([][][]domain.SearchResult, len(queries))
	for i := range slots {
		slots[i] = make([][]domain.SearchResult, len(a.engines))
	}

	g, gctx := errgroup.WithContext(ctx)
	for qi, query := range queries {
		for ei, name := range a.engines {
			qi, ei, query, name := qi, ei, query, name
			g.Go(func() error {
				engine, err := a.registry.Resolve(name)
				if err != nil {
					a.warn("unknown search engine", "engine", name)
					return nil
				}
				if a.limiter != nil {
					if err := a.limiter.Wait(gctx); err != nil {
						return nil
					}
				}
				results, err := engine.Search(gctx, Request{
					Query:       query,
					MaxResults:  a.maxResults,
					RecencyDays: a.recencyDays,
				})
				if err != nil {
					a.warn("engine search failed", "engine", name, "query", query, "error", err)
					return nil
				}
				slots[qi][ei] = results
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	seen := map[string]struct{}{}
	grouped := domain.QueryResultSet{}
	for qi, query := range queries {
		var unique []domain.SearchResult
		for ei := range a.engines {
			for _, result := range slots[qi][ei] {
				if result.URL == "" {
					continue
				}
				if _, ok := seen[result.URL]; ok {
					continue
				}
				seen[result.URL] = struct{}{}
				unique = append(unique, result)
			}
		}
		if len(unique) == 0 {
			a.warn("no results for query from any engine", "query", query)
			continue
		}
		if a.updater != nil {
			unique = a.updater.UpdateResults(ctx, unique)
		}
		grouped.Add(query, unique)
	}

	a.debug("aggregation done", "queries", len(queries), "results", grouped.Total())
	return grouped, nil
}

func (a *Aggregator) warn(msg string, args ...any) {
	if a.logger != nil {
		a.logger.Warn(msg, args...)
	}
}

func (a *Aggregator) debug(msg string, args ...any) {
	if a.logger != nil {
		a.logger.Debug(msg, args...)
	}
}
