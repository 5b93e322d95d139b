package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/kreddys/ghostwriter-sub000/internal/compose"
	"github.com/kreddys/ghostwriter-sub000/internal/config"
	"github.com/kreddys/ghostwriter-sub000/internal/domain"
	"github.com/kreddys/ghostwriter-sub000/internal/ports"
	"github.com/kreddys/ghostwriter-sub000/internal/verify"
)

const queryPrompt = `You turn a news topic into effective web search queries.
Reply with a JSON array of 1 to 3 short search query strings, nothing else.`

// Searcher runs the multi-engine search aggregation.
type Searcher interface {
	Run(ctx context.Context, queries []string) (domain.QueryResultSet, error)
}

// Fetcher acquires full text for a single URL.
type Fetcher interface {
	Fetch(ctx context.Context, pageURL string) domain.SearchResult
}

// Verifier filters a result set down to unique, on-topic results.
type Verifier interface {
	Filter(ctx context.Context, set domain.QueryResultSet) verify.Outcome
}

// Enricher attaches supplementary search hits to accepted results.
type Enricher interface {
	Enrich(ctx context.Context, accepted domain.QueryResultSet) (map[string][]domain.EnrichedResult, error)
}

// Drafter composes articles from accepted or enriched results.
type Drafter interface {
	DraftFromResults(ctx context.Context, accepted domain.QueryResultSet) []domain.Article
	DraftFromEnriched(ctx context.Context, enriched map[string][]domain.EnrichedResult) []domain.Article
}

// Pipeline runs a single content-generation pass: search, filter, verify,
// enrich, draft, publish. Optional collaborators (store, enricher, publisher,
// notifier, sync) may be nil; a missing one disables its feature without
// touching the stages before it.
type Pipeline struct {
	cfg       config.PipelineConfig
	chat      ports.ChatClient
	searcher  Searcher
	fetcher   Fetcher
	verifier  Verifier
	enricher  Enricher
	drafter   Drafter
	store     ports.SourceStore
	publisher ports.Publisher
	notifier  ports.Notifier
	sync      func(ctx context.Context) error
	logger    *slog.Logger
}

// Deps bundles the pipeline collaborators.
type Deps struct {
	Chat      ports.ChatClient
	Searcher  Searcher
	Fetcher   Fetcher
	Verifier  Verifier
	Enricher  Enricher
	Drafter   Drafter
	Store     ports.SourceStore
	Publisher ports.Publisher
	Notifier  ports.Notifier
	Sync      func(ctx context.Context) error
}

func NewPipeline(cfg config.PipelineConfig, deps Deps, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		cfg:       cfg,
		chat:      deps.Chat,
		searcher:  deps.Searcher,
		fetcher:   deps.Fetcher,
		verifier:  deps.Verifier,
		enricher:  deps.Enricher,
		drafter:   deps.Drafter,
		store:     deps.Store,
		publisher: deps.Publisher,
		notifier:  deps.Notifier,
		sync:      deps.Sync,
		logger:    logger,
	}
}

// Run executes the pipeline for a topic or a direct URL. The report carries
// counters and every per-URL decision so any dropped candidate can be
// audited; a failed run returns both the report and an error.
func (p *Pipeline) Run(ctx context.Context, input string) (domain.RunReport, error) {
	report := domain.RunReport{Status: domain.RunFailed}

	accepted, err := p.collect(ctx, input, &report)
	if err != nil {
		return report, err
	}

	articles, err := p.draft(ctx, accepted)
	if err != nil {
		return report, err
	}
	if len(articles) == 0 {
		return report, fmt.Errorf("no articles drafted")
	}

	p.publish(ctx, articles, &report)

	report.Status = domain.RunSucceeded
	return report, nil
}

// collect produces the accepted result set, running the verification stages
// for a topic input and bypassing them for a trusted direct URL.
func (p *Pipeline) collect(ctx context.Context, input string, report *domain.RunReport) (domain.QueryResultSet, error) {
	if IsURL(input) {
		return p.collectDirect(ctx, input, report)
	}

	if p.sync != nil {
		if err := p.sync(ctx); err != nil {
			p.logger.Warn("corpus sync failed, checking against existing index state", "error", err)
		}
	}

	queries := p.buildQueries(ctx, input)
	p.logger.Info("searching", "queries", queries)

	set, err := p.searcher.Run(ctx, queries)
	if err != nil {
		return nil, fmt.Errorf("search aggregation: %w", err)
	}
	if set.Total() == 0 {
		return nil, fmt.Errorf("search produced no results")
	}

	if p.cfg.UseURLFiltering && p.store != nil {
		for query, results := range set {
			set[query] = verify.FilterExisting(ctx, p.store, results, p.logger)
		}
	}

	outcome := p.verifier.Filter(ctx, set)
	// One uniqueness decision per processed result; results excluded for a
	// failed scrape are not counted.
	report.Processed = len(outcome.Uniqueness)
	report.Uniqueness = outcome.Uniqueness
	report.Relevance = outcome.Relevance
	for _, d := range outcome.Uniqueness {
		if d.IsUnique {
			report.Unique++
		}
	}
	for _, d := range outcome.Relevance {
		if d.IsRelevant {
			report.Relevant++
		}
	}

	if outcome.Accepted.Total() == 0 {
		return nil, fmt.Errorf("no unique relevant results")
	}
	return outcome.Accepted, nil
}

// collectDirect builds a one-element result set from a user-supplied URL.
// An explicit URL is trusted by construction, so the uniqueness and
// relevance checks are skipped.
func (p *Pipeline) collectDirect(ctx context.Context, pageURL string, report *domain.RunReport) (domain.QueryResultSet, error) {
	p.logger.Info("direct url input, skipping uniqueness and relevance checks", "url", pageURL)

	result := p.fetcher.Fetch(ctx, pageURL)
	if result.ScrapeStatus != domain.ScrapeSuccess {
		return nil, fmt.Errorf("could not acquire content for %s", pageURL)
	}
	result.Source = domain.SourceDirectURL
	report.Processed = 1

	set := domain.QueryResultSet{}
	set.Add(pageURL, []domain.SearchResult{result})
	return set, nil
}

func (p *Pipeline) draft(ctx context.Context, accepted domain.QueryResultSet) ([]domain.Article, error) {
	if p.cfg.UseSearchEnricher && p.enricher != nil {
		enriched, err := p.enricher.Enrich(ctx, accepted)
		if err != nil {
			return nil, fmt.Errorf("enrichment: %w", err)
		}
		return p.drafter.DraftFromEnriched(ctx, enriched), nil
	}
	return p.drafter.DraftFromResults(ctx, accepted), nil
}

// publish pushes drafts to the CMS and fires the side effects. A nil
// publisher disables publication without failing the run; per-article
// failures are logged and skipped.
func (p *Pipeline) publish(ctx context.Context, articles []domain.Article, report *domain.RunReport) {
	if p.publisher == nil {
		p.logger.Info("publisher not configured, skipping publication", "drafted", len(articles))
		return
	}

	for _, article := range articles {
		postURL, err := p.publisher.CreateDraft(ctx, article)
		if err != nil {
			p.logger.Error("publish failed", "title", article.Title, "error", err)
			continue
		}
		report.Published++
		p.logger.Info("draft created", "title", article.Title, "url", postURL)

		if p.store != nil && article.SourceURL != "" {
			if err := p.store.SaveSource(ctx, article.SourceURL, postURL); err != nil {
				p.logger.Warn("source url bookkeeping failed", "url", article.SourceURL, "error", err)
			}
		}
		if p.notifier != nil {
			if err := p.notifier.NotifyDraft(ctx, article.Title, article.Tags, postURL); err != nil {
				p.logger.Warn("notification failed", "title", article.Title, "error", err)
			}
		}
	}
}

// buildQueries expands the topic through the query-generation agent when
// enabled, always falling back to the raw topic.
func (p *Pipeline) buildQueries(ctx context.Context, topic string) []string {
	if !p.cfg.UseQueryGenerator || p.chat == nil {
		return []string{topic}
	}

	reply, err := p.chat.Complete(ctx, queryPrompt, topic)
	if err != nil {
		p.logger.Warn("query generation failed, using raw topic", "error", err)
		return []string{topic}
	}

	if queries := parseQueries(reply); len(queries) > 0 {
		return queries
	}
	p.logger.Warn("unparseable query generation reply, using raw topic")
	return []string{topic}
}

// parseQueries reads a JSON array of strings, falling back to one query per
// non-empty line.
func parseQueries(reply string) []string {
	cleaned := compose.StripFence(reply)

	var queries []string
	if err := json.Unmarshal([]byte(cleaned), &queries); err == nil {
		return compactQueries(queries)
	}

	return compactQueries(strings.Split(cleaned, "\n"))
}

func compactQueries(raw []string) []string {
	var queries []string
	for _, q := range raw {
		q = strings.TrimSpace(strings.Trim(strings.TrimSpace(q), `"-*`))
		if q != "" {
			queries = append(queries, q)
		}
	}
	return queries
}

// IsURL reports whether the run input is an absolute http(s) URL rather
// than a search topic.
func IsURL(input string) bool {
	u, err := url.Parse(strings.TrimSpace(input))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
