package domain

// ScrapeStatus records the outcome of full-text acquisition for a result.
type ScrapeStatus string

const (
	ScrapeSuccess ScrapeStatus = "success"
	ScrapeFailure ScrapeStatus = "failure"
)

// SourceDirectURL marks results synthesized from a user-supplied URL.
const SourceDirectURL = "direct_url"

// ResultMetadata carries optional page-level details from acquisition.
type ResultMetadata struct {
	Language    string
	Description string
	StatusCode  int
	VideoID     string
}

// SearchResult is one content candidate flowing through the pipeline.
// URL is the dedup key and must be non-empty for a retained result.
type SearchResult struct {
	URL          string
	Title        string
	Content      string
	Source       string
	ScrapeStatus ScrapeStatus
	Metadata     ResultMetadata
}

// QueryResultSet groups results by the (lower-cased) query that produced them.
type QueryResultSet map[string][]SearchResult

// Add appends results under the normalized query key.
func (s QueryResultSet) Add(query string, results []SearchResult) {
	key := NormalizeQuery(query)
	s[key] = append(s[key], results...)
}

// Total counts results across all groups.
func (s QueryResultSet) Total() int {
	n := 0
	for _, results := range s {
		n += len(results)
	}
	return n
}

// UniquenessDecision is the immutable per-result duplicate judgment.
type UniquenessDecision struct {
	URL             string
	IsUnique        bool
	SimilarityScore float64
	NearestMatchURL string
	Reason          string
}

// RelevanceDecision is the per-result topical judgment, independent of uniqueness.
type RelevanceDecision struct {
	URL        string
	IsRelevant bool
	Reason     string
}

// EnrichedResult pairs an accepted result with corroborating search hits.
type EnrichedResult struct {
	Original   SearchResult
	Additional []SearchResult
}
