package domain

import "strings"

// Article is a drafted post ready for the CMS.
type Article struct {
	Title     string
	Body      string
	Tags      []string
	SourceURL string
}

// PublishedArticle references a post that already exists in the CMS,
// used both for corpus sync and for source-URL bookkeeping.
type PublishedArticle struct {
	ID      string
	Title   string
	URL     string
	Content string
}

// RunStatus is the terminal outcome of a pipeline run.
type RunStatus string

const (
	RunSucceeded RunStatus = "succeeded"
	RunFailed    RunStatus = "failed"
)

// RunReport accumulates counters and per-URL decisions across a run so any
// dropped candidate can be audited.
type RunReport struct {
	Status     RunStatus
	Processed  int
	Unique     int
	Relevant   int
	Published  int
	Uniqueness []UniquenessDecision
	Relevance  []RelevanceDecision
}

// NormalizeQuery lower-cases a query for use as a grouping key.
func NormalizeQuery(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}
