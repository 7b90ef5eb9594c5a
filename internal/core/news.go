package core

import (
	"fmt"
	"time"
)

// FetchKind selects the strategy used to pull items from a source.
type FetchKind string

const (
	KindRSS      FetchKind = "rss"
	KindScrape   FetchKind = "scrape"
	KindAISearch FetchKind = "ai_search"
)

// SourceDescriptor describes one upstream news provider and how to fetch it.
// Descriptors are immutable after registry construction.
type SourceDescriptor struct {
	ID       string    `json:"id" yaml:"id"`
	Name     string    `json:"name" yaml:"name"`
	Icon     string    `json:"icon" yaml:"icon"`
	Category string    `json:"category,omitempty" yaml:"category,omitempty"`
	Kind     FetchKind `json:"kind" yaml:"kind"`

	// FeedURL is set for KindRSS.
	FeedURL string `json:"feed_url,omitempty" yaml:"feed_url,omitempty"`
	// PageURL and Selectors are set for KindScrape. Selectors are tried in
	// order and the first one that matches anything wins.
	PageURL   string   `json:"page_url,omitempty" yaml:"page_url,omitempty"`
	Selectors []string `json:"selectors,omitempty" yaml:"selectors,omitempty"`
	// SearchKeyword seeds the search prompt for KindAISearch.
	SearchKeyword string `json:"search_keyword,omitempty" yaml:"search_keyword,omitempty"`
}

// NewsItem is the normalized record every fetch strategy produces. Items are
// value objects: constructed once per aggregation call and never mutated.
type NewsItem struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Summary     string    `json:"summary"`
	Source      string    `json:"source"`
	SourceName  string    `json:"sourceName"`
	URL         string    `json:"url"`
	PublishTime time.Time `json:"publishTime"`
}

// ItemID builds a response-unique item id from the source id, the position of
// the item within its fetch, and the fetch timestamp. Concurrent fetches for
// different sources can never collide because the source id is a component.
func ItemID(sourceID string, seq int, at time.Time) string {
	return fmt.Sprintf("%s_%d_%d", sourceID, seq, at.UnixNano())
}

// TruncateSummary bounds scraped and feed summaries for display. AI-search
// summaries are passed through untouched by callers.
func TruncateSummary(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
