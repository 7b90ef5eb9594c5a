package fetch

import (
	"context"
	"net/url"
	"strings"

	"github.com/yuweichu1-web/auto-news-writer/internal/core"
)

// Options controls one fetch: Limit caps the items per source, Hours is the
// advisory time window. The window is not enforced against real entry
// timestamps; it only shapes synthesized ones and the search recency hint.
type Options struct {
	Limit int
	Hours int
}

// FeedFetcher pulls items from an RSS/Atom source descriptor.
type FeedFetcher interface {
	Fetch(ctx context.Context, desc core.SourceDescriptor, options Options) ([]core.NewsItem, error)
}

// PageScraper extracts headline links from a source's listing page.
type PageScraper interface {
	Fetch(ctx context.Context, desc core.SourceDescriptor, options Options) ([]core.NewsItem, error)
}

// Searcher runs one AI-mediated search across the selected descriptors.
type Searcher interface {
	Search(ctx context.Context, descs []core.SourceDescriptor, options Options) ([]core.NewsItem, error)
}

// resolveURL turns a possibly-relative href into an absolute link against the
// listing page URL. Unresolvable hrefs degrade to the placeholder link.
func resolveURL(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return "#"
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "#"
	}
	if base == nil {
		return ref.String()
	}
	return base.ResolveReference(ref).String()
}
