package aggregate

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/yuweichu1-web/auto-news-writer/internal/core"
	"github.com/yuweichu1-web/auto-news-writer/internal/fetch"
	"github.com/yuweichu1-web/auto-news-writer/internal/mocknews"
	"github.com/yuweichu1-web/auto-news-writer/internal/quality"
	"github.com/yuweichu1-web/auto-news-writer/internal/source"
)

// ErrNoSources reports a request that selected nothing at all. Unknown ids are
// not an error; they are skipped.
var ErrNoSources = errors.New("no sources selected")

// Filter gates AI-search results before the merge.
type Filter interface {
	Apply(items []core.NewsItem) []core.NewsItem
}

type Config struct {
	PerSourceCap int
	TotalCap     int
	AISearchCap  int
	DefaultHours int
}

// Result is one aggregation outcome. Fallback marks synthetic data so callers
// can tell placeholder records from real ones.
type Result struct {
	Items    []core.NewsItem
	Fallback bool
}

// Aggregator runs the per-source fetch strategies, merges and orders their
// output, and guarantees a usable result through the mock fallback. It holds
// only immutable configuration and is safe for concurrent requests; every
// call re-fetches from scratch.
type Aggregator struct {
	registry *source.Registry
	feeds    fetch.FeedFetcher
	pages    fetch.PageScraper
	search   fetch.Searcher
	filter   Filter
	rules    []*quality.RuleFilter
	mock     *mocknews.Generator
	cfg      Config
	logger   *slog.Logger
}

func New(
	registry *source.Registry,
	feeds fetch.FeedFetcher,
	pages fetch.PageScraper,
	search fetch.Searcher,
	filter Filter,
	rules []*quality.RuleFilter,
	mock *mocknews.Generator,
	cfg Config,
	logger *slog.Logger,
) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	if mock == nil {
		mock = mocknews.NewGenerator()
	}
	if cfg.PerSourceCap <= 0 {
		cfg.PerSourceCap = 10
	}
	if cfg.TotalCap <= 0 {
		cfg.TotalCap = 10
	}
	if cfg.AISearchCap <= 0 {
		cfg.AISearchCap = 5
	}
	if cfg.DefaultHours <= 0 {
		cfg.DefaultHours = 24
	}
	return &Aggregator{
		registry: registry,
		feeds:    feeds,
		pages:    pages,
		search:   search,
		filter:   filter,
		rules:    rules,
		mock:     mock,
		cfg:      cfg,
		logger:   logger,
	}
}

// FetchNews aggregates news for the requested source ids within the advisory
// window. Individual source failures contribute zero items and never abort
// the call; only a done context or an empty selection fail it. When every
// path yields nothing the mock generator substitutes canned records.
func (a *Aggregator) FetchNews(ctx context.Context, sourceIDs []string, hours int) (Result, error) {
	ids := cleanIDs(sourceIDs)
	if len(ids) == 0 {
		return Result{}, ErrNoSources
	}
	if hours <= 0 {
		hours = a.cfg.DefaultHours
	}

	tracer := otel.Tracer("auto-news-writer/aggregate")
	ctx, span := tracer.Start(ctx, "news.aggregate")
	span.SetAttributes(
		attribute.StringSlice("news.sources", ids),
		attribute.Int("news.hours", hours),
	)
	defer span.End()

	var live, ai []core.SourceDescriptor
	for _, id := range ids {
		desc, ok := a.registry.Lookup(id)
		if !ok {
			a.logger.Warn("skipping unknown source", "source", id)
			continue
		}
		if desc.Kind == core.KindAISearch {
			ai = append(ai, desc)
		} else {
			live = append(live, desc)
		}
	}

	// Per-source fetches share nothing; each goroutine writes only its own
	// slot and the slices are merged after Wait.
	perSource := make([][]core.NewsItem, len(live))
	var aiItems []core.NewsItem

	var g errgroup.Group
	for i, desc := range live {
		i, desc := i, desc
		g.Go(func() error {
			perSource[i] = a.fetchLive(ctx, desc, fetch.Options{Limit: a.cfg.PerSourceCap, Hours: hours})
			return nil
		})
	}
	if len(ai) > 0 && a.search != nil {
		g.Go(func() error {
			items, err := a.search.Search(ctx, ai, fetch.Options{Limit: a.cfg.AISearchCap, Hours: hours})
			if err != nil {
				a.logger.Warn("ai search failed", "error", err)
				return nil
			}
			aiItems = items
			return nil
		})
	}
	_ = g.Wait()

	// A caller-level timeout fails the whole call instead of returning a
	// partial set; per-source timeouts inside the window still degrade to
	// partial results.
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	if a.filter != nil {
		aiItems = a.filter.Apply(aiItems)
	}

	merged := make([]core.NewsItem, 0, len(aiItems)+len(live)*a.cfg.PerSourceCap)
	for _, items := range perSource {
		merged = append(merged, items...)
	}
	merged = append(merged, aiItems...)

	for _, rule := range a.rules {
		merged = rule.Apply(a.logger, merged)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].PublishTime.After(merged[j].PublishTime)
	})
	merged = dedupe(merged)

	limit := a.cfg.TotalCap
	if len(live) == 0 && len(ai) > 0 {
		limit = a.cfg.AISearchCap
	}
	if len(merged) > limit {
		merged = merged[:limit]
	}

	if len(merged) == 0 {
		a.logger.Info("all sources empty, using mock data", "sources", ids)
		span.SetAttributes(attribute.Bool("news.fallback", true))
		return Result{Items: a.mock.Generate(ids, a.displayNames(), hours), Fallback: true}, nil
	}
	span.SetAttributes(attribute.Int("news.count", len(merged)))
	return Result{Items: merged}, nil
}

func (a *Aggregator) fetchLive(ctx context.Context, desc core.SourceDescriptor, options fetch.Options) []core.NewsItem {
	var items []core.NewsItem
	var err error

	switch desc.Kind {
	case core.KindRSS:
		if a.feeds != nil {
			items, err = a.feeds.Fetch(ctx, desc, options)
			if err != nil {
				a.logger.Warn("feed fetch failed", "source", desc.ID, "error", err)
			}
		}
		// The feed path degrades to a listing scrape when the source has one.
		if len(items) == 0 && desc.PageURL != "" && a.pages != nil {
			items, err = a.pages.Fetch(ctx, desc, options)
			if err != nil {
				a.logger.Warn("scrape fallback failed", "source", desc.ID, "error", err)
			}
		}
	case core.KindScrape:
		if a.pages != nil {
			items, err = a.pages.Fetch(ctx, desc, options)
			if err != nil {
				a.logger.Warn("page scrape failed", "source", desc.ID, "error", err)
			}
		}
	}
	return items
}

func (a *Aggregator) displayNames() map[string]string {
	names := make(map[string]string)
	for _, desc := range a.registry.All() {
		names[desc.ID] = desc.Name
	}
	return names
}

func cleanIDs(sourceIDs []string) []string {
	ids := make([]string, 0, len(sourceIDs))
	for _, id := range sourceIDs {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// dedupe removes repeats by link, falling back to the lowercased title when
// the link is a placeholder. First occurrence wins, so the post-sort call
// keeps the freshest copy.
func dedupe(items []core.NewsItem) []core.NewsItem {
	seen := make(map[string]struct{}, len(items))
	out := items[:0]
	for _, item := range items {
		key := item.URL
		if key == "" || key == "#" {
			key = "title:" + strings.ToLower(item.Title)
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, item)
	}
	return out
}
