package fetch

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/yuweichu1-web/auto-news-writer/internal/core"
)

// summaryRuneLimit bounds feed summaries for display.
const summaryRuneLimit = 200

// RSSFetcher fetches and parses a source's feed into news items.
type RSSFetcher struct {
	parser *gofeed.Parser
}

func NewRSSFetcher(timeout time.Duration, userAgent string) *RSSFetcher {
	client := &http.Client{Timeout: timeout}
	parser := gofeed.NewParser()
	parser.Client = client
	parser.UserAgent = userAgent
	return &RSSFetcher{parser: parser}
}

func (f *RSSFetcher) Fetch(ctx context.Context, desc core.SourceDescriptor, options Options) ([]core.NewsItem, error) {
	feed, err := f.parser.ParseURLWithContext(desc.FeedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", desc.ID, err)
	}

	limit := options.Limit
	if limit <= 0 {
		limit = len(feed.Items)
	}

	now := time.Now()
	items := make([]core.NewsItem, 0, limit)
	for i, entry := range feed.Items {
		if len(items) >= limit {
			break
		}
		title := strings.TrimSpace(entry.Title)
		if title == "" {
			continue
		}

		summary := core.TruncateSummary(strings.TrimSpace(entry.Description), summaryRuneLimit)
		if summary == "" {
			summary = desc.Name + "最新资讯"
		}

		published := now
		if entry.PublishedParsed != nil {
			published = *entry.PublishedParsed
		} else if entry.UpdatedParsed != nil {
			published = *entry.UpdatedParsed
		}

		items = append(items, core.NewsItem{
			ID:          core.ItemID(desc.ID, i, now),
			Title:       title,
			Summary:     summary,
			Source:      desc.ID,
			SourceName:  desc.Name,
			URL:         entry.Link,
			PublishTime: published,
		})
	}

	return items, nil
}
