package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/yuweichu1-web/auto-news-writer/internal/core"
	"github.com/yuweichu1-web/auto-news-writer/internal/llm"
)

// AISearcher asks an external text-generation endpoint for recent industry
// news and defensively parses a JSON array out of the free-form reply.
type AISearcher struct {
	client      llm.Client
	model       string
	maxTokens   int
	temperature float64
}

func NewAISearcher(client llm.Client, model string) *AISearcher {
	return &AISearcher{
		client:      client,
		model:       model,
		maxTokens:   2048,
		temperature: 0.7,
	}
}

// searchResult is the shape each array element is expected to carry.
type searchResult struct {
	Title       string `json:"title"`
	Summary     string `json:"summary"`
	URL         string `json:"url"`
	PublishTime string `json:"publishTime"`
}

func (s *AISearcher) Search(ctx context.Context, descs []core.SourceDescriptor, options Options) ([]core.NewsItem, error) {
	if len(descs) == 0 {
		return nil, nil
	}
	limit := options.Limit
	if limit <= 0 {
		limit = 5
	}

	// One attempt per call; failure degrades to the mock path upstream.
	response, err := s.client.ChatCompletion(ctx, llm.ChatRequest{
		Model:       s.model,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: buildSearchPrompt(descs, limit, options.Hours)}},
		Temperature: s.temperature,
		MaxTokens:   s.maxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("ai search: %w", err)
	}

	results, err := parseResultArray(response.Content)
	if err != nil {
		return nil, fmt.Errorf("ai search: %w", err)
	}

	origin := originDescriptor(descs)
	now := time.Now()
	items := make([]core.NewsItem, 0, len(results))
	for i, result := range results {
		if len(items) >= limit {
			break
		}
		title := strings.TrimSpace(result.Title)
		if title == "" {
			continue
		}
		link := strings.TrimSpace(result.URL)
		if link == "" {
			link = "#"
		}
		items = append(items, core.NewsItem{
			ID:          core.ItemID(origin.ID, i, now),
			Title:       title,
			Summary:     strings.TrimSpace(result.Summary),
			Source:      origin.ID,
			SourceName:  origin.Name,
			URL:         link,
			PublishTime: parsePublishTime(result.PublishTime, now),
		})
	}
	return items, nil
}

func buildSearchPrompt(descs []core.SourceDescriptor, limit, hours int) string {
	if hours <= 0 {
		hours = 24
	}
	names := make([]string, 0, len(descs))
	keywords := make([]string, 0, len(descs))
	for _, desc := range descs {
		names = append(names, desc.Name)
		if desc.SearchKeyword != "" {
			keywords = append(keywords, desc.SearchKeyword)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "请搜索最近%d小时内来自%s的汽车行业新闻。\n", hours, strings.Join(names, "、"))
	if len(keywords) > 0 {
		fmt.Fprintf(&b, "搜索关键词：%s\n", strings.Join(keywords, "；"))
	}
	fmt.Fprintf(&b, "只关注以下主题：新车发布与上市、行业政策与法规、销量与交付数据、厂商合作与投资。\n")
	fmt.Fprintf(&b, "返回一个恰好包含%d个对象的JSON数组，每个对象的字段为title、summary、url、publishTime（ISO-8601时间）。\n", limit)
	b.WriteString("只输出JSON数组本身，不要输出任何其他文字。")
	return b.String()
}

// parseResultArray recovers the JSON array from model output in two stages:
// a strict parse of the whole response, then the first balanced [...] substring.
// Anything beyond that is treated as a hard failure; callers fall back to
// other data paths rather than guessing further.
func parseResultArray(content string) ([]searchResult, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("empty response")
	}

	var results []searchResult
	if err := json.Unmarshal([]byte(content), &results); err == nil {
		return results, nil
	}

	embedded, ok := firstBalancedArray(content)
	if !ok {
		return nil, fmt.Errorf("no JSON array in response")
	}
	if err := json.Unmarshal([]byte(embedded), &results); err != nil {
		return nil, fmt.Errorf("parse embedded array: %w", err)
	}
	return results, nil
}

// firstBalancedArray scans for the first top-level [...] substring, honoring
// string literals and escapes so brackets inside titles do not break matching.
func firstBalancedArray(s string) (string, bool) {
	start := strings.IndexByte(s, '[')
	if start < 0 {
		return "", false
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

func parsePublishTime(raw string, fallback time.Time) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return fallback
}

// originDescriptor picks the descriptor search results are attributed to.
// Single-source searches keep their source; multi-source searches are tagged
// with the whole-web descriptor when selected, else the first one.
func originDescriptor(descs []core.SourceDescriptor) core.SourceDescriptor {
	if len(descs) == 1 {
		return descs[0]
	}
	for _, desc := range descs {
		if desc.ID == "all" {
			return desc
		}
	}
	return descs[0]
}
