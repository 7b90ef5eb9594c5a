package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/yuweichu1-web/auto-news-writer/internal/aggregate"
	"github.com/yuweichu1-web/auto-news-writer/internal/core"
	"github.com/yuweichu1-web/auto-news-writer/internal/fetch"
	"github.com/yuweichu1-web/auto-news-writer/internal/llm"
	llmmock "github.com/yuweichu1-web/auto-news-writer/internal/llm/mock"
	"github.com/yuweichu1-web/auto-news-writer/internal/mocknews"
	"github.com/yuweichu1-web/auto-news-writer/internal/rewrite"
	"github.com/yuweichu1-web/auto-news-writer/internal/source"
)

type fixedFeeds struct {
	items map[string][]core.NewsItem
}

func (f *fixedFeeds) Fetch(ctx context.Context, desc core.SourceDescriptor, options fetch.Options) ([]core.NewsItem, error) {
	return f.items[desc.ID], nil
}

type noPages struct{}

func (noPages) Fetch(ctx context.Context, desc core.SourceDescriptor, options fetch.Options) ([]core.NewsItem, error) {
	return nil, nil
}

type noSearch struct{}

func (noSearch) Search(ctx context.Context, descs []core.SourceDescriptor, options fetch.Options) ([]core.NewsItem, error) {
	return nil, nil
}

func newTestServer(feeds map[string][]core.NewsItem, chat *llmmock.Client) *Server {
	registry := source.NewRegistry()
	aggregator := aggregate.New(
		registry,
		&fixedFeeds{items: feeds}, noPages{}, noSearch{},
		nil, nil,
		mocknews.NewSeededGenerator(1),
		aggregate.Config{},
		nil,
	)
	rewriter := rewrite.New(chat, "doubao-lite-4k", "doubao-4-8k", nil)
	return NewServer(registry, aggregator, rewriter, 5*time.Second, nil)
}

func TestSourcesEndpoint(t *testing.T) {
	server := newTestServer(nil, &llmmock.Client{})

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sources", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp sourcesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success {
		t.Error("expected success flag")
	}
	if len(resp.Data) != 9 {
		t.Fatalf("expected 9 sources, got %d", len(resp.Data))
	}
	if resp.Data[0].ID != "autohome" || resp.Data[0].Name == "" {
		t.Errorf("unexpected first source %+v", resp.Data[0])
	}
}

func TestNewsEndpointRequiresSources(t *testing.T) {
	server := newTestServer(nil, &llmmock.Client{})

	for _, target := range []string{"/api/news", "/api/news?sources=", "/api/news?sources=+,+"} {
		rec := httptest.NewRecorder()
		server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", target, rec.Code)
		}
		var resp errorResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if resp.Success || resp.Error != "请选择新闻源" {
			t.Errorf("%s: unexpected error body %+v", target, resp)
		}
	}
}

func TestNewsEndpointReturnsItems(t *testing.T) {
	now := time.Now()
	server := newTestServer(map[string][]core.NewsItem{
		"autohome": {
			{ID: "1", Title: "比亚迪发布全新车型", Source: "autohome", SourceName: "汽车之家",
				URL: "https://example.com/1", PublishTime: now},
		},
	}, &llmmock.Client{})

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/news?sources=autohome&hours=24", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp newsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success || resp.Count != 1 || len(resp.Data) != 1 {
		t.Fatalf("unexpected response %+v", resp)
	}
	if resp.Note != "" {
		t.Errorf("expected no note for live data, got %q", resp.Note)
	}
	if resp.Data[0].Title != "比亚迪发布全新车型" {
		t.Errorf("unexpected item %+v", resp.Data[0])
	}
}

func TestNewsEndpointNotesMockFallback(t *testing.T) {
	server := newTestServer(nil, &llmmock.Client{})

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/news?sources=autohome,yiche&timeRange=1", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp newsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success || len(resp.Data) == 0 {
		t.Fatalf("expected canned items, got %+v", resp)
	}
	if !strings.Contains(resp.Note, "模拟数据") {
		t.Errorf("expected fallback note, got %q", resp.Note)
	}
}

func TestRewriteEndpoint(t *testing.T) {
	chat := &llmmock.Client{Responses: []llm.ChatResponse{{Content: "改写后的文案"}}}
	server := newTestServer(nil, chat)

	body := `{"news": {"title": "小米SU7交付提速", "summary": "订单破10万"}, "format": "short", "style": "news"}`
	req := httptest.NewRequest(http.MethodPost, "/api/rewrite", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp rewriteResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success || resp.Data != "改写后的文案" {
		t.Fatalf("unexpected response %+v", resp)
	}
	if len(chat.Calls) != 1 {
		t.Fatalf("expected one chat call, got %d", len(chat.Calls))
	}
}

func TestRewriteEndpointRejectsEmptyContent(t *testing.T) {
	server := newTestServer(nil, &llmmock.Client{})

	req := httptest.NewRequest(http.MethodPost, "/api/rewrite", strings.NewReader(`{"content": "  "}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Error != "内容不能为空" {
		t.Errorf("unexpected error %q", resp.Error)
	}
}

func TestRewriteEndpointFallsBackOnProviderFailure(t *testing.T) {
	chat := &llmmock.Client{}
	server := newTestServer(nil, chat)

	body := `{"content": "比亚迪秦L正式上市", "style": "vlog"}`
	req := httptest.NewRequest(http.MethodPost, "/api/rewrite", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with template fallback, got %d", rec.Code)
	}
	var resp rewriteResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !strings.Contains(resp.Data, "比亚迪秦L正式上市") {
		t.Errorf("expected fallback to carry the title, got %q", resp.Data)
	}
}

func TestHealthEndpoint(t *testing.T) {
	server := newTestServer(nil, &llmmock.Client{})

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
