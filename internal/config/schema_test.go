package config

import (
	"strings"
	"testing"

	"github.com/yuweichu1-web/auto-news-writer/internal/core"
)

const sampleDocument = `
sources:
  - id: autohome
    name: 汽车之家
    kind: rss
    feed_url: https://example.com/feed.xml
  - id: localnews
    kind: scrape
    page_url: https://example.com/news/
    selectors:
      - ".news-item a"
quality_rules:
  - name: short_title
    rule: title.length < 5
    result: drop
`

func TestParseSourcesDocument(t *testing.T) {
	doc, err := ParseSourcesDocument([]byte(sampleDocument))
	if err != nil {
		t.Fatalf("expected document to parse, got error: %v", err)
	}

	if len(doc.Sources) != 2 {
		t.Fatalf("expected 2 sources, got %d", len(doc.Sources))
	}
	if doc.Sources[0].Kind != core.KindRSS {
		t.Errorf("expected first source kind rss, got %s", doc.Sources[0].Kind)
	}
	if doc.Sources[1].Name != "localnews" {
		t.Errorf("expected missing name to default to id, got %q", doc.Sources[1].Name)
	}

	if len(doc.QualityRules) != 1 {
		t.Fatalf("expected 1 quality rule, got %d", len(doc.QualityRules))
	}
	if doc.QualityRules[0].Result != "drop" {
		t.Errorf("expected rule result drop, got %q", doc.QualityRules[0].Result)
	}
}

func TestParseSourcesDocumentValidation(t *testing.T) {
	cases := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{
			name:    "rss without feed url",
			doc:     "sources:\n  - id: broken\n    kind: rss\n",
			wantErr: "feed_url",
		},
		{
			name:    "scrape without selectors",
			doc:     "sources:\n  - id: broken\n    kind: scrape\n    page_url: https://example.com/\n",
			wantErr: "selectors",
		},
		{
			name:    "ai_search without keyword",
			doc:     "sources:\n  - id: broken\n    kind: ai_search\n",
			wantErr: "search_keyword",
		},
		{
			name:    "unknown kind",
			doc:     "sources:\n  - id: broken\n    kind: carrier_pigeon\n",
			wantErr: "unknown kind",
		},
		{
			name:    "rule with bad result",
			doc:     "quality_rules:\n  - name: r\n    rule: \"true\"\n    result: maybe\n",
			wantErr: "drop or keep",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseSourcesDocument([]byte(tc.doc))
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("expected error mentioning %q, got %v", tc.wantErr, err)
			}
		})
	}
}
