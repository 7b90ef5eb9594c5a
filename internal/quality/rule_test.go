package quality

import (
	"testing"

	"github.com/yuweichu1-web/auto-news-writer/internal/config"
	"github.com/yuweichu1-web/auto-news-writer/internal/core"
)

func TestRuleFilterDropsMatchingItems(t *testing.T) {
	filter, err := NewRuleFilter(config.QualityRule{
		Name:   "short_title",
		Rule:   "title.length < 5",
		Result: "drop",
	})
	if err != nil {
		t.Fatalf("expected rule to compile, got error: %v", err)
	}

	items := []core.NewsItem{
		{ID: "short", Title: "快讯"},
		{ID: "long", Title: "比亚迪发布全新车型"},
	}

	filtered := filter.Apply(nil, items)
	if len(filtered) != 1 {
		t.Fatalf("expected 1 item after filtering, got %d", len(filtered))
	}
	if filtered[0].ID != "long" {
		t.Errorf("expected long title to remain, got %s", filtered[0].ID)
	}
}

func TestRuleFilterKeepResultInverts(t *testing.T) {
	filter, err := NewRuleFilter(config.QualityRule{
		Name:   "only_autohome",
		Rule:   `source == "autohome"`,
		Result: "keep",
	})
	if err != nil {
		t.Fatalf("expected rule to compile, got error: %v", err)
	}

	items := []core.NewsItem{
		{ID: "1", Source: "autohome"},
		{ID: "2", Source: "yiche"},
	}

	filtered := filter.Apply(nil, items)
	if len(filtered) != 1 {
		t.Fatalf("expected 1 item after filtering, got %d", len(filtered))
	}
	if filtered[0].Source != "autohome" {
		t.Errorf("expected autohome item to remain, got %s", filtered[0].Source)
	}
}

func TestRuleFilterCompilesDocumentedEnvNames(t *testing.T) {
	// Every name the evaluation environment provides must be usable in a
	// rule expression straight from the YAML overlay.
	rules := []string{
		"title.length < 5",
		`title.value == "x"`,
		"summary.length > 100",
		`summary.value contains "测试"`,
		`source == "weibo"`,
		`url == "#"`,
	}
	for _, rule := range rules {
		filter, err := NewRuleFilter(config.QualityRule{Name: "r", Rule: rule, Result: "drop"})
		if err != nil {
			t.Fatalf("rule %q failed to compile: %v", rule, err)
		}
		items := []core.NewsItem{{ID: "1", Title: "比亚迪发布全新车型", Summary: "摘要", Source: "autohome", URL: "https://example.com/1"}}
		if filtered := filter.Apply(nil, items); len(filtered) != 1 {
			t.Errorf("rule %q unexpectedly dropped the item", rule)
		}
	}
}

func TestRuleFilterKeepsItemOnNonBoolResult(t *testing.T) {
	filter, err := NewRuleFilter(config.QualityRule{
		Name:   "bad_rule",
		Rule:   "title.length",
		Result: "drop",
	})
	if err != nil {
		t.Fatalf("expected rule to compile, got error: %v", err)
	}

	items := []core.NewsItem{{ID: "1", Title: "新车上市"}}
	if filtered := filter.Apply(nil, items); len(filtered) != 1 {
		t.Fatalf("expected non-bool rule to keep item, got %d items", len(filtered))
	}
}

func TestRuleFilterRejectsInvalidConfig(t *testing.T) {
	if _, err := NewRuleFilter(config.QualityRule{Name: "", Rule: "true"}); err == nil {
		t.Fatal("expected error for missing rule name")
	}
	if _, err := NewRuleFilter(config.QualityRule{Name: "broken", Rule: "title.length >"}); err == nil {
		t.Fatal("expected error for unparsable expression")
	}
}
