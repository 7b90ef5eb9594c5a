package source

import (
	"testing"

	"github.com/yuweichu1-web/auto-news-writer/internal/core"
)

func TestRegistryBuiltinCatalog(t *testing.T) {
	r := NewRegistry()

	all := r.All()
	if len(all) != 9 {
		t.Fatalf("expected 9 builtin sources, got %d", len(all))
	}
	if all[0].ID != "autohome" {
		t.Errorf("expected catalog order to start with autohome, got %s", all[0].ID)
	}

	desc, ok := r.Lookup("dongche")
	if !ok {
		t.Fatal("expected dongche to resolve")
	}
	if desc.Kind != core.KindAISearch {
		t.Errorf("expected dongche to be ai_search, got %s", desc.Kind)
	}
	if desc.SearchKeyword == "" {
		t.Error("expected dongche to carry a search keyword")
	}

	if _, ok := r.Lookup("unknown"); ok {
		t.Error("expected unknown id to miss")
	}
}

func TestRegistryOverlayReplacesBuiltin(t *testing.T) {
	r := NewRegistry(core.SourceDescriptor{
		ID: "autohome", Name: "汽车之家测试", Kind: core.KindRSS,
		FeedURL: "https://example.com/feed.xml",
	})

	desc, ok := r.Lookup("autohome")
	if !ok {
		t.Fatal("expected autohome to resolve")
	}
	if desc.FeedURL != "https://example.com/feed.xml" {
		t.Errorf("expected overlay feed URL, got %s", desc.FeedURL)
	}
	if len(r.All()) != 9 {
		t.Errorf("expected overlay replacement to keep catalog size, got %d", len(r.All()))
	}
}

func TestRegistryOverlayAppendsNewSource(t *testing.T) {
	r := NewRegistry(core.SourceDescriptor{
		ID: "custom", Name: "自定义", Kind: core.KindScrape,
		PageURL: "https://example.com/news/",
	})

	all := r.All()
	if len(all) != 10 {
		t.Fatalf("expected appended source, got %d entries", len(all))
	}
	if all[len(all)-1].ID != "custom" {
		t.Errorf("expected custom source appended last, got %s", all[len(all)-1].ID)
	}

	desc, _ := r.Lookup("custom")
	if len(desc.Selectors) == 0 {
		t.Error("expected scrape overlay without selectors to get the default candidates")
	}
}
