package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/yuweichu1-web/auto-news-writer/internal/core"
)

// SourcesDocument is the optional YAML overlay that adds or replaces source
// descriptors on top of the builtin catalog and declares custom quality rules.
type SourcesDocument struct {
	Sources      []core.SourceDescriptor `yaml:"sources,omitempty"`
	QualityRules []QualityRule           `yaml:"quality_rules,omitempty"`
}

// QualityRule is an expr-lang expression evaluated against each news item.
// Result decides what a match means: "drop" removes matching items, "keep"
// removes everything else.
type QualityRule struct {
	Name   string `yaml:"name"`
	Rule   string `yaml:"rule"`
	Result string `yaml:"result"`
}

// LoadSourcesDocument reads and validates a sources overlay file.
func LoadSourcesDocument(path string) (*SourcesDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseSourcesDocument(data)
}

func ParseSourcesDocument(data []byte) (*SourcesDocument, error) {
	var doc SourcesDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse sources document: %w", err)
	}
	for i := range doc.Sources {
		if err := validateDescriptor(&doc.Sources[i]); err != nil {
			return nil, err
		}
	}
	for _, rule := range doc.QualityRules {
		if rule.Name == "" || rule.Rule == "" {
			return nil, fmt.Errorf("quality rule name and expression are required")
		}
		switch rule.Result {
		case "drop", "keep":
		default:
			return nil, fmt.Errorf("quality rule %q: result must be drop or keep", rule.Name)
		}
	}
	return &doc, nil
}

func validateDescriptor(desc *core.SourceDescriptor) error {
	if desc.ID == "" {
		return fmt.Errorf("source id is required")
	}
	if desc.Name == "" {
		desc.Name = desc.ID
	}
	switch desc.Kind {
	case core.KindRSS:
		if desc.FeedURL == "" {
			return fmt.Errorf("source %q: feed_url is required for kind rss", desc.ID)
		}
	case core.KindScrape:
		if desc.PageURL == "" || len(desc.Selectors) == 0 {
			return fmt.Errorf("source %q: page_url and selectors are required for kind scrape", desc.ID)
		}
	case core.KindAISearch:
		if desc.SearchKeyword == "" {
			return fmt.Errorf("source %q: search_keyword is required for kind ai_search", desc.ID)
		}
	default:
		return fmt.Errorf("source %q: unknown kind %q", desc.ID, desc.Kind)
	}
	return nil
}
