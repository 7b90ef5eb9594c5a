package quality

import (
	"fmt"
	"log/slog"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/yuweichu1-web/auto-news-writer/internal/config"
	"github.com/yuweichu1-web/auto-news-writer/internal/core"
)

// RuleFilter evaluates an operator-supplied expr expression against each news
// item. With result "drop", matching items are removed; with "keep", only
// matching items survive. An item whose evaluation errors is kept so one bad
// rule cannot empty a response.
type RuleFilter struct {
	name    string
	result  string
	program *vm.Program
}

func NewRuleFilter(cfg config.QualityRule) (*RuleFilter, error) {
	if cfg.Name == "" || cfg.Rule == "" {
		return nil, fmt.Errorf("quality rule name and expression are required")
	}
	program, err := expr.Compile(cfg.Rule, expr.AllowUndefinedVariables())
	if err != nil {
		return nil, fmt.Errorf("compile quality rule %q: %w", cfg.Name, err)
	}
	result := cfg.Result
	if result == "" {
		result = "drop"
	}
	return &RuleFilter{name: cfg.Name, result: result, program: program}, nil
}

func (f *RuleFilter) Name() string {
	return f.name
}

func (f *RuleFilter) Apply(logger *slog.Logger, items []core.NewsItem) []core.NewsItem {
	if logger == nil {
		logger = slog.Default()
	}
	filtered := make([]core.NewsItem, 0, len(items))
	for _, item := range items {
		value, err := expr.Run(f.program, ruleEnv(item))
		if err != nil {
			logger.Warn("quality rule failed", "rule", f.name, "item_id", item.ID, "error", err)
			filtered = append(filtered, item)
			continue
		}
		matched, ok := value.(bool)
		if !ok {
			logger.Warn("quality rule did not return bool", "rule", f.name, "item_id", item.ID)
			filtered = append(filtered, item)
			continue
		}
		if matched == (f.result == "drop") {
			continue
		}
		filtered = append(filtered, item)
	}
	return filtered
}

func ruleEnv(item core.NewsItem) map[string]interface{} {
	return map[string]interface{}{
		"title": map[string]interface{}{
			"value":  item.Title,
			"length": len([]rune(item.Title)),
		},
		"summary": map[string]interface{}{
			"value":  item.Summary,
			"length": len([]rune(item.Summary)),
		},
		"source":       item.Source,
		"url":          item.URL,
		"publish_time": item.PublishTime,
	}
}
