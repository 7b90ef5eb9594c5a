package quality

import (
	"strings"

	"github.com/yuweichu1-web/auto-news-writer/internal/core"
)

// defaultInclude is the topical gate for AI-search results: launches,
// regulation, sales/delivery milestones, partnerships, and the brands the
// product tracks.
var defaultInclude = []string{
	"新车", "上市", "发布", "预售", "亮相", "首发",
	"政策", "补贴", "法规", "标准", "规划",
	"行业", "销量", "交付", "财报", "投资", "合作",
	"新能源", "电动车", "智驾", "电池", "续航",
	"比亚迪", "特斯拉", "小米", "华为", "吉利", "长城", "长安", "奇瑞",
	"问界", "理想", "蔚来", "小鹏", "零跑", "哪吒", "极氪", "领克",
}

// defaultExclude drops review/accident/recall/used-car noise.
var defaultExclude = []string{
	"视频", "短视频", "直播", "带货", "评测", "试驾",
	"车祸", "事故", "维权", "投诉", "召回",
	"二手车", "降价", "优惠",
}

// KeywordFilter gates items by case-insensitive substring match over
// title+summary. Exclusion wins: an item matching any exclusion keyword is
// dropped even when it also matches an inclusion keyword. The remainder must
// match at least one inclusion keyword. Applying the filter twice yields the
// same list.
type KeywordFilter struct {
	include []string
	exclude []string
}

func NewKeywordFilter(include, exclude []string) *KeywordFilter {
	lower := func(keywords []string) []string {
		out := make([]string, 0, len(keywords))
		for _, kw := range keywords {
			if kw = strings.ToLower(strings.TrimSpace(kw)); kw != "" {
				out = append(out, kw)
			}
		}
		return out
	}
	return &KeywordFilter{include: lower(include), exclude: lower(exclude)}
}

// DefaultKeywordFilter returns the filter with the builtin automotive keyword sets.
func DefaultKeywordFilter() *KeywordFilter {
	return NewKeywordFilter(defaultInclude, defaultExclude)
}

func (f *KeywordFilter) Apply(items []core.NewsItem) []core.NewsItem {
	filtered := make([]core.NewsItem, 0, len(items))
	for _, item := range items {
		content := strings.ToLower(item.Title + " " + item.Summary)
		if containsAny(content, f.exclude) {
			continue
		}
		if !containsAny(content, f.include) {
			continue
		}
		filtered = append(filtered, item)
	}
	return filtered
}

func containsAny(content string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(content, kw) {
			return true
		}
	}
	return false
}
