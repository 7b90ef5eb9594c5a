package source

import (
	"github.com/yuweichu1-web/auto-news-writer/internal/core"
)

// defaultSelectors are the listing-page selector candidates tried in order
// when a scrape descriptor does not bring its own. Target markup is unstable,
// so these are alternatives, not a combined selector.
var defaultSelectors = []string{
	".article-item a",
	".news-item a",
	".list-item a",
	".item a",
	`a[href*="article"]`,
}

// builtin is the process-wide static source catalog. RSS sources keep a
// listing page as a scrape fallback where the upstream exposes one.
var builtin = []core.SourceDescriptor{
	{
		ID: "autohome", Name: "汽车之家", Icon: "🚗", Category: "权威汽车媒体",
		Kind:      core.KindRSS,
		FeedURL:   "https://www.autohome.com.cn/rss/news.xml",
		PageURL:   "https://www.autohome.com.cn/rank/0-0-0-0-0-0-0-0-1-0-1-0-0-1/",
		Selectors: defaultSelectors,
	},
	{
		ID: "yiche", Name: "易车", Icon: "🚙", Category: "汽车垂直平台",
		Kind:      core.KindRSS,
		FeedURL:   "https://www.yiche.com/rss/news.xml",
		PageURL:   "https://www.yiche.com/zixun/",
		Selectors: defaultSelectors,
	},
	{
		ID: "163", Name: "网易汽车", Icon: "🚕", Category: "综合汽车媒体",
		Kind:      core.KindRSS,
		FeedURL:   "https://auto.163.com/rss/ENT03.xml",
		PageURL:   "https://auto.163.com/",
		Selectors: defaultSelectors,
	},
	{
		ID: "sohu", Name: "搜狐汽车", Icon: "🚖", Category: "综合汽车媒体",
		Kind:    core.KindRSS,
		FeedURL: "https://auto.sohu.com/index.xml",
	},
	{
		ID: "sina", Name: "新浪汽车", Icon: "🚔", Category: "综合汽车媒体",
		Kind:    core.KindRSS,
		FeedURL: "https://auto.sina.com.cn/rss.xml",
	},
	{
		ID: "pcauto", Name: "太平洋汽车", Icon: "🚘", Category: "汽车门户",
		Kind:      core.KindScrape,
		PageURL:   "https://www.pcauto.com.cn/",
		Selectors: defaultSelectors,
	},
	{
		ID: "dongche", Name: "懂车帝", Icon: "🏎️", Category: "字节跳动汽车",
		Kind:          core.KindAISearch,
		SearchKeyword: "site:dongchedi.com 新车 上市",
	},
	{
		ID: "weibo", Name: "微博汽车", Icon: "📱", Category: "微博热榜",
		Kind:          core.KindAISearch,
		SearchKeyword: "site:weibo.com 汽车热榜 新车",
	},
	{
		ID: "all", Name: "全网", Icon: "🌐", Category: "全网搜索",
		Kind:          core.KindAISearch,
		SearchKeyword: "汽车 新车 上市 政策 行业",
	},
}

// Registry is the immutable catalog of known sources. Construct once at
// startup; lookups are safe for concurrent use.
type Registry struct {
	order []string
	byID  map[string]core.SourceDescriptor
}

// NewRegistry returns the builtin catalog, with overlay descriptors applied on
// top. An overlay descriptor with a known id replaces the builtin one;
// otherwise it is appended.
func NewRegistry(overlay ...core.SourceDescriptor) *Registry {
	r := &Registry{byID: make(map[string]core.SourceDescriptor, len(builtin)+len(overlay))}
	for _, desc := range builtin {
		r.put(desc)
	}
	for _, desc := range overlay {
		if desc.Kind == core.KindScrape && len(desc.Selectors) == 0 {
			desc.Selectors = defaultSelectors
		}
		r.put(desc)
	}
	return r
}

func (r *Registry) put(desc core.SourceDescriptor) {
	if _, known := r.byID[desc.ID]; !known {
		r.order = append(r.order, desc.ID)
	}
	r.byID[desc.ID] = desc
}

// Lookup resolves a source id. Unknown ids are reported via ok=false; callers
// are expected to skip them rather than fail.
func (r *Registry) Lookup(id string) (core.SourceDescriptor, bool) {
	desc, ok := r.byID[id]
	return desc, ok
}

// All returns every descriptor in catalog order.
func (r *Registry) All() []core.SourceDescriptor {
	out := make([]core.SourceDescriptor, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}
