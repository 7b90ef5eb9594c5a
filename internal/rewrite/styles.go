package rewrite

// Style describes one rewrite tone: the system prompt sent to the model and
// the deterministic template substituted when the provider is unavailable.
type Style struct {
	ID       string
	Name     string
	Prompt   string
	Fallback func(title, summary string) string
}

const (
	StyleVlog   = "vlog"
	StyleReview = "review"
	StylePush   = "push"
	StyleNews   = "news"
)

const (
	FormatShort = "short"
	FormatLong  = "long"
)

var styles = map[string]Style{
	StyleVlog: {
		ID:   StyleVlog,
		Name: "vlog风",
		Prompt: `你是一位资深的汽车博主，用生动的vlog风格来改写这段新闻。要求：
1. 使用口语化、活泼的语言
2. 适当加入语气词和感叹
3. 就像在和观众聊天一样
4. 保持内容的真实性`,
		Fallback: func(title, summary string) string {
			return "哇塞！兄弟们，最新消息来了！" + title + "\n\n讲真，看完这个我整个人都激动了。" + clip(summary, 60) + "...\n\n兄弟们，你们觉得这车怎么样？评论区聊聊！🚗💨"
		},
	},
	StyleReview: {
		ID:   StyleReview,
		Name: "专业评测风",
		Prompt: `你是一位资深的汽车评测师，用专业但易懂的语言来改写这段新闻。要求：
1. 保持客观理性的态度
2. 适当加入数据和专业术语
3. 像老司机分享经验一样
4. 分析产品的优缺点`,
		Fallback: func(title, summary string) string {
			return "【新车快讯】" + title + "\n\n" + summary + "\n\n从专业角度来看，这次更新确实很有诚意。产品力提升明显，无论是配置还是价格都很有竞争力。建议感兴趣的朋友可以关注一下实车表现。"
		},
	},
	StylePush: {
		ID:   StylePush,
		Name: "种草安利风",
		Prompt: `你是一位热情的种草博主，用极具感染力的语言来推荐这款车型。要求：
1. 充满热情和激情
2. 突出产品的亮点和优势
3. 适当使用夸张的表达
4. 激发读者的购买欲望`,
		Fallback: func(title, summary string) string {
			return "🔥重磅推荐！" + title + "！\n\n" + summary + "\n\n真的！这次太给力了！宝子们，这波绝对不能错过！\n\n私我了解详情，还有额外福利！先到先得！冲鸭！🎉"
		},
	},
	StyleNews: {
		ID:   StyleNews,
		Name: "新闻报道风",
		Prompt: `你是一位专业的汽车编辑，用新闻报道的方式来呈现这条资讯。要求：
1. 语言简洁明了
2. 保持客观中立
3. 突出新闻价值点
4. 使用规范的新闻语言`,
		Fallback: func(title, summary string) string {
			return "【汽车资讯】" + title + "\n\n" + summary + "\n\n记者了解到，该车型/技术的推出将进一步丰富消费者的选择空间。具体售价及配置信息，请关注官方后续报道。"
		},
	},
}

// StyleFor resolves a style id, defaulting to the vlog tone like the product
// always has.
func StyleFor(id string) Style {
	if style, ok := styles[id]; ok {
		return style
	}
	return styles[StyleVlog]
}

func lengthHint(format string) string {
	if format == FormatLong {
		return "长度控制在500-1500字，可以分点详细说明"
	}
	return "长度控制在100-300字"
}

func clip(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
