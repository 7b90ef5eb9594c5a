package rewrite

import (
	"context"
	"log/slog"
	"strings"
	"text/template"

	"github.com/yuweichu1-web/auto-news-writer/internal/llm"
)

const userPromptTemplate = `请根据以下新闻素材进行改写：

新闻标题：{{.Title}}
{{if .Summary}}
新闻内容：{{.Summary}}
{{end}}
{{.LengthHint}}

请按照以上风格要求进行改写。`

// Rewriter restyles a news item through the chat endpoint, substituting a
// deterministic per-style template whenever the provider fails or returns
// nothing. Callers therefore always get usable content back.
type Rewriter struct {
	client      llm.Client
	model       string
	deepModel   string
	maxTokens   int
	temperature float64
	prompt      *template.Template
	logger      *slog.Logger
}

func New(client llm.Client, model, deepModel string, logger *slog.Logger) *Rewriter {
	if logger == nil {
		logger = slog.Default()
	}
	if deepModel == "" {
		deepModel = model
	}
	return &Rewriter{
		client:      client,
		model:       model,
		deepModel:   deepModel,
		maxTokens:   2048,
		temperature: 0.7,
		prompt:      template.Must(template.New("rewrite").Parse(userPromptTemplate)),
		logger:      logger,
	}
}

// Rewrite returns the restyled text and whether it came from the local
// fallback template rather than the model.
func (r *Rewriter) Rewrite(ctx context.Context, title, summary, format, styleID string, deep bool) (string, bool) {
	style := StyleFor(styleID)

	userPrompt, err := r.userPrompt(title, summary, format)
	if err != nil {
		r.logger.Warn("rewrite prompt build failed", "error", err)
		return style.Fallback(title, summary), true
	}

	model := r.model
	if deep {
		model = r.deepModel
	}

	if r.client != nil {
		// One attempt per call; any failure goes straight to the template.
		response, err := r.client.ChatCompletion(ctx, llm.ChatRequest{
			Model: model,
			Messages: []llm.Message{
				{Role: llm.RoleSystem, Content: style.Prompt},
				{Role: llm.RoleUser, Content: userPrompt},
			},
			Temperature: r.temperature,
			MaxTokens:   r.maxTokens,
		})
		if err != nil {
			r.logger.Warn("rewrite call failed, using template", "style", style.ID, "error", err)
		} else if text := strings.TrimSpace(response.Content); text != "" {
			return text, false
		} else {
			r.logger.Warn("rewrite returned empty content, using template", "style", style.ID)
		}
	}

	return style.Fallback(title, summary), true
}

func (r *Rewriter) userPrompt(title, summary, format string) (string, error) {
	builder := &strings.Builder{}
	err := r.prompt.Execute(builder, struct {
		Title      string
		Summary    string
		LengthHint string
	}{Title: title, Summary: summary, LengthHint: lengthHint(format)})
	if err != nil {
		return "", err
	}
	return builder.String(), nil
}
