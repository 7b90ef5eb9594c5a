package api

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/yuweichu1-web/auto-news-writer/internal/core"
)

type sourceDTO struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Icon     string `json:"icon"`
	Category string `json:"category,omitempty"`
}

type sourcesResponse struct {
	Success bool        `json:"success"`
	Data    []sourceDTO `json:"data"`
}

type newsResponse struct {
	Success bool            `json:"success"`
	Data    []core.NewsItem `json:"data"`
	Count   int             `json:"count"`
	Note    string          `json:"note,omitempty"`
}

type rewriteResponse struct {
	Success bool   `json:"success"`
	Data    string `json:"data"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// rewriteRequest accepts either a plain content string or a structured news
// item; both client generations are in the field.
type rewriteRequest struct {
	Content string       `json:"content"`
	News    *rewriteNews `json:"news"`
	Format  string       `json:"format"`
	Style   string       `json:"style"`
	Deep    bool         `json:"deep"`
}

type rewriteNews struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
}

// material resolves the title/summary pair to rewrite, preferring the
// structured form.
func (r rewriteRequest) material() (title, summary string) {
	if r.News != nil && strings.TrimSpace(r.News.Title) != "" {
		return strings.TrimSpace(r.News.Title), strings.TrimSpace(r.News.Summary)
	}
	return strings.TrimSpace(r.Content), ""
}

func splitSources(raw string) []string {
	ids := make([]string, 0, 4)
	for _, id := range strings.Split(raw, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

func intParam(c echo.Context, name string, fallback int) int {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func contextWithTimeout(c echo.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), timeout)
}
