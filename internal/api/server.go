package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/yuweichu1-web/auto-news-writer/internal/aggregate"
	"github.com/yuweichu1-web/auto-news-writer/internal/core"
	"github.com/yuweichu1-web/auto-news-writer/internal/rewrite"
	"github.com/yuweichu1-web/auto-news-writer/internal/source"
)

const serviceVersion = "3.0"

// Server is the thin HTTP adapter over the aggregation and rewrite cores.
type Server struct {
	registry       *source.Registry
	aggregator     *aggregate.Aggregator
	rewriter       *rewrite.Rewriter
	requestTimeout time.Duration
	echo           *echo.Echo
	logger         *slog.Logger
}

func NewServer(registry *source.Registry, aggregator *aggregate.Aggregator, rewriter *rewrite.Rewriter, requestTimeout time.Duration, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if requestTimeout <= 0 {
		requestTimeout = 60 * time.Second
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAuthorization},
	}))

	server := &Server{
		registry:       registry,
		aggregator:     aggregator,
		rewriter:       rewriter,
		requestTimeout: requestTimeout,
		echo:           e,
		logger:         logger,
	}
	server.setupRoutes()
	return server
}

func (s *Server) setupRoutes() {
	s.echo.GET("/", s.handleIndex)
	s.echo.GET("/healthz", s.handleHealth)

	api := s.echo.Group("/api")
	api.GET("/sources", s.handleSources)
	api.GET("/news", s.handleNews)
	api.POST("/rewrite", s.handleRewrite)
}

func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

// Handler exposes the router for httptest-based tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) handleIndex(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"name":    "汽车新闻快编 API",
		"version": serviceVersion,
		"endpoints": map[string]string{
			"/api/sources": "获取新闻源",
			"/api/news":    "获取新闻",
			"/api/rewrite": "AI改写",
		},
	})
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"service": "auto-news-writer",
	})
}

func (s *Server) handleSources(c echo.Context) error {
	descs := s.registry.All()
	data := make([]sourceDTO, 0, len(descs))
	for _, desc := range descs {
		data = append(data, sourceDTO{
			ID:       desc.ID,
			Name:     desc.Name,
			Icon:     desc.Icon,
			Category: desc.Category,
		})
	}
	return c.JSON(http.StatusOK, sourcesResponse{Success: true, Data: data})
}

func (s *Server) handleNews(c echo.Context) error {
	ids := splitSources(c.QueryParam("sources"))
	if len(ids) == 0 {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "请选择新闻源"})
	}
	hours := intParam(c, "hours", 0)
	if hours <= 0 {
		// The AI-search variants speak in days.
		if days := intParam(c, "timeRange", 0); days > 0 {
			hours = days * 24
		}
	}

	ctx, cancel := contextWithTimeout(c, s.requestTimeout)
	defer cancel()
	requestID := c.Response().Header().Get(echo.HeaderXRequestID)
	ctx = core.WithRequestID(ctx, requestID)
	ctx = core.WithLogger(ctx, s.logger.With("request_id", requestID))

	result, err := s.aggregator.FetchNews(ctx, ids, hours)
	if err != nil {
		if err == aggregate.ErrNoSources {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "请选择新闻源"})
		}
		s.logger.Error("aggregation failed", "error", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "获取新闻失败"})
	}

	resp := newsResponse{Success: true, Data: result.Items, Count: len(result.Items)}
	if result.Fallback {
		resp.Note = "使用模拟数据（抓取失败）"
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleRewrite(c echo.Context) error {
	var req rewriteRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "请求格式错误"})
	}

	title, summary := req.material()
	if title == "" {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "内容不能为空"})
	}

	ctx, cancel := contextWithTimeout(c, s.requestTimeout)
	defer cancel()
	requestID := c.Response().Header().Get(echo.HeaderXRequestID)
	ctx = core.WithRequestID(ctx, requestID)
	ctx = core.WithLogger(ctx, s.logger.With("request_id", requestID))

	text, _ := s.rewriter.Rewrite(ctx, title, summary, req.Format, req.Style, req.Deep)
	return c.JSON(http.StatusOK, rewriteResponse{Success: true, Data: text})
}
