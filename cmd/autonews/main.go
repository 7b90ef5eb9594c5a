package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/yuweichu1-web/auto-news-writer/internal/aggregate"
	"github.com/yuweichu1-web/auto-news-writer/internal/api"
	"github.com/yuweichu1-web/auto-news-writer/internal/config"
	"github.com/yuweichu1-web/auto-news-writer/internal/core"
	"github.com/yuweichu1-web/auto-news-writer/internal/fetch"
	llmopenai "github.com/yuweichu1-web/auto-news-writer/internal/llm/openai"
	"github.com/yuweichu1-web/auto-news-writer/internal/mocknews"
	"github.com/yuweichu1-web/auto-news-writer/internal/observability/otelx"
	"github.com/yuweichu1-web/auto-news-writer/internal/quality"
	"github.com/yuweichu1-web/auto-news-writer/internal/rewrite"
	"github.com/yuweichu1-web/auto-news-writer/internal/source"
)

func main() {
	cfg := config.LoadEnv()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otelx.Init(ctx, logger, cfg.OTel)
	if err != nil {
		log.Fatalf("failed to init tracing: %v", err)
	}
	if shutdownTracing != nil {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = shutdownTracing(shutdownCtx)
		}()
	}

	var overlay []core.SourceDescriptor
	var rules []*quality.RuleFilter
	if cfg.SourcesPath != "" {
		doc, err := config.LoadSourcesDocument(cfg.SourcesPath)
		if err != nil {
			log.Fatalf("failed to load sources document: %v", err)
		}
		overlay = doc.Sources
		for _, ruleCfg := range doc.QualityRules {
			rule, err := quality.NewRuleFilter(ruleCfg)
			if err != nil {
				log.Fatalf("failed to compile quality rule: %v", err)
			}
			rules = append(rules, rule)
		}
	}
	registry := source.NewRegistry(overlay...)

	llmClient := llmopenai.NewClient(cfg.LLM)

	aggregator := aggregate.New(
		registry,
		fetch.NewRSSFetcher(cfg.Fetch.HTTPTimeout, cfg.Fetch.UserAgent),
		fetch.NewScraper(cfg.Fetch.HTTPTimeout, cfg.Fetch.UserAgent),
		fetch.NewAISearcher(llmClient, cfg.LLM.SearchModel),
		quality.DefaultKeywordFilter(),
		rules,
		mocknews.NewGenerator(),
		aggregate.Config{
			PerSourceCap: cfg.News.PerSourceCap,
			TotalCap:     cfg.News.TotalCap,
			AISearchCap:  cfg.News.AISearchCap,
			DefaultHours: cfg.News.DefaultHours,
		},
		logger.With("component", "aggregator"),
	)

	rewriter := rewrite.New(llmClient, cfg.LLM.SearchModel, cfg.LLM.DeepModel, logger.With("component", "rewriter"))

	server := api.NewServer(registry, aggregator, rewriter, cfg.News.RequestTimeout, logger)

	go func() {
		logger.Info("starting server", "addr", cfg.ListenAddr)
		if err := server.Start(cfg.ListenAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server failed: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
}
