package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"taqrir/config"
	"taqrir/internal/dedup"
	"taqrir/internal/jobs"
	"taqrir/internal/pipeline"
	"taqrir/internal/query"
	"taqrir/internal/retrieval"
	"taqrir/news"
	"taqrir/news/gnews"
	"taqrir/news/newsapi"
	"taqrir/provider"
	"taqrir/tools/embedding"
	"taqrir/tools/web_fetch"
)

// Run builds the full dependency graph from config and serves the job
// API until the listener stops.
func Run(cfg *config.Config) error {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	baseLogger := log.New(log.Writer(), "[HTTP] ", log.LstdFlags)
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		msg := err.Error()
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			if he.Message != nil {
				msg = fmt.Sprint(he.Message)
			}
		}
		req := c.Request()
		baseLogger.Printf("%d %s %s from %s: %v", code, req.Method, req.URL.Path, c.RealIP(), err)
		if !c.Response().Committed {
			_ = c.JSON(code, map[string]interface{}{"error": msg})
		}
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Cookie"},
		AllowCredentials: true,
	}))

	e.GET("/healthz", func(c echo.Context) error { return c.String(200, "ok") })
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	llm, err := provider.NewProvider(provider.OpenAI, cfg.Providers.OpenAI)
	if err != nil {
		if err != provider.ErrNoAPIKey {
			return fmt.Errorf("llm provider: %w", err)
		}
		baseLogger.Printf("openai key absent: LLM stages will degrade")
		llm = nil
	}

	var embedder dedup.Embedder
	if llm != nil {
		embedder = embedding.NewEmbedding(llm)
	}

	var providers []news.SearchProvider
	if cfg.Providers.NewsAPI.Enabled() {
		providers = append(providers, newsapi.New(cfg.Providers.NewsAPI))
	}
	if cfg.Providers.GNews.Enabled() {
		providers = append(providers, gnews.New(cfg.Providers.GNews))
	}

	fetcher, err := web_fetch.NewWebFetcher(web_fetch.FetcherType(cfg.Extraction.Fetcher), cfg.Extraction.Timeout, cfg.Extraction.MaxChars)
	if err != nil {
		return fmt.Errorf("web fetcher: %w", err)
	}

	expander := query.NewExpander(llm)
	aggregator := news.NewAggregator(cfg.Search.Languages)
	controller := retrieval.NewController(aggregator, providers, expander, cfg.Search)
	pipe := pipeline.New(cfg, controller, fetcher, llm, embedder)

	store, err := newJobStore(cfg)
	if err != nil {
		return fmt.Errorf("job store: %w", err)
	}
	runner := jobs.NewRunner(store, pipe, cfg.Storage.JobQueue, cfg.Storage.Workers)
	defer runner.Close()

	h := &ReportsHandler{Store: store, Runner: runner}
	h.Register(e.Group("/api/reports"))

	return e.Start(cfg.Server.Address)
}

func newJobStore(cfg *config.Config) (jobs.Store, error) {
	switch cfg.Storage.JobStore {
	case "redis":
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return jobs.NewRedisStore(ctx, cfg.Storage.Redis)
	case "", "memory":
		return jobs.NewInMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown job store %q", cfg.Storage.JobStore)
	}
}
