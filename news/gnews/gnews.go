package gnews

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"taqrir/config"
	"taqrir/models"
	"taqrir/news"
)

// GNews searches gnews.io as the fallback provider. It has no title-only
// search, so only the body mode is advertised.
type GNews struct {
	cfg        config.NewsProviderConfig
	httpClient *http.Client
}

func New(cfg config.NewsProviderConfig) *GNews {
	return &GNews{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

func (g *GNews) Name() string { return "gnews" }

func (g *GNews) Available() bool { return g.cfg.Enabled() }

func (g *GNews) Modes() []news.Mode { return []news.Mode{news.ModeBody} }

type article struct {
	Source struct {
		Name string `json:"name"`
	} `json:"source"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Content     string `json:"content"`
	URL         string `json:"url"`
	PublishedAt string `json:"publishedAt"`
}

type response struct {
	TotalArticles int       `json:"totalArticles"`
	Articles      []article `json:"articles"`
}

func (g *GNews) Search(ctx context.Context, query, language string, mode news.Mode, from time.Time) ([]models.Article, error) {
	params := url.Values{}
	params.Add("q", query)
	params.Add("lang", language)
	params.Add("from", from.UTC().Format("2006-01-02T15:04:05Z"))
	params.Add("max", "100")
	params.Add("apikey", g.cfg.APIKey)

	reqURL := fmt.Sprintf("%s?%s", g.cfg.Endpoint, params.Encode())
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch news: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gnews error: %s", resp.Status)
	}

	var result response
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	out := make([]models.Article, 0, len(result.Articles))
	for _, a := range result.Articles {
		if strings.TrimSpace(a.URL) == "" {
			continue
		}
		name := a.Source.Name
		if name == "" {
			name = "غير معروف"
		}
		out = append(out, models.Article{
			Source:      name,
			Provider:    g.Name(),
			Title:       a.Title,
			Description: a.Description,
			URL:         a.URL,
			Content:     a.Content,
			PublishedAt: parseTime(a.PublishedAt),
		})
	}
	return out, nil
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
