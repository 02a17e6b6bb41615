package newsapi

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

// NewsAPI searches newsapi.org's /everything endpoint.
type NewsAPI struct {
	cfg        config.NewsProviderConfig
	httpClient *http.Client
}

func New(cfg config.NewsProviderConfig) *NewsAPI {
	return &NewsAPI{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

func (n *NewsAPI) Name() string { return "newsapi" }

func (n *NewsAPI) Available() bool { return n.cfg.Enabled() }

func (n *NewsAPI) Modes() []news.Mode { return []news.Mode{news.ModeBody, news.ModeTitle} }

type article struct {
	Source struct {
		Name string `json:"name"`
	} `json:"source"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Content     string `json:"content"`
	PublishedAt string `json:"publishedAt"`
}

type response struct {
	Status       string    `json:"status"`
	TotalResults int       `json:"totalResults"`
	Articles     []article `json:"articles"`
}

// Search issues one request for one (query, language, mode) combination.
func (n *NewsAPI) Search(ctx context.Context, query, language string, mode news.Mode, from time.Time) ([]models.Article, error) {
	params := url.Values{}
	switch mode {
	case news.ModeTitle:
		params.Add("qInTitle", query)
	default:
		params.Add("q", query)
	}
	params.Add("language", language)
	params.Add("from", from.UTC().Format("2006-01-02T15:04:05Z"))
	params.Add("pageSize", "100")
	params.Add("sortBy", "publishedAt")
	params.Add("apiKey", n.cfg.APIKey)

	reqURL := fmt.Sprintf("%s?%s", n.cfg.Endpoint, params.Encode())
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := n.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch news: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("newsapi error: %s", resp.Status)
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
		out = append(out, models.Article{
			Source:      a.Source.Name,
			Provider:    n.Name(),
			Title:       a.Title,
			Description: a.Description,
			URL:         a.URL,
			Content:     a.Content,
			PublishedAt: parseTime(a.PublishedAt),
		})
	}
	return out, nil
}

// parseTime tolerates missing or malformed timestamps: callers treat the
// zero time as "unknown, sorts last".
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
