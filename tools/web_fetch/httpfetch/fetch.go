package httpfetch

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-shiori/go-readability"

	"taqrir/tools/web_fetch/models"
)

// Fetch downloads pages with a plain HTTP client and extracts the
// article body with readability. Good enough for most news sites; the
// chromedp fetcher covers script-rendered pages.
type Fetch struct {
	Timeout  time.Duration
	MaxChars int
}

func (f Fetch) Exec(ctx context.Context, rawURL string) (models.Result, error) {
	if strings.TrimSpace(rawURL) == "" {
		return models.Result{}, errors.New("invalid url")
	}

	ctx, cancel := context.WithTimeout(ctx, f.Timeout)
	defer cancel()
	t0 := time.Now()

	req, err := http.NewRequestWithContext(ctx, "GET", rawURL, nil)
	if err != nil {
		return models.Result{URL: rawURL, Status: 599}, err
	}
	req.Header.Set("User-Agent", "taqrir/1.0 (+report generation)")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return models.Result{URL: rawURL, Status: 599, RenderMS: msSince(t0)}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.Result{URL: rawURL, Status: resp.StatusCode, RenderMS: msSince(t0)}, errors.New("unexpected status " + resp.Status)
	}

	article, err := readability.FromReader(resp.Body, mustParseURL(rawURL))
	if err != nil {
		return models.Result{URL: rawURL, Status: resp.StatusCode, RenderMS: msSince(t0)}, err
	}

	text := strings.TrimSpace(article.TextContent)
	if len(text) > f.MaxChars {
		text = text[:f.MaxChars]
	}
	return models.Result{
		URL:      rawURL,
		Title:    strings.TrimSpace(article.Title),
		Text:     text,
		Status:   resp.StatusCode,
		RenderMS: msSince(t0),
	}, nil
}

func msSince(t time.Time) int { return int(time.Since(t) / time.Millisecond) }

func mustParseURL(raw string) *url.URL {
	u, err := url.Parse(raw)
	if err != nil {
		return &url.URL{}
	}
	return u
}
