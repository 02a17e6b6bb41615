package retrieval

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"taqrir/config"
	"taqrir/internal/query"
	"taqrir/models"
	"taqrir/news"
)

func searchConfig() config.SearchConfig {
	return config.SearchConfig{
		MinResults:    4,
		MaxResults:    60,
		PerDomainCap:  3,
		PeriodDays:    14,
		MaxPeriodDays: 60,
		Languages:     []string{"ar", "en"},
	}
}

// scriptedProvider returns a fixed number of fresh articles per Search
// call and records every request it sees.
type scriptedProvider struct {
	name      string
	perCall   int
	available bool
	err       error
	requests  []string
	serial    int
}

func (p *scriptedProvider) Name() string      { return p.name }
func (p *scriptedProvider) Available() bool   { return p.available }
func (p *scriptedProvider) Modes() []news.Mode { return []news.Mode{news.ModeBody} }

func (p *scriptedProvider) Search(_ context.Context, q, lang string, mode news.Mode, _ time.Time) ([]models.Article, error) {
	p.requests = append(p.requests, fmt.Sprintf("%s|%s|%s", q, lang, mode))
	if p.err != nil {
		return nil, p.err
	}
	var out []models.Article
	for i := 0; i < p.perCall; i++ {
		p.serial++
		out = append(out, models.Article{
			URL:   fmt.Sprintf("https://%s.example/%d", p.name, p.serial),
			Title: fmt.Sprintf("%s article %d", p.name, p.serial),
		})
	}
	return out, nil
}

func newTestController(providers ...news.SearchProvider) *Controller {
	return NewController(news.NewAggregator([]string{"ar", "en"}), providers, query.NewExpander(nil), searchConfig())
}

func TestRun_StopsAtMinimum(t *testing.T) {
	t.Parallel()
	p := &scriptedProvider{name: "rich", perCall: 3, available: true}
	c := newTestController(p)

	found, err := c.Run(context.Background(), "Sudan ceasefire talks", 14)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(found) < 4 {
		t.Errorf("expected at least the minimum, got %d", len(found))
	}
	// stage 1 for an english query issues one subquery across two
	// languages; that already clears MIN=4, so no later stage runs
	if len(p.requests) != 2 {
		t.Errorf("expected 2 requests (stage 1 only), got %d: %v", len(p.requests), p.requests)
	}
}

func TestRun_AccumulatesAcrossStages(t *testing.T) {
	t.Parallel()
	p := &scriptedProvider{name: "sparse", perCall: 1, available: true}
	c := newTestController(p)

	found, err := c.Run(context.Background(), "مجاعة السودان", 14)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(found) < 4 {
		t.Errorf("accumulation across stages should reach the minimum, got %d", len(found))
	}
}

func TestRun_NoRepeatedCombos(t *testing.T) {
	t.Parallel()
	p := &scriptedProvider{name: "empty", perCall: 0, available: true, err: errors.New("nothing")}
	c := newTestController(p)

	_, _ = c.Run(context.Background(), "مجاعة السودان", 14)

	seen := make(map[string]int)
	for _, r := range p.requests {
		seen[r]++
	}
	for combo, count := range seen {
		if count > 1 {
			t.Errorf("combo %q issued %d times", combo, count)
		}
	}
}

func TestRun_EmptyIsError(t *testing.T) {
	t.Parallel()
	p := &scriptedProvider{name: "down", available: true, err: errors.New("http 500")}
	c := newTestController(p)

	_, err := c.Run(context.Background(), "anything at all here", 14)
	if !errors.Is(err, ErrNoArticles) {
		t.Fatalf("expected ErrNoArticles, got %v", err)
	}
}

func TestRun_UnavailableProviderSkipped(t *testing.T) {
	t.Parallel()
	down := &scriptedProvider{name: "nokey", available: false, perCall: 5}
	up := &scriptedProvider{name: "ok", available: true, perCall: 5}
	c := newTestController(down, up)

	found, err := c.Run(context.Background(), "regional water dispute report", 14)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(down.requests) != 0 {
		t.Errorf("unavailable provider must never be queried: %v", down.requests)
	}
	if len(found) == 0 {
		t.Error("available provider results missing")
	}
}
