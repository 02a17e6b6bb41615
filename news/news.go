package news

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"taqrir/models"
)

// Mode selects which article field a provider matches the query against.
type Mode string

const (
	ModeBody  Mode = "body"  // full-text search
	ModeTitle Mode = "title" // title-only search
)

// SearchProvider is a single external news-search service. Availability is
// a configuration precondition: an unavailable provider is skipped, never
// treated as a runtime failure.
type SearchProvider interface {
	Name() string
	Available() bool
	Modes() []Mode
	Search(ctx context.Context, query, language string, mode Mode, from time.Time) ([]models.Article, error)
}

// Result is the outcome of one aggregated fetch against one provider.
type Result struct {
	Success  bool
	Articles map[string]models.Article
}

// ComboLedger records every (provider, query, language, mode) request
// issued during one retrieval run so no combination is repeated across
// escalation stages.
type ComboLedger struct {
	seen map[string]struct{}
}

func NewComboLedger() *ComboLedger {
	return &ComboLedger{seen: make(map[string]struct{})}
}

// Claim marks a combination as issued; it returns false when the same
// request was already made in this run.
func (l *ComboLedger) Claim(provider, query, language string, mode Mode) bool {
	key := fmt.Sprintf("%s|%s|%s|%s", provider, query, language, mode)
	if _, ok := l.seen[key]; ok {
		return false
	}
	l.seen[key] = struct{}{}
	return true
}

// SplitORQuery breaks an OR-joined query into trimmed, unquoted
// sub-queries. A query with no OR separator yields itself.
func SplitORQuery(query string) []string {
	var parts []string
	for _, part := range strings.Split(query, "OR") {
		part = strings.Trim(strings.TrimSpace(part), `"`)
		if part != "" {
			parts = append(parts, part)
		}
	}
	if len(parts) == 0 {
		trimmed := strings.TrimSpace(query)
		if trimmed == "" {
			return nil
		}
		parts = []string{trimmed}
	}
	return parts
}

// Aggregator widens recall by issuing each sub-query across the
// language × field-mode cross product of a provider, merging everything
// by URL. Individual call failures are logged and absorbed.
type Aggregator struct {
	languages []string
	logger    *log.Logger
}

// NewAggregator creates an aggregator searching in the given languages.
func NewAggregator(languages []string) *Aggregator {
	return &Aggregator{
		languages: languages,
		logger:    log.New(log.Writer(), "[NEWS] ", log.LstdFlags),
	}
}

// Fetch runs the cross-product search for one provider. The merge key is
// the article URL; the last writer wins inside one batch.
func (a *Aggregator) Fetch(ctx context.Context, sp SearchProvider, query string, periodDays int, ledger *ComboLedger) Result {
	if !sp.Available() {
		a.logger.Printf("provider %s skipped: credentials not configured", sp.Name())
		return Result{Success: false, Articles: map[string]models.Article{}}
	}

	from := time.Now().AddDate(0, 0, -periodDays)
	combined := make(map[string]models.Article)

	for _, sub := range SplitORQuery(query) {
		for _, lang := range a.languages {
			for _, mode := range sp.Modes() {
				if ledger != nil && !ledger.Claim(sp.Name(), sub, lang, mode) {
					continue
				}
				articles, err := sp.Search(ctx, sub, lang, mode, from)
				if err != nil {
					a.logger.Printf("%s %s/%s: %v", sp.Name(), lang, mode, err)
					continue
				}
				for _, article := range articles {
					if article.URL == "" {
						continue
					}
					combined[article.URL] = article
				}
			}
		}
	}

	if len(combined) == 0 {
		return Result{Success: false, Articles: combined}
	}
	a.logger.Printf("provider %s returned %d articles (merged)", sp.Name(), len(combined))
	return Result{Success: true, Articles: combined}
}
