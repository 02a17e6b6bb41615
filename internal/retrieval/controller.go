package retrieval

import (
	"context"
	"errors"
	"log"

	"taqrir/config"
	"taqrir/internal/query"
	"taqrir/models"
	"taqrir/news"
)

// ErrNoArticles is the controller's total-failure result: nothing was
// found after exhausting every escalation stage.
var ErrNoArticles = errors.New("no articles found for query")

type stage struct {
	name  string
	build func(ctx context.Context, userQuery string, periodDays int) (string, int)
}

// Controller drives the escalating query strategies against all
// configured providers until the accumulated unique article count reaches
// the minimum threshold or every stage is exhausted. Results accumulate
// across stages; nothing found is ever discarded.
type Controller struct {
	aggregator *news.Aggregator
	providers  []news.SearchProvider
	expander   *query.Expander
	cfg        config.SearchConfig
	logger     *log.Logger
}

func NewController(aggregator *news.Aggregator, providers []news.SearchProvider, expander *query.Expander, cfg config.SearchConfig) *Controller {
	return &Controller{
		aggregator: aggregator,
		providers:  providers,
		expander:   expander,
		cfg:        cfg,
		logger:     log.New(log.Writer(), "[RETRIEVAL] ", log.LstdFlags),
	}
}

func (c *Controller) stages() []stage {
	return []stage{
		{"precise", func(ctx context.Context, q string, days int) (string, int) {
			return c.expander.PreciseBilingual(ctx, q), days
		}},
		{"semantic expansion", func(ctx context.Context, q string, days int) (string, int) {
			return c.expander.Expanded(ctx, q), days
		}},
		{"simplify", func(ctx context.Context, q string, days int) (string, int) {
			return c.expander.Simplified(ctx, q), days
		}},
		{"aggressive broaden", func(ctx context.Context, q string, days int) (string, int) {
			doubled := days * 2
			if doubled > c.cfg.MaxPeriodDays {
				doubled = c.cfg.MaxPeriodDays
			}
			return c.expander.Aggressive(q), doubled
		}},
	}
}

// Run executes the escalation state machine. Reaching the minimum is
// best-effort: any non-empty accumulation is a success.
func (c *Controller) Run(ctx context.Context, userQuery string, periodDays int) (map[string]models.Article, error) {
	if periodDays <= 0 {
		periodDays = c.cfg.PeriodDays
	}

	ledger := news.NewComboLedger()
	found := make(map[string]models.Article)

	for _, st := range c.stages() {
		if len(found) >= c.cfg.MinResults {
			break
		}
		stageQuery, stageDays := st.build(ctx, userQuery, periodDays)
		if stageQuery == "" {
			continue
		}
		c.logger.Printf("stage %q: query=%q window=%dd accumulated=%d", st.name, stageQuery, stageDays, len(found))

		for _, sp := range c.providers {
			if len(found) >= c.cfg.MinResults {
				break
			}
			result := c.aggregator.Fetch(ctx, sp, stageQuery, stageDays, ledger)
			for url, article := range result.Articles {
				found[url] = article
			}
		}
	}

	if len(found) == 0 {
		return nil, ErrNoArticles
	}
	c.logger.Printf("retrieval finished with %d unique articles", len(found))
	return found, nil
}
