package retrieval

import (
	"sort"

	"taqrir/internal/helpers"
	"taqrir/models"
)

// Diversify orders articles newest-first and greedily admits up to
// maxCount items while capping how many may come from one normalised
// domain. Articles without a usable timestamp sort last; ties break on
// URL so the selection is deterministic regardless of input order.
func Diversify(articles []models.Article, maxCount, perDomainCap int) []models.Article {
	sorted := make([]models.Article, len(articles))
	copy(sorted, articles)
	sort.SliceStable(sorted, func(i, j int) bool {
		ti, tj := sorted[i].PublishedAt, sorted[j].PublishedAt
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return sorted[i].URL < sorted[j].URL
	})

	usedByDomain := make(map[string]int)
	diversified := make([]models.Article, 0, maxCount)
	for _, article := range sorted {
		if article.URL == "" {
			continue
		}
		domain := helpers.NormalizedDomain(article.URL)
		if usedByDomain[domain] >= perDomainCap {
			continue
		}
		diversified = append(diversified, article)
		usedByDomain[domain]++
		if len(diversified) >= maxCount {
			break
		}
	}
	return diversified
}

// Flatten turns the controller's URL-keyed accumulation into a slice.
// Order is unspecified; Diversify re-sorts by an explicit key before any
// order-sensitive logic runs.
func Flatten(articles map[string]models.Article) []models.Article {
	out := make([]models.Article, 0, len(articles))
	for _, article := range articles {
		out = append(out, article)
	}
	return out
}
