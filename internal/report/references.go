package report

import (
	"fmt"
	"sort"
	"strings"

	"taqrir/models"
)

// BuildReferenceMap assigns dense 1-based citation numbers to the
// distinct source URLs cited by the retained facts, in ascending URL
// order. The mapping is stable for the lifetime of one report.
func BuildReferenceMap(facts []models.Fact) map[string]int {
	distinct := make(map[string]struct{})
	for _, fact := range facts {
		if fact.SourceURL != "" {
			distinct[fact.SourceURL] = struct{}{}
		}
	}
	urls := make([]string, 0, len(distinct))
	for url := range distinct {
		urls = append(urls, url)
	}
	sort.Strings(urls)

	refs := make(map[string]int, len(urls))
	for i, url := range urls {
		refs[url] = i + 1
	}
	return refs
}

// CitedArticles filters the article list down to the sources that
// actually received a citation number.
func CitedArticles(articles []models.Article, refs map[string]int) []models.Article {
	out := make([]models.Article, 0, len(refs))
	for _, article := range articles {
		if _, ok := refs[article.URL]; ok {
			out = append(out, article)
		}
	}
	return out
}

// FormatReferences renders the final references section, one line per
// citation number with the source name and publication date.
func FormatReferences(articles []models.Article, refs map[string]int) string {
	if len(refs) == 0 {
		return ""
	}
	byURL := make(map[string]models.Article, len(articles))
	for _, article := range articles {
		byURL[article.URL] = article
	}

	type ref struct {
		url string
		num int
	}
	ordered := make([]ref, 0, len(refs))
	for url, num := range refs {
		ordered = append(ordered, ref{url, num})
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].num < ordered[j].num })

	parts := []string{"\n\n---\n### المراجع"}
	for _, r := range ordered {
		article, ok := byURL[r.url]
		if !ok {
			continue
		}
		date := "تاريخ غير متوفر"
		if !article.PublishedAt.IsZero() {
			date = article.PublishedAt.Format("2006-01-02")
		}
		source := article.Source
		if source == "" {
			source = "مصدر غير معروف"
		}
		parts = append(parts, fmt.Sprintf("[%d] %s, %s.", r.num, source, date))
	}
	return strings.Join(parts, "\n")
}

// JoinSections is the degraded assembly path when the generative
// capability cannot stitch the report: plain markdown concatenation.
func JoinSections(sections []models.Section) string {
	var b strings.Builder
	for _, section := range sections {
		fmt.Fprintf(&b, "### %s\n%s\n\n", section.Title, section.Content)
	}
	return strings.TrimSpace(b.String())
}
