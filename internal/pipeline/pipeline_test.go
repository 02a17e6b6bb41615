package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"taqrir/config"
	"taqrir/internal/query"
	"taqrir/internal/retrieval"
	"taqrir/models"
	"taqrir/news"
)

func testConfig() *config.Config {
	return &config.Config{
		Search: config.SearchConfig{
			MinResults:    2,
			MaxResults:    10,
			PerDomainCap:  3,
			PeriodDays:    14,
			MaxPeriodDays: 60,
			Languages:     []string{"en"},
		},
		Processing: config.ProcessingConfig{
			ArticleSimilarityThreshold: 0.95,
			FactSimilarityThreshold:    0.90,
			MinContentWords:            25,
			Workers:                    2,
			TopicWriteDelay:            0,
			Clustering:                 config.ClusteringConfig{MinClusterSize: 2, Epsilon: 0.9},
		},
	}
}

type fixedProvider struct {
	articles []models.Article
}

func (p *fixedProvider) Name() string      { return "fixed" }
func (p *fixedProvider) Available() bool   { return true }
func (p *fixedProvider) Modes() []news.Mode { return []news.Mode{news.ModeBody} }
func (p *fixedProvider) Search(context.Context, string, string, news.Mode, time.Time) ([]models.Article, error) {
	return p.articles, nil
}

type scriptedLLM struct {
	factsPerArticle int
	writeErr        error
	assembleErr     error
	written         []string
}

func (s *scriptedLLM) Translate(context.Context, string) (string, error) {
	return "", errors.New("unavailable")
}
func (s *scriptedLLM) ExpandQuery(context.Context, string) (string, error) {
	return "", errors.New("unavailable")
}
func (s *scriptedLLM) SimplifyQuery(context.Context, string) (string, error) {
	return "", errors.New("unavailable")
}
func (s *scriptedLLM) ExtractFacts(_ context.Context, a models.Article) ([]models.Fact, error) {
	var facts []models.Fact
	for i := 0; i < s.factsPerArticle; i++ {
		facts = append(facts, models.Fact{
			Text:      fmt.Sprintf("معلومة %d من %s", i+1, a.URL),
			SourceURL: a.URL,
		})
	}
	return facts, nil
}
func (s *scriptedLLM) WriteSection(_ context.Context, title string, _ []models.Fact, _ map[string]int) (string, error) {
	if s.writeErr != nil {
		return "", s.writeErr
	}
	s.written = append(s.written, title)
	return "نص المحور: " + title, nil
}
func (s *scriptedLLM) AssembleReport(_ context.Context, _ string, sections []models.Section) (string, error) {
	if s.assembleErr != nil {
		return "", s.assembleErr
	}
	var parts []string
	for _, sec := range sections {
		parts = append(parts, sec.Content)
	}
	return strings.Join(parts, "\n"), nil
}
func (s *scriptedLLM) CreateEmbedding(context.Context, []string) ([][]float64, error) {
	return nil, errors.New("unavailable")
}

func testArticles(n int) []models.Article {
	var out []models.Article
	for i := 0; i < n; i++ {
		out = append(out, models.Article{
			URL:         fmt.Sprintf("https://source%d.example/%d", i, i),
			Title:       fmt.Sprintf("article %d", i),
			Source:      fmt.Sprintf("source %d", i),
			Description: "short description",
			PublishedAt: time.Date(2026, 8, 1+i, 0, 0, 0, 0, time.UTC),
		})
	}
	return out
}

func newTestPipeline(cfg *config.Config, articles []models.Article, llm *scriptedLLM) *Pipeline {
	sp := &fixedProvider{articles: articles}
	controller := retrieval.NewController(news.NewAggregator(cfg.Search.Languages), []news.SearchProvider{sp}, query.NewExpander(nil), cfg.Search)
	if llm == nil {
		return New(cfg, controller, nil, nil, nil)
	}
	return New(cfg, controller, nil, llm, nil)
}

func TestGenerate_FullReport(t *testing.T) {
	t.Parallel()
	llm := &scriptedLLM{factsPerArticle: 1}
	p := newTestPipeline(testConfig(), testArticles(3), llm)

	report, err := p.Generate(context.Background(), "famine crisis report")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if !strings.Contains(report.Summary, "### المراجع") {
		t.Errorf("references section missing: %q", report.Summary)
	}
	if len(report.Articles) != 3 {
		t.Errorf("expected 3 cited articles, got %d", len(report.Articles))
	}
	if report.TotalTime <= 0 {
		t.Error("total time should be recorded")
	}
	// no embedder means no vectors, so everything lands in one topic
	if len(llm.written) != 1 {
		t.Errorf("expected a single topic without embeddings, got %v", llm.written)
	}
}

func TestGenerate_NoArticles(t *testing.T) {
	t.Parallel()
	p := newTestPipeline(testConfig(), nil, &scriptedLLM{factsPerArticle: 1})

	_, err := p.Generate(context.Background(), "query with no coverage")
	if !errors.Is(err, retrieval.ErrNoArticles) {
		t.Fatalf("expected ErrNoArticles, got %v", err)
	}
}

func TestGenerate_NoFactsIsFatal(t *testing.T) {
	t.Parallel()
	p := newTestPipeline(testConfig(), testArticles(3), &scriptedLLM{factsPerArticle: 0})

	_, err := p.Generate(context.Background(), "famine crisis report")
	if !errors.Is(err, ErrNoFacts) {
		t.Fatalf("expected ErrNoFacts, got %v", err)
	}
}

func TestGenerate_NoLLMIsFatal(t *testing.T) {
	t.Parallel()
	p := newTestPipeline(testConfig(), testArticles(3), nil)

	_, err := p.Generate(context.Background(), "famine crisis report")
	if !errors.Is(err, ErrNoFacts) {
		t.Fatalf("without a generative capability no facts exist, got %v", err)
	}
}

func TestGenerate_WriteFailureDegrades(t *testing.T) {
	t.Parallel()
	llm := &scriptedLLM{factsPerArticle: 1, writeErr: errors.New("model overloaded")}
	p := newTestPipeline(testConfig(), testArticles(2), llm)

	report, err := p.Generate(context.Background(), "famine crisis report")
	if err != nil {
		t.Fatalf("a failed section write must not fail the job: %v", err)
	}
	if !strings.Contains(report.Summary, sectionPlaceholder) {
		t.Errorf("placeholder section missing: %q", report.Summary)
	}
}

func TestGenerate_AssemblyFailureConcatenates(t *testing.T) {
	t.Parallel()
	llm := &scriptedLLM{factsPerArticle: 1, assembleErr: errors.New("model overloaded")}
	p := newTestPipeline(testConfig(), testArticles(2), llm)

	report, err := p.Generate(context.Background(), "famine crisis report")
	if err != nil {
		t.Fatalf("a failed assembly must not fail the job: %v", err)
	}
	if !strings.Contains(report.Summary, "نص المحور") {
		t.Errorf("section content should survive degraded assembly: %q", report.Summary)
	}
}
