package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"taqrir/config"
	"taqrir/internal/cluster"
	"taqrir/internal/dedup"
	"taqrir/internal/helpers"
	"taqrir/internal/report"
	"taqrir/internal/retrieval"
	"taqrir/internal/vectorindex"
	"taqrir/models"
	"taqrir/provider"
	"taqrir/tools/web_fetch"
)

var (
	ErrNoFacts  = errors.New("no facts could be extracted from the selected articles")
	ErrNoTopics = errors.New("no topics could be formed from the extracted facts")
)

const sectionPlaceholder = "تعذر توليد محتوى هذا المحور."

// Pipeline turns a user query into a cited report. Stage boundaries
// exchange new values only; a failed per-item step degrades that item
// and the job carries on.
type Pipeline struct {
	cfg       *config.Config
	retriever *retrieval.Controller
	fetcher   web_fetch.WebFetcher
	llm       provider.Provider
	embedder  dedup.Embedder
	clusterer *cluster.Clusterer
	logger    *log.Logger
}

// New wires the pipeline. llm and embedder may be nil; every stage that
// needs them degrades per its own rules.
func New(cfg *config.Config, retriever *retrieval.Controller, fetcher web_fetch.WebFetcher, llm provider.Provider, embedder dedup.Embedder) *Pipeline {
	return &Pipeline{
		cfg:       cfg,
		retriever: retriever,
		fetcher:   fetcher,
		llm:       llm,
		embedder:  embedder,
		clusterer: cluster.New(cluster.DBSCAN{Eps: cfg.Processing.Clustering.Epsilon}, cfg.Processing.Clustering.MinClusterSize),
		logger:    log.New(log.Writer(), "[PIPELINE] ", log.LstdFlags),
	}
}

// Generate runs the whole job: retrieval, selection, dedup, content
// extraction, fact extraction, clustering, writing, assembly.
func (p *Pipeline) Generate(ctx context.Context, query string) (models.Report, error) {
	jobsStarted.Inc()
	t0 := time.Now()

	rep, err := p.generate(ctx, query)
	if err != nil {
		jobsFailed.Inc()
		return models.Report{}, err
	}
	rep.TotalTime = time.Since(t0).Seconds()
	jobsSucceeded.Inc()
	return rep, nil
}

func (p *Pipeline) generate(ctx context.Context, query string) (models.Report, error) {
	found, err := p.retriever.Run(ctx, query, p.cfg.Search.PeriodDays)
	if err != nil {
		return models.Report{}, fmt.Errorf("retrieval: %w", err)
	}

	articles := retrieval.Diversify(retrieval.Flatten(found), p.cfg.Search.MaxResults, p.cfg.Search.PerDomainCap)
	articles = dedup.Exact(articles)
	articlesSelected.Add(float64(len(articles)))
	p.logger.Printf("selected %d articles after diversity and exact dedup", len(articles))

	articles = p.extractContent(ctx, articles)

	if p.embedder != nil {
		semantic := dedup.NewSemantic(p.embedder, p.cfg.Processing.ArticleSimilarityThreshold, p.cfg.Processing.MinContentWords)
		articles = semantic.UniqueArticles(ctx, articles)
		p.logger.Printf("%d articles after semantic dedup", len(articles))
	}

	facts := p.extractFacts(ctx, articles)
	if len(facts) == 0 {
		return models.Report{}, ErrNoFacts
	}
	factsExtracted.Add(float64(len(facts)))

	facts, vectors := p.dedupFacts(ctx, facts)

	topics := p.clusterer.BuildTopics(facts, vectors)
	if len(topics) == 0 {
		return models.Report{}, ErrNoTopics
	}
	topics = p.rerankTopics(topics, facts, vectors)

	refs := report.BuildReferenceMap(facts)
	cited := report.CitedArticles(articles, refs)

	sections := p.writeSections(ctx, topics, refs)
	summary := p.assemble(ctx, query, sections)
	summary += report.FormatReferences(cited, refs)

	return models.Report{Summary: summary, Articles: cited}, nil
}

// extractContent fetches article bodies in parallel. A failed fetch
// leaves the article exactly as it came from the provider.
func (p *Pipeline) extractContent(ctx context.Context, articles []models.Article) []models.Article {
	if p.fetcher == nil {
		return articles
	}
	out := make([]models.Article, len(articles))
	copy(out, articles)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.Processing.Workers)
	for i := range out {
		g.Go(func() error {
			res, err := p.fetcher.Exec(gctx, out[i].URL)
			if err != nil {
				p.logger.Printf("extraction failed for %s: %v", out[i].URL, err)
				return nil
			}
			if text := helpers.CleanText(res.Text); text != "" {
				out[i] = out[i].WithContent(text)
			}
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// extractFacts asks the LLM for facts per article in parallel. A failed
// article contributes nothing.
func (p *Pipeline) extractFacts(ctx context.Context, articles []models.Article) []models.Fact {
	if p.llm == nil {
		return nil
	}
	perArticle := make([][]models.Fact, len(articles))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.Processing.Workers)
	for i := range articles {
		g.Go(func() error {
			facts, err := p.llm.ExtractFacts(gctx, articles[i])
			if err != nil {
				p.logger.Printf("fact extraction failed for %s: %v", articles[i].URL, err)
				return nil
			}
			perArticle[i] = facts
			return nil
		})
	}
	_ = g.Wait()

	var facts []models.Fact
	for _, fs := range perArticle {
		facts = append(facts, fs...)
	}
	return facts
}

// dedupFacts embeds fact texts and drops near-duplicates. When the
// embedder is absent or fails, facts pass through unchanged without
// vectors and downstream stages degrade.
func (p *Pipeline) dedupFacts(ctx context.Context, facts []models.Fact) ([]models.Fact, [][]float64) {
	if p.embedder == nil {
		return facts, nil
	}
	texts := make([]string, len(facts))
	for i, f := range facts {
		texts[i] = f.Text
	}
	vectors, err := p.embedder.EmbedMany(ctx, texts)
	if err != nil || len(vectors) != len(facts) {
		p.logger.Printf("fact embedding unavailable, skipping semantic dedup: %v", err)
		return facts, nil
	}

	keep := dedup.UniqueEmbedded(vectors, p.cfg.Processing.FactSimilarityThreshold)
	kept := make([]models.Fact, 0, len(keep))
	keptVectors := make([][]float64, 0, len(keep))
	for _, idx := range keep {
		kept = append(kept, facts[idx])
		keptVectors = append(keptVectors, vectors[idx])
	}
	p.logger.Printf("%d facts after semantic dedup (from %d)", len(kept), len(facts))
	return kept, keptVectors
}

// rerankTopics orders each topic's facts by hybrid relevance to the
// topic name. Without vectors the BM25 leg alone decides; an index
// failure keeps the clusterer's order.
func (p *Pipeline) rerankTopics(topics []cluster.Topic, facts []models.Fact, vectors [][]float64) []cluster.Topic {
	texts := make([]string, len(facts))
	position := make(map[string]int, len(facts))
	for i, f := range facts {
		texts[i] = f.Text
		position[f.Text] = i
	}
	ix, err := vectorindex.Build(texts, vectors)
	if err != nil {
		p.logger.Printf("fact index unavailable, keeping cluster order: %v", err)
		return topics
	}

	for ti, topic := range topics {
		hits := ix.Hybrid(topic.Name, topicCentroid(topic, position, vectors), len(topic.Facts))
		if len(hits) == 0 {
			continue
		}
		rank := make(map[int]int, len(hits))
		for r, h := range hits {
			rank[h.ID] = r
		}
		ordered := make([]models.Fact, len(topic.Facts))
		copy(ordered, topic.Facts)
		sortFactsByRank(ordered, position, rank)
		topics[ti].Facts = ordered
	}
	return topics
}

func topicCentroid(topic cluster.Topic, position map[string]int, vectors [][]float64) []float64 {
	if len(vectors) == 0 {
		return nil
	}
	var centroid []float64
	var n int
	for _, f := range topic.Facts {
		idx, ok := position[f.Text]
		if !ok || idx >= len(vectors) {
			continue
		}
		v := vectors[idx]
		if centroid == nil {
			centroid = make([]float64, len(v))
		}
		for d := range v {
			centroid[d] += v[d]
		}
		n++
	}
	if n == 0 {
		return nil
	}
	for d := range centroid {
		centroid[d] /= float64(n)
	}
	return centroid
}

func sortFactsByRank(facts []models.Fact, position map[string]int, rank map[int]int) {
	const unranked = 1 << 30
	rankOf := func(f models.Fact) int {
		idx, ok := position[f.Text]
		if !ok {
			return unranked
		}
		if r, ok := rank[idx]; ok {
			return r
		}
		return unranked
	}
	// insertion sort keeps the original order for unranked facts
	for i := 1; i < len(facts); i++ {
		for j := i; j > 0 && rankOf(facts[j]) < rankOf(facts[j-1]); j-- {
			facts[j], facts[j-1] = facts[j-1], facts[j]
		}
	}
}

// writeSections writes one section per topic, sequentially, pausing
// between calls. A failed write leaves a placeholder.
func (p *Pipeline) writeSections(ctx context.Context, topics []cluster.Topic, refs map[string]int) []models.Section {
	sections := make([]models.Section, 0, len(topics))
	for i, topic := range topics {
		if i > 0 && p.cfg.Processing.TopicWriteDelay > 0 {
			select {
			case <-time.After(p.cfg.Processing.TopicWriteDelay):
			case <-ctx.Done():
			}
		}
		content := sectionPlaceholder
		if p.llm != nil {
			written, err := p.llm.WriteSection(ctx, topic.Name, topic.Facts, refs)
			if err != nil {
				p.logger.Printf("writing topic %q failed: %v", topic.Name, err)
			} else {
				content = written
			}
		}
		sections = append(sections, models.Section{Title: topic.Name, Content: content})
	}
	return sections
}

// assemble merges the sections into one narrative, or concatenates them
// verbatim when the LLM cannot.
func (p *Pipeline) assemble(ctx context.Context, query string, sections []models.Section) string {
	if p.llm != nil {
		summary, err := p.llm.AssembleReport(ctx, query, sections)
		if err == nil {
			return summary
		}
		p.logger.Printf("assembly failed, concatenating sections: %v", err)
	}
	return report.JoinSections(sections)
}
