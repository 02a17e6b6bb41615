package dedup

import (
	"context"
	"log"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"

	"taqrir/models"
)

// Exact removes articles whose URL or case-normalised trimmed title has
// been seen before. First occurrence wins; input order is preserved.
func Exact(articles []models.Article) []models.Article {
	seenURLs := make(map[string]struct{}, len(articles))
	seenTitles := make(map[string]struct{}, len(articles))
	unique := make([]models.Article, 0, len(articles))

	for _, article := range articles {
		title := strings.ToLower(strings.TrimSpace(article.Title))
		if article.URL == "" || title == "" {
			continue
		}
		if _, ok := seenURLs[article.URL]; ok {
			continue
		}
		if _, ok := seenTitles[title]; ok {
			continue
		}
		seenURLs[article.URL] = struct{}{}
		seenTitles[title] = struct{}{}
		unique = append(unique, article)
	}
	return unique
}

// Embedder is the external embedding capability: one vector per input
// text, in input order.
type Embedder interface {
	EmbedMany(ctx context.Context, texts []string) ([][]float64, error)
}

// Semantic is the embedding-similarity dedup layer. Without an embedder
// it is a no-op; items with too little content are never discarded by it.
type Semantic struct {
	embedder  Embedder
	threshold float64
	minWords  int
	logger    *log.Logger
}

func NewSemantic(embedder Embedder, threshold float64, minWords int) *Semantic {
	return &Semantic{
		embedder:  embedder,
		threshold: threshold,
		minWords:  minWords,
		logger:    log.New(log.Writer(), "[DEDUP] ", log.LstdFlags),
	}
}

// UniqueArticles drops articles whose content embedding is closer than
// the threshold to an earlier kept article. Articles below the content
// floor skip comparison and are re-appended after the compared set.
func (s *Semantic) UniqueArticles(ctx context.Context, articles []models.Article) []models.Article {
	if s.embedder == nil || len(articles) < 2 {
		return articles
	}

	contents := make([]string, len(articles))
	for i, article := range articles {
		contents[i] = article.Content
		if contents[i] == "" {
			contents[i] = article.Description
		}
	}

	var validIdx []int
	for i, content := range contents {
		if len(strings.Fields(content)) > s.minWords {
			validIdx = append(validIdx, i)
		}
	}
	if len(validIdx) < 2 {
		return articles
	}

	validTexts := make([]string, len(validIdx))
	for i, idx := range validIdx {
		validTexts[i] = contents[idx]
	}
	vectors, err := s.embedder.EmbedMany(ctx, validTexts)
	if err != nil || len(vectors) != len(validIdx) {
		s.logger.Printf("embedding unavailable, skipping semantic dedup: %v", err)
		return articles
	}

	kept := UniqueEmbedded(vectors, s.threshold)

	isValid := make(map[int]struct{}, len(validIdx))
	for _, idx := range validIdx {
		isValid[idx] = struct{}{}
	}

	out := make([]models.Article, 0, len(articles))
	for _, i := range kept {
		out = append(out, articles[validIdx[i]])
	}
	for i, article := range articles {
		if _, ok := isValid[i]; !ok {
			out = append(out, article)
		}
	}
	s.logger.Printf("semantic dedup: %d -> %d articles", len(articles), len(out))
	return out
}

// UniqueEmbedded returns the indices of vectors to keep: an item is
// dropped when its cosine similarity to any already-kept earlier item
// exceeds the threshold. First occurrence wins.
func UniqueEmbedded(vectors [][]float64, threshold float64) []int {
	if len(vectors) < 2 {
		keep := make([]int, len(vectors))
		for i := range vectors {
			keep[i] = i
		}
		return keep
	}

	var kept []int
	for i, vec := range vectors {
		duplicate := false
		for _, j := range kept {
			if Cosine(vec, vectors[j]) > threshold {
				duplicate = true
				break
			}
		}
		if !duplicate {
			kept = append(kept, i)
		}
	}
	return kept
}

// Cosine computes cosine similarity between two vectors; mismatched or
// zero-norm vectors score 0.
func Cosine(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	na := math.Sqrt(floats.Dot(a, a))
	nb := math.Sqrt(floats.Dot(b, b))
	if na == 0 || nb == 0 {
		return 0
	}
	return floats.Dot(a, b) / (na * nb)
}
