package vectorindex

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/blevesearch/bleve"

	"taqrir/internal/dedup"
)

const rrfK = 60 // reciprocal-rank-fusion constant

// Hit is one scored match against the fact index.
type Hit struct {
	ID    int
	Score float64
	Rank  int
}

type indexedFact struct {
	Text string `json:"text"`
}

// Index is an in-memory hybrid index over one job's facts: flat cosine
// search over the embeddings plus BM25 over the texts. It is built once
// per job and read-only afterwards.
type Index struct {
	bm25    bleve.Index
	texts   []string
	vectors [][]float64
}

// Build indexes the given facts. vectors may be nil when the embedding
// capability is unavailable; vector search then returns nothing and
// hybrid search degrades to BM25 alone.
func Build(texts []string, vectors [][]float64) (*Index, error) {
	if vectors != nil && len(vectors) != len(texts) {
		return nil, fmt.Errorf("have %d vectors for %d texts", len(vectors), len(texts))
	}
	bm25, err := bleve.NewMemOnly(bleve.NewIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create bm25 index: %w", err)
	}
	for i, text := range texts {
		if err := bm25.Index(strconv.Itoa(i), indexedFact{Text: text}); err != nil {
			return nil, fmt.Errorf("failed to index fact %d: %w", i, err)
		}
	}
	return &Index{bm25: bm25, texts: texts, vectors: vectors}, nil
}

// VectorSearch returns the k nearest facts by cosine similarity.
func (ix *Index) VectorSearch(q []float64, k int) []Hit {
	if len(q) == 0 || ix.vectors == nil {
		return nil
	}
	scored := make([]Hit, 0, len(ix.vectors))
	for i, vec := range ix.vectors {
		scored = append(scored, Hit{ID: i, Score: dedup.Cosine(q, vec)})
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	if len(scored) > k {
		scored = scored[:k]
	}
	for i := range scored {
		scored[i].Rank = i + 1
	}
	return scored
}

// BM25Search returns the k best keyword matches.
func (ix *Index) BM25Search(q string, k int) ([]Hit, error) {
	query := bleve.NewQueryStringQuery(q)
	req := bleve.NewSearchRequestOptions(query, k, 0, false)
	res, err := ix.bm25.Search(req)
	if err != nil {
		return nil, err
	}
	var out []Hit
	for i, hit := range res.Hits {
		id, err := strconv.Atoi(hit.ID)
		if err != nil {
			continue
		}
		out = append(out, Hit{ID: id, Score: hit.Score, Rank: i + 1})
		if len(out) >= k {
			break
		}
	}
	return out, nil
}

// FuseRRF merges two ranked lists with reciprocal-rank fusion.
func FuseRRF(a, b []Hit, k int) []Hit {
	fused := make(map[int]float64)
	add := func(list []Hit) {
		for _, h := range list {
			fused[h.ID] += 1.0 / float64(rrfK+h.Rank)
		}
	}
	add(a)
	add(b)

	out := make([]Hit, 0, len(fused))
	for id, score := range fused {
		out = append(out, Hit{ID: id, Score: score})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].ID < out[j].ID
	})
	if len(out) > k {
		out = out[:k]
	}
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

// Hybrid runs BM25 and vector search and fuses the rankings. Either leg
// may be unavailable; with both gone it returns nothing.
func (ix *Index) Hybrid(q string, qvec []float64, k int) []Hit {
	vhits := ix.VectorSearch(qvec, k)
	bhits, err := ix.BM25Search(q, k)
	if err != nil {
		bhits = nil
	}
	if len(bhits) == 0 {
		return vhits
	}
	if len(vhits) == 0 {
		return bhits
	}
	return FuseRRF(vhits, bhits, k)
}
