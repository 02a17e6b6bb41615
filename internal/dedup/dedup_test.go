package dedup

import (
	"context"
	"errors"
	"testing"

	"taqrir/models"
)

func TestExact(t *testing.T) {
	t.Parallel()
	articles := []models.Article{
		{URL: "https://a.example/1", Title: "Ceasefire talks resume"},
		{URL: "https://a.example/1", Title: "Different title, same url"},
		{URL: "https://b.example/2", Title: "  ceasefire talks RESUME  "},
		{URL: "https://c.example/3", Title: "Aid convoy reaches the city"},
		{URL: "", Title: "No url"},
		{URL: "https://d.example/4", Title: ""},
	}
	got := Exact(articles)
	if len(got) != 2 {
		t.Fatalf("expected 2 unique articles, got %d", len(got))
	}
	if got[0].URL != "https://a.example/1" || got[1].URL != "https://c.example/3" {
		t.Errorf("unexpected survivors: %v, %v", got[0].URL, got[1].URL)
	}
}

func TestExact_PreservesOrder(t *testing.T) {
	t.Parallel()
	articles := []models.Article{
		{URL: "https://x.example/c", Title: "c"},
		{URL: "https://x.example/a", Title: "a"},
		{URL: "https://x.example/b", Title: "b"},
	}
	got := Exact(articles)
	for i, a := range articles {
		if got[i].URL != a.URL {
			t.Fatalf("order changed at %d: %s", i, got[i].URL)
		}
	}
}

func TestUniqueEmbedded(t *testing.T) {
	t.Parallel()
	vectors := [][]float64{
		{1, 0},
		{0.999, 0.01}, // near duplicate of 0
		{0, 1},
		{1, 0}, // exact duplicate of 0
	}
	keep := UniqueEmbedded(vectors, 0.95)
	if len(keep) != 2 {
		t.Fatalf("expected 2 kept, got %v", keep)
	}
	if keep[0] != 0 || keep[1] != 2 {
		t.Errorf("first occurrence should win: %v", keep)
	}
}

func TestUniqueEmbedded_SmallInputs(t *testing.T) {
	t.Parallel()
	if got := UniqueEmbedded(nil, 0.9); len(got) != 0 {
		t.Errorf("nil vectors should keep nothing, got %v", got)
	}
	if got := UniqueEmbedded([][]float64{{1, 0}}, 0.9); len(got) != 1 || got[0] != 0 {
		t.Errorf("single vector should be kept, got %v", got)
	}
}

func TestCosine(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name string
		a, b []float64
		want float64
	}{
		{"identical", []float64{1, 2}, []float64{1, 2}, 1},
		{"orthogonal", []float64{1, 0}, []float64{0, 1}, 0},
		{"mismatched length", []float64{1}, []float64{1, 0}, 0},
		{"zero norm", []float64{0, 0}, []float64{1, 0}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Cosine(tc.a, tc.b)
			if got < tc.want-1e-9 || got > tc.want+1e-9 {
				t.Errorf("Cosine(%v, %v) = %v, want %v", tc.a, tc.b, got, tc.want)
			}
		})
	}
}

type fakeEmbedder struct {
	vectors map[string][]float64
	err     error
	calls   int
}

func (f *fakeEmbedder) EmbedMany(_ context.Context, texts []string) ([][]float64, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float64, len(texts))
	for i, text := range texts {
		out[i] = f.vectors[text]
	}
	return out, nil
}

func longText(word string) string {
	s := word
	for i := 0; i < 30; i++ {
		s += " " + word
	}
	return s
}

func TestUniqueArticles(t *testing.T) {
	t.Parallel()
	a := longText("alpha")
	b := longText("beta")
	emb := &fakeEmbedder{vectors: map[string][]float64{
		a: {1, 0},
		b: {1, 0.001}, // near duplicate of a
	}}
	s := NewSemantic(emb, 0.95, 25)
	articles := []models.Article{
		{URL: "u1", Title: "t1", Content: a},
		{URL: "u2", Title: "t2", Content: b},
		{URL: "u3", Title: "t3", Content: "too short"},
	}
	got := s.UniqueArticles(context.Background(), articles)
	if len(got) != 2 {
		t.Fatalf("expected 2 articles, got %d", len(got))
	}
	if got[0].URL != "u1" {
		t.Errorf("first kept should be the earliest duplicate, got %s", got[0].URL)
	}
	if got[1].URL != "u3" {
		t.Errorf("short article should pass through after the compared set, got %s", got[1].URL)
	}
}

func TestUniqueArticles_EmbeddingFailure(t *testing.T) {
	t.Parallel()
	emb := &fakeEmbedder{err: errors.New("quota exceeded")}
	s := NewSemantic(emb, 0.95, 25)
	articles := []models.Article{
		{URL: "u1", Content: longText("alpha")},
		{URL: "u2", Content: longText("beta")},
	}
	got := s.UniqueArticles(context.Background(), articles)
	if len(got) != len(articles) {
		t.Fatalf("embedding failure must not drop articles: got %d", len(got))
	}
}

func TestUniqueArticles_TooFewValid(t *testing.T) {
	t.Parallel()
	emb := &fakeEmbedder{}
	s := NewSemantic(emb, 0.95, 25)
	articles := []models.Article{
		{URL: "u1", Content: longText("alpha")},
		{URL: "u2", Content: "short"},
	}
	got := s.UniqueArticles(context.Background(), articles)
	if len(got) != 2 {
		t.Fatalf("expected pass-through, got %d", len(got))
	}
	if emb.calls != 0 {
		t.Errorf("embedder should not be called with fewer than 2 valid items")
	}
}
