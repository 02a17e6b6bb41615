package gnews

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"taqrir/config"
	"taqrir/news"
)

func TestSearch(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("q") != "sudan" || q.Get("lang") != "ar" || q.Get("apikey") != "test-key" {
			t.Errorf("request params wrong: %v", q)
		}
		if q.Get("max") != "100" {
			t.Errorf("max param wrong: %v", q)
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"totalArticles": 1,
			"articles": []map[string]interface{}{
				{
					"source": map[string]string{"name": ""},
					"title":  "Nameless source",
					"url":    "https://g.example/1",
				},
			},
		})
	}))
	defer srv.Close()

	g := New(config.NewsProviderConfig{APIKey: "test-key", Endpoint: srv.URL, Timeout: 5 * time.Second})
	got, err := g.Search(context.Background(), "sudan", "ar", news.ModeBody, time.Now().AddDate(0, 0, -14))
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 article, got %d", len(got))
	}
	if got[0].Source != "غير معروف" {
		t.Errorf("empty source should fall back, got %q", got[0].Source)
	}
	if got[0].Provider != "gnews" {
		t.Errorf("provider attribution wrong: %q", got[0].Provider)
	}
}

func TestModes(t *testing.T) {
	t.Parallel()
	g := New(config.NewsProviderConfig{})
	modes := g.Modes()
	if len(modes) != 1 || modes[0] != news.ModeBody {
		t.Errorf("gnews supports body search only, got %v", modes)
	}
}
