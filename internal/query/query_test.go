package query

import (
	"strings"
	"testing"
)

func TestContainsArabic(t *testing.T) {
	t.Parallel()
	cases := []struct {
		text string
		want bool
	}{
		{"مجاعة السودان", true},
		{"Sudan famine", false},
		{"Sudan مجاعة mixed", true},
		{"", false},
	}
	for _, tc := range cases {
		if got := ContainsArabic(tc.text); got != tc.want {
			t.Errorf("ContainsArabic(%q) = %v, want %v", tc.text, got, tc.want)
		}
	}
}

func TestPrecise(t *testing.T) {
	t.Parallel()
	cases := []struct {
		in   string
		want string
	}{
		{"مجاعة السودان", `"مجاعة السودان"`},
		{"ceasefire", `"ceasefire"`},
		{"the war in Sudan today", "the war in Sudan today"},
		{"  spaced  ", `"spaced"`},
		{"", ""},
	}
	for _, tc := range cases {
		if got := Precise(tc.in); got != tc.want {
			t.Errorf("Precise(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNaiveEnglishFromArabic(t *testing.T) {
	t.Parallel()
	got := NaiveEnglishFromArabic("مجاعة السودان")
	for _, term := range []string{"Sudan", "famine", "hunger"} {
		if !strings.Contains(got, term) {
			t.Errorf("expected %q in expansion, got %q", term, got)
		}
	}
	if got == "مجاعة السودان" {
		t.Error("expansion must differ from the raw query")
	}
}

func TestNaiveEnglishFromArabic_NonArabic(t *testing.T) {
	t.Parallel()
	if got := NaiveEnglishFromArabic("Sudan famine"); got != "" {
		t.Errorf("non-Arabic input should yield nothing, got %q", got)
	}
}

func TestNaiveEnglishFromArabic_NoMatches(t *testing.T) {
	t.Parallel()
	got := NaiveEnglishFromArabic("كلمة غامضة")
	if !strings.Contains(got, "news") || !strings.Contains(got, "Middle East") {
		t.Errorf("unmatched tokens should fall back to generic keywords, got %q", got)
	}
}

func TestNaiveEnglishFromArabic_Deterministic(t *testing.T) {
	t.Parallel()
	first := NaiveEnglishFromArabic("حرب السودان مجاعة")
	for i := 0; i < 5; i++ {
		if got := NaiveEnglishFromArabic("حرب السودان مجاعة"); got != first {
			t.Fatalf("expansion should be deterministic: %q vs %q", got, first)
		}
	}
}
