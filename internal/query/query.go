package query

import (
	"regexp"
	"sort"
	"strings"
)

var arabicLetters = regexp.MustCompile(`[\x{0600}-\x{06FF}]`)

// ContainsArabic reports whether the text carries any Arabic-script letter.
func ContainsArabic(text string) bool {
	return arabicLetters.MatchString(text)
}

// Precise builds the stage-1 query: short queries are quoted to force
// phrase matching, everything else passes through trimmed.
func Precise(userQuery string) string {
	clean := strings.TrimSpace(userQuery)
	if clean == "" {
		return ""
	}
	if len(strings.Fields(clean)) <= 2 {
		return `"` + clean + `"`
	}
	return clean
}

// naiveKeywords maps common Arabic news tokens to English equivalents.
// It backs the fallback-of-fallback when no translation capability is
// available; extend per need.
var naiveKeywords = map[string][]string{
	"السودان": {"Sudan"},
	"اليمن":   {"Yemen"},
	"لبنان":   {"Lebanon"},
	"فلسطين":  {"Palestine", "Gaza", "West Bank"},
	"إسرائيل": {"Israel"},
	"مصر":     {"Egypt"},
	"حرب":     {"war", "conflict", "fighting"},
	"أهلية":   {"civil"},
	"نزاع":    {"conflict"},
	"هدنة":    {"truce", "ceasefire"},
	"مجاعة":   {"famine", "hunger"},
	"كوليرا":  {"cholera"},
}

// genericFallback keeps stage fallbacks non-empty when no token matches.
var genericFallback = []string{"news", "Middle East"}

const tokenCutset = "\"،.؟!:;()[]{}«»'"

// NaiveEnglishFromArabic synthesises an approximate English query from the
// static dictionary. It returns "" for non-Arabic input; when no token
// matches it falls back to a generic keyword pair so the caller always has
// something to broaden with.
func NaiveEnglishFromArabic(userQuery string) string {
	if !ContainsArabic(userQuery) {
		return ""
	}
	var keys []string
	for _, token := range strings.Fields(userQuery) {
		token = strings.Trim(token, tokenCutset)
		keys = append(keys, naiveKeywords[token]...)
	}
	if len(keys) == 0 {
		keys = append(keys, genericFallback...)
	}
	sort.Strings(keys)
	return strings.Join(unique(keys), " ")
}

func unique(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := items[:0]
	for _, item := range items {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
