package query

import (
	"context"
	"log"
	"strings"

	"taqrir/provider"
)

// Expander wraps the generative capability with the deterministic
// fallbacks each escalation stage needs. A nil provider degrades every
// method to its fallback without error.
type Expander struct {
	llm    provider.Provider
	logger *log.Logger
}

func NewExpander(llm provider.Provider) *Expander {
	return &Expander{
		llm:    llm,
		logger: log.New(log.Writer(), "[QUERY] ", log.LstdFlags),
	}
}

// PreciseBilingual builds the stage-1 query: the precise form of the raw
// query, OR'd with a translated (or dictionary-synthesised) English form
// when one can be produced and differs from the original.
func (e *Expander) PreciseBilingual(ctx context.Context, userQuery string) string {
	precise := Precise(userQuery)

	translated := e.translate(ctx, userQuery)
	if translated == "" && ContainsArabic(userQuery) {
		translated = NaiveEnglishFromArabic(userQuery)
	}
	if translated != "" && !strings.EqualFold(translated, userQuery) {
		return precise + " OR " + Precise(translated)
	}
	return precise
}

// Expanded asks the LLM for OR-joined alternative phrasings; any failure
// falls back to the precise query unchanged.
func (e *Expander) Expanded(ctx context.Context, userQuery string) string {
	if e.llm == nil {
		return Precise(userQuery)
	}
	expanded, err := e.llm.ExpandQuery(ctx, userQuery)
	if err != nil || strings.TrimSpace(expanded) == "" {
		e.logger.Printf("semantic expansion failed, using precise query: %v", err)
		return Precise(userQuery)
	}
	return strings.TrimSpace(expanded)
}

// Simplified asks the LLM to reduce the query to core OR-joined keywords.
// On failure it falls back to the dictionary expansion OR'd with the raw
// query, and finally to the raw query alone.
func (e *Expander) Simplified(ctx context.Context, userQuery string) string {
	if e.llm != nil {
		simplified, err := e.llm.SimplifyQuery(ctx, userQuery)
		if err == nil && strings.TrimSpace(simplified) != "" {
			return strings.TrimSpace(simplified)
		}
		e.logger.Printf("simplification failed, using dictionary fallback: %v", err)
	}
	if eng := NaiveEnglishFromArabic(userQuery); eng != "" {
		return strings.TrimSpace(userQuery) + " OR " + eng
	}
	return strings.Join(strings.Fields(userQuery), " ")
}

// Aggressive builds the stage-4 query: quoting stripped and the
// dictionary expansion force-included.
func (e *Expander) Aggressive(userQuery string) string {
	raw := strings.Join(strings.Fields(userQuery), " ")
	raw = strings.ReplaceAll(raw, `"`, "")
	if eng := NaiveEnglishFromArabic(userQuery); eng != "" {
		return raw + " OR " + eng
	}
	return raw
}

func (e *Expander) translate(ctx context.Context, userQuery string) string {
	if e.llm == nil {
		return ""
	}
	translated, err := e.llm.Translate(ctx, userQuery)
	if err != nil {
		e.logger.Printf("translation failed: %v", err)
		return ""
	}
	return strings.TrimSpace(translated)
}
