package provider

import (
	"context"
	"errors"
	"strings"

	"taqrir/config"
	"taqrir/models"
	openai_provider "taqrir/provider/openai"
)

// Client represents different LLM providers
type Client string

const (
	OpenAI    Client = "openai"
	Anthropic Client = "anthropic"
	Gemini    Client = "gemini"
)

// Provider is the generative-text and embedding capability used by the
// pipeline. Every method may fail; callers degrade rather than abort.
type Provider interface {
	Translate(ctx context.Context, query string) (string, error)
	ExpandQuery(ctx context.Context, query string) (string, error)
	SimplifyQuery(ctx context.Context, query string) (string, error)
	ExtractFacts(ctx context.Context, article models.Article) ([]models.Fact, error)
	WriteSection(ctx context.Context, title string, facts []models.Fact, refs map[string]int) (string, error)
	AssembleReport(ctx context.Context, query string, sections []models.Section) (string, error)
	CreateEmbedding(ctx context.Context, texts []string) ([][]float64, error)
}

// ErrNoAPIKey signals a configuration absence: the capability stays
// disabled for the whole process, it is not a runtime failure.
var ErrNoAPIKey = errors.New("provider api key not configured")

// NewProvider creates a new LLM client based on the provided configuration
func NewProvider(client Client, cfg config.OpenAIConfig) (Provider, error) {
	switch client {
	case OpenAI:
		if strings.TrimSpace(cfg.APIKey) == "" {
			return nil, ErrNoAPIKey
		}
		return openai_provider.NewOpenAIClient(
			cfg.APIKey,
			cfg.CompletionModel,
			cfg.EmbeddingModel,
			cfg.Temperature,
			cfg.MaxTokens,
			cfg.Timeout,
		), nil
	case Anthropic:
		return nil, errors.New("anthropic client not implemented yet")
	case Gemini:
		return nil, errors.New("gemini client not implemented yet")
	default:
		return nil, errors.New("unsupported LLM provider")
	}
}
