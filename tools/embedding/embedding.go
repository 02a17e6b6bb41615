package embedding

import (
	"context"

	"taqrir/provider"
)

// Embedding adapts the LLM provider's embedding endpoint to the
// pipeline's Embedder contract.
type Embedding struct {
	provider provider.Provider
}

func NewEmbedding(provider provider.Provider) *Embedding {
	return &Embedding{provider: provider}
}

// EmbedMany returns one vector per text, in input order.
func (e *Embedding) EmbedMany(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	return e.provider.CreateEmbedding(ctx, texts)
}
