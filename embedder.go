package marketlens

import "context"

// Embedder converts a market-name query to a vector embedding.
// Lead embeddings are produced out of band; the client only vectorizes
// queries, so a single-text interface is enough.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// EmbeddingResult carries the embedding vector and token counts.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}
