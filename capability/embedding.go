package capability

import "context"

// Embedding is the optional embedding collaborator used by boundary
// detection (cosine similarity) and semantic chunking. Callers fall back
// to Jaccard word-overlap similarity when this is nil or returns an error.
type Embedding interface {
	// Embed returns a single vector for text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch returns one vector per input text, in order. Implementations
	// should batch internally where the backing service allows it.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions reports the vector size this model produces.
	Dimensions() int
}
