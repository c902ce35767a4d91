package embeddings

import "context"

// DefaultModel is used when a node or upload does not name an embedding
// model (the editor sends "" or "undefined" for unset dropdowns).
const DefaultModel = "models/embedding-001"

// Embedder defines the interface for converting text into vector
// representations. Model and credential travel per call because every node
// in a workflow can carry its own.
//
// Two methods because providers distinguish the task type: documents are
// embedded for retrieval storage, queries for retrieval lookup.
type Embedder interface {
	EmbedBatch(ctx context.Context, texts []string, model, apiKey string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text, model, apiKey string) ([]float32, error)
}
