// Package pipeline turns uploaded files into queryable chunk vectors and
// serves similarity lookups back to the orchestrator's retriever nodes.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/flowstack-ai/flowstack/internal/store"
	"github.com/flowstack-ai/flowstack/pkg/embeddings"
	"github.com/flowstack-ai/flowstack/pkg/metrics"
)

// Pipeline runs document ingestion (extract -> chunk -> embed -> store) and
// retrieval against per-stack vector collections. Safe for concurrent use:
// independent ingests share nothing but the append-only collections.
type Pipeline struct {
	embedder  embeddings.Embedder
	vectors   *store.Store
	documents *store.DocumentRegistry
	splitter  Splitter
}

func New(embedder embeddings.Embedder, vectors *store.Store, documents *store.DocumentRegistry) *Pipeline {
	return &Pipeline{
		embedder:  embedder,
		vectors:   vectors,
		documents: documents,
		splitter:  NewFixedSplitter(ChunkSize),
	}
}

// Ingest processes one uploaded document end to end and records the outcome
// on the document's status: processed on success, error (with the message
// preserved) when any step fails. Steps are strictly sequential; each one
// is a hard dependency on the previous.
//
// Callers run this out of band (the upload request does not block on it),
// so the returned error exists for logging only; completion is
// communicated through the document status.
func (p *Pipeline) Ingest(ctx context.Context, docID, stackID, filename string, data []byte, embeddingModel, apiKey string) error {
	start := time.Now()
	slog.Info("starting document ingest", "document", docID, "stack", stackID, "filename", filename, "bytes", len(data))

	if err := p.documents.SetStatus(docID, store.DocumentProcessing, ""); err != nil {
		return err
	}

	err := p.ingest(ctx, docID, stackID, filename, data, embeddingModel, apiKey)
	metrics.IngestDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.IngestsTotal.WithLabelValues("error").Inc()
		slog.Error("document ingest failed", "document", docID, "stack", stackID, "error", err)
		if serr := p.documents.SetStatus(docID, store.DocumentError, err.Error()); serr != nil {
			slog.Error("failed to record ingest error", "document", docID, "error", serr)
		}
		return err
	}

	metrics.IngestsTotal.WithLabelValues("processed").Inc()
	slog.Info("document ingest complete", "document", docID, "stack", stackID, "duration", time.Since(start).String())
	return p.documents.SetStatus(docID, store.DocumentProcessed, "")
}

func (p *Pipeline) ingest(ctx context.Context, docID, stackID, filename string, data []byte, embeddingModel, apiKey string) error {
	// 1. Extract plain text.
	text, err := selectLoader(filename, data).Load(data)
	if err != nil {
		return fmt.Errorf("text extraction: %w", err)
	}

	// 2. Chunk. Empty text is a valid, chunk-less input: the document still
	// counts as processed, there is just nothing to index.
	chunks := p.splitter.SplitText(text)
	if len(chunks) == 0 {
		slog.Info("document produced no chunks, skipping embedding", "document", docID)
		return nil
	}
	slog.Debug("split document", "document", docID, "chars", len(text), "chunks", len(chunks))

	// 3. Embed all chunks in one batched call.
	vectors, err := p.embedder.EmbedBatch(ctx, chunks, embeddingModel, apiKey)
	if err != nil {
		return fmt.Errorf("embedding: %w", err)
	}
	if len(vectors) != len(chunks) {
		return fmt.Errorf("embedding: expected %d vectors, got %d", len(chunks), len(vectors))
	}

	// 4. Store one record per chunk in the stack's collection. Chunk ids
	// derive from the document id, so concurrent ingests into the same
	// collection cannot collide.
	collection := p.vectors.Collection(store.CollectionForStack(stackID))
	for i, chunk := range chunks {
		id := fmt.Sprintf("doc%s_chunk%d", docID, i)
		if err := collection.Add(id, vectors[i], chunk, docID); err != nil {
			return fmt.Errorf("storing chunk %d: %w", i, err)
		}
	}
	return nil
}

// Retrieve embeds the query and returns the topK most similar chunk texts
// from the stack's collection, best first. A stack with no collection yet
// (nothing ingested) yields an empty result, not an error.
func (p *Pipeline) Retrieve(ctx context.Context, stackID, query, embeddingModel, apiKey string, topK int) ([]string, error) {
	vec, err := p.embedder.EmbedQuery(ctx, query, embeddingModel, apiKey)
	if err != nil {
		return nil, fmt.Errorf("query embedding: %w", err)
	}

	results := p.vectors.Search(store.CollectionForStack(stackID), vec, topK)
	texts := make([]string, 0, len(results))
	for _, r := range results {
		texts = append(texts, r.Text)
	}
	slog.Debug("knowledge base lookup", "stack", stackID, "hits", len(texts))
	return texts, nil
}
