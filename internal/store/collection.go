package store

import (
	"fmt"
	"sort"
	"sync"

	"github.com/x448/float16"

	"github.com/flowstack-ai/flowstack/pkg/metrics"
)

// Precision selects how chunk vectors are held in memory. Half precision
// halves the footprint at a small recall cost; fine for snippet retrieval.
type Precision string

const (
	PrecisionFloat32 Precision = "float32"
	PrecisionFloat16 Precision = "float16"
)

// chunkRecord is one stored chunk: the embedding plus the text it came
// from and a back-reference to the owning document (lookup only).
type chunkRecord struct {
	id         string
	documentID string
	text       string
	vec32      []float32         // set when precision is float32
	vec16      []float16.Float16 // set when precision is float16
}

func (r *chunkRecord) vector() []float32 {
	if r.vec32 != nil {
		return r.vec32
	}
	out := make([]float32, len(r.vec16))
	for i, h := range r.vec16 {
		out[i] = h.Float32()
	}
	return out
}

// Result is one similarity-search hit.
type Result struct {
	ID         string
	DocumentID string
	Text       string
	Score      float64
}

// Collection is one stack's append-only set of chunk vectors. There are no
// update or delete operations, so a plain RWMutex covers concurrent ingests
// appending while searches read.
type Collection struct {
	name      string
	precision Precision

	mu      sync.RWMutex
	records []chunkRecord
	ids     map[string]struct{}
}

func newCollection(name string, precision Precision) *Collection {
	if precision == "" {
		precision = PrecisionFloat32
	}
	return &Collection{
		name:      name,
		precision: precision,
		ids:       make(map[string]struct{}),
	}
}

// Add appends one chunk record. IDs are unique per collection; a duplicate
// means two ingests collided on the same document ordinal, which the
// chunk-id scheme (doc<id>_chunk<n>) rules out for distinct documents.
func (c *Collection) Add(id string, vector []float32, text, documentID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.ids[id]; exists {
		return fmt.Errorf("chunk id %q already exists in collection %q", id, c.name)
	}

	rec := chunkRecord{id: id, documentID: documentID, text: text}
	if c.precision == PrecisionFloat16 {
		rec.vec16 = make([]float16.Float16, len(vector))
		for i, v := range vector {
			rec.vec16[i] = float16.Fromfloat32(v)
		}
	} else {
		rec.vec32 = vector
	}

	c.records = append(c.records, rec)
	c.ids[id] = struct{}{}
	metrics.TotalVectors.WithLabelValues(c.name).Set(float64(len(c.records)))
	return nil
}

// Search scans every record and returns the k most similar, by descending
// cosine similarity. Ties break on chunk id so repeated searches with the
// same arguments return the same order.
func (c *Collection) Search(query []float32, k int) []Result {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if k <= 0 || len(c.records) == 0 {
		return nil
	}

	results := make([]Result, 0, len(c.records))
	for i := range c.records {
		rec := &c.records[i]
		results = append(results, Result{
			ID:         rec.id,
			DocumentID: rec.documentID,
			Text:       rec.text,
			Score:      cosineSimilarity(query, rec.vector()),
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].ID < results[j].ID
	})

	if len(results) > k {
		results = results[:k]
	}
	return results
}

// Len returns the number of stored chunks.
func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.records)
}
