package store

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/btree"
)

// ErrNotFound is returned by registry lookups for unknown ids.
var ErrNotFound = errors.New("not found")

// DocumentStatus tracks a document through the ingestion pipeline. The
// pipeline is the only writer after upload; the engine never deletes
// documents (deletion belongs to the outer persistence layer).
type DocumentStatus string

const (
	DocumentUploaded   DocumentStatus = "uploaded"
	DocumentProcessing DocumentStatus = "processing"
	DocumentProcessed  DocumentStatus = "processed"
	DocumentError      DocumentStatus = "error"
)

// Document is the metadata record for an uploaded file. Error holds the
// preserved failure message when Status is "error".
type Document struct {
	ID         string         `json:"id"`
	StackID    string         `json:"stack_id"`
	Filename   string         `json:"filename"`
	Status     DocumentStatus `json:"status"`
	Error      string         `json:"error,omitempty"`
	UploadedAt time.Time      `json:"uploaded_at"`
}

// DocumentRegistry keeps documents ordered by id in a B-tree so listings
// are deterministic. Status transitions go through SetStatus only.
type DocumentRegistry struct {
	mu   sync.RWMutex
	tree *btree.BTreeG[Document]
}

func NewDocumentRegistry() *DocumentRegistry {
	return &DocumentRegistry{
		tree: btree.NewBTreeG(func(a, b Document) bool { return a.ID < b.ID }),
	}
}

// Create registers a freshly uploaded document.
func (r *DocumentRegistry) Create(stackID, filename string) Document {
	doc := Document{
		ID:         uuid.New().String(),
		StackID:    stackID,
		Filename:   filename,
		Status:     DocumentUploaded,
		UploadedAt: time.Now().UTC(),
	}
	r.mu.Lock()
	r.tree.Set(doc)
	r.mu.Unlock()
	return doc
}

// Get returns the document with the given id.
func (r *DocumentRegistry) Get(id string) (Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	doc, ok := r.tree.Get(Document{ID: id})
	if !ok {
		return Document{}, ErrNotFound
	}
	return doc, nil
}

// ListByStack returns the stack's documents ordered by id.
func (r *DocumentRegistry) ListByStack(stackID string) []Document {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Document
	r.tree.Scan(func(doc Document) bool {
		if doc.StackID == stackID {
			out = append(out, doc)
		}
		return true
	})
	return out
}

// SetStatus transitions a document's status, preserving errMsg when the
// transition is to the error state.
func (r *DocumentRegistry) SetStatus(id string, status DocumentStatus, errMsg string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.tree.Get(Document{ID: id})
	if !ok {
		return ErrNotFound
	}
	doc.Status = status
	doc.Error = ""
	if status == DocumentError {
		doc.Error = errMsg
	}
	r.tree.Set(doc)
	return nil
}
