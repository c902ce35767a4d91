package store

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/btree"
)

// Stack is one user-built workflow: a name plus the editor's graph JSON.
// The workflow blob is opaque here; parsing and validation live in the
// workflow package. A stack's id also namespaces its vector collection.
type Stack struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Workflow    json.RawMessage `json:"workflow,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// StackRegistry keeps stacks ordered by id. In-process backing for the
// HTTP surface; a database-backed registry can replace it behind the
// same methods.
type StackRegistry struct {
	mu   sync.RWMutex
	tree *btree.BTreeG[Stack]
}

func NewStackRegistry() *StackRegistry {
	return &StackRegistry{
		tree: btree.NewBTreeG(func(a, b Stack) bool { return a.ID < b.ID }),
	}
}

// Create registers a new, workflow-less stack.
func (r *StackRegistry) Create(name, description string) Stack {
	st := Stack{
		ID:          uuid.New().String(),
		Name:        name,
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}
	r.mu.Lock()
	r.tree.Set(st)
	r.mu.Unlock()
	return st
}

// Get returns the stack with the given id.
func (r *StackRegistry) Get(id string) (Stack, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	st, ok := r.tree.Get(Stack{ID: id})
	if !ok {
		return Stack{}, ErrNotFound
	}
	return st, nil
}

// List returns all stacks ordered by id.
func (r *StackRegistry) List() []Stack {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Stack, 0, r.tree.Len())
	r.tree.Scan(func(st Stack) bool {
		out = append(out, st)
		return true
	})
	return out
}

// UpdateWorkflow replaces the stack's workflow wholesale. Nodes and edges
// are never patched individually.
func (r *StackRegistry) UpdateWorkflow(id string, workflow json.RawMessage) (Stack, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	st, ok := r.tree.Get(Stack{ID: id})
	if !ok {
		return Stack{}, ErrNotFound
	}
	st.Workflow = workflow
	r.tree.Set(st)
	return st, nil
}
