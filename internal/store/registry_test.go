package store

import (
	"encoding/json"
	"errors"
	"sort"
	"testing"
)

func TestDocumentLifecycle(t *testing.T) {
	r := NewDocumentRegistry()

	doc := r.Create("stack1", "report.pdf")
	if doc.ID == "" {
		t.Fatalf("Create returned empty id")
	}
	if doc.Status != DocumentUploaded {
		t.Errorf("New document status = %q, want %q", doc.Status, DocumentUploaded)
	}
	if doc.UploadedAt.IsZero() {
		t.Errorf("UploadedAt not set")
	}

	got, err := r.Get(doc.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Filename != "report.pdf" || got.StackID != "stack1" {
		t.Errorf("Stored document mismatch: %+v", got)
	}

	// uploaded -> processing -> processed
	if err := r.SetStatus(doc.ID, DocumentProcessing, ""); err != nil {
		t.Fatalf("SetStatus(processing) failed: %v", err)
	}
	if err := r.SetStatus(doc.ID, DocumentProcessed, ""); err != nil {
		t.Fatalf("SetStatus(processed) failed: %v", err)
	}
	got, _ = r.Get(doc.ID)
	if got.Status != DocumentProcessed || got.Error != "" {
		t.Errorf("After processing: %+v", got)
	}
}

func TestDocumentErrorStatusPreservesMessage(t *testing.T) {
	r := NewDocumentRegistry()
	doc := r.Create("stack1", "broken.pdf")

	if err := r.SetStatus(doc.ID, DocumentError, "pdf is encrypted"); err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}
	got, _ := r.Get(doc.ID)
	if got.Status != DocumentError {
		t.Errorf("Status = %q", got.Status)
	}
	if got.Error != "pdf is encrypted" {
		t.Errorf("Error message not preserved: %q", got.Error)
	}

	// Leaving the error state clears the message.
	if err := r.SetStatus(doc.ID, DocumentProcessed, ""); err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}
	got, _ = r.Get(doc.ID)
	if got.Error != "" {
		t.Errorf("Error message should clear on non-error status: %q", got.Error)
	}
}

func TestDocumentRegistryNotFound(t *testing.T) {
	r := NewDocumentRegistry()
	if _, err := r.Get("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get: expected ErrNotFound, got %v", err)
	}
	if err := r.SetStatus("nope", DocumentProcessed, ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("SetStatus: expected ErrNotFound, got %v", err)
	}
}

func TestDocumentListByStack(t *testing.T) {
	r := NewDocumentRegistry()
	var mine []string
	for i := 0; i < 3; i++ {
		mine = append(mine, r.Create("stackA", "a.txt").ID)
	}
	r.Create("stackB", "b.txt")

	docs := r.ListByStack("stackA")
	if len(docs) != 3 {
		t.Fatalf("Expected 3 documents, got %d", len(docs))
	}
	// Listing order is ascending by id.
	sort.Strings(mine)
	for i, doc := range docs {
		if doc.ID != mine[i] {
			t.Errorf("Position %d: got %s, want %s", i, doc.ID, mine[i])
		}
	}

	if got := r.ListByStack("ghost"); len(got) != 0 {
		t.Errorf("Unknown stack should list empty, got %d", len(got))
	}
}

func TestStackRegistry(t *testing.T) {
	r := NewStackRegistry()

	st := r.Create("Support Bot", "answers from the manual")
	if st.ID == "" {
		t.Fatalf("Create returned empty id")
	}
	if len(st.Workflow) != 0 {
		t.Errorf("New stack should have no workflow")
	}

	got, err := r.Get(st.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Name != "Support Bot" || got.Description != "answers from the manual" {
		t.Errorf("Stored stack mismatch: %+v", got)
	}

	if _, err := r.Get("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	wf := json.RawMessage(`{"nodes":[],"edges":[]}`)
	updated, err := r.UpdateWorkflow(st.ID, wf)
	if err != nil {
		t.Fatalf("UpdateWorkflow failed: %v", err)
	}
	if string(updated.Workflow) != string(wf) {
		t.Errorf("Workflow not stored: %s", updated.Workflow)
	}
	if _, err := r.UpdateWorkflow("missing", wf); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	r.Create("Second", "")
	if got := r.List(); len(got) != 2 {
		t.Errorf("List: expected 2 stacks, got %d", len(got))
	}
}
