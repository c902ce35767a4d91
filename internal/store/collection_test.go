package store

import (
	"fmt"
	"math"
	"testing"
)

func TestCosineSimilarity(t *testing.T) {
	cases := []struct {
		a, b []float32
		want float64
	}{
		{[]float32{1, 0}, []float32{1, 0}, 1},
		{[]float32{1, 0}, []float32{0, 1}, 0},
		{[]float32{1, 0}, []float32{-1, 0}, -1},
		{[]float32{1, 2}, []float32{1, 2, 3}, 0}, // mismatched length
		{[]float32{0, 0}, []float32{1, 2}, 0},    // zero norm
		{nil, nil, 0},
	}
	for i, c := range cases {
		got := cosineSimilarity(c.a, c.b)
		if math.Abs(got-c.want) > 1e-6 {
			t.Errorf("case %d: cosineSimilarity(%v, %v) = %v, want %v", i, c.a, c.b, got, c.want)
		}
	}
}

func TestCollectionAddAndSearch(t *testing.T) {
	c := newCollection("stack_test", PrecisionFloat32)

	// Three chunks along different directions; the query points at "a".
	vecs := map[string][]float32{
		"a": {1, 0, 0},
		"b": {0.7, 0.7, 0},
		"c": {0, 0, 1},
	}
	for id, v := range vecs {
		if err := c.Add(id, v, "text-"+id, "doc1"); err != nil {
			t.Fatalf("Add(%s) failed: %v", id, err)
		}
	}
	if c.Len() != 3 {
		t.Fatalf("Len = %d, want 3", c.Len())
	}

	results := c.Search([]float32{1, 0, 0}, 2)
	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}
	if results[0].ID != "a" || results[1].ID != "b" {
		t.Errorf("Expected order [a b], got [%s %s]", results[0].ID, results[1].ID)
	}
	if results[0].Text != "text-a" || results[0].DocumentID != "doc1" {
		t.Errorf("Result metadata wrong: %+v", results[0])
	}
	if results[0].Score < results[1].Score {
		t.Errorf("Results not in descending score order")
	}
}

func TestCollectionSearchTieBreaksOnID(t *testing.T) {
	c := newCollection("stack_test", PrecisionFloat32)

	// Identical vectors: every search must return the same id order.
	for _, id := range []string{"z", "m", "a"} {
		if err := c.Add(id, []float32{1, 1}, "t", "d"); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}

	for run := 0; run < 5; run++ {
		results := c.Search([]float32{1, 1}, 3)
		if len(results) != 3 {
			t.Fatalf("Expected 3 results, got %d", len(results))
		}
		if results[0].ID != "a" || results[1].ID != "m" || results[2].ID != "z" {
			t.Fatalf("Run %d: tie-break order broken: [%s %s %s]",
				run, results[0].ID, results[1].ID, results[2].ID)
		}
	}
}

func TestCollectionRejectsDuplicateID(t *testing.T) {
	c := newCollection("stack_test", PrecisionFloat32)
	if err := c.Add("x", []float32{1}, "t", "d"); err != nil {
		t.Fatalf("First Add failed: %v", err)
	}
	if err := c.Add("x", []float32{2}, "t2", "d2"); err == nil {
		t.Errorf("Duplicate chunk id must be rejected")
	}
}

func TestCollectionFloat16Precision(t *testing.T) {
	c := newCollection("stack_half", PrecisionFloat16)

	if err := c.Add("a", []float32{0.25, 0.5, 0.75}, "t", "d"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	results := c.Search([]float32{0.25, 0.5, 0.75}, 1)
	if len(results) != 1 {
		t.Fatalf("Expected 1 result, got %d", len(results))
	}
	// Those values are exactly representable in half precision, so the
	// self-similarity stays at 1 within rounding.
	if math.Abs(results[0].Score-1) > 1e-3 {
		t.Errorf("Self-similarity after float16 round-trip: %v", results[0].Score)
	}
}

func TestCollectionSearchEdgeCases(t *testing.T) {
	c := newCollection("stack_test", PrecisionFloat32)
	if got := c.Search([]float32{1}, 3); got != nil {
		t.Errorf("Empty collection should return nil, got %v", got)
	}
	if err := c.Add("a", []float32{1}, "t", "d"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if got := c.Search([]float32{1}, 0); got != nil {
		t.Errorf("k=0 should return nil, got %v", got)
	}
	if got := c.Search([]float32{1}, 10); len(got) != 1 {
		t.Errorf("k beyond size should return all records, got %d", len(got))
	}
}

func TestStoreCollectionLifecycle(t *testing.T) {
	s := New(PrecisionFloat32)

	name := CollectionForStack("abc123")
	if name != "stack_abc123" {
		t.Errorf("CollectionForStack: got %q", name)
	}

	if _, ok := s.Lookup(name); ok {
		t.Errorf("Lookup should not create collections")
	}
	// Missing collection: "no documents yet" is an empty result.
	if got := s.Search(name, []float32{1}, 3); got != nil {
		t.Errorf("Search on missing collection should be nil, got %v", got)
	}

	c := s.Collection(name)
	if c == nil {
		t.Fatalf("Collection returned nil")
	}
	if c2 := s.Collection(name); c2 != c {
		t.Errorf("Collection must return the same instance")
	}
	if _, ok := s.Lookup(name); !ok {
		t.Errorf("Lookup should find the created collection")
	}

	if err := c.Add("id1", []float32{1, 0}, "hello", "doc1"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	results := s.Search(name, []float32{1, 0}, 3)
	if len(results) != 1 || results[0].Text != "hello" {
		t.Errorf("Store search: %+v", results)
	}
}

func TestStoreTenancyIsolation(t *testing.T) {
	s := New(PrecisionFloat32)
	for stack := 0; stack < 3; stack++ {
		name := CollectionForStack(fmt.Sprintf("s%d", stack))
		c := s.Collection(name)
		if err := c.Add("only", []float32{1}, fmt.Sprintf("owned by s%d", stack), "d"); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}

	results := s.Search(CollectionForStack("s1"), []float32{1}, 10)
	if len(results) != 1 {
		t.Fatalf("Expected 1 result from s1's collection, got %d", len(results))
	}
	if results[0].Text != "owned by s1" {
		t.Errorf("Search crossed collections: %q", results[0].Text)
	}
}
