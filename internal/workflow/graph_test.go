package workflow

import (
	"errors"
	"testing"
)

func TestParseWorkflowJSON(t *testing.T) {
	data := []byte(`{
		"nodes": [
			{"id": "n1", "kind": "query-source", "config": {"query": "hello"}, "position": {"x": 10, "y": 20}},
			{"id": "n2", "kind": "sink", "config": {}}
		],
		"edges": [
			{"id": "e1", "source": "n1", "target": "n2"}
		]
	}`)

	g, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(g.Nodes()) != 2 {
		t.Errorf("Expected 2 nodes, got %d", len(g.Nodes()))
	}
	if len(g.Edges()) != 1 {
		t.Errorf("Expected 1 edge, got %d", len(g.Edges()))
	}

	n, ok := g.NodeByID("n1")
	if !ok {
		t.Fatalf("NodeByID(n1) not found")
	}
	if n.Kind != KindQuerySource {
		t.Errorf("Expected kind %q, got %q", KindQuerySource, n.Kind)
	}
}

func TestParseInvalidJSON(t *testing.T) {
	_, err := Parse([]byte(`{"nodes": [`))
	if err == nil {
		t.Fatalf("Expected error for truncated JSON")
	}
	if !errors.Is(err, ErrMalformedGraph) {
		t.Errorf("Expected ErrMalformedGraph, got %v", err)
	}
}

func TestNewRejectsDuplicateIDs(t *testing.T) {
	_, err := New([]Node{
		{ID: "a", Kind: KindQuerySource},
		{ID: "a", Kind: KindSink},
	}, nil)
	if !errors.Is(err, ErrMalformedGraph) {
		t.Errorf("Expected ErrMalformedGraph for duplicate ids, got %v", err)
	}
}

func TestNewRejectsDanglingEdges(t *testing.T) {
	nodes := []Node{{ID: "a", Kind: KindQuerySource}}

	_, err := New(nodes, []Edge{{ID: "e1", Source: "a", Target: "ghost"}})
	if !errors.Is(err, ErrMalformedGraph) {
		t.Errorf("Expected ErrMalformedGraph for unknown target, got %v", err)
	}

	_, err = New(nodes, []Edge{{ID: "e1", Source: "ghost", Target: "a"}})
	if !errors.Is(err, ErrMalformedGraph) {
		t.Errorf("Expected ErrMalformedGraph for unknown source, got %v", err)
	}
}

func TestEdgesFromPreservesInsertionOrder(t *testing.T) {
	g, err := New([]Node{
		{ID: "a", Kind: KindQuerySource},
		{ID: "b", Kind: KindSink},
		{ID: "c", Kind: KindSink},
	}, []Edge{
		{ID: "e-second", Source: "a", Target: "c"},
		{ID: "e-first", Source: "a", Target: "b"},
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	out := g.EdgesFrom("a")
	if len(out) != 2 {
		t.Fatalf("Expected 2 outgoing edges, got %d", len(out))
	}
	// Order must be exactly as submitted, not sorted by id or target.
	if out[0].ID != "e-second" || out[1].ID != "e-first" {
		t.Errorf("Edge order not preserved: got [%s, %s]", out[0].ID, out[1].ID)
	}
}

func TestConfigString(t *testing.T) {
	n := Node{Config: map[string]any{
		"model":  "gemini-2.5-flash",
		"unset":  "undefined",
		"empty":  "",
		"number": 42.0,
	}}

	if got := n.ConfigString("model", "def"); got != "gemini-2.5-flash" {
		t.Errorf("model: got %q", got)
	}
	// "undefined" and "" are what the editor writes for untouched fields.
	if got := n.ConfigString("unset", "def"); got != "def" {
		t.Errorf("undefined literal should fall back, got %q", got)
	}
	if got := n.ConfigString("empty", "def"); got != "def" {
		t.Errorf("empty string should fall back, got %q", got)
	}
	if got := n.ConfigString("number", "def"); got != "def" {
		t.Errorf("non-string should fall back, got %q", got)
	}
	if got := n.ConfigString("missing", "def"); got != "def" {
		t.Errorf("missing key should fall back, got %q", got)
	}
}

func TestConfigFloat(t *testing.T) {
	n := Node{Config: map[string]any{
		"temperature": 0.3,
		"text":        "hot",
	}}

	if got := n.ConfigFloat("temperature", 0.75); got != 0.3 {
		t.Errorf("temperature: got %v", got)
	}
	if got := n.ConfigFloat("text", 0.75); got != 0.75 {
		t.Errorf("non-numeric should fall back, got %v", got)
	}
	if got := n.ConfigFloat("missing", 0.75); got != 0.75 {
		t.Errorf("missing key should fall back, got %v", got)
	}
}
