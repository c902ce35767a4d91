package workflow

import (
	"encoding/json"
	"fmt"
)

// Kind identifies what a node does during execution. The set is closed:
// adding a kind means extending the orchestrator dispatch and the
// validator's start/end checks in this package.
type Kind string

const (
	KindQuerySource Kind = "query-source"
	KindRetriever   Kind = "retriever"
	KindGenerator   Kind = "generator"
	KindSink        Kind = "sink"
)

// Node is one typed unit of work in a stack's workflow. Config carries
// per-node settings (model names, temperature, API credentials) as opaque
// scalars chosen in the editor. Nodes are never mutated after graph load.
type Node struct {
	ID     string         `json:"id"`
	Kind   Kind           `json:"kind"`
	Config map[string]any `json:"config"`
}

// ConfigString returns the string value for key, or def when the key is
// missing, empty, or not a string. The editor sometimes serializes unset
// dropdowns as the literal "undefined", which counts as missing here.
func (n Node) ConfigString(key, def string) string {
	v, ok := n.Config[key]
	if !ok {
		return def
	}
	s, ok := v.(string)
	if !ok || s == "" || s == "undefined" {
		return def
	}
	return s
}

// ConfigFloat returns the float value for key, or def. JSON numbers decode
// as float64; integers stored by the editor are accepted too.
func (n Node) ConfigFloat(key string, def float64) float64 {
	switch v := n.Config[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return f
		}
	}
	return def
}

// Edge is a directed connection from one node to the next.
type Edge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
}

// Graph is the in-memory representation of a stack's workflow. It is a
// structural container only: lookups, no behavior. Node and edge order is
// preserved exactly as submitted by the editor, which matters because the
// orchestrator's advance rule follows the first matching outgoing edge.
type Graph struct {
	nodes []Node
	edges []Edge
	byID  map[string]int
}

// New builds a Graph and eagerly checks referential integrity: node IDs
// must be unique and every edge endpoint must name an existing node.
// Violations return a *MalformedGraphError before any traversal can happen.
func New(nodes []Node, edges []Edge) (*Graph, error) {
	byID := make(map[string]int, len(nodes))
	for i, n := range nodes {
		if _, dup := byID[n.ID]; dup {
			return nil, &MalformedGraphError{Msg: fmt.Sprintf("duplicate node id %q", n.ID)}
		}
		byID[n.ID] = i
	}
	for _, e := range edges {
		if _, ok := byID[e.Source]; !ok {
			return nil, &MalformedGraphError{Msg: fmt.Sprintf("edge %q references unknown source node %q", e.ID, e.Source)}
		}
		if _, ok := byID[e.Target]; !ok {
			return nil, &MalformedGraphError{Msg: fmt.Sprintf("edge %q references unknown target node %q", e.ID, e.Target)}
		}
	}
	return &Graph{nodes: nodes, edges: edges, byID: byID}, nil
}

// Parse decodes the editor's wire format and constructs a Graph. Unknown
// fields on nodes (notably "position") are editor metadata the engine
// never reads, so plain JSON decoding drops them.
func Parse(data []byte) (*Graph, error) {
	var doc struct {
		Nodes []Node `json:"nodes"`
		Edges []Edge `json:"edges"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &MalformedGraphError{Msg: "invalid workflow JSON", Err: err}
	}
	return New(doc.Nodes, doc.Edges)
}

// NodeByID returns the node with the given id.
func (g *Graph) NodeByID(id string) (Node, bool) {
	i, ok := g.byID[id]
	if !ok {
		return Node{}, false
	}
	return g.nodes[i], true
}

// EdgesFrom returns the edges leaving the given node, in insertion order.
func (g *Graph) EdgesFrom(id string) []Edge {
	var out []Edge
	for _, e := range g.edges {
		if e.Source == id {
			out = append(out, e)
		}
	}
	return out
}

// EdgesTo returns the edges entering the given node, in insertion order.
func (g *Graph) EdgesTo(id string) []Edge {
	var out []Edge
	for _, e := range g.edges {
		if e.Target == id {
			out = append(out, e)
		}
	}
	return out
}

// Nodes returns the nodes in insertion order.
func (g *Graph) Nodes() []Node { return g.nodes }

// Edges returns the edges in insertion order.
func (g *Graph) Edges() []Edge { return g.edges }
