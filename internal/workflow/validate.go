package workflow

import "fmt"

// Validate decides whether a graph is executable. It returns false plus a
// human-readable reason on the first rule violated, true plus "workflow is
// valid" otherwise.
//
// The rules are deliberately shallow: exactly one entry point of kind
// query-source, at least one terminal sink, and some connectivity when more
// than one node exists. Interior connectivity, cycles, and out-degree are
// NOT checked; a graph can pass validation and still contain unreachable
// nodes or a node with two outgoing edges. The orchestrator resolves the
// latter with its first-edge tie-break (see Execute).
func Validate(g *Graph) (bool, string) {
	nodes := g.Nodes()
	if len(nodes) == 0 {
		return false, "workflow cannot be empty"
	}

	// Start candidates: nodes that never appear as an edge target.
	hasInput := make(map[string]bool)
	for _, e := range g.Edges() {
		hasInput[e.Target] = true
	}
	var starts []Node
	for _, n := range nodes {
		if !hasInput[n.ID] {
			starts = append(starts, n)
		}
	}

	if len(starts) != 1 {
		return false, fmt.Sprintf("workflow must have exactly one starting point, found %d", len(starts))
	}
	if starts[0].Kind != KindQuerySource {
		return false, "the starting node must be a query-source node"
	}

	// With zero edges every node is a start candidate, so the single-start
	// rule above already rejects edgeless multi-node graphs with its own
	// reason; this branch stays as a backstop should that rule change.
	if len(nodes) > 1 && len(g.Edges()) == 0 {
		return false, "there are multiple nodes but no connections"
	}

	// End candidates: sink nodes with no outgoing edge.
	ends := 0
	for _, n := range nodes {
		if n.Kind == KindSink && len(g.EdgesFrom(n.ID)) == 0 {
			ends++
		}
	}
	if ends == 0 {
		return false, "workflow must have at least one sink node"
	}

	return true, "workflow is valid"
}

// startNode returns the unique entry point of a validated graph. It assumes
// Validate has already passed; on an unvalidated graph the result is
// unspecified.
func startNode(g *Graph) (Node, bool) {
	hasInput := make(map[string]bool)
	for _, e := range g.Edges() {
		hasInput[e.Target] = true
	}
	for _, n := range g.Nodes() {
		if !hasInput[n.ID] {
			return n, true
		}
	}
	return Node{}, false
}
