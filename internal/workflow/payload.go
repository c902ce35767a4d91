package workflow

import "fmt"

// Payload is the value threaded between node visits during one run. It is a
// closed sum: either the bare text produced so far, or a query paired with
// retrieved context after a retriever has run. Each run owns exactly one
// payload; it is never shared across concurrent executions.
type Payload interface {
	fmt.Stringer
	// Query returns the query text a downstream node should operate on.
	Query() string
	payload()
}

// TextPayload is a bare string: the original query, or a generator's output.
type TextPayload string

func (p TextPayload) String() string { return string(p) }
func (p TextPayload) Query() string  { return string(p) }
func (p TextPayload) payload()       {}

// ContextPayload pairs the query with context retrieved from the stack's
// knowledge base. A generator consumes both; if the run dead-ends here the
// rendered form below becomes the result.
type ContextPayload struct {
	Q       string
	Context string
}

func (p ContextPayload) String() string {
	return fmt.Sprintf("query: %s\ncontext: %s", p.Q, p.Context)
}
func (p ContextPayload) Query() string { return p.Q }
func (p ContextPayload) payload()      {}
