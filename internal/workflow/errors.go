package workflow

import (
	"errors"
	"fmt"
)

// Sentinel errors for programmatic checks via errors.Is().
var (
	// ErrMalformedGraph indicates the structural input contract was
	// violated: duplicate node ids or edges naming nonexistent nodes.
	ErrMalformedGraph = errors.New("malformed graph")

	// ErrExecution indicates a run could not start or finish: either the
	// validator rejected the graph or a node raised an unrecoverable error.
	ErrExecution = errors.New("workflow execution error")
)

// MalformedGraphError is raised at graph construction, before any
// execution begins.
type MalformedGraphError struct {
	Msg string
	Err error // optional underlying cause (e.g. a JSON decode error)
}

func (e *MalformedGraphError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", ErrMalformedGraph.Error(), e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", ErrMalformedGraph.Error(), e.Msg)
}

func (e *MalformedGraphError) Unwrap() error { return ErrMalformedGraph }

// ExecutionError carries the reason a run was refused or aborted. When the
// validator rejects the graph, Reason is its reason string verbatim.
type ExecutionError struct {
	Reason string
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("%s: %s", ErrExecution.Error(), e.Reason)
}

func (e *ExecutionError) Unwrap() error { return ErrExecution }
