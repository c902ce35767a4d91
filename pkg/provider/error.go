// Package provider holds the failure contract shared by the external
// gateways (embeddings, generation, web search).
package provider

import "fmt"

// Error is returned when an upstream provider call fails. It carries the
// upstream message so callers can decide whether the failure is fatal
// (ingest) or degraded (a generator node). Credentials never appear in it.
type Error struct {
	Service string // "embeddings", "llm", "websearch"
	Status  int    // HTTP status, 0 when the request never completed
	Message string
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s provider error (status %d): %s", e.Service, e.Status, e.Message)
	}
	return fmt.Sprintf("%s provider error: %s", e.Service, e.Message)
}
