package server

import (
	"encoding/json"

	"github.com/flowstack-ai/flowstack/internal/store"
)

// --- Request payloads ---

type createStackRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type updateStackRequest struct {
	Workflow json.RawMessage `json:"workflow"`
}

type chatRequest struct {
	// Workflow overrides the stack's saved workflow for this run. When
	// empty, the saved one is used.
	Workflow json.RawMessage `json:"workflow,omitempty"`
	Query    string          `json:"query"`
}

// --- Response payloads ---

type chatResponse struct {
	Response string `json:"response"`
}

type uploadResponse struct {
	Document store.Document `json:"document"`
	TaskID   string         `json:"task_id"`
}

type errorResponse struct {
	Error string `json:"error"`
}
