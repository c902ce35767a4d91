package llm

// Config holds the connection settings for a generation provider.
// It is designed to be embedded in YAML configuration files. The model,
// temperature, and credential come per call from the generator node's
// config, so only transport-level settings live here.
type Config struct {
	// Provider selects the wire protocol: "google" (Gemini REST) or
	// "openai" (any OpenAI-compatible /chat/completions endpoint).
	Provider string `yaml:"provider" json:"provider"`

	// BaseURL is the API endpoint.
	// Examples:
	// - Gemini: "https://generativelanguage.googleapis.com/v1beta"
	// - OpenAI: "https://api.openai.com/v1"
	// - Ollama: "http://localhost:11434/v1"
	BaseURL string `yaml:"base_url" json:"base_url"`

	// TimeoutSeconds bounds a single generation call. A hung provider
	// surfaces as a provider error instead of blocking the run forever.
	TimeoutSeconds int `yaml:"timeout_seconds" json:"timeout_seconds"`
}

// DefaultConfig returns defaults for the hosted Gemini API.
func DefaultConfig() Config {
	return Config{
		Provider:       "google",
		TimeoutSeconds: 120,
	}
}

// --- OpenAI-compatible API payloads ---

// ChatRequest represents the payload sent to POST /chat/completions
type ChatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	Stream      bool      `json:"stream"`
}

// Message represents a single turn in the chat conversation.
type Message struct {
	Role    string `json:"role"`    // "system", "user", "assistant"
	Content string `json:"content"` // The actual text
}

// ChatResponse represents the standard response from OpenAI-compatible APIs.
type ChatResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
	Error *APIError `json:"error,omitempty"`
}

// APIError captures error details returned by the provider.
type APIError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}
