package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/flowstack-ai/flowstack/pkg/provider"
)

// Client defines the interface for interacting with a generation provider.
// This abstraction allows for easy mocking in tests. Model, temperature,
// and credential travel per call: every generator node carries its own.
type Client interface {
	Generate(ctx context.Context, prompt, model string, temperature float64, apiKey string) (string, error)
}

// New builds a client from the config's provider selection.
func New(cfg Config) Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if strings.EqualFold(cfg.Provider, "openai") {
		return NewOpenAIClient(cfg.BaseURL, timeout)
	}
	return NewGeminiClient(cfg.BaseURL, timeout)
}

const defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// GeminiClient implements Client against the Gemini REST API
// (models/{model}:generateContent). The credential is sent in the
// x-goog-api-key header, never in the URL.
type GeminiClient struct {
	BaseURL    string
	httpClient *http.Client
}

func NewGeminiClient(baseURL string, timeout time.Duration) *GeminiClient {
	if baseURL == "" {
		baseURL = defaultGeminiBaseURL
	}
	if timeout <= 0 {
		// Generation can be slow; keep a generous but bounded ceiling.
		timeout = 120 * time.Second
	}
	return &GeminiClient{
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	Temperature float64 `json:"temperature"`
}

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// Generate performs a blocking completion request. One attempt, no retries;
// the orchestrator decides how a failure surfaces.
func (c *GeminiClient) Generate(ctx context.Context, prompt, model string, temperature float64, apiKey string) (string, error) {
	reqBody := geminiRequest{
		Contents:         []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
		GenerationConfig: geminiGenerationConfig{Temperature: temperature},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.BaseURL, strings.TrimPrefix(model, "models/"))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("x-goog-api-key", apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &provider.Error{Service: "llm", Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", &provider.Error{Service: "llm", Status: resp.StatusCode, Message: string(msg)}
	}

	var gResp geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&gResp); err != nil {
		return "", &provider.Error{Service: "llm", Message: fmt.Sprintf("failed to decode response: %v", err)}
	}
	if len(gResp.Candidates) == 0 || len(gResp.Candidates[0].Content.Parts) == 0 {
		return "", &provider.Error{Service: "llm", Message: "provider returned no candidates"}
	}

	var sb strings.Builder
	for _, part := range gResp.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	return sb.String(), nil
}

// OpenAIClient implements Client for OpenAI-compatible APIs.
// It works with OpenAI, Ollama, LocalAI, vLLM, etc.
type OpenAIClient struct {
	BaseURL    string
	httpClient *http.Client
}

func NewOpenAIClient(baseURL string, timeout time.Duration) *OpenAIClient {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &OpenAIClient{
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *OpenAIClient) Generate(ctx context.Context, prompt, model string, temperature float64, apiKey string) (string, error) {
	reqBody := ChatRequest{
		Model:       strings.TrimPrefix(model, "models/"),
		Messages:    []Message{{Role: "user", Content: prompt}},
		Temperature: temperature,
		Stream:      false, // Blocking requests keep orchestration simple
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &provider.Error{Service: "llm", Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", &provider.Error{Service: "llm", Status: resp.StatusCode, Message: string(msg)}
	}

	var chatResp ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", &provider.Error{Service: "llm", Message: fmt.Sprintf("failed to decode response: %v", err)}
	}
	if chatResp.Error != nil {
		return "", &provider.Error{Service: "llm", Message: chatResp.Error.Message}
	}
	if len(chatResp.Choices) == 0 {
		return "", &provider.Error{Service: "llm", Message: "provider returned no choices"}
	}
	return chatResp.Choices[0].Message.Content, nil
}
