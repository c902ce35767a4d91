package embeddings

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/flowstack-ai/flowstack/pkg/provider"
)

// OpenAIEmbedder implements Embedder against any OpenAI-compatible
// /v1/embeddings endpoint (OpenAI, Ollama, LocalAI, vLLM). Useful for
// self-hosted deployments where Gemini is not reachable.
type OpenAIEmbedder struct {
	URL    string
	Client *http.Client
}

func NewOpenAIEmbedder(url string, timeout time.Duration) *OpenAIEmbedder {
	if url == "" {
		url = "https://api.openai.com/v1/embeddings" // Official default
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &OpenAIEmbedder{
		URL:    url,
		Client: &http.Client{Timeout: timeout},
	}
}

func (e *OpenAIEmbedder) EmbedBatch(ctx context.Context, texts []string, model, apiKey string) ([][]float32, error) {
	// OpenAI accepts an array input and returns one data entry per element.
	payload := map[string]any{
		"input": texts,
		"model": stripModelsPrefix(model),
	}

	data, err := e.post(ctx, payload, apiKey)
	if err != nil {
		return nil, err
	}
	if len(data) != len(texts) {
		return nil, &provider.Error{
			Service: "embeddings",
			Message: fmt.Sprintf("expected %d embeddings, got %d", len(texts), len(data)),
		}
	}
	return data, nil
}

func (e *OpenAIEmbedder) EmbedQuery(ctx context.Context, text, model, apiKey string) ([]float32, error) {
	payload := map[string]any{
		"input": text,
		"model": stripModelsPrefix(model),
	}
	data, err := e.post(ctx, payload, apiKey)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, &provider.Error{Service: "embeddings", Message: "provider returned no data"}
	}
	return data[0], nil
}

func (e *OpenAIEmbedder) post(ctx context.Context, payload any, apiKey string) ([][]float32, error) {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.URL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}

	resp, err := e.Client.Do(req)
	if err != nil {
		return nil, &provider.Error{Service: "embeddings", Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &provider.Error{Service: "embeddings", Status: resp.StatusCode, Message: string(msg)}
	}

	// { "data": [ { "embedding": [...] } ] }
	var openAIResp struct {
		Data []struct {
			Embedding []float32 `json:"embedding"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&openAIResp); err != nil {
		return nil, &provider.Error{Service: "embeddings", Message: fmt.Sprintf("failed to decode response: %v", err)}
	}

	out := make([][]float32, len(openAIResp.Data))
	for i, d := range openAIResp.Data {
		out[i] = d.Embedding
	}
	return out, nil
}

// stripModelsPrefix drops the Gemini-style "models/" prefix since
// OpenAI-compatible servers use bare model names.
func stripModelsPrefix(model string) string {
	if model == "" || model == "undefined" {
		return "text-embedding-3-small"
	}
	if len(model) > 7 && model[:7] == "models/" {
		return model[7:]
	}
	return model
}
