package embeddings

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

const defaultGoogleBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// GoogleEmbedder implements Embedder against the Gemini REST API
// (embedContent / batchEmbedContents). The credential is sent in the
// x-goog-api-key header, never in the URL, so it cannot leak through logs.
type GoogleEmbedder struct {
	BaseURL string
	Client  *http.Client
}

func NewGoogleEmbedder(baseURL string, timeout time.Duration) *GoogleEmbedder {
	if baseURL == "" {
		baseURL = defaultGoogleBaseURL
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &GoogleEmbedder{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		Client:  &http.Client{Timeout: timeout},
	}
}

type googleContent struct {
	Parts []googlePart `json:"parts"`
}

type googlePart struct {
	Text string `json:"text"`
}

type googleEmbedRequest struct {
	Model    string        `json:"model,omitempty"`
	Content  googleContent `json:"content"`
	TaskType string        `json:"taskType,omitempty"`
}

// EmbedBatch embeds all texts in one batchEmbedContents call, tagged as
// retrieval documents.
func (e *GoogleEmbedder) EmbedBatch(ctx context.Context, texts []string, model, apiKey string) ([][]float32, error) {
	model = normalizeModel(model)

	reqs := make([]googleEmbedRequest, len(texts))
	for i, t := range texts {
		reqs[i] = googleEmbedRequest{
			Model:    model,
			Content:  googleContent{Parts: []googlePart{{Text: t}}},
			TaskType: "RETRIEVAL_DOCUMENT",
		}
	}
	payload := map[string]any{"requests": reqs}

	var resp struct {
		Embeddings []struct {
			Values []float32 `json:"values"`
		} `json:"embeddings"`
	}
	url := fmt.Sprintf("%s/%s:batchEmbedContents", e.BaseURL, model)
	if err := e.post(ctx, url, apiKey, payload, &resp); err != nil {
		return nil, err
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, &provider.Error{
			Service: "embeddings",
			Message: fmt.Sprintf("expected %d embeddings, got %d", len(texts), len(resp.Embeddings)),
		}
	}

	out := make([][]float32, len(texts))
	for i, emb := range resp.Embeddings {
		out[i] = emb.Values
	}
	return out, nil
}

// EmbedQuery embeds a single query, tagged as a retrieval query so the
// provider applies the matching projection.
func (e *GoogleEmbedder) EmbedQuery(ctx context.Context, text, model, apiKey string) ([]float32, error) {
	model = normalizeModel(model)

	payload := googleEmbedRequest{
		Content:  googleContent{Parts: []googlePart{{Text: text}}},
		TaskType: "RETRIEVAL_QUERY",
	}

	var resp struct {
		Embedding struct {
			Values []float32 `json:"values"`
		} `json:"embedding"`
	}
	url := fmt.Sprintf("%s/%s:embedContent", e.BaseURL, model)
	if err := e.post(ctx, url, apiKey, payload, &resp); err != nil {
		return nil, err
	}
	return resp.Embedding.Values, nil
}

func (e *GoogleEmbedder) post(ctx context.Context, url, apiKey string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("x-goog-api-key", apiKey)
	}

	resp, err := e.Client.Do(req)
	if err != nil {
		return &provider.Error{Service: "embeddings", Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &provider.Error{Service: "embeddings", Status: resp.StatusCode, Message: string(msg)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &provider.Error{Service: "embeddings", Message: fmt.Sprintf("failed to decode response: %v", err)}
	}
	return nil
}

// normalizeModel applies the default and the provider's "models/" prefix.
func normalizeModel(model string) string {
	if model == "" || model == "undefined" {
		return DefaultModel
	}
	if !strings.HasPrefix(model, "models/") {
		return "models/" + model
	}
	return model
}
