package embeddings

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/flowstack-ai/flowstack/pkg/provider"
)

func TestGoogleEmbedBatch(t *testing.T) {
	var gotPath, gotKey string
	var gotBody struct {
		Requests []struct {
			Model    string `json:"model"`
			TaskType string `json:"taskType"`
			Content  struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"requests"`
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"embeddings": []map[string]any{
				{"values": []float32{1, 2}},
				{"values": []float32{3, 4}},
			},
		})
	}))
	defer srv.Close()

	e := NewGoogleEmbedder(srv.URL, time.Second)
	vecs, err := e.EmbedBatch(context.Background(), []string{"one", "two"}, "text-embedding-004", "sekret")
	if err != nil {
		t.Fatalf("EmbedBatch failed: %v", err)
	}
	if len(vecs) != 2 || vecs[0][0] != 1 || vecs[1][1] != 4 {
		t.Errorf("Vectors wrong: %v", vecs)
	}

	// Bare model names get the provider's "models/" prefix, in the URL and
	// in each request entry.
	if gotPath != "/models/text-embedding-004:batchEmbedContents" {
		t.Errorf("Path: %q", gotPath)
	}
	if gotKey != "sekret" {
		t.Errorf("Credential must travel in the header, got %q", gotKey)
	}
	if len(gotBody.Requests) != 2 {
		t.Fatalf("Expected 2 batched requests, got %d", len(gotBody.Requests))
	}
	if gotBody.Requests[0].Model != "models/text-embedding-004" {
		t.Errorf("Request model: %q", gotBody.Requests[0].Model)
	}
	if gotBody.Requests[0].TaskType != "RETRIEVAL_DOCUMENT" {
		t.Errorf("Documents must embed with RETRIEVAL_DOCUMENT, got %q", gotBody.Requests[0].TaskType)
	}
	if gotBody.Requests[1].Content.Parts[0].Text != "two" {
		t.Errorf("Text: %q", gotBody.Requests[1].Content.Parts[0].Text)
	}
}

func TestGoogleEmbedQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, ":embedContent") {
			t.Errorf("Query embedding should use embedContent, path %q", r.URL.Path)
		}
		var body struct {
			TaskType string `json:"taskType"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		if body.TaskType != "RETRIEVAL_QUERY" {
			t.Errorf("Queries must embed with RETRIEVAL_QUERY, got %q", body.TaskType)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"embedding": map[string]any{"values": []float32{0.5, 0.25}},
		})
	}))
	defer srv.Close()

	e := NewGoogleEmbedder(srv.URL, time.Second)
	vec, err := e.EmbedQuery(context.Background(), "what now", "", "k")
	if err != nil {
		t.Fatalf("EmbedQuery failed: %v", err)
	}
	if len(vec) != 2 || vec[0] != 0.5 {
		t.Errorf("Vector wrong: %v", vec)
	}
}

func TestGoogleEmbedderHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "API key not valid"}`, http.StatusForbidden)
	}))
	defer srv.Close()

	e := NewGoogleEmbedder(srv.URL, time.Second)
	_, err := e.EmbedQuery(context.Background(), "q", "", "bad")
	if err == nil {
		t.Fatalf("Expected error on 403")
	}
	var pe *provider.Error
	if !errors.As(err, &pe) {
		t.Fatalf("Expected *provider.Error, got %T", err)
	}
	if pe.Status != http.StatusForbidden {
		t.Errorf("Status = %d", pe.Status)
	}
}

func TestGoogleEmbedBatchCountMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"embeddings": []map[string]any{{"values": []float32{1}}},
		})
	}))
	defer srv.Close()

	e := NewGoogleEmbedder(srv.URL, time.Second)
	if _, err := e.EmbedBatch(context.Background(), []string{"a", "b"}, "", ""); err == nil {
		t.Errorf("Mismatched embedding count must error")
	}
}

func TestNormalizeModel(t *testing.T) {
	cases := map[string]string{
		"":                          DefaultModel,
		"undefined":                 DefaultModel,
		"embedding-001":             "models/embedding-001",
		"models/text-embedding-004": "models/text-embedding-004",
	}
	for in, want := range cases {
		if got := normalizeModel(in); got != want {
			t.Errorf("normalizeModel(%q) = %q, want %q", in, got, want)
		}
	}
}
