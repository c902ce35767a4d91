// Package server implements the HTTP surface of the workflow builder:
// stack management, document upload with background ingestion, and the
// chat endpoint that drives the orchestrator.
package server

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/flowstack-ai/flowstack/pkg/llm"
)

// Config is the top-level YAML configuration for the server process.
// Per-node settings (models, temperatures, credentials) come from workflow
// configs at request time; only process-level plumbing lives here.
type Config struct {
	ListenAddr string `yaml:"listen_addr"`

	Store struct {
		// "float32" (default) or "float16" for half-precision vectors.
		Precision string `yaml:"precision"`
	} `yaml:"store"`

	Embedder struct {
		// "google" (Gemini REST, default) or "openai" compatible.
		Provider       string `yaml:"provider"`
		BaseURL        string `yaml:"base_url"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"embedder"`

	LLM llm.Config `yaml:"llm"`

	WebSearch struct {
		BaseURL        string `yaml:"base_url"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"web_search"`

	// MaxUploadBytes caps a single document upload. Defaults to 32 MiB.
	MaxUploadBytes int64 `yaml:"max_upload_bytes"`
}

func DefaultConfig() Config {
	cfg := Config{
		ListenAddr:     ":8000",
		LLM:            llm.DefaultConfig(),
		MaxUploadBytes: 32 << 20,
	}
	cfg.Store.Precision = "float32"
	cfg.Embedder.Provider = "google"
	cfg.Embedder.TimeoutSeconds = 60
	cfg.WebSearch.TimeoutSeconds = 30
	return cfg
}

// LoadConfig reads the YAML config at path, layered over the defaults.
// An empty path returns the defaults untouched.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}
