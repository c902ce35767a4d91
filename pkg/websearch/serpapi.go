// Package websearch provides the snippet-search gateway consumed by
// generator nodes that have the web search tool enabled.
package websearch

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// maxSnippets caps how many result snippets are folded into a prompt.
const maxSnippets = 3

// Searcher returns web snippets for a query. Implementations fail open: an
// upstream failure or an unconfigured credential yields an empty slice,
// never an error, so a broken search tool cannot abort a run.
type Searcher interface {
	Search(ctx context.Context, query, apiKey string) []string
}

const defaultSerpAPIURL = "https://serpapi.com/search.json"

// SerpAPIClient implements Searcher against the SerpAPI Google endpoint.
type SerpAPIClient struct {
	BaseURL string
	Client  *http.Client
}

func NewSerpAPIClient(baseURL string, timeout time.Duration) *SerpAPIClient {
	if baseURL == "" {
		baseURL = defaultSerpAPIURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &SerpAPIClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		Client:  &http.Client{Timeout: timeout},
	}
}

// Search returns up to maxSnippets organic-result snippets. All failure
// modes log a warning and return nil.
func (c *SerpAPIClient) Search(ctx context.Context, query, apiKey string) []string {
	if apiKey == "" {
		slog.Warn("web search requested but no SerpAPI key configured")
		return nil
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("api_key", apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		slog.Warn("web search request failed", "error", redactURLError(err))
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.Warn("web search returned non-OK status", "status", resp.Status)
		return nil
	}

	var result struct {
		OrganicResults []struct {
			Snippet string `json:"snippet"`
		} `json:"organic_results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		slog.Warn("failed to decode web search response", "error", err)
		return nil
	}

	var snippets []string
	for _, r := range result.OrganicResults {
		if r.Snippet == "" {
			continue
		}
		snippets = append(snippets, r.Snippet)
		if len(snippets) == maxSnippets {
			break
		}
	}
	return snippets
}

// redactURLError strips the request URL from transport errors before they
// are logged. The credential travels as a query parameter here, and a
// *url.Error embeds the full URL in its message.
func redactURLError(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		return uerr.Err
	}
	return err
}
