// Package extract is the client for the external content-extraction service
// used to pull the main text of a job posting from a URL. The service is a
// black box behind a narrow request/response contract; it needs an API key
// and the client fails with a descriptive error when none is configured.
package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultEndpoint is the extraction service's REST endpoint.
const DefaultEndpoint = "https://api.tavily.com/extract"

// ErrNoAPIKey is returned when the client is constructed without a credential.
var ErrNoAPIKey = fmt.Errorf("extraction service API key not configured (set TAVILY_API_KEY)")

// Client calls the extraction service.
type Client struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
}

// NewClient creates a Client with the given API key. An empty key is allowed
// at construction; Extract reports ErrNoAPIKey when called without one, so
// callers can decide between failing and degrading.
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:   apiKey,
		endpoint: DefaultEndpoint,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// WithEndpoint overrides the service endpoint, for tests.
func (c *Client) WithEndpoint(endpoint string) *Client {
	c.endpoint = endpoint
	return c
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

type extractRequest struct {
	URLs []string `json:"urls"`
}

type extractResponse struct {
	Results []struct {
		URL        string `json:"url"`
		RawContent string `json:"raw_content"`
	} `json:"results"`
	FailedResults []struct {
		URL   string `json:"url"`
		Error string `json:"error"`
	} `json:"failed_results"`
}

// Extract returns the main textual content of the page at urlStr.
func (c *Client) Extract(ctx context.Context, urlStr string) (string, error) {
	if !c.Configured() {
		return "", ErrNoAPIKey
	}

	body, err := json.Marshal(extractRequest{URLs: []string{urlStr}})
	if err != nil {
		return "", fmt.Errorf("failed to marshal extraction request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create extraction request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("extraction request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read extraction response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("extraction service returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var parsed extractResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse extraction response: %w", err)
	}

	if len(parsed.Results) == 0 {
		if len(parsed.FailedResults) > 0 {
			return "", fmt.Errorf("extraction failed for %s: %s", urlStr, parsed.FailedResults[0].Error)
		}
		return "", fmt.Errorf("extraction service returned no content for %s", urlStr)
	}

	content := strings.TrimSpace(parsed.Results[0].RawContent)
	if content == "" {
		return "", fmt.Errorf("extraction service returned empty content for %s", urlStr)
	}
	return content, nil
}
