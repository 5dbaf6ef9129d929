package extract

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract_NoAPIKey(t *testing.T) {
	c := NewClient("")
	assert.False(t, c.Configured())

	_, err := c.Extract(context.Background(), "https://example.com/job")
	assert.ErrorIs(t, err, ErrNoAPIKey)
}

func TestExtract_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req struct {
			URLs []string `json:"urls"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.URLs, 1)

		_ = json.NewEncoder(w).Encode(map[string]any{
			"results": []map[string]string{
				{"url": req.URLs[0], "raw_content": "Senior PM role. Requirements: roadmaps."},
			},
		})
	}))
	defer server.Close()

	c := NewClient("test-key").WithEndpoint(server.URL)
	content, err := c.Extract(context.Background(), "https://example.com/job")
	require.NoError(t, err)
	assert.Equal(t, "Senior PM role. Requirements: roadmaps.", content)
}

func TestExtract_FailedResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"results":        []map[string]string{},
			"failed_results": []map[string]string{{"url": "https://example.com/job", "error": "page unreachable"}},
		})
	}))
	defer server.Close()

	c := NewClient("test-key").WithEndpoint(server.URL)
	_, err := c.Extract(context.Background(), "https://example.com/job")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "page unreachable")
}

func TestExtract_ServiceError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"invalid api key"}`))
	}))
	defer server.Close()

	c := NewClient("bad-key").WithEndpoint(server.URL)
	_, err := c.Extract(context.Background(), "https://example.com/job")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
}

func TestExtract_EmptyContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"results": []map[string]string{{"url": "u", "raw_content": "   "}},
		})
	}))
	defer server.Close()

	c := NewClient("test-key").WithEndpoint(server.URL)
	_, err := c.Extract(context.Background(), "https://example.com/job")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty content")
}
