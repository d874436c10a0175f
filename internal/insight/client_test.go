package insight

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lifebook/internal/config"
	"lifebook/internal/domain"
)

func textDoc(text string) domain.RawDocument {
	return domain.RawDocument{
		Content:     []byte(text),
		ContentType: "text/plain",
		Filename:    "note.txt",
	}
}

func TestClientRequest_Success(t *testing.T) {
	var captured struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string                   `json:"role"`
			Content []map[string]interface{} `json:"content"`
		} `json:"messages"`
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"content": [{"type": "text", "text": "analysis result"}], "stop_reason": "end_turn"}`))
	}))
	defer server.Close()

	client := NewClient(&config.InsightConfig{APIKey: "test-key", Endpoint: server.URL})

	raw, err := client.Request(context.Background(), textDoc("Patient notes here"))
	require.NoError(t, err)
	assert.Equal(t, "analysis result", raw)

	require.Len(t, captured.Messages, 1)
	// Document text block plus the instruction block.
	assert.Len(t, captured.Messages[0].Content, 2)
}

func TestClientRequest_MissingKeyFailsBeforeAnyCall(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	client := NewClient(&config.InsightConfig{APIKey: "", Endpoint: server.URL})

	_, err := client.Request(context.Background(), textDoc("anything"))
	assert.ErrorIs(t, err, domain.ErrInsightNotConfigured)
	assert.False(t, called)
}

func TestClientRequest_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": {"type": "rate_limit_error"}}`))
	}))
	defer server.Close()

	client := NewClient(&config.InsightConfig{APIKey: "test-key", Endpoint: server.URL})

	_, err := client.Request(context.Background(), textDoc("anything"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 429")
}

func TestClientRequest_EmptyContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"content": [], "stop_reason": "end_turn"}`))
	}))
	defer server.Close()

	client := NewClient(&config.InsightConfig{APIKey: "test-key", Endpoint: server.URL})

	_, err := client.Request(context.Background(), textDoc("anything"))
	assert.Error(t, err)
}

func TestClientRequest_BinaryWithUnknownTypeRejected(t *testing.T) {
	client := NewClient(&config.InsightConfig{APIKey: "test-key", Endpoint: "http://127.0.0.1:0"})

	_, err := client.Request(context.Background(), domain.RawDocument{
		Content:     []byte{0xFF, 0xFE, 0x00},
		ContentType: "application/octet-stream",
		Filename:    "blob.bin",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported content type")
}
