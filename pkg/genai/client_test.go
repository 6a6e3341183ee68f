package genai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/gemini-1.5-flash:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"generated text"}]}}]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", "gemini-1.5-flash", false)

	text, err := client.Generate(context.Background(), "say something")
	require.NoError(t, err)
	assert.Equal(t, "generated text", text)
}

func TestGenerateUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"quota exceeded"}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", "gemini-1.5-flash", false)

	_, err := client.Generate(context.Background(), "say something")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestGenerateEmptyCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", "gemini-1.5-flash", false)

	_, err := client.Generate(context.Background(), "say something")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no candidates")
}

func TestGenerateMockMode(t *testing.T) {
	client := NewClient("http://unreachable.invalid", "", "gemini-1.5-flash", true)

	text, err := client.Generate(context.Background(), "a very long prompt that will certainly be truncated somewhere")
	require.NoError(t, err)
	assert.Contains(t, text, "Mock response for:")
}
