package gemini_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vitalis/internal/config"
	"vitalis/internal/llm"
	"vitalis/internal/llm/gemini"
	"vitalis/internal/port"
)

func newTestClient(t *testing.T, serverURL string) *gemini.Client {
	t.Helper()
	client, err := gemini.NewClientWithEndpoint(&config.LLMConfig{
		APIKey:      "test-gemini-key",
		TimeoutSecs: 30,
	}, serverURL)
	require.NoError(t, err)
	return client
}

func successResponse(text string) map[string]interface{} {
	return map[string]interface{}{
		"candidates": []map[string]interface{}{
			{
				"content": map[string]interface{}{
					"role": "model",
					"parts": []map[string]interface{}{
						{"text": text},
					},
				},
				"finishReason": "STOP",
			},
		},
	}
}

func TestClient_Invoke_TextPrompt(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-gemini-key", r.Header.Get("x-goog-api-key"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var reqBody map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&reqBody))

		contents := reqBody["contents"].([]interface{})
		require.Len(t, contents, 1)
		msg := contents[0].(map[string]interface{})
		assert.Equal(t, "user", msg["role"])

		// Text-only requests carry exactly one part.
		parts := msg["parts"].([]interface{})
		require.Len(t, parts, 1)
		textPart := parts[0].(map[string]interface{})
		assert.NotEmpty(t, textPart["text"])

		genConfig := reqBody["generationConfig"].(map[string]interface{})
		assert.Equal(t, "application/json", genConfig["responseMimeType"])

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(successResponse(`{"ok": true}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	out, err := client.Invoke(context.Background(), "gemini-2.5-pro", port.ModelRequest{Prompt: "extract"})

	require.NoError(t, err)
	assert.Equal(t, `{"ok": true}`, out)
}

func TestClient_Invoke_ImagePayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var reqBody map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&reqBody))

		contents := reqBody["contents"].([]interface{})
		parts := contents[0].(map[string]interface{})["parts"].([]interface{})
		require.Len(t, parts, 2)

		// First part: inline_data, second part: text prompt.
		inline := parts[0].(map[string]interface{})["inline_data"].(map[string]interface{})
		assert.Equal(t, "image/jpeg", inline["mime_type"])
		assert.NotEmpty(t, inline["data"])
		assert.NotEmpty(t, parts[1].(map[string]interface{})["text"])

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(successResponse(`{"ok": true}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	_, err := client.Invoke(context.Background(), "gemini-2.0-flash", port.ModelRequest{
		Prompt:    "extract",
		ImageData: []byte{0xFF, 0xD8, 0xFF},
		ImageMIME: "image/jpeg",
	})

	require.NoError(t, err)
}

func TestClient_Invoke_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": {"message": "quota exceeded"}}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	_, err := client.Invoke(context.Background(), "gemini-2.5-pro", port.ModelRequest{Prompt: "extract"})

	require.Error(t, err)
	var apiErr *llm.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, llm.CategoryRateLimited, apiErr.Category)
	assert.Equal(t, 30*time.Second, apiErr.RetryAfter)
	assert.Equal(t, "gemini", apiErr.Provider)
}

func TestClient_Invoke_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error": {"message": "overloaded"}}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	_, err := client.Invoke(context.Background(), "gemini-2.5-pro", port.ModelRequest{Prompt: "extract"})

	require.Error(t, err)
	assert.True(t, llm.IsTransient(err))
	assert.False(t, llm.IsRateLimited(err))
}

func TestClient_Invoke_EmptyCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates": []}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	_, err := client.Invoke(context.Background(), "gemini-2.5-pro", port.ModelRequest{Prompt: "extract"})

	assert.Error(t, err)
}

func TestNewClient_RequiresAPIKey(t *testing.T) {
	_, err := gemini.NewClient(&config.LLMConfig{})

	assert.Error(t, err)
}
