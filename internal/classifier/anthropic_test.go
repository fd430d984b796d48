package classifier

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnthropicProvider_Analyze(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &body))

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
			"id":"msg_1","type":"message","role":"assistant","model":"claude-sonnet-4-5",
			"content":[{"type":"text","text":"{\"animal_type\":\"Cat\","},{"type":"text","text":"\"severity\":4}"}],
			"stop_reason":"end_turn","usage":{"input_tokens":10,"output_tokens":5}
		}`)
	}))
	defer srv.Close()

	p := NewAnthropicProvider("test-key", "", option.WithBaseURL(srv.URL))

	raw, err := p.Analyze(context.Background(), []byte{0x89, 'P', 'N', 'G'}, "image/png", "describe")

	require.NoError(t, err)
	assert.Equal(t, `{"animal_type":"Cat","severity":4}`, raw)
	assert.Equal(t, DefaultAnthropicModel, body["model"])
	assert.EqualValues(t, maxTokens, body["max_tokens"])
}

func TestAnthropicProvider_Analyze_ServerError(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"type":"error","error":{"type":"api_error","message":"down"}}`)
	}))
	defer srv.Close()

	p := NewAnthropicProvider("test-key", "", option.WithBaseURL(srv.URL))

	_, err := p.Analyze(context.Background(), []byte("x"), "image/jpeg", "describe")

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}
