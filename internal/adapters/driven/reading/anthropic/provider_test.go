package anthropic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/arcana-cli/internal/core/domain"
)

func TestNewProvider_RequiresAPIKey(t *testing.T) {
	_, err := NewProvider(Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key is required")
}

func TestGenerate_Success(t *testing.T) {
	var gotReq messagesRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "key-1", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"The Fool opens the story."}],"stop_reason":"end_turn"}`))
	}))
	defer srv.Close()

	p, err := NewProvider(Config{APIKey: "key-1", BaseURL: srv.URL})
	require.NoError(t, err)

	cards := []domain.Card{{Name: "The Fool", Arcana: "major", Number: 0}}
	answer, err := p.Generate(context.Background(), cards, "What lies ahead?", "en")
	require.NoError(t, err)
	assert.Equal(t, "The Fool opens the story.", answer)

	// The spread and question reach the model; the voice goes in system.
	require.Len(t, gotReq.Messages, 1)
	assert.Contains(t, gotReq.Messages[0].Content, "The Fool")
	assert.Contains(t, gotReq.Messages[0].Content, "What lies ahead?")
	assert.NotEmpty(t, gotReq.System)
}

func TestGenerate_UnauthorizedMapsToAuthRequired(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	p, err := NewProvider(Config{APIKey: "bad-key", BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = p.Generate(context.Background(), nil, "q", "en")
	assert.ErrorIs(t, err, domain.ErrAuthRequired)
}

func TestGenerate_APIErrorIsReported(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"type":"invalid_request_error","message":"max_tokens required"}}`))
	}))
	defer srv.Close()

	p, err := NewProvider(Config{APIKey: "key-1", BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = p.Generate(context.Background(), nil, "q", "en")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_tokens required")
}

func TestGenerate_NetworkFailureIsTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	p, err := NewProvider(Config{APIKey: "key-1", BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = p.Generate(context.Background(), nil, "q", "en")
	assert.ErrorIs(t, err, domain.ErrTransientNetwork)
}

func TestName(t *testing.T) {
	p, err := NewProvider(Config{APIKey: "key-1"})
	require.NoError(t, err)
	assert.Equal(t, "anthropic", p.Name())
}
