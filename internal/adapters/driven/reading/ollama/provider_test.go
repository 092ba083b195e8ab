package ollama

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

func TestGenerate_Success(t *testing.T) {
	var gotReq chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":{"content":"Change is already underway."},"done":true}`))
	}))
	defer srv.Close()

	p := NewProvider(Config{BaseURL: srv.URL})

	cards := []domain.Card{{Name: "Death", Arcana: "major", Number: 13}}
	answer, err := p.Generate(context.Background(), cards, "What now?", "en")
	require.NoError(t, err)
	assert.Equal(t, "Change is already underway.", answer)

	assert.False(t, gotReq.Stream)
	require.Len(t, gotReq.Messages, 2)
	assert.Contains(t, gotReq.Messages[1].Content, "Death")
}

func TestGenerate_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"model 'missing' not found"}`))
	}))
	defer srv.Close()

	p := NewProvider(Config{BaseURL: srv.URL})

	_, err := p.Generate(context.Background(), nil, "q", "en")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model 'missing' not found")
}

func TestGenerate_UnreachableServerIsTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	p := NewProvider(Config{BaseURL: srv.URL})

	_, err := p.Generate(context.Background(), nil, "q", "en")
	assert.ErrorIs(t, err, domain.ErrTransientNetwork)
}

func TestDefaults(t *testing.T) {
	p := NewProvider(Config{})

	assert.Equal(t, "ollama", p.Name())
	assert.Equal(t, DefaultBaseURL, p.baseURL)
	assert.Equal(t, DefaultModel, p.model)
}
