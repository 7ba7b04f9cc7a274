package openrouter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, DefaultModel, req.Model)
		assert.Equal(t, float64(0), req.Temperature)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Contains(t, req.Messages[0].Content, "into French.")
		assert.Equal(t, "# Hello", req.Messages[1].Content)

		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"# Bonjour"}}]}`))
	}))
	defer srv.Close()

	c := NewClient("test-key", "", srv.URL, srv.Client())
	got, err := c.Translate(context.Background(), "# Hello", "French")
	require.NoError(t, err)
	assert.Equal(t, "# Bonjour", got)
}

func TestTranslateNoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	got, err := NewClient("k", "", srv.URL, srv.Client()).Translate(context.Background(), "hi", "German")
	require.NoError(t, err)
	assert.Equal(t, "", got)
}

func TestTranslateUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewClient("k", "", srv.URL, srv.Client()).Translate(context.Background(), "hi", "German")
	assert.Error(t, err)
}

func TestTranslateMissingKey(t *testing.T) {
	_, err := NewClient("", "", "http://unused.invalid", nil).Translate(context.Background(), "hi", "German")
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestLanguageName(t *testing.T) {
	assert.Equal(t, "French", LanguageName("fr"))
	assert.Equal(t, "German", LanguageName("de"))
	assert.Equal(t, "Spanish", LanguageName(" es "))
	assert.Equal(t, "French", LanguageName("French"))
	assert.Equal(t, "Kinyarwanda", LanguageName("rw"))
}
