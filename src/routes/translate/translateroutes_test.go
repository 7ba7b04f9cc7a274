package translateroutes

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	translationcache "github.com/emjjkk/portfolio-backend/src/lib/cache/translation"
	"github.com/emjjkk/portfolio-backend/src/lib/openrouter"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeTranslator struct {
	calls []string
	out   string
	err   error
}

func (f *fakeTranslator) Translate(_ context.Context, text, targetLang string) (string, error) {
	f.calls = append(f.calls, targetLang+":"+text)
	return f.out, f.err
}

func newRouter(tr Translator, cache *translationcache.TranslationCache) http.Handler {
	r := chi.NewRouter()
	RegisterRoutes(r, tr, cache, zap.NewNop())
	return r
}

func post(h http.Handler, body string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/translate", strings.NewReader(body)))
	return rr
}

func TestTranslateAndCache(t *testing.T) {
	tr := &fakeTranslator{out: "# Bonjour"}
	h := newRouter(tr, translationcache.New(time.Hour, 10))

	rr := post(h, `{"text":"# Hello","targetLang":"fr"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"translation":"# Bonjour"}`, rr.Body.String())

	rr = post(h, `{"text":"# Hello","targetLang":"French"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"translation":"# Bonjour"}`, rr.Body.String())

	assert.Equal(t, []string{"French:# Hello"}, tr.calls, "second request served from cache")
}

func TestEmptyTranslationIsNotCached(t *testing.T) {
	tr := &fakeTranslator{out: ""}
	h := newRouter(tr, translationcache.New(time.Hour, 10))

	post(h, `{"text":"hi","targetLang":"German"}`)
	rr := post(h, `{"text":"hi","targetLang":"German"}`)
	assert.JSONEq(t, `{"translation":""}`, rr.Body.String())
	assert.Len(t, tr.calls, 2)
}

func TestTranslateErrors(t *testing.T) {
	rr := post(newRouter(&fakeTranslator{err: openrouter.ErrMissingAPIKey}, nil), `{"text":"hi","targetLang":"German"}`)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"error":"Missing API key","code":500}`, rr.Body.String())

	rr = post(newRouter(&fakeTranslator{err: errors.New("boom")}, nil), `{"text":"hi","targetLang":"German"}`)
	assert.Equal(t, http.StatusBadGateway, rr.Code)

	h := newRouter(&fakeTranslator{}, nil)
	assert.Equal(t, http.StatusBadRequest, post(h, `{"text":`).Code)
	assert.Equal(t, http.StatusBadRequest, post(h, `{"text":"  ","targetLang":"German"}`).Code)
	assert.Equal(t, http.StatusBadRequest, post(h, `{"text":"hi"}`).Code)
}
