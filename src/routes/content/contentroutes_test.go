package contentroutes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/emjjkk/portfolio-backend/src/lib/content"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newRouter(t *testing.T) http.Handler {
	t.Helper()

	lib, err := content.Load("../../lib/content/testdata/content", "../../lib/content/testdata/public")
	require.NoError(t, err)

	r := chi.NewRouter()
	RegisterRoutes(r, lib, zap.NewNop())
	return r
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, target, nil))
	return rr
}

func TestProjectsFilter(t *testing.T) {
	h := newRouter(t)

	rr := get(t, h, "/api/projects?filter=Go")
	require.Equal(t, http.StatusOK, rr.Code)

	var projects []content.Project
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &projects))
	require.Len(t, projects, 1)
	assert.Equal(t, "Inkwell", projects[0].Title)

	rr = get(t, h, "/api/projects")
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &projects))
	assert.Len(t, projects, 3)
}

func TestFilters(t *testing.T) {
	h := newRouter(t)

	rr := get(t, h, "/api/projects/filters")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{
		"categories": ["Browser extensions", "Discord bots", "Web apps"],
		"tags": ["Go", "JavaScript", "Node.js", "TypeScript"]
	}`, rr.Body.String())
}

func TestPostsPaging(t *testing.T) {
	h := newRouter(t)

	rr := get(t, h, "/api/posts?limit=2")
	require.Equal(t, http.StatusOK, rr.Code)

	var page postsResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &page))
	assert.Len(t, page.Posts, 2)
	assert.Equal(t, 3, page.Total)
	assert.True(t, page.More)

	rr = get(t, h, "/api/posts?offset=2&limit=4")
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &page))
	assert.Len(t, page.Posts, 1)
	assert.False(t, page.More)

	rr = get(t, h, "/api/posts?limit=zero")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestPost(t *testing.T) {
	h := newRouter(t)

	rr := get(t, h, "/api/posts/hello-world")
	require.Equal(t, http.StatusOK, rr.Code)

	var post content.Post
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &post))
	assert.Equal(t, "Hello, world", post.Title)
	assert.Contains(t, post.HTML, "<h1>")

	rr = get(t, h, "/api/posts/nope")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.JSONEq(t, `{"error":"Post not found.","code":404}`, rr.Body.String())
}

func TestRawMarkdown(t *testing.T) {
	h := newRouter(t)

	rr := get(t, h, "/p/hello-world.md")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/markdown; charset=utf-8", rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Body.String(), "# Hello, world")

	rr = get(t, h, "/b/legacy-post.md")
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestHome(t *testing.T) {
	h := newRouter(t)

	rr := get(t, h, "/api/home")
	require.Equal(t, http.StatusOK, rr.Code)

	var home homeResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &home))
	assert.Len(t, home.Projects, 3)
	assert.Len(t, home.Posts, 3)
}
