package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadTestLibrary(t *testing.T) *Library {
	t.Helper()
	lib, err := Load("testdata/content", "testdata/public")
	require.NoError(t, err)
	return lib
}

func titles(projects []Project) []string {
	out := make([]string, 0, len(projects))
	for _, p := range projects {
		out = append(out, p.Title)
	}
	return out
}

func TestLoadMissingDir(t *testing.T) {
	_, err := Load("testdata/nope", "testdata/public")
	assert.Error(t, err)
}

func TestFilterProjects(t *testing.T) {
	lib := loadTestLibrary(t)

	assert.Equal(t, []string{"Lumen", "Inkwell", "Tabkeeper"}, titles(lib.FilterProjects(FilterAll)))
	assert.Equal(t, []string{"Lumen", "Inkwell", "Tabkeeper"}, titles(lib.FilterProjects("")))
	assert.Equal(t, []string{"Lumen", "Inkwell"}, titles(lib.FilterProjects("TypeScript")))
	assert.Equal(t, []string{"Inkwell"}, titles(lib.FilterProjects("Go")))
	assert.Equal(t, []string{"Tabkeeper"}, titles(lib.FilterProjects("Browser extensions")))
	assert.Empty(t, lib.FilterProjects("Rust"))
}

func TestTagsAndCategories(t *testing.T) {
	lib := loadTestLibrary(t)

	assert.Equal(t, []string{"Go", "JavaScript", "Node.js", "TypeScript"}, lib.Tags())
	assert.Equal(t, []string{"Browser extensions", "Discord bots", "Web apps"}, lib.Categories())
}

func TestLatestProjects(t *testing.T) {
	lib := loadTestLibrary(t)

	assert.Equal(t, []string{"Lumen", "Inkwell"}, titles(lib.LatestProjects(2)))
	assert.Len(t, lib.LatestProjects(10), 3)
}

func TestPosts(t *testing.T) {
	lib := loadTestLibrary(t)

	posts := lib.Posts()
	require.Len(t, posts, 3)

	assert.Equal(t, "hello-world", posts[0].Slug)
	assert.Equal(t, "Hello, world\n\nThis is the first post on the new site. It walks through how the header line alternates between my local time and whatever PreMiD...", posts[0].Preview)

	assert.Equal(t, "Old notes\n\nWritten before the move to the new folder....", posts[1].Preview, "falls back to the b folder")

	assert.Equal(t, noPreview, posts[2].Preview, "no body and no excerpt")
}

func TestPost(t *testing.T) {
	lib := loadTestLibrary(t)

	post, err := lib.Post("hello-world")
	require.NoError(t, err)
	assert.Equal(t, "Hello, world", post.Title)
	assert.Contains(t, post.HTML, "<h1>Hello, world</h1>")
	assert.Contains(t, post.HTML, "<strong>first</strong>")
	assert.Contains(t, post.HTML, `<a href="https://premid.app">PreMiD</a>`)

	_, err = lib.Post("missing")
	assert.ErrorIs(t, err, ErrPostNotFound)

	_, err = lib.Post("draft")
	assert.ErrorIs(t, err, ErrPostNotFound)

	_, err = lib.Markdown("../content/blog")
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "Title...", Preview("# Title"))
	assert.Equal(t, "link and bold...", Preview("[link] and **bold**"))
}
