package content

// site content: projects.json, blog.json and the markdown posts they point at

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

const (
	FilterAll     = "all"
	previewLength = 150
	noPreview     = "No preview available..."
)

var (
	ErrPostNotFound = errors.New("post not found")

	slugPattern    = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*$`)
	previewStripRe = regexp.MustCompile(`[#*\[\]]`)
)

type Project struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Images      []string `json:"images"`
	Logo        string   `json:"logo"`
	Background  string   `json:"background,omitempty"`
	Repo        string   `json:"repo"`
	Demo        string   `json:"demo"`
	Stack       []string `json:"stack"`
	Category    string   `json:"category"`
}

type PostMeta struct {
	Slug     string `json:"slug"`
	Title    string `json:"title"`
	Image    string `json:"image"`
	Excerpt  string `json:"excerpt"`
	Date     string `json:"date"`
	ReadTime string `json:"readTime"`
}

type PostSummary struct {
	PostMeta
	Preview string `json:"preview"`
}

type Post struct {
	PostMeta
	Markdown string `json:"markdown"`
	HTML     string `json:"html"`
}

// Library holds the parsed content files. It is read-only after Load.
type Library struct {
	projects []Project
	posts    []PostMeta
	postDirs []string
	markdown goldmark.Markdown
}

// Load reads projects.json and blog.json from contentDir. Post bodies are
// looked up as {slug}.md under publicDir/p, then publicDir/b.
func Load(contentDir, publicDir string) (*Library, error) {
	lib := &Library{
		postDirs: []string{filepath.Join(publicDir, "p"), filepath.Join(publicDir, "b")},
		markdown: goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}

	if err := readJSON(filepath.Join(contentDir, "projects.json"), &lib.projects); err != nil {
		return nil, err
	}
	if err := readJSON(filepath.Join(contentDir, "blog.json"), &lib.posts); err != nil {
		return nil, err
	}

	return lib, nil
}

func readJSON(path string, dst any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func (l *Library) Projects() []Project {
	return append([]Project(nil), l.projects...)
}

// LatestProjects returns the first n projects in file order.
func (l *Library) LatestProjects(n int) []Project {
	if n < 0 || n > len(l.projects) {
		n = len(l.projects)
	}
	return append([]Project(nil), l.projects[:n]...)
}

// FilterProjects keeps projects whose stack contains filter or whose
// category equals it. "all" and "" keep everything.
func (l *Library) FilterProjects(filter string) []Project {
	if filter == "" || filter == FilterAll {
		return l.Projects()
	}

	out := make([]Project, 0)
	for _, p := range l.projects {
		if p.Category == filter || slices.Contains(p.Stack, filter) {
			out = append(out, p)
		}
	}
	return out
}

// Tags is the sorted set of every stack entry.
func (l *Library) Tags() []string {
	var all []string
	for _, p := range l.projects {
		all = append(all, p.Stack...)
	}
	return uniqueSorted(all)
}

func (l *Library) Categories() []string {
	all := make([]string, 0, len(l.projects))
	for _, p := range l.projects {
		all = append(all, p.Category)
	}
	return uniqueSorted(all)
}

// Posts lists every post with a preview built from its markdown, falling back
// to the excerpt when the body is missing.
func (l *Library) Posts() []PostSummary {
	out := make([]PostSummary, 0, len(l.posts))
	for _, meta := range l.posts {
		body, err := l.readMarkdown(meta.Slug)
		summary := PostSummary{PostMeta: meta}
		if err != nil {
			summary.Preview = meta.Excerpt
			if summary.Preview == "" {
				summary.Preview = noPreview
			}
		} else {
			summary.Preview = Preview(body)
		}
		out = append(out, summary)
	}
	return out
}

// Post returns one post with its markdown rendered to HTML.
func (l *Library) Post(slug string) (*Post, error) {
	meta, ok := l.meta(slug)
	if !ok {
		return nil, ErrPostNotFound
	}

	body, err := l.readMarkdown(slug)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := l.markdown.Convert([]byte(body), &buf); err != nil {
		return nil, fmt.Errorf("render post %s: %w", slug, err)
	}

	return &Post{PostMeta: meta, Markdown: body, HTML: buf.String()}, nil
}

// Markdown returns the raw markdown body of a known post.
func (l *Library) Markdown(slug string) (string, error) {
	if _, ok := l.meta(slug); !ok {
		return "", ErrPostNotFound
	}
	return l.readMarkdown(slug)
}

func (l *Library) meta(slug string) (PostMeta, bool) {
	for _, p := range l.posts {
		if p.Slug == slug {
			return p, true
		}
	}
	return PostMeta{}, false
}

func (l *Library) readMarkdown(slug string) (string, error) {
	if !slugPattern.MatchString(slug) {
		return "", ErrPostNotFound
	}

	for _, dir := range l.postDirs {
		data, err := os.ReadFile(filepath.Join(dir, slug+".md"))
		if err == nil {
			return string(data), nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("read post %s: %w", slug, err)
		}
	}
	return "", fmt.Errorf("post %s has no markdown body: %w", slug, ErrPostNotFound)
}

// Preview cuts the first 150 characters, drops markdown markers and adds an
// ellipsis.
func Preview(markdown string) string {
	runes := []rune(markdown)
	if len(runes) > previewLength {
		runes = runes[:previewLength]
	}
	return strings.TrimSpace(previewStripRe.ReplaceAllString(string(runes), "")) + "..."
}

func uniqueSorted(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	slices.Sort(out)
	return out
}
