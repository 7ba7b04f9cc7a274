package contentroutes

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/emjjkk/portfolio-backend/src/lib/content"
	"github.com/emjjkk/portfolio-backend/src/lib/httpresponder"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const (
	latestProjectCount = 3
	defaultPostLimit   = 8
)

type filtersResponse struct {
	Categories []string `json:"categories"`
	Tags       []string `json:"tags"`
}

type postsResponse struct {
	Posts []content.PostSummary `json:"posts"`
	Total int                   `json:"total"`
	More  bool                  `json:"more"`
}

type homeResponse struct {
	Projects []content.Project     `json:"projects"`
	Posts    []content.PostSummary `json:"posts"`
}

type handler struct {
	lib    *content.Library
	logger *zap.Logger
}

func RegisterRoutes(r chi.Router, lib *content.Library, logger *zap.Logger) {
	h := &handler{lib: lib, logger: logger.Named("content")}

	r.Get("/api/home", h.home)

	r.Route("/api/projects", func(r chi.Router) {
		r.Get("/", h.projects)
		r.Get("/filters", h.filters)
	})

	r.Route("/api/posts", func(r chi.Router) {
		r.Get("/", h.posts)
		r.Get("/{slug}", h.post)
	})

	// raw markdown, same paths the old site fetched
	r.Get("/p/{slug}.md", h.markdown)
	r.Get("/b/{slug}.md", h.markdown)
}

func (h *handler) home(w http.ResponseWriter, r *http.Request) {
	posts := h.lib.Posts()
	if len(posts) > defaultPostLimit {
		posts = posts[:defaultPostLimit]
	}

	httpresponder.SendNormalResponse(w, r, homeResponse{
		Projects: h.lib.LatestProjects(latestProjectCount),
		Posts:    posts,
	})
}

func (h *handler) projects(w http.ResponseWriter, r *http.Request) {
	filter := r.URL.Query().Get("filter")
	httpresponder.SendNormalResponse(w, r, h.lib.FilterProjects(filter))
}

func (h *handler) filters(w http.ResponseWriter, r *http.Request) {
	httpresponder.SendNormalResponse(w, r, filtersResponse{
		Categories: h.lib.Categories(),
		Tags:       h.lib.Tags(),
	})
}

// posts pages with ?offset and ?limit, matching the "load more" button.
func (h *handler) posts(w http.ResponseWriter, r *http.Request) {
	offset, err := queryInt(r, "offset", 0)
	if err != nil || offset < 0 {
		httpresponder.SendErrorResponse(w, r, "Invalid offset", http.StatusBadRequest)
		return
	}
	limit, err := queryInt(r, "limit", defaultPostLimit)
	if err != nil || limit <= 0 {
		httpresponder.SendErrorResponse(w, r, "Invalid limit", http.StatusBadRequest)
		return
	}

	all := h.lib.Posts()
	total := len(all)
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}

	httpresponder.SendNormalResponse(w, r, postsResponse{
		Posts: all[offset:end],
		Total: total,
		More:  end < total,
	})
}

func (h *handler) post(w http.ResponseWriter, r *http.Request) {
	post, err := h.lib.Post(chi.URLParam(r, "slug"))
	if err != nil {
		h.sendLookupError(w, r, err)
		return
	}
	httpresponder.SendNormalResponse(w, r, post)
}

func (h *handler) markdown(w http.ResponseWriter, r *http.Request) {
	body, err := h.lib.Markdown(chi.URLParam(r, "slug"))
	if err != nil {
		h.sendLookupError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(body))
}

func (h *handler) sendLookupError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, content.ErrPostNotFound) {
		httpresponder.SendErrorResponse(w, r, "Post not found.", http.StatusNotFound)
		return
	}
	h.logger.Error("failed to load post", zap.Error(err))
	httpresponder.SendErrorResponse(w, r, "Failed to load post content.", http.StatusInternalServerError)
}

func queryInt(r *http.Request, key string, fallback int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}
