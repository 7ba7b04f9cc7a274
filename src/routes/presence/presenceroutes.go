package presenceroutes

import (
	"net/http"

	"github.com/emjjkk/portfolio-backend/src/lib/httpresponder"
	"github.com/emjjkk/portfolio-backend/src/lib/presence"
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes exposes the server-side header line for pages that poll
// instead of holding a websocket.
func RegisterRoutes(r chi.Router, display *presence.Display) {
	r.Get("/api/line", func(w http.ResponseWriter, r *http.Request) {
		httpresponder.SendNormalResponse(w, r, display.Snapshot())
	})
}
