package premidroutes

import (
	"errors"
	"net/http"
	"time"

	activitystore "github.com/emjjkk/portfolio-backend/src/lib/cache/activity"
	"github.com/emjjkk/portfolio-backend/src/lib/httpresponder"
	"github.com/emjjkk/portfolio-backend/src/lib/metrics"
	"github.com/emjjkk/portfolio-backend/src/types"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Notifier hears about every accepted webhook write.
type Notifier interface {
	ActivityUpdated(activity *types.Activity)
}

type handler struct {
	store    *activitystore.Store
	notifier Notifier
	logger   *zap.Logger
}

// RegisterRoutes mounts the activity webhook (POST) and reader (GET).
// notifier may be nil.
func RegisterRoutes(r chi.Router, store *activitystore.Store, notifier Notifier, logger *zap.Logger) {
	h := &handler{store: store, notifier: notifier, logger: logger.Named("premid")}

	r.Route("/api/premid", func(r chi.Router) {
		r.Post("/", h.writeActivity)
		r.Get("/", h.readActivity)
	})
}

func (h *handler) writeActivity(w http.ResponseWriter, r *http.Request) {
	body, err := httpresponder.ReadBody(w, r)
	if err != nil {
		h.logger.Warn("activity webhook body unreadable", zap.Error(err))
		httpresponder.SendErrorResponse(w, r, "Invalid request", http.StatusBadRequest)
		return
	}

	if err := h.store.Write(r.Context(), body); err != nil {
		if errors.Is(err, activitystore.ErrInvalidPayload) {
			h.logger.Warn("activity webhook rejected", zap.Error(err))
			httpresponder.SendErrorResponse(w, r, "Invalid request", http.StatusBadRequest)
			return
		}

		h.logger.Error("activity webhook failed", zap.Error(err))
		metrics.RecordActivityWrite(false, time.Time{})
		httpresponder.SendErrorResponse(w, r, "Failed to store activity", http.StatusInternalServerError)
		return
	}

	metrics.RecordActivityWrite(true, time.Now())

	if h.notifier != nil {
		// the body already passed validation, so Decode cannot fail here
		activity, _ := activitystore.Decode(body)
		h.notifier.ActivityUpdated(activity)
	}

	httpresponder.SendSuccessResponse(w, r)
}

func (h *handler) readActivity(w http.ResponseWriter, r *http.Request) {
	activity, err := h.store.Read(r.Context())
	if err != nil {
		h.logger.Error("error fetching activity", zap.Error(err))
		metrics.RecordActivityRead("error")
		httpresponder.SendErrorResponse(w, r, "Failed to fetch activity", http.StatusInternalServerError)
		return
	}

	if activity == nil {
		metrics.RecordActivityRead("miss")
	} else {
		metrics.RecordActivityRead("hit")
	}

	httpresponder.SendNormalResponse(w, r, types.ActivityEnvelope{ActiveActivity: activity})
}
