package subscriberoutes

import (
	"context"
	"net/http"
	"regexp"
	"strings"

	"github.com/emjjkk/portfolio-backend/src/lib/httpresponder"
	"github.com/emjjkk/portfolio-backend/src/lib/metrics"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

var emailPattern = regexp.MustCompile(`^[\w\-.]+@([\w-]+\.)+[\w-]{2,}$`)

// SubscribeFunc persists an address; created is false for a repeat.
type SubscribeFunc func(ctx context.Context, email, source string) (created bool, err error)

type subscribeRequest struct {
	Email  any    `json:"email"`
	Source string `json:"source,omitempty"`
}

func RegisterRoutes(r chi.Router, subscribe SubscribeFunc, logger *zap.Logger) {
	logger = logger.Named("subscribe")

	r.Post("/api/subscribe", func(w http.ResponseWriter, r *http.Request) {
		var req subscribeRequest
		if err := httpresponder.DecodeJSON(w, r, &req); err != nil {
			metrics.RecordSubscription("invalid")
			httpresponder.SendErrorResponse(w, r, "Invalid request.", http.StatusBadRequest)
			return
		}

		// the form posts a string; anything else is rejected like a bad address
		email, ok := req.Email.(string)
		email = strings.ToLower(strings.TrimSpace(email))
		if !ok || !ValidEmail(email) {
			metrics.RecordSubscription("invalid")
			httpresponder.SendErrorResponse(w, r, "Invalid email address.", http.StatusBadRequest)
			return
		}

		created, err := subscribe(r.Context(), email, req.Source)
		if err != nil {
			logger.Error("failed to save subscriber", zap.Error(err))
			metrics.RecordSubscription("error")
			httpresponder.SendErrorResponse(w, r, "Subscription failed.", http.StatusInternalServerError)
			return
		}

		if created {
			metrics.RecordSubscription("created")
			logger.Info("new subscriber", zap.String("source", req.Source))
		} else {
			metrics.RecordSubscription("duplicate")
		}

		httpresponder.SendSuccessResponse(w, r)
	})
}

func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}
