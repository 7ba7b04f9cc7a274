package translateroutes

import (
	"context"
	"errors"
	"net/http"
	"strings"

	translationcache "github.com/emjjkk/portfolio-backend/src/lib/cache/translation"
	"github.com/emjjkk/portfolio-backend/src/lib/httpresponder"
	"github.com/emjjkk/portfolio-backend/src/lib/metrics"
	"github.com/emjjkk/portfolio-backend/src/lib/openrouter"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Translator interface {
	Translate(ctx context.Context, text, targetLang string) (string, error)
}

type translateRequest struct {
	Text       string `json:"text"`
	TargetLang string `json:"targetLang"`
}

type translateResponse struct {
	Translation string `json:"translation"`
}

// RegisterRoutes mounts the translation proxy. cache may be nil.
func RegisterRoutes(r chi.Router, translator Translator, cache *translationcache.TranslationCache, logger *zap.Logger) {
	logger = logger.Named("translate")

	r.Post("/api/translate", func(w http.ResponseWriter, r *http.Request) {
		var req translateRequest
		if err := httpresponder.DecodeJSON(w, r, &req); err != nil {
			httpresponder.SendErrorResponse(w, r, "Invalid request.", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.Text) == "" {
			httpresponder.SendErrorResponse(w, r, "Nothing to translate.", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.TargetLang) == "" {
			httpresponder.SendErrorResponse(w, r, "Missing target language.", http.StatusBadRequest)
			return
		}

		lang := openrouter.LanguageName(req.TargetLang)
		key := translationcache.Key(lang, req.Text)

		if cache != nil {
			if cached, ok := cache.Get(key); ok {
				metrics.RecordTranslation("cached")
				httpresponder.SendNormalResponse(w, r, translateResponse{Translation: cached})
				return
			}
		}

		translation, err := translator.Translate(r.Context(), req.Text, lang)
		if err != nil {
			metrics.RecordTranslation("error")
			if errors.Is(err, openrouter.ErrMissingAPIKey) {
				logger.Error("translation requested without an API key")
				httpresponder.SendErrorResponse(w, r, "Missing API key", http.StatusInternalServerError)
				return
			}
			logger.Error("translation failed", zap.String("lang", lang), zap.Error(err))
			httpresponder.SendErrorResponse(w, r, "Translation failed.", http.StatusBadGateway)
			return
		}

		metrics.RecordTranslation("upstream")
		if cache != nil && strings.TrimSpace(translation) != "" {
			cache.Set(key, translation)
		}

		httpresponder.SendNormalResponse(w, r, translateResponse{Translation: translation})
	})
}
