package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/emjjkk/portfolio-backend/src/config"
	activitystore "github.com/emjjkk/portfolio-backend/src/lib/cache/activity"
	translationcache "github.com/emjjkk/portfolio-backend/src/lib/cache/translation"
	"github.com/emjjkk/portfolio-backend/src/lib/content"
	database "github.com/emjjkk/portfolio-backend/src/lib/dbs/tidb"
	valkeydb "github.com/emjjkk/portfolio-backend/src/lib/dbs/valkey"
	"github.com/emjjkk/portfolio-backend/src/lib/httpresponder"
	"github.com/emjjkk/portfolio-backend/src/lib/logging"
	"github.com/emjjkk/portfolio-backend/src/lib/openrouter"
	"github.com/emjjkk/portfolio-backend/src/lib/presence"
	"github.com/emjjkk/portfolio-backend/src/middleware"
	contentroutes "github.com/emjjkk/portfolio-backend/src/routes/content"
	healthroutes "github.com/emjjkk/portfolio-backend/src/routes/health"
	premidroutes "github.com/emjjkk/portfolio-backend/src/routes/premid"
	presenceroutes "github.com/emjjkk/portfolio-backend/src/routes/presence"
	subscriberoutes "github.com/emjjkk/portfolio-backend/src/routes/subscribe"
	translateroutes "github.com/emjjkk/portfolio-backend/src/routes/translate"
	wsroutes "github.com/emjjkk/portfolio-backend/src/routes/websocket"
)

const (
	valkeyReadyTimeout = 30 * time.Second
	shutdownTimeout    = 10 * time.Second
	translationEntries = 512
)

func main() {
	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("backend stopped", zap.Error(err))
	}
}

func run(cfg config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// wait til valkey is ready
	rdb := valkeydb.NewClient(valkeydb.Options{
		Addr:     cfg.ValkeyURL,
		Password: cfg.ValkeyPassword,
		DB:       cfg.ValkeyDB,
	})
	defer rdb.Close()

	readyCtx, cancelReady := context.WithTimeout(ctx, valkeyReadyTimeout)
	err := valkeydb.WaitUntilReady(readyCtx, rdb, 500*time.Millisecond, logger)
	cancelReady()
	if err != nil {
		return err
	}

	db, err := database.Open(cfg.DatabaseDSN, logger)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("database handle: %w", err)
	}
	defer sqlDB.Close()

	if n, err := database.CountSubscribers(ctx, db); err == nil {
		logger.Info("database ready", zap.Int64("subscribers", n))
	}

	lib, err := content.Load(cfg.ContentDir, cfg.PublicDir)
	if err != nil {
		return err
	}

	store := activitystore.NewStore(rdb, activitystore.Options{
		Key:     cfg.ActivityKey,
		TTL:     cfg.ActivityTTL,
		Timeout: cfg.StoreTimeout,
	})

	var hub *wsroutes.Hub
	display := presence.NewDisplay(presence.StoreFetcher(store), presence.Options{
		Location: cfg.Location,
		Logger:   logger.Named("presence"),
		OnEvent: func(ev presence.Event) {
			hub.PresenceEvent(ev)
		},
	})
	hub = wsroutes.NewHub(display.Snapshot, logger)

	go hub.Run(ctx)
	if err := display.Start(ctx); err != nil {
		return err
	}
	defer display.Stop()

	translator := openrouter.NewClient(cfg.OpenRouterAPIKey, cfg.OpenRouterModel, cfg.OpenRouterURL, nil)
	translations := translationcache.New(cfg.TranslationCacheTTL, translationEntries)

	// start gochi server

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CaseSensitiveMiddleware)

	premidroutes.RegisterRoutes(r, store, hub, logger)
	presenceroutes.RegisterRoutes(r, display)
	subscriberoutes.RegisterRoutes(r, func(ctx context.Context, email, source string) (bool, error) {
		return database.Subscribe(ctx, db, email, source)
	}, logger)
	translateroutes.RegisterRoutes(r, translator, translations, logger)
	contentroutes.RegisterRoutes(r, lib, logger)
	wsroutes.RegisterRoutes(r, hub)
	healthroutes.RegisterRoutes(r, map[string]healthroutes.Check{
		"valkey": func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		},
		"database": sqlDB.PingContext,
	})
	r.Handle("/metrics", promhttp.Handler())

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpresponder.SendErrorResponse(w, r, "Not found", http.StatusNotFound)
	})

	chi.Walk(r, func(method string, route string, handler http.Handler, middlewares ...func(http.Handler) http.Handler) error {
		logger.Debug("route", zap.String("method", method), zap.String("route", route), zap.Int("middlewares", len(middlewares)))
		return nil
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("backend running", zap.String("addr", "http://localhost:"+cfg.Port), zap.String("time_zone", cfg.TimeZone))
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
