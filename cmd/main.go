package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/prime-studio/studio-backend/internal/api"
	"github.com/prime-studio/studio-backend/internal/api/auth"
	"github.com/prime-studio/studio-backend/internal/api/dms"
	"github.com/prime-studio/studio-backend/internal/api/photos"
	"github.com/prime-studio/studio-backend/internal/api/profiles"
	"github.com/prime-studio/studio-backend/internal/api/social"
	"github.com/prime-studio/studio-backend/internal/config"
	"github.com/prime-studio/studio-backend/internal/dm"
	"github.com/prime-studio/studio-backend/internal/imagehost"
	"github.com/prime-studio/studio-backend/internal/middleware"
	"github.com/prime-studio/studio-backend/internal/storage/postgres"
	"github.com/prime-studio/studio-backend/internal/storage/valkeystore"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	var logger zerolog.Logger
	if cfg.IsDevelopment() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
			With().Timestamp().Logger()
	} else {
		logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}

	ctx := context.Background()

	pool, err := postgres.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres connection failed")
	}
	defer pool.Close()
	logger.Info().Msg("connected to PostgreSQL")

	sessions, err := valkeystore.NewSessionStore(ctx, cfg.ValkeyAddr)
	if err != nil {
		logger.Fatal().Err(err).Msg("valkey connection failed")
	}
	defer sessions.Close()
	logger.Info().Msg("connected to Valkey")

	followStore := postgres.NewFollowStore(pool)
	dmStore := postgres.NewDMStore(pool)
	profileStore := postgres.NewProfileStore(pool)
	photoStore := postgres.NewPhotoStore(pool)
	socialStore := postgres.NewSocialStore(pool)

	dmService := dm.NewService(followStore, dmStore, profileStore)
	imageHost := imagehost.New(cfg.ImageHostURL, cfg.ImageHostKey)
	authmw := middleware.NewAuth(cfg.JWTSecret, sessions)

	router := mux.NewRouter()
	router.Use(middleware.CORS(cfg.CORSOrigin))
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Metrics)

	dms.RegisterRoutes(router, &dms.Handler{Service: dmService, Logger: logger})
	auth.RegisterRoutes(router, auth.NewHandler(profileStore, sessions, authmw, cfg.JWTSecret, cfg.SessionTTL, logger))
	photos.RegisterRoutes(router, &photos.Handler{Store: photoStore, Host: imageHost, Logger: logger}, authmw)
	social.RegisterRoutes(router, &social.Handler{Social: socialStore, Follows: followStore, Logger: logger})
	profiles.RegisterRoutes(router, profiles.NewHandler(profileStore, logger), authmw)

	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := pool.Ping(r.Context()); err != nil {
			api.WriteError(w, http.StatusServiceUnavailable, "database unreachable")
			return
		}
		api.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting studio server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server forced to shutdown")
	}
	logger.Info().Msg("server stopped")
}
