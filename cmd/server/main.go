package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/inamate/pathsvg/internal/asset"
	"github.com/inamate/pathsvg/internal/auth"
	"github.com/inamate/pathsvg/internal/collab"
	"github.com/inamate/pathsvg/internal/config"
	"github.com/inamate/pathsvg/internal/engine"
	"github.com/inamate/pathsvg/internal/export"
	mw "github.com/inamate/pathsvg/internal/middleware"
	"github.com/inamate/pathsvg/internal/store"
	"github.com/inamate/pathsvg/internal/text"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}
	level, _ := cfg.Level()
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))
	text.SetLogger(slog.Default())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fonts := text.NewFontDB()
	if cfg.FontDir != "" {
		if _, err := os.Stat(cfg.FontDir); err == nil {
			if _, err := fonts.LoadDir(cfg.FontDir); err != nil {
				slog.Error("load fonts", "error", err, "dir", cfg.FontDir)
				os.Exit(1)
			}
		}
	}

	policy, _ := cfg.Center()
	eng := engine.New(
		engine.WithShaper(text.NewShaper(fonts)),
		engine.WithCenterPolicy(policy),
	)

	// The export store is optional; without DATABASE_URL exports are only
	// returned as attachments.
	var exports export.Exports
	if cfg.DatabaseURL != "" {
		st, err := store.New(ctx, cfg.DatabaseURL)
		if err != nil {
			slog.Error("connect to database", "error", err)
			os.Exit(1)
		}
		defer st.Close()
		if err := st.Migrate(ctx); err != nil {
			slog.Error("migrate database", "error", err)
			os.Exit(1)
		}
		exports = st
	}

	authService, err := auth.NewService(cfg.JWTSecret)
	if err != nil {
		slog.Error("create auth service", "error", err)
		os.Exit(1)
	}
	authHandler := auth.NewHandler(authService)

	hub := collab.NewHub(eng)
	go hub.Run(ctx)

	var tokens collab.TokenValidator
	if cfg.AuthRequired {
		tokens = authService
	}
	previewHandler := collab.NewHandler(hub, cfg.OriginPatterns(), tokens)

	assetHandler := asset.NewHandler(fonts, cfg.FontDir)
	exportHandler := export.NewHandler(eng, exports)

	r := mux.NewRouter()

	// Global middleware
	r.Use(mw.Recovery)
	r.Use(mw.RequestID)
	r.Use(mw.Logger)
	r.Use(mw.CORS(cfg.Origins()))

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	r.HandleFunc("/auth/me", authHandler.Me).Methods("GET")

	// WebSocket endpoint
	r.Handle("/ws/preview/{room}", previewHandler)

	// Rendering and font routes, bearer-protected when AUTH_REQUIRED is set
	api := r.NewRoute().Subrouter()
	api.Use(mw.MaxBody(cfg.MaxBodyBytes))
	api.Use(authService.Middleware(cfg.AuthRequired))
	exportHandler.Register(api)
	api.HandleFunc("/fonts", assetHandler.Upload).Methods("POST")
	api.HandleFunc("/fonts", assetHandler.List).Methods("GET")
	api.PathPrefix("/fonts/").Handler(assetHandler.Serve()).Methods("GET")

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server")

		// Stop the hub first so preview connections close
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("server starting", "addr", addr, "fonts", fonts.Len(), "store", exports != nil, "auth_required", cfg.AuthRequired)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}
