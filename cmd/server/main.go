package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/inamate/playhead/internal/api"
	"github.com/inamate/playhead/internal/asset"
	"github.com/inamate/playhead/internal/auth"
	"github.com/inamate/playhead/internal/config"
	"github.com/inamate/playhead/internal/engine"
	"github.com/inamate/playhead/internal/hub"
	"github.com/inamate/playhead/internal/message"
	mw "github.com/inamate/playhead/internal/middleware"
	"github.com/inamate/playhead/internal/osc"
	"github.com/inamate/playhead/internal/transport"
)

func main() {
	issueToken := flag.String("issue-token", "", "print a bearer token for `subject` and exit")
	tokenTTL := flag.Duration("token-ttl", auth.DefaultTTL, "lifetime of tokens minted with -issue-token")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(newLogger(os.Stdout, cfg))

	authService := auth.NewService(cfg.JWTSecret)

	if *issueToken != "" {
		token, err := authService.IssueToken(*issueToken, *tokenTTL)
		if err != nil {
			slog.Error("issue token", "error", err)
			os.Exit(1)
		}
		fmt.Println(token)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	assetHandler := asset.NewHandler(cfg.AssetDir)

	// The hub needs the engine to submit operations and the engine needs the
	// hub as a sink, so the hub is bound late.
	var h *hub.Hub
	sinks := message.Fanout{message.SinkFunc(func(e message.Event) { h.Emit(e) })}
	if cfg.OSCHost != "" {
		sinks = append(sinks, osc.NewSink(cfg.OSCHost, cfg.OSCPort))
		slog.Info("osc output enabled", "host", cfg.OSCHost, "port", cfg.OSCPort)
	}

	eng := engine.New(
		engine.WithSink(message.NewDedup(sinks)),
		engine.WithAssets(assetHandler),
		engine.WithTimeFactor(cfg.TimeFactor),
	)
	h = hub.New(eng)
	go h.Run(ctx)

	if cfg.SampleScene {
		if err := eng.LoadSampleScene(); err != nil {
			slog.Error("load sample scene", "error", err)
			os.Exit(1)
		}
	}
	if cfg.Autoplay {
		eng.Play()
	}

	driver := transport.NewDriver(eng, cfg.FPS)
	go driver.Run(ctx)

	r := mux.NewRouter()

	// Global middleware
	r.Use(mw.Recovery)
	r.Use(mw.Logger)

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Asset endpoints
	r.HandleFunc("/assets/upload", assetHandler.Upload).Methods("POST", "OPTIONS")
	r.PathPrefix("/assets/").Handler(assetHandler.Serve()).Methods("GET")

	// Protected API routes
	apiRouter := r.PathPrefix("/api").Subrouter()
	apiRouter.Use(authService.AuthMiddleware)
	api.NewHandler(eng).Register(apiRouter)

	// WebSocket endpoint
	r.HandleFunc("/ws", hub.Handler(h, cfg.Origins(), authService.Validator()))

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: mw.CORS(r), // outside the router so preflights reach it

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

		// Stop the transport and close client connections first
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("server starting",
		"addr", addr,
		"fps", cfg.FPS,
		"auth", authService.Enabled(),
		"sample_scene", cfg.SampleScene,
	)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

// newLogger builds the process logger from LOG_FORMAT and LOG_LEVEL. An
// unknown level falls back to info.
func newLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
