// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/muesli/termenv"
	"golang.org/x/sync/errgroup"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/starford/jot/internal/api"
	"github.com/starford/jot/internal/editor"
	"github.com/starford/jot/internal/mcpserver"
	"github.com/starford/jot/internal/noteservice"
	"github.com/starford/jot/internal/render"
	"github.com/starford/jot/internal/sse"
	"github.com/starford/jot/internal/store"
	"github.com/starford/jot/internal/ui"
	"github.com/starford/jot/internal/watch"
)

// App is an opened jot store together with the services built on it.
type App struct {
	config  *Config
	out     io.Writer
	version string

	logger  *slog.Logger
	logFile io.Closer
	db      *store.DB
	notes   *noteservice.Service
}

// Open applies opts, sets up logging and opens the configured store,
// creating its directory and schema on first use.
func Open(ctx context.Context, opts ...Option) (*App, error) {
	app := &App{out: os.Stdout, version: "dev"}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}

	cfg := app.config
	app.logger, app.logFile = newLogger(cfg.App)
	slog.SetDefault(app.logger)

	path := cfg.Store.Path()
	app.logger.Debug("Configuration loaded",
		slog.String("store_path", path),
		slog.String("log_level", cfg.App.LogLevel.String()))

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		app.Close()
		return nil, fmt.Errorf("create store dir: %w", err)
	}

	db, err := store.Open(ctx, path)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("init store: %w", err)
	}
	app.db = db

	color := ui.ShouldUseColor(cfg.Display.Colorize)
	styler := render.NewStyler(color, cfg.Display.Palette)

	pager := editor.NewPager(cfg.Pager.Command)
	if !ui.IsTerminal() {
		pager = editor.NewPager("")
	}
	pager.Out = app.out

	app.notes = noteservice.NewService(db,
		render.New(cfg.Display.SnippetWidth, path, styler),
		noteservice.WithEditor(editor.New(cfg.Editor.Resolve())),
		noteservice.WithPager(pager),
		noteservice.WithOutput(app.out),
		noteservice.WithLogger(app.logger),
	)
	return app, nil
}

// newLogger builds the JSON logger. Logs go to a rotated file so they never
// interleave with the table on stdout; "-" selects stderr.
func newLogger(cfg ApplicationConfig) (*slog.Logger, io.Closer) {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	if cfg.LogFile == "-" || cfg.LogFile == "" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts)), nil
	}
	lj := &lumberjack.Logger{
		Filename:   ExpandHome(cfg.LogFile),
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     28,
	}
	return slog.New(slog.NewJSONHandler(lj, opts)), lj
}

// Notes returns the terminal note service.
func (a *App) Notes() *noteservice.Service {
	return a.notes
}

// Config returns the configuration the app was opened with.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *slog.Logger {
	return a.logger
}

// Close closes the store and the log file.
func (a *App) Close() error {
	var errs []error
	if a.db != nil {
		errs = append(errs, a.db.Close())
	}
	if a.logFile != nil {
		errs = append(errs, a.logFile.Close())
	}
	return errors.Join(errs...)
}

// plainNotes returns a note service that renders without colors and never
// prompts, for the HTTP and MCP surfaces.
func (a *App) plainNotes() *noteservice.Service {
	r := render.New(a.config.Display.SnippetWidth, a.db.Path(), nil)
	return noteservice.NewService(a.db, r, noteservice.WithLogger(a.logger))
}

// Serve runs the HTTP API until ctx is cancelled or a shutdown signal arrives.
// Writes to the store by any process are announced on /api/events.
func (a *App) Serve(ctx context.Context) error {
	cfg := a.config
	logger := a.logger

	broker := sse.NewBroker(500 * time.Millisecond)
	defer broker.Close()

	svc := api.NewService(a.plainNotes())
	apiRouter := api.NewRouter(svc, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := a.db.Ping(req.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"unavailable"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return watch.Watch(gCtx, a.db.Path(), watch.DefaultDebounce, logger, func(names []string) {
			for _, name := range names {
				broker.PublishChange(name)
			}
		})
	})

	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		fmt.Fprintf(a.out, "jot serving %s on %s\n", a.db.Path(), cfg.App.HTTP.Address())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}
		return errShutdown
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errShutdown) {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// errShutdown stops the errgroup siblings once the server is down.
var errShutdown = errors.New("shutdown")

// Watch prints the active table and prints it again after every write to
// the store until interrupted.
func (a *App) Watch(ctx context.Context, find string) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var term *termenv.Output
	if ui.IsTerminal() {
		term = termenv.NewOutput(a.out)
	}
	draw := func() {
		if term != nil {
			term.ClearScreen()
		}
		if err := a.notes.List(ctx, a.out, noteservice.ActiveList(find)); err != nil {
			a.logger.Error("watch: render failed", slog.String("error", err.Error()))
		}
	}

	draw()
	err := watch.Watch(ctx, a.db.Path(), watch.DefaultDebounce, a.logger, func([]string) { draw() })
	if ctx.Err() != nil {
		return nil
	}
	return err
}

// ServeMCP serves the MCP tools on stdin/stdout.
func (a *App) ServeMCP(_ context.Context) error {
	a.logger.Info("Starting MCP server", slog.String("store", a.db.Path()))
	return mcpserver.New(a.plainNotes(), a.version).ServeStdio()
}
