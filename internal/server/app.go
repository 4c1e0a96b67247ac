// Package server initializes and runs the row service: it opens the
// database, runs migrations and serves the HTTP API until the process is
// asked to stop.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/daydash-app/daydash/internal/logging"
	"github.com/daydash-app/daydash/internal/server/config"
	"github.com/daydash-app/daydash/internal/server/db"
	"github.com/daydash-app/daydash/internal/server/httpapi"
	"github.com/daydash-app/daydash/internal/server/services"
)

type App struct {
	config *config.Config
	logger logging.Logger
	repos  db.RepositoryManager
	api    *httpapi.Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	repos, err := db.NewPostgresRepositoryManager(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	userService := services.NewUserService(repos.Users(), cfg.SecretKey, cfg.AccessTokenValidityDuration)
	rowService := services.NewRowService(repos.Rows())
	api := httpapi.NewServer(userService, rowService, cfg.SecretKey, logger)

	return &App{config: cfg, logger: logger, repos: repos, api: api}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "starting server", "addr", app.config.EndpointAddr)

	app.initSignalHandler(cancelFunc)

	srv := &http.Server{
		Addr:    app.config.EndpointAddr,
		Handler: app.api.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.logger.Error(ctx, "server error", "error", err.Error())
		}
	case <-ctx.Done():
		app.logger.Info(ctx, "shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.logger.Error(ctx, "shutdown error", "error", err.Error())
		}
	}

	if err := app.repos.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err.Error())
	}
}
