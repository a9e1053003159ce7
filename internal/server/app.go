// Package server wires the development story API server together.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/dmitrijs2005/dinostories/internal/filex"
	"github.com/dmitrijs2005/dinostories/internal/server/config"
	handler "github.com/dmitrijs2005/dinostories/internal/server/handler/http"
	"github.com/dmitrijs2005/dinostories/internal/server/storage"
)

// App is the assembled development server.
type App struct {
	config  *config.Config
	log     *zap.Logger
	storage *storage.Storage
	server  *http.Server
}

// NewApp builds the server from its configuration.
func NewApp(cfg *config.Config, log *zap.Logger) (*App, error) {
	photoDir, err := filex.EnsureSubDir(cfg.PhotoDir)
	if err != nil {
		return nil, fmt.Errorf("preparing photo directory: %w", err)
	}

	st, err := storage.New(cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("opening storage: %w", err)
	}

	h := handler.NewHandler(st, log, cfg.JWTSecret, cfg.TokenTTL, photoDir)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           h.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	return &App{config: cfg, log: log, storage: st, server: srv}, nil
}

// Run serves requests until ctx is cancelled, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.log.Info("server listening", zap.String("addr", a.config.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}

	if err := a.storage.Close(); err != nil {
		a.log.Warn("closing storage", zap.Error(err))
	}

	a.log.Info("server stopped")
	return nil
}
