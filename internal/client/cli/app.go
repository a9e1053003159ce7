// Package cli is the terminal presentation layer: a thin REPL over the
// story and auth services. It renders results and wires user input; all
// offline-first decisions live in the services.
package cli

import (
	"bufio"
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/dmitrijs2005/dinostories/internal/client/api"
	"github.com/dmitrijs2005/dinostories/internal/client/config"
	"github.com/dmitrijs2005/dinostories/internal/client/services"
	"github.com/dmitrijs2005/dinostories/internal/client/store"
	"github.com/dmitrijs2005/dinostories/internal/logging"
	"github.com/dmitrijs2005/dinostories/internal/netx"

	_ "modernc.org/sqlite"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type App struct {
	config       *config.Config
	log          logging.Logger
	authService  services.AuthService
	storyService services.StoryService
	syncer       *services.Syncer
	prober       netx.Prober
	store        *store.Store
	Mode         Mode
	reader       *bufio.Reader
}

// NewApp wires the store, the API gateway and the services together. A
// failing local store is degraded, not fatal: the app still works online.
func NewApp(c *config.Config) (*App, error) {
	ctx := context.Background()
	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	st := store.New(c.DatabaseDSN)
	if err := st.Init(ctx); err != nil {
		log.Warn(ctx, "local storage unavailable, offline features disabled", "error", err)
	}

	httpClient := &http.Client{Timeout: api.DefaultTimeout}

	// the auth service is the token source for the gateway, and the gateway
	// is a dependency of the auth service; break the cycle with a late bind
	var auth services.AuthService
	apiClient := api.NewHTTPClient(c.APIBaseURL, httpClient, tokenFunc(func() string {
		if auth == nil {
			return ""
		}
		return auth.Token()
	}))

	auth = services.NewAuthService(apiClient, st, log)
	stories := services.NewStoryService(apiClient, st, log)
	syncer := services.NewSyncer(apiClient, st, log)
	prober := netx.NewHTTPProber(c.APIBaseURL, nil)

	app := &App{
		config:       c,
		log:          log,
		authService:  auth,
		storyService: stories,
		syncer:       syncer,
		prober:       prober,
		store:        st,
		Mode:         ModeOnline,
		reader:       bufio.NewReader(os.Stdin),
	}
	return app, nil
}

// tokenFunc adapts a closure to api.TokenSource.
type tokenFunc func() string

func (f tokenFunc) Token() string { return f() }

func (a *App) setMode(mode Mode) {
	if a.Mode != mode {
		a.Mode = mode
		printlnFn("Switched to " + string(mode) + " mode")
	}
}

// Run restores a persisted session, starts the watchers and enters the REPL.
func (a *App) Run(ctx context.Context) {
	defer func() { _ = a.store.Close() }()

	if session := a.authService.Restore(ctx); session.LoggedIn() {
		printlnFn("Welcome back, " + session.User.Name)
	}

	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)
	go a.syncer.Run(ctx, a.config.SyncInterval)

	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.authService.IsLoggedIn()
}

// StartOnlineStatusWatcher flips the advisory mode banner based on a cheap
// reachability probe. The probe never gates the actual API calls; their
// outcome is authoritative.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			probeCtx, cancel := context.WithTimeout(ctx, netx.DefaultProbeTimeout)
			online := a.prober.Online(probeCtx)
			cancel()

			if online {
				a.setMode(ModeOnline)
			} else {
				a.setMode(ModeOffline)
			}
		case <-ctx.Done():
			return
		}
	}
}
