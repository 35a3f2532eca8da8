// Package cli wires configuration, logging, and storage for the weft commands.
package cli

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ravel-dev/weft/internal/config"
	"github.com/ravel-dev/weft/internal/history"
	"github.com/ravel-dev/weft/internal/logging"
)

// BuildInfo carries version details injected at link time.
type BuildInfo struct {
	Version   string
	Commit    string
	BuildDate string
	GoVersion string
}

// App holds the shared command context.
type App struct {
	BuildInfo BuildInfo

	cfg    *config.Manager
	logger zerolog.Logger
	ctx    context.Context

	historyDB *sql.DB
}

// NewApp loads configuration and sets up logging for a command invocation.
func NewApp() (*App, error) {
	mgr, err := config.NewManager()
	if err != nil {
		return nil, fmt.Errorf("create config manager: %w", err)
	}
	if err := mgr.Load(); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	cfg := mgr.Get()
	logger := logging.NewFromConfigValues(cfg.Logging.Level, cfg.Logging.Format)

	return &App{
		cfg:    mgr,
		logger: logger,
		ctx:    logging.WithContext(context.Background(), logger),
	}, nil
}

// Ctx returns the app context carrying the configured logger.
func (a *App) Ctx() context.Context { return a.ctx }

// Config returns a snapshot of the current configuration.
func (a *App) Config() *config.Config { return a.cfg.Get() }

// ConfigManager exposes the manager for commands that need hot reload.
func (a *App) ConfigManager() *config.Manager { return a.cfg }

// Logger returns the root logger.
func (a *App) Logger() zerolog.Logger { return a.logger }

// HistoryStore opens the visit-history database on first use.
func (a *App) HistoryStore() (*history.Store, error) {
	if a.historyDB == nil {
		db, err := history.NewConnection(a.ctx, a.cfg.Get().History.Path)
		if err != nil {
			return nil, err
		}
		a.historyDB = db
	}
	return history.NewStore(a.historyDB), nil
}

// Close releases resources held by the app.
func (a *App) Close() error {
	if a.historyDB != nil {
		return a.historyDB.Close()
	}
	return nil
}
