package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"traki/internal/api"
	"traki/internal/archive"
	"traki/internal/config"
	"traki/internal/fleet"
	"traki/internal/state"
)

// App is the application layer between the CLI and the fleet service.
// It constructs all dependencies from config, restores the persisted session
// and cookies, and journals the CLI run. The caller must call Close.
type App struct {
	cfg     *config.Config
	db      *state.DB
	client  *api.Client
	session *fleet.Session
	archive fleet.Archive
	service *fleet.Service
	log     fleet.Logger
	logFile *os.File

	opID     int64
	opStatus string
}

// NewApp creates a fully wired App from the given config.
// operation identifies the CLI command being run (e.g. "Login", "ListTrucks").
func NewApp(cfg *config.Config, operation string) (*App, error) {
	runID := time.Now().UTC().Format("20060102T150405Z")
	logger, logFile, err := newLogger(cfg.LogDir, runID)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	log := &slogAdapter{l: logger}

	db, err := openStateDB(cfg.Database)
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("opening state database: %w", err)
	}

	client, err := api.NewClient(cfg.API.BaseURL, cfg.API.Timeout(), log, fleet.UUIDGenerator{})
	if err != nil {
		db.Close()
		logFile.Close()
		return nil, fmt.Errorf("creating api client: %w", err)
	}
	if err := client.RestoreCookies(db); err != nil {
		log.Warn("restoring session cookies failed", "error", err)
	}

	session := fleet.NewSession(db, log)
	if err := session.Init(); err != nil {
		db.Close()
		logFile.Close()
		return nil, fmt.Errorf("initializing session: %w", err)
	}

	arch, err := archive.NewArchiveFromConfig(cfg.Archive, cfg.Encryption)
	if err != nil {
		db.Close()
		logFile.Close()
		return nil, fmt.Errorf("creating report archive: %w", err)
	}

	svc := fleet.NewService(client, session, arch, log, fleet.RealClock{}, fleet.UUIDGenerator{})

	op, err := db.CreateOperation(operation, "")
	if err != nil {
		db.Close()
		logFile.Close()
		return nil, fmt.Errorf("journaling operation: %w", err)
	}

	return &App{
		cfg:      cfg,
		db:       db,
		client:   client,
		session:  session,
		archive:  arch,
		service:  svc,
		log:      log,
		logFile:  logFile,
		opID:     op.ID,
		opStatus: "success",
	}, nil
}

// openStateDB opens the state database described by the config.
func openStateDB(cfg config.DatabaseConfig) (*state.DB, error) {
	switch cfg.Type {
	case "memory":
		return state.Open(":memory:", fleet.RealClock{})
	case "", "sqlite":
		dir := cfg.DataDir
		if dir == "" {
			return nil, fmt.Errorf("sqlite state database requires data_dir to be set")
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
		return state.Open(filepath.Join(dir, "state.db"), fleet.RealClock{})
	default:
		return nil, fmt.Errorf("unknown database type: %s", cfg.Type)
	}
}

// Service returns the fleet service.
func (a *App) Service() *fleet.Service { return a.service }

// Session returns the auth singleton.
func (a *App) Session() *fleet.Session { return a.session }

// Client returns the API client.
func (a *App) Client() *api.Client { return a.client }

// Archive returns the report archive.
func (a *App) Archive() fleet.Archive { return a.archive }

// History returns the most recent journaled CLI runs, newest first.
func (a *App) History(limit int) ([]*state.Operation, error) {
	return a.db.RecentOperations(limit)
}

// Fail marks this run's journal entry as failed. Called by the CLI when a
// command returns an error.
func (a *App) Fail() {
	a.opStatus = "error"
}

// Close finalizes the journal entry, persists the session cookies, detaches
// the stores, and closes all resources.
func (a *App) Close() error {
	var firstErr error

	a.service.Close()

	if err := a.db.FinishOperation(a.opID, a.opStatus); err != nil {
		firstErr = fmt.Errorf("finishing operation record: %w", err)
	}

	if err := a.client.SaveCookies(a.db); err != nil {
		if firstErr == nil {
			firstErr = fmt.Errorf("persisting session cookies: %w", err)
		}
	}

	if err := a.db.Close(); err != nil {
		if firstErr == nil {
			firstErr = fmt.Errorf("closing state database: %w", err)
		}
	}

	if a.logFile != nil {
		a.logFile.Close()
	}

	return firstErr
}
