package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"leettrack/internal/cache"
	"leettrack/internal/config"
	"leettrack/internal/connectivity"
	"leettrack/internal/database"
	"leettrack/internal/encryption"
	"leettrack/internal/lookup"
	"leettrack/internal/model"
	"leettrack/internal/stats"
	"leettrack/internal/tracker"
	"leettrack/internal/vault"
)

// Options adjust how NewApp wires the application.
type Options struct {
	// Offline skips the start-up ping and starts in offline mode.
	Offline bool

	// Stderr receives a copy of every log line. Nil means os.Stderr.
	Stderr io.Writer
}

// App is the application layer between the CLI/HTTP server and the tracker
// services. It constructs all dependencies from config and releases them on
// Close.
type App struct {
	cfg       *config.Config
	db        *database.Database
	cache     tracker.SettingsCache
	monitor   *connectivity.Monitor
	lookup    tracker.StatsLookup
	vault     tracker.Vault
	encryptor tracker.Encryptor
	problems  *tracker.ProblemService
	contests  *tracker.ContestService
	exports   *tracker.ExportService
	stats     stats.Options
	clock     tracker.Clock
	logger    tracker.Logger
	op        *Operation
	logCloser io.Closer
}

// NewApp creates a fully wired App from the given config.
// command identifies the CLI command being run (e.g. "problem add", "serve").
// The caller must call Close when done.
func NewApp(ctx context.Context, cfg *config.Config, command string, opts Options) (*App, error) {
	clock := tracker.RealClock{}
	op := NewOperation(command, clock.Now())

	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}
	slogger, logCloser, err := newLogger(cfg.Log, op.ID, stderr)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	logger := &slogAdapter{l: slogger}

	a := &App{cfg: cfg, clock: clock, logger: logger, op: op, logCloser: logCloser}
	if err := a.wire(ctx, opts); err != nil {
		a.closeResources()
		return nil, err
	}

	logger.Debug("operation started", "command", command, "online", a.monitor.Online())
	return a, nil
}

func (a *App) wire(ctx context.Context, opts Options) error {
	cfg := a.cfg

	weekStart, err := cfg.WeekStartDay()
	if err != nil {
		return err
	}
	a.stats = stats.DefaultOptions()
	a.stats.WeekStart = weekStart
	if len(cfg.Stats.Companies) > 0 {
		a.stats.Companies = cfg.Stats.Companies
	}

	db, err := database.NewDatabaseFromConfig(cfg.Database)
	if err != nil {
		return fmt.Errorf("creating database: %w", err)
	}
	a.db = db

	if cfg.Database.Type != "postgres" {
		if err := db.CheckMigrations(); err != nil {
			return fmt.Errorf("database schema out of date: %w", err)
		}
	}

	c, err := cache.NewCacheFromConfig(cfg.Cache)
	if err != nil {
		return fmt.Errorf("creating cache: %w", err)
	}
	a.cache = c

	// A failed ping is not fatal: the monitor stays offline and settings
	// are served from the local cache until a retry succeeds.
	a.monitor = connectivity.NewMonitor(false, a.logger)
	if !opts.Offline {
		a.monitor.Check(ctx, db)
	}

	l, err := lookup.NewLookupFromConfig(cfg.Lookup, a.clock, a.logger)
	if err != nil {
		return fmt.Errorf("creating profile lookup: %w", err)
	}
	a.lookup = l

	v, err := vault.NewVaultFromConfig(ctx, cfg.Vault)
	if err != nil {
		return fmt.Errorf("creating vault: %w", err)
	}
	a.vault = v

	enc, err := encryption.NewEncryptorFromConfig(cfg.Encryption)
	if err != nil {
		return fmt.Errorf("creating encryptor: %w", err)
	}
	a.encryptor = enc

	idgen := tracker.UUIDGenerator{}
	a.problems = tracker.NewProblemService(db, a.logger, a.clock, idgen)
	a.contests = tracker.NewContestService(db, a.logger, a.clock, idgen)
	a.exports = tracker.NewExportService(db, a.problems, a.contests, v, enc, a.logger, a.clock)
	return nil
}

// Deps returns the shared services every Session is built from.
func (a *App) Deps() tracker.SessionDeps {
	return tracker.SessionDeps{
		Problems: a.problems,
		Contests: a.contests,
		Exports:  a.exports,
		Lookup:   a.lookup,
		Remote:   a.db,
		Cache:    a.cache,
		Conn:     a.monitor,
		Policy:   tracker.DefaultTieringPolicy(),
		Stats:    a.stats,
		Logger:   a.logger,
		Clock:    a.clock,
	}
}

// Session starts a session for identity. The caller closes it.
func (a *App) Session(ctx context.Context, identity tracker.Identity) *tracker.Session {
	return tracker.NewSession(ctx, identity, a.Deps())
}

// Identity returns the configured CLI identity.
func (a *App) Identity() tracker.Identity {
	return tracker.Identity{UserID: a.cfg.Identity.UserID, Email: a.cfg.Identity.Email}
}

func (a *App) Config() *config.Config { return a.cfg }
func (a *App) Monitor() *connectivity.Monitor { return a.monitor }
func (a *App) Encryptor() tracker.Encryptor { return a.encryptor }
func (a *App) Exports() *tracker.ExportService { return a.exports }
func (a *App) Problems() *tracker.ProblemService { return a.problems }
func (a *App) Contests() *tracker.ContestService { return a.contests }
func (a *App) Logger() tracker.Logger { return a.logger }
func (a *App) Operation() *Operation { return a.op }
func (a *App) Clock() tracker.Clock { return a.clock }

// StatsOptions returns the dashboard options derived from [stats].
func (a *App) StatsOptions() stats.Options { return a.stats }

// HeatmapDays returns the configured heatmap window, 365 when unset.
func (a *App) HeatmapDays() int {
	if a.cfg.Stats.HeatmapDays <= 0 {
		return 365
	}
	return a.cfg.Stats.HeatmapDays
}

// TopicLimit returns the configured topic chart size, 10 when unset.
func (a *App) TopicLimit() int {
	if a.cfg.Stats.TopicLimit <= 0 {
		return 10
	}
	return a.cfg.Stats.TopicLimit
}

// Companies returns the configured company roster.
func (a *App) Companies() []string {
	if len(a.stats.Companies) == 0 {
		return model.CompanyRoster
	}
	return a.stats.Companies
}

// RetryConnection pings the remote once and updates the connectivity state.
func (a *App) RetryConnection(ctx context.Context) bool {
	return a.monitor.Check(ctx, a.db)
}

// ValidateVault checks that the configured vault is reachable.
func (a *App) ValidateVault(ctx context.Context) error {
	return a.vault.ValidateSetup(ctx)
}

// Close logs the operation outcome and releases every resource.
func (a *App) Close() error {
	if a.op.Failed() {
		a.logger.Error("operation finished", "command", a.op.Command, "status", a.op.Status,
			"duration", time.Since(a.op.Started).Round(time.Millisecond), "error", a.op.Err)
	} else {
		a.logger.Info("operation finished", "command", a.op.Command, "status", a.op.Status,
			"duration", time.Since(a.op.Started).Round(time.Millisecond))
	}
	return a.closeResources()
}

func (a *App) closeResources() error {
	var firstErr error

	if a.db != nil {
		if err := a.db.Close(); err != nil {
			firstErr = fmt.Errorf("closing database: %w", err)
		}
	}

	if closer, ok := a.cache.(io.Closer); ok {
		if err := closer.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("closing cache: %w", err)
		}
	}

	if a.logCloser != nil {
		a.logCloser.Close()
	}

	return firstErr
}
