package app

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"leettrack/internal/cache"
	"leettrack/internal/config"
	"leettrack/internal/model"
	"leettrack/internal/testutil"
	"leettrack/internal/tracker"
)

func newTestApp(t *testing.T, opts Options) (*App, string) {
	t.Helper()
	dir := t.TempDir()
	cfg := testutil.NewTestConfig("u1", dir)
	if opts.Stderr == nil {
		opts.Stderr = io.Discard
	}

	a, err := NewApp(context.Background(), cfg, "test", opts)
	if err != nil {
		t.Fatalf("NewApp() error = %v", err)
	}
	return a, dir
}

func TestNewApp(t *testing.T) {
	t.Run("online by default", func(t *testing.T) {
		a, _ := newTestApp(t, Options{})
		defer a.Close()

		if !a.Monitor().Online() {
			t.Error("Online() = false, want true after a successful ping")
		}
		if got := a.Identity(); got.UserID != "u1" {
			t.Errorf("Identity().UserID = %q, want u1", got.UserID)
		}
		if a.StatsOptions().WeekStart != time.Sunday {
			t.Errorf("WeekStart = %v, want Sunday", a.StatsOptions().WeekStart)
		}
		if a.HeatmapDays() != 365 || a.TopicLimit() != 10 {
			t.Errorf("HeatmapDays() = %d, TopicLimit() = %d", a.HeatmapDays(), a.TopicLimit())
		}
		if len(a.Companies()) != len(model.CompanyRoster) {
			t.Errorf("Companies() = %d entries, want the roster", len(a.Companies()))
		}
	})

	t.Run("offline option skips the ping", func(t *testing.T) {
		a, _ := newTestApp(t, Options{Offline: true})
		defer a.Close()

		if a.Monitor().Online() {
			t.Fatal("Online() = true, want false in offline mode")
		}
		if !a.RetryConnection(context.Background()) {
			t.Error("RetryConnection() = false, want true")
		}
		if !a.Monitor().Online() {
			t.Error("Online() = false after a successful retry")
		}
	})

	t.Run("config errors", func(t *testing.T) {
		tests := []struct {
			name   string
			mutate func(cfg *config.Config)
			want   string
		}{
			{"bad week start", func(c *config.Config) { c.Stats.WeekStart = "funday" }, "week_start"},
			{"unknown database", func(c *config.Config) { c.Database.Type = "oracle" }, "unknown database type"},
			{"unknown cache", func(c *config.Config) { c.Cache.Type = "memcached" }, "unknown cache type"},
			{"unknown vault", func(c *config.Config) { c.Vault.Type = "tape" }, "unknown vault type"},
			{"bad log level", func(c *config.Config) { c.Log.Level = "loud" }, "invalid log level"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				cfg := testutil.NewTestConfig("u1", t.TempDir())
				tt.mutate(cfg)

				_, err := NewApp(context.Background(), cfg, "test", Options{Stderr: io.Discard})
				if err == nil {
					t.Fatal("NewApp() expected error, got nil")
				}
				if !strings.Contains(err.Error(), tt.want) {
					t.Errorf("NewApp() error = %q, want it to mention %q", err, tt.want)
				}
			})
		}
	})
}

func TestApp_Session(t *testing.T) {
	a, _ := newTestApp(t, Options{})
	defer a.Close()
	ctx := context.Background()

	session := a.Session(ctx, a.Identity())
	defer session.Close()

	added, err := session.AddProblem(ctx, testutil.NewProblem("Two Sum"))
	if err != nil {
		t.Fatalf("AddProblem() error = %v", err)
	}
	if added.ID == "" {
		t.Error("AddProblem() returned an empty ID")
	}

	deadline := time.Now().Add(2 * time.Second)
	for len(session.Problems()) != 1 {
		if time.Now().After(deadline) {
			t.Fatalf("snapshot never arrived, have %d problems", len(session.Problems()))
		}
		time.Sleep(5 * time.Millisecond)
	}

	if got := session.Summary().Totals.Total; got != 1 {
		t.Errorf("Summary().Totals.Total = %d, want 1", got)
	}

	key, err := session.Export(ctx)
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	keys, err := a.Exports().ListExports(ctx, a.Identity())
	if err != nil {
		t.Fatalf("ListExports() error = %v", err)
	}
	if len(keys) != 1 || keys[0] != key {
		t.Errorf("ListExports() = %v, want [%s]", keys, key)
	}
}

func TestApp_CloseLogsOutcome(t *testing.T) {
	a, dir := newTestApp(t, Options{})
	a.Operation().Fail(tracker.ErrNoIdentity)

	if err := a.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "log", "leettrack.log"))
	if err != nil {
		t.Fatalf("reading log: %v", err)
	}
	line := string(data)
	for _, want := range []string{"\tERROR\t" + a.Operation().ID + "\toperation finished", "status=error", "error=not authenticated"} {
		if !strings.Contains(line, want) {
			t.Errorf("log = %q, want it to contain %q", line, want)
		}
	}
}

func TestNewApp_UnreachableRemoteServesCachedSettings(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"forced offline", Options{Offline: true}},
		{"startup ping fails", Options{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			dir := t.TempDir()
			cfg := testutil.NewTestConfig("u1", dir)
			cfg.Database = config.DatabaseConfig{
				Type: "postgres",
				DSN:  "host=127.0.0.1 port=1 user=leettrack dbname=leettrack sslmode=disable connect_timeout=2",
			}
			cfg.Cache = config.CacheConfig{Type: "filesystem", Dir: filepath.Join(dir, "cache")}

			cached := model.DefaultSettings()
			cached.Theme = model.ThemeDark
			cached.LeetCodeUsername = "abc"
			data, err := json.Marshal(cached)
			if err != nil {
				t.Fatalf("Marshal() error = %v", err)
			}
			local, err := cache.NewFileSystemCache(cfg.Cache.Dir)
			if err != nil {
				t.Fatalf("NewFileSystemCache() error = %v", err)
			}
			if err := local.Set(ctx, tracker.SettingsKey("u1"), data); err != nil {
				t.Fatalf("Set() error = %v", err)
			}

			opts := tt.opts
			opts.Stderr = io.Discard
			a, err := NewApp(ctx, cfg, "settings get", opts)
			if err != nil {
				t.Fatalf("NewApp() error = %v, want the app to start offline", err)
			}
			defer a.Close()

			if a.Monitor().Online() {
				t.Fatal("Online() = true with an unreachable remote")
			}

			session := a.Session(ctx, a.Identity())
			defer session.Close()

			if got := session.Settings().Settings(); got != cached {
				t.Errorf("Settings() = %+v, want cached %+v", got, cached)
			}
			if got := session.Settings().Notice(); got != tracker.NoticeOffline {
				t.Errorf("Notice() = %q, want %q", got, tracker.NoticeOffline)
			}
			if a.RetryConnection(ctx) {
				t.Error("RetryConnection() = true with an unreachable remote")
			}
		})
	}
}
