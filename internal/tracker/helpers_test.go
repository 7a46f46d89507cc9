package tracker_test

import (
	"testing"

	"leettrack/internal/cache"
	"leettrack/internal/connectivity"
	"leettrack/internal/database"
	"leettrack/internal/lookup"
	"leettrack/internal/stats"
	"leettrack/internal/testutil"
	"leettrack/internal/tracker"
	"leettrack/internal/vault"
)

// fixture wires the real in-memory backends the way the app does.
type fixture struct {
	db       *database.Database
	clock    *testutil.StubClock
	cache    *cache.MemoryCache
	monitor  *connectivity.Monitor
	vault    *vault.MemoryVault
	problems *tracker.ProblemService
	contests *tracker.ContestService
	exports  *tracker.ExportService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := tracker.NewNopLogger()
	f := &fixture{
		db:      testutil.NewTestDatabase(t),
		clock:   testutil.FixedClock(),
		cache:   cache.NewMemoryCache(),
		monitor: connectivity.NewMonitor(true, logger),
		vault:   testutil.NewTestVault(),
	}
	idgen := testutil.NewStubIDGenerator()
	f.problems = tracker.NewProblemService(f.db, logger, f.clock, idgen)
	f.contests = tracker.NewContestService(f.db, logger, f.clock, idgen)
	f.exports = tracker.NewExportService(f.db, f.problems, f.contests, f.vault, testutil.NewTestEncryptor(), logger, f.clock)
	return f
}

func (f *fixture) sessionDeps() tracker.SessionDeps {
	return tracker.SessionDeps{
		Problems: f.problems,
		Contests: f.contests,
		Exports:  f.exports,
		Lookup:   lookup.NewStubLookup(f.clock),
		Remote:   f.db,
		Cache:    f.cache,
		Conn:     f.monitor,
		Policy:   tracker.DefaultTieringPolicy(),
		Stats:    stats.DefaultOptions(),
		Logger:   tracker.NewNopLogger(),
		Clock:    f.clock,
	}
}
