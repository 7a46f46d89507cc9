package tracker_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leettrack/internal/cache"
	"leettrack/internal/connectivity"
	"leettrack/internal/model"
	"leettrack/internal/testutil"
	"leettrack/internal/tracker"
)

type settingsFixture struct {
	remote  *testutil.FlakySettingsRemote
	cache   *cache.MemoryCache
	monitor *connectivity.Monitor
	svc     *tracker.SettingsService
}

func newSettingsFixture(t *testing.T, online bool) *settingsFixture {
	t.Helper()
	f := &settingsFixture{
		remote:  testutil.NewFlakySettingsRemote(testutil.NewTestDatabase(t)),
		cache:   cache.NewMemoryCache(),
		monitor: connectivity.NewMonitor(online, nil),
	}
	f.svc = tracker.NewSettingsService(
		tracker.Identity{UserID: "u1", Email: "u1@example.com"},
		f.remote, f.cache, f.monitor, tracker.DefaultTieringPolicy(), tracker.NewNopLogger(),
	)
	return f
}

func (f *settingsFixture) cached(t *testing.T) *model.Settings {
	t.Helper()
	data, err := f.cache.Get(context.Background(), tracker.SettingsKey("u1"))
	require.NoError(t, err)
	if data == nil {
		return nil
	}
	var s model.Settings
	require.NoError(t, json.Unmarshal(data, &s))
	return &s
}

func (f *settingsFixture) seedCache(t *testing.T, s model.Settings) {
	t.Helper()
	data, err := json.Marshal(s)
	require.NoError(t, err)
	require.NoError(t, f.cache.Set(context.Background(), tracker.SettingsKey("u1"), data))
}

func darkSettings() model.Settings {
	s := model.DefaultSettings()
	s.Theme = model.ThemeDark
	s.DailyGoal = 3
	s.LeetCodeUsername = "alice"
	return s
}

func TestSettingsKey(t *testing.T) {
	assert.Equal(t, "user_settings_abc", tracker.SettingsKey("abc"))
}

func TestSettingsService_Fetch(t *testing.T) {
	ctx := context.Background()

	t.Run("offline without local copy uses defaults", func(t *testing.T) {
		f := newSettingsFixture(t, false)
		assert.True(t, f.svc.Loading())

		got := f.svc.Fetch(ctx)

		assert.Equal(t, model.DefaultSettings(), got)
		assert.Equal(t, tracker.NoticeOffline, f.svc.Notice())
		assert.False(t, f.svc.Loading())
		gets, _, _ := f.remote.Calls()
		assert.Zero(t, gets, "remote must not be contacted while offline")
	})

	t.Run("offline with local copy adopts it", func(t *testing.T) {
		f := newSettingsFixture(t, false)
		f.seedCache(t, darkSettings())

		assert.Equal(t, darkSettings(), f.svc.Fetch(ctx))
		assert.Equal(t, tracker.NoticeOffline, f.svc.Notice())
	})

	t.Run("remote record is adopted and written through", func(t *testing.T) {
		f := newSettingsFixture(t, true)
		require.NoError(t, f.remote.Inner.PutSettings(ctx, "u1", darkSettings()))

		assert.Equal(t, darkSettings(), f.svc.Fetch(ctx))
		assert.Equal(t, tracker.NoticeNone, f.svc.Notice())
		assert.Equal(t, darkSettings(), *f.cached(t))
	})

	t.Run("absent remote record creates defaults", func(t *testing.T) {
		f := newSettingsFixture(t, true)

		assert.Equal(t, model.DefaultSettings(), f.svc.Fetch(ctx))
		_, puts, _ := f.remote.Calls()
		assert.Equal(t, 1, puts)

		stored, err := f.remote.Inner.GetSettings(ctx, "u1")
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, model.DefaultSettings(), *stored)
		assert.Equal(t, model.DefaultSettings(), *f.cached(t))

		// The second cycle finds the record and does not error.
		assert.Equal(t, model.DefaultSettings(), f.svc.Fetch(ctx))
		assert.Equal(t, tracker.NoticeNone, f.svc.Notice())
	})

	t.Run("absent remote record with failing create", func(t *testing.T) {
		f := newSettingsFixture(t, true)
		f.remote.PutErr = testutil.ErrInjected

		for i := 0; i < 2; i++ {
			assert.Equal(t, model.DefaultSettings(), f.svc.Fetch(ctx))
			assert.Equal(t, tracker.NoticeNone, f.svc.Notice())
		}
		_, puts, _ := f.remote.Calls()
		assert.Equal(t, 2, puts)
		assert.Equal(t, model.DefaultSettings(), *f.cached(t))
	})

	t.Run("remote failure falls back to local copy", func(t *testing.T) {
		f := newSettingsFixture(t, true)
		f.seedCache(t, darkSettings())
		f.remote.GetErr = testutil.ErrInjected

		assert.Equal(t, darkSettings(), f.svc.Fetch(ctx))
		assert.Equal(t, tracker.NoticeDegraded, f.svc.Notice())
	})

	t.Run("remote failure without local copy keeps memory", func(t *testing.T) {
		f := newSettingsFixture(t, true)
		theme := model.ThemeLight
		f.svc.Update(ctx, model.SettingsPatch{Theme: &theme})
		require.NoError(t, f.cache.Set(ctx, tracker.SettingsKey("u1"), []byte("not json")))
		f.remote.GetErr = testutil.ErrInjected

		got := f.svc.Fetch(ctx)
		assert.Equal(t, model.ThemeLight, got.Theme)
		assert.Equal(t, tracker.NoticeDegraded, f.svc.Notice())
	})

	t.Run("offline error from remote sets offline notice", func(t *testing.T) {
		f := newSettingsFixture(t, true)
		f.remote.GetErr = fmt.Errorf("dial: %w", tracker.ErrOffline)

		f.svc.Fetch(ctx)
		assert.Equal(t, tracker.NoticeOffline, f.svc.Notice())
	})

	t.Run("failing cache does not block remote reads", func(t *testing.T) {
		remote := testutil.NewTestDatabase(t)
		require.NoError(t, remote.PutSettings(ctx, "u1", darkSettings()))
		svc := tracker.NewSettingsService(tracker.Identity{UserID: "u1"}, remote, testutil.FailingCache{},
			connectivity.NewMonitor(true, nil), tracker.DefaultTieringPolicy(), tracker.NewNopLogger())

		assert.Equal(t, darkSettings(), svc.Fetch(ctx))
	})

	t.Run("no identity yields defaults", func(t *testing.T) {
		remote := testutil.NewFlakySettingsRemote(testutil.NewTestDatabase(t))
		svc := tracker.NewSettingsService(tracker.Identity{}, remote, cache.NewMemoryCache(),
			connectivity.NewMonitor(true, nil), tracker.DefaultTieringPolicy(), tracker.NewNopLogger())

		assert.False(t, svc.Loading())
		assert.Equal(t, model.DefaultSettings(), svc.Fetch(ctx))
		gets, puts, _ := remote.Calls()
		assert.Zero(t, gets+puts)
	})

	t.Run("local-only read policy skips remote", func(t *testing.T) {
		remote := testutil.NewFlakySettingsRemote(testutil.NewTestDatabase(t))
		policy := tracker.TieringPolicy{Read: tracker.LocalOnly, Write: tracker.LocalWriteOnly}
		svc := tracker.NewSettingsService(tracker.Identity{UserID: "u1"}, remote, cache.NewMemoryCache(),
			connectivity.NewMonitor(true, nil), policy, tracker.NewNopLogger())

		svc.Fetch(ctx)
		gets, _, _ := remote.Calls()
		assert.Zero(t, gets)
	})
}

func TestSettingsService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("offline update is kept locally with a warning", func(t *testing.T) {
		f := newSettingsFixture(t, false)
		f.svc.Fetch(ctx)

		goal := 7
		res := f.svc.Update(ctx, model.SettingsPatch{WeeklyGoal: &goal})

		assert.True(t, res.Success)
		assert.True(t, res.Offline)
		assert.Contains(t, res.Warning, "offline")
		assert.Empty(t, res.Error)
		assert.Equal(t, 7, f.svc.Settings().WeeklyGoal)
		assert.Equal(t, 7, f.cached(t).WeeklyGoal)
		_, _, updates := f.remote.Calls()
		assert.Zero(t, updates)
	})

	t.Run("online update reaches the remote", func(t *testing.T) {
		f := newSettingsFixture(t, true)
		f.svc.Fetch(ctx)

		theme := model.ThemeDark
		username := "alice"
		res := f.svc.Update(ctx, model.SettingsPatch{Theme: &theme, LeetCodeUsername: &username})

		assert.Equal(t, tracker.UpdateResult{Success: true}, res)
		stored, err := f.remote.Inner.GetSettings(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, model.ThemeDark, stored.Theme)
		assert.Equal(t, "alice", stored.LeetCodeUsername)
		assert.Equal(t, model.DefaultSettings().WeeklyGoal, stored.WeeklyGoal)
	})

	t.Run("remote failure keeps the change", func(t *testing.T) {
		f := newSettingsFixture(t, true)
		f.svc.Fetch(ctx)
		f.remote.UpdateErr = testutil.ErrInjected

		on := true
		res := f.svc.Update(ctx, model.SettingsPatch{AutoSync: &on})

		assert.True(t, res.Success)
		assert.True(t, res.Offline)
		assert.Contains(t, res.Warning, "server")
		assert.True(t, f.svc.Settings().AutoSync)
		assert.True(t, f.cached(t).AutoSync)
	})

	t.Run("invalid patch is rejected", func(t *testing.T) {
		f := newSettingsFixture(t, true)
		zero := 0
		res := f.svc.Update(ctx, model.SettingsPatch{DailyGoal: &zero})

		assert.False(t, res.Success)
		assert.NotEmpty(t, res.Error)
		assert.Equal(t, 1, f.svc.Settings().DailyGoal)
	})

	t.Run("no identity", func(t *testing.T) {
		svc := tracker.NewSettingsService(tracker.Identity{}, nil, nil, nil, tracker.DefaultTieringPolicy(), tracker.NewNopLogger())
		theme := model.ThemeDark
		res := svc.Update(ctx, model.SettingsPatch{Theme: &theme})

		assert.Equal(t, tracker.UpdateResult{Success: false, Error: "Not authenticated"}, res)
	})

	t.Run("panicking remote keeps the local change", func(t *testing.T) {
		local := cache.NewMemoryCache()
		svc := tracker.NewSettingsService(tracker.Identity{UserID: "u1"}, panickingRemote{}, local,
			connectivity.NewMonitor(true, nil), tracker.DefaultTieringPolicy(), tracker.NewNopLogger())
		theme := model.ThemeDark
		res := svc.Update(ctx, model.SettingsPatch{Theme: &theme})

		assert.Equal(t, tracker.UpdateResult{
			Success: true,
			Warning: "Failed to save settings to the server. Changes are saved locally.",
			Offline: true,
		}, res)
		assert.Equal(t, model.ThemeDark, svc.Settings().Theme)

		data, err := local.Get(ctx, tracker.SettingsKey("u1"))
		require.NoError(t, err)
		var cached model.Settings
		require.NoError(t, json.Unmarshal(data, &cached))
		assert.Equal(t, model.ThemeDark, cached.Theme)
	})
}

type panickingRemote struct{}

func (panickingRemote) GetSettings(context.Context, string) (*model.Settings, error) {
	panic("boom")
}
func (panickingRemote) PutSettings(context.Context, string, model.Settings) error { panic("boom") }
func (panickingRemote) UpdateSettings(context.Context, string, model.SettingsPatch) error {
	panic("boom")
}

func TestSettingsService_Connectivity(t *testing.T) {
	ctx := context.Background()
	f := newSettingsFixture(t, false)
	f.svc.Attach()
	defer f.svc.Close()

	f.svc.Fetch(ctx)
	assert.Equal(t, tracker.NoticeOffline, f.svc.Notice())

	// Someone else changed the remote while we were offline.
	require.NoError(t, f.remote.Inner.PutSettings(ctx, "u1", darkSettings()))

	f.monitor.SetOnline(true)
	assert.Equal(t, tracker.NoticeNone, f.svc.Notice())
	assert.Equal(t, darkSettings(), f.svc.Settings())

	f.monitor.SetOnline(false)
	assert.Equal(t, tracker.NoticeWentOffline, f.svc.Notice())
	assert.Equal(t, darkSettings(), f.svc.Settings(), "going offline keeps the settings")
}

func TestSettingsService_Close(t *testing.T) {
	ctx := context.Background()
	f := newSettingsFixture(t, true)
	f.svc.Attach()
	require.NoError(t, f.remote.Inner.PutSettings(ctx, "u1", darkSettings()))

	f.svc.Close()
	f.svc.Close()

	f.svc.Fetch(ctx)
	assert.Equal(t, model.DefaultSettings(), f.svc.Settings(), "results after close are discarded")

	f.monitor.SetOnline(false)
	assert.Equal(t, tracker.NoticeNone, f.svc.Notice(), "detached from connectivity")
}
