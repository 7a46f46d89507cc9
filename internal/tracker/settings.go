package tracker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"leettrack/internal/model"
)

// Notice is the user-visible explanation attached to settings that did not
// come from the remote store.
type Notice string

const (
	NoticeNone Notice = ""

	// NoticeOffline is shown when a fetch ran while offline.
	NoticeOffline Notice = "You are currently offline. Using locally stored settings until connection is restored."

	// NoticeWentOffline is shown when connectivity drops mid-session.
	NoticeWentOffline Notice = "You are currently offline. Using default settings until connection is restored."

	// NoticeDegraded is shown when the remote read failed while online.
	NoticeDegraded Notice = "Failed to load settings from server. Using locally stored settings."
)

const (
	warningSavedOffline = "You are offline. Changes saved locally and will sync when you reconnect."
	warningRemoteFailed = "Failed to save settings to the server. Changes are saved locally."
	errNotAuthenticated = "Not authenticated"
	errUnexpected       = "An unexpected error occurred"
)

// ReadPolicy says where settings reads are served from.
type ReadPolicy int

const (
	// RemoteThenLocal reads the remote when online and falls back to the
	// local cache when offline or when the remote fails.
	RemoteThenLocal ReadPolicy = iota
	// LocalOnly never contacts the remote for reads.
	LocalOnly
)

// WritePolicy says where settings writes go.
type WritePolicy int

const (
	// LocalThenBestEffortRemote writes the cache first, then tries the
	// remote once. A remote failure is reported but never rolled back.
	LocalThenBestEffortRemote WritePolicy = iota
	// LocalWriteOnly keeps writes on this device.
	LocalWriteOnly
)

// TieringPolicy selects how the settings tiers are combined.
type TieringPolicy struct {
	Read  ReadPolicy
	Write WritePolicy
}

// DefaultTieringPolicy is remote-first for reads and local-first for writes.
func DefaultTieringPolicy() TieringPolicy {
	return TieringPolicy{Read: RemoteThenLocal, Write: LocalThenBestEffortRemote}
}

// UpdateResult reports the outcome of a settings mutation. Success is true
// whenever the change was applied locally, even if the remote missed it.
type UpdateResult struct {
	Success bool   `json:"success"`
	Warning string `json:"warning,omitempty"`
	Offline bool   `json:"offline,omitempty"`
	Error   string `json:"error,omitempty"`
}

// SettingsKey is the local cache key for a user's settings.
func SettingsKey(userID string) string {
	return "user_settings_" + userID
}

// SettingsService resolves one identity's settings across the remote store
// and the local cache, and is the single entry point for changing them.
type SettingsService struct {
	identity Identity
	remote   SettingsRemote
	cache    SettingsCache
	conn     Connectivity
	policy   TieringPolicy
	logger   Logger

	mu       sync.Mutex
	settings model.Settings
	notice   Notice
	loading  bool
	closed   bool
	detach   func()
}

// NewSettingsService creates a SettingsService holding default settings.
// Call Fetch to resolve the stored values.
func NewSettingsService(identity Identity, remote SettingsRemote, cache SettingsCache, conn Connectivity, policy TieringPolicy, logger Logger) *SettingsService {
	return &SettingsService{
		identity: identity,
		remote:   remote,
		cache:    cache,
		conn:     conn,
		policy:   policy,
		logger:   logger,
		settings: model.DefaultSettings(),
		loading:  identity.Valid(),
	}
}

// Settings returns the current in-memory settings.
func (s *SettingsService) Settings() model.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// Notice returns the current notice, or NoticeNone.
func (s *SettingsService) Notice() Notice {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notice
}

// Loading reports whether the first fetch has not completed yet.
func (s *SettingsService) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Attach subscribes the service to connectivity transitions: going online
// re-runs the fetch, going offline only raises the notice.
func (s *SettingsService) Attach() {
	if s.conn == nil {
		return
	}
	cancel := s.conn.Subscribe(func(online bool) {
		if online {
			s.HandleOnline(context.Background())
		} else {
			s.HandleOffline()
		}
	})

	s.mu.Lock()
	if s.detach != nil {
		s.detach()
	}
	s.detach = cancel
	s.mu.Unlock()
}

// Close detaches from connectivity. Fetches still in flight finish but
// their results are discarded.
func (s *SettingsService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	if s.detach != nil {
		s.detach()
		s.detach = nil
	}
}

// Fetch resolves settings and returns the adopted value. Remote failures
// never surface as errors; they fall back to the local copy and set a notice.
func (s *SettingsService) Fetch(ctx context.Context) model.Settings {
	if !s.identity.Valid() {
		s.adopt(model.DefaultSettings(), NoticeNone)
		return s.Settings()
	}

	if s.policy.Read == LocalOnly || !s.online() {
		local, ok := s.readLocal(ctx)
		if !ok {
			local = model.DefaultSettings()
		}
		s.adopt(local, NoticeOffline)
		return s.Settings()
	}

	remote, err := s.remote.GetSettings(ctx, s.identity.UserID)
	switch {
	case err != nil:
		s.logger.Warn("loading settings from remote failed", "user", s.identity.UserID, "error", err)
		notice := NoticeDegraded
		if errors.Is(err, ErrOffline) || !s.online() {
			notice = NoticeOffline
		}
		if local, ok := s.readLocal(ctx); ok {
			s.adopt(local, notice)
		} else {
			s.keep(notice)
		}

	case remote != nil:
		s.adopt(*remote, NoticeNone)
		s.writeLocal(ctx, *remote)

	default:
		defaults := model.DefaultSettings()
		if err := s.remote.PutSettings(ctx, s.identity.UserID, defaults); err != nil {
			s.logger.Warn("creating default settings failed", "user", s.identity.UserID, "error", err)
		}
		s.writeLocal(ctx, defaults)
		s.adopt(defaults, NoticeNone)
	}

	return s.Settings()
}

// HandleOnline clears the notice and re-runs the fetch.
func (s *SettingsService) HandleOnline(ctx context.Context) model.Settings {
	s.mu.Lock()
	s.notice = NoticeNone
	s.mu.Unlock()
	return s.Fetch(ctx)
}

// HandleOffline raises the offline notice. Settings are left as they are.
func (s *SettingsService) HandleOffline() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.notice = NoticeWentOffline
	}
}

// Update merges patch into memory immediately, writes the local copy, then
// tries the remote once. Nothing is rolled back if the remote write fails,
// and once the local copy is written the result is always a success.
func (s *SettingsService) Update(ctx context.Context, patch model.SettingsPatch) UpdateResult {
	if !s.identity.Valid() {
		return UpdateResult{Success: false, Error: errNotAuthenticated}
	}
	if err := patch.Validate(); err != nil {
		return UpdateResult{Success: false, Error: err.Error()}
	}

	merged, err := s.tryMerge(patch)
	if err != nil {
		s.logger.Error("updating settings failed", "user", s.identity.UserID, "error", err)
		return UpdateResult{Success: false, Error: errUnexpected}
	}
	s.writeLocal(ctx, merged)

	if s.policy.Write == LocalWriteOnly || !s.online() {
		return UpdateResult{Success: true, Warning: warningSavedOffline, Offline: true}
	}

	if err := s.pushRemote(ctx, patch); err != nil {
		s.logger.Warn("saving settings to remote failed", "user", s.identity.UserID, "error", err)
		return UpdateResult{Success: true, Warning: warningRemoteFailed, Offline: true}
	}

	s.logger.Info("settings updated", "user", s.identity.UserID)
	return UpdateResult{Success: true}
}

// tryMerge applies patch to the in-memory settings, turning a panic into
// an error.
func (s *SettingsService) tryMerge(patch model.SettingsPatch) (merged model.Settings, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("merging settings: %v", r)
		}
	}()
	return s.merge(patch), nil
}

// pushRemote sends patch to the remote store. A panicking remote counts as
// a failed write.
func (s *SettingsService) pushRemote(ctx context.Context, patch model.SettingsPatch) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("remote update panicked: %v", r)
		}
	}()
	return s.remote.UpdateSettings(ctx, s.identity.UserID, patch)
}

func (s *SettingsService) online() bool {
	return s.conn == nil || s.conn.Online()
}

func (s *SettingsService) merge(patch model.SettingsPatch) model.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = s.settings.Merge(patch)
	return s.settings
}

func (s *SettingsService) adopt(settings model.Settings, notice Notice) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.settings = settings
	s.notice = notice
	s.loading = false
}

// keep finishes a fetch without replacing the in-memory settings.
func (s *SettingsService) keep(notice Notice) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.notice = notice
	s.loading = false
}

func (s *SettingsService) readLocal(ctx context.Context) (model.Settings, bool) {
	if s.cache == nil {
		return model.Settings{}, false
	}
	data, err := s.cache.Get(ctx, SettingsKey(s.identity.UserID))
	if err != nil {
		s.logger.Warn("reading local settings failed", "user", s.identity.UserID, "error", err)
		return model.Settings{}, false
	}
	if data == nil {
		return model.Settings{}, false
	}

	settings, err := decodeSettings(data)
	if err != nil {
		s.logger.Warn("local settings are corrupt", "user", s.identity.UserID, "error", err)
		return model.Settings{}, false
	}
	return settings, true
}

func (s *SettingsService) writeLocal(ctx context.Context, settings model.Settings) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(settings)
	if err != nil {
		s.logger.Warn("encoding local settings failed", "error", err)
		return
	}
	if err := s.cache.Set(ctx, SettingsKey(s.identity.UserID), data); err != nil {
		s.logger.Warn("writing local settings failed", "user", s.identity.UserID, "error", err)
	}
}

// decodeSettings reads a cached record. Fields missing from older records
// keep their default values.
func decodeSettings(data []byte) (model.Settings, error) {
	settings := model.DefaultSettings()
	if err := json.Unmarshal(data, &settings); err != nil {
		return model.Settings{}, fmt.Errorf("decoding settings: %w", err)
	}
	return settings, nil
}
