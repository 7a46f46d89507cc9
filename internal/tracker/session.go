package tracker

import (
	"context"
	"fmt"
	"sync"

	"leettrack/internal/model"
	"leettrack/internal/stats"
)

// SessionDeps are the shared services a Session is built from.
type SessionDeps struct {
	Problems *ProblemService
	Contests *ContestService
	Exports  *ExportService
	Lookup   StatsLookup
	Remote   SettingsRemote
	Cache    SettingsCache
	Conn     Connectivity
	Policy   TieringPolicy
	Stats    stats.Options
	Logger   Logger
	Clock    Clock
}

// Session owns one identity's view: the live problem snapshot and the
// resolved settings. It is created on sign-in and closed on sign-out.
type Session struct {
	identity Identity
	deps     SessionDeps
	settings *SettingsService

	mu          sync.RWMutex
	snapshot    []*model.Problem
	loading     bool
	err         error
	unsubscribe func()
	closeOnce   sync.Once
}

// NewSession subscribes to the identity's problems and resolves its
// settings. An invalid identity gets an empty list and default settings.
func NewSession(ctx context.Context, identity Identity, deps SessionDeps) *Session {
	s := &Session{
		identity: identity,
		deps:     deps,
		settings: NewSettingsService(identity, deps.Remote, deps.Cache, deps.Conn, deps.Policy, deps.Logger),
		snapshot: []*model.Problem{},
		loading:  true,
	}

	s.settings.Attach()
	s.settings.Fetch(ctx)

	unsubscribe := deps.Problems.Watch(identity.UserID, s.onSnapshot, s.onError)
	s.mu.Lock()
	s.unsubscribe = unsubscribe
	s.mu.Unlock()

	return s
}

func (s *Session) onSnapshot(problems []*model.Problem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = problems
	s.loading = false
	s.err = nil
}

func (s *Session) onError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
	s.loading = false
}

// Identity returns the session's user.
func (s *Session) Identity() Identity { return s.identity }

// Settings returns the session's settings service.
func (s *Session) Settings() *SettingsService { return s.settings }

// Problems returns the most recent snapshot.
func (s *Session) Problems() []*model.Problem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// Loading reports whether no snapshot has arrived yet.
func (s *Session) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Err returns the last subscription error, cleared by the next snapshot.
func (s *Session) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// Summary recomputes dashboard statistics from the current snapshot.
func (s *Session) Summary() stats.Summary {
	return stats.Summarize(s.Problems(), s.deps.Clock.Now(), s.deps.Stats)
}

func (s *Session) AddProblem(ctx context.Context, p *model.Problem) (*model.Problem, error) {
	return s.deps.Problems.Add(ctx, s.identity.UserID, p)
}

func (s *Session) UpdateProblem(ctx context.Context, id string, p *model.Problem) (*model.Problem, error) {
	return s.deps.Problems.Update(ctx, s.identity.UserID, id, p)
}

func (s *Session) DeleteProblem(ctx context.Context, id string) error {
	return s.deps.Problems.Delete(ctx, s.identity.UserID, id)
}

func (s *Session) AddContest(ctx context.Context, c *model.Contest) (*model.Contest, error) {
	return s.deps.Contests.Add(ctx, s.identity.UserID, c)
}

func (s *Session) Contests(ctx context.Context) ([]*model.Contest, error) {
	return s.deps.Contests.List(ctx, s.identity.UserID)
}

// Profile looks up third-party statistics for the configured username.
// It returns nil, nil when no username is set.
func (s *Session) Profile(ctx context.Context) (*model.ProfileStats, error) {
	if s.deps.Lookup == nil {
		return nil, nil
	}
	return s.deps.Lookup.Lookup(ctx, s.settings.Settings().LeetCodeUsername)
}

// Export writes an encrypted archive and returns its key.
func (s *Session) Export(ctx context.Context) (string, error) {
	return s.deps.Exports.Export(ctx, s.identity)
}

// Import restores an archive and applies its settings through the normal
// update path. Settings the update path rejects are reported as an error
// alongside the problems and contests already restored.
func (s *Session) Import(ctx context.Context, key, passphrase string) (*ImportResult, error) {
	result, err := s.deps.Exports.Import(ctx, s.identity, key, passphrase)
	if err != nil {
		return result, err
	}
	if result.Settings == nil {
		return result, nil
	}

	res := s.settings.Update(ctx, model.PatchFrom(*result.Settings))
	switch {
	case !res.Success:
		s.deps.Logger.Error("imported settings rejected", "key", key, "error", res.Error)
		return result, fmt.Errorf("%w: %s", ErrSettingsRejected, res.Error)
	case res.Warning != "":
		s.deps.Logger.Warn("imported settings saved locally only", "warning", res.Warning)
	}
	return result, nil
}

// Close stops the problem subscription and detaches settings from
// connectivity. It is safe to call more than once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		unsubscribe := s.unsubscribe
		s.unsubscribe = nil
		s.mu.Unlock()

		if unsubscribe != nil {
			unsubscribe()
		}
		s.settings.Close()
	})
}
