package tracker

import (
	"context"
	"errors"
	"io"

	"leettrack/internal/model"
)

var (
	// ErrNotFound is returned when a record does not exist in the caller's scope.
	ErrNotFound = errors.New("not found")

	// ErrNoIdentity is returned by mutations attempted without a signed-in user.
	ErrNoIdentity = errors.New("not authenticated")

	// ErrOffline marks a remote failure caused by lost connectivity rather
	// than by the remote itself.
	ErrOffline = errors.New("offline")

	// ErrSettingsRejected is returned when imported settings fail validation.
	ErrSettingsRejected = errors.New("imported settings rejected")
)

// Identity is the signed-in user. Every read, write and subscription is
// scoped by UserID.
type Identity struct {
	UserID string `json:"userId"`
	Email  string `json:"email,omitempty"`
}

// Valid reports whether the identity names a user.
func (i Identity) Valid() bool { return i.UserID != "" }

// SnapshotFunc receives the full current problem list for one user.
type SnapshotFunc func(problems []*model.Problem)

// ProblemStore persists problems and pushes live snapshots.
type ProblemStore interface {
	// ListProblems returns every problem owned by userID.
	ListProblems(ctx context.Context, userID string) ([]*model.Problem, error)

	// GetProblem returns nil, nil when the problem does not exist for userID.
	GetProblem(ctx context.Context, userID, id string) (*model.Problem, error)

	CreateProblem(ctx context.Context, p *model.Problem) error

	// UpdateProblem replaces the editable fields of an existing problem.
	// Returns ErrNotFound when no row matches (p.UserID, p.ID).
	UpdateProblem(ctx context.Context, p *model.Problem) error

	// DeleteProblem returns ErrNotFound when no row matches.
	DeleteProblem(ctx context.Context, userID, id string) error

	// WatchProblems delivers the full result set immediately and again after
	// every committed write for userID, in commit order. The returned func
	// stops delivery and may be called more than once.
	WatchProblems(userID string, onSnapshot SnapshotFunc, onError func(error)) (unsubscribe func())
}

// ContestStore persists the append-only contest log.
type ContestStore interface {
	// ListContests returns the user's contests, most recent date first.
	ListContests(ctx context.Context, userID string) ([]*model.Contest, error)
	CreateContest(ctx context.Context, c *model.Contest) error
}

// SettingsRemote is the authoritative per-user settings store.
type SettingsRemote interface {
	// GetSettings returns nil, nil when the user has no settings record yet.
	GetSettings(ctx context.Context, userID string) (*model.Settings, error)

	// PutSettings creates or replaces the whole record.
	PutSettings(ctx context.Context, userID string, s model.Settings) error

	// UpdateSettings applies a partial update, creating the record from
	// defaults first if it does not exist.
	UpdateSettings(ctx context.Context, userID string, patch model.SettingsPatch) error
}

// Database is the remote backend: problems, contests and settings behind
// one connection.
type Database interface {
	ProblemStore
	ContestStore
	SettingsRemote

	// Ping checks that the backend is reachable.
	Ping(ctx context.Context) error

	// Close closes the database connection.
	Close() error
}

// SettingsCache is the device-local key/value tier. Values are serialised
// settings records.
type SettingsCache interface {
	// Get returns nil, nil when key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Connectivity reports whether the remote is believed reachable and
// announces transitions.
type Connectivity interface {
	Online() bool

	// Subscribe registers fn for online/offline transitions. Repeated
	// reports of the same state are not delivered.
	Subscribe(fn func(online bool)) (cancel func())
}

// StatsLookup fetches third-party profile statistics.
type StatsLookup interface {
	// Lookup returns nil, nil for an empty username.
	Lookup(ctx context.Context, username string) (*model.ProfileStats, error)
}

// Vault stores encrypted export archives.
type Vault interface {
	// PutArchive stores size bytes read from r under key, replacing any
	// existing archive with that key.
	PutArchive(ctx context.Context, key string, r io.Reader, size int64) error

	// GetArchive writes the archive stored under key to w.
	// Returns an error wrapping ErrNotFound when the key is absent.
	GetArchive(ctx context.Context, key string, w io.Writer) error

	// ListArchives returns the keys under prefix in lexical order.
	ListArchives(ctx context.Context, prefix string) ([]string, error)

	// ValidateSetup verifies that the vault is accessible and properly configured.
	ValidateSetup(ctx context.Context) error
}
