package testutil

import (
	"context"
	"errors"
	"sync"

	"leettrack/internal/model"
	"leettrack/internal/tracker"
)

// ErrInjected is the failure returned by the flaky fakes.
var ErrInjected = errors.New("injected failure")

// FlakySettingsRemote wraps a SettingsRemote and fails the operations whose
// error fields are set. It counts every call, failed or not.
type FlakySettingsRemote struct {
	Inner tracker.SettingsRemote

	mu        sync.Mutex
	GetErr    error
	PutErr    error
	UpdateErr error
	Gets      int
	Puts      int
	Updates   int
}

func NewFlakySettingsRemote(inner tracker.SettingsRemote) *FlakySettingsRemote {
	return &FlakySettingsRemote{Inner: inner}
}

// FailAll makes every operation return err. Pass nil to heal.
func (r *FlakySettingsRemote) FailAll(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.GetErr, r.PutErr, r.UpdateErr = err, err, err
}

// Calls returns the get, put and update counts.
func (r *FlakySettingsRemote) Calls() (gets, puts, updates int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.Gets, r.Puts, r.Updates
}

func (r *FlakySettingsRemote) GetSettings(ctx context.Context, userID string) (*model.Settings, error) {
	r.mu.Lock()
	r.Gets++
	err := r.GetErr
	r.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return r.Inner.GetSettings(ctx, userID)
}

func (r *FlakySettingsRemote) PutSettings(ctx context.Context, userID string, s model.Settings) error {
	r.mu.Lock()
	r.Puts++
	err := r.PutErr
	r.mu.Unlock()
	if err != nil {
		return err
	}
	return r.Inner.PutSettings(ctx, userID, s)
}

func (r *FlakySettingsRemote) UpdateSettings(ctx context.Context, userID string, patch model.SettingsPatch) error {
	r.mu.Lock()
	r.Updates++
	err := r.UpdateErr
	r.mu.Unlock()
	if err != nil {
		return err
	}
	return r.Inner.UpdateSettings(ctx, userID, patch)
}

var _ tracker.SettingsRemote = (*FlakySettingsRemote)(nil)

// FailingCache is a SettingsCache whose every call fails.
type FailingCache struct{}

func (FailingCache) Get(context.Context, string) ([]byte, error) { return nil, ErrInjected }
func (FailingCache) Set(context.Context, string, []byte) error   { return ErrInjected }

var _ tracker.SettingsCache = FailingCache{}
