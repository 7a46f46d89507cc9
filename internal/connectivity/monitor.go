// Package connectivity tracks whether the remote store is reachable.
package connectivity

import (
	"context"
	"sync"

	"leettrack/internal/tracker"
)

// Pinger is anything that can tell whether the remote answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Monitor holds the online flag and notifies subscribers on transitions.
type Monitor struct {
	mu     sync.Mutex
	online bool
	nextID int
	subs   map[int]func(online bool)
	logger tracker.Logger
}

// NewMonitor creates a Monitor in the given initial state.
func NewMonitor(online bool, logger tracker.Logger) *Monitor {
	if logger == nil {
		logger = tracker.NewNopLogger()
	}
	return &Monitor{
		online: online,
		subs:   make(map[int]func(online bool)),
		logger: logger,
	}
}

func (m *Monitor) Online() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

// SetOnline records the state. Subscribers hear about it only when it
// differs from the previous one.
func (m *Monitor) SetOnline(online bool) {
	m.mu.Lock()
	if m.online == online {
		m.mu.Unlock()
		return
	}
	m.online = online
	subs := make([]func(bool), 0, len(m.subs))
	for _, fn := range m.subs {
		subs = append(subs, fn)
	}
	m.mu.Unlock()

	m.logger.Info("connectivity changed", "online", online)
	for _, fn := range subs {
		fn(online)
	}
}

func (m *Monitor) Subscribe(fn func(online bool)) (cancel func()) {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.subs[id] = fn
	m.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.subs, id)
			m.mu.Unlock()
		})
	}
}

// Check pings the remote once and updates the state from the result.
func (m *Monitor) Check(ctx context.Context, p Pinger) bool {
	err := p.Ping(ctx)
	if err != nil {
		m.logger.Warn("remote unreachable", "error", err)
	}
	m.SetOnline(err == nil)
	return err == nil
}

// Compile-time check that Monitor implements tracker.Connectivity interface
var _ tracker.Connectivity = (*Monitor)(nil)
