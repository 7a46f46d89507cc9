package connectivity

import (
	"context"
	"errors"
	"testing"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestMonitor_TransitionsOnly(t *testing.T) {
	m := NewMonitor(true, nil)

	var got []bool
	cancel := m.Subscribe(func(online bool) { got = append(got, online) })

	m.SetOnline(true)
	m.SetOnline(false)
	m.SetOnline(false)
	m.SetOnline(true)

	if len(got) != 2 || got[0] != false || got[1] != true {
		t.Errorf("notifications = %v, want [false true]", got)
	}

	cancel()
	cancel()
	m.SetOnline(false)
	if len(got) != 2 {
		t.Errorf("notified after cancel: %v", got)
	}
	if m.Online() {
		t.Error("Online() = true, want false")
	}
}

func TestMonitor_Check(t *testing.T) {
	tests := []struct {
		name    string
		initial bool
		pingErr error
		want    bool
	}{
		{"reachable remote comes online", false, nil, true},
		{"failing ping goes offline", true, errors.New("connection refused"), false},
		{"reachable remote stays online", true, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMonitor(tt.initial, nil)
			got := m.Check(context.Background(), pingerFunc(func(context.Context) error { return tt.pingErr }))
			if got != tt.want {
				t.Errorf("Check() = %v, want %v", got, tt.want)
			}
			if m.Online() != tt.want {
				t.Errorf("Online() = %v, want %v", m.Online(), tt.want)
			}
		})
	}
}

func TestMonitor_SubscriberMaySubscribe(t *testing.T) {
	m := NewMonitor(false, nil)
	calls := 0
	m.Subscribe(func(online bool) {
		calls++
		// Callbacks run outside the lock.
		m.Subscribe(func(bool) {})
		_ = m.Online()
	})
	m.SetOnline(true)
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}
