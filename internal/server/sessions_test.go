package server

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leettrack/internal/tracker"
)

func TestSessionRegistry_SlowOpenDoesNotBlockOtherUsers(t *testing.T) {
	s := newTestServer(t)
	release := make(chan struct{})
	r := newSessionRegistry(func(ctx context.Context, identity tracker.Identity) *tracker.Session {
		if identity.UserID == "slow" {
			<-release
		}
		return s.app.Session(ctx, identity)
	})
	defer r.closeAll()

	slowDone := make(chan *tracker.Session)
	go func() {
		slowDone <- r.get(context.Background(), tracker.Identity{UserID: "slow"})
	}()

	fast := make(chan *tracker.Session)
	go func() {
		fast <- r.get(context.Background(), tracker.Identity{UserID: "fast"})
	}()

	select {
	case got := <-fast:
		assert.Equal(t, "fast", got.Identity().UserID)
	case <-time.After(5 * time.Second):
		t.Fatal("opening one user's session blocked another user")
	}

	close(release)
	assert.Equal(t, "slow", (<-slowDone).Identity().UserID)
	assert.Equal(t, 2, r.len())
}

func TestSessionRegistry_ConcurrentFirstUseSharesOneSession(t *testing.T) {
	s := newTestServer(t)
	var opened atomic.Int32
	r := newSessionRegistry(func(ctx context.Context, identity tracker.Identity) *tracker.Session {
		opened.Add(1)
		return s.app.Session(ctx, identity)
	})
	defer r.closeAll()

	const callers = 8
	got := make([]*tracker.Session, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			got[i] = r.get(context.Background(), tracker.Identity{UserID: "u1"})
		}()
	}
	wg.Wait()

	for _, sess := range got[1:] {
		assert.Same(t, got[0], sess)
	}
	assert.Equal(t, 1, r.len())
	assert.GreaterOrEqual(t, opened.Load(), int32(1))
}

func TestSessionRegistry_ExpiresIdleSessions(t *testing.T) {
	s := newTestServer(t)
	var opened atomic.Int32
	r := newSessionRegistry(func(ctx context.Context, identity tracker.Identity) *tracker.Session {
		opened.Add(1)
		return s.app.Session(ctx, identity)
	})
	defer r.closeAll()

	now := time.Date(2024, 6, 3, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return now }
	ctx := context.Background()

	first := r.get(ctx, tracker.Identity{UserID: "a"})
	now = now.Add(sessionTTL / 2)
	require.Same(t, first, r.get(ctx, tracker.Identity{UserID: "a"}), "use refreshes the expiry")

	now = now.Add(sessionTTL + time.Second)
	r.get(ctx, tracker.Identity{UserID: "b"})
	assert.Equal(t, 1, r.len(), "idle session for a was evicted")

	again := r.get(ctx, tracker.Identity{UserID: "a"})
	assert.NotSame(t, first, again)
	assert.Equal(t, int32(3), opened.Load())
}
