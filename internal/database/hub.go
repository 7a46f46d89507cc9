package database

import (
	"context"
	"sync"

	"leettrack/internal/model"
	"leettrack/internal/tracker"
)

// loadFunc reads the full problem list for one user.
type loadFunc func(ctx context.Context, userID string) ([]*model.Problem, error)

// snapshotHub fans committed writes out to live subscribers. Each publish
// takes a sequence number before reading, so a subscriber that already saw
// a newer read never receives an older one. Pending snapshots coalesce:
// a slow subscriber skips straight to the latest state.
type snapshotHub struct {
	load loadFunc

	mu   sync.Mutex
	seq  uint64
	subs map[string]map[*subscription]struct{}
}

func newSnapshotHub(load loadFunc) *snapshotHub {
	return &snapshotHub{
		load: load,
		subs: make(map[string]map[*subscription]struct{}),
	}
}

type delivery struct {
	seq      uint64
	problems []*model.Problem
	err      error
}

type subscription struct {
	hub        *snapshotHub
	userID     string
	onSnapshot tracker.SnapshotFunc
	onError    func(error)

	mu      sync.Mutex
	pending *delivery
	offered uint64
	closed  bool

	wake chan struct{}
	done chan struct{}
	once sync.Once
}

// subscribe registers a subscriber, queues the current state for it and
// starts its delivery goroutine. Callbacks run on that goroutine, never
// under a hub lock.
func (h *snapshotHub) subscribe(userID string, onSnapshot tracker.SnapshotFunc, onError func(error)) func() {
	sub := &subscription{
		hub:        h,
		userID:     userID,
		onSnapshot: onSnapshot,
		onError:    onError,
		wake:       make(chan struct{}, 1),
		done:       make(chan struct{}),
	}

	h.mu.Lock()
	if h.subs[userID] == nil {
		h.subs[userID] = make(map[*subscription]struct{})
	}
	h.subs[userID][sub] = struct{}{}
	h.seq++
	seq := h.seq
	h.mu.Unlock()

	go sub.run()

	problems, err := h.load(context.Background(), userID)
	sub.offer(delivery{seq: seq, problems: problems, err: err})

	return sub.cancel
}

// publish re-reads userID's problems and offers them to every subscriber.
// Call it after the write has committed.
func (h *snapshotHub) publish(userID string) {
	h.mu.Lock()
	subs := make([]*subscription, 0, len(h.subs[userID]))
	for sub := range h.subs[userID] {
		subs = append(subs, sub)
	}
	h.seq++
	seq := h.seq
	h.mu.Unlock()

	if len(subs) == 0 {
		return
	}

	problems, err := h.load(context.Background(), userID)
	for _, sub := range subs {
		sub.offer(delivery{seq: seq, problems: problems, err: err})
	}
}

// close cancels every subscription.
func (h *snapshotHub) close() {
	h.mu.Lock()
	var all []*subscription
	for _, subs := range h.subs {
		for sub := range subs {
			all = append(all, sub)
		}
	}
	h.mu.Unlock()

	for _, sub := range all {
		sub.cancel()
	}
}

func (h *snapshotHub) remove(sub *subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subs[sub.userID], sub)
	if len(h.subs[sub.userID]) == 0 {
		delete(h.subs, sub.userID)
	}
}

func (s *subscription) offer(d delivery) {
	s.mu.Lock()
	if s.closed || d.seq <= s.offered {
		s.mu.Unlock()
		return
	}
	s.offered = d.seq
	s.pending = &d
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *subscription) run() {
	for {
		select {
		case <-s.done:
			return
		case <-s.wake:
		}

		s.mu.Lock()
		d := s.pending
		s.pending = nil
		closed := s.closed
		s.mu.Unlock()

		if d == nil || closed {
			continue
		}
		if d.err != nil {
			if s.onError != nil {
				s.onError(d.err)
			}
			continue
		}
		// Each subscriber gets its own slice so callbacks can't race on it.
		problems := make([]*model.Problem, len(d.problems))
		copy(problems, d.problems)
		s.onSnapshot(problems)
	}
}

func (s *subscription) cancel() {
	s.once.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.pending = nil
		s.mu.Unlock()

		s.hub.remove(s)
		close(s.done)
	})
}
