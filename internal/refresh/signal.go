// Package refresh carries the single cross-view synchronization primitive:
// a monotonically increasing counter bumped after every successful lead
// mutation. Views subscribe and re-fetch when it advances; there is no
// direct component-to-component call path.
package refresh

import (
	"context"
	"sync"
)

type Signal struct {
	mu      sync.Mutex
	counter uint64
	subs    map[chan uint64]struct{}
}

func NewSignal() *Signal {
	return &Signal{subs: make(map[chan uint64]struct{})}
}

// Trigger increments the counter and notifies every subscriber.
// Notifications coalesce: a subscriber that has not drained its channel
// gets one pending value, not a backlog — consumers re-fetch the full
// state anyway, so intermediate counts carry no information.
func (s *Signal) Trigger() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counter++
	for ch := range s.subs {
		select {
		case ch <- s.counter:
		default:
		}
	}
	return s.counter
}

// Counter returns the current value without modifying it.
func (s *Signal) Counter() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counter
}

// Subscribe registers a consumer. The channel is closed and removed when
// ctx is cancelled, so torn-down views never leave dangling receivers.
func (s *Signal) Subscribe(ctx context.Context) <-chan uint64 {
	ch := make(chan uint64, 1)
	s.mu.Lock()
	s.subs[ch] = struct{}{}
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		delete(s.subs, ch)
		s.mu.Unlock()
		close(ch)
	}()
	return ch
}
