package store

import "sync"

// ScalarEvent describes one applied scalar mutation. Remote mirrors
// Event.Remote on collections.
type ScalarEvent[T any] struct {
	Prev   T
	Next   T
	Remote bool
}

// Scalar holds a single settings value (theme, language, session user,
// connectivity flag, the AppConfig singleton). Same listener discipline as
// Collection: synchronous, in-order, no re-entrancy.
type Scalar[T any] struct {
	key       string
	mu        sync.Mutex
	value     T
	listeners []func(ScalarEvent[T])
}

// NewScalar creates a scalar seeded with its default value.
func NewScalar[T any](key string, initial T) *Scalar[T] {
	return &Scalar[T]{key: key, value: initial}
}

// Key returns the scalar's cache key.
func (s *Scalar[T]) Key() string { return s.key }

// Get returns the current value; never fails.
func (s *Scalar[T]) Get() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Set replaces the value with a local edit and notifies listeners.
func (s *Scalar[T]) Set(next T) {
	s.apply(next, false)
}

// Replace installs an authoritative remote value.
func (s *Scalar[T]) Replace(next T) {
	s.apply(next, true)
}

// OnChange registers a listener fired after every applied mutation.
func (s *Scalar[T]) OnChange(fn func(ScalarEvent[T])) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *Scalar[T]) apply(next T, remote bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ev := ScalarEvent[T]{Prev: s.value, Next: next, Remote: remote}
	s.value = next
	for _, fn := range s.listeners {
		fn(ev)
	}
}
