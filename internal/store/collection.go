package store

import "sync"

// Event describes one applied mutation. Remote is true when the new value
// came from an authoritative remote refetch rather than a local edit;
// listeners use it to avoid echoing remote data back to the remote store.
type Event[T any] struct {
	Prev   []T
	Next   []T
	Remote bool
}

// Collection holds the authoritative in-session value of one entity
// collection. All mutations funnel through Set/Update/Replace; listeners run
// synchronously on the mutating goroutine, in registration order, so
// successive mutations are observed in the order they were issued.
//
// Listeners must not call back into the collection.
type Collection[T any] struct {
	key       string
	mu        sync.Mutex
	value     []T
	listeners []func(Event[T])
}

// NewCollection creates a collection seeded with its initial value.
func NewCollection[T any](key string, initial []T) *Collection[T] {
	return &Collection[T]{key: key, value: initial}
}

// Key returns the collection's cache/remote key.
func (c *Collection[T]) Key() string { return c.key }

// Get returns a copy of the current snapshot. Never fails; an unset
// collection returns whatever it was seeded with.
func (c *Collection[T]) Get() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]T, len(c.value))
	copy(out, c.value)
	return out
}

// Len returns the current number of records.
func (c *Collection[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.value)
}

// Set replaces the snapshot wholesale with a locally-edited value.
func (c *Collection[T]) Set(next []T) {
	c.apply(func([]T) []T { return next }, false)
}

// Update applies a pure function of the previous value, for atomic relative
// updates without stale-closure races. The function must not mutate its
// argument in place; returning it unchanged (same backing array) skips
// notification entirely.
func (c *Collection[T]) Update(fn func(cur []T) []T) {
	c.apply(fn, false)
}

// Replace installs an authoritative remote snapshot. Listeners see
// Event.Remote == true.
func (c *Collection[T]) Replace(rows []T) {
	c.apply(func([]T) []T { return rows }, true)
}

// OnChange registers a listener fired after every applied mutation.
func (c *Collection[T]) OnChange(fn func(Event[T])) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

func (c *Collection[T]) apply(fn func(cur []T) []T, remote bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	prev := c.value
	next := fn(prev)
	if sameSlice(prev, next) {
		// No mutation occurred; skip diffing and persistence entirely.
		return
	}
	c.value = next

	ev := Event[T]{Prev: prev, Next: next, Remote: remote}
	for _, fn := range c.listeners {
		fn(ev)
	}
}

// sameSlice reports whether two slices share the same backing array and
// length, i.e. the update returned its input untouched.
func sameSlice[T any](a, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	if len(a) == 0 {
		return (a == nil) == (b == nil)
	}
	return &a[0] == &b[0]
}
