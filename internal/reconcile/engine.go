package reconcile

import (
	"context"
	"sync"

	"github.com/Goldenboy100/golden-exchange--sub000/internal/cache"
	"github.com/Goldenboy100/golden-exchange--sub000/internal/models"
	"github.com/Goldenboy100/golden-exchange--sub000/internal/store"

	"go.uber.org/zap"
)

// Syncer is the collection-agnostic view of a binding, used by the
// bootstrap fetcher and the subscription/poll watcher.
type Syncer interface {
	Key() string

	// Refetch pulls the full remote collection and replaces the local
	// snapshot wholesale. An empty remote result leaves local state
	// untouched: empty means "no remote data yet", never "clear".
	Refetch(ctx context.Context) error

	// Subscribe opens the collection's remote change channel.
	Subscribe(ctx context.Context, onChange func()) (cancel func(), err error)
}

// Engine owns the outbound half of synchronization. Every bound collection
// gets write-through persistence to the durable cache plus diff-and-push
// reconciliation against its remote table. Pushes are fire-and-forget:
// failures are logged and never retried, and the previous-snapshot pointer
// advances regardless, so a failed push is permanently forgotten by design.
type Engine struct {
	cache *cache.Cache

	mu       sync.Mutex
	bindings []Syncer
	inflight sync.WaitGroup
}

func NewEngine(c *cache.Cache) *Engine {
	return &Engine{cache: c}
}

// Bindings returns every bound collection, for bootstrap and watching.
func (e *Engine) Bindings() []Syncer {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Syncer, len(e.bindings))
	copy(out, e.bindings)
	return out
}

// Wait blocks until all in-flight remote pushes have completed. Used on
// shutdown and in tests; the running system never waits on pushes.
func (e *Engine) Wait() {
	e.inflight.Wait()
}

func (e *Engine) spawn(fn func()) {
	e.inflight.Add(1)
	go func() {
		defer e.inflight.Done()
		fn()
	}()
}

// Binding connects one collection to its remote table and the durable cache.
type Binding[T store.Entity[T]] struct {
	eng   *Engine
	col   *store.Collection[T]
	table store.Table[T]

	mu   sync.Mutex
	prev []T // last snapshot a diff was computed against
}

// Bind registers a collection with the engine. The current snapshot becomes
// the initial "previously synced" baseline, so records hydrated from cache
// or seed are not pushed until something actually edits them.
func Bind[T store.Entity[T]](e *Engine, col *store.Collection[T], table store.Table[T]) *Binding[T] {
	b := &Binding[T]{eng: e, col: col, table: table, prev: col.Get()}
	col.OnChange(b.onChange)

	e.mu.Lock()
	e.bindings = append(e.bindings, b)
	e.mu.Unlock()
	return b
}

// Key returns the bound collection's key.
func (b *Binding[T]) Key() string { return b.col.Key() }

// onChange runs synchronously inside every collection mutation: one coalesced
// cache write, then exactly one diff against the immediately preceding
// snapshot. The previous pointer advances before the push is even attempted.
func (b *Binding[T]) onChange(ev store.Event[T]) {
	cache.Save(b.eng.cache, b.col.Key(), ev.Next)

	b.mu.Lock()
	prev := b.prev
	b.prev = ev.Next
	b.mu.Unlock()

	if ev.Remote {
		// Authoritative remote data; diffing it back would echo every
		// refetch to the server.
		return
	}

	ch := Diff(b.col.Key(), prev, ev.Next)
	if ch.Empty() {
		return
	}
	b.push(ch)
}

// push applies a diff to the remote store. Deletes and the bulk upsert are
// independent and run concurrently; ordering between them is not required.
func (b *Binding[T]) push(ch Changes[T]) {
	key := b.col.Key()
	for _, id := range ch.Removed {
		id := id
		b.eng.spawn(func() {
			if err := b.table.Delete(context.Background(), id); err != nil {
				zap.L().Error("Failed to delete remote record",
					zap.String("collection", key),
					zap.String("id", id),
					zap.Error(err))
			}
		})
	}
	if len(ch.Upserted) > 0 {
		rows := ch.Upserted
		b.eng.spawn(func() {
			if err := b.table.Upsert(context.Background(), rows); err != nil {
				zap.L().Error("Failed to upsert remote records",
					zap.String("collection", key),
					zap.Int("count", len(rows)),
					zap.Error(err))
			}
		})
	}
}

// Refetch implements Syncer. Only a successful, non-empty fetch replaces
// local state; concurrent refetches are safe, last-completed-wins.
func (b *Binding[T]) Refetch(ctx context.Context) error {
	rows, err := b.table.SelectAll(ctx)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		zap.L().Debug("Remote collection empty, keeping local data",
			zap.String("collection", b.col.Key()))
		return nil
	}
	b.col.Replace(rows)
	return nil
}

// Subscribe implements Syncer.
func (b *Binding[T]) Subscribe(ctx context.Context, onChange func()) (func(), error) {
	return b.table.Subscribe(ctx, onChange)
}

// configBinding reconciles the AppConfig singleton. Unlike collections it is
// never diffed: every local change upserts the whole object to its fixed
// row. Config is small and always-fresh, so a diff is not worth the
// complexity.
type configBinding struct {
	eng   *Engine
	sc    *store.Scalar[models.AppConfig]
	table store.Table[models.AppConfig]
}

// BindConfig wires the AppConfig singleton into the engine.
func BindConfig(e *Engine, sc *store.Scalar[models.AppConfig], table store.Table[models.AppConfig]) {
	b := &configBinding{eng: e, sc: sc, table: table}
	sc.OnChange(b.onChange)

	e.mu.Lock()
	e.bindings = append(e.bindings, b)
	e.mu.Unlock()
}

func (b *configBinding) Key() string { return b.sc.Key() }

func (b *configBinding) onChange(ev store.ScalarEvent[models.AppConfig]) {
	cache.SaveValue(b.eng.cache, b.sc.Key(), ev.Next)
	if ev.Remote {
		return
	}
	next := ev.Next
	b.eng.spawn(func() {
		if err := b.table.Upsert(context.Background(), []models.AppConfig{next}); err != nil {
			zap.L().Error("Failed to upsert app config", zap.Error(err))
		}
	})
}

func (b *configBinding) Refetch(ctx context.Context) error {
	rows, err := b.table.SelectAll(ctx)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	b.sc.Replace(rows[0])
	return nil
}

func (b *configBinding) Subscribe(ctx context.Context, onChange func()) (func(), error) {
	return b.table.Subscribe(ctx, onChange)
}

// PersistScalar writes a plain scalar setting through to the cache on every
// change. These scalars have no remote table; they are device-local.
func PersistScalar[T any](e *Engine, sc *store.Scalar[T]) {
	sc.OnChange(func(ev store.ScalarEvent[T]) {
		cache.SaveValue(e.cache, sc.Key(), ev.Next)
	})
}
