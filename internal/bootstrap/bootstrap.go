package bootstrap

import (
	"context"
	"sync"

	"github.com/Goldenboy100/golden-exchange--sub000/internal/reconcile"
	"github.com/Goldenboy100/golden-exchange--sub000/internal/store"

	"go.uber.org/zap"
)

// Run performs the one-time remote-to-local hydration at session start.
//
// Every collection is fetched in parallel. A collection whose fetch errors,
// or succeeds with zero rows, keeps its local/default data: empty is "no
// remote data available yet", never "this collection should now be empty".
// The resulting connectivity status is set exactly once and is purely
// observational; it gates nothing.
func Run(ctx context.Context, status *store.Scalar[store.ConnStatus], bindings []reconcile.Syncer) store.ConnStatus {
	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		failed bool
	)

	for _, b := range bindings {
		wg.Add(1)
		go func(b reconcile.Syncer) {
			defer wg.Done()
			if err := b.Refetch(ctx); err != nil {
				zap.L().Warn("Bootstrap fetch failed, keeping local data",
					zap.String("collection", b.Key()),
					zap.Error(err))
				mu.Lock()
				failed = true
				mu.Unlock()
			}
		}(b)
	}
	wg.Wait()

	st := store.ConnConnected
	if failed {
		st = store.ConnDisconnected
	}
	status.Set(st)

	zap.L().Info("Bootstrap hydration finished",
		zap.Int("collections", len(bindings)),
		zap.String("status", string(st)))
	return st
}
