/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package watch

import (
	"context"
	"sync"
	"time"

	"github.com/Goldenboy100/golden-exchange--sub000/internal/models"
	"github.com/Goldenboy100/golden-exchange--sub000/internal/reconcile"

	"go.uber.org/zap"
)

// Watcher keeps local snapshots fresh against out-of-band remote edits via
// two independent triggers feeding the same refetch-and-replace path: a
// realtime change channel per collection when the backend supports one, and
// a fixed-interval poll as belt-and-suspenders for selected collections.
//
// Refetches are idempotent and safe to run concurrently with themselves;
// last-completed-wins.
type Watcher struct {
	bindings     []reconcile.Syncer
	pollInterval time.Duration
	pollKeys     map[string]bool

	mu      sync.Mutex
	cancels []func()

	// Control channels
	stopChan chan struct{}
	doneChan chan struct{}
}

// New creates a watcher over the engine's bindings.
func New(bindings []reconcile.Syncer, cfg models.WatchConfig) *Watcher {
	keys := make(map[string]bool, len(cfg.PollCollections))
	for _, k := range cfg.PollCollections {
		keys[k] = true
	}
	return &Watcher{
		bindings:     bindings,
		pollInterval: cfg.PollInterval,
		pollKeys:     keys,
		stopChan:     make(chan struct{}),
		doneChan:     make(chan struct{}),
	}
}

// Start opens the realtime channels and begins the polling loop.
func (w *Watcher) Start(ctx context.Context) {
	subscribed := 0
	for _, b := range w.bindings {
		b := b
		cancel, err := b.Subscribe(ctx, func() {
			w.refetch(ctx, b)
		})
		if err != nil {
			zap.L().Warn("Realtime channel unavailable, relying on polling",
				zap.String("collection", b.Key()),
				zap.Error(err))
			continue
		}
		subscribed++
		w.mu.Lock()
		w.cancels = append(w.cancels, cancel)
		w.mu.Unlock()
	}

	go w.pollLoop(ctx)

	zap.L().Info("Watcher started",
		zap.Int("realtime_channels", subscribed),
		zap.Duration("poll_interval", w.pollInterval))
}

// Stop tears down the polling loop and every open channel. Leaking timers
// is a defect, not a feature.
func (w *Watcher) Stop() {
	zap.L().Info("Stopping watcher")
	close(w.stopChan)
	<-w.doneChan

	w.mu.Lock()
	cancels := w.cancels
	w.cancels = nil
	w.mu.Unlock()
	for _, cancel := range cancels {
		cancel()
	}
	zap.L().Info("Watcher stopped")
}

func (w *Watcher) pollLoop(ctx context.Context) {
	defer close(w.doneChan)

	if w.pollInterval <= 0 {
		<-w.stopChan
		return
	}

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.pollOnce(ctx)
		case <-w.stopChan:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (w *Watcher) pollOnce(ctx context.Context) {
	for _, b := range w.bindings {
		if !w.pollKeys[b.Key()] {
			continue
		}
		w.refetch(ctx, b)
	}
}

// refetch runs one full refetch-and-replace for a collection. A notification
// arriving for an already-stopped watcher still completes harmlessly; the
// snapshot store is the global owner, so a late replace cannot corrupt
// component state.
func (w *Watcher) refetch(ctx context.Context, b reconcile.Syncer) {
	if err := b.Refetch(ctx); err != nil {
		zap.L().Error("Refetch failed",
			zap.String("collection", b.Key()),
			zap.Error(err))
	}
}
