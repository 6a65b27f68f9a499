package bootstrap

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/Goldenboy100/golden-exchange--sub000/internal/reconcile"
	"github.com/Goldenboy100/golden-exchange--sub000/internal/store"
)

type fakeSyncer struct {
	key       string
	err       error
	refetches int32
}

func (f *fakeSyncer) Key() string { return f.key }

func (f *fakeSyncer) Refetch(context.Context) error {
	atomic.AddInt32(&f.refetches, 1)
	return f.err
}

func (f *fakeSyncer) Subscribe(context.Context, func()) (func(), error) {
	return nil, errors.New("no realtime support")
}

func TestRunAllSucceedReportsConnected(t *testing.T) {
	status := store.NewScalar("connection", store.ConnUnknown)
	bindings := []reconcile.Syncer{
		&fakeSyncer{key: "rates"},
		&fakeSyncer{key: "metals"},
		&fakeSyncer{key: "users"},
	}

	got := Run(context.Background(), status, bindings)

	if got != store.ConnConnected {
		t.Errorf("expected connected, got %s", got)
	}
	if status.Get() != store.ConnConnected {
		t.Errorf("status scalar not set, got %s", status.Get())
	}
	for _, b := range bindings {
		if n := atomic.LoadInt32(&b.(*fakeSyncer).refetches); n != 1 {
			t.Errorf("collection %s fetched %d times, want 1", b.Key(), n)
		}
	}
}

func TestRunAnyFailureReportsDisconnected(t *testing.T) {
	status := store.NewScalar("connection", store.ConnUnknown)
	failing := &fakeSyncer{key: "news", err: errors.New("remote down")}
	bindings := []reconcile.Syncer{
		&fakeSyncer{key: "rates"},
		failing,
	}

	if got := Run(context.Background(), status, bindings); got != store.ConnDisconnected {
		t.Errorf("expected disconnected, got %s", got)
	}

	// The healthy collection was still fetched; one failure never aborts
	// the others.
	if n := atomic.LoadInt32(&bindings[0].(*fakeSyncer).refetches); n != 1 {
		t.Errorf("healthy collection fetched %d times, want 1", n)
	}
}

func TestRunNoBindingsReportsConnected(t *testing.T) {
	status := store.NewScalar("connection", store.ConnUnknown)
	if got := Run(context.Background(), status, nil); got != store.ConnConnected {
		t.Errorf("expected connected with no bindings, got %s", got)
	}
}
