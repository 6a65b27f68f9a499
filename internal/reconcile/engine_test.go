package reconcile

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/Goldenboy100/golden-exchange--sub000/internal/cache"
	"github.com/Goldenboy100/golden-exchange--sub000/internal/models"
	"github.com/Goldenboy100/golden-exchange--sub000/internal/store"
)

// fakeTable records every remote call, standing in for the HTTP backend.
type fakeTable[T any] struct {
	mu        sync.Mutex
	upserts   [][]T
	deletes   []string
	rows      []T
	selectErr error
	upsertErr error
}

func (f *fakeTable[T]) SelectAll(context.Context) ([]T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.selectErr != nil {
		return nil, f.selectErr
	}
	return f.rows, nil
}

func (f *fakeTable[T]) Upsert(_ context.Context, rows []T) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserts = append(f.upserts, rows)
	return f.upsertErr
}

func (f *fakeTable[T]) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, id)
	return nil
}

func (f *fakeTable[T]) Subscribe(context.Context, func()) (func(), error) {
	return nil, errors.New("no realtime support")
}

func (f *fakeTable[T]) upsertCalls() [][]T {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([][]T, len(f.upserts))
	copy(out, f.upserts)
	return out
}

func (f *fakeTable[T]) deleteCalls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.deletes))
	copy(out, f.deletes)
	return out
}

func newTestEngine() *Engine {
	return NewEngine(cache.New(cache.NewMemoryMedium(), "test", nil))
}

func TestBindingPushesLocalEdit(t *testing.T) {
	eng := newTestEngine()
	col := store.NewCollection(store.KeyRates, []models.Rate{rate("usd", 1000, 1010)})
	table := &fakeTable[models.Rate]{}
	Bind(eng, col, table)

	col.Set([]models.Rate{rate("usd", 1002, 1012)})
	eng.Wait()

	calls := table.upsertCalls()
	if len(calls) != 1 {
		t.Fatalf("expected 1 upsert call, got %d", len(calls))
	}
	if len(calls[0]) != 1 || calls[0][0].Id != "usd" {
		t.Errorf("expected usd upserted, got %+v", calls[0])
	}
	if len(table.deleteCalls()) != 0 {
		t.Errorf("expected no deletes, got %v", table.deleteCalls())
	}
}

func TestBindingDeletesRemovedRows(t *testing.T) {
	eng := newTestEngine()
	initial := []models.Rate{rate("usd", 1000, 1010), rate("eur", 1090, 1105)}
	col := store.NewCollection(store.KeyRates, initial)
	table := &fakeTable[models.Rate]{}
	Bind(eng, col, table)

	col.Set([]models.Rate{initial[0]})
	eng.Wait()

	dels := table.deleteCalls()
	if len(dels) != 1 || dels[0] != "eur" {
		t.Errorf("expected delete of eur, got %v", dels)
	}
	if len(table.upsertCalls()) != 0 {
		t.Errorf("expected no upserts, got %+v", table.upsertCalls())
	}
}

// Each mutation diffs against the immediately preceding snapshot, not the
// last successfully pushed one: two rapid edits produce two minimal diffs.
func TestBindingDiffsAgainstImmediatelyPrecedingSnapshot(t *testing.T) {
	eng := newTestEngine()
	col := store.NewCollection(store.KeyRates, []models.Rate{rate("usd", 1000, 1010)})
	table := &fakeTable[models.Rate]{}
	Bind(eng, col, table)

	col.Set([]models.Rate{rate("usd", 1001, 1011)})
	col.Set([]models.Rate{rate("usd", 1001, 1011), rate("eur", 1090, 1105)})
	eng.Wait()

	calls := table.upsertCalls()
	if len(calls) != 2 {
		t.Fatalf("expected 2 upsert calls, got %d", len(calls))
	}
	for _, call := range calls {
		if len(call) != 1 {
			t.Errorf("expected each diff to carry exactly one row, got %+v", call)
		}
	}
}

// A failed push is logged and forgotten; the next edit diffs only its own
// change and never re-sends the lost rows.
func TestBindingNeverRetriesFailedPush(t *testing.T) {
	eng := newTestEngine()
	col := store.NewCollection(store.KeyRates, []models.Rate{rate("usd", 1000, 1010)})
	table := &fakeTable[models.Rate]{upsertErr: errors.New("remote down")}
	Bind(eng, col, table)

	col.Set([]models.Rate{rate("usd", 1001, 1011)})
	eng.Wait()

	table.mu.Lock()
	table.upsertErr = nil
	table.mu.Unlock()

	col.Set([]models.Rate{rate("usd", 1001, 1011), rate("eur", 1090, 1105)})
	eng.Wait()

	calls := table.upsertCalls()
	if len(calls) != 2 {
		t.Fatalf("expected 2 upsert calls, got %d", len(calls))
	}
	second := calls[1]
	if len(second) != 1 || second[0].Id != "eur" {
		t.Errorf("second push must carry only eur, got %+v", second)
	}
}

func TestBindingIgnoresRemoteReplace(t *testing.T) {
	eng := newTestEngine()
	col := store.NewCollection(store.KeyRates, []models.Rate{rate("usd", 1000, 1010)})
	table := &fakeTable[models.Rate]{}
	Bind(eng, col, table)

	col.Replace([]models.Rate{rate("usd", 2000, 2020), rate("eur", 1090, 1105)})
	eng.Wait()

	if n := len(table.upsertCalls()); n != 0 {
		t.Errorf("remote replace must not push, got %d upserts", n)
	}
	if n := len(table.deleteCalls()); n != 0 {
		t.Errorf("remote replace must not delete, got %d deletes", n)
	}

	// The replaced snapshot is the new baseline: re-adding usd unchanged and
	// dropping eur diffs against the remote data, not the pre-replace state.
	col.Set([]models.Rate{rate("usd", 2000, 2020)})
	eng.Wait()

	dels := table.deleteCalls()
	if len(dels) != 1 || dels[0] != "eur" {
		t.Errorf("expected delete of eur after baseline advance, got %v", dels)
	}
}

func TestBindingWritesThroughToCache(t *testing.T) {
	medium := cache.NewMemoryMedium()
	c := cache.New(medium, "test", nil)
	eng := NewEngine(c)
	col := store.NewCollection[models.Rate](store.KeyRates, nil)
	Bind(eng, col, &fakeTable[models.Rate]{})

	col.Set([]models.Rate{rate("usd", 1000, 1010)})
	eng.Wait()

	got := cache.Load(c, store.KeyRates, []models.Rate(nil))
	if len(got) != 1 || got[0].Id != "usd" {
		t.Errorf("expected cached snapshot with usd, got %+v", got)
	}
}

func TestRefetchEmptyRemoteKeepsLocalData(t *testing.T) {
	eng := newTestEngine()
	local := []models.Rate{rate("usd", 1000, 1010)}
	col := store.NewCollection(store.KeyRates, local)
	table := &fakeTable[models.Rate]{rows: nil}
	b := Bind(eng, col, table)

	if err := b.Refetch(context.Background()); err != nil {
		t.Fatalf("refetch: %v", err)
	}
	if col.Len() != 1 {
		t.Errorf("empty remote must not clobber local data, got %d rows", col.Len())
	}
}

func TestRefetchReplacesOnData(t *testing.T) {
	eng := newTestEngine()
	col := store.NewCollection(store.KeyRates, []models.Rate{rate("usd", 1000, 1010)})
	table := &fakeTable[models.Rate]{rows: []models.Rate{rate("eur", 1090, 1105)}}
	b := Bind(eng, col, table)

	if err := b.Refetch(context.Background()); err != nil {
		t.Fatalf("refetch: %v", err)
	}
	eng.Wait()

	got := col.Get()
	if len(got) != 1 || got[0].Id != "eur" {
		t.Errorf("expected remote snapshot installed, got %+v", got)
	}
	// And the refetch must not have been echoed back out.
	if n := len(table.upsertCalls()); n != 0 {
		t.Errorf("refetch echoed %d upserts to remote", n)
	}
}

func TestConfigBindingUpsertsWholeObject(t *testing.T) {
	eng := newTestEngine()
	sc := store.NewScalar(store.KeyConfig, models.AppConfig{Id: models.AppConfigId, AppName: "Golden"})
	table := &fakeTable[models.AppConfig]{}
	BindConfig(eng, sc, table)

	next := models.AppConfig{Id: models.AppConfigId, AppName: "Golden", PrimaryColor: "#caa035"}
	sc.Set(next)
	eng.Wait()

	calls := table.upsertCalls()
	if len(calls) != 1 || len(calls[0]) != 1 {
		t.Fatalf("expected one single-row upsert, got %+v", calls)
	}
	if calls[0][0].PrimaryColor != "#caa035" {
		t.Errorf("expected whole config pushed, got %+v", calls[0][0])
	}

	// Remote replace is persisted but never pushed back.
	sc.Replace(models.AppConfig{Id: models.AppConfigId, AppName: "Remote"})
	eng.Wait()
	if len(table.upsertCalls()) != 1 {
		t.Errorf("remote config replace must not push")
	}
}

func TestPersistScalarWritesThrough(t *testing.T) {
	medium := cache.NewMemoryMedium()
	c := cache.New(medium, "test", nil)
	eng := NewEngine(c)
	sc := store.NewScalar("theme", "dark")
	PersistScalar(eng, sc)

	sc.Set("light")

	if got := cache.LoadValue(c, "theme", ""); got != "light" {
		t.Errorf("expected cached theme light, got %q", got)
	}
}
