package reconcile

import (
	"fmt"

	"github.com/Goldenboy100/golden-exchange--sub000/internal/store"
)

// Changes is the three-way diff of one collection between the previously
// synced snapshot and the current one. Entries present in both with deep
// equality appear in neither set.
type Changes[T any] struct {
	// Removed holds ids present in prev but absent from next.
	Removed []string
	// Upserted holds next entries that are new or differ from prev.
	Upserted []T
}

// Empty reports whether the diff carries no remote work.
func (c Changes[T]) Empty() bool {
	return len(c.Removed) == 0 && len(c.Upserted) == 0
}

// Diff computes the minimal remote operations between two snapshots keyed by
// record id. An id never appears in both Removed and Upserted, and ids
// unchanged between prev and next appear in neither.
//
// A record with an empty id is a caller bug (the reconciler never issues an
// upsert without one) and panics rather than degrading.
func Diff[T store.Entity[T]](collection string, prev, next []T) Changes[T] {
	prevById := make(map[string]T, len(prev))
	for _, row := range prev {
		prevById[mustID(collection, row)] = row
	}

	var ch Changes[T]
	nextIds := make(map[string]bool, len(next))
	for _, row := range next {
		id := mustID(collection, row)
		nextIds[id] = true
		old, existed := prevById[id]
		if !existed || !old.Equal(row) {
			ch.Upserted = append(ch.Upserted, row)
		}
	}

	for _, row := range prev {
		if id := row.RecordID(); !nextIds[id] {
			ch.Removed = append(ch.Removed, id)
		}
	}
	return ch
}

func mustID[T store.Entity[T]](collection string, row T) string {
	id := row.RecordID()
	if id == "" {
		panic(fmt.Sprintf("reconcile: %s record with empty id: %+v", collection, row))
	}
	return id
}
