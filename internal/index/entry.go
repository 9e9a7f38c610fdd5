// Package index implements the multi-level ordered tree over a compound
// key, its bulk build, incremental merge-add/merge-remove, binary search,
// and structural validation.
package index

import "github.com/evenaglia/tablestore/internal/rowstore"

// EntryData is a tagged union: Rows is populated at the leaf level, Level
// at every level above it. Exactly one is non-nil.
type EntryData struct {
	Rows  []*rowstore.CanonicalRow
	Level *Level
}

// Entry is one key in a Level's sorted sequence.
type Entry struct {
	Value    interface{}
	Size     int
	Subtotal int
	Data     EntryData
}

// Level is a sorted sequence of Entries keyed by one column's values, plus
// the running total of their sizes.
type Level struct {
	Entries []*Entry
	Total   int
}

// recomputeSubtotals recomputes Subtotal as the inclusive prefix sum of
// Size across level.Entries, and sets Total to the final prefix sum. Every
// merge operation ends by calling this rather than threading incremental
// adjustments through the walk, which keeps invariants 3-4 trivially true
// by construction instead of by careful bookkeeping.
func recomputeSubtotals(level *Level) {
	subtotal := 0
	for _, e := range level.Entries {
		subtotal += e.Size
		e.Subtotal = subtotal
	}
	level.Total = subtotal
}
