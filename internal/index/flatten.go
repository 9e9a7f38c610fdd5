package index

import "github.com/evenaglia/tablestore/internal/rowstore"

// FlattenLevel concatenates every row reachable from level's leaves,
// recursing through nested levels. Used by the executor when the chosen
// access path stops descending before the last indexed column.
func FlattenLevel(level *Level) []*rowstore.CanonicalRow {
	return collectLeaves(level)
}

// FlattenEntries concatenates every row reachable from entries' leaves.
func FlattenEntries(entries []*Entry) []*rowstore.CanonicalRow {
	var out []*rowstore.CanonicalRow
	for _, e := range entries {
		if e.Data.Level != nil {
			out = append(out, FlattenLevel(e.Data.Level)...)
		} else {
			out = append(out, e.Data.Rows...)
		}
	}
	return out
}
