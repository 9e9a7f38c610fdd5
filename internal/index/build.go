package index

import (
	"sort"

	"github.com/evenaglia/tablestore/internal/rowstore"
	"github.com/evenaglia/tablestore/internal/value"
)

// Build performs the bulk build of a level: sort a copy of rows by the
// first column's comparator, group equal runs into entries, and recurse
// into the remaining columns for each group.
func Build(rows []*rowstore.CanonicalRow, columns []string) *Level {
	sorted := make([]*rowstore.CanonicalRow, len(rows))
	copy(sorted, rows)
	col := columns[0]
	sort.SliceStable(sorted, func(i, j int) bool {
		return value.Compare(sorted[i].Data[col], sorted[j].Data[col]) < 0
	})

	level := &Level{}
	i := 0
	for i < len(sorted) {
		j := i
		key := sorted[i].Data[col]
		for j < len(sorted) && value.Equal(sorted[j].Data[col], key) {
			j++
		}
		group := sorted[i:j]
		rowsCopy := make([]*rowstore.CanonicalRow, len(group))
		copy(rowsCopy, group)

		entry := &Entry{Value: key, Size: len(group)}
		if len(columns) > 1 {
			entry.Data.Level = Build(rowsCopy, columns[1:])
		} else {
			entry.Data.Rows = rowsCopy
		}
		level.Entries = append(level.Entries, entry)
		i = j
	}
	recomputeSubtotals(level)
	return level
}
