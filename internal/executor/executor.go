// Package executor takes the planner's chosen access path and actually
// walks the index (or the full row store) to produce the matching
// canonical rows, applies any residual criteria the path could not satisfy
// by descent, and clones the survivors for the caller.
package executor

import (
	"github.com/evenaglia/tablestore/internal/collection"
	"github.com/evenaglia/tablestore/internal/index"
	"github.com/evenaglia/tablestore/internal/planner"
	"github.com/evenaglia/tablestore/internal/query"
	"github.com/evenaglia/tablestore/internal/rowstore"
	"github.com/evenaglia/tablestore/internal/value"
)

// Execute runs desc against idx (nil for the full-scan baseline, where
// allRows is the table's entire row set) and returns clones of every
// matching row.
func Execute(desc planner.Descriptor, idx *index.Index, allRows []*rowstore.CanonicalRow) []rowstore.Clone {
	var candidates []*rowstore.CanonicalRow
	if desc.Signature == "" {
		candidates = allRows
	} else {
		candidates = Reduce(idx, desc.CriteriaUsed)
	}
	filtered := Filter(candidates, desc.CriteriaUnused)
	return CloneAll(filtered)
}

// Reduce walks idx's levels using criteriaUsed (one per column idx was
// chosen to descend on) and returns the canonical rows reachable at the
// point descent stops. When descent halts before idx's last column, either
// because a later column has no matching criterion, or because the
// matching operator isn't "==", the remaining subindex levels are
// flattened into a flat row list rather than descended further.
func Reduce(idx *index.Index, criteriaUsed []query.Criterion) []*rowstore.CanonicalRow {
	byColumn := make(map[string]query.Criterion, len(criteriaUsed))
	for _, c := range criteriaUsed {
		if _, ok := byColumn[c.Column]; !ok {
			byColumn[c.Column] = c
		}
	}

	level := idx.Root()
	for _, col := range idx.Columns {
		crit, ok := byColumn[col]
		if !ok {
			return index.FlattenLevel(level)
		}
		matched, child := reduceLevel(level, crit)
		if child != nil {
			level = child
			continue
		}
		return index.FlattenEntries(matched)
	}
	return index.FlattenLevel(level)
}

// reduceLevel narrows level's entries to those crit admits. For an exact
// "==" match on a non-leaf entry, it returns the entry's nested Level
// instead so the caller can keep descending.
func reduceLevel(level *index.Level, crit query.Criterion) (matched []*index.Entry, child *index.Level) {
	entries := level.Entries

	switch crit.Operator {
	case "==":
		r, exact := index.Search(entries, crit.Value)
		if !exact {
			return nil, nil
		}
		e := entries[r]
		if e.Data.Level != nil {
			return nil, e.Data.Level
		}
		return []*index.Entry{e}, nil

	case "!=":
		r, exact := index.Search(entries, crit.Value)
		if !exact {
			return entries, nil
		}
		out := make([]*index.Entry, 0, len(entries)-1)
		for i, e := range entries {
			if i != r {
				out = append(out, e)
			}
		}
		return out, nil

	case "<=":
		r, exact := index.Search(entries, crit.Value)
		end := r
		if exact {
			end = r + 1
		}
		return entries[:end], nil

	case "<":
		r, _ := index.Search(entries, crit.Value)
		return entries[:r], nil

	case ">=":
		r, _ := index.Search(entries, crit.Value)
		return entries[r:], nil

	case ">":
		r, exact := index.Search(entries, crit.Value)
		start := r
		if exact {
			start = r + 1
		}
		return entries[start:], nil

	case "between":
		rng := crit.Value.(collection.Range)
		begin, _ := index.Search(entries, rng.Start)
		end, exactEnd := index.Search(entries, rng.End)
		if exactEnd && !rng.Exclusive {
			end++
		}
		if begin < 0 {
			begin = 0
		}
		if end > len(entries) {
			end = len(entries)
		}
		if end < begin {
			end = begin
		}
		return entries[begin:end], nil

	case "in":
		set := query.AsSet(crit.Value)
		seen := make(map[int]bool, set.Len())
		var out []*index.Entry
		for _, v := range set.Values() {
			r, exact := index.Search(entries, v)
			if exact && !seen[r] {
				seen[r] = true
				out = append(out, entries[r])
			}
		}
		return out, nil
	}
	return nil, nil
}

// Filter applies criteria to rows as a linear residual scan, keeping only
// rows that satisfy every criterion.
func Filter(rows []*rowstore.CanonicalRow, criteria []query.Criterion) []*rowstore.CanonicalRow {
	if len(criteria) == 0 {
		return rows
	}
	out := make([]*rowstore.CanonicalRow, 0, len(rows))
	for _, r := range rows {
		if matchesAll(r.Data, criteria) {
			out = append(out, r)
		}
	}
	return out
}

func matchesAll(row rowstore.Row, criteria []query.Criterion) bool {
	for _, c := range criteria {
		if !matches(row[c.Column], c) {
			return false
		}
	}
	return true
}

func matches(v value.Value, c query.Criterion) bool {
	switch c.Operator {
	case "==":
		return value.Equal(v, c.Value)
	case "!=":
		return !value.Equal(v, c.Value)
	case "<":
		return value.Compare(v, c.Value) < 0
	case "<=":
		return value.Compare(v, c.Value) <= 0
	case ">":
		return value.Compare(v, c.Value) > 0
	case ">=":
		return value.Compare(v, c.Value) >= 0
	case "between":
		return c.Value.(collection.Range).Includes(v)
	case "in":
		return query.AsSet(c.Value).Includes(v)
	}
	return false
}

// CloneAll produces a Clone (row snapshot plus a Handle for later
// Update/Remove) for every canonical row.
func CloneAll(rows []*rowstore.CanonicalRow) []rowstore.Clone {
	out := make([]rowstore.Clone, len(rows))
	for i, r := range rows {
		out[i] = rowstore.CloneOf(r)
	}
	return out
}
