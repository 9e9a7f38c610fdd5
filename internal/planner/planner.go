package planner

import (
	"math"

	"github.com/evenaglia/tablestore/internal/collection"
	"github.com/evenaglia/tablestore/internal/index"
	"github.com/evenaglia/tablestore/internal/query"
	"github.com/evenaglia/tablestore/internal/value"
)

// Plan picks the cheapest access path for criteria over a table with
// rowCount rows and the given candidate indexes. The baseline is seeded
// first and only replaced on strict improvement, so ties break toward the
// baseline.
func Plan(criteria []query.Criterion, rowCount int, indexes []*index.Index) Descriptor {
	best := baselineDescriptor(criteria, rowCount)
	for _, idx := range indexes {
		candidate := indexDescriptor(idx, criteria)
		if candidate.Cost < best.Cost {
			best = candidate
		}
	}
	return best
}

// indexDescriptor estimates the cost of answering criteria via idx by
// descending through idx.Columns in order.
func indexDescriptor(idx *index.Index, criteria []query.Criterion) Descriptor {
	firstByColumn := make(map[string]int, len(criteria))
	for i, c := range criteria {
		if _, ok := firstByColumn[c.Column]; !ok {
			firstByColumn[c.Column] = i
		}
	}

	cost := 0.0
	used := map[int]bool{}

	level := idx.Root()
	realLevel := true
	var syntheticLength, syntheticTotal float64
	expectedRows := float64(level.Total)

	for _, col := range idx.Columns {
		ci, ok := firstByColumn[col]
		if !ok {
			break // no criterion mentions this column: halt descent
		}
		crit := criteria[ci]

		if realLevel {
			// This is the column executor.Reduce is still walking the real
			// tree for, so whatever it decides here is actually applied.
			used[ci] = true

			n := len(level.Entries)
			if n == 0 {
				expectedRows, syntheticLength, syntheticTotal = 0, 0, 0
				realLevel = false
				continue
			}
			cost += log2(float64(n))
			rows, matched, extra, child := probeReal(level, crit)
			cost += extra
			expectedRows = float64(rows)
			if crit.Operator == "==" && child != nil {
				level = child
				continue
			}
			syntheticLength, syntheticTotal = float64(matched), float64(rows)
			realLevel = false
			continue
		}

		// Once descent leaves the real tree, Reduce has already returned: it
		// flattens and stops at the column that ended real descent, never
		// reaching later columns. Estimate their cost for planning purposes
		// but leave them unmarked so they end up as residual criteria.
		if syntheticLength <= 0 {
			expectedRows = 0
			continue
		}
		cost += log2(syntheticLength)
		rows, matched := probeStatistical(crit, syntheticLength, syntheticTotal)
		expectedRows = rows
		syntheticLength, syntheticTotal = matched, rows
	}

	var usedCriteria, unusedCriteria []query.Criterion
	for i, c := range criteria {
		if used[i] {
			usedCriteria = append(usedCriteria, c)
		} else {
			unusedCriteria = append(unusedCriteria, c)
		}
	}

	residualCost := sumSingleRowCost(unusedCriteria)
	cost += expectedRows * (residualCost + 1)

	return Descriptor{
		Cost:           cost,
		Signature:      idx.Signature,
		CriteriaUsed:   usedCriteria,
		CriteriaUnused: unusedCriteria,
	}
}

// probeReal evaluates crit against a real Level using a binary-search
// probe, returning the predicted expected row count, the predicted matched
// entry count, any extra search cost beyond the single log2(n) every
// column pays, and, for an exact "==" match only, the matched entry's
// nested Level to continue descending into.
func probeReal(level *index.Level, crit query.Criterion) (expectedRows, matchedEntries int, extraCost float64, child *index.Level) {
	entries := level.Entries
	total := level.Total
	n := len(entries)

	switch crit.Operator {
	case "between":
		rng := crit.Value.(collection.Range)
		rStart, _ := index.Search(entries, rng.Start)
		rEnd, exactEnd := index.Search(entries, rng.End)

		lowRows := subtotalBefore(entries, rStart)
		var highRows int
		if rng.Exclusive {
			highRows = subtotalBefore(entries, rEnd)
		} else if exactEnd {
			highRows = entries[rEnd].Subtotal
		} else {
			highRows = subtotalBefore(entries, rEnd)
		}
		expectedRows = clampNonNegative(highRows - lowRows)

		highCount := rEnd
		if exactEnd && !rng.Exclusive {
			highCount = rEnd + 1
		}
		matchedEntries = clampNonNegative(highCount - rStart)
		extraCost = log2(float64(n)) // second probe
		return

	case "in":
		set := query.AsSet(crit.Value)
		k := set.Len()
		if k <= 1 {
			var v value.Value
			if k == 1 {
				v = set.Values()[0]
			}
			r, exact := index.Search(entries, v)
			if exact {
				expectedRows = entries[r].Size
				matchedEntries = 1
				child = entries[r].Data.Level
			}
			return
		}
		expectedRows = int(math.Ceil(float64(k*total) / float64(n)))
		if expectedRows > total {
			expectedRows = total
		}
		matchedEntries = k
		extraCost = log2(float64(n)) * (log2(float64(k)) - 1)
		return

	default:
		r, exact := index.Search(entries, crit.Value)
		switch crit.Operator {
		case "==":
			if exact {
				expectedRows = entries[r].Size
				matchedEntries = 1
				child = entries[r].Data.Level
			}
		case "!=":
			if exact {
				expectedRows = total - entries[r].Size
				matchedEntries = n - 1
			} else {
				expectedRows = total
				matchedEntries = n
			}
		case "<=":
			if exact {
				expectedRows = entries[r].Subtotal
				matchedEntries = r + 1
			} else {
				expectedRows = subtotalBefore(entries, r)
				matchedEntries = r
			}
		case "<":
			expectedRows = subtotalBefore(entries, r)
			matchedEntries = r
		case ">=":
			expectedRows = total - subtotalBefore(entries, r)
			matchedEntries = n - r
		case ">":
			le, leCount := 0, r
			if exact {
				le, leCount = entries[r].Subtotal, r+1
			} else {
				le = subtotalBefore(entries, r)
			}
			expectedRows = total - le
			matchedEntries = n - leCount
		}
		return
	}
}

// probeStatistical estimates expected rows and matched entries once the
// descent has passed an operator other than "==" and is working against a
// synthetic (length, total) subindex rather than real entries. The "=="
// case sets matchedEntries to expectedRows rather than modeling them
// separately; this double-counts but is left as is since the
// statistical branch is already an approximation past this point.
func probeStatistical(crit query.Criterion, length, total float64) (expectedRows, matchedEntries float64) {
	switch crit.Operator {
	case "==":
		expectedRows = total / length
		matchedEntries = expectedRows
	case "!=":
		avg := total / length
		expectedRows = total - avg
		matchedEntries = length - 1
	case "<", ">":
		expectedRows = total * 2 / 3
		matchedEntries = length * 2 / 3
	case "<=", ">=":
		expectedRows = total * 2 / 3
		matchedEntries = length * 2 / 3
	case "between":
		expectedRows = total / 3
		matchedEntries = length / 3
	case "in":
		k := float64(query.AsSet(crit.Value).Len())
		expectedRows = math.Min(total, math.Ceil(k*total/length))
		matchedEntries = k
	default:
		expectedRows = total
		matchedEntries = length
	}
	return
}

func subtotalBefore(entries []*index.Entry, r int) int {
	if r <= 0 || r > len(entries) {
		return 0
	}
	return entries[r-1].Subtotal
}

func clampNonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

func log2(n float64) float64 {
	if n <= 0 {
		return 0
	}
	return math.Log2(n)
}
