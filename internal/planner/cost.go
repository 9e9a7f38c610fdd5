package planner

import "github.com/evenaglia/tablestore/internal/query"

// singleRowCost is the per-criterion cost of evaluating one row against it:
// base 1, between adds +1 (two comparisons), in adds |value|-1 (one
// comparison per element beyond the first).
func singleRowCost(c query.Criterion) float64 {
	cost := 1.0
	switch c.Operator {
	case "between":
		cost += 1
	case "in":
		cost += float64(query.AsSet(c.Value).Len() - 1)
	}
	return cost
}

// sumSingleRowCost totals singleRowCost across every criterion, the factor
// the full-scan baseline and every residual filter multiply by row count.
func sumSingleRowCost(criteria []query.Criterion) float64 {
	total := 0.0
	for _, c := range criteria {
		total += singleRowCost(c)
	}
	return total
}

// baselineDescriptor is the full-scan access path: cost is rows times the
// per-row cost of evaluating every criterion, and it uses no index.
func baselineDescriptor(criteria []query.Criterion, rowCount int) Descriptor {
	unused := make([]query.Criterion, len(criteria))
	copy(unused, criteria)
	return Descriptor{
		Cost:           float64(rowCount) * sumSingleRowCost(criteria),
		Signature:      "",
		CriteriaUsed:   nil,
		CriteriaUnused: unused,
	}
}
