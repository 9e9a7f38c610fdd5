// Package planner estimates, for each candidate access path (the full
// table scan plus every registered index), the work required to answer a
// conjunctive criteria list, and picks the cheapest.
package planner

import "github.com/evenaglia/tablestore/internal/query"

// Descriptor describes one candidate access path and the cost the planner
// assigned it.
type Descriptor struct {
	// Cost is the estimated work to answer the query via this path.
	Cost float64
	// Signature is the winning index's signature, or "" for the full-scan
	// baseline.
	Signature string
	// CriteriaUsed are the criteria this path can satisfy by walking the
	// index (or, for the baseline, always empty).
	CriteriaUsed []query.Criterion
	// CriteriaUnused must be applied by the executor as a residual linear
	// filter.
	CriteriaUnused []query.Criterion
}
