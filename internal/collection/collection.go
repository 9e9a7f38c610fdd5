// Package collection holds the predicate operand types used by "in" and
// "between" criteria: Set and Range.
package collection

import (
	"sort"

	"github.com/evenaglia/tablestore/internal/value"
)

// Set is a finite, deduplicated collection of values, ordered under the
// store's total order. Membership is always a linear equality scan, never a
// host-provided indexOf, matching the spec's mandated semantics for "in".
type Set struct {
	values []value.Value
}

// NewSet builds a Set from the given values, deduplicating by value equality
// and sorting under the total order.
func NewSet(values ...value.Value) *Set {
	s := &Set{}
	for _, v := range values {
		s.add(v)
	}
	return s
}

func (s *Set) add(v value.Value) {
	for _, existing := range s.values {
		if value.Equal(existing, v) {
			return
		}
	}
	s.values = append(s.values, v)
	sort.SliceStable(s.values, func(i, j int) bool {
		return value.Compare(s.values[i], s.values[j]) < 0
	})
}

// Includes reports whether v is a member of the set, by linear equality scan.
func (s *Set) Includes(v value.Value) bool {
	for _, existing := range s.values {
		if value.Equal(existing, v) {
			return true
		}
	}
	return false
}

// Values returns the set's members in ascending order. The returned slice
// must not be mutated by callers.
func (s *Set) Values() []value.Value {
	return s.values
}

// Len returns the number of distinct members.
func (s *Set) Len() int {
	return len(s.values)
}

// Range is a closed interval [Start, End], or half-open [Start, End) when
// Exclusive is set.
type Range struct {
	Start     value.Value
	End       value.Value
	Exclusive bool
}

// NewRange builds a closed range [start, end].
func NewRange(start, end value.Value) Range {
	return Range{Start: start, End: end}
}

// NewExclusiveRange builds a half-open range [start, end).
func NewExclusiveRange(start, end value.Value) Range {
	return Range{Start: start, End: end, Exclusive: true}
}

// Includes reports whether v falls within the range.
func (r Range) Includes(v value.Value) bool {
	if value.Compare(v, r.Start) < 0 {
		return false
	}
	if r.Exclusive {
		return value.Compare(v, r.End) < 0
	}
	return value.Compare(v, r.End) <= 0
}

// Len returns End-Start+1 for numeric ranges. Non-numeric bounds are
// treated as 0, so Len is only meaningful when both bounds are numeric.
func (r Range) Len() float64 {
	start, end := toFloat(r.Start), toFloat(r.End)
	return end - start + 1
}

func toFloat(v value.Value) float64 {
	switch n := v.(type) {
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case float32:
		return float64(n)
	case float64:
		return n
	}
	return 0
}
