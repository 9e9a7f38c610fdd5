// Package value implements the total order over scalar cell values that
// every other package in this store compares against.
package value

import "fmt"

// Value is a single cell's content. nil represents "absent" (null/undefined)
// and sorts after every defined value.
type Value = interface{}

// Compare returns -1, 0, or +1 comparing l against r under the store's total
// order: absent (nil) sorts greatest; equal values compare equal; otherwise
// values order by their underlying scalar kind.
func Compare(l, r Value) int {
	lAbsent, rAbsent := l == nil, r == nil
	switch {
	case lAbsent && rAbsent:
		return 0
	case lAbsent:
		return 1
	case rAbsent:
		return -1
	}

	if ln, lok := asFloat(l); lok {
		if rn, rok := asFloat(r); rok {
			switch {
			case ln < rn:
				return -1
			case ln > rn:
				return 1
			default:
				return 0
			}
		}
	}

	if lb, lok := l.(bool); lok {
		if rb, rok := r.(bool); rok {
			switch {
			case lb == rb:
				return 0
			case !lb:
				return -1
			default:
				return 1
			}
		}
	}

	ls, rs := fmt.Sprint(l), fmt.Sprint(r)
	switch {
	case ls < rs:
		return -1
	case ls > rs:
		return 1
	default:
		return 0
	}
}

// asFloat reports whether v is a numeric kind and returns it as a float64
// for comparison purposes.
func asFloat(v Value) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// Equal reports whether l and r compare equal under Compare.
func Equal(l, r Value) bool {
	return Compare(l, r) == 0
}

// Comparator compares two values, optionally projecting through a named
// field first. A zero Comparator (no projection) is the bare Compare.
type Comparator struct {
	lField string
	rField string
}

// Pluck builds a Comparator that, before comparing, extracts lField from the
// left operand and rField from the right operand (when the operand is a
// map[string]interface{}). An empty field name means "use the operand
// itself", so Pluck("", "") is equivalent to the bare comparator.
func Pluck(lField, rField string) Comparator {
	return Comparator{lField: lField, rField: rField}
}

// Compare applies the comparator's field projections and then Compare.
func (c Comparator) Compare(l, r Value) int {
	return Compare(project(l, c.lField), project(r, c.rField))
}

func project(v Value, field string) Value {
	if field == "" {
		return v
	}
	row, ok := v.(map[string]interface{})
	if !ok {
		return v
	}
	return row[field]
}
