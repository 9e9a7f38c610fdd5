// Package query implements a fluent criteria accumulator that validates
// columns and operators against a table's own grammar and hands the
// accumulated criteria off to an Executor.
package query

import (
	"strings"

	"github.com/evenaglia/tablestore/internal/collection"
	"github.com/evenaglia/tablestore/internal/errs"
	"github.com/evenaglia/tablestore/internal/rowstore"
	"github.com/evenaglia/tablestore/internal/value"
)

// Criterion is a single (column, operator, value) predicate.
type Criterion struct {
	Column   string
	Operator string
	Value    value.Value
}

var validOperators = map[string]bool{
	"<": true, "<=": true, "==": true, "!=": true, ">=": true, ">": true,
	"between": true, "in": true,
}

// Executor runs an accumulated criteria list against the owning table's
// planner+executor pipeline. Table implements it; query never imports
// table, avoiding an import cycle.
type Executor interface {
	ExecuteQuery(criteria []Criterion) ([]rowstore.Clone, error)
}

// Builder accumulates conjunctive predicates via Where/And.
type Builder struct {
	exec    Executor
	columns map[string]bool

	criteria []Criterion
	err      error
}

// NewBuilder creates a Builder that validates columns against validColumns
// and, once built, executes through exec.
func NewBuilder(exec Executor, validColumns []string) *Builder {
	columns := make(map[string]bool, len(validColumns))
	for _, c := range validColumns {
		columns[c] = true
	}
	return &Builder{exec: exec, columns: columns}
}

// Where starts the predicate chain; it is identical to And.
func (b *Builder) Where(column, operator string, val value.Value) *Builder {
	return b.And(column, operator, val)
}

// And appends one more conjunctive predicate. Once the chain has failed
// validation, further calls are no-ops so GetRows surfaces the first error.
func (b *Builder) And(column, operator string, val value.Value) *Builder {
	if b.err != nil {
		return b
	}
	if !b.columns[column] {
		b.err = errs.NewInvalidColumns([]string{column}, "not a column of this table")
		return b
	}
	op := strings.ToLower(operator)
	if !validOperators[op] {
		b.err = errs.NewUnknownOperator(operator)
		return b
	}
	if err := checkOperandShape(op, val); err != nil {
		b.err = err
		return b
	}
	b.criteria = append(b.criteria, Criterion{Column: column, Operator: op, Value: val})
	return b
}

func checkOperandShape(op string, val value.Value) error {
	switch op {
	case "between":
		if _, ok := val.(collection.Range); !ok {
			return errs.NewInvalidOperand(op, "requires a Range operand")
		}
	case "in":
		switch val.(type) {
		case *collection.Set, []value.Value:
		default:
			return errs.NewInvalidOperand(op, "requires a Set or slice operand")
		}
	}
	return nil
}

// Criteria returns the accumulated criteria, or the first validation error.
func (b *Builder) Criteria() ([]Criterion, error) {
	return b.criteria, b.err
}

// GetRows executes the accumulated criteria and returns freshly cloned
// matching rows.
func (b *Builder) GetRows() ([]rowstore.Clone, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.exec.ExecuteQuery(b.criteria)
}

// AsSet normalizes an "in" operand (a *collection.Set or a plain slice)
// into a *collection.Set.
func AsSet(val value.Value) *collection.Set {
	switch v := val.(type) {
	case *collection.Set:
		return v
	case []value.Value:
		return collection.NewSet(v...)
	default:
		return collection.NewSet(v)
	}
}
