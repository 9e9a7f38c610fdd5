package query

import (
	"testing"

	"github.com/evenaglia/tablestore/internal/collection"
	"github.com/evenaglia/tablestore/internal/rowstore"
)

type stubExecutor struct {
	criteria []Criterion
}

func (s *stubExecutor) ExecuteQuery(criteria []Criterion) ([]rowstore.Clone, error) {
	s.criteria = criteria
	return nil, nil
}

func TestBuilderRejectsUnknownColumn(t *testing.T) {
	b := NewBuilder(&stubExecutor{}, []string{"region"})
	b.Where("nonexistent", "==", "West")
	if _, err := b.Criteria(); err == nil {
		t.Error("expected InvalidColumns for an unknown column")
	}
}

func TestBuilderRejectsUnknownOperator(t *testing.T) {
	b := NewBuilder(&stubExecutor{}, []string{"region"})
	b.Where("region", "~=", "West")
	if _, err := b.Criteria(); err == nil {
		t.Error("expected UnknownOperator for an invalid operator")
	}
}

func TestBuilderLowercasesOperator(t *testing.T) {
	b := NewBuilder(&stubExecutor{}, []string{"region"})
	b.Where("region", "IN", collection.NewSet("West"))
	criteria, err := b.Criteria()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if criteria[0].Operator != "in" {
		t.Errorf("expected normalized operator in, got %q", criteria[0].Operator)
	}
}

func TestBuilderBetweenRequiresRange(t *testing.T) {
	b := NewBuilder(&stubExecutor{}, []string{"population"})
	b.Where("population", "between", 5)
	if _, err := b.Criteria(); err == nil {
		t.Error("expected an error when between is given a non-Range operand")
	}
}

func TestBuilderChainsAnd(t *testing.T) {
	exec := &stubExecutor{}
	b := NewBuilder(exec, []string{"region", "population"})
	_, err := b.Where("region", "==", "West").And("population", ">", 1000000).GetRows()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(exec.criteria) != 2 {
		t.Fatalf("expected 2 accumulated criteria, got %d", len(exec.criteria))
	}
}

func TestBuilderStopsAtFirstError(t *testing.T) {
	exec := &stubExecutor{}
	b := NewBuilder(exec, []string{"region"})
	b.Where("region", "==", "West").And("missing", "==", "x").And("region", "!=", "East")
	criteria, err := b.Criteria()
	if err == nil {
		t.Fatal("expected the chain to surface the first validation error")
	}
	if len(criteria) != 1 {
		t.Errorf("criteria accumulated before the error should be preserved, got %d", len(criteria))
	}
}

func TestAsSetNormalizesSlice(t *testing.T) {
	set := AsSet([]interface{}{"CA", "TX"})
	if set.Len() != 2 {
		t.Errorf("expected 2 members, got %d", set.Len())
	}
}

func TestAsSetPassesThroughSet(t *testing.T) {
	original := collection.NewSet("CA")
	if AsSet(original) != original {
		t.Error("AsSet should return an existing *Set unchanged")
	}
}
