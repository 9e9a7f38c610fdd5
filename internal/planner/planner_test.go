package planner

import (
	"testing"

	"github.com/evenaglia/tablestore/internal/collection"
	"github.com/evenaglia/tablestore/internal/index"
	"github.com/evenaglia/tablestore/internal/query"
	"github.com/evenaglia/tablestore/internal/rowstore"
	"github.com/google/uuid"
)

func buildIndex(columns []string, regions []string, populations []int) *index.Index {
	store := rowstore.New(uuid.New())
	var rows []*rowstore.CanonicalRow
	for i, region := range regions {
		clone := store.Insert(rowstore.Row{"region": region, "population": populations[i]})
		rows = append(rows, clone.Handle.Row)
	}
	return index.New(columns, rows)
}

func TestPlanPrefersIndexOverBaseline(t *testing.T) {
	idx := buildIndex([]string{"region"},
		[]string{"West", "South", "West", "Northeast", "West", "South"},
		[]int{1, 2, 3, 4, 5, 6})

	criteria := []query.Criterion{{Column: "region", Operator: "==", Value: "West"}}
	desc := Plan(criteria, 6, []*index.Index{idx})

	if desc.Signature == "" {
		t.Fatal("expected the planner to prefer the region index over the baseline")
	}

	baseline := baselineDescriptor(criteria, 6)
	if desc.Cost > baseline.Cost {
		t.Errorf("chosen cost %v exceeds baseline cost %v (violates monotonicity)", desc.Cost, baseline.Cost)
	}
}

func TestPlanFallsBackToBaselineWithNoMatchingIndex(t *testing.T) {
	idx := buildIndex([]string{"population"}, []string{"West"}, []int{1})
	criteria := []query.Criterion{{Column: "region", Operator: "==", Value: "West"}}

	desc := Plan(criteria, 1, []*index.Index{idx})
	if desc.Signature != "" {
		t.Error("expected the baseline when no index covers the queried column")
	}
}

func TestPlanLeavesUnindexedColumnCriteriaResidual(t *testing.T) {
	idx := buildIndex([]string{"region"},
		[]string{"West", "South"}, []int{1, 2})
	criteria := []query.Criterion{
		{Column: "region", Operator: "==", Value: "West"},
		{Column: "population", Operator: ">", Value: 0},
	}

	desc := Plan(criteria, 2, []*index.Index{idx})
	if desc.Signature == "" {
		t.Fatal("expected the region index to be chosen")
	}
	if len(desc.CriteriaUsed) != 1 || desc.CriteriaUsed[0].Column != "region" {
		t.Errorf("expected only the region criterion to be used, got %+v", desc.CriteriaUsed)
	}
	if len(desc.CriteriaUnused) != 1 || desc.CriteriaUnused[0].Column != "population" {
		t.Errorf("expected the population criterion to be residual, got %+v", desc.CriteriaUnused)
	}
}

func TestPlanStopsUsedCriteriaAtNonEqualityColumn(t *testing.T) {
	idx := buildIndex([]string{"region", "population"},
		[]string{"West", "South", "West", "Northeast"},
		[]int{1, 2, 3, 4})
	criteria := []query.Criterion{
		{Column: "region", Operator: "!=", Value: "West"},
		{Column: "population", Operator: "==", Value: 2},
	}

	desc := Plan(criteria, 4, []*index.Index{idx})
	if desc.Signature == "" {
		t.Fatal("expected the region/population index to be chosen")
	}
	if len(desc.CriteriaUsed) != 1 || desc.CriteriaUsed[0].Column != "region" {
		t.Errorf("expected only the region criterion to be used, got %+v", desc.CriteriaUsed)
	}
	if len(desc.CriteriaUnused) != 1 || desc.CriteriaUnused[0].Column != "population" {
		t.Errorf("expected the population criterion to be residual since region != stops real descent, got %+v", desc.CriteriaUnused)
	}
}

func TestBaselineAccountsForInAndBetweenCost(t *testing.T) {
	simple := []query.Criterion{{Column: "region", Operator: "==", Value: "West"}}
	withIn := []query.Criterion{{Column: "region", Operator: "in", Value: collection.NewSet("West", "South", "East")}}

	if sumSingleRowCost(withIn) <= sumSingleRowCost(simple) {
		t.Error("an 'in' criterion with multiple values should cost more per row than a plain '=='")
	}

	withBetween := []query.Criterion{{Column: "population", Operator: "between", Value: collection.NewRange(1, 10)}}
	if sumSingleRowCost(withBetween) <= sumSingleRowCost(simple) {
		t.Error("a 'between' criterion should cost more per row than a plain '=='")
	}
}
