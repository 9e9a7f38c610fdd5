package executor

import (
	"testing"

	"github.com/evenaglia/tablestore/internal/collection"
	"github.com/evenaglia/tablestore/internal/index"
	"github.com/evenaglia/tablestore/internal/planner"
	"github.com/evenaglia/tablestore/internal/query"
	"github.com/evenaglia/tablestore/internal/rowstore"
	"github.com/google/uuid"
)

func seedStore(t *testing.T) (*rowstore.Store, []*rowstore.CanonicalRow) {
	t.Helper()
	store := rowstore.New(uuid.New())
	data := []rowstore.Row{
		{"abbr": "CA", "region": "West", "population": 36553215},
		{"abbr": "TX", "region": "South", "population": 23904380},
		{"abbr": "NY", "region": "Northeast", "population": 19297729},
		{"abbr": "WY", "region": "West", "population": 576851},
	}
	var rows []*rowstore.CanonicalRow
	for _, r := range data {
		rows = append(rows, store.Insert(r).Handle.Row)
	}
	return store, rows
}

func TestReduceExactMatchDescends(t *testing.T) {
	store, rows := seedStore(t)
	idx := index.New([]string{"region", "population"}, rows)
	_ = store

	criteria := []query.Criterion{{Column: "region", Operator: "==", Value: "West"}}
	result := Reduce(idx, criteria)
	if len(result) != 2 {
		t.Fatalf("expected 2 rows in the West region, got %d", len(result))
	}
}

func TestReduceFlattensWhenColumnUnmatched(t *testing.T) {
	store, rows := seedStore(t)
	idx := index.New([]string{"region", "population"}, rows)
	_ = store

	result := Reduce(idx, nil)
	if len(result) != len(rows) {
		t.Errorf("expected all rows when no criteria match any indexed column, got %d", len(result))
	}
}

func TestFilterAppliesResidualCriteria(t *testing.T) {
	_, rows := seedStore(t)
	criteria := []query.Criterion{{Column: "region", Operator: "==", Value: "West"}}

	filtered := Filter(rows, criteria)
	if len(filtered) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(filtered))
	}
}

func TestFilterBetweenAndIn(t *testing.T) {
	_, rows := seedStore(t)

	between := Filter(rows, []query.Criterion{
		{Column: "population", Operator: "between", Value: collection.NewRange(1000000, 30000000)},
	})
	if len(between) != 2 {
		t.Errorf("expected 2 rows in population range, got %d", len(between))
	}

	in := Filter(rows, []query.Criterion{
		{Column: "abbr", Operator: "in", Value: collection.NewSet("CA", "NY")},
	})
	if len(in) != 2 {
		t.Errorf("expected 2 rows matching 'in' set, got %d", len(in))
	}
}

func TestExecuteBaselineUsesAllRows(t *testing.T) {
	_, rows := seedStore(t)
	desc := planner.Descriptor{Signature: "", CriteriaUnused: []query.Criterion{
		{Column: "region", Operator: "==", Value: "West"},
	}}

	clones := Execute(desc, nil, rows)
	if len(clones) != 2 {
		t.Errorf("expected 2 clones from the baseline path, got %d", len(clones))
	}
}

func TestExecuteDoesNotDropTrailingCriteriaAfterNonEqualityStop(t *testing.T) {
	_, rows := seedStore(t)
	idx := index.New([]string{"region", "population"}, rows)

	criteria := []query.Criterion{
		{Column: "region", Operator: "!=", Value: "West"},
		{Column: "population", Operator: "==", Value: 23904380},
	}
	desc := planner.Plan(criteria, len(rows), []*index.Index{idx})
	if desc.Signature == "" {
		t.Fatal("expected the region/population index to be chosen")
	}

	clones := Execute(desc, idx, rows)
	if len(clones) != 1 || clones[0].Row["abbr"] != "TX" {
		t.Fatalf("expected exactly TX, got %+v", clones)
	}
}

func TestCloneAllProducesIndependentSnapshots(t *testing.T) {
	_, rows := seedStore(t)
	clones := CloneAll(rows)
	clones[0].Row["abbr"] = "ZZ"
	if rows[0].Data["abbr"] == "ZZ" {
		t.Error("mutating a clone must not affect canonical data")
	}
}
