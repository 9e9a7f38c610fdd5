package collection

import "testing"

func TestNewSetDedupsAndSorts(t *testing.T) {
	s := NewSet(3, 1, 2, 1, 3)
	if s.Len() != 3 {
		t.Fatalf("expected 3 distinct members, got %d", s.Len())
	}
	values := s.Values()
	for i := 1; i < len(values); i++ {
		if values[i-1].(int) > values[i].(int) {
			t.Errorf("Values() not ascending: %v", values)
		}
	}
}

func TestSetIncludes(t *testing.T) {
	s := NewSet("CA", "TX", "NY")
	if !s.Includes("TX") {
		t.Error("expected TX to be a member")
	}
	if s.Includes("FL") {
		t.Error("did not expect FL to be a member")
	}
}

func TestRangeInclusive(t *testing.T) {
	r := NewRange(10, 20)
	if !r.Includes(10) || !r.Includes(20) || !r.Includes(15) {
		t.Error("closed range should include both endpoints and interior values")
	}
	if r.Includes(9) || r.Includes(21) {
		t.Error("closed range should exclude values outside the bounds")
	}
}

func TestRangeExclusive(t *testing.T) {
	r := NewExclusiveRange(10, 20)
	if !r.Includes(10) {
		t.Error("half-open range should include its start")
	}
	if r.Includes(20) {
		t.Error("half-open range should exclude its end")
	}
}

func TestRangeLen(t *testing.T) {
	r := NewRange(1, 5)
	if r.Len() != 5 {
		t.Errorf("expected length 5, got %v", r.Len())
	}
}
