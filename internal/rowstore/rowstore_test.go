package rowstore

import (
	"testing"

	"github.com/google/uuid"
)

func TestInsertReturnsIndependentClone(t *testing.T) {
	s := New(uuid.New())
	clone := s.Insert(Row{"name": "Hawaii"})

	clone.Row["name"] = "mutated"
	if s.Rows()[0].Data["name"] != "Hawaii" {
		t.Error("mutating a clone's row must not affect canonical storage")
	}
}

func TestResolveRejectsOtherTable(t *testing.T) {
	s1 := New(uuid.New())
	s2 := New(uuid.New())

	clone := s1.Insert(Row{"name": "Idaho"})
	if _, err := s2.Resolve(clone.Handle, "update"); err == nil {
		t.Error("expected WrongTable resolving a handle from a different store")
	}
}

func TestRemoveSwapsWithLast(t *testing.T) {
	s := New(uuid.New())
	a := s.Insert(Row{"name": "A"})
	_ = s.Insert(Row{"name": "B"})
	c := s.Insert(Row{"name": "C"})

	s.Remove(a.Handle.Row)

	if s.Len() != 2 {
		t.Fatalf("expected 2 rows remaining, got %d", s.Len())
	}
	if c.Handle.Row.Position != 0 {
		t.Errorf("expected last row swapped into freed position 0, got %d", c.Handle.Row.Position)
	}
	if a.Handle.Row.Position != -1 {
		t.Error("removed row's position should be marked -1")
	}
}

func TestResolveAfterSwapRemoveStillWorks(t *testing.T) {
	s := New(uuid.New())
	_ = s.Insert(Row{"name": "A"})
	c := s.Insert(Row{"name": "C"})

	first := s.Rows()[0]
	s.Remove(first)

	if _, err := s.Resolve(c.Handle, "update"); err != nil {
		t.Errorf("handle should remain valid after an unrelated swap-remove: %v", err)
	}
}

func TestSnapshotReflectsCurrentCanonicalState(t *testing.T) {
	s := New(uuid.New())
	clone := s.Insert(Row{"name": "Maine"})

	clone.Handle.Row.Data["name"] = "changed"
	snap := clone.Snapshot()
	if snap["name"] != "changed" {
		t.Error("Snapshot should reflect the current canonical data, not the clone's stale copy")
	}
}
