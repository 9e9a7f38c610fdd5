// Package rowstore implements the canonical row vector, its stable
// identity tokens, and swap-remove.
package rowstore

import (
	"github.com/evenaglia/tablestore/internal/errs"
	"github.com/google/uuid"
)

// Row is a mapping from column name to cell value.
type Row map[string]interface{}

// Copy returns an independent shallow copy of r.
func (r Row) Copy() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// CanonicalRow is the single storage instance owned by a table. It carries
// the mutable position needed for swap-remove, plus the owning table's
// identity, so a pointer to it doubles as an identity-bearing
// back-reference: two clones resolve to "the same row" iff their Handle.Row
// pointers are equal.
type CanonicalRow struct {
	Data     Row
	Position int
	tableID  uuid.UUID
}

// Handle is the opaque back-reference a Clone carries: a pointer to the
// canonical row it was cloned from.
type Handle struct {
	Row *CanonicalRow
}

// Clone is a row handed to a caller: an isolated copy plus the handle
// needed to resolve it back to canonical storage on Update/Remove.
type Clone struct {
	Row    Row
	Handle Handle
}

// Snapshot returns a fresh copy of the canonical row's current data,
// independent of any mutation the caller has made to Clone.Row.
func (c Clone) Snapshot() Row {
	if c.Handle.Row == nil {
		return nil
	}
	return c.Handle.Row.Data.Copy()
}

// Store is the table's exclusive, append-only-with-swap-remove row vector.
type Store struct {
	tableID uuid.UUID
	rows    []*CanonicalRow
}

// New creates an empty Store owned by tableID.
func New(tableID uuid.UUID) *Store {
	return &Store{tableID: tableID}
}

// Len returns the number of canonical rows.
func (s *Store) Len() int {
	return len(s.rows)
}

// Rows returns the live canonical row slice. Callers must not mutate the
// slice itself; it is exposed for index building and validation.
func (s *Store) Rows() []*CanonicalRow {
	return s.rows
}

// Insert appends row to the store and returns a Clone with a Handle
// pointing at the new canonical row.
func (s *Store) Insert(row Row) Clone {
	canonical := &CanonicalRow{
		Data:     row.Copy(),
		Position: len(s.rows),
		tableID:  s.tableID,
	}
	s.rows = append(s.rows, canonical)
	return Clone{
		Row:    canonical.Data.Copy(),
		Handle: Handle{Row: canonical},
	}
}

// CloneOf returns a fresh Clone of the given canonical row.
func CloneOf(canonical *CanonicalRow) Clone {
	return Clone{Row: canonical.Data.Copy(), Handle: Handle{Row: canonical}}
}

// Resolve validates that handle belongs to this store and returns the
// canonical row it references.
func (s *Store) Resolve(handle Handle, op string) (*CanonicalRow, error) {
	if handle.Row == nil || handle.Row.tableID != s.tableID {
		return nil, errs.NewWrongTable(op)
	}
	if handle.Row.Position < 0 || handle.Row.Position >= len(s.rows) || s.rows[handle.Row.Position] != handle.Row {
		return nil, errs.NewWrongTable(op)
	}
	return handle.Row, nil
}

// Remove deletes canonical from the store using swap-with-last-then-shrink:
// the victim is overwritten by the last element, whose stored Position is
// updated, and the tail is discarded.
func (s *Store) Remove(canonical *CanonicalRow) {
	pos := canonical.Position
	last := len(s.rows) - 1
	if pos != last {
		s.rows[pos] = s.rows[last]
		s.rows[pos].Position = pos
	}
	s.rows = s.rows[:last]
	canonical.Position = -1
}
