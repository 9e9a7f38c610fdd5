// Package table implements the coordination layer that owns a row store
// and a set of indexes, dispatches mutations and queries across them, and
// exposes the store's only public surface.
package table

import (
	"regexp"
	"sync"
	"time"

	"github.com/evenaglia/tablestore/internal/errs"
	"github.com/evenaglia/tablestore/internal/executor"
	"github.com/evenaglia/tablestore/internal/index"
	"github.com/evenaglia/tablestore/internal/logging"
	"github.com/evenaglia/tablestore/internal/planner"
	"github.com/evenaglia/tablestore/internal/query"
	"github.com/evenaglia/tablestore/internal/rowstore"
	"github.com/evenaglia/tablestore/internal/value"
	"github.com/google/uuid"
)

var columnNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_$]*$`)

// Table is the exclusive owner of a row store and its indexes. All
// operations except the Verbose and Paranoia flag toggles serialise behind
// mu: one writer at a time, readers allowed to run alongside each other but
// not alongside a writer.
type Table struct {
	mu sync.RWMutex

	id      uuid.UUID
	columns []string
	store   *rowstore.Store
	indexes map[string]*index.Index

	verbose  bool
	paranoia bool
	dropped  bool

	observers []logging.Observer
}

// New builds a Table over columns, which must be non-empty, unique, and
// each match the table's column-name grammar.
func New(columns []string) (*Table, error) {
	if err := validateColumnNames(columns); err != nil {
		return nil, err
	}
	id := uuid.New()
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &Table{
		id:      id,
		columns: cols,
		store:   rowstore.New(id),
		indexes: make(map[string]*index.Index),
	}, nil
}

func validateColumnNames(columns []string) error {
	if len(columns) == 0 {
		return errs.NewInvalidColumns(columns, "column list must not be empty")
	}
	seen := make(map[string]bool, len(columns))
	for _, c := range columns {
		if !columnNamePattern.MatchString(c) {
			return errs.NewInvalidColumns([]string{c}, "not a valid identifier")
		}
		if seen[c] {
			return errs.NewInvalidColumns([]string{c}, "duplicate column name")
		}
		seen[c] = true
	}
	return nil
}

// AddObserver registers an observer that receives an Event at every
// operation boundary; this is the only sanctioned path from the table to a
// logger or renderer.
func (t *Table) AddObserver(o logging.Observer) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.observers = append(t.observers, o)
}

func (t *Table) notify(eventType logging.EventType, data interface{}) {
	if len(t.observers) == 0 {
		return
	}
	event := logging.Event{
		Type:      eventType,
		Table:     t.id.String(),
		Timestamp: time.Now(),
		Data:      data,
	}
	for _, o := range t.observers {
		o.OnEvent(event)
	}
}

// Verbose toggles the table's verbose flag. This is a plain boolean and
// its toggling is not itself synchronised against concurrent readers of
// the flag.
func (t *Table) Verbose(on bool) {
	t.verbose = on
}

// Paranoia toggles automatic post-mutation index validation.
func (t *Table) Paranoia(on bool) {
	t.paranoia = on
}

func (t *Table) checkLive(op string) error {
	if t.dropped {
		return errs.NewTableDropped(op)
	}
	return nil
}

// Insert clones each row into canonical storage, merge-adds it into every
// index, and returns a Clone per inserted row.
func (t *Table) Insert(rows []rowstore.Row) ([]rowstore.Clone, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.checkLive("insert"); err != nil {
		return nil, err
	}

	t.notify(logging.EventInsertStart, len(rows))
	clones := make([]rowstore.Clone, 0, len(rows))
	canonical := make([]*rowstore.CanonicalRow, 0, len(rows))
	for _, row := range rows {
		clone := t.store.Insert(row)
		clones = append(clones, clone)
		canonical = append(canonical, clone.Handle.Row)
	}

	for _, idx := range t.indexes {
		if err := idx.MergeAdd(canonical); err != nil {
			return nil, err
		}
	}

	if t.paranoia {
		if err := t.validateIndexesLocked(); err != nil {
			return nil, err
		}
	}
	t.notify(logging.EventInsertEnd, len(clones))
	return clones, nil
}

// Update applies each clone's (possibly caller-mutated) row data back to
// canonical storage: only indexes whose column list intersects the
// changed-column set are touched, via merge-remove under the old values
// followed by merge-add under the new ones.
func (t *Table) Update(clones []rowstore.Clone) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.checkLive("update"); err != nil {
		return err
	}

	t.notify(logging.EventUpdateStart, len(clones))
	for _, clone := range clones {
		canonical, err := t.store.Resolve(clone.Handle, "update")
		if err != nil {
			return err
		}

		changed := changedColumns(canonical.Data, clone.Row)
		if len(changed) == 0 {
			continue
		}

		touched := t.indexesTouching(changed)
		for _, idx := range touched {
			if err := idx.MergeRemove([]*rowstore.CanonicalRow{canonical}); err != nil {
				return err
			}
		}

		canonical.Data = clone.Row.Copy()

		for _, idx := range touched {
			if err := idx.MergeAdd([]*rowstore.CanonicalRow{canonical}); err != nil {
				return err
			}
		}

		if t.paranoia {
			if err := t.validateIndexesLocked(); err != nil {
				return err
			}
		}
	}
	t.notify(logging.EventUpdateEnd, len(clones))
	return nil
}

// Remove resolves each clone to its canonical row, merge-removes it from
// every index, then swap-removes it from the row store.
func (t *Table) Remove(clones []rowstore.Clone) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.checkLive("remove"); err != nil {
		return err
	}

	t.notify(logging.EventRemoveStart, len(clones))
	for _, clone := range clones {
		canonical, err := t.store.Resolve(clone.Handle, "remove")
		if err != nil {
			return err
		}
		for _, idx := range t.indexes {
			if err := idx.MergeRemove([]*rowstore.CanonicalRow{canonical}); err != nil {
				return err
			}
		}
		t.store.Remove(canonical)
	}

	if t.paranoia {
		if err := t.validateIndexesLocked(); err != nil {
			return err
		}
	}
	t.notify(logging.EventRemoveEnd, len(clones))
	return nil
}

// changedColumns returns the columns whose value differs between the
// canonical snapshot a clone was cloned from and its current (possibly
// caller-mutated) data, per value.Equal's total order.
func changedColumns(old, current rowstore.Row) []string {
	var changed []string
	seen := make(map[string]bool, len(old)+len(current))
	for col, v := range current {
		seen[col] = true
		if !value.Equal(old[col], v) {
			changed = append(changed, col)
		}
	}
	for col := range old {
		if seen[col] {
			continue
		}
		changed = append(changed, col)
	}
	return changed
}

func (t *Table) indexesTouching(columns []string) []*index.Index {
	touched := make(map[string]bool, len(columns))
	for _, c := range columns {
		touched[c] = true
	}
	var out []*index.Index
	for _, idx := range t.indexes {
		for _, col := range idx.Columns {
			if touched[col] {
				out = append(out, idx)
				break
			}
		}
	}
	return out
}

// FindWhere starts a conjunctive predicate chain that, once built, runs
// through the planner and executor via ExecuteQuery.
func (t *Table) FindWhere(column, operator string, val interface{}) *query.Builder {
	b := query.NewBuilder(t, t.columns)
	return b.Where(column, operator, val)
}

// ExecuteQuery implements query.Executor: plan the cheapest access path for
// criteria and execute it.
func (t *Table) ExecuteQuery(criteria []query.Criterion) ([]rowstore.Clone, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if err := t.checkLive("query"); err != nil {
		return nil, err
	}

	t.notify(logging.EventQueryStart, len(criteria))
	indexes := make([]*index.Index, 0, len(t.indexes))
	for _, idx := range t.indexes {
		indexes = append(indexes, idx)
	}

	desc := planner.Plan(criteria, t.store.Len(), indexes)

	var idx *index.Index
	if desc.Signature != "" {
		idx = t.indexes[desc.Signature]
	}
	clones := executor.Execute(desc, idx, t.store.Rows())
	t.notify(logging.EventQueryEnd, len(clones))
	return clones, nil
}

// GetRows returns a clone of every row currently in the table.
func (t *Table) GetRows() ([]rowstore.Clone, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if err := t.checkLive("getRows"); err != nil {
		return nil, err
	}
	return executor.CloneAll(t.store.Rows()), nil
}

// GetCount returns the number of rows currently in the table.
func (t *Table) GetCount() (int, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if err := t.checkLive("getCount"); err != nil {
		return 0, err
	}
	return t.store.Len(), nil
}

// Index returns the index over columns, building it from the current row
// set if it does not already exist; two requests with the same column
// list return the same index.
func (t *Table) Index(columns ...string) (*index.Index, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.checkLive("index"); err != nil {
		return nil, err
	}
	if err := validateColumnNames(columns); err != nil {
		return nil, err
	}
	for _, c := range columns {
		found := false
		for _, tc := range t.columns {
			if tc == c {
				found = true
				break
			}
		}
		if !found {
			return nil, errs.NewInvalidColumns([]string{c}, "not a column of this table")
		}
	}

	sig := index.Signature(columns)
	if existing, ok := t.indexes[sig]; ok {
		return existing, nil
	}
	idx := index.New(columns, t.store.Rows())
	t.indexes[sig] = idx
	t.notify(logging.EventIndexBuilt, sig)
	return idx, nil
}

// Indexes lists the signatures of every index currently registered on the
// table.
func (t *Table) Indexes() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	sigs := make([]string, 0, len(t.indexes))
	for sig := range t.indexes {
		sigs = append(sigs, sig)
	}
	return sigs
}

// DropIndex drops and unregisters the index with the given signature.
func (t *Table) DropIndex(columns ...string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.checkLive("dropIndex"); err != nil {
		return err
	}
	sig := index.Signature(columns)
	idx, ok := t.indexes[sig]
	if !ok {
		return errs.NewIndexDropped(sig, "dropIndex")
	}
	idx.Drop()
	delete(t.indexes, sig)
	t.notify(logging.EventIndexDropped, sig)
	return nil
}

// ValidateIndex checks invariants 1-5 across every registered index: 1-4
// are internal to the index tree, and 5 cross-checks the index's leaves
// against the table's own row store.
func (t *Table) ValidateIndex() error {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if err := t.checkLive("validateIndex"); err != nil {
		return err
	}
	t.notify(logging.EventValidateStart, nil)
	err := t.validateIndexesLocked()
	t.notify(logging.EventValidateEnd, err)
	return err
}

func (t *Table) validateIndexesLocked() error {
	for _, idx := range t.indexes {
		if err := idx.Validate(); err != nil {
			return err
		}
		if err := t.checkLeavesMatchStore(idx); err != nil {
			return err
		}
	}
	return nil
}

// checkLeavesMatchStore implements invariant 5: every index leaf must be a
// row currently owned by the table's row store, and vice versa.
func (t *Table) checkLeavesMatchStore(idx *index.Index) error {
	leaves := idx.LeafRows()
	if len(leaves) != t.store.Len() {
		return errs.NewIndexCorruption(idx.Signature, idx.Signature,
			"leaf row count does not match table row count")
	}
	owned := make(map[*rowstore.CanonicalRow]bool, len(t.store.Rows()))
	for _, r := range t.store.Rows() {
		owned[r] = true
	}
	for _, leaf := range leaves {
		if !owned[leaf] {
			return errs.NewIndexCorruption(idx.Signature, idx.Signature,
				"leaf row is not owned by this table's row store or appears more than once")
		}
		delete(owned, leaf)
	}
	return nil
}

// Drop transitions the table to the dropped state: every subsequent
// operation fails with TableDropped, and every index is dropped and
// unregistered.
func (t *Table) Drop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.dropped {
		return
	}
	for sig, idx := range t.indexes {
		idx.Drop()
		delete(t.indexes, sig)
	}
	t.dropped = true
	t.notify(logging.EventTableDropped, nil)
}
