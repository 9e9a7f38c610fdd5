package index

import (
	"log/slog"
	"strings"

	"github.com/evenaglia/tablestore/internal/errs"
	"github.com/evenaglia/tablestore/internal/rowstore"
)

// Index is one multi-level ordered tree over an ordered list of columns,
// owned exclusively by a Table.
type Index struct {
	Columns   []string
	Signature string
	root      *Level
	dropped   bool
}

// Signature returns the bracketed, comma-joined column-name list that
// uniquely identifies an index within a table.
func Signature(columns []string) string {
	return "[" + strings.Join(columns, ",") + "]"
}

// New builds an index over columns from the given rows.
func New(columns []string, rows []*rowstore.CanonicalRow) *Index {
	idx := &Index{Columns: columns, Signature: Signature(columns)}
	idx.root = Build(rows, columns)
	slog.Debug("index built",
		slog.String("signature", idx.Signature),
		slog.Int("rows", len(rows)))
	return idx
}

// Root returns the index's top-level sequence. The planner and executor
// walk it read-only; only MergeAdd/MergeRemove may mutate it.
func (idx *Index) Root() *Level {
	return idx.root
}

// MergeAdd incrementally ingests newRows.
func (idx *Index) MergeAdd(newRows []*rowstore.CanonicalRow) error {
	if idx.dropped {
		return errs.NewIndexDropped(idx.Signature, "mergeAdd")
	}
	if len(newRows) == 0 {
		return nil
	}
	right := Build(newRows, idx.Columns)
	mergeAddLevel(idx.root, right, idx.Columns)
	return nil
}

// MergeRemove incrementally evicts removedRows. Any value present on the
// right but absent on the left indicates corruption or a caller bug and
// fails loudly rather than silently diverging.
func (idx *Index) MergeRemove(removedRows []*rowstore.CanonicalRow) error {
	if idx.dropped {
		return errs.NewIndexDropped(idx.Signature, "mergeRemove")
	}
	if len(removedRows) == 0 {
		return nil
	}
	right := Build(removedRows, idx.Columns)
	return mergeRemoveLevel(idx.root, right, idx.Columns, idx.Signature, idx.Signature)
}

// Validate checks the tree's structural invariants (sort order, subtotal
// correctness, and tag consistency between Rows and Level) across the
// whole tree.
func (idx *Index) Validate() error {
	if idx.dropped {
		return errs.NewIndexDropped(idx.Signature, "validate")
	}
	return validateLevel(idx.root, idx.Columns, idx.Signature, idx.Signature)
}

// LeafRows returns every canonical row reachable from the index's leaves,
// used to cross-check the index against the table's row store.
func (idx *Index) LeafRows() []*rowstore.CanonicalRow {
	if idx.dropped {
		return nil
	}
	return collectLeaves(idx.root)
}

// Dropped reports whether Drop has been called.
func (idx *Index) Dropped() bool {
	return idx.dropped
}

// Drop releases the index's nested structure by discarding its root and
// marks it dead.
func (idx *Index) Drop() {
	idx.root = nil
	idx.dropped = true
}
