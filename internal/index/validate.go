package index

import (
	"fmt"

	"github.com/evenaglia/tablestore/internal/errs"
	"github.com/evenaglia/tablestore/internal/rowstore"
	"github.com/evenaglia/tablestore/internal/value"
)

// validateLevel checks sort order, positive entry sizes, subtotal prefix
// sums, and leaf/nested-level tag consistency at level and every nested
// level beneath it, identifying the offending path on failure.
func validateLevel(level *Level, columns []string, signature, path string) error {
	var prev interface{}
	havePrev := false
	subtotal := 0

	for _, e := range level.Entries {
		if havePrev && value.Compare(prev, e.Value) >= 0 {
			return errs.NewIndexCorruption(signature, path,
				fmt.Sprintf("entries out of order at or before value %v", e.Value))
		}
		prev, havePrev = e.Value, true

		if e.Size < 1 {
			return errs.NewIndexCorruption(signature, path,
				fmt.Sprintf("entry %v has size %d < 1", e.Value, e.Size))
		}

		subtotal += e.Size
		if e.Subtotal != subtotal {
			return errs.NewIndexCorruption(signature, path,
				fmt.Sprintf("entry %v subtotal %d does not match prefix sum %d", e.Value, e.Subtotal, subtotal))
		}

		childPath := fmt.Sprintf("%s/%s=%v", path, columns[0], e.Value)
		if len(columns) > 1 {
			if e.Data.Level == nil {
				return errs.NewIndexCorruption(signature, childPath, "expected nested level, found leaf")
			}
			if e.Size != e.Data.Level.Total {
				return errs.NewIndexCorruption(signature, childPath,
					fmt.Sprintf("size %d does not match nested level total %d", e.Size, e.Data.Level.Total))
			}
			if err := validateLevel(e.Data.Level, columns[1:], signature, childPath); err != nil {
				return err
			}
		} else {
			if e.Data.Level != nil {
				return errs.NewIndexCorruption(signature, childPath, "expected leaf, found nested level")
			}
			if e.Size != len(e.Data.Rows) {
				return errs.NewIndexCorruption(signature, childPath,
					fmt.Sprintf("size %d does not match leaf row count %d", e.Size, len(e.Data.Rows)))
			}
		}
	}

	if subtotal != level.Total {
		return errs.NewIndexCorruption(signature, path,
			fmt.Sprintf("level total %d does not match computed %d", level.Total, subtotal))
	}
	return nil
}

// collectLeaves gathers every canonical row reachable from level's leaves,
// used by Table.ValidateIndex to cross-check the index against the row
// store.
func collectLeaves(level *Level) []*rowstore.CanonicalRow {
	var out []*rowstore.CanonicalRow
	for _, e := range level.Entries {
		if e.Data.Level != nil {
			out = append(out, collectLeaves(e.Data.Level)...)
		} else {
			out = append(out, e.Data.Rows...)
		}
	}
	return out
}
