package index

import (
	"fmt"

	"github.com/evenaglia/tablestore/internal/errs"
	"github.com/evenaglia/tablestore/internal/rowstore"
	"github.com/evenaglia/tablestore/internal/value"
)

// mergeAddLevel merges right, a bulk-built level of the same shape as left,
// into left by descending in lockstep.
func mergeAddLevel(left, right *Level, columns []string) {
	left.Entries = mergeAddEntries(left.Entries, right.Entries, columns)
	recomputeSubtotals(left)
}

func mergeAddEntries(leftEntries, rightEntries []*Entry, columns []string) []*Entry {
	result := make([]*Entry, 0, len(leftEntries)+len(rightEntries))
	i, j := 0, 0
	for i < len(leftEntries) && j < len(rightEntries) {
		switch c := value.Compare(leftEntries[i].Value, rightEntries[j].Value); {
		case c < 0: // left only
			result = append(result, leftEntries[i])
			i++
		case c > 0: // right only: insert the right entry
			result = append(result, rightEntries[j])
			j++
		default: // equal key: recurse or concatenate, then advance both
			result = append(result, mergeAddEqual(leftEntries[i], rightEntries[j], columns))
			i++
			j++
		}
	}
	result = append(result, leftEntries[i:]...)
	result = append(result, rightEntries[j:]...)
	return result
}

func mergeAddEqual(left, right *Entry, columns []string) *Entry {
	if len(columns) > 1 {
		mergeAddLevel(left.Data.Level, right.Data.Level, columns[1:])
		left.Size = left.Data.Level.Total
	} else {
		left.Data.Rows = append(left.Data.Rows, right.Data.Rows...)
		left.Size = len(left.Data.Rows)
	}
	return left
}

// mergeRemoveLevel is symmetric to mergeAddLevel, but a right-only entry is
// impossible (it would mean removing a value the index never held) and
// must fail loudly rather than silently no-op.
func mergeRemoveLevel(left, right *Level, columns []string, signature, path string) error {
	merged, err := mergeRemoveEntries(left.Entries, right.Entries, columns, signature, path)
	if err != nil {
		return err
	}
	left.Entries = merged
	recomputeSubtotals(left)
	return nil
}

func mergeRemoveEntries(leftEntries, rightEntries []*Entry, columns []string, signature, path string) ([]*Entry, error) {
	result := make([]*Entry, 0, len(leftEntries))
	i, j := 0, 0
	for i < len(leftEntries) && j < len(rightEntries) {
		switch c := value.Compare(leftEntries[i].Value, rightEntries[j].Value); {
		case c < 0: // left only
			result = append(result, leftEntries[i])
			i++
		case c > 0: // right only: impossible
			return nil, corruptMissingValue(signature, path, rightEntries[j].Value)
		default:
			updated, emptied, err := mergeRemoveEqual(leftEntries[i], rightEntries[j], columns, signature, path)
			if err != nil {
				return nil, err
			}
			if !emptied {
				result = append(result, updated)
			}
			i++
			j++
		}
	}
	if j < len(rightEntries) {
		return nil, corruptMissingValue(signature, path, rightEntries[j].Value)
	}
	result = append(result, leftEntries[i:]...)
	return result, nil
}

func mergeRemoveEqual(left, right *Entry, columns []string, signature, path string) (entry *Entry, emptied bool, err error) {
	childPath := fmt.Sprintf("%s/%v", path, left.Value)
	if len(columns) > 1 {
		if err := mergeRemoveLevel(left.Data.Level, right.Data.Level, columns[1:], signature, childPath); err != nil {
			return nil, false, err
		}
		left.Size = left.Data.Level.Total
	} else {
		left.Data.Rows = removeByIdentity(left.Data.Rows, right.Data.Rows)
		left.Size = len(left.Data.Rows)
	}
	return left, left.Size == 0, nil
}

// removeByIdentity deletes every row in toRemove from rows by pointer
// identity, walking in reverse to allow safe in-place deletion.
func removeByIdentity(rows, toRemove []*rowstore.CanonicalRow) []*rowstore.CanonicalRow {
	doomed := make(map[*rowstore.CanonicalRow]bool, len(toRemove))
	for _, r := range toRemove {
		doomed[r] = true
	}
	for i := len(rows) - 1; i >= 0; i-- {
		if doomed[rows[i]] {
			rows = append(rows[:i], rows[i+1:]...)
		}
	}
	return rows
}

func corruptMissingValue(signature, path string, val interface{}) error {
	return errs.NewIndexCorruption(signature, path,
		fmt.Sprintf("merge-remove encountered value %v absent from the index", val))
}
