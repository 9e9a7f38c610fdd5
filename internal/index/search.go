package index

import "github.com/evenaglia/tablestore/internal/value"

// Search does an ordinary binary search over sorted entries: it reports the
// index at which val was found (exact=true), or the index at which val
// would be inserted to keep the sequence sorted (exact=false).
func Search(entries []*Entry, val interface{}) (insertionIndex int, exact bool) {
	lo, hi := 0, len(entries)
	for lo < hi {
		mid := (lo + hi) / 2
		switch c := value.Compare(entries[mid].Value, val); {
		case c == 0:
			return mid, true
		case c < 0:
			lo = mid + 1
		default:
			hi = mid
		}
	}
	return lo, false
}
