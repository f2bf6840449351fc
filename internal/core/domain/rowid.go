package domain

import (
	"strconv"
	"strings"
)

// RowID is the stable coordinate of a row within table storage: an ordered
// tuple of integers. It is the sole correlation key between local rows and
// remote tasks, embedded in task metadata at creation time.
type RowID []int

// Key returns a string form usable as a map key.
func (r RowID) Key() string {
	parts := make([]string, len(r))
	for i, v := range r {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

// Equal reports whether two row IDs identify the same row.
func (r RowID) Equal(other RowID) bool {
	if len(r) != len(other) {
		return false
	}
	for i := range r {
		if r[i] != other[i] {
			return false
		}
	}
	return true
}

// String returns the row ID in tuple notation, e.g. "(3,1)".
func (r RowID) String() string {
	return "(" + r.Key() + ")"
}
