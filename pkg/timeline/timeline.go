// Package timeline implements the "latest record at or before a date"
// resolution shared by prices, snapshots, valuations and liability balances.
package timeline

import (
	"sort"
	"time"
)

// LatestBy collapses a slice sorted by descending as-of date into at most one
// item per key: the most recent one dated at or before cutoff. Ties at the
// same date resolve to whichever item appears first in the input, which keeps
// the result deterministic for a stable input ordering. The relative order of
// first occurrences is preserved.
func LatestBy[T any](items []T, key func(T) string, asOf func(T) time.Time, cutoff time.Time) []T {
	seen := make(map[string]struct{}, len(items))
	var out []T

	for _, item := range items {
		if asOf(item).After(cutoff) {
			continue
		}
		k := key(item)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, item)
	}

	return out
}

// LatestAt returns the last item dated at or before cutoff from a slice
// sorted by ascending as-of date, using binary search.
func LatestAt[T any](items []T, asOf func(T) time.Time, cutoff time.Time) (T, bool) {
	idx := sort.Search(len(items), func(i int) bool {
		return asOf(items[i]).After(cutoff)
	})
	if idx == 0 {
		var zero T
		return zero, false
	}
	return items[idx-1], true
}
