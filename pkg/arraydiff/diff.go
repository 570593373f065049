package arraydiff

import (
	"cmp"
	"slices"
)

// Diff returns the multiset difference between old and next: the items that
// must be added and removed regardless of position. Results follow first
// appearance order.
func Diff[T comparable](old, next []T) (added, removed []T) {
	oldCounts, oldOrder := countItems(old)
	newCounts, newOrder := countItems(next)

	for _, item := range newOrder {
		if delta := newCounts[item] - oldCounts[item]; delta > 0 {
			for i := 0; i < delta; i++ {
				added = append(added, item)
			}
		}
	}
	for _, item := range oldOrder {
		if delta := oldCounts[item] - newCounts[item]; delta > 0 {
			for i := 0; i < delta; i++ {
				removed = append(removed, item)
			}
		}
	}
	return added, removed
}

func countItems[T comparable](items []T) (map[T]int, []T) {
	counts := make(map[T]int, len(items))
	order := make([]T, 0, len(items))
	for _, item := range items {
		if counts[item] == 0 {
			order = append(order, item)
		}
		counts[item]++
	}
	return counts, order
}

// KeysResult classifies the keys of two mappings.
type KeysResult[K any] struct {
	Added   []K
	Removed []K
	Updated []K
}

// Empty reports whether the mappings are equivalent.
func (r KeysResult[K]) Empty() bool {
	return len(r.Added) == 0 && len(r.Removed) == 0 && len(r.Updated) == 0
}

// KeysDiff compares two mappings. Keys present in both whose values differ
// under equal are Updated. Each list is sorted.
func KeysDiff[K cmp.Ordered, V any](old, next map[K]V, equal func(a, b V) bool) KeysResult[K] {
	var r KeysResult[K]
	for k, nv := range next {
		ov, ok := old[k]
		switch {
		case !ok:
			r.Added = append(r.Added, k)
		case !equal(ov, nv):
			r.Updated = append(r.Updated, k)
		}
	}
	for k := range old {
		if _, ok := next[k]; !ok {
			r.Removed = append(r.Removed, k)
		}
	}
	slices.Sort(r.Added)
	slices.Sort(r.Removed)
	slices.Sort(r.Updated)
	return r
}
