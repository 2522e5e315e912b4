package evaluator

import "iter"

// Combinations yields every k-element subset of items, preserving input
// order within each subset. Subsets are produced in lexicographic index order.
// The sequence is lazy and may be ranged over any number of times.
//
// The yielded slice is reused between iterations; callers that keep a subset
// must copy it.
func Combinations[T any](items []T, k int) iter.Seq[[]T] {
	return func(yield func([]T) bool) {
		n := len(items)
		if k < 0 || k > n {
			return
		}

		idx := make([]int, k)
		for i := range idx {
			idx[i] = i
		}
		buf := make([]T, k)

		for {
			for i, j := range idx {
				buf[i] = items[j]
			}
			if !yield(buf) {
				return
			}

			// Advance the rightmost index that still has room.
			i := k - 1
			for i >= 0 && idx[i] == n-k+i {
				i--
			}
			if i < 0 {
				return
			}
			idx[i]++
			for j := i + 1; j < k; j++ {
				idx[j] = idx[j-1] + 1
			}
		}
	}
}
