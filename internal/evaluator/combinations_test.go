package evaluator

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func collect[T any](items []T, k int) [][]T {
	var out [][]T
	for c := range Combinations(items, k) {
		out = append(out, slices.Clone(c))
	}
	return out
}

func TestCombinationsCounts(t *testing.T) {
	t.Parallel()

	items := []int{1, 2, 3, 4, 5, 6, 7}
	tests := []struct {
		n, k, want int
	}{
		{5, 5, 1},
		{6, 5, 6},
		{7, 5, 21},
		{7, 2, 21},
		{4, 0, 1},
		{3, 4, 0},
	}
	for _, tt := range tests {
		assert.Len(t, collect(items[:tt.n], tt.k), tt.want, "C(%d,%d)", tt.n, tt.k)
	}
}

func TestCombinationsOrderAndRestart(t *testing.T) {
	t.Parallel()

	seq := Combinations([]string{"a", "b", "c", "d"}, 2)
	want := [][]string{{"a", "b"}, {"a", "c"}, {"a", "d"}, {"b", "c"}, {"b", "d"}, {"c", "d"}}

	var first, second [][]string
	for c := range seq {
		first = append(first, slices.Clone(c))
	}
	for c := range seq {
		second = append(second, slices.Clone(c))
	}
	assert.Equal(t, want, first)
	assert.Equal(t, want, second)
}

func TestCombinationsEarlyStop(t *testing.T) {
	t.Parallel()

	n := 0
	for range Combinations([]int{1, 2, 3, 4, 5, 6, 7}, 5) {
		n++
		if n == 3 {
			break
		}
	}
	assert.Equal(t, 3, n)
}
