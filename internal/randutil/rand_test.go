package randutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewIsDeterministic(t *testing.T) {
	t.Parallel()

	a, b := New(42), New(42)
	for range 10 {
		assert.Equal(t, a.Uint64(), b.Uint64())
	}
}

func TestSeed(t *testing.T) {
	t.Parallel()

	assert.Equal(t, int64(7), Seed(7))
	assert.NotZero(t, Seed(0))
}

func TestDeriveStreamsDiffer(t *testing.T) {
	t.Parallel()

	first := Derive(1, 0).Uint64()
	assert.NotEqual(t, first, Derive(1, 1).Uint64())
	assert.NotEqual(t, first, New(1).Uint64())
	assert.Equal(t, first, Derive(1, 0).Uint64())
}
