package pipeline

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The aggregator is the one non-obvious algorithm in the pipeline, so it is
// exercised here with synthetic completions, independent of any parsing.

func outcome(i int) Outcome {
	return Outcome{Index: i, Path: "file"}
}

func drainAll(t *testing.T, a *Aggregator, order []int) []int {
	t.Helper()
	var released []int
	for _, i := range order {
		for _, o := range a.Push(outcome(i)) {
			released = append(released, o.Index)
		}
	}
	return released
}

func TestAggregator_InOrderPassesThrough(t *testing.T) {
	a := NewAggregator()

	released := drainAll(t, a, []int{0, 1, 2, 3})
	assert.Equal(t, []int{0, 1, 2, 3}, released)
	assert.Zero(t, a.Pending())
}

func TestAggregator_ReversedOrder(t *testing.T) {
	a := NewAggregator()

	assert.Nil(t, a.Push(outcome(3)))
	assert.Nil(t, a.Push(outcome(2)))
	assert.Nil(t, a.Push(outcome(1)))
	assert.Equal(t, 3, a.Pending())

	ready := a.Push(outcome(0))
	require.Len(t, ready, 4)
	for i, o := range ready {
		assert.Equal(t, i, o.Index)
	}
	assert.Zero(t, a.Pending())
}

func TestAggregator_PartialDrains(t *testing.T) {
	a := NewAggregator()

	assert.Nil(t, a.Push(outcome(2)))

	ready := a.Push(outcome(0))
	require.Len(t, ready, 1)
	assert.Equal(t, 0, ready[0].Index)

	ready = a.Push(outcome(1))
	require.Len(t, ready, 2)
	assert.Equal(t, 1, ready[0].Index)
	assert.Equal(t, 2, ready[1].Index)
}

func TestAggregator_RandomPermutationsReleaseInOrder(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 50; trial++ {
		n := 1 + rng.Intn(100)
		order := rng.Perm(n)

		a := NewAggregator()
		released := drainAll(t, a, order)

		require.Len(t, released, n, "every outcome must be released exactly once")
		for i, idx := range released {
			require.Equal(t, i, idx, "release order must be strictly increasing with no gaps")
		}
		assert.Zero(t, a.Pending())
		assert.Equal(t, n, a.Next())
	}
}
