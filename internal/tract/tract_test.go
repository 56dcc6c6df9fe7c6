package tract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runger/sequoia/internal/mine"
)

func TestBag_AddDefaultsZeroWeightToOne(t *testing.T) {
	b := New()
	b.Add([]mine.ItemID{0, 1}, 0)
	require.Equal(t, 1, b.Len())
	assert.Equal(t, int64(1), b.Transactions()[0].Weight)
}

func TestBag_ReduceMergesDuplicates(t *testing.T) {
	b := New()
	b.Add([]mine.ItemID{0, 1}, 2)
	b.Add([]mine.ItemID{0, 1}, 3)
	b.Add([]mine.ItemID{1, 0}, 1)

	n := b.Reduce()
	assert.Equal(t, 2, n)
	assert.Equal(t, int64(6), b.TotalWeight())
}

func TestBag_TotalWeight(t *testing.T) {
	b := New()
	b.Add([]mine.ItemID{0}, 4)
	b.Add([]mine.ItemID{1}, 5)
	assert.Equal(t, int64(9), b.TotalWeight())
}

func wi(item mine.ItemID, weight float64) mine.WeightedItem {
	return mine.WeightedItem{Item: item, Weight: weight}
}

func TestWeightedBag_AddDefaultsZeroWeightToOne(t *testing.T) {
	b := NewWeighted()
	b.Add([]mine.WeightedItem{wi(0, 1.0), wi(1, 2.0)}, 0)
	require.Equal(t, 1, b.Len())
	assert.Equal(t, int64(1), b.Transactions()[0].Weight)
}

func TestWeightedBag_ReduceMergesIdenticalItemWeightSequences(t *testing.T) {
	b := NewWeighted()
	b.Add([]mine.WeightedItem{wi(0, 1.0), wi(1, 3.0)}, 2)
	b.Add([]mine.WeightedItem{wi(0, 1.0), wi(1, 3.0)}, 3)

	n := b.Reduce()
	assert.Equal(t, 1, n)
	assert.Equal(t, int64(5), b.TotalWeight())
}

func TestWeightedBag_ReduceKeepsDistinctItemWeights(t *testing.T) {
	// Same item ids, different per-item weights: must not merge, matching
	// tbg_reduce's weighted-mode comparison.
	b := NewWeighted()
	b.Add([]mine.WeightedItem{wi(0, 1.0), wi(1, 3.0)}, 1)
	b.Add([]mine.WeightedItem{wi(0, 2.0), wi(1, 4.0)}, 2)

	n := b.Reduce()
	assert.Equal(t, 2, n)
	assert.Equal(t, int64(3), b.TotalWeight())
}

func TestWeightedBag_TotalWeight(t *testing.T) {
	b := NewWeighted()
	b.Add([]mine.WeightedItem{wi(0, 1.0)}, 4)
	b.Add([]mine.WeightedItem{wi(1, 2.0)}, 5)
	assert.Equal(t, int64(9), b.TotalWeight())
}
