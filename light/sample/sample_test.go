package sample_test

import (
	mrand "math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/dalight/dalight/light/sample"
	"github.com/dalight/dalight/types"
)

func TestCellCountForConfidence(t *testing.T) {
	testCases := []struct {
		confidence float64
		want       uint32
	}{
		{50.0, 1},
		{75.0, 2},
		{90.0, 4},
		{99.0, 7},
		{99.9, 10},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.want, sample.CellCountForConfidence(tc.confidence),
			"confidence %v", tc.confidence)
	}
}

func TestCellCountForConfidenceFallback(t *testing.T) {
	fallback := sample.CellCountForConfidence(sample.DefaultConfidence)
	require.Equal(t, uint32(7), fallback)

	// out-of-range inputs are normalized, never rejected
	for _, confidence := range []float64{-1, 0, 10, 49.999, 100, 100.1, 99.999999, 1e9} {
		assert.Equal(t, fallback, sample.CellCountForConfidence(confidence),
			"confidence %v", confidence)
	}
}

func TestCellCountForConfidenceBounds(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		confidence := rapid.Float64Range(50.0, 99.999999).Draw(t, "confidence").(float64)
		count := sample.CellCountForConfidence(confidence)
		assert.GreaterOrEqual(t, count, uint32(1))
		assert.LessOrEqual(t, count, uint32(10))
	})
}

func TestRandomCells(t *testing.T) {
	dims, err := types.NewDimensions(16, 32)
	require.NoError(t, err)

	rng := mrand.New(mrand.NewSource(1))
	cells := sample.RandomCells(rng, dims, 10)
	require.Len(t, cells, 10)

	seen := make(map[types.Position]struct{})
	for _, pos := range cells {
		assert.Less(t, pos.Row, dims.ExtendedRows())
		assert.Less(t, pos.Col, dims.Cols())
		_, dup := seen[pos]
		assert.False(t, dup, "duplicate position %s", pos)
		seen[pos] = struct{}{}
	}
}

func TestRandomCellsCappedAtMatrixSize(t *testing.T) {
	dims, err := types.NewDimensions(1, 2) // 4 cells extended
	require.NoError(t, err)

	rng := mrand.New(mrand.NewSource(1))
	cells := sample.RandomCells(rng, dims, 100)
	require.Len(t, cells, int(dims.ExtendedSize()))
}

func TestRandomCellsProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		rows := rapid.Uint16Range(1, 64).Draw(t, "rows").(uint16)
		cols := rapid.Uint16Range(1, 64).Draw(t, "cols").(uint16)
		dims, err := types.NewDimensions(rows, cols)
		require.NoError(t, err)

		count := rapid.Uint32Range(0, dims.ExtendedSize()).Draw(t, "count").(uint32)
		seed := rapid.Int64().Draw(t, "seed").(int64)

		cells := sample.RandomCells(mrand.New(mrand.NewSource(seed)), dims, count)
		require.Len(t, cells, int(count))

		seen := make(map[types.Position]struct{}, len(cells))
		for _, pos := range cells {
			require.Less(t, pos.Row, dims.ExtendedRows())
			require.Less(t, pos.Col, dims.Cols())
			_, dup := seen[pos]
			require.False(t, dup)
			seen[pos] = struct{}{}
		}
	})
}
