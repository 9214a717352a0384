// Package sample computes data-availability sampling plans: how many cells
// of an erasure-coded block must be drawn to reach a confidence target,
// and which cells to draw.
package sample

import (
	"math"
	mrand "math/rand"

	"github.com/dalight/dalight/types"
)

const (
	// DefaultConfidence replaces out-of-range confidence inputs.
	DefaultConfidence = 99.0

	// Valid confidence inputs are [minConfidence, maxConfidence).
	minConfidence = 50.0
	maxConfidence = 100.0

	// maxCellCount caps the sampling cost regardless of how high the
	// requested confidence is, trading a bounded confidence ceiling for
	// bounded network cost.
	maxCellCount = 10
)

// CellCountForConfidence returns the number of cells that must be sampled
// to assert, with the given confidence percentage, that a block is
// available. Each independently sampled cell of an erasure-coded block
// halves the probability that a withheld portion goes undetected, hence
// count = ceil(-log2(1 - confidence/100)).
//
// Inputs outside [50, 100), or inputs whose count would fall outside
// [1, 10], are normalized to DefaultConfidence instead of reported as an
// error; the result is therefore always in [1, 10].
func CellCountForConfidence(confidence float64) uint32 {
	count := rawCellCount(confidence)
	if confidence < minConfidence || confidence >= maxConfidence || count == 0 || count > maxCellCount {
		count = rawCellCount(DefaultConfidence)
	}
	return count
}

func rawCellCount(confidence float64) uint32 {
	return uint32(math.Ceil(-math.Log2(1 - confidence/100)))
}

// RandomCells draws count distinct positions uniformly from the extended
// matrix described by dims. If count exceeds the number of cells in the
// matrix it is clamped, since no more distinct cells exist. The order of
// the returned positions carries no meaning.
//
// The caller supplies the randomness source so shuffle-sensitive tests can
// seed it; production callers pass rand.NewRand() from libs/rand.
func RandomCells(rng *mrand.Rand, dims types.Dimensions, count uint32) []types.Position {
	if maxCells := dims.ExtendedSize(); count > maxCells {
		count = maxCells
	}

	seen := make(map[types.Position]struct{}, count)
	cells := make([]types.Position, 0, count)
	for uint32(len(cells)) < count {
		pos := types.Position{
			Row: uint32(rng.Int63n(int64(dims.ExtendedRows()))),
			Col: uint16(rng.Int63n(int64(dims.Cols()))),
		}
		if _, ok := seen[pos]; ok {
			continue
		}
		seen[pos] = struct{}{}
		cells = append(cells, pos)
	}

	return cells
}
