package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDimensions(t *testing.T) {
	dims, err := NewDimensions(256, 256)
	require.NoError(t, err)

	assert.EqualValues(t, 256, dims.Rows())
	assert.EqualValues(t, 256, dims.Cols())
	assert.EqualValues(t, 512, dims.ExtendedRows())
	assert.EqualValues(t, 512*256, dims.ExtendedSize())
	assert.Equal(t, "256x256", dims.String())
}

func TestNewDimensionsZero(t *testing.T) {
	_, err := NewDimensions(0, 16)
	assert.ErrorIs(t, err, ErrZeroDimensions)

	_, err = NewDimensions(16, 0)
	assert.ErrorIs(t, err, ErrZeroDimensions)
}

func TestCellContentSplit(t *testing.T) {
	var cell Cell
	for i := range cell.Content {
		cell.Content[i] = byte(i)
	}

	require.Len(t, cell.Data(), CellSize)
	require.Len(t, cell.Proof(), ProofSize)
	assert.EqualValues(t, 0, cell.Data()[0])
	assert.EqualValues(t, CellSize, cell.Proof()[0])
}
