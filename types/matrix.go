package types

import (
	"errors"
	"fmt"
)

const (
	// CellSize is the size of a single data cell in bytes.
	CellSize = 32
	// ProofSize is the size of a cell's KZG proof in bytes.
	ProofSize = 48
	// CellWithProofSize is the wire size of a sampled cell: content
	// followed by its proof.
	CellWithProofSize = CellSize + ProofSize

	// extensionFactor is the row redundancy introduced by erasure coding:
	// every column is extended to twice its original height.
	extensionFactor = 2
)

// ErrZeroDimensions is returned when constructing Dimensions with no rows
// or no columns.
var ErrZeroDimensions = errors.New("matrix dimensions must be non-zero")

// Dimensions describes the size of an erasure-coded block matrix. Rows and
// cols are the dimensions of the original data; the extended counterparts
// account for the coding redundancy.
type Dimensions struct {
	rows uint16
	cols uint16
}

// NewDimensions returns Dimensions for the given original data size.
func NewDimensions(rows, cols uint16) (Dimensions, error) {
	if rows == 0 || cols == 0 {
		return Dimensions{}, ErrZeroDimensions
	}
	return Dimensions{rows: rows, cols: cols}, nil
}

// Rows returns the original (pre-extension) row count.
func (d Dimensions) Rows() uint16 { return d.rows }

// Cols returns the column count.
func (d Dimensions) Cols() uint16 { return d.cols }

// ExtendedRows returns the row count after coding extension.
func (d Dimensions) ExtendedRows() uint32 {
	return uint32(d.rows) * extensionFactor
}

// ExtendedSize returns the total number of sample-able cells in the
// extended matrix.
func (d Dimensions) ExtendedSize() uint32 {
	return d.ExtendedRows() * uint32(d.cols)
}

func (d Dimensions) String() string {
	return fmt.Sprintf("%dx%d", d.rows, d.cols)
}

// Position addresses a single cell of the extended matrix.
type Position struct {
	Row uint32 `json:"row"`
	Col uint16 `json:"col"`
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

// Cell is a sampled cell together with its inclusion proof, as returned by
// a full node.
type Cell struct {
	Position Position
	Content  [CellWithProofSize]byte
}

// Proof returns the KZG proof part of the cell content.
func (c Cell) Proof() []byte {
	return append([]byte(nil), c.Content[CellSize:]...)
}

// Data returns the data part of the cell content.
func (c Cell) Data() []byte {
	return append([]byte(nil), c.Content[:CellSize]...)
}
