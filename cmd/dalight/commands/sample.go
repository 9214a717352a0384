package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dalight/dalight/libs/rand"
	"github.com/dalight/dalight/light/sample"
	"github.com/dalight/dalight/types"
)

var (
	sampleRows uint16
	sampleCols uint16
)

// SampleCmd prints the sampling plan for the configured confidence target
// and a given matrix size, without touching the network.
var SampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Show the cell sampling plan for the configured confidence",
	RunE:  runSample,
}

func init() {
	SampleCmd.Flags().Uint16Var(&sampleRows, "rows", 256, "original matrix row count")
	SampleCmd.Flags().Uint16Var(&sampleCols, "cols", 256, "matrix column count")
}

func runSample(cmd *cobra.Command, args []string) error {
	dims, err := types.NewDimensions(sampleRows, sampleCols)
	if err != nil {
		return err
	}

	confidence, normalized := config.ConfidenceOrDefault()
	if normalized {
		logger.Info("confidence out of range, using default",
			"configured", config.Confidence, "default", confidence)
	}

	count := sample.CellCountForConfidence(confidence)
	cells := sample.RandomCells(rand.NewRand(), dims, count)

	fmt.Printf("matrix: %s (extended: %d rows, %d cells)\n",
		dims, dims.ExtendedRows(), dims.ExtendedSize())
	fmt.Printf("confidence: %.2f%% -> %d cells\n", confidence, count)
	for _, pos := range cells {
		fmt.Printf("  %s\n", pos)
	}
	return nil
}
