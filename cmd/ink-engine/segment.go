// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/ink-engine/internal/partitions"
)

var (
	segmentTableFile string
	segmentTopK      int
)

var segmentCmd = &cobra.Command{
	Use:   "segment",
	Short: "Rank stroke segmentations from a pairwise affinity table",
	Long: `segment reads a JSON matrix of pairwise same-symbol probabilities,
where entry [i][j] is the probability that strokes i and j belong to
the same symbol, enumerates all segmentations of the strokes and prints
the highest scoring ones as JSON, one per line.

Only the upper triangle of the input matrix is consulted. The diagonal
and lower triangle are normalized before scoring.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(segmentTableFile)
		if err != nil {
			return fmt.Errorf("reading affinity table: %w", err)
		}

		var table [][]float64
		if err := json.Unmarshal(data, &table); err != nil {
			return fmt.Errorf("parsing affinity table: %w", err)
		}
		for i, row := range table {
			if len(row) != len(table) {
				return fmt.Errorf("affinity table is not square: row %d has %d entries, want %d", i, len(row), len(table))
			}
		}

		cfg := engineConfig()
		if err := partitions.PrepareTable(table); err != nil {
			return fmt.Errorf("preparing affinity table: %w", err)
		}

		best, err := partitions.TopK(cmd.Context(), table, segmentTopK, cfg.PreSegment.MaxExhaustiveStrokes)
		if err != nil {
			return fmt.Errorf("ranking segmentations: %w", err)
		}

		enc := json.NewEncoder(os.Stdout)
		for _, s := range best {
			if err := enc.Encode(s); err != nil {
				return fmt.Errorf("writing segmentation: %w", err)
			}
		}
		return nil
	},
}

func init() {
	segmentCmd.Flags().StringVar(&segmentTableFile, "table", "", "JSON file with the pairwise affinity matrix (required)")
	segmentCmd.Flags().IntVar(&segmentTopK, "top", 10, "number of segmentations to print")
	segmentCmd.MarkFlagRequired("table")

	rootCmd.AddCommand(segmentCmd)
}
