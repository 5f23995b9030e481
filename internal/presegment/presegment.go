// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package presegment

import (
	"context"
	"fmt"
	"slices"

	"github.com/pdiddy/ink-engine/internal/geometry"
	"github.com/pdiddy/ink-engine/pkg/types"
)

// BBIntersections returns the symmetric boolean matrix of pairwise
// bounding-box intersections, with every box grown by the given fractional
// margin of its own size before the test.
func BBIntersections(rec types.Recording, margin float64) [][]bool {
	n := len(rec)
	grown := make([]geometry.BoundingBox, n)
	for i, s := range rec {
		grown[i] = geometry.Bounds(s).Grow(margin)
	}
	out := make([][]bool, n)
	for i := range out {
		out[i] = make([]bool, n)
	}
	for i := 0; i < n-1; i++ {
		for j := i + 1; j < n; j++ {
			hit := grown[i].Intersects(grown[j])
			out[i][j] = hit
			out[j][i] = hit
		}
	}
	return out
}

// PreSegment builds the spanning tree over all strokes and splits it at
// every stroke that is, with high confidence, a complete standalone symbol.
// A stroke qualifies when the classifier's top guess exceeds the configured
// confidence, its grown bounding box touches no other stroke's, it has
// enough points not to be a dot, and its label is not an excluded connector
// class. The returned forest bounds the later exhaustive enumeration to the
// per-tree stroke subsets. Zero or negative cfg limits fall back to the
// documented defaults.
func PreSegment(ctx context.Context, rec types.Recording, clf types.SymbolClassifier, cfg types.PreSegmentConfig) (Wood, error) {
	cfg = withDefaults(cfg)
	mst, err := BuildMST(Centers(rec))
	if err != nil {
		return nil, err
	}
	all := make([]int, len(rec))
	for i := range all {
		all[i] = i
	}
	wood := Wood{{Adj: mst, Strokes: all}}

	intersections := BBIntersections(rec, cfg.GrowthMargin)

	for i, stroke := range rec {
		guesses, err := clf.Predict(ctx, types.Recording{stroke})
		if err != nil {
			return nil, fmt.Errorf("presegment: classifying stroke %d: %w", i, err)
		}
		if len(guesses) == 0 {
			continue
		}
		if guesses[0].Probability <= cfg.SplitConfidence {
			continue
		}
		if slices.Contains(intersections[i], true) {
			continue
		}
		if len(stroke) < cfg.MinSplitPoints {
			continue
		}
		if slices.Contains(cfg.ExcludedLabels, guesses[0].Label) {
			continue
		}

		treeIdx, nodeIdx := findSplitNode(wood, i)
		split := Break(wood[treeIdx], nodeIdx)
		wood = append(wood[:treeIdx], append(split, wood[treeIdx+1:]...)...)
	}
	return wood, nil
}

// withDefaults fills zero and negative config fields from the documented
// defaults. ExcludedLabels is left alone: an empty list means no label is
// exempt from splitting.
func withDefaults(cfg types.PreSegmentConfig) types.PreSegmentConfig {
	defaults := types.DefaultConfig().PreSegment
	if cfg.SplitConfidence <= 0 {
		cfg.SplitConfidence = defaults.SplitConfidence
	}
	if cfg.GrowthMargin <= 0 {
		cfg.GrowthMargin = defaults.GrowthMargin
	}
	if cfg.MinSplitPoints <= 0 {
		cfg.MinSplitPoints = defaults.MinSplitPoints
	}
	if cfg.MaxExhaustiveStrokes <= 0 {
		cfg.MaxExhaustiveStrokes = defaults.MaxExhaustiveStrokes
	}
	if cfg.ChunkRetention <= 0 {
		cfg.ChunkRetention = defaults.ChunkRetention
	}
	return cfg
}

// findSplitNode locates the tree containing the global stroke index and the
// stroke's local node position within it. The index is always present:
// PreSegment starts from a spanning tree over all strokes.
func findSplitNode(wood Wood, stroke int) (treeIdx, nodeIdx int) {
	for ti, tree := range wood {
		for ni, s := range tree.Strokes {
			if s == stroke {
				return ti, ni
			}
		}
	}
	panic(fmt.Sprintf("presegment: stroke %d not in wood", stroke))
}
