// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package presegment

import (
	"context"
	"fmt"

	"github.com/pdiddy/ink-engine/internal/partitions"
	"github.com/pdiddy/ink-engine/pkg/types"
)

// AffinityEstimator estimates the probability that two strokes belong to
// the same symbol. It is an external collaborator, typically backed by the
// pairwise stroke classifier of the recognizer.
type AffinityEstimator interface {
	SameSymbol(ctx context.Context, a, b types.Stroke) (float64, error)
}

// Segment produces ranked segmentations of a whole recording. The recording
// is first pre-segmented into a wood of independent stroke clusters; each
// cluster is segmented exhaustively from its pairwise affinity table, the
// candidates are reweighted by how plausibly each symbol group classifies
// on its own, and the per-cluster rankings are merged into recording-wide
// segmentations.
//
// A cluster larger than cfg.MaxExhaustiveStrokes aborts with
// partitions.ErrTooManyStrokes rather than starting an enumeration whose
// cost is the cluster's Bell number. Zero or negative cfg limits fall back
// to the documented defaults.
func Segment(ctx context.Context, rec types.Recording, clf types.SymbolClassifier, affinity AffinityEstimator, cfg types.PreSegmentConfig) ([]partitions.Scored, error) {
	cfg = withDefaults(cfg)
	wood, err := PreSegment(ctx, rec, clf, cfg)
	if err != nil {
		return nil, err
	}

	global := []partitions.Scored{{Segmentation: types.Segmentation{}, Score: 1}}
	for _, tree := range wood {
		ranked, err := segmentChunk(ctx, rec, tree, clf, affinity, cfg)
		if err != nil {
			return nil, err
		}
		global = MergeSegmentations(global, ranked, tree.Strokes, cfg.ChunkRetention)
	}

	for i := range global {
		global[i].Segmentation = global[i].Segmentation.Normalize()
	}
	return global, nil
}

// segmentChunk ranks the segmentations of one wood tree's stroke subset.
func segmentChunk(ctx context.Context, rec types.Recording, tree Tree, clf types.SymbolClassifier, affinity AffinityEstimator, cfg types.PreSegmentConfig) ([]partitions.Scored, error) {
	chunk := rec.Select(tree.Strokes)
	n := len(chunk)

	table := make([][]float64, n)
	for i := range table {
		table[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			p, err := affinity.SameSymbol(ctx, chunk[i], chunk[j])
			if err != nil {
				return nil, fmt.Errorf("presegment: affinity of strokes %d, %d: %w", tree.Strokes[i], tree.Strokes[j], err)
			}
			table[i][j] = p
		}
	}
	if err := partitions.PrepareTable(table); err != nil {
		return nil, fmt.Errorf("presegment: %w", err)
	}

	ranked, err := partitions.TopK(ctx, table, cfg.ChunkRetention, cfg.MaxExhaustiveStrokes)
	if err != nil {
		return nil, fmt.Errorf("presegment: chunk %v: %w", tree.Strokes, err)
	}

	// Reweight each candidate by its least plausible symbol: the smallest
	// top-2 classifier mass over the candidate's groups. A grouping that
	// produces even one unrecognizable symbol drops in rank.
	for idx, cand := range ranked {
		worst := partitions.NewMinFinder(1)
		for gi, group := range cand.Segmentation {
			guesses, err := clf.Predict(ctx, chunk.Select(group))
			if err != nil {
				return nil, fmt.Errorf("presegment: classifying group %v: %w", group, err)
			}
			if len(guesses) == 0 {
				continue
			}
			mass := guesses[0].Probability
			if len(guesses) > 1 {
				mass += guesses[1].Probability
			}
			worst.Push(gi, mass)
		}
		if entries := worst.Entries(); len(entries) > 0 {
			ranked[idx].Score *= entries[0].Value
		}
	}
	return ranked, nil
}

// MergeSegmentations combines ranked segmentations of two disjoint stroke
// sets. The second ranking's local stroke indices are translated to global
// ones through strokes; every cross pair multiplies its scores, and the
// best retain combinations are kept.
func MergeSegmentations(a, b []partitions.Scored, strokes []int, retain int) []partitions.Scored {
	if retain <= 0 {
		retain = 500
	}
	top := partitions.NewTopFinder(retain)
	for _, sa := range a {
		for _, sb := range b {
			merged := sa.Segmentation.Clone()
			for _, group := range sb.Segmentation {
				translated := make([]int, len(group))
				for i, local := range group {
					translated[i] = strokes[local]
				}
				merged = append(merged, translated)
			}
			top.Push(merged, sa.Score*sb.Score)
		}
	}
	out := make([]partitions.Scored, 0, len(top.Entries()))
	for _, e := range top.Entries() {
		out = append(out, partitions.Scored{Segmentation: e.Element.(types.Segmentation), Score: e.Value})
	}
	return out
}
