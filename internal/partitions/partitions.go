// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package partitions enumerates and scores set partitions of stroke
// indices. The number of partitions of n elements is the n-th Bell number
// (1, 1, 2, 5, 15, 52, ...), which grows super-exponentially; callers must
// bound n before enumerating. TopK enforces that bound and honors context
// cancellation between partition evaluations.
package partitions

import (
	"context"
	"errors"
	"fmt"
	"iter"

	"github.com/pdiddy/ink-engine/pkg/types"
)

// DefaultMaxStrokes is the exhaustive-enumeration ceiling applied when the
// caller passes no explicit bound. Bell(12) is about 4.2 million partitions;
// beyond that, enumeration time stops being interactive.
const DefaultMaxStrokes = 12

// ErrTooManyStrokes is returned when a table is too large for exhaustive
// partition enumeration.
var ErrTooManyStrokes = errors.New("partitions: too many strokes for exhaustive enumeration")

// KPartitions lazily yields every partition of indices into exactly k
// non-empty groups. Groups appear in canonical form: each group ascending
// (input order is preserved, so ascending input stays ascending), groups
// ordered by first element. Every yielded partition is freshly allocated.
//
// The enumeration walks restricted growth strings iteratively, so partition
// size is bounded by memory, not stack depth.
func KPartitions(indices []int, k int) iter.Seq[types.Segmentation] {
	return func(yield func(types.Segmentation) bool) {
		n := len(indices)
		if k < 1 || k > n {
			return
		}

		// rgs[i] is the group number of indices[i]. A restricted growth
		// string satisfies rgs[i] <= 1 + max(rgs[0..i-1]); enumerating all
		// of them enumerates all set partitions exactly once.
		rgs := make([]int, n)
		maxes := make([]int, n) // maxes[i] = max(rgs[0..i-1]), maxes[0] = -1
		maxes[0] = -1

		emit := func() bool {
			groups := make(types.Segmentation, k)
			for i, g := range rgs {
				groups[g] = append(groups[g], indices[i])
			}
			return yield(groups)
		}

		// Initialize to the lexicographically smallest string with k
		// groups: 0,...,0,1,2,...,k-1.
		for i := range rgs {
			if i > n-k {
				rgs[i] = i - (n - k)
			}
			if i > 0 {
				maxes[i] = max(maxes[i-1], rgs[i-1])
			}
		}
		if !emit() {
			return
		}

		for {
			// Find the rightmost position whose group number can grow:
			// the new value must stay a restricted growth string, must not
			// exceed group k-1, and must leave the suffix enough positions
			// to still reach k groups.
			i := n - 1
			for i > 0 {
				v := rgs[i] + 1
				if v <= maxes[i]+1 && v <= k-1 && (k-1)-max(maxes[i], v) <= n-1-i {
					break
				}
				i--
			}
			if i == 0 {
				return
			}
			rgs[i]++
			// Complete the suffix minimally: a position opens a new group
			// only when the remaining positions are exactly the missing
			// group count, otherwise it rejoins group 0.
			for j := i + 1; j < n; j++ {
				maxes[j] = max(maxes[j-1], rgs[j-1])
				if (k-1)-maxes[j] == n-j {
					rgs[j] = maxes[j] + 1
				} else {
					rgs[j] = 0
				}
			}
			if !emit() {
				return
			}
		}
	}
}

// All lazily yields every set partition of indices, for group counts
// 1..len(indices). The total count is the Bell number of len(indices).
func All(indices []int) iter.Seq[types.Segmentation] {
	return func(yield func(types.Segmentation) bool) {
		for k := 1; k <= len(indices); k++ {
			for p := range KPartitions(indices, k) {
				if !yield(p) {
					return
				}
			}
		}
	}
}

// Clusters lazily yields every way to distribute indices over k ordered
// bins, empty bins allowed, with duplicate bin multisets suppressed. Each
// result pads a partition into at most k groups with empty bins.
func Clusters(indices []int, k int) iter.Seq[types.Segmentation] {
	return func(yield func(types.Segmentation) bool) {
		for groups := 1; groups <= k && groups <= len(indices); groups++ {
			for p := range KPartitions(indices, groups) {
				padded := make(types.Segmentation, 0, k)
				for i := groups; i < k; i++ {
					padded = append(padded, []int{})
				}
				padded = append(padded, p...)
				if !yield(padded) {
					return
				}
			}
		}
	}
}

// PrepareTable fills in the derived half of an affinity table in place: the
// diagonal becomes 0 and each cell below the diagonal becomes the
// complement of its mirror, table[i][j] = 1 - table[j][i] for i > j. The
// table must be square.
func PrepareTable(table [][]float64) error {
	n := len(table)
	for i, row := range table {
		if len(row) != n {
			return fmt.Errorf("affinity table row %d has %d cells, want %d", i, len(row), n)
		}
		for j := range row {
			switch {
			case i == j:
				table[i][j] = 0
			case i > j:
				table[i][j] = 1 - table[j][i]
			}
		}
	}
	return nil
}

// Score returns the pairwise affinity score of a segmentation: for every
// unordered stroke pair (i, j), i < j, the running product picks up
// table[i][j] if the strokes share a group and 1 - table[i][j] otherwise.
// Treating the pairwise decisions as independent is an approximation, not a
// joint probability; it ranks candidate segmentations, nothing more.
func Score(seg types.Segmentation, table [][]float64) float64 {
	n := seg.StrokeCount()
	score := 1.0
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if seg.SameSymbol(i, j) {
				score *= table[i][j]
			} else {
				score *= 1 - table[i][j]
			}
		}
	}
	return score
}

// Scored pairs a canonical segmentation with its score.
type Scored struct {
	Segmentation types.Segmentation
	Score        float64
}

// TopK enumerates all set partitions of the table's index range, scores
// each with Score, and returns the k best, sorted descending. maxStrokes
// caps the table size (0 means DefaultMaxStrokes); larger tables return
// ErrTooManyStrokes rather than starting an enumeration that may never
// finish. Cancelling ctx stops the enumeration between evaluations.
func TopK(ctx context.Context, table [][]float64, k, maxStrokes int) ([]Scored, error) {
	n := len(table)
	if maxStrokes <= 0 {
		maxStrokes = DefaultMaxStrokes
	}
	if n > maxStrokes {
		return nil, fmt.Errorf("%w: %d strokes, ceiling %d", ErrTooManyStrokes, n, maxStrokes)
	}

	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}

	top := NewTopFinder(k)
	for seg := range All(indices) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		top.Push(seg, Score(seg, table))
	}

	out := make([]Scored, 0, len(top.Entries()))
	for _, e := range top.Entries() {
		out = append(out, Scored{Segmentation: e.Element.(types.Segmentation).Normalize(), Score: e.Value})
	}
	return out, nil
}
