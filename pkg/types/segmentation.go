// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Segmentation is a set partition of stroke indices into symbol groups.
// Every stroke index of a recording appears in exactly one group. The
// canonical form has each group sorted ascending and groups ordered by
// their smallest element; Normalize produces it.
type Segmentation [][]int

// Normalize returns the canonical form of the segmentation: each group
// sorted ascending, groups ordered by their smallest element. The receiver
// is not modified. Normalize is idempotent.
func (s Segmentation) Normalize() Segmentation {
	out := make(Segmentation, len(s))
	for i, group := range s {
		g := make([]int, len(group))
		copy(g, group)
		sort.Ints(g)
		out[i] = g
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i][0] < out[j][0]
	})
	return out
}

// Validate checks that the segmentation is a valid partition of {0..n-1}:
// non-empty groups, full coverage, no duplicate indices.
func (s Segmentation) Validate(n int) error {
	seen := make(map[int]bool, n)
	for _, group := range s {
		if len(group) == 0 {
			return fmt.Errorf("segmentation contains an empty group")
		}
		for _, idx := range group {
			if idx < 0 || idx >= n {
				return fmt.Errorf("stroke index %d out of range [0, %d)", idx, n)
			}
			if seen[idx] {
				return fmt.Errorf("stroke index %d appears in more than one group", idx)
			}
			seen[idx] = true
		}
	}
	if len(seen) != n {
		return fmt.Errorf("segmentation covers %d of %d strokes", len(seen), n)
	}
	return nil
}

// SymbolIndex returns the position of the group containing the given stroke
// index, or -1 if no group contains it.
func (s Segmentation) SymbolIndex(stroke int) int {
	for i, group := range s {
		for _, idx := range group {
			if idx == stroke {
				return i
			}
		}
	}
	return -1
}

// SameSymbol reports whether strokes i and j belong to the same group.
func (s Segmentation) SameSymbol(i, j int) bool {
	return s.SymbolIndex(i) == s.SymbolIndex(j)
}

// IsOutOfOrder reports whether the canonical stroke order of the
// segmentation interleaves groups, i.e. whether a group contains a stroke
// written after a stroke of a later group.
func (s Segmentation) IsOutOfOrder() bool {
	last := -1
	for _, group := range s {
		for _, idx := range group {
			if last > idx {
				return true
			}
			last = idx
		}
	}
	return false
}

// Key returns a compact canonical string form, e.g. "0,2|1". Equal
// partitions yield equal keys regardless of input order; the decoder uses
// it to memoize evaluated candidate segmentations.
func (s Segmentation) Key() string {
	norm := s.Normalize()
	groups := make([]string, len(norm))
	for i, group := range norm {
		parts := make([]string, len(group))
		for j, idx := range group {
			parts[j] = strconv.Itoa(idx)
		}
		groups[i] = strings.Join(parts, ",")
	}
	return strings.Join(groups, "|")
}

// Clone returns a deep copy of the segmentation.
func (s Segmentation) Clone() Segmentation {
	out := make(Segmentation, len(s))
	for i, group := range s {
		g := make([]int, len(group))
		copy(g, group)
		out[i] = g
	}
	return out
}

// StrokeCount returns the total number of stroke indices in all groups.
func (s Segmentation) StrokeCount() int {
	n := 0
	for _, group := range s {
		n += len(group)
	}
	return n
}

// OneSymbol returns the segmentation that puts all n strokes into a single
// group. It is the fallback ground truth when a recording carries no
// annotated segmentation.
func OneSymbol(n int) Segmentation {
	group := make([]int, n)
	for i := range group {
		group[i] = i
	}
	return Segmentation{group}
}
