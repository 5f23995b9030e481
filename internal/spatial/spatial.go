// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package spatial estimates the spatial relationship of two symbols from
// their bounding boxes. It is pure geometry: no classifier is involved, and
// the estimate is deterministic given the two boxes.
package spatial

import "github.com/pdiddy/ink-engine/internal/geometry"

// Relation holds five overlap-area ratios describing where symbol B sits
// relative to symbol A. Each ratio is the area of one half-plane or
// quadrant intersection divided by B's total box area. The ratios are
// independent affinity measures; they are not normalized to sum to 1.
type Relation struct {
	Top         float64 `json:"top" yaml:"top"`
	Bottom      float64 `json:"bottom" yaml:"bottom"`
	Subscript   float64 `json:"subscript" yaml:"subscript"`
	Superscript float64 `json:"superscript" yaml:"superscript"`
	Right       float64 `json:"right" yaml:"right"`
}

// Estimate computes the relation of symbol B to symbol A from their
// bounding boxes. The +1 extents keep the denominator positive for
// single-point symbols, matching the integer pixel-box convention of the
// training data.
func Estimate(a, b geometry.BoundingBox) Relation {
	total := (b.MaxX - b.MinX + 1) * (b.MaxY - b.MinY + 1)

	var rel Relation

	// Bottom: B extends below A and overlaps A horizontally.
	if b.MaxY > a.MaxY && b.MinX < a.MaxX {
		minY := max(b.MinY, a.MaxY)
		minX := max(b.MinX, a.MinX)
		maxX := min(b.MaxX, a.MaxX)
		rel.Bottom = (maxX - minX) * (b.MaxY - minY) / total
	}
	// Subscript: B extends below and to the right of A.
	if b.MaxY > a.MaxY && b.MaxX > a.MaxX {
		minY := max(b.MinY, a.MaxY)
		minX := max(b.MinX, a.MaxX)
		rel.Subscript = (b.MaxX - minX) * (b.MaxY - minY) / total
	}
	// Right: B overlaps A vertically and extends to the right.
	if b.MinY < a.MaxY && b.MaxY > a.MinY && b.MaxX > a.MaxX {
		minY := max(a.MinY, b.MinY)
		maxY := min(a.MaxY, b.MaxY)
		minX := max(a.MaxX, b.MinX)
		rel.Right = (b.MaxX - minX) * (maxY - minY) / total
	}
	// Superscript: B extends above and to the right of A.
	if b.MinY < a.MinY && b.MaxX > a.MaxX {
		maxY := min(a.MinY, b.MaxY)
		minX := max(a.MaxX, b.MinX)
		rel.Superscript = (b.MaxX - minX) * (maxY - b.MinY) / total
	}
	// Top: B extends above A and overlaps A horizontally.
	if b.MinY < a.MinY && b.MinX < a.MaxX {
		maxY := min(a.MinY, b.MaxY)
		minX := max(b.MinX, a.MinX)
		maxX := min(b.MaxX, a.MaxX)
		rel.Top = (maxX - minX) * (maxY - b.MinY) / total
	}

	return rel
}
