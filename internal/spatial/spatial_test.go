package spatial

import (
	"math"
	"testing"

	"github.com/pdiddy/ink-engine/internal/geometry"
)

// Boxes use screen coordinates: y grows downward, so larger y means lower
// on the page.

func box(minX, minY, maxX, maxY float64) geometry.BoundingBox {
	return geometry.BoundingBox{MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY}
}

func relAlmostEqual(a, b Relation) bool {
	const eps = 1e-12
	return math.Abs(a.Top-b.Top) < eps &&
		math.Abs(a.Bottom-b.Bottom) < eps &&
		math.Abs(a.Subscript-b.Subscript) < eps &&
		math.Abs(a.Superscript-b.Superscript) < eps &&
		math.Abs(a.Right-b.Right) < eps
}

func TestEstimate(t *testing.T) {
	a := box(0, 0, 10, 10)

	tests := []struct {
		name string
		b    geometry.BoundingBox
		want Relation
	}{
		{
			"b to the right at the same height",
			box(20, 0, 30, 10),
			Relation{Right: 100.0 / 121.0},
		},
		{
			"b directly below",
			box(0, 20, 10, 30),
			Relation{Bottom: 100.0 / 121.0},
		},
		{
			"b below and to the right",
			box(12, 12, 20, 20),
			Relation{Subscript: 64.0 / 81.0},
		},
		{
			"b above and to the right",
			box(12, -20, 20, -12),
			Relation{Superscript: 64.0 / 81.0},
		},
		{
			"b directly above",
			box(0, -30, 10, -20),
			Relation{Top: 100.0 / 121.0},
		},
		{
			"identical boxes",
			a,
			Relation{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Estimate(a, tt.b)
			if !relAlmostEqual(got, tt.want) {
				t.Errorf("Estimate() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestEstimateSinglePointSymbol(t *testing.T) {
	// A degenerate box must not divide by zero; the +1 extents keep the
	// denominator at 1.
	a := box(0, 0, 10, 10)
	dot := box(20, 5, 20, 5)
	got := Estimate(a, dot)
	if math.IsNaN(got.Right) || math.IsInf(got.Right, 0) {
		t.Fatalf("Estimate() produced a non-finite ratio: %+v", got)
	}
}

func TestEstimateOverlappingStraddle(t *testing.T) {
	// B overlaps A and extends both right and below: several ratios fire.
	a := box(0, 0, 10, 10)
	b := box(5, 5, 15, 15)
	got := Estimate(a, b)
	if got.Bottom <= 0 || got.Right <= 0 || got.Subscript <= 0 {
		t.Errorf("expected bottom, right and subscript components, got %+v", got)
	}
	if got.Top != 0 || got.Superscript != 0 {
		t.Errorf("unexpected upward components: %+v", got)
	}
}
