package geometry

import (
	"math"
	"testing"

	"github.com/pdiddy/ink-engine/pkg/types"
)

const epsilon = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

func TestDist(t *testing.T) {
	tests := []struct {
		name string
		a, b types.Point
		want float64
	}{
		{"same point", types.Point{X: 1, Y: 2}, types.Point{X: 1, Y: 2}, 0},
		{"unit x", types.Point{X: 0, Y: 0}, types.Point{X: 1, Y: 0}, 1},
		{"3-4-5", types.Point{X: 0, Y: 0}, types.Point{X: 3, Y: 4}, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Dist(tt.a, tt.b); !almostEqual(got, tt.want) {
				t.Errorf("Dist() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPointSegmentDist(t *testing.T) {
	seg := LineSegment{P1: types.Point{X: 0, Y: 0}, P2: types.Point{X: 10, Y: 0}}
	tests := []struct {
		name string
		p    types.Point
		s    LineSegment
		want float64
	}{
		{"perpendicular foot inside", types.Point{X: 5, Y: 3}, seg, 3},
		{"on the segment", types.Point{X: 4, Y: 0}, seg, 0},
		{"beyond first endpoint", types.Point{X: -3, Y: 4}, seg, 5},
		{"beyond second endpoint", types.Point{X: 13, Y: 4}, seg, 5},
		{"degenerate segment", types.Point{X: 3, Y: 4}, LineSegment{P1: types.Point{}, P2: types.Point{}}, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PointSegmentDist(tt.p, tt.s); !almostEqual(got, tt.want) {
				t.Errorf("PointSegmentDist() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSegmentsIntersection(t *testing.T) {
	tests := []struct {
		name      string
		a, b      LineSegment
		wantPoint types.Point
		wantOK    bool
	}{
		{
			"crossing diagonals",
			LineSegment{P1: types.Point{X: 0, Y: 0}, P2: types.Point{X: 2, Y: 2}},
			LineSegment{P1: types.Point{X: 0, Y: 2}, P2: types.Point{X: 2, Y: 0}},
			types.Point{X: 1, Y: 1},
			true,
		},
		{
			"lines cross outside the segments",
			LineSegment{P1: types.Point{X: 0, Y: 0}, P2: types.Point{X: 1, Y: 1}},
			LineSegment{P1: types.Point{X: 3, Y: 0}, P2: types.Point{X: 4, Y: 5}},
			types.Point{},
			false,
		},
		{
			"parallel",
			LineSegment{P1: types.Point{X: 0, Y: 0}, P2: types.Point{X: 2, Y: 0}},
			LineSegment{P1: types.Point{X: 0, Y: 1}, P2: types.Point{X: 2, Y: 1}},
			types.Point{},
			false,
		},
		{
			"shared endpoint",
			LineSegment{P1: types.Point{X: 0, Y: 0}, P2: types.Point{X: 1, Y: 1}},
			LineSegment{P1: types.Point{X: 1, Y: 1}, P2: types.Point{X: 2, Y: 0}},
			types.Point{X: 1, Y: 1},
			true,
		},
		{
			"point on segment",
			LineSegment{P1: types.Point{X: 1, Y: 0}, P2: types.Point{X: 1, Y: 0}},
			LineSegment{P1: types.Point{X: 0, Y: 0}, P2: types.Point{X: 2, Y: 0}},
			types.Point{X: 1, Y: 0},
			true,
		},
		{
			"point off segment",
			LineSegment{P1: types.Point{X: 1, Y: 1}, P2: types.Point{X: 1, Y: 1}},
			LineSegment{P1: types.Point{X: 0, Y: 0}, P2: types.Point{X: 2, Y: 0}},
			types.Point{},
			false,
		},
		{
			"collinear disjoint",
			LineSegment{P1: types.Point{X: 0, Y: 0}, P2: types.Point{X: 1, Y: 0}},
			LineSegment{P1: types.Point{X: 2, Y: 0}, P2: types.Point{X: 3, Y: 0}},
			types.Point{},
			false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SegmentsIntersection(tt.a, tt.b)
			if ok != tt.wantOK {
				t.Fatalf("SegmentsIntersection() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && (!almostEqual(got.X, tt.wantPoint.X) || !almostEqual(got.Y, tt.wantPoint.Y)) {
				t.Errorf("SegmentsIntersection() = %v, want %v", got, tt.wantPoint)
			}
		})
	}
}

func TestSegmentsIntersectionCollinearOverlap(t *testing.T) {
	a := LineSegment{P1: types.Point{X: 0, Y: 0}, P2: types.Point{X: 2, Y: 0}}
	b := LineSegment{P1: types.Point{X: 1, Y: 0}, P2: types.Point{X: 3, Y: 0}}
	p, ok := SegmentsIntersection(a, b)
	if !ok {
		t.Fatal("overlapping collinear segments reported as disjoint")
	}
	if PointSegmentDist(p, a) > epsilon || PointSegmentDist(p, b) > epsilon {
		t.Errorf("returned point %v not on both segments", p)
	}
}

func TestSegmentsDist(t *testing.T) {
	tests := []struct {
		name string
		a, b LineSegment
		want float64
	}{
		{
			"intersecting",
			LineSegment{P1: types.Point{X: 0, Y: 0}, P2: types.Point{X: 2, Y: 2}},
			LineSegment{P1: types.Point{X: 0, Y: 2}, P2: types.Point{X: 2, Y: 0}},
			0,
		},
		{
			"parallel horizontal",
			LineSegment{P1: types.Point{X: 0, Y: 0}, P2: types.Point{X: 2, Y: 0}},
			LineSegment{P1: types.Point{X: 0, Y: 3}, P2: types.Point{X: 2, Y: 3}},
			3,
		},
		{
			"endpoint to endpoint",
			LineSegment{P1: types.Point{X: 0, Y: 0}, P2: types.Point{X: 1, Y: 0}},
			LineSegment{P1: types.Point{X: 4, Y: 4}, P2: types.Point{X: 5, Y: 4}},
			5,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SegmentsDist(tt.a, tt.b); !almostEqual(got, tt.want) {
				t.Errorf("SegmentsDist() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestChain(t *testing.T) {
	stroke := types.Stroke{
		{X: 0, Y: 0, Time: 0},
		{X: 1, Y: 0, Time: 1},
		{X: 1, Y: 1, Time: 2},
	}
	chain := Chain(stroke)
	if len(chain) != 2 {
		t.Fatalf("Chain() has %d segments, want 2", len(chain))
	}
	if chain[0].P2 != chain[1].P1 {
		t.Errorf("chain segments not connected: %v, %v", chain[0], chain[1])
	}

	single := Chain(types.Stroke{{X: 3, Y: 4, Time: 0}})
	if len(single) != 1 || !single[0].isPoint() {
		t.Errorf("single-point Chain() = %v, want one degenerate segment", single)
	}
}

func TestCountIntersections(t *testing.T) {
	// A plus sign: the vertical bar crosses the horizontal bar once.
	horizontal := Chain(types.Stroke{{X: 0, Y: 1, Time: 0}, {X: 2, Y: 1, Time: 1}})
	vertical := Chain(types.Stroke{{X: 1, Y: 0, Time: 0}, {X: 1, Y: 2, Time: 1}})
	if got := horizontal.CountIntersections(vertical); got != 1 {
		t.Errorf("CountIntersections() = %d, want 1", got)
	}

	// Zigzag crossing a horizontal line twice.
	zigzag := Chain(types.Stroke{
		{X: 0, Y: 0, Time: 0},
		{X: 1, Y: 2, Time: 1},
		{X: 2, Y: 0, Time: 2},
	})
	line := Chain(types.Stroke{{X: 0, Y: 1, Time: 0}, {X: 2, Y: 1, Time: 1}})
	if got := zigzag.CountIntersections(line); got != 2 {
		t.Errorf("CountIntersections() = %d, want 2", got)
	}

	far := Chain(types.Stroke{{X: 10, Y: 10, Time: 0}, {X: 11, Y: 10, Time: 1}})
	if got := horizontal.CountIntersections(far); got != 0 {
		t.Errorf("CountIntersections() = %d, want 0", got)
	}
}

func TestCountSelfIntersections(t *testing.T) {
	// A figure that loops back over itself once.
	loop := Chain(types.Stroke{
		{X: 0, Y: 0, Time: 0},
		{X: 2, Y: 2, Time: 1},
		{X: 2, Y: 0, Time: 2},
		{X: 0, Y: 2, Time: 3},
	})
	if got := loop.CountSelfIntersections(); got != 1 {
		t.Errorf("CountSelfIntersections() = %d, want 1", got)
	}

	straight := Chain(types.Stroke{
		{X: 0, Y: 0, Time: 0},
		{X: 1, Y: 0, Time: 1},
		{X: 2, Y: 0, Time: 2},
	})
	if got := straight.CountSelfIntersections(); got != 0 {
		t.Errorf("CountSelfIntersections() = %d, want 0", got)
	}
}

func TestStrokesDist(t *testing.T) {
	a := types.Stroke{{X: 0, Y: 0, Time: 0}, {X: 1, Y: 0, Time: 1}}
	b := types.Stroke{{X: 0, Y: 2, Time: 0}, {X: 1, Y: 2, Time: 1}}
	if got := StrokesDist(a, b); !almostEqual(got, 2) {
		t.Errorf("StrokesDist() = %v, want 2", got)
	}

	crossing := types.Stroke{{X: 0.5, Y: -1, Time: 0}, {X: 0.5, Y: 1, Time: 1}}
	if got := StrokesDist(a, crossing); !almostEqual(got, 0) {
		t.Errorf("StrokesDist() = %v, want 0", got)
	}

	dot := types.Stroke{{X: 1, Y: 3, Time: 0}}
	if got := StrokesDist(a, dot); !almostEqual(got, 3) {
		t.Errorf("StrokesDist() = %v, want 3", got)
	}
}

func TestPerpendicularDist(t *testing.T) {
	got := PerpendicularDist(
		types.Point{X: 1, Y: 2},
		types.Point{X: 0, Y: 0},
		types.Point{X: 2, Y: 0},
	)
	if !almostEqual(got, 2) {
		t.Errorf("PerpendicularDist() = %v, want 2", got)
	}
}
