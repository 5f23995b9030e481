// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package geometry provides the 2D primitives the segmentation engine is
// built on: point and segment distances, segment intersections, polylines
// over strokes, and axis-aligned bounding boxes.
package geometry

import (
	"math"

	"github.com/pdiddy/ink-engine/pkg/types"
)

// Dist returns the Euclidean distance between two points.
func Dist(a, b types.Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// LineSegment is a segment between two points. Degenerate segments with
// identical endpoints are allowed and treated as points.
type LineSegment struct {
	P1, P2 types.Point
}

// isPoint reports whether the segment has zero extent.
func (s LineSegment) isPoint() bool {
	return s.P1.X == s.P2.X && s.P1.Y == s.P2.Y
}

// PointSegmentDist returns the distance from p to the segment: the length
// of the perpendicular onto the segment, clamped to the endpoints. A
// zero-length segment degrades to the point-to-point distance.
func PointSegmentDist(p types.Point, s LineSegment) float64 {
	dx := s.P2.X - s.P1.X
	dy := s.P2.Y - s.P1.Y
	if dx == 0 && dy == 0 {
		return Dist(p, s.P1)
	}

	t := ((p.X-s.P1.X)*dx + (p.Y-s.P1.Y)*dy) / (dx*dx + dy*dy)
	switch {
	case t < 0:
		return Dist(p, s.P1)
	case t > 1:
		return Dist(p, s.P2)
	default:
		near := types.Point{X: s.P1.X + t*dx, Y: s.P1.Y + t*dy}
		return Dist(p, near)
	}
}

// SegmentsDist returns the distance between two segments: 0 if they
// intersect, otherwise the minimum of the four point-to-segment distances
// between each endpoint and the other segment.
func SegmentsDist(a, b LineSegment) float64 {
	if _, ok := SegmentsIntersection(a, b); ok {
		return 0
	}
	min := PointSegmentDist(a.P1, b)
	if d := PointSegmentDist(a.P2, b); d < min {
		min = d
	}
	if d := PointSegmentDist(b.P1, a); d < min {
		min = d
	}
	if d := PointSegmentDist(b.P2, a); d < min {
		min = d
	}
	return min
}

// SegmentsIntersection returns a point where the two segments intersect and
// true, or the zero point and false if they do not. For overlapping
// collinear segments any shared point may be returned.
func SegmentsIntersection(a, b LineSegment) (types.Point, bool) {
	dx1 := a.P2.X - a.P1.X
	dy1 := a.P2.Y - a.P1.Y
	dx2 := b.P2.X - b.P1.X
	dy2 := b.P2.Y - b.P1.Y

	delta := dx1*dy2 - dy1*dx2
	if delta == 0 {
		return parallelIntersection(a, b, dx1, dy1, dx2, dy2)
	}

	// A genuine crossing of two non-parallel lines; solve for the common
	// point and check it lies on both segments.
	t := ((b.P1.X-a.P1.X)*dy2 - (b.P1.Y-a.P1.Y)*dx2) / delta
	u := ((b.P1.X-a.P1.X)*dy1 - (b.P1.Y-a.P1.Y)*dx1) / delta
	if t < 0 || t > 1 || u < 0 || u > 1 {
		return types.Point{}, false
	}
	return types.Point{X: a.P1.X + t*dx1, Y: a.P1.Y + t*dy1}, true
}

// parallelIntersection handles the delta == 0 cases: degenerate point
// segments, and collinear overlapping segments.
func parallelIntersection(a, b LineSegment, dx1, dy1, dx2, dy2 float64) (types.Point, bool) {
	if dx1 == 0 && dy1 == 0 {
		// Segment a is a point; it intersects b iff it lies on b.
		if PointSegmentDist(a.P1, b) == 0 {
			return a.P1, true
		}
		return types.Point{}, false
	}
	if dx2 == 0 && dy2 == 0 {
		if PointSegmentDist(b.P1, a) == 0 {
			return b.P1, true
		}
		return types.Point{}, false
	}

	// Both segments have extent. Check collinearity via the cross product
	// of a's direction with the offset between the segments.
	if cross := dx1*(b.P1.Y-a.P1.Y)-dy1*(b.P1.X-a.P1.X); cross != 0 {
		return types.Point{}, false
	}

	// Collinear: project onto the dominant axis and test interval overlap.
	project := func(p types.Point) float64 {
		if math.Abs(dx1) >= math.Abs(dy1) {
			return p.X
		}
		return p.Y
	}
	a1, a2 := project(a.P1), project(a.P2)
	if a1 > a2 {
		a1, a2 = a2, a1
		a.P1, a.P2 = a.P2, a.P1
	}
	b1, b2 := project(b.P1), project(b.P2)
	if b1 > b2 {
		b.P1, b.P2 = b.P2, b.P1
		b1, b2 = b2, b1
	}
	if b1 >= a1 && b1 <= a2 {
		return b.P1, true
	}
	if a1 >= b1 && a1 <= b2 {
		return a.P1, true
	}
	return types.Point{}, false
}

// PolygonalChain is the sequence of line segments connecting the points of
// a stroke in drawing order. A single-point stroke yields one degenerate
// zero-length segment so distance queries stay well defined.
type PolygonalChain []LineSegment

// Chain builds the polygonal chain of a stroke.
func Chain(s types.Stroke) PolygonalChain {
	if len(s) == 1 {
		p := s[0].Point()
		return PolygonalChain{{P1: p, P2: p}}
	}
	chain := make(PolygonalChain, 0, len(s)-1)
	for i := 1; i < len(s); i++ {
		chain = append(chain, LineSegment{P1: s[i-1].Point(), P2: s[i].Point()})
	}
	return chain
}

// CountIntersections counts the distinct points at which the two chains
// cross each other.
func (c PolygonalChain) CountIntersections(other PolygonalChain) int {
	seen := make(map[types.Point]bool)
	for _, s1 := range c {
		for _, s2 := range other {
			if p, ok := SegmentsIntersection(s1, s2); ok {
				seen[p] = true
			}
		}
	}
	return len(seen)
}

// CountSelfIntersections counts crossings between non-adjacent segments of
// the chain.
func (c PolygonalChain) CountSelfIntersections() int {
	count := 0
	for i := 0; i < len(c); i++ {
		for j := i + 2; j < len(c); j++ {
			if _, ok := SegmentsIntersection(c[i], c[j]); ok {
				count++
			}
		}
	}
	return count
}

// StrokesDist returns the minimum distance between two strokes, taken over
// all pairs of their chain segments. Single-point strokes degrade to point
// distances.
func StrokesDist(a, b types.Stroke) float64 {
	ca := Chain(a)
	cb := Chain(b)
	min := math.Inf(1)
	for _, s1 := range ca {
		for _, s2 := range cb {
			if d := SegmentsDist(s1, s2); d < min {
				min = d
			}
		}
	}
	return min
}

// PerpendicularDist returns the distance from p to the segment spanned by
// the first and last point of a stroke leg (p1, p2). A zero-length leg
// degrades to the point-to-point distance.
func PerpendicularDist(p, p1, p2 types.Point) float64 {
	return PointSegmentDist(p, LineSegment{P1: p1, P2: p2})
}
