// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the shared value types of the ink-engine: strokes,
// recordings, segmentations, classifier contracts, and configuration.
package types

// Point is a real-valued 2D coordinate.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// TimedPoint is a Point stamped with a time in milliseconds since an
// arbitrary epoch.
type TimedPoint struct {
	X    float64 `json:"x" yaml:"x"`
	Y    float64 `json:"y" yaml:"y"`
	Time int64   `json:"time" yaml:"time"`
}

// Point returns the spatial component of the timed point.
func (p TimedPoint) Point() Point {
	return Point{X: p.X, Y: p.Y}
}

// Stroke is one continuous pen-down trajectory: a non-empty, time-sorted
// sequence of points. Callers must sort points by time before handing a
// stroke to the engine.
type Stroke []TimedPoint

// Recording is the full input: an ordered sequence of strokes. Stroke
// indices (0-based positions in the recording) are stable for the lifetime
// of the recording, which is treated as immutable by the engine.
type Recording []Stroke

// Select returns the strokes at the given indices, in the given order.
func (r Recording) Select(indices []int) Recording {
	out := make(Recording, 0, len(indices))
	for _, i := range indices {
		out = append(out, r[i])
	}
	return out
}
