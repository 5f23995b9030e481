// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package geometry

import "github.com/pdiddy/ink-engine/pkg/types"

// BoundingBox is an axis-aligned rectangle around a point set, carrying the
// time extent of the points alongside the spatial one.
type BoundingBox struct {
	MinX, MinY float64
	MaxX, MaxY float64
	MinT, MaxT int64
}

// Bounds returns the bounding box of a non-empty stroke.
func Bounds(s types.Stroke) BoundingBox {
	bb := BoundingBox{
		MinX: s[0].X, MaxX: s[0].X,
		MinY: s[0].Y, MaxY: s[0].Y,
		MinT: s[0].Time, MaxT: s[0].Time,
	}
	for _, p := range s[1:] {
		if p.X < bb.MinX {
			bb.MinX = p.X
		}
		if p.X > bb.MaxX {
			bb.MaxX = p.X
		}
		if p.Y < bb.MinY {
			bb.MinY = p.Y
		}
		if p.Y > bb.MaxY {
			bb.MaxY = p.Y
		}
		if p.Time < bb.MinT {
			bb.MinT = p.Time
		}
		if p.Time > bb.MaxT {
			bb.MaxT = p.Time
		}
	}
	return bb
}

// BoundsAll returns the bounding box around all strokes of the recording.
// The recording must contain at least one stroke with at least one point.
func BoundsAll(r types.Recording) BoundingBox {
	bb := Bounds(r[0])
	for _, s := range r[1:] {
		bb = bb.Union(Bounds(s))
	}
	return bb
}

// Union returns the smallest box containing both boxes.
func (b BoundingBox) Union(o BoundingBox) BoundingBox {
	out := b
	if o.MinX < out.MinX {
		out.MinX = o.MinX
	}
	if o.MaxX > out.MaxX {
		out.MaxX = o.MaxX
	}
	if o.MinY < out.MinY {
		out.MinY = o.MinY
	}
	if o.MaxY > out.MaxY {
		out.MaxY = o.MaxY
	}
	if o.MinT < out.MinT {
		out.MinT = o.MinT
	}
	if o.MaxT > out.MaxT {
		out.MaxT = o.MaxT
	}
	return out
}

// Width returns the horizontal extent of the box.
func (b BoundingBox) Width() float64 { return b.MaxX - b.MinX }

// Height returns the vertical extent of the box.
func (b BoundingBox) Height() float64 { return b.MaxY - b.MinY }

// Area returns width times height. A box around a single point has area 0.
func (b BoundingBox) Area() float64 { return b.Width() * b.Height() }

// LargestDimension returns the larger of width and height.
func (b BoundingBox) LargestDimension() float64 {
	if w, h := b.Width(), b.Height(); w > h {
		return w
	}
	return b.Height()
}

// Center returns the center point of the box.
func (b BoundingBox) Center() types.Point {
	return types.Point{X: (b.MinX + b.MaxX) / 2, Y: (b.MinY + b.MaxY) / 2}
}

// Grow returns the box expanded by the given fraction of its own width and
// height, centered. Grow(0.2) adds 10% of the width on each side.
func (b BoundingBox) Grow(fraction float64) BoundingBox {
	dw := b.Width() * fraction / 2
	dh := b.Height() * fraction / 2
	return BoundingBox{
		MinX: b.MinX - dw, MaxX: b.MaxX + dw,
		MinY: b.MinY - dh, MaxY: b.MaxY + dh,
		MinT: b.MinT, MaxT: b.MaxT,
	}
}

// Intersects reports whether the two boxes overlap, bounds inclusive.
func (b BoundingBox) Intersects(o BoundingBox) bool {
	return b.MinX <= o.MaxX && b.MaxX >= o.MinX &&
		b.MinY <= o.MaxY && b.MaxY >= o.MinY
}
