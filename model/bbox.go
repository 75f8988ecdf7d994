package model

import (
	"fmt"
)

// Latitude/longitude extremes, in decimal degrees.
const (
	MaxLat Degrees = 90.0
	MaxLon Degrees = 180.0
	MinLat Degrees = -90.0
	MinLon Degrees = -180.0
)

// BoundingBox is a rectangular lat/lon envelope, expressed as its four
// edges rather than a corner-plus-size pair: the HeaderBBox this maps to on
// the wire is stored the same way (Top/Left/Bottom/Right, each an
// independent coordinate), and OSM extracts are routinely non-square, so
// there's no natural "width/height" to derive one edge from another.
type BoundingBox struct {
	Top    Degrees
	Left   Degrees
	Bottom Degrees
	Right  Degrees
}

// InitialBoundingBox returns an inverted, empty envelope: every corner sits
// at the opposite extreme so that the first call to ExpandWithLatLng or
// ExpandWithBoundingBox pulls all four edges in to that first point, rather
// than leaving stale zero-value edges from an unexpanded box.
func InitialBoundingBox() *BoundingBox {
	return &BoundingBox{
		Top:    MinLat,
		Left:   MaxLon,
		Bottom: MaxLat,
		Right:  MinLon,
	}
}

// EqualWithin reports whether b and o agree on all four edges to within eps.
func (b *BoundingBox) EqualWithin(o *BoundingBox, eps Epsilon) bool {
	return b.Left.EqualWithin(o.Left, eps) &&
		b.Right.EqualWithin(o.Right, eps) &&
		b.Top.EqualWithin(o.Top, eps) &&
		b.Bottom.EqualWithin(o.Bottom, eps)
}

// Contains reports whether the point (lat, lng) falls within b, edges
// inclusive.
func (b *BoundingBox) Contains(lat Degrees, lng Degrees) bool {
	return b.Left <= lng && lng <= b.Right && b.Bottom <= lat && lat <= b.Top
}

// ExpandWithLatLng grows b, if needed, so that (lat, lng) lies within it.
func (b *BoundingBox) ExpandWithLatLng(lat, lng Degrees) {
	b.Top = maxDegrees(b.Top, lat)
	b.Bottom = minDegrees(b.Bottom, lat)
	b.Left = minDegrees(b.Left, lng)
	b.Right = maxDegrees(b.Right, lng)
}

// ExpandWithBoundingBox grows b, if needed, so that it fully encloses bbox.
func (b *BoundingBox) ExpandWithBoundingBox(bbox *BoundingBox) {
	b.Top = maxDegrees(b.Top, bbox.Top)
	b.Bottom = minDegrees(b.Bottom, bbox.Bottom)
	b.Left = minDegrees(b.Left, bbox.Left)
	b.Right = maxDegrees(b.Right, bbox.Right)
}

func maxDegrees(a, b Degrees) Degrees {
	if a > b {
		return a
	}

	return b
}

func minDegrees(a, b Degrees) Degrees {
	if a < b {
		return a
	}

	return b
}

// RawNanodegrees returns the box's four edges quantized the way a
// HeaderBBox is always encoded on the wire: as raw 1e-9-degree integers,
// independent of whatever granularity/offset the surrounding PrimitiveBlock
// uses for its own coordinates.
func (b *BoundingBox) RawNanodegrees() (top, left, bottom, right int64) {
	return b.Top.Coordinate(), b.Left.Coordinate(), b.Bottom.Coordinate(), b.Right.Coordinate()
}

func (b *BoundingBox) String() string {
	return fmt.Sprintf("[(%s, %s) (%s, %s)]",
		ftoa(float64(b.Top)), ftoa(float64(b.Left)),
		ftoa(float64(b.Bottom)), ftoa(float64(b.Right)))
}
