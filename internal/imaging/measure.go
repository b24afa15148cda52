package imaging

import (
	"image"
	"math"
)

// DialOffsetDeg rotates the polar zero reference from the positive X axis to
// 12 o'clock, so that angles read like a clock face.
const DialOffsetDeg = 90.0

// Point represents a 2D pixel coordinate
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Pt converts p to an image.Point.
func (p Point) Pt() image.Point {
	return image.Pt(p.X, p.Y)
}

// Ray is a fixed direction out of a center point. Sampling many radii along
// the same ray reuses one sine/cosine evaluation.
type Ray struct {
	center Point
	cos    float64
	sin    float64
}

// NewRay returns the ray at angleDeg (+offsetDeg) around center.
func NewRay(angleDeg float64, center Point, offsetDeg float64) Ray {
	rad := (angleDeg + offsetDeg) * math.Pi / 180
	return Ray{center: center, cos: math.Cos(rad), sin: math.Sin(rad)}
}

// At returns the pixel at the given radius along the ray, rounded to the
// nearest pixel.
func (r Ray) At(radius int) Point {
	return Point{
		X: int(math.Round(float64(r.center.X) - float64(radius)*r.cos)),
		Y: int(math.Round(float64(r.center.Y) - float64(radius)*r.sin)),
	}
}

// PolarToCartesian converts a polar position around center to pixel coordinates.
//
//	x = round(cx - r*cos(angle+offset))
//	y = round(cy - r*sin(angle+offset))
//
// With offsetDeg = DialOffsetDeg, 0 degrees points straight up and 90 degrees
// points right. The result may lie outside the image; callers bounds-check.
func PolarToCartesian(angleDeg float64, radius int, center Point, offsetDeg float64) Point {
	return NewRay(angleDeg, center, offsetDeg).At(radius)
}

// MicroDegreesPerTurn is one full revolution in micro-degrees.
const MicroDegreesPerTurn = 360_000_000

// MicroDegrees maps any angle in degrees to whole micro-degrees in
// [0, MicroDegreesPerTurn). Angles one or more turns apart map to the same value.
func MicroDegrees(deg float64) int64 {
	u := int64(math.Round(deg*1e6)) % MicroDegreesPerTurn
	if u < 0 {
		u += MicroDegreesPerTurn
	}
	return u
}

// NormalizeAngle maps any angle in degrees into [0, 360), snapped to whole
// micro-degrees.
func NormalizeAngle(deg float64) float64 {
	return float64(MicroDegrees(deg)) / 1e6
}
