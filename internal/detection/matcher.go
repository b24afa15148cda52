package detection

import (
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/parallel"

	"github.com/ironsheep/clockread/internal/imaging"
)

// MatchCandidate is the scan result for one angle.
type MatchCandidate struct {
	// Score is the number of sampled pixels that matched the hand color.
	Score int `json:"score"`

	// AngleDeg is the scanned direction, clockwise from 12 o'clock.
	AngleDeg float64 `json:"angle_deg"`

	// Origin is the dial center the ray starts from.
	Origin imaging.Point `json:"origin"`

	// Reach is the outermost radius at which a matching pixel was found,
	// or 0 if none matched.
	Reach int `json:"reach"`
}

// FindLine scans img radially around center and scores every direction.
//
// Angles run over i*angleStepDeg for i in [0, floor(360/angleStepDeg)) and radii
// over [minRadius, maxRadius). A sample counts when its 8-bit RGBA channels equal
// target exactly; samples outside the image are skipped. The result holds one
// candidate per angle, in scan order. It is empty if angleStepDeg <= 0 or the
// radius range is empty.
func FindLine(img image.Image, center imaging.Point, angleStepDeg float64, minRadius, maxRadius int, target color.Color) []MatchCandidate {
	if angleStepDeg <= 0 || maxRadius <= minRadius {
		return nil
	}
	if minRadius < 0 {
		minRadius = 0
	}

	steps := int(360 / angleStepDeg)

	match := pixelMatcher(img, imaging.ToRGBA8(target))
	bounds := img.Bounds()
	candidates := make([]MatchCandidate, steps)

	parallel.Line(steps, func(start, end int) {
		for i := start; i < end; i++ {
			angle := float64(i) * angleStepDeg
			ray := imaging.NewRay(angle, center, imaging.DialOffsetDeg)

			c := MatchCandidate{AngleDeg: angle, Origin: center}
			for r := minRadius; r < maxRadius; r++ {
				p := ray.At(r).Pt()
				if !p.In(bounds) {
					continue
				}
				if match(p.X, p.Y) {
					c.Score++
					c.Reach = r
				}
			}
			candidates[i] = c
		}
	})

	return candidates
}

// pixelMatcher returns an exact-color predicate for in-bounds coordinates.
func pixelMatcher(img image.Image, want imaging.RGBAColor) func(x, y int) bool {
	if gray, ok := img.(*image.Gray); ok {
		if !want.IsGray() {
			return func(int, int) bool { return false }
		}
		return func(x, y int) bool {
			return gray.Pix[gray.PixOffset(x, y)] == want.R
		}
	}
	return func(x, y int) bool {
		return imaging.ToRGBA8(img.At(x, y)) == want
	}
}
