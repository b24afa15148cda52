package debug

import (
	"image"
	"image/color"
	"strconv"

	"github.com/ironsheep/clockread/internal/imaging"
)

const handThickness = 2

var defaultOverlayColor = color.NRGBA{R: 255, A: 255}

// Render draws overlay on a copy of img. Neither img nor the overlay hands are
// modified.
func Render(img image.Image, overlay Overlay) *image.NRGBA {
	canvas := imaging.Canvas(img)

	c := overlay.Color
	if c == nil {
		c = defaultOverlayColor
	}

	for _, r := range overlay.Regions {
		imaging.DrawRect(canvas, r, c)
	}

	for i, h := range overlay.Hands {
		tip := h.Tip()
		imaging.DrawSegment(canvas, h.Origin, tip, c, handThickness)
		imaging.DrawLabel(canvas, tip.X+3, tip.Y+3, strconv.Itoa(i+1), color.White, c)
	}

	return canvas
}
