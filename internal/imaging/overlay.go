package imaging

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
)

// Canvas returns an editable NRGBA copy of img. The source is left untouched.
func Canvas(img image.Image) *image.NRGBA {
	return imaging.Clone(img)
}

// DrawSegment draws a straight line from a to b, thickness pixels wide.
// Pixels outside the canvas are skipped.
func DrawSegment(img *image.NRGBA, a, b Point, c color.Color, thickness int) {
	if thickness < 1 {
		thickness = 1
	}
	dx := float64(b.X - a.X)
	dy := float64(b.Y - a.Y)
	steps := int(math.Max(math.Abs(dx), math.Abs(dy)))
	half := thickness / 2

	for i := 0; i <= steps; i++ {
		t := 0.0
		if steps > 0 {
			t = float64(i) / float64(steps)
		}
		x := int(math.Round(float64(a.X) + t*dx))
		y := int(math.Round(float64(a.Y) + t*dy))
		for oy := -half; oy < thickness-half; oy++ {
			for ox := -half; ox < thickness-half; ox++ {
				setPixel(img, x+ox, y+oy, c)
			}
		}
	}
}

// DrawRect draws the outline of r.
func DrawRect(img *image.NRGBA, r image.Rectangle, c color.Color) {
	for x := r.Min.X; x < r.Max.X; x++ {
		setPixel(img, x, r.Min.Y, c)
		setPixel(img, x, r.Max.Y-1, c)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		setPixel(img, r.Min.X, y, c)
		setPixel(img, r.Max.X-1, y, c)
	}
}

// DrawLabel draws a short label at (x, y) using a 3x5 pixel font.
// Only digits and ':' '.' '-' are rendered; other characters leave a gap.
func DrawLabel(img *image.NRGBA, x, y int, text string, fg, bg color.Color) {
	glyphs := map[rune][]string{
		'0': {"111", "101", "101", "101", "111"},
		'1': {"010", "110", "010", "010", "111"},
		'2': {"111", "001", "111", "100", "111"},
		'3': {"111", "001", "111", "001", "111"},
		'4': {"101", "101", "111", "001", "001"},
		'5': {"111", "100", "111", "001", "111"},
		'6': {"111", "100", "111", "101", "111"},
		'7': {"111", "001", "001", "001", "001"},
		'8': {"111", "101", "111", "101", "111"},
		'9': {"111", "101", "111", "001", "111"},
		':': {"000", "010", "000", "010", "000"},
		'.': {"000", "000", "000", "000", "010"},
		'-': {"000", "000", "111", "000", "000"},
	}

	charWidth := 4
	labelWidth := len([]rune(text)) * charWidth
	labelHeight := 7

	for dy := -1; dy < labelHeight; dy++ {
		for dx := -1; dx < labelWidth; dx++ {
			setPixel(img, x+dx, y+dy, bg)
		}
	}

	cx := x
	for _, ch := range text {
		glyph, ok := glyphs[ch]
		if !ok {
			cx += charWidth
			continue
		}
		for row, line := range glyph {
			for col, pixel := range line {
				if pixel == '1' {
					setPixel(img, cx+col, y+row, fg)
				}
			}
		}
		cx += charWidth
	}
}

func setPixel(img *image.NRGBA, x, y int, c color.Color) {
	if image.Pt(x, y).In(img.Bounds()) {
		img.Set(x, y, c)
	}
}
