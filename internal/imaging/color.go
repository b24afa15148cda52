package imaging

import (
	"fmt"
	"image/color"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// RGBAColor is an 8-bit RGBA color used for exact pixel comparisons.
//
// Components are non-premultiplied and range from 0 to 255. Two pixels "match"
// in the hand matcher only if all four components are equal.
type RGBAColor struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"`
}

// ToRGBA8 converts any color to its 8-bit non-premultiplied components.
func ToRGBA8(c color.Color) RGBAColor {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return RGBAColor{R: n.R, G: n.G, B: n.B, A: n.A}
}

// RGBA implements color.Color.
func (c RGBAColor) RGBA() (r, g, b, a uint32) {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}.RGBA()
}

// Hex returns the color as "#RRGGBB" (alpha excluded).
func (c RGBAColor) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// IsGray reports whether the color is an opaque shade of gray, which is the only
// kind of color a binary silhouette can contain.
func (c RGBAColor) IsGray() bool {
	return c.R == c.G && c.G == c.B && c.A == 255
}

// SameColor reports whether a and b have identical 8-bit RGBA channels.
func SameColor(a, b color.Color) bool {
	return ToRGBA8(a) == ToRGBA8(b)
}

// ParseColor parses a hex color such as "#FFFFFF", "ffffff" or "#fff".
// The result is always opaque.
func ParseColor(hex string) (RGBAColor, error) {
	s := strings.TrimSpace(hex)
	if s == "" {
		return RGBAColor{}, fmt.Errorf("empty color string")
	}
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	if len(s) != 4 && len(s) != 7 {
		return RGBAColor{}, fmt.Errorf("invalid hex color %q", hex)
	}

	c, err := colorful.Hex(s)
	if err != nil {
		return RGBAColor{}, fmt.Errorf("invalid hex color %q: %w", hex, err)
	}
	r, g, b := c.RGB255()
	return RGBAColor{R: r, G: g, B: b, A: 255}, nil
}
