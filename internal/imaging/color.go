package imaging

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ParseHexColor parses "#RGB", "#RRGGBB" or "#RRGGBBAA" (the leading '#' is
// optional). Colors without an alpha component are opaque.
func ParseHexColor(hex string) (color.NRGBA, error) {
	s := strings.TrimSpace(hex)
	if s == "" {
		return color.NRGBA{}, fmt.Errorf("empty color string")
	}
	if s[0] != '#' {
		s = "#" + s
	}

	alpha := uint8(255)
	switch len(s) {
	case 4, 7:
	case 9:
		a, err := strconv.ParseUint(s[7:], 16, 8)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid alpha in color %q: %w", hex, err)
		}
		alpha = uint8(a)
		s = s[:7]
	default:
		return color.NRGBA{}, fmt.Errorf("invalid hex color length: %q", hex)
	}

	c, err := colorful.Hex(s)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", hex, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: alpha}, nil
}

// FormatHexColor renders c as "#rrggbb", or "#rrggbbaa" when c is not opaque.
func FormatHexColor(c color.NRGBA) string {
	s := colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}.Hex()
	if c.A != 255 {
		s += fmt.Sprintf("%02x", c.A)
	}
	return s
}
