package pdf

import (
	"fmt"
	"strconv"
	"strings"
)

// Color is an RGB color with 0-255 channels.
type Color struct {
	R, G, B int
}

// Named colors used by the invoice layout.
var (
	Black      = Color{0, 0, 0}
	White      = Color{255, 255, 255}
	WhiteSmoke = Color{245, 245, 245}
	Beige      = Color{245, 245, 220}
	Gray       = Color{100, 100, 100}
)

// ParseHexColor parses "#RRGGBB", "RRGGBB" or the short "#RGB" form.
func ParseHexColor(s string) (Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return Color{}, fmt.Errorf("pdf: invalid color %q", s)
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("pdf: invalid color %q", s)
	}
	return Color{
		R: int(v >> 16 & 0xff),
		G: int(v >> 8 & 0xff),
		B: int(v & 0xff),
	}, nil
}

// Hex returns the color as "#rrggbb".
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
