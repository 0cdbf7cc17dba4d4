package canvas

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// ParseHexColor parses "#rgb", "#rrggbb" or "#rrggbbaa". The leading '#' is optional.
func ParseHexColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")

	switch len(hex) {
	case 3:
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]}) + "ff"
	case 6:
		hex += "ff"
	case 8:
	default:
		return color.RGBA{}, fmt.Errorf("invalid color %q: expected #rgb, #rrggbb or #rrggbbaa", s)
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}

	// image/color wants alpha-premultiplied channels
	a := uint32(v & 0xff)
	premul := func(c uint32) uint8 { return uint8(c * a / 0xff) }
	return color.RGBA{
		R: premul(uint32(v >> 24 & 0xff)),
		G: premul(uint32(v >> 16 & 0xff)),
		B: premul(uint32(v >> 8 & 0xff)),
		A: uint8(a),
	}, nil
}

// MustParseHexColor is ParseHexColor for package-level literals.
func MustParseHexColor(s string) color.RGBA {
	c, err := ParseHexColor(s)
	if err != nil {
		panic(err)
	}
	return c
}
