package color

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ParseHex parses "#rgb" or "#rrggbb" into gamma-encoded sRGB. The leading
// '#' is optional.
func ParseHex(s string) (SRGB, error) {
	c, err := colorful.Hex("#" + strings.TrimPrefix(s, "#"))
	if err != nil {
		return SRGB{}, fmt.Errorf("parse color %q: %w", s, err)
	}
	return NewSRGB(c.R, c.G, c.B), nil
}

// Hex formats c as "#rrggbb".
func (c SRGB) Hex() string {
	return colorful.Color{R: c.R, G: c.G, B: c.B}.Clamped().Hex()
}
