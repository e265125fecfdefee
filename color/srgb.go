package color

import "math"

// SRGB is a gamma-encoded sRGB color, the space most color pickers and hex
// codes live in. Components are in [0,1].
type SRGB struct {
	R, G, B float64
}

// NewSRGB returns an sRGB color with every component clamped to [0,1].
func NewSRGB(r, g, b float64) SRGB {
	return SRGB{R: clamp01(r), G: clamp01(g), B: clamp01(b)}
}

// Linear removes the sRGB transfer function.
func (c SRGB) Linear() LinearSRGB {
	return LinearSRGB{
		R: SRGBToLinear(c.R),
		G: SRGBToLinear(c.G),
		B: SRGBToLinear(c.B),
	}
}

// HSV converts to hue/saturation/value with hue in [0,1).
func (c SRGB) HSV() HSV {
	max := math.Max(c.R, math.Max(c.G, c.B))
	min := math.Min(c.R, math.Min(c.G, c.B))
	d := max - min

	var h float64
	switch {
	case d == 0:
		h = 0
	case max == c.R:
		h = math.Mod((c.G-c.B)/d, 6)
	case max == c.G:
		h = (c.B-c.R)/d + 2
	default:
		h = (c.R-c.G)/d + 4
	}

	var s float64
	if max > 0 {
		s = d / max
	}
	return HSV{H: wrap01(h / 6), S: s, V: max}
}

// SRGBToLinear decodes one gamma-encoded sRGB component.
func SRGBToLinear(c float64) float64 {
	if c <= 0.04045 {
		return c / 12.92
	}
	return math.Pow((c+0.055)/1.055, 2.4)
}

// LinearToSRGB encodes one linear component with the sRGB transfer function.
func LinearToSRGB(c float64) float64 {
	if c <= 0.0031308 {
		return c * 12.92
	}
	return 1.055*math.Pow(c, 1/2.4) - 0.055
}
