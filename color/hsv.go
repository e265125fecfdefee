package color

import "math"

// HSV is hue/saturation/value over gamma-encoded sRGB. All three components
// are in [0,1]; hue wraps.
type HSV struct {
	H, S, V float64
}

// NewHSV wraps the hue and clamps saturation and value.
func NewHSV(h, s, v float64) HSV {
	return HSV{H: wrap01(h), S: clamp01(s), V: clamp01(v)}
}

// SRGB converts back to gamma-encoded sRGB.
func (c HSV) SRGB() SRGB {
	h := wrap01(c.H) * 6
	i := int(math.Floor(h))
	f := h - float64(i)
	p := c.V * (1 - c.S)
	q := c.V * (1 - f*c.S)
	t := c.V * (1 - (1-f)*c.S)
	switch i % 6 {
	case 0:
		return SRGB{c.V, t, p}
	case 1:
		return SRGB{q, c.V, p}
	case 2:
		return SRGB{p, c.V, t}
	case 3:
		return SRGB{p, q, c.V}
	case 4:
		return SRGB{t, p, c.V}
	default:
		return SRGB{c.V, p, q}
	}
}

func (c HSV) Linear() LinearSRGB {
	return c.SRGB().Linear()
}
