package color

import "math"

// DefaultGamma is the power curve many LED libraries use to compensate for
// the non-linear response of the eye on PWM driven emitters.
const DefaultGamma = 2.8

// GammaSRGB is an sRGB color encoded with a plain power curve instead of the
// piecewise sRGB function.
type GammaSRGB struct {
	R, G, B float64
	Gamma   float64
}

// NewGammaSRGB returns a gamma-encoded color clamped to [0,1]. A non-positive
// gamma selects DefaultGamma.
func NewGammaSRGB(r, g, b, gamma float64) GammaSRGB {
	if gamma <= 0 {
		gamma = DefaultGamma
	}
	return GammaSRGB{R: clamp01(r), G: clamp01(g), B: clamp01(b), Gamma: gamma}
}

func (c GammaSRGB) Linear() LinearSRGB {
	g := c.Gamma
	if g <= 0 {
		g = DefaultGamma
	}
	return LinearSRGB{
		R: GammaDecode(c.R, g),
		G: GammaDecode(c.G, g),
		B: GammaDecode(c.B, g),
	}
}

// GammaEncode returns c^(1/gamma) for c in [0,1].
func GammaEncode(c, gamma float64) float64 {
	if c <= 0 {
		return 0
	}
	return math.Pow(c, 1/gamma)
}

// GammaDecode returns c^gamma for c in [0,1].
func GammaDecode(c, gamma float64) float64 {
	if c <= 0 {
		return 0
	}
	return math.Pow(c, gamma)
}
