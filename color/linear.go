package color

import "math"

// LinearSRGB holds sRGB primaries in linear light, proportional to emitted
// intensity. Brightness, correction and blending all happen here.
type LinearSRGB struct {
	R, G, B float64
}

// NewLinearSRGB returns a linear color with every component clamped to [0,1].
func NewLinearSRGB(r, g, b float64) LinearSRGB {
	return LinearSRGB{R: clamp01(r), G: clamp01(g), B: clamp01(b)}
}

// Black is the all-off color.
var Black = LinearSRGB{}

func (c LinearSRGB) Linear() LinearSRGB { return c }

// SRGB applies the sRGB transfer function.
func (c LinearSRGB) SRGB() SRGB {
	return SRGB{
		R: LinearToSRGB(c.R),
		G: LinearToSRGB(c.G),
		B: LinearToSRGB(c.B),
	}
}

// Gamma encodes with a plain power curve.
func (c LinearSRGB) Gamma(gamma float64) GammaSRGB {
	return GammaSRGB{
		R:     GammaEncode(c.R, gamma),
		G:     GammaEncode(c.G, gamma),
		B:     GammaEncode(c.B, gamma),
		Gamma: gamma,
	}
}

// Clamp limits every component to [0,1].
func (c LinearSRGB) Clamp() LinearSRGB {
	return NewLinearSRGB(c.R, c.G, c.B)
}

// Scale multiplies every component by k.
func (c LinearSRGB) Scale(k float64) LinearSRGB {
	return LinearSRGB{R: c.R * k, G: c.G * k, B: c.B * k}
}

// RGBW moves the common part of R, G and B onto a white channel. The total
// light output is unchanged.
func (c LinearSRGB) RGBW() LinearSRGBW {
	c = c.Clamp()
	w := math.Min(c.R, math.Min(c.G, c.B))
	return LinearSRGBW{R: c.R - w, G: c.G - w, B: c.B - w, W: w}
}

// LinearSRGBW is linear sRGB with a dedicated white emitter.
type LinearSRGBW struct {
	R, G, B, W float64
}

// NewLinearSRGBW returns a linear RGBW color clamped to [0,1].
func NewLinearSRGBW(r, g, b, w float64) LinearSRGBW {
	return LinearSRGBW{R: clamp01(r), G: clamp01(g), B: clamp01(b), W: clamp01(w)}
}

// Linear folds the white channel back into the primaries.
func (c LinearSRGBW) Linear() LinearSRGB {
	return NewLinearSRGB(c.R+c.W, c.G+c.W, c.B+c.W)
}

// Mix blends a and b in linear light. t=0 yields a, t=1 yields b.
func Mix(a, b LinearSRGB, t float64) LinearSRGB {
	if t <= 0 {
		return a
	}
	if t >= 1 {
		return b
	}
	u := 1 - t
	return LinearSRGB{
		R: a.R*u + b.R*t,
		G: a.G*u + b.G*t,
		B: a.B*u + b.B*t,
	}
}
