package color

import "math"

// Matrices from Björn Ottosson's Oklab definition.
var (
	linearToLMS = mat3{
		{0.4122214708, 0.5363325363, 0.0514459929},
		{0.2119034982, 0.6806995451, 0.1073969566},
		{0.0883024619, 0.2817188376, 0.6299787005},
	}
	lmsToLinear = mat3{
		{4.0767416621, -3.3077115913, 0.2309699292},
		{-1.2684380046, 2.6097574011, -0.3413193965},
		{-0.0041960863, -0.7034186147, 1.7076147010},
	}
	lmsToOklab = mat3{
		{0.2104542553, 0.7936177850, -0.0040720468},
		{1.9779984951, -2.4285922050, 0.4505937099},
		{0.0259040371, 0.7827717662, -0.8086757660},
	}
	oklabToLMS = mat3{
		{1, 0.3963377774, 0.2158037573},
		{1, -0.1055613458, -0.0638541728},
		{1, -0.0894841775, -1.2914855480},
	}
)

// LMS models the response of the long, medium and short cones.
type LMS struct {
	L, M, S float64
}

// LMS converts linear sRGB to cone response.
func (c LinearSRGB) LMS() LMS {
	l, m, s := linearToLMS.mul(c.R, c.G, c.B)
	return LMS{L: l, M: m, S: s}
}

func (c LMS) Linear() LinearSRGB {
	r, g, b := lmsToLinear.mul(c.L, c.M, c.S)
	return LinearSRGB{R: r, G: g, B: b}
}

// Oklab applies the cube-root nonlinearity and the second Oklab matrix.
func (c LMS) Oklab() Oklab {
	l, a, b := lmsToOklab.mul(math.Cbrt(c.L), math.Cbrt(c.M), math.Cbrt(c.S))
	return Oklab{L: l, A: a, B: b}
}

// Oklab is a perceptually uniform space, useful for blending hues.
type Oklab struct {
	L, A, B float64
}

// Oklab converts linear sRGB to Oklab.
func (c LinearSRGB) Oklab() Oklab {
	return c.LMS().Oklab()
}

// LMS inverts the Oklab matrix and cubes the result.
func (c Oklab) LMS() LMS {
	l, m, s := oklabToLMS.mul(c.L, c.A, c.B)
	return LMS{L: l * l * l, M: m * m * m, S: s * s * s}
}

func (c Oklab) Linear() LinearSRGB {
	return c.LMS().Linear()
}

// MixOklab blends a and b along a straight line in Oklab. The result is
// clamped back into the linear sRGB gamut.
func MixOklab(a, b LinearSRGB, t float64) LinearSRGB {
	if t <= 0 {
		return a
	}
	if t >= 1 {
		return b
	}
	x, y := a.Oklab(), b.Oklab()
	u := 1 - t
	return Oklab{
		L: x.L*u + y.L*t,
		A: x.A*u + y.A*t,
		B: x.B*u + y.B*t,
	}.Linear().Clamp()
}

// Okhsv is a hue/saturation/value model built on Oklab. Hue is in [0,1).
type Okhsv struct {
	H, S, V float64
}

// NewOkhsv wraps the hue and clamps saturation and value.
func NewOkhsv(h, s, v float64) Okhsv {
	return Okhsv{H: wrap01(h), S: clamp01(s), V: clamp01(v)}
}

// Oklab uses a chroma ceiling proportional to value.
func (c Okhsv) Oklab() Oklab {
	chroma := c.S * 0.4 * c.V
	angle := 2 * math.Pi * c.H
	return Oklab{L: c.V, A: chroma * math.Cos(angle), B: chroma * math.Sin(angle)}
}

func (c Okhsv) Linear() LinearSRGB {
	return c.Oklab().Linear()
}

// Okhsl is the hue/saturation/lightness sibling of Okhsv.
type Okhsl struct {
	H, S, L float64
}

// NewOkhsl wraps the hue and clamps saturation and lightness.
func NewOkhsl(h, s, l float64) Okhsl {
	return Okhsl{H: wrap01(h), S: clamp01(s), L: clamp01(l)}
}

// Oklab peaks chroma at mid lightness.
func (c Okhsl) Oklab() Oklab {
	maxC := 0.4 * c.L
	if c.L >= 0.5 {
		maxC = 0.4 * (1 - c.L)
	}
	chroma := c.S * maxC
	angle := 2 * math.Pi * c.H
	return Oklab{L: c.L, A: chroma * math.Cos(angle), B: chroma * math.Sin(angle)}
}

func (c Okhsl) Linear() LinearSRGB {
	return c.Oklab().Linear()
}
