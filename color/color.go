// Package color holds the value types for every color space the LED pipeline
// understands and the pure conversions between them.
//
// All values are immutable float64 tuples. Linear sRGB is the hub space:
// every other space converts to it, and the output pipeline only consumes it.
package color

import "math"

// Color is any color value that can be expressed in linear sRGB.
type Color interface {
	Linear() LinearSRGB
}

// Linearize converts a slice of colors of any space into linear sRGB.
func Linearize[C Color](pixels []C) []LinearSRGB {
	out := make([]LinearSRGB, len(pixels))
	for i, c := range pixels {
		out[i] = c.Linear()
	}
	return out
}

func clamp01(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// wrap01 folds a hue into [0,1).
func wrap01(h float64) float64 {
	h = math.Mod(h, 1)
	if h < 0 {
		h++
	}
	return h
}

type mat3 [3][3]float64

func (m *mat3) mul(a, b, c float64) (float64, float64, float64) {
	return m[0][0]*a + m[0][1]*b + m[0][2]*c,
		m[1][0]*a + m[1][1]*b + m[1][2]*c,
		m[2][0]*a + m[2][1]*b + m[2][2]*c
}
