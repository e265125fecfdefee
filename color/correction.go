package color

import "math"

// Correction scales each primary to compensate for emitters that are not
// equally bright. It is applied in linear space after brightness.
type Correction struct {
	Red, Green, Blue float64
}

var (
	NoCorrection = Correction{Red: 1, Green: 1, Blue: 1}

	// 0xFFB0F0
	TypicalSMD5050  = Correction{Red: 1, Green: 0xB0 / 255.0, Blue: 0xF0 / 255.0}
	TypicalLEDStrip = TypicalSMD5050
	// 0xFFE08C
	TypicalPixelString = Correction{Red: 1, Green: 0xE0 / 255.0, Blue: 0x8C / 255.0}
)

// Apply multiplies each channel by its factor.
func (k Correction) Apply(c LinearSRGB) LinearSRGB {
	return LinearSRGB{R: c.R * k.Red, G: c.G * k.Green, B: c.B * k.Blue}
}

// IsZero reports whether k is the zero value. The zero value is treated as
// NoCorrection by the output pipeline so callers may leave it unset.
func (k Correction) IsZero() bool {
	return k == Correction{}
}

// Quantize converts a normalized component into an unsigned word of the given
// bit width, clamping and rounding half up.
func Quantize(v float64, bits uint) uint32 {
	max := float64(uint32(1)<<bits - 1)
	return uint32(math.Floor(clamp01(v)*max + 0.5))
}
