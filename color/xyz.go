package color

// sRGB primaries, D65 white point.
var (
	linearToXYZ = mat3{
		{0.4124564, 0.3575761, 0.1804375},
		{0.2126729, 0.7151522, 0.0721750},
		{0.0193339, 0.1191920, 0.9503041},
	}
	xyzToLinear = mat3{
		{3.2404542, -1.5371385, -0.4985314},
		{-0.9692660, 1.8760108, 0.0415560},
		{0.0556434, -0.2040259, 1.0572252},
	}
)

// XYZ is the CIE 1931 tristimulus space.
type XYZ struct {
	X, Y, Z float64
}

// XYZ converts linear sRGB to CIE XYZ.
func (c LinearSRGB) XYZ() XYZ {
	x, y, z := linearToXYZ.mul(c.R, c.G, c.B)
	return XYZ{X: x, Y: y, Z: z}
}

func (c XYZ) Linear() LinearSRGB {
	r, g, b := xyzToLinear.mul(c.X, c.Y, c.Z)
	return LinearSRGB{R: r, G: g, B: b}
}
