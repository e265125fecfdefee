package color_test

import (
	"math"
	"strconv"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/ledwire/color"
)

const tol = 1e-5

// samples covers both transfer-function segments and the gamut corners.
var samples = []color.LinearSRGB{
	{0, 0, 0},
	{1, 1, 1},
	{1, 0, 0},
	{0, 1, 0},
	{0, 0, 1},
	{0.002, 0.003, 0.0031308},
	{0.5, 0.25, 0.125},
	{0.9, 0.01, 0.73},
	{0.18, 0.18, 0.18},
}

func assertLinear(t *testing.T, want, got color.LinearSRGB, delta float64) {
	t.Helper()
	assert.InDelta(t, want.R, got.R, delta, "red")
	assert.InDelta(t, want.G, got.G, delta, "green")
	assert.InDelta(t, want.B, got.B, delta, "blue")
}

func TestSRGBTransferRoundTrip(t *testing.T) {
	for i := 0; i <= 1000; i++ {
		x := float64(i) / 1000
		assert.InDelta(t, x, color.SRGBToLinear(color.LinearToSRGB(x)), tol, "linear %v", x)
		assert.InDelta(t, x, color.LinearToSRGB(color.SRGBToLinear(x)), tol, "srgb %v", x)
	}
}

func TestSRGBTransferSegments(t *testing.T) {
	assert.InDelta(t, 0.04045/12.92, color.SRGBToLinear(0.04045), 1e-12)
	assert.InDelta(t, 0.0031308*12.92, color.LinearToSRGB(0.0031308), 1e-12)
	assert.InDelta(t, 0.21404114, color.SRGBToLinear(0.5), 1e-6)
	assert.Equal(t, 1.0, math.Round(color.SRGBToLinear(1)*1e9)/1e9)
}

func TestSRGBMatchesColorful(t *testing.T) {
	for k, c := range samples {
		t.Run("sample"+strconv.Itoa(k), func(t *testing.T) {
			s := c.SRGB()
			r, g, b := colorful.Color{R: s.R, G: s.G, B: s.B}.LinearRgb()
			assertLinear(t, color.LinearSRGB{r, g, b}, s.Linear(), tol)
		})
	}
}

func TestGammaRoundTrip(t *testing.T) {
	for _, gamma := range []float64{1.8, 2.2, color.DefaultGamma} {
		for _, c := range samples {
			got := c.Gamma(gamma).Linear()
			assertLinear(t, c, got, tol)
		}
	}
	assert.InDelta(t, math.Pow(0.5, 1/2.8), color.GammaEncode(0.5, 2.8), 1e-12)
	assert.InDelta(t, math.Pow(0.5, 2.8), color.GammaDecode(0.5, 2.8), 1e-12)
	assert.Equal(t, color.DefaultGamma, color.NewGammaSRGB(1, 1, 1, 0).Gamma)
}

func TestXYZRoundTrip(t *testing.T) {
	for _, c := range samples {
		assertLinear(t, c, c.XYZ().Linear(), tol)
	}
	white := color.LinearSRGB{1, 1, 1}.XYZ()
	assert.InDelta(t, 0.95047, white.X, 1e-4)
	assert.InDelta(t, 1.0, white.Y, 1e-4)
	assert.InDelta(t, 1.08883, white.Z, 1e-4)
}

func TestOklabRoundTrip(t *testing.T) {
	for _, c := range samples {
		assertLinear(t, c, c.Oklab().Linear(), tol)
		assertLinear(t, c, c.LMS().Linear(), tol)
	}
}

func TestOklabReferenceValues(t *testing.T) {
	white := color.LinearSRGB{1, 1, 1}.Oklab()
	assert.InDelta(t, 1.0, white.L, 1e-4)
	assert.InDelta(t, 0.0, white.A, 1e-4)
	assert.InDelta(t, 0.0, white.B, 1e-4)

	for _, c := range samples {
		s := c.SRGB()
		l, a, b := colorful.Color{R: s.R, G: s.G, B: s.B}.OkLab()
		got := c.Oklab()
		assert.InDelta(t, l, got.L, 1e-3)
		assert.InDelta(t, a, got.A, 1e-3)
		assert.InDelta(t, b, got.B, 1e-3)
	}
}

func TestHSV(t *testing.T) {
	tests := []struct {
		name string
		in   color.SRGB
		want color.HSV
	}{
		{"red", color.SRGB{1, 0, 0}, color.HSV{0, 1, 1}},
		{"green", color.SRGB{0, 1, 0}, color.HSV{1.0 / 3, 1, 1}},
		{"blue", color.SRGB{0, 0, 1}, color.HSV{2.0 / 3, 1, 1}},
		{"grey", color.SRGB{0.5, 0.5, 0.5}, color.HSV{0, 0, 0.5}},
		{"magenta", color.SRGB{1, 0, 1}, color.HSV{5.0 / 6, 1, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.HSV()
			assert.InDelta(t, tt.want.H, got.H, tol)
			assert.InDelta(t, tt.want.S, got.S, tol)
			assert.InDelta(t, tt.want.V, got.V, tol)

			back := got.SRGB()
			assert.InDelta(t, tt.in.R, back.R, tol)
			assert.InDelta(t, tt.in.G, back.G, tol)
			assert.InDelta(t, tt.in.B, back.B, tol)

			h, s, v := colorful.Color{R: tt.in.R, G: tt.in.G, B: tt.in.B}.Hsv()
			assert.InDelta(t, h/360, got.H, tol)
			assert.InDelta(t, s, got.S, tol)
			assert.InDelta(t, v, got.V, tol)
		})
	}
}

func TestHSVWrapsHue(t *testing.T) {
	assert.InDelta(t, 0.25, color.NewHSV(1.25, 1, 1).H, tol)
	assert.InDelta(t, 0.75, color.NewHSV(-0.25, 1, 1).H, tol)
}

func TestOkhsv(t *testing.T) {
	grey := color.NewOkhsv(0.3, 0, 0.5).Oklab()
	assert.InDelta(t, 0.5, grey.L, tol)
	assert.InDelta(t, 0, grey.A, tol)
	assert.InDelta(t, 0, grey.B, tol)

	c := color.NewOkhsv(0.25, 1, 1).Oklab()
	assert.InDelta(t, 0, c.A, tol)
	assert.InDelta(t, 0.4, c.B, tol)

	black := color.NewOkhsv(0.7, 1, 0).Linear()
	assertLinear(t, color.LinearSRGB{}, black, tol)
}

func TestOkhsl(t *testing.T) {
	mid := color.NewOkhsl(0, 1, 0.5).Oklab()
	assert.InDelta(t, 0.2, mid.A, tol)
	top := color.NewOkhsl(0, 1, 1).Oklab()
	assert.InDelta(t, 0, top.A, tol)
}

func TestRGBWDerivation(t *testing.T) {
	for i := 0; i < 500; i++ {
		c := color.LinearSRGB{
			R: float64(i%10) / 9,
			G: float64((i/10)%10) / 9,
			B: float64((i*7)%11) / 10,
		}
		w := c.RGBW()
		assert.InDelta(t, math.Min(c.R, math.Min(c.G, c.B)), w.W, 1e-12)
		assert.InDelta(t, c.R, w.R+w.W, 1e-12)
		assert.InDelta(t, c.G, w.G+w.W, 1e-12)
		assert.InDelta(t, c.B, w.B+w.W, 1e-12)
		assertLinear(t, c, w.Linear(), 1e-12)
	}
}

func TestConstructorsClamp(t *testing.T) {
	assert.Equal(t, color.LinearSRGB{1, 0, 0.5}, color.NewLinearSRGB(2, -1, 0.5))
	assert.Equal(t, color.SRGB{0, 1, 0}, color.NewSRGB(math.NaN(), 7, 0))
	assert.Equal(t, color.LinearSRGBW{1, 1, 0, 0}, color.NewLinearSRGBW(1.5, 1, -0.1, 0))
}

func TestMix(t *testing.T) {
	red := color.LinearSRGB{1, 0, 0}
	blue := color.LinearSRGB{0, 0, 1}
	got := color.Mix(red, blue, 0.5)
	assertLinear(t, color.LinearSRGB{0.5, 0, 0.5}, got, tol)
	assert.Equal(t, red, color.Mix(red, blue, -1))
	assert.Equal(t, blue, color.Mix(red, blue, 2))

	ok := color.MixOklab(red, blue, 0.5)
	assert.True(t, ok.R > 0 && ok.B > 0, "perceptual midpoint keeps both hues: %+v", ok)
	assert.Equal(t, red, color.MixOklab(red, blue, 0))
}

func TestLinearize(t *testing.T) {
	in := []color.SRGB{{1, 0, 0}, {0.5, 0.5, 0.5}}
	out := color.Linearize(in)
	require.Len(t, out, 2)
	assertLinear(t, color.LinearSRGB{1, 0, 0}, out[0], tol)
	assert.InDelta(t, 0.21404114, out[1].G, 1e-6)
}

func TestQuantize(t *testing.T) {
	assert.Equal(t, uint32(255), color.Quantize(1, 8))
	assert.Equal(t, uint32(0), color.Quantize(0, 8))
	assert.Equal(t, uint32(128), color.Quantize(0.5, 8))
	assert.Equal(t, uint32(127), color.Quantize(1, 7))
	assert.Equal(t, uint32(31), color.Quantize(2, 5))
	assert.Equal(t, uint32(0), color.Quantize(-1, 16))
	assert.Equal(t, uint32(0xFFFF), color.Quantize(1, 16))
}

func TestCorrection(t *testing.T) {
	got := color.TypicalSMD5050.Apply(color.LinearSRGB{1, 1, 1})
	assert.InDelta(t, 1.0, got.R, tol)
	assert.InDelta(t, 0.6902, got.G, 1e-4)
	assert.InDelta(t, 0.9412, got.B, 1e-4)
	assert.True(t, color.Correction{}.IsZero())
	assert.False(t, color.NoCorrection.IsZero())
}

func TestParseHex(t *testing.T) {
	c, err := color.ParseHex("#ff0000")
	require.NoError(t, err)
	assert.Equal(t, color.SRGB{1, 0, 0}, c)
	assert.Equal(t, "#ff0000", c.Hex())

	_, err = color.ParseHex("nope")
	assert.Error(t, err)
}
