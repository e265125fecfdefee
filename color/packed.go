package color

// Offsets of each channel inside a Packed value (0xAAGGRRBB).
const (
	AlphaOffset uint8 = 0x18
	GreenOffset uint8 = 0x10
	RedOffset   uint8 = 0x08
	BlueOffset  uint8 = 0x0
)

// Packed stores an 8-bit sRGB color with alpha in one word, laid out
// 0xAAGGRRBB. Alpha acts as a per-pixel brightness when converting.
type Packed uint32

// PackSRGB packs a gamma-encoded color with full alpha.
func PackSRGB(c SRGB) Packed {
	var p Packed
	p = p.SetA(0xFF)
	p = p.SetR(uint8(Quantize(c.R, 8)))
	p = p.SetG(uint8(Quantize(c.G, 8)))
	p = p.SetB(uint8(Quantize(c.B, 8)))
	return p
}

func setChannel(c Packed, n uint8, off uint8) Packed {
	val := Packed(n) << off
	mask := Packed(0xFF) << off
	return (c &^ mask) | val
}

func getChannel(c Packed, off uint8) uint8 {
	return uint8((c >> off) & 0xFF)
}

func (p Packed) SetR(r uint8) Packed { return setChannel(p, r, RedOffset) }
func (p Packed) SetG(g uint8) Packed { return setChannel(p, g, GreenOffset) }
func (p Packed) SetB(b uint8) Packed { return setChannel(p, b, BlueOffset) }
func (p Packed) SetA(a uint8) Packed { return setChannel(p, a, AlphaOffset) }

func (p Packed) R() uint8 { return getChannel(p, RedOffset) }
func (p Packed) G() uint8 { return getChannel(p, GreenOffset) }
func (p Packed) B() uint8 { return getChannel(p, BlueOffset) }
func (p Packed) A() uint8 { return getChannel(p, AlphaOffset) }

// SRGB unpacks the color channels, ignoring alpha.
func (p Packed) SRGB() SRGB {
	return SRGB{
		R: float64(p.R()) / 255,
		G: float64(p.G()) / 255,
		B: float64(p.B()) / 255,
	}
}

// Linear decodes the color and scales it by alpha in linear light.
func (p Packed) Linear() LinearSRGB {
	return p.SRGB().Linear().Scale(float64(p.A()) / 255)
}
