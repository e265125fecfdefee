package chipset

import (
	"github.com/coreman2200/ledwire/channel"
	"github.com/coreman2200/ledwire/clocked"
	"github.com/coreman2200/ledwire/color"
)

// APA102 (DotStar) is a clocked chipset with a 5-bit global brightness field
// in front of every pixel. Brightness is carried in that header; the color
// bytes only receive the correction.
type APA102 struct {
	Order channel.RGBOrder
}

var _ clocked.Chipset = APA102{}

// NewAPA102 uses the usual BGR wire order.
func NewAPA102() APA102 { return APA102{Order: channel.BGR} }

func (APA102) Name() string { return "apa102" }

func (APA102) Start() []byte { return []byte{0x00, 0x00, 0x00, 0x00} }

// Header is the brightness byte: top three bits set, low five bits scaled
// brightness.
func (APA102) Header(brightness float64) byte {
	return 0xE0 | byte(color.Quantize(brightness, 5)&0x1F)
}

func (a APA102) LED(dst []byte, c color.LinearSRGB, brightness float64, corr color.Correction) []byte {
	dst = append(dst, a.Header(brightness))
	return channel.Encode(dst, 8, c, 1, corr, channel.RGBLayout(a.Order))
}

func (APA102) LEDLen() int { return 4 }

func (APA102) End(n int) []byte { return make([]byte, endLen(n)) }

// endLen is ceil((n-1)/16) zero bytes.
func endLen(n int) int {
	if n <= 1 {
		return 0
	}
	return (n - 1 + 15) / 16
}
