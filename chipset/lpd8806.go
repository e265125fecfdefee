package chipset

import (
	"github.com/coreman2200/ledwire/channel"
	"github.com/coreman2200/ledwire/clocked"
	"github.com/coreman2200/ledwire/color"
)

// LPD8806 is a clocked chipset with 7-bit channels; the top bit of every
// color byte is always set.
type LPD8806 struct {
	Order channel.RGBOrder
}

var _ clocked.Chipset = LPD8806{}

// NewLPD8806 uses the usual GRB wire order.
func NewLPD8806() LPD8806 { return LPD8806{Order: channel.GRB} }

func (LPD8806) Name() string { return "lpd8806" }

func (LPD8806) Start() []byte { return []byte{0x00, 0x00, 0x00, 0x00} }

func (l LPD8806) LED(dst []byte, c color.LinearSRGB, brightness float64, corr color.Correction) []byte {
	n := len(dst)
	dst = channel.Encode(dst, 7, c, brightness, corr, channel.RGBLayout(l.Order))
	for i := n; i < len(dst); i++ {
		dst[i] |= 0x80
	}
	return dst
}

func (LPD8806) LEDLen() int { return 3 }

func (LPD8806) End(n int) []byte { return make([]byte, endLen(n)) }
