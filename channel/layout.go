package channel

import (
	"strings"

	"golang.org/x/exp/constraints"

	"github.com/coreman2200/ledwire/color"
	"github.com/coreman2200/ledwire/fault"
)

// Layout describes the channels a chipset expects per pixel: either three
// colored channels or three colored channels plus white, in wire order.
type Layout struct {
	rgbw  bool
	rgb   RGBOrder
	order RGBWOrder
}

// RGBLayout is a three-channel layout.
func RGBLayout(o RGBOrder) Layout { return Layout{rgb: o} }

// RGBWLayout is a four-channel layout.
func RGBWLayout(o RGBWOrder) Layout { return Layout{rgbw: true, order: o} }

// ParseLayout accepts "GRB", "grbw" and friends.
func ParseLayout(s string) (Layout, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	switch len(s) {
	case 3:
		o, err := ParseRGB(s)
		if err != nil {
			return Layout{}, fault.Config("parse layout", err)
		}
		return RGBLayout(o), nil
	case 4:
		o, err := ParseRGBW(s)
		if err != nil {
			return Layout{}, fault.Config("parse layout", err)
		}
		return RGBWLayout(o), nil
	}
	return Layout{}, fault.Configf("parse layout", "layout %q must have 3 or 4 channels", s)
}

// Count is the number of words per pixel.
func (l Layout) Count() int {
	if l.rgbw {
		return 4
	}
	return 3
}

// White reports whether the layout carries a white channel.
func (l Layout) White() bool { return l.rgbw }

// Indices returns the canonical component index for each wire position.
func (l Layout) Indices() []int {
	if l.rgbw {
		idx := l.order.Indices()
		return idx[:]
	}
	idx := l.rgb.Indices()
	return idx[:]
}

// RGB returns the colored-channel order, ignoring white.
func (l Layout) RGB() RGBOrder {
	if l.rgbw {
		return l.order.RGB()
	}
	return l.rgb
}

func (l Layout) String() string {
	if l.rgbw {
		return l.order.String()
	}
	return l.rgb.String()
}

// Compose applies brightness then per-channel correction in linear light and
// clamps the result. A zero Correction is treated as no correction.
func Compose(c color.LinearSRGB, brightness float64, corr color.Correction) color.LinearSRGB {
	if corr.IsZero() {
		corr = color.NoCorrection
	}
	b := brightness
	if b < 0 {
		b = 0
	} else if b > 1 {
		b = 1
	}
	return corr.Apply(c.Clamp().Scale(b)).Clamp()
}

// Components returns the canonical components of c after composition, with
// white derived when the layout is RGBW.
func (l Layout) Components(c color.LinearSRGB, brightness float64, corr color.Correction) []float64 {
	c = Compose(c, brightness, corr)
	if l.rgbw {
		w := c.RGBW()
		return []float64{w.R, w.G, w.B, w.W}
	}
	return []float64{c.R, c.G, c.B}
}

// Encode runs the per-pixel output pipeline for one color and appends
// l.Count() words of the given bit width to dst, in wire order.
func Encode[W constraints.Unsigned](dst []W, bits uint, c color.LinearSRGB, brightness float64, corr color.Correction, l Layout) []W {
	comps := l.Components(c, brightness, corr)
	var words [4]W
	for i, v := range comps {
		words[i] = W(color.Quantize(v, bits))
	}
	n := l.Count()
	var wire [4]W
	Reorder(wire[:n], words[:n], l.Indices())
	return append(dst, wire[:n]...)
}
