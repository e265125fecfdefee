// Package channel maps canonical (R, G, B[, W]) components onto the wire
// order a chipset expects and runs the per-pixel output pipeline.
package channel

import "fmt"

// RGBOrder is one of the six permutations of red, green and blue.
type RGBOrder uint8

const (
	RGB RGBOrder = iota
	RBG
	GRB
	GBR
	BRG
	BGR
)

var rgbIndices = [...][3]int{
	RGB: {0, 1, 2},
	RBG: {0, 2, 1},
	GRB: {1, 0, 2},
	GBR: {1, 2, 0},
	BRG: {2, 0, 1},
	BGR: {2, 1, 0},
}

// RGBOrders lists every RGB permutation.
var RGBOrders = []RGBOrder{RGB, RBG, GRB, GBR, BRG, BGR}

// Indices returns, for each wire position, the canonical component index.
func (o RGBOrder) Indices() [3]int {
	if int(o) >= len(rgbIndices) {
		return rgbIndices[RGB]
	}
	return rgbIndices[o]
}

// Inverse returns, for each canonical component, its wire position.
func (o RGBOrder) Inverse() [3]int {
	var inv [3]int
	for pos, idx := range o.Indices() {
		inv[idx] = pos
	}
	return inv
}

func (o RGBOrder) String() string {
	idx := o.Indices()
	return name(idx[:])
}

// RGBWOrder is one of the 24 permutations of red, green, blue and white,
// grouped by the RGB permutation with W moving through each slot.
type RGBWOrder uint8

const (
	WRGB RGBWOrder = iota
	RWGB
	RGWB
	RGBW

	WRBG
	RWBG
	RBWG
	RBGW

	WGRB
	GWRB
	GRWB
	GRBW

	WGBR
	GWBR
	GBWR
	GBRW

	WBRG
	BWRG
	BRWG
	BRGW

	WBGR
	BWGR
	BGWR
	BGRW
)

const white = 3

// RGBWOrders lists every RGBW permutation.
var RGBWOrders = func() []RGBWOrder {
	out := make([]RGBWOrder, 24)
	for i := range out {
		out[i] = RGBWOrder(i)
	}
	return out
}()

// Indices returns, for each wire position, the canonical component index
// (0=R, 1=G, 2=B, 3=W).
func (o RGBWOrder) Indices() [4]int {
	if o > BGRW {
		o = RGBW
	}
	rgb := rgbIndices[o/4]
	slot := int(o % 4)
	var out [4]int
	j := 0
	for pos := range out {
		if pos == slot {
			out[pos] = white
			continue
		}
		out[pos] = rgb[j]
		j++
	}
	return out
}

// Inverse returns, for each canonical component, its wire position.
func (o RGBWOrder) Inverse() [4]int {
	var inv [4]int
	for pos, idx := range o.Indices() {
		inv[idx] = pos
	}
	return inv
}

// RGB returns the order of the colored channels with white removed.
func (o RGBWOrder) RGB() RGBOrder {
	return RGBOrder(o / 4)
}

func (o RGBWOrder) String() string {
	idx := o.Indices()
	return name(idx[:])
}

// Reorder writes src into dst so that dst[i] = src[idx[i]].
func Reorder[T any](dst, src []T, idx []int) {
	for i, j := range idx {
		dst[i] = src[j]
	}
}

// Restore undoes Reorder: dst[idx[i]] = src[i].
func Restore[T any](dst, src []T, idx []int) {
	for i, j := range idx {
		dst[j] = src[i]
	}
}

func name(idx []int) string {
	const letters = "RGBW"
	b := make([]byte, len(idx))
	for i, j := range idx {
		b[i] = letters[j]
	}
	return string(b)
}

// ParseRGB resolves a three-letter order such as "GRB".
func ParseRGB(s string) (RGBOrder, error) {
	for _, o := range RGBOrders {
		if o.String() == s {
			return o, nil
		}
	}
	return 0, fmt.Errorf("unknown rgb order %q", s)
}

// ParseRGBW resolves a four-letter order such as "GRBW".
func ParseRGBW(s string) (RGBWOrder, error) {
	for _, o := range RGBWOrders {
		if o.String() == s {
			return o, nil
		}
	}
	return 0, fmt.Errorf("unknown rgbw order %q", s)
}
