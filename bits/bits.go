// Package bits turns protocol words into the bit sequence a timing sensitive
// backend puts on the wire.
package bits

import "golang.org/x/exp/constraints"

// Order selects which end of a word is sent first.
type Order uint8

const (
	// MSBFirst is what every supported LED chipset expects.
	MSBFirst Order = iota
	LSBFirst
)

func (o Order) String() string {
	if o == LSBFirst {
		return "lsb-first"
	}
	return "msb-first"
}

// Each calls fn for the low width bits of every word, in order. It stops at
// the first error and returns it.
func Each[W constraints.Unsigned](words []W, width uint, order Order, fn func(bit bool) error) error {
	for _, w := range words {
		for i := uint(0); i < width; i++ {
			shift := width - 1 - i
			if order == LSBFirst {
				shift = i
			}
			if err := fn(w>>shift&1 == 1); err != nil {
				return err
			}
		}
	}
	return nil
}

// Expand returns the bits of words as a slice.
func Expand[W constraints.Unsigned](words []W, width uint, order Order) []bool {
	out := make([]bool, 0, Len(len(words), width))
	_ = Each(words, width, order, func(b bool) error {
		out = append(out, b)
		return nil
	})
	return out
}

// Len is the number of bits in n words of the given width.
func Len(n int, width uint) int {
	return n * int(width)
}

// Pack is the inverse of Expand for 8-bit words. A trailing partial byte is
// padded with zero bits.
func Pack(bits []bool, order Order) []byte {
	out := make([]byte, (len(bits)+7)/8)
	for i, b := range bits {
		if !b {
			continue
		}
		shift := 7 - uint(i%8)
		if order == LSBFirst {
			shift = uint(i % 8)
		}
		out[i/8] |= 1 << shift
	}
	return out
}
