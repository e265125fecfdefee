package bits

import "fmt"

// NRZ expands data bytes into SPI bytes so that a clockless LED sees the
// right pulse widths on MOSI. Each data bit becomes a symbol of N SPI bits:
// H0 leading ones for a 0 bit, H1 leading ones for a 1 bit, zeros after.
// At 2.4MHz the classic symbols are 100 (0) and 110 (1).
type NRZ struct {
	N, H0, H1 int
	// lut maps a data byte to its N encoded bytes.
	lut [256][]byte
}

// NewNRZ builds the lookup table for the given symbol shape.
func NewNRZ(n, h0, h1 int) (*NRZ, error) {
	if n < 2 || n > 8 {
		return nil, fmt.Errorf("nrz: symbol length %d out of range [2,8]", n)
	}
	if h0 < 1 || h1 <= h0 || h1 >= n {
		return nil, fmt.Errorf("nrz: need 1 <= h0 < h1 < n, got h0=%d h1=%d n=%d", h0, h1, n)
	}
	e := &NRZ{N: n, H0: h0, H1: h1}
	sym0 := symbol(n, h0)
	sym1 := symbol(n, h1)
	for v := 0; v < 256; v++ {
		var acc uint64
		for i := 7; i >= 0; i-- {
			s := sym0
			if (v>>i)&1 == 1 {
				s = sym1
			}
			acc = acc<<uint(n) | s
		}
		out := make([]byte, n)
		for j := 0; j < n; j++ {
			out[j] = byte(acc >> uint(8*(n-1-j)))
		}
		e.lut[v] = out
	}
	return e, nil
}

// symbol returns n bits with the top h set.
func symbol(n, h int) uint64 {
	return ((uint64(1) << uint(h)) - 1) << uint(n-h)
}

// Encoded returns the SPI bytes for one data byte.
func (e *NRZ) Encoded(v byte) []byte {
	return e.lut[v]
}

// Append encodes src MSB-first and appends the SPI bytes to dst.
func (e *NRZ) Append(dst, src []byte) []byte {
	for _, v := range src {
		dst = append(dst, e.lut[v]...)
	}
	return dst
}

// EncodedLen is the SPI byte count for n data bytes.
func (e *NRZ) EncodedLen(n int) int {
	return n * e.N
}
