package bits

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandMSBFirst(t *testing.T) {
	got := Expand([]byte{0b10110000}, 8, MSBFirst)
	want := []bool{true, false, true, true, false, false, false, false}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("bits mismatch (-want +got):\n%s", diff)
	}
}

func TestExpandLSBFirst(t *testing.T) {
	got := Expand([]byte{0b10110000}, 8, LSBFirst)
	want := []bool{false, false, false, false, true, true, false, true}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("bits mismatch (-want +got):\n%s", diff)
	}
}

func TestExpandWidths(t *testing.T) {
	got := Expand([]uint16{0x8001}, 16, MSBFirst)
	require.Len(t, got, 16)
	assert.True(t, got[0])
	assert.True(t, got[15])

	seven := Expand([]uint8{0x7F, 0x80}, 7, MSBFirst)
	assert.Len(t, seven, 14)
	assert.Equal(t, 7, countTrue(seven))
	assert.Equal(t, 48, Len(2, 24))
}

func TestEachStopsOnError(t *testing.T) {
	stop := errors.New("stop")
	n := 0
	err := Each([]byte{0xFF, 0xFF}, 8, MSBFirst, func(bool) error {
		n++
		if n == 3 {
			return stop
		}
		return nil
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 3, n)
}

func TestPackRoundTrip(t *testing.T) {
	data := []byte{0x00, 0xFF, 0xA5, 0x3C, 0x01}
	for _, o := range []Order{MSBFirst, LSBFirst} {
		t.Run(o.String(), func(t *testing.T) {
			assert.Equal(t, data, Pack(Expand(data, 8, o), o))
		})
	}
	assert.Equal(t, []byte{0b10100000}, Pack([]bool{true, false, true}, MSBFirst))
}

// The 3-bit symbols at 2.4MHz: 0 -> 100, 1 -> 110.
func TestNRZClassicSymbols(t *testing.T) {
	e, err := NewNRZ(3, 1, 2)
	require.NoError(t, err)

	assert.Equal(t, []byte{0x92, 0x49, 0x24}, e.Encoded(0x00))
	assert.Equal(t, []byte{0xDB, 0x6D, 0xB6}, e.Encoded(0xFF))
	// 0b10110000 -> 110 100 110 110 100 100 100 100
	assert.Equal(t, []byte{0xD3, 0x69, 0x24}, e.Encoded(0xB0))

	got := e.Append(nil, []byte{0x00, 0xFF})
	assert.Equal(t, []byte{0x92, 0x49, 0x24, 0xDB, 0x6D, 0xB6}, got)
	assert.Equal(t, 6, e.EncodedLen(2))
}

func TestNRZMatchesBitExpansion(t *testing.T) {
	e, err := NewNRZ(4, 1, 3)
	require.NoError(t, err)
	for v := 0; v < 256; v++ {
		enc := Expand(e.Encoded(byte(v)), 8, MSBFirst)
		data := Expand([]byte{byte(v)}, 8, MSBFirst)
		for i, bit := range data {
			sym := enc[i*4 : i*4+4]
			ones := 1
			if bit {
				ones = 3
			}
			assert.Equal(t, ones, countTrue(sym), "byte %#x bit %d", v, i)
			assert.True(t, sym[0], "symbols start high")
			assert.False(t, sym[3], "symbols end low")
		}
	}
}

func TestNRZRejectsBadShapes(t *testing.T) {
	for _, tc := range [][3]int{{1, 0, 1}, {9, 1, 2}, {3, 0, 2}, {3, 2, 2}, {3, 1, 3}} {
		_, err := NewNRZ(tc[0], tc[1], tc[2])
		assert.Error(t, err, "%v", tc)
	}
}

func countTrue(bs []bool) int {
	n := 0
	for _, b := range bs {
		if b {
			n++
		}
	}
	return n
}
