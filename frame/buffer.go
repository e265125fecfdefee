// Package frame provides the fixed-capacity word buffer a frame is encoded
// into before transmission.
package frame

import (
	"golang.org/x/exp/constraints"

	"github.com/coreman2200/ledwire/fault"
)

// Buffer is an ordered sequence of protocol words with a capacity fixed at
// construction. It never grows: appends that would overflow fail with a
// capacity fault and leave the buffer unchanged.
type Buffer[W constraints.Unsigned] struct {
	words []W
}

// New allocates a buffer holding at most capacity words.
func New[W constraints.Unsigned](capacity int) *Buffer[W] {
	if capacity < 0 {
		capacity = 0
	}
	return &Buffer[W]{words: make([]W, 0, capacity)}
}

// Append adds ws as a unit.
func (b *Buffer[W]) Append(ws ...W) error {
	if len(b.words)+len(ws) > cap(b.words) {
		return fault.Capacityf("frame append", "%d words do not fit, %d of %d used", len(ws), len(b.words), cap(b.words))
	}
	b.words = append(b.words, ws...)
	return nil
}

// Fill appends n copies of w.
func (b *Buffer[W]) Fill(w W, n int) error {
	if len(b.words)+n > cap(b.words) {
		return fault.Capacityf("frame fill", "%d words do not fit, %d of %d used", n, len(b.words), cap(b.words))
	}
	for i := 0; i < n; i++ {
		b.words = append(b.words, w)
	}
	return nil
}

// Words returns the encoded words. The slice is only valid until the next
// Reset.
func (b *Buffer[W]) Words() []W { return b.words }

func (b *Buffer[W]) Len() int  { return len(b.words) }
func (b *Buffer[W]) Cap() int  { return cap(b.words) }
func (b *Buffer[W]) Free() int { return cap(b.words) - len(b.words) }

// Reset empties the buffer, keeping its storage.
func (b *Buffer[W]) Reset() { b.words = b.words[:0] }

// Size is the word count of a frame: per-pixel words plus fixed overhead.
func Size(pixels, perPixel, overhead int) int {
	return pixels*perPixel + overhead
}
