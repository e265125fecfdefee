// Package clocked drives LED chipsets with separate data and clock lines.
//
// A chipset describes its frame as three word generators (start, per pixel,
// end) and the driver hands the assembled frame to a Writer, which may be a
// hardware bus or a pair of bit-banged pins.
package clocked

import (
	"context"
	"sync"

	"github.com/coreman2200/ledwire/color"
	"github.com/coreman2200/ledwire/driver"
	"github.com/coreman2200/ledwire/fault"
	"github.com/coreman2200/ledwire/frame"
)

// Chipset produces the words of a clocked frame.
type Chipset interface {
	Name() string
	// Start is the fixed preamble sent before the first pixel.
	Start() []byte
	// LED appends the words for one pixel to dst.
	LED(dst []byte, c color.LinearSRGB, brightness float64, corr color.Correction) []byte
	// LEDLen is the number of words LED appends.
	LEDLen() int
	// End is the trailer for a chain of n pixels.
	End(n int) []byte
}

// Writer transmits a complete frame of words, in order, without padding or
// truncation.
type Writer interface {
	Write(words []byte) error
}

// FrameLen is the number of words in a frame of n pixels.
func FrameLen(chip Chipset, n int) int {
	return len(chip.Start()) + n*chip.LEDLen() + len(chip.End(n))
}

// Encode appends a full frame to buf.
func Encode(buf *frame.Buffer[byte], chip Chipset, pixels []color.LinearSRGB, brightness float64, corr color.Correction) error {
	if err := buf.Append(chip.Start()...); err != nil {
		return err
	}
	scratch := make([]byte, 0, chip.LEDLen())
	for _, c := range pixels {
		scratch = chip.LED(scratch[:0], c, brightness, corr)
		if err := buf.Append(scratch...); err != nil {
			return err
		}
	}
	return buf.Append(chip.End(len(pixels))...)
}

// Driver pairs a clocked chipset with a writer.
type Driver struct {
	mu     sync.Mutex
	chip   Chipset
	w      Writer
	pixels int
	buf    *frame.Buffer[byte]
	tap    *driver.Tap
}

var _ driver.Driver = (*Driver)(nil)

// New returns a driver for a chain of exactly pixels LEDs.
func New(chip Chipset, w Writer, pixels int, opts ...driver.Option) (*Driver, error) {
	if chip == nil || w == nil {
		return nil, fault.Configf("clocked new", "chipset and writer are required")
	}
	if pixels < 0 {
		return nil, fault.Configf("clocked new", "invalid pixel count: %d", pixels)
	}
	o := driver.Apply(opts)
	capacity := o.Capacity
	if capacity == 0 {
		capacity = FrameLen(chip, pixels)
	}
	return &Driver{
		chip:   chip,
		w:      w,
		pixels: pixels,
		buf:    frame.New[byte](capacity),
		tap:    driver.NewTap(chip.Name(), pixels, o),
	}, nil
}

// Pixels is the fixed chain length.
func (d *Driver) Pixels() int { return d.pixels }

// Write encodes the whole frame first; nothing is transmitted when encoding
// fails.
func (d *Driver) Write(ctx context.Context, pixels []color.LinearSRGB, brightness float64, corr color.Correction) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := driver.CheckPixels(d.pixels, len(pixels)); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	d.buf.Reset()
	if err := Encode(d.buf, d.chip, pixels, brightness, corr); err != nil {
		return d.tap.Overflow(err, d.buf.Cap())
	}
	words := d.buf.Words()
	return d.tap.Send(words, func() error { return d.w.Write(words) })
}

// Close releases the writer if it holds resources.
func (d *Driver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if c, ok := d.w.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
