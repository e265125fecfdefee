// Package clockless drives single-wire LED chipsets whose bits are encoded in
// the width of high/low pulses.
package clockless

import (
	"context"
	"sync"
	"time"

	"github.com/coreman2200/ledwire/channel"
	"github.com/coreman2200/ledwire/color"
	"github.com/coreman2200/ledwire/driver"
	"github.com/coreman2200/ledwire/fault"
	"github.com/coreman2200/ledwire/frame"
)

// Timing holds the pulse widths of a clockless protocol.
type Timing struct {
	T0H, T0L time.Duration
	T1H, T1L time.Duration
	// Reset is the minimum idle low time that latches a frame.
	Reset time.Duration
}

// Validate rejects non-positive durations.
func (t Timing) Validate() error {
	for _, d := range []struct {
		name string
		v    time.Duration
	}{{"t0h", t.T0H}, {"t0l", t.T0L}, {"t1h", t.T1H}, {"t1l", t.T1L}, {"reset", t.Reset}} {
		if d.v <= 0 {
			return fault.Configf("timing", "%s must be positive, got %s", d.name, d.v)
		}
	}
	return nil
}

// Pulse returns the high and low widths for one bit value.
func (t Timing) Pulse(bit bool) (high, low time.Duration) {
	if bit {
		return t.T1H, t.T1L
	}
	return t.T0H, t.T0L
}

// BitPeriod is the total width of one bit value.
func (t Timing) BitPeriod(bit bool) time.Duration {
	h, l := t.Pulse(bit)
	return h + l
}

// Constant reports whether both bit values take the same time. Some chipsets
// tolerate unequal periods; only the individual widths matter to them.
func (t Timing) Constant() bool {
	return t.BitPeriod(false) == t.BitPeriod(true)
}

// Shortest is the narrowest pulse in the protocol.
func (t Timing) Shortest() time.Duration {
	m := t.T0H
	for _, d := range []time.Duration{t.T0L, t.T1H, t.T1L} {
		if d < m {
			m = d
		}
	}
	return m
}

// Chipset describes a clockless LED.
type Chipset interface {
	Name() string
	Timing() Timing
	Layout() channel.Layout
}

// Transmitter puts encoded bytes on the wire MSB-first using the timing it was
// built for, then holds the line low for the reset time.
type Transmitter interface {
	Transmit(ctx context.Context, data []byte) error
}

// PixelLen is the number of bytes per pixel.
func PixelLen(chip Chipset) int {
	return chip.Layout().Count()
}

// Encode appends the 8-bit words of every pixel to buf in wire order.
func Encode(buf *frame.Buffer[byte], chip Chipset, pixels []color.LinearSRGB, brightness float64, corr color.Correction) error {
	layout := chip.Layout()
	scratch := make([]byte, 0, layout.Count())
	for _, c := range pixels {
		scratch = channel.Encode(scratch[:0], 8, c, brightness, corr, layout)
		if err := buf.Append(scratch...); err != nil {
			return err
		}
	}
	return nil
}

// Driver pairs a clockless chipset with a transmitter.
type Driver struct {
	mu     sync.Mutex
	chip   Chipset
	tx     Transmitter
	pixels int
	buf    *frame.Buffer[byte]
	tap    *driver.Tap
}

var _ driver.Driver = (*Driver)(nil)

// New validates the chipset timing and returns a driver for exactly pixels
// LEDs.
func New(chip Chipset, tx Transmitter, pixels int, opts ...driver.Option) (*Driver, error) {
	if chip == nil || tx == nil {
		return nil, fault.Configf("clockless new", "chipset and transmitter are required")
	}
	if pixels < 0 {
		return nil, fault.Configf("clockless new", "invalid pixel count: %d", pixels)
	}
	if err := chip.Timing().Validate(); err != nil {
		return nil, err
	}
	o := driver.Apply(opts)
	capacity := o.Capacity
	if capacity == 0 {
		capacity = pixels * PixelLen(chip)
	}
	return &Driver{
		chip:   chip,
		tx:     tx,
		pixels: pixels,
		buf:    frame.New[byte](capacity),
		tap:    driver.NewTap(chip.Name(), pixels, o),
	}, nil
}

// Pixels is the fixed chain length.
func (d *Driver) Pixels() int { return d.pixels }

// Write encodes the frame, then transmits it. Encoding failures never reach
// the wire.
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
	return d.tap.Send(words, func() error { return d.tx.Transmit(ctx, words) })
}

// Close releases the transmitter if it holds resources.
func (d *Driver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if c, ok := d.tx.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
