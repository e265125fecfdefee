package spibus

import (
	"context"
	"time"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"

	"github.com/coreman2200/ledwire/bits"
	"github.com/coreman2200/ledwire/clockless"
	"github.com/coreman2200/ledwire/fault"
)

// DefaultNRZFreq gives 3-bit symbols for WS2812-class timings.
const DefaultNRZFreq = 2400 * physic.KiloHertz

// Symbols derives the SPI symbol shape for timing at freq: the bit period in
// SPI bits and the number of leading ones for a 0 and a 1. The frequency is a
// configuration fault when it cannot tell the two pulses apart.
func Symbols(t clockless.Timing, freq physic.Frequency) (*bits.NRZ, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if freq <= 0 {
		return nil, fault.Configf("spi symbols", "frequency must be positive, got %s", freq)
	}
	period := freq.Period()
	if period <= 0 {
		return nil, fault.Configf("spi symbols", "frequency %s is too high", freq)
	}
	span := t.BitPeriod(false)
	if p := t.BitPeriod(true); p > span {
		span = p
	}
	n := steps(span, period)
	h0 := steps(t.T0H, period)
	if h0 < 1 {
		h0 = 1
	}
	h1 := steps(t.T1H, period)
	enc, err := bits.NewNRZ(n, h0, h1)
	if err != nil {
		return nil, fault.Config("spi symbols", err)
	}
	return enc, nil
}

func steps(d, period time.Duration) int {
	return int((d + period/2) / period)
}

// NRZ is a clockless transmitter on the MOSI line of an SPI port.
type NRZ struct {
	w     *Writer
	enc   *bits.NRZ
	reset int
	buf   []byte
}

var _ clockless.Transmitter = (*NRZ)(nil)

// NewNRZ builds the symbol table for timing and sizes the trailing idle bytes
// to cover the reset time. w must be connected at freq.
func NewNRZ(w *Writer, t clockless.Timing, freq physic.Frequency) (*NRZ, error) {
	if w == nil {
		return nil, fault.Configf("spi nrz", "writer is required")
	}
	enc, err := Symbols(t, freq)
	if err != nil {
		return nil, err
	}
	byteTime := 8 * freq.Period()
	reset := int((t.Reset + byteTime - 1) / byteTime)
	return &NRZ{w: w, enc: enc, reset: reset}, nil
}

// OpenNRZ connects to port at freq and returns a transmitter for timing.
func OpenNRZ(port spi.Port, t clockless.Timing, freq physic.Frequency) (*NRZ, error) {
	if freq <= 0 {
		freq = DefaultNRZFreq
	}
	w, err := Open(port, freq)
	if err != nil {
		return nil, err
	}
	tx, err := NewNRZ(w, t, freq)
	if err != nil {
		w.Close()
		return nil, err
	}
	return tx, nil
}

// Encoder returns the symbol table in use.
func (n *NRZ) Encoder() *bits.NRZ { return n.enc }

// ResetLen is the number of idle bytes appended to each frame.
func (n *NRZ) ResetLen() int { return n.reset }

// Transmit expands data into symbols, appends the idle bytes and sends the
// result in a single write.
func (n *NRZ) Transmit(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	n.buf = n.enc.Append(n.buf[:0], data)
	for i := 0; i < n.reset; i++ {
		n.buf = append(n.buf, 0)
	}
	return n.w.Write(n.buf)
}

func (n *NRZ) Close() error { return n.w.Close() }
