package pulse

import (
	"context"

	"periph.io/x/conn/v3/gpio/gpiostream"
	"periph.io/x/conn/v3/physic"

	"github.com/coreman2200/ledwire/fault"
)

// Peripheral starts playing a chunk and reports completion on the returned
// channel. It is the interrupt-driven form of a Channel.
type Peripheral interface {
	Start(chunk []Code) (<-chan error, error)
}

// Async adapts a Peripheral to a Channel. Each chunk parks the calling
// goroutine until the peripheral signals completion, so chunks never overlap.
func Async(p Peripheral) Channel {
	return asyncChannel{p}
}

type asyncChannel struct{ p Peripheral }

func (a asyncChannel) Transmit(_ context.Context, chunk []Code) error {
	done, err := a.p.Start(chunk)
	if err != nil {
		return err
	}
	return <-done
}

func (a asyncChannel) Close() error {
	if c, ok := a.p.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}

// StreamPin is the output half of a gpiostream.PinOut.
type StreamPin interface {
	StreamOut(s gpiostream.Stream) error
}

// Stream renders chunks as a bit stream sampled at the code clock and plays
// them on a pin that supports streaming, such as the Raspberry Pi PWM/PCM
// DMA engines. Its clock must match the Transmitter's.
type Stream struct {
	pin   StreamPin
	clock physic.Frequency
	bits  []byte
}

var _ Channel = (*Stream)(nil)

// NewStream returns a channel playing codes on pin at clock.
func NewStream(pin StreamPin, clock physic.Frequency) (*Stream, error) {
	if pin == nil {
		return nil, fault.Configf("pulse stream", "pin is required")
	}
	if clock <= 0 {
		return nil, fault.Configf("pulse stream", "clock must be positive, got %s", clock)
	}
	return &Stream{pin: pin, clock: clock}, nil
}

// Transmit plays chunk up to its first End code.
func (s *Stream) Transmit(_ context.Context, chunk []Code) error {
	s.bits = Render(s.bits[:0], chunk)
	return s.pin.StreamOut(&gpiostream.BitStream{Freq: s.clock, Bits: s.bits, LSBF: false})
}

func (s *Stream) Close() error {
	if h, ok := s.pin.(interface{ Halt() error }); ok {
		return h.Halt()
	}
	return nil
}

// Render appends one sample per tick of every code before the first End,
// packed MSB-first. Trailing padding bits are low.
func Render(dst []byte, chunk []Code) []byte {
	var cur byte
	n := 0
	put := func(level bool, ticks uint16) {
		for i := uint16(0); i < ticks; i++ {
			cur <<= 1
			if level {
				cur |= 1
			}
			if n++; n == 8 {
				dst = append(dst, cur)
				cur, n = 0, 0
			}
		}
	}
	for _, c := range chunk {
		if c == End {
			break
		}
		put(c.Level0(), c.Ticks0())
		put(c.Level1(), c.Ticks1())
	}
	if n > 0 {
		dst = append(dst, cur<<(8-n))
	}
	return dst
}
