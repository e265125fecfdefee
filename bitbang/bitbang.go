// Package bitbang drives LED chains by toggling GPIO pins in software and
// waiting on a delay.Delayer between transitions.
//
// Signal quality depends entirely on the delayer. Clockless chipsets need a
// timer that resolves their shortest pulse (a few hundred nanoseconds), which
// in practice means delay.Spin on a dedicated core. When a pin write fails the
// frame is abandoned and the line is left wherever it was.
package bitbang

import (
	"context"
	"time"

	"go.uber.org/multierr"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"

	"github.com/coreman2200/ledwire/bits"
	"github.com/coreman2200/ledwire/clocked"
	"github.com/coreman2200/ledwire/clockless"
	"github.com/coreman2200/ledwire/delay"
	"github.com/coreman2200/ledwire/fault"
)

// Pin is the output half of a GPIO. Every periph gpio.PinOut satisfies it.
type Pin interface {
	Out(l gpio.Level) error
}

// DefaultDataRate is the clock rate used when none is given.
const DefaultDataRate = 2 * physic.MegaHertz

// Clocked shifts bytes out on a data pin, latched by a clock pin.
type Clocked struct {
	data, clock Pin
	delay       delay.Delayer
	half        time.Duration
	order       bits.Order
}

var _ clocked.Writer = (*Clocked)(nil)

// NewClocked returns a writer clocking at rate. Both pins start low.
func NewClocked(data, clock Pin, d delay.Delayer, rate physic.Frequency) (*Clocked, error) {
	if data == nil || clock == nil || d == nil {
		return nil, fault.Configf("bitbang clocked", "data pin, clock pin and delay are required")
	}
	if rate <= 0 {
		rate = DefaultDataRate
	}
	half := rate.Period() / 2
	if half <= 0 {
		return nil, fault.Configf("bitbang clocked", "data rate %s is too high", rate)
	}
	if err := multierr.Append(data.Out(gpio.Low), clock.Out(gpio.Low)); err != nil {
		return nil, fault.IO("bitbang clocked init", err)
	}
	return &Clocked{data: data, clock: clock, delay: d, half: half, order: bits.MSBFirst}, nil
}

// HalfPeriod is the wait between each edge.
func (c *Clocked) HalfPeriod() time.Duration { return c.half }

// Write shifts every word out MSB-first: set data, wait, clock high, wait,
// clock low.
func (c *Clocked) Write(words []byte) error {
	return bits.Each(words, 8, c.order, func(bit bool) error {
		if err := c.data.Out(gpio.Level(bit)); err != nil {
			return fault.IO("bitbang data", err)
		}
		c.delay.Delay(c.half)
		if err := c.clock.Out(gpio.High); err != nil {
			return fault.IO("bitbang clock", err)
		}
		c.delay.Delay(c.half)
		if err := c.clock.Out(gpio.Low); err != nil {
			return fault.IO("bitbang clock", err)
		}
		return nil
	})
}

// Close halts both pins when they support it.
func (c *Clocked) Close() error {
	return multierr.Append(halt(c.data), halt(c.clock))
}

// Clockless encodes bits as pulse widths on a single pin.
type Clockless struct {
	pin    Pin
	delay  delay.Delayer
	timing clockless.Timing
}

var _ clockless.Transmitter = (*Clockless)(nil)

// NewClockless validates that d can resolve the shortest pulse of timing and
// drives the pin low.
func NewClockless(pin Pin, d delay.Delayer, timing clockless.Timing) (*Clockless, error) {
	if pin == nil || d == nil {
		return nil, fault.Configf("bitbang clockless", "pin and delay are required")
	}
	if err := timing.Validate(); err != nil {
		return nil, err
	}
	if res := d.Resolution(); res > timing.Shortest() {
		return nil, fault.Configf("bitbang clockless", "delay resolution %s is coarser than the shortest pulse %s", res, timing.Shortest())
	}
	if err := pin.Out(gpio.Low); err != nil {
		return nil, fault.IO("bitbang clockless init", err)
	}
	return &Clockless{pin: pin, delay: d, timing: timing}, nil
}

// Transmit sends data MSB-first and then idles low for the reset time. The
// context is only checked before the first bit; a frame in progress is never
// interrupted.
func (c *Clockless) Transmit(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := bits.Each(data, 8, bits.MSBFirst, func(bit bool) error {
		high, low := c.timing.Pulse(bit)
		if err := c.pin.Out(gpio.High); err != nil {
			return fault.IO("bitbang high", err)
		}
		c.delay.Delay(high)
		if err := c.pin.Out(gpio.Low); err != nil {
			return fault.IO("bitbang low", err)
		}
		c.delay.Delay(low)
		return nil
	})
	if err != nil {
		return err
	}
	c.delay.Delay(c.timing.Reset)
	return nil
}

// Close halts the pin when it supports it.
func (c *Clockless) Close() error {
	return halt(c.pin)
}

func halt(p Pin) error {
	if h, ok := p.(interface{ Halt() error }); ok {
		return h.Halt()
	}
	return nil
}
