package spibus

import (
	"context"
	"sync"

	"go.uber.org/multierr"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/devices/v3/nrzled"

	"github.com/coreman2200/ledwire/channel"
	"github.com/coreman2200/ledwire/clockless"
	"github.com/coreman2200/ledwire/color"
	"github.com/coreman2200/ledwire/driver"
	"github.com/coreman2200/ledwire/fault"
	"github.com/coreman2200/ledwire/frame"
)

// NRZLED drives a GRB or GRBW chain through the periph nrzled device, which
// does its own symbol expansion and reordering. It takes canonical RGB(W)
// bytes, so the chipset only contributes its channel count.
type NRZLED struct {
	mu     sync.Mutex
	port   spi.Port
	dev    *nrzled.Dev
	chip   clockless.Chipset
	layout channel.Layout
	pixels int
	buf    *frame.Buffer[byte]
	tap    *driver.Tap
}

var _ driver.Driver = (*NRZLED)(nil)

// NewNRZLED opens an nrzled device on port for pixels LEDs of chip.
func NewNRZLED(port spi.Port, chip clockless.Chipset, pixels int, freq physic.Frequency, opts ...driver.Option) (*NRZLED, error) {
	if port == nil || chip == nil {
		return nil, fault.Configf("nrzled new", "port and chipset are required")
	}
	if pixels < 0 {
		return nil, fault.Configf("nrzled new", "invalid pixel count: %d", pixels)
	}
	wire := chip.Layout()
	var canonical channel.Layout
	switch {
	case wire == channel.RGBLayout(channel.GRB):
		canonical = channel.RGBLayout(channel.RGB)
	case wire == channel.RGBWLayout(channel.GRBW):
		canonical = channel.RGBWLayout(channel.RGBW)
	default:
		return nil, fault.Configf("nrzled new", "%s uses %s, nrzled only sends GRB or GRBW", chip.Name(), wire)
	}
	if freq <= 0 {
		freq = 2500 * physic.KiloHertz
	}
	dev, err := nrzled.NewSPI(port, &nrzled.Opts{
		NumPixels: pixels,
		Channels:  canonical.Count(),
		Freq:      freq,
	})
	if err != nil {
		return nil, fault.Config("nrzled new", err)
	}
	o := driver.Apply(opts)
	capacity := o.Capacity
	if capacity == 0 {
		capacity = pixels * canonical.Count()
	}
	return &NRZLED{
		port:   port,
		dev:    dev,
		chip:   chip,
		layout: canonical,
		pixels: pixels,
		buf:    frame.New[byte](capacity),
		tap:    driver.NewTap(chip.Name(), pixels, o),
	}, nil
}

func (d *NRZLED) String() string { return d.dev.String() }

// Pixels is the fixed chain length.
func (d *NRZLED) Pixels() int { return d.pixels }

// Write encodes canonical channel bytes and hands them to the device.
func (d *NRZLED) Write(ctx context.Context, pixels []color.LinearSRGB, brightness float64, corr color.Correction) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := driver.CheckPixels(d.pixels, len(pixels)); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	d.buf.Reset()
	scratch := make([]byte, 0, d.layout.Count())
	for _, c := range pixels {
		scratch = channel.Encode(scratch[:0], 8, c, brightness, corr, d.layout)
		if err := d.buf.Append(scratch...); err != nil {
			return d.tap.Overflow(err, d.buf.Cap())
		}
	}
	words := d.buf.Words()
	return d.tap.Send(words, func() error {
		if _, err := d.dev.Write(words); err != nil {
			return fault.IO("nrzled write", err)
		}
		return nil
	})
}

// Close turns the chain off and releases the port when it can be closed.
func (d *NRZLED) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	err := d.dev.Halt()
	if c, ok := d.port.(interface{ Close() error }); ok {
		err = multierr.Append(err, c.Close())
	}
	return err
}
