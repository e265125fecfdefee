// Package app assembles a driver from configuration and runs the test
// pattern loop that feeds it.
package app

import (
	"github.com/rs/zerolog"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/gpio/gpiostream"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"github.com/coreman2200/ledwire/bitbang"
	"github.com/coreman2200/ledwire/chipset"
	"github.com/coreman2200/ledwire/clocked"
	"github.com/coreman2200/ledwire/clockless"
	"github.com/coreman2200/ledwire/delay"
	"github.com/coreman2200/ledwire/driver"
	"github.com/coreman2200/ledwire/fault"
	"github.com/coreman2200/ledwire/internal/config"
	"github.com/coreman2200/ledwire/pulse"
	"github.com/coreman2200/ledwire/spibus"
)

// hostInit loads the periph host drivers. Tests replace it.
var hostInit = func() error {
	_, err := host.Init()
	return err
}

// Build opens the driver cfg names. obs may be nil.
func Build(cfg *config.Config, log zerolog.Logger, obs driver.Observer) (driver.Driver, error) {
	opts := []driver.Option{driver.WithLogger(log.With().Str("driver", cfg.Driver).Str("chipset", cfg.Chipset).Logger())}
	if obs != nil {
		opts = append(opts, driver.WithObserver(obs))
	}
	fam, err := cfg.Family()
	if err != nil {
		return nil, err
	}

	if cfg.Driver == config.DriverSim {
		sim := NewSim(log.With().Str("component", "sim").Logger())
		if fam == chipset.Clocked {
			return buildClocked(cfg, sim, opts)
		}
		return buildClockless(cfg, sim, opts)
	}

	if err := hostInit(); err != nil {
		return nil, fault.IO("host init", err)
	}
	switch cfg.Driver {
	case config.DriverSPI:
		port, err := spireg.Open(cfg.SPI.Port)
		if err != nil {
			return nil, fault.Config("spi open", err)
		}
		freq := physic.Frequency(cfg.SPI.SpeedHz) * physic.Hertz
		if fam == chipset.Clocked {
			w, err := spibus.Open(port, freq)
			if err != nil {
				port.Close()
				return nil, err
			}
			return buildClocked(cfg, w, opts)
		}
		chip, err := cfg.ClocklessChipset()
		if err != nil {
			port.Close()
			return nil, err
		}
		tx, err := spibus.OpenNRZ(port, chip.Timing(), freq)
		if err != nil {
			return nil, err
		}
		return buildClockless(cfg, tx, opts)

	case config.DriverNRZLED:
		chip, err := cfg.ClocklessChipset()
		if err != nil {
			return nil, err
		}
		port, err := spireg.Open(cfg.SPI.Port)
		if err != nil {
			return nil, fault.Config("spi open", err)
		}
		d, err := spibus.NewNRZLED(port, chip, cfg.Pixels, physic.Frequency(cfg.SPI.SpeedHz)*physic.Hertz, opts...)
		if err != nil {
			port.Close()
			return nil, err
		}
		return d, nil

	case config.DriverBitbang:
		var d delay.Delayer = delay.Sleep{}
		if cfg.GPIO.Spin {
			d = delay.NewSpin()
		}
		data, err := pin(cfg.GPIO.Data)
		if err != nil {
			return nil, err
		}
		if fam == chipset.Clocked {
			clk, err := pin(cfg.GPIO.Clock)
			if err != nil {
				return nil, err
			}
			w, err := bitbang.NewClocked(data, clk, d, physic.Frequency(cfg.GPIO.RateHz)*physic.Hertz)
			if err != nil {
				return nil, err
			}
			return buildClocked(cfg, w, opts)
		}
		chip, err := cfg.ClocklessChipset()
		if err != nil {
			return nil, err
		}
		tx, err := bitbang.NewClockless(data, d, chip.Timing())
		if err != nil {
			return nil, err
		}
		return buildClockless(cfg, tx, opts)

	case config.DriverPulse:
		chip, err := cfg.ClocklessChipset()
		if err != nil {
			return nil, err
		}
		p, err := pin(cfg.Pulse.Pin)
		if err != nil {
			return nil, err
		}
		sp, ok := p.(gpiostream.PinOut)
		if !ok {
			return nil, fault.Configf("pulse", "pin %s cannot stream", cfg.Pulse.Pin)
		}
		clock := physic.Frequency(cfg.Pulse.ClockHz) * physic.Hertz
		ch, err := pulse.NewStream(sp, clock)
		if err != nil {
			return nil, err
		}
		tx, err := pulse.New(ch, chip, pulse.Config{
			Clock:      clock,
			BufferSize: cfg.Pulse.BufferSize,
			Capacity:   pulse.BufferSize(cfg.Pixels, clockless.PixelLen(chip)*8),
		})
		if err != nil {
			return nil, err
		}
		return buildClockless(cfg, tx, opts)
	}
	return nil, fault.Configf("build", "unknown driver %q", cfg.Driver)
}

func buildClocked(cfg *config.Config, w clocked.Writer, opts []driver.Option) (driver.Driver, error) {
	chip, err := cfg.ClockedChipset()
	if err != nil {
		release(w)
		return nil, err
	}
	d, err := clocked.New(chip, w, cfg.Pixels, opts...)
	if err != nil {
		release(w)
		return nil, err
	}
	return d, nil
}

func buildClockless(cfg *config.Config, tx clockless.Transmitter, opts []driver.Option) (driver.Driver, error) {
	chip, err := cfg.ClocklessChipset()
	if err != nil {
		release(tx)
		return nil, err
	}
	d, err := clockless.New(chip, tx, cfg.Pixels, opts...)
	if err != nil {
		release(tx)
		return nil, err
	}
	return d, nil
}

func release(v any) {
	if c, ok := v.(interface{ Close() error }); ok {
		c.Close()
	}
}

func pin(name string) (gpio.PinIO, error) {
	if name == "" {
		return nil, fault.Configf("gpio", "pin name is required")
	}
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fault.Configf("gpio", "no pin named %q", name)
	}
	return p, nil
}
