package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/coreman2200/ledwire/chipset"
	"github.com/coreman2200/ledwire/color"
)

// Drivers understood by the command.
const (
	DriverSim     = "sim"
	DriverSPI     = "spi"     // clocked over SPI, or clockless NRZ over MOSI
	DriverNRZLED  = "nrzled"  // periph nrzled device
	DriverBitbang = "bitbang" // GPIO toggling
	DriverPulse   = "pulse"   // pulse codes streamed on a GPIO
)

type SPI struct {
	Port    string `yaml:"port"`     // "" picks the first bus, e.g. SPI0.0
	SpeedHz int    `yaml:"speed_hz"` // 0 picks the backend default
}

type GPIO struct {
	Data   string `yaml:"data"`
	Clock  string `yaml:"clock,omitempty"`
	RateHz int    `yaml:"rate_hz,omitempty"`
	Spin   bool   `yaml:"spin"` // busy-wait delays; required for clockless chipsets
}

type Pulse struct {
	Pin        string `yaml:"pin"`
	ClockHz    int    `yaml:"clock_hz"`
	BufferSize int    `yaml:"buffer_size"`
}

type Power struct {
	LimitAmps float64 `yaml:"limit_amps"` // 0 disables the chain budget
	WhiteCap  float64 `yaml:"white_cap"`  // max R+G+B per LED, 0 disables
	ChannelMA float64 `yaml:"channel_ma"` // full-scale current per channel
}

type Monitor struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "auto" | "console" | "json"
}

type Config struct {
	Driver     string  `yaml:"driver"`
	Chipset    string  `yaml:"chipset"`
	Pixels     int     `yaml:"pixels"`
	Brightness float64 `yaml:"brightness"`
	Correction string  `yaml:"correction"` // preset name or hex, e.g. "FFB0F0"
	FPS        int     `yaml:"fps"`
	Pattern    string  `yaml:"pattern"`
	Color      string  `yaml:"color,omitempty"` // hex, for the solid pattern
	Layout     string  `yaml:"layout,omitempty"` // channel order override, e.g. "BGR" or "GRBW"
	Timing     *Timing `yaml:"timing,omitempty"` // clockless timing override

	SPI     SPI     `yaml:"spi,omitempty"`
	GPIO    GPIO    `yaml:"gpio,omitempty"`
	Pulse   Pulse   `yaml:"pulse,omitempty"`
	Power   Power   `yaml:"power"`
	Monitor Monitor `yaml:"monitor"`
	Log     Log     `yaml:"log"`
}

// Default is a simulated 60-pixel WS2812 strip.
func Default() *Config {
	return &Config{
		Driver:     DriverSim,
		Chipset:    "ws2812",
		Pixels:     60,
		Brightness: 0.5,
		Correction: "none",
		FPS:        30,
		Pattern:    "rainbow",
		Color:      "FFFFFF",
		Pulse:      Pulse{ClockHz: 10_000_000, BufferSize: 64},
		Power:      Power{ChannelMA: 20},
		Monitor:    Monitor{Enabled: true, Addr: ":8080"},
		Log:        Log{Level: "info", Format: "auto"},
	}
}

// Load reads path over the defaults.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return c, nil
}

func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

// Env lists the environment overrides. Unset or zero values leave the file
// value alone.
type Env struct {
	Driver      string  `env:"LEDWIRE_DRIVER"`
	Chipset     string  `env:"LEDWIRE_CHIPSET"`
	Pixels      int     `env:"LEDWIRE_PIXELS"`
	Brightness  float64 `env:"LEDWIRE_BRIGHTNESS"`
	Pattern     string  `env:"LEDWIRE_PATTERN"`
	SPIPort     string  `env:"LEDWIRE_SPI_PORT"`
	MonitorAddr string  `env:"LEDWIRE_MONITOR_ADDR"`
	LogLevel    string  `env:"LEDWIRE_LOG_LEVEL"`
}

// ApplyEnv overlays LEDWIRE_* variables.
func (c *Config) ApplyEnv() error {
	var e Env
	if err := env.Parse(&e); err != nil {
		return fmt.Errorf("environment: %w", err)
	}
	set(&c.Driver, e.Driver)
	set(&c.Chipset, e.Chipset)
	set(&c.Pattern, e.Pattern)
	set(&c.SPI.Port, e.SPIPort)
	set(&c.Monitor.Addr, e.MonitorAddr)
	set(&c.Log.Level, e.LogLevel)
	if e.Pixels != 0 {
		c.Pixels = e.Pixels
	}
	if e.Brightness != 0 {
		c.Brightness = e.Brightness
	}
	return nil
}

func set(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

var patterns = map[string]bool{"rainbow": true, "sweep": true, "rgb": true, "solid": true, "off": true}

// Validate reports every problem at once.
func (c *Config) Validate() error {
	var err error
	switch c.Driver {
	case DriverSim, DriverSPI, DriverNRZLED, DriverBitbang, DriverPulse:
	default:
		err = multierr.Append(err, fmt.Errorf("driver %q: want sim, spi, nrzled, bitbang or pulse", c.Driver))
	}
	fam, ferr := c.Family()
	err = multierr.Append(err, ferr)
	if ferr == nil {
		var cerr error
		if fam == chipset.Clocked {
			_, cerr = c.ClockedChipset()
		} else {
			_, cerr = c.ClocklessChipset()
		}
		err = multierr.Append(err, cerr)
	}
	if c.Pixels < 1 {
		err = multierr.Append(err, fmt.Errorf("pixels must be at least 1, got %d", c.Pixels))
	}
	if c.Brightness < 0 || c.Brightness > 1 {
		err = multierr.Append(err, fmt.Errorf("brightness %.2f outside [0,1]", c.Brightness))
	}
	if _, cerr := c.ColorCorrection(); cerr != nil {
		err = multierr.Append(err, cerr)
	}
	if c.FPS < 1 {
		err = multierr.Append(err, fmt.Errorf("fps must be at least 1, got %d", c.FPS))
	}
	if c.Power.LimitAmps < 0 {
		err = multierr.Append(err, fmt.Errorf("power.limit_amps must not be negative"))
	}
	if c.Power.WhiteCap < 0 || c.Power.WhiteCap > 3 {
		err = multierr.Append(err, fmt.Errorf("power.white_cap %.2f outside [0,3]", c.Power.WhiteCap))
	}
	if !patterns[c.Pattern] {
		err = multierr.Append(err, fmt.Errorf("pattern %q: want rainbow, sweep, rgb, solid or off", c.Pattern))
	}
	if c.Pattern == "solid" {
		if _, cerr := color.ParseHex(c.Color); cerr != nil {
			err = multierr.Append(err, fmt.Errorf("color: %w", cerr))
		}
	}
	switch c.Driver {
	case DriverNRZLED, DriverPulse:
		if ferr == nil && fam != chipset.Clockless {
			err = multierr.Append(err, fmt.Errorf("driver %s needs a clockless chipset, %s is clocked", c.Driver, c.Chipset))
		}
	case DriverBitbang:
		if c.GPIO.Data == "" {
			err = multierr.Append(err, fmt.Errorf("gpio.data is required for the bitbang driver"))
		}
		if ferr == nil && fam == chipset.Clocked && c.GPIO.Clock == "" {
			err = multierr.Append(err, fmt.Errorf("gpio.clock is required for clocked chipsets"))
		}
	}
	if c.Driver == DriverPulse {
		if c.Pulse.Pin == "" {
			err = multierr.Append(err, fmt.Errorf("pulse.pin is required for the pulse driver"))
		}
		if c.Pulse.ClockHz <= 0 {
			err = multierr.Append(err, fmt.Errorf("pulse.clock_hz must be positive"))
		}
	}
	return err
}

// ColorCorrection resolves the correction field.
func (c *Config) ColorCorrection() (color.Correction, error) {
	switch strings.ToLower(c.Correction) {
	case "", "none":
		return color.NoCorrection, nil
	case "smd5050":
		return color.TypicalSMD5050, nil
	case "strip":
		return color.TypicalLEDStrip, nil
	case "string":
		return color.TypicalPixelString, nil
	}
	s, err := color.ParseHex(c.Correction)
	if err != nil {
		return color.Correction{}, fmt.Errorf("correction %q: want none, smd5050, strip, string or a hex color", c.Correction)
	}
	return color.Correction{Red: s.R, Green: s.G, Blue: s.B}, nil
}
