package config

import (
	"strings"
	"time"

	"github.com/coreman2200/ledwire/channel"
	"github.com/coreman2200/ledwire/chipset"
	"github.com/coreman2200/ledwire/clocked"
	"github.com/coreman2200/ledwire/clockless"
	"github.com/coreman2200/ledwire/fault"
)

// CustomChipset names a clockless part described entirely by the timing
// block and layout.
const CustomChipset = "custom"

// Timing is a clockless bit timing, written as durations ("350ns", "50us").
type Timing struct {
	T0H   time.Duration `yaml:"t0h"`
	T0L   time.Duration `yaml:"t0l"`
	T1H   time.Duration `yaml:"t1h"`
	T1L   time.Duration `yaml:"t1l"`
	Reset time.Duration `yaml:"reset"`
}

func (t Timing) clockless() clockless.Timing {
	return clockless.Timing{T0H: t.T0H, T0L: t.T0L, T1H: t.T1H, T1L: t.T1L, Reset: t.Reset}
}

// Family is the protocol family of the configured chipset.
func (c *Config) Family() (chipset.Family, error) {
	if strings.EqualFold(c.Chipset, CustomChipset) {
		return chipset.Clockless, nil
	}
	return chipset.Lookup(c.Chipset)
}

// ClockedChipset resolves the chipset with the layout override applied to
// its channel order.
func (c *Config) ClockedChipset() (clocked.Chipset, error) {
	chip, err := chipset.ClockedByName(c.Chipset)
	if err != nil {
		return nil, err
	}
	if c.Timing != nil {
		return nil, fault.Configf("chipset", "timing only applies to clockless chipsets, %s is clocked", c.Chipset)
	}
	if c.Layout == "" {
		return chip, nil
	}
	l, err := channel.ParseLayout(c.Layout)
	if err != nil {
		return nil, err
	}
	if l.White() {
		return nil, fault.Configf("chipset", "%s has no white channel, layout %s", c.Chipset, l)
	}
	switch chip := chip.(type) {
	case chipset.APA102:
		chip.Order = l.RGB()
		return chip, nil
	case chipset.LPD8806:
		chip.Order = l.RGB()
		return chip, nil
	}
	return nil, fault.Configf("chipset", "%s does not take a layout", c.Chipset)
}

// ClocklessChipset resolves the chipset with the timing and layout overrides
// applied. The custom chipset starts from GRB and needs a timing block.
func (c *Config) ClocklessChipset() (clockless.Chipset, error) {
	var base clockless.Chipset
	if strings.EqualFold(c.Chipset, CustomChipset) {
		if c.Timing == nil {
			return nil, fault.Configf("chipset", "chipset custom needs a timing block")
		}
		base = chipset.Custom{ID: CustomChipset, L: channel.RGBLayout(channel.GRB)}
	} else {
		chip, err := chipset.ClocklessByName(c.Chipset)
		if err != nil {
			return nil, err
		}
		base = chip
	}
	if c.Timing == nil && c.Layout == "" {
		return base, nil
	}

	chip := chipset.Custom{ID: base.Name(), T: base.Timing(), L: base.Layout()}
	if c.Timing != nil {
		chip.T = c.Timing.clockless()
		if err := chip.T.Validate(); err != nil {
			return nil, err
		}
	}
	if c.Layout != "" {
		l, err := channel.ParseLayout(c.Layout)
		if err != nil {
			return nil, err
		}
		chip.L = l
	}
	return chip, nil
}
