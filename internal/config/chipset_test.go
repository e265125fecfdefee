package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/ledwire/channel"
	"github.com/coreman2200/ledwire/chipset"
	"github.com/coreman2200/ledwire/fault"
)

func TestCustomChipsetFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	doc := `chipset: custom
layout: RGBW
timing:
  t0h: 300ns
  t0l: 900ns
  t1h: 700ns
  t1l: 300ns
  reset: 80us
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))
	c, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, c.Validate())

	fam, err := c.Family()
	require.NoError(t, err)
	assert.Equal(t, chipset.Clockless, fam)

	chip, err := c.ClocklessChipset()
	require.NoError(t, err)
	assert.Equal(t, "custom", chip.Name())
	assert.Equal(t, channel.RGBWLayout(channel.RGBW), chip.Layout())
	assert.Equal(t, 300*time.Nanosecond, chip.Timing().T0H)
	assert.Equal(t, 80*time.Microsecond, chip.Timing().Reset)
	assert.False(t, chip.Timing().Constant())

	require.NoError(t, Save(path, c))
	again, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, c, again)
}

func TestCustomChipsetNeedsTiming(t *testing.T) {
	c := Default()
	c.Chipset = "custom"
	_, err := c.ClocklessChipset()
	assert.ErrorIs(t, err, fault.ErrConfig)
	assert.Error(t, c.Validate())
}

func TestClocklessOverrides(t *testing.T) {
	c := Default()
	chip, err := c.ClocklessChipset()
	require.NoError(t, err)
	assert.Equal(t, chipset.WS2812{}, chip, "no overrides keeps the named chipset")

	c.Layout = "rgb"
	chip, err = c.ClocklessChipset()
	require.NoError(t, err)
	assert.Equal(t, "ws2812", chip.Name())
	assert.Equal(t, channel.RGBLayout(channel.RGB), chip.Layout())
	assert.Equal(t, chipset.WS2812{}.Timing(), chip.Timing())

	c.Layout = "RGBX"
	_, err = c.ClocklessChipset()
	assert.ErrorIs(t, err, fault.ErrConfig)

	c.Layout = ""
	c.Timing = &Timing{T0H: 400 * time.Nanosecond}
	_, err = c.ClocklessChipset()
	assert.ErrorIs(t, err, fault.ErrConfig, "every pulse must be positive")
}

func TestClockedLayout(t *testing.T) {
	c := Default()
	c.Chipset = "apa102"
	chip, err := c.ClockedChipset()
	require.NoError(t, err)
	assert.Equal(t, chipset.NewAPA102(), chip)

	c.Layout = "RGB"
	chip, err = c.ClockedChipset()
	require.NoError(t, err)
	assert.Equal(t, channel.RGB, chip.(chipset.APA102).Order)

	c.Chipset = "lpd8806"
	c.Layout = "BRG"
	chip, err = c.ClockedChipset()
	require.NoError(t, err)
	assert.Equal(t, channel.BRG, chip.(chipset.LPD8806).Order)

	c.Layout = "GRBW"
	_, err = c.ClockedChipset()
	assert.ErrorIs(t, err, fault.ErrConfig)

	c.Layout = ""
	c.Timing = &Timing{}
	_, err = c.ClockedChipset()
	assert.ErrorIs(t, err, fault.ErrConfig)
	assert.Error(t, c.Validate())
}
