package chipset

import (
	"time"

	"github.com/coreman2200/ledwire/channel"
	"github.com/coreman2200/ledwire/clockless"
)

// WS2812 (NeoPixel) timing, GRB order.
type WS2812 struct{}

var _ clockless.Chipset = WS2812{}

func (WS2812) Name() string { return "ws2812" }

func (WS2812) Timing() clockless.Timing {
	return clockless.Timing{
		T0H:   400 * time.Nanosecond,
		T0L:   850 * time.Nanosecond,
		T1H:   800 * time.Nanosecond,
		T1L:   450 * time.Nanosecond,
		Reset: 50 * time.Microsecond,
	}
}

func (WS2812) Layout() channel.Layout { return channel.RGBLayout(channel.GRB) }

// SK6812 is the RGBW variant of the WS2812 family.
type SK6812 struct{}

var _ clockless.Chipset = SK6812{}

func (SK6812) Name() string { return "sk6812" }

func (SK6812) Timing() clockless.Timing {
	return clockless.Timing{
		T0H:   300 * time.Nanosecond,
		T0L:   900 * time.Nanosecond,
		T1H:   600 * time.Nanosecond,
		T1L:   600 * time.Nanosecond,
		Reset: 80 * time.Microsecond,
	}
}

func (SK6812) Layout() channel.Layout { return channel.RGBWLayout(channel.GRBW) }

// WS2811 in its 400kHz mode. Both bits last 2.5µs.
type WS2811 struct{}

var _ clockless.Chipset = WS2811{}

func (WS2811) Name() string { return "ws2811" }

func (WS2811) Timing() clockless.Timing {
	return clockless.Timing{
		T0H:   500 * time.Nanosecond,
		T0L:   2000 * time.Nanosecond,
		T1H:   1200 * time.Nanosecond,
		T1L:   1300 * time.Nanosecond,
		Reset: 50 * time.Microsecond,
	}
}

func (WS2811) Layout() channel.Layout { return channel.RGBLayout(channel.RGB) }

// Custom is a clockless chipset described by configuration.
type Custom struct {
	ID string
	T  clockless.Timing
	L  channel.Layout
}

var _ clockless.Chipset = Custom{}

func (c Custom) Name() string             { return c.ID }
func (c Custom) Timing() clockless.Timing { return c.T }
func (c Custom) Layout() channel.Layout   { return c.L }
