package app

import "github.com/coreman2200/ledwire/color"

// DefaultChannelMA is the full-scale current of one WS2812-class emitter.
const DefaultChannelMA = 20

// Limiter caps current draw before a frame reaches the driver, in two
// stages: a per-LED white cap, then a budget for the whole chain.
type Limiter struct {
	// WhiteCap bounds R+G+B per LED in linear units. Zero or >= 3 disables.
	WhiteCap float64
	// ChannelMA is the current of one channel at full scale.
	ChannelMA float64
	// BudgetMA is the total allowed current. Zero disables.
	BudgetMA float64
}

// Apply limits frame in place and returns the estimated draw in mA after
// limiting. Brightness is the global value the driver will apply.
func (l Limiter) Apply(frame []color.LinearSRGB, brightness float64) float64 {
	if l.WhiteCap > 0 && l.WhiteCap < 3 {
		for i, c := range frame {
			if s := c.R + c.G + c.B; s > l.WhiteCap {
				frame[i] = c.Scale(l.WhiteCap / s)
			}
		}
	}

	chanMA := l.ChannelMA
	if chanMA <= 0 {
		chanMA = DefaultChannelMA
	}
	total := EstimateMA(frame, brightness, chanMA)
	if l.BudgetMA <= 0 || total <= l.BudgetMA {
		return total
	}
	k := l.BudgetMA / total
	for i, c := range frame {
		frame[i] = c.Scale(k)
	}
	return l.BudgetMA
}

// EstimateMA is the chain current for frame at brightness, assuming current
// is linear in channel intensity.
func EstimateMA(frame []color.LinearSRGB, brightness, channelMA float64) float64 {
	var sum float64
	for _, c := range frame {
		c = c.Clamp()
		sum += c.R + c.G + c.B
	}
	if brightness < 0 {
		brightness = 0
	} else if brightness > 1 {
		brightness = 1
	}
	return sum * brightness * channelMA
}
