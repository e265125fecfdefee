package diag

import "github.com/coreman2200/ledwire/color"

type Kind string

const (
	None       Kind = ""
	IndexSweep Kind = "sweep"
	RGBTest    Kind = "rgb"
	Solid      Kind = "solid"
	Rainbow    Kind = "rainbow"
	Off        Kind = "off"
)

type Plan struct {
	Kind  Kind
	Color color.LinearSRGB // Solid only
	// Period is the number of steps per full hue cycle (Rainbow) or per
	// channel (RGBTest). Zero means 1.
	Period int
}

// Runner produces bring-up test frames.
type Runner struct {
	plan Plan
	step int
}

func NewRunner(plan Plan) *Runner {
	if plan.Period < 1 {
		plan.Period = 1
	}
	return &Runner{plan: plan}
}

func (r *Runner) Kind() Kind { return r.plan.Kind }

// Step fills frame; returns false when complete. Sweep completes after one
// pass over the chain; the other patterns never do.
func (r *Runner) Step(frame []color.LinearSRGB) bool {
	n := len(frame)
	for i := range frame {
		frame[i] = color.LinearSRGB{}
	}

	switch r.plan.Kind {
	case IndexSweep:
		if r.step >= n {
			return false
		}
		frame[r.step] = color.LinearSRGB{R: 1, G: 1, B: 1}
	case RGBTest:
		var c color.LinearSRGB
		switch (r.step / r.plan.Period) % 3 {
		case 0:
			c.R = 1
		case 1:
			c.G = 1
		case 2:
			c.B = 1
		}
		for i := range frame {
			frame[i] = c
		}
	case Solid:
		for i := range frame {
			frame[i] = r.plan.Color
		}
	case Rainbow:
		offset := float64(r.step%r.plan.Period) / float64(r.plan.Period)
		for i := range frame {
			frame[i] = color.NewHSV(float64(i)/float64(n)+offset, 1, 1).Linear()
		}
	case Off:
	default:
		return false
	}
	r.step++
	return true
}
