package app

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/coreman2200/ledwire/color"
	"github.com/coreman2200/ledwire/driver"
	"github.com/coreman2200/ledwire/internal/diag"
	"github.com/coreman2200/ledwire/internal/monitor"
)

const DefaultFPS = 30

// Loop renders a test pattern into the driver at a fixed rate.
type Loop struct {
	drv  driver.Driver
	log  zerolog.Logger
	fps  int
	corr color.Correction

	// Report receives a diagnostic for every failed frame.
	Report func(diag.Diagnostic)
	// Limit is applied to every frame before it is written.
	Limit Limiter

	mu         sync.Mutex
	brightness float64
	base       diag.Plan
	runner     *diag.Runner
	frame      []color.LinearSRGB
	seq        uint64
	failures   uint64
	drawMA     float64
}

func NewLoop(drv driver.Driver, pixels, fps int, brightness float64, corr color.Correction, plan diag.Plan, log zerolog.Logger) *Loop {
	if fps < 1 {
		fps = DefaultFPS
	}
	if plan.Period == 0 {
		plan.Period = fps
	}
	return &Loop{
		drv:        drv,
		log:        log,
		fps:        fps,
		corr:       corr,
		brightness: brightness,
		base:       plan,
		runner:     diag.NewRunner(plan),
		frame:      make([]color.LinearSRGB, pixels),
	}
}

// SetBrightness changes the brightness from the next frame on.
func (l *Loop) SetBrightness(b float64) {
	l.mu.Lock()
	l.brightness = b
	l.mu.Unlock()
}

// RunTest interrupts the pattern with a one-off test. The configured pattern
// resumes when the test completes.
func (l *Loop) RunTest(kind diag.Kind) {
	l.mu.Lock()
	l.runner = diag.NewRunner(diag.Plan{Kind: kind, Color: l.base.Color, Period: l.fps})
	l.mu.Unlock()
	l.log.Info().Str("test", string(kind)).Msg("running test")
}

// Control applies a monitor control message.
func (l *Loop) Control(c monitor.Control) {
	if c.Brightness != nil {
		l.SetBrightness(*c.Brightness)
	}
	if c.Pattern != "" {
		l.RunTest(diag.Kind(c.Pattern))
	}
}

// Step renders and writes one frame. A failed frame is reported and not
// retried; the next tick renders a new one.
func (l *Loop) Step(ctx context.Context) error {
	l.mu.Lock()
	if !l.runner.Step(l.frame) {
		l.runner = diag.NewRunner(l.base)
		l.runner.Step(l.frame)
	}
	b := l.brightness
	l.seq++
	seq := l.seq
	l.mu.Unlock()
	l.drawMA = l.Limit.Apply(l.frame, b)

	err := l.drv.Write(ctx, l.frame, b, l.corr)
	if err == nil || ctx.Err() != nil {
		return err
	}
	l.mu.Lock()
	l.failures++
	failures := l.failures
	l.mu.Unlock()
	l.log.Warn().Err(err).Uint64("seq", seq).Uint64("failures", failures).Msg("frame failed")
	if l.Report != nil {
		l.Report(diag.FromError(err, map[string]any{"seq": seq, "failures": failures, "est_ma": l.drawMA}))
	}
	return err
}

// Run ticks until ctx is done.
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(time.Second / time.Duration(l.fps))
	defer ticker.Stop()
	l.log.Info().Int("fps", l.fps).Int("pixels", len(l.frame)).Msg("loop starting")
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			_ = l.Step(ctx)
		}
	}
}

// Failures is the number of frames that could not be written.
func (l *Loop) Failures() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.failures
}
