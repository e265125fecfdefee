// Package driver defines the contract the orchestration layer uses to push
// one frame of colors per tick, and the options shared by every driver.
package driver

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/coreman2200/ledwire/color"
	"github.com/coreman2200/ledwire/fault"
)

// Driver owns one LED chain: a chipset protocol plus a transmission backend.
//
// Write encodes and transmits a full frame before returning. The number of
// pixels is fixed at construction and len(pixels) must match it exactly.
// Calls are serialized; the handle must not be shared by concurrent loops.
type Driver interface {
	Write(ctx context.Context, pixels []color.LinearSRGB, brightness float64, corr color.Correction) error
	Close() error
}

// CheckPixels enforces the exact-length precondition of Write.
func CheckPixels(want, got int) error {
	if want != got {
		return fault.Configf("write", "got %d pixels, driver is configured for %d", got, want)
	}
	return nil
}

// Frame describes one transmitted frame.
type Frame struct {
	Seq     uint64
	Chipset string
	Pixels  int
	Words   []byte
	Took    time.Duration
}

// Observer receives every frame after it has been transmitted. Words must not
// be retained past the call.
type Observer interface {
	ObserveFrame(f Frame)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(f Frame)

func (fn ObserverFunc) ObserveFrame(f Frame) { fn(f) }

// Options are shared by the clocked and clockless drivers.
type Options struct {
	Log      zerolog.Logger
	Observer Observer
	// Capacity overrides the frame buffer size in words. Zero sizes the
	// buffer for exactly the configured pixel count.
	Capacity int
}

type Option func(*Options)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(o *Options) { o.Log = l }
}

// WithObserver registers a frame tap.
func WithObserver(obs Observer) Option {
	return func(o *Options) { o.Observer = obs }
}

// WithCapacity fixes the frame buffer size in words.
func WithCapacity(words int) Option {
	return func(o *Options) { o.Capacity = words }
}

// Apply resolves opts over the defaults.
func Apply(opts []Option) Options {
	o := Options{Log: zerolog.Nop()}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}
