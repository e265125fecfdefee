// Package delay provides the timers the bit-banged backends wait on.
//
// Clockless protocols need pulse widths in the hundreds of nanoseconds. Only
// a busy-wait timer on an otherwise idle core gets close to that; a timer
// that parks the goroutine is fine for clocked chipsets, whose timing is not
// critical, and is rejected by the clockless backend.
package delay

import (
	"sync"
	"time"
)

// Delayer blocks the caller for at least d.
type Delayer interface {
	Delay(d time.Duration)
	// Resolution is the smallest delay the timer can honor reliably.
	Resolution() time.Duration
}

// Spin busy-waits on the monotonic clock. It occupies a CPU for the whole
// frame.
type Spin struct {
	once sync.Once
	res  time.Duration
}

// NewSpin returns a busy-wait timer.
func NewSpin() *Spin { return &Spin{} }

func (s *Spin) Delay(d time.Duration) {
	if d <= 0 {
		return
	}
	deadline := time.Now().Add(d)
	for time.Now().Before(deadline) {
	}
}

// Resolution measures the clock granularity once.
func (s *Spin) Resolution() time.Duration {
	s.once.Do(func() { s.res = measure() })
	return s.res
}

// measure returns the smallest observed step of time.Now.
func measure() time.Duration {
	best := time.Duration(1<<63 - 1)
	for i := 0; i < 64; i++ {
		a := time.Now()
		b := time.Now()
		for !b.After(a) {
			b = time.Now()
		}
		if step := b.Sub(a); step < best {
			best = step
		}
	}
	return best
}

// Sleep parks the goroutine, letting the scheduler run other work while it
// waits. Its resolution is the scheduler's, far too coarse for clockless
// pulses.
type Sleep struct {
	// Res overrides the assumed resolution.
	Res time.Duration
}

// DefaultSleepResolution is a conservative bound for time.Sleep on a loaded
// Linux host.
const DefaultSleepResolution = time.Millisecond

func (s Sleep) Delay(d time.Duration) {
	if d > 0 {
		time.Sleep(d)
	}
}

func (s Sleep) Resolution() time.Duration {
	if s.Res > 0 {
		return s.Res
	}
	return DefaultSleepResolution
}

// Recorder records every requested delay without waiting. Tests and dry runs
// use it.
type Recorder struct {
	mu     sync.Mutex
	Delays []time.Duration
}

func (r *Recorder) Delay(d time.Duration) {
	r.mu.Lock()
	r.Delays = append(r.Delays, d)
	r.mu.Unlock()
}

func (r *Recorder) Resolution() time.Duration { return time.Nanosecond }

// Total is the sum of every recorded delay.
func (r *Recorder) Total() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	var t time.Duration
	for _, d := range r.Delays {
		t += d
	}
	return t
}
