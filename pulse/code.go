// Package pulse drives clockless chipsets through a pulse-generation
// peripheral that plays back (level, duration) pairs from a small hardware
// buffer, in the style of the ESP32 RMT.
package pulse

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3/physic"

	"github.com/coreman2200/ledwire/clockless"
	"github.com/coreman2200/ledwire/fault"
)

// Code is one peripheral word: two (level, duration) halves. Durations are
// 15-bit tick counts; the level sits in the bit above each duration.
//
//	bit 31     level1
//	bits 30-16 ticks1
//	bit 15     level0
//	bits 14-0  ticks0
//
// A zero Code ends a transmission.
type Code uint32

// MaxTicks is the longest duration one half of a Code can hold.
const MaxTicks = 1<<15 - 1

// End terminates every hardware buffer.
const End Code = 0

// NewCode packs two halves. Durations above MaxTicks are truncated.
func NewCode(level0 bool, ticks0 uint16, level1 bool, ticks1 uint16) Code {
	c := Code(ticks0&MaxTicks) | Code(ticks1&MaxTicks)<<16
	if level0 {
		c |= 1 << 15
	}
	if level1 {
		c |= 1 << 31
	}
	return c
}

func (c Code) Level0() bool   { return c&(1<<15) != 0 }
func (c Code) Ticks0() uint16 { return uint16(c & MaxTicks) }
func (c Code) Level1() bool   { return c&(1<<31) != 0 }
func (c Code) Ticks1() uint16 { return uint16(c >> 16 & MaxTicks) }

func (c Code) String() string {
	return fmt.Sprintf("{%s:%d %s:%d}", level(c.Level0()), c.Ticks0(), level(c.Level1()), c.Ticks1())
}

func level(l bool) string {
	if l {
		return "H"
	}
	return "L"
}

// Set is the three codes a clockless frame is made of, computed once.
type Set struct {
	Zero, One, Reset Code
	Clock            physic.Frequency
}

// DefaultClock is the usual RMT tick rate (APB clock, no divider).
const DefaultClock = 80 * physic.MegaHertz

// Codes converts timing into pulse codes for a peripheral ticking at clock.
// A pulse that rounds down to zero ticks or overflows 15 bits cannot be
// represented and is a configuration fault.
func Codes(t clockless.Timing, clock physic.Frequency) (Set, error) {
	if err := t.Validate(); err != nil {
		return Set{}, err
	}
	if clock <= 0 {
		clock = DefaultClock
	}
	var half [4]uint16
	for i, d := range []time.Duration{t.T0H, t.T0L, t.T1H, t.T1L} {
		n := Ticks(d, clock)
		if n == 0 || n > MaxTicks {
			return Set{}, fault.Configf("pulse codes", "%s is %d ticks at %s, want 1..%d", d, n, clock, MaxTicks)
		}
		half[i] = uint16(n)
	}

	reset := Ticks(t.Reset, clock)
	if reset == 0 || reset > 2*MaxTicks {
		return Set{}, fault.Configf("pulse codes", "reset %s is %d ticks at %s, want 1..%d", t.Reset, reset, clock, 2*MaxTicks)
	}
	r0, r1 := reset, int64(0)
	if r0 > MaxTicks {
		r0, r1 = MaxTicks, reset-MaxTicks
	}

	return Set{
		Zero:  NewCode(true, half[0], false, half[1]),
		One:   NewCode(true, half[2], false, half[3]),
		Reset: NewCode(false, uint16(r0), false, uint16(r1)),
		Clock: clock,
	}, nil
}

// Ticks is the number of whole clock ticks in d (ns × Hz / 1e9, truncated).
func Ticks(d time.Duration, clock physic.Frequency) int64 {
	hz := int64(clock / physic.Hertz)
	return d.Nanoseconds() * hz / int64(time.Second)
}

// Code returns the code for one bit value.
func (s Set) Code(bit bool) Code {
	if bit {
		return s.One
	}
	return s.Zero
}

// BufferSize is the code count for a frame of pixels: one code per bit plus
// the reset code.
func BufferSize(pixels, bitsPerPixel int) int {
	return pixels*bitsPerPixel + 1
}
