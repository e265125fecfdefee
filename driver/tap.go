package driver

import "time"

// Tap does the bookkeeping every driver shares after a frame is encoded:
// sequence numbers, per-frame logging and the Observer. It is not safe for
// concurrent use; drivers call it under their own lock.
type Tap struct {
	opts    Options
	chipset string
	pixels  int
	seq     uint64
}

func NewTap(chipset string, pixels int, o Options) *Tap {
	return &Tap{opts: o, chipset: chipset, pixels: pixels}
}

// Seq is the number of frames sent so far.
func (t *Tap) Seq() uint64 { return t.seq }

// Overflow logs a frame that did not fit in capacity words and returns err.
func (t *Tap) Overflow(err error, capacity int) error {
	t.opts.Log.Warn().Err(err).Str("chipset", t.chipset).Int("capacity", capacity).Msg("frame does not fit")
	return err
}

// Send times send. On success the frame gets the next sequence number and is
// passed to the observer; on failure nothing is counted.
func (t *Tap) Send(words []byte, send func() error) error {
	start := time.Now()
	if err := send(); err != nil {
		t.opts.Log.Warn().Err(err).Str("chipset", t.chipset).Msg("frame transmit failed")
		return err
	}
	t.seq++
	took := time.Since(start)
	t.opts.Log.Debug().Uint64("seq", t.seq).Int("bytes", len(words)).Dur("took", took).Msg("frame")
	if t.opts.Observer != nil {
		t.opts.Observer.ObserveFrame(Frame{
			Seq:     t.seq,
			Chipset: t.chipset,
			Pixels:  t.pixels,
			Words:   words,
			Took:    took,
		})
	}
	return nil
}
