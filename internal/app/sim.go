package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// Sim stands in for a bus or a pin. It accepts every frame the real drivers
// encode and logs a compact summary, useful for headless runs.
type Sim struct {
	mu    sync.Mutex
	log   zerolog.Logger
	Count int
	Last  []byte
}

func NewSim(log zerolog.Logger) *Sim {
	return &Sim{log: log}
}

// Write implements clocked.Writer.
func (s *Sim) Write(words []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Count++
	s.Last = append(s.Last[:0], words...)

	var sum float64
	for _, w := range words {
		sum += float64(w)
	}
	n := float64(len(words))
	if n == 0 {
		n = 1
	}
	ev := s.log.Debug().Int("frame", s.Count).Int("bytes", len(words)).Float64("avg", sum/n)
	if len(words) > 0 {
		ev = ev.Hex("head", words[:min(8, len(words))])
	}
	ev.Msg("sim frame")
	return nil
}

// Transmit implements clockless.Transmitter.
func (s *Sim) Transmit(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.Write(data)
}

func (s *Sim) Close() error { return nil }
