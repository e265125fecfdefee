package pulse

import (
	"context"

	"periph.io/x/conn/v3/physic"

	"github.com/coreman2200/ledwire/bits"
	"github.com/coreman2200/ledwire/clockless"
	"github.com/coreman2200/ledwire/fault"
	"github.com/coreman2200/ledwire/frame"
)

// Channel plays one hardware buffer of codes and returns once the
// peripheral has finished with it. The last code of every chunk is End.
type Channel interface {
	Transmit(ctx context.Context, chunk []Code) error
}

// ChannelFunc adapts a function to a Channel.
type ChannelFunc func(ctx context.Context, chunk []Code) error

func (f ChannelFunc) Transmit(ctx context.Context, chunk []Code) error { return f(ctx, chunk) }

// DefaultBufferSize is one RMT memory block.
const DefaultBufferSize = 64

// Config sizes a Transmitter.
type Config struct {
	// Clock is the peripheral tick rate. Zero means DefaultClock.
	Clock physic.Frequency
	// BufferSize is the number of codes the peripheral holds at once,
	// terminator included. Zero means DefaultBufferSize.
	BufferSize int
	// Capacity is the most codes a frame may need, reset included. See
	// BufferSize (the function) for sizing it from a pixel count.
	Capacity int
}

// Transmitter turns bytes into pulse codes and feeds them to a Channel in
// buffer-sized chunks. It implements clockless.Transmitter.
type Transmitter struct {
	ch    Channel
	codes Set
	size  int
	frame *frame.Buffer[Code]
	chunk []Code
}

var _ clockless.Transmitter = (*Transmitter)(nil)

// New precomputes the codes for chip and allocates the frame and chunk
// buffers. The peripheral buffer must hold at least one pixel plus its
// terminator.
func New(ch Channel, chip clockless.Chipset, cfg Config) (*Transmitter, error) {
	if ch == nil || chip == nil {
		return nil, fault.Configf("pulse new", "channel and chipset are required")
	}
	codes, err := Codes(chip.Timing(), cfg.Clock)
	if err != nil {
		return nil, err
	}
	size := cfg.BufferSize
	if size == 0 {
		size = DefaultBufferSize
	}
	bitsPerPixel := clockless.PixelLen(chip) * 8
	if size < bitsPerPixel+1 {
		return nil, fault.Configf("pulse new", "buffer of %d codes cannot hold a %d-bit pixel and its terminator", size, bitsPerPixel)
	}
	if cfg.Capacity <= 0 {
		return nil, fault.Configf("pulse new", "frame capacity must be positive, got %d", cfg.Capacity)
	}
	return &Transmitter{
		ch:    ch,
		codes: codes,
		size:  size,
		frame: frame.New[Code](cfg.Capacity),
		chunk: make([]Code, 0, size),
	}, nil
}

// Codes returns the precomputed code set.
func (t *Transmitter) Codes() Set { return t.codes }

// Transmit converts the whole frame before sending anything, so a frame
// that exceeds the capacity leaves the line untouched. Chunks go out in
// order, each waiting for the previous one; cancelling ctx does not stop a
// frame once the first chunk is sent.
func (t *Transmitter) Transmit(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.frame.Reset()
	err := bits.Each(data, 8, bits.MSBFirst, func(bit bool) error {
		return t.frame.Append(t.codes.Code(bit))
	})
	if err == nil {
		err = t.frame.Append(t.codes.Reset)
	}
	if err != nil {
		return err
	}
	return t.send(context.WithoutCancel(ctx), t.frame.Words())
}

func (t *Transmitter) send(ctx context.Context, codes []Code) error {
	step := t.size - 1
	for i := 0; i < len(codes); i += step {
		end := i + step
		if end > len(codes) {
			end = len(codes)
		}
		t.chunk = append(t.chunk[:0], codes[i:end]...)
		t.chunk = append(t.chunk, End)
		if err := t.ch.Transmit(ctx, t.chunk); err != nil {
			return fault.IO("pulse transmit", err)
		}
	}
	return nil
}

// Close releases the channel if it holds resources.
func (t *Transmitter) Close() error {
	if c, ok := t.ch.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
