// Package spibus drives LED chains from a hardware SPI port.
//
// Clocked chipsets use SPI as it is meant to be used: MOSI carries data and
// SCLK the clock. Clockless chipsets only use MOSI, with every data bit
// stretched into a symbol of several SPI bits so the line stays high for the
// right time.
package spibus

import (
	"sync"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"

	"github.com/coreman2200/ledwire/clocked"
	"github.com/coreman2200/ledwire/fault"
)

// DefaultClockedFreq suits APA102 and LPD8806 chains of a few hundred LEDs.
const DefaultClockedFreq = 4 * physic.MegaHertz

// Writer pushes words to an SPI connection, write only.
type Writer struct {
	mu     sync.Mutex
	conn   spi.Conn
	port   spi.Port
	maxTx  int
	closed bool
}

var _ clocked.Writer = (*Writer)(nil)

// NewWriter wraps an established connection. Transfers are split when the
// connection reports a maximum transaction size.
func NewWriter(c spi.Conn) (*Writer, error) {
	if c == nil {
		return nil, fault.Configf("spi writer", "connection is required")
	}
	w := &Writer{conn: c}
	if l, ok := c.(interface{ MaxTxSize() int }); ok {
		w.maxTx = l.MaxTxSize()
	}
	return w, nil
}

// Open connects to port in mode 0 with 8-bit words. The returned writer owns
// the port and closes it if it can be closed.
func Open(port spi.Port, freq physic.Frequency) (*Writer, error) {
	if port == nil {
		return nil, fault.Configf("spi open", "port is required")
	}
	if freq <= 0 {
		freq = DefaultClockedFreq
	}
	c, err := port.Connect(freq, spi.Mode0, 8)
	if err != nil {
		return nil, fault.Config("spi connect", err)
	}
	w, err := NewWriter(c)
	if err != nil {
		return nil, err
	}
	w.port = port
	return w, nil
}

// Write sends words in one transaction, or in consecutive ones of at most
// MaxTxSize bytes.
func (w *Writer) Write(words []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return fault.Configf("spi write", "writer is closed")
	}
	for len(words) > 0 {
		n := len(words)
		if w.maxTx > 0 && n > w.maxTx {
			n = w.maxTx
		}
		if err := w.conn.Tx(words[:n], nil); err != nil {
			return fault.IO("spi tx", err)
		}
		words = words[n:]
	}
	return nil
}

func (w *Writer) String() string { return "spibus{" + w.conn.String() + "}" }

// Close closes the port when the writer opened it.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	if c, ok := w.port.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
