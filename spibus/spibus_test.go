package spibus

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spitest"

	"github.com/coreman2200/ledwire/chipset"
	"github.com/coreman2200/ledwire/clocked"
	"github.com/coreman2200/ledwire/clockless"
	"github.com/coreman2200/ledwire/color"
	"github.com/coreman2200/ledwire/driver"
	"github.com/coreman2200/ledwire/fault"
)

type fakeConn struct {
	txs [][]byte
	err error
}

func (c *fakeConn) String() string                 { return "fake" }
func (c *fakeConn) Duplex() conn.Duplex            { return conn.Half }
func (c *fakeConn) TxPackets(p []spi.Packet) error { return errors.New("not supported") }
func (c *fakeConn) Tx(w, r []byte) error {
	if c.err != nil {
		return c.err
	}
	c.txs = append(c.txs, append([]byte(nil), w...))
	return nil
}

type limitedConn struct {
	*fakeConn
	max int
}

func (c limitedConn) MaxTxSize() int { return c.max }

type fakePort struct {
	conn   spi.Conn
	freq   physic.Frequency
	mode   spi.Mode
	bits   int
	closed bool
}

func (p *fakePort) String() string { return "fakeport" }
func (p *fakePort) Connect(f physic.Frequency, mode spi.Mode, bits int) (spi.Conn, error) {
	p.freq, p.mode, p.bits = f, mode, bits
	return p.conn, nil
}
func (p *fakePort) Close() error {
	p.closed = true
	return nil
}

func TestWriterRecordsFrame(t *testing.T) {
	var buf bytes.Buffer
	w, err := Open(spitest.NewRecordRaw(&buf), 0)
	require.NoError(t, err)

	d, err := clocked.New(chipset.NewAPA102(), w, 1)
	require.NoError(t, err)
	require.NoError(t, d.Write(context.Background(), []color.LinearSRGB{{R: 1}}, 1, color.NoCorrection))
	assert.Equal(t, []byte{0, 0, 0, 0, 0xFF, 0x00, 0x00, 0xFF}, buf.Bytes())
}

func TestOpenUsesModeZero(t *testing.T) {
	p := &fakePort{conn: &fakeConn{}}
	w, err := Open(p, 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultClockedFreq, p.freq)
	assert.Equal(t, spi.Mode0, p.mode)
	assert.Equal(t, 8, p.bits)
	assert.Equal(t, "spibus{fake}", w.String())

	require.NoError(t, w.Close())
	assert.True(t, p.closed)
	assert.ErrorIs(t, w.Write([]byte{1}), fault.ErrConfig)
	assert.NoError(t, w.Close())
}

func TestWriterSplitsAtMaxTxSize(t *testing.T) {
	fc := &fakeConn{}
	w, err := NewWriter(limitedConn{fakeConn: fc, max: 4})
	require.NoError(t, err)

	require.NoError(t, w.Write([]byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}))
	assert.Equal(t, [][]byte{{1, 2, 3, 4}, {5, 6, 7, 8}, {9, 10}}, fc.txs)
}

func TestWriterFault(t *testing.T) {
	w, err := NewWriter(&fakeConn{err: errors.New("eio")})
	require.NoError(t, err)
	err = w.Write([]byte{1})
	assert.ErrorIs(t, err, fault.ErrIO)
	assert.ErrorContains(t, err, "eio")

	_, err = NewWriter(nil)
	assert.ErrorIs(t, err, fault.ErrConfig)
}

func TestSymbols(t *testing.T) {
	for _, tc := range []struct {
		name      string
		chip      clockless.Chipset
		freq      physic.Frequency
		n, h0, h1 int
	}{
		{"ws2812", chipset.WS2812{}, DefaultNRZFreq, 3, 1, 2},
		{"ws2811", chipset.WS2811{}, DefaultNRZFreq, 6, 1, 3},
		{"sk6812", chipset.SK6812{}, 4 * physic.MegaHertz, 5, 1, 2},
	} {
		t.Run(tc.name, func(t *testing.T) {
			enc, err := Symbols(tc.chip.Timing(), tc.freq)
			require.NoError(t, err)
			assert.Equal(t, []int{tc.n, tc.h0, tc.h1}, []int{enc.N, enc.H0, enc.H1})
		})
	}
}

func TestSymbolsRejectsAmbiguousFrequency(t *testing.T) {
	_, err := Symbols(chipset.SK6812{}.Timing(), DefaultNRZFreq)
	assert.ErrorIs(t, err, fault.ErrConfig, "0 and 1 pulses round to the same width")

	_, err = Symbols(chipset.WS2812{}.Timing(), physic.MegaHertz)
	assert.ErrorIs(t, err, fault.ErrConfig)

	_, err = Symbols(chipset.WS2812{}.Timing(), 0)
	assert.ErrorIs(t, err, fault.ErrConfig)
}

func TestNRZEndToEndRed(t *testing.T) {
	fc := &fakeConn{}
	w, err := NewWriter(fc)
	require.NoError(t, err)
	tx, err := NewNRZ(w, chipset.WS2812{}.Timing(), DefaultNRZFreq)
	require.NoError(t, err)
	// 417ns per SPI bit: 15 zero bytes idle for 50.04µs.
	assert.Equal(t, 15, tx.ResetLen())
	idle := time.Duration(tx.ResetLen()) * 8 * DefaultNRZFreq.Period()
	assert.GreaterOrEqual(t, idle, chipset.WS2812{}.Timing().Reset)

	d, err := clockless.New(chipset.WS2812{}, tx, 1)
	require.NoError(t, err)
	require.NoError(t, d.Write(context.Background(), []color.LinearSRGB{{R: 1}}, 1, color.NoCorrection))

	want := []byte{
		0x92, 0x49, 0x24, // G = 0x00
		0xDB, 0x6D, 0xB6, // R = 0xFF
		0x92, 0x49, 0x24, // B = 0x00
	}
	want = append(want, make([]byte, tx.ResetLen())...)
	require.Len(t, fc.txs, 1)
	assert.Equal(t, want, fc.txs[0])
}

func TestNRZCancelled(t *testing.T) {
	fc := &fakeConn{}
	w, _ := NewWriter(fc)
	tx, err := NewNRZ(w, chipset.WS2812{}.Timing(), DefaultNRZFreq)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, tx.Transmit(ctx, []byte{1}), context.Canceled)
	assert.Empty(t, fc.txs)
}

func TestOpenNRZ(t *testing.T) {
	p := &fakePort{conn: &fakeConn{}}
	tx, err := OpenNRZ(p, chipset.WS2812{}.Timing(), 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultNRZFreq, p.freq)
	require.NoError(t, tx.Close())
	assert.True(t, p.closed)

	p = &fakePort{conn: &fakeConn{}}
	_, err = OpenNRZ(p, chipset.SK6812{}.Timing(), DefaultNRZFreq)
	assert.ErrorIs(t, err, fault.ErrConfig)
	assert.True(t, p.closed, "port released on failure")
}

func TestNRZLEDEmpty(t *testing.T) {
	var buf bytes.Buffer
	d, err := NewNRZLED(spitest.NewRecordRaw(&buf), chipset.WS2812{}, 0, 2500*physic.KiloHertz)
	require.NoError(t, err)
	assert.Equal(t, "nrzled{recordraw}", d.String())
	assert.NoError(t, d.Write(context.Background(), nil, 1, color.NoCorrection))
}

func TestNRZLEDFeedsCanonicalOrder(t *testing.T) {
	var buf bytes.Buffer
	var words []byte
	obs := driver.ObserverFunc(func(f driver.Frame) { words = append([]byte(nil), f.Words...) })
	d, err := NewNRZLED(spitest.NewRecordRaw(&buf), chipset.WS2812{}, 2, 0, driver.WithObserver(obs))
	require.NoError(t, err)

	before := buf.Len()
	require.NoError(t, d.Write(context.Background(), []color.LinearSRGB{{R: 1}, {B: 1}}, 1, color.NoCorrection))
	assert.Equal(t, []byte{0xFF, 0, 0, 0, 0, 0xFF}, words)
	assert.Greater(t, buf.Len(), before)

	assert.ErrorIs(t, d.Write(context.Background(), make([]color.LinearSRGB, 3), 1, color.NoCorrection), fault.ErrConfig)
}

func TestNRZLEDRejectsOtherOrders(t *testing.T) {
	var buf bytes.Buffer
	_, err := NewNRZLED(spitest.NewRecordRaw(&buf), chipset.WS2811{}, 1, 0)
	assert.ErrorIs(t, err, fault.ErrConfig)

	d, err := NewNRZLED(spitest.NewRecordRaw(&buf), chipset.SK6812{}, 1, 0)
	require.NoError(t, err)
	require.NoError(t, d.Write(context.Background(), []color.LinearSRGB{{R: 1, G: 1, B: 1}}, 1, color.NoCorrection))
}

func TestNRZLEDCloseReleasesPort(t *testing.T) {
	fc := &fakeConn{}
	p := &fakePort{conn: fc}
	d, err := NewNRZLED(p, chipset.WS2812{}, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, "nrzled{fake}", d.String())

	require.NoError(t, d.Close())
	assert.True(t, p.closed)
	require.Len(t, fc.txs, 1, "halt blanks the chain")
	assert.Equal(t, bytes.Repeat([]byte{0x88}, 12), fc.txs[0][:12])

	fc.err = errors.New("eio")
	p = &fakePort{conn: fc}
	d, err = NewNRZLED(p, chipset.WS2812{}, 1, 0)
	require.NoError(t, err)
	assert.Error(t, d.Close())
	assert.True(t, p.closed, "port closed even when halt fails")
}
