package delay

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSpinWaitsAtLeast(t *testing.T) {
	s := NewSpin()
	start := time.Now()
	s.Delay(200 * time.Microsecond)
	assert.GreaterOrEqual(t, time.Since(start), 200*time.Microsecond)

	s.Delay(0)
	s.Delay(-time.Second)
	assert.Greater(t, s.Resolution(), time.Duration(0))
}

func TestSleep(t *testing.T) {
	start := time.Now()
	Sleep{}.Delay(time.Millisecond)
	assert.GreaterOrEqual(t, time.Since(start), time.Millisecond)
	assert.Equal(t, DefaultSleepResolution, Sleep{}.Resolution())
	assert.Equal(t, 50*time.Microsecond, Sleep{Res: 50 * time.Microsecond}.Resolution())
}

func TestRecorder(t *testing.T) {
	r := &Recorder{}
	r.Delay(time.Microsecond)
	r.Delay(2 * time.Microsecond)
	assert.Equal(t, []time.Duration{time.Microsecond, 2 * time.Microsecond}, r.Delays)
	assert.Equal(t, 3*time.Microsecond, r.Total())
}
