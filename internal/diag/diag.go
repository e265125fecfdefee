package diag

import (
	"context"
	"errors"
	"time"

	"github.com/coreman2200/ledwire/fault"
)

type Severity string

const (
	Info Severity = "info"
	Warn Severity = "warning"
	Err  Severity = "error"
)

type Diagnostic struct {
	Severity       Severity       `json:"severity"`
	Code           string         `json:"code"`
	Summary        string         `json:"summary"`
	Detail         string         `json:"detail,omitempty"`
	LikelyCauses   []string       `json:"likely_causes,omitempty"`
	SuggestedFixes []string       `json:"suggested_fixes,omitempty"`
	Evidence       map[string]any `json:"evidence,omitempty"`
	At             time.Time      `json:"at"`
}

// FromError explains a driver failure.
func FromError(err error, evidence map[string]any) Diagnostic {
	d := Diagnostic{
		Severity: Err,
		Detail:   err.Error(),
		Evidence: evidence,
		At:       time.Now(),
	}
	switch fault.KindOf(err) {
	case fault.KindIO:
		d.Code = "LED_IO"
		d.Summary = "The backend failed while sending a frame"
		d.LikelyCauses = []string{"SPI or GPIO device not accessible", "bus busy or disconnected"}
		d.SuggestedFixes = []string{"Check /dev/spidev* and gpiochip permissions", "Run with the sim driver to rule out wiring"}
	case fault.KindCapacity:
		d.Code = "LED_CAPACITY"
		d.Summary = "The encoded frame does not fit the frame buffer"
		d.LikelyCauses = []string{"pixel count larger than the buffer was sized for"}
		d.SuggestedFixes = []string{"Raise the buffer capacity or lower the pixel count"}
	case fault.KindConfig:
		d.Code = "LED_CONFIG"
		d.Summary = "The driver configuration is invalid"
		d.LikelyCauses = []string{"chipset timing not representable by the backend", "pixel count mismatch"}
		d.SuggestedFixes = []string{"Check chipset, clock and pixel settings"}
	default:
		if errors.Is(err, context.Canceled) {
			d.Severity = Info
			d.Code = "LED_CANCELLED"
			d.Summary = "Frame skipped during shutdown"
			break
		}
		d.Code = "LED_UNKNOWN"
		d.Summary = "Frame write failed"
	}
	return d
}
