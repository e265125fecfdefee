// Package fault is the error taxonomy shared by every driver and backend.
//
// Three kinds exist. I/O faults come from a pin, bus or peripheral and are
// never retried. Capacity faults mean encoded data would not fit a fixed
// buffer; they are raised before anything is transmitted. Configuration
// faults are raised at construction, or when a caller breaks a precondition
// such as the fixed pixel count.
package fault

import (
	"errors"
	"fmt"
)

// Kind classifies a fault.
type Kind int

const (
	KindIO Kind = iota + 1
	KindCapacity
	KindConfig
)

func (k Kind) String() string {
	switch k {
	case KindIO:
		return "i/o"
	case KindCapacity:
		return "capacity"
	case KindConfig:
		return "config"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is checks.
var (
	ErrIO       = errors.New("ledwire: i/o fault")
	ErrCapacity = errors.New("ledwire: capacity exceeded")
	ErrConfig   = errors.New("ledwire: invalid configuration")
)

// Error carries the kind, the failed operation and the cause.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s fault", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the sentinel of the same kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrIO:
		return e.Kind == KindIO
	case ErrCapacity:
		return e.Kind == KindCapacity
	case ErrConfig:
		return e.Kind == KindConfig
	}
	return false
}

// IO wraps a hardware error. A nil err yields nil.
func IO(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: KindIO, Op: op, Err: err}
}

// Capacityf reports data that does not fit a fixed buffer.
func Capacityf(op, format string, args ...any) error {
	return &Error{Kind: KindCapacity, Op: op, Err: fmt.Errorf(format, args...)}
}

// Config wraps a configuration error. A nil err yields nil.
func Config(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: KindConfig, Op: op, Err: err}
}

// Configf reports an invalid configuration.
func Configf(op, format string, args ...any) error {
	return &Error{Kind: KindConfig, Op: op, Err: fmt.Errorf(format, args...)}
}

// KindOf returns the kind of the first *Error in err's chain, or 0.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
