package scpi

import (
	"errors"
	"fmt"
)

var (
	// ErrNoDevicesDetected indicates that device discovery returned no endpoints at all.
	ErrNoDevicesDetected = errors.New("scpi: no devices detected, check the instrument is connected and configured as USBTMC device")

	// ErrDeviceNotFound indicates that no discovered endpoint matched the requested serial number and model.
	ErrDeviceNotFound = errors.New("scpi: target device not found")

	// ErrOutOfRange indicates that a setpoint violates a hard instrument bound.
	// It is returned before anything is written to the instrument.
	ErrOutOfRange = errors.New("scpi: value out of range")

	// ErrInvalidOption indicates an unrecognized enumerated option value.
	ErrInvalidOption = errors.New("scpi: invalid option")

	// ErrProtocol indicates a transport failure (timeout, disconnect) or a reply
	// that could not be decoded.
	ErrProtocol = errors.New("scpi: protocol error")
)

// RangeError describes a rejected setpoint. It unwraps to ErrOutOfRange.
type RangeError struct {
	Name  string
	Value float64
	Min   float64
	Max   float64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("scpi: invalid value %v for %s, limits are: min %v, max %v", e.Value, e.Name, e.Min, e.Max)
}

func (e *RangeError) Unwrap() error { return ErrOutOfRange }

// OptionError describes a rejected enumerated option. It unwraps to ErrInvalidOption.
type OptionError struct {
	Kind  string
	Value string
}

func (e *OptionError) Error() string {
	return fmt.Sprintf("scpi: invalid %s %q", e.Kind, e.Value)
}

func (e *OptionError) Unwrap() error { return ErrInvalidOption }

// protocolErrorf wraps ErrProtocol with a formatted detail message.
func protocolErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrProtocol, fmt.Sprintf(format, args...))
}
