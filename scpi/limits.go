package scpi

import (
	"fmt"
	"math"
	"slices"
)

// Bounds is an inclusive numeric interval used by the safety validator.
type Bounds struct {
	Min float64
	Max float64
}

// Check returns v unchanged if it lies inside b, otherwise a *RangeError naming
// the rejected quantity. NaN is always rejected.
func (b Bounds) Check(name string, v float64) (float64, error) {
	return Validate(name, v, b.Min, b.Max)
}

// Contains reports whether v lies inside b.
func (b Bounds) Contains(v float64) bool {
	return v >= b.Min && v <= b.Max
}

// IntBounds is an inclusive integer interval.
type IntBounds struct {
	Min int
	Max int
}

// Check returns v unchanged if it lies inside b, otherwise a *RangeError.
func (b IntBounds) Check(name string, v int) (int, error) {
	return ValidateInt(name, v, b.Min, b.Max)
}

// Validate checks value against [min, max].
func Validate(name string, value, min, max float64) (float64, error) {
	if math.IsNaN(value) || value < min || value > max {
		return 0, &RangeError{Name: name, Value: value, Min: min, Max: max}
	}

	return value, nil
}

// ValidateInt checks value against [min, max].
func ValidateInt(name string, value, min, max int) (int, error) {
	if value < min || value > max {
		return 0, &RangeError{Name: name, Value: float64(value), Min: float64(min), Max: float64(max)}
	}

	return value, nil
}

// U3606 supply and multimeter limits.
var (
	SupplyVoltageLimits = Bounds{Min: 0, Max: 30}   // V, constant voltage setpoint
	SupplyCurrentLimits = Bounds{Min: 0, Max: 1.05} // A, constant current setpoint

	ProtectionVoltageLimits = Bounds{Min: 0, Max: 33}  // V
	ProtectionCurrentLimits = Bounds{Min: 0, Max: 1.1} // A

	SupplyRampVoltageLimits = Bounds{Min: 0, Max: 31.5} // V
	SupplyRampCurrentLimits = Bounds{Min: 0, Max: 1.05} // A
	SupplyRampStepsLimits   = IntBounds{Min: 1, Max: 10000}

	SupplyScanStepsLimits = IntBounds{Min: 1, Max: 100}
	SupplyScanDwellLimits = Bounds{Min: 1, Max: 99} // s

	SquareAmplitudeLimits  = Bounds{Min: 0, Max: 30}        // V
	SquareDutyCycleLimits  = Bounds{Min: 0, Max: 100}       // %
	SquarePulseWidthLimits = Bounds{Min: 0, Max: 1.6667e-3} // s

	SoftStartStepsLimits = IntBounds{Min: 1, Max: 100}

	CalcDBReferenceLimits   = Bounds{Min: -120, Max: 120}  // dBm
	CalcDBMReferenceLimits  = IntBounds{Min: 1, Max: 9999} // ohm
	CalcHoldVariationLimits = Bounds{Min: 0, Max: 100}     // %
	CalcHoldThresholdLimits = Bounds{Min: 0, Max: 9.9}     // %
)

// U2723 source-measure unit limits.
var (
	SMUVoltageLimits = Bounds{Min: -20, Max: 20}     // V
	SMUCurrentLimits = Bounds{Min: -0.12, Max: 0.12} // A

	SMUSweepPointsLimits   = IntBounds{Min: 1, Max: 4096}
	SMUSweepIntervalLimits = IntBounds{Min: 1, Max: 32767} // ms
	SMUDelayLimits         = Bounds{Min: 0, Max: 32767}    // ms
	SMUPulseLoopsLimits    = IntBounds{Min: 1, Max: 32767}
)

// SquareFrequencies lists the square-wave output frequencies (Hz) the U3606 accepts.
var SquareFrequencies = []float64{
	0.5, 2, 5, 6, 10, 15, 25, 30, 40, 50, 60, 75, 80, 100, 120, 150, 200,
	240, 300, 400, 480, 600, 800, 1200, 1600, 2400, 4800,
}

// ValidateSquareFrequency rejects frequencies that are not one of SquareFrequencies.
func ValidateSquareFrequency(hz float64) (float64, error) {
	if !slices.Contains(SquareFrequencies, hz) {
		return 0, fmt.Errorf("%w: square wave frequency %v Hz is not a supported step", ErrOutOfRange, hz)
	}

	return hz, nil
}
