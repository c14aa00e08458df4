// Package bounds holds the range checks shared by every producer of simulation inputs.
// All checks are built on the same inclusive InRange predicate with per field limits.
package bounds

import (
	"errors"
	"fmt"
	"math"

	"github.com/govalues/decimal"
)

const (
	MinDimension = 1
	MaxDimension = 100_000

	MinValue = 0.0
	MaxValue = 100_000_000.0

	MinNoiseMean = -100.0
	MaxNoiseMean = 100.0

	MinNoiseStdDev = 0.0
	MaxNoiseStdDev = 100.0

	MinPrecision = 0
	MaxPrecision = 10

	// MaxManualSize caps the rows and columns of a manually entered matrix
	MaxManualSize = 10
)

var ErrNonFinite = errors.New("value is not finite")

// ValidationError reports a user supplied scalar that violates its declared bound or
// an ordering constraint between two scalars.
type ValidationError struct {
	Field  string
	Value  float64
	Lower  float64
	Upper  float64
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid %s: %g must be in the range [%g, %g]", e.Field, e.Value, e.Lower, e.Upper)
}

// InRange returns true if lower <= value <= upper
func InRange(value, lower, upper float64) bool {
	return lower <= value && value <= upper
}

func check(field string, value, lower, upper float64) error {
	if !InRange(value, lower, upper) {
		return &ValidationError{
			Field: field,
			Value: value,
			Lower: lower,
			Upper: upper,
		}
	}
	return nil
}

// CheckDimensions validates the number of observations and features of the dataset
func CheckDimensions(nObs, nFeats int) error {
	return errors.Join(
		check("observations", float64(nObs), MinDimension, MaxDimension),
		check("features", float64(nFeats), MinDimension, MaxDimension),
	)
}

// CheckValueRange validates the sampling bounds of a generated matrix. Both ends must be
// inside [MinValue, MaxValue] and min must be strictly less than max.
func CheckValueRange(field string, minVal, maxVal float64) error {
	if err := errors.Join(
		check(field+" min", minVal, MinValue, MaxValue),
		check(field+" max", maxVal, MinValue, MaxValue),
	); err != nil {
		return err
	}
	if minVal >= maxVal {
		return &ValidationError{
			Field:  field,
			Value:  minVal,
			Lower:  minVal,
			Upper:  maxVal,
			Reason: fmt.Sprintf("min %g must be less than max %g", minVal, maxVal),
		}
	}
	return nil
}

// CheckPrecision validates the number of decimal digits values are rounded to
func CheckPrecision(field string, precision int) error {
	return check(field+" precision", float64(precision), MinPrecision, MaxPrecision)
}

// CheckNoise validates the expected value and standard deviation of the noise distribution
func CheckNoise(mean, stdDev float64) error {
	return errors.Join(
		check("noise mean", mean, MinNoiseMean, MaxNoiseMean),
		check("noise standard deviation", stdDev, MinNoiseStdDev, MaxNoiseStdDev),
	)
}

// CheckManualSize validates the shape of a manually entered matrix
func CheckManualSize(rows, cols int) error {
	return errors.Join(
		check("manual rows", float64(rows), 1, MaxManualSize),
		check("manual columns", float64(cols), 1, MaxManualSize),
	)
}

// CheckValues validates that every value of a loaded or manually entered matrix lies in
// [MinValue, MaxValue]. Each failing value is reported with its flat index.
func CheckValues(field string, values []float64) error {
	errs := make([]error, 0)
	for i, v := range values {
		if err := check(fmt.Sprintf("%s[%d]", field, i), v, MinValue, MaxValue); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// CheckFinite rejects NaN and infinite values for fields that carry no range
func CheckFinite(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return &ValidationError{
			Field:  field,
			Value:  v,
			Reason: fmt.Sprintf("%g is not a finite number", v),
		}
	}
	return nil
}

// FractionDigits returns the number of significant digits after the decimal point of v
func FractionDigits(v float64) (int, error) {
	d, err := decimal.NewFromFloat64(v)
	if err != nil {
		return 0, fmt.Errorf("%g, %w", v, ErrNonFinite)
	}
	return d.Trim(0).Scale(), nil
}
