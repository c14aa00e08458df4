package regsim

import "errors"

var (
	ErrDimensionsNotApplied = errors.New("dimensions have not been applied")
	ErrMissingDesignMatrix  = errors.New("design matrix has not been applied")
	ErrMissingCoefficients  = errors.New("coefficients have not been applied")
	ErrMissingNoise         = errors.New("noise has not been applied")
	ErrNilSource            = errors.New("no input source provided")
	ErrManualShape          = errors.New("manual entry does not match the applied dimensions")
	ErrNothingComputed      = errors.New("response and estimate have not been computed")
)
