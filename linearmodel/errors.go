package linearmodel

import (
	"errors"
	"fmt"
)

var (
	ErrNoOptions          = errors.New("no initialized model options")
	ErrNoTrainingMatrix   = errors.New("no training matrix")
	ErrNoTargetMatrix     = errors.New("no target matrix")
	ErrNoDesignMatrix     = errors.New("no design matrix")
	ErrTargetLenMismatch  = errors.New("target length does not match design matrix rows")
	ErrFeatureLenMismatch = errors.New("number of features does not match number of coefficients")
	ErrNoiseLenMismatch   = errors.New("noise length does not match design matrix rows")
	ErrSVDFailed          = errors.New("singular value decomposition did not converge")
	ErrNegativeRcond      = errors.New("negative rcond")
)

// ShapeError reports matrix or vector dimensions that are incompatible for an operation.
// Err is one of the length mismatch sentinels so callers can match with errors.Is.
type ShapeError struct {
	Op       string
	Expected int
	Got      int
	Err      error
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: expected %d but got %d, %v", e.Op, e.Expected, e.Got, e.Err)
}

func (e *ShapeError) Unwrap() error {
	return e.Err
}
