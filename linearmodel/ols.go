package linearmodel

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// OLSOptions represents input options to run the OLS Regression
type OLSOptions struct {
	// FitIntercept adds a constant 1.0 feature as the first column if set to true
	FitIntercept bool

	// Rcond is the relative singular value cutoff of the pseudo-inverse. Must be non-negative.
	Rcond float64
}

// Validate runs basic validation on OLS options
func (o *OLSOptions) Validate() (*OLSOptions, error) {
	if o == nil {
		o = NewDefaultOLSOptions()
	}
	if o.Rcond < 0 {
		return nil, ErrNegativeRcond
	}
	return o, nil
}

// NewDefaultOLSOptions returns a default set of OLS Regression options
func NewDefaultOLSOptions() *OLSOptions {
	return &OLSOptions{
		FitIntercept: true,
		Rcond:        DefaultRcond,
	}
}

// OLSRegression computes the minimum norm ordinary least squares solution through the
// singular value decomposition of the training matrix
type OLSRegression struct {
	opt       *OLSOptions
	coef      []float64
	intercept float64
}

// NewOLSRegression initializes an ordinary least squares model ready for fitting
func NewOLSRegression(opt *OLSOptions) (*OLSRegression, error) {
	opt, err := opt.Validate()
	if err != nil {
		return nil, err
	}
	return &OLSRegression{
		opt: opt,
	}, nil
}

// Fit the model according to the given training data. y must be a single column matrix.
func (o *OLSRegression) Fit(x, y mat.Matrix) error {
	if o.opt == nil {
		return ErrNoOptions
	}
	if x == nil {
		return ErrNoTrainingMatrix
	}
	if y == nil {
		return ErrNoTargetMatrix
	}
	m, _ := x.Dims()

	ym, _ := y.Dims()
	if ym != m {
		return &ShapeError{Op: "fit", Expected: m, Got: ym, Err: ErrTargetLenMismatch}
	}

	if o.opt.FitIntercept {
		x = withIntercept(x)
	}

	c, err := solve(x, mat.Col(nil, 0, y), o.opt.Rcond)
	if err != nil {
		return err
	}

	if o.opt.FitIntercept {
		o.intercept = c[0]
		o.coef = c[1:]
	} else {
		o.coef = c
	}

	return nil
}

// Predict using the OLS model
func (o *OLSRegression) Predict(x mat.Matrix) ([]float64, error) {
	if o.opt == nil {
		return nil, ErrNoOptions
	}
	if x == nil {
		return nil, ErrNoDesignMatrix
	}

	_, n := x.Dims()
	if n != len(o.coef) {
		return nil, &ShapeError{Op: "predict", Expected: len(o.coef), Got: n, Err: ErrFeatureLenMismatch}
	}

	var res mat.VecDense
	res.MulVec(x, mat.NewVecDense(n, o.coef))

	pred := make([]float64, res.Len())
	copy(pred, res.RawVector().Data)
	floats.AddConst(o.intercept, pred)
	return pred, nil
}

// Score computes the coefficient of determination of the prediction
func (o *OLSRegression) Score(x, y mat.Matrix) (float64, error) {
	if o.opt == nil {
		return 0.0, ErrNoOptions
	}
	if x == nil {
		return 0.0, ErrNoDesignMatrix
	}
	if y == nil {
		return 0.0, ErrNoTargetMatrix
	}

	m, _ := x.Dims()

	ym, _ := y.Dims()
	if m != ym {
		return 0.0, &ShapeError{Op: "score", Expected: m, Got: ym, Err: ErrTargetLenMismatch}
	}

	res, err := o.Predict(x)
	if err != nil {
		return 0.0, err
	}

	ySlice := mat.Col(nil, 0, y)

	return stat.RSquaredFrom(res, ySlice, nil), nil
}

// Intercept returns the computed intercept if FitIntercept is set to true. Defaults to 0.0 if not set.
func (o *OLSRegression) Intercept() float64 {
	return o.intercept
}

// Coef returns a slice of the trained coefficients in the same order of the training feature Matrix by column.
func (o *OLSRegression) Coef() []float64 {
	c := make([]float64, len(o.coef))
	copy(c, o.coef)
	return c
}
