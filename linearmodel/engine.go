package linearmodel

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// DefaultRcond is the relative cutoff below which singular values are treated as zero
const DefaultRcond = 1e-15

// ComputeResponse returns the observed values y = x*b + bias + noise. x must have as many
// columns as b has coefficients and as many rows as noise has values.
func ComputeResponse(x mat.Matrix, b []float64, bias float64, noise []float64) ([]float64, error) {
	if x == nil {
		return nil, ErrNoDesignMatrix
	}
	m, n := x.Dims()
	if len(b) != n {
		return nil, &ShapeError{Op: "compute response coefficients", Expected: n, Got: len(b), Err: ErrFeatureLenMismatch}
	}
	if len(noise) != m {
		return nil, &ShapeError{Op: "compute response noise", Expected: m, Got: len(noise), Err: ErrNoiseLenMismatch}
	}

	var xb mat.VecDense
	xb.MulVec(x, mat.NewVecDense(n, b))

	y := make([]float64, m)
	copy(y, xb.RawVector().Data)
	floats.AddConst(bias, y)
	floats.Add(y, noise)
	return y, nil
}

// EstimateCoefficients computes the ordinary least squares estimate of y against x with a
// prepended intercept column. The first returned value is the intercept followed by one
// coefficient per column of x.
//
// The estimate is pinv(AᵀA)Aᵀy, which equals pinv(A)y and is solved from the singular
// value decomposition of A. Collinear features and under-determined systems return the
// minimum norm solution instead of failing.
func EstimateCoefficients(x mat.Matrix, y []float64) ([]float64, error) {
	if x == nil {
		return nil, ErrNoDesignMatrix
	}
	m, _ := x.Dims()
	if len(y) != m {
		return nil, &ShapeError{Op: "estimate coefficients", Expected: m, Got: len(y), Err: ErrTargetLenMismatch}
	}
	return solve(withIntercept(x), y, DefaultRcond)
}

// solve returns the minimum norm least squares solution of a*c = y, dropping singular
// values of a at or below rcond times the largest
func solve(a mat.Matrix, y []float64, rcond float64) ([]float64, error) {
	if rcond < 0 {
		return nil, ErrNegativeRcond
	}
	m, n := a.Dims()

	var svd mat.SVD
	if ok := svd.Factorize(a, mat.SVDThin); !ok {
		return nil, ErrSVDFailed
	}

	c := make([]float64, n)
	rank := svd.Rank(rcond)
	if rank == 0 {
		return c, nil
	}

	beta := mat.NewVecDense(n, c)
	svd.SolveVecTo(beta, mat.NewVecDense(m, y), rank)
	return c, nil
}

// withIntercept prepends a constant 1.0 column to x
func withIntercept(x mat.Matrix) mat.Matrix {
	m, _ := x.Dims()
	ones := make([]float64, m)
	floats.AddConst(1.0, ones)
	onesMx := mat.NewDense(1, m, ones)
	xT := x.T()

	var xWithOnes mat.Dense
	xWithOnes.Stack(onesMx, xT)
	return xWithOnes.T()
}
