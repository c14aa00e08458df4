package linearmodel

import (
	"gonum.org/v1/gonum/mat"
)

// PseudoInverse computes the Moore-Penrose pseudo-inverse of a using a thin singular value
// decomposition, A⁺ = V Σ⁺ Uᵀ. Singular values less than or equal to rcond times the
// largest singular value are treated as zero, which keeps the result finite for singular
// and rank deficient input.
func PseudoInverse(a mat.Matrix, rcond float64) (*mat.Dense, error) {
	if a == nil {
		return nil, ErrNoDesignMatrix
	}
	if rcond < 0 {
		return nil, ErrNegativeRcond
	}

	var svd mat.SVD
	if ok := svd.Factorize(a, mat.SVDThin); !ok {
		return nil, ErrSVDFailed
	}

	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	sigma := svd.Values(nil)

	m, n := a.Dims()
	k := len(sigma)

	sInv := mat.NewDense(k, k, nil)
	cutoff := rcond * sigma[0]
	for i, val := range sigma {
		if val > cutoff {
			sInv.Set(i, i, 1.0/val)
		}
	}

	var vs mat.Dense
	vs.Mul(&v, sInv)

	pinv := mat.NewDense(n, m, nil)
	pinv.Mul(&vs, u.T())
	return pinv, nil
}
