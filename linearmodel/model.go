// Package linearmodel implements the ordinary least squares engine used to simulate and
// recover linear regression coefficients
package linearmodel

import (
	"gonum.org/v1/gonum/mat"
)

type Model interface {
	Fit(x, y mat.Matrix) error
	Predict(x mat.Matrix) ([]float64, error)
	Score(x, y mat.Matrix) (float64, error)
	Intercept() float64
	Coef() []float64
}
