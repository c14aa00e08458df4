package linearmodel

import (
	"testing"

	mat_ "github.com/aouyang1/go-regsim/mat"
	"github.com/aouyang1/go-regsim/simulate"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func testModel(t *testing.T, model Model, x, y mat.Matrix, intercept float64, coef []float64, tol float64) {
	err := model.Fit(x, y)
	require.Nil(t, err)

	assert.InDelta(t, intercept, model.Intercept(), tol, "intercept")

	c := model.Coef()
	assert.InDeltaSlice(t, coef, c, tol, "coefficients")

	r2, err := model.Score(x, y)
	require.Nil(t, err)
	assert.InDelta(t, 1.0, r2, tol, "score")
}

func generateBenchData(nObs, nFeat int) (mat.Matrix, []float64, error) {
	x, err := simulate.NewMatrixGenerator(simulate.NewSource(1)).Generate(0, 100, nObs, nFeat, 4)
	if err != nil {
		return nil, nil, err
	}
	b, err := simulate.NewMatrixGenerator(simulate.NewSource(2)).Generate(1, 10, nFeat, 1, 2)
	if err != nil {
		return nil, nil, err
	}
	coef, err := mat_.ColVector(b)
	if err != nil {
		return nil, nil, err
	}
	noise, err := simulate.NewNoiseGenerator(simulate.NewSource(3)).Generate(0, 1, nObs, 10)
	if err != nil {
		return nil, nil, err
	}
	y, err := ComputeResponse(x, coef, 1.0, noise)
	if err != nil {
		return nil, nil, err
	}
	return x, y, nil
}
