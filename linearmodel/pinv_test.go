package linearmodel

import (
	"testing"

	mat_ "github.com/aouyang1/go-regsim/mat"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestPseudoInverse(t *testing.T) {
	testData := map[string][][]float64{
		"invertible": {
			{4, 7},
			{2, 6},
		},
		"singular": {
			{1, 2},
			{2, 4},
		},
		"tall": {
			{1, 0},
			{0, 1},
			{1, 1},
		},
		"wide": {
			{1, 2, 3},
			{4, 5, 6},
		},
		"zero": {
			{0, 0},
			{0, 0},
		},
	}

	for name, arr := range testData {
		t.Run(name, func(t *testing.T) {
			a, err := mat_.NewDenseFromArray(arr)
			require.Nil(t, err)

			aInv, err := PseudoInverse(a, DefaultRcond)
			require.Nil(t, err)

			m, n := a.Dims()
			r, c := aInv.Dims()
			assert.Equal(t, n, r)
			assert.Equal(t, m, c)

			// Penrose conditions A A⁺ A = A and A⁺ A A⁺ = A⁺
			var aaInv, aaInvA mat.Dense
			aaInv.Mul(a, aInv)
			aaInvA.Mul(&aaInv, a)
			assert.True(t, mat.EqualApprox(a, &aaInvA, 1e-9), "A A⁺ A")

			var aInvA, aInvAaInv mat.Dense
			aInvA.Mul(aInv, a)
			aInvAaInv.Mul(&aInvA, aInv)
			assert.True(t, mat.EqualApprox(aInv, &aInvAaInv, 1e-9), "A⁺ A A⁺")
		})
	}
}

func TestPseudoInverseMatchesInverse(t *testing.T) {
	a := mat.NewDense(2, 2, []float64{4, 7, 2, 6})
	aInv, err := PseudoInverse(a, DefaultRcond)
	require.Nil(t, err)

	var inv mat.Dense
	require.Nil(t, inv.Inverse(a))
	assert.True(t, mat.EqualApprox(&inv, aInv, 1e-12))
}

func TestPseudoInverseErrors(t *testing.T) {
	_, err := PseudoInverse(nil, DefaultRcond)
	assert.ErrorIs(t, err, ErrNoDesignMatrix)

	_, err = PseudoInverse(mat.NewDense(1, 1, []float64{1}), -1)
	assert.ErrorIs(t, err, ErrNegativeRcond)
}
