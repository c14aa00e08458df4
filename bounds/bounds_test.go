package bounds

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInRange(t *testing.T) {
	testData := map[string]struct {
		value    float64
		lower    float64
		upper    float64
		expected bool
	}{
		"inside":      {50, 0, 100, true},
		"above":       {150, 0, 100, false},
		"below":       {-1, 0, 100, false},
		"lower bound": {0, 0, 100, true},
		"upper bound": {100, 0, 100, true},
		"nan":         {math.NaN(), 0, 100, false},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, td.expected, InRange(td.value, td.lower, td.upper))
		})
	}
}

func TestCheckDimensions(t *testing.T) {
	testData := map[string]struct {
		nObs   int
		nFeats int
		fields []string
	}{
		"valid":             {100, 3, nil},
		"minimum":           {MinDimension, MinDimension, nil},
		"maximum":           {MaxDimension, MaxDimension, nil},
		"zero obs":          {0, 3, []string{"observations"}},
		"too many obs":      {100_001, 3, []string{"observations"}},
		"zero features":     {10, 0, []string{"features"}},
		"both out of range": {0, 100_001, []string{"observations", "features"}},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			err := CheckDimensions(td.nObs, td.nFeats)
			if len(td.fields) == 0 {
				require.Nil(t, err)
				return
			}
			require.NotNil(t, err)
			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, td.fields, validationFields(err))
		})
	}
}

func validationFields(err error) []string {
	var fields []string
	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		for _, e := range joined.Unwrap() {
			var vErr *ValidationError
			if errors.As(e, &vErr) {
				fields = append(fields, vErr.Field)
			}
		}
		return fields
	}
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		fields = append(fields, vErr.Field)
	}
	return fields
}

func TestCheckValueRange(t *testing.T) {
	testData := map[string]struct {
		minVal float64
		maxVal float64
		valid  bool
	}{
		"valid":         {0, 10, true},
		"full range":    {MinValue, MaxValue, true},
		"negative min":  {-1, 10, false},
		"max too large": {0, MaxValue + 1, false},
		"equal":         {5, 5, false},
		"min above max": {10, 5, false},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			err := CheckValueRange("X", td.minVal, td.maxVal)
			if td.valid {
				require.Nil(t, err)
				return
			}
			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Contains(t, vErr.Field, "X")
		})
	}
}

func TestCheckPrecision(t *testing.T) {
	require.Nil(t, CheckPrecision("X", 0))
	require.Nil(t, CheckPrecision("X", 10))

	var vErr *ValidationError
	require.ErrorAs(t, CheckPrecision("X", -1), &vErr)
	require.ErrorAs(t, CheckPrecision("X", 11), &vErr)
	assert.Equal(t, "X precision", vErr.Field)
	assert.Equal(t, "invalid X precision: 11 must be in the range [0, 10]", vErr.Error())
}

func TestCheckNoise(t *testing.T) {
	testData := map[string]struct {
		mean   float64
		stdDev float64
		fields []string
	}{
		"valid":        {0, 1, nil},
		"zero stddev":  {-100, 0, nil},
		"mean too low": {-101, 1, []string{"noise mean"}},
		"negative std": {0, -0.5, []string{"noise standard deviation"}},
		"both invalid": {101, 101, []string{"noise mean", "noise standard deviation"}},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			err := CheckNoise(td.mean, td.stdDev)
			if len(td.fields) == 0 {
				require.Nil(t, err)
				return
			}
			assert.Equal(t, td.fields, validationFields(err))
		})
	}
}

func TestCheckManualSize(t *testing.T) {
	require.Nil(t, CheckManualSize(10, 10))
	require.Nil(t, CheckManualSize(1, 1))
	assert.NotNil(t, CheckManualSize(11, 1))
	assert.NotNil(t, CheckManualSize(1, 0))
}

func TestCheckValues(t *testing.T) {
	require.Nil(t, CheckValues("x", []float64{0, 1.5, MaxValue}))
	require.Nil(t, CheckValues("x", nil))

	err := CheckValues("x", []float64{1, -2, 3, MaxValue + 1})
	require.NotNil(t, err)
	assert.Equal(t, []string{"x[1]", "x[3]"}, validationFields(err))
}

func TestCheckFinite(t *testing.T) {
	require.Nil(t, CheckFinite("bias", -1e12))

	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		err := CheckFinite("bias", v)
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "bias", vErr.Field)
		assert.Contains(t, err.Error(), "not a finite number")
	}
}

func TestFractionDigits(t *testing.T) {
	testData := map[string]struct {
		value    float64
		expected int
	}{
		"integer":       {42, 0},
		"one digit":     {1.5, 1},
		"trailing zero": {2.50, 1},
		"many digits":   {3.1415926535, 10},
		"negative":      {-0.125, 3},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			digits, err := FractionDigits(td.value)
			require.Nil(t, err)
			assert.Equal(t, td.expected, digits)
		})
	}

	_, err := FractionDigits(math.Inf(1))
	assert.ErrorIs(t, err, ErrNonFinite)
}
