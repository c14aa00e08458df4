// Package metrics compares estimated coefficients against the true coefficients they
// were simulated from.
package metrics

import (
	"errors"
	"fmt"
	"math"

	"github.com/goccy/go-json"
)

var (
	ErrResLenMismatch = errors.New("predicted and actual have different lengths")
	ErrNoValues       = errors.New("no values to score")
	ErrZeroTrueValue  = errors.New("actual value is zero")
	ErrUnknownPolicy  = errors.New("unknown mape policy")
)

// MAPEPolicy decides how the mean absolute percent error treats actual values of zero,
// where the percent error is undefined.
type MAPEPolicy int

const (
	// MAPESkipZero leaves out terms with a zero actual value and averages the rest. If
	// every actual value is zero the result is NaN.
	MAPESkipZero MAPEPolicy = iota

	// MAPENaN returns NaN if any actual value is zero
	MAPENaN

	// MAPEFail returns ErrZeroTrueValue if any actual value is zero
	MAPEFail
)

func (p MAPEPolicy) String() string {
	switch p {
	case MAPESkipZero:
		return "skip"
	case MAPENaN:
		return "nan"
	case MAPEFail:
		return "fail"
	default:
		return fmt.Sprintf("MAPEPolicy(%d)", int(p))
	}
}

// ParseMAPEPolicy returns the policy matching its string name
func ParseMAPEPolicy(s string) (MAPEPolicy, error) {
	for _, p := range []MAPEPolicy{MAPESkipZero, MAPENaN, MAPEFail} {
		if p.String() == s {
			return p, nil
		}
	}
	return 0, fmt.Errorf("%q, %w", s, ErrUnknownPolicy)
}

// Scores tracks the coefficient estimate errors
type Scores struct {
	MSE  float64 `json:"mse"`
	RMSE float64 `json:"rmse"`
	MAE  float64 `json:"mae"`
	MAPE float64 `json:"mape"`
}

type scoresJSON struct {
	MSE  *float64 `json:"mse"`
	RMSE *float64 `json:"rmse"`
	MAE  *float64 `json:"mae"`
	MAPE *float64 `json:"mape"`
}

func finiteOrNil(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func valueOrNaN(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}

// MarshalJSON encodes undefined scores such as a NaN MAPE as null
func (s Scores) MarshalJSON() ([]byte, error) {
	return json.Marshal(scoresJSON{
		MSE:  finiteOrNil(s.MSE),
		RMSE: finiteOrNil(s.RMSE),
		MAE:  finiteOrNil(s.MAE),
		MAPE: finiteOrNil(s.MAPE),
	})
}

// UnmarshalJSON decodes null scores as NaN
func (s *Scores) UnmarshalJSON(data []byte) error {
	var sj scoresJSON
	if err := json.Unmarshal(data, &sj); err != nil {
		return err
	}
	s.MSE = valueOrNaN(sj.MSE)
	s.RMSE = valueOrNaN(sj.RMSE)
	s.MAE = valueOrNaN(sj.MAE)
	s.MAPE = valueOrNaN(sj.MAPE)
	return nil
}

// NewScores calculates the error scores given the predicted and actual input slice values
func NewScores(predicted, actual []float64, policy MAPEPolicy) (*Scores, error) {
	mse, err := MSE(predicted, actual)
	if err != nil {
		return nil, fmt.Errorf("unable to compute mean squared error, %w", err)
	}
	mae, err := MAE(predicted, actual)
	if err != nil {
		return nil, fmt.Errorf("unable to compute mean absolute error, %w", err)
	}
	mape, err := MAPE(predicted, actual, policy)
	if err != nil {
		return nil, fmt.Errorf("unable to compute mean absolute percent error, %w", err)
	}

	return &Scores{
		MSE:  mse,
		RMSE: math.Sqrt(mse),
		MAE:  mae,
		MAPE: mape,
	}, nil
}

func validate(predicted, actual []float64) error {
	if len(predicted) != len(actual) {
		return fmt.Errorf("expected %d, but got %d, %w", len(actual), len(predicted), ErrResLenMismatch)
	}
	if len(actual) == 0 {
		return ErrNoValues
	}
	return nil
}

// MSE computes the mean squared error, mean((y-yhat)^2).
// A score of 0 means a perfect match with no errors.
func MSE(predicted, actual []float64) (float64, error) {
	if err := validate(predicted, actual); err != nil {
		return 0, err
	}

	mse := 0.0
	for i := 0; i < len(actual); i++ {
		mse += math.Pow(actual[i]-predicted[i], 2.0)
	}
	mse /= float64(len(actual))
	return mse, nil
}

// RMSE computes the root mean squared error
func RMSE(predicted, actual []float64) (float64, error) {
	mse, err := MSE(predicted, actual)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// MAE computes the mean absolute error, mean(abs(y-yhat)).
func MAE(predicted, actual []float64) (float64, error) {
	if err := validate(predicted, actual); err != nil {
		return 0, err
	}

	mae := 0.0
	for i := 0; i < len(actual); i++ {
		mae += math.Abs(actual[i] - predicted[i])
	}
	mae /= float64(len(actual))
	return mae, nil
}

// MAPE calculates the mean absolute percent error, mean(abs((y-yhat)/y)) * 100. The policy
// determines the outcome when some y is zero.
func MAPE(predicted, actual []float64, policy MAPEPolicy) (float64, error) {
	if err := validate(predicted, actual); err != nil {
		return 0, err
	}
	if policy < MAPESkipZero || policy > MAPEFail {
		return 0, fmt.Errorf("%s, %w", policy, ErrUnknownPolicy)
	}

	mape := 0.0
	var cnt int
	for i := 0; i < len(actual); i++ {
		if actual[i] == 0 {
			switch policy {
			case MAPESkipZero:
				continue
			case MAPENaN:
				return math.NaN(), nil
			case MAPEFail:
				return 0, fmt.Errorf("at index %d, %w", i, ErrZeroTrueValue)
			}
		}
		mape += math.Abs((actual[i] - predicted[i]) / actual[i])
		cnt++
	}
	if cnt == 0 {
		return math.NaN(), nil
	}
	return mape / float64(cnt) * 100.0, nil
}
