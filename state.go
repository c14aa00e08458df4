package regsim

import (
	"github.com/aouyang1/go-regsim/metrics"
	"gonum.org/v1/gonum/mat"
)

// State holds every input and output of one simulated regression problem. Stages of the
// Simulator read and replace its fields; a stage that fails leaves it untouched.
type State struct {
	NObs   int
	NFeats int

	// X is the NObs x NFeats design matrix
	X          *mat.Dense
	XPrecision int

	// B holds the NFeats true coefficients
	B          []float64
	BPrecision int
	Bias       float64

	NoiseMean   float64
	NoiseStdDev float64
	Noise       []float64

	// Y is the response X*B + Bias + Noise
	Y []float64

	// BHat is the estimated intercept followed by one estimated coefficient per feature
	BHat   []float64
	Scores *metrics.Scores
}

// NewState returns an empty state with default precisions and bias
func NewState() *State {
	return &State{
		XPrecision: DefaultPrecision,
		BPrecision: DefaultPrecision,
		Bias:       DefaultBias,
	}
}

// DimensionsApplied returns true once both dimensions are set
func (s *State) DimensionsApplied() bool {
	return s.NObs > 0 && s.NFeats > 0
}

// Computed returns true once the response and estimate exist
func (s *State) Computed() bool {
	return len(s.Y) > 0 && len(s.BHat) > 0
}

// EstimatedBias returns the intercept of the estimate or 0 if nothing was computed
func (s *State) EstimatedBias() float64 {
	if len(s.BHat) == 0 {
		return 0
	}
	return s.BHat[0]
}

// EstimatedCoefficients returns the estimate without its intercept, aligned with B
func (s *State) EstimatedCoefficients() []float64 {
	if len(s.BHat) == 0 {
		return nil
	}
	return copySlice(s.BHat[1:])
}

// Clone returns a deep copy of the state
func (s *State) Clone() *State {
	c := *s
	if s.X != nil {
		c.X = mat.DenseCopyOf(s.X)
	}
	c.B = copySlice(s.B)
	c.Noise = copySlice(s.Noise)
	c.Y = copySlice(s.Y)
	c.BHat = copySlice(s.BHat)
	if s.Scores != nil {
		scores := *s.Scores
		c.Scores = &scores
	}
	return &c
}

func copySlice(x []float64) []float64 {
	if x == nil {
		return nil
	}
	c := make([]float64, len(x))
	copy(c, x)
	return c
}
