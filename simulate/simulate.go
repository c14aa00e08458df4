// Package simulate generates the random inputs of a synthetic regression problem: bounded
// uniform matrices for the design matrix and coefficients and gaussian noise vectors.
package simulate

import (
	"errors"
	"fmt"

	"github.com/aouyang1/go-regsim/bounds"
	mat_ "github.com/aouyang1/go-regsim/mat"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

var (
	ErrInvalidShape     = errors.New("rows and columns must be at least 1")
	ErrInvalidRange     = errors.New("min must be less than max")
	ErrInvalidPrecision = errors.New("precision out of range")
	ErrNegativeStdDev   = errors.New("negative standard deviation")
	ErrInvalidSize      = errors.New("size must be at least 1")
)

// NewSource returns a deterministic random source for reproducible generation
func NewSource(seed uint64) rand.Source {
	return rand.NewSource(seed)
}

func validatePrecision(precision int) error {
	if !bounds.InRange(float64(precision), bounds.MinPrecision, bounds.MaxPrecision) {
		return fmt.Errorf("got %d, %w", precision, ErrInvalidPrecision)
	}
	return nil
}

// MatrixGenerator samples matrices from a uniform distribution. A generator is not safe
// for concurrent use when it shares a source.
type MatrixGenerator struct {
	src rand.Source
}

// NewMatrixGenerator creates a generator backed by src. A nil source draws from the
// global random stream.
func NewMatrixGenerator(src rand.Source) *MatrixGenerator {
	return &MatrixGenerator{src: src}
}

// Generate returns a rows x cols matrix with every element drawn independently from
// Uniform[minVal, maxVal] and rounded half to even to precision decimal digits.
func (g *MatrixGenerator) Generate(minVal, maxVal float64, rows, cols, precision int) (*mat.Dense, error) {
	if rows < 1 || cols < 1 {
		return nil, fmt.Errorf("got %dx%d, %w", rows, cols, ErrInvalidShape)
	}
	if minVal >= maxVal {
		return nil, fmt.Errorf("got min %g and max %g, %w", minVal, maxVal, ErrInvalidRange)
	}
	if err := validatePrecision(precision); err != nil {
		return nil, err
	}

	dist := distuv.Uniform{Min: minVal, Max: maxVal, Src: g.src}
	data := make([]float64, rows*cols)
	for i := range data {
		data[i] = dist.Rand()
	}
	x := mat.NewDense(rows, cols, data)
	if err := mat_.Round(x, precision); err != nil {
		return nil, err
	}
	return clamp(x, minVal, maxVal), nil
}

// clamp pulls values that rounding pushed just outside of the sampling range back to
// the range edge.
func clamp(x *mat.Dense, minVal, maxVal float64) *mat.Dense {
	x.Apply(func(_, _ int, v float64) float64 {
		if v < minVal {
			return minVal
		}
		if v > maxVal {
			return maxVal
		}
		return v
	}, x)
	return x
}

// NoiseGenerator samples noise vectors from a normal distribution
type NoiseGenerator struct {
	src rand.Source
}

// NewNoiseGenerator creates a noise generator backed by src. A nil source draws from the
// global random stream.
func NewNoiseGenerator(src rand.Source) *NoiseGenerator {
	return &NoiseGenerator{src: src}
}

// Generate returns size samples of Normal(mean, stdDev) rounded half to even to precision
// decimal digits. A zero standard deviation returns a constant vector of mean.
func (g *NoiseGenerator) Generate(mean, stdDev float64, size, precision int) ([]float64, error) {
	if size < 1 {
		return nil, fmt.Errorf("got %d, %w", size, ErrInvalidSize)
	}
	if stdDev < 0 {
		return nil, fmt.Errorf("got %g, %w", stdDev, ErrNegativeStdDev)
	}
	if err := validatePrecision(precision); err != nil {
		return nil, err
	}

	noise := make([]float64, size)
	if stdDev == 0 {
		for i := range noise {
			noise[i] = mean
		}
	} else {
		dist := distuv.Normal{Mu: mean, Sigma: stdDev, Src: g.src}
		for i := range noise {
			noise[i] = dist.Rand()
		}
	}

	if err := mat_.RoundSlice(noise, precision); err != nil {
		return nil, err
	}
	return noise, nil
}
