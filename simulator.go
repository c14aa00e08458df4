// Package regsim builds a synthetic linear regression problem stage by stage and
// compares the ordinary least squares estimate against the coefficients it was built
// from.
package regsim

import (
	"fmt"
	"os"

	"github.com/aouyang1/go-regsim/bounds"
	"github.com/aouyang1/go-regsim/linearmodel"
	mat_ "github.com/aouyang1/go-regsim/mat"
	"github.com/aouyang1/go-regsim/metrics"
	"github.com/aouyang1/go-regsim/simulate"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"
)

// Simulator threads a State through the dimension, design matrix, coefficient, noise and
// compute stages. Every stage validates all of its inputs before touching the state and
// commits its outputs only on success. A Simulator is not safe for concurrent use.
type Simulator struct {
	opt   *Options
	state *State
	runID uuid.UUID

	matrixGen *simulate.MatrixGenerator
	noiseGen  *simulate.NoiseGenerator
	store     *SnapshotStore
}

// NewSimulator creates a simulator with an empty state. Any snapshot left at the
// configured path by an earlier run is removed.
func NewSimulator(opt *Options) (*Simulator, error) {
	opt, err := opt.Validate()
	if err != nil {
		return nil, err
	}

	s := &Simulator{
		opt:   opt,
		state: NewState(),
		runID: uuid.New(),
	}

	if opt.Seed != nil {
		s.matrixGen = simulate.NewMatrixGenerator(simulate.NewSource(*opt.Seed))
		s.noiseGen = simulate.NewNoiseGenerator(simulate.NewSource(*opt.Seed + 1))
	} else {
		s.matrixGen = simulate.NewMatrixGenerator(nil)
		s.noiseGen = simulate.NewNoiseGenerator(nil)
	}

	if opt.SnapshotPath != "" {
		s.store = NewSnapshotStore(opt.SnapshotPath)
		if err := s.store.Remove(); err != nil {
			return nil, fmt.Errorf("unable to clear previous snapshot, %w", err)
		}
	}
	return s, nil
}

// RunID identifies the simulator in its snapshots
func (s *Simulator) RunID() uuid.UUID {
	return s.runID
}

// State returns a copy of the current state
func (s *Simulator) State() *State {
	return s.state.Clone()
}

// ApplyDimensions sets the number of observations and features. Changing either
// dimension discards every vector and matrix built for the previous shape.
func (s *Simulator) ApplyDimensions(nObs, nFeats int) error {
	if err := bounds.CheckDimensions(nObs, nFeats); err != nil {
		return err
	}

	next := s.state.Clone()
	if next.NObs != nObs || next.NFeats != nFeats {
		next.X = nil
		next.resetShaped()
	}
	next.NObs = nObs
	next.NFeats = nFeats

	s.commit(next, "dimensions", zap.Int("n_obs", nObs), zap.Int("n_feats", nFeats))
	return nil
}

// ApplyX sets the design matrix from src. Generated and manual matrices require applied
// dimensions; a file import replaces the dimensions with the shape of the file.
func (s *Simulator) ApplyX(src XSource) error {
	next := s.state.Clone()

	switch src := src.(type) {
	case GenerateX:
		if !next.DimensionsApplied() {
			return ErrDimensionsNotApplied
		}
		if err := bounds.CheckValueRange("x", src.Min, src.Max); err != nil {
			return err
		}
		if err := bounds.CheckPrecision("x", src.Precision); err != nil {
			return err
		}
		x, err := s.matrixGen.Generate(src.Min, src.Max, next.NObs, next.NFeats, src.Precision)
		if err != nil {
			return fmt.Errorf("unable to generate design matrix, %w", err)
		}
		next.X = x
		next.XPrecision = src.Precision
	case ManualX:
		if !next.DimensionsApplied() {
			return ErrDimensionsNotApplied
		}
		x, err := parseManual(src.Values, next.NObs, next.NFeats, src.Precision)
		if err != nil {
			return err
		}
		next.X = x
		next.XPrecision = src.Precision
	case FileX:
		if err := bounds.CheckPrecision("x", src.Precision); err != nil {
			return err
		}
		x, err := loadMatrix(src.Path, src.Precision)
		if err != nil {
			return err
		}
		m, n := x.Dims()
		if m != next.NObs || n != next.NFeats {
			next.resetShaped()
		}
		next.NObs = m
		next.NFeats = n
		next.X = x
		next.XPrecision = src.Precision
	case nil:
		return ErrNilSource
	default:
		return fmt.Errorf("unsupported design matrix source %T, %w", src, ErrNilSource)
	}
	next.resetComputed()

	m, n := next.X.Dims()
	s.commit(next, "design matrix",
		zap.String("source", fmt.Sprintf("%T", src)),
		zap.Int("rows", m),
		zap.Int("cols", n),
		zap.Int("precision", next.XPrecision),
	)
	return nil
}

// ApplyB sets the true coefficients from src along with the bias
func (s *Simulator) ApplyB(src BSource, bias float64) error {
	next := s.state.Clone()
	if !next.DimensionsApplied() {
		return ErrDimensionsNotApplied
	}
	if err := bounds.CheckFinite("bias", bias); err != nil {
		return err
	}

	switch src := src.(type) {
	case GenerateB:
		if err := bounds.CheckValueRange("b", src.Min, src.Max); err != nil {
			return err
		}
		if err := bounds.CheckPrecision("b", src.Precision); err != nil {
			return err
		}
		b, err := s.matrixGen.Generate(src.Min, src.Max, next.NFeats, 1, src.Precision)
		if err != nil {
			return fmt.Errorf("unable to generate coefficients, %w", err)
		}
		if next.B, err = mat_.ColVector(b); err != nil {
			return err
		}
		next.BPrecision = src.Precision
	case ManualB:
		cells := make([][]string, len(src.Values))
		for i, v := range src.Values {
			cells[i] = []string{v}
		}
		b, err := parseManual(cells, next.NFeats, 1, src.Precision)
		if err != nil {
			return err
		}
		if next.B, err = mat_.ColVector(b); err != nil {
			return err
		}
		next.BPrecision = src.Precision
	case nil:
		return ErrNilSource
	default:
		return fmt.Errorf("unsupported coefficient source %T, %w", src, ErrNilSource)
	}
	next.Bias = bias
	next.resetComputed()

	s.commit(next, "coefficients",
		zap.String("source", fmt.Sprintf("%T", src)),
		zap.Int("n_feats", len(next.B)),
		zap.Float64("bias", bias),
		zap.Int("precision", next.BPrecision),
	)
	return nil
}

// ApplyNoise draws one noise value per observation from Normal(mean, stdDev). Noise is
// always rounded to the maximum precision.
func (s *Simulator) ApplyNoise(mean, stdDev float64) error {
	next := s.state.Clone()
	if !next.DimensionsApplied() {
		return ErrDimensionsNotApplied
	}
	if err := bounds.CheckNoise(mean, stdDev); err != nil {
		return err
	}

	noise, err := s.noiseGen.Generate(mean, stdDev, next.NObs, bounds.MaxPrecision)
	if err != nil {
		return fmt.Errorf("unable to generate noise, %w", err)
	}
	next.NoiseMean = mean
	next.NoiseStdDev = stdDev
	next.Noise = noise
	next.resetComputed()

	s.commit(next, "noise", zap.Float64("mean", mean), zap.Float64("std_dev", stdDev))
	return nil
}

// Compute derives the response from the design matrix, coefficients, bias and noise,
// estimates the coefficients back from the design matrix and response and scores the
// estimate against the true coefficients with the bias left out.
func (s *Simulator) Compute() error {
	next := s.state.Clone()
	switch {
	case next.X == nil:
		return ErrMissingDesignMatrix
	case len(next.B) == 0:
		return ErrMissingCoefficients
	case len(next.Noise) == 0:
		return ErrMissingNoise
	}

	y, err := linearmodel.ComputeResponse(next.X, next.B, next.Bias, next.Noise)
	if err != nil {
		return fmt.Errorf("unable to compute response, %w", err)
	}

	bHat, err := linearmodel.EstimateCoefficients(next.X, y)
	if err != nil {
		return fmt.Errorf("unable to estimate coefficients, %w", err)
	}

	scores, err := metrics.NewScores(bHat[1:], next.B, s.opt.MAPEPolicy)
	if err != nil {
		return fmt.Errorf("unable to score estimate, %w", err)
	}

	next.Y = y
	next.BHat = bHat
	next.Scores = scores

	s.commit(next, "compute",
		zap.Float64("estimated_bias", bHat[0]),
		zap.Float64("mse", scores.MSE),
		zap.Float64("mae", scores.MAE),
		zap.Float64("mape", scores.MAPE),
	)
	return nil
}

// Clear rebuilds the state from its defaults and removes the snapshot
func (s *Simulator) Clear() error {
	s.state = NewState()
	s.opt.Logger.Info("cleared state")
	if s.store != nil {
		if err := s.store.Remove(); err != nil {
			return fmt.Errorf("unable to remove snapshot, %w", err)
		}
	}
	return nil
}

// Results summarizes the computed state. ErrNothingComputed is returned before Compute
// has succeeded.
func (s *Simulator) Results() (*Results, error) {
	if !s.state.Computed() {
		return nil, ErrNothingComputed
	}
	return NewResults(s.state), nil
}

// commit replaces the state and writes the snapshot. A failed snapshot write is logged
// and does not undo the stage.
func (s *Simulator) commit(next *State, stage string, fields ...zap.Field) {
	s.state = next
	s.opt.Logger.Info("applied "+stage, fields...)

	if s.store == nil {
		return
	}
	if err := s.store.Save(NewSnapshot(s.runID, s.state)); err != nil {
		s.opt.Logger.Warn("unable to write snapshot",
			zap.String("path", s.store.Path()),
			zap.Error(err),
		)
	}
}

func (s *State) resetComputed() {
	s.Y = nil
	s.BHat = nil
	s.Scores = nil
}

// resetShaped drops the coefficients, the noise and its parameters along with every
// computed result, leaving the design matrix and precisions in place
func (s *State) resetShaped() {
	s.B = nil
	s.NoiseMean = 0
	s.NoiseStdDev = 0
	s.Noise = nil
	s.resetComputed()
}

// parseManual converts typed in cells into a rows x cols matrix rounded to precision
func parseManual(cells [][]string, rows, cols, precision int) (*mat.Dense, error) {
	if err := bounds.CheckPrecision("manual", precision); err != nil {
		return nil, err
	}
	if err := bounds.CheckManualSize(rows, cols); err != nil {
		return nil, err
	}
	x, err := mat_.ParseRows(cells)
	if err != nil {
		return nil, err
	}
	m, n := x.Dims()
	if m != rows || n != cols {
		return nil, fmt.Errorf("got %dx%d, expected %dx%d, %w", m, n, rows, cols, ErrManualShape)
	}
	if err := bounds.CheckValues("manual", x.RawMatrix().Data); err != nil {
		return nil, err
	}
	if err := mat_.Round(x, precision); err != nil {
		return nil, err
	}
	return x, nil
}

// loadMatrix reads a comma separated matrix from path rounded to precision
func loadMatrix(path string, precision int) (*mat.Dense, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open design matrix file, %w", err)
	}
	defer f.Close()

	x, err := mat_.ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s, %w", path, err)
	}
	m, n := x.Dims()
	if err := bounds.CheckDimensions(m, n); err != nil {
		return nil, err
	}
	if err := bounds.CheckValues("x", x.RawMatrix().Data); err != nil {
		return nil, err
	}
	if err := mat_.Round(x, precision); err != nil {
		return nil, err
	}
	return x, nil
}
