package regsim

import (
	"github.com/aouyang1/go-regsim/metrics"
	"go.uber.org/zap"
)

const (
	// DefaultPrecision is the number of decimal digits X and B are rounded to until the
	// caller picks another precision
	DefaultPrecision = 9

	// DefaultBias is the intercept added to every response until the caller sets one
	DefaultBias = 1.0
)

// Options configures a Simulator
type Options struct {
	// Seed makes every generated matrix and noise vector reproducible when set. A nil seed
	// draws from the global random stream.
	Seed *uint64

	// SnapshotPath is where the state is written after every successful stage. Paths ending
	// in .zst are zstd compressed. An empty path disables snapshots.
	SnapshotPath string

	// MAPEPolicy decides how true coefficients of zero are scored
	MAPEPolicy metrics.MAPEPolicy

	Logger *zap.Logger
}

// NewDefaultOptions returns unseeded options without snapshots that skip zero
// coefficients when computing the MAPE
func NewDefaultOptions() *Options {
	return &Options{
		MAPEPolicy: metrics.MAPESkipZero,
		Logger:     zap.NewNop(),
	}
}

// Validate fills in defaults and checks the options for invalid values
func (o *Options) Validate() (*Options, error) {
	if o == nil {
		o = NewDefaultOptions()
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.MAPEPolicy < metrics.MAPESkipZero || o.MAPEPolicy > metrics.MAPEFail {
		return nil, metrics.ErrUnknownPolicy
	}
	return o, nil
}
