package main

import (
	"errors"
	"fmt"
	"strings"

	regsim "github.com/aouyang1/go-regsim"
	"github.com/aouyang1/go-regsim/metrics"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "REGSIM"

var ErrConflictingSources = errors.New("only one design matrix source may be set")

// flag and config keys
const (
	keyConfig    = "config"
	keyLog       = "log"
	keySnapshot  = "snapshot"
	keyObs       = "obs"
	keyFeats     = "feats"
	keyXMin      = "x-min"
	keyXMax      = "x-max"
	keyXPrec     = "x-precision"
	keyXFile     = "x-file"
	keyXManual   = "x-manual"
	keyBMin      = "b-min"
	keyBMax      = "b-max"
	keyBPrec     = "b-precision"
	keyBManual   = "b-manual"
	keyBias      = "bias"
	keyNoiseMean = "noise-mean"
	keyNoiseStd  = "noise-sigma"
	keySeed      = "seed"
	keyMAPE      = "mape-policy"
	keyPlot      = "plot"
	keyJSON      = "json"
)

// newViper returns a viper instance reading REGSIM_ prefixed environment variables where
// dashes in keys become underscores, e.g. REGSIM_NOISE_SIGMA
func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// readConfig merges the config file named by the config key if one is set
func readConfig(v *viper.Viper) error {
	path := v.GetString(keyConfig)
	if path == "" {
		return nil
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("unable to read config %s, %w", path, err)
	}
	return nil
}

func addRunFlags(fs *pflag.FlagSet) {
	fs.Int(keyObs, 100, "number of observations")
	fs.Int(keyFeats, 3, "number of features")

	fs.Float64(keyXMin, 0, "lower bound of generated design matrix values")
	fs.Float64(keyXMax, 100, "upper bound of generated design matrix values")
	fs.Int(keyXPrec, regsim.DefaultPrecision, "decimal digits of design matrix values")
	fs.String(keyXFile, "", "comma separated design matrix file rounded to x-precision, replaces the dimensions")
	fs.String(keyXManual, "", "design matrix rows separated by ';' with comma separated values, e.g. '1,2;3,4'")

	fs.Float64(keyBMin, 0, "lower bound of generated coefficients")
	fs.Float64(keyBMax, 10, "upper bound of generated coefficients")
	fs.Int(keyBPrec, regsim.DefaultPrecision, "decimal digits of coefficients")
	fs.String(keyBManual, "", "comma separated coefficients, e.g. '1.5,2'")
	fs.Float64(keyBias, regsim.DefaultBias, "bias added to every response")

	fs.Float64(keyNoiseMean, 0, "mean of the gaussian noise")
	fs.Float64(keyNoiseStd, 1, "standard deviation of the gaussian noise")

	fs.Uint64(keySeed, 0, "seed for reproducible generation, unseeded when not set")
	fs.String(keyMAPE, metrics.MAPESkipZero.String(), "treatment of zero coefficients in the MAPE: skip, nan or fail")
	fs.String(keyPlot, "", "write an html plot of the coefficients and response to this path")
	fs.Bool(keyJSON, false, "print the results as json instead of a table")
}

// runConfig is the resolved input of a single simulation
type runConfig struct {
	nObs   int
	nFeats int

	x    regsim.XSource
	b    regsim.BSource
	bias float64

	noiseMean  float64
	noiseSigma float64

	opt      *regsim.Options
	plotPath string
	asJSON   bool
}

func newRunConfig(v *viper.Viper) (*runConfig, error) {
	policy, err := metrics.ParseMAPEPolicy(v.GetString(keyMAPE))
	if err != nil {
		return nil, err
	}

	opt := regsim.NewDefaultOptions()
	opt.MAPEPolicy = policy
	opt.SnapshotPath = v.GetString(keySnapshot)
	if v.IsSet(keySeed) {
		seed := v.GetUint64(keySeed)
		opt.Seed = &seed
	}

	cfg := &runConfig{
		nObs:       v.GetInt(keyObs),
		nFeats:     v.GetInt(keyFeats),
		bias:       v.GetFloat64(keyBias),
		noiseMean:  v.GetFloat64(keyNoiseMean),
		noiseSigma: v.GetFloat64(keyNoiseStd),
		opt:        opt,
		plotPath:   v.GetString(keyPlot),
		asJSON:     v.GetBool(keyJSON),
	}

	xFile, xManual := v.GetString(keyXFile), v.GetString(keyXManual)
	switch {
	case xFile != "" && xManual != "":
		return nil, fmt.Errorf("%s and %s, %w", keyXFile, keyXManual, ErrConflictingSources)
	case xFile != "":
		cfg.x = regsim.FileX{Path: xFile, Precision: v.GetInt(keyXPrec)}
	case xManual != "":
		rows := parseRows(xManual)
		cfg.x = regsim.ManualX{Values: rows, Precision: v.GetInt(keyXPrec)}
		cfg.nObs = len(rows)
		cfg.nFeats = len(rows[0])
	default:
		cfg.x = regsim.GenerateX{
			Min:       v.GetFloat64(keyXMin),
			Max:       v.GetFloat64(keyXMax),
			Precision: v.GetInt(keyXPrec),
		}
	}

	if bManual := v.GetString(keyBManual); bManual != "" {
		cfg.b = regsim.ManualB{Values: parseCells(bManual), Precision: v.GetInt(keyBPrec)}
	} else {
		cfg.b = regsim.GenerateB{
			Min:       v.GetFloat64(keyBMin),
			Max:       v.GetFloat64(keyBMax),
			Precision: v.GetInt(keyBPrec),
		}
	}
	return cfg, nil
}

// parseRows splits "1,2;3,4" into rows of cells
func parseRows(s string) [][]string {
	var rows [][]string
	for _, row := range strings.Split(s, ";") {
		if strings.TrimSpace(row) == "" {
			continue
		}
		rows = append(rows, parseCells(row))
	}
	if len(rows) == 0 {
		rows = append(rows, []string{s})
	}
	return rows
}

func parseCells(s string) []string {
	cells := strings.Split(s, ",")
	for i, c := range cells {
		cells[i] = strings.TrimSpace(c)
	}
	return cells
}
