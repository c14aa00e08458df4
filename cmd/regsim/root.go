package main

import (
	"fmt"
	"io"
	"os"

	regsim "github.com/aouyang1/go-regsim"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func newRootCommand() *cobra.Command {
	v := newViper()

	cmd := &cobra.Command{
		Use:           "regsim",
		Short:         "Simulate a linear regression problem and score its least squares estimate",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentPreRunE = func(_ *cobra.Command, args []string) error {
		if err := v.BindPFlags(cmd.PersistentFlags()); err != nil {
			return err
		}
		return readConfig(v)
	}

	fs := cmd.PersistentFlags()
	fs.String(keyConfig, "", "config file (yaml, json or toml) holding any of the flags")
	fs.String(keyLog, logDev, "log format: dev, prod or none")
	fs.String(keySnapshot, "regression_state.json", "snapshot path written after every stage, .zst paths are compressed")

	cmd.AddCommand(
		newRunCommand(v),
		newSnapshotCommand(v),
		newClearCommand(v),
	)
	return cmd
}

func newRunCommand(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Apply dimensions, design matrix, coefficients and noise then compute the estimate",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return v.BindPFlags(cmd.Flags())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(v.GetString(keyLog))
			if err != nil {
				return err
			}
			defer func(logger *zap.Logger) {
				_ = logger.Sync()
			}(logger)

			cfg, err := newRunConfig(v)
			if err != nil {
				return err
			}
			cfg.opt.Logger = logger

			return run(cmd.OutOrStdout(), cfg)
		},
	}

	addRunFlags(cmd.Flags())
	return cmd
}

func run(w io.Writer, cfg *runConfig) error {
	sim, err := regsim.NewSimulator(cfg.opt)
	if err != nil {
		return err
	}

	if _, fromFile := cfg.x.(regsim.FileX); !fromFile {
		if err := sim.ApplyDimensions(cfg.nObs, cfg.nFeats); err != nil {
			return fmt.Errorf("unable to apply dimensions, %w", err)
		}
	}
	if err := sim.ApplyX(cfg.x); err != nil {
		return fmt.Errorf("unable to apply design matrix, %w", err)
	}
	if err := sim.ApplyB(cfg.b, cfg.bias); err != nil {
		return fmt.Errorf("unable to apply coefficients, %w", err)
	}
	if err := sim.ApplyNoise(cfg.noiseMean, cfg.noiseSigma); err != nil {
		return fmt.Errorf("unable to apply noise, %w", err)
	}
	if err := sim.Compute(); err != nil {
		return err
	}

	if cfg.plotPath != "" {
		if err := writePlot(sim, cfg.plotPath); err != nil {
			return err
		}
	}

	res, err := sim.Results()
	if err != nil {
		return err
	}
	return printResults(w, res, cfg.asJSON)
}

func writePlot(sim *regsim.Simulator, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := sim.PlotCoefficients(file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func printResults(w io.Writer, res *regsim.Results, asJSON bool) error {
	if !asJSON {
		return res.TablePrint(w, "", "  ")
	}
	out, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

func newSnapshotCommand(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Print the results stored in the last snapshot",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return v.BindPFlags(cmd.Flags())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			store := regsim.NewSnapshotStore(v.GetString(keySnapshot))
			snap, err := store.Load()
			if err != nil {
				return err
			}
			state, err := snap.State()
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if _, err := fmt.Fprintf(w, "Run: %s\nCreated: %s\n", snap.RunID, snap.CreatedAt); err != nil {
				return err
			}
			if !state.Computed() {
				_, err := fmt.Fprintf(w, "Observations: %d    Features: %d    Computed: false\n", state.NObs, state.NFeats)
				return err
			}
			return printResults(w, regsim.NewResults(state), v.GetBool(keyJSON))
		},
	}
	cmd.Flags().Bool(keyJSON, false, "print the results as json instead of a table")
	return cmd
}

func newClearCommand(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove the snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			store := regsim.NewSnapshotStore(v.GetString(keySnapshot))
			if err := store.Remove(); err != nil {
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", store.Path())
			return err
		},
	}
}
