// backprop runs the predefined learning experiments.
//
//	backprop list
//	backprop run approximation --offline --plots plots data/approx_1.txt data/approx_2.txt data/approx_test.txt
//
// If no data files are given, they are looked for by name in the data directory.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	bp "github.com/sharnoff/backprop"
	"github.com/sharnoff/backprop/costfuncs"
	"github.com/sharnoff/backprop/experiments"
	"github.com/sharnoff/backprop/initializers"
	"github.com/sharnoff/backprop/report"
	"github.com/sharnoff/backprop/teachers"
)

type flags struct {
	mode        string
	offline     bool
	cost        string
	separator   string
	freeze      bool
	unfreeze    bool
	overwrite   bool
	workers     int
	plots       string
	freezer     string
	sqlite      string
	mask        string
	data        string
	stepsLimit  int
	clusterSize int
	seed        int64
	initName    string
	initSD      float64
	initBound   float64
	verbose     bool
}

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "backprop",
		Short:        "Train feed-forward networks with backpropagation",
		SilenceUsage: true,
	}

	root.AddCommand(runCmd(), listCmd())
	return root
}

func runCmd() *cobra.Command {
	var f flags

	cmd := &cobra.Command{
		Use:   "run <experiment> [data files...]",
		Short: "Run an experiment",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelInfo
			if f.verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

			if cmd.Flags().Changed("seed") {
				initializers.Seed(f.seed)
			}

			if err := setInitializer(f); err != nil {
				return err
			}

			mode, err := f.teachingMode(cmd)
			if err != nil {
				return err
			}

			return experiments.Run(args[0], experiments.Config{
				Files:       args[1:],
				Mode:        mode,
				Cost:        f.cost,
				Separator:   f.separator,
				Freeze:      f.freeze,
				Unfreeze:    f.unfreeze,
				Overwrite:   f.overwrite,
				Workers:     f.workers,
				PlotDir:     f.plots,
				FreezerDir:  f.freezer,
				SQLitePath:  f.sqlite,
				Mask:        f.mask,
				DataDir:     f.data,
				StepsLimit:  f.stepsLimit,
				ClusterSize: f.clusterSize,
				Logger:      logger,
				Out:         cmd.OutOrStdout(),
				In:          cmd.InOrStdin(),
			})
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.mode, "mode", teachers.Online.String(), "teaching mode, online or offline")
	fl.BoolVarP(&f.offline, "offline", "o", false, "same as --mode offline")
	fl.StringVar(&f.cost, "cost", "", "cost function of the teachers, one of "+strings.Join(costfuncs.Names(), ", ")+" (default half-mse)")
	fl.StringVarP(&f.separator, "separator", "s", ";", "separator of values in data files")
	fl.BoolVarP(&f.freeze, "freeze", "f", false, "save the trained networks")
	fl.BoolVarP(&f.unfreeze, "unfreeze", "u", false, "load saved networks instead of training, if all are available")
	fl.BoolVar(&f.overwrite, "overwrite", false, "replace saved networks without asking")
	fl.IntVar(&f.workers, "workers", 0, "maximum number of networks trained at once (0 = number of CPUs)")
	fl.StringVar(&f.plots, "plots", "", "directory to save charts in (no charts if empty)")
	fl.StringVar(&f.freezer, "freezer", experiments.DefaultFreezerDir, "directory of saved networks")
	fl.StringVar(&f.sqlite, "sqlite", "", "SQLite database to save networks in, instead of the freezer directory")
	fl.StringVar(&f.mask, "mask", "", "iris field mask, like 1011 (asked for if empty)")
	fl.StringVar(&f.data, "data", experiments.DefaultDataDir, "directory to look for data files in")
	fl.IntVar(&f.stepsLimit, "steps-limit", 0, "replace the experiment's steps limit")
	fl.IntVar(&f.clusterSize, "cluster-size", 0, "replace the number of networks in each cluster")
	fl.Int64Var(&f.seed, "seed", 0, "seed for the initial weights")
	fl.StringVar(&f.initName, "init", "uniform", "distribution of the initial weights: uniform, normal or truncnormal")
	fl.Float64Var(&f.initSD, "init-sd", 1, "standard deviation of the normal initial weights")
	fl.Float64Var(&f.initBound, "init-bound", 1, "uniform initial weights are in [-bound, bound)")
	fl.BoolVarP(&f.verbose, "verbose", "v", false, "log debug messages")

	return cmd
}

// teachingMode resolves --mode and its shorthand --offline
func (f flags) teachingMode(cmd *cobra.Command) (teachers.Mode, error) {
	mode, err := teachers.ParseMode(f.mode)
	if err != nil {
		return 0, err
	}

	if f.offline {
		if cmd.Flags().Changed("mode") && mode != teachers.Offline {
			return 0, errors.Errorf("--offline conflicts with --mode %s", f.mode)
		}
		mode = teachers.Offline
	}

	return mode, nil
}

// setInitializer makes the initializer chosen by the flags the default for new networks
func setInitializer(f flags) error {
	if !(f.initSD > 0) {
		return errors.Errorf("--init-sd must be positive (%v)", f.initSD)
	} else if err := initializers.SetDefault("normal-sd", f.initSD); err != nil {
		return errors.Wrapf(err, "Invalid --init-sd\n")
	}

	in, err := initializers.ByName(f.initName, f.initBound)
	if err != nil {
		return errors.Wrapf(err, "Invalid --init\n")
	}

	return bp.SetDefaultInitializer(in)
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the experiments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t := report.NewTable("Experiment", "Data files", "Description")
			for _, e := range experiments.List() {
				t.Row(e.Name, fmt.Sprint(e.DataFiles), e.Description)
			}

			_, err := t.WriteTo(cmd.OutOrStdout())
			return err
		},
	}
}
