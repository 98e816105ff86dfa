package experiments

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	bp "github.com/sharnoff/backprop"
	"github.com/sharnoff/backprop/climanager"
	"github.com/sharnoff/backprop/costfuncs"
	"github.com/sharnoff/backprop/freezer"
	"github.com/sharnoff/backprop/input"
	"github.com/sharnoff/backprop/learning"
	"github.com/sharnoff/backprop/teachers"
)

// Env is what a running Experiment works with: its Config, where to write output, and where
// Networks are frozen
type Env struct {
	Name   string
	Config Config
	Log    *slog.Logger
	Out    io.Writer

	store    freezer.Store
	closers  []func() error
	prompter *climanager.Prompter
}

func newEnv(e Experiment, cfg Config) (*Env, error) {
	env := &Env{
		Name:   e.Name,
		Config: cfg,
		Log:    cfg.Logger.With("experiment", e.Name),
		Out:    cfg.Out,
	}

	switch {
	case cfg.SQLitePath != "":
		s, err := freezer.NewSQLStore(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		env.store = s
		env.closers = append(env.closers, s.Close)
	case cfg.Freeze || cfg.Unfreeze:
		s, err := freezer.NewFileStore(cfg.FreezerDir)
		if err != nil {
			return nil, err
		}
		env.store = s
	}

	return env, nil
}

func (env *Env) close() {
	for _, c := range env.closers {
		if err := c(); err != nil {
			env.Log.Warn("close failed", "err", err)
		}
	}
}

// Files returns the data files, which must be exactly n
func (env *Env) Files(n int) ([]string, error) {
	if len(env.Config.Files) != n {
		return nil, unfulfilled(env.Name, "requires %d data files, got %d", n, len(env.Config.Files))
	}

	return env.Config.Files, nil
}

// Parse reads a Dataset from a file with the configured separator
func (env *Env) Parse(path string, inputs, expected int, transform func(string) string) (bp.Dataset, error) {
	p := input.Parser{Separator: env.Config.Separator, Transform: transform}
	data, err := p.ParseFile(path, inputs, expected)
	if err != nil {
		return nil, err
	}

	if len(data) == 0 {
		return nil, unfulfilled(env.Name, "data file %s has no samples", path)
	}

	env.Log.Debug("data loaded", "file", path, "samples", len(data))
	return data, nil
}

// StepsLimit returns the configured steps limit, or def if there is none
func (env *Env) StepsLimit(def int) int {
	if env.Config.StepsLimit > 0 {
		return env.Config.StepsLimit
	}
	return def
}

// ClusterSize returns the configured cluster size, or def if there is none
func (env *Env) ClusterSize(def int) int {
	if env.Config.ClusterSize > 0 {
		return env.Config.ClusterSize
	}
	return def
}

func (env *Env) learningConfig(goal float64, limit int) learning.Config {
	return learning.Config{
		ErrorGoal:  goal,
		StepsLimit: env.StepsLimit(limit),
		Workers:    env.Config.Workers,
	}
}

// Teacher makes a teacher with the configured mode and cost function
func (env *Env) Teacher(alpha, beta float64, opts ...teachers.Option) (teachers.Teacher, error) {
	return env.teacher(env.Config.Mode, alpha, beta, opts)
}

// OfflineTeacher is Teacher for the experiments that are always offline
func (env *Env) OfflineTeacher(alpha, beta float64, opts ...teachers.Option) (teachers.Teacher, error) {
	return env.teacher(teachers.Offline, alpha, beta, opts)
}

func (env *Env) teacher(mode teachers.Mode, alpha, beta float64, opts []teachers.Option) (teachers.Teacher, error) {
	if env.Config.Cost != "" {
		c, err := costfuncs.Get(env.Config.Cost)
		if err != nil {
			return nil, err
		}

		opts = append(opts[:len(opts):len(opts)], teachers.WithCost(c))
	}

	return teachers.New(mode, alpha, beta, opts...)
}

// confirmOverwrite reports whether the Networks may be frozen. If some of them are already frozen,
// the user is asked first, unless Config.Overwrite is set.
func (env *Env) confirmOverwrite(nets []*bp.Network) (bool, error) {
	if env.Config.Overwrite {
		return true, nil
	}

	var frozen []string
	for _, net := range nets {
		_, err := env.store.Load(net.Name())
		switch {
		case err == nil:
			frozen = append(frozen, net.Name())
		case errors.Is(err, freezer.ErrNotFound):
		default:
			env.Log.Debug("replacing unreadable frozen network", "network", net.Name(), "err", err)
		}
	}

	if len(frozen) == 0 {
		return true, nil
	}

	p := env.Prompter()
	p.Prompt(fmt.Sprintf("Networks already frozen: %s\nOverwrite them? (y/n) ", strings.Join(frozen, ", ")))

	yes, quit, err := p.QueryTF()
	if err != nil {
		return false, errors.Wrapf(err, "Can't ask whether to overwrite frozen networks\n")
	}

	return yes && !quit, nil
}

// Prompter asks the user for input
func (env *Env) Prompter() *climanager.Prompter {
	if env.prompter == nil {
		env.prompter = climanager.NewPrompter(env.Config.In, env.Out)
	}
	return env.prompter
}

// Chart saves a chart named 'name' in the plot directory, if there is one. A chart that can't be
// saved is logged, and doesn't fail the experiment.
func (env *Env) Chart(name string, save func(path string) error) {
	if env.Config.PlotDir == "" {
		return
	}

	if err := os.MkdirAll(env.Config.PlotDir, 0o755); err != nil {
		env.Log.Warn("can't create plot directory", "dir", env.Config.PlotDir, "err", err)
		return
	}

	path := filepath.Join(env.Config.PlotDir, name+".png")
	if err := save(path); err != nil {
		env.Log.Warn("chart not saved", "chart", name, "err", errors.Cause(err))
		return
	}

	env.Log.Info("chart saved", "path", path)
}
