package experiments

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	bp "github.com/sharnoff/backprop"
	"github.com/sharnoff/backprop/freezer"
	"github.com/sharnoff/backprop/learning"
	"github.com/sharnoff/backprop/report"
)

// networkRun is the training of a few Networks, each with its own Teacher
type networkRun struct {
	goal  float64
	limit int
	jobs  []learning.Job

	// concurrent runs train every Network at once and show a progress bar. Sequential runs show
	// the error of each step.
	concurrent bool

	beforeLearning func(int, learning.Job)
	eachStep       func(learning.Step)
	afterLearning  func(learning.Result)
}

type networkOutcome struct {
	networks []*bp.Network

	// results is nil if the Networks were unfrozen instead of trained
	results  []learning.Result
	restored bool
}

// failures returns an error if any of the Networks failed to train
func (o networkOutcome) failures() error {
	var n int
	var first error
	for _, r := range o.results {
		if r.Err != nil {
			if first == nil {
				first = r.Err
			}
			n++
		}
	}

	if n == 0 {
		return nil
	}
	return errors.Wrapf(first, "%d of %d networks failed, first error", n, len(o.results))
}

// trained returns the Networks that are usable: every Network, except those that failed to train
func (o networkOutcome) trained() []*bp.Network {
	if o.restored {
		return o.networks
	}

	var nets []*bp.Network
	for i, r := range o.results {
		if r.Err == nil {
			nets = append(nets, o.networks[i])
		}
	}
	return nets
}

// runNetworks unfreezes the Networks of the run if asked to and all of them are stored, and
// otherwise trains them (freezing them afterwards if asked to)
func (env *Env) runNetworks(r networkRun) (networkOutcome, error) {
	names := make([]string, len(r.jobs))
	for i, j := range r.jobs {
		names[i] = j.Network.Name()
	}

	if env.Config.Unfreeze && env.store != nil {
		nets, err := freezer.LoadAll(env.store, names)
		switch {
		case err == nil:
			env.Log.Info("networks unfrozen", "count", len(nets))
			fmt.Fprintln(env.Out, "Networks unfrozen!")
			return networkOutcome{networks: nets, restored: true}, nil
		case errors.Is(err, freezer.ErrNotFound):
			env.Log.Info("not every network is frozen, training all", "err", err)
		default:
			env.Log.Warn("can't unfreeze networks, training all", "err", err)
		}
	}

	var loader *report.Loader
	var progress *report.Progress

	hooks := learning.Hooks{
		BeforeLearning: r.beforeLearning,
		EachStep:       r.eachStep,
	}

	if r.concurrent {
		loader = report.NewLoader(env.Out, 50)
		hooks.Progress = loader.Update
	} else if len(r.jobs) != 0 {
		progress = report.NewProgress(env.Out, r.jobs[0].Teacher.Metric())
		hooks.EachStep = func(s learning.Step) {
			progress.Step(s)
			if r.eachStep != nil {
				r.eachStep(s)
			}
		}
	}

	hooks.AfterLearning = func(res learning.Result) {
		if loader != nil {
			fmt.Fprint(env.Out, "\r")
		} else if progress != nil {
			progress.Close()
		}

		report.NetworkLog(env.Out, res)
		env.logResult(res)

		if r.afterLearning != nil {
			r.afterLearning(res)
		}
	}

	cfg := env.learningConfig(r.goal, r.limit)

	start := time.Now()
	var results []learning.Result
	var err error
	if r.concurrent {
		results, err = learning.Concurrent(r.jobs, cfg, hooks)
		loader.Close()
	} else {
		results, err = learning.Sequential(r.jobs, cfg, hooks)
	}
	if err != nil {
		return networkOutcome{}, err
	}

	fmt.Fprintf(env.Out, "Total elapsed time: %d ms\n", time.Since(start).Milliseconds())

	out := networkOutcome{networks: make([]*bp.Network, len(r.jobs)), results: results}
	for i, j := range r.jobs {
		out.networks[i] = j.Network
	}

	if env.Config.Freeze && env.store != nil {
		nets := out.trained()

		ok, err := env.confirmOverwrite(nets)
		if err != nil {
			return out, err
		} else if !ok {
			fmt.Fprintln(env.Out, "Frozen networks kept.")
			env.Log.Info("networks not frozen, kept the ones already frozen")
			return out, nil
		}

		if err := freezer.SaveAll(env.store, nets); err != nil {
			return out, err
		}
		env.Log.Info("networks frozen", "count", len(nets))
	}

	return out, nil
}

func (env *Env) logResult(res learning.Result) {
	name := ""
	if res.Network != nil {
		name = res.Network.Name()
	}

	switch {
	case res.Err != nil:
		env.Log.Error("network failed", "network", name, "steps", res.Steps, "err", res.Err)
	case res.ReachedLimit:
		env.Log.Warn("step limit reached", "network", name, "steps", res.Steps, "error", res.MeanError())
	default:
		env.Log.Debug("network finished", "network", name, "steps", res.Steps, "error", res.MeanError())
	}
}
