// Package experiments holds the predefined learning experiments: sets of Networks, their data
// and teachers, and what is reported once they are trained.
//
// Experiments either train a handful of Networks and compare them (network runs), or train many
// identical Networks per configuration and report statistics over them (cluster runs).
package experiments

import (
	"sort"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sharnoff/backprop/input"
)

// Experiment is a named, runnable learning experiment
type Experiment struct {
	Name        string
	Description string

	// DataFiles lists, for each data file the experiment needs, the alternative names it may be
	// found under in Config.DataDir
	DataFiles [][]string

	Run func(*Env) error
}

var (
	registryMux sync.RWMutex
	registry    = make(map[string]Experiment)
)

// Register adds an Experiment to the set that can be run by name
func Register(e Experiment) error {
	if e.Name == "" || e.Run == nil {
		return errors.Errorf("Can't register experiment without name or run function")
	}

	registryMux.Lock()
	defer registryMux.Unlock()

	if _, ok := registry[e.Name]; ok {
		return errors.Errorf("Can't register experiment %q, name is already used", e.Name)
	}

	registry[e.Name] = e
	return nil
}

func mustRegister(e Experiment) {
	if err := Register(e); err != nil {
		panic(err)
	}
}

// Get returns the registered Experiment with the name
func Get(name string) (Experiment, error) {
	registryMux.RLock()
	defer registryMux.RUnlock()

	e, ok := registry[name]
	if !ok {
		return Experiment{}, errors.Errorf("No experiment named %q", name)
	}

	return e, nil
}

// List returns every registered Experiment, sorted by name
func List() []Experiment {
	registryMux.RLock()
	defer registryMux.RUnlock()

	es := make([]Experiment, 0, len(registry))
	for _, e := range registry {
		es = append(es, e)
	}

	sort.Slice(es, func(i, j int) bool { return es[i].Name < es[j].Name })
	return es
}

// Run runs the named experiment
func Run(name string, cfg Config) error {
	e, err := Get(name)
	if err != nil {
		return err
	}

	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return err
	}

	if len(cfg.Files) == 0 {
		if cfg.Files, err = input.Pick(cfg.DataDir, e.DataFiles...); err != nil {
			return errors.Wrapf(err, "Can't run %q\n", name)
		}
	}

	env, err := newEnv(e, cfg)
	if err != nil {
		return err
	}
	defer env.close()

	log := cfg.Logger.With("experiment", name)
	log.Info("experiment started", "files", cfg.Files, "mode", cfg.Mode)

	start := time.Now()
	if err := e.Run(env); err != nil {
		log.Error("experiment failed", "err", err)
		return errors.Wrapf(err, "Experiment %q failed\n", name)
	}

	log.Info("experiment finished", "elapsed", time.Since(start))
	return nil
}
