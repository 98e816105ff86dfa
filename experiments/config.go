package experiments

import (
	"io"
	"log/slog"
	"os"

	"github.com/pkg/errors"
	"github.com/sharnoff/backprop/costfuncs"
	"github.com/sharnoff/backprop/input"
	"github.com/sharnoff/backprop/teachers"
)

// Config is everything an experiment takes from its caller. The zero value is usable: every
// field left empty gets a default.
type Config struct {
	// Files are the data files to use. If empty, they are picked from DataDir by name.
	Files []string

	// Mode selects the teachers of the experiments that can use either
	Mode teachers.Mode

	// Cost names the cost function of every teacher (see costfuncs.Names). If empty, teachers use
	// their default.
	Cost string

	Separator string

	// Freeze saves the trained Networks; Unfreeze loads them instead of training, if all of them
	// are available
	Freeze   bool
	Unfreeze bool

	// Overwrite replaces frozen Networks without asking
	Overwrite bool

	// Workers bounds the number of Networks trained at once. Zero means GOMAXPROCS.
	Workers int

	// PlotDir is where charts are saved. No charts are made if it is empty.
	PlotDir string

	// FreezerDir is the directory of frozen Networks, used unless SQLitePath is set
	FreezerDir string
	SQLitePath string

	// Mask is the iris field mask. If empty, it is asked for on In.
	Mask string

	DataDir string

	// StepsLimit and ClusterSize replace each experiment's own values, if positive
	StepsLimit  int
	ClusterSize int

	Logger *slog.Logger
	Out    io.Writer
	In     io.Reader
}

const (
	DefaultDataDir    = "data"
	DefaultFreezerDir = "freezer"
)

func (c *Config) setDefaults() {
	if c.Separator == "" {
		c.Separator = input.DefaultSeparator
	}
	if c.DataDir == "" {
		c.DataDir = DefaultDataDir
	}
	if c.FreezerDir == "" {
		c.FreezerDir = DefaultFreezerDir
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if c.Out == nil {
		c.Out = os.Stdout
	}
	if c.In == nil {
		c.In = os.Stdin
	}
}

func (c Config) Validate() error {
	if c.Mode != teachers.Online && c.Mode != teachers.Offline {
		return errors.Wrapf(teachers.ErrUnknownMode, "Invalid config")
	} else if c.Workers < 0 {
		return errors.Errorf("Invalid config, workers can't be negative (%d)", c.Workers)
	} else if c.StepsLimit < 0 {
		return errors.Errorf("Invalid config, steps limit can't be negative (%d)", c.StepsLimit)
	} else if c.ClusterSize < 0 {
		return errors.Errorf("Invalid config, cluster size can't be negative (%d)", c.ClusterSize)
	}

	if c.Cost != "" {
		if _, err := costfuncs.Get(c.Cost); err != nil {
			return errors.Wrapf(err, "Invalid config")
		}
	}

	return nil
}
