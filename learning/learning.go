// Package learning runs the training process of Networks: teaching and verifying each one until
// it reaches an error goal or a limit on the number of steps.
//
// Many Networks can be trained one after another (Sequential) or at the same time (Concurrent),
// and groups of identically configured Networks can be trained as clusters, for statistics over
// their random initialization (Clusters).
//
// The training loop never prints anything. Progress is reported through Hooks, which receive a
// Step after every step and a Result when each Network finishes.
package learning

import (
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	bp "github.com/sharnoff/backprop"
	"github.com/sharnoff/backprop/teachers"
	"gonum.org/v1/gonum/stat"
)

// Config holds the stopping conditions shared by every Network of a run
type Config struct {
	// ErrorGoal is the value every output channel's verification error must be below for training
	// to be finished
	ErrorGoal float64

	// StepsLimit is the maximum number of calls to Teach. Reaching it is not an error.
	StepsLimit int

	// Workers bounds the number of Networks trained at once by Concurrent and Clusters. Zero means
	// GOMAXPROCS.
	Workers int
}

func (c Config) Validate() error {
	if !(c.ErrorGoal > 0) || math.IsInf(c.ErrorGoal, 0) {
		return errors.Errorf("Error goal must be a positive number (%v)", c.ErrorGoal)
	} else if c.StepsLimit < 1 {
		return errors.Errorf("Steps limit must be at least 1 (%d)", c.StepsLimit)
	} else if c.Workers < 0 {
		return errors.Errorf("Workers can't be negative (%d)", c.Workers)
	}

	return nil
}

// Job is a single Network, along with the Teacher that trains it
type Job struct {
	Network *bp.Network
	Teacher teachers.Teacher
}

// Step is sent after every step of training
type Step struct {
	// RunID identifies a single call to Process, so that Networks with the same name can be told
	// apart
	RunID uuid.UUID

	// Index is the position of the Job in the list given to Sequential or Concurrent
	Index int

	Network string
	Teacher string

	// Step counts from 1
	Step   int
	Errors []float64
}

// Result is the outcome of training a single Network
type Result struct {
	RunID uuid.UUID
	Index int

	Network *bp.Network
	Teacher teachers.Teacher

	// Errors is the final verification error of each output channel
	Errors []float64
	Steps  int

	Elapsed time.Duration

	// ReachedLimit is true if training stopped because of the steps limit rather than the error
	// goal. The Network is still usable.
	ReachedLimit bool

	// Err is set if training failed. Other fields are only valid up to the step that failed.
	Err error
}

// MeanError returns the mean of the final errors, or NaN if there are none
func (r Result) MeanError() float64 {
	if len(r.Errors) == 0 {
		return math.NaN()
	}

	return stat.Mean(r.Errors, nil)
}

// Converged reports whether every value is below the goal
func Converged(errs []float64, goal float64) bool {
	for _, e := range errs {
		if !(e < goal) {
			return false
		}
	}

	return true
}

// Hooks are called during Sequential and Concurrent runs. Any of them may be nil.
//
// EachStep is called from the goroutine training the Network, so during concurrent runs it must
// be safe to call from many goroutines at once. The others are always called from the goroutine
// that started the run.
type Hooks struct {
	// BeforeLearning is called for every Job before any training starts
	BeforeLearning func(int, Job)

	EachStep func(Step)

	// AfterLearning is called once per Job, in the order the Jobs finish
	AfterLearning func(Result)

	// Progress is called after every AfterLearning, with the number of finished Jobs
	Progress func(done, total int)
}

func (h Hooks) before(i int, j Job) {
	if h.BeforeLearning != nil {
		h.BeforeLearning(i, j)
	}
}

func (h Hooks) after(r Result) {
	if h.AfterLearning != nil {
		h.AfterLearning(r)
	}
}

func (h Hooks) progress(done, total int) {
	if h.Progress != nil {
		h.Progress(done, total)
	}
}

// Process trains a single Network: it alternates Teach and Verify until the goal or the limit is
// reached, calling onStep (if not nil) after each step.
//
// Failures, including panics, are reported through the Result's Err.
func Process(index int, job Job, cfg Config, onStep func(Step)) (res Result) {
	res = Result{
		RunID:   uuid.New(),
		Index:   index,
		Network: job.Network,
		Teacher: job.Teacher,
	}

	start := time.Now()
	defer func() {
		res.Elapsed = time.Since(start)

		if r := recover(); r != nil {
			res.Err = errors.Errorf("Training of job %d panicked: %v", index, r)
		}
	}()

	if job.Network == nil {
		res.Err = errors.Wrapf(errors.New("Network is nil"), "Can't train job %d", index)
		return
	} else if job.Teacher == nil {
		res.Err = errors.Wrapf(errors.New("Teacher is nil"), "Can't train %q", job.Network.Name())
		return
	}

	for {
		if err := job.Teacher.Teach(job.Network); err != nil {
			res.Err = errors.Wrapf(err, "Step %d failed\n", res.Steps+1)
			return
		}

		errs, err := job.Teacher.Verify(job.Network)
		if err != nil {
			res.Err = errors.Wrapf(err, "Step %d failed\n", res.Steps+1)
			return
		}

		res.Steps++
		res.Errors = errs

		if onStep != nil {
			onStep(Step{
				RunID:   res.RunID,
				Index:   index,
				Network: job.Network.Name(),
				Teacher: job.Teacher.Name(),
				Step:    res.Steps,
				Errors:  errs,
			})
		}

		if Converged(errs, cfg.ErrorGoal) {
			return
		} else if res.Steps >= cfg.StepsLimit {
			res.ReachedLimit = true
			return
		}
	}
}

// Sequential trains each Network in order, each one to completion before the next starts. The
// returned error is only for an invalid Config; failures of single Jobs are in their Results.
func Sequential(jobs []Job, cfg Config, hooks Hooks) ([]Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	results := make([]Result, len(jobs))
	for i, j := range jobs {
		hooks.before(i, j)
		results[i] = Process(i, j, cfg, hooks.EachStep)
		hooks.after(results[i])
		hooks.progress(i+1, len(jobs))
	}

	return results, nil
}

// Concurrent trains all of the Networks at once, with at most cfg.Workers at a time. Results are
// given to hooks.AfterLearning as the Jobs finish, and returned in the order of the Jobs.
//
// A failed Job doesn't affect the others.
func Concurrent(jobs []Job, cfg Config, hooks Hooks) ([]Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	for i, j := range jobs {
		hooks.before(i, j)
	}

	results := make([]Result, len(jobs))
	done := 0
	fanOut(jobs, cfg, hooks.EachStep, func(r Result) {
		results[r.Index] = r
		done++
		hooks.after(r)
		hooks.progress(done, len(jobs))
	})

	return results, nil
}
