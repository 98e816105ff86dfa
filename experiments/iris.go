package experiments

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/pkg/errors"
	bp "github.com/sharnoff/backprop"
	"github.com/sharnoff/backprop/collectors"
	"github.com/sharnoff/backprop/input"
	"github.com/sharnoff/backprop/learning"
	"github.com/sharnoff/backprop/report"
	"github.com/sharnoff/backprop/teachers"
)

var irisFiles = [][]string{{"iris.data", "iris.txt"}}

// irisFields is the number of input fields of each iris sample
const irisFields = 4

func init() {
	mustRegister(Experiment{
		Name:        "iris",
		Description: "Classification of the iris dataset with a chosen subset of its fields",
		DataFiles:   irisFiles,
		Run:         iris,
	})
}

// irisData reads the iris dataset, with the class labels as one-hot outputs
func irisData(env *Env) (bp.Dataset, error) {
	files, err := env.Files(1)
	if err != nil {
		return nil, err
	}

	return env.Parse(files[0], irisFields, len(input.IrisClasses), input.IrisTransformer(env.Config.Separator))
}

func irisNetwork(name string, inputs, hidden int) (*bp.Network, error) {
	return bp.NewBuilder().
		Name(name).
		Inputs(inputs).
		DefaultActivation(bp.Sigmoid).
		HiddenLayer(hidden, true).
		OutputLayer(len(input.IrisClasses), true)
}

// irisMask returns the configured field mask, or asks for one
func irisMask(env *Env) (input.FieldMask, error) {
	if env.Config.Mask != "" {
		return input.ParseMask(env.Config.Mask, irisFields)
	}

	m, quit, err := env.Prompter().QueryMask(irisFields)
	if err != nil {
		return nil, err
	} else if quit {
		return nil, errors.Errorf("No field mask chosen")
	}

	return m, nil
}

// levels records classification levels of Networks at some of their steps
type levels struct {
	mux    sync.Mutex
	levels map[string]map[int]float64
}

func newLevels() *levels {
	return &levels{levels: make(map[string]map[int]float64)}
}

func (l *levels) put(name string, step int, level float64) {
	l.mux.Lock()
	defer l.mux.Unlock()

	if l.levels[name] == nil {
		l.levels[name] = make(map[int]float64)
	}
	l.levels[name][step] = level
}

// last returns the level at the last recorded step
func (l *levels) last(name string) (float64, bool) {
	l.mux.Lock()
	defer l.mux.Unlock()

	last, ok := -1, false
	for s := range l.levels[name] {
		if s > last {
			last, ok = s, true
		}
	}

	return l.levels[name][last], ok
}

func iris(env *Env) error {
	const (
		goal  = 0.1
		limit = 30_000

		alpha = 0.03
		beta  = 0.5

		// classification levels are recorded at every this many steps
		every = 10
	)

	neurons := []int{1, 5, 9, 13, 17}

	if env.Config.Mode != teachers.Offline {
		env.Log.Info("iris always uses offline teachers")
	}

	data, err := irisData(env)
	if err != nil {
		return err
	}

	mask, err := irisMask(env)
	if err != nil {
		return err
	}

	if data, err = mask.Apply(data); err != nil {
		return err
	}

	splits := []struct {
		percentage int
		training   func(int) bool
	}{
		{50, func(i int) bool { return i%2 != 0 }},
		{80, func(i int) bool { return i%5 != 0 }},
	}

	var jobs []learning.Job
	for _, s := range splits {
		train, verify := data.Split(s.training)
		teacher, err := env.OfflineTeacher(alpha, beta,
			teachers.WithName(fmt.Sprintf("%d%% training data", s.percentage)),
			teachers.WithTrainingSet(train),
			teachers.WithVerificationSet(verify))
		if err != nil {
			return err
		}

		for _, n := range neurons {
			net, err := irisNetwork(fmt.Sprintf("Iris_%s_%d_%d", mask, s.percentage, n), mask.Kept(), n)
			if err != nil {
				return err
			}
			jobs = append(jobs, learning.Job{Network: net, Teacher: teacher})
		}
	}

	training, verification := newLevels(), newLevels()
	record := func(j learning.Job, step int) {
		if lt, err := collectors.ClassificationLevel(j.Network, j.Teacher.TrainingSet()); err == nil {
			training.put(j.Network.Name(), step, lt)
		}
		if lv, err := collectors.ClassificationLevel(j.Network, j.Teacher.VerificationSet()); err == nil {
			verification.put(j.Network.Name(), step, lv)
		}
	}

	out, err := env.runNetworks(networkRun{
		goal:       goal,
		limit:      limit,
		jobs:       jobs,
		concurrent: true,
		beforeLearning: func(_ int, j learning.Job) {
			record(j, 0)
		},
		eachStep: func(s learning.Step) {
			if s.Step%every == 0 {
				record(jobs[s.Index], s.Step)
			}
		},
		afterLearning: func(r learning.Result) {
			if r.Err == nil {
				record(jobs[r.Index], r.Steps)
			}
		},
	})
	if err != nil {
		return err
	}

	if out.restored {
		for i, net := range out.networks {
			record(learning.Job{Network: net, Teacher: jobs[i].Teacher}, 0)
		}
	}

	table := report.NewTable("Network", "Training %", "Verification %")
	for _, net := range out.trained() {
		lt, _ := training.last(net.Name())
		lv, _ := verification.last(net.Name())
		table.Row(net.Name(), lt, lv)
	}
	if _, err := table.WriteTo(env.Out); err != nil {
		return err
	}

	if out.restored {
		return nil
	}

	for _, s := range splits {
		prefix := fmt.Sprintf("Iris_%s_%d_", mask, s.percentage)

		series := make(map[string]map[int]float64)
		for _, set := range []struct {
			name   string
			levels *levels
		}{{"training", training}, {"verification", verification}} {
			for name, ls := range set.levels.levels {
				if strings.HasPrefix(name, prefix) {
					series[fmt.Sprintf("%s neurons (%s)", strings.TrimPrefix(name, prefix), set.name)] = ls
				}
			}
		}

		env.Chart(fmt.Sprintf("iris_%s_%d", mask, s.percentage), func(path string) error {
			ordered := report.ErrorSeries(series)
			sort.SliceStable(ordered, func(i, j int) bool {
				return neuronCount(ordered[i].Name) < neuronCount(ordered[j].Name)
			})

			return report.SaveLineChart(path, report.Chart{
				Title:  fmt.Sprintf("Training data %d%% | Fields mask: %s", s.percentage, mask),
				XLabel: jobs[0].Teacher.Metric(),
				YLabel: "Classification level [%]",
			}, ordered...)
		})
	}

	return out.failures()
}

// neuronCount reads the number at the start of a series name like "5 neurons (training)"
func neuronCount(name string) int {
	n, _ := strconv.Atoi(strings.SplitN(name, " ", 2)[0])
	return n
}
