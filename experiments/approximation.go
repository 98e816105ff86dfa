package experiments

import (
	"fmt"
	"strings"

	bp "github.com/sharnoff/backprop"
	"github.com/sharnoff/backprop/collectors"
	"github.com/sharnoff/backprop/learning"
	"github.com/sharnoff/backprop/report"
	"github.com/sharnoff/backprop/teachers"
)

var approximationFiles = [][]string{{"approx_1.txt"}, {"approx_2.txt"}, {"approx_test.txt"}}

func init() {
	mustRegister(Experiment{
		Name:        "approximation",
		Description: "1-k-1 networks approximating a function from two training sets, verified on a third",
		DataFiles:   approximationFiles,
		Run:         approximation,
	})
}

// approximationData reads the two training sets and the verification set of the approximation
// experiments, given in that order
func approximationData(env *Env) (training [2]bp.Dataset, verification bp.Dataset, err error) {
	files, err := env.Files(3)
	if err != nil {
		return training, nil, unfulfilled(env.Name, "requires training data (2 files) and verification data (1 file)")
	}

	for i := range training {
		if training[i], err = env.Parse(files[i], 1, 1, nil); err != nil {
			return training, nil, err
		}
	}

	verification, err = env.Parse(files[2], 1, 1, nil)
	return training, verification, err
}

func approximationNetwork(name string, hidden int) (*bp.Network, error) {
	return bp.NewBuilder().
		Name(name).
		Inputs(1).
		HiddenLayer(hidden, true, bp.Sigmoid).
		OutputLayer(1, true, bp.Identity)
}

func approximation(env *Env) error {
	const (
		goal  = 0.1
		limit = 100_000
	)

	var (
		// networks whose curves are compared
		resultNeurons = []int{1, 5, 9, 14, 17}
		// networks whose errors are followed during training
		errorNeurons = []int{1, 5, 19}
	)

	alpha, beta := 0.0005, 0.5
	if env.Config.Mode == teachers.Offline {
		alpha, beta = 0.01, 0.9
	}

	training, verification, err := approximationData(env)
	if err != nil {
		return err
	}

	var jobs []learning.Job
	followed := make(map[string]bool)

	for i, set := range training {
		teacher, err := env.Teacher(alpha, beta,
			teachers.WithName(fmt.Sprintf("File %d", i+1)),
			teachers.WithTrainingSet(set),
			teachers.WithVerificationSet(verification))
		if err != nil {
			return err
		}

		add := func(kind string, neurons int) error {
			net, err := approximationNetwork(fmt.Sprintf("Approximation_%s_%d_%d", kind, i+1, neurons), neurons)
			if err != nil {
				return err
			}

			jobs = append(jobs, learning.Job{Network: net, Teacher: teacher})
			return nil
		}

		for _, n := range resultNeurons {
			if err := add("result", n); err != nil {
				return err
			}
		}
		for _, n := range errorNeurons {
			if err := add("error", n); err != nil {
				return err
			}
			followed[jobs[len(jobs)-1].Network.Name()] = true
		}
	}

	errs := collectors.NewErrorCollector()
	out, err := env.runNetworks(networkRun{
		goal:       goal,
		limit:      limit,
		jobs:       jobs,
		concurrent: true,
		eachStep: func(s learning.Step) {
			if !followed[s.Network] {
				return
			}

			errs.Collect(s.Network+" verification", s.Errors, s.Step)

			// called from the goroutine training the network, so it can be used here
			j := jobs[s.Index]
			if te, err := j.Teacher.VerifyTraining(j.Network); err == nil {
				errs.Collect(s.Network+" training", te, s.Step)
			}
		},
	})
	if err != nil {
		return err
	}

	table := report.NewTable("Network", "Training error", "Verification error")
	for i, net := range out.networks {
		if !out.restored && out.results[i].Err != nil {
			continue
		}

		teacher := jobs[i].Teacher
		te, err := teacher.VerifyTraining(net)
		if err != nil {
			return err
		}
		ve, err := teacher.Verify(net)
		if err != nil {
			return err
		}

		table.Row(net.Name(), te[0], ve[0])
	}
	if _, err := table.WriteTo(env.Out); err != nil {
		return err
	}

	for i, set := range training {
		file := i + 1
		prefix := fmt.Sprintf("Approximation_result_%d_", file)

		env.Chart(fmt.Sprintf("approximation_result_%d", file), func(path string) error {
			var series []report.Series
			for _, net := range out.trained() {
				if !strings.HasPrefix(net.Name(), prefix) {
					continue
				}

				xys, err := report.NetworkCurve(net, -3, 4, 0.1)
				if err != nil {
					return err
				}
				series = append(series, report.Series{Name: strings.TrimPrefix(net.Name(), prefix) + " neurons", Points: xys})
			}

			series = append(series,
				report.Series{Name: "Training data", Points: report.DatasetPoints(set), Scatter: true},
				report.Series{Name: "Verification data", Points: report.DatasetPoints(verification), Scatter: true})

			return report.SaveLineChart(path, report.Chart{
				Title:  fmt.Sprintf("Approximation | File %d | Learning coefficient: %v | Momentum: %v", file, alpha, beta),
				XLabel: "x",
				YLabel: "y",
			}, series...)
		})

		if out.restored {
			continue
		}

		errPrefix := fmt.Sprintf("Approximation_error_%d_", file)
		byNeurons := make(map[string]map[int]float64)
		for n, e := range errs.AveragePlotableErrors() {
			if strings.HasPrefix(n, errPrefix) {
				byNeurons[strings.TrimPrefix(n, errPrefix)] = e
			}
		}

		env.Chart(fmt.Sprintf("approximation_errors_%d", file), func(path string) error {
			return report.SaveErrorChart(path, fmt.Sprintf("Errors for file %d", file), jobs[0].Teacher.Metric(), byNeurons, true)
		})
	}

	return out.failures()
}
