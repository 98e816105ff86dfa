package experiments

import (
	"fmt"
	"math"
	"strings"

	bp "github.com/sharnoff/backprop"
	"github.com/sharnoff/backprop/collectors"
	"github.com/sharnoff/backprop/learning"
	"github.com/sharnoff/backprop/report"
	"github.com/sharnoff/backprop/teachers"
)

func init() {
	mustRegister(Experiment{
		Name:        "transformation",
		Description: "4-k-4 networks (k = 1, 2, 3), with and without bias, learning to reproduce their input",
		DataFiles:   [][]string{{"trans_in.txt", "transformation.txt"}},
		Run:         transformation,
	})

	mustRegister(Experiment{
		Name:        "transformation-hidden",
		Description: "4-2-4 networks learning to reproduce their input, showing the hidden layer encoding",
		DataFiles:   [][]string{{"trans_in.txt", "transformation.txt"}},
		Run:         transformationHidden,
	})
}

// transformationData reads the single data file of 4 inputs and 4 outputs used by the
// transformation experiments, and makes a teacher verifying on the training data
func transformationData(env *Env, alpha, beta float64) (bp.Dataset, teachers.Teacher, error) {
	files, err := env.Files(1)
	if err != nil {
		return nil, nil, err
	}

	data, err := env.Parse(files[0], 4, 4, nil)
	if err != nil {
		return nil, nil, err
	}

	t, err := env.Teacher(alpha, beta, teachers.WithData(data))
	return data, t, err
}

func transformationNetwork(name string, hidden int, bias bool) (*bp.Network, error) {
	return bp.NewBuilder().
		Name(name).
		DefaultActivation(bp.Sigmoid).
		Inputs(4).
		HiddenLayer(hidden, bias).
		OutputLayer(4, bias)
}

func round(xs []float64, places int) []float64 {
	p := math.Pow(10, float64(places))

	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = math.Round(x*p) / p
	}
	return out
}

func transformation(env *Env) error {
	const (
		goal  = 0.000001
		limit = 50_000
		name  = "Transformation"
	)

	data, teacher, err := transformationData(env, 0.1, 0)
	if err != nil {
		return err
	}

	var jobs []learning.Job
	for _, bias := range []bool{true, false} {
		kind := "Bias"
		if !bias {
			kind = "NoBias"
		}

		for k := 1; k <= 3; k++ {
			net, err := transformationNetwork(fmt.Sprintf("%s_%s_%d", name, kind, k), k, bias)
			if err != nil {
				return err
			}
			jobs = append(jobs, learning.Job{Network: net, Teacher: teacher})
		}
	}

	errs := collectors.NewErrorCollector()
	out, err := env.runNetworks(networkRun{
		goal:       goal,
		limit:      limit,
		jobs:       jobs,
		concurrent: true,
		eachStep: func(s learning.Step) {
			errs.Collect(s.Network, s.Errors, s.Step)
		},
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(env.Out, "Networks answers:")
	for _, net := range out.trained() {
		fmt.Fprintf(env.Out, "\t%s:\n", net.Name())

		for _, s := range data {
			ans, err := net.Answer(s.Input)
			if err != nil {
				return err
			}
			fmt.Fprintf(env.Out, "\t\t%v -> %v\n", s.Input, round(ans, 3))
		}
	}

	if !out.restored {
		all := errs.AveragePlotableErrors()

		for _, kind := range []string{"Bias", "NoBias"} {
			prefix := name + "_" + kind + "_"

			byNeurons := make(map[string]map[int]float64)
			for n, e := range all {
				if strings.HasPrefix(n, prefix) {
					byNeurons[strings.TrimPrefix(n, prefix)+" neurons"] = e
				}
			}

			env.Chart("transformation_"+strings.ToLower(kind), func(path string) error {
				return report.SaveErrorChart(path, kind, teacher.Metric(), byNeurons, true)
			})
		}
	}

	return out.failures()
}

func transformationHidden(env *Env) error {
	const (
		goal  = 0.07
		limit = 1_000_000
	)

	data, teacher, err := transformationData(env, 0.1, 0.7)
	if err != nil {
		return err
	}

	var jobs []learning.Job
	for _, c := range []struct {
		name string
		bias bool
	}{
		{"HiddenTransformationBias", true},
		{"HiddenTransformationNoBias", false},
	} {
		net, err := transformationNetwork(c.name, 2, c.bias)
		if err != nil {
			return err
		}
		jobs = append(jobs, learning.Job{Network: net, Teacher: teacher})
	}

	out, err := env.runNetworks(networkRun{
		goal:  goal,
		limit: limit,
		jobs:  jobs,
	})
	if err != nil {
		return err
	}

	for _, net := range out.trained() {
		fmt.Fprintln(env.Out, net.Name())

		for _, s := range data {
			ans, err := net.Answer(s.Input)
			if err != nil {
				return err
			}

			// the hidden layer still holds the outputs from this input
			hidden := net.HiddenLayers()[0].Values()

			fmt.Fprintf(env.Out, "Output layer: %v\n", round(ans, 3))
			fmt.Fprintf(env.Out, "Hidden layer: %v\n\n", round(hidden, 3))
		}
	}

	return out.failures()
}
