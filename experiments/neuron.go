package experiments

import (
	"fmt"

	bp "github.com/sharnoff/backprop"
	"github.com/sharnoff/backprop/report"
	"github.com/sharnoff/backprop/teachers"
	"gonum.org/v1/plot/plotter"
)

func init() {
	mustRegister(Experiment{
		Name:        "neuron",
		Description: "A single linear neuron fitted to the exercise3 points, the baseline for the 1-2-1 network",
		DataFiles:   [][]string{{"in.txt"}},
		Run:         neuron,
	})
}

func neuron(env *Env) error {
	const (
		goal  = 0.001
		limit = 10_000
		alpha = 0.1
	)

	files, err := env.Files(1)
	if err != nil {
		return err
	}

	data, err := env.Parse(files[0], 1, 1, nil)
	if err != nil {
		return err
	}

	inputs := make([][]float64, len(data))
	expected := make([]float64, len(data))
	for i, s := range data {
		inputs[i], expected[i] = s.Input, s.Expected[0]
	}

	n, err := bp.NewNeuron(1, bp.Identity, true, bp.DefaultInitializer())
	if err != nil {
		return err
	}

	teacher, err := teachers.NewSingleNeuron(alpha)
	if err != nil {
		return err
	}

	steps, limitSteps := 0, env.StepsLimit(limit)
	errs := make(map[int]float64)

	e, err := teacher.Verify(n, inputs, expected)
	if err != nil {
		return err
	}

	for e >= goal && steps < limitSteps {
		if err := teacher.Teach(n, inputs, expected); err != nil {
			return err
		}
		steps++

		if e, err = teacher.Verify(n, inputs, expected); err != nil {
			return err
		}
		errs[steps] = e
	}

	fmt.Fprintf(env.Out, "Neuron learned y = %.4f x + %.4f\n", n.Weights[0], n.Bias)
	fmt.Fprintf(env.Out, "\tIterations: %d\n", steps)
	fmt.Fprintf(env.Out, "\tError: %v\n", e)
	if e >= goal {
		fmt.Fprintln(env.Out, "\t[Warning] Neuron reached steps limit!")
		env.Log.Warn("step limit reached", "steps", steps, "error", e)
	}

	env.Chart("neuron_error", func(path string) error {
		return report.SaveErrorChart(path, fmt.Sprintf("Single neuron | Alpha = %v", alpha), "Iterations",
			map[string]map[int]float64{"neuron": errs}, true)
	})

	env.Chart("neuron_result", func(path string) error {
		var line plotter.XYs
		for x := -1.0; x <= 3; x += 0.5 {
			out, err := n.Activate([]float64{x})
			if err != nil {
				return err
			}
			line = append(line, plotter.XY{X: x, Y: out.Activation})
		}

		return report.SaveLineChart(path, report.Chart{Title: "Single neuron", XLabel: "x", YLabel: "Neuron answer"},
			report.Series{Name: "Neuron", Points: line},
			report.Series{Name: "Training points", Points: report.DatasetPoints(data), Scatter: true})
	})

	return nil
}
