package experiments

import (
	"fmt"

	bp "github.com/sharnoff/backprop"
	"github.com/sharnoff/backprop/collectors"
	"github.com/sharnoff/backprop/learning"
	"github.com/sharnoff/backprop/report"
	"github.com/sharnoff/backprop/teachers"
	"gonum.org/v1/plot/plotter"
)

func init() {
	mustRegister(Experiment{
		Name:        "exercise3",
		Description: "A 1-2-1 sigmoid network fitted to a small set of points",
		DataFiles:   [][]string{{"in.txt"}},
		Run:         exercise3,
	})
}

func exercise3(env *Env) error {
	const (
		goal  = 0.001
		limit = 100_000
	)

	alpha, beta := 0.3, 0.2
	if env.Config.Mode == teachers.Offline {
		alpha, beta = 0.9, 0.9
	}

	files, err := env.Files(1)
	if err != nil {
		return err
	}

	data, err := env.Parse(files[0], 1, 1, nil)
	if err != nil {
		return err
	}

	teacher, err := env.Teacher(alpha, beta, teachers.WithData(data))
	if err != nil {
		return err
	}

	net, err := bp.NewBuilder().
		Name("exercise3").
		DefaultActivation(bp.Sigmoid).
		Inputs(1).
		HiddenLayer(2, true).
		OutputLayer(1, true)
	if err != nil {
		return err
	}

	errs := collectors.NewErrorCollector()
	var before, after plotter.XYs

	curve := func(net *bp.Network) plotter.XYs {
		xys, err := report.NetworkCurve(net, -1, 3, 0.1)
		if err != nil {
			env.Log.Warn("can't sample network", "network", net.Name(), "err", err)
		}
		return xys
	}

	out, err := env.runNetworks(networkRun{
		goal:  goal,
		limit: limit,
		jobs:  []learning.Job{{Network: net, Teacher: teacher}},
		beforeLearning: func(_ int, j learning.Job) {
			before = curve(j.Network)
		},
		eachStep: func(s learning.Step) {
			errs.Collect(s.Network, s.Errors, s.Step)
		},
	})
	if err != nil {
		return err
	}

	net = out.networks[0]
	after = curve(net)

	fmt.Fprintln(env.Out, "Network answers:")
	for _, s := range data {
		ans, err := net.Answer(s.Input)
		if err != nil {
			return err
		}
		fmt.Fprintf(env.Out, "\t%v -> %.4f (expected %v)\n", s.Input[0], ans[0], s.Expected[0])
	}

	mode := env.Config.Mode.String()
	if !out.restored {
		env.Chart("error_"+mode, func(path string) error {
			return report.SaveErrorChart(path,
				fmt.Sprintf("Quality for %s. Momentum = %v Alpha = %v", mode, beta, alpha),
				teacher.Metric(), errs.AveragePlotableErrors(), false)
		})
	}

	env.Chart("result_"+mode, func(path string) error {
		series := []report.Series{{Name: "After learning", Points: after}}
		if before != nil {
			series = append(series, report.Series{Name: "Before learning", Points: before})
		}
		series = append(series, report.Series{Name: "Training points", Points: report.DatasetPoints(data), Scatter: true})

		return report.SaveLineChart(path, report.Chart{
			Title:  fmt.Sprintf("Result for %s. Momentum = %v Alpha = %v", mode, beta, alpha),
			XLabel: "x",
			YLabel: "Network answer",
		}, series...)
	})

	return out.failures()
}
