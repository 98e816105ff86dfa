package experiments

import (
	"fmt"
	"sync"

	bp "github.com/sharnoff/backprop"
	"github.com/sharnoff/backprop/collectors"
	"github.com/sharnoff/backprop/learning"
	"github.com/sharnoff/backprop/report"
	"github.com/sharnoff/backprop/teachers"
)

const defaultClusterSize = 100

func init() {
	mustRegister(Experiment{
		Name:        "transformation100",
		Description: "Clusters of 4-2-4 transformation networks for each pair of alpha and beta in {0.2, 0.4, 0.6}",
		DataFiles:   [][]string{{"trans_in.txt", "transformation.txt"}},
		Run:         transformation100,
	})

	mustRegister(Experiment{
		Name:        "approximation100",
		Description: "Clusters of 1-k-1 approximation networks for k = 1..20, for both training sets",
		DataFiles:   approximationFiles,
		Run:         approximation100,
	})

	mustRegister(Experiment{
		Name:        "iris100",
		Description: "Clusters of 4-k-3 iris classification networks for k = 1..20",
		DataFiles:   irisFiles,
		Run:         iris100,
	})
}

// cluster builds a Cluster of n Networks made by build, given the index of each member
func cluster(name string, t teachers.Teacher, n int, build func(i int) (*bp.Network, error)) (learning.Cluster, error) {
	c := learning.Cluster{Name: name, Teacher: t, Networks: make([]*bp.Network, n)}
	for i := range c.Networks {
		var err error
		if c.Networks[i], err = build(i + 1); err != nil {
			return c, err
		}
	}

	return c, nil
}

// members returns the Networks of a cluster that were trained without error
func members(cr learning.ClusterResult) []*bp.Network {
	var nets []*bp.Network
	for i, r := range cr.Results {
		if r.Err == nil {
			nets = append(nets, cr.Cluster.Networks[i])
		}
	}
	return nets
}

// spread is a mean value over the members of a cluster, with its standard deviation
type spread struct {
	mean, std float64
}

func (s spread) String() string {
	return fmt.Sprintf("%.4g ± %.4g", s.mean, s.std)
}

// memberSpread measures every trained member of a cluster
func memberSpread(cr learning.ClusterResult, measure func(*bp.Network) (float64, error)) (spread, error) {
	var xs []float64
	for _, net := range members(cr) {
		x, err := measure(net)
		if err != nil {
			return spread{}, err
		}
		xs = append(xs, x)
	}

	var s spread
	s.mean, s.std = collectors.MeanStdDev(xs)
	return s, nil
}

// spreads are computed as clusters finish, from the caller of learning.Clusters
type spreads struct {
	mux sync.Mutex
	m   map[string]spread
	err error
}

func newSpreads() *spreads {
	return &spreads{m: make(map[string]spread)}
}

func (s *spreads) measure(cr learning.ClusterResult, key string, f func(*bp.Network) (float64, error)) {
	sp, err := memberSpread(cr, f)

	s.mux.Lock()
	defer s.mux.Unlock()

	if err != nil && s.err == nil {
		s.err = err
	}
	s.m[key] = sp
}

func (s *spreads) get(key string) spread {
	s.mux.Lock()
	defer s.mux.Unlock()
	return s.m[key]
}

func meanOf(t teachers.Teacher, verify func(teachers.Teacher, *bp.Network) ([]float64, error)) func(*bp.Network) (float64, error) {
	return func(net *bp.Network) (float64, error) {
		errs, err := verify(t, net)
		if err != nil {
			return 0, err
		}
		m, _ := collectors.MeanStdDev(errs)
		return m, nil
	}
}

func transformation100(env *Env) error {
	const (
		goal  = 0.001
		limit = 1_000_000
	)

	coefficients := []float64{0.2, 0.4, 0.6}
	size := env.ClusterSize(defaultClusterSize)

	files, err := env.Files(1)
	if err != nil {
		return err
	}
	data, err := env.Parse(files[0], 4, 4, nil)
	if err != nil {
		return err
	}

	var clusters []learning.Cluster
	for _, alpha := range coefficients {
		for _, beta := range coefficients {
			t, err := env.Teacher(alpha, beta, teachers.WithData(data))
			if err != nil {
				return err
			}

			c, err := cluster(fmt.Sprintf("Transformation_%v_%v", alpha, beta), t, size, func(i int) (*bp.Network, error) {
				return transformationNetwork(fmt.Sprintf("Transformation_%v_%v_%d", alpha, beta, i), 2, true)
			})
			if err != nil {
				return err
			}
			clusters = append(clusters, c)
		}
	}

	results, coll, err := env.runClusters(clusterRun{goal: goal, limit: limit, clusters: clusters})
	if err != nil {
		return err
	}

	table := report.NewTable("Alpha", "Beta", "Error", "Std. dev.", "Root error", "Iterations", "Trained", "At limit")
	for _, cr := range results {
		md, err := coll.MeanData(cr.Cluster.Name)
		if err != nil {
			env.Log.Warn("no members trained", "cluster", cr.Cluster.Name)
			continue
		}

		t := cr.Cluster.Teacher
		table.Row(t.Alpha(), t.Beta(), md.SquaredError, md.SquaredErrorStdDev, md.RootSquareError, md.Iterations,
			cr.Summary.Trained, cr.Summary.ReachedLimit)
	}
	_, err = table.WriteTo(env.Out)
	return err
}

func approximation100(env *Env) error {
	const (
		goal  = 0.001
		limit = 50_000

		alpha = 0.01
		beta  = 0.8

		maxNeurons = 20
	)

	size := env.ClusterSize(defaultClusterSize)

	training, verification, err := approximationData(env)
	if err != nil {
		return err
	}

	var clusters []learning.Cluster
	for f, set := range training {
		for n := 1; n <= maxNeurons; n++ {
			name := fmt.Sprintf("File_%d_%d", f+1, n)
			t, err := env.OfflineTeacher(alpha, beta,
				teachers.WithName(name),
				teachers.WithTrainingSet(set),
				teachers.WithVerificationSet(verification))
			if err != nil {
				return err
			}

			c, err := cluster(name, t, size, func(i int) (*bp.Network, error) {
				return approximationNetwork(fmt.Sprintf("Approximation_file_%d_%d_%d", f+1, n, i), n)
			})
			if err != nil {
				return err
			}
			clusters = append(clusters, c)
		}
	}

	trainingErrors := newSpreads()
	results, coll, err := env.runClusters(clusterRun{
		goal:     goal,
		limit:    limit,
		clusters: clusters,
		afterCluster: func(cr learning.ClusterResult) {
			trainingErrors.measure(cr, cr.Cluster.Name, meanOf(cr.Cluster.Teacher, teachers.Teacher.VerifyTraining))
		},
	})
	if err != nil {
		return err
	}
	if trainingErrors.err != nil {
		return trainingErrors.err
	}

	table := report.NewTable("Cluster", "Training error", "Verification error", "Iterations")
	bars := make([][]report.Bar, len(training))

	for i, cr := range results {
		md, err := coll.MeanData(cr.Cluster.Name)
		if err != nil {
			env.Log.Warn("no members trained", "cluster", cr.Cluster.Name)
			continue
		}

		verified := spread{md.SquaredError, md.SquaredErrorStdDev}
		table.Row(cr.Cluster.Name, trainingErrors.get(cr.Cluster.Name), verified, md.Iterations)

		f, n := i/maxNeurons, i%maxNeurons+1
		bars[f] = append(bars[f], report.Bar{X: float64(n), Y: md.SquaredError, Err: md.SquaredErrorStdDev})
	}
	if _, err := table.WriteTo(env.Out); err != nil {
		return err
	}

	for f := range bars {
		env.Chart(fmt.Sprintf("approximation100_file_%d", f+1), func(path string) error {
			return report.SaveErrorBars(path, report.Chart{
				Title:  fmt.Sprintf("File %d | %d networks per cluster", f+1, size),
				XLabel: "Hidden neurons",
				YLabel: "Verification error",
			}, "mean error", bars[f])
		})
	}

	return nil
}

func iris100(env *Env) error {
	const (
		goal  = 0.3
		limit = 20_000

		alpha = 0.01
		beta  = 0.9

		maxNeurons = 20
	)

	size := env.ClusterSize(defaultClusterSize)

	data, err := irisData(env)
	if err != nil {
		return err
	}

	train, verify := data.Split(func(i int) bool { return i%2 == 0 })

	var clusters []learning.Cluster
	for n := 1; n <= maxNeurons; n++ {
		name := fmt.Sprintf("neurons_%d", n)
		t, err := env.OfflineTeacher(alpha, beta,
			teachers.WithName(name),
			teachers.WithTrainingSet(train),
			teachers.WithVerificationSet(verify))
		if err != nil {
			return err
		}

		c, err := cluster(name, t, size, func(i int) (*bp.Network, error) {
			return irisNetwork(fmt.Sprintf("Iris_Progress_%d_%d", n, i), irisFields, n)
		})
		if err != nil {
			return err
		}
		clusters = append(clusters, c)
	}

	levels := newSpreads()
	results, _, err := env.runClusters(clusterRun{
		goal:     goal,
		limit:    limit,
		clusters: clusters,
		afterCluster: func(cr learning.ClusterResult) {
			t := cr.Cluster.Teacher
			levels.measure(cr, cr.Cluster.Name+" training", func(net *bp.Network) (float64, error) {
				return collectors.ClassificationLevel(net, t.TrainingSet())
			})
			levels.measure(cr, cr.Cluster.Name+" verification", func(net *bp.Network) (float64, error) {
				return collectors.ClassificationLevel(net, t.VerificationSet())
			})
		},
	})
	if err != nil {
		return err
	}
	if levels.err != nil {
		return levels.err
	}

	table := report.NewTable("Cluster", "Training %", "Verification %", "Mean steps", "Trained")
	var bars []report.Bar
	for i, cr := range results {
		if cr.Summary.Trained == 0 {
			env.Log.Warn("no members trained", "cluster", cr.Cluster.Name)
			continue
		}

		v := levels.get(cr.Cluster.Name + " verification")
		table.Row(cr.Cluster.Name, levels.get(cr.Cluster.Name+" training"), v, cr.Summary.MeanSteps, cr.Summary.Trained)
		bars = append(bars, report.Bar{X: float64(i + 1), Y: v.mean, Err: v.std})
	}
	if _, err := table.WriteTo(env.Out); err != nil {
		return err
	}

	env.Chart("iris100", func(path string) error {
		return report.SaveErrorBars(path, report.Chart{
			Title:  fmt.Sprintf("Iris | %d networks per cluster", size),
			XLabel: "Hidden neurons",
			YLabel: "Verification classification level [%]",
		}, "mean level", bars)
	})

	return nil
}
