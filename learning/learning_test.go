package learning

import (
	"math"
	"sync"
	"testing"

	"github.com/google/uuid"
	bp "github.com/sharnoff/backprop"
	"github.com/sharnoff/backprop/initializers"
	"github.com/sharnoff/backprop/teachers"
)

// doubling is learnable by a single identity neuron without bias
var doubling = bp.Dataset{
	{Input: []float64{0.5}, Expected: []float64{1}},
	{Input: []float64{1}, Expected: []float64{2}},
	{Input: []float64{1.5}, Expected: []float64{3}},
	{Input: []float64{2}, Expected: []float64{4}},
}

func linear(t *testing.T, name string) *bp.Network {
	net, err := bp.NewBuilder().Name(name).Inputs(1).OutputLayer(1, false, bp.Identity)
	if err != nil {
		t.Fatal(err)
	}

	return net
}

func teacher(t *testing.T, mode teachers.Mode, data bp.Dataset) teachers.Teacher {
	tc, err := teachers.New(mode, 0.1, 0, teachers.WithData(data))
	if err != nil {
		t.Fatal(err)
	}

	return tc
}

func TestConfigValidate(t *testing.T) {
	bad := []Config{
		{ErrorGoal: 0, StepsLimit: 10},
		{ErrorGoal: math.NaN(), StepsLimit: 10},
		{ErrorGoal: 0.1, StepsLimit: 0},
		{ErrorGoal: 0.1, StepsLimit: 10, Workers: -1},
	}

	for _, c := range bad {
		if c.Validate() == nil {
			t.Errorf("config %+v should be invalid", c)
		}
	}

	if err := (Config{ErrorGoal: 0.1, StepsLimit: 1}).Validate(); err != nil {
		t.Error(err)
	}
}

func TestProcessConverges(t *testing.T) {
	cfg := Config{ErrorGoal: 0.01, StepsLimit: 10000}

	for _, mode := range []teachers.Mode{teachers.Online, teachers.Offline} {
		res := Process(0, Job{linear(t, "double"), teacher(t, mode, doubling)}, cfg, nil)

		if res.Err != nil {
			t.Fatalf("%v: %v", mode, res.Err)
		} else if res.ReachedLimit || res.Steps >= cfg.StepsLimit {
			t.Fatalf("%v: did not converge in %d steps (errors %v)", mode, res.Steps, res.Errors)
		} else if !Converged(res.Errors, cfg.ErrorGoal) {
			t.Fatalf("%v: stopped without converging: %v", mode, res.Errors)
		}
	}
}

func TestProcessReachesLimit(t *testing.T) {
	// the weight is stuck at 0 with this data, so the goal is never reached
	stuck := bp.Dataset{{Input: []float64{0}, Expected: []float64{1}}}
	net, err := bp.NewBuilder().Name("stuck").Inputs(1).Initializer(initializers.Constant(0)).OutputLayer(1, false, bp.Identity)
	if err != nil {
		t.Fatal(err)
	}

	var steps []int
	res := Process(0, Job{net, teacher(t, teachers.Offline, stuck)}, Config{ErrorGoal: 0.01, StepsLimit: 7}, func(s Step) {
		steps = append(steps, s.Step)
	})

	if res.Err != nil {
		t.Fatal(res.Err)
	}
	if !res.ReachedLimit || res.Steps != 7 {
		t.Fatalf("reached limit %v after %d steps", res.ReachedLimit, res.Steps)
	}
	if len(steps) != 7 || steps[0] != 1 || steps[6] != 7 {
		t.Fatalf("step events: %v", steps)
	}
	if res.Errors[0] != 0.5 {
		t.Fatalf("final error %v, want 0.5", res.Errors[0])
	}
}

func TestProcessRecoversPanic(t *testing.T) {
	panicking := &bp.Activation{
		Name:       "panicking",
		Function:   func(float64) float64 { panic("boom") },
		Derivative: func(bp.Out) float64 { return 1 },
	}

	net, err := bp.NewBuilder().Name("panics").Inputs(1).OutputLayer(1, false, panicking)
	if err != nil {
		t.Fatal(err)
	}

	res := Process(3, Job{net, teacher(t, teachers.Online, doubling)}, Config{ErrorGoal: 0.1, StepsLimit: 10}, nil)
	if res.Err == nil {
		t.Fatal("expected error from panicking job")
	}
	if res.Index != 3 {
		t.Fatalf("index = %d", res.Index)
	}
}

func TestSequentialOrder(t *testing.T) {
	var jobs []Job
	for _, name := range []string{"a", "b", "c"} {
		jobs = append(jobs, Job{linear(t, name), teacher(t, teachers.Offline, doubling)})
	}

	var before, after []string
	results, err := Sequential(jobs, Config{ErrorGoal: 0.01, StepsLimit: 10000}, Hooks{
		BeforeLearning: func(i int, j Job) { before = append(before, j.Network.Name()) },
		AfterLearning:  func(r Result) { after = append(after, r.Network.Name()) },
	})
	if err != nil {
		t.Fatal(err)
	}

	for i, name := range []string{"a", "b", "c"} {
		if before[i] != name || after[i] != name || results[i].Network.Name() != name {
			t.Fatalf("out of order: before %v, after %v", before, after)
		}
	}
}

func TestConcurrentIsolatesFailures(t *testing.T) {
	wide := bp.Dataset{{Input: []float64{1, 2}, Expected: []float64{1}}}

	jobs := []Job{
		{linear(t, "ok-1"), teacher(t, teachers.Online, doubling)},
		{linear(t, "bad"), teacher(t, teachers.Online, wide)},
		{linear(t, "ok-2"), teacher(t, teachers.Offline, doubling)},
		{linear(t, "no-teacher"), nil},
	}

	var mux sync.Mutex
	stepsByRun := map[uuid.UUID]int{}

	var progress []int
	var after int
	results, err := Concurrent(jobs, Config{ErrorGoal: 0.01, StepsLimit: 10000, Workers: 2}, Hooks{
		EachStep: func(s Step) {
			mux.Lock()
			stepsByRun[s.RunID]++
			mux.Unlock()
		},
		AfterLearning: func(Result) { after++ },
		Progress: func(done, total int) {
			if total != len(jobs) {
				t.Errorf("total = %d", total)
			}
			progress = append(progress, done)
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	if after != len(jobs) || len(progress) != len(jobs) || progress[len(progress)-1] != len(jobs) {
		t.Fatalf("after called %d times, progress %v", after, progress)
	}

	for i, r := range results {
		if r.Index != i || r.Network != jobs[i].Network {
			t.Fatalf("result %d is for job %d", i, r.Index)
		}
	}

	for _, i := range []int{0, 2} {
		r := results[i]
		if r.Err != nil || !Converged(r.Errors, 0.01) {
			t.Errorf("job %d: err %v, errors %v", i, r.Err, r.Errors)
		}
		if stepsByRun[r.RunID] != r.Steps {
			t.Errorf("job %d: %d step events for %d steps", i, stepsByRun[r.RunID], r.Steps)
		}
	}

	for _, i := range []int{1, 3} {
		if results[i].Err == nil {
			t.Errorf("job %d should have failed", i)
		}
	}
}

func TestClusters(t *testing.T) {
	cluster := func(name string, tc teachers.Teacher, n int) Cluster {
		c := Cluster{Name: name, Teacher: tc}
		for i := 0; i < n; i++ {
			c.Networks = append(c.Networks, linear(t, name))
		}
		return c
	}

	empty, err := teachers.New(teachers.Offline, 0.1, 0)
	if err != nil {
		t.Fatal(err)
	}

	clusters := []Cluster{
		cluster("good", teacher(t, teachers.Offline, doubling), 4),
		cluster("broken", empty, 3),
		cluster("none", teacher(t, teachers.Online, doubling), 0),
	}

	var mux sync.Mutex
	finished := map[string]int{}
	members := 0

	results, err := Clusters(clusters, Config{ErrorGoal: 0.01, StepsLimit: 10000}, ClusterHooks{
		AfterMember: func(int, Result) { members++ },
		AfterCluster: func(cr ClusterResult) {
			mux.Lock()
			finished[cr.Cluster.Name]++
			mux.Unlock()
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	if members != 7 {
		t.Errorf("AfterMember called %d times", members)
	}
	for _, name := range []string{"good", "broken", "none"} {
		if finished[name] != 1 {
			t.Errorf("cluster %q finished %d times", name, finished[name])
		}
	}

	good := results[0].Summary
	if good.Trained != 4 || good.Failures != 0 || !(good.MeanError < 0.01) || good.MeanSteps < 1 {
		t.Errorf("good cluster summary: %+v", good)
	}

	broken := results[1].Summary
	if broken.Trained != 0 || broken.Failures != 3 || !math.IsNaN(broken.MeanError) {
		t.Errorf("broken cluster summary: %+v", broken)
	}

	if len(results[2].Results) != 0 {
		t.Errorf("empty cluster has results")
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize([]Result{
		{Errors: []float64{1, 1}, Steps: 10},
		{Errors: []float64{2}, Steps: 20, ReachedLimit: true},
		{Errors: []float64{3, 3, 3}, Steps: 30},
		{Err: errTest},
	})

	if s.Trained != 3 || s.Failures != 1 || s.ReachedLimit != 1 {
		t.Fatalf("counts: %+v", s)
	}
	if math.Abs(s.MeanError-2) > 1e-12 || math.Abs(s.StdDevError-math.Sqrt(2.0/3)) > 1e-12 {
		t.Fatalf("mean %v, std %v", s.MeanError, s.StdDevError)
	}
	if s.MeanSteps != 20 {
		t.Fatalf("mean steps %v", s.MeanSteps)
	}
}

var errTest = bp.SizeMismatchError{Where: "test"}
