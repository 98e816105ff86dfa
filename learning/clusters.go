package learning

import (
	"github.com/pkg/errors"
	bp "github.com/sharnoff/backprop"
	"github.com/sharnoff/backprop/collectors"
	"github.com/sharnoff/backprop/teachers"
)

// Cluster is a group of structurally identical Networks, differing only in their initial weights,
// that are all trained by the same Teacher
type Cluster struct {
	Name     string
	Teacher  teachers.Teacher
	Networks []*bp.Network
}

// Summary gives statistics over the successfully trained members of a Cluster
type Summary struct {
	// MeanError and StdDevError are the mean and population standard deviation of each member's
	// mean final verification error
	MeanError   float64
	StdDevError float64

	MeanSteps float64

	// Trained is the number of members that were trained without error; Failures the number that
	// were not
	Trained  int
	Failures int

	// ReachedLimit counts the trained members that stopped at the steps limit
	ReachedLimit int
}

// Summarize computes the Summary of a set of Results. Results with a non-nil Err are counted as
// failures and otherwise ignored.
func Summarize(results []Result) Summary {
	var s Summary
	var errs, steps []float64

	for _, r := range results {
		if r.Err != nil {
			s.Failures++
			continue
		}

		s.Trained++
		if r.ReachedLimit {
			s.ReachedLimit++
		}

		errs = append(errs, r.MeanError())
		steps = append(steps, float64(r.Steps))
	}

	s.MeanError, s.StdDevError = collectors.MeanStdDev(errs)
	s.MeanSteps, _ = collectors.MeanStdDev(steps)
	return s
}

// ClusterResult is the outcome of training every member of a Cluster
type ClusterResult struct {
	Index   int
	Cluster Cluster

	// Results are in the order of Cluster.Networks
	Results []Result
	Summary Summary
}

// ClusterHooks are called during a Clusters run, with the same guarantees as Hooks. Any of them
// may be nil.
type ClusterHooks struct {
	BeforeCluster func(int, Cluster)

	EachStep func(Step)

	// AfterMember is called for each trained Network, in completion order
	AfterMember func(cluster int, r Result)

	// AfterCluster is called as soon as the last member of a Cluster finishes
	AfterCluster func(ClusterResult)

	Progress func(done, total int)
}

// Clusters trains every member of every Cluster concurrently, with at most cfg.Workers at a time.
// The returned ClusterResults are in the order of the Clusters.
//
// A failed member is counted in its Cluster's Summary and does not stop the rest of the run.
func Clusters(clusters []Cluster, cfg Config, hooks ClusterHooks) ([]ClusterResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var jobs []Job
	// owner[i] is the cluster of jobs[i]; member[i] its index within that cluster
	var owner, member []int

	out := make([]ClusterResult, len(clusters))
	remaining := make([]int, len(clusters))

	for ci, c := range clusters {
		if c.Teacher == nil {
			return nil, errors.Errorf("Cluster %d (%q) has no teacher", ci, c.Name)
		}

		if hooks.BeforeCluster != nil {
			hooks.BeforeCluster(ci, c)
		}

		out[ci] = ClusterResult{
			Index:   ci,
			Cluster: c,
			Results: make([]Result, len(c.Networks)),
		}
		remaining[ci] = len(c.Networks)

		for mi, net := range c.Networks {
			jobs = append(jobs, Job{net, c.Teacher})
			owner = append(owner, ci)
			member = append(member, mi)
		}
	}

	finish := func(ci int) {
		out[ci].Summary = Summarize(out[ci].Results)
		if hooks.AfterCluster != nil {
			hooks.AfterCluster(out[ci])
		}
	}

	// empty clusters are finished before anything runs
	for ci := range clusters {
		if remaining[ci] == 0 {
			finish(ci)
		}
	}

	done := 0
	fanOut(jobs, cfg, hooks.EachStep, func(r Result) {
		ci, mi := owner[r.Index], member[r.Index]
		out[ci].Results[mi] = r

		if hooks.AfterMember != nil {
			hooks.AfterMember(ci, r)
		}

		remaining[ci]--
		if remaining[ci] == 0 {
			finish(ci)
		}

		done++
		if hooks.Progress != nil {
			hooks.Progress(done, len(jobs))
		}
	})

	return out, nil
}
