package experiments

import (
	"time"

	"github.com/sharnoff/backprop/collectors"
	"github.com/sharnoff/backprop/learning"
	"github.com/sharnoff/backprop/report"
)

// clusterRun is the training of many clusters of Networks. Members are never frozen.
type clusterRun struct {
	goal     float64
	limit    int
	clusters []learning.Cluster

	// afterCluster is called as soon as every member of a cluster is trained. It must not write
	// to the output, which shows the progress bar.
	afterCluster func(learning.ClusterResult)
}

// runClusters trains every cluster, collecting the final errors of the members that didn't fail
// under the name of their cluster
func (env *Env) runClusters(r clusterRun) ([]learning.ClusterResult, *collectors.ClusterErrorCollector, error) {
	if env.Config.Freeze || env.Config.Unfreeze {
		env.Log.Info("freezing is not done for cluster runs")
	}

	coll := collectors.NewClusterErrorCollector()
	loader := report.NewLoader(env.Out, 50)

	hooks := learning.ClusterHooks{
		AfterMember: func(ci int, res learning.Result) {
			if res.Err != nil {
				env.logResult(res)
				return
			}

			coll.Put(r.clusters[ci].Name, res.Errors, res.Steps)
		},
		AfterCluster: func(cr learning.ClusterResult) {
			env.Log.Debug("cluster finished",
				"cluster", cr.Cluster.Name,
				"trained", cr.Summary.Trained,
				"failures", cr.Summary.Failures,
				"reached_limit", cr.Summary.ReachedLimit,
				"mean_error", cr.Summary.MeanError)

			if r.afterCluster != nil {
				r.afterCluster(cr)
			}
		},
		Progress: loader.Update,
	}

	start := time.Now()
	results, err := learning.Clusters(r.clusters, env.learningConfig(r.goal, r.limit), hooks)
	loader.Close()
	if err != nil {
		return nil, nil, err
	}

	env.Log.Info("clusters trained", "clusters", len(results), "elapsed", time.Since(start))

	for _, cr := range results {
		if cr.Summary.Failures != 0 {
			env.Log.Warn("cluster has failed members", "cluster", cr.Cluster.Name, "failures", cr.Summary.Failures)
		}
	}

	return results, coll, nil
}
