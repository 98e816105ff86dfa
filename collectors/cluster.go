package collectors

import (
	"math"
	"sort"
	"sync"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"
)

// MeanData summarizes the final errors of every member of a cluster
type MeanData struct {
	// SquaredError is the mean over members of their mean final error, and SquaredErrorStdDev its
	// population standard deviation
	SquaredError       float64
	SquaredErrorStdDev float64

	// RootSquareError is the mean over members of the square root of their mean final error
	RootSquareError float64

	// Iterations is the mean number of steps, rounded
	Iterations int

	Members int
}

type member struct {
	errors []float64
	steps  int
}

// ClusterErrorCollector records the final errors and step counts of the members of clusters,
// keyed by the name of the cluster's teacher
type ClusterErrorCollector struct {
	mux     sync.Mutex
	members map[string][]member
}

func NewClusterErrorCollector() *ClusterErrorCollector {
	return &ClusterErrorCollector{members: make(map[string][]member)}
}

// Put records the final errors of one member of the cluster with the given key
func (c *ClusterErrorCollector) Put(key string, errs []float64, steps int) {
	cp := make([]float64, len(errs))
	copy(cp, errs)

	c.mux.Lock()
	c.members[key] = append(c.members[key], member{cp, steps})
	c.mux.Unlock()
}

// MeanData reduces the members recorded under the key
func (c *ClusterErrorCollector) MeanData(key string) (MeanData, error) {
	c.mux.Lock()
	ms := c.members[key]
	c.mux.Unlock()

	if len(ms) == 0 {
		return MeanData{}, errors.Errorf("No errors collected for %q", key)
	}

	means := make([]float64, len(ms))
	roots := make([]float64, len(ms))
	steps := make([]float64, len(ms))
	for i, m := range ms {
		means[i] = stat.Mean(m.errors, nil)
		roots[i] = math.Sqrt(means[i])
		steps[i] = float64(m.steps)
	}

	d := MeanData{
		RootSquareError: stat.Mean(roots, nil),
		Iterations:      int(math.Round(stat.Mean(steps, nil))),
		Members:         len(ms),
	}
	d.SquaredError, d.SquaredErrorStdDev = MeanStdDev(means)

	return d, nil
}

// Keys returns every key with recorded members, sorted
func (c *ClusterErrorCollector) Keys() []string {
	c.mux.Lock()
	defer c.mux.Unlock()

	keys := make([]string, 0, len(c.members))
	for k := range c.members {
		keys = append(keys, k)
	}

	sort.Strings(keys)
	return keys
}
