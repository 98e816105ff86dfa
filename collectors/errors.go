package collectors

import (
	"sort"
	"sync"

	"gonum.org/v1/gonum/stat"
)

// Point is a single step and the mean error at it
type Point struct {
	Step  int
	Error float64
}

// ErrorCollector records the error vector of each step of training, for every Network by name
type ErrorCollector struct {
	mux    sync.Mutex
	errors map[string]map[int][]float64
}

func NewErrorCollector() *ErrorCollector {
	return &ErrorCollector{errors: make(map[string]map[int][]float64)}
}

// Collect stores the errors of a Network at a step, replacing any stored for the same step
func (c *ErrorCollector) Collect(network string, errs []float64, step int) {
	cp := make([]float64, len(errs))
	copy(cp, errs)

	c.mux.Lock()
	defer c.mux.Unlock()

	m, ok := c.errors[network]
	if !ok {
		m = make(map[int][]float64)
		c.errors[network] = m
	}

	m[step] = cp
}

// AveragePlotableErrors returns, for every Network, the mean of the collected error vector at
// each step
func (c *ErrorCollector) AveragePlotableErrors() map[string]map[int]float64 {
	c.mux.Lock()
	defer c.mux.Unlock()

	result := make(map[string]map[int]float64, len(c.errors))
	for name, steps := range c.errors {
		avg := make(map[int]float64, len(steps))
		for s, errs := range steps {
			avg[s] = stat.Mean(errs, nil)
		}

		result[name] = avg
	}

	return result
}

// Series returns the averaged errors of one Network, sorted by step
func (c *ErrorCollector) Series(network string) []Point {
	avg := c.AveragePlotableErrors()[network]

	ps := make([]Point, 0, len(avg))
	for s, e := range avg {
		ps = append(ps, Point{s, e})
	}

	sort.Slice(ps, func(i, j int) bool { return ps[i].Step < ps[j].Step })
	return ps
}

// Names returns the names of all Networks with collected errors, sorted
func (c *ErrorCollector) Names() []string {
	c.mux.Lock()
	defer c.mux.Unlock()

	names := make([]string, 0, len(c.errors))
	for n := range c.errors {
		names = append(names, n)
	}

	sort.Strings(names)
	return names
}
