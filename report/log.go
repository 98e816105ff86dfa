package report

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/sharnoff/backprop/learning"
)

// NetworkLog writes the summary of a single learning run:
//
//	Network '1-5-1' learning time: 1200 ms
//		Steps: 4000
//		Error: [0.0998]
//		AvgError: 0.0998
func NetworkLog(w io.Writer, r learning.Result) {
	name := "<nil>"
	if r.Network != nil {
		name = r.Network.Name()
	}

	if r.Err != nil {
		fmt.Fprintf(w, "Network '%s' failed after %d steps: %v\n", name, r.Steps, r.Err)
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Network '%s' learning time: %d ms\n", name, r.Elapsed.Milliseconds())
	fmt.Fprintf(&b, "\tSteps: %d\n", r.Steps)
	fmt.Fprintf(&b, "\tError: %v\n", r.Errors)
	fmt.Fprintf(&b, "\tAvgError: %v\n", r.MeanError())
	if r.ReachedLimit {
		b.WriteString("\t[Warning] Network reached steps limit!\n")
	}

	io.WriteString(w, b.String())
}

// Progress prints the latest step of a learning run in place, as "Error: [...] | Epochs: 12".
// It is meant for sequential runs; with many networks learning at once the lines would mix.
type Progress struct {
	mux    sync.Mutex
	w      io.Writer
	metric string
	last   int
}

func NewProgress(w io.Writer, metric string) *Progress {
	return &Progress{w: w, metric: metric}
}

// Step is suitable as a learning.Hooks.EachStep function
func (p *Progress) Step(s learning.Step) {
	p.mux.Lock()
	defer p.mux.Unlock()

	line := fmt.Sprintf("Error: %v | %s: %d", s.Errors, p.metric, s.Step)
	pad := ""
	if len(line) < p.last {
		pad = strings.Repeat(" ", p.last-len(line))
	}
	p.last = len(line)

	fmt.Fprint(p.w, "\r"+line+pad)
}

// Close ends the line the progress was drawn on
func (p *Progress) Close() {
	p.mux.Lock()
	defer p.mux.Unlock()

	if p.last != 0 {
		fmt.Fprintln(p.w)
		p.last = 0
	}
}
