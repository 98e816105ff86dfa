// Package report renders learning progress and results for people: console progress bars, per
// network summaries, tables and PNG charts.
package report

import (
	"fmt"
	"io"
	"math"
	"strings"
	"sync"
)

// Loader is a single-line console progress bar, redrawn in place:
//
//	[=====>          ]  31.3%
type Loader struct {
	mux      sync.Mutex
	w        io.Writer
	width    int
	progress float64
}

// NewLoader returns a Loader writing to w, with a bar 'width' characters wide
func NewLoader(w io.Writer, width int) *Loader {
	if width < 1 {
		width = 1
	}

	return &Loader{w: w, width: width}
}

// Set sets the progress as a fraction in [0, 1]; values outside are clamped
func (l *Loader) Set(progress float64) {
	l.mux.Lock()
	defer l.mux.Unlock()

	l.progress = math.Max(0, math.Min(1, progress))
}

// Update sets the progress from a count of finished tasks, and redraws the bar. It can be used
// directly as a progress hook.
func (l *Loader) Update(done, total int) {
	if total <= 0 {
		l.Set(1)
	} else {
		l.Set(float64(done) / float64(total))
	}

	l.Print()
}

func (l *Loader) String() string {
	l.mux.Lock()
	defer l.mux.Unlock()

	filled := int(math.Round(float64(l.width) * l.progress))
	return fmt.Sprintf("[%s>%s] %5.1f%%",
		strings.Repeat("=", filled), strings.Repeat(" ", l.width-filled), l.progress*100)
}

// Print redraws the bar over the current line
func (l *Loader) Print() {
	fmt.Fprint(l.w, "\r"+l.String())
}

// Close ends the line the bar was drawn on
func (l *Loader) Close() {
	fmt.Fprintln(l.w)
}
