package report

import (
	"math"
	"sort"

	"github.com/pkg/errors"
	bp "github.com/sharnoff/backprop"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	// png, jpg and tiff output
	_ "gonum.org/v1/plot/vg/vgimg"
)

// Series is a named set of points on a chart
type Series struct {
	Name   string
	Points plotter.XYs

	// Scatter draws the points as separate glyphs instead of a line
	Scatter bool
}

// Chart describes the axes and size of a chart. The zero value is an 8x6 inch chart with linear
// axes and no labels.
type Chart struct {
	Title  string
	XLabel string
	YLabel string

	// LogY uses a logarithmic Y axis. Points with Y <= 0 are left out.
	LogY bool

	Width, Height vg.Length
}

func (c Chart) plot() *plot.Plot {
	p := plot.New()
	p.Title.Text = c.Title
	p.X.Label.Text = c.XLabel
	p.Y.Label.Text = c.YLabel
	p.Legend.Top = true

	if c.LogY {
		p.Y.Scale = plot.LogScale{}
		p.Y.Tick.Marker = plot.LogTicks{Prec: -1}
	}

	return p
}

func (c Chart) save(p *plot.Plot, path string) error {
	w, h := c.Width, c.Height
	if w == 0 {
		w = 8 * vg.Inch
	}
	if h == 0 {
		h = 6 * vg.Inch
	}

	if err := p.Save(w, h, path); err != nil {
		return errors.Wrapf(err, "Can't save chart %q\n", path)
	}

	return nil
}

// usable drops the points that can't be drawn on the chart
func (c Chart) usable(xys plotter.XYs) plotter.XYs {
	out := make(plotter.XYs, 0, len(xys))
	for _, xy := range xys {
		if math.IsNaN(xy.X) || math.IsInf(xy.X, 0) || math.IsNaN(xy.Y) || math.IsInf(xy.Y, 0) {
			continue
		} else if c.LogY && xy.Y <= 0 {
			continue
		}
		out = append(out, xy)
	}

	return out
}

// SaveLineChart draws every Series on one chart and saves it to path. The image format is given
// by the extension of path (.png, .svg, .pdf, ...).
func SaveLineChart(path string, c Chart, series ...Series) error {
	p := c.plot()

	drawn := 0
	for i, s := range series {
		xys := c.usable(s.Points)
		if len(xys) == 0 {
			continue
		}
		drawn++

		color := plotutil.Color(i)
		if s.Scatter {
			sc, err := plotter.NewScatter(xys)
			if err != nil {
				return errors.Wrapf(err, "Series %q\n", s.Name)
			}
			sc.GlyphStyle.Color = color
			sc.GlyphStyle.Radius = vg.Points(2)

			p.Add(sc)
			p.Legend.Add(s.Name, sc)
		} else {
			l, err := plotter.NewLine(xys)
			if err != nil {
				return errors.Wrapf(err, "Series %q\n", s.Name)
			}
			l.LineStyle.Color = color
			l.LineStyle.Width = vg.Points(1)

			p.Add(l)
			p.Legend.Add(s.Name, l)
		}
	}

	// an empty log axis has no positive range to draw
	if drawn == 0 && c.LogY {
		p.Y.Scale = plot.LinearScale{}
		p.Y.Tick.Marker = plot.DefaultTicks{}
	}

	return c.save(p, path)
}

// ErrorSeries turns the averaged errors of an ErrorCollector (network name -> step -> error) into
// Series ordered by name, each with its points ordered by step
func ErrorSeries(errs map[string]map[int]float64) []Series {
	names := make([]string, 0, len(errs))
	for n := range errs {
		names = append(names, n)
	}
	sort.Strings(names)

	series := make([]Series, len(names))
	for i, n := range names {
		steps := make([]int, 0, len(errs[n]))
		for s := range errs[n] {
			steps = append(steps, s)
		}
		sort.Ints(steps)

		xys := make(plotter.XYs, len(steps))
		for j, s := range steps {
			xys[j] = plotter.XY{X: float64(s), Y: errs[n][s]}
		}

		series[i] = Series{Name: n, Points: xys}
	}

	return series
}

// SaveErrorChart saves a chart of the verification error of each network over its steps
func SaveErrorChart(path, title, metric string, errs map[string]map[int]float64, logY bool) error {
	return SaveLineChart(path, Chart{Title: title, XLabel: metric, YLabel: "Error", LogY: logY}, ErrorSeries(errs)...)
}

// Bar is a single point with a symmetric error, as in a mean and its standard deviation
type Bar struct {
	X, Y, Err float64
}

// SaveErrorBars saves a chart of a line through the given points, with error bars
func SaveErrorBars(path string, c Chart, name string, bars []Bar) error {
	p := c.plot()

	if len(bars) != 0 {
		xys := make(plotter.XYs, len(bars))
		yerrs := make(plotter.YErrors, len(bars))
		for i, b := range bars {
			xys[i] = plotter.XY{X: b.X, Y: b.Y}
			yerrs[i].Low, yerrs[i].High = b.Err, b.Err
		}

		l, err := plotter.NewLine(xys)
		if err != nil {
			return errors.Wrapf(err, "Series %q\n", name)
		}
		l.LineStyle.Color = plotutil.Color(0)

		eb, err := plotter.NewYErrorBars(struct {
			plotter.XYs
			plotter.YErrors
		}{xys, yerrs})
		if err != nil {
			return errors.Wrapf(err, "Series %q\n", name)
		}

		p.Add(l, eb)
		p.Legend.Add(name, l)
	}

	return c.save(p, path)
}

// NetworkCurve samples the first output of a Network with a single input, for x from 'from' to
// 'to' (inclusive) in increments of 'step'
func NetworkCurve(net *bp.Network, from, to, step float64) (plotter.XYs, error) {
	if net.InputSize() != 1 {
		return nil, bp.SizeMismatchError{Where: "Network curve", Expected: 1, Got: net.InputSize()}
	} else if !(step > 0) {
		return nil, errors.Errorf("Step must be positive (%v)", step)
	}

	var xys plotter.XYs
	for i := 0; ; i++ {
		x := from + float64(i)*step
		if x > to+step/2 {
			break
		}

		out, err := net.Answer([]float64{x})
		if err != nil {
			return nil, err
		}
		xys = append(xys, plotter.XY{X: x, Y: out[0]})
	}

	return xys, nil
}

// DatasetPoints returns the samples of a Dataset with a single input and output as points
func DatasetPoints(d bp.Dataset) plotter.XYs {
	xys := make(plotter.XYs, 0, len(d))
	for _, s := range d {
		if len(s.Input) != 0 && len(s.Expected) != 0 {
			xys = append(xys, plotter.XY{X: s.Input[0], Y: s.Expected[0]})
		}
	}

	return xys
}
