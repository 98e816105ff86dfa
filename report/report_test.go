package report

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	bp "github.com/sharnoff/backprop"
	"github.com/sharnoff/backprop/initializers"
	"github.com/sharnoff/backprop/learning"
	"gonum.org/v1/plot/plotter"
)

func TestLoader(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoader(&buf, 10)

	table := []struct {
		done, total int
		expected    string
	}{
		{0, 4, "[>          ]   0.0%"},
		{1, 4, "[===>       ]  25.0%"},
		{4, 4, "[==========>] 100.0%"},
		{0, 0, "[==========>] 100.0%"},
	}

	for _, c := range table {
		l.Update(c.done, c.total)
		if s := l.String(); s != c.expected {
			t.Errorf("%d/%d: got %q, expected %q", c.done, c.total, s, c.expected)
		}
	}

	l.Close()
	if !strings.HasPrefix(buf.String(), "\r[>") || !strings.HasSuffix(buf.String(), "\n") {
		t.Errorf("unexpected output %q", buf.String())
	}

	l.Set(7)
	if !strings.HasSuffix(l.String(), "100.0%") {
		t.Errorf("progress not clamped: %q", l.String())
	}
}

func network(t *testing.T, name string, init bp.Initializer) *bp.Network {
	net, err := bp.NewBuilder().Name(name).Inputs(1).Initializer(init).OutputLayer(1, true, bp.Identity)
	if err != nil {
		t.Fatal(err)
	}
	return net
}

func TestNetworkLog(t *testing.T) {
	net := network(t, "1-1", initializers.Constant(1))

	var buf bytes.Buffer
	NetworkLog(&buf, learning.Result{
		Network:      net,
		Errors:       []float64{0.5, 0.25},
		Steps:        100,
		Elapsed:      1500 * time.Millisecond,
		ReachedLimit: true,
	})

	expected := "Network '1-1' learning time: 1500 ms\n" +
		"\tSteps: 100\n" +
		"\tError: [0.5 0.25]\n" +
		"\tAvgError: 0.375\n" +
		"\t[Warning] Network reached steps limit!\n"
	if buf.String() != expected {
		t.Errorf("got:\n%s\nexpected:\n%s", buf.String(), expected)
	}

	buf.Reset()
	NetworkLog(&buf, learning.Result{Network: net, Steps: 3, Err: errors.New("boom")})
	if !strings.Contains(buf.String(), "failed after 3 steps: boom") {
		t.Errorf("unexpected failure log %q", buf.String())
	}
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgress(&buf, "Epochs")

	p.Step(learning.Step{Step: 9, Errors: []float64{0.125}})
	p.Step(learning.Step{Step: 10, Errors: []float64{0.5}})
	p.Close()

	expected := "\rError: [0.125] | Epochs: 9" + "\rError: [0.5] | Epochs: 10 " + "\n"
	if buf.String() != expected {
		t.Errorf("got %q, expected %q", buf.String(), expected)
	}
}

func TestTable(t *testing.T) {
	tbl := NewTable("Neurons", "Error")
	tbl.Row(1, 0.5)
	tbl.Row(10, 1.0/3)

	var buf bytes.Buffer
	if _, err := tbl.WriteTo(&buf); err != nil {
		t.Fatal(err)
	}

	expected := "Neurons  Error\n" +
		"-------  -----\n" +
		"1        0.5\n" +
		"10       0.333333\n"
	if buf.String() != expected {
		t.Errorf("got:\n%s\nexpected:\n%s", buf.String(), expected)
	}
}

func TestErrorSeries(t *testing.T) {
	series := ErrorSeries(map[string]map[int]float64{
		"b": {2: 0.5, 1: 1},
		"a": {1: 3},
	})

	if len(series) != 2 || series[0].Name != "a" || series[1].Name != "b" {
		t.Fatalf("unexpected series %+v", series)
	}

	if pts := series[1].Points; pts[0] != (plotter.XY{X: 1, Y: 1}) || pts[1] != (plotter.XY{X: 2, Y: 0.5}) {
		t.Errorf("points not ordered by step: %v", pts)
	}
}

func TestCharts(t *testing.T) {
	dir := t.TempDir()

	errPath := filepath.Join(dir, "errors.png")
	err := SaveErrorChart(errPath, "Learning", "Epochs", map[string]map[int]float64{
		"1-2-1": {1: 1, 2: 0.1, 3: 0.01},
		"1-5-1": {1: 0.5, 2: 0, 3: math.NaN()},
	}, true)
	if err != nil {
		t.Fatal(err)
	}

	barsPath := filepath.Join(dir, "bars.png")
	err = SaveErrorBars(barsPath, Chart{Title: "Clusters"}, "mean error", []Bar{{1, 0.5, 0.1}, {2, 0.25, 0.05}})
	if err != nil {
		t.Fatal(err)
	}

	emptyPath := filepath.Join(dir, "empty.png")
	err = SaveErrorChart(emptyPath, "Nothing", "Epochs", map[string]map[int]float64{"1-1-1": {1: 0}}, true)
	if err != nil {
		t.Fatal(err)
	}

	for _, p := range []string{errPath, barsPath, emptyPath} {
		if info, err := os.Stat(p); err != nil || info.Size() == 0 {
			t.Errorf("%s not written: %v", p, err)
		}
	}

	if err := SaveLineChart(filepath.Join(dir, "chart.unknown"), Chart{}); err == nil {
		t.Error("expected error for unknown image format")
	}
}

func TestNetworkCurve(t *testing.T) {
	net := network(t, "1-1", initializers.Values(2, 1))

	xys, err := NetworkCurve(net, 0, 1, 0.25)
	if err != nil {
		t.Fatal(err)
	}

	if len(xys) != 5 {
		t.Fatalf("expected 5 points, got %d", len(xys))
	}
	for _, xy := range xys {
		if math.Abs(xy.Y-(2*xy.X+1)) > 1e-12 {
			t.Errorf("f(%v) = %v", xy.X, xy.Y)
		}
	}

	pts := DatasetPoints(bp.Dataset{{Input: []float64{1}, Expected: []float64{3}}})
	if len(pts) != 1 || pts[0] != (plotter.XY{X: 1, Y: 3}) {
		t.Errorf("unexpected points %v", pts)
	}
}
