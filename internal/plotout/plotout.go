// internal/plotout/plotout.go
package plotout

import (
	"fmt"
	"image/color"
	"image/png"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"renovrisk/pkg/api"
)

// Canvas size of every chart.
var (
	Width  = vg.Points(720)
	Height = vg.Points(420)
)

var (
	fill = color.RGBA{R: 70, G: 110, B: 170, A: 255}
	mark = color.RGBA{R: 200, G: 60, B: 50, A: 255}
)

// WriteCharts renders histogram and S-curve PNGs for cost and schedule into
// dir (created if missing) and returns the written paths in order.
func WriteCharts(dir string, doc api.SimulationV1) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	charts := []struct {
		name string
		p    func() (*plot.Plot, error)
	}{
		{"cost_histogram.png", func() (*plot.Plot, error) { return Histogram("Cost delta", "cost", doc.Cost) }},
		{"cost_s_curve.png", func() (*plot.Plot, error) { return SCurve("Cost delta S-curve", "cost", doc.Cost) }},
		{"schedule_histogram.png", func() (*plot.Plot, error) { return Histogram("Schedule delta", "days", doc.Schedule) }},
		{"schedule_s_curve.png", func() (*plot.Plot, error) { return SCurve("Schedule delta S-curve", "days", doc.Schedule) }},
	}
	var paths []string
	for _, c := range charts {
		p, err := c.p()
		if err != nil {
			return paths, fmt.Errorf("%s: %w", c.name, err)
		}
		fn := filepath.Join(dir, c.name)
		if err := savePNG(p, fn); err != nil {
			return paths, fmt.Errorf("%s: %w", c.name, err)
		}
		paths = append(paths, fn)
	}
	return paths, nil
}

// Histogram draws the precomputed bins of d.
func Histogram(title, unit string, d api.DistributionV1) (*plot.Plot, error) {
	if len(d.Histogram) == 0 {
		return nil, fmt.Errorf("no samples to plot")
	}
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = unit
	p.Y.Label.Text = "trials"

	h := &plotter.Histogram{
		Bins:      make([]plotter.HistogramBin, len(d.Histogram)),
		FillColor: fill,
		LineStyle: plotter.DefaultLineStyle,
	}
	for i, b := range d.Histogram {
		upper := b.Upper
		if upper == b.Lower {
			upper = b.Lower + 1 // point mass: give the bar some width
		}
		h.Bins[i] = plotter.HistogramBin{Min: b.Lower, Max: upper, Weight: float64(b.Count)}
	}
	h.Width = h.Bins[0].Max - h.Bins[0].Min
	p.Add(h)
	return p, nil
}

// SCurve draws the empirical CDF of d with its requested percentiles marked.
func SCurve(title, unit string, d api.DistributionV1) (*plot.Plot, error) {
	if len(d.Curve) < 2 {
		return nil, fmt.Errorf("no samples to plot")
	}
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = unit
	p.Y.Label.Text = "cumulative probability (%)"
	p.Y.Min, p.Y.Max = 0, 100
	p.Add(plotter.NewGrid())

	pts := make(plotter.XYs, len(d.Curve))
	for i, c := range d.Curve {
		pts[i].X = c.Value
		pts[i].Y = c.Probability * 100
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, fmt.Errorf("failed to create line plotter: %w", err)
	}
	line.Color = fill
	p.Add(line)

	if len(d.Percentiles) > 0 {
		marks := make(plotter.XYs, len(d.Percentiles))
		for i, pv := range d.Percentiles {
			marks[i].X = pv.Value
			marks[i].Y = pv.P
		}
		sc, err := plotter.NewScatter(marks)
		if err != nil {
			return nil, fmt.Errorf("failed to create percentile markers: %w", err)
		}
		sc.GlyphStyle.Color = mark
		sc.GlyphStyle.Radius = vg.Points(3)
		p.Add(sc)
	}
	return p, nil
}

func savePNG(p *plot.Plot, fn string) error {
	canvas := vgimg.New(Width, Height)
	p.Draw(draw.New(canvas))

	fh, err := os.Create(fn)
	if err != nil {
		return err
	}
	if err := png.Encode(fh, canvas.Image()); err != nil {
		_ = fh.Close()
		return err
	}
	return fh.Close()
}
