package report

import (
	"fmt"
	"image/color"
	"io"

	"github.com/goccy/go-json"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/dmerty/ds-help-utils/pkg/metrics"
)

// WriteJSON writes v as indented JSON followed by a newline.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// series picks one metric out of a report.
type series struct {
	name  string
	color color.RGBA
	value func(metrics.Report) float64
}

var curveSeries = []series{
	{"Precision@K", color.RGBA{B: 255, A: 255}, func(r metrics.Report) float64 { return r.Precision }},
	{"Recall@K", color.RGBA{R: 255, A: 255}, func(r metrics.Report) float64 { return r.Recall }},
	{"AP@K", color.RGBA{G: 160, A: 255}, func(r metrics.Report) float64 { return r.AveragePrecision }},
	{"nDCG@K", color.RGBA{R: 160, B: 160, A: 255}, func(r metrics.Report) float64 { return r.NDCG }},
}

// PlotCurve saves the bounded metrics of a per-K curve to filename. The
// format follows the file extension (png, svg, pdf, ...).
func PlotCurve(curve []metrics.Report, filename string) error {
	if len(curve) == 0 {
		return fmt.Errorf("plot curve: no points")
	}

	p := plot.New()
	p.Title.Text = "Ranking metrics by K"
	p.X.Label.Text = "K"
	p.Y.Label.Text = "Score"
	p.Y.Min, p.Y.Max = 0, 1
	p.Legend.Top = true

	for _, s := range curveSeries {
		pts := make(plotter.XYs, len(curve))
		for i, r := range curve {
			pts[i].X = float64(r.K)
			pts[i].Y = s.value(r)
		}
		l, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("plot %s: %w", s.name, err)
		}
		l.Color = s.color
		l.LineStyle.Width = vg.Points(2)
		p.Add(l)
		p.Legend.Add(s.name, l)
	}

	if err := p.Save(6*vg.Inch, 4*vg.Inch, filename); err != nil {
		return fmt.Errorf("save plot: %w", err)
	}
	return nil
}
