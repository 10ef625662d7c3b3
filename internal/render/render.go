// Package render draws chart specifications as PNG images with gonum/plot.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"math"

	"carviz/internal/models"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

const dpi = 96

var ErrEmptyChart = errors.New("chart has no data")

// PNG renders chart at width x height pixels.
func PNG(chart *models.Chart, width, height int) ([]byte, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid image size %dx%d", width, height)
	}

	p := plot.New()
	p.Title.Text = chart.Title
	p.X.Label.Text = chart.XAxis
	p.Y.Label.Text = chart.YAxis
	p.Legend.Top = true

	var err error
	switch chart.Kind {
	case models.KindScatter:
		err = scatter(p, chart)
	case models.KindHistogram:
		err = histogram(p, chart)
	case models.KindHeatmap:
		err = heatmap(p, chart)
	case models.KindBox:
		err = boxes(p, chart)
	default:
		err = fmt.Errorf("unsupported chart kind %q", chart.Kind)
	}
	if err != nil {
		return nil, err
	}

	w, err := p.WriterTo(pixels(width), pixels(height), "png")
	if err != nil {
		return nil, fmt.Errorf("png writer: %w", err)
	}
	var b bytes.Buffer
	if _, err := w.WriteTo(&b); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return b.Bytes(), nil
}

func pixels(n int) vg.Length { return vg.Length(n) * vg.Inch / dpi }

func scatter(p *plot.Plot, chart *models.Chart) error {
	p.Add(plotter.NewGrid())
	drawn := 0
	for _, s := range chart.Series {
		if len(s.Points) == 0 {
			continue
		}
		xys := make(plotter.XYs, len(s.Points))
		for i, pt := range s.Points {
			xys[i].X, xys[i].Y = pt.X, pt.Y
		}
		sc, err := plotter.NewScatter(xys)
		if err != nil {
			return fmt.Errorf("scatter %s: %w", s.Name, err)
		}
		sc.GlyphStyle.Color = parseHex(s.Color)
		sc.GlyphStyle.Radius = vg.Points(3)
		sc.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(sc)
		p.Legend.Add(s.Name, sc)
		drawn++
	}
	if drawn == 0 {
		return ErrEmptyChart
	}
	return nil
}

// histogram stacks series by drawing cumulative totals from the top down,
// so each band shows only its own share.
func histogram(p *plot.Plot, chart *models.Chart) error {
	nbins := len(chart.Edges) - 1
	if nbins < 1 || len(chart.Series) == 0 {
		return ErrEmptyChart
	}

	cum := make([][]float64, len(chart.Series))
	running := make([]float64, nbins)
	for i, s := range chart.Series {
		if len(s.Counts) != nbins {
			return fmt.Errorf("series %s: %d counts for %d bins", s.Name, len(s.Counts), nbins)
		}
		for b, c := range s.Counts {
			running[b] += float64(c)
		}
		cum[i] = append([]float64(nil), running...)
	}

	bars := make([]*plotter.Histogram, len(chart.Series))
	for i := len(chart.Series) - 1; i >= 0; i-- {
		bins := make([]plotter.HistogramBin, nbins)
		for b := range bins {
			bins[b] = plotter.HistogramBin{Min: chart.Edges[b], Max: chart.Edges[b+1], Weight: cum[i][b]}
		}
		h := &plotter.Histogram{
			Bins:      bins,
			Width:     chart.Edges[1] - chart.Edges[0],
			FillColor: parseHex(chart.Series[i].Color),
			LineStyle: plotter.DefaultLineStyle,
		}
		p.Add(h)
		bars[i] = h
	}
	for i, s := range chart.Series {
		p.Legend.Add(s.Name, bars[i])
	}
	return nil
}

// corrGrid adapts a correlation matrix to plotter.GridXYZ. Min and Max pin
// the color scale to [-1, 1].
type corrGrid struct{ z [][]models.Coefficient }

func (g corrGrid) Dims() (c, r int)   { return len(g.z), len(g.z) }
func (g corrGrid) Z(c, r int) float64 { return float64(g.z[r][c]) }
func (g corrGrid) X(c int) float64    { return float64(c) }
func (g corrGrid) Y(r int) float64    { return float64(r) }
func (g corrGrid) Min() float64       { return -1 }
func (g corrGrid) Max() float64       { return 1 }

func heatmap(p *plot.Plot, chart *models.Chart) error {
	hm := chart.Heatmap
	if hm == nil || len(hm.Labels) == 0 {
		return ErrEmptyChart
	}

	cm := moreland.SmoothBlueRed()
	cm.SetMin(-1)
	cm.SetMax(1)

	h := plotter.NewHeatMap(corrGrid{z: hm.Z}, cm.Palette(255))
	h.NaN = color.Gray{Y: 200}
	p.Add(h)
	p.NominalX(hm.Labels...)
	p.NominalY(hm.Labels...)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	return nil
}

func boxes(p *plot.Plot, chart *models.Chart) error {
	if len(chart.Boxes) == 0 {
		return ErrEmptyChart
	}
	p.Add(plotter.NewGrid())

	names := make([]string, len(chart.Boxes))
	for i, b := range chart.Boxes {
		bp, err := plotter.NewBoxPlot(vg.Points(20), float64(i), plotter.Values(b.Values))
		if err != nil {
			return fmt.Errorf("box %s: %w", b.Name, err)
		}
		useStats(bp, b)
		bp.FillColor = parseHex(b.Color)
		p.Add(bp)
		names[i] = b.Name
	}
	p.NominalX(names...)
	return nil
}

// useStats replaces the quartiles gonum derives on its own with the ones
// carried by the chart, so the image and the JSON agree.
func useStats(bp *plotter.BoxPlot, b models.Box) {
	bp.Median = b.Median
	bp.Quartile1 = b.Q1
	bp.Quartile3 = b.Q3
	bp.AdjLow = b.LowerWhisker
	bp.AdjHigh = b.UpperWhisker
	bp.Min = b.Min
	bp.Max = b.Max
	bp.Outside = bp.Outside[:0]
	for i, v := range bp.Values {
		if v < b.LowerFence || v > b.UpperFence {
			bp.Outside = append(bp.Outside, i)
		}
	}
}

// parseHex reads "#RRGGBB"; anything else falls back to black.
func parseHex(s string) color.Color {
	var r, g, b uint8
	if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &r, &g, &b); err != nil {
		return color.Black
	}
	return color.RGBA{R: r, G: g, B: b, A: 255}
}
