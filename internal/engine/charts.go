package engine

import (
	"fmt"
	"sort"

	"carviz/internal/models"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Qualitative palette, assigned to categories in dictionary order.
var defaultColors = []string{
	"#636EFA", "#EF553B", "#00CC96", "#AB63FA", "#FFA15A",
	"#19D3F3", "#FF6692", "#B6E880", "#FF97FF", "#FECB52",
}

func colorFor(i int) string { return defaultColors[i%len(defaultColors)] }

// Scatter plots one point per record, one series per colorBy category.
func (cs *ColumnStore) Scatter(x, y, colorBy string) (*models.Chart, error) {
	xs, err := cs.numbers(x)
	if err != nil {
		return nil, fmt.Errorf("scatter x: %w", err)
	}
	ys, err := cs.numbers(y)
	if err != nil {
		return nil, fmt.Errorf("scatter y: %w", err)
	}
	cat, err := cs.category(colorBy)
	if err != nil {
		return nil, fmt.Errorf("scatter color: %w", err)
	}

	series := make([]models.Series, len(cat.Dict))
	for i, name := range cat.Dict {
		series[i] = models.Series{Name: name, Color: colorFor(i), Points: []models.Point{}}
	}
	for row, id := range cat.IDs {
		series[id].Points = append(series[id].Points, models.Point{X: xs[row], Y: ys[row]})
	}

	return &models.Chart{
		Kind:    models.KindScatter,
		Title:   fmt.Sprintf("%s vs %s", y, x),
		XAxis:   x,
		YAxis:   y,
		ColorBy: colorBy,
		Series:  series,
	}, nil
}

// Histogram bins x over its full range and stacks one series per
// colorBy category. All series share the same edges.
func (cs *ColumnStore) Histogram(x, colorBy string) (*models.Chart, error) {
	xs, err := cs.numbers(x)
	if err != nil {
		return nil, fmt.Errorf("histogram x: %w", err)
	}
	cat, err := cs.category(colorBy)
	if err != nil {
		return nil, fmt.Errorf("histogram color: %w", err)
	}

	edges := binEdges(xs, sturges(len(xs)))
	groups := cs.groupValues(cat, xs)

	series := make([]models.Series, len(groups))
	for i, vals := range groups {
		sort.Float64s(vals)
		series[i] = models.Series{
			Name:   cat.Dict[i],
			Color:  colorFor(i),
			Counts: countBins(vals, edges),
		}
	}

	return &models.Chart{
		Kind:    models.KindHistogram,
		Title:   fmt.Sprintf("Distribution of %s by %s", x, colorBy),
		XAxis:   x,
		YAxis:   "count",
		ColorBy: colorBy,
		Edges:   edges,
		Series:  series,
	}, nil
}

// CorrelationHeatmap returns the Pearson correlation matrix of every
// numerical column. Coefficients that are undefined (zero variance) are NaN;
// the diagonal is always 1.
func (cs *ColumnStore) CorrelationHeatmap() (*models.Chart, error) {
	labels := cs.Numerical()
	k := len(labels)
	z := make([][]models.Coefficient, k)
	for i := range z {
		z[i] = make([]models.Coefficient, k)
	}

	if k > 0 {
		data := mat.NewDense(cs.rows, k, nil)
		for j, name := range labels {
			data.SetCol(j, cs.Numbers[name])
		}
		var corr mat.SymDense
		stat.CorrelationMatrix(&corr, data, nil)

		for i := 0; i < k; i++ {
			for j := 0; j < k; j++ {
				z[i][j] = models.Coefficient(corr.At(i, j))
			}
			z[i][i] = 1
		}
	}

	return &models.Chart{
		Kind:    models.KindHeatmap,
		Title:   "Correlation between numerical attributes",
		Heatmap: &models.Heatmap{Labels: labels, Z: z},
	}, nil
}

// BoxPlot groups the numerical column y by the categorical column x.
// Each box takes the color of its own category.
func (cs *ColumnStore) BoxPlot(x, y string) (*models.Chart, error) {
	cat, err := cs.category(x)
	if err != nil {
		return nil, fmt.Errorf("box x: %w", err)
	}
	ys, err := cs.numbers(y)
	if err != nil {
		return nil, fmt.Errorf("box y: %w", err)
	}

	groups := cs.groupValues(cat, ys)
	boxes := make([]models.Box, len(groups))
	for i, vals := range groups {
		s := summarize(vals)
		boxes[i] = models.Box{
			Name:         cat.Dict[i],
			Color:        colorFor(i),
			Count:        len(vals),
			Min:          s.min,
			LowerWhisker: s.lowerWhisker,
			Q1:           s.q1,
			Median:       s.median,
			Q3:           s.q3,
			UpperWhisker: s.upperWhisker,
			Max:          s.max,
			LowerFence:   s.lowerFence,
			UpperFence:   s.upperFence,
			Outliers:     s.outliers,
			Values:       vals,
		}
	}

	return &models.Chart{
		Kind:    models.KindBox,
		Title:   fmt.Sprintf("%s by %s", y, x),
		XAxis:   x,
		YAxis:   y,
		ColorBy: x,
		Boxes:   boxes,
	}, nil
}

// groupValues splits values by category id, preserving row order.
func (cs *ColumnStore) groupValues(cat *CategoryColumn, values []float64) [][]float64 {
	groups := make([][]float64, len(cat.Dict))
	for row, id := range cat.IDs {
		groups[id] = append(groups[id], values[row])
	}
	return groups
}
