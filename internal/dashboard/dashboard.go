package dashboard

import (
	"carviz/internal/engine"
	"carviz/internal/models"
)

// Widget ids.
const (
	ScatterX           = "scatter_x_axis"
	ScatterY           = "scatter_y_axis"
	ScatterColor       = "scatter_color_axis"
	HistBoxNumerical   = "numerical_axis_histbox"
	HistBoxCategorical = "categorical_axis_histbox"
)

// Chart output ids, in page order.
const (
	ScatterPlot   = "scatter_plot"
	HeatmapPlot   = "corr_heatmap_plot"
	HistogramPlot = "histogram_plot"
	BoxPlot       = "box_plot"
)

type Defaults struct {
	ScatterX     string
	ScatterY     string
	ScatterColor string
	Numerical    string
	Categorical  string
}

func DefaultSelection() Defaults {
	return Defaults{
		ScatterX:     "carlength",
		ScatterY:     "price",
		ScatterColor: "carbody",
		Numerical:    "price",
		Categorical:  "carbody",
	}
}

// New wires the car dashboard: five widgets over the dataset partitions
// and four charts. The session must be started with Run.
func New(store *engine.ColumnStore, title string, d Defaults) (*Session, error) {
	numerical := store.Numerical()
	categorical := store.Categorical()

	s := NewSession(title)
	for _, w := range []models.Widget{
		{ID: ScatterX, Label: "Attribute for x axis", Kind: models.Numerical, Value: d.ScatterX, Options: numerical},
		{ID: ScatterY, Label: "Attribute for y axis", Kind: models.Numerical, Value: d.ScatterY, Options: numerical},
		{ID: ScatterColor, Label: "Category for color", Kind: models.Categorical, Value: d.ScatterColor, Options: categorical},
		{ID: HistBoxNumerical, Label: "Select a numerical attribute to distribute", Kind: models.Numerical, Value: d.Numerical, Options: numerical},
		{ID: HistBoxCategorical, Label: "Select a categorical attribute to divide the data", Kind: models.Categorical, Value: d.Categorical, Options: categorical},
	} {
		if err := s.AddWidget(w); err != nil {
			return nil, err
		}
	}

	for _, b := range []Binding{
		{
			Output: ScatterPlot,
			Inputs: []string{ScatterX, ScatterY, ScatterColor},
			Update: func(v ...string) (*models.Chart, error) { return store.Scatter(v[0], v[1], v[2]) },
		},
		{
			Output: HeatmapPlot,
			Update: func(...string) (*models.Chart, error) { return store.CorrelationHeatmap() },
		},
		{
			Output: HistogramPlot,
			Inputs: []string{HistBoxNumerical, HistBoxCategorical},
			Update: func(v ...string) (*models.Chart, error) { return store.Histogram(v[0], v[1]) },
		},
		{
			// same widget pair as the histogram, x is the category
			Output: BoxPlot,
			Inputs: []string{HistBoxCategorical, HistBoxNumerical},
			Update: func(v ...string) (*models.Chart, error) { return store.BoxPlot(v[0], v[1]) },
		},
	} {
		if err := s.Bind(b); err != nil {
			return nil, err
		}
	}
	return s, nil
}
