package models

import (
	"encoding/json"
	"math"
	"strconv"
)

type ChartKind string

const (
	KindScatter   ChartKind = "scatter"
	KindHistogram ChartKind = "histogram"
	KindHeatmap   ChartKind = "heatmap"
	KindBox       ChartKind = "box"
)

// Chart is a render-ready chart specification. Exactly one payload
// (Series, Edges+Series, Heatmap or Boxes) is populated based on Kind.
type Chart struct {
	ID      string    `json:"id"`
	Kind    ChartKind `json:"kind"`
	Title   string    `json:"title"`
	XAxis   string    `json:"xAxis,omitempty"`
	YAxis   string    `json:"yAxis,omitempty"`
	ColorBy string    `json:"colorBy,omitempty"`

	Series  []Series  `json:"series,omitempty"`
	Edges   []float64 `json:"edges,omitempty"`
	Heatmap *Heatmap  `json:"heatmap,omitempty"`
	Boxes   []Box     `json:"boxes,omitempty"`
}

// Series is one colored group. Scatter charts fill Points,
// histograms fill Counts (one per bin).
type Series struct {
	Name   string  `json:"name"`
	Color  string  `json:"color"`
	Points []Point `json:"points,omitempty"`
	Counts []int   `json:"counts,omitempty"`
}

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Heatmap struct {
	Labels []string        `json:"labels"`
	Z      [][]Coefficient `json:"z"`
}

// Coefficient encodes NaN as JSON null.
type Coefficient float64

func (c Coefficient) MarshalJSON() ([]byte, error) {
	f := float64(c)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, f, 'g', -1, 64), nil
}

func (c *Coefficient) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*c = Coefficient(math.NaN())
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*c = Coefficient(f)
	return nil
}

// Box summarizes one category of a box plot.
//
// Min and Max are the group extremes, outliers included. The whiskers end
// at the most extreme values inside the fences.
type Box struct {
	Name         string    `json:"name"`
	Color        string    `json:"color"`
	Count        int       `json:"count"`
	Min          float64   `json:"min"`
	LowerWhisker float64   `json:"lowerWhisker"`
	Q1           float64   `json:"q1"`
	Median       float64   `json:"median"`
	Q3           float64   `json:"q3"`
	UpperWhisker float64   `json:"upperWhisker"`
	Max          float64   `json:"max"`
	LowerFence   float64   `json:"lowerFence"`
	UpperFence   float64   `json:"upperFence"`
	Outliers     []float64 `json:"outliers"`
	Values       []float64 `json:"values"`
}

type WidgetKind string

const (
	Numerical   WidgetKind = "numerical"
	Categorical WidgetKind = "categorical"
)

type Widget struct {
	ID      string     `json:"id"`
	Label   string     `json:"label"`
	Kind    WidgetKind `json:"kind"`
	Value   string     `json:"value"`
	Options []string   `json:"options"`
}

// Layout is everything the page needs for its first paint.
type Layout struct {
	Title   string   `json:"title"`
	Widgets []Widget `json:"widgets"`
	Charts  []*Chart `json:"charts"`
}

type DatasetInfo struct {
	Rows        int      `json:"rows"`
	Columns     []string `json:"columns"`
	Categorical []string `json:"categorical"`
	Numerical   []string `json:"numerical"`
}
