package model

type ChartKind string

const (
	ChartLine ChartKind = "line"
	ChartBar  ChartKind = "bar"
	ChartArea ChartKind = "area"
	ChartPie  ChartKind = "pie"
)

// ThemeDark is the only theme the dashboards render with.
const ThemeDark = "dark"

// BarModeGroup places bars of several series side by side.
const BarModeGroup = "group"

// Chart is the kind/data/label/title bundle handed to a display surface for one visualization.
type Chart struct {
	ID      string    `json:"id"`
	Kind    ChartKind `json:"kind"`
	Title   string    `json:"title"`
	Theme   string    `json:"theme"`
	BarMode string    `json:"bar_mode,omitempty"`
	Series  []Series  `json:"series"`
}

// Series holds one trace of a chart. Labels and Values always have equal length.
type Series struct {
	Name   string    `json:"name,omitempty"`
	Color  string    `json:"color,omitempty"`
	Hole   float64   `json:"hole,omitempty"`
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

// Points returns the number of data points carried by the chart across all series.
func (c Chart) Points() int {
	n := 0
	for _, s := range c.Series {
		n += len(s.Values)
	}
	return n
}
