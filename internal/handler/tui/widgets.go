// Package tui draws dashboard frames in a terminal with termui.
package tui

import (
	"fmt"
	"math"
	"strings"

	ui "github.com/gizak/termui/v3"
	"github.com/gizak/termui/v3/widgets"
	"github.com/webitel/social-dashboard/internal/domain/model"
)

var colors = map[string]ui.Color{
	"blue":   ui.ColorBlue,
	"red":    ui.ColorRed,
	"green":  ui.ColorGreen,
	"orange": ui.ColorYellow,
	"gold":   ui.ColorYellow,
	"violet": ui.ColorMagenta,
}

func colorOf(name string) ui.Color {
	if c, ok := colors[strings.ToLower(name)]; ok {
		return c
	}
	return ui.ColorCyan
}

// Widget builds the termui widget of one chart. Charts without points become a placeholder.
func Widget(c model.Chart) ui.Drawable {
	if c.Points() == 0 {
		p := widgets.NewParagraph()
		p.Title = c.Title
		p.Text = "waiting for data"
		return p
	}

	switch c.Kind {
	case model.ChartPie:
		return pieWidget(c)
	case model.ChartBar:
		if len(c.Series) > 1 {
			return groupedBarWidget(c)
		}
		return barWidget(c)
	default:
		return plotWidget(c)
	}
}

// plotWidget draws line and area charts. termui needs at least two points per line.
func plotWidget(c model.Chart) *widgets.Plot {
	p := widgets.NewPlot()
	p.Title = c.Title
	p.Marker = widgets.MarkerBraille
	p.AxesColor = ui.ColorWhite
	for _, s := range c.Series {
		p.Data = append(p.Data, padPoints(s.Values))
		p.LineColors = append(p.LineColors, colorOf(s.Color))
	}
	return p
}

func padPoints(values []float64) []float64 {
	switch len(values) {
	case 0:
		return []float64{0, 0}
	case 1:
		return []float64{values[0], values[0]}
	default:
		return values
	}
}

func barWidget(c model.Chart) *widgets.BarChart {
	s := c.Series[0]
	bc := widgets.NewBarChart()
	bc.Title = c.Title
	bc.Data = s.Values
	bc.Labels = s.Labels
	bc.BarWidth = 6
	bc.BarColors = []ui.Color{colorOf(s.Color)}
	bc.NumFormatter = func(v float64) string { return fmt.Sprintf("%.0f", v) }
	return bc
}

// groupedBarWidget stacks the series of each label.
func groupedBarWidget(c model.Chart) *widgets.StackedBarChart {
	sbc := widgets.NewStackedBarChart()
	sbc.Title = c.Title
	sbc.BarWidth = 3
	sbc.BarGap = 1

	labels := c.Series[0].Labels
	sbc.Labels = labels
	sbc.Data = make([][]float64, len(labels))
	for i := range labels {
		for _, s := range c.Series {
			if i < len(s.Values) {
				sbc.Data[i] = append(sbc.Data[i], s.Values[i])
			}
		}
	}
	for i, s := range c.Series {
		if s.Color != "" {
			sbc.BarColors = append(sbc.BarColors, colorOf(s.Color))
		} else {
			sbc.BarColors = append(sbc.BarColors, ui.StandardColors[i%len(ui.StandardColors)])
		}
	}
	return sbc
}

func pieWidget(c model.Chart) *widgets.PieChart {
	s := c.Series[0]
	pc := widgets.NewPieChart()
	pc.Title = c.Title
	pc.Data = s.Values
	pc.AngleOffset = -.5 * math.Pi
	pc.LabelFormatter = func(i int, v float64) string {
		if i < len(s.Labels) {
			return fmt.Sprintf("%s %.0f", s.Labels[i], v)
		}
		return fmt.Sprintf("%.0f", v)
	}
	return pc
}

// Preview shows the newest record.
func Preview(f *model.Frame) *widgets.Paragraph {
	p := widgets.NewParagraph()
	p.Title = fmt.Sprintf("Latest post, tick %d", f.Tick)
	p.Text = f.Preview
	if p.Text == "" {
		p.Text = "no posts yet"
	}
	return p
}

// Widgets returns one widget per chart followed by the preview.
func Widgets(f *model.Frame) []ui.Drawable {
	out := make([]ui.Drawable, 0, len(f.Charts)+1)
	for _, c := range f.Charts {
		out = append(out, Widget(c))
	}
	return append(out, Preview(f))
}

// Grid lays the widgets out two per row.
func Grid(items []ui.Drawable, width, height int) *ui.Grid {
	rows := (len(items) + 1) / 2
	grid := ui.NewGrid()
	grid.SetRect(0, 0, width, height)

	entries := make([]any, 0, rows)
	for i := 0; i < len(items); i += 2 {
		cols := []any{ui.NewCol(0.5, items[i])}
		if i+1 < len(items) {
			cols = append(cols, ui.NewCol(0.5, items[i+1]))
		} else {
			cols[0] = ui.NewCol(1.0, items[i])
		}
		entries = append(entries, ui.NewRow(1.0/float64(rows), cols...))
	}
	grid.Set(entries...)
	return grid
}
