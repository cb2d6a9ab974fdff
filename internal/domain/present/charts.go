// Package present maps aggregation results to chart specifications and the raw-feed preview.
package present

import (
	"github.com/webitel/social-dashboard/internal/domain/aggregate"
	"github.com/webitel/social-dashboard/internal/domain/model"
)

// Plan builds one chart of a dashboard from the current window.
type Plan struct {
	ID    string
	Title string
	build func(records []model.Record) model.Chart
}

// Build renders the plan against records.
func (p Plan) Build(records []model.Record) model.Chart {
	c := p.build(records)
	c.ID = p.ID
	c.Title = p.Title
	c.Theme = model.ThemeDark
	return c
}

// Trace names one metric drawn as a series of a grouped chart.
type Trace struct {
	Name   string
	Color  string
	Metric aggregate.Metric
}

// Line plots a metric over time with markers.
func Line(id, title string, tr Trace) Plan {
	return Plan{ID: id, Title: title, build: func(records []model.Record) model.Chart {
		return model.Chart{Kind: model.ChartLine, Series: []model.Series{timeSeries(tr, records)}}
	}}
}

// Area plots a metric over time filled to zero.
func Area(id, title string, tr Trace) Plan {
	return Plan{ID: id, Title: title, build: func(records []model.Record) model.Chart {
		return model.Chart{Kind: model.ChartArea, Series: []model.Series{timeSeries(tr, records)}}
	}}
}

// GroupedBars draws several metrics side by side per record time over the last `last`
// records; last <= 0 uses the whole window.
func GroupedBars(id, title string, last int, traces ...Trace) Plan {
	return Plan{ID: id, Title: title, build: func(records []model.Record) model.Chart {
		if last > 0 {
			records = aggregate.Tail(records, last)
		}
		series := make([]model.Series, 0, len(traces))
		for _, tr := range traces {
			series = append(series, timeSeries(tr, records))
		}
		return model.Chart{Kind: model.ChartBar, BarMode: model.BarModeGroup, Series: series}
	}}
}

// Pie shows the distribution of a categorical field over the whole window.
func Pie(id, title string, field aggregate.Field, hole float64) Plan {
	return Plan{ID: id, Title: title, build: func(records []model.Record) model.Chart {
		labels, values := aggregate.Split(aggregate.Frequency(records, field))
		return model.Chart{Kind: model.ChartPie, Series: []model.Series{{
			Hole:   hole,
			Labels: labels,
			Values: values,
		}}}
	}}
}

// FrequencyOptions narrows a frequency bar chart.
type FrequencyOptions struct {
	// Last restricts counting to the most recent records; <= 0 counts the whole window.
	Last int
	// Top keeps only the most frequent values; <= 0 keeps all.
	Top int
}

// FrequencyBar draws counts per categorical value, most frequent first.
func FrequencyBar(id, title, color string, field aggregate.Field, opts FrequencyOptions) Plan {
	return Plan{ID: id, Title: title, build: func(records []model.Record) model.Chart {
		if opts.Last > 0 {
			records = aggregate.Tail(records, opts.Last)
		}
		buckets := aggregate.Frequency(records, field)
		if opts.Top > 0 {
			buckets = aggregate.Top(buckets, opts.Top)
		}
		labels, values := aggregate.Split(buckets)
		return model.Chart{Kind: model.ChartBar, Series: []model.Series{{
			Color:  color,
			Labels: labels,
			Values: values,
		}}}
	}}
}

func timeSeries(tr Trace, records []model.Record) model.Series {
	p := aggregate.Series(records, tr.Metric)
	return model.Series{
		Name:   tr.Name,
		Color:  tr.Color,
		Labels: p.Labels,
		Values: p.Values,
	}
}
