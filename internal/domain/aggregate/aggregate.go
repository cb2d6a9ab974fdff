// Package aggregate derives per-tick summary views from a dashboard window.
//
// Every function is a pure, deterministic function of its input slice; nothing is kept
// between ticks.
package aggregate

import (
	"sort"

	"github.com/webitel/social-dashboard/internal/domain/model"
)

// Metric selects a counter of a record.
type Metric func(model.Record) int

// Field selects a categorical value of a record.
type Field func(model.Record) string

var (
	Likes     Metric = func(r model.Record) int { return r.Likes }
	Shares    Metric = func(r model.Record) int { return r.Shares }
	Comments  Metric = func(r model.Record) int { return r.Comments }
	Followers Metric = func(r model.Record) int { return r.Followers }

	Author      Field = func(r model.Record) string { return r.Author }
	ContentType Field = func(r model.Record) string { return r.ContentType }
	Topic       Field = func(r model.Record) string { return r.Topic }
)

// Points is a time series: Labels[i] is the record time of Values[i].
type Points struct {
	Labels []string
	Values []float64
}

func (p Points) Len() int { return len(p.Values) }

// Bucket is the count of records sharing one categorical value.
type Bucket struct {
	Label string
	Count int
}

// Series returns (time, metric) pairs for the records in window order.
func Series(records []model.Record, metric Metric) Points {
	p := Points{
		Labels: make([]string, 0, len(records)),
		Values: make([]float64, 0, len(records)),
	}
	for _, r := range records {
		p.Labels = append(p.Labels, r.Time)
		p.Values = append(p.Values, float64(metric(r)))
	}
	return p
}

// Frequency counts records per value of field, most frequent first.
// Ties keep the order in which values first appear in the window.
func Frequency(records []model.Record, field Field) []Bucket {
	index := make(map[string]int)
	buckets := make([]Bucket, 0)
	for _, r := range records {
		label := field(r)
		if i, ok := index[label]; ok {
			buckets[i].Count++
			continue
		}
		index[label] = len(buckets)
		buckets = append(buckets, Bucket{Label: label, Count: 1})
	}
	sort.SliceStable(buckets, func(i, j int) bool {
		return buckets[i].Count > buckets[j].Count
	})
	return buckets
}

// Tail returns the most recent m records (all of them when m exceeds the length).
func Tail(records []model.Record, m int) []model.Record {
	if m <= 0 {
		return records[:0:0]
	}
	if m >= len(records) {
		return records
	}
	return records[len(records)-m:]
}

// Windowed is Frequency restricted to the most recent m records.
func Windowed(records []model.Record, m int, field Field) []Bucket {
	return Frequency(Tail(records, m), field)
}

// Top keeps the first n buckets of an already sorted frequency.
func Top(buckets []Bucket, n int) []Bucket {
	if n <= 0 {
		return []Bucket{}
	}
	if n > len(buckets) {
		n = len(buckets)
	}
	out := make([]Bucket, n)
	copy(out, buckets[:n])
	return out
}

// Split turns buckets into parallel label/value slices for chart series.
func Split(buckets []Bucket) ([]string, []float64) {
	labels := make([]string, len(buckets))
	values := make([]float64, len(buckets))
	for i, b := range buckets {
		labels[i] = b.Label
		values[i] = float64(b.Count)
	}
	return labels, values
}
