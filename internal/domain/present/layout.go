package present

import (
	"fmt"

	"github.com/webitel/social-dashboard/internal/domain/aggregate"
	"github.com/webitel/social-dashboard/internal/domain/feed"
	"github.com/webitel/social-dashboard/internal/domain/model"
)

// Layout is the ordered chart set of one dashboard variant.
type Layout struct {
	Name  string
	Plans []Plan
}

// Render recomputes every chart of the layout from scratch.
func (l Layout) Render(records []model.Record) []model.Chart {
	charts := make([]model.Chart, 0, len(l.Plans))
	for _, p := range l.Plans {
		charts = append(charts, p.Build(records))
	}
	return charts
}

// ChartIDs lists the chart identifiers in display order.
func (l Layout) ChartIDs() []string {
	ids := make([]string, len(l.Plans))
	for i, p := range l.Plans {
		ids[i] = p.ID
	}
	return ids
}

// FacebookLayout renders five charts over the whole 50-row window.
func FacebookLayout() Layout {
	return Layout{
		Name: feed.FacebookName,
		Plans: []Plan{
			Line("likes-line", "👍 Likes Over Time", Trace{Name: "Likes", Color: "blue", Metric: aggregate.Likes}),
			GroupedBars("engagement-bar", "📣 Engagements", 0,
				Trace{Name: "🔁 Shares", Metric: aggregate.Shares},
				Trace{Name: "💬 Comments", Metric: aggregate.Comments},
			),
			Area("followers-area", "👥 Followers Growth", Trace{Name: "Followers", Color: "green", Metric: aggregate.Followers}),
			Pie("posttype-pie", "📃 Post Types Distribution", aggregate.ContentType, 0.3),
			FrequencyBar("posttype-bar", "📊 Post Type Frequency", "orange", aggregate.ContentType, FrequencyOptions{}),
		},
	}
}

// InstagramLayout renders six charts; engagement and content mix look at the last 10 posts,
// hashtags are limited to the top 7.
func InstagramLayout() Layout {
	return Layout{
		Name: feed.InstagramName,
		Plans: []Plan{
			Line("likes-line", "❤️ Likes Over Time", Trace{Name: "Likes", Color: "red", Metric: aggregate.Likes}),
			GroupedBars("engagement-bar", "📣 Engagements", 10,
				Trace{Name: "💬 Comments", Metric: aggregate.Comments},
				Trace{Name: "🔁 Shares", Metric: aggregate.Shares},
			),
			Area("follower-area", "👥 Follower Growth", Trace{Name: "Followers", Color: "green", Metric: aggregate.Followers}),
			Pie("content-pie", "📂 Content Types", aggregate.ContentType, 0.3),
			FrequencyBar("hashtag-bar", "🏷️ Hashtag Frequency", "violet", aggregate.Topic, FrequencyOptions{Top: 7}),
			FrequencyBar("recent-content-bar", "🕒 Recent Content Mix", "gold", aggregate.ContentType, FrequencyOptions{Last: 10}),
		},
	}
}

// LayoutFor returns the layout of a variant.
func LayoutFor(name string) (Layout, error) {
	switch name {
	case feed.FacebookName:
		return FacebookLayout(), nil
	case feed.InstagramName:
		return InstagramLayout(), nil
	default:
		return Layout{}, fmt.Errorf("present: no layout for dashboard %q", name)
	}
}
