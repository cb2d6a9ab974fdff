package model

// Frame is the publication of one tick: every chart of a dashboard plus the raw preview
// of the newest record. Frames are immutable once published.
type Frame struct {
	Dashboard   string  `json:"dashboard"`
	Tick        uint64  `json:"tick"`
	GeneratedAt int64   `json:"generated_at"`
	Charts      []Chart `json:"charts"`
	Preview     string  `json:"preview"`
}

// Chart returns the chart with the given id.
func (f *Frame) Chart(id string) (Chart, bool) {
	for _, c := range f.Charts {
		if c.ID == id {
			return c, true
		}
	}
	return Chart{}, false
}

// DashboardInfo describes a hosted dashboard for listings.
type DashboardInfo struct {
	Name     string   `json:"name"`
	Title    string   `json:"title"`
	Capacity int      `json:"capacity"`
	Charts   []string `json:"charts"`
}
