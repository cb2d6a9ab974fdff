package model

// TimeLayout is the wall-clock format of Record.Time (no date, no sub-second precision).
const TimeLayout = "15:04:05"

// Record is one simulated social-media post as observed by a dashboard.
type Record struct {
	ID          string `json:"id"`
	Time        string `json:"time"`
	Author      string `json:"author"`
	ContentType string `json:"content_type"`
	Topic       string `json:"topic"`
	Caption     string `json:"caption,omitempty"`
	Likes       int    `json:"likes"`
	Shares      int    `json:"shares"`
	Comments    int    `json:"comments"`
	Followers   int    `json:"followers"`
}
