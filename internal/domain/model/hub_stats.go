package model

import "time"

type HubStats struct {
	TotalConnections int              `json:"total_connections"`
	Uptime           time.Duration    `json:"uptime"`
	Dashboards       []DashboardStats `json:"dashboards,omitempty"`
}

type DashboardStats struct {
	Dashboard string `json:"dashboard"`
	Sessions  int    `json:"sessions"`
}
