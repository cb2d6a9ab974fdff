package model

// ServerVersion is reported to subscribers in the connected handshake.
var ServerVersion = "0.0.0"

// ConnectedPayload is sent to a subscriber right after it attaches to a dashboard.
type ConnectedPayload struct {
	Ok            bool   `json:"ok"`
	ConnectionID  string `json:"connection_id"`
	Dashboard     string `json:"dashboard"`
	ServerVersion string `json:"server_version"`
}

// DisconnectedPayload represents the notification sent before the server closes the stream.
type DisconnectedPayload struct {
	Reason string `json:"reason"`
	Code   string `json:"code,omitempty"` // Optional: "SHUTDOWN", "EVICTED"
}
