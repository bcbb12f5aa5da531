package model

// -----------------------------------------------------------------
// Monitor API Response Models
// -----------------------------------------------------------------

// MonitorResponse is the main response for the monitor API
type MonitorResponse struct {
	Status      string       `json:"status"` // "healthy", "degraded"
	Connections int          `json:"connections"`
	Clients     []ClientInfo `json:"clients"`
}

// ClientInfo contains information about a connected client
type ClientInfo struct {
	ClientID      string `json:"clientId"`
	UserID        int64  `json:"userId"`
	Authenticated bool   `json:"authenticated"`
}
