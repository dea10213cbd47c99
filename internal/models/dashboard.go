package models

// ErrorSentinel replaces the display fields after a failed pull.
const ErrorSentinel = "Error"

// Dashboard is the UI state: what the page would show at this instant.
type Dashboard struct {
	Temperature    string         `json:"temperature"`
	Humidity       string         `json:"humidity"`
	LastUpdated    string         `json:"last_updated"`
	Loading        bool           `json:"loading"`
	ReadNowEnabled bool           `json:"read_now_enabled"`
	ChartReady     bool           `json:"chart_ready"`
	PushConnected  bool           `json:"push_connected"`
	Points         int            `json:"points"`
	Device         DeviceSnapshot `json:"device"`
}
