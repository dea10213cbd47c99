package models

import "time"

// Journal event types.
const (
	EventPushConnected    = "PUSH_CONNECTED"
	EventPushDisconnected = "PUSH_DISCONNECTED"
	EventPushPartial      = "PUSH_PARTIAL"
	EventPushDropped      = "PUSH_DROPPED"
	EventPullError        = "PULL_ERROR"
	EventHistoryError     = "HISTORY_ERROR"
	EventStatusError      = "STATUS_ERROR"
	EventCommand          = "COMMAND"
	EventCommandError     = "COMMAND_ERROR"
)

// DashboardEvent is a single operator-visible journal entry.
type DashboardEvent struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"`        // PUSH_CONNECTED | PULL_ERROR | COMMAND | ...
	Description string    `json:"description"` // human-readable
	Metadata    any       `json:"metadata,omitempty"`
}
