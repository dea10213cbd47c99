package service

import "time"

// LogFilter supports journal filtering by time range and type.
type LogFilter struct {
	From  time.Time // inclusive; zero means no lower bound
	To    time.Time // inclusive; zero means no upper bound
	Type  string    // "", "PUSH_CONNECTED", "PULL_ERROR", "COMMAND", ...
	Limit int       // newest N; zero means all
}
