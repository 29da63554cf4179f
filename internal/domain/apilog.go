package domain

import "time"

// LogEntry records one outbound ERP call attempt. Entries are immutable once
// appended to the ring; the JSON tags match the layout persisted in the
// shared cache.
type LogEntry struct {
	ID         string    `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	Method     string    `json:"method"`
	URL        string    `json:"url"`
	Status     int       `json:"status"`
	DurationMs int64     `json:"duration"`
	TokenUsed  bool      `json:"tokenUsed"`
	Error      string    `json:"error,omitempty"`
}
