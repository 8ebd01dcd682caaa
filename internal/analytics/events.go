package analytics

import "time"

type EventType string

const (
	EventFileScanned    EventType = "file_scanned"
	EventFileSkipped    EventType = "file_skipped"
	EventTraversalError EventType = "traversal_error"
)

// FileEvent describes the outcome of one path during a scan.
type FileEvent struct {
	Type      EventType `json:"type"`
	Path      string    `json:"path"`
	Bytes     int64     `json:"bytes"`
	Matches   int       `json:"matches"`
	Distinct  int       `json:"distinct"`
	Err       string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
