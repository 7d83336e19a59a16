package models

import "time"

// Event sources.
const (
	EventSourceManual      = "manual"
	EventSourceSocialShare = "social_share"
	EventSourceMCP         = "mcp"
)

// Event statuses.
const (
	EventStatusOK    = "ok"
	EventStatusError = "error"
)

// DefaultEventLimit is the number of events returned when the caller gives none.
const DefaultEventLimit = 20

// PortfolioEvent is one append-only audit record.
type PortfolioEvent struct {
	ID      int64          `json:"id"`
	TS      time.Time      `json:"ts"`
	Source  string         `json:"source"`
	Repo    *string        `json:"repo"`
	Action  string         `json:"action"`
	Payload map[string]any `json:"payload"`
	Status  string         `json:"status"`
}

// NewEvent is the input to the event recorder.
type NewEvent struct {
	Source  string
	Repo    *string
	Action  string
	Payload map[string]any
	Status  string
}

// AuditOutcome reports the result of the audit append that follows a primary
// write. A failed append never undoes the primary write.
type AuditOutcome struct {
	Recorded bool
	Err      error
}
