package models

import "time"

// GenerationAudit records the outcome of one generation attempt
type GenerationAudit struct {
	ID         string    `json:"id"`
	SessionID  string    `json:"sessionId,omitempty"`
	Profile    Profile   `json:"profile"`
	Model      string    `json:"model"`
	Topic      string    `json:"topic"`
	Success    bool      `json:"success"`
	ErrorKind  string    `json:"errorKind,omitempty"`
	Error      string    `json:"error,omitempty"`
	DurationMs int64     `json:"durationMs"`
	CreatedAt  time.Time `json:"createdAt"`
}
