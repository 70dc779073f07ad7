package models

import "time"

// GenerationState is a stage of the generation state machine:
// IDLE -> CONTENT_GENERATING -> AUDIO_GENERATING (podcast only) -> COMPLETE, or FAILED from any stage.
type GenerationState string

const (
	StateIdle              GenerationState = "IDLE"
	StateContentGenerating GenerationState = "CONTENT_GENERATING"
	StateAudioGenerating   GenerationState = "AUDIO_GENERATING"
	StateComplete          GenerationState = "COMPLETE"
	StateFailed            GenerationState = "FAILED"
)

// IsTerminal reports whether no further transitions follow
func (s GenerationState) IsTerminal() bool {
	return s == StateComplete || s == StateFailed
}

// GenerationStateEvent is published on every state transition
type GenerationStateEvent struct {
	SessionID string          `json:"sessionId,omitempty"`
	Token     uint64          `json:"token,omitempty"`
	Profile   Profile         `json:"profile"`
	State     GenerationState `json:"state"`
	Error     string          `json:"error,omitempty"`
	Degraded  bool            `json:"degraded,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}
