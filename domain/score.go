package domain

import (
	"math"
	"time"
)

// CompatibilityScore is produced only by an AI scoring turn and is
// immediately forwarded for persistence, never kept past the session.
type CompatibilityScore struct {
	ConversationID ConversationID
	UserID         string
	Value          float64 // in [0,1]
	ComputedAt     time.Time
}

func NewCompatibilityScore(conversationID ConversationID, userID string, value float64) CompatibilityScore {
	return CompatibilityScore{
		ConversationID: conversationID,
		UserID:         userID,
		Value:          value,
		ComputedAt:     time.Now().UTC(),
	}
}

// Percent scales the value to the integer percentage the profile store
// expects: floor of value*100. 0.873 maps to 87, never 88.
func (s CompatibilityScore) Percent() int {
	return int(math.Floor(s.Value * 100))
}

// AIReply is one turn from the AI endpoint. Compatibility is nil when
// the endpoint signaled no scoring event; a non-nil pointer to 0.0 is
// still a scored turn.
type AIReply struct {
	Text          string
	Compatibility *float64
}

// Scored reports whether this turn carried a compatibility signal.
func (r AIReply) Scored() bool {
	return r.Compatibility != nil
}
