// Package observability aggregates session telemetry for operators.
package observability

import (
	"context"
	"sync/atomic"
	"time"

	"affinity-engine/domain/event"
)

// SessionStats is a point-in-time snapshot of engine activity.
type SessionStats struct {
	MessagesAppended uint64 `json:"messages_appended"`
	ScoresComputed   uint64 `json:"scores_computed"`
	ScoresPersisted  uint64 `json:"scores_persisted"`
	ScoresRejected   uint64 `json:"scores_rejected"`
	SendFailures     uint64 `json:"send_failures"`
	RoomsActivated   uint64 `json:"rooms_activated"`
	PresencePushes   uint64 `json:"presence_pushes"`
	CollectedAt      string `json:"collected_at"`
}

// SessionMetrics counts engine activity with atomic counters. It
// implements the event sink contract so it can sit on the fanout.
type SessionMetrics struct {
	messagesAppended atomic.Uint64
	scoresComputed   atomic.Uint64
	scoresPersisted  atomic.Uint64
	scoresRejected   atomic.Uint64
	sendFailures     atomic.Uint64
	roomsActivated   atomic.Uint64
	presencePushes   atomic.Uint64
}

func NewSessionMetrics() *SessionMetrics {
	return &SessionMetrics{}
}

func (m *SessionMetrics) Consume(_ context.Context, e event.DomainEvent) error {
	switch e.(type) {
	case event.MessageAppended:
		m.messagesAppended.Add(1)
	case event.ScoreComputed:
		m.scoresComputed.Add(1)
	case event.ScorePersisted:
		m.scoresPersisted.Add(1)
	case event.ScoreRejected:
		m.scoresRejected.Add(1)
	case event.SendFailed:
		m.sendFailures.Add(1)
	case event.RoomActivated:
		m.roomsActivated.Add(1)
	case event.PresenceChanged:
		m.presencePushes.Add(1)
	}
	return nil
}

// Snapshot returns current counter values for the debug dashboard.
func (m *SessionMetrics) Snapshot() SessionStats {
	return SessionStats{
		MessagesAppended: m.messagesAppended.Load(),
		ScoresComputed:   m.scoresComputed.Load(),
		ScoresPersisted:  m.scoresPersisted.Load(),
		ScoresRejected:   m.scoresRejected.Load(),
		SendFailures:     m.sendFailures.Load(),
		RoomsActivated:   m.roomsActivated.Load(),
		PresencePushes:   m.presencePushes.Load(),
		CollectedAt:      time.Now().UTC().Format(time.RFC3339),
	}
}
