package event

import (
	"affinity-engine/domain"
)

// DomainEvent is anything observers of a session may react to.
// Events without a conversation scope return the zero ConversationID.
type DomainEvent interface {
	ConversationID() domain.ConversationID
}

// MessageAppended is emitted synchronously after a message reaches the
// tail of its conversation log.
type MessageAppended struct {
	Message domain.Message
}

func (e MessageAppended) ConversationID() domain.ConversationID {
	return e.Message.ConversationID
}

// ScoreComputed signals that the AI endpoint produced a compatibility
// value this turn. Presence of the event, not the value, is the signal:
// a 0.0 score still raises it.
type ScoreComputed struct {
	Score domain.CompatibilityScore
}

func (e ScoreComputed) ConversationID() domain.ConversationID {
	return e.Score.ConversationID
}

// ScorePersisted signals the profile store accepted the update, along
// with the destination the caller's routing policy selected.
type ScorePersisted struct {
	Score       domain.CompatibilityScore
	Destination domain.Destination
}

func (e ScorePersisted) ConversationID() domain.ConversationID {
	return e.Score.ConversationID
}

// ScoreRejected signals the profile store refused or never received the
// update. The session continues; observers may show a notice.
type ScoreRejected struct {
	Score  domain.CompatibilityScore
	Reason string
}

func (e ScoreRejected) ConversationID() domain.ConversationID {
	return e.Score.ConversationID
}

// SendFailed signals a send pipeline halted mid-flight. Appends already
// applied stay applied.
type SendFailed struct {
	Conversation domain.ConversationID
	Reason       string
}

func (e SendFailed) ConversationID() domain.ConversationID {
	return e.Conversation
}

// RoomActivated signals the peer confirmed a video room join.
type RoomActivated struct {
	Conversation domain.ConversationID
	Room         domain.RoomID
}

func (e RoomActivated) ConversationID() domain.ConversationID {
	return e.Conversation
}

// PresenceChanged carries the latest known set of online users.
type PresenceChanged struct {
	Online []string
}

func (e PresenceChanged) ConversationID() domain.ConversationID {
	return ""
}
