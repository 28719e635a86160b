package domain

// RoomID identifies an ephemeral video-session context. The current
// negotiation protocol reuses the conversation identifier as room
// identifier, so both sides agree without extra allocation.
type RoomID string

// RoomState tracks the join negotiation of a video room.
type RoomState int

const (
	RoomDisconnected RoomState = iota
	RoomConnected
	RoomJoinRequested
	RoomActive
)

func (s RoomState) String() string {
	switch s {
	case RoomDisconnected:
		return "Disconnected"
	case RoomConnected:
		return "Connected"
	case RoomJoinRequested:
		return "JoinRequested"
	case RoomActive:
		return "RoomActive"
	default:
		return "Unknown"
	}
}

// RoomJoinRequest is transient: it exists only for the duration of a
// join negotiation and is never persisted.
type RoomJoinRequest struct {
	UserEmail      string
	ConversationID ConversationID
}

// RoomJoinConfirmation is the peer's answer carrying the agreed room.
type RoomJoinConfirmation struct {
	Room RoomID
}
