package runtime

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"affinity-engine/contract"
	"affinity-engine/domain"
	"affinity-engine/domain/event"
	apperrors "affinity-engine/errors"
)

// joinEvent is the wire shape of a room:join frame. The same event
// name carries the request (client to peer) and the confirmation
// (peer to client, with Room set).
const joinEvent = "room:join"

type joinPayload struct {
	UserEmail string `json:"userEmail,omitempty"`
	ChatID    string `json:"chatId,omitempty"`
	Room      string `json:"room,omitempty"`
}

// RoomCoordinator negotiates an ephemeral two-party video room over
// the shared signaling channel. Its subscription is scoped to one
// session: Close detaches the handler so it never leaks into the next.
type RoomCoordinator struct {
	mu           sync.Mutex
	log          *slog.Logger
	channel      contract.ISignalChannel
	events       chan<- event.DomainEvent
	navigate     func(domain.RoomID)
	conversation domain.ConversationID
	state        domain.RoomState
	off          func()
}

func NewRoomCoordinator(
	log *slog.Logger,
	channel contract.ISignalChannel,
	events chan<- event.DomainEvent,
	navigate func(domain.RoomID),
) *RoomCoordinator {
	return &RoomCoordinator{
		log:      log,
		channel:  channel,
		events:   events,
		navigate: navigate,
		state:    domain.RoomDisconnected,
	}
}

// Attach binds the coordinator to a conversation and subscribes to
// join confirmations for the lifetime of this session.
func (r *RoomCoordinator) Attach(conversationID domain.ConversationID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conversation = conversationID
	if r.channel.Connected() {
		r.state = domain.RoomConnected
	}
	r.off = r.channel.On(joinEvent, r.handleConfirmation)
}

// RequestJoin emits a join request to the paired party. The channel
// must be connected; nothing is emitted otherwise.
func (r *RoomCoordinator) RequestJoin(userEmail string, conversationID domain.ConversationID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.channel.Connected() {
		r.state = domain.RoomDisconnected
		return apperrors.ErrChannelUnavailable
	}
	err := r.channel.Emit(joinEvent, joinPayload{
		UserEmail: userEmail,
		ChatID:    string(conversationID),
	})
	if err != nil {
		return fmt.Errorf("emit join request: %w", err)
	}
	r.state = domain.RoomJoinRequested
	return nil
}

// handleConfirmation reacts to the peer's answer carrying the room
// identifier and triggers navigation to it.
func (r *RoomCoordinator) handleConfirmation(payload []byte) {
	var confirmation joinPayload
	if err := json.Unmarshal(payload, &confirmation); err != nil {
		r.log.Warn("Discarding malformed join confirmation", "error", err)
		return
	}

	room := domain.RoomID(confirmation.Room)
	if room == "" {
		// The negotiation reuses the conversation id as room id.
		room = domain.RoomID(r.conversation)
	}

	r.mu.Lock()
	r.state = domain.RoomActive
	conversation := r.conversation
	r.mu.Unlock()

	if r.events != nil {
		select {
		case r.events <- event.RoomActivated{Conversation: conversation, Room: room}:
		default:
			r.log.Warn("Event channel full, dropping room activation")
		}
	}
	if r.navigate != nil {
		r.navigate(room)
	}
}

func (r *RoomCoordinator) State() domain.RoomState {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == domain.RoomDisconnected && r.channel.Connected() {
		return domain.RoomConnected
	}
	return r.state
}

// Close detaches the join subscription. Safe to call more than once.
func (r *RoomCoordinator) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.off != nil {
		r.off()
		r.off = nil
	}
	r.state = domain.RoomDisconnected
}
