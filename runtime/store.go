// Package runtime coordinates the active session: message ordering,
// the send pipeline, room negotiation, and presence. It orchestrates
// the system without containing business rules of its own.
package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"affinity-engine/contract"
	"affinity-engine/domain"
	"affinity-engine/domain/event"
	apperrors "affinity-engine/errors"
)

// Store holds the ordered message log of every registered conversation.
// It is the engine-side source of truth for rendering; the remote chat
// service owns durability. Append order is the only ordering guarantee.
type Store struct {
	mu            sync.Mutex
	log           *slog.Logger
	conversations map[domain.ConversationID]domain.Conversation
	messages      map[domain.ConversationID][]domain.Message
	sinks         []contract.EventSink
}

func NewStore(log *slog.Logger) *Store {
	return &Store{
		log:           log,
		conversations: make(map[domain.ConversationID]domain.Conversation),
		messages:      make(map[domain.ConversationID][]domain.Message),
	}
}

// RegisterConversation makes a conversation eligible for appends.
func (s *Store) RegisterConversation(conversation domain.Conversation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.conversations[conversation.ID]; ok {
		s.log.Info(fmt.Sprintf("Conversation %s already registered", conversation.ID))
		return
	}
	s.conversations[conversation.ID] = conversation
}

// RegisterSinks attaches observers notified synchronously after each
// append. A failing sink is logged and does not fail the append.
func (s *Store) RegisterSinks(sinks ...contract.EventSink) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sinks = append(s.sinks, sinks...)
}

// Append adds a message to the tail of its conversation log after
// checking the reference invariants, then notifies sinks.
func (s *Store) Append(ctx context.Context, message domain.Message) error {
	s.mu.Lock()
	conversation, ok := s.conversations[message.ConversationID]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: conversation %s", apperrors.ErrInvalidReference, message.ConversationID)
	}
	if !conversation.HasParticipant(message.SenderID) {
		s.mu.Unlock()
		return fmt.Errorf("%w: sender %s not in conversation %s",
			apperrors.ErrInvalidReference, message.SenderID, message.ConversationID)
	}
	s.messages[message.ConversationID] = append(s.messages[message.ConversationID], message)
	sinks := append([]contract.EventSink(nil), s.sinks...)
	s.mu.Unlock()

	for _, sink := range sinks {
		if err := sink.Consume(ctx, event.MessageAppended{Message: message}); err != nil {
			s.log.Warn("Sink failed to consume appended message", "error", err)
		}
	}
	return nil
}

// Seed replaces the log of a conversation with messages fetched from
// the remote service. Sinks are not notified: seeding hydrates state,
// it does not create it.
func (s *Store) Seed(conversationID domain.ConversationID, messages []domain.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages[conversationID] = append([]domain.Message(nil), messages...)
}

// List returns a snapshot of the conversation log, oldest first. Two
// calls without an intervening Append yield identical sequences.
func (s *Store) List(conversationID domain.ConversationID) []domain.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Message(nil), s.messages[conversationID]...)
}
