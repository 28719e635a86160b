package services

import (
	"context"
	"fmt"
	"log/slog"

	"affinity-engine/contract"
	"affinity-engine/domain"
	"affinity-engine/runtime"
)

type ISessionService interface {
	SendMessage(ctx context.Context, text string) (domain.Destination, error)
	Messages(conversationID domain.ConversationID) []domain.Message
	StartVideoCall() error
	IsOnline(userID string) bool
	Close()
}

// SessionService is the single entry point of one active session:
// it owns the coordinators and tears their subscriptions down together.
type SessionService struct {
	log         *slog.Logger
	coordinator *runtime.SessionCoordinator
	room        *runtime.RoomCoordinator
	presence    *runtime.PresenceTracker
	store       *runtime.Store
	session     runtime.Session
}

func NewSessionService(
	log *slog.Logger,
	coordinator *runtime.SessionCoordinator,
	room *runtime.RoomCoordinator,
	presence *runtime.PresenceTracker,
	store *runtime.Store,
	session runtime.Session,
) *SessionService {
	return &SessionService{
		log:         log,
		coordinator: coordinator,
		room:        room,
		presence:    presence,
		store:       store,
		session:     session,
	}
}

// Open hydrates the local log from the remote chat service and attaches
// the room and presence subscriptions for this session's lifetime.
func (s *SessionService) Open(ctx context.Context, chat contract.IChatService, channel contract.ISignalChannel) error {
	messages, err := chat.FetchMessages(ctx, s.session.Conversation.ID)
	if err != nil {
		return fmt.Errorf("hydrate conversation %s: %w", s.session.Conversation.ID, err)
	}
	s.store.Seed(s.session.Conversation.ID, messages)

	s.room.Attach(s.session.Conversation.ID)
	s.presence.Attach(channel)
	s.log.Info("Session opened", "conversation", s.session.Conversation.ID, "messages", len(messages))
	return nil
}

func (s *SessionService) SendMessage(ctx context.Context, text string) (domain.Destination, error) {
	return s.coordinator.Send(ctx, text)
}

func (s *SessionService) Messages(conversationID domain.ConversationID) []domain.Message {
	return s.store.List(conversationID)
}

func (s *SessionService) StartVideoCall() error {
	return s.room.RequestJoin(s.session.Profile.Email, s.session.Conversation.ID)
}

func (s *SessionService) IsOnline(userID string) bool {
	return s.presence.IsOnline(userID)
}

// Close ends the session: in-flight sends stop applying results and
// channel subscriptions are detached.
func (s *SessionService) Close() {
	s.coordinator.Close()
	s.room.Close()
	s.presence.Detach()
	s.log.Info("Session closed", "conversation", s.session.Conversation.ID)
}
