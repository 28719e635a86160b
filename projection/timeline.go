// Package projection builds local timelines from observed events.
// Handles ordering and snapshots for rendering.
// Does not emit events or interact with UI directly.
package projection

import (
	"context"
	"sync"

	"affinity-engine/domain"
	"affinity-engine/domain/event"
)

// Timeline keeps a per-conversation ordered view of appended messages.
type Timeline struct {
	mu       sync.Mutex
	messages map[domain.ConversationID][]domain.Message
}

func NewTimeline() *Timeline {
	return &Timeline{
		messages: make(map[domain.ConversationID][]domain.Message),
	}
}

func (t *Timeline) Consume(_ context.Context, e event.DomainEvent) error {
	switch evt := e.(type) {
	case event.MessageAppended:
		t.mu.Lock()
		t.messages[evt.Message.ConversationID] = append(t.messages[evt.Message.ConversationID], evt.Message)
		t.mu.Unlock()
	}
	return nil
}

// Messages returns a snapshot of the conversation timeline.
func (t *Timeline) Messages(conversationID domain.ConversationID) []domain.Message {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]domain.Message(nil), t.messages[conversationID]...)
}
