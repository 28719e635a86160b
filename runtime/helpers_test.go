package runtime_test

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"affinity-engine/domain"
	"affinity-engine/domain/event"

	"github.com/google/uuid"
)

// RecordingSink captures every event it consumes.
type RecordingSink struct {
	mu     sync.Mutex
	events []event.DomainEvent
}

func (s *RecordingSink) Consume(_ context.Context, e event.DomainEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	return nil
}

func (s *RecordingSink) Events() []event.DomainEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]event.DomainEvent(nil), s.events...)
}

// fakeChatService records posts and echoes them back as stored.
type fakeChatService struct {
	mu      sync.Mutex
	posted  []domain.Message
	history []domain.Message
	err     error
}

func (f *fakeChatService) PostMessage(_ context.Context, conversationID domain.ConversationID, senderID, text string) (domain.Message, error) {
	if f.err != nil {
		return domain.Message{}, f.err
	}
	message := domain.Message{
		ID:             uuid.New(),
		ConversationID: conversationID,
		SenderID:       senderID,
		Text:           text,
		CreatedAt:      time.Now().UTC(),
	}
	f.mu.Lock()
	f.posted = append(f.posted, message)
	f.mu.Unlock()
	return message, nil
}

func (f *fakeChatService) FetchMessages(_ context.Context, _ domain.ConversationID) ([]domain.Message, error) {
	return f.history, nil
}

// fakeBridge replies "re:<text>" and can delay or score turns.
type fakeBridge struct {
	compatibility *float64
	delayFor      string
	delay         time.Duration
	err           error
	onInfer       func()
}

func (f *fakeBridge) Infer(_ context.Context, _ string, text string) (domain.AIReply, error) {
	if f.onInfer != nil {
		f.onInfer()
	}
	if f.err != nil {
		return domain.AIReply{}, f.err
	}
	if f.delayFor == text {
		time.Sleep(f.delay)
	}
	return domain.AIReply{Text: "re:" + text, Compatibility: f.compatibility}, nil
}

// fakeUpdater records score updates.
type fakeUpdater struct {
	mu       sync.Mutex
	emails   []string
	percents []int
	err      error
}

func (f *fakeUpdater) Update(_ context.Context, email string, percent int) error {
	f.mu.Lock()
	f.emails = append(f.emails, email)
	f.percents = append(f.percents, percent)
	f.mu.Unlock()
	return f.err
}

// fakeChannel is an in-process signaling channel.
type fakeChannel struct {
	mu        sync.Mutex
	connected bool
	emitted   []emittedEvent
	handlers  map[string]map[int]func(payload []byte)
	nextID    int
}

type emittedEvent struct {
	name    string
	payload any
}

func newFakeChannel(connected bool) *fakeChannel {
	return &fakeChannel{
		connected: connected,
		handlers:  make(map[string]map[int]func(payload []byte)),
	}
}

func (f *fakeChannel) Connected() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.connected
}

func (f *fakeChannel) Emit(name string, payload any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.emitted = append(f.emitted, emittedEvent{name: name, payload: payload})
	return nil
}

func (f *fakeChannel) On(name string, handler func(payload []byte)) (off func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.handlers[name]; !ok {
		f.handlers[name] = make(map[int]func(payload []byte))
	}
	id := f.nextID
	f.nextID++
	f.handlers[name][id] = handler
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.handlers[name], id)
	}
}

// Push simulates an incoming frame from the peer.
func (f *fakeChannel) Push(name string, payload any) {
	raw, _ := json.Marshal(payload)
	f.mu.Lock()
	handlers := make([]func(payload []byte), 0, len(f.handlers[name]))
	for _, h := range f.handlers[name] {
		handlers = append(handlers, h)
	}
	f.mu.Unlock()
	for _, handler := range handlers {
		handler(raw)
	}
}

func (f *fakeChannel) Emitted() []emittedEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]emittedEvent(nil), f.emitted...)
}
