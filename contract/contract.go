//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"reflect"

	"affinity-engine/domain"
	"affinity-engine/domain/event"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

type WorkerName string

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

type EventSink interface {
	Consume(ctx context.Context, e event.DomainEvent) error
}

// IScoringBridge translates a user message into an AI inference call.
type IScoringBridge interface {
	Infer(ctx context.Context, userID, text string) (domain.AIReply, error)
}

// IScoreUpdater persists a compatibility score, already scaled to an
// integer percentage, to the durable profile store.
type IScoreUpdater interface {
	Update(ctx context.Context, email string, percent int) error
}

// IChatService is the external message persistence service. It owns
// durability; the engine owns ordering.
type IChatService interface {
	PostMessage(ctx context.Context, conversationID domain.ConversationID, senderID, text string) (domain.Message, error)
	FetchMessages(ctx context.Context, conversationID domain.ConversationID) ([]domain.Message, error)
}

// ISignalChannel is the shared bidirectional event channel used for
// room negotiation and presence. Multiple coordinators register
// independent handlers and must not assume exclusive ownership.
type ISignalChannel interface {
	Connected() bool
	Emit(name string, payload any) error
	// On registers a handler for a named event and returns the detach
	// function. Subscriptions are lifecycle-scoped: callers must detach
	// when their session ends.
	On(name string, handler func(payload []byte)) (off func())
}

// INotifier plays a local notification sound. Fire-and-forget: callers
// ignore the error.
type INotifier interface {
	Play() error
}
