package sink

import (
	"context"
	"fmt"
	"log/slog"

	"affinity-engine/domain/event"
	"affinity-engine/repositories"
)

// DiskSink mirrors appended messages into the local Badger log so a
// session can render without the remote chat service.
type DiskSink struct {
	repository repositories.IMessageRepository
	log        *slog.Logger
}

func NewDiskSink(repository repositories.IMessageRepository, log *slog.Logger) DiskSink {
	return DiskSink{repository: repository, log: log}
}

func (d DiskSink) Consume(_ context.Context, e event.DomainEvent) error {
	switch evt := e.(type) {
	case event.MessageAppended:
		return d.repository.StoreMessage(toDiskMessage(evt))
	default:
		d.log.Debug(fmt.Sprintf("Not implemented event : %v", evt))
		return nil
	}
}

func toDiskMessage(evt event.MessageAppended) repositories.DiskMessage {
	return repositories.DiskMessage{
		ID:           evt.Message.ID,
		Conversation: evt.Message.ConversationID,
		Author:       evt.Message.SenderID,
		Content:      evt.Message.Text,
		At:           evt.Message.CreatedAt,
	}
}
