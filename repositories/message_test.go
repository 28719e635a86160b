package repositories

import (
	"log/slog"
	"testing"
	"time"

	"affinity-engine/domain"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func Test_Record_Multiple_Messages(t *testing.T) {
	req := require.New(t)
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	req.NoError(err)
	defer db.Close()

	repository := NewMessageRepository(db, slog.Default(), nil)
	conversation := domain.ConversationID("conv-1")
	content := "this message will self destruct in 5 seconds"
	at := time.Now().UTC()
	diskMessages := []DiskMessage{
		{uuid.New(), conversation, "Alice", content, at},
		{uuid.New(), conversation, "Bob", content, at.Add(1 * time.Minute)},
		{uuid.New(), conversation, "Clara", content, at.Add(2 * time.Minute)},
	}
	for _, dm := range diskMessages {
		err = repository.StoreMessage(dm)
		req.NoError(err)
	}
	fetchedMessages, err := repository.GetMessages(conversation)
	req.NoError(err)
	req.Len(fetchedMessages, len(diskMessages))
	req.Equal(diskMessages, fetchedMessages)
}

func Test_Record_Multiple_Messages_And_Limit(t *testing.T) {
	req := require.New(t)
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	req.NoError(err)
	defer db.Close()

	limit := 2
	repository := NewMessageRepository(db, slog.Default(), &limit)
	conversation := domain.ConversationID("conv-1")
	at := time.Now().UTC()
	for i, author := range []string{"Alice", "Bob", "Clara"} {
		err = repository.StoreMessage(DiskMessage{
			ID:           uuid.New(),
			Conversation: conversation,
			Author:       author,
			Content:      "hello",
			At:           at.Add(time.Duration(i) * time.Minute),
		})
		req.NoError(err)
	}
	fetchedMessages, err := repository.GetMessages(conversation)
	req.NoError(err)
	req.Len(fetchedMessages, limit)
}

func Test_Messages_Are_Scoped_By_Conversation(t *testing.T) {
	req := require.New(t)
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	req.NoError(err)
	defer db.Close()

	repository := NewMessageRepository(db, slog.Default(), nil)
	at := time.Now().UTC()
	first := DiskMessage{uuid.New(), "conv-1", "Alice", "in first", at}
	second := DiskMessage{uuid.New(), "conv-2", "Alice", "in second", at}
	req.NoError(repository.StoreMessage(first))
	req.NoError(repository.StoreMessage(second))

	fetched, err := repository.GetMessages("conv-1")
	req.NoError(err)
	req.Len(fetched, 1)
	req.Equal("in first", fetched[0].Content)
}
