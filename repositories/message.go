//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	"fmt"
	"log/slog"
	"time"

	"affinity-engine/domain"

	"github.com/dgraph-io/badger/v4"
	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

type IMessageRepository interface {
	StoreMessage(message DiskMessage) error
	GetMessages(conversationID domain.ConversationID) ([]DiskMessage, error)
}

// MessageRepository mirrors the conversation log into BadgerDB so a
// session can render without a round trip to the remote chat service.
type MessageRepository struct {
	db            *badger.DB
	log           *slog.Logger
	limitMessages *int
}

func NewMessageRepository(db *badger.DB, log *slog.Logger, limitMessages *int) MessageRepository {
	return MessageRepository{db: db, log: log, limitMessages: limitMessages}
}

type DiskMessage struct {
	ID           uuid.UUID
	Conversation domain.ConversationID
	Author       string
	Content      string
	At           time.Time
}

// diskRecord is the CBOR shape stored in Badger.
type diskRecord struct {
	ID           string `cbor:"1,keyasint"`
	Conversation string `cbor:"2,keyasint"`
	Author       string `cbor:"3,keyasint"`
	Content      string `cbor:"4,keyasint"`
	At           int64  `cbor:"5,keyasint"`
}

// StoreMessage persists a message in BadgerDB.
// The key is formatted as "msg:{conversation_id}:{timestamp_padded}:{uuid}" to:
//  1. Ensure chronological sorting using 19-digit zero padding (lexicographical order).
//  2. Prevent data loss by using UUID as a collision disconnector if two messages
//     arrive at the same nanosecond.
func (m MessageRepository) StoreMessage(message DiskMessage) error {
	key := fmt.Sprintf("msg:%s:%019d:%s",
		message.Conversation,
		message.At.UnixNano(),
		message.ID,
	)
	bytes, err := cbor.Marshal(fromDiskMessage(message))
	if err != nil {
		return err
	}
	return m.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), bytes)
	})
}

// GetMessages retrieves messages for a conversation using a prefix scan.
// Thanks to the padded timestamp in the key, messages are naturally sorted by time.
// It stops collecting messages once the configured limitMessages is reached.
func (m MessageRepository) GetMessages(conversationID domain.ConversationID) ([]DiskMessage, error) {
	var byteMessages [][]byte
	err := m.db.View(func(txn *badger.Txn) error {
		prefix := []byte(fmt.Sprintf("msg:%s:", conversationID))
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if m.limitMessages != nil && len(byteMessages) == *m.limitMessages {
				m.log.Debug(fmt.Sprintf("Maximum of %d message reached", *m.limitMessages))
				break
			}
			err := it.Item().Value(func(value []byte) error {
				byteMessages = append(byteMessages, append([]byte(nil), value...))
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	var diskMessages []DiskMessage
	for _, b := range byteMessages {
		var record diskRecord
		if err = cbor.Unmarshal(b, &record); err != nil {
			return nil, err
		}
		message, err := toDiskMessage(record)
		if err != nil {
			return nil, err
		}
		diskMessages = append(diskMessages, message)
	}
	return diskMessages, nil
}

// ToMessages converts disk records into domain messages.
func ToMessages(messages []DiskMessage) []domain.Message {
	return lo.Map(messages, func(item DiskMessage, _ int) domain.Message {
		return domain.Message{
			ID:             item.ID,
			ConversationID: item.Conversation,
			SenderID:       item.Author,
			Text:           item.Content,
			CreatedAt:      item.At,
		}
	})
}

func fromDiskMessage(message DiskMessage) diskRecord {
	return diskRecord{
		ID:           message.ID.String(),
		Conversation: string(message.Conversation),
		Author:       message.Author,
		Content:      message.Content,
		At:           message.At.UnixNano(),
	}
}

func toDiskMessage(record diskRecord) (DiskMessage, error) {
	parsedID, err := uuid.Parse(record.ID)
	if err != nil {
		return DiskMessage{}, err
	}
	return DiskMessage{
		ID:           parsedID,
		Conversation: domain.ConversationID(record.Conversation),
		Author:       record.Author,
		Content:      record.Content,
		At:           time.Unix(0, record.At).UTC(),
	}, nil
}
