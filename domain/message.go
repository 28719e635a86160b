// Package domain contains core concepts of the session engine.
// This file defines Message entities and related rules.
// Messages are immutable and validated by the domain.
package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// ConversationID identifies a two-party conversation.
type ConversationID string

// Message represents an immutable chat entry.
// Ordering within a conversation is by append order.
type Message struct {
	ID             uuid.UUID
	ConversationID ConversationID
	SenderID       string
	Text           string
	CreatedAt      time.Time
}

// NewMessage builds a message with a fresh identifier and UTC timestamp.
func NewMessage(conversationID ConversationID, senderID, text string) Message {
	return Message{
		ID:             uuid.New(),
		ConversationID: conversationID,
		SenderID:       senderID,
		Text:           text,
		CreatedAt:      time.Now().UTC(),
	}
}

// IsBlank reports whether the text carries no content once trimmed.
func IsBlank(text string) bool {
	return strings.TrimSpace(text) == ""
}
