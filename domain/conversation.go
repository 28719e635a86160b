// Package domain contains core concepts of the session engine.
// This file defines Conversation entities and their invariants.
// No runtime, network, or UI logic should be added here.
package domain

// AIBotSenderID is the reserved identity of the automated counterpart
// in a human-to-AI conversation.
const AIBotSenderID = "66c5e5a825f42519a77afa5f"

// Conversation is a two-party context scoping an ordered message log.
// One participant may be the reserved AI-bot identity.
type Conversation struct {
	ID           ConversationID
	Participants [2]string
}

func NewConversation(id ConversationID, first, second string) Conversation {
	return Conversation{ID: id, Participants: [2]string{first, second}}
}

// NewAIConversation pairs a human user with the reserved AI-bot identity.
func NewAIConversation(id ConversationID, userID string) Conversation {
	return NewConversation(id, userID, AIBotSenderID)
}

// HasParticipant reports whether senderID is one of the two participants.
func (c Conversation) HasParticipant(senderID string) bool {
	return c.Participants[0] == senderID || c.Participants[1] == senderID
}

// IsWithAI reports whether the counterpart is the reserved AI-bot identity.
func (c Conversation) IsWithAI() bool {
	return c.HasParticipant(AIBotSenderID)
}
