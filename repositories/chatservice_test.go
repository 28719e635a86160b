package repositories

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"affinity-engine/domain"

	"github.com/stretchr/testify/require"
)

func Test_Post_Message_Returns_Stored_Message(t *testing.T) {
	req := require.New(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req.Equal(http.MethodPost, r.Method)
		req.Equal("/messages", r.URL.Path)

		var payload postMessageRequest
		req.NoError(json.NewDecoder(r.Body).Decode(&payload))

		_ = json.NewEncoder(w).Encode(wireMessage{
			ID:        "0b8d0cbe-4f1c-4a2b-9f5e-3d8a1b2c3d4e",
			ChatID:    payload.ChatID,
			SenderID:  payload.SenderID,
			Text:      payload.Text,
			CreatedAt: time.Now().UTC(),
		})
	}))
	defer server.Close()

	client := NewChatServiceClient(server.URL, time.Second)
	message, err := client.PostMessage(context.Background(), "conv-1", "alice", "hello")

	req.NoError(err)
	req.Equal(domain.ConversationID("conv-1"), message.ConversationID)
	req.Equal("alice", message.SenderID)
	req.Equal("hello", message.Text)
}

func Test_Fetch_Messages_Preserves_Order(t *testing.T) {
	req := require.New(t)
	at := time.Now().UTC()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req.Equal("/messages/conv-1", r.URL.Path)
		_ = json.NewEncoder(w).Encode([]wireMessage{
			{ID: "1", ChatID: "conv-1", SenderID: "alice", Text: "first", CreatedAt: at},
			{ID: "2", ChatID: "conv-1", SenderID: "bob", Text: "second", CreatedAt: at.Add(time.Second)},
		})
	}))
	defer server.Close()

	client := NewChatServiceClient(server.URL, time.Second)
	messages, err := client.FetchMessages(context.Background(), "conv-1")

	req.NoError(err)
	req.Len(messages, 2)
	req.Equal("first", messages[0].Text)
	req.Equal("second", messages[1].Text)
}
