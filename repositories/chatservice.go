package repositories

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"affinity-engine/domain"
	apperrors "affinity-engine/errors"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// ChatServiceClient talks to the external message persistence service,
// the owner of message durability.
type ChatServiceClient struct {
	endpoint   string
	httpClient *http.Client
}

func NewChatServiceClient(endpoint string, timeout time.Duration) *ChatServiceClient {
	return &ChatServiceClient{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type wireMessage struct {
	ID        string    `json:"_id"`
	ChatID    string    `json:"chatId"`
	SenderID  string    `json:"senderId"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

type postMessageRequest struct {
	ChatID   string `json:"chatId"`
	SenderID string `json:"senderId"`
	Text     string `json:"text"`
}

// PostMessage appends a message to the remote conversation log and
// returns the stored message as the service recorded it.
func (c *ChatServiceClient) PostMessage(ctx context.Context, conversationID domain.ConversationID, senderID, text string) (domain.Message, error) {
	body, err := json.Marshal(postMessageRequest{
		ChatID:   string(conversationID),
		SenderID: senderID,
		Text:     text,
	})
	if err != nil {
		return domain.Message{}, fmt.Errorf("marshal message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/messages", bytes.NewReader(body))
	if err != nil {
		return domain.Message{}, fmt.Errorf("create message request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.Message{}, fmt.Errorf("%w: %v", apperrors.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return domain.Message{}, fmt.Errorf("%w: status %d", apperrors.ErrUpstreamUnavailable, resp.StatusCode)
	}

	var wire wireMessage
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return domain.Message{}, fmt.Errorf("%w: %v", apperrors.ErrMalformedResponse, err)
	}
	return toMessage(wire), nil
}

// FetchMessages returns the remote conversation log, oldest first.
func (c *ChatServiceClient) FetchMessages(ctx context.Context, conversationID domain.ConversationID) ([]domain.Message, error) {
	url := fmt.Sprintf("%s/messages/%s", c.endpoint, conversationID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create fetch request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("%w: status %d", apperrors.ErrUpstreamUnavailable, resp.StatusCode)
	}

	var wires []wireMessage
	if err := json.NewDecoder(resp.Body).Decode(&wires); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrMalformedResponse, err)
	}
	return lo.Map(wires, func(item wireMessage, _ int) domain.Message {
		return toMessage(item)
	}), nil
}

func toMessage(wire wireMessage) domain.Message {
	id, err := uuid.Parse(wire.ID)
	if err != nil {
		// The remote service allocates its own identifier format; keep
		// ordering intact with a fresh local id rather than failing.
		id = uuid.New()
	}
	return domain.Message{
		ID:             id,
		ConversationID: domain.ConversationID(wire.ChatID),
		SenderID:       wire.SenderID,
		Text:           wire.Text,
		CreatedAt:      wire.CreatedAt.UTC(),
	}
}
