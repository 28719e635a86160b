// Package ai bridges the session engine to the external inference
// endpoint that powers the conversational counterpart.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"affinity-engine/domain"
	apperrors "affinity-engine/errors"
)

// Bridge is the stateless adapter to the AI inference endpoint.
// Failures are reported to the caller, never retried here.
type Bridge struct {
	endpoint   string
	httpClient *http.Client
}

func NewBridge(endpoint string, timeout time.Duration) *Bridge {
	return &Bridge{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type inferRequest struct {
	UserID  string `json:"user_id"`
	Message string `json:"message"`
}

type inferResponse struct {
	Response      *string  `json:"response"`
	Compatibility *float64 `json:"compatibility"`
}

// Infer sends one user turn to the endpoint and interprets the result.
// Compatibility stays a pointer: its presence, not its value, gates the
// scoring path, so an explicit 0.0 is still a scored turn.
func (b *Bridge) Infer(ctx context.Context, userID, text string) (domain.AIReply, error) {
	body, err := json.Marshal(inferRequest{UserID: userID, Message: text})
	if err != nil {
		return domain.AIReply{}, fmt.Errorf("marshal inference request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.endpoint, bytes.NewReader(body))
	if err != nil {
		return domain.AIReply{}, fmt.Errorf("create inference request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return domain.AIReply{}, fmt.Errorf("%w: %v", apperrors.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return domain.AIReply{}, fmt.Errorf("%w: status %d", apperrors.ErrUpstreamUnavailable, resp.StatusCode)
	}

	var parsed inferResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return domain.AIReply{}, fmt.Errorf("%w: %v", apperrors.ErrMalformedResponse, err)
	}
	if parsed.Response == nil {
		return domain.AIReply{}, fmt.Errorf("%w: missing response field", apperrors.ErrMalformedResponse)
	}

	return domain.AIReply{Text: *parsed.Response, Compatibility: parsed.Compatibility}, nil
}
