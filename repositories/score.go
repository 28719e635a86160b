package repositories

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	apperrors "affinity-engine/errors"
)

// ScoreClient persists compatibility scores to the durable profile
// store. The store accepts integer percentages only.
type ScoreClient struct {
	endpoint   string
	httpClient *http.Client
}

func NewScoreClient(endpoint string, timeout time.Duration) *ScoreClient {
	return &ScoreClient{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type updateScoreRequest struct {
	Email string `json:"email"`
	Score int    `json:"score"`
}

// Update issues a PUT to the score service. Only a 202 status counts as
// accepted; anything else is a rejection the caller must surface.
func (c *ScoreClient) Update(ctx context.Context, email string, percent int) error {
	body, err := json.Marshal(updateScoreRequest{Email: email, Score: percent})
	if err != nil {
		return fmt.Errorf("marshal score update: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.endpoint+"/updatescore", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create score request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		return fmt.Errorf("%w: status %d", apperrors.ErrPersistenceRejected, resp.StatusCode)
	}
	return nil
}
