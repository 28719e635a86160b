package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	apperrors "affinity-engine/errors"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func Test_Infer_Returns_Reply_Without_Score(t *testing.T) {
	req := require.New(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]string
		req.NoError(json.NewDecoder(r.Body).Decode(&payload))
		req.Equal("user-1", payload["user_id"])
		req.Equal("hello", payload["message"])
		_ = json.NewEncoder(w).Encode(map[string]any{"response": "hi there"})
	}))
	defer server.Close()

	bridge := NewBridge(server.URL, time.Second)
	reply, err := bridge.Infer(context.Background(), "user-1", "hello")

	req.NoError(err)
	req.Equal("hi there", reply.Text)
	req.False(reply.Scored())
}

func Test_Infer_Zero_Compatibility_Is_Still_Scored(t *testing.T) {
	req := require.New(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"response":      "noted",
			"compatibility": 0.0,
		})
	}))
	defer server.Close()

	bridge := NewBridge(server.URL, time.Second)
	reply, err := bridge.Infer(context.Background(), "user-1", "hello")

	req.NoError(err)
	req.True(reply.Scored())
	req.Equal(lo.ToPtr(0.0), reply.Compatibility)
}

func Test_Infer_Missing_Response_Field_Is_Malformed(t *testing.T) {
	req := require.New(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"compatibility": 0.4})
	}))
	defer server.Close()

	bridge := NewBridge(server.URL, time.Second)
	_, err := bridge.Infer(context.Background(), "user-1", "hello")

	req.Error(err)
	req.True(errors.Is(err, apperrors.ErrMalformedResponse))
}

func Test_Infer_Transport_Failure_Is_Upstream_Unavailable(t *testing.T) {
	req := require.New(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	bridge := NewBridge(server.URL, time.Second)
	_, err := bridge.Infer(context.Background(), "user-1", "hello")

	req.Error(err)
	req.True(errors.Is(err, apperrors.ErrUpstreamUnavailable))
}
