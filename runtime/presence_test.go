package runtime_test

import (
	"log/slog"
	"testing"

	"affinity-engine/domain/event"
	"affinity-engine/runtime"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Presence_Push_Marks_Users_Online(t *testing.T) {
	channel := newFakeChannel(true)
	tracker := runtime.NewPresenceTracker(slog.Default(), nil)
	tracker.Attach(channel)
	defer tracker.Detach()

	channel.Push("presence", []map[string]string{
		{"userId": "alice"},
		{"userId": "bob"},
	})

	assert.True(t, tracker.IsOnline("alice"))
	assert.True(t, tracker.IsOnline("bob"))
	assert.False(t, tracker.IsOnline("mallory"))
}

func Test_Presence_Push_Replaces_The_Previous_Set(t *testing.T) {
	channel := newFakeChannel(true)
	tracker := runtime.NewPresenceTracker(slog.Default(), nil)
	tracker.Attach(channel)
	defer tracker.Detach()

	channel.Push("presence", []map[string]string{{"userId": "alice"}})
	channel.Push("presence", []map[string]string{{"userId": "bob"}})

	assert.False(t, tracker.IsOnline("alice"))
	assert.True(t, tracker.IsOnline("bob"))
}

func Test_Presence_Emits_Change_Events(t *testing.T) {
	channel := newFakeChannel(true)
	events := make(chan event.DomainEvent, 4)
	tracker := runtime.NewPresenceTracker(slog.Default(), events)
	tracker.Attach(channel)
	defer tracker.Detach()

	channel.Push("presence", []map[string]string{{"userId": "alice"}})

	select {
	case e := <-events:
		changed, ok := e.(event.PresenceChanged)
		require.True(t, ok)
		assert.Equal(t, []string{"alice"}, changed.Online)
	default:
		t.Fatal("expected a PresenceChanged event")
	}
}

func Test_Detached_Tracker_Ignores_Pushes(t *testing.T) {
	channel := newFakeChannel(true)
	tracker := runtime.NewPresenceTracker(slog.Default(), nil)
	tracker.Attach(channel)
	channel.Push("presence", []map[string]string{{"userId": "alice"}})

	tracker.Detach()
	channel.Push("presence", []map[string]string{{"userId": "bob"}})

	assert.True(t, tracker.IsOnline("alice"))
	assert.False(t, tracker.IsOnline("bob"))
}
