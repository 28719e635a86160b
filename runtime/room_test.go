package runtime_test

import (
	"errors"
	"log/slog"
	"testing"

	"affinity-engine/domain"
	"affinity-engine/domain/event"
	apperrors "affinity-engine/errors"
	"affinity-engine/runtime"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Request_Join_On_Disconnected_Channel_Emits_Nothing(t *testing.T) {
	channel := newFakeChannel(false)
	room := runtime.NewRoomCoordinator(slog.Default(), channel, nil, nil)
	room.Attach("conv-1")

	err := room.RequestJoin("alice@example.com", "conv-1")

	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrChannelUnavailable))
	assert.Empty(t, channel.Emitted(), "no event may leave the client")
}

func Test_Request_Join_Emits_Join_Event(t *testing.T) {
	channel := newFakeChannel(true)
	room := runtime.NewRoomCoordinator(slog.Default(), channel, nil, nil)
	room.Attach("conv-1")

	err := room.RequestJoin("alice@example.com", "conv-1")

	require.NoError(t, err)
	emitted := channel.Emitted()
	require.Len(t, emitted, 1)
	assert.Equal(t, "room:join", emitted[0].name)
	assert.Equal(t, domain.RoomJoinRequested, room.State())
}

func Test_Join_Confirmation_Activates_Room_And_Navigates(t *testing.T) {
	channel := newFakeChannel(true)
	events := make(chan event.DomainEvent, 4)
	var navigatedTo domain.RoomID
	room := runtime.NewRoomCoordinator(slog.Default(), channel, events, func(roomID domain.RoomID) {
		navigatedTo = roomID
	})
	room.Attach("conv-1")
	require.NoError(t, room.RequestJoin("alice@example.com", "conv-1"))

	channel.Push("room:join", map[string]string{"room": "conv-1"})

	assert.Equal(t, domain.RoomActive, room.State())
	assert.Equal(t, domain.RoomID("conv-1"), navigatedTo)

	select {
	case e := <-events:
		activated, ok := e.(event.RoomActivated)
		require.True(t, ok)
		assert.Equal(t, domain.RoomID("conv-1"), activated.Room)
	default:
		t.Fatal("expected a RoomActivated event")
	}
}

func Test_Confirmation_Without_Room_Falls_Back_To_Conversation_ID(t *testing.T) {
	channel := newFakeChannel(true)
	var navigatedTo domain.RoomID
	room := runtime.NewRoomCoordinator(slog.Default(), channel, nil, func(roomID domain.RoomID) {
		navigatedTo = roomID
	})
	room.Attach("conv-1")

	channel.Push("room:join", map[string]string{})

	assert.Equal(t, domain.RoomID("conv-1"), navigatedTo)
}

func Test_Close_Detaches_The_Join_Subscription(t *testing.T) {
	channel := newFakeChannel(true)
	var navigated bool
	room := runtime.NewRoomCoordinator(slog.Default(), channel, nil, func(domain.RoomID) {
		navigated = true
	})
	room.Attach("conv-1")

	room.Close()
	channel.Push("room:join", map[string]string{"room": "conv-1"})

	assert.False(t, navigated, "a closed session must not handle confirmations")
}

func Test_Connected_Channel_Reports_Connected_State(t *testing.T) {
	channel := newFakeChannel(true)
	room := runtime.NewRoomCoordinator(slog.Default(), channel, nil, nil)
	room.Attach("conv-1")

	assert.Equal(t, domain.RoomConnected, room.State())
}
