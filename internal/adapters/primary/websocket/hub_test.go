package websocket

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/queuedesk/queue-backend/internal/core/domain"
)

func newTestHub() *Hub {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	hub := NewHub(logger)
	go hub.Run()
	return hub
}

// newTestClient builds a client without a live connection. The pumps are
// never started; tests read from Send directly.
func newTestClient(hub *Hub, buffer int) *Client {
	return &Client{
		Hub:    hub,
		Send:   make(chan domain.Event, buffer),
		UserID: uuid.New(),
	}
}

func TestHub_RegisterUnregister(t *testing.T) {
	hub := newTestHub()
	client := newTestClient(hub, 1)

	hub.Register <- client
	require.Eventually(t, func() bool {
		return hub.GetClientCount() == 1
	}, time.Second, 10*time.Millisecond)

	assert.True(t, hub.IsUserConnected(client.UserID))

	hub.Unregister <- client
	require.Eventually(t, func() bool {
		return hub.GetClientCount() == 0
	}, time.Second, 10*time.Millisecond)

	// The send channel is closed on unregister.
	_, open := <-client.Send
	assert.False(t, open)
}

func TestHub_BroadcastReachesAllClients(t *testing.T) {
	hub := newTestHub()

	first := newTestClient(hub, 4)
	second := newTestClient(hub, 4)
	hub.Register <- first
	hub.Register <- second
	require.Eventually(t, func() bool {
		return hub.GetClientCount() == 2
	}, time.Second, 10*time.Millisecond)

	event := domain.Event{Type: domain.EventTicketCreated, TicketID: uuid.New()}
	require.NoError(t, hub.Broadcast(event))

	for _, client := range []*Client{first, second} {
		select {
		case got := <-client.Send:
			assert.Equal(t, event, got)
		case <-time.After(time.Second):
			t.Fatal("client did not receive broadcast event")
		}
	}
}

func TestHub_SlowClientIsDropped(t *testing.T) {
	hub := newTestHub()

	slow := newTestClient(hub, 1)
	healthy := newTestClient(hub, 4)
	hub.Register <- slow
	hub.Register <- healthy
	require.Eventually(t, func() bool {
		return hub.GetClientCount() == 2
	}, time.Second, 10*time.Millisecond)

	// Fill the slow client's buffer, then broadcast again: the second
	// event cannot be queued and the client must be dropped.
	require.NoError(t, hub.Broadcast(domain.Event{Type: domain.EventTicketCreated, TicketID: uuid.New()}))
	require.NoError(t, hub.Broadcast(domain.Event{Type: domain.EventTicketUpdated, TicketID: uuid.New()}))

	require.Eventually(t, func() bool {
		return hub.GetClientCount() == 1
	}, time.Second, 10*time.Millisecond)

	assert.True(t, hub.IsUserConnected(healthy.UserID))
	assert.False(t, hub.IsUserConnected(slow.UserID))
}

func TestHub_BroadcastNeverBlocks(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	hub := NewHub(logger) // Run loop intentionally not started

	done := make(chan struct{})
	go func() {
		defer close(done)
		// More events than the internal buffer holds.
		for i := 0; i < 1000; i++ {
			_ = hub.Broadcast(domain.Event{Type: domain.EventTicketCreated, TicketID: uuid.New()})
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Broadcast blocked with a full buffer and no consumer")
	}
}
