package websockets

import (
	"testing"
	"time"

	"sitelog/internal/events"
	"sitelog/internal/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(instanceID string) *Manager {
	return &Manager{
		hub: &Hub{
			clients: make(map[string]*Client),
		},
		log:        logger.New("websockets"),
		instanceID: instanceID,
	}
}

func addTestClient(m *Manager, projectID uuid.UUID) *Client {
	client := &Client{
		ID:        uuid.New().String(),
		UserID:    uuid.New(),
		ProjectID: projectID,
		Manager:   m,
		Status:    STATUS_AUTHENTICATED,
		send:      make(chan Message, SEND_CHANNEL_SIZE),
		done:      make(chan struct{}),
	}
	m.hub.clients[client.ID] = client
	return client
}

func TestRelayProjectEventSkipsOwnInstance(t *testing.T) {
	manager := newTestManager("instance-a")
	projectID := uuid.New()
	client := addTestClient(manager, projectID)

	// A relay this instance published already reached its local room
	err := manager.relayProjectEvent(events.Event{
		ID:        uuid.New().String(),
		Type:      events.SELECTION_UPDATE,
		ProjectID: &projectID,
		Data:      map[string]any{"objects": []any{"guid-1"}, originKey: "instance-a"},
		Timestamp: time.Now(),
	})
	require.NoError(t, err)
	assert.Empty(t, client.send)
}

func TestRelayProjectEventDeliversFromOtherInstance(t *testing.T) {
	manager := newTestManager("instance-a")
	projectID := uuid.New()
	client := addTestClient(manager, projectID)
	userID := uuid.New()

	err := manager.relayProjectEvent(events.Event{
		ID:        uuid.New().String(),
		Type:      events.COLOR_UPDATE,
		ProjectID: &projectID,
		UserID:    &userID,
		Data:      map[string]any{"color": "#ff0000", originKey: "instance-b"},
		Timestamp: time.Now(),
	})
	require.NoError(t, err)

	require.Len(t, client.send, 1)
	message := <-client.send
	assert.Equal(t, events.COLOR_UPDATE, message.Type)
	assert.Equal(t, userID.String(), message.UserID)
	assert.Equal(t, "#ff0000", message.Data["color"])
	assert.NotContains(t, message.Data, originKey)
}

func TestRelayProjectEventDeliversServerEvents(t *testing.T) {
	manager := newTestManager("instance-a")
	projectID := uuid.New()
	client := addTestClient(manager, projectID)

	// Controller-published events carry no origin and always fan out
	err := manager.relayProjectEvent(events.Event{
		ID:        uuid.New().String(),
		Type:      events.INSTALLATION_CREATED,
		ProjectID: &projectID,
		Data:      map[string]any{"month": "2026-03"},
		Timestamp: time.Now(),
	})
	require.NoError(t, err)
	assert.Len(t, client.send, 1)
}

func TestRelayProjectEventScopedToRoom(t *testing.T) {
	manager := newTestManager("instance-a")
	projectID := uuid.New()
	inRoom := addTestClient(manager, projectID)
	otherRoom := addTestClient(manager, uuid.New())

	err := manager.relayProjectEvent(events.Event{
		ID:        uuid.New().String(),
		Type:      events.SELECTION_UPDATE,
		ProjectID: &projectID,
		Data:      map[string]any{originKey: "instance-b"},
		Timestamp: time.Now(),
	})
	require.NoError(t, err)
	assert.Len(t, inRoom.send, 1)
	assert.Empty(t, otherRoom.send)
}

func TestUnregisterClientIsIdempotent(t *testing.T) {
	manager := newTestManager("instance-a")
	client := addTestClient(manager, uuid.New())

	manager.unregisterClient(client)
	manager.unregisterClient(client)

	select {
	case <-client.done:
	default:
		t.Fatal("done channel should be closed after unregister")
	}

	// The send channel stays open, so a broadcast racing the unregister
	// cannot panic the hub
	assert.NotPanics(t, func() {
		client.send <- Message{ID: uuid.New().String()}
	})
}
