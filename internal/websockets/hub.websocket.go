package websockets

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	STATUS_UNAUTHENTICATED = iota
	STATUS_AUTHENTICATED
	STATUS_CLOSED
)

type Hub struct {
	broadcast  chan Message
	register   chan *Client
	unregister chan *Client
	clients    map[string]*Client
	mutex      sync.RWMutex
}

func (h *Hub) run(m *Manager) {
	for {
		select {
		case client := <-h.register:
			m.registerClient(client)

		case client := <-h.unregister:
			m.unregisterClient(client)

		case message := <-h.broadcast:
			h.broadcastMessage(message, m)
		}
	}
}

func (m *Manager) registerClient(client *Client) {
	log := m.log.Function("registerClient")

	m.hub.mutex.Lock()
	defer m.hub.mutex.Unlock()

	m.hub.clients[client.ID] = client

	log.Info("Client registered", "clientID", client.ID, "status", client.Status)
}

// unregisterClient drops the client and signals its pumps through the
// done channel. The send channel itself is never closed, so concurrent
// senders cannot panic; repeated unregisters for the same client are
// no-ops.
func (m *Manager) unregisterClient(client *Client) {
	log := m.log.Function("unregisterClient")

	m.hub.mutex.Lock()
	defer m.hub.mutex.Unlock()

	if _, ok := m.hub.clients[client.ID]; !ok {
		return
	}

	delete(m.hub.clients, client.ID)
	close(client.done)

	log.Info(
		"Client unregistered",
		"clientID", client.ID,
		"userID", client.UserID,
		"projectID", client.ProjectID,
	)
}

func (h *Hub) broadcastMessage(message Message, m *Manager) {
	log := m.log.Function("broadcastMessage")

	h.mutex.RLock()
	defer h.mutex.RUnlock()

	if len(h.clients) == 0 {
		return
	}

	sentCount := 0
	for clientID, client := range h.clients {
		if client.Status != STATUS_AUTHENTICATED {
			continue
		}

		select {
		case client.send <- message:
			sentCount++
		default:
			go func(c *Client, cID string, msg Message) {
				select {
				case c.send <- msg:
					log.Info("Message sent after retry", "clientID", cID)
				case <-c.done:
				case <-time.After(5 * time.Second):
					_ = log.Error("Client too slow, disconnecting", "clientID", cID)
					m.hub.unregister <- c
				}
			}(client, clientID, message)
		}
	}

	log.Debug("Broadcast complete", "messageID", message.ID, "sentTo", sentCount)
}

// broadcastToProject fans a message out to every authenticated client in a
// project's room, optionally excluding the originating client.
func (m *Manager) broadcastToProject(projectID uuid.UUID, message Message, excludeClientID string) {
	log := m.log.Function("broadcastToProject")

	m.hub.mutex.RLock()
	defer m.hub.mutex.RUnlock()

	sentCount := 0
	for clientID, client := range m.hub.clients {
		if client.Status != STATUS_AUTHENTICATED || client.ProjectID != projectID {
			continue
		}
		if clientID == excludeClientID {
			continue
		}

		select {
		case client.send <- message:
			sentCount++
		default:
			log.Warn("Client send channel full, dropping message", "clientID", clientID)
		}
	}

	log.Debug(
		"Project broadcast complete",
		"projectID", projectID,
		"messageID", message.ID,
		"sentTo", sentCount,
	)
}

func (m *Manager) SendMessageToUser(userID uuid.UUID, message Message) {
	log := m.log.Function("SendMessageToUser")

	m.hub.mutex.RLock()
	defer m.hub.mutex.RUnlock()

	sentCount := 0
	for clientID, client := range m.hub.clients {
		if client.Status != STATUS_AUTHENTICATED || client.UserID != userID {
			continue
		}

		select {
		case client.send <- message:
			sentCount++
		default:
			go func(c *Client, cID string, msg Message) {
				select {
				case c.send <- msg:
					log.Info("Message sent after retry", "clientID", cID, "userID", userID)
				case <-time.After(5 * time.Second):
					_ = log.Error("Client too slow, disconnecting", "clientID", cID)
					m.hub.unregister <- c
				}
			}(client, clientID, message)
		}
	}

	if sentCount == 0 {
		log.Debug("No connections found for user", "userID", userID)
	}
}
