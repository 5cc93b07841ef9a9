package websockets

import (
	"time"

	"sitelog/config"
	"sitelog/internal/database"
	"sitelog/internal/events"
	"sitelog/internal/logger"
	"sitelog/internal/repositories"
	"sitelog/internal/services"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

const (
	PING_INTERVAL     = 30 * time.Second
	PONG_TIMEOUT      = 60 * time.Second
	WRITE_TIMEOUT     = 10 * time.Second
	MAX_MESSAGE_SIZE  = 1024 * 1024 // 1 MB
	SEND_CHANNEL_SIZE = 64
)

type Message struct {
	ID        string             `json:"id"`
	Type      events.MessageType `json:"type"`
	ProjectID string             `json:"projectId,omitempty"`
	UserID    string             `json:"userId,omitempty"`
	Data      map[string]any     `json:"data,omitempty"`
	Timestamp time.Time          `json:"timestamp"`
}

type Client struct {
	ID         string
	UserID     uuid.UUID
	ProjectID  uuid.UUID
	Connection *websocket.Conn
	Manager    *Manager
	Status     int
	send       chan Message
	done       chan struct{}
}

type Manager struct {
	hub         *Hub
	db          database.DB
	config      config.Config
	log         logger.Logger
	eventBus    *events.EventBus
	authService *services.AuthService
	userRepo    repositories.UserRepository
	projectRepo repositories.ProjectRepository

	// instanceID tags bus events published by this process so the relay
	// handler can tell its own publishes from those of other instances
	instanceID string
}

// originKey marks the publishing instance on relayed viewer messages. It
// is stripped before the message reaches clients.
const originKey = "originInstance"

func New(
	db database.DB,
	eventBus *events.EventBus,
	config config.Config,
	repos repositories.Repository,
	authService *services.AuthService,
) (*Manager, error) {
	log := logger.New("websockets")

	manager := &Manager{
		hub: &Hub{
			broadcast:  make(chan Message),
			register:   make(chan *Client),
			unregister: make(chan *Client),
			clients:    make(map[string]*Client),
		},
		db:          db,
		config:      config,
		log:         log,
		eventBus:    eventBus,
		authService: authService,
		userRepo:    repos.User,
		projectRepo: repos.Project,
		instanceID:  uuid.New().String(),
	}

	log.Function("New").Info("Starting websocket hub")
	go manager.hub.run(manager)

	go manager.subscribeToProjectEvents()
	go manager.subscribeToBroadcastEvents()

	return manager, nil
}

func (m *Manager) HandleWebSocket(c *websocket.Conn) {
	log := m.log.Function("HandleWebSocket")
	clientID := uuid.New().String()

	client := &Client{
		ID:         clientID,
		UserID:     uuid.Nil,
		ProjectID:  uuid.Nil,
		Connection: c,
		Manager:    m,
		Status:     STATUS_UNAUTHENTICATED,
		send:       make(chan Message, SEND_CHANNEL_SIZE),
		done:       make(chan struct{}),
	}

	if err := client.sendAuthRequest(); err != nil {
		if err := c.Close(); err != nil {
			log.Er("failed to close connection", err)
		}
		return
	}

	client.startAuthTimeout()

	m.hub.register <- client
	defer func() {
		log.Info("Client disconnected", "clientID", clientID)
		m.hub.unregister <- client
		if err := c.Close(); err != nil {
			log.Er("failed to close connection", err)
		}
	}()

	go client.readPump()
	client.writePump()
}

func (c *Client) readPump() {
	log := c.Manager.log.Function("readPump")
	defer func() {
		c.Manager.hub.unregister <- c
		_ = c.Connection.Close()
	}()

	c.Connection.SetReadLimit(MAX_MESSAGE_SIZE)
	if err := c.Connection.SetReadDeadline(time.Now().Add(PONG_TIMEOUT)); err != nil {
		log.Er("failed to set read deadline", err, "clientID", c.ID)
	}
	c.Connection.SetPongHandler(func(string) error {
		if err := c.Connection.SetReadDeadline(time.Now().Add(PONG_TIMEOUT)); err != nil {
			log.Er("failed to set read deadline in pong handler", err, "clientID", c.ID)
		}
		return nil
	})

	for {
		var message Message
		err := c.Connection.ReadJSON(&message)
		if err != nil {
			if websocket.IsUnexpectedCloseError(
				err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
			) {
				log.Er("Unexpected close error", err, "clientID", c.ID)
			}
			break
		}

		message.ID = uuid.New().String()
		message.Timestamp = time.Now()

		c.routeMessage(message)
	}
}

func (c *Client) routeMessage(message Message) {
	log := c.Manager.log.Function("routeMessage")

	if message.Type == events.AUTH_RESPONSE {
		c.handleAuthResponse(message)
		return
	}

	if c.Status == STATUS_UNAUTHENTICATED {
		c.handleUnauthenticatedMessage(message)
		return
	}

	switch message.Type {
	case events.PING:
		c.send <- Message{
			ID:        uuid.New().String(),
			Type:      events.PONG,
			Timestamp: time.Now(),
		}

	case events.SELECTION_UPDATE, events.COLOR_UPDATE:
		// Viewer state is relayed verbatim to the rest of the project
		// room, stamped with the sender so clients can ignore echoes.
		// The local hub delivers to this instance's clients; the event
		// bus carries it to the rooms on every other API instance.
		message.UserID = c.UserID.String()
		message.ProjectID = c.ProjectID.String()
		c.Manager.broadcastToProject(c.ProjectID, message, c.ID)
		c.Manager.publishViewerRelay(c, message)

	default:
		log.Warn("Unknown message type", "type", message.Type, "clientID", c.ID)
	}
}

func (c *Client) writePump() {
	log := c.Manager.log.Function("writePump")

	ticker := time.NewTicker(PING_INTERVAL)
	defer func() {
		ticker.Stop()
		_ = c.Connection.Close()
	}()

	for {
		select {
		case <-c.done:
			_ = c.Connection.SetWriteDeadline(time.Now().Add(WRITE_TIMEOUT))
			_ = c.Connection.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case message := <-c.send:
			if err := c.Connection.SetWriteDeadline(time.Now().Add(WRITE_TIMEOUT)); err != nil {
				log.Er("failed to set write deadline", err, "clientID", c.ID)
			}

			if err := c.Connection.WriteJSON(message); err != nil {
				log.Er("WebSocket write error", err, "clientID", c.ID)
				return
			}

		case <-ticker.C:
			if err := c.Connection.SetWriteDeadline(time.Now().Add(WRITE_TIMEOUT)); err != nil {
				log.Er("failed to set write deadline for ping", err, "clientID", c.ID)
			}
			if err := c.Connection.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// publishViewerRelay puts a client-originated viewer message on the event
// bus so the project rooms on other API instances receive it too.
func (m *Manager) publishViewerRelay(c *Client, message Message) {
	data := make(map[string]any, len(message.Data)+1)
	for k, v := range message.Data {
		data[k] = v
	}
	data[originKey] = m.instanceID

	projectID := c.ProjectID
	userID := c.UserID

	err := m.eventBus.Publish(events.PROJECT_CHANNEL, events.Event{
		ID:        message.ID,
		Type:      message.Type,
		ProjectID: &projectID,
		UserID:    &userID,
		Data:      data,
		Timestamp: message.Timestamp,
	})
	if err != nil {
		m.log.Function("publishViewerRelay").
			Er("failed to publish viewer relay", err, "clientID", c.ID)
	}
}

// subscribeToProjectEvents relays server-side project events, published by
// controllers on any API instance, to the clients in that project's room.
func (m *Manager) subscribeToProjectEvents() {
	log := m.log.Function("subscribeToProjectEvents")
	log.Info("Starting project events subscription")

	if err := m.eventBus.Subscribe(events.PROJECT_CHANNEL, m.relayProjectEvent); err != nil {
		log.Er("Failed to subscribe to project events", err)
	}
}

func (m *Manager) relayProjectEvent(event events.Event) error {
	log := m.log.Function("relayProjectEvent")

	if event.ProjectID == nil {
		log.Warn("Project event without project ID", "eventID", event.ID)
		return nil
	}

	data := event.Data
	if origin, ok := data[originKey].(string); ok {
		// Viewer relays from this instance already went out through the
		// local hub; delivering them again would duplicate the message.
		if origin == m.instanceID {
			return nil
		}

		data = make(map[string]any, len(event.Data))
		for k, v := range event.Data {
			if k != originKey {
				data[k] = v
			}
		}
	}

	message := Message{
		ID:        event.ID,
		Type:      event.Type,
		ProjectID: event.ProjectID.String(),
		Data:      data,
		Timestamp: event.Timestamp,
	}
	if event.UserID != nil {
		message.UserID = event.UserID.String()
	}

	m.broadcastToProject(*event.ProjectID, message, "")
	return nil
}

func (m *Manager) subscribeToBroadcastEvents() {
	log := m.log.Function("subscribeToBroadcastEvents")
	log.Info("Starting broadcast events subscription")

	err := m.eventBus.Subscribe(events.BROADCAST_CHANNEL, func(event events.Event) error {
		m.hub.broadcast <- Message{
			ID:        uuid.New().String(),
			Type:      event.Type,
			Data:      event.Data,
			Timestamp: time.Now(),
		}
		return nil
	})
	if err != nil {
		log.Er("Failed to subscribe to broadcast events", err)
	}
}
