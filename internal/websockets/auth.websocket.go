package websockets

import (
	"context"
	"time"

	"sitelog/internal/events"

	"github.com/google/uuid"
)

const AUTH_HANDSHAKE_TIMEOUT = 10 * time.Second

// sendAuthRequest sends the initial authentication challenge to a client.
func (c *Client) sendAuthRequest() error {
	log := c.Manager.log.Function("sendAuthRequest")

	authRequest := Message{
		ID:        uuid.New().String(),
		Type:      events.AUTH_REQUEST,
		Data:      map[string]any{"action": "authenticate"},
		Timestamp: time.Now(),
	}

	if err := c.Connection.WriteJSON(authRequest); err != nil {
		log.Er("failed to send auth request", err, "clientID", c.ID)
		return err
	}

	return nil
}

// startAuthTimeout disconnects clients that never complete the handshake.
func (c *Client) startAuthTimeout() {
	log := c.Manager.log.Function("startAuthTimeout")

	go func() {
		time.Sleep(AUTH_HANDSHAKE_TIMEOUT)
		if c.Status == STATUS_UNAUTHENTICATED {
			log.Warn("Client failed to authenticate within timeout, disconnecting",
				"clientID", c.ID,
				"timeout", AUTH_HANDSHAKE_TIMEOUT)

			authTimeout := Message{
				ID:        uuid.New().String(),
				Type:      events.AUTH_FAILURE,
				Data:      map[string]any{"reason": "Authentication timeout"},
				Timestamp: time.Now(),
			}

			select {
			case c.send <- authTimeout:
				time.Sleep(100 * time.Millisecond)
			default:
			}

			if err := c.Connection.Close(); err != nil {
				log.Er("failed to close connection after auth timeout", err, "clientID", c.ID)
			}
		}
	}()
}

// handleAuthResponse validates the client's session token and joins them to
// the requested project's room. The payload carries a token and a projectId.
func (c *Client) handleAuthResponse(message Message) {
	log := c.Manager.log.Function("handleAuthResponse")

	if c.Status != STATUS_UNAUTHENTICATED {
		log.Warn("Auth response from already authenticated client", "clientID", c.ID)
		return
	}

	token, ok := message.Data["token"].(string)
	if !ok || token == "" {
		log.Warn("Invalid token in auth response", "clientID", c.ID)
		c.sendAuthFailure("Invalid token format")
		return
	}

	projectIDRaw, ok := message.Data["projectId"].(string)
	if !ok || projectIDRaw == "" {
		log.Warn("Missing project ID in auth response", "clientID", c.ID)
		c.sendAuthFailure("Project ID required")
		return
	}

	projectID, err := uuid.Parse(projectIDRaw)
	if err != nil {
		log.Warn("Invalid project ID in auth response", "clientID", c.ID, "projectID", projectIDRaw)
		c.sendAuthFailure("Invalid project ID")
		return
	}

	ctx := context.Background()

	claims, err := c.Manager.authService.ValidateToken(ctx, token)
	if err != nil {
		log.Info("WebSocket token validation failed", "clientID", c.ID, "error", err.Error())
		c.sendAuthFailure("Authentication failed")
		return
	}

	user, err := c.Manager.userRepo.GetByID(ctx, claims.UserID)
	if err != nil || user == nil || !user.IsActive {
		log.Info("WebSocket user not usable", "clientID", c.ID, "userID", claims.UserID)
		c.sendAuthFailure("User not found")
		return
	}

	if !user.IsAdmin {
		member, err := c.Manager.projectRepo.GetMember(ctx, projectID, user.ID)
		if err != nil || member == nil {
			log.Info("WebSocket user is not a project member",
				"clientID", c.ID,
				"userID", user.ID,
				"projectID", projectID)
			c.sendAuthFailure("Not a project member")
			return
		}
	}

	c.Status = STATUS_AUTHENTICATED
	c.UserID = user.ID
	c.ProjectID = projectID

	log.Info("WebSocket client authenticated",
		"clientID", c.ID,
		"userID", user.ID,
		"projectID", projectID)

	authSuccess := Message{
		ID:        uuid.New().String(),
		Type:      events.AUTH_SUCCESS,
		ProjectID: projectID.String(),
		UserID:    c.UserID.String(),
		Data:      map[string]any{"userId": c.UserID.String()},
		Timestamp: time.Now(),
	}

	c.send <- authSuccess

	joined := Message{
		ID:        uuid.New().String(),
		Type:      events.USER_JOIN,
		ProjectID: projectID.String(),
		UserID:    c.UserID.String(),
		Data:      map[string]any{"name": user.Name},
		Timestamp: time.Now(),
	}
	c.Manager.broadcastToProject(projectID, joined, c.ID)
}

// handleUnauthenticatedMessage rejects traffic sent before the handshake.
func (c *Client) handleUnauthenticatedMessage(message Message) {
	log := c.Manager.log.Function("handleUnauthenticatedMessage")

	log.Warn(
		"Blocking message from unauthenticated client",
		"clientID", c.ID,
		"messageType", message.Type,
	)

	c.send <- Message{
		ID:        uuid.New().String(),
		Type:      events.AUTH_FAILURE,
		Data:      map[string]any{"reason": "Authentication required"},
		Timestamp: time.Now(),
	}
}

// sendAuthFailure reports a failed handshake and closes the connection.
func (c *Client) sendAuthFailure(reason string) {
	log := c.Manager.log.Function("sendAuthFailure")

	authFailure := Message{
		ID:        uuid.New().String(),
		Type:      events.AUTH_FAILURE,
		Data:      map[string]any{"reason": reason},
		Timestamp: time.Now(),
	}

	c.send <- authFailure

	log.Info("Auth failure sent, closing connection", "clientID", c.ID, "reason", reason)

	go func() {
		time.Sleep(100 * time.Millisecond)
		_ = c.Connection.Close()
	}()
}
