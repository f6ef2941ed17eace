package websocket

import (
	"encoding/json"
	"log"
	"time"

	"ai-writeassist-be/internal/dto"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024 // full block text travels on every content_changed
)

// EventHandler receives the lifecycle and editor events of a connection.
// Implemented by the editor session service.
type EventHandler interface {
	HandleConnect(c *Client, documentID uuid.UUID) error
	HandleEditorEvent(c *Client, event dto.EditorEvent)
	HandleDisconnect(c *Client)
}

// Client is a middleman between the websocket connection and the hub.
type Client struct {
	Hub *Hub

	// The websocket connection.
	Conn *websocket.Conn

	// UserID associated with this connection
	UserID uuid.UUID

	// SessionID identifies this connection in the session repository.
	SessionID string

	// Buffered channel of outbound messages.
	Send chan []byte

	events EventHandler
}

// WriteCommand queues an editor command for this connection only.
func (c *Client) WriteCommand(cmd dto.EditorCommand) {
	data, err := json.Marshal(cmd)
	if err != nil {
		return
	}
	select {
	case c.Send <- data:
	default:
		log.Printf("editor command dropped for session %s: send buffer full", c.SessionID)
	}
}

// readPump pumps editor events from the websocket connection to the handler.
func (c *Client) readPump() {
	defer func() {
		c.events.HandleDisconnect(c)
		c.Hub.unregister <- c
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("readPump error for session %s: %v", c.SessionID, err)
			}
			break
		}

		var event dto.EditorEvent
		if err := json.Unmarshal(raw, &event); err != nil {
			log.Printf("malformed editor event for session %s: %v", c.SessionID, err)
			continue
		}
		c.events.HandleEditorEvent(c, event)
	}
}

// writePump pumps messages from the hub to the websocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
