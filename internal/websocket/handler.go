package websocket

import (
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// ServeWs handles an upgraded editor connection. It blocks until the
// connection closes.
func ServeWs(hub *Hub, c *websocket.Conn, userID, documentID uuid.UUID, events EventHandler) {
	client := &Client{
		Hub:       hub,
		Conn:      c,
		UserID:    userID,
		SessionID: uuid.NewString(),
		Send:      make(chan []byte, 256),
		events:    events,
	}

	if err := events.HandleConnect(client, documentID); err != nil {
		c.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, err.Error()))
		c.Close()
		return
	}

	client.Hub.register <- client

	go client.writePump()
	client.readPump() // Run readPump in current goroutine (handler)
}
