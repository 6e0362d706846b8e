package hub

import (
	"encoding/json"
	"log/slog"

	"github.com/gorilla/websocket"
)

// Client represents a connected WebSocket client.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	logger *slog.Logger
}

// NewClient creates a new Client attached to the hub.
func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		send:   make(chan []byte, 256),
		logger: hub.logger.With("remote", conn.RemoteAddr().String()),
	}
}

// WritePump sends messages from the send channel to the WebSocket connection.
func (c *Client) WritePump() {
	defer c.conn.Close()

	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			break
		}
	}
}

// ReadPump reads client commands and forwards them to commands without
// blocking; a command that finds the queue full is dropped.
func (c *Client) ReadPump(commands chan<- Command) {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			break
		}

		var msg ClientMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			c.logger.Warn("Bad client message", "error", err)
			continue
		}
		if !msg.Type.Valid() {
			c.logger.Warn("Unknown client command", "type", msg.Type)
			continue
		}

		select {
		case commands <- Command{Kind: msg.Type, Active: msg.Active}:
			c.logger.Debug("Client command queued", "type", msg.Type)
			if data, err := json.Marshal(NewAckMessage(string(msg.Type))); err == nil {
				c.hub.SendTo(c, data)
			}
		default:
			c.logger.Warn("Command queue full, dropped", "type", msg.Type)
		}
	}
}
