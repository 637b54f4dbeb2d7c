package realtime

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mcoot/rpsarena/internal/dependencies/random"
	"github.com/mcoot/rpsarena/internal/model"
	"github.com/mcoot/rpsarena/internal/protocol"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Time between keepalive pings, must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Largest inbound frame accepted
	maxMessageSize = 4096

	// Buffer size for outgoing messages
	sendBufferSize = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Client represents a connected WebSocket participant
type Client struct {
	hub         *Hub
	handle      model.Handle
	conn        *websocket.Conn
	send        chan []byte
	connectedAt time.Time
}

// NewClient creates a new client. conn may be nil for clients that are never pumped.
func NewClient(hub *Hub, handle model.Handle, conn *websocket.Conn) *Client {
	return &Client{
		hub:         hub,
		handle:      handle,
		conn:        conn,
		send:        make(chan []byte, sendBufferSize),
		connectedAt: time.Now(),
	}
}

// Handle returns the client's connection handle
func (c *Client) Handle() model.Handle {
	return c.handle
}

// Send returns the channel of encoded frames queued for the client
func (c *Client) Send() <-chan []byte {
	return c.send
}

// ServeWS upgrades the request and attaches a new client to the hub
func ServeWS(hub *Hub, rnd random.Random, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written an error response
		hub.logger.Debug("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	client := NewClient(hub, model.Handle(rnd.UUID()), conn)
	if err := hub.Register(client); err != nil {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(writeWait))
		_ = conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

// readPump decodes inbound frames and forwards them to the hub.
// Malformed frames are dropped; the connection stays open.
func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, frame, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Debug("websocket read error",
					slog.String("handle", string(c.handle)),
					slog.String("error", err.Error()))
			}
			return
		}

		cmd, err := protocol.DecodeCommand(frame)
		if err != nil {
			c.hub.logger.Debug("inbound frame dropped",
				slog.String("handle", string(c.handle)),
				slog.String("error", err.Error()))
			continue
		}

		c.hub.Submit(c, cmd)
	}
}

// writePump drains the send channel to the socket and keeps it alive with pings
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
