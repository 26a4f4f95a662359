package ws

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/plarkin/chatline/internal/models"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Inbound is the frame a client sends over the socket. The author identity
// comes from the authenticated session, never from the frame, and the
// timestamp is always server-assigned.
type Inbound struct {
	ChatID int64  `json:"chat_id"`
	Msg    string `json:"msg"`
}

// Sender persists a message and fans it out to live connections.
type Sender interface {
	SendMessage(chatID int64, author, body string, isAuto bool) (*models.Message, error)
}

type client struct {
	conn     *websocket.Conn
	handle   *Conn
	registry *Registry
	sender   Sender
	username string
}

// ServeWs upgrades the request and runs the two pumps for the connection.
// The caller must have authenticated username already.
func ServeWs(registry *Registry, sender Sender, w http.ResponseWriter, r *http.Request, username string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws: upgrade for %s failed: %v", username, err)
		return
	}

	c := &client{
		conn:     conn,
		handle:   registry.Register(username),
		registry: registry,
		sender:   sender,
		username: username,
	}
	go c.writePump()
	go c.readPump()
}

// readPump routes inbound frames into the send pipeline. It owns the
// unregister step: whatever way the connection dies, the handle must leave
// the registry.
func (c *client) readPump() {
	defer func() {
		c.registry.Unregister(c.username, c.handle)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("ws: read error for %s: %v", c.username, err)
			}
			return
		}

		var in Inbound
		if err := json.Unmarshal(raw, &in); err != nil {
			log.Printf("ws: invalid frame from %s: %v", c.username, err)
			continue
		}
		if _, err := c.sender.SendMessage(in.ChatID, c.username, in.Msg, false); err != nil {
			log.Printf("ws: message from %s rejected: %v", c.username, err)
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.handle.Receive():
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Registry pruned the handle.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
