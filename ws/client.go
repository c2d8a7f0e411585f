package ws

import (
	"time"

	"estatedesk_backend/internal/logger"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 256
)

// Client pumps events from a hub connection onto a websocket and tears
// the registration down when either side goes away.
type Client struct {
	conn *Conn
	sock *websocket.Conn
	hub  *Hub
}

func newClient(hub *Hub, conn *Conn, sock *websocket.Conn) *Client {
	return &Client{
		conn: conn,
		sock: sock,
		hub:  hub,
	}
}

// readPump drains inbound frames. The stream is server-to-client only,
// so incoming payloads are discarded; the read loop exists to observe
// pongs and the close handshake.
func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister(c.conn.ID)
		c.sock.Close()
	}()

	c.sock.SetReadLimit(512)
	c.sock.SetReadDeadline(time.Now().Add(pongWait))
	c.sock.SetPongHandler(func(string) error {
		return c.sock.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.sock.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debug("websocket read error", "conn_id", c.conn.ID, "error", err)
			}
			return
		}
	}
}

// writePump forwards hub events to the socket and keeps the connection
// alive with pings. A write failure counts as a disconnect.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.hub.Unregister(c.conn.ID)
		c.sock.Close()
	}()

	for {
		select {
		case event, ok := <-c.conn.Send:
			if !ok {
				// Hub closed the channel (unregistered or shutdown).
				c.sock.SetWriteDeadline(time.Now().Add(writeWait))
				c.sock.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			c.sock.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.sock.WriteJSON(event); err != nil {
				logger.Debug("websocket write error", "conn_id", c.conn.ID, "error", err)
				return
			}
		case <-ticker.C:
			c.sock.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.sock.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
