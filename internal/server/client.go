package server

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/mordilloSan/go-logger/logger"
)

var errRateLimited = errors.New("rate limited")

const (
	writeWait       = 10 * time.Second
	pongWait        = 30 * time.Second
	pingPeriod      = 15 * time.Second
	maxMessageSize  = 256 * 1024
	rateLimitPerMin = 120
)

type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
	id   string

	closeOnce sync.Once

	// sendMu guards send against the hub closing it while an operation
	// goroutine is still enqueueing frames for this client.
	sendMu     sync.Mutex
	sendClosed bool

	mu         sync.Mutex
	msgCount   int
	lastMinute time.Time
}

func newClient(hub *Hub, conn *websocket.Conn, id string) *Client {
	return &Client{
		hub:        hub,
		conn:       conn,
		send:       make(chan []byte, 256),
		id:         id,
		lastMinute: time.Now(),
	}
}

// close tears down the connection. The read pump notices and
// unregisters the client from the hub.
func (c *Client) close() {
	c.closeOnce.Do(func() {
		if c.conn != nil {
			c.conn.Close()
		}
	})
}

// enqueue queues one outbound frame. Frames for a client whose queue is
// already closed are dropped silently; false means the client is
// connected but cannot keep up.
func (c *Client) enqueue(data []byte) bool {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if c.sendClosed {
		return true
	}
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

// closeSend closes the outbound queue exactly once. Called only when the
// client unregisters or the server shuts down.
func (c *Client) closeSend() {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if !c.sendClosed {
		c.sendClosed = true
		close(c.send)
	}
}

func (c *Client) rateLimited() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	if now.Sub(c.lastMinute) > time.Minute {
		c.msgCount = 0
		c.lastMinute = now
	}
	c.msgCount++
	return c.msgCount > rateLimitPerMin
}

func (c *Client) readPump(ctx context.Context) {
	defer func() {
		c.hub.unregister <- c
		c.close()
	}()

	// Close the connection when the context ends to unblock ReadMessage.
	go func() {
		<-ctx.Done()
		c.close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warnf("client %s read error: %v", c.id, err)
			}
			return
		}

		var msg Message
		if err := json.Unmarshal(message, &msg); err != nil {
			continue
		}

		if c.rateLimited() {
			c.hub.sendError(c, msg.ID, errRateLimited)
			continue
		}

		c.hub.incoming <- clientMessage{client: c, message: msg}
	}
}

func (c *Client) writePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
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
