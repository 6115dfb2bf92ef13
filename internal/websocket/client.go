package websocket

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// Subscribers never send data frames; anything bigger than a close reason is abuse.
	maxInboundSize = 128

	// feedBuffer is how many events may queue for one subscriber before it is dropped
	feedBuffer = 64
)

// Client is one read-only subscriber to the public feed.
// Events are queued per subscriber; a subscriber whose queue fills is dropped by the hub
// and is expected to reconnect and reload the feed.
type Client struct {
	id          string
	conn        *websocket.Conn
	hub         *Hub
	queue       chan []byte
	connectedAt time.Time

	mu        sync.RWMutex
	closed    bool
	closeOnce sync.Once
}

// NewClient wraps an upgraded connection as a feed subscriber
func NewClient(conn *websocket.Conn, hub *Hub) *Client {
	return &Client{
		id:          uuid.New().String(),
		conn:        conn,
		hub:         hub,
		queue:       make(chan []byte, feedBuffer),
		connectedAt: time.Now(),
	}
}

// ID returns the subscriber id
func (c *Client) ID() string {
	return c.id
}

// Send queues an encoded event without blocking the publisher.
// It returns ErrSlowSubscriber when the queue is full.
func (c *Client) Send(data []byte) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return ErrClientClosed
	}

	select {
	case c.queue <- data:
		return nil
	default:
		return ErrSlowSubscriber
	}
}

// Close ends the subscription. It is idempotent.
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		close(c.queue)
		c.mu.Unlock()

		err = c.conn.Close()
	})
	return err
}

// ReadPump discards inbound frames and answers pongs until the peer goes away,
// then removes the subscriber from the hub. Run it in its own goroutine.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.Close()
		log.Info().
			Str("client_id", c.id).
			Dur("connected_for", time.Since(c.connectedAt)).
			Msg("Feed subscriber disconnected")
	}()

	c.conn.SetReadLimit(maxInboundSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warn().Err(err).Str("client_id", c.id).Msg("Feed subscriber closed unexpectedly")
			}
			return
		}
	}
}

// WritePump delivers queued events and keeps the connection alive with pings.
// It stops once the queue is closed. Run it in its own goroutine.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case event, ok := <-c.queue:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, event); err != nil {
				log.Warn().Err(err).Str("client_id", c.id).Msg("Failed to write feed event")
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
