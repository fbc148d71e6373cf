package ws

import (
	"context"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	writeWait    = 10 * time.Second
	pingInterval = 54 * time.Second
	sendBuffer   = 256
)

// Client is one websocket connection. Its id is the trusted player identity
// for the lifetime of the connection.
type Client struct {
	ID       string
	Username string

	conn   *websocket.Conn
	send   chan []byte
	ctx    context.Context
	cancel context.CancelFunc
	once   sync.Once
}

func NewClient(conn *websocket.Conn) *Client {
	ctx, cancel := context.WithCancel(context.Background())
	return &Client{
		ID:     uuid.NewString(),
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
		ctx:    ctx,
		cancel: cancel,
	}
}

// cleanup tears the connection down once. The send channel is left open so
// concurrent broadcasters can never hit a closed channel; the writer exits
// through ctx instead.
func (c *Client) cleanup() {
	c.once.Do(func() {
		c.cancel()
		c.conn.Close()
	})
}

// enqueue hands a pre-marshalled frame to the writer. Slow consumers lose
// frames instead of stalling the caller.
func (c *Client) enqueue(msg []byte) {
	select {
	case c.send <- msg:
	case <-c.ctx.Done():
	default:
		log.Warn().Str("conn", c.ID).Msg("send buffer full, dropping frame")
	}
}

// WritePump drains the send channel onto the socket and keeps the
// connection alive with pings. Runs on the upgrade handler's goroutine.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.cleanup()
	}()

	for {
		select {
		case <-c.ctx.Done():
			return

		case msg := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				log.Debug().Err(err).Str("conn", c.ID).Msg("write failed")
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Debug().Err(err).Str("conn", c.ID).Msg("ping failed")
				return
			}
		}
	}
}
