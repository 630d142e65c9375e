// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pubsub

import (
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Connection is one upgraded websocket. A read pump hands incoming
// batches to the server callback and a write pump drains the message
// buffer and keeps the peer alive with pings. Whichever pump stops first
// closes the connection.
type Connection struct {
	s    *Server
	conn *websocket.Conn
	mb   *MessageBuffer

	active    atomic.Bool
	closeOnce sync.Once
}

func newConnection(s *Server, conn *websocket.Conn) *Connection {
	c := &Connection{
		s:    s,
		conn: conn,
		mb: NewMessageBuffer(
			s.log,
			s.config.MaxPendingMessages,
			s.config.MaxWriteMessageSize,
			s.config.MaxMessageWait,
		),
	}
	c.mb.onDrop = func(n int) {
		s.metrics.dropped.Add(float64(n))
	}
	c.active.Store(true)
	return c
}

// Send queues [msg] and reports whether it was accepted.
func (c *Connection) Send(msg []byte) bool {
	if !c.active.Load() {
		return false
	}
	if err := c.mb.Send(msg); err != nil {
		c.s.log.Debug("unable to queue message", zap.Error(err))
		return false
	}
	return true
}

func (c *Connection) close(reason string, err error) {
	c.closeOnce.Do(func() {
		c.active.Store(false)
		c.s.removeConnection(c)
		_ = c.mb.Close()
		_ = c.conn.Close()
		c.s.log.Debug("connection closed",
			zap.String("reason", reason),
			zap.Error(err),
		)
	})
}

func (c *Connection) readPump() {
	cfg := c.s.config
	c.conn.SetReadLimit(int64(cfg.MaxReadMessageSize))
	extend := func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(cfg.PongWait))
	}
	if err := extend(""); err != nil {
		c.close("read deadline", err)
		return
	}
	c.conn.SetPongHandler(extend)

	for {
		_, r, err := c.conn.NextReader()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.close("unexpected close", err)
			} else {
				c.close("peer closed", nil)
			}
			return
		}
		if c.s.callback == nil {
			// still drain so pongs and closes are processed
			continue
		}
		raw, err := io.ReadAll(r)
		if err != nil {
			c.close("read", err)
			return
		}
		msgs, err := ParseBatchMessage(cfg.MaxReadMessageSize, raw)
		if err != nil {
			c.close("malformed batch", err)
			return
		}
		for _, msg := range msgs {
			c.s.callback(msg, c)
		}
	}
}

func (c *Connection) write(kind int, data []byte) error {
	if err := c.conn.SetWriteDeadline(time.Now().Add(c.s.config.WriteWait)); err != nil {
		return err
	}
	return c.conn.WriteMessage(kind, data)
}

func (c *Connection) writePump() {
	ping := time.NewTicker(c.s.config.PingPeriod)
	defer ping.Stop()

	for {
		select {
		case batch, ok := <-c.mb.Queue:
			if !ok {
				_ = c.write(websocket.CloseMessage, nil)
				c.close("buffer closed", nil)
				return
			}
			if err := c.write(websocket.BinaryMessage, batch); err != nil {
				c.close("write", err)
				return
			}
			c.s.metrics.batches.Inc()
		case <-ping.C:
			if err := c.write(websocket.PingMessage, nil); err != nil {
				c.close("ping", err)
				return
			}
		}
	}
}
