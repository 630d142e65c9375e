// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ws

import (
	"strings"
	"sync"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/gorilla/websocket"

	"github.com/ava-labs/shieldswap/exchange"
	"github.com/ava-labs/shieldswap/pubsub"
)

type WebSocketClient struct {
	conn *websocket.Conn

	wl sync.Mutex
	rl sync.Mutex
	cl sync.Once

	maxReadSize int
	pending     []exchange.Event
}

// NewWebSocketClient dials the event stream at [uri]. Both http(s) and
// ws(s) schemes are accepted.
func NewWebSocketClient(uri string) (*WebSocketClient, error) {
	uri = strings.Replace(uri, "http", "ws", 1)
	if !strings.HasSuffix(uri, Endpoint) {
		uri = strings.TrimSuffix(uri, "/") + Endpoint
	}
	conn, resp, err := websocket.DefaultDialer.Dial(uri, nil)
	if err != nil {
		return nil, err
	}
	// not using resp for now
	_ = resp.Body.Close()
	return &WebSocketClient{
		conn:        conn,
		maxReadSize: pubsub.NewDefaultServerConfig().MaxWriteMessageSize,
	}, nil
}

func (c *WebSocketClient) write(msg []byte) error {
	c.wl.Lock()
	defer c.wl.Unlock()

	return c.conn.WriteMessage(websocket.BinaryMessage, pubsub.CreateBatchMessage([][]byte{msg}))
}

// RegisterEvents subscribes to every committed event.
func (c *WebSocketClient) RegisterEvents() error {
	return c.write([]byte{EventMode})
}

// RegisterPool subscribes to the events of [poolID].
func (c *WebSocketClient) RegisterPool(poolID ids.ID) error {
	return c.write(packPoolRequest(poolID))
}

// ListenEvent blocks until the next event arrives. An event delivered to
// both subscriptions is returned twice.
func (c *WebSocketClient) ListenEvent() (exchange.Event, error) {
	c.rl.Lock()
	defer c.rl.Unlock()

	for len(c.pending) == 0 {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			return exchange.Event{}, err
		}
		msgs, err := pubsub.ParseBatchMessage(c.maxReadSize, raw)
		if err != nil {
			return exchange.Event{}, err
		}
		for _, msg := range msgs {
			e, err := unpackEvent(msg)
			if err != nil {
				return exchange.Event{}, err
			}
			c.pending = append(c.pending, e)
		}
	}
	e := c.pending[0]
	c.pending = c.pending[1:]
	return e, nil
}

// Close closes [c]'s connection to the event stream.
func (c *WebSocketClient) Close() error {
	var err error
	c.cl.Do(func() {
		err = c.conn.Close()
	})
	return err
}
