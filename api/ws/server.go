// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package ws streams committed exchange events to websocket subscribers.
package ws

import (
	"context"
	"sync"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"
	"go.uber.org/zap"

	"github.com/ava-labs/shieldswap/event"
	"github.com/ava-labs/shieldswap/exchange"
	"github.com/ava-labs/shieldswap/pubsub"
)

const Endpoint = "/ws"

var _ event.Subscription[exchange.Event] = (*WebSocketServer)(nil)

type Config struct {
	Enabled            bool `json:"enabled"`
	MaxPendingMessages int  `json:"maxPendingMessages"`
}

func NewDefaultConfig() Config {
	return Config{
		Enabled:            true,
		MaxPendingMessages: 10_000,
	}
}

// WebSocketServer relays exchange events. Connections subscribe to every
// event or to the events of a single pool.
type WebSocketServer struct {
	logger logging.Logger
	tracer trace.Tracer

	s *pubsub.Server

	eventListeners *pubsub.Connections

	poolL         sync.Mutex
	poolListeners map[ids.ID]*pubsub.Connections
}

func NewWebSocketServer(
	log logging.Logger,
	tracer trace.Tracer,
	config Config,
) (*WebSocketServer, *pubsub.Server) {
	w := &WebSocketServer{
		logger:         log,
		tracer:         tracer,
		eventListeners: pubsub.NewConnections(),
		poolListeners:  map[ids.ID]*pubsub.Connections{},
	}
	cfg := pubsub.NewDefaultServerConfig()
	cfg.MaxPendingMessages = config.MaxPendingMessages
	w.s = pubsub.New(w.logger, cfg, w.MessageCallback())
	return w, w.s
}

func (w *WebSocketServer) AddPoolListener(poolID ids.ID, c *pubsub.Connection) {
	w.poolL.Lock()
	defer w.poolL.Unlock()

	connections, ok := w.poolListeners[poolID]
	if !ok {
		connections = pubsub.NewConnections()
		w.poolListeners[poolID] = connections
	}
	connections.Add(c)
}

// Accept publishes [e] to every event listener and, if [e] names a pool,
// to that pool's listeners. Closed connections are dropped.
func (w *WebSocketServer) Accept(ctx context.Context, e exchange.Event) error {
	_, span := w.tracer.Start(ctx, "WebSocketServer.Accept")
	defer span.End()

	bytes, err := packEvent(e)
	if err != nil {
		return err
	}
	if w.eventListeners.Len() > 0 {
		for _, conn := range w.s.Publish(bytes, w.eventListeners) {
			w.eventListeners.Remove(conn)
		}
	}
	if e.PoolID == ids.Empty {
		return nil
	}

	w.poolL.Lock()
	defer w.poolL.Unlock()
	listeners, ok := w.poolListeners[e.PoolID]
	if !ok {
		return nil
	}
	for _, conn := range w.s.Publish(bytes, listeners) {
		listeners.Remove(conn)
	}
	if listeners.Len() == 0 {
		delete(w.poolListeners, e.PoolID)
	}
	return nil
}

func (*WebSocketServer) Close() error {
	return nil
}

func (w *WebSocketServer) MessageCallback() pubsub.Callback {
	return func(msgBytes []byte, c *pubsub.Connection) {
		_, span := w.tracer.Start(context.Background(), "WebSocketServer.Callback")
		defer span.End()

		mode, poolID, err := unpackRequest(msgBytes)
		if err != nil {
			w.logger.Error("failed to unmarshal msg",
				zap.Int("len", len(msgBytes)),
				zap.Error(err),
			)
			return
		}
		switch mode {
		case EventMode:
			w.eventListeners.Add(c)
			w.logger.Debug("added event listener")
		case PoolMode:
			w.AddPoolListener(poolID, c)
			w.logger.Debug("added pool listener", zap.Stringer("poolID", poolID))
		}
	}
}
