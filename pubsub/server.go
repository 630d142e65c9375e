// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package pubsub fans binary messages out to websocket connections.
package pubsub

import (
	"net/http"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Callback handles one message read from [c].
type Callback func(msg []byte, c *Connection)

// Server tracks every open connection. It is an http.Handler that upgrades
// requests to websockets.
type Server struct {
	log      logging.Logger
	config   ServerConfig
	callback Callback
	upgrader websocket.Upgrader

	conns   *Connections
	metrics *metrics
}

// New returns a Server. [callback] may be nil if clients never send.
func New(log logging.Logger, config ServerConfig, callback Callback) *Server {
	return &Server{
		log:      log,
		config:   config,
		callback: callback,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin: func(*http.Request) bool {
				return true
			},
		},
		conns:   NewConnections(),
		metrics: newMetrics(),
	}
}

// RegisterMetrics exposes connection and delivery counters on [reg].
func (s *Server) RegisterMetrics(reg prometheus.Registerer) error {
	return s.metrics.register(reg)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	wsConn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Debug("failed to upgrade",
			zap.Error(err),
		)
		return
	}
	conn := newConnection(s, wsConn)
	if s.conns.Add(conn) {
		s.metrics.connections.Inc()
	}

	go conn.writePump()
	go conn.readPump()
}

// Publish queues [msg] for every connection in [toConns] and returns the
// connections that are no longer active.
func (s *Server) Publish(msg []byte, toConns *Connections) []*Connection {
	var inactive []*Connection
	for _, conn := range toConns.Conns() {
		if !s.conns.Has(conn) {
			inactive = append(inactive, conn)
			continue
		}
		if !conn.Send(msg) {
			s.metrics.dropped.Inc()
			continue
		}
		s.metrics.published.Inc()
	}
	return inactive
}

// Connections is the set of open connections.
func (s *Server) Connections() *Connections {
	return s.conns
}

func (s *Server) removeConnection(conn *Connection) {
	if s.conns.Remove(conn) {
		s.metrics.connections.Dec()
	}
}
