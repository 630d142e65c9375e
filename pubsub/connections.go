// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pubsub

import (
	"sync"

	"github.com/ava-labs/avalanchego/utils/set"
)

// Connections is a set of connections safe for concurrent use. The
// server keeps one for every open connection and subscribers keep one
// per topic.
type Connections struct {
	lock  sync.RWMutex
	conns set.Set[*Connection]
}

func NewConnections() *Connections {
	return &Connections{}
}

// Add reports whether [conn] was not yet a member.
func (c *Connections) Add(conn *Connection) bool {
	c.lock.Lock()
	defer c.lock.Unlock()

	if c.conns.Contains(conn) {
		return false
	}
	c.conns.Add(conn)
	return true
}

// Remove reports whether [conn] was a member.
func (c *Connections) Remove(conn *Connection) bool {
	c.lock.Lock()
	defer c.lock.Unlock()

	if !c.conns.Contains(conn) {
		return false
	}
	c.conns.Remove(conn)
	return true
}

func (c *Connections) Has(conn *Connection) bool {
	c.lock.RLock()
	defer c.lock.RUnlock()

	return c.conns.Contains(conn)
}

func (c *Connections) Len() int {
	c.lock.RLock()
	defer c.lock.RUnlock()

	return c.conns.Len()
}

// Conns is a snapshot of the members.
func (c *Connections) Conns() []*Connection {
	c.lock.RLock()
	defer c.lock.RUnlock()

	return c.conns.List()
}
