// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pubsub

import (
	"errors"
	"time"

	"github.com/ava-labs/avalanchego/utils/units"
)

var (
	ErrClosed          = errors.New("message buffer closed")
	ErrMessageTooLarge = errors.New("message too large")
)

type ServerConfig struct {
	ReadBufferSize      int           `json:"readBufferSize"`
	WriteBufferSize     int           `json:"writeBufferSize"`
	WriteWait           time.Duration `json:"writeWait"`
	PongWait            time.Duration `json:"pongWait"`
	PingPeriod          time.Duration `json:"pingPeriod"`
	MaxReadMessageSize  int           `json:"maxReadMessageSize"`
	MaxWriteMessageSize int           `json:"maxWriteMessageSize"`
	MaxPendingMessages  int           `json:"maxPendingMessages"`
	// MaxMessageWait is how long a message may sit in a batch before the
	// batch is flushed.
	MaxMessageWait time.Duration `json:"maxMessageWait"`
}

func NewDefaultServerConfig() ServerConfig {
	return ServerConfig{
		ReadBufferSize:      units.KiB,
		WriteBufferSize:     units.KiB,
		WriteWait:           10 * time.Second,
		PongWait:            60 * time.Second,
		PingPeriod:          54 * time.Second,
		MaxReadMessageSize:  10 * units.KiB,
		MaxWriteMessageSize: 64 * units.KiB,
		MaxPendingMessages:  1_024,
		MaxMessageWait:      10 * time.Millisecond,
	}
}
