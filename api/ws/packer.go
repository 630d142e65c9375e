// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ws

import (
	"encoding/json"
	"errors"

	"github.com/ava-labs/avalanchego/ids"

	"github.com/ava-labs/shieldswap/exchange"
)

// Subscription requests start with a mode byte. PoolMode is followed by
// the 32 byte pool id.
const (
	EventMode byte = 0
	PoolMode  byte = 1
)

var (
	ErrEmptyMessage    = errors.New("empty message")
	ErrUnknownMode     = errors.New("unknown mode")
	ErrInvalidPoolMode = errors.New("pool mode requires a pool id")
)

func packPoolRequest(poolID ids.ID) []byte {
	return append([]byte{PoolMode}, poolID[:]...)
}

// unpackRequest returns the mode and, for PoolMode, the pool id.
func unpackRequest(msg []byte) (byte, ids.ID, error) {
	if len(msg) == 0 {
		return 0, ids.Empty, ErrEmptyMessage
	}
	switch msg[0] {
	case EventMode:
		return EventMode, ids.Empty, nil
	case PoolMode:
		poolID, err := ids.ToID(msg[1:])
		if err != nil {
			return 0, ids.Empty, errors.Join(ErrInvalidPoolMode, err)
		}
		return PoolMode, poolID, nil
	default:
		return 0, ids.Empty, ErrUnknownMode
	}
}

func packEvent(e exchange.Event) ([]byte, error) {
	return json.Marshal(e)
}

func unpackEvent(msg []byte) (exchange.Event, error) {
	var e exchange.Event
	err := json.Unmarshal(msg, &e)
	return e, err
}
