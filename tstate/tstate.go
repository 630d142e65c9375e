// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tstate

import (
	"github.com/ava-labs/avalanchego/database"

	"github.com/ava-labs/shieldswap/state"
)

// Database is the persistent store a [TState] reads from and commits to.
type Database interface {
	database.KeyValueReader
	database.Batcher
}

// TState hands out scoped views over a [Database]. Callers must hold the
// locks for every key of a view's scope until the view is committed or
// discarded.
type TState struct {
	db Database
}

// New returns a new instance of TState.
func New(db Database) *TState {
	return &TState{db: db}
}

// NewView returns an empty view restricted to [scope].
func (ts *TState) NewView(scope state.Keys) *TStateView {
	return &TStateView{
		ts:                 ts,
		scope:              scope,
		pendingChangedKeys: make(map[string]maybe, len(scope)),
	}
}
