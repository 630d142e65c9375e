// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tstate

import (
	"context"
	"errors"

	"github.com/ava-labs/avalanchego/database"

	"github.com/ava-labs/shieldswap/keys"
	"github.com/ava-labs/shieldswap/state"
)

var _ state.Mutable = (*TStateView)(nil)

type maybe struct {
	value  []byte
	exists bool
}

type TStateView struct {
	ts    *TState
	scope state.Keys

	pendingChangedKeys map[string]maybe

	committed bool
}

func (ts *TStateView) checkScope(k string, p state.Permissions) bool {
	return ts.scope[k].Has(p)
}

// GetValue returns the value associated with [key]. If [key] is not in
// the read scope ErrInvalidKeyOrPermission is returned, if it does not
// exist database.ErrNotFound.
func (ts *TStateView) GetValue(_ context.Context, key []byte) ([]byte, error) {
	k := string(key)
	if !ts.checkScope(k, state.Read) {
		return nil, ErrInvalidKeyOrPermission
	}
	v, exists, err := ts.getValue(k)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, database.ErrNotFound
	}
	return v, nil
}

func (ts *TStateView) getValue(key string) ([]byte, bool, error) {
	if v, ok := ts.pendingChangedKeys[key]; ok {
		return v.value, v.exists, nil
	}
	v, err := ts.ts.db.Get([]byte(key))
	switch {
	case errors.Is(err, database.ErrNotFound):
		return nil, false, nil
	case err != nil:
		return nil, false, err
	default:
		return v, true, nil
	}
}

// Insert sets or updates [key]. Creating a key requires Allocate,
// overwriting one requires Write.
//
// Any bytes passed into [Insert] will be consumed by the view and should
// not be modified/referenced after this call.
func (ts *TStateView) Insert(_ context.Context, key []byte, value []byte) error {
	if ts.committed {
		return ErrViewClosed
	}
	k := string(key)
	if !keys.VerifyValue(key, value) {
		return ErrInvalidKeyValue
	}
	_, exists, err := ts.getValue(k)
	if err != nil {
		return err
	}
	required := state.Allocate
	if exists {
		required = state.Write
	}
	if !ts.checkScope(k, required) {
		return ErrInvalidKeyOrPermission
	}
	ts.pendingChangedKeys[k] = maybe{value: value, exists: true}
	return nil
}

// Remove deletes [key]. Removing a missing key is a no-op.
func (ts *TStateView) Remove(_ context.Context, key []byte) error {
	if ts.committed {
		return ErrViewClosed
	}
	k := string(key)
	if !ts.checkScope(k, state.Write) {
		return ErrInvalidKeyOrPermission
	}
	_, exists, err := ts.getValue(k)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}
	ts.pendingChangedKeys[k] = maybe{}
	return nil
}

// PendingChanges returns the number of keys the view will write on commit.
func (ts *TStateView) PendingChanges() int {
	return len(ts.pendingChangedKeys)
}

// Commit writes every pending change to the database in a single batch.
func (ts *TStateView) Commit() error {
	if ts.committed {
		return ErrViewClosed
	}
	ts.committed = true
	if len(ts.pendingChangedKeys) == 0 {
		return nil
	}
	batch := ts.ts.db.NewBatch()
	for k, v := range ts.pendingChangedKeys {
		var err error
		if v.exists {
			err = batch.Put([]byte(k), v.value)
		} else {
			err = batch.Delete([]byte(k))
		}
		if err != nil {
			return err
		}
	}
	return batch.Write()
}
