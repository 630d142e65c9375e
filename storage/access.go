// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"

	"github.com/ava-labs/avalanchego/ids"

	"github.com/ava-labs/shieldswap/codec"
	"github.com/ava-labs/shieldswap/state"
)

// GetOwner returns the administrative owner, or EmptyAddress before
// genesis sets one.
func GetOwner(ctx context.Context, im state.Immutable) (codec.Address, error) {
	v, err := im.GetValue(ctx, OwnerKey())
	if notFound(err) {
		return codec.EmptyAddress, nil
	}
	if err != nil {
		return codec.EmptyAddress, err
	}
	if len(v) != codec.AddressLen {
		return codec.EmptyAddress, ErrCorruptRecord
	}
	return codec.Address(v), nil
}

func SetOwner(ctx context.Context, mu state.Mutable, owner codec.Address) error {
	return mu.Insert(ctx, OwnerKey(), owner[:])
}

func IsAuditor(ctx context.Context, im state.Immutable, addr codec.Address) (bool, error) {
	return hasFlag(ctx, im, AuditorKey(addr))
}

func SetAuditor(ctx context.Context, mu state.Mutable, addr codec.Address, authorized bool) error {
	return setFlag(ctx, mu, AuditorKey(addr), authorized)
}

func IsTokenAuthorized(ctx context.Context, im state.Immutable, token codec.Address) (bool, error) {
	return hasFlag(ctx, im, TokenAllowKey(token))
}

func SetTokenAuthorized(ctx context.Context, mu state.Mutable, token codec.Address, authorized bool) error {
	return setFlag(ctx, mu, TokenAllowKey(token), authorized)
}

func IsPoolAuthorized(ctx context.Context, im state.Immutable, poolID ids.ID) (bool, error) {
	return hasFlag(ctx, im, PoolAllowKey(poolID))
}

func SetPoolAuthorized(ctx context.Context, mu state.Mutable, poolID ids.ID, authorized bool) error {
	return setFlag(ctx, mu, PoolAllowKey(poolID), authorized)
}

func hasFlag(ctx context.Context, im state.Immutable, k []byte) (bool, error) {
	_, err := im.GetValue(ctx, k)
	if notFound(err) {
		return false, nil
	}
	return err == nil, err
}

func setFlag(ctx context.Context, mu state.Mutable, k []byte, set bool) error {
	if set {
		return mu.Insert(ctx, k, flag)
	}
	return mu.Remove(ctx, k)
}
