// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"
	"encoding/binary"

	"github.com/ava-labs/shieldswap/codec"
	"github.com/ava-labs/shieldswap/consts"
	"github.com/ava-labs/shieldswap/state"
)

func GetBalance(ctx context.Context, im state.Immutable, token codec.Address, account codec.Address) (uint64, error) {
	return getUint64(ctx, im, BalanceKey(token, account))
}

// SetBalance stores [balance], deleting the key when it reaches zero.
func SetBalance(ctx context.Context, mu state.Mutable, token codec.Address, account codec.Address, balance uint64) error {
	return setUint64(ctx, mu, BalanceKey(token, account), balance)
}

func GetAllowance(ctx context.Context, im state.Immutable, token codec.Address, owner codec.Address, spender codec.Address) (uint64, error) {
	return getUint64(ctx, im, AllowanceKey(token, owner, spender))
}

func SetAllowance(ctx context.Context, mu state.Mutable, token codec.Address, owner codec.Address, spender codec.Address, amount uint64) error {
	return setUint64(ctx, mu, AllowanceKey(token, owner, spender), amount)
}

func getUint64(ctx context.Context, im state.Immutable, k []byte) (uint64, error) {
	v, err := im.GetValue(ctx, k)
	if notFound(err) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	if len(v) != consts.Uint64Len {
		return 0, ErrCorruptRecord
	}
	return binary.BigEndian.Uint64(v), nil
}

func setUint64(ctx context.Context, mu state.Mutable, k []byte, v uint64) error {
	if v == 0 {
		return mu.Remove(ctx, k)
	}
	return mu.Insert(ctx, k, binary.BigEndian.AppendUint64(nil, v))
}
