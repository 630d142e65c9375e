// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"
	"errors"

	"github.com/ava-labs/avalanchego/ids"

	"github.com/ava-labs/shieldswap/codec"
	"github.com/ava-labs/shieldswap/consts"
	"github.com/ava-labs/shieldswap/state"
)

const positionSize = consts.Uint64Len + consts.Int64Len

type Position struct {
	Shares    uint64 `json:"shares"`
	UpdatedAt int64  `json:"updatedAt"`
}

// GetPosition returns the provider's position, zero if none was ever
// opened.
func GetPosition(ctx context.Context, im state.Immutable, poolID ids.ID, provider codec.Address) (Position, error) {
	v, err := im.GetValue(ctx, PositionKey(poolID, provider))
	if notFound(err) {
		return Position{}, nil
	}
	if err != nil {
		return Position{}, err
	}
	r := codec.NewReader(v, positionSize)
	pos := Position{
		Shares:    r.UnpackUint64(),
		UpdatedAt: r.UnpackInt64(),
	}
	if err := r.Done(); err != nil {
		return Position{}, errors.Join(ErrCorruptRecord, err)
	}
	return pos, nil
}

// SetPosition stores [pos]. Emptied positions are kept with zero shares.
func SetPosition(ctx context.Context, mu state.Mutable, poolID ids.ID, provider codec.Address, pos Position) error {
	w := codec.NewWriter(positionSize, positionSize)
	w.PackUint64(pos.Shares)
	w.PackInt64(pos.UpdatedAt)
	return mu.Insert(ctx, PositionKey(poolID, provider), w.Bytes())
}
