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
	"github.com/ava-labs/shieldswap/utils"
)

const poolSize = consts.IDLen + 2*codec.AddressLen + 4*consts.Uint64Len + consts.BoolLen + consts.Int64Len

var ErrIdenticalAddresses = errors.New("identical addresses")

// Pool is a constant-product market between two tokens. TokenA always
// sorts before TokenB.
type Pool struct {
	ID          ids.ID        `json:"id"`
	TokenA      codec.Address `json:"tokenA"`
	TokenB      codec.Address `json:"tokenB"`
	Fee         uint64        `json:"fee"`
	ReserveA    uint64        `json:"reserveA"`
	ReserveB    uint64        `json:"reserveB"`
	TotalShares uint64        `json:"totalShares"`
	Active      bool          `json:"active"`
	CreatedAt   int64         `json:"createdAt"`
}

// Custody is the account holding the pool's plaintext reserves.
func (p *Pool) Custody() codec.Address {
	return PoolCustody(p.ID)
}

// Reserves returns (reserveIn, reserveOut) for a swap of [tokenIn].
func (p *Pool) Reserves(tokenIn codec.Address) (uint64, uint64) {
	if tokenIn == p.TokenA {
		return p.ReserveA, p.ReserveB
	}
	return p.ReserveB, p.ReserveA
}

// Other returns the counterpart of [token] in the pool.
func (p *Pool) Other(token codec.Address) codec.Address {
	if token == p.TokenA {
		return p.TokenB
	}
	return p.TokenA
}

func (p *Pool) Has(token codec.Address) bool {
	return token == p.TokenA || token == p.TokenB
}

func (p *Pool) Marshal() []byte {
	w := codec.NewWriter(poolSize, poolSize)
	w.PackID(p.ID)
	w.PackAddress(p.TokenA)
	w.PackAddress(p.TokenB)
	w.PackUint64(p.Fee)
	w.PackUint64(p.ReserveA)
	w.PackUint64(p.ReserveB)
	w.PackUint64(p.TotalShares)
	w.PackBool(p.Active)
	w.PackInt64(p.CreatedAt)
	return w.Bytes()
}

func UnmarshalPool(b []byte) (*Pool, error) {
	var p Pool
	r := codec.NewReader(b, poolSize)
	r.UnpackID(true, &p.ID)
	r.UnpackAddress(&p.TokenA)
	r.UnpackAddress(&p.TokenB)
	p.Fee = r.UnpackUint64()
	p.ReserveA = r.UnpackUint64()
	p.ReserveB = r.UnpackUint64()
	p.TotalShares = r.UnpackUint64()
	p.Active = r.UnpackBool()
	p.CreatedAt = r.UnpackInt64()
	if err := r.Done(); err != nil {
		return nil, errors.Join(ErrCorruptRecord, err)
	}
	return &p, nil
}

// SortTokens returns [a] and [b] in canonical order.
func SortTokens(a codec.Address, b codec.Address) (codec.Address, codec.Address) {
	if a.Compare(b) < 0 {
		return a, b
	}
	return b, a
}

// PoolID derives the id of the pool for an unordered token pair.
func PoolID(tokenA codec.Address, tokenB codec.Address) (ids.ID, error) {
	if tokenA == tokenB {
		return ids.Empty, ErrIdenticalAddresses
	}
	first, second := SortTokens(tokenA, tokenB)
	v := make([]byte, 2*codec.AddressLen)
	copy(v, first[:])
	copy(v[codec.AddressLen:], second[:])
	return utils.ToID(v), nil
}

func PoolCustody(poolID ids.ID) codec.Address {
	return codec.CreateAddress(consts.PoolCustodyID, poolID)
}

// GetPool returns the pool and whether it exists.
func GetPool(ctx context.Context, im state.Immutable, poolID ids.ID) (*Pool, bool, error) {
	v, err := im.GetValue(ctx, PoolKey(poolID))
	if notFound(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	p, err := UnmarshalPool(v)
	if err != nil {
		return nil, false, err
	}
	return p, true, nil
}

func SetPool(ctx context.Context, mu state.Mutable, p *Pool) error {
	return mu.Insert(ctx, PoolKey(p.ID), p.Marshal())
}
