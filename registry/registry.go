// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package registry owns pool and liquidity position records along with
// the token and pool allowlists.
package registry

import (
	"context"
	"fmt"

	"github.com/ava-labs/avalanchego/ids"

	"github.com/ava-labs/shieldswap/access"
	"github.com/ava-labs/shieldswap/codec"
	"github.com/ava-labs/shieldswap/consts"
	"github.com/ava-labs/shieldswap/state"
	"github.com/ava-labs/shieldswap/storage"

	smath "github.com/ava-labs/avalanchego/utils/math"
)

// LockedLiquidityHolder is credited the shares locked by a pool's first
// deposit. Its position can never be debited.
var LockedLiquidityHolder = codec.EmptyAddress

type Registry struct{}

func New() *Registry {
	return &Registry{}
}

// CreatePool registers an empty, active pool for an allow-listed pair and
// adds it to the pool allowlist. Only the owner creates pools.
func (r *Registry) CreatePool(
	ctx context.Context,
	mu state.Mutable,
	caller codec.Address,
	tokenA codec.Address,
	tokenB codec.Address,
	fee uint64,
	now int64,
) (*storage.Pool, error) {
	if err := access.RequireOwner(ctx, mu, caller); err != nil {
		return nil, err
	}
	if tokenA.Empty() || tokenB.Empty() {
		return nil, ErrZeroAddress
	}
	if tokenA == tokenB {
		return nil, ErrIdenticalTokens
	}
	if fee > consts.MaxFeeBps {
		return nil, fmt.Errorf("%w: %d > %d", ErrFeeTooHigh, fee, consts.MaxFeeBps)
	}
	if err := r.RequireTokens(ctx, mu, tokenA, tokenB); err != nil {
		return nil, err
	}
	first, second := storage.SortTokens(tokenA, tokenB)
	poolID, err := storage.PoolID(first, second)
	if err != nil {
		return nil, err
	}
	_, exists, err := storage.GetPool(ctx, mu, poolID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: %s", ErrPoolExists, poolID)
	}
	p := &storage.Pool{
		ID:        poolID,
		TokenA:    first,
		TokenB:    second,
		Fee:       fee,
		Active:    true,
		CreatedAt: now,
	}
	if err := storage.SetPool(ctx, mu, p); err != nil {
		return nil, err
	}
	if err := storage.SetPoolAuthorized(ctx, mu, poolID, true); err != nil {
		return nil, err
	}
	return p, nil
}

func (*Registry) SetTokenAuthorized(ctx context.Context, mu state.Mutable, caller codec.Address, tkn codec.Address, authorized bool) error {
	if err := access.RequireOwner(ctx, mu, caller); err != nil {
		return err
	}
	if tkn.Empty() {
		return ErrZeroAddress
	}
	return storage.SetTokenAuthorized(ctx, mu, tkn, authorized)
}

func (r *Registry) SetPoolAuthorized(ctx context.Context, mu state.Mutable, caller codec.Address, poolID ids.ID, authorized bool) error {
	if err := access.RequireOwner(ctx, mu, caller); err != nil {
		return err
	}
	if _, err := r.GetPool(ctx, mu, poolID); err != nil {
		return err
	}
	return storage.SetPoolAuthorized(ctx, mu, poolID, authorized)
}

// SetActive pauses or resumes a pool.
func (r *Registry) SetActive(ctx context.Context, mu state.Mutable, caller codec.Address, poolID ids.ID, active bool) error {
	if err := access.RequireOwner(ctx, mu, caller); err != nil {
		return err
	}
	p, err := r.GetPool(ctx, mu, poolID)
	if err != nil {
		return err
	}
	if p.Active == active {
		return nil
	}
	p.Active = active
	return storage.SetPool(ctx, mu, p)
}

func (r *Registry) SetFee(ctx context.Context, mu state.Mutable, caller codec.Address, poolID ids.ID, fee uint64) error {
	if err := access.RequireOwner(ctx, mu, caller); err != nil {
		return err
	}
	if fee > consts.MaxFeeBps {
		return fmt.Errorf("%w: %d > %d", ErrFeeTooHigh, fee, consts.MaxFeeBps)
	}
	p, err := r.GetPool(ctx, mu, poolID)
	if err != nil {
		return err
	}
	p.Fee = fee
	return storage.SetPool(ctx, mu, p)
}

// TransferOwnership hands the owner capability to [newOwner].
func (*Registry) TransferOwnership(ctx context.Context, mu state.Mutable, caller codec.Address, newOwner codec.Address) error {
	if err := access.RequireOwner(ctx, mu, caller); err != nil {
		return err
	}
	if newOwner.Empty() {
		return ErrZeroAddress
	}
	return storage.SetOwner(ctx, mu, newOwner)
}

func (*Registry) GetPool(ctx context.Context, im state.Immutable, poolID ids.ID) (*storage.Pool, error) {
	p, exists, err := storage.GetPool(ctx, im, poolID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrPoolNotFound, poolID)
	}
	return p, nil
}

// ActivePool returns the pool if it exists, is allow-listed and is not
// paused.
func (r *Registry) ActivePool(ctx context.Context, im state.Immutable, poolID ids.ID) (*storage.Pool, error) {
	p, err := r.GetPool(ctx, im, poolID)
	if err != nil {
		return nil, err
	}
	ok, err := storage.IsPoolAuthorized(ctx, im, poolID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPoolNotAuthorized, poolID)
	}
	if !p.Active {
		return nil, fmt.Errorf("%w: %s", ErrPoolInactive, poolID)
	}
	return p, nil
}

func (*Registry) PutPool(ctx context.Context, mu state.Mutable, p *storage.Pool) error {
	return storage.SetPool(ctx, mu, p)
}

func (*Registry) GetPosition(ctx context.Context, im state.Immutable, poolID ids.ID, provider codec.Address) (storage.Position, error) {
	return storage.GetPosition(ctx, im, poolID, provider)
}

// CreditShares mints [shares] to [provider] and grows the pool's total.
// The caller stores [p].
func (*Registry) CreditShares(ctx context.Context, mu state.Mutable, p *storage.Pool, provider codec.Address, shares uint64, now int64) error {
	total, err := smath.Add64(p.TotalShares, shares)
	if err != nil {
		return ErrTotalSharesOverflow
	}
	pos, err := storage.GetPosition(ctx, mu, p.ID, provider)
	if err != nil {
		return err
	}
	pos.Shares, err = smath.Add64(pos.Shares, shares)
	if err != nil {
		return ErrTotalSharesOverflow
	}
	pos.UpdatedAt = now
	p.TotalShares = total
	return storage.SetPosition(ctx, mu, p.ID, provider, pos)
}

// DebitShares burns [shares] from [provider] and shrinks the pool's total.
// The caller stores [p].
func (*Registry) DebitShares(ctx context.Context, mu state.Mutable, p *storage.Pool, provider codec.Address, shares uint64, now int64) error {
	if provider == LockedLiquidityHolder {
		return ErrLockedShares
	}
	pos, err := storage.GetPosition(ctx, mu, p.ID, provider)
	if err != nil {
		return err
	}
	if pos.Shares < shares || p.TotalShares < shares {
		return fmt.Errorf("%w: have %d, want %d", ErrInsufficientShares, pos.Shares, shares)
	}
	pos.Shares -= shares
	pos.UpdatedAt = now
	p.TotalShares -= shares
	return storage.SetPosition(ctx, mu, p.ID, provider, pos)
}

func (*Registry) IsTokenAuthorized(ctx context.Context, im state.Immutable, tkn codec.Address) (bool, error) {
	return storage.IsTokenAuthorized(ctx, im, tkn)
}

func (*Registry) IsPoolAuthorized(ctx context.Context, im state.Immutable, poolID ids.ID) (bool, error) {
	return storage.IsPoolAuthorized(ctx, im, poolID)
}

// RequireTokens fails with ErrTokenNotAuthorized on the first token of
// [tokens] that is not allow-listed.
func (*Registry) RequireTokens(ctx context.Context, im state.Immutable, tokens ...codec.Address) error {
	for _, t := range tokens {
		ok, err := storage.IsTokenAuthorized(ctx, im, t)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: %s", ErrTokenNotAuthorized, t)
		}
	}
	return nil
}
