// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package amm executes constant-product swaps and liquidity changes
// against pools kept by the registry. It keeps no state of its own.
package amm

import (
	"context"
	"fmt"

	"github.com/ava-labs/avalanchego/ids"

	"github.com/ava-labs/shieldswap/codec"
	"github.com/ava-labs/shieldswap/registry"
	"github.com/ava-labs/shieldswap/state"
	"github.com/ava-labs/shieldswap/storage"
	"github.com/ava-labs/shieldswap/token"
)

type Direction uint8

const (
	// AToB sells the pool's first token for its second.
	AToB Direction = iota
	BToA
)

func (d Direction) Valid() bool {
	return d == AToB || d == BToA
}

func (d Direction) String() string {
	switch d {
	case AToB:
		return "a->b"
	case BToA:
		return "b->a"
	default:
		return "unknown"
	}
}

// Tokens returns the (in, out) tokens of a swap in direction [d].
func (d Direction) Tokens(p *storage.Pool) (codec.Address, codec.Address) {
	if d == BToA {
		return p.TokenB, p.TokenA
	}
	return p.TokenA, p.TokenB
}

// DirectionOf returns the direction that sells [tokenIn] into [p].
func DirectionOf(p *storage.Pool, tokenIn codec.Address) (Direction, error) {
	switch tokenIn {
	case p.TokenA:
		return AToB, nil
	case p.TokenB:
		return BToA, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrTokenNotInPool, tokenIn)
	}
}

type Engine struct {
	registry *registry.Registry
	tokens   token.Ledger
}

func New(r *registry.Registry, tokens token.Ledger) *Engine {
	return &Engine{
		registry: r,
		tokens:   tokens,
	}
}

// Swap sells [amountIn] taken from [payer] into the pool and pays the
// output to [recipient]. Nothing is written unless the output is at
// least [minAmountOut].
func (e *Engine) Swap(
	ctx context.Context,
	mu state.Mutable,
	payer codec.Address,
	recipient codec.Address,
	poolID ids.ID,
	dir Direction,
	amountIn uint64,
	minAmountOut uint64,
) (uint64, error) {
	if !dir.Valid() {
		return 0, ErrInvalidDirection
	}
	if amountIn == 0 {
		return 0, ErrZeroAmount
	}
	p, err := e.registry.ActivePool(ctx, mu, poolID)
	if err != nil {
		return 0, err
	}
	model := NewConstantProduct(p.ReserveA, p.ReserveB, p.Fee)
	amountOut, err := model.Swap(amountIn, dir)
	if err != nil {
		return 0, err
	}
	if amountOut < minAmountOut {
		return 0, fmt.Errorf("%w: got %d, want at least %d", ErrSlippage, amountOut, minAmountOut)
	}

	tokenIn, tokenOut := dir.Tokens(p)
	custody := p.Custody()
	if err := e.tokens.Transfer(ctx, mu, tokenIn, payer, custody, amountIn); err != nil {
		return 0, err
	}
	if err := e.tokens.Transfer(ctx, mu, tokenOut, custody, recipient, amountOut); err != nil {
		return 0, err
	}
	p.ReserveA, p.ReserveB = model.Reserves()
	if err := e.registry.PutPool(ctx, mu, p); err != nil {
		return 0, err
	}
	return amountOut, nil
}

// AddLiquidity moves both amounts from [provider] into the pool and
// credits the minted shares. The first deposit also locks
// consts.MinimumLiquidity shares to registry.LockedLiquidityHolder.
func (e *Engine) AddLiquidity(
	ctx context.Context,
	mu state.Mutable,
	provider codec.Address,
	poolID ids.ID,
	amountA uint64,
	amountB uint64,
	minShares uint64,
	now int64,
) (uint64, error) {
	if provider == registry.LockedLiquidityHolder {
		return 0, registry.ErrLockedShares
	}
	p, err := e.registry.ActivePool(ctx, mu, poolID)
	if err != nil {
		return 0, err
	}
	model := NewConstantProduct(p.ReserveA, p.ReserveB, p.Fee)
	shares, locked, err := model.AddLiquidity(amountA, amountB, p.TotalShares)
	if err != nil {
		return 0, err
	}
	if shares < minShares {
		return 0, fmt.Errorf("%w: got %d shares, want at least %d", ErrSlippage, shares, minShares)
	}

	custody := p.Custody()
	if err := e.tokens.Transfer(ctx, mu, p.TokenA, provider, custody, amountA); err != nil {
		return 0, err
	}
	if err := e.tokens.Transfer(ctx, mu, p.TokenB, provider, custody, amountB); err != nil {
		return 0, err
	}
	if locked > 0 {
		if err := e.registry.CreditShares(ctx, mu, p, registry.LockedLiquidityHolder, locked, now); err != nil {
			return 0, err
		}
	}
	if err := e.registry.CreditShares(ctx, mu, p, provider, shares, now); err != nil {
		return 0, err
	}
	p.ReserveA, p.ReserveB = model.Reserves()
	if err := e.registry.PutPool(ctx, mu, p); err != nil {
		return 0, err
	}
	return shares, nil
}

// RemoveLiquidity burns [shares] of [provider] and pays out both tokens.
func (e *Engine) RemoveLiquidity(
	ctx context.Context,
	mu state.Mutable,
	provider codec.Address,
	poolID ids.ID,
	shares uint64,
	minAmountA uint64,
	minAmountB uint64,
	now int64,
) (uint64, uint64, error) {
	if provider == registry.LockedLiquidityHolder {
		return 0, 0, registry.ErrLockedShares
	}
	p, err := e.registry.ActivePool(ctx, mu, poolID)
	if err != nil {
		return 0, 0, err
	}
	model := NewConstantProduct(p.ReserveA, p.ReserveB, p.Fee)
	amountA, amountB, err := model.RemoveLiquidity(shares, p.TotalShares)
	if err != nil {
		return 0, 0, err
	}
	if amountA < minAmountA || amountB < minAmountB {
		return 0, 0, fmt.Errorf(
			"%w: got (%d, %d), want at least (%d, %d)",
			ErrSlippage, amountA, amountB, minAmountA, minAmountB,
		)
	}

	if err := e.registry.DebitShares(ctx, mu, p, provider, shares, now); err != nil {
		return 0, 0, err
	}
	custody := p.Custody()
	if err := e.tokens.Transfer(ctx, mu, p.TokenA, custody, provider, amountA); err != nil {
		return 0, 0, err
	}
	if err := e.tokens.Transfer(ctx, mu, p.TokenB, custody, provider, amountB); err != nil {
		return 0, 0, err
	}
	p.ReserveA, p.ReserveB = model.Reserves()
	if err := e.registry.PutPool(ctx, mu, p); err != nil {
		return 0, 0, err
	}
	return amountA, amountB, nil
}

// Quote prices a swap against the stored reserves without writing.
func (e *Engine) Quote(ctx context.Context, im state.Immutable, poolID ids.ID, amountIn uint64, dir Direction) (uint64, error) {
	if !dir.Valid() {
		return 0, ErrInvalidDirection
	}
	p, err := e.registry.GetPool(ctx, im, poolID)
	if err != nil {
		return 0, err
	}
	reserveIn, reserveOut := NewConstantProduct(p.ReserveA, p.ReserveB, p.Fee).reserves(dir)
	return GetAmountOut(amountIn, reserveIn, reserveOut, p.Fee)
}

// CalculateOptimalAmounts returns the amount of the pool's other token
// that matches [amountDesired] of the first token in direction [dir].
func (e *Engine) CalculateOptimalAmounts(ctx context.Context, im state.Immutable, poolID ids.ID, amountDesired uint64, dir Direction) (uint64, error) {
	if !dir.Valid() {
		return 0, ErrInvalidDirection
	}
	p, err := e.registry.GetPool(ctx, im, poolID)
	if err != nil {
		return 0, err
	}
	reserveIn, reserveOut := NewConstantProduct(p.ReserveA, p.ReserveB, p.Fee).reserves(dir)
	return OptimalAmount(amountDesired, reserveIn, reserveOut)
}

// SwapKeys covers a Swap on [p] in direction [dir].
func (e *Engine) SwapKeys(p *storage.Pool, dir Direction, payer codec.Address, recipient codec.Address) state.Keys {
	tokenIn, tokenOut := dir.Tokens(p)
	return e.TradeKeys(p.ID, tokenIn, tokenOut, payer, recipient)
}

// TradeKeys covers a Swap selling [tokenIn] for [tokenOut] on [poolID].
// It only needs the pool id, so callers can declare keys for pools they
// have not read yet.
func (e *Engine) TradeKeys(poolID ids.ID, tokenIn codec.Address, tokenOut codec.Address, payer codec.Address, recipient codec.Address) state.Keys {
	custody := storage.PoolCustody(poolID)
	return e.registry.PoolKeys(poolID).
		Merge(e.tokens.BalanceKeys(tokenIn, payer, custody)).
		Merge(e.tokens.BalanceKeys(tokenOut, custody, recipient))
}

// LiquidityKeys covers AddLiquidity and RemoveLiquidity on [p].
func (e *Engine) LiquidityKeys(p *storage.Pool, provider codec.Address) state.Keys {
	custody := p.Custody()
	return e.registry.PoolKeys(p.ID).
		Merge(e.registry.PositionKeys(p.ID, provider, registry.LockedLiquidityHolder)).
		Merge(e.tokens.BalanceKeys(p.TokenA, provider, custody)).
		Merge(e.tokens.BalanceKeys(p.TokenB, provider, custody))
}

func (e *Engine) QuoteKeys(poolID ids.ID) state.Keys {
	return e.registry.PoolReadKeys(poolID)
}
