// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package router resolves pools for token pairs and chains swaps across
// them.
package router

import (
	"context"
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/ids"

	"github.com/ava-labs/shieldswap/amm"
	"github.com/ava-labs/shieldswap/codec"
	"github.com/ava-labs/shieldswap/consts"
	"github.com/ava-labs/shieldswap/registry"
	"github.com/ava-labs/shieldswap/state"
	"github.com/ava-labs/shieldswap/storage"
)

type Router struct {
	registry *registry.Registry
	engine   *amm.Engine
}

func New(r *registry.Registry, e *amm.Engine) *Router {
	return &Router{
		registry: r,
		engine:   e,
	}
}

// hop is one leg of a route. Every leg but the first is paid from the
// custody of its own pool, which received the previous leg's output.
type hop struct {
	poolID    ids.ID
	tokenIn   codec.Address
	tokenOut  codec.Address
	payer     codec.Address
	recipient codec.Address
}

// DirectPool returns the id of the pool trading [tokenA] against [tokenB].
// The pool may not exist.
func DirectPool(tokenA codec.Address, tokenB codec.Address) (ids.ID, error) {
	id, err := storage.PoolID(tokenA, tokenB)
	if errors.Is(err, storage.ErrIdenticalAddresses) {
		return ids.Empty, fmt.Errorf("%w: %s", registry.ErrIdenticalTokens, tokenA)
	}
	return id, err
}

func plan(path []codec.Address, actor codec.Address, recipient codec.Address) ([]hop, error) {
	if len(path) < 2 {
		return nil, ErrPathTooShort
	}
	if len(path)-1 > consts.MaxHops {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManyHops, len(path)-1, consts.MaxHops)
	}
	hops := make([]hop, len(path)-1)
	for i := range hops {
		poolID, err := DirectPool(path[i], path[i+1])
		if err != nil {
			return nil, err
		}
		hops[i] = hop{
			poolID:   poolID,
			tokenIn:  path[i],
			tokenOut: path[i+1],
			payer:    actor,
		}
		if i > 0 {
			hops[i].payer = storage.PoolCustody(poolID)
			hops[i-1].recipient = hops[i].payer
		}
	}
	hops[len(hops)-1].recipient = recipient
	return hops, nil
}

// SwapExactIn sells [amountIn] of [tokenIn] for [tokenOut] through their
// direct pool.
func (r *Router) SwapExactIn(
	ctx context.Context,
	mu state.Mutable,
	actor codec.Address,
	tokenIn codec.Address,
	tokenOut codec.Address,
	amountIn uint64,
	minAmountOut uint64,
	recipient codec.Address,
	deadline int64,
	now int64,
) (uint64, error) {
	return r.RouteSwap(ctx, mu, actor, []codec.Address{tokenIn, tokenOut}, amountIn, minAmountOut, recipient, deadline, now)
}

// Fill is one executed leg of a route.
type Fill struct {
	PoolID    ids.ID
	TokenIn   codec.Address
	AmountIn  uint64
	AmountOut uint64
}

// RouteSwap swaps along [path], one pool per adjacent pair. Only the final
// output is checked against [minAmountOut]; intermediate legs accept any
// output.
func (r *Router) RouteSwap(
	ctx context.Context,
	mu state.Mutable,
	actor codec.Address,
	path []codec.Address,
	amountIn uint64,
	minAmountOut uint64,
	recipient codec.Address,
	deadline int64,
	now int64,
) (uint64, error) {
	fills, err := r.RouteFills(ctx, mu, actor, path, amountIn, minAmountOut, recipient, deadline, now)
	if err != nil {
		return 0, err
	}
	return fills[len(fills)-1].AmountOut, nil
}

// RouteFills behaves like [RouteSwap] but reports every leg.
func (r *Router) RouteFills(
	ctx context.Context,
	mu state.Mutable,
	actor codec.Address,
	path []codec.Address,
	amountIn uint64,
	minAmountOut uint64,
	recipient codec.Address,
	deadline int64,
	now int64,
) ([]Fill, error) {
	if now > deadline {
		return nil, fmt.Errorf("%w: now=%d deadline=%d", ErrDeadlineExceeded, now, deadline)
	}
	if recipient.Empty() {
		return nil, ErrZeroRecipient
	}
	hops, err := plan(path, actor, recipient)
	if err != nil {
		return nil, err
	}
	if err := r.registry.RequireTokens(ctx, mu, path...); err != nil {
		return nil, err
	}
	// every pool must be tradable before the first leg moves funds
	dirs := make([]amm.Direction, len(hops))
	for i, h := range hops {
		p, err := r.registry.ActivePool(ctx, mu, h.poolID)
		if err != nil {
			return nil, err
		}
		dirs[i], err = amm.DirectionOf(p, h.tokenIn)
		if err != nil {
			return nil, err
		}
	}
	fills := make([]Fill, len(hops))
	amount := amountIn
	for i, h := range hops {
		var hopMin uint64
		if i == len(hops)-1 {
			hopMin = minAmountOut
		}
		fills[i] = Fill{PoolID: h.poolID, TokenIn: h.tokenIn, AmountIn: amount}
		amount, err = r.engine.Swap(ctx, mu, h.payer, h.recipient, h.poolID, dirs[i], amount, hopMin)
		if err != nil {
			return nil, fmt.Errorf("hop %d: %w", i, err)
		}
		fills[i].AmountOut = amount
	}
	return fills, nil
}

// GetAmountOut quotes [amountIn] along [path] without writing. A pool used
// twice is quoted against the reserves left by its earlier leg.
func (r *Router) GetAmountOut(ctx context.Context, im state.Immutable, path []codec.Address, amountIn uint64) (uint64, error) {
	hops, err := plan(path, codec.EmptyAddress, codec.EmptyAddress)
	if err != nil {
		return 0, err
	}
	models := make(map[ids.ID]*amm.ConstantProduct, len(hops))
	amount := amountIn
	for i, h := range hops {
		p, err := r.registry.ActivePool(ctx, im, h.poolID)
		if err != nil {
			return 0, err
		}
		dir, err := amm.DirectionOf(p, h.tokenIn)
		if err != nil {
			return 0, err
		}
		model, ok := models[p.ID]
		if !ok {
			model = amm.NewConstantProduct(p.ReserveA, p.ReserveB, p.Fee)
			models[p.ID] = model
		}
		amount, err = model.Swap(amount, dir)
		if err != nil {
			return 0, fmt.Errorf("hop %d: %w", i, err)
		}
	}
	return amount, nil
}

// FindOptimalPath only considers the direct pool between the two tokens.
func (r *Router) FindOptimalPath(ctx context.Context, im state.Immutable, tokenIn codec.Address, tokenOut codec.Address) ([]codec.Address, error) {
	poolID, err := DirectPool(tokenIn, tokenOut)
	if err != nil {
		return nil, err
	}
	if _, err := r.registry.ActivePool(ctx, im, poolID); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoPath, err)
	}
	return []codec.Address{tokenIn, tokenOut}, nil
}

// RouteKeys covers RouteSwap and SwapExactIn along [path].
func (r *Router) RouteKeys(path []codec.Address, actor codec.Address, recipient codec.Address) (state.Keys, error) {
	hops, err := plan(path, actor, recipient)
	if err != nil {
		return nil, err
	}
	ks := r.registry.TokenKeys(path...)
	for _, h := range hops {
		ks.Merge(r.engine.TradeKeys(h.poolID, h.tokenIn, h.tokenOut, h.payer, h.recipient))
	}
	return ks, nil
}

// QuoteKeys covers GetAmountOut and FindOptimalPath along [path].
func (r *Router) QuoteKeys(path []codec.Address) (state.Keys, error) {
	hops, err := plan(path, codec.EmptyAddress, codec.EmptyAddress)
	if err != nil {
		return nil, err
	}
	ks := state.Keys{}
	for _, h := range hops {
		ks.Merge(r.registry.PoolReadKeys(h.poolID))
	}
	return ks, nil
}
