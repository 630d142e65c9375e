// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package exchange

import (
	"context"

	"github.com/ava-labs/shieldswap/codec"
	"github.com/ava-labs/shieldswap/state"
)

// SwapExactIn sells [amountIn] of [tokenIn] through the direct pool and
// pays [recipient]. [deadline] is in unix milliseconds.
func (e *Exchange) SwapExactIn(
	ctx context.Context,
	actor codec.Address,
	tokenIn codec.Address,
	tokenOut codec.Address,
	amountIn uint64,
	minAmountOut uint64,
	recipient codec.Address,
	deadline int64,
) (uint64, error) {
	return e.route(ctx, "swap_exact_in", actor, []codec.Address{tokenIn, tokenOut}, amountIn, minAmountOut, recipient, deadline)
}

func (e *Exchange) RouteSwap(
	ctx context.Context,
	actor codec.Address,
	path []codec.Address,
	amountIn uint64,
	minAmountOut uint64,
	recipient codec.Address,
	deadline int64,
) (uint64, error) {
	return e.route(ctx, "route_swap", actor, path, amountIn, minAmountOut, recipient, deadline)
}

func (e *Exchange) route(
	ctx context.Context,
	op string,
	actor codec.Address,
	path []codec.Address,
	amountIn uint64,
	minAmountOut uint64,
	recipient codec.Address,
	deadline int64,
) (uint64, error) {
	keys, err := e.router.RouteKeys(path, actor, recipient)
	if err != nil {
		return 0, err
	}
	var out uint64
	err = e.execute(ctx, op, actor, keys, func(ctx context.Context, mu state.Mutable, now int64) ([]Event, error) {
		fills, err := e.router.RouteFills(ctx, mu, actor, path, amountIn, minAmountOut, recipient, deadline, now)
		if err != nil {
			return nil, err
		}
		out = fills[len(fills)-1].AmountOut
		events := make([]Event, 0, len(fills))
		for _, f := range fills {
			events = append(events, Event{
				Kind:    SwapExecuted,
				Actor:   actor,
				Subject: recipient,
				Token:   f.TokenIn,
				PoolID:  f.PoolID,
				Tag:     Tag(f.AmountIn, actor, now),
			})
		}
		return events, nil
	})
	if err != nil {
		return 0, err
	}
	return out, nil
}

// GetAmountOut quotes [amountIn] along [path].
func (e *Exchange) GetAmountOut(ctx context.Context, path []codec.Address, amountIn uint64) (uint64, error) {
	keys, err := e.router.QuoteKeys(path)
	if err != nil {
		return 0, err
	}
	var out uint64
	err = e.read(ctx, "get_amount_out", keys, func(ctx context.Context, im state.Immutable) error {
		var err error
		out, err = e.router.GetAmountOut(ctx, im, path, amountIn)
		return err
	})
	return out, err
}

func (e *Exchange) FindOptimalPath(ctx context.Context, tokenIn codec.Address, tokenOut codec.Address) ([]codec.Address, error) {
	keys, err := e.router.QuoteKeys([]codec.Address{tokenIn, tokenOut})
	if err != nil {
		return nil, err
	}
	var path []codec.Address
	err = e.read(ctx, "find_optimal_path", keys, func(ctx context.Context, im state.Immutable) error {
		var err error
		path, err = e.router.FindOptimalPath(ctx, im, tokenIn, tokenOut)
		return err
	})
	return path, err
}
