// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package exchange

import (
	"context"
	"fmt"

	"github.com/ava-labs/avalanchego/ids"

	"github.com/ava-labs/shieldswap/amm"
	"github.com/ava-labs/shieldswap/codec"
	"github.com/ava-labs/shieldswap/state"
	"github.com/ava-labs/shieldswap/storage"
)

// Initialize sets the first owner. It fails once an owner exists.
func (e *Exchange) Initialize(ctx context.Context, owner codec.Address) error {
	if owner.Empty() {
		return ErrZeroAddress
	}
	return e.execute(ctx, "initialize", owner, e.registry.OwnerKeys(), func(ctx context.Context, mu state.Mutable, _ int64) ([]Event, error) {
		current, err := storage.GetOwner(ctx, mu)
		if err != nil {
			return nil, err
		}
		if !current.Empty() {
			return nil, fmt.Errorf("%w: %s", ErrOwnerExists, current)
		}
		if err := storage.SetOwner(ctx, mu, owner); err != nil {
			return nil, err
		}
		return []Event{{Kind: OwnerInitialized, Actor: owner, Subject: owner}}, nil
	})
}

func (e *Exchange) Owner(ctx context.Context) (codec.Address, error) {
	var owner codec.Address
	err := e.read(ctx, "owner", e.registry.OwnerKeys(), func(ctx context.Context, im state.Immutable) error {
		var err error
		owner, err = storage.GetOwner(ctx, im)
		return err
	})
	return owner, err
}

func (e *Exchange) TransferOwnership(ctx context.Context, actor codec.Address, newOwner codec.Address) error {
	return e.execute(ctx, "transfer_ownership", actor, e.registry.OwnerKeys(), func(ctx context.Context, mu state.Mutable, _ int64) ([]Event, error) {
		if err := e.registry.TransferOwnership(ctx, mu, actor, newOwner); err != nil {
			return nil, err
		}
		return []Event{{Kind: OwnershipTransferred, Actor: actor, Subject: newOwner}}, nil
	})
}

// CreatePool opens an empty pool for two allow-listed tokens and returns
// its id.
func (e *Exchange) CreatePool(ctx context.Context, actor codec.Address, tokenA codec.Address, tokenB codec.Address, fee uint64) (ids.ID, error) {
	var poolID ids.ID
	err := e.execute(ctx, "create_pool", actor, e.registry.CreatePoolKeys(actor, tokenA, tokenB), func(ctx context.Context, mu state.Mutable, now int64) ([]Event, error) {
		p, err := e.registry.CreatePool(ctx, mu, actor, tokenA, tokenB, fee, now)
		if err != nil {
			return nil, err
		}
		poolID = p.ID
		return []Event{{Kind: PoolCreated, Actor: actor, Token: p.TokenA, PoolID: p.ID}}, nil
	})
	return poolID, err
}

func (e *Exchange) AuthorizeToken(ctx context.Context, actor codec.Address, tkn codec.Address) error {
	return e.setToken(ctx, "authorize_token", actor, tkn, true, TokenAuthorized)
}

func (e *Exchange) RevokeToken(ctx context.Context, actor codec.Address, tkn codec.Address) error {
	return e.setToken(ctx, "revoke_token", actor, tkn, false, TokenRevoked)
}

func (e *Exchange) setToken(ctx context.Context, op string, actor codec.Address, tkn codec.Address, authorized bool, kind EventKind) error {
	return e.execute(ctx, op, actor, e.registry.TokenAdminKeys(actor, tkn), func(ctx context.Context, mu state.Mutable, _ int64) ([]Event, error) {
		if err := e.registry.SetTokenAuthorized(ctx, mu, actor, tkn, authorized); err != nil {
			return nil, err
		}
		return []Event{{Kind: kind, Actor: actor, Token: tkn}}, nil
	})
}

func (e *Exchange) AuthorizePool(ctx context.Context, actor codec.Address, poolID ids.ID) error {
	return e.adminPool(ctx, "authorize_pool", actor, poolID, PoolAuthorized, func(ctx context.Context, mu state.Mutable) error {
		return e.registry.SetPoolAuthorized(ctx, mu, actor, poolID, true)
	})
}

func (e *Exchange) RevokePool(ctx context.Context, actor codec.Address, poolID ids.ID) error {
	return e.adminPool(ctx, "revoke_pool", actor, poolID, PoolRevoked, func(ctx context.Context, mu state.Mutable) error {
		return e.registry.SetPoolAuthorized(ctx, mu, actor, poolID, false)
	})
}

func (e *Exchange) PausePool(ctx context.Context, actor codec.Address, poolID ids.ID) error {
	return e.adminPool(ctx, "pause_pool", actor, poolID, PoolPaused, func(ctx context.Context, mu state.Mutable) error {
		return e.registry.SetActive(ctx, mu, actor, poolID, false)
	})
}

func (e *Exchange) ResumePool(ctx context.Context, actor codec.Address, poolID ids.ID) error {
	return e.adminPool(ctx, "resume_pool", actor, poolID, PoolResumed, func(ctx context.Context, mu state.Mutable) error {
		return e.registry.SetActive(ctx, mu, actor, poolID, true)
	})
}

func (e *Exchange) SetPoolFee(ctx context.Context, actor codec.Address, poolID ids.ID, fee uint64) error {
	return e.adminPool(ctx, "set_pool_fee", actor, poolID, PoolFeeChanged, func(ctx context.Context, mu state.Mutable) error {
		return e.registry.SetFee(ctx, mu, actor, poolID, fee)
	})
}

func (e *Exchange) adminPool(
	ctx context.Context,
	op string,
	actor codec.Address,
	poolID ids.ID,
	kind EventKind,
	f func(context.Context, state.Mutable) error,
) error {
	return e.execute(ctx, op, actor, e.registry.PoolAdminKeys(actor, poolID), func(ctx context.Context, mu state.Mutable, _ int64) ([]Event, error) {
		if err := f(ctx, mu); err != nil {
			return nil, err
		}
		return []Event{{Kind: kind, Actor: actor, PoolID: poolID}}, nil
	})
}

func (e *Exchange) IsTokenAuthorized(ctx context.Context, tkn codec.Address) (bool, error) {
	var ok bool
	err := e.read(ctx, "is_token_authorized", e.registry.TokenKeys(tkn), func(ctx context.Context, im state.Immutable) error {
		var err error
		ok, err = e.registry.IsTokenAuthorized(ctx, im, tkn)
		return err
	})
	return ok, err
}

func (e *Exchange) IsPoolAuthorized(ctx context.Context, poolID ids.ID) (bool, error) {
	var ok bool
	err := e.read(ctx, "is_pool_authorized", e.registry.PoolReadKeys(poolID), func(ctx context.Context, im state.Immutable) error {
		var err error
		ok, err = e.registry.IsPoolAuthorized(ctx, im, poolID)
		return err
	})
	return ok, err
}

func (e *Exchange) GetPool(ctx context.Context, poolID ids.ID) (*storage.Pool, error) {
	var p *storage.Pool
	err := e.read(ctx, "get_pool", e.registry.PoolReadKeys(poolID), func(ctx context.Context, im state.Immutable) error {
		var err error
		p, err = e.registry.GetPool(ctx, im, poolID)
		return err
	})
	return p, err
}

func (e *Exchange) GetPosition(ctx context.Context, poolID ids.ID, provider codec.Address) (storage.Position, error) {
	var pos storage.Position
	err := e.read(ctx, "get_position", e.registry.PositionKeys(poolID, provider), func(ctx context.Context, im state.Immutable) error {
		var err error
		pos, err = e.registry.GetPosition(ctx, im, poolID, provider)
		return err
	})
	return pos, err
}

// AddLiquidity deposits both amounts from [actor] and returns the shares
// minted to it.
func (e *Exchange) AddLiquidity(ctx context.Context, actor codec.Address, poolID ids.ID, amountA uint64, amountB uint64, minShares uint64) (uint64, error) {
	p, err := e.pool(ctx, poolID)
	if err != nil {
		return 0, err
	}
	var shares uint64
	err = e.execute(ctx, "add_liquidity", actor, e.engine.LiquidityKeys(p, actor), func(ctx context.Context, mu state.Mutable, now int64) ([]Event, error) {
		var err error
		shares, err = e.engine.AddLiquidity(ctx, mu, actor, poolID, amountA, amountB, minShares, now)
		if err != nil {
			return nil, err
		}
		return []Event{{Kind: LiquidityDeposited, Actor: actor, PoolID: poolID, Tag: Tag(shares, actor, now)}}, nil
	})
	if err != nil {
		return 0, err
	}
	return shares, nil
}

func (e *Exchange) RemoveLiquidity(ctx context.Context, actor codec.Address, poolID ids.ID, shares uint64, minAmountA uint64, minAmountB uint64) (uint64, uint64, error) {
	p, err := e.pool(ctx, poolID)
	if err != nil {
		return 0, 0, err
	}
	var amountA, amountB uint64
	err = e.execute(ctx, "remove_liquidity", actor, e.engine.LiquidityKeys(p, actor), func(ctx context.Context, mu state.Mutable, now int64) ([]Event, error) {
		var err error
		amountA, amountB, err = e.engine.RemoveLiquidity(ctx, mu, actor, poolID, shares, minAmountA, minAmountB, now)
		if err != nil {
			return nil, err
		}
		return []Event{{Kind: LiquidityWithdrawn, Actor: actor, PoolID: poolID, Tag: Tag(shares, actor, now)}}, nil
	})
	if err != nil {
		return 0, 0, err
	}
	return amountA, amountB, nil
}

// Swap sells [amountIn] of [actor]'s tokens into [poolID] in direction
// [dir] and pays the output back to [actor].
func (e *Exchange) Swap(ctx context.Context, actor codec.Address, poolID ids.ID, dir amm.Direction, amountIn uint64, minAmountOut uint64) (uint64, error) {
	if !dir.Valid() {
		return 0, amm.ErrInvalidDirection
	}
	p, err := e.pool(ctx, poolID)
	if err != nil {
		return 0, err
	}
	tokenIn, _ := dir.Tokens(p)
	var out uint64
	err = e.execute(ctx, "swap", actor, e.engine.SwapKeys(p, dir, actor, actor), func(ctx context.Context, mu state.Mutable, now int64) ([]Event, error) {
		var err error
		out, err = e.engine.Swap(ctx, mu, actor, actor, poolID, dir, amountIn, minAmountOut)
		if err != nil {
			return nil, err
		}
		return []Event{{Kind: SwapExecuted, Actor: actor, Subject: actor, Token: tokenIn, PoolID: poolID, Tag: Tag(amountIn, actor, now)}}, nil
	})
	if err != nil {
		return 0, err
	}
	return out, nil
}

func (e *Exchange) Quote(ctx context.Context, poolID ids.ID, amountIn uint64, dir amm.Direction) (uint64, error) {
	var out uint64
	err := e.read(ctx, "quote", e.engine.QuoteKeys(poolID), func(ctx context.Context, im state.Immutable) error {
		var err error
		out, err = e.engine.Quote(ctx, im, poolID, amountIn, dir)
		return err
	})
	return out, err
}

func (e *Exchange) CalculateOptimalAmounts(ctx context.Context, poolID ids.ID, amountDesired uint64, dir amm.Direction) (uint64, error) {
	var out uint64
	err := e.read(ctx, "calculate_optimal_amounts", e.engine.QuoteKeys(poolID), func(ctx context.Context, im state.Immutable) error {
		var err error
		out, err = e.engine.CalculateOptimalAmounts(ctx, im, poolID, amountDesired, dir)
		return err
	})
	return out, err
}

// Direction resolves the swap direction selling [tokenIn] on [poolID].
func (e *Exchange) Direction(ctx context.Context, poolID ids.ID, tokenIn codec.Address) (amm.Direction, error) {
	p, err := e.pool(ctx, poolID)
	if err != nil {
		return 0, err
	}
	dir, err := amm.DirectionOf(p, tokenIn)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrUnknownPoolSide, err)
	}
	return dir, nil
}
