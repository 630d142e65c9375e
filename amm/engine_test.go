// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package amm

import (
	"context"
	"testing"

	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ava-labs/avalanchego/ids"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/shieldswap/codec"
	"github.com/ava-labs/shieldswap/consts"
	"github.com/ava-labs/shieldswap/errkind"
	"github.com/ava-labs/shieldswap/registry"
	"github.com/ava-labs/shieldswap/state/statetest"
	"github.com/ava-labs/shieldswap/storage"
	"github.com/ava-labs/shieldswap/token"
	"github.com/ava-labs/shieldswap/tstate"
)

var (
	owner  = codec.CreateAddress(consts.AccountID, ids.ID{1})
	alice  = codec.CreateAddress(consts.AccountID, ids.ID{2})
	bob    = codec.CreateAddress(consts.AccountID, ids.ID{3})
	tokenX = codec.CreateAddress(consts.TokenID, ids.ID{4})
	tokenY = codec.CreateAddress(consts.TokenID, ids.ID{5})
)

type fixture struct {
	engine *Engine
	reg    *registry.Registry
	tokens token.StateLedger
	mu     *statetest.InMemoryStore
	pool   *storage.Pool
}

// newFixture creates an empty X/Y pool with a 30bps fee and funds alice
// and bob with [funds] of each token.
func newFixture(t *testing.T, funds uint64) *fixture {
	require := require.New(t)
	ctx := context.TODO()

	f := &fixture{
		reg:    registry.New(),
		tokens: token.StateLedger{},
		mu:     statetest.NewInMemoryStore(),
	}
	f.engine = New(f.reg, f.tokens)

	require.NoError(storage.SetOwner(ctx, f.mu, owner))
	for _, tkn := range []codec.Address{tokenX, tokenY} {
		require.NoError(f.reg.SetTokenAuthorized(ctx, f.mu, owner, tkn, true))
		for _, acct := range []codec.Address{alice, bob} {
			require.NoError(f.tokens.Mint(ctx, f.mu, tkn, acct, funds))
		}
	}
	p, err := f.reg.CreatePool(ctx, f.mu, owner, tokenX, tokenY, 30, 1)
	require.NoError(err)
	f.pool = p
	return f
}

func (f *fixture) balance(t *testing.T, tkn codec.Address, acct codec.Address) uint64 {
	b, err := f.tokens.BalanceOf(context.TODO(), f.mu, tkn, acct)
	require.NoError(t, err)
	return b
}

func (f *fixture) reload(t *testing.T) *storage.Pool {
	p, err := f.reg.GetPool(context.TODO(), f.mu, f.pool.ID)
	require.NoError(t, err)
	return p
}

func TestEngineFirstLiquidityLock(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	f := newFixture(t, 10_000)

	shares, err := f.engine.AddLiquidity(ctx, f.mu, alice, f.pool.ID, 2_000, 2_000, 1_000, 2)
	require.NoError(err)
	require.Equal(uint64(1_000), shares)

	p := f.reload(t)
	require.Equal(uint64(2_000), p.TotalShares)
	require.Equal(uint64(2_000), p.ReserveA)
	require.Equal(uint64(2_000), p.ReserveB)

	pos, err := f.reg.GetPosition(ctx, f.mu, p.ID, alice)
	require.NoError(err)
	require.Equal(uint64(1_000), pos.Shares)
	locked, err := f.reg.GetPosition(ctx, f.mu, p.ID, registry.LockedLiquidityHolder)
	require.NoError(err)
	require.Equal(consts.MinimumLiquidity, locked.Shares)

	require.Equal(uint64(8_000), f.balance(t, tokenX, alice))
	require.Equal(uint64(2_000), f.balance(t, tokenX, p.Custody()))
	require.Equal(uint64(2_000), f.balance(t, tokenY, p.Custody()))
}

func TestEngineSwap(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	f := newFixture(t, 10_000)

	_, err := f.engine.Swap(ctx, f.mu, bob, bob, f.pool.ID, AToB, 100, 0)
	require.ErrorIs(err, ErrReservesZero)

	_, err = f.engine.AddLiquidity(ctx, f.mu, alice, f.pool.ID, 1_000, 2_000, 0, 2)
	require.NoError(err)

	quoted, err := f.engine.Quote(ctx, f.mu, f.pool.ID, 100, AToB)
	require.NoError(err)
	require.Equal(uint64(180), quoted)

	out, err := f.engine.Swap(ctx, f.mu, bob, bob, f.pool.ID, AToB, 100, 180)
	require.NoError(err)
	require.Equal(uint64(180), out)

	p := f.reload(t)
	require.Equal(uint64(1_100), p.ReserveA)
	require.Equal(uint64(1_820), p.ReserveB)
	require.Equal(uint64(9_900), f.balance(t, tokenX, bob))
	require.Equal(uint64(10_180), f.balance(t, tokenY, bob))
	require.Equal(p.ReserveA, f.balance(t, tokenX, p.Custody()))
	require.Equal(p.ReserveB, f.balance(t, tokenY, p.Custody()))

	_, err = f.engine.Swap(ctx, f.mu, bob, bob, f.pool.ID, Direction(7), 100, 0)
	require.ErrorIs(err, ErrInvalidDirection)
	_, err = f.engine.Swap(ctx, f.mu, bob, bob, f.pool.ID, AToB, 0, 0)
	require.ErrorIs(err, ErrZeroAmount)
	_, err = f.engine.Swap(ctx, f.mu, bob, bob, f.pool.ID, BToA, 20_000, 0)
	require.ErrorIs(err, token.ErrInsufficientBalance)
}

func TestEngineSwapSlippageLeavesState(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	f := newFixture(t, 10_000)

	_, err := f.engine.AddLiquidity(ctx, f.mu, alice, f.pool.ID, 1_000, 2_000, 0, 2)
	require.NoError(err)

	before := f.mu.Clone()
	_, err = f.engine.Swap(ctx, f.mu, bob, bob, f.pool.ID, AToB, 100, 181)
	require.ErrorIs(err, ErrSlippage)
	require.Equal(before.Storage, f.mu.Storage)
}

func TestEnginePaused(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	f := newFixture(t, 10_000)

	shares, err := f.engine.AddLiquidity(ctx, f.mu, alice, f.pool.ID, 4_000, 4_000, 0, 2)
	require.NoError(err)
	require.NoError(f.reg.SetActive(ctx, f.mu, owner, f.pool.ID, false))

	_, err = f.engine.Swap(ctx, f.mu, bob, bob, f.pool.ID, AToB, 100, 0)
	require.ErrorIs(err, registry.ErrPoolInactive)
	_, err = f.engine.AddLiquidity(ctx, f.mu, bob, f.pool.ID, 100, 100, 0, 3)
	require.ErrorIs(err, registry.ErrPoolInactive)

	before := f.mu.Clone()
	_, _, err = f.engine.RemoveLiquidity(ctx, f.mu, alice, f.pool.ID, shares, 0, 0, 3)
	require.ErrorIs(err, registry.ErrPoolInactive)
	require.Equal(before.Storage, f.mu.Storage)

	// a resumed pool that lost its allow-listing still refuses withdrawals
	require.NoError(f.reg.SetActive(ctx, f.mu, owner, f.pool.ID, true))
	require.NoError(f.reg.SetPoolAuthorized(ctx, f.mu, owner, f.pool.ID, false))
	_, _, err = f.engine.RemoveLiquidity(ctx, f.mu, alice, f.pool.ID, shares, 0, 0, 3)
	require.ErrorIs(err, registry.ErrPoolNotAuthorized)

	require.NoError(f.reg.SetPoolAuthorized(ctx, f.mu, owner, f.pool.ID, true))
	a, b, err := f.engine.RemoveLiquidity(ctx, f.mu, alice, f.pool.ID, shares, 0, 0, 4)
	require.NoError(err)
	require.Equal(uint64(3_000), a)
	require.Equal(uint64(3_000), b)

	p := f.reload(t)
	require.Equal(consts.MinimumLiquidity, p.TotalShares)
	require.Equal(uint64(1_000), p.ReserveA)
	require.Equal(uint64(1_000), p.ReserveB)
}

func TestEngineLockedShares(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	f := newFixture(t, 10_000)

	_, err := f.engine.AddLiquidity(ctx, f.mu, alice, f.pool.ID, 10_000, 10_000, 0, 2)
	require.NoError(err)

	before := f.mu.Clone()
	_, _, err = f.engine.RemoveLiquidity(ctx, f.mu, registry.LockedLiquidityHolder, f.pool.ID, consts.MinimumLiquidity, 0, 0, 3)
	require.ErrorIs(err, registry.ErrLockedShares)
	require.Equal(errkind.Authorization, errkind.Of(err))
	require.Equal(before.Storage, f.mu.Storage)

	_, err = f.engine.AddLiquidity(ctx, f.mu, registry.LockedLiquidityHolder, f.pool.ID, 100, 100, 0, 3)
	require.ErrorIs(err, registry.ErrLockedShares)

	locked, err := f.reg.GetPosition(ctx, f.mu, f.pool.ID, registry.LockedLiquidityHolder)
	require.NoError(err)
	require.Equal(consts.MinimumLiquidity, locked.Shares)
	require.Equal(uint64(10_000), f.reload(t).TotalShares)
}

func TestEngineRemoveLiquidity(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	f := newFixture(t, 10_000)

	shares, err := f.engine.AddLiquidity(ctx, f.mu, alice, f.pool.ID, 2_000, 8_000, 0, 2)
	require.NoError(err)
	require.Equal(uint64(3_000), shares)

	_, _, err = f.engine.RemoveLiquidity(ctx, f.mu, bob, f.pool.ID, 100, 0, 0, 3)
	require.ErrorIs(err, registry.ErrInsufficientShares)

	before := f.mu.Clone()
	_, _, err = f.engine.RemoveLiquidity(ctx, f.mu, alice, f.pool.ID, 1_000, 501, 0, 3)
	require.ErrorIs(err, ErrSlippage)
	require.Equal(before.Storage, f.mu.Storage)

	a, b, err := f.engine.RemoveLiquidity(ctx, f.mu, alice, f.pool.ID, 1_000, 500, 2_000, 3)
	require.NoError(err)
	require.Equal(uint64(500), a)
	require.Equal(uint64(2_000), b)

	pos, err := f.reg.GetPosition(ctx, f.mu, f.pool.ID, alice)
	require.NoError(err)
	require.Equal(uint64(2_000), pos.Shares)
	require.Equal(int64(3), pos.UpdatedAt)
	require.Equal(uint64(8_500), f.balance(t, tokenX, alice))
}

func TestEngineSkewedDeposit(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	f := newFixture(t, 10_000)

	_, err := f.engine.AddLiquidity(ctx, f.mu, alice, f.pool.ID, 2_000, 2_000, 0, 2)
	require.NoError(err)

	_, err = f.engine.AddLiquidity(ctx, f.mu, bob, f.pool.ID, 1_000, 500, 501, 3)
	require.ErrorIs(err, ErrSlippage)

	shares, err := f.engine.AddLiquidity(ctx, f.mu, bob, f.pool.ID, 1_000, 500, 500, 3)
	require.NoError(err)
	require.Equal(uint64(500), shares)

	// the unmatched 500 X stays in the pool
	p := f.reload(t)
	require.Equal(uint64(3_000), p.ReserveA)
	require.Equal(uint64(2_500), p.ReserveB)
	require.Equal(uint64(2_500), p.TotalShares)
}

func TestEngineCalculateOptimalAmounts(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	f := newFixture(t, 10_000)

	amount, err := f.engine.CalculateOptimalAmounts(ctx, f.mu, f.pool.ID, 700, AToB)
	require.NoError(err)
	require.Equal(uint64(700), amount)

	_, err = f.engine.AddLiquidity(ctx, f.mu, alice, f.pool.ID, 1_000, 4_000, 0, 2)
	require.NoError(err)
	amount, err = f.engine.CalculateOptimalAmounts(ctx, f.mu, f.pool.ID, 700, AToB)
	require.NoError(err)
	require.Equal(uint64(2_800), amount)
	amount, err = f.engine.CalculateOptimalAmounts(ctx, f.mu, f.pool.ID, 700, BToA)
	require.NoError(err)
	require.Equal(uint64(175), amount)
}

// TestEngineDeclaredKeys runs each operation inside a view scoped to the
// keys the engine declares for it.
func TestEngineDeclaredKeys(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	f := newFixture(t, 10_000)

	db := memdb.New()
	for k, v := range f.mu.Storage {
		require.NoError(db.Put([]byte(k), v))
	}
	ts := tstate.New(db)

	view := ts.NewView(f.engine.LiquidityKeys(f.pool, alice))
	_, err := f.engine.AddLiquidity(ctx, view, alice, f.pool.ID, 3_000, 3_000, 0, 2)
	require.NoError(err)
	require.NoError(view.Commit())

	view = ts.NewView(f.engine.SwapKeys(f.pool, BToA, bob, alice))
	out, err := f.engine.Swap(ctx, view, bob, alice, f.pool.ID, BToA, 500, 0)
	require.NoError(err)
	require.NoError(view.Commit())

	view = ts.NewView(f.engine.QuoteKeys(f.pool.ID))
	_, err = f.engine.Quote(ctx, view, f.pool.ID, 10, AToB)
	require.NoError(err)

	view = ts.NewView(f.engine.LiquidityKeys(f.pool, alice))
	_, _, err = f.engine.RemoveLiquidity(ctx, view, alice, f.pool.ID, 2_000, 0, 0, 3)
	require.NoError(err)
	require.NoError(view.Commit())

	got, err := storage.GetBalance(ctx, tstate.New(db).NewView(f.tokens.BalanceKeys(tokenX, alice)), tokenX, alice)
	require.NoError(err)
	require.Equal(uint64(10_000)-3_000+out+2_000*(3_000-out)/3_000, got)
}
