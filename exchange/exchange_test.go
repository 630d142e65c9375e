// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package exchange

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/sync/errgroup"

	"github.com/ava-labs/shieldswap/access"
	"github.com/ava-labs/shieldswap/amm"
	"github.com/ava-labs/shieldswap/codec"
	"github.com/ava-labs/shieldswap/consts"
	"github.com/ava-labs/shieldswap/errkind"
	"github.com/ava-labs/shieldswap/event"
	"github.com/ava-labs/shieldswap/ledger"
	"github.com/ava-labs/shieldswap/registry"
	"github.com/ava-labs/shieldswap/router"
	"github.com/ava-labs/shieldswap/state"
	"github.com/ava-labs/shieldswap/storage"
	"github.com/ava-labs/shieldswap/token"
	"github.com/ava-labs/shieldswap/trace"
)

const start = 1_000

var (
	owner   = codec.CreateAddress(consts.AccountID, ids.ID{1})
	alice   = codec.CreateAddress(consts.AccountID, ids.ID{2})
	bob     = codec.CreateAddress(consts.AccountID, ids.ID{3})
	auditor = codec.CreateAddress(consts.AccountID, ids.ID{4})
	tokenX  = codec.CreateAddress(consts.TokenID, ids.ID{5})
	tokenY  = codec.CreateAddress(consts.TokenID, ids.ID{6})
	tokenZ  = codec.CreateAddress(consts.TokenID, ids.ID{7})
)

func newExchange(t *testing.T, tokens token.Ledger) *Exchange {
	require := require.New(t)

	tracer, err := trace.New(&trace.Config{})
	require.NoError(err)
	ex, err := New(logging.NoLog{}, tracer, prometheus.NewRegistry(), memdb.New(), tokens)
	require.NoError(err)
	ex.Clock().Set(time.UnixMilli(start))
	require.NoError(ex.Initialize(context.Background(), owner))
	return ex
}

// newMarket lists X and Y, funds alice and bob with [funds] of each and
// seeds an X/Y pool from alice with [liquidity] of each side.
func newMarket(t *testing.T, funds uint64, liquidity uint64) (*Exchange, ids.ID) {
	require := require.New(t)
	ctx := context.Background()
	ex := newExchange(t, token.StateLedger{})

	for _, tkn := range []codec.Address{tokenX, tokenY} {
		require.NoError(ex.AuthorizeToken(ctx, owner, tkn))
		for _, acct := range []codec.Address{alice, bob} {
			require.NoError(ex.MintTokens(ctx, owner, tkn, acct, funds))
		}
	}
	poolID, err := ex.CreatePool(ctx, owner, tokenX, tokenY, 30)
	require.NoError(err)
	if liquidity > 0 {
		_, err = ex.AddLiquidity(ctx, alice, poolID, liquidity, liquidity, 0)
		require.NoError(err)
	}
	return ex, poolID
}

func TestInitialize(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	ex := newExchange(t, token.StateLedger{})

	got, err := ex.Owner(ctx)
	require.NoError(err)
	require.Equal(owner, got)

	err = ex.Initialize(ctx, alice)
	require.ErrorIs(err, ErrOwnerExists)
	require.Equal(errkind.State, errkind.Of(err))

	require.NoError(ex.TransferOwnership(ctx, owner, alice))
	got, err = ex.Owner(ctx)
	require.NoError(err)
	require.Equal(alice, got)
	require.ErrorIs(ex.AuthorizeToken(ctx, owner, tokenX), access.ErrNotOwner)
}

func TestLiquidityAndSwap(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	ex, poolID := newMarket(t, 10_000, 0)

	shares, err := ex.AddLiquidity(ctx, alice, poolID, 2_000, 2_000, 0)
	require.NoError(err)
	require.Equal(uint64(1_000), shares)

	locked, err := ex.GetPosition(ctx, poolID, registry.LockedLiquidityHolder)
	require.NoError(err)
	require.Equal(consts.MinimumLiquidity, locked.Shares)

	quote, err := ex.Quote(ctx, poolID, 100, amm.AToB)
	require.NoError(err)
	require.Equal(uint64(94), quote)

	dir, err := ex.Direction(ctx, poolID, tokenX)
	require.NoError(err)
	require.Equal(amm.AToB, dir)
	_, err = ex.Direction(ctx, poolID, codec.CreateAddress(consts.TokenID, ids.ID{9}))
	require.ErrorIs(err, ErrUnknownPoolSide)

	out, err := ex.Swap(ctx, bob, poolID, dir, 100, quote)
	require.NoError(err)
	require.Equal(quote, out)

	balance, err := ex.BalanceOf(ctx, tokenY, bob)
	require.NoError(err)
	require.Equal(10_000+out, balance)

	p, err := ex.GetPool(ctx, poolID)
	require.NoError(err)
	require.Equal(uint64(2_100), p.ReserveA)
	require.Equal(uint64(2_000)-out, p.ReserveB)
	requireCustody(t, ex, p)

	amountA, amountB, err := ex.RemoveLiquidity(ctx, alice, poolID, shares, 1, 1)
	require.NoError(err)
	require.Positive(amountA)
	require.Positive(amountB)
	p, err = ex.GetPool(ctx, poolID)
	require.NoError(err)
	require.Equal(consts.MinimumLiquidity, p.TotalShares)
	requireCustody(t, ex, p)
}

func TestFailedOperationLeavesState(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	ex, poolID := newMarket(t, 10_000, 5_000)

	before, err := ex.GetPool(ctx, poolID)
	require.NoError(err)

	// slippage is detected before anything moves
	_, err = ex.SwapExactIn(ctx, bob, tokenX, tokenY, 100, 1_000, bob, start)
	require.ErrorIs(err, amm.ErrSlippage)
	require.Equal(errkind.Slippage, errkind.Of(err))

	// the input transfer fails after the reserves were computed
	_, err = ex.Swap(ctx, bob, poolID, amm.AToB, 20_000, 0)
	require.ErrorIs(err, token.ErrInsufficientBalance)

	after, err := ex.GetPool(ctx, poolID)
	require.NoError(err)
	require.Equal(before, after)
	balance, err := ex.BalanceOf(ctx, tokenX, bob)
	require.NoError(err)
	require.Equal(uint64(10_000), balance)

	ex.Clock().Set(time.UnixMilli(start + 1))
	_, err = ex.SwapExactIn(ctx, bob, tokenX, tokenY, 100, 0, bob, start)
	require.ErrorIs(err, router.ErrDeadlineExceeded)
}

func TestConfidentialFlow(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	ex, _ := newMarket(t, 10_000, 0)

	require.NoError(ex.Register(ctx, alice, tokenX, []byte("alice")))
	require.NoError(ex.Register(ctx, bob, tokenX, []byte("bob")))
	require.NoError(ex.Deposit(ctx, alice, tokenX, 500, 1))

	ok, err := ex.ConfidentialTransfer(ctx, alice, tokenX, bob, 200, 2, []byte("proof-1"))
	require.NoError(err)
	require.True(ok)

	_, err = ex.ConfidentialTransfer(ctx, alice, tokenX, bob, 1, 3, []byte("proof-1"))
	require.ErrorIs(err, ledger.ErrProofUsed)

	balance, err := ex.GetConfidentialBalance(ctx, alice, tokenX, alice)
	require.NoError(err)
	require.Equal(uint64(300), balance)
	_, err = ex.GetConfidentialBalance(ctx, alice, tokenX, bob)
	require.ErrorIs(err, access.ErrNotSelfOrOwner)

	_, err = ex.DiscloseForAuditor(ctx, auditor, tokenX, bob)
	require.ErrorIs(err, access.ErrNotAuditor)
	require.NoError(ex.AuthorizeAuditor(ctx, owner, auditor))
	balance, err = ex.DiscloseForAuditor(ctx, auditor, tokenX, bob)
	require.NoError(err)
	require.Equal(uint64(200), balance)
	require.NoError(ex.RevokeAuditor(ctx, owner, auditor))
	_, err = ex.DiscloseForAuditor(ctx, auditor, tokenX, bob)
	require.ErrorIs(err, access.ErrNotAuditor)

	c, err := ex.GetCommitment(ctx, tokenX, bob)
	require.NoError(err)
	require.True(c.Registered)
	require.Equal(uint64(3), c.Nonce)
	require.Equal(ledger.Commit(200, 3), c.Commitment)

	require.NoError(ex.Withdraw(ctx, bob, tokenX, 200, 4))
	plain, err := ex.BalanceOf(ctx, tokenX, bob)
	require.NoError(err)
	require.Equal(uint64(10_200), plain)
	escrow, err := ex.BalanceOf(ctx, tokenX, ledger.EscrowAddress(tokenX))
	require.NoError(err)
	require.Equal(uint64(300), escrow)
}

func TestTokenOperations(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	ex, _ := newMarket(t, 1_000, 0)

	require.ErrorIs(ex.MintTokens(ctx, alice, tokenX, alice, 1), access.ErrNotOwner)
	require.ErrorIs(ex.TransferTokens(ctx, alice, tokenX, codec.EmptyAddress, 1), ErrZeroAddress)

	require.NoError(ex.ApproveTokens(ctx, alice, tokenX, bob, 300))
	require.ErrorIs(ex.TransferTokensFrom(ctx, bob, tokenX, alice, bob, 301), token.ErrInsufficientAllowance)
	require.NoError(ex.TransferTokensFrom(ctx, bob, tokenX, alice, bob, 300))

	allowance, err := ex.Allowance(ctx, tokenX, alice, bob)
	require.NoError(err)
	require.Zero(allowance)
	balance, err := ex.BalanceOf(ctx, tokenX, bob)
	require.NoError(err)
	require.Equal(uint64(1_300), balance)

	require.NoError(ex.TransferTokens(ctx, bob, tokenX, alice, 1_300))
	balance, err = ex.BalanceOf(ctx, tokenX, alice)
	require.NoError(err)
	require.Equal(uint64(2_000), balance)
}

func TestReservedActors(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	ex, poolID := newMarket(t, 10_000, 5_000)

	require.NoError(ex.Register(ctx, alice, tokenX, []byte("pk")))
	require.NoError(ex.Deposit(ctx, alice, tokenX, 500, 1))
	require.NoError(ex.ConfidentialBurn(ctx, owner, tokenX, alice, 100, 2))

	custody := storage.PoolCustody(poolID)
	escrow := ledger.EscrowAddress(tokenX)
	for _, actor := range []codec.Address{codec.EmptyAddress, custody, escrow} {
		require.ErrorIs(ex.TransferTokens(ctx, actor, tokenX, bob, 1), access.ErrReservedAddress)
		require.ErrorIs(ex.ApproveTokens(ctx, actor, tokenX, bob, 1), access.ErrReservedAddress)
		require.ErrorIs(ex.TransferTokensFrom(ctx, actor, tokenX, alice, bob, 1), access.ErrReservedAddress)
		_, err := ex.Swap(ctx, actor, poolID, amm.AToB, 10, 0)
		require.ErrorIs(err, access.ErrReservedAddress)
		_, _, err = ex.RemoveLiquidity(ctx, actor, poolID, consts.MinimumLiquidity, 0, 0)
		require.ErrorIs(err, access.ErrReservedAddress)
		require.Equal(errkind.Authorization, errkind.Of(err))
	}

	// custody still backs the recorded reserves
	p, err := ex.GetPool(ctx, poolID)
	require.NoError(err)
	require.Equal(uint64(5_000), p.TotalShares)
	held, err := ex.BalanceOf(ctx, tokenX, custody)
	require.NoError(err)
	require.Equal(p.ReserveA, held)
	locked, err := ex.BalanceOf(ctx, tokenX, escrow)
	require.NoError(err)
	require.Equal(uint64(400), locked)
	burned, err := ex.BalanceOf(ctx, tokenX, ledger.BurnAddress)
	require.NoError(err)
	require.Equal(uint64(100), burned)
}

func TestPoolAdministration(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	ex, poolID := newMarket(t, 10_000, 5_000)

	require.ErrorIs(ex.PausePool(ctx, alice, poolID), access.ErrNotOwner)
	require.NoError(ex.PausePool(ctx, owner, poolID))
	_, err := ex.Swap(ctx, bob, poolID, amm.AToB, 10, 0)
	require.ErrorIs(err, registry.ErrPoolInactive)
	_, err = ex.FindOptimalPath(ctx, tokenX, tokenY)
	require.ErrorIs(err, registry.ErrPoolInactive)

	// only queries act on a paused pool
	_, err = ex.Quote(ctx, poolID, 10, amm.AToB)
	require.NoError(err)
	_, _, err = ex.RemoveLiquidity(ctx, alice, poolID, 100, 0, 0)
	require.ErrorIs(err, registry.ErrPoolInactive)
	_, err = ex.AddLiquidity(ctx, alice, poolID, 100, 100, 0)
	require.ErrorIs(err, registry.ErrPoolInactive)

	require.NoError(ex.ResumePool(ctx, owner, poolID))
	require.NoError(ex.SetPoolFee(ctx, owner, poolID, 0))
	out, err := ex.GetAmountOut(ctx, []codec.Address{tokenX, tokenY}, 10)
	require.NoError(err)
	p, err := ex.GetPool(ctx, poolID)
	require.NoError(err)
	require.Zero(p.Fee)
	expected, err := amm.GetAmountOut(10, p.ReserveA, p.ReserveB, 0)
	require.NoError(err)
	require.Equal(expected, out)

	require.NoError(ex.RevokePool(ctx, owner, poolID))
	ok, err := ex.IsPoolAuthorized(ctx, poolID)
	require.NoError(err)
	require.False(ok)
	_, err = ex.Swap(ctx, bob, poolID, amm.AToB, 10, 0)
	require.ErrorIs(err, registry.ErrPoolNotAuthorized)
	require.NoError(ex.AuthorizePool(ctx, owner, poolID))

	require.NoError(ex.RevokeToken(ctx, owner, tokenY))
	ok, err = ex.IsTokenAuthorized(ctx, tokenY)
	require.NoError(err)
	require.False(ok)
	_, err = ex.SwapExactIn(ctx, bob, tokenX, tokenY, 10, 0, bob, start)
	require.ErrorIs(err, registry.ErrTokenNotAuthorized)

	pools, err := ex.ListPools(ctx)
	require.NoError(err)
	require.Len(pools, 1)
	require.Equal(poolID, pools[0].ID)
}

func TestEvents(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	ex, poolID := newMarket(t, 10_000, 5_000)

	var (
		lock   sync.Mutex
		events []Event
	)
	unsubscribe := ex.Subscribe(event.SubscriptionFunc[Event]{
		AcceptF: func(ctx context.Context, ev Event) error {
			// callbacks run after the operation and may read back
			if _, err := ex.GetPool(ctx, poolID); err != nil {
				return err
			}
			lock.Lock()
			defer lock.Unlock()
			events = append(events, ev)
			return nil
		},
	})

	_, err := ex.Swap(ctx, bob, poolID, amm.AToB, 100, 1_000)
	require.ErrorIs(err, amm.ErrSlippage)
	_, err = ex.Swap(ctx, bob, poolID, amm.AToB, 100, 0)
	require.NoError(err)
	require.NoError(ex.PausePool(ctx, owner, poolID))
	require.NoError(unsubscribe())
	require.NoError(ex.ResumePool(ctx, owner, poolID))

	require.Len(events, 2)
	swap := events[0]
	require.Equal(SwapExecuted, swap.Kind)
	require.Equal(bob, swap.Actor)
	require.Equal(tokenX, swap.Token)
	require.Equal(poolID, swap.PoolID)
	require.Equal(int64(start), swap.Timestamp)
	require.Equal(Tag(100, bob, start), swap.Tag)
	require.NotEqual(Tag(101, bob, start), swap.Tag)

	require.Equal(PoolPaused, events[1].Kind)
	require.Greater(events[1].Seq, swap.Seq)
}

func TestRouteEvents(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	ex, xy := newMarket(t, 10_000, 5_000)

	require.NoError(ex.AuthorizeToken(ctx, owner, tokenZ))
	require.NoError(ex.MintTokens(ctx, owner, tokenZ, alice, 10_000))
	yz, err := ex.CreatePool(ctx, owner, tokenY, tokenZ, 30)
	require.NoError(err)
	_, err = ex.AddLiquidity(ctx, alice, yz, 5_000, 5_000, 0)
	require.NoError(err)

	path := []codec.Address{tokenX, tokenY, tokenZ}
	firstLeg, err := ex.GetAmountOut(ctx, path[:2], 1_000)
	require.NoError(err)
	quote, err := ex.GetAmountOut(ctx, path, 1_000)
	require.NoError(err)
	require.NotEqual(uint64(1_000), firstLeg)

	var (
		lock   sync.Mutex
		events []Event
	)
	unsubscribe := ex.Subscribe(event.SubscriptionFunc[Event]{
		AcceptF: func(_ context.Context, ev Event) error {
			lock.Lock()
			defer lock.Unlock()
			events = append(events, ev)
			return nil
		},
	})
	out, err := ex.RouteSwap(ctx, bob, path, 1_000, quote, bob, start)
	require.NoError(err)
	require.Equal(quote, out)
	require.NoError(unsubscribe())

	// each leg is tagged with the amount it actually sold
	require.Len(events, 2)
	require.Equal(SwapExecuted, events[0].Kind)
	require.Equal(xy, events[0].PoolID)
	require.Equal(tokenX, events[0].Token)
	require.Equal(Tag(1_000, bob, start), events[0].Tag)
	require.Equal(SwapExecuted, events[1].Kind)
	require.Equal(yz, events[1].PoolID)
	require.Equal(tokenY, events[1].Token)
	require.Equal(Tag(firstLeg, bob, start), events[1].Tag)
	require.NotEqual(Tag(1_000, bob, start), events[1].Tag)
}

func TestReentrantLedger(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	ctrl := gomock.NewController(t)

	tokens := token.NewMockLedger(ctrl)
	tokens.EXPECT().BalanceKeys(gomock.Any(), gomock.Any()).Return(state.Keys{}).AnyTimes()
	ex := newExchange(t, tokens)
	require.NoError(ex.Register(ctx, alice, tokenX, []byte("alice")))

	tokens.EXPECT().
		Transfer(gomock.Any(), gomock.Any(), tokenX, alice, ledger.EscrowAddress(tokenX), uint64(50)).
		DoAndReturn(func(ctx context.Context, _ state.Mutable, tkn, from, _ codec.Address, _ uint64) error {
			return ex.Withdraw(ctx, from, tkn, 50, 9)
		})

	err := ex.Deposit(ctx, alice, tokenX, 50, 1)
	require.ErrorIs(err, ErrReentrant)
	require.Equal(errkind.State, errkind.Of(err))
	require.Equal(1.0, testutil.ToFloat64(ex.metrics.reentrant))

	balance, err := ex.GetConfidentialBalance(ctx, alice, tokenX, alice)
	require.NoError(err)
	require.Zero(balance)
}

func TestReentrantLedgerDerivedContext(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	ctrl := gomock.NewController(t)

	tokens := token.NewMockLedger(ctrl)
	tokens.EXPECT().BalanceKeys(gomock.Any(), gomock.Any()).Return(state.Keys{}).AnyTimes()
	ex := newExchange(t, tokens)
	require.NoError(ex.Register(ctx, alice, tokenX, []byte("alice")))

	// contexts derived from the one handed to the ledger keep the marker
	tokens.EXPECT().
		Transfer(gomock.Any(), gomock.Any(), tokenX, alice, ledger.EscrowAddress(tokenX), uint64(50)).
		DoAndReturn(func(ctx context.Context, _ state.Mutable, tkn, from, _ codec.Address, _ uint64) error {
			cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Second)
			defer cancel()
			_, err := ex.GetConfidentialBalance(cctx, from, tkn, from)
			return err
		})

	err := ex.Deposit(ctx, alice, tokenX, 50, 1)
	require.ErrorIs(err, ErrReentrant)
	require.Equal(1.0, testutil.ToFloat64(ex.metrics.reentrant))
	require.Zero(ex.locks.Locks())
}

func TestConcurrentSwaps(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	ex, poolID := newMarket(t, 2_000_000, 1_000_000)

	traders := make([]codec.Address, 8)
	for i := range traders {
		traders[i] = codec.CreateAddress(consts.AccountID, ids.ID{0xF0, byte(i)})
		for _, tkn := range []codec.Address{tokenX, tokenY} {
			require.NoError(ex.MintTokens(ctx, owner, tkn, traders[i], 1_000))
		}
	}
	before, err := ex.GetPool(ctx, poolID)
	require.NoError(err)

	g, gctx := errgroup.WithContext(ctx)
	for i, trader := range traders {
		trader := trader
		dir := amm.Direction(i % 2)
		g.Go(func() error {
			for j := 0; j < 10; j++ {
				if _, err := ex.Swap(gctx, trader, poolID, dir, 10, 0); err != nil {
					return fmt.Errorf("%s swap %d: %w", trader, j, err)
				}
				if _, err := ex.Quote(gctx, poolID, 10, dir); err != nil {
					return err
				}
			}
			return nil
		})
	}
	require.NoError(g.Wait())

	after, err := ex.GetPool(ctx, poolID)
	require.NoError(err)
	requireCustody(t, ex, after)
	require.True(product(after).Cmp(product(before)) > 0)
}

func requireCustody(t *testing.T, ex *Exchange, p *storage.Pool) {
	ctx := context.Background()
	a, err := ex.BalanceOf(ctx, p.TokenA, p.Custody())
	require.NoError(t, err)
	b, err := ex.BalanceOf(ctx, p.TokenB, p.Custody())
	require.NoError(t, err)
	require.Equal(t, p.ReserveA, a)
	require.Equal(t, p.ReserveB, b)
}

func product(p *storage.Pool) *big.Int {
	a := new(big.Int).SetUint64(p.ReserveA)
	return a.Mul(a, new(big.Int).SetUint64(p.ReserveB))
}
