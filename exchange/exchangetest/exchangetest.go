// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package exchangetest builds in-memory exchanges for tests of the
// packages layered on top of the exchange.
package exchangetest

import (
	"context"
	"testing"
	"time"

	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/shieldswap/codec"
	"github.com/ava-labs/shieldswap/consts"
	"github.com/ava-labs/shieldswap/exchange"
	"github.com/ava-labs/shieldswap/token"
	"github.com/ava-labs/shieldswap/trace"
)

const Start = 1_000

var (
	Owner  = codec.CreateAddress(consts.AccountID, ids.ID{1})
	Alice  = codec.CreateAddress(consts.AccountID, ids.ID{2})
	Bob    = codec.CreateAddress(consts.AccountID, ids.ID{3})
	TokenX = codec.CreateAddress(consts.TokenID, ids.ID{5})
	TokenY = codec.CreateAddress(consts.TokenID, ids.ID{6})
)

// New returns an exchange owned by Owner whose clock is fixed at Start.
func New(t testing.TB) *exchange.Exchange {
	require := require.New(t)

	tracer, err := trace.New(&trace.Config{})
	require.NoError(err)
	ex, err := exchange.New(logging.NoLog{}, tracer, prometheus.NewRegistry(), memdb.New(), token.StateLedger{})
	require.NoError(err)
	ex.Clock().Set(time.UnixMilli(Start))
	require.NoError(ex.Initialize(context.Background(), Owner))
	t.Cleanup(func() { _ = ex.Close() })
	return ex
}

// NewMarket lists TokenX and TokenY, gives Alice and Bob [funds] of each and
// seeds a 30 bps X/Y pool from Alice with [liquidity] of each side.
func NewMarket(t testing.TB, funds uint64, liquidity uint64) (*exchange.Exchange, ids.ID) {
	require := require.New(t)
	ctx := context.Background()
	ex := New(t)

	for _, tkn := range []codec.Address{TokenX, TokenY} {
		require.NoError(ex.AuthorizeToken(ctx, Owner, tkn))
		for _, acct := range []codec.Address{Alice, Bob} {
			require.NoError(ex.MintTokens(ctx, Owner, tkn, acct, funds))
		}
	}
	poolID, err := ex.CreatePool(ctx, Owner, TokenX, TokenY, 30)
	require.NoError(err)
	if liquidity > 0 {
		_, err = ex.AddLiquidity(ctx, Alice, poolID, liquidity, liquidity, 0)
		require.NoError(err)
	}
	return ex, poolID
}
