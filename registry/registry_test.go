// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package registry

import (
	"context"
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/shieldswap/access"
	"github.com/ava-labs/shieldswap/codec"
	"github.com/ava-labs/shieldswap/consts"
	"github.com/ava-labs/shieldswap/errkind"
	"github.com/ava-labs/shieldswap/state/statetest"
	"github.com/ava-labs/shieldswap/storage"
)

var (
	owner  = codec.CreateAddress(consts.AccountID, ids.ID{1})
	alice  = codec.CreateAddress(consts.AccountID, ids.ID{2})
	tokenX = codec.CreateAddress(consts.TokenID, ids.ID{3})
	tokenY = codec.CreateAddress(consts.TokenID, ids.ID{4})
	tokenZ = codec.CreateAddress(consts.TokenID, ids.ID{5})
)

func setup(t *testing.T) (*Registry, *statetest.InMemoryStore) {
	ctx := context.TODO()
	r := New()
	mu := statetest.NewInMemoryStore()
	require.NoError(t, storage.SetOwner(ctx, mu, owner))
	require.NoError(t, r.SetTokenAuthorized(ctx, mu, owner, tokenX, true))
	require.NoError(t, r.SetTokenAuthorized(ctx, mu, owner, tokenY, true))
	return r, mu
}

func TestCreatePool(t *testing.T) {
	ctx := context.TODO()

	tests := []struct {
		name   string
		tokenA codec.Address
		tokenB codec.Address
		fee    uint64
		err    error
		kind   errkind.Kind
	}{
		{"identical", tokenX, tokenX, 30, ErrIdenticalTokens, errkind.Validation},
		{"empty", codec.EmptyAddress, tokenX, 30, ErrZeroAddress, errkind.Validation},
		{"fee too high", tokenX, tokenY, consts.MaxFeeBps + 1, ErrFeeTooHigh, errkind.Validation},
		{"not allowed", tokenX, tokenZ, 30, ErrTokenNotAuthorized, errkind.Authorization},
		{"max fee", tokenY, tokenX, consts.MaxFeeBps, nil, errkind.Unknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, mu := setup(t)
			p, err := r.CreatePool(ctx, mu, owner, tt.tokenA, tt.tokenB, tt.fee, 10)
			require.ErrorIs(t, err, tt.err)
			require.Equal(t, tt.kind, errkind.Of(err))
			if err != nil {
				require.Nil(t, p)
				return
			}
			require.Equal(t, tokenX, p.TokenA)
			require.Equal(t, tokenY, p.TokenB)
			require.True(t, p.Active)
			require.Zero(t, p.TotalShares)
		})
	}
}

func TestCreatePoolOwnerOnly(t *testing.T) {
	require := require.New(t)
	r, mu := setup(t)

	_, err := r.CreatePool(context.TODO(), mu, alice, tokenX, tokenY, 30, 10)
	require.ErrorIs(err, access.ErrNotOwner)
	require.Equal(errkind.Authorization, errkind.Of(err))
}

func TestCreatePoolDuplicate(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	r, mu := setup(t)

	p, err := r.CreatePool(ctx, mu, owner, tokenX, tokenY, 30, 10)
	require.NoError(err)
	ok, err := r.IsPoolAuthorized(ctx, mu, p.ID)
	require.NoError(err)
	require.True(ok)

	// reversed order and a different fee still collide
	_, err = r.CreatePool(ctx, mu, owner, tokenY, tokenX, 5, 11)
	require.ErrorIs(err, ErrPoolExists)
	require.Equal(errkind.State, errkind.Of(err))

	got, err := r.GetPool(ctx, mu, p.ID)
	require.NoError(err)
	require.Equal(p, got)
}

func TestPauseResume(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	r, mu := setup(t)

	p, err := r.CreatePool(ctx, mu, owner, tokenX, tokenY, 30, 10)
	require.NoError(err)

	require.ErrorIs(r.SetActive(ctx, mu, alice, p.ID, false), access.ErrNotOwner)
	require.NoError(r.SetActive(ctx, mu, owner, p.ID, false))
	_, err = r.ActivePool(ctx, mu, p.ID)
	require.ErrorIs(err, ErrPoolInactive)

	// queries still work on paused pools
	got, err := r.GetPool(ctx, mu, p.ID)
	require.NoError(err)
	require.False(got.Active)

	require.NoError(r.SetActive(ctx, mu, owner, p.ID, true))
	_, err = r.ActivePool(ctx, mu, p.ID)
	require.NoError(err)

	require.NoError(r.SetPoolAuthorized(ctx, mu, owner, p.ID, false))
	_, err = r.ActivePool(ctx, mu, p.ID)
	require.ErrorIs(err, ErrPoolNotAuthorized)

	require.ErrorIs(r.SetActive(ctx, mu, owner, ids.GenerateTestID(), false), ErrPoolNotFound)
}

func TestSetFee(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	r, mu := setup(t)

	p, err := r.CreatePool(ctx, mu, owner, tokenX, tokenY, 30, 10)
	require.NoError(err)
	require.ErrorIs(r.SetFee(ctx, mu, owner, p.ID, consts.MaxFeeBps+1), ErrFeeTooHigh)
	require.ErrorIs(r.SetFee(ctx, mu, alice, p.ID, 5), access.ErrNotOwner)
	require.NoError(r.SetFee(ctx, mu, owner, p.ID, 5))

	got, err := r.GetPool(ctx, mu, p.ID)
	require.NoError(err)
	require.Equal(uint64(5), got.Fee)
}

func TestShares(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	r, mu := setup(t)

	p, err := r.CreatePool(ctx, mu, owner, tokenX, tokenY, 30, 10)
	require.NoError(err)

	require.NoError(r.CreditShares(ctx, mu, p, LockedLiquidityHolder, consts.MinimumLiquidity, 11))
	require.NoError(r.CreditShares(ctx, mu, p, alice, 500, 11))
	require.Equal(uint64(1_500), p.TotalShares)

	require.ErrorIs(r.DebitShares(ctx, mu, p, alice, 501, 12), ErrInsufficientShares)
	require.NoError(r.DebitShares(ctx, mu, p, alice, 500, 12))
	require.Equal(consts.MinimumLiquidity, p.TotalShares)

	pos, err := r.GetPosition(ctx, mu, p.ID, alice)
	require.NoError(err)
	require.Zero(pos.Shares)
	require.Equal(int64(12), pos.UpdatedAt)
}

func TestTransferOwnership(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	r, mu := setup(t)

	require.ErrorIs(r.TransferOwnership(ctx, mu, alice, alice), access.ErrNotOwner)
	require.ErrorIs(r.TransferOwnership(ctx, mu, owner, codec.EmptyAddress), ErrZeroAddress)
	require.NoError(r.TransferOwnership(ctx, mu, owner, alice))
	require.ErrorIs(r.SetTokenAuthorized(ctx, mu, owner, tokenZ, true), access.ErrNotOwner)
	require.NoError(r.SetTokenAuthorized(ctx, mu, alice, tokenZ, true))
}

func TestCreatePoolKeys(t *testing.T) {
	require := require.New(t)
	r := New()

	id, err := storage.PoolID(tokenX, tokenY)
	require.NoError(err)
	ks := r.CreatePoolKeys(owner, tokenY, tokenX)
	require.Contains(ks, string(storage.PoolKey(id)))
	require.Contains(ks, string(storage.TokenAllowKey(tokenX)))
	require.Contains(ks, string(storage.OwnerKey()))

	require.Len(r.CreatePoolKeys(owner, tokenX, tokenX), 2)
}
