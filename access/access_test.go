// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package access

import (
	"context"
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/shieldswap/codec"
	"github.com/ava-labs/shieldswap/consts"
	"github.com/ava-labs/shieldswap/errkind"
	"github.com/ava-labs/shieldswap/state/statetest"
	"github.com/ava-labs/shieldswap/storage"
)

var (
	owner   = codec.CreateAddress(consts.AccountID, ids.ID{1})
	auditor = codec.CreateAddress(consts.AccountID, ids.ID{2})
	user    = codec.CreateAddress(consts.AccountID, ids.ID{3})
)

func TestCheck(t *testing.T) {
	ctx := context.TODO()
	mu := statetest.NewInMemoryStore()
	require.NoError(t, storage.SetOwner(ctx, mu, owner))
	require.NoError(t, storage.SetAuditor(ctx, mu, auditor, true))

	tests := []struct {
		name    string
		c       Capability
		caller  codec.Address
		subject codec.Address
		err     error
	}{
		{"anyone", None, user, owner, nil},
		{"owner", Owner, owner, codec.EmptyAddress, nil},
		{"not owner", Owner, user, codec.EmptyAddress, ErrNotOwner},
		{"auditor", Auditor, auditor, user, nil},
		{"owner is not auditor", Auditor, owner, user, ErrNotAuditor},
		{"self", SelfOrOwner, user, user, nil},
		{"owner over account", SelfOrOwner, owner, user, nil},
		{"stranger", SelfOrOwner, auditor, user, ErrNotSelfOrOwner},
		{"unknown", Capability(99), owner, user, ErrUnknownCapability},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Check(ctx, mu, tt.c, tt.caller, tt.subject)
			require.ErrorIs(t, err, tt.err)
			if tt.err != nil && tt.c != Capability(99) {
				require.Equal(t, errkind.Authorization, errkind.Of(err))
			}
		})
	}
}

func TestNoOwner(t *testing.T) {
	mu := statetest.NewInMemoryStore()

	// an unset owner must not match the empty address
	require.ErrorIs(t, RequireOwner(context.TODO(), mu, codec.EmptyAddress), ErrNotOwner)
}

func TestStateKeys(t *testing.T) {
	require := require.New(t)

	require.Contains(StateKeys(Owner, user), string(storage.OwnerKey()))
	require.Contains(StateKeys(Auditor, user), string(storage.AuditorKey(user)))
	require.Empty(StateKeys(None, user))
}
