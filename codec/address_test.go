// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"encoding/json"
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/shieldswap/consts"
)

func TestAddressBech32(t *testing.T) {
	require := require.New(t)

	addr := CreateAddress(consts.AccountID, ids.GenerateTestID())
	s, err := AddressBech32(consts.HRP, addr)
	require.NoError(err)

	parsed, err := ParseAddressBech32(consts.HRP, s)
	require.NoError(err)
	require.Equal(addr, parsed)

	_, err = ParseAddressBech32("other", s)
	require.ErrorIs(err, ErrIncorrectHRP)
}

func TestAddressText(t *testing.T) {
	require := require.New(t)

	addr := CreateAddress(consts.TokenID, ids.GenerateTestID())
	b, err := json.Marshal(addr)
	require.NoError(err)

	var out Address
	require.NoError(json.Unmarshal(b, &out))
	require.Equal(addr, out)

	// bech32 is accepted as well
	var fromBech Address
	require.NoError(fromBech.UnmarshalText([]byte(MustAddressBech32(consts.HRP, addr))))
	require.Equal(addr, fromBech)
}

func TestAddressCompare(t *testing.T) {
	require := require.New(t)

	a := CreateAddress(consts.TokenID, ids.ID{1})
	b := CreateAddress(consts.TokenID, ids.ID{2})
	require.Negative(a.Compare(b))
	require.Positive(b.Compare(a))
	require.Zero(a.Compare(a))
	require.True(EmptyAddress.Empty())
	require.Equal(consts.TokenID, a.TypeID())
}

func TestPackerRoundTrip(t *testing.T) {
	require := require.New(t)

	id := ids.GenerateTestID()
	addr := CreateAddress(consts.AccountID, id)
	w := NewWriter(128, 1024)
	w.PackID(id)
	w.PackAddress(addr)
	w.PackUint64(42)
	w.PackInt64(-7)
	w.PackBool(true)
	w.PackBytes([]byte("key"))
	require.NoError(w.Err())

	r := NewReader(w.Bytes(), 1024)
	var (
		gotID   ids.ID
		gotAddr Address
		gotKey  []byte
	)
	r.UnpackID(true, &gotID)
	r.UnpackAddress(&gotAddr)
	require.Equal(uint64(42), r.UnpackUint64())
	require.Equal(int64(-7), r.UnpackInt64())
	require.True(r.UnpackBool())
	r.UnpackBytes(16, true, &gotKey)
	require.NoError(r.Err())
	require.True(r.Empty())
	require.Equal(id, gotID)
	require.Equal(addr, gotAddr)
	require.Equal([]byte("key"), gotKey)
}

func TestPackerRequiredID(t *testing.T) {
	require := require.New(t)

	w := NewWriter(32, 32)
	w.PackID(ids.Empty)
	r := NewReader(w.Bytes(), 32)
	var id ids.ID
	r.UnpackID(true, &id)
	require.ErrorIs(r.Err(), ErrFieldNotPopulated)
}
