// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPermissionsHas(t *testing.T) {
	tests := []struct {
		perm    Permissions
		require Permissions
		has     bool
	}{
		{Read, Read, true},
		{Read, Write, false},
		{Write, Read, true},
		{Allocate, Write, false},
		{All, Write, true},
		{All, Allocate, true},
		{None, Read, false},
		{Read, None, true},
	}
	for _, tt := range tests {
		require.Equal(t, tt.has, tt.perm.Has(tt.require), "%s has %s", tt.perm, tt.require)
	}
}

func TestKeysAdd(t *testing.T) {
	require := require.New(t)

	k := Keys{}
	k.Add("b", Read)
	k.Add("b", Write)
	k.Add("a", Allocate)
	require.Equal(Write, k["b"])
	require.Equal([]string{"a", "b"}, k.Sorted())

	k.Merge(Keys{"a": Write, "c": Read})
	require.Equal(All, k["a"])
	require.Len(k, 3)
}

func TestPermissionsString(t *testing.T) {
	require := require.New(t)

	require.Equal("none", None.String())
	require.Equal("read", Read.String())
	require.Equal("read|write", Write.String())
	require.Equal("read|allocate|write", All.String())
}
