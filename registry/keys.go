// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package registry

import (
	"github.com/ava-labs/avalanchego/ids"

	"github.com/ava-labs/shieldswap/access"
	"github.com/ava-labs/shieldswap/codec"
	"github.com/ava-labs/shieldswap/state"
	"github.com/ava-labs/shieldswap/storage"
)

func (r *Registry) CreatePoolKeys(caller codec.Address, tokenA codec.Address, tokenB codec.Address) state.Keys {
	ks := r.TokenKeys(tokenA, tokenB).Merge(access.StateKeys(access.Owner, caller))
	poolID, err := storage.PoolID(tokenA, tokenB)
	if err != nil {
		// CreatePool rejects the pair before touching pool keys
		return ks
	}
	ks.Add(string(storage.PoolKey(poolID)), state.All)
	ks.Add(string(storage.PoolAllowKey(poolID)), state.All)
	return ks
}

func (*Registry) TokenKeys(tokens ...codec.Address) state.Keys {
	ks := make(state.Keys, len(tokens))
	for _, t := range tokens {
		ks.Add(string(storage.TokenAllowKey(t)), state.Read)
	}
	return ks
}

func (*Registry) TokenAdminKeys(caller codec.Address, tkn codec.Address) state.Keys {
	ks := access.StateKeys(access.Owner, caller)
	ks.Add(string(storage.TokenAllowKey(tkn)), state.All)
	return ks
}

func (*Registry) PoolAdminKeys(caller codec.Address, poolID ids.ID) state.Keys {
	ks := access.StateKeys(access.Owner, caller)
	ks.Add(string(storage.PoolKey(poolID)), state.Write)
	ks.Add(string(storage.PoolAllowKey(poolID)), state.All)
	return ks
}

func (*Registry) OwnerKeys() state.Keys {
	return state.Keys{string(storage.OwnerKey()): state.All}
}

// PoolKeys covers reading and updating a pool through ActivePool.
func (*Registry) PoolKeys(poolID ids.ID) state.Keys {
	return state.Keys{
		string(storage.PoolKey(poolID)):      state.Write,
		string(storage.PoolAllowKey(poolID)): state.Read,
	}
}

// PoolReadKeys covers read-only access to a pool.
func (*Registry) PoolReadKeys(poolID ids.ID) state.Keys {
	return state.Keys{
		string(storage.PoolKey(poolID)):      state.Read,
		string(storage.PoolAllowKey(poolID)): state.Read,
	}
}

func (*Registry) PositionKeys(poolID ids.ID, providers ...codec.Address) state.Keys {
	ks := make(state.Keys, len(providers))
	for _, p := range providers {
		ks.Add(string(storage.PositionKey(poolID, p)), state.All)
	}
	return ks
}
