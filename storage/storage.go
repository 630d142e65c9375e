// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"encoding/binary"
	"errors"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/ids"

	"github.com/ava-labs/shieldswap/codec"
	"github.com/ava-labs/shieldswap/consts"
	"github.com/ava-labs/shieldswap/keys"
)

// Key prefixes
const (
	ownerPrefix byte = iota
	auditorPrefix
	tokenAllowPrefix
	poolAllowPrefix
	poolPrefix
	positionPrefix
	accountPrefix
	proofPrefix
	balancePrefix
	allowancePrefix
)

// Chunks
const (
	OwnerChunks     uint16 = 1
	FlagChunks      uint16 = 1
	PoolChunks      uint16 = 3
	PositionChunks  uint16 = 1
	AccountChunks   uint16 = 5
	ProofChunks     uint16 = 1
	BalanceChunks   uint16 = 1
	AllowanceChunks uint16 = 1
)

var ErrCorruptRecord = errors.New("corrupt record")

// flag is stored for set membership keys.
var flag = []byte{1}

func OwnerKey() []byte {
	return keys.EncodeChunks([]byte{ownerPrefix}, OwnerChunks)
}

func AuditorKey(addr codec.Address) []byte {
	return addressKey(auditorPrefix, addr, FlagChunks)
}

func TokenAllowKey(token codec.Address) []byte {
	return addressKey(tokenAllowPrefix, token, FlagChunks)
}

func PoolAllowKey(poolID ids.ID) []byte {
	return idKey(poolAllowPrefix, poolID, FlagChunks)
}

func PoolKey(poolID ids.ID) []byte {
	return idKey(poolPrefix, poolID, PoolChunks)
}

// PoolPrefix is the key prefix shared by every pool record.
func PoolPrefix() []byte {
	return []byte{poolPrefix}
}

func PositionKey(poolID ids.ID, provider codec.Address) []byte {
	k := make([]byte, 1+consts.IDLen+codec.AddressLen+consts.Uint16Len)
	k[0] = positionPrefix
	copy(k[1:], poolID[:])
	copy(k[1+consts.IDLen:], provider[:])
	binary.BigEndian.PutUint16(k[1+consts.IDLen+codec.AddressLen:], PositionChunks)
	return k
}

func AccountKey(token codec.Address, owner codec.Address) []byte {
	return pairKey(accountPrefix, token, owner, AccountChunks)
}

func ProofKey(proofHash ids.ID) []byte {
	return idKey(proofPrefix, proofHash, ProofChunks)
}

func BalanceKey(token codec.Address, account codec.Address) []byte {
	return pairKey(balancePrefix, token, account, BalanceChunks)
}

func AllowanceKey(token codec.Address, owner codec.Address, spender codec.Address) []byte {
	k := make([]byte, 1+3*codec.AddressLen+consts.Uint16Len)
	k[0] = allowancePrefix
	copy(k[1:], token[:])
	copy(k[1+codec.AddressLen:], owner[:])
	copy(k[1+2*codec.AddressLen:], spender[:])
	binary.BigEndian.PutUint16(k[1+3*codec.AddressLen:], AllowanceChunks)
	return k
}

func addressKey(prefix byte, addr codec.Address, chunks uint16) []byte {
	k := make([]byte, 1+codec.AddressLen+consts.Uint16Len)
	k[0] = prefix
	copy(k[1:], addr[:])
	binary.BigEndian.PutUint16(k[1+codec.AddressLen:], chunks)
	return k
}

func pairKey(prefix byte, a codec.Address, b codec.Address, chunks uint16) []byte {
	k := make([]byte, 1+2*codec.AddressLen+consts.Uint16Len)
	k[0] = prefix
	copy(k[1:], a[:])
	copy(k[1+codec.AddressLen:], b[:])
	binary.BigEndian.PutUint16(k[1+2*codec.AddressLen:], chunks)
	return k
}

func idKey(prefix byte, id ids.ID, chunks uint16) []byte {
	k := make([]byte, 1+consts.IDLen+consts.Uint16Len)
	k[0] = prefix
	copy(k[1:], id[:])
	binary.BigEndian.PutUint16(k[1+consts.IDLen:], chunks)
	return k
}

func notFound(err error) bool {
	return errors.Is(err, database.ErrNotFound)
}
