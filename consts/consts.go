// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package consts

import "time"

const (
	Name    = "shieldswap"
	Version = "v0.1.0"

	// HRP is the bech32 prefix of human readable addresses.
	HRP = "shield"

	IDLen     = 32
	ByteLen   = 1
	BoolLen   = 1
	Uint16Len = 2
	Uint32Len = 4
	Uint64Len = 8
	Int64Len  = 8
	Word256   = 32

	MaxUint16 = ^uint16(0)
	MaxUint64 = ^uint64(0)
)

// Address type identifiers.
const (
	AccountID uint8 = iota
	TokenID
	PoolCustodyID
	EscrowID
)

const (
	// FeeDenominator is the basis point scale for pool fees.
	FeeDenominator uint64 = 10_000
	// MaxFeeBps caps a pool fee at 10%.
	MaxFeeBps uint64 = 1_000
	// MinimumLiquidity is locked forever on the first deposit into a pool.
	MinimumLiquidity uint64 = 1_000
	// MaxHops bounds the length of a routed swap.
	MaxHops = 4

	MaxPublicKeySize = 256
	MaxProofSize     = 4_096
	DefaultDeadline  = 20 * time.Minute
)
