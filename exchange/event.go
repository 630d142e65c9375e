// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package exchange

import (
	"encoding/binary"

	"github.com/ava-labs/avalanchego/ids"

	"github.com/ava-labs/shieldswap/codec"
	"github.com/ava-labs/shieldswap/consts"
	"github.com/ava-labs/shieldswap/utils"
)

type EventKind string

const (
	OwnerInitialized        EventKind = "owner_initialized"
	OwnershipTransferred    EventKind = "ownership_transferred"
	Registered              EventKind = "registration"
	Deposited               EventKind = "deposit"
	Withdrawn               EventKind = "withdraw"
	ConfidentialTransferred EventKind = "confidential_transfer"
	LegacyTransferred       EventKind = "legacy_transfer"
	ConfidentialMinted      EventKind = "confidential_mint"
	ConfidentialBurned      EventKind = "confidential_burn"
	AuditorAuthorized       EventKind = "auditor_authorized"
	AuditorRevoked          EventKind = "auditor_revoked"
	TokenAuthorized         EventKind = "token_authorized"
	TokenRevoked            EventKind = "token_revoked"
	PoolCreated             EventKind = "pool_created"
	PoolAuthorized          EventKind = "pool_authorized"
	PoolRevoked             EventKind = "pool_revoked"
	PoolPaused              EventKind = "pool_paused"
	PoolResumed             EventKind = "pool_resumed"
	PoolFeeChanged          EventKind = "pool_fee_changed"
	LiquidityDeposited      EventKind = "liquidity_deposited"
	LiquidityWithdrawn      EventKind = "liquidity_withdrawn"
	SwapExecuted            EventKind = "swap_executed"
	TokensTransferred       EventKind = "tokens_transferred"
	TokensApproved          EventKind = "tokens_approved"
	TokensMinted            EventKind = "tokens_minted"
)

// Event is published after an operation commits. Value-moving events
// carry a Tag derived from the amount instead of the amount itself.
type Event struct {
	Seq       uint64        `json:"seq"`
	Kind      EventKind     `json:"kind"`
	Actor     codec.Address `json:"actor"`
	Subject   codec.Address `json:"subject"`
	Token     codec.Address `json:"token"`
	PoolID    ids.ID        `json:"poolID"`
	Tag       ids.ID        `json:"tag"`
	Timestamp int64         `json:"timestamp"`
}

// Tag is an opaque marker standing in for [amount]. It is not binding:
// anyone who can guess the amount can recompute it.
func Tag(amount uint64, caller codec.Address, timestamp int64) ids.ID {
	b := make([]byte, 0, consts.Uint64Len+codec.AddressLen+consts.Int64Len)
	b = binary.BigEndian.AppendUint64(b, amount)
	b = append(b, caller[:]...)
	b = binary.BigEndian.AppendUint64(b, uint64(timestamp))
	return utils.ToID(b)
}
