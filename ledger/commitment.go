// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledger

import (
	"github.com/holiman/uint256"
	"golang.org/x/crypto/sha3"

	"github.com/ava-labs/shieldswap/codec"
	"github.com/ava-labs/shieldswap/storage"
)

// Commit returns keccak256(uint256(balance) || uint256(nonce)).
//
// The commitment binds a balance to a nonce so tampering with either is
// detectable. It hides nothing: anyone who knows both values can
// recompute it.
func Commit(balance uint64, nonce uint64) codec.Hash {
	b := uint256.NewInt(balance).Bytes32()
	n := uint256.NewInt(nonce).Bytes32()

	h := sha3.NewLegacyKeccak256()
	_, _ = h.Write(b[:])
	_, _ = h.Write(n[:])

	var out codec.Hash
	h.Sum(out[:0])
	return out
}

// Verify recomputes the commitment of [a] from its current balance and
// nonce.
func Verify(a *storage.Account) bool {
	return a.Commitment == Commit(a.Balance, a.Nonce)
}

func recommit(a *storage.Account, balance uint64, nonce uint64) {
	a.Balance = balance
	a.Nonce = nonce
	a.LastOpNonce = nonce
	a.Commitment = Commit(balance, nonce)
}
