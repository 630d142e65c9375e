// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledger

import "github.com/ava-labs/shieldswap/errkind"

var (
	ErrZeroAmount        = errkind.New(errkind.Validation, "amount is zero")
	ErrZeroAddress       = errkind.New(errkind.Validation, "address is empty")
	ErrEmptyPublicKey    = errkind.New(errkind.Validation, "public key is empty")
	ErrPublicKeyTooLarge = errkind.New(errkind.Validation, "public key is too large")
	ErrEmptyProof        = errkind.New(errkind.Validation, "proof is empty")
	ErrProofTooLarge     = errkind.New(errkind.Validation, "proof is too large")
	ErrSelfTransfer      = errkind.New(errkind.Validation, "sender and recipient are the same account")
	ErrNonceOverflow     = errkind.New(errkind.Validation, "nonce overflow")
	ErrBalanceOverflow   = errkind.New(errkind.Validation, "confidential balance overflow")

	ErrAlreadyRegistered   = errkind.New(errkind.State, "account already registered")
	ErrNotRegistered       = errkind.New(errkind.State, "account not registered")
	ErrInsufficientBalance = errkind.New(errkind.State, "insufficient confidential balance")
	ErrCommitmentMismatch  = errkind.New(errkind.State, "commitment mismatch")
	ErrProofUsed           = errkind.New(errkind.State, "proof already used")
)
