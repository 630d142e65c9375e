// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"
	"errors"

	"github.com/ava-labs/avalanchego/ids"

	"github.com/ava-labs/shieldswap/codec"
	"github.com/ava-labs/shieldswap/consts"
	"github.com/ava-labs/shieldswap/state"
)

const (
	accountSize = consts.BoolLen + 3*consts.Uint64Len + codec.HashLen + consts.Uint32Len + consts.MaxPublicKeySize
	proofSize   = consts.Int64Len
)

// Account is the confidential ledger entry of one owner for one token.
type Account struct {
	Registered  bool       `json:"registered"`
	Balance     uint64     `json:"balance"`
	Nonce       uint64     `json:"nonce"`
	LastOpNonce uint64     `json:"lastOpNonce"`
	Commitment  codec.Hash `json:"commitment"`
	PublicKey   []byte     `json:"publicKey"`
}

// GetAccount returns the account, zero valued and unregistered if it was
// never written.
func GetAccount(ctx context.Context, im state.Immutable, token codec.Address, owner codec.Address) (*Account, error) {
	v, err := im.GetValue(ctx, AccountKey(token, owner))
	if notFound(err) {
		return &Account{}, nil
	}
	if err != nil {
		return nil, err
	}
	var (
		a          Account
		commitment ids.ID
	)
	r := codec.NewReader(v, accountSize)
	a.Registered = r.UnpackBool()
	a.Balance = r.UnpackUint64()
	a.Nonce = r.UnpackUint64()
	a.LastOpNonce = r.UnpackUint64()
	r.UnpackID(false, &commitment)
	r.UnpackBytes(consts.MaxPublicKeySize, false, &a.PublicKey)
	if err := r.Done(); err != nil {
		return nil, errors.Join(ErrCorruptRecord, err)
	}
	a.Commitment = codec.Hash(commitment)
	if len(a.PublicKey) == 0 {
		a.PublicKey = nil
	}
	return &a, nil
}

func SetAccount(ctx context.Context, mu state.Mutable, token codec.Address, owner codec.Address, a *Account) error {
	w := codec.NewWriter(accountSize, accountSize)
	w.PackBool(a.Registered)
	w.PackUint64(a.Balance)
	w.PackUint64(a.Nonce)
	w.PackUint64(a.LastOpNonce)
	w.PackID(ids.ID(a.Commitment))
	w.PackBytes(a.PublicKey)
	if err := w.Err(); err != nil {
		return err
	}
	return mu.Insert(ctx, AccountKey(token, owner), w.Bytes())
}

func IsProofUsed(ctx context.Context, im state.Immutable, proofHash ids.ID) (bool, error) {
	return hasFlag(ctx, im, ProofKey(proofHash))
}

// MarkProofUsed records [proofHash] with the time it was consumed. Proof
// records are never removed.
func MarkProofUsed(ctx context.Context, mu state.Mutable, proofHash ids.ID, usedAt int64) error {
	w := codec.NewWriter(proofSize, proofSize)
	w.PackInt64(usedAt)
	return mu.Insert(ctx, ProofKey(proofHash), w.Bytes())
}
