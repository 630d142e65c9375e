// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

//go:generate go run go.uber.org/mock/mockgen -source=ledger.go -destination=mock_ledger.go -package=token -mock_names=Ledger=MockLedger

package token

import (
	"context"
	"fmt"

	"github.com/ava-labs/shieldswap/codec"
	"github.com/ava-labs/shieldswap/errkind"
	"github.com/ava-labs/shieldswap/state"
	"github.com/ava-labs/shieldswap/storage"

	smath "github.com/ava-labs/avalanchego/utils/math"
)

var (
	ErrInsufficientBalance   = errkind.New(errkind.State, "insufficient token balance")
	ErrInsufficientAllowance = errkind.New(errkind.State, "insufficient allowance")
	ErrBalanceOverflow       = errkind.New(errkind.Validation, "token balance overflow")
)

var _ Ledger = (*StateLedger)(nil)

// Ledger moves plaintext token balances. Every method runs against the
// state view of the calling operation, so a failed operation discards
// the transfers it made.
//
// Implementations that call back into the exchange must pass on [ctx] or
// a context derived from it. The exchange recognizes re-entry only
// through [ctx]; a callback made on a fresh context blocks forever on the
// keys its caller already holds.
type Ledger interface {
	BalanceOf(ctx context.Context, im state.Immutable, token codec.Address, account codec.Address) (uint64, error)
	Allowance(ctx context.Context, im state.Immutable, token codec.Address, owner codec.Address, spender codec.Address) (uint64, error)

	Transfer(ctx context.Context, mu state.Mutable, token codec.Address, from codec.Address, to codec.Address, amount uint64) error
	TransferFrom(ctx context.Context, mu state.Mutable, token codec.Address, spender codec.Address, from codec.Address, to codec.Address, amount uint64) error
	Approve(ctx context.Context, mu state.Mutable, token codec.Address, owner codec.Address, spender codec.Address, amount uint64) error
	Mint(ctx context.Context, mu state.Mutable, token codec.Address, to codec.Address, amount uint64) error

	// BalanceKeys returns the keys touched when moving [token] between any
	// of [accounts].
	BalanceKeys(token codec.Address, accounts ...codec.Address) state.Keys
	// AllowanceKeys returns the keys touched by Approve or TransferFrom.
	AllowanceKeys(token codec.Address, owner codec.Address, spender codec.Address) state.Keys
}

// StateLedger keeps balances and allowances in the exchange's own state.
type StateLedger struct{}

func (StateLedger) BalanceOf(ctx context.Context, im state.Immutable, token codec.Address, account codec.Address) (uint64, error) {
	return storage.GetBalance(ctx, im, token, account)
}

func (StateLedger) Allowance(ctx context.Context, im state.Immutable, token codec.Address, owner codec.Address, spender codec.Address) (uint64, error) {
	return storage.GetAllowance(ctx, im, token, owner, spender)
}

func (l StateLedger) Transfer(ctx context.Context, mu state.Mutable, token codec.Address, from codec.Address, to codec.Address, amount uint64) error {
	if amount == 0 || from == to {
		return nil
	}
	if err := l.burn(ctx, mu, token, from, amount); err != nil {
		return err
	}
	return l.Mint(ctx, mu, token, to, amount)
}

func (l StateLedger) TransferFrom(ctx context.Context, mu state.Mutable, token codec.Address, spender codec.Address, from codec.Address, to codec.Address, amount uint64) error {
	if spender != from {
		allowance, err := storage.GetAllowance(ctx, mu, token, from, spender)
		if err != nil {
			return err
		}
		remaining, err := smath.Sub(allowance, amount)
		if err != nil {
			return fmt.Errorf("%w: allowance=%d amount=%d", ErrInsufficientAllowance, allowance, amount)
		}
		if err := storage.SetAllowance(ctx, mu, token, from, spender, remaining); err != nil {
			return err
		}
	}
	return l.Transfer(ctx, mu, token, from, to, amount)
}

func (StateLedger) Approve(ctx context.Context, mu state.Mutable, token codec.Address, owner codec.Address, spender codec.Address, amount uint64) error {
	return storage.SetAllowance(ctx, mu, token, owner, spender, amount)
}

func (StateLedger) Mint(ctx context.Context, mu state.Mutable, token codec.Address, to codec.Address, amount uint64) error {
	balance, err := storage.GetBalance(ctx, mu, token, to)
	if err != nil {
		return err
	}
	newBalance, err := smath.Add64(balance, amount)
	if err != nil {
		return fmt.Errorf("%w: balance=%d amount=%d", ErrBalanceOverflow, balance, amount)
	}
	return storage.SetBalance(ctx, mu, token, to, newBalance)
}

func (StateLedger) burn(ctx context.Context, mu state.Mutable, token codec.Address, from codec.Address, amount uint64) error {
	balance, err := storage.GetBalance(ctx, mu, token, from)
	if err != nil {
		return err
	}
	newBalance, err := smath.Sub(balance, amount)
	if err != nil {
		return fmt.Errorf("%w: balance=%d amount=%d", ErrInsufficientBalance, balance, amount)
	}
	return storage.SetBalance(ctx, mu, token, from, newBalance)
}

func (StateLedger) BalanceKeys(token codec.Address, accounts ...codec.Address) state.Keys {
	ks := make(state.Keys, len(accounts))
	for _, a := range accounts {
		ks.Add(string(storage.BalanceKey(token, a)), state.All)
	}
	return ks
}

func (StateLedger) AllowanceKeys(token codec.Address, owner codec.Address, spender codec.Address) state.Keys {
	ks := state.Keys{}
	ks.Add(string(storage.AllowanceKey(token, owner, spender)), state.All)
	return ks
}
