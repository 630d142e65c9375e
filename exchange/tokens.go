// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package exchange

import (
	"context"

	"github.com/ava-labs/shieldswap/access"
	"github.com/ava-labs/shieldswap/codec"
	"github.com/ava-labs/shieldswap/state"
)

// Plaintext token operations. These balances back deposits, withdrawals
// and pool reserves.

func (e *Exchange) BalanceOf(ctx context.Context, tkn codec.Address, account codec.Address) (uint64, error) {
	var balance uint64
	err := e.read(ctx, "balance_of", e.tokens.BalanceKeys(tkn, account), func(ctx context.Context, im state.Immutable) error {
		var err error
		balance, err = e.tokens.BalanceOf(ctx, im, tkn, account)
		return err
	})
	return balance, err
}

func (e *Exchange) Allowance(ctx context.Context, tkn codec.Address, owner codec.Address, spender codec.Address) (uint64, error) {
	var amount uint64
	err := e.read(ctx, "allowance", e.tokens.AllowanceKeys(tkn, owner, spender), func(ctx context.Context, im state.Immutable) error {
		var err error
		amount, err = e.tokens.Allowance(ctx, im, tkn, owner, spender)
		return err
	})
	return amount, err
}

func (e *Exchange) TransferTokens(ctx context.Context, actor codec.Address, tkn codec.Address, to codec.Address, amount uint64) error {
	if to.Empty() {
		return ErrZeroAddress
	}
	return e.execute(ctx, "transfer_tokens", actor, e.tokens.BalanceKeys(tkn, actor, to), func(ctx context.Context, mu state.Mutable, now int64) ([]Event, error) {
		if err := e.tokens.Transfer(ctx, mu, tkn, actor, to, amount); err != nil {
			return nil, err
		}
		return []Event{{Kind: TokensTransferred, Actor: actor, Subject: to, Token: tkn, Tag: Tag(amount, actor, now)}}, nil
	})
}

// TransferTokensFrom spends [actor]'s allowance over [from].
func (e *Exchange) TransferTokensFrom(ctx context.Context, actor codec.Address, tkn codec.Address, from codec.Address, to codec.Address, amount uint64) error {
	if to.Empty() {
		return ErrZeroAddress
	}
	keys := e.tokens.BalanceKeys(tkn, from, to).Merge(e.tokens.AllowanceKeys(tkn, from, actor))
	return e.execute(ctx, "transfer_tokens_from", actor, keys, func(ctx context.Context, mu state.Mutable, now int64) ([]Event, error) {
		if err := e.tokens.TransferFrom(ctx, mu, tkn, actor, from, to, amount); err != nil {
			return nil, err
		}
		return []Event{{Kind: TokensTransferred, Actor: actor, Subject: to, Token: tkn, Tag: Tag(amount, actor, now)}}, nil
	})
}

func (e *Exchange) ApproveTokens(ctx context.Context, actor codec.Address, tkn codec.Address, spender codec.Address, amount uint64) error {
	if spender.Empty() {
		return ErrZeroAddress
	}
	return e.execute(ctx, "approve_tokens", actor, e.tokens.AllowanceKeys(tkn, actor, spender), func(ctx context.Context, mu state.Mutable, now int64) ([]Event, error) {
		if err := e.tokens.Approve(ctx, mu, tkn, actor, spender, amount); err != nil {
			return nil, err
		}
		return []Event{{Kind: TokensApproved, Actor: actor, Subject: spender, Token: tkn, Tag: Tag(amount, actor, now)}}, nil
	})
}

// MintTokens creates plaintext supply. Only the owner mints.
func (e *Exchange) MintTokens(ctx context.Context, actor codec.Address, tkn codec.Address, to codec.Address, amount uint64) error {
	if to.Empty() {
		return ErrZeroAddress
	}
	keys := access.StateKeys(access.Owner, actor).Merge(e.tokens.BalanceKeys(tkn, to))
	return e.execute(ctx, "mint_tokens", actor, keys, func(ctx context.Context, mu state.Mutable, now int64) ([]Event, error) {
		if err := access.RequireOwner(ctx, mu, actor); err != nil {
			return nil, err
		}
		if err := e.tokens.Mint(ctx, mu, tkn, to, amount); err != nil {
			return nil, err
		}
		return []Event{{Kind: TokensMinted, Actor: actor, Subject: to, Token: tkn, Tag: Tag(amount, actor, now)}}, nil
	})
}
