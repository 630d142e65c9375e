// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package exchange

import (
	"context"

	"github.com/ava-labs/shieldswap/codec"
	"github.com/ava-labs/shieldswap/state"
)

func (e *Exchange) Register(ctx context.Context, actor codec.Address, tkn codec.Address, publicKey []byte) error {
	return e.execute(ctx, "register", actor, e.ledger.RegisterKeys(tkn, actor), func(ctx context.Context, mu state.Mutable, _ int64) ([]Event, error) {
		if err := e.ledger.Register(ctx, mu, tkn, actor, publicKey); err != nil {
			return nil, err
		}
		return []Event{{Kind: Registered, Actor: actor, Subject: actor, Token: tkn}}, nil
	})
}

// Deposit moves [amount] of [actor]'s plaintext balance into escrow and
// credits it confidentially.
func (e *Exchange) Deposit(ctx context.Context, actor codec.Address, tkn codec.Address, amount uint64, nonce uint64) error {
	return e.execute(ctx, "deposit", actor, e.ledger.DepositKeys(tkn, actor), func(ctx context.Context, mu state.Mutable, now int64) ([]Event, error) {
		if err := e.ledger.Deposit(ctx, mu, tkn, actor, amount, nonce); err != nil {
			return nil, err
		}
		return []Event{{Kind: Deposited, Actor: actor, Subject: actor, Token: tkn, Tag: Tag(amount, actor, now)}}, nil
	})
}

func (e *Exchange) Withdraw(ctx context.Context, actor codec.Address, tkn codec.Address, amount uint64, nonce uint64) error {
	return e.execute(ctx, "withdraw", actor, e.ledger.WithdrawKeys(tkn, actor), func(ctx context.Context, mu state.Mutable, now int64) ([]Event, error) {
		if err := e.ledger.Withdraw(ctx, mu, tkn, actor, amount, nonce); err != nil {
			return nil, err
		}
		return []Event{{Kind: Withdrawn, Actor: actor, Subject: actor, Token: tkn, Tag: Tag(amount, actor, now)}}, nil
	})
}

// ConfidentialTransfer moves [amount] from [actor] to [to], consuming
// [proof]. A proof can be used once.
func (e *Exchange) ConfidentialTransfer(
	ctx context.Context,
	actor codec.Address,
	tkn codec.Address,
	to codec.Address,
	amount uint64,
	nonce uint64,
	proof []byte,
) (bool, error) {
	var ok bool
	err := e.execute(ctx, "confidential_transfer", actor, e.ledger.TransferKeys(tkn, actor, to, proof), func(ctx context.Context, mu state.Mutable, now int64) ([]Event, error) {
		var err error
		ok, err = e.ledger.Transfer(ctx, mu, tkn, actor, to, amount, nonce, proof, now)
		if err != nil {
			return nil, err
		}
		return []Event{{Kind: ConfidentialTransferred, Actor: actor, Subject: to, Token: tkn, Tag: Tag(amount, actor, now)}}, nil
	})
	if err != nil {
		return false, err
	}
	return ok, nil
}

func (e *Exchange) LegacyTransfer(ctx context.Context, actor codec.Address, tkn codec.Address, to codec.Address, amount uint64, nonce uint64) error {
	return e.execute(ctx, "legacy_transfer", actor, e.ledger.LegacyTransferKeys(tkn, actor, to), func(ctx context.Context, mu state.Mutable, now int64) ([]Event, error) {
		if err := e.ledger.LegacyTransfer(ctx, mu, tkn, actor, to, amount, nonce); err != nil {
			return nil, err
		}
		return []Event{{Kind: LegacyTransferred, Actor: actor, Subject: to, Token: tkn, Tag: Tag(amount, actor, now)}}, nil
	})
}

func (e *Exchange) ConfidentialMint(ctx context.Context, actor codec.Address, tkn codec.Address, to codec.Address, amount uint64, nonce uint64) error {
	return e.execute(ctx, "confidential_mint", actor, e.ledger.MintKeys(actor, tkn, to), func(ctx context.Context, mu state.Mutable, now int64) ([]Event, error) {
		if err := e.ledger.Mint(ctx, mu, actor, tkn, to, amount, nonce); err != nil {
			return nil, err
		}
		return []Event{{Kind: ConfidentialMinted, Actor: actor, Subject: to, Token: tkn, Tag: Tag(amount, actor, now)}}, nil
	})
}

func (e *Exchange) ConfidentialBurn(ctx context.Context, actor codec.Address, tkn codec.Address, account codec.Address, amount uint64, nonce uint64) error {
	return e.execute(ctx, "confidential_burn", actor, e.ledger.BurnKeys(actor, tkn, account), func(ctx context.Context, mu state.Mutable, now int64) ([]Event, error) {
		if err := e.ledger.Burn(ctx, mu, actor, tkn, account, amount, nonce); err != nil {
			return nil, err
		}
		return []Event{{Kind: ConfidentialBurned, Actor: actor, Subject: account, Token: tkn, Tag: Tag(amount, actor, now)}}, nil
	})
}

func (e *Exchange) AuthorizeAuditor(ctx context.Context, actor codec.Address, auditor codec.Address) error {
	return e.execute(ctx, "authorize_auditor", actor, e.ledger.AuditorKeys(actor, auditor), func(ctx context.Context, mu state.Mutable, _ int64) ([]Event, error) {
		if err := e.ledger.AuthorizeAuditor(ctx, mu, actor, auditor); err != nil {
			return nil, err
		}
		return []Event{{Kind: AuditorAuthorized, Actor: actor, Subject: auditor}}, nil
	})
}

func (e *Exchange) RevokeAuditor(ctx context.Context, actor codec.Address, auditor codec.Address) error {
	return e.execute(ctx, "revoke_auditor", actor, e.ledger.AuditorKeys(actor, auditor), func(ctx context.Context, mu state.Mutable, _ int64) ([]Event, error) {
		if err := e.ledger.RevokeAuditor(ctx, mu, actor, auditor); err != nil {
			return nil, err
		}
		return []Event{{Kind: AuditorRevoked, Actor: actor, Subject: auditor}}, nil
	})
}

// GetConfidentialBalance reveals [account]'s balance to the account itself
// or the owner.
func (e *Exchange) GetConfidentialBalance(ctx context.Context, actor codec.Address, tkn codec.Address, account codec.Address) (uint64, error) {
	var balance uint64
	err := e.read(ctx, "get_confidential_balance", e.ledger.BalanceKeys(actor, tkn, account), func(ctx context.Context, im state.Immutable) error {
		var err error
		balance, err = e.ledger.Balance(ctx, im, actor, tkn, account)
		return err
	})
	return balance, err
}

func (e *Exchange) DiscloseForAuditor(ctx context.Context, actor codec.Address, tkn codec.Address, account codec.Address) (uint64, error) {
	var balance uint64
	err := e.read(ctx, "disclose_for_auditor", e.ledger.DiscloseKeys(actor, tkn, account), func(ctx context.Context, im state.Immutable) error {
		var err error
		balance, err = e.ledger.Disclose(ctx, im, actor, tkn, account)
		return err
	})
	return balance, err
}

// Commitment is the public view of a confidential account.
type Commitment struct {
	Commitment codec.Hash `json:"commitment"`
	Nonce      uint64     `json:"nonce"`
	Registered bool       `json:"registered"`
}

func (e *Exchange) GetCommitment(ctx context.Context, tkn codec.Address, account codec.Address) (Commitment, error) {
	var c Commitment
	err := e.read(ctx, "get_commitment", e.ledger.CommitmentKeys(tkn, account), func(ctx context.Context, im state.Immutable) error {
		var err error
		c.Commitment, c.Nonce, c.Registered, err = e.ledger.Commitment(ctx, im, tkn, account)
		return err
	})
	return c, err
}
