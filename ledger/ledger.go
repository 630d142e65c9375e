// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package ledger keeps confidential balances behind hash commitments.
// Every debit is gated on the stored commitment matching the account's
// balance and nonce.
package ledger

import (
	"context"
	"fmt"

	"github.com/ava-labs/avalanchego/ids"

	"github.com/ava-labs/shieldswap/access"
	"github.com/ava-labs/shieldswap/codec"
	"github.com/ava-labs/shieldswap/consts"
	"github.com/ava-labs/shieldswap/state"
	"github.com/ava-labs/shieldswap/storage"
	"github.com/ava-labs/shieldswap/token"
	"github.com/ava-labs/shieldswap/utils"

	smath "github.com/ava-labs/avalanchego/utils/math"
)

// BurnAddress receives the plaintext backing of burned balances.
var BurnAddress = codec.EmptyAddress

// Ledger implements the confidential account operations. It holds no
// state of its own: every call reads and writes through [mu].
type Ledger struct {
	tokens token.Ledger
}

func New(tokens token.Ledger) *Ledger {
	return &Ledger{tokens: tokens}
}

// EscrowAddress holds the plaintext backing of every confidential
// balance of [tkn].
func EscrowAddress(tkn codec.Address) codec.Address {
	return codec.CreateAddress(consts.EscrowID, utils.ToID(tkn[:]))
}

// ProofID is the key a proof is recorded under once used.
func ProofID(proof []byte) ids.ID {
	return utils.ToID(proof)
}

func (l *Ledger) Register(ctx context.Context, mu state.Mutable, tkn codec.Address, account codec.Address, publicKey []byte) error {
	if account.Empty() {
		return ErrZeroAddress
	}
	if len(publicKey) == 0 {
		return ErrEmptyPublicKey
	}
	if len(publicKey) > consts.MaxPublicKeySize {
		return fmt.Errorf("%w: %d bytes", ErrPublicKeyTooLarge, len(publicKey))
	}
	a, err := storage.GetAccount(ctx, mu, tkn, account)
	if err != nil {
		return err
	}
	if a.Registered {
		return ErrAlreadyRegistered
	}
	a.Registered = true
	a.PublicKey = publicKey
	// legacy transfers may have credited the account before it registered
	recommit(a, a.Balance, a.Nonce)
	return storage.SetAccount(ctx, mu, tkn, account, a)
}

// Deposit moves [amount] plaintext tokens from [account] into escrow and
// credits them confidentially.
func (l *Ledger) Deposit(ctx context.Context, mu state.Mutable, tkn codec.Address, account codec.Address, amount uint64, nonce uint64) error {
	if amount == 0 {
		return ErrZeroAmount
	}
	a, err := l.registered(ctx, mu, tkn, account)
	if err != nil {
		return err
	}
	balance, err := smath.Add64(a.Balance, amount)
	if err != nil {
		return fmt.Errorf("%w: balance=%d amount=%d", ErrBalanceOverflow, a.Balance, amount)
	}
	if err := l.tokens.Transfer(ctx, mu, tkn, account, EscrowAddress(tkn), amount); err != nil {
		return err
	}
	recommit(a, balance, nonce)
	return storage.SetAccount(ctx, mu, tkn, account, a)
}

// Withdraw debits [amount] confidentially and releases it from escrow to
// [account].
func (l *Ledger) Withdraw(ctx context.Context, mu state.Mutable, tkn codec.Address, account codec.Address, amount uint64, nonce uint64) error {
	if amount == 0 {
		return ErrZeroAmount
	}
	a, err := l.debitable(ctx, mu, tkn, account, amount)
	if err != nil {
		return err
	}
	recommit(a, a.Balance-amount, nonce)
	if err := storage.SetAccount(ctx, mu, tkn, account, a); err != nil {
		return err
	}
	return l.tokens.Transfer(ctx, mu, tkn, EscrowAddress(tkn), account, amount)
}

// Transfer moves [amount] between two registered accounts. The proof is
// marked used before either balance changes. The recipient's nonce is
// [nonce]+1 so both parties never share one.
func (l *Ledger) Transfer(
	ctx context.Context,
	mu state.Mutable,
	tkn codec.Address,
	from codec.Address,
	to codec.Address,
	amount uint64,
	nonce uint64,
	proof []byte,
	now int64,
) (bool, error) {
	if amount == 0 {
		return false, ErrZeroAmount
	}
	if to.Empty() {
		return false, ErrZeroAddress
	}
	if from == to {
		return false, ErrSelfTransfer
	}
	if len(proof) == 0 {
		return false, ErrEmptyProof
	}
	if len(proof) > consts.MaxProofSize {
		return false, fmt.Errorf("%w: %d bytes", ErrProofTooLarge, len(proof))
	}
	recipientNonce, err := smath.Add64(nonce, 1)
	if err != nil {
		return false, ErrNonceOverflow
	}
	sender, err := l.registered(ctx, mu, tkn, from)
	if err != nil {
		return false, err
	}
	recipient, err := l.registered(ctx, mu, tkn, to)
	if err != nil {
		return false, err
	}
	if sender.Balance < amount {
		return false, fmt.Errorf("%w: balance=%d amount=%d", ErrInsufficientBalance, sender.Balance, amount)
	}
	credited, err := smath.Add64(recipient.Balance, amount)
	if err != nil {
		return false, fmt.Errorf("%w: balance=%d amount=%d", ErrBalanceOverflow, recipient.Balance, amount)
	}
	proofID := ProofID(proof)
	used, err := storage.IsProofUsed(ctx, mu, proofID)
	if err != nil {
		return false, err
	}
	if used {
		return false, fmt.Errorf("%w: %s", ErrProofUsed, proofID)
	}
	if err := storage.MarkProofUsed(ctx, mu, proofID, now); err != nil {
		return false, err
	}
	if !Verify(sender) {
		return false, ErrCommitmentMismatch
	}

	recommit(sender, sender.Balance-amount, nonce)
	recommit(recipient, credited, recipientNonce)
	if err := storage.SetAccount(ctx, mu, tkn, from, sender); err != nil {
		return false, err
	}
	if err := storage.SetAccount(ctx, mu, tkn, to, recipient); err != nil {
		return false, err
	}
	return true, nil
}

// LegacyTransfer is a compatibility path that skips registration, proof
// and commitment checks. It is intentionally weaker than Transfer. Both
// commitments are still recomputed so registered parties stay
// consistent.
func (l *Ledger) LegacyTransfer(
	ctx context.Context,
	mu state.Mutable,
	tkn codec.Address,
	from codec.Address,
	to codec.Address,
	amount uint64,
	nonce uint64,
) error {
	if amount == 0 {
		return ErrZeroAmount
	}
	if from == to {
		return ErrSelfTransfer
	}
	recipientNonce, err := smath.Add64(nonce, 1)
	if err != nil {
		return ErrNonceOverflow
	}
	sender, err := storage.GetAccount(ctx, mu, tkn, from)
	if err != nil {
		return err
	}
	recipient, err := storage.GetAccount(ctx, mu, tkn, to)
	if err != nil {
		return err
	}
	if sender.Balance < amount {
		return fmt.Errorf("%w: balance=%d amount=%d", ErrInsufficientBalance, sender.Balance, amount)
	}
	credited, err := smath.Add64(recipient.Balance, amount)
	if err != nil {
		return ErrBalanceOverflow
	}
	recommit(sender, sender.Balance-amount, nonce)
	recommit(recipient, credited, recipientNonce)
	if err := storage.SetAccount(ctx, mu, tkn, from, sender); err != nil {
		return err
	}
	return storage.SetAccount(ctx, mu, tkn, to, recipient)
}

// Mint credits [to] without a commitment check. Only the owner may mint;
// the backing plaintext is minted into escrow.
func (l *Ledger) Mint(ctx context.Context, mu state.Mutable, caller codec.Address, tkn codec.Address, to codec.Address, amount uint64, nonce uint64) error {
	if err := access.RequireOwner(ctx, mu, caller); err != nil {
		return err
	}
	if amount == 0 {
		return ErrZeroAmount
	}
	a, err := l.registered(ctx, mu, tkn, to)
	if err != nil {
		return err
	}
	balance, err := smath.Add64(a.Balance, amount)
	if err != nil {
		return fmt.Errorf("%w: balance=%d amount=%d", ErrBalanceOverflow, a.Balance, amount)
	}
	if err := l.tokens.Mint(ctx, mu, tkn, EscrowAddress(tkn), amount); err != nil {
		return err
	}
	recommit(a, balance, nonce)
	return storage.SetAccount(ctx, mu, tkn, to, a)
}

// Burn destroys [amount] of [account]'s confidential balance. The account
// itself or the owner may burn.
func (l *Ledger) Burn(ctx context.Context, mu state.Mutable, caller codec.Address, tkn codec.Address, account codec.Address, amount uint64, nonce uint64) error {
	if err := access.Check(ctx, mu, access.SelfOrOwner, caller, account); err != nil {
		return err
	}
	if amount == 0 {
		return ErrZeroAmount
	}
	a, err := l.debitable(ctx, mu, tkn, account, amount)
	if err != nil {
		return err
	}
	recommit(a, a.Balance-amount, nonce)
	if err := storage.SetAccount(ctx, mu, tkn, account, a); err != nil {
		return err
	}
	return l.tokens.Transfer(ctx, mu, tkn, EscrowAddress(tkn), BurnAddress, amount)
}

// Balance returns the confidential balance to the account itself or the
// owner.
func (*Ledger) Balance(ctx context.Context, im state.Immutable, caller codec.Address, tkn codec.Address, account codec.Address) (uint64, error) {
	if err := access.Check(ctx, im, access.SelfOrOwner, caller, account); err != nil {
		return 0, err
	}
	a, err := storage.GetAccount(ctx, im, tkn, account)
	if err != nil {
		return 0, err
	}
	return a.Balance, nil
}

// Disclose returns the confidential balance to an authorized auditor.
func (*Ledger) Disclose(ctx context.Context, im state.Immutable, caller codec.Address, tkn codec.Address, account codec.Address) (uint64, error) {
	if err := access.Check(ctx, im, access.Auditor, caller, account); err != nil {
		return 0, err
	}
	a, err := storage.GetAccount(ctx, im, tkn, account)
	if err != nil {
		return 0, err
	}
	return a.Balance, nil
}

// Commitment is public: it reveals the commitment and nonce, never the
// balance.
func (*Ledger) Commitment(ctx context.Context, im state.Immutable, tkn codec.Address, account codec.Address) (codec.Hash, uint64, bool, error) {
	a, err := storage.GetAccount(ctx, im, tkn, account)
	if err != nil {
		return codec.EmptyHash, 0, false, err
	}
	return a.Commitment, a.Nonce, a.Registered, nil
}

func (*Ledger) AuthorizeAuditor(ctx context.Context, mu state.Mutable, caller codec.Address, auditor codec.Address) error {
	if err := access.RequireOwner(ctx, mu, caller); err != nil {
		return err
	}
	if auditor.Empty() {
		return ErrZeroAddress
	}
	return storage.SetAuditor(ctx, mu, auditor, true)
}

func (*Ledger) RevokeAuditor(ctx context.Context, mu state.Mutable, caller codec.Address, auditor codec.Address) error {
	if err := access.RequireOwner(ctx, mu, caller); err != nil {
		return err
	}
	return storage.SetAuditor(ctx, mu, auditor, false)
}

func (*Ledger) registered(ctx context.Context, im state.Immutable, tkn codec.Address, account codec.Address) (*storage.Account, error) {
	a, err := storage.GetAccount(ctx, im, tkn, account)
	if err != nil {
		return nil, err
	}
	if !a.Registered {
		return nil, fmt.Errorf("%w: %s", ErrNotRegistered, account)
	}
	return a, nil
}

// debitable loads a registered account that can cover [amount] and whose
// commitment matches its current balance and nonce.
func (l *Ledger) debitable(ctx context.Context, im state.Immutable, tkn codec.Address, account codec.Address, amount uint64) (*storage.Account, error) {
	a, err := l.registered(ctx, im, tkn, account)
	if err != nil {
		return nil, err
	}
	if a.Balance < amount {
		return nil, fmt.Errorf("%w: balance=%d amount=%d", ErrInsufficientBalance, a.Balance, amount)
	}
	if !Verify(a) {
		return nil, ErrCommitmentMismatch
	}
	return a, nil
}
