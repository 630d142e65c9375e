// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledger

import (
	"github.com/ava-labs/shieldswap/access"
	"github.com/ava-labs/shieldswap/codec"
	"github.com/ava-labs/shieldswap/state"
	"github.com/ava-labs/shieldswap/storage"
)

// The *Keys methods return every key the matching operation may touch.

func (*Ledger) RegisterKeys(tkn codec.Address, account codec.Address) state.Keys {
	return accountKeys(tkn, account)
}

func (l *Ledger) DepositKeys(tkn codec.Address, account codec.Address) state.Keys {
	return accountKeys(tkn, account).Merge(l.tokens.BalanceKeys(tkn, account, EscrowAddress(tkn)))
}

func (l *Ledger) WithdrawKeys(tkn codec.Address, account codec.Address) state.Keys {
	return l.DepositKeys(tkn, account)
}

func (*Ledger) TransferKeys(tkn codec.Address, from codec.Address, to codec.Address, proof []byte) state.Keys {
	ks := accountKeys(tkn, from, to)
	ks.Add(string(storage.ProofKey(ProofID(proof))), state.All)
	return ks
}

func (*Ledger) LegacyTransferKeys(tkn codec.Address, from codec.Address, to codec.Address) state.Keys {
	return accountKeys(tkn, from, to)
}

func (l *Ledger) MintKeys(caller codec.Address, tkn codec.Address, to codec.Address) state.Keys {
	return accountKeys(tkn, to).
		Merge(access.StateKeys(access.Owner, caller)).
		Merge(l.tokens.BalanceKeys(tkn, EscrowAddress(tkn)))
}

func (l *Ledger) BurnKeys(caller codec.Address, tkn codec.Address, account codec.Address) state.Keys {
	return accountKeys(tkn, account).
		Merge(access.StateKeys(access.SelfOrOwner, caller)).
		Merge(l.tokens.BalanceKeys(tkn, EscrowAddress(tkn), BurnAddress))
}

func (*Ledger) BalanceKeys(caller codec.Address, tkn codec.Address, account codec.Address) state.Keys {
	ks := access.StateKeys(access.SelfOrOwner, caller)
	ks.Add(string(storage.AccountKey(tkn, account)), state.Read)
	return ks
}

func (*Ledger) DiscloseKeys(caller codec.Address, tkn codec.Address, account codec.Address) state.Keys {
	ks := access.StateKeys(access.Auditor, caller)
	ks.Add(string(storage.AccountKey(tkn, account)), state.Read)
	return ks
}

func (*Ledger) CommitmentKeys(tkn codec.Address, account codec.Address) state.Keys {
	return state.Keys{string(storage.AccountKey(tkn, account)): state.Read}
}

func (*Ledger) AuditorKeys(caller codec.Address, auditor codec.Address) state.Keys {
	ks := access.StateKeys(access.Owner, caller)
	ks.Add(string(storage.AuditorKey(auditor)), state.All)
	return ks
}

func accountKeys(tkn codec.Address, accounts ...codec.Address) state.Keys {
	ks := make(state.Keys, len(accounts))
	for _, a := range accounts {
		ks.Add(string(storage.AccountKey(tkn, a)), state.All)
	}
	return ks
}
