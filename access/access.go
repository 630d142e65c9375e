// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package access gates administrative and disclosure calls behind the
// owner and auditor capabilities kept in state.
package access

import (
	"context"
	"fmt"

	"github.com/ava-labs/shieldswap/codec"
	"github.com/ava-labs/shieldswap/consts"
	"github.com/ava-labs/shieldswap/errkind"
	"github.com/ava-labs/shieldswap/state"
	"github.com/ava-labs/shieldswap/storage"
)

type Capability uint8

const (
	// None lets any caller through.
	None Capability = iota
	Owner
	Auditor
	// SelfOrOwner admits the subject account itself and the owner.
	SelfOrOwner
)

var (
	ErrNotOwner          = errkind.New(errkind.Authorization, "caller is not the owner")
	ErrNotAuditor        = errkind.New(errkind.Authorization, "caller is not an authorized auditor")
	ErrNotSelfOrOwner    = errkind.New(errkind.Authorization, "caller is neither the account nor the owner")
	ErrUnknownCapability = errkind.New(errkind.Validation, "unknown capability")
	ErrReservedAddress   = errkind.New(errkind.Authorization, "address is reserved for the exchange")
)

func (c Capability) String() string {
	switch c {
	case None:
		return "none"
	case Owner:
		return "owner"
	case Auditor:
		return "auditor"
	case SelfOrOwner:
		return "self-or-owner"
	default:
		return "unknown"
	}
}

// Check returns nil if [caller] holds [c] over [subject].
func Check(ctx context.Context, im state.Immutable, c Capability, caller codec.Address, subject codec.Address) error {
	switch c {
	case None:
		return nil
	case Owner:
		return RequireOwner(ctx, im, caller)
	case Auditor:
		ok, err := storage.IsAuditor(ctx, im, caller)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: %s", ErrNotAuditor, caller)
		}
		return nil
	case SelfOrOwner:
		if caller == subject {
			return nil
		}
		owner, err := storage.GetOwner(ctx, im)
		if err != nil {
			return err
		}
		if owner.Empty() || caller != owner {
			return ErrNotSelfOrOwner
		}
		return nil
	default:
		return ErrUnknownCapability
	}
}

// RequireAccount rejects callers acting as an address the exchange
// controls: the empty address that holds locked shares and burned
// tokens, pool custody and confidential escrow.
func RequireAccount(caller codec.Address) error {
	switch {
	case caller.Empty():
		return fmt.Errorf("%w: empty address", ErrReservedAddress)
	case caller.TypeID() == consts.PoolCustodyID, caller.TypeID() == consts.EscrowID:
		return fmt.Errorf("%w: %s", ErrReservedAddress, caller)
	default:
		return nil
	}
}

func RequireOwner(ctx context.Context, im state.Immutable, caller codec.Address) error {
	owner, err := storage.GetOwner(ctx, im)
	if err != nil {
		return err
	}
	if owner.Empty() || caller != owner {
		return fmt.Errorf("%w: %s", ErrNotOwner, caller)
	}
	return nil
}

// StateKeys returns the keys read when checking [c] for [caller].
func StateKeys(c Capability, caller codec.Address) state.Keys {
	ks := state.Keys{}
	switch c {
	case Owner, SelfOrOwner:
		ks.Add(string(storage.OwnerKey()), state.Read)
	case Auditor:
		ks.Add(string(storage.AuditorKey(caller)), state.Read)
	}
	return ks
}
