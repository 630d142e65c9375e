// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package exchange

import "github.com/ava-labs/shieldswap/errkind"

var (
	ErrReentrant       = errkind.New(errkind.State, "re-entrant call into the exchange")
	ErrZeroAddress     = errkind.New(errkind.Validation, "address is empty")
	ErrOwnerExists     = errkind.New(errkind.State, "owner already initialized")
	ErrUnknownPoolSide = errkind.New(errkind.Validation, "token is not part of the pool")
)
