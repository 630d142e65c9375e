// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package router

import "github.com/ava-labs/shieldswap/errkind"

var (
	ErrPathTooShort     = errkind.New(errkind.Validation, "path needs at least two tokens")
	ErrTooManyHops      = errkind.New(errkind.Validation, "path exceeds max hops")
	ErrZeroRecipient    = errkind.New(errkind.Validation, "recipient is empty")
	ErrDeadlineExceeded = errkind.New(errkind.State, "deadline exceeded")
	ErrNoPath           = errkind.New(errkind.State, "no pool between tokens")
)
