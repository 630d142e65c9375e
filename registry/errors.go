// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package registry

import "github.com/ava-labs/shieldswap/errkind"

var (
	ErrIdenticalTokens = errkind.New(errkind.Validation, "identical tokens")
	ErrZeroAddress     = errkind.New(errkind.Validation, "token address is empty")
	ErrFeeTooHigh      = errkind.New(errkind.Validation, "fee exceeds maximum")

	ErrTokenNotAuthorized = errkind.New(errkind.Authorization, "token is not authorized")
	ErrPoolNotAuthorized  = errkind.New(errkind.Authorization, "pool is not authorized")
	ErrLockedShares       = errkind.New(errkind.Authorization, "minimum liquidity shares are locked")

	ErrPoolExists          = errkind.New(errkind.State, "pool already exists")
	ErrPoolNotFound        = errkind.New(errkind.State, "pool not found")
	ErrPoolInactive        = errkind.New(errkind.State, "pool is paused")
	ErrInsufficientShares  = errkind.New(errkind.State, "insufficient liquidity shares")
	ErrTotalSharesOverflow = errkind.New(errkind.Validation, "total shares overflow")
)
