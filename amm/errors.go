// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package amm

import "github.com/ava-labs/shieldswap/errkind"

var (
	ErrZeroAmount        = errkind.New(errkind.Validation, "amount must be greater than zero")
	ErrInvalidDirection  = errkind.New(errkind.Validation, "invalid swap direction")
	ErrTokenNotInPool    = errkind.New(errkind.Validation, "token is not part of the pool")
	ErrInvalidFee        = errkind.New(errkind.Validation, "fee exceeds denominator")
	ErrAmountOverflow    = errkind.New(errkind.Validation, "amount overflows uint64")
	ErrReservesZero      = errkind.New(errkind.State, "insufficient liquidity")
	ErrInsufficientOut   = errkind.New(errkind.State, "insufficient output amount")
	ErrSharesZero        = errkind.New(errkind.State, "insufficient liquidity minted")
	ErrInitialLiquidity  = errkind.New(errkind.State, "initial liquidity below minimum")
	ErrWithdrawZero      = errkind.New(errkind.State, "insufficient liquidity burned")
	ErrInsufficientShare = errkind.New(errkind.State, "shares exceed pool supply")
	ErrSlippage          = errkind.New(errkind.Slippage, "output below minimum")
)
