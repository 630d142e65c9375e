// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package amm

import (
	"github.com/holiman/uint256"

	"github.com/ava-labs/shieldswap/consts"

	smath "github.com/ava-labs/avalanchego/utils/math"
)

// ConstantProduct prices a two-token pool that keeps reserveA*reserveB
// from decreasing. Intermediate products are computed in 256 bits and
// every result must fit a uint64.
type ConstantProduct struct {
	reserveA uint64
	reserveB uint64
	fee      uint64
}

func NewConstantProduct(reserveA uint64, reserveB uint64, fee uint64) *ConstantProduct {
	return &ConstantProduct{
		reserveA: reserveA,
		reserveB: reserveB,
		fee:      fee,
	}
}

// Swap sells [amountIn] into the pool and returns the amount bought.
func (c *ConstantProduct) Swap(amountIn uint64, dir Direction) (uint64, error) {
	reserveIn, reserveOut := c.reserves(dir)
	amountOut, err := GetAmountOut(amountIn, reserveIn, reserveOut, c.fee)
	if err != nil {
		return 0, err
	}
	newIn, err := smath.Add64(reserveIn, amountIn)
	if err != nil {
		return 0, ErrAmountOverflow
	}
	c.setReserves(dir, newIn, reserveOut-amountOut)
	return amountOut, nil
}

// AddLiquidity deposits both amounts in full and returns the shares owed
// to the provider and the shares locked forever. Only the smaller of the
// two proportional shares is credited; any excess on the other side stays
// in the reserves.
func (c *ConstantProduct) AddLiquidity(amountA uint64, amountB uint64, totalShares uint64) (uint64, uint64, error) {
	if amountA == 0 || amountB == 0 {
		return 0, 0, ErrZeroAmount
	}
	var (
		shares uint64
		locked uint64
	)
	if totalShares == 0 {
		root := isqrt(amountA, amountB)
		if root <= consts.MinimumLiquidity {
			return 0, 0, ErrInitialLiquidity
		}
		shares = root - consts.MinimumLiquidity
		locked = consts.MinimumLiquidity
	} else {
		if c.reserveA == 0 || c.reserveB == 0 {
			return 0, 0, ErrReservesZero
		}
		sharesA, err := mulDiv(amountA, totalShares, c.reserveA)
		if err != nil {
			return 0, 0, err
		}
		sharesB, err := mulDiv(amountB, totalShares, c.reserveB)
		if err != nil {
			return 0, 0, err
		}
		shares = min(sharesA, sharesB)
		if shares == 0 {
			return 0, 0, ErrSharesZero
		}
	}
	newA, err := smath.Add64(c.reserveA, amountA)
	if err != nil {
		return 0, 0, ErrAmountOverflow
	}
	newB, err := smath.Add64(c.reserveB, amountB)
	if err != nil {
		return 0, 0, ErrAmountOverflow
	}
	c.reserveA, c.reserveB = newA, newB
	return shares, locked, nil
}

// RemoveLiquidity burns [shares] and returns the pro-rata amounts of both
// tokens, rounded down.
func (c *ConstantProduct) RemoveLiquidity(shares uint64, totalShares uint64) (uint64, uint64, error) {
	if shares == 0 {
		return 0, 0, ErrZeroAmount
	}
	if shares > totalShares {
		return 0, 0, ErrInsufficientShare
	}
	outA, err := mulDiv(shares, c.reserveA, totalShares)
	if err != nil {
		return 0, 0, err
	}
	outB, err := mulDiv(shares, c.reserveB, totalShares)
	if err != nil {
		return 0, 0, err
	}
	if outA == 0 || outB == 0 {
		return 0, 0, ErrWithdrawZero
	}
	c.reserveA -= outA
	c.reserveB -= outB
	return outA, outB, nil
}

// Reserves returns the current (reserveA, reserveB).
func (c *ConstantProduct) Reserves() (uint64, uint64) {
	return c.reserveA, c.reserveB
}

func (c *ConstantProduct) reserves(dir Direction) (uint64, uint64) {
	if dir == BToA {
		return c.reserveB, c.reserveA
	}
	return c.reserveA, c.reserveB
}

func (c *ConstantProduct) setReserves(dir Direction, reserveIn uint64, reserveOut uint64) {
	if dir == BToA {
		c.reserveB, c.reserveA = reserveIn, reserveOut
		return
	}
	c.reserveA, c.reserveB = reserveIn, reserveOut
}

// GetAmountOut applies the fee to the input side and prices the trade:
//
//	amountInWithFee = amountIn * (10000 - fee) / 10000
//	amountOut       = reserveOut * amountInWithFee / (reserveIn + amountInWithFee)
//
// Each division rounds down.
func GetAmountOut(amountIn uint64, reserveIn uint64, reserveOut uint64, fee uint64) (uint64, error) {
	if amountIn == 0 {
		return 0, ErrZeroAmount
	}
	if reserveIn == 0 || reserveOut == 0 {
		return 0, ErrReservesZero
	}
	if fee > consts.FeeDenominator {
		return 0, ErrInvalidFee
	}
	withFee := new(uint256.Int).Mul(uint256.NewInt(amountIn), uint256.NewInt(consts.FeeDenominator-fee))
	withFee.Div(withFee, uint256.NewInt(consts.FeeDenominator))

	num := new(uint256.Int).Mul(uint256.NewInt(reserveOut), withFee)
	den := new(uint256.Int).Add(uint256.NewInt(reserveIn), withFee)
	out := num.Div(num, den)
	if out.IsZero() || !out.Lt(uint256.NewInt(reserveOut)) {
		return 0, ErrInsufficientOut
	}
	return out.Uint64(), nil
}

// Quote returns the amount of the other token worth [amount] at the
// current reserve ratio, ignoring fees.
func Quote(amount uint64, reserveIn uint64, reserveOut uint64) (uint64, error) {
	if amount == 0 {
		return 0, ErrZeroAmount
	}
	if reserveIn == 0 || reserveOut == 0 {
		return 0, ErrReservesZero
	}
	return mulDiv(amount, reserveOut, reserveIn)
}

// OptimalAmount returns how much of the other token keeps the reserve
// ratio when depositing [desired]. An empty pool takes any ratio.
func OptimalAmount(desired uint64, reserveIn uint64, reserveOut uint64) (uint64, error) {
	if reserveIn == 0 && reserveOut == 0 {
		return desired, nil
	}
	return Quote(desired, reserveIn, reserveOut)
}

func mulDiv(a uint64, b uint64, d uint64) (uint64, error) {
	if d == 0 {
		return 0, ErrReservesZero
	}
	z := new(uint256.Int).Mul(uint256.NewInt(a), uint256.NewInt(b))
	z.Div(z, uint256.NewInt(d))
	if !z.IsUint64() {
		return 0, ErrAmountOverflow
	}
	return z.Uint64(), nil
}

// isqrt returns floor(sqrt(a*b)), which always fits in 64 bits.
func isqrt(a uint64, b uint64) uint64 {
	z := new(uint256.Int).Mul(uint256.NewInt(a), uint256.NewInt(b))
	return z.Sqrt(z).Uint64()
}
