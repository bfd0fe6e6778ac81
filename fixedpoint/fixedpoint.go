// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package fixedpoint provides the deterministic integer arithmetic the pair
// ledger and staking vault are built on: integer square roots, full-width
// multiply-divide, and UQ112x112 price accumulation.
package fixedpoint

import (
	"errors"
	"math/big"
	"math/bits"
)

var (
	ErrDivideByZero = errors.New("division by zero")
	ErrOverflow     = errors.New("result overflows uint64")
)

// maxUint256Plus1 is the modulus price accumulators wrap at.
var maxUint256Plus1 = new(big.Int).Lsh(big.NewInt(1), 256)

// Sqrt returns the integer square root of y (Uniswap V2 Math.sol form).
func Sqrt(y uint64) uint64 {
	if y > 3 {
		z := y
		x := (y / 2) + 1
		for x < z {
			z = x
			x = (y/x + x) / 2
		}
		return z
	} else if y != 0 {
		return 1
	}
	return 0
}

// SqrtBig returns the integer square root of y. The callers only ever pass
// products of two uint64 reserves, so the root always fits in a uint64.
func SqrtBig(y *big.Int) uint64 {
	return new(big.Int).Sqrt(y).Uint64()
}

// Mul128 returns a*b as a big.Int without any possibility of overflow.
func Mul128(a uint64, b uint64) *big.Int {
	hi, lo := bits.Mul64(a, b)
	v := new(big.Int).SetUint64(hi)
	v.Lsh(v, 64)
	return v.Or(v, new(big.Int).SetUint64(lo))
}

// MulDiv computes a*b/denom with a full 128-bit intermediate. It returns
// ErrOverflow when the quotient does not fit in a uint64 and ErrDivideByZero
// when denom is zero. Rounds toward zero.
func MulDiv(a uint64, b uint64, denom uint64) (uint64, error) {
	if denom == 0 {
		return 0, ErrDivideByZero
	}
	hi, lo := bits.Mul64(a, b)
	if hi >= denom {
		return 0, ErrOverflow
	}
	quo, _ := bits.Div64(hi, lo, denom)
	return quo, nil
}

// Min returns the smaller of a and b.
func Min(a uint64, b uint64) uint64 {
	if a < b {
		return a
	}
	return b
}

// AccumulatePrice advances a cumulative price accumulator by
// (num << 112 / den) * elapsed, wrapping at 2^256. The accumulator is
// mutated in place and returned for convenience. A zero denominator leaves
// the accumulator untouched.
func AccumulatePrice(acc *big.Int, num uint64, den uint64, elapsed uint32) *big.Int {
	if den == 0 || elapsed == 0 {
		return acc
	}
	delta := new(big.Int).SetUint64(num)
	delta.Lsh(delta, 112)
	delta.Div(delta, new(big.Int).SetUint64(den))
	delta.Mul(delta, new(big.Int).SetUint64(uint64(elapsed)))
	acc.Add(acc, delta)
	return acc.Mod(acc, maxUint256Plus1)
}
