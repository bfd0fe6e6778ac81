// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"
	"math/big"

	"github.com/0xhaz/dexvm/codec"
	"github.com/0xhaz/dexvm/consts"
	"github.com/0xhaz/dexvm/fixedpoint"
	"github.com/0xhaz/dexvm/state"
	"github.com/0xhaz/dexvm/storage"
)

// pairBalances returns the pair's live balances of its own two tokens.
func pairBalances(
	ctx context.Context,
	im state.Immutable,
	pairAddress codec.Address,
	pair *storage.Pair,
) (uint64, uint64, error) {
	balanceX, err := storage.GetTokenBalance(ctx, im, pair.TokenX, pairAddress)
	if err != nil {
		return 0, 0, err
	}
	balanceY, err := storage.GetTokenBalance(ctx, im, pair.TokenY, pairAddress)
	if err != nil {
		return 0, 0, err
	}
	return balanceX, balanceY, nil
}

// mintProtocolFee mints the protocol's share of growth since the last
// liquidity event to the fee collector (1/6th of the growth, the Uniswap V2
// formula). Called on every liquidity event before the LP supply is read.
func mintProtocolFee(
	ctx context.Context,
	mu state.Mutable,
	pair *storage.Pair,
) error {
	if pair.KLast.Sign() == 0 {
		return nil
	}
	rootK := fixedpoint.SqrtBig(fixedpoint.Mul128(pair.ReserveX, pair.ReserveY))
	rootKLast := fixedpoint.SqrtBig(pair.KLast)
	if rootK <= rootKLast {
		return nil
	}
	_, _, _, lpSupply, _, err := storage.GetTokenInfo(ctx, mu, pair.LPToken)
	if err != nil {
		return err
	}
	num := new(big.Int).SetUint64(lpSupply)
	num.Mul(num, new(big.Int).SetUint64(rootK-rootKLast))
	den := new(big.Int).SetUint64(rootK)
	den.Mul(den, big.NewInt(5))
	den.Add(den, new(big.Int).SetUint64(rootKLast))
	liquidity := num.Div(num, den)
	if !liquidity.IsUint64() {
		return fixedpoint.ErrOverflow
	}
	if l := liquidity.Uint64(); l > 0 {
		return storage.MintToken(ctx, mu, pair.LPToken, storage.CollectorAddress, l)
	}
	return nil
}

// updatePair advances the TWAP accumulators for the time elapsed since the
// last update, then writes the live balances as the new reserves. The
// 32-bit timestamp wraps; unsigned subtraction keeps elapsed time correct
// across the wrap.
func updatePair(
	ctx context.Context,
	mu state.Mutable,
	pairAddress codec.Address,
	pair *storage.Pair,
	balanceX uint64,
	balanceY uint64,
	timestamp int64,
) error {
	blockTimestamp := uint32(timestamp / consts.MillisecondsPerSecond)
	timeElapsed := blockTimestamp - pair.BlockTimestampLast
	if timeElapsed > 0 && pair.ReserveX != 0 && pair.ReserveY != 0 {
		fixedpoint.AccumulatePrice(pair.PriceXCumulative, pair.ReserveY, pair.ReserveX, timeElapsed)
		fixedpoint.AccumulatePrice(pair.PriceYCumulative, pair.ReserveX, pair.ReserveY, timeElapsed)
	}
	pair.ReserveX = balanceX
	pair.ReserveY = balanceY
	pair.BlockTimestampLast = blockTimestamp
	return storage.SetPair(ctx, mu, pairAddress, pair)
}

// getAmountOut prices an exact-input swap against the given reserves with
// the trading fee applied to the input.
func getAmountOut(amountIn uint64, reserveIn uint64, reserveOut uint64) (uint64, error) {
	if amountIn == 0 {
		return 0, ErrOutputInsufficientInputAmount
	}
	if reserveIn == 0 || reserveOut == 0 {
		return 0, ErrOutputInsufficientLiquidity
	}
	amountInWithFee := fixedpoint.Mul128(amountIn, storage.SwapFeeNumerator)
	num := new(big.Int).Mul(amountInWithFee, new(big.Int).SetUint64(reserveOut))
	den := fixedpoint.Mul128(reserveIn, storage.SwapFeeDenominator)
	den.Add(den, amountInWithFee)
	out := num.Div(num, den)
	if !out.IsUint64() {
		return 0, fixedpoint.ErrOverflow
	}
	return out.Uint64(), nil
}

// executeSwap performs the optimistic-transfer swap against [pairAddress]:
// requested outputs are paid to [to], inputs are discovered by balance
// difference, and the fee-adjusted constant-product check must hold or the
// whole transition fails. Returns the discovered input amounts.
func executeSwap(
	ctx context.Context,
	mu state.Mutable,
	pairAddress codec.Address,
	pair *storage.Pair,
	amountXOut uint64,
	amountYOut uint64,
	to codec.Address,
	timestamp int64,
	flash func(context.Context, state.Mutable) error,
) (uint64, uint64, error) {
	if amountXOut == 0 && amountYOut == 0 {
		return 0, 0, ErrOutputInsufficientOutputAmount
	}
	if amountXOut >= pair.ReserveX || amountYOut >= pair.ReserveY {
		return 0, 0, ErrOutputInsufficientLiquidity
	}
	if to == pair.TokenX || to == pair.TokenY {
		return 0, 0, ErrOutputInvalidRecipient
	}

	// Optimistic transfers out
	if amountXOut > 0 {
		if err := storage.TransferToken(ctx, mu, pair.TokenX, pairAddress, to, amountXOut); err != nil {
			return 0, 0, err
		}
	}
	if amountYOut > 0 {
		if err := storage.TransferToken(ctx, mu, pair.TokenY, pairAddress, to, amountYOut); err != nil {
			return 0, 0, err
		}
	}
	if flash != nil {
		if err := flash(ctx, mu); err != nil {
			return 0, 0, err
		}
	}

	balanceX, balanceY, err := pairBalances(ctx, mu, pairAddress, pair)
	if err != nil {
		return 0, 0, err
	}
	var amountXIn, amountYIn uint64
	if balanceX > pair.ReserveX-amountXOut {
		amountXIn = balanceX - (pair.ReserveX - amountXOut)
	}
	if balanceY > pair.ReserveY-amountYOut {
		amountYIn = balanceY - (pair.ReserveY - amountYOut)
	}
	if amountXIn == 0 && amountYIn == 0 {
		return 0, 0, ErrOutputInsufficientInputAmount
	}

	// Fee-adjusted constant product: the invariant is checked on balances
	// scaled by the fee denominator with the fee skimmed off each input.
	feeBps := storage.SwapFeeDenominator - storage.SwapFeeNumerator
	adjX := fixedpoint.Mul128(balanceX, storage.SwapFeeDenominator)
	adjX.Sub(adjX, fixedpoint.Mul128(amountXIn, feeBps))
	adjY := fixedpoint.Mul128(balanceY, storage.SwapFeeDenominator)
	adjY.Sub(adjY, fixedpoint.Mul128(amountYIn, feeBps))
	adjProduct := adjX.Mul(adjX, adjY)

	kBefore := fixedpoint.Mul128(pair.ReserveX, pair.ReserveY)
	scale := fixedpoint.Mul128(storage.SwapFeeDenominator, storage.SwapFeeDenominator)
	kBefore.Mul(kBefore, scale)
	if adjProduct.Cmp(kBefore) < 0 {
		return 0, 0, ErrOutputKValueCheckFailed
	}

	return amountXIn, amountYIn, updatePair(ctx, mu, pairAddress, pair, balanceX, balanceY, timestamp)
}

// executeBurn redeems [liquidity] LP shares held by [holder] for the
// proportional amounts of both pool tokens. kLast is refreshed from the new
// reserves.
func executeBurn(
	ctx context.Context,
	mu state.Mutable,
	pairAddress codec.Address,
	pair *storage.Pair,
	holder codec.Address,
	liquidity uint64,
	timestamp int64,
) (uint64, uint64, error) {
	if liquidity == 0 {
		return 0, 0, ErrOutputInsufficientLiquidityBurned
	}
	if err := mintProtocolFee(ctx, mu, pair); err != nil {
		return 0, 0, err
	}
	balanceX, balanceY, err := pairBalances(ctx, mu, pairAddress, pair)
	if err != nil {
		return 0, 0, err
	}
	_, _, _, lpSupply, _, err := storage.GetTokenInfo(ctx, mu, pair.LPToken)
	if err != nil {
		return 0, 0, err
	}
	amountX, err := fixedpoint.MulDiv(liquidity, balanceX, lpSupply)
	if err != nil {
		return 0, 0, err
	}
	amountY, err := fixedpoint.MulDiv(liquidity, balanceY, lpSupply)
	if err != nil {
		return 0, 0, err
	}
	if amountX == 0 || amountY == 0 {
		return 0, 0, ErrOutputInsufficientLiquidityBurned
	}
	if err := storage.BurnToken(ctx, mu, pair.LPToken, holder, liquidity); err != nil {
		return 0, 0, err
	}
	if err := storage.TransferToken(ctx, mu, pair.TokenX, pairAddress, holder, amountX); err != nil {
		return 0, 0, err
	}
	if err := storage.TransferToken(ctx, mu, pair.TokenY, pairAddress, holder, amountY); err != nil {
		return 0, 0, err
	}
	if err := updatePair(ctx, mu, pairAddress, pair, balanceX-amountX, balanceY-amountY, timestamp); err != nil {
		return 0, 0, err
	}
	pair.KLast = fixedpoint.Mul128(pair.ReserveX, pair.ReserveY)
	return amountX, amountY, storage.SetPair(ctx, mu, pairAddress, pair)
}
