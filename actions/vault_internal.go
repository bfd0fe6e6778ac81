// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"
	"errors"
	"math/big"

	smath "github.com/ava-labs/avalanchego/utils/math"

	"github.com/0xhaz/dexvm/codec"
	"github.com/0xhaz/dexvm/fixedpoint"
	"github.com/0xhaz/dexvm/state"
	"github.com/0xhaz/dexvm/storage"
)

// scaledShare computes amount*numerator/denominator, preferring the exact
// 128-bit path and falling back to dividing first when the exact quotient
// would not fit.
func scaledShare(amount uint64, numerator uint64, denominator uint64) (uint64, error) {
	v, err := fixedpoint.MulDiv(amount, numerator, denominator)
	if err == nil {
		return v, nil
	}
	if !errors.Is(err, fixedpoint.ErrOverflow) {
		return 0, err
	}
	return smath.Mul(amount/denominator, numerator)
}

// feeDebt is the snapshot shares*accFeesPerShare/precision taken whenever an
// account's share balance changes.
func feeDebt(shares uint64, accFeesPerShare uint64) *big.Int {
	debt := fixedpoint.Mul128(shares, accFeesPerShare)
	return debt.Div(debt, new(big.Int).SetUint64(storage.FeePrecision))
}

// pendingFees returns what the account has earned since its last snapshot.
func pendingFees(vault *storage.Vault, account *storage.VaultAccount) uint64 {
	earned := feeDebt(account.Shares, vault.AccFeesPerShare)
	earned.Sub(earned, account.FeeDebt)
	if earned.Sign() <= 0 || !earned.IsUint64() {
		return 0
	}
	return earned.Uint64()
}

// settlePendingFees pays the account's accrued fees out of the vault's coin
// balance before a share-changing interaction. The fee-debt snapshot is NOT
// refreshed here; callers rewrite it after adjusting shares. Returns the
// amount paid.
func settlePendingFees(
	ctx context.Context,
	mu state.Mutable,
	vault *storage.Vault,
	account *storage.VaultAccount,
	to codec.Address,
) (uint64, error) {
	pending := pendingFees(vault, account)
	if pending == 0 {
		return 0, nil
	}
	if err := storage.TransferToken(ctx, mu, storage.CoinAddress, storage.VaultAddress, to, pending); err != nil {
		return 0, err
	}
	newUnclaimed, err := smath.Sub(vault.TotalUnclaimedFees, pending)
	if err != nil {
		return 0, err
	}
	vault.TotalUnclaimedFees = newUnclaimed
	return pending, nil
}

// distributeToVault pushes [amount] protocol coin already held at the vault
// address into the per-share accumulator, making it claimable pro rata.
func distributeToVault(ctx context.Context, mu state.Mutable, amount uint64) error {
	vault, err := storage.GetVault(ctx, mu)
	if err != nil {
		return ErrOutputVaultNotInitialized
	}
	if vault.TotalShares == 0 {
		return ErrOutputNoStakers
	}
	inc := fixedpoint.Mul128(amount, storage.FeePrecision)
	inc.Div(inc, new(big.Int).SetUint64(vault.TotalShares))
	if !inc.IsUint64() {
		return fixedpoint.ErrOverflow
	}
	newAcc, err := smath.Add(vault.AccFeesPerShare, inc.Uint64())
	if err != nil {
		return err
	}
	newUnclaimed, err := smath.Add(vault.TotalUnclaimedFees, amount)
	if err != nil {
		return err
	}
	vault.AccFeesPerShare = newAcc
	vault.TotalUnclaimedFees = newUnclaimed
	return storage.SetVault(ctx, mu, vault)
}
