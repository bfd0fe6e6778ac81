// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"
	"math/big"

	"github.com/ava-labs/avalanchego/ids"
	smath "github.com/ava-labs/avalanchego/utils/math"

	"github.com/0xhaz/dexvm/chain"
	"github.com/0xhaz/dexvm/codec"
	"github.com/0xhaz/dexvm/consts"
	"github.com/0xhaz/dexvm/state"
	"github.com/0xhaz/dexvm/storage"
)

var _ chain.Action = (*VaultLeave)(nil)

// VaultLeave redeems shares for the proportional slice of the deposited coin.
// The team account is time locked for the lock duration after deployment.
type VaultLeave struct {
	Shares uint64 `json:"shares"`
}

// ComputeUnits implements chain.Action.
func (*VaultLeave) ComputeUnits(chain.Rules) uint64 {
	return VaultLeaveComputeUnits
}

// Execute implements chain.Action.
// Outputs: the coin amount withdrawn.
func (v *VaultLeave) Execute(ctx context.Context, r chain.Rules, mu state.Mutable, timestamp int64, actor codec.Address, _ ids.ID) ([][]byte, error) {
	if v.Shares == 0 {
		return nil, ErrOutputZeroShares
	}
	vault, err := storage.GetVault(ctx, mu)
	if err != nil {
		return nil, ErrOutputVaultNotInitialized
	}
	if actor == vault.TeamAccount && timestamp < vault.DeployedAt+r.GetTeamLockDuration() {
		return nil, ErrOutputTeamStakingLocked
	}
	if err := storage.AcquireLock(ctx, mu, storage.VaultAddress); err != nil {
		return nil, err
	}
	account, err := storage.GetVaultAccount(ctx, mu, actor)
	if err != nil {
		return nil, err
	}
	if v.Shares > account.Shares {
		return nil, ErrOutputInsufficientShares
	}

	// Withdrawals are priced on the deposited total, not the vault's live
	// balance: unclaimed fees sit at the same address and must not inflate
	// the share price twice.
	amount, err := scaledShare(v.Shares, vault.TotalDeposited, vault.TotalShares)
	if err != nil {
		return nil, err
	}
	if amount < r.GetMinimumWithdrawAmount() {
		return nil, ErrOutputMinimumWithdraw
	}

	// A partial withdrawal only releases the fee fraction attributable to the
	// withdrawn shares; the rest keeps accruing against the remainder.
	pendingTotal := pendingFees(vault, account)
	paidFees, err := scaledShare(pendingTotal, v.Shares, account.Shares)
	if err != nil {
		return nil, err
	}

	newTotalShares, err := smath.Sub(vault.TotalShares, v.Shares)
	if err != nil {
		return nil, err
	}
	newTotalDeposited, err := smath.Sub(vault.TotalDeposited, amount)
	if err != nil {
		return nil, err
	}
	newUnclaimed, err := smath.Sub(vault.TotalUnclaimedFees, paidFees)
	if err != nil {
		return nil, err
	}
	vault.TotalShares = newTotalShares
	vault.TotalDeposited = newTotalDeposited
	vault.TotalUnclaimedFees = newUnclaimed
	account.Shares -= v.Shares
	debt := feeDebt(account.Shares, vault.AccFeesPerShare)
	debt.Sub(debt, new(big.Int).SetUint64(pendingTotal-paidFees))
	account.FeeDebt = debt

	// Principal first, fees second.
	if err := storage.TransferToken(ctx, mu, storage.CoinAddress, storage.VaultAddress, actor, amount); err != nil {
		return nil, err
	}
	if paidFees > 0 {
		if err := storage.TransferToken(ctx, mu, storage.CoinAddress, storage.VaultAddress, actor, paidFees); err != nil {
			return nil, err
		}
	}

	if account.Shares == 0 {
		if err := storage.RemoveVaultAccount(ctx, mu, actor); err != nil {
			return nil, err
		}
	} else if err := storage.SetVaultAccount(ctx, mu, actor, account); err != nil {
		return nil, err
	}
	if err := storage.SetVault(ctx, mu, vault); err != nil {
		return nil, err
	}
	if err := storage.ReleaseLock(ctx, mu, storage.VaultAddress); err != nil {
		return nil, err
	}
	return [][]byte{packUint64(amount)}, nil
}

// GetTypeID implements chain.Action.
func (*VaultLeave) GetTypeID() uint8 {
	return consts.VaultLeaveID
}

// ValidRange implements chain.Action.
func (*VaultLeave) ValidRange(chain.Rules) (int64, int64) {
	return -1, -1
}
