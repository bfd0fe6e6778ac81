// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"

	"github.com/ava-labs/avalanchego/ids"
	smath "github.com/ava-labs/avalanchego/utils/math"

	"github.com/0xhaz/dexvm/chain"
	"github.com/0xhaz/dexvm/codec"
	"github.com/0xhaz/dexvm/consts"
	"github.com/0xhaz/dexvm/state"
	"github.com/0xhaz/dexvm/storage"
)

var _ chain.Action = (*VaultEnter)(nil)

// VaultEnter stakes the actor's protocol coin for vault shares minted to
// Recipient. The first stake bootstraps the share price at 1:1 and must meet
// the minimum.
type VaultEnter struct {
	Amount    uint64        `json:"amount"`
	Recipient codec.Address `json:"recipient"`
}

// ComputeUnits implements chain.Action.
func (*VaultEnter) ComputeUnits(chain.Rules) uint64 {
	return VaultEnterComputeUnits
}

// Execute implements chain.Action.
// Outputs: the share amount minted.
func (v *VaultEnter) Execute(ctx context.Context, r chain.Rules, mu state.Mutable, _ int64, actor codec.Address, _ ids.ID) ([][]byte, error) {
	if v.Amount == 0 {
		return nil, ErrOutputValueZero
	}
	if v.Recipient == codec.EmptyAddress {
		return nil, ErrOutputEmptyRecipient
	}
	vault, err := storage.GetVault(ctx, mu)
	if err != nil {
		return nil, ErrOutputVaultNotInitialized
	}
	if err := storage.AcquireLock(ctx, mu, storage.VaultAddress); err != nil {
		return nil, err
	}
	account, err := storage.GetVaultAccount(ctx, mu, v.Recipient)
	if err != nil {
		return nil, err
	}

	// Accrued fees are paid out before the share balance moves so the new
	// shares never earn retroactively.
	if _, err := settlePendingFees(ctx, mu, vault, account, v.Recipient); err != nil {
		return nil, err
	}

	var shares uint64
	if vault.TotalShares == 0 {
		if v.Amount < r.GetMinimumFirstStake() {
			return nil, ErrOutputBelowMinimumStake
		}
		shares = v.Amount
	} else {
		shares, err = scaledShare(v.Amount, vault.TotalShares, vault.TotalDeposited)
		if err != nil {
			return nil, err
		}
	}
	if shares == 0 {
		return nil, ErrOutputZeroShares
	}

	if err := storage.TransferToken(ctx, mu, storage.CoinAddress, actor, storage.VaultAddress, v.Amount); err != nil {
		return nil, err
	}

	newShares, err := smath.Add(account.Shares, shares)
	if err != nil {
		return nil, err
	}
	newTotalShares, err := smath.Add(vault.TotalShares, shares)
	if err != nil {
		return nil, err
	}
	newTotalDeposited, err := smath.Add(vault.TotalDeposited, v.Amount)
	if err != nil {
		return nil, err
	}
	account.Shares = newShares
	account.FeeDebt = feeDebt(newShares, vault.AccFeesPerShare)
	vault.TotalShares = newTotalShares
	vault.TotalDeposited = newTotalDeposited

	if err := storage.SetVaultAccount(ctx, mu, v.Recipient, account); err != nil {
		return nil, err
	}
	if err := storage.SetVault(ctx, mu, vault); err != nil {
		return nil, err
	}
	if err := storage.ReleaseLock(ctx, mu, storage.VaultAddress); err != nil {
		return nil, err
	}
	return [][]byte{packUint64(shares)}, nil
}

// GetTypeID implements chain.Action.
func (*VaultEnter) GetTypeID() uint8 {
	return consts.VaultEnterID
}

// ValidRange implements chain.Action.
func (*VaultEnter) ValidRange(chain.Rules) (int64, int64) {
	return -1, -1
}
