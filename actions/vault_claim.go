// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"

	"github.com/ava-labs/avalanchego/ids"

	"github.com/0xhaz/dexvm/chain"
	"github.com/0xhaz/dexvm/codec"
	"github.com/0xhaz/dexvm/consts"
	"github.com/0xhaz/dexvm/state"
	"github.com/0xhaz/dexvm/storage"
)

var _ chain.Action = (*VaultClaim)(nil)

// VaultClaim pays out the actor's accrued fees without touching shares.
type VaultClaim struct{}

// ComputeUnits implements chain.Action.
func (*VaultClaim) ComputeUnits(chain.Rules) uint64 {
	return VaultClaimComputeUnits
}

// Execute implements chain.Action.
// Outputs: the fee amount claimed.
func (*VaultClaim) Execute(ctx context.Context, _ chain.Rules, mu state.Mutable, _ int64, actor codec.Address, _ ids.ID) ([][]byte, error) {
	vault, err := storage.GetVault(ctx, mu)
	if err != nil {
		return nil, ErrOutputVaultNotInitialized
	}
	if err := storage.AcquireLock(ctx, mu, storage.VaultAddress); err != nil {
		return nil, err
	}
	account, err := storage.GetVaultAccount(ctx, mu, actor)
	if err != nil {
		return nil, err
	}
	paid, err := settlePendingFees(ctx, mu, vault, account, actor)
	if err != nil {
		return nil, err
	}
	if paid == 0 {
		return nil, ErrOutputNoPendingFees
	}
	account.FeeDebt = feeDebt(account.Shares, vault.AccFeesPerShare)
	if err := storage.SetVaultAccount(ctx, mu, actor, account); err != nil {
		return nil, err
	}
	if err := storage.SetVault(ctx, mu, vault); err != nil {
		return nil, err
	}
	if err := storage.ReleaseLock(ctx, mu, storage.VaultAddress); err != nil {
		return nil, err
	}
	return [][]byte{packUint64(paid)}, nil
}

// GetTypeID implements chain.Action.
func (*VaultClaim) GetTypeID() uint8 {
	return consts.VaultClaimID
}

// ValidRange implements chain.Action.
func (*VaultClaim) ValidRange(chain.Rules) (int64, int64) {
	return -1, -1
}
