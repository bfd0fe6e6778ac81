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

var _ chain.Action = (*VaultRebase)(nil)

// VaultRebase donates protocol coin from the actor directly into the
// per-share fee accumulator. Anyone can rebase; the amount is split pro rata
// across current stakers.
type VaultRebase struct {
	Amount uint64 `json:"amount"`
}

// ComputeUnits implements chain.Action.
func (*VaultRebase) ComputeUnits(chain.Rules) uint64 {
	return VaultRebaseComputeUnits
}

// Execute implements chain.Action.
func (v *VaultRebase) Execute(ctx context.Context, _ chain.Rules, mu state.Mutable, _ int64, actor codec.Address, _ ids.ID) ([][]byte, error) {
	if v.Amount == 0 {
		return nil, ErrOutputValueZero
	}
	if err := storage.AcquireLock(ctx, mu, storage.VaultAddress); err != nil {
		return nil, err
	}
	if err := storage.TransferToken(ctx, mu, storage.CoinAddress, actor, storage.VaultAddress, v.Amount); err != nil {
		return nil, err
	}
	if err := distributeToVault(ctx, mu, v.Amount); err != nil {
		return nil, err
	}
	if err := storage.ReleaseLock(ctx, mu, storage.VaultAddress); err != nil {
		return nil, err
	}
	return nil, nil
}

// GetTypeID implements chain.Action.
func (*VaultRebase) GetTypeID() uint8 {
	return consts.VaultRebaseID
}

// ValidRange implements chain.Action.
func (*VaultRebase) ValidRange(chain.Rules) (int64, int64) {
	return -1, -1
}
