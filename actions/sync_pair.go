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

var _ chain.Action = (*SyncPair)(nil)

// SyncPair force-matches the stored reserves to the pair's live balances.
// Recovers a pair whose balances drifted via direct transfers.
type SyncPair struct {
	Pair codec.Address `json:"pair"`
}

// ComputeUnits implements chain.Action.
func (*SyncPair) ComputeUnits(chain.Rules) uint64 {
	return SyncPairComputeUnits
}

// Execute implements chain.Action.
func (s *SyncPair) Execute(ctx context.Context, _ chain.Rules, mu state.Mutable, timestamp int64, _ codec.Address, _ ids.ID) ([][]byte, error) {
	pair, err := storage.GetPair(ctx, mu, s.Pair)
	if err != nil {
		return nil, ErrOutputPairDoesNotExist
	}
	if err := storage.AcquireLock(ctx, mu, s.Pair); err != nil {
		return nil, err
	}
	balanceX, balanceY, err := pairBalances(ctx, mu, s.Pair, pair)
	if err != nil {
		return nil, err
	}
	if err := updatePair(ctx, mu, s.Pair, pair, balanceX, balanceY, timestamp); err != nil {
		return nil, err
	}
	if err := storage.ReleaseLock(ctx, mu, s.Pair); err != nil {
		return nil, err
	}
	return nil, nil
}

// GetTypeID implements chain.Action.
func (*SyncPair) GetTypeID() uint8 {
	return consts.SyncPairID
}

// ValidRange implements chain.Action.
func (*SyncPair) ValidRange(chain.Rules) (int64, int64) {
	return -1, -1
}
