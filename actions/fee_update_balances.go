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

var _ chain.Action = (*FeeUpdateBalances)(nil)

// FeeUpdateBalances scans every tracked token for balance growth since the
// last scan. Positive deltas become pending balance and a queued (or merged)
// conversion job; shrinkage is ignored until processing resyncs the baseline.
type FeeUpdateBalances struct{}

// ComputeUnits implements chain.Action.
func (*FeeUpdateBalances) ComputeUnits(chain.Rules) uint64 {
	return FeeUpdateBalancesComputeUnits
}

// Execute implements chain.Action.
// Outputs: the number of tokens whose pending balance grew.
func (*FeeUpdateBalances) Execute(ctx context.Context, _ chain.Rules, mu state.Mutable, timestamp int64, _ codec.Address, _ ids.ID) ([][]byte, error) {
	collector, err := storage.GetCollector(ctx, mu)
	if err != nil {
		return nil, ErrOutputCollectorNotInitialized
	}
	if collector.Paused {
		return nil, ErrOutputCollectorPaused
	}
	if err := storage.AcquireLock(ctx, mu, storage.CollectorAddress); err != nil {
		return nil, err
	}
	tracked, err := storage.GetTrackedTokens(ctx, mu)
	if err != nil {
		return nil, err
	}
	var updated uint64
	for _, token := range tracked {
		tracking, err := storage.GetTracking(ctx, mu, token)
		if err != nil {
			return nil, err
		}
		balance, err := storage.GetTokenBalance(ctx, mu, token, storage.CollectorAddress)
		if err != nil {
			return nil, err
		}
		if balance <= tracking.LastProcessedBalance {
			continue
		}
		delta := balance - tracking.LastProcessedBalance
		newPending, err := smath.Add(tracking.PendingBalance, delta)
		if err != nil {
			return nil, err
		}
		tracking.PendingBalance = newPending
		tracking.LastProcessedBalance = balance
		if err := storage.SetTracking(ctx, mu, token, tracking); err != nil {
			return nil, err
		}
		if err := enqueueJob(ctx, mu, token, delta, timestamp); err != nil {
			return nil, err
		}
		updated++
	}
	if err := storage.ReleaseLock(ctx, mu, storage.CollectorAddress); err != nil {
		return nil, err
	}
	return [][]byte{packUint64(updated)}, nil
}

// GetTypeID implements chain.Action.
func (*FeeUpdateBalances) GetTypeID() uint8 {
	return consts.FeeUpdateBalancesID
}

// ValidRange implements chain.Action.
func (*FeeUpdateBalances) ValidRange(chain.Rules) (int64, int64) {
	return -1, -1
}
