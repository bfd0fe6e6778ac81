// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"

	"github.com/ava-labs/avalanchego/ids"
	"go.uber.org/zap"

	"github.com/0xhaz/dexvm/chain"
	"github.com/0xhaz/dexvm/codec"
	"github.com/0xhaz/dexvm/consts"
	"github.com/0xhaz/dexvm/state"
	"github.com/0xhaz/dexvm/storage"
)

var _ chain.Action = (*FeeDistribute)(nil)

// FeeDistribute pushes the collector's whole protocol-coin balance into the
// staking vault. Rate limited by the distribution cooldown.
type FeeDistribute struct {
	metrics *chain.Metrics
}

// Instrument implements chain.Instrumented.
func (f *FeeDistribute) Instrument(m *chain.Metrics, _ *zap.Logger) {
	f.metrics = m
}

// ComputeUnits implements chain.Action.
func (*FeeDistribute) ComputeUnits(chain.Rules) uint64 {
	return FeeDistributeComputeUnits
}

// Execute implements chain.Action.
// Outputs: the coin amount distributed.
func (f *FeeDistribute) Execute(ctx context.Context, r chain.Rules, mu state.Mutable, timestamp int64, _ codec.Address, _ ids.ID) ([][]byte, error) {
	collector, err := storage.GetCollector(ctx, mu)
	if err != nil {
		return nil, ErrOutputCollectorNotInitialized
	}
	if collector.Paused {
		return nil, ErrOutputCollectorPaused
	}
	if timestamp < collector.LastDistribution+r.GetDistributionCooldown() {
		return nil, ErrOutputDistributionCooldown
	}
	if err := storage.AcquireLock(ctx, mu, storage.CollectorAddress); err != nil {
		return nil, err
	}
	amount, err := distributeCollectedFees(ctx, mu, collector, timestamp)
	if err != nil {
		return nil, err
	}
	if err := storage.ReleaseLock(ctx, mu, storage.CollectorAddress); err != nil {
		return nil, err
	}
	f.metrics.IncDistributions()
	return [][]byte{packUint64(amount)}, nil
}

// GetTypeID implements chain.Action.
func (*FeeDistribute) GetTypeID() uint8 {
	return consts.FeeDistributeID
}

// ValidRange implements chain.Action.
func (*FeeDistribute) ValidRange(chain.Rules) (int64, int64) {
	return -1, -1
}
