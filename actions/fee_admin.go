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

var (
	_ chain.Action = (*FeePause)(nil)
	_ chain.Action = (*FeeResume)(nil)
	_ chain.Action = (*FeeClearQueue)(nil)
	_ chain.Action = (*FeeResetTracking)(nil)
)

func requireCollectorOwner(ctx context.Context, mu state.Mutable, actor codec.Address) (*storage.Collector, error) {
	collector, err := storage.GetCollector(ctx, mu)
	if err != nil {
		return nil, ErrOutputCollectorNotInitialized
	}
	if actor != collector.Owner {
		return nil, ErrOutputNotCollectorOwner
	}
	return collector, nil
}

// FeePause halts collection, balance tracking, queue processing, and
// distribution.
type FeePause struct{}

func (*FeePause) ComputeUnits(chain.Rules) uint64 { return FeeAdminComputeUnits }

func (*FeePause) Execute(ctx context.Context, _ chain.Rules, mu state.Mutable, _ int64, actor codec.Address, _ ids.ID) ([][]byte, error) {
	collector, err := requireCollectorOwner(ctx, mu, actor)
	if err != nil {
		return nil, err
	}
	if collector.Paused {
		return nil, ErrOutputCollectorPaused
	}
	collector.Paused = true
	return nil, storage.SetCollector(ctx, mu, collector)
}

func (*FeePause) GetTypeID() uint8 { return consts.FeePauseID }

func (*FeePause) ValidRange(chain.Rules) (int64, int64) { return -1, -1 }

// FeeResume lifts a pause and zeroes the global failure counter so the
// circuit breaker starts fresh.
type FeeResume struct{}

func (*FeeResume) ComputeUnits(chain.Rules) uint64 { return FeeAdminComputeUnits }

func (*FeeResume) Execute(ctx context.Context, _ chain.Rules, mu state.Mutable, _ int64, actor codec.Address, _ ids.ID) ([][]byte, error) {
	collector, err := requireCollectorOwner(ctx, mu, actor)
	if err != nil {
		return nil, err
	}
	if !collector.Paused {
		return nil, ErrOutputCollectorNotPaused
	}
	collector.Paused = false
	collector.FailureCount = 0
	return nil, storage.SetCollector(ctx, mu, collector)
}

func (*FeeResume) GetTypeID() uint8 { return consts.FeeResumeID }

func (*FeeResume) ValidRange(chain.Rules) (int64, int64) { return -1, -1 }

// FeeClearQueue drops every queued job. Pending balances survive; the next
// balance scan re-queues them.
type FeeClearQueue struct{}

func (*FeeClearQueue) ComputeUnits(chain.Rules) uint64 { return FeeAdminComputeUnits }

func (*FeeClearQueue) Execute(ctx context.Context, _ chain.Rules, mu state.Mutable, _ int64, actor codec.Address, _ ids.ID) ([][]byte, error) {
	if _, err := requireCollectorOwner(ctx, mu, actor); err != nil {
		return nil, err
	}
	jobs, err := storage.GetQueue(ctx, mu)
	if err != nil {
		return nil, err
	}
	removed := make([]codec.Address, len(jobs))
	for i, job := range jobs {
		removed[i] = job.Token
	}
	return nil, storage.SetQueue(ctx, mu, nil, removed)
}

func (*FeeClearQueue) GetTypeID() uint8 { return consts.FeeClearQueueID }

func (*FeeClearQueue) ValidRange(chain.Rules) (int64, int64) { return -1, -1 }

// FeeResetTracking realigns one token's baseline to its live balance and
// clears its pending total. Migration aid after manual interventions.
type FeeResetTracking struct {
	Token codec.Address `json:"token"`
}

func (*FeeResetTracking) ComputeUnits(chain.Rules) uint64 { return FeeAdminComputeUnits }

func (f *FeeResetTracking) Execute(ctx context.Context, _ chain.Rules, mu state.Mutable, _ int64, actor codec.Address, _ ids.ID) ([][]byte, error) {
	if _, err := requireCollectorOwner(ctx, mu, actor); err != nil {
		return nil, err
	}
	tracking, err := storage.GetTracking(ctx, mu, f.Token)
	if err != nil {
		return nil, ErrOutputNotTracked
	}
	balance, err := storage.GetTokenBalance(ctx, mu, f.Token, storage.CollectorAddress)
	if err != nil {
		return nil, err
	}
	tracking.LastProcessedBalance = balance
	tracking.PendingBalance = 0
	return nil, storage.SetTracking(ctx, mu, f.Token, tracking)
}

func (*FeeResetTracking) GetTypeID() uint8 { return consts.FeeResetTrackingID }

func (*FeeResetTracking) ValidRange(chain.Rules) (int64, int64) { return -1, -1 }
