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

var _ chain.Action = (*FeeConvert)(nil)

// FeeConvert processes a single token immediately, bypassing the queue. An
// owner escape hatch for stuck or urgent balances; the token's queue slot and
// pending balance are cleared wholesale.
type FeeConvert struct {
	Token codec.Address `json:"token"`
}

// ComputeUnits implements chain.Action.
func (*FeeConvert) ComputeUnits(chain.Rules) uint64 {
	return FeeConvertComputeUnits
}

// Execute implements chain.Action.
// Outputs: the protocol coin produced.
func (f *FeeConvert) Execute(ctx context.Context, _ chain.Rules, mu state.Mutable, timestamp int64, actor codec.Address, _ ids.ID) ([][]byte, error) {
	collector, err := storage.GetCollector(ctx, mu)
	if err != nil {
		return nil, ErrOutputCollectorNotInitialized
	}
	if actor != collector.Owner {
		return nil, ErrOutputNotCollectorOwner
	}
	if err := storage.AcquireLock(ctx, mu, storage.CollectorAddress); err != nil {
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
	if balance == 0 {
		return nil, ErrOutputNothingToProcess
	}

	_, jobType := classifyToken(ctx, mu, f.Token)
	job := &storage.Job{
		Token:     f.Token,
		Amount:    balance,
		Timestamp: timestamp,
		JobType:   jobType,
	}
	converted, err := processJob(ctx, mu, job, timestamp)
	if err != nil {
		return nil, err
	}

	// Drop any queued job for the token; its balance is gone.
	if tracking.QueueIndex > 0 {
		jobs, err := storage.GetQueue(ctx, mu)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs[:tracking.QueueIndex-1], jobs[tracking.QueueIndex:]...)
		if err := storage.SetQueue(ctx, mu, jobs, []codec.Address{f.Token}); err != nil {
			return nil, err
		}
	}
	live, err := storage.GetTokenBalance(ctx, mu, f.Token, storage.CollectorAddress)
	if err != nil {
		return nil, err
	}
	tracking, err = storage.GetTracking(ctx, mu, f.Token)
	if err != nil {
		return nil, err
	}
	tracking.PendingBalance = 0
	tracking.LastProcessedBalance = live
	if err := storage.SetTracking(ctx, mu, f.Token, tracking); err != nil {
		return nil, err
	}
	collector.TotalProcessed++
	if err := storage.SetCollector(ctx, mu, collector); err != nil {
		return nil, err
	}
	if err := storage.ReleaseLock(ctx, mu, storage.CollectorAddress); err != nil {
		return nil, err
	}
	return [][]byte{packUint64(converted)}, nil
}

// GetTypeID implements chain.Action.
func (*FeeConvert) GetTypeID() uint8 {
	return consts.FeeConvertID
}

// ValidRange implements chain.Action.
func (*FeeConvert) ValidRange(chain.Rules) (int64, int64) {
	return -1, -1
}
