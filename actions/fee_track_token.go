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

var _ chain.Action = (*FeeTrackToken)(nil)

// FeeTrackToken puts a token under balance surveillance. Only deltas that
// arrive after tracking starts become distributable; the baseline is the
// collector's balance at tracking time.
type FeeTrackToken struct {
	Token codec.Address `json:"token"`
}

// ComputeUnits implements chain.Action.
func (*FeeTrackToken) ComputeUnits(chain.Rules) uint64 {
	return FeeTrackTokenComputeUnits
}

// Execute implements chain.Action.
func (f *FeeTrackToken) Execute(ctx context.Context, _ chain.Rules, mu state.Mutable, _ int64, actor codec.Address, _ ids.ID) ([][]byte, error) {
	collector, err := storage.GetCollector(ctx, mu)
	if err != nil {
		return nil, ErrOutputCollectorNotInitialized
	}
	if actor != collector.Owner {
		return nil, ErrOutputNotCollectorOwner
	}
	if !storage.TokenExists(ctx, mu, f.Token) {
		return nil, ErrOutputTokenDoesNotExist
	}
	tracked, err := storage.GetTrackedTokens(ctx, mu)
	if err != nil {
		return nil, err
	}
	for _, t := range tracked {
		if t == f.Token {
			return nil, ErrOutputAlreadyTracked
		}
	}
	if err := storage.SetTrackedTokens(ctx, mu, append(tracked, f.Token)); err != nil {
		return nil, err
	}
	balance, err := storage.GetTokenBalance(ctx, mu, f.Token, storage.CollectorAddress)
	if err != nil {
		return nil, err
	}
	return nil, storage.SetTracking(ctx, mu, f.Token, &storage.Tracking{
		LastProcessedBalance: balance,
	})
}

// GetTypeID implements chain.Action.
func (*FeeTrackToken) GetTypeID() uint8 {
	return consts.FeeTrackTokenID
}

// ValidRange implements chain.Action.
func (*FeeTrackToken) ValidRange(chain.Rules) (int64, int64) {
	return -1, -1
}
