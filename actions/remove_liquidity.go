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

var _ chain.Action = (*RemoveLiquidity)(nil)

type RemoveLiquidity struct {
	Pair      codec.Address `json:"pair"`
	Liquidity uint64        `json:"liquidity"`

	metrics *chain.Metrics
}

// Instrument implements chain.Instrumented.
func (r *RemoveLiquidity) Instrument(m *chain.Metrics, _ *zap.Logger) {
	r.metrics = m
}

// ComputeUnits implements chain.Action.
func (*RemoveLiquidity) ComputeUnits(chain.Rules) uint64 {
	return RemoveLiquidityComputeUnits
}

// Execute implements chain.Action.
// Outputs: the amounts of both pool tokens returned to the actor.
func (r *RemoveLiquidity) Execute(ctx context.Context, _ chain.Rules, mu state.Mutable, timestamp int64, actor codec.Address, _ ids.ID) ([][]byte, error) {
	pair, err := storage.GetPair(ctx, mu, r.Pair)
	if err != nil {
		return nil, ErrOutputPairDoesNotExist
	}
	if err := storage.AcquireLock(ctx, mu, r.Pair); err != nil {
		return nil, err
	}
	amountX, amountY, err := executeBurn(ctx, mu, r.Pair, pair, actor, r.Liquidity, timestamp)
	if err != nil {
		return nil, err
	}
	if err := storage.ReleaseLock(ctx, mu, r.Pair); err != nil {
		return nil, err
	}
	r.metrics.IncLiquidityEvents()
	return [][]byte{packUint64(amountX), packUint64(amountY)}, nil
}

// GetTypeID implements chain.Action.
func (*RemoveLiquidity) GetTypeID() uint8 {
	return consts.RemoveLiquidityID
}

// ValidRange implements chain.Action.
func (*RemoveLiquidity) ValidRange(chain.Rules) (int64, int64) {
	return -1, -1
}
