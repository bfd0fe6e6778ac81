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
	"github.com/0xhaz/dexvm/state/tstate"
	"github.com/0xhaz/dexvm/storage"
)

var _ chain.Action = (*FeeCollect)(nil)

// FeeCollect sweeps excess balances from up to the collection bound of pairs
// into the collector. Each pair is processed in its own buffered view: one
// broken pair cannot poison the batch.
type FeeCollect struct {
	Pairs []codec.Address `json:"pairs"`

	log *zap.Logger
}

// Instrument implements chain.Instrumented.
func (f *FeeCollect) Instrument(_ *chain.Metrics, log *zap.Logger) {
	f.log = log
}

// ComputeUnits implements chain.Action.
func (*FeeCollect) ComputeUnits(chain.Rules) uint64 {
	return FeeCollectComputeUnits
}

// Execute implements chain.Action.
// Outputs: one byte per pair, 1 on success and 0 on failure.
func (f *FeeCollect) Execute(ctx context.Context, r chain.Rules, mu state.Mutable, timestamp int64, _ codec.Address, _ ids.ID) ([][]byte, error) {
	collector, err := storage.GetCollector(ctx, mu)
	if err != nil {
		return nil, ErrOutputCollectorNotInitialized
	}
	if collector.Paused {
		return nil, ErrOutputCollectorPaused
	}
	if len(f.Pairs) == 0 {
		return nil, ErrOutputNoPairs
	}
	if len(f.Pairs) > r.GetMaxPairsPerCollection() {
		return nil, ErrOutputTooManyPairs
	}
	outputs := make([][]byte, len(f.Pairs))
	for i, pairAddress := range f.Pairs {
		view := tstate.New(mu)
		if err := collectFromPair(ctx, view, pairAddress, timestamp); err != nil {
			view.Discard()
			if f.log != nil {
				f.log.Warn("pair collection failed",
					zap.Stringer("pair", pairAddress),
					zap.Error(err),
				)
			}
			outputs[i] = []byte{0}
			continue
		}
		if err := view.Commit(ctx, mu); err != nil {
			return nil, err
		}
		outputs[i] = []byte{1}
	}
	return outputs, nil
}

// collectFromPair syncs the pair's reserves to its live balances, then skims
// anything above the reserves to the collector. Sync runs first so a prior
// drift is folded into the reserves rather than swept.
func collectFromPair(
	ctx context.Context,
	mu state.Mutable,
	pairAddress codec.Address,
	timestamp int64,
) error {
	pair, err := storage.GetPair(ctx, mu, pairAddress)
	if err != nil {
		return ErrOutputPairDoesNotExist
	}
	if err := storage.AcquireLock(ctx, mu, pairAddress); err != nil {
		return err
	}
	balanceX, balanceY, err := pairBalances(ctx, mu, pairAddress, pair)
	if err != nil {
		return err
	}
	if err := updatePair(ctx, mu, pairAddress, pair, balanceX, balanceY, timestamp); err != nil {
		return err
	}
	if balanceX > pair.ReserveX {
		if err := storage.TransferToken(ctx, mu, pair.TokenX, pairAddress, storage.CollectorAddress, balanceX-pair.ReserveX); err != nil {
			return err
		}
	}
	if balanceY > pair.ReserveY {
		if err := storage.TransferToken(ctx, mu, pair.TokenY, pairAddress, storage.CollectorAddress, balanceY-pair.ReserveY); err != nil {
			return err
		}
	}
	return storage.ReleaseLock(ctx, mu, pairAddress)
}

// GetTypeID implements chain.Action.
func (*FeeCollect) GetTypeID() uint8 {
	return consts.FeeCollectID
}

// ValidRange implements chain.Action.
func (*FeeCollect) ValidRange(chain.Rules) (int64, int64) {
	return -1, -1
}
