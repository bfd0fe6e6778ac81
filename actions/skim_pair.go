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

var _ chain.Action = (*SkimPair)(nil)

// SkimPair sweeps any balance above the stored reserves to [To]. The inverse
// of SyncPair: reserves stay, excess leaves.
type SkimPair struct {
	Pair codec.Address `json:"pair"`
	To   codec.Address `json:"to"`
}

// ComputeUnits implements chain.Action.
func (*SkimPair) ComputeUnits(chain.Rules) uint64 {
	return SkimPairComputeUnits
}

// Execute implements chain.Action.
// Outputs: the skimmed amounts of both pool tokens.
func (s *SkimPair) Execute(ctx context.Context, _ chain.Rules, mu state.Mutable, _ int64, _ codec.Address, _ ids.ID) ([][]byte, error) {
	if s.To == codec.EmptyAddress {
		return nil, ErrOutputEmptyRecipient
	}
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
	var excessX, excessY uint64
	if balanceX > pair.ReserveX {
		excessX = balanceX - pair.ReserveX
		if err := storage.TransferToken(ctx, mu, pair.TokenX, s.Pair, s.To, excessX); err != nil {
			return nil, err
		}
	}
	if balanceY > pair.ReserveY {
		excessY = balanceY - pair.ReserveY
		if err := storage.TransferToken(ctx, mu, pair.TokenY, s.Pair, s.To, excessY); err != nil {
			return nil, err
		}
	}
	if err := storage.ReleaseLock(ctx, mu, s.Pair); err != nil {
		return nil, err
	}
	return [][]byte{packUint64(excessX), packUint64(excessY)}, nil
}

// GetTypeID implements chain.Action.
func (*SkimPair) GetTypeID() uint8 {
	return consts.SkimPairID
}

// ValidRange implements chain.Action.
func (*SkimPair) ValidRange(chain.Rules) (int64, int64) {
	return -1, -1
}
