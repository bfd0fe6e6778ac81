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

var _ chain.Action = (*Swap)(nil)

// FlashCallback is invoked after the swap's optimistic transfers and before
// the constant-product check, with the outputs already credited to the
// recipient. Repaying enough input during the callback makes the swap a flash
// loan.
type FlashCallback interface {
	OnFlashSwap(
		ctx context.Context,
		mu state.Mutable,
		sender codec.Address,
		amountX uint64,
		amountY uint64,
		data []byte,
	) error
}

type Swap struct {
	Pair       codec.Address `json:"pair"`
	AmountXOut uint64        `json:"amountXOut"`
	AmountYOut uint64        `json:"amountYOut"`
	To         codec.Address `json:"to"`
	Data       []byte        `json:"data"`

	Callback FlashCallback `json:"-"`

	metrics *chain.Metrics
}

// Instrument implements chain.Instrumented.
func (s *Swap) Instrument(m *chain.Metrics, _ *zap.Logger) {
	s.metrics = m
}

// ComputeUnits implements chain.Action.
func (*Swap) ComputeUnits(chain.Rules) uint64 {
	return SwapComputeUnits
}

// Execute implements chain.Action.
// Outputs: the input amounts of both pool tokens discovered by balance
// difference.
func (s *Swap) Execute(ctx context.Context, _ chain.Rules, mu state.Mutable, timestamp int64, actor codec.Address, _ ids.ID) ([][]byte, error) {
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
	var flash func(context.Context, state.Mutable) error
	if s.Callback != nil && len(s.Data) > 0 {
		flash = func(ctx context.Context, mu state.Mutable) error {
			return s.Callback.OnFlashSwap(ctx, mu, actor, s.AmountXOut, s.AmountYOut, s.Data)
		}
	}
	amountXIn, amountYIn, err := executeSwap(ctx, mu, s.Pair, pair, s.AmountXOut, s.AmountYOut, s.To, timestamp, flash)
	if err != nil {
		return nil, err
	}
	if err := storage.ReleaseLock(ctx, mu, s.Pair); err != nil {
		return nil, err
	}
	s.metrics.IncSwaps()
	return [][]byte{packUint64(amountXIn), packUint64(amountYIn)}, nil
}

// GetTypeID implements chain.Action.
func (*Swap) GetTypeID() uint8 {
	return consts.SwapID
}

// ValidRange implements chain.Action.
func (*Swap) ValidRange(chain.Rules) (int64, int64) {
	return -1, -1
}
