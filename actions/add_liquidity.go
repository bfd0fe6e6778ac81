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
	"github.com/0xhaz/dexvm/fixedpoint"
	"github.com/0xhaz/dexvm/state"
	"github.com/0xhaz/dexvm/storage"
)

var _ chain.Action = (*AddLiquidity)(nil)

type AddLiquidity struct {
	Pair    codec.Address `json:"pair"`
	AmountX uint64        `json:"amountX"`
	AmountY uint64        `json:"amountY"`
	To      codec.Address `json:"to"`

	metrics *chain.Metrics
}

// Instrument implements chain.Instrumented.
func (a *AddLiquidity) Instrument(m *chain.Metrics, _ *zap.Logger) {
	a.metrics = m
}

// ComputeUnits implements chain.Action.
func (*AddLiquidity) ComputeUnits(chain.Rules) uint64 {
	return AddLiquidityComputeUnits
}

// Execute implements chain.Action.
// Outputs: the LP share amount minted to [To].
func (a *AddLiquidity) Execute(ctx context.Context, _ chain.Rules, mu state.Mutable, timestamp int64, actor codec.Address, _ ids.ID) ([][]byte, error) {
	if a.To == codec.EmptyAddress {
		return nil, ErrOutputEmptyRecipient
	}
	pair, err := storage.GetPair(ctx, mu, a.Pair)
	if err != nil {
		return nil, ErrOutputPairDoesNotExist
	}
	if err := storage.AcquireLock(ctx, mu, a.Pair); err != nil {
		return nil, err
	}

	if a.AmountX > 0 {
		if err := storage.TransferToken(ctx, mu, pair.TokenX, actor, a.Pair, a.AmountX); err != nil {
			return nil, err
		}
	}
	if a.AmountY > 0 {
		if err := storage.TransferToken(ctx, mu, pair.TokenY, actor, a.Pair, a.AmountY); err != nil {
			return nil, err
		}
	}

	balanceX, balanceY, err := pairBalances(ctx, mu, a.Pair, pair)
	if err != nil {
		return nil, err
	}
	amountX := balanceX - pair.ReserveX
	amountY := balanceY - pair.ReserveY

	if err := mintProtocolFee(ctx, mu, pair); err != nil {
		return nil, err
	}
	_, _, _, lpSupply, _, err := storage.GetTokenInfo(ctx, mu, pair.LPToken)
	if err != nil {
		return nil, err
	}

	var liquidity uint64
	if lpSupply == 0 {
		root := fixedpoint.SqrtBig(fixedpoint.Mul128(amountX, amountY))
		if root <= storage.MinimumLiquidity {
			return nil, ErrOutputInsufficientLiquidityMinted
		}
		liquidity = root - storage.MinimumLiquidity
		// Permanently locked; makes the share supply impossible to drain.
		if err := storage.MintToken(ctx, mu, pair.LPToken, codec.EmptyAddress, storage.MinimumLiquidity); err != nil {
			return nil, err
		}
	} else {
		byX, err := fixedpoint.MulDiv(amountX, lpSupply, pair.ReserveX)
		if err != nil {
			return nil, err
		}
		byY, err := fixedpoint.MulDiv(amountY, lpSupply, pair.ReserveY)
		if err != nil {
			return nil, err
		}
		liquidity = fixedpoint.Min(byX, byY)
	}
	if liquidity == 0 {
		return nil, ErrOutputInsufficientLiquidityMinted
	}
	if err := storage.MintToken(ctx, mu, pair.LPToken, a.To, liquidity); err != nil {
		return nil, err
	}

	if err := updatePair(ctx, mu, a.Pair, pair, balanceX, balanceY, timestamp); err != nil {
		return nil, err
	}
	pair.KLast = fixedpoint.Mul128(pair.ReserveX, pair.ReserveY)
	if err := storage.SetPair(ctx, mu, a.Pair, pair); err != nil {
		return nil, err
	}
	if err := storage.ReleaseLock(ctx, mu, a.Pair); err != nil {
		return nil, err
	}
	a.metrics.IncLiquidityEvents()
	return [][]byte{packUint64(liquidity)}, nil
}

// GetTypeID implements chain.Action.
func (*AddLiquidity) GetTypeID() uint8 {
	return consts.AddLiquidityID
}

// ValidRange implements chain.Action.
func (*AddLiquidity) ValidRange(chain.Rules) (int64, int64) {
	return -1, -1
}
