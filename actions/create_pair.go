// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"
	"math/big"

	"github.com/ava-labs/avalanchego/ids"

	"github.com/0xhaz/dexvm/chain"
	"github.com/0xhaz/dexvm/codec"
	"github.com/0xhaz/dexvm/consts"
	"github.com/0xhaz/dexvm/state"
	"github.com/0xhaz/dexvm/storage"
)

var _ chain.Action = (*CreatePair)(nil)

type CreatePair struct {
	TokenA codec.Address `json:"tokenA"`
	TokenB codec.Address `json:"tokenB"`
}

// ComputeUnits implements chain.Action.
func (*CreatePair) ComputeUnits(chain.Rules) uint64 {
	return CreatePairComputeUnits
}

// Execute implements chain.Action.
// Outputs: the pair address followed by its LP token address.
func (c *CreatePair) Execute(ctx context.Context, _ chain.Rules, mu state.Mutable, _ int64, _ codec.Address, _ ids.ID) ([][]byte, error) {
	if !storage.TokenExists(ctx, mu, c.TokenA) || !storage.TokenExists(ctx, mu, c.TokenB) {
		return nil, ErrOutputTokenDoesNotExist
	}
	tokenX, tokenY, err := storage.SortTokens(c.TokenA, c.TokenB)
	if err != nil {
		return nil, err
	}
	pairAddress, err := storage.PairAddress(tokenX, tokenY)
	if err != nil {
		return nil, err
	}
	if storage.PairExists(ctx, mu, pairAddress) {
		return nil, ErrOutputPairAlreadyExists
	}

	// The pair itself owns its LP token; shares enter and leave circulation
	// only through liquidity events.
	lpToken := storage.PairTokenAddress(pairAddress)
	if err := storage.SetTokenInfo(
		ctx,
		mu,
		lpToken,
		[]byte(storage.PairTokenName),
		[]byte(storage.PairTokenSymbol),
		[]byte(storage.PairTokenMetadata),
		0,
		pairAddress,
	); err != nil {
		return nil, err
	}
	if err := storage.SetPairTokenIndex(ctx, mu, lpToken, pairAddress); err != nil {
		return nil, err
	}

	pair := &storage.Pair{
		TokenX:           tokenX,
		TokenY:           tokenY,
		PriceXCumulative: new(big.Int),
		PriceYCumulative: new(big.Int),
		KLast:            new(big.Int),
		LPToken:          lpToken,
	}
	if err := storage.SetPair(ctx, mu, pairAddress, pair); err != nil {
		return nil, err
	}
	return [][]byte{pairAddress[:], lpToken[:]}, nil
}

// GetTypeID implements chain.Action.
func (*CreatePair) GetTypeID() uint8 {
	return consts.CreatePairID
}

// ValidRange implements chain.Action.
func (*CreatePair) ValidRange(chain.Rules) (int64, int64) {
	return -1, -1
}
