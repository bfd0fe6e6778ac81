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

var _ chain.Action = (*BurnToken)(nil)

type BurnToken struct {
	Token codec.Address `json:"token"`
	Value uint64        `json:"value"`
}

// ComputeUnits implements chain.Action.
func (*BurnToken) ComputeUnits(chain.Rules) uint64 {
	return BurnTokenComputeUnits
}

// Execute implements chain.Action.
func (b *BurnToken) Execute(ctx context.Context, _ chain.Rules, mu state.Mutable, _ int64, actor codec.Address, _ ids.ID) ([][]byte, error) {
	if b.Value == 0 {
		return nil, ErrOutputValueZero
	}
	if !storage.TokenExists(ctx, mu, b.Token) {
		return nil, ErrOutputTokenDoesNotExist
	}
	if err := storage.BurnToken(ctx, mu, b.Token, actor, b.Value); err != nil {
		return nil, err
	}
	return nil, nil
}

// GetTypeID implements chain.Action.
func (*BurnToken) GetTypeID() uint8 {
	return consts.BurnTokenID
}

// ValidRange implements chain.Action.
func (*BurnToken) ValidRange(chain.Rules) (int64, int64) {
	return -1, -1
}
