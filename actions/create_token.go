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

var _ chain.Action = (*CreateToken)(nil)

type CreateToken struct {
	Name     []byte `json:"name"`
	Symbol   []byte `json:"symbol"`
	Metadata []byte `json:"metadata"`
}

// ComputeUnits implements chain.Action.
func (*CreateToken) ComputeUnits(chain.Rules) uint64 {
	return CreateTokenComputeUnits
}

// Execute implements chain.Action.
// Outputs: the address of the created token.
func (c *CreateToken) Execute(ctx context.Context, _ chain.Rules, mu state.Mutable, _ int64, actor codec.Address, _ ids.ID) ([][]byte, error) {
	if len(c.Name) == 0 {
		return nil, ErrOutputTokenNameEmpty
	}
	if len(c.Name) > storage.MaxTokenNameSize {
		return nil, ErrOutputTokenNameTooLarge
	}
	if len(c.Symbol) == 0 {
		return nil, ErrOutputTokenSymbolEmpty
	}
	if len(c.Symbol) > storage.MaxTokenSymbolSize {
		return nil, ErrOutputTokenSymbolTooLarge
	}
	if len(c.Metadata) == 0 {
		return nil, ErrOutputTokenMetadataEmpty
	}
	if len(c.Metadata) > storage.MaxTokenMetadataSize {
		return nil, ErrOutputTokenMetadataTooLarge
	}
	tokenAddress := storage.TokenAddress(c.Name, c.Symbol, c.Metadata)
	if storage.TokenExists(ctx, mu, tokenAddress) {
		return nil, ErrOutputTokenAlreadyExists
	}
	if err := storage.SetTokenInfo(ctx, mu, tokenAddress, c.Name, c.Symbol, c.Metadata, 0, actor); err != nil {
		return nil, err
	}
	return [][]byte{tokenAddress[:]}, nil
}

// GetTypeID implements chain.Action.
func (*CreateToken) GetTypeID() uint8 {
	return consts.CreateTokenID
}

// ValidRange implements chain.Action.
func (*CreateToken) ValidRange(chain.Rules) (int64, int64) {
	return -1, -1
}
