// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	safemath "github.com/ava-labs/avalanchego/utils/math"
	"github.com/stretchr/testify/require"

	"github.com/0xhaz/dexvm/chain/chaintest"
	"github.com/0xhaz/dexvm/codec"
	"github.com/0xhaz/dexvm/state"
	"github.com/0xhaz/dexvm/storage"
)

var (
	testTokenName     = []byte("Test Token")
	testTokenSymbol   = []byte("TST")
	testTokenMetadata = []byte("a token for tests")

	actorOne = codec.CreateAddress(0, ids.GenerateTestID())
	actorTwo = codec.CreateAddress(0, ids.GenerateTestID())
)

func TestCreateToken(t *testing.T) {
	ctx := context.Background()
	tokenAddress := storage.TokenAddress(testTokenName, testTokenSymbol, testTokenMetadata)

	tests := []chaintest.ActionTest{
		{
			Name:        "empty name",
			Action:      &CreateToken{Symbol: testTokenSymbol, Metadata: testTokenMetadata},
			Rules:       chaintest.NewRules(),
			State:       chaintest.NewInMemoryStore(),
			ExpectedErr: ErrOutputTokenNameEmpty,
		},
		{
			Name:        "empty symbol",
			Action:      &CreateToken{Name: testTokenName, Metadata: testTokenMetadata},
			Rules:       chaintest.NewRules(),
			State:       chaintest.NewInMemoryStore(),
			ExpectedErr: ErrOutputTokenSymbolEmpty,
		},
		{
			Name:            "valid token",
			Action:          &CreateToken{Name: testTokenName, Symbol: testTokenSymbol, Metadata: testTokenMetadata},
			Rules:           chaintest.NewRules(),
			State:           chaintest.NewInMemoryStore(),
			Actor:           actorOne,
			ExpectedOutputs: [][]byte{tokenAddress[:]},
			Assertion: func(ctx context.Context, t *testing.T, mu state.Mutable) {
				require := require.New(t)
				name, symbol, metadata, supply, owner, err := storage.GetTokenInfo(ctx, mu, tokenAddress)
				require.NoError(err)
				require.Equal(testTokenName, name)
				require.Equal(testTokenSymbol, symbol)
				require.Equal(testTokenMetadata, metadata)
				require.Zero(supply)
				require.Equal(actorOne, owner)
			},
		},
	}
	for _, test := range tests {
		test.Run(ctx, t)
	}
}

func TestMintToken(t *testing.T) {
	ctx := context.Background()
	req := require.New(t)
	store := chaintest.NewInMemoryStore()
	tokenAddress := storage.TokenAddress(testTokenName, testTokenSymbol, testTokenMetadata)
	req.NoError(storage.SetTokenInfo(ctx, store, tokenAddress, testTokenName, testTokenSymbol, testTokenMetadata, 0, actorOne))

	tests := []chaintest.ActionTest{
		{
			Name:        "zero value",
			Action:      &MintToken{To: actorTwo, Token: tokenAddress},
			Rules:       chaintest.NewRules(),
			State:       store,
			Actor:       actorOne,
			ExpectedErr: ErrOutputValueZero,
		},
		{
			Name:        "non-owner cannot mint",
			Action:      &MintToken{To: actorTwo, Value: 100, Token: tokenAddress},
			Rules:       chaintest.NewRules(),
			State:       store,
			Actor:       actorTwo,
			ExpectedErr: ErrOutputTokenNotOwner,
		},
		{
			Name:   "owner mints",
			Action: &MintToken{To: actorTwo, Value: 100, Token: tokenAddress},
			Rules:  chaintest.NewRules(),
			State:  store,
			Actor:  actorOne,
			Assertion: func(ctx context.Context, t *testing.T, mu state.Mutable) {
				require := require.New(t)
				balance, err := storage.GetTokenBalance(ctx, mu, tokenAddress, actorTwo)
				require.NoError(err)
				require.Equal(uint64(100), balance)
			},
		},
	}
	for _, test := range tests {
		test.Run(ctx, t)
	}
}

func TestTransferToken(t *testing.T) {
	ctx := context.Background()
	req := require.New(t)
	store := chaintest.NewInMemoryStore()
	tokenAddress := storage.TokenAddress(testTokenName, testTokenSymbol, testTokenMetadata)
	req.NoError(storage.SetTokenInfo(ctx, store, tokenAddress, testTokenName, testTokenSymbol, testTokenMetadata, 0, actorOne))
	req.NoError(storage.MintToken(ctx, store, tokenAddress, actorOne, 500))

	tests := []chaintest.ActionTest{
		{
			Name:        "insufficient balance",
			Action:      &TransferToken{To: actorTwo, Value: 1_000, Token: tokenAddress},
			Rules:       chaintest.NewRules(),
			State:       store,
			Actor:       actorOne,
			ExpectedErr: safemath.ErrUnderflow,
		},
		{
			Name:   "valid transfer",
			Action: &TransferToken{To: actorTwo, Value: 200, Token: tokenAddress},
			Rules:  chaintest.NewRules(),
			State:  store,
			Actor:  actorOne,
			Assertion: func(ctx context.Context, t *testing.T, mu state.Mutable) {
				require := require.New(t)
				from, err := storage.GetTokenBalance(ctx, mu, tokenAddress, actorOne)
				require.NoError(err)
				require.Equal(uint64(300), from)
				to, err := storage.GetTokenBalance(ctx, mu, tokenAddress, actorTwo)
				require.NoError(err)
				require.Equal(uint64(200), to)
			},
		},
	}
	for _, test := range tests {
		test.Run(ctx, t)
	}
}
