// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/stretchr/testify/require"

	"github.com/0xhaz/dexvm/chain/chaintest"
	"github.com/0xhaz/dexvm/codec"
	"github.com/0xhaz/dexvm/state"
	"github.com/0xhaz/dexvm/storage"
)

// newTestPair creates two tokens, mints [supply] of each to [actor], and
// deploys their pair. Returns the pair in canonical token order.
func newTestPair(ctx context.Context, t *testing.T, mu state.Mutable, actor codec.Address, supply uint64) (codec.Address, *storage.Pair) {
	require := require.New(t)
	nameA, nameB := []byte("Token A"), []byte("Token B")
	symbol := []byte("TKN")
	metadata := []byte("test pool token")
	tokenA := storage.TokenAddress(nameA, symbol, metadata)
	tokenB := storage.TokenAddress(nameB, symbol, metadata)
	require.NoError(storage.SetTokenInfo(ctx, mu, tokenA, nameA, symbol, metadata, 0, actor))
	require.NoError(storage.SetTokenInfo(ctx, mu, tokenB, nameB, symbol, metadata, 0, actor))
	require.NoError(storage.MintToken(ctx, mu, tokenA, actor, supply))
	require.NoError(storage.MintToken(ctx, mu, tokenB, actor, supply))

	createPair := &CreatePair{TokenA: tokenA, TokenB: tokenB}
	outputs, err := chaintest.Execute(ctx, createPair, chaintest.NewRules(), mu, 0, actor, ids.Empty)
	require.NoError(err)
	require.Len(outputs, 2)
	pairAddress := codec.Address(outputs[0])
	pair, err := storage.GetPair(ctx, mu, pairAddress)
	require.NoError(err)
	return pairAddress, pair
}

func TestCreatePair(t *testing.T) {
	ctx := context.Background()
	require := require.New(t)
	store := chaintest.NewInMemoryStore()

	pairAddress, pair := newTestPair(ctx, t, store, actorOne, 1_000_000)
	require.Equal(storage.LessThan, storage.CompareAddress(pair.TokenX, pair.TokenY))
	require.Equal(storage.PairTokenAddress(pairAddress), pair.LPToken)

	// LP token resolves back to its pair
	resolved, err := storage.GetPairForToken(ctx, store, pair.LPToken)
	require.NoError(err)
	require.Equal(pairAddress, resolved)

	// Re-creation fails
	createPair := &CreatePair{TokenA: pair.TokenX, TokenB: pair.TokenY}
	_, err = chaintest.Execute(ctx, createPair, chaintest.NewRules(), store, 0, actorOne, ids.Empty)
	require.ErrorIs(err, ErrOutputPairAlreadyExists)

	// Identical tokens fail
	createPair = &CreatePair{TokenA: pair.TokenX, TokenB: pair.TokenX}
	_, err = chaintest.Execute(ctx, createPair, chaintest.NewRules(), store, 0, actorOne, ids.Empty)
	require.ErrorIs(err, storage.ErrIdenticalAddresses)
}

func TestAddLiquidityFirstMint(t *testing.T) {
	ctx := context.Background()
	require := require.New(t)
	store := chaintest.NewInMemoryStore()
	pairAddress, pair := newTestPair(ctx, t, store, actorOne, 1_000_000)

	// sqrt(1000*4000) = 2000; minus the locked minimum leaves 1000.
	add := &AddLiquidity{Pair: pairAddress, AmountX: 1_000, AmountY: 4_000, To: actorOne}
	outputs, err := chaintest.Execute(ctx, add, chaintest.NewRules(), store, 1_000, actorOne, ids.Empty)
	require.NoError(err)
	require.Equal([][]byte{packUint64(1_000)}, outputs)

	lpBalance, err := storage.GetTokenBalance(ctx, store, pair.LPToken, actorOne)
	require.NoError(err)
	require.Equal(uint64(1_000), lpBalance)

	locked, err := storage.GetTokenBalance(ctx, store, pair.LPToken, codec.EmptyAddress)
	require.NoError(err)
	require.Equal(storage.MinimumLiquidity, locked)

	updated, err := storage.GetPair(ctx, store, pairAddress)
	require.NoError(err)
	require.Equal(uint64(1_000), updated.ReserveX)
	require.Equal(uint64(4_000), updated.ReserveY)
	require.Equal("4000000", updated.KLast.String())
}

func TestAddLiquidityTooSmall(t *testing.T) {
	ctx := context.Background()
	require := require.New(t)
	store := chaintest.NewInMemoryStore()
	pairAddress, _ := newTestPair(ctx, t, store, actorOne, 1_000_000)

	// sqrt(10*10) is under the locked minimum.
	add := &AddLiquidity{Pair: pairAddress, AmountX: 10, AmountY: 10, To: actorOne}
	_, err := chaintest.Execute(ctx, add, chaintest.NewRules(), store, 1_000, actorOne, ids.Empty)
	require.ErrorIs(err, ErrOutputInsufficientLiquidityMinted)
}

func TestSwap(t *testing.T) {
	ctx := context.Background()
	require := require.New(t)
	store := chaintest.NewInMemoryStore()
	pairAddress, pair := newTestPair(ctx, t, store, actorOne, 1_000_000)

	add := &AddLiquidity{Pair: pairAddress, AmountX: 1_000, AmountY: 4_000, To: actorOne}
	_, err := chaintest.Execute(ctx, add, chaintest.NewRules(), store, 1_000, actorOne, ids.Empty)
	require.NoError(err)

	// Pay 100 X in, priced by the fee-adjusted formula.
	amountOut, err := getAmountOut(100, 1_000, 4_000)
	require.NoError(err)
	require.Equal(uint64(362), amountOut)

	require.NoError(storage.TransferToken(ctx, store, pair.TokenX, actorOne, pairAddress, 100))
	swap := &Swap{Pair: pairAddress, AmountYOut: amountOut, To: actorTwo}
	outputs, err := chaintest.Execute(ctx, swap, chaintest.NewRules(), store, 2_000, actorOne, ids.Empty)
	require.NoError(err)
	require.Equal([][]byte{packUint64(100), packUint64(0)}, outputs)

	received, err := storage.GetTokenBalance(ctx, store, pair.TokenY, actorTwo)
	require.NoError(err)
	require.Equal(amountOut, received)

	updated, err := storage.GetPair(ctx, store, pairAddress)
	require.NoError(err)
	require.Equal(uint64(1_100), updated.ReserveX)
	require.Equal(uint64(4_000)-amountOut, updated.ReserveY)
}

func TestSwapRejectsExcessOutput(t *testing.T) {
	ctx := context.Background()
	require := require.New(t)
	store := chaintest.NewInMemoryStore()
	pairAddress, pair := newTestPair(ctx, t, store, actorOne, 1_000_000)

	add := &AddLiquidity{Pair: pairAddress, AmountX: 1_000, AmountY: 4_000, To: actorOne}
	_, err := chaintest.Execute(ctx, add, chaintest.NewRules(), store, 1_000, actorOne, ids.Empty)
	require.NoError(err)

	// Asking for more than the fair output must fail the product check.
	require.NoError(storage.TransferToken(ctx, store, pair.TokenX, actorOne, pairAddress, 100))
	swap := &Swap{Pair: pairAddress, AmountYOut: 400, To: actorTwo}
	_, err = chaintest.Execute(ctx, swap, chaintest.NewRules(), store, 2_000, actorOne, ids.Empty)
	require.ErrorIs(err, ErrOutputKValueCheckFailed)
}

func TestRemoveLiquidity(t *testing.T) {
	ctx := context.Background()
	require := require.New(t)
	store := chaintest.NewInMemoryStore()
	pairAddress, pair := newTestPair(ctx, t, store, actorOne, 1_000_000)

	add := &AddLiquidity{Pair: pairAddress, AmountX: 1_000, AmountY: 4_000, To: actorOne}
	_, err := chaintest.Execute(ctx, add, chaintest.NewRules(), store, 1_000, actorOne, ids.Empty)
	require.NoError(err)

	// 1000 of 2000 total shares redeems half of each balance.
	remove := &RemoveLiquidity{Pair: pairAddress, Liquidity: 1_000}
	outputs, err := chaintest.Execute(ctx, remove, chaintest.NewRules(), store, 2_000, actorOne, ids.Empty)
	require.NoError(err)
	require.Equal([][]byte{packUint64(500), packUint64(2_000)}, outputs)

	lpBalance, err := storage.GetTokenBalance(ctx, store, pair.LPToken, actorOne)
	require.NoError(err)
	require.Zero(lpBalance)

	updated, err := storage.GetPair(ctx, store, pairAddress)
	require.NoError(err)
	require.Equal(uint64(500), updated.ReserveX)
	require.Equal(uint64(2_000), updated.ReserveY)
}

func TestSkimPair(t *testing.T) {
	ctx := context.Background()
	require := require.New(t)
	store := chaintest.NewInMemoryStore()
	pairAddress, pair := newTestPair(ctx, t, store, actorOne, 1_000_000)

	add := &AddLiquidity{Pair: pairAddress, AmountX: 1_000, AmountY: 4_000, To: actorOne}
	_, err := chaintest.Execute(ctx, add, chaintest.NewRules(), store, 1_000, actorOne, ids.Empty)
	require.NoError(err)

	// Drift the balances past the reserves, then sweep the excess.
	require.NoError(storage.TransferToken(ctx, store, pair.TokenX, actorOne, pairAddress, 50))
	skim := &SkimPair{Pair: pairAddress, To: actorTwo}
	outputs, err := chaintest.Execute(ctx, skim, chaintest.NewRules(), store, 2_000, actorOne, ids.Empty)
	require.NoError(err)
	require.Equal([][]byte{packUint64(50), packUint64(0)}, outputs)

	skimmed, err := storage.GetTokenBalance(ctx, store, pair.TokenX, actorTwo)
	require.NoError(err)
	require.Equal(uint64(50), skimmed)
}

func TestSyncPair(t *testing.T) {
	ctx := context.Background()
	require := require.New(t)
	store := chaintest.NewInMemoryStore()
	pairAddress, pair := newTestPair(ctx, t, store, actorOne, 1_000_000)

	add := &AddLiquidity{Pair: pairAddress, AmountX: 1_000, AmountY: 4_000, To: actorOne}
	_, err := chaintest.Execute(ctx, add, chaintest.NewRules(), store, 1_000, actorOne, ids.Empty)
	require.NoError(err)

	require.NoError(storage.TransferToken(ctx, store, pair.TokenX, actorOne, pairAddress, 50))
	sync := &SyncPair{Pair: pairAddress}
	_, err = chaintest.Execute(ctx, sync, chaintest.NewRules(), store, 10_000, actorOne, ids.Empty)
	require.NoError(err)

	updated, err := storage.GetPair(ctx, store, pairAddress)
	require.NoError(err)
	require.Equal(uint64(1_050), updated.ReserveX)
	require.Equal(uint64(4_000), updated.ReserveY)

	// Nine elapsed seconds of price accumulation at the old reserves.
	require.Positive(updated.PriceXCumulative.Sign())
	require.Positive(updated.PriceYCumulative.Sign())
}
