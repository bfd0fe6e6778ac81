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
	"github.com/0xhaz/dexvm/consts"
	"github.com/0xhaz/dexvm/state"
	"github.com/0xhaz/dexvm/storage"
)

var collectorOwner = codec.CreateAddress(0, ids.GenerateTestID())

// newTestCollector initializes the collector and deploys the protocol coin.
func newTestCollector(ctx context.Context, t *testing.T, mu state.Mutable) {
	require := require.New(t)
	require.NoError(storage.SetCollector(ctx, mu, &storage.Collector{Owner: collectorOwner}))
	require.NoError(storage.SetTokenInfo(
		ctx, mu, storage.CoinAddress,
		[]byte(consts.Name), []byte(consts.Symbol), []byte(consts.Metadata),
		0, collectorOwner,
	))
}

// newTrackedToken deploys a fresh token and puts it under tracking.
func newTrackedToken(ctx context.Context, t *testing.T, mu state.Mutable, name string) codec.Address {
	require := require.New(t)
	token := storage.TokenAddress([]byte(name), []byte("FEE"), []byte("fee test token"))
	require.NoError(storage.SetTokenInfo(ctx, mu, token, []byte(name), []byte("FEE"), []byte("fee test token"), 0, collectorOwner))
	track := &FeeTrackToken{Token: token}
	_, err := chaintest.Execute(ctx, track, chaintest.NewRules(), mu, 0, collectorOwner, ids.Empty)
	require.NoError(err)
	return token
}

func TestFeeTrackToken(t *testing.T) {
	ctx := context.Background()
	require := require.New(t)
	store := chaintest.NewInMemoryStore()
	newTestCollector(ctx, t, store)
	token := newTrackedToken(ctx, t, store, "Fee Token")

	// Owner gated
	track := &FeeTrackToken{Token: token}
	_, err := chaintest.Execute(ctx, track, chaintest.NewRules(), store, 0, actorOne, ids.Empty)
	require.ErrorIs(err, ErrOutputNotCollectorOwner)

	// Idempotence
	_, err = chaintest.Execute(ctx, track, chaintest.NewRules(), store, 0, collectorOwner, ids.Empty)
	require.ErrorIs(err, ErrOutputAlreadyTracked)

	tracking, err := storage.GetTracking(ctx, store, token)
	require.NoError(err)
	require.Zero(tracking.LastProcessedBalance)
	require.Zero(tracking.PendingBalance)
	require.Zero(tracking.QueueIndex)
}

func TestFeeUpdateBalancesMerges(t *testing.T) {
	ctx := context.Background()
	require := require.New(t)
	store := chaintest.NewInMemoryStore()
	newTestCollector(ctx, t, store)
	token := newTrackedToken(ctx, t, store, "Fee Token")

	// First delta opens a job.
	require.NoError(storage.MintToken(ctx, store, token, storage.CollectorAddress, 400))
	update := &FeeUpdateBalances{}
	outputs, err := chaintest.Execute(ctx, update, chaintest.NewRules(), store, 1_000, actorOne, ids.Empty)
	require.NoError(err)
	require.Equal([][]byte{packUint64(1)}, outputs)

	jobs, err := storage.GetQueue(ctx, store)
	require.NoError(err)
	require.Len(jobs, 1)
	require.Equal(token, jobs[0].Token)
	require.Equal(uint64(400), jobs[0].Amount)
	require.Equal(storage.PriorityDefault, jobs[0].Priority)
	require.Equal(storage.JobTypeRegular, jobs[0].JobType)

	// Second delta merges into the same slot instead of duplicating.
	require.NoError(storage.MintToken(ctx, store, token, storage.CollectorAddress, 200))
	_, err = chaintest.Execute(ctx, update, chaintest.NewRules(), store, 2_000, actorOne, ids.Empty)
	require.NoError(err)

	jobs, err = storage.GetQueue(ctx, store)
	require.NoError(err)
	require.Len(jobs, 1)
	require.Equal(uint64(600), jobs[0].Amount)
	require.Equal(int64(2_000), jobs[0].Timestamp)

	tracking, err := storage.GetTracking(ctx, store, token)
	require.NoError(err)
	require.Equal(uint64(600), tracking.PendingBalance)
	require.Equal(uint64(600), tracking.LastProcessedBalance)
	require.Equal(uint16(1), tracking.QueueIndex)

	// No growth, no work.
	outputs, err = chaintest.Execute(ctx, update, chaintest.NewRules(), store, 3_000, actorOne, ids.Empty)
	require.NoError(err)
	require.Equal([][]byte{packUint64(0)}, outputs)
}

func TestFeeQueuePriorityOrder(t *testing.T) {
	ctx := context.Background()
	require := require.New(t)
	store := chaintest.NewInMemoryStore()
	newTestCollector(ctx, t, store)

	// The base asset outranks arbitrary tokens regardless of arrival order.
	require.NoError(storage.SetTokenInfo(
		ctx, store, storage.BaseAssetAddress,
		[]byte(consts.Name), []byte(consts.BaseSymbol), []byte(consts.BaseMetadata),
		0, collectorOwner,
	))
	other := newTrackedToken(ctx, t, store, "Other Token")
	track := &FeeTrackToken{Token: storage.BaseAssetAddress}
	_, err := chaintest.Execute(ctx, track, chaintest.NewRules(), store, 0, collectorOwner, ids.Empty)
	require.NoError(err)

	require.NoError(storage.MintToken(ctx, store, other, storage.CollectorAddress, 100))
	require.NoError(storage.MintToken(ctx, store, storage.BaseAssetAddress, storage.CollectorAddress, 100))
	update := &FeeUpdateBalances{}
	_, err = chaintest.Execute(ctx, update, chaintest.NewRules(), store, 1_000, actorOne, ids.Empty)
	require.NoError(err)

	jobs, err := storage.GetQueue(ctx, store)
	require.NoError(err)
	require.Len(jobs, 2)
	require.Equal(storage.PriorityBaseAsset, jobs[1].Priority)

	// Processing pops the base-asset job first even though it sits last.
	// Both fail (no conversion pairs exist), so failure order shows the sort.
	process := &FeeProcessQueue{MaxJobs: 1}
	_, err = chaintest.Execute(ctx, process, chaintest.NewRules(), store, 1_000, actorOne, ids.Empty)
	require.NoError(err)

	jobs, err = storage.GetQueue(ctx, store)
	require.NoError(err)
	require.Len(jobs, 2)
	// The demoted base-asset job was re-appended behind the untouched one.
	require.Equal(storage.BaseAssetAddress, jobs[1].Token)
	require.Equal(storage.PriorityBaseAsset/2, jobs[1].Priority)
	require.Equal(uint8(1), jobs[1].FailureCount)
}

func TestFeeQueueJobAbandonment(t *testing.T) {
	ctx := context.Background()
	require := require.New(t)
	store := chaintest.NewInMemoryStore()
	newTestCollector(ctx, t, store)
	token := newTrackedToken(ctx, t, store, "Stuck Token")

	require.NoError(storage.MintToken(ctx, store, token, storage.CollectorAddress, 500))
	update := &FeeUpdateBalances{}
	_, err := chaintest.Execute(ctx, update, chaintest.NewRules(), store, 1_000, actorOne, ids.Empty)
	require.NoError(err)

	// No conversion path: three strikes and the job is gone for good.
	process := &FeeProcessQueue{}
	outputs, err := chaintest.Execute(ctx, process, chaintest.NewRules(), store, 1_000, actorOne, ids.Empty)
	require.NoError(err)
	require.Equal([][]byte{packUint64(0), packUint64(3)}, outputs)

	jobs, err := storage.GetQueue(ctx, store)
	require.NoError(err)
	require.Empty(jobs)

	tracking, err := storage.GetTracking(ctx, store, token)
	require.NoError(err)
	require.Zero(tracking.QueueIndex)

	collector, err := storage.GetCollector(ctx, store)
	require.NoError(err)
	require.False(collector.Paused)
	require.Equal(uint8(3), collector.FailureCount)
}

func TestFeeQueueCircuitBreaker(t *testing.T) {
	ctx := context.Background()
	require := require.New(t)
	store := chaintest.NewInMemoryStore()
	newTestCollector(ctx, t, store)
	tokenA := newTrackedToken(ctx, t, store, "Stuck Token A")
	tokenB := newTrackedToken(ctx, t, store, "Stuck Token B")

	require.NoError(storage.MintToken(ctx, store, tokenA, storage.CollectorAddress, 500))
	require.NoError(storage.MintToken(ctx, store, tokenB, storage.CollectorAddress, 500))
	update := &FeeUpdateBalances{}
	_, err := chaintest.Execute(ctx, update, chaintest.NewRules(), store, 1_000, actorOne, ids.Empty)
	require.NoError(err)

	// Alternating failures across two jobs hit the global threshold before
	// either job reaches its own abandonment strike count.
	process := &FeeProcessQueue{}
	outputs, err := chaintest.Execute(ctx, process, chaintest.NewRules(), store, 1_000, actorOne, ids.Empty)
	require.NoError(err)
	require.Equal([][]byte{packUint64(0), packUint64(5)}, outputs)

	collector, err := storage.GetCollector(ctx, store)
	require.NoError(err)
	require.True(collector.Paused)
	require.Equal(uint8(5), collector.FailureCount)

	// Tripped breaker blocks further processing until the owner resumes.
	_, err = chaintest.Execute(ctx, process, chaintest.NewRules(), store, 2_000, actorOne, ids.Empty)
	require.ErrorIs(err, ErrOutputCollectorPaused)

	resume := &FeeResume{}
	_, err = chaintest.Execute(ctx, resume, chaintest.NewRules(), store, 2_000, collectorOwner, ids.Empty)
	require.NoError(err)
	collector, err = storage.GetCollector(ctx, store)
	require.NoError(err)
	require.False(collector.Paused)
	require.Zero(collector.FailureCount)
}

func TestFeeProcessQueueConvertsAndDistributes(t *testing.T) {
	ctx := context.Background()
	require := require.New(t)
	store := chaintest.NewInMemoryStore()
	newTestCollector(ctx, t, store)
	token := newTrackedToken(ctx, t, store, "Earning Token")
	rules := chaintest.NewRules()

	// A funded token/coin pair gives the queue its conversion path.
	require.NoError(storage.MintToken(ctx, store, token, collectorOwner, 1_000_000))
	require.NoError(storage.MintToken(ctx, store, storage.CoinAddress, collectorOwner, 1_000_000))
	createPair := &CreatePair{TokenA: token, TokenB: storage.CoinAddress}
	_, err := chaintest.Execute(ctx, createPair, rules, store, 0, collectorOwner, ids.Empty)
	require.NoError(err)
	pairAddress, err := storage.PairAddress(token, storage.CoinAddress)
	require.NoError(err)
	add := &AddLiquidity{Pair: pairAddress, AmountX: 100_000, AmountY: 100_000, To: collectorOwner}
	_, err = chaintest.Execute(ctx, add, rules, store, 0, collectorOwner, ids.Empty)
	require.NoError(err)

	// A staker so distribution has someone to pay.
	require.NoError(storage.SetVault(ctx, store, &storage.Vault{TeamAccount: collectorOwner}))
	enter := &VaultEnter{Amount: 2_000, Recipient: collectorOwner}
	_, err = chaintest.Execute(ctx, enter, rules, store, 0, collectorOwner, ids.Empty)
	require.NoError(err)

	// Fees arrive, get queued, and convert to coin.
	require.NoError(storage.MintToken(ctx, store, token, storage.CollectorAddress, 10_000))
	update := &FeeUpdateBalances{}
	_, err = chaintest.Execute(ctx, update, rules, store, 1_000, actorOne, ids.Empty)
	require.NoError(err)

	process := &FeeProcessQueue{}
	outputs, err := chaintest.Execute(ctx, process, rules, store, rules.DistributionCooldown, actorOne, ids.Empty)
	require.NoError(err)
	require.Equal([][]byte{packUint64(1), packUint64(0)}, outputs)

	// The cooldown had elapsed, so proceeds went straight to the vault.
	collectorCoin, err := storage.GetTokenBalance(ctx, store, storage.CoinAddress, storage.CollectorAddress)
	require.NoError(err)
	require.Zero(collectorCoin)

	vault, err := storage.GetVault(ctx, store)
	require.NoError(err)
	require.Positive(vault.AccFeesPerShare)
	require.Positive(vault.TotalUnclaimedFees)

	collector, err := storage.GetCollector(ctx, store)
	require.NoError(err)
	require.Equal(uint64(1), collector.TotalProcessed)
	require.Equal(rules.DistributionCooldown, collector.LastDistribution)

	tracking, err := storage.GetTracking(ctx, store, token)
	require.NoError(err)
	require.Zero(tracking.PendingBalance)
	require.Zero(tracking.QueueIndex)
	require.Zero(tracking.LastProcessedBalance)

	jobs, err := storage.GetQueue(ctx, store)
	require.NoError(err)
	require.Empty(jobs)
}

func TestFeeCollectSweepsPairs(t *testing.T) {
	ctx := context.Background()
	require := require.New(t)
	store := chaintest.NewInMemoryStore()
	newTestCollector(ctx, t, store)
	rules := chaintest.NewRules()
	pairAddress, _ := newTestPair(ctx, t, store, actorOne, 1_000_000)

	add := &AddLiquidity{Pair: pairAddress, AmountX: 1_000, AmountY: 4_000, To: actorOne}
	_, err := chaintest.Execute(ctx, add, rules, store, 0, actorOne, ids.Empty)
	require.NoError(err)

	bogus := codec.CreateAddress(consts.PAIRID, ids.GenerateTestID())
	collect := &FeeCollect{Pairs: []codec.Address{pairAddress, bogus}}
	outputs, err := chaintest.Execute(ctx, collect, rules, store, 1_000, actorOne, ids.Empty)
	require.NoError(err)

	// The healthy pair succeeds; the bogus one fails without aborting.
	require.Equal([][]byte{{1}, {0}}, outputs)

	// Batch bound enforced.
	oversized := make([]codec.Address, rules.MaxPairsPerCollection+1)
	collect = &FeeCollect{Pairs: oversized}
	_, err = chaintest.Execute(ctx, collect, rules, store, 1_000, actorOne, ids.Empty)
	require.ErrorIs(err, ErrOutputTooManyPairs)
}

func TestFeeDistributeCooldown(t *testing.T) {
	ctx := context.Background()
	require := require.New(t)
	store := chaintest.NewInMemoryStore()
	newTestCollector(ctx, t, store)
	rules := chaintest.NewRules()

	require.NoError(storage.SetVault(ctx, store, &storage.Vault{TeamAccount: collectorOwner}))
	require.NoError(storage.MintToken(ctx, store, storage.CoinAddress, collectorOwner, 10_000))
	enter := &VaultEnter{Amount: 2_000, Recipient: collectorOwner}
	_, err := chaintest.Execute(ctx, enter, rules, store, 0, collectorOwner, ids.Empty)
	require.NoError(err)

	require.NoError(storage.MintToken(ctx, store, storage.CoinAddress, storage.CollectorAddress, 3_000))

	distribute := &FeeDistribute{}
	_, err = chaintest.Execute(ctx, distribute, rules, store, rules.DistributionCooldown-1, actorOne, ids.Empty)
	require.ErrorIs(err, ErrOutputDistributionCooldown)

	outputs, err := chaintest.Execute(ctx, distribute, rules, store, rules.DistributionCooldown, actorOne, ids.Empty)
	require.NoError(err)
	require.Equal([][]byte{packUint64(3_000)}, outputs)

	vault, err := storage.GetVault(ctx, store)
	require.NoError(err)
	require.Equal(uint64(3_000), vault.TotalUnclaimedFees)

	// Claiming the distributed fees works end to end.
	claim := &VaultClaim{}
	outputs, err = chaintest.Execute(ctx, claim, rules, store, rules.DistributionCooldown, collectorOwner, ids.Empty)
	require.NoError(err)
	require.Equal([][]byte{packUint64(3_000)}, outputs)
}
