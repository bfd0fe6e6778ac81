// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"
	"strings"
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/0xhaz/dexvm/chain"
	"github.com/0xhaz/dexvm/chain/chaintest"
	"github.com/0xhaz/dexvm/codec"
	"github.com/0xhaz/dexvm/consts"
	"github.com/0xhaz/dexvm/storage"
)

func TestPoolMetricsRecorded(t *testing.T) {
	ctx := context.Background()
	require := require.New(t)
	store := chaintest.NewInMemoryStore()
	registry := prometheus.NewRegistry()
	metrics, err := chain.NewMetrics(registry)
	require.NoError(err)

	pairAddress, pair := newTestPair(ctx, t, store, actorOne, 1_000_000)
	add := &AddLiquidity{Pair: pairAddress, AmountX: 1_000, AmountY: 4_000, To: actorOne}
	add.Instrument(metrics, nil)
	_, err = chaintest.Execute(ctx, add, chaintest.NewRules(), store, 1_000, actorOne, ids.Empty)
	require.NoError(err)

	require.NoError(storage.TransferToken(ctx, store, pair.TokenX, actorOne, pairAddress, 100))
	swap := &Swap{Pair: pairAddress, AmountYOut: 362, To: actorTwo}
	swap.Instrument(metrics, nil)
	_, err = chaintest.Execute(ctx, swap, chaintest.NewRules(), store, 2_000, actorOne, ids.Empty)
	require.NoError(err)

	expected := `
# HELP dex_liquidity_events number of liquidity additions and removals
# TYPE dex_liquidity_events counter
dex_liquidity_events 1
# HELP dex_swaps number of pool swaps executed
# TYPE dex_swaps counter
dex_swaps 1
`
	require.NoError(testutil.GatherAndCompare(
		registry, strings.NewReader(expected), "dex_liquidity_events", "dex_swaps",
	))
}

func TestQueueMetricsRecorded(t *testing.T) {
	ctx := context.Background()
	require := require.New(t)
	store := chaintest.NewInMemoryStore()
	registry := prometheus.NewRegistry()
	metrics, err := chain.NewMetrics(registry)
	require.NoError(err)

	newTestCollector(ctx, t, store)
	tokenA := newTrackedToken(ctx, t, store, "Stuck Token A")
	tokenB := newTrackedToken(ctx, t, store, "Stuck Token B")
	require.NoError(storage.MintToken(ctx, store, tokenA, storage.CollectorAddress, 500))
	require.NoError(storage.MintToken(ctx, store, tokenB, storage.CollectorAddress, 500))
	update := &FeeUpdateBalances{}
	_, err = chaintest.Execute(ctx, update, chaintest.NewRules(), store, 1_000, actorOne, ids.Empty)
	require.NoError(err)

	// Neither token has a conversion path; the failures trip the breaker.
	process := &FeeProcessQueue{}
	process.Instrument(metrics, nil)
	_, err = chaintest.Execute(ctx, process, chaintest.NewRules(), store, 1_000, actorOne, ids.Empty)
	require.NoError(err)

	expected := `
# HELP dex_circuit_breaker_trips number of times repeated failures paused the collector
# TYPE dex_circuit_breaker_trips counter
dex_circuit_breaker_trips 1
# HELP dex_queue_jobs_failed number of conversion job attempts that failed
# TYPE dex_queue_jobs_failed counter
dex_queue_jobs_failed 5
# HELP dex_queue_jobs_processed number of conversion jobs completed
# TYPE dex_queue_jobs_processed counter
dex_queue_jobs_processed 0
`
	require.NoError(testutil.GatherAndCompare(
		registry, strings.NewReader(expected),
		"dex_circuit_breaker_trips", "dex_queue_jobs_failed", "dex_queue_jobs_processed",
	))
}

func TestDistributionMetricRecorded(t *testing.T) {
	ctx := context.Background()
	require := require.New(t)
	store := chaintest.NewInMemoryStore()
	registry := prometheus.NewRegistry()
	metrics, err := chain.NewMetrics(registry)
	require.NoError(err)

	newTestCollector(ctx, t, store)
	rules := chaintest.NewRules()
	require.NoError(storage.SetVault(ctx, store, &storage.Vault{TeamAccount: collectorOwner}))
	require.NoError(storage.MintToken(ctx, store, storage.CoinAddress, collectorOwner, 10_000))
	enter := &VaultEnter{Amount: 2_000, Recipient: collectorOwner}
	_, err = chaintest.Execute(ctx, enter, rules, store, 0, collectorOwner, ids.Empty)
	require.NoError(err)
	require.NoError(storage.MintToken(ctx, store, storage.CoinAddress, storage.CollectorAddress, 3_000))

	distribute := &FeeDistribute{}
	distribute.Instrument(metrics, nil)
	_, err = chaintest.Execute(ctx, distribute, rules, store, rules.DistributionCooldown, actorOne, ids.Empty)
	require.NoError(err)

	expected := `
# HELP dex_distributions number of fee distributions to the vault
# TYPE dex_distributions counter
dex_distributions 1
`
	require.NoError(testutil.GatherAndCompare(registry, strings.NewReader(expected), "dex_distributions"))
}

func TestFeeCollectLogsFailedPair(t *testing.T) {
	ctx := context.Background()
	require := require.New(t)
	store := chaintest.NewInMemoryStore()
	newTestCollector(ctx, t, store)

	core, logs := observer.New(zapcore.WarnLevel)
	bogus := codec.CreateAddress(consts.PAIRID, ids.GenerateTestID())
	collect := &FeeCollect{Pairs: []codec.Address{bogus}}
	collect.Instrument(nil, zap.New(core))

	outputs, err := chaintest.Execute(ctx, collect, chaintest.NewRules(), store, 1_000, actorOne, ids.Empty)
	require.NoError(err)
	require.Equal([][]byte{{0}}, outputs)
	require.Equal(1, logs.FilterMessage("pair collection failed").Len())
}
