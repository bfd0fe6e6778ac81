// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"

	smath "github.com/ava-labs/avalanchego/utils/math"

	"github.com/0xhaz/dexvm/codec"
	"github.com/0xhaz/dexvm/state"
	"github.com/0xhaz/dexvm/storage"
)

// classifyToken returns the static queue priority and job type for a tracked
// token. Priorities are deliberately not value-weighted; ordering is by asset
// class alone.
func classifyToken(ctx context.Context, im state.Immutable, token codec.Address) (uint64, uint8) {
	switch token {
	case storage.BaseAssetAddress:
		return storage.PriorityBaseAsset, storage.JobTypeRegular
	case storage.CoinAddress:
		return storage.PriorityProtocolCoin, storage.JobTypeRegular
	}
	if _, err := storage.GetPairForToken(ctx, im, token); err == nil {
		return storage.PriorityDefault, storage.JobTypeLP
	}
	return storage.PriorityDefault, storage.JobTypeRegular
}

// enqueueJob adds [amount] of [token] to the processing queue, merging into
// the token's existing job when one is queued. Merging keeps the original
// job's priority, type, and failure history.
func enqueueJob(
	ctx context.Context,
	mu state.Mutable,
	token codec.Address,
	amount uint64,
	timestamp int64,
) error {
	tracking, err := storage.GetTracking(ctx, mu, token)
	if err != nil {
		return err
	}
	jobs, err := storage.GetQueue(ctx, mu)
	if err != nil {
		return err
	}
	if tracking.QueueIndex > 0 {
		// Merge into the existing job and move it to the tail with a fresh
		// priority and timestamp; a token never holds two queue slots.
		job := jobs[tracking.QueueIndex-1]
		merged, err := smath.Add(job.Amount, amount)
		if err != nil {
			return err
		}
		job.Amount = merged
		job.Priority, _ = classifyToken(ctx, mu, token)
		job.Timestamp = timestamp
		jobs = append(jobs[:tracking.QueueIndex-1], jobs[tracking.QueueIndex:]...)
		jobs = append(jobs, job)
	} else {
		priority, jobType := classifyToken(ctx, mu, token)
		gas := estimatedGasRegular
		if jobType == storage.JobTypeLP {
			gas = estimatedGasLP
		}
		jobs = append(jobs, &storage.Job{
			Token:        token,
			Amount:       amount,
			Priority:     priority,
			EstimatedGas: gas,
			Timestamp:    timestamp,
			JobType:      jobType,
		})
	}
	return storage.SetQueue(ctx, mu, jobs, nil)
}

// swapForCollector swaps [amountIn] of [tokenIn] held by the collector for
// [tokenOut] through their pair, crediting the output to the collector.
func swapForCollector(
	ctx context.Context,
	mu state.Mutable,
	tokenIn codec.Address,
	tokenOut codec.Address,
	amountIn uint64,
	timestamp int64,
) (uint64, error) {
	pairAddress, err := storage.PairAddress(tokenIn, tokenOut)
	if err != nil {
		return 0, err
	}
	pair, err := storage.GetPair(ctx, mu, pairAddress)
	if err != nil {
		return 0, ErrOutputNoConversionPath
	}
	if err := storage.AcquireLock(ctx, mu, pairAddress); err != nil {
		return 0, err
	}
	var reserveIn, reserveOut uint64
	if tokenIn == pair.TokenX {
		reserveIn, reserveOut = pair.ReserveX, pair.ReserveY
	} else {
		reserveIn, reserveOut = pair.ReserveY, pair.ReserveX
	}
	amountOut, err := getAmountOut(amountIn, reserveIn, reserveOut)
	if err != nil {
		return 0, err
	}
	if err := storage.TransferToken(ctx, mu, tokenIn, storage.CollectorAddress, pairAddress, amountIn); err != nil {
		return 0, err
	}
	var amountXOut, amountYOut uint64
	if tokenIn == pair.TokenX {
		amountYOut = amountOut
	} else {
		amountXOut = amountOut
	}
	if _, _, err := executeSwap(ctx, mu, pairAddress, pair, amountXOut, amountYOut, storage.CollectorAddress, timestamp, nil); err != nil {
		return 0, err
	}
	if err := storage.ReleaseLock(ctx, mu, pairAddress); err != nil {
		return 0, err
	}
	return amountOut, nil
}

// convertToCoin converts [amount] of [token] held by the collector into
// protocol coin, preferring the direct pair and falling back to routing
// through the base asset. Returns the coin produced.
func convertToCoin(
	ctx context.Context,
	mu state.Mutable,
	token codec.Address,
	amount uint64,
	timestamp int64,
) (uint64, error) {
	if token == storage.CoinAddress {
		return amount, nil
	}
	if direct, err := storage.PairAddress(token, storage.CoinAddress); err == nil && storage.PairExists(ctx, mu, direct) {
		return swapForCollector(ctx, mu, token, storage.CoinAddress, amount, timestamp)
	}
	if token == storage.BaseAssetAddress {
		return 0, ErrOutputNoConversionPath
	}
	viaBase, err := storage.PairAddress(token, storage.BaseAssetAddress)
	if err != nil || !storage.PairExists(ctx, mu, viaBase) {
		return 0, ErrOutputNoConversionPath
	}
	baseToCoin, err := storage.PairAddress(storage.BaseAssetAddress, storage.CoinAddress)
	if err != nil || !storage.PairExists(ctx, mu, baseToCoin) {
		return 0, ErrOutputNoConversionPath
	}
	baseAmount, err := swapForCollector(ctx, mu, token, storage.BaseAssetAddress, amount, timestamp)
	if err != nil {
		return 0, err
	}
	return swapForCollector(ctx, mu, storage.BaseAssetAddress, storage.CoinAddress, baseAmount, timestamp)
}

// processJob converts one queued job's holdings into protocol coin. LP jobs
// are first unwound into their two pool tokens, each converted separately.
func processJob(
	ctx context.Context,
	mu state.Mutable,
	job *storage.Job,
	timestamp int64,
) (uint64, error) {
	if job.JobType != storage.JobTypeLP {
		return convertToCoin(ctx, mu, job.Token, job.Amount, timestamp)
	}
	pairAddress, err := storage.GetPairForToken(ctx, mu, job.Token)
	if err != nil {
		return 0, err
	}
	pair, err := storage.GetPair(ctx, mu, pairAddress)
	if err != nil {
		return 0, err
	}
	if err := storage.AcquireLock(ctx, mu, pairAddress); err != nil {
		return 0, err
	}
	amountX, amountY, err := executeBurn(ctx, mu, pairAddress, pair, storage.CollectorAddress, job.Amount, timestamp)
	if err != nil {
		return 0, err
	}
	if err := storage.ReleaseLock(ctx, mu, pairAddress); err != nil {
		return 0, err
	}
	coinX, err := convertToCoin(ctx, mu, pair.TokenX, amountX, timestamp)
	if err != nil {
		return 0, err
	}
	coinY, err := convertToCoin(ctx, mu, pair.TokenY, amountY, timestamp)
	if err != nil {
		return 0, err
	}
	return smath.Add(coinX, coinY)
}

// distributeCollectedFees moves the collector's whole coin balance into the
// vault accumulator and stamps the distribution time. Callers check the
// cooldown.
func distributeCollectedFees(
	ctx context.Context,
	mu state.Mutable,
	collector *storage.Collector,
	timestamp int64,
) (uint64, error) {
	balance, err := storage.GetTokenBalance(ctx, mu, storage.CoinAddress, storage.CollectorAddress)
	if err != nil {
		return 0, err
	}
	if balance == 0 {
		return 0, ErrOutputNothingToDistribute
	}
	if err := storage.TransferToken(ctx, mu, storage.CoinAddress, storage.CollectorAddress, storage.VaultAddress, balance); err != nil {
		return 0, err
	}
	if err := distributeToVault(ctx, mu, balance); err != nil {
		return 0, err
	}
	collector.LastDistribution = timestamp
	return balance, storage.SetCollector(ctx, mu, collector)
}
