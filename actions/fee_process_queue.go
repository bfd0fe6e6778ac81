// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"
	"sort"

	"github.com/ava-labs/avalanchego/ids"
	"go.uber.org/zap"

	"github.com/0xhaz/dexvm/chain"
	"github.com/0xhaz/dexvm/codec"
	"github.com/0xhaz/dexvm/consts"
	"github.com/0xhaz/dexvm/fixedpoint"
	"github.com/0xhaz/dexvm/state"
	"github.com/0xhaz/dexvm/state/tstate"
	"github.com/0xhaz/dexvm/storage"
)

var _ chain.Action = (*FeeProcessQueue)(nil)

// FeeProcessQueue drains up to MaxJobs queued conversion jobs in descending
// priority order. Each job runs in its own buffered view; a failing job is
// demoted and retried, abandoned after repeated failure, and repeated
// failures across jobs trip the circuit breaker.
type FeeProcessQueue struct {
	// MaxJobs is clamped to the batch cap; zero means the cap.
	MaxJobs uint8 `json:"maxJobs"`

	metrics *chain.Metrics
}

// Instrument implements chain.Instrumented.
func (f *FeeProcessQueue) Instrument(m *chain.Metrics, _ *zap.Logger) {
	f.metrics = m
}

// ComputeUnits implements chain.Action.
func (*FeeProcessQueue) ComputeUnits(chain.Rules) uint64 {
	return FeeProcessQueueComputeUnits
}

// Execute implements chain.Action.
// Outputs: jobs processed successfully, followed by jobs failed.
func (f *FeeProcessQueue) Execute(ctx context.Context, r chain.Rules, mu state.Mutable, timestamp int64, _ codec.Address, _ ids.ID) ([][]byte, error) {
	collector, err := storage.GetCollector(ctx, mu)
	if err != nil {
		return nil, ErrOutputCollectorNotInitialized
	}
	if collector.Paused {
		return nil, ErrOutputCollectorPaused
	}
	if err := storage.AcquireLock(ctx, mu, storage.CollectorAddress); err != nil {
		return nil, err
	}

	maxJobs := int(f.MaxJobs)
	if maxJobs == 0 || maxJobs > r.GetMaxJobsPerProcess() {
		maxJobs = r.GetMaxJobsPerProcess()
	}

	jobs, err := storage.GetQueue(ctx, mu)
	if err != nil {
		return nil, err
	}
	// Stable so equal-priority jobs keep their arrival order.
	sort.SliceStable(jobs, func(i, j int) bool {
		return jobs[i].Priority > jobs[j].Priority
	})

	var (
		succeeded uint64
		failed    uint64
		removed   []codec.Address
	)
	for attempts := 0; len(jobs) > 0 && attempts < maxJobs; attempts++ {
		job := jobs[0]
		jobs = jobs[1:]

		view := tstate.New(mu)
		if err := runQueuedJob(ctx, view, job, timestamp); err == nil {
			if err := view.Commit(ctx, mu); err != nil {
				return nil, err
			}
			collector.FailureCount = 0
			collector.TotalProcessed++
			removed = append(removed, job.Token)
			succeeded++
			continue
		}
		// The buffered view is the isolation boundary: discarding it undoes
		// the optimistic pending-balance decrement and any partial swaps.
		view.Discard()
		failed++
		job.FailureCount++
		collector.FailureCount++
		if collector.FailureCount >= r.GetGlobalFailureThreshold() {
			collector.Paused = true
			f.metrics.IncBreakerTrips()
			jobs = append(jobs, job)
			break
		}
		if job.FailureCount >= r.GetJobAbandonThreshold() {
			removed = append(removed, job.Token)
			continue
		}
		job.Priority /= 2
		jobs = append(jobs, job)
	}

	if err := storage.SetQueue(ctx, mu, jobs, removed); err != nil {
		return nil, err
	}
	if err := storage.SetCollector(ctx, mu, collector); err != nil {
		return nil, err
	}
	if !collector.Paused {
		if err := tryAutoDistribute(ctx, mu, collector, r, timestamp, f.metrics); err != nil {
			return nil, err
		}
	}
	if err := storage.ReleaseLock(ctx, mu, storage.CollectorAddress); err != nil {
		return nil, err
	}
	f.metrics.AddJobsProcessed(succeeded)
	f.metrics.AddJobsFailed(failed)
	return [][]byte{packUint64(succeeded), packUint64(failed)}, nil
}

// runQueuedJob validates the job against its tracked pending balance, clamps
// the processed amount to the live balance, converts, and resyncs the
// tracking baseline. Runs entirely inside the caller's buffered view.
func runQueuedJob(
	ctx context.Context,
	mu state.Mutable,
	job *storage.Job,
	timestamp int64,
) error {
	tracking, err := storage.GetTracking(ctx, mu, job.Token)
	if err != nil {
		return err
	}
	if tracking.PendingBalance < job.Amount {
		return ErrOutputInsufficientPending
	}
	live, err := storage.GetTokenBalance(ctx, mu, job.Token, storage.CollectorAddress)
	if err != nil {
		return err
	}
	amount := fixedpoint.Min(job.Amount, live)
	if amount == 0 {
		return ErrOutputNothingToProcess
	}
	tracking.PendingBalance -= job.Amount

	work := *job
	work.Amount = amount
	if _, err := processJob(ctx, mu, &work, timestamp); err != nil {
		return err
	}

	// Conversion moved tokens out of the collector; realign the baseline so
	// the next scan does not read the spend as a delta.
	live, err = storage.GetTokenBalance(ctx, mu, job.Token, storage.CollectorAddress)
	if err != nil {
		return err
	}
	tracking.LastProcessedBalance = live
	return storage.SetTracking(ctx, mu, job.Token, tracking)
}

// tryAutoDistribute forwards collected coin to the vault when the cooldown
// has elapsed. All skip conditions are silent; distribution is opportunistic
// here.
func tryAutoDistribute(
	ctx context.Context,
	mu state.Mutable,
	collector *storage.Collector,
	r chain.Rules,
	timestamp int64,
	metrics *chain.Metrics,
) error {
	if timestamp < collector.LastDistribution+r.GetDistributionCooldown() {
		return nil
	}
	balance, err := storage.GetTokenBalance(ctx, mu, storage.CoinAddress, storage.CollectorAddress)
	if err != nil {
		return err
	}
	if balance == 0 {
		return nil
	}
	vault, err := storage.GetVault(ctx, mu)
	if err != nil || vault.TotalShares == 0 {
		return nil
	}
	if _, err := distributeCollectedFees(ctx, mu, collector, timestamp); err != nil {
		return err
	}
	metrics.IncDistributions()
	return nil
}

// GetTypeID implements chain.Action.
func (*FeeProcessQueue) GetTypeID() uint8 {
	return consts.FeeProcessQueueID
}

// ValidRange implements chain.Action.
func (*FeeProcessQueue) ValidRange(chain.Rules) (int64, int64) {
	return -1, -1
}
