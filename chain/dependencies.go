// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"context"

	"github.com/ava-labs/avalanchego/ids"
	"go.uber.org/zap"

	"github.com/0xhaz/dexvm/codec"
	"github.com/0xhaz/dexvm/state"
)

// Action is a single atomic state transition. Execute observes and mutates
// state only through [mu]; if it returns an error the caller discards every
// buffered mutation, so a failed action can never leave partial state behind.
type Action interface {
	// GetTypeID uniquely identifies each supported action.
	GetTypeID() uint8

	// ComputeUnits is the execution cost charged for the action.
	ComputeUnits(Rules) uint64

	// ValidRange is the timestamp range [start, end] this action is valid
	// within. -1 means the value is not set.
	ValidRange(Rules) (start int64, end int64)

	// Execute performs the transition. [timestamp] is the chain time in
	// milliseconds, [actor] is the authenticated caller, and [actionID] is
	// unique to this invocation.
	Execute(
		ctx context.Context,
		r Rules,
		mu state.Mutable,
		timestamp int64,
		actor codec.Address,
		actionID ids.ID,
	) (outputs [][]byte, err error)
}

// Instrumented is implemented by actions that record domain metrics or emit
// structured events while executing. The processor hands its handles to the
// action right before Execute.
type Instrumented interface {
	Instrument(*Metrics, *zap.Logger)
}

// Rules carry the chain-time parameters actions consult. They are sourced
// from genesis and fixed for the life of a deployment.
type Rules interface {
	// Staking vault
	GetMinimumFirstStake() uint64
	GetMinimumWithdrawAmount() uint64
	GetTeamLockDuration() int64 // ms

	// Fee collector
	GetMaxPairsPerCollection() int
	GetMaxJobsPerProcess() int
	GetGlobalFailureThreshold() uint8
	GetJobAbandonThreshold() uint8
	GetDistributionCooldown() int64 // ms
}
